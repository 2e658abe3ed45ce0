package repository

import (
	"gorm.io/gorm"

	"github.com/sameed619/FMS/internal/factory/entity"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) GetByID(id string) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := r.db.Where("id = ?", id).First(&item).Error
	return &item, err
}

func (r *InventoryRepository) GetByCode(code string) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := r.db.Where("item_code = ?", code).First(&item).Error
	return &item, err
}

type InventoryListParams struct {
	ItemType string
	Keyword  string
	LowStock bool
	Page     int
	Size     int
}

func (r *InventoryRepository) List(params InventoryListParams) ([]entity.InventoryItem, int64, error) {
	query := r.db.Model(&entity.InventoryItem{})
	if params.ItemType != "" {
		query = query.Where("item_type = ?", params.ItemType)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("item_code ILIKE ? OR name ILIKE ? OR supplier ILIKE ?", kw, kw, kw)
	}
	if params.LowStock {
		query = query.Where("stock_qty <= 0")
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.InventoryItem
	err := query.Order("item_code").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}

// ListAll returns every item ordered by code, for stock snapshots and exports.
func (r *InventoryRepository) ListAll() ([]entity.InventoryItem, error) {
	var items []entity.InventoryItem
	err := r.db.Order("item_code").Find(&items).Error
	return items, err
}

func (r *InventoryRepository) Create(item *entity.InventoryItem) error {
	return r.db.Create(item).Error
}

func (r *InventoryRepository) Update(item *entity.InventoryItem) error {
	return r.db.Save(item).Error
}

func (r *InventoryRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.InventoryItem{}).Error
}

// References lists the tables holding rows that point at the item. Items
// with references cannot be deleted.
func (r *InventoryRepository) References(id string) ([]string, error) {
	checks := []struct {
		table string
		model interface{}
	}{
		{"recipe_materials", &entity.RecipeMaterial{}},
		{"purchase_items", &entity.PurchaseItem{}},
		{"consumed_items", &entity.ConsumedItem{}},
	}
	var tables []string
	for _, p := range checks {
		var n int64
		if err := r.db.Model(p.model).Where("item_id = ?", id).Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			tables = append(tables, p.table)
		}
	}
	return tables, nil
}

func (r *InventoryRepository) ListMovements(itemID string, page, size int) ([]entity.StockMovement, int64, error) {
	query := r.db.Model(&entity.StockMovement{}).Where("item_id = ?", itemID)
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var movements []entity.StockMovement
	err := query.Order("created_at DESC").
		Offset((page - 1) * size).Limit(size).Find(&movements).Error
	return movements, total, err
}
