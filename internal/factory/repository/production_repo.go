package repository

import (
	"gorm.io/gorm"

	"github.com/sameed619/FMS/internal/factory/entity"
)

type ProductionRepository struct {
	db *gorm.DB
}

func NewProductionRepository(db *gorm.DB) *ProductionRepository {
	return &ProductionRepository{db: db}
}

func (r *ProductionRepository) GetByID(id string) (*entity.ProductionOrder, error) {
	var order entity.ProductionOrder
	err := r.db.Preload("Recipe").Preload("Machine").Preload("ConsumedItems.Item").
		Where("id = ?", id).First(&order).Error
	return &order, err
}

type ProductionListParams struct {
	Status   string
	RecipeID string
	Keyword  string
	Page     int
	Size     int
}

func (r *ProductionRepository) List(params ProductionListParams) ([]entity.ProductionOrder, int64, error) {
	query := r.db.Model(&entity.ProductionOrder{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.RecipeID != "" {
		query = query.Where("recipe_id = ?", params.RecipeID)
	}
	if params.Keyword != "" {
		query = query.Where("order_number ILIKE ?", "%"+params.Keyword+"%")
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var orders []entity.ProductionOrder
	err := query.Preload("Recipe").Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&orders).Error
	return orders, total, err
}

// ListOpen returns orders that are not in a terminal status, oldest due first.
func (r *ProductionRepository) ListOpen() ([]entity.ProductionOrder, error) {
	var orders []entity.ProductionOrder
	err := r.db.Preload("Recipe").
		Where("status NOT IN ?", []string{entity.OrderStatusCompleted, entity.OrderStatusCancelled}).
		Order("due_date NULLS LAST, created_at").
		Find(&orders).Error
	return orders, err
}

func (r *ProductionRepository) Update(order *entity.ProductionOrder) error {
	return r.db.Save(order).Error
}
