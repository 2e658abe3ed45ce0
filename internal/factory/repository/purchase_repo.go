package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/sameed619/FMS/internal/factory/entity"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) GetByID(id string) (*entity.PurchaseEntry, error) {
	var entry entity.PurchaseEntry
	err := r.db.Preload("Items").Where("id = ?", id).First(&entry).Error
	return &entry, err
}

type PurchaseListParams struct {
	Supplier string
	Keyword  string
	From     *time.Time
	To       *time.Time
	Page     int
	Size     int
}

func (r *PurchaseRepository) List(params PurchaseListParams) ([]entity.PurchaseEntry, int64, error) {
	query := r.db.Model(&entity.PurchaseEntry{})
	if params.Supplier != "" {
		query = query.Where("supplier ILIKE ?", "%"+params.Supplier+"%")
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("entry_number ILIKE ? OR bill_number ILIKE ?", kw, kw)
	}
	if params.From != nil {
		query = query.Where("purchase_date >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("purchase_date <= ?", *params.To)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var entries []entity.PurchaseEntry
	err := query.Preload("Items").Order("purchase_date DESC, created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&entries).Error
	return entries, total, err
}
