package repository

import (
	"gorm.io/gorm"

	"github.com/sameed619/FMS/internal/factory/entity"
)

type OperatorRepository struct {
	db *gorm.DB
}

func NewOperatorRepository(db *gorm.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

func (r *OperatorRepository) GetByID(id string) (*entity.Operator, error) {
	var op entity.Operator
	err := r.db.Where("id = ?", id).First(&op).Error
	return &op, err
}

func (r *OperatorRepository) List(keyword string, activeOnly bool, page, size int) ([]entity.Operator, int64, error) {
	query := r.db.Model(&entity.Operator{})
	if keyword != "" {
		kw := "%" + keyword + "%"
		query = query.Where("operator_code ILIKE ? OR name ILIKE ?", kw, kw)
	}
	if activeOnly {
		query = query.Where("active = true")
	}
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var ops []entity.Operator
	err := query.Order("operator_code").
		Offset((page - 1) * size).Limit(size).Find(&ops).Error
	return ops, total, err
}

func (r *OperatorRepository) Create(op *entity.Operator) error {
	return r.db.Create(op).Error
}

func (r *OperatorRepository) Update(op *entity.Operator) error {
	return r.db.Save(op).Error
}

func (r *OperatorRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.Operator{}).Error
}

// References lists the tables holding rows that point at the operator.
func (r *OperatorRepository) References(id string) ([]string, error) {
	checks := []struct {
		table string
		model interface{}
	}{
		{"operator_entries", &entity.OperatorEntry{}},
		{"machine_logs", &entity.MachineLog{}},
	}
	var tables []string
	for _, p := range checks {
		var n int64
		if err := r.db.Model(p.model).Where("operator_id = ?", id).Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			tables = append(tables, p.table)
		}
	}
	return tables, nil
}

type OperatorEntryRepository struct {
	db *gorm.DB
}

func NewOperatorEntryRepository(db *gorm.DB) *OperatorEntryRepository {
	return &OperatorEntryRepository{db: db}
}

func (r *OperatorEntryRepository) GetByID(id string) (*entity.OperatorEntry, error) {
	var entry entity.OperatorEntry
	err := r.db.Preload("Operator").Preload("Machine").Where("id = ?", id).First(&entry).Error
	return &entry, err
}

// GetOpenByOperator returns the operator's open entry, or
// gorm.ErrRecordNotFound when there is none.
func (r *OperatorEntryRepository) GetOpenByOperator(operatorID string) (*entity.OperatorEntry, error) {
	var entry entity.OperatorEntry
	err := r.db.Preload("Machine").
		Where("operator_id = ? AND end_time IS NULL", operatorID).
		First(&entry).Error
	return &entry, err
}

// ListOpen returns every entry still running, oldest first.
func (r *OperatorEntryRepository) ListOpen() ([]entity.OperatorEntry, error) {
	var entries []entity.OperatorEntry
	err := r.db.Preload("Operator").Preload("Machine").
		Where("end_time IS NULL").
		Order("start_time").
		Find(&entries).Error
	return entries, err
}

type OperatorEntryListParams struct {
	OperatorID string
	MachineID  string
	Page       int
	Size       int
}

func (r *OperatorEntryRepository) List(params OperatorEntryListParams) ([]entity.OperatorEntry, int64, error) {
	query := r.db.Model(&entity.OperatorEntry{})
	if params.OperatorID != "" {
		query = query.Where("operator_id = ?", params.OperatorID)
	}
	if params.MachineID != "" {
		query = query.Where("machine_id = ?", params.MachineID)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var entries []entity.OperatorEntry
	err := query.Preload("Operator").Preload("Machine").Order("start_time DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&entries).Error
	return entries, total, err
}

func (r *OperatorEntryRepository) Update(entry *entity.OperatorEntry) error {
	return r.db.Save(entry).Error
}
