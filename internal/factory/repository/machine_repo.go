package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/sameed619/FMS/internal/factory/entity"
)

type MachineRepository struct {
	db *gorm.DB
}

func NewMachineRepository(db *gorm.DB) *MachineRepository {
	return &MachineRepository{db: db}
}

func (r *MachineRepository) GetByID(id string) (*entity.Machine, error) {
	var machine entity.Machine
	err := r.db.Where("id = ?", id).First(&machine).Error
	return &machine, err
}

type MachineListParams struct {
	Status  string
	Keyword string
	SortBy  string
	Desc    bool
	Page    int
	Size    int
}

var machineSortColumns = map[string]string{
	"machine_code": "machine_code",
	"name":         "name",
	"status":       "status",
	"created_at":   "created_at",
}

func (r *MachineRepository) List(params MachineListParams) ([]entity.Machine, int64, error) {
	query := r.db.Model(&entity.Machine{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("machine_code ILIKE ? OR name ILIKE ? OR location ILIKE ?", kw, kw, kw)
	}
	var total int64
	query.Count(&total)

	order, ok := machineSortColumns[params.SortBy]
	if !ok {
		order = "machine_code"
	}
	if params.Desc {
		order += " DESC"
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var machines []entity.Machine
	err := query.Order(order).
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&machines).Error
	return machines, total, err
}

func (r *MachineRepository) Create(machine *entity.Machine) error {
	return r.db.Create(machine).Error
}

func (r *MachineRepository) Update(machine *entity.Machine) error {
	return r.db.Save(machine).Error
}

func (r *MachineRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.Machine{}).Error
}

// References lists the tables holding rows that point at the machine.
func (r *MachineRepository) References(id string) ([]string, error) {
	checks := []struct {
		table string
		model interface{}
	}{
		{"machine_logs", &entity.MachineLog{}},
		{"production_orders", &entity.ProductionOrder{}},
		{"operator_entries", &entity.OperatorEntry{}},
	}
	var tables []string
	for _, p := range checks {
		var n int64
		if err := r.db.Model(p.model).Where("machine_id = ?", id).Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			tables = append(tables, p.table)
		}
	}
	return tables, nil
}

type MachineLogRepository struct {
	db *gorm.DB
}

func NewMachineLogRepository(db *gorm.DB) *MachineLogRepository {
	return &MachineLogRepository{db: db}
}

func (r *MachineLogRepository) GetByID(id string) (*entity.MachineLog, error) {
	var log entity.MachineLog
	err := r.db.Preload("Machine").Preload("Order").Where("id = ?", id).First(&log).Error
	return &log, err
}

func (r *MachineLogRepository) Create(log *entity.MachineLog) error {
	return r.db.Create(log).Error
}

type MachineLogListParams struct {
	MachineID string
	OrderID   string
	Shift     string
	From      *time.Time
	To        *time.Time
	Page      int
	Size      int
}

func (r *MachineLogRepository) List(params MachineLogListParams) ([]entity.MachineLog, int64, error) {
	query := r.db.Model(&entity.MachineLog{})
	if params.MachineID != "" {
		query = query.Where("machine_id = ?", params.MachineID)
	}
	if params.OrderID != "" {
		query = query.Where("order_id = ?", params.OrderID)
	}
	if params.Shift != "" {
		query = query.Where("shift = ?", params.Shift)
	}
	if params.From != nil {
		query = query.Where("log_date >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("log_date <= ?", *params.To)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var logs []entity.MachineLog
	err := query.Preload("Machine").Preload("Order").Order("log_date DESC, created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&logs).Error
	return logs, total, err
}
