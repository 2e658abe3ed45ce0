package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sameed619/FMS/internal/factory/entity"
	"github.com/sameed619/FMS/internal/factory/ledger"
	"github.com/sameed619/FMS/internal/factory/repository"
)

type MachineService struct {
	repo    *repository.MachineRepository
	logRepo *repository.MachineLogRepository
	db      *gorm.DB
}

func NewMachineService(repo *repository.MachineRepository, logRepo *repository.MachineLogRepository, db *gorm.DB) *MachineService {
	return &MachineService{repo: repo, logRepo: logRepo, db: db}
}

type CreateMachineRequest struct {
	MachineCode string `json:"machine_code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type"`
	Status      string `json:"status" binding:"omitempty,oneof=Active Maintenance Retired"`
	Location    string `json:"location"`
}

func (s *MachineService) Create(req CreateMachineRequest) (*entity.Machine, error) {
	status := req.Status
	if status == "" {
		status = entity.MachineStatusActive
	}
	machine := &entity.Machine{
		MachineCode: req.MachineCode,
		Name:        req.Name,
		Type:        req.Type,
		Status:      status,
		Location:    req.Location,
	}
	if err := s.repo.Create(machine); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ledger.DuplicateError{Field: "machine_code", Value: req.MachineCode}
		}
		return nil, err
	}
	return machine, nil
}

func (s *MachineService) GetByID(id string) (*entity.Machine, error) {
	return s.repo.GetByID(id)
}

func (s *MachineService) List(params repository.MachineListParams) ([]entity.Machine, int64, error) {
	return s.repo.List(params)
}

type UpdateMachineRequest struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	Status   *string `json:"status" binding:"omitempty,oneof=Active Maintenance Retired"`
	Location *string `json:"location"`
}

func (s *MachineService) Update(id string, req UpdateMachineRequest) (*entity.Machine, error) {
	machine, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		machine.Name = *req.Name
	}
	if req.Type != nil {
		machine.Type = *req.Type
	}
	if req.Status != nil {
		machine.Status = *req.Status
	}
	if req.Location != nil {
		machine.Location = *req.Location
	}
	if err := s.repo.Update(machine); err != nil {
		return nil, err
	}
	return machine, nil
}

func (s *MachineService) Delete(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	refs, err := s.repo.References(id)
	if err != nil {
		return err
	}
	if len(refs) > 0 {
		return &ledger.DanglingReferenceError{Entity: "machine", Ref: refs[0]}
	}
	return s.repo.Delete(id)
}

type CreateMachineLogRequest struct {
	MachineID   string  `json:"machine_id" binding:"required"`
	OrderID     string  `json:"order_id"`
	OperatorID  string  `json:"operator_id"`
	Shift       string  `json:"shift" binding:"required,oneof=DAY NIGHT GENERAL"`
	LogDate     string  `json:"log_date" binding:"required"` // YYYY-MM-DD
	ProducedQty float64 `json:"produced_qty" binding:"gte=0"`
	WastageQty  float64 `json:"wastage_qty" binding:"gte=0"`
	Notes       string  `json:"notes"`
}

// CreateLog records a shift log without touching the order's status.
func (s *MachineService) CreateLog(req CreateMachineLogRequest) (*entity.MachineLog, error) {
	log, err := s.buildLog(s.db, req)
	if err != nil {
		return nil, err
	}
	if err := s.logRepo.Create(log); err != nil {
		return nil, err
	}
	return s.logRepo.GetByID(log.ID)
}

// Fulfill records a shift log and moves the order to Completed in the same
// transaction. An order already in a terminal status is rejected.
func (s *MachineService) Fulfill(ctx context.Context, req CreateMachineLogRequest) (*entity.MachineLog, error) {
	if req.OrderID == "" {
		return nil, &ledger.ValidationError{Msg: "order_id is required to fulfill an order"}
	}
	var logID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order entity.ProductionOrder
		if err := tx.Where("id = ?", req.OrderID).First(&order).Error; err != nil {
			return err
		}
		if entity.IsTerminalStatus(order.Status) {
			return ledger.ErrOrderCompleted
		}
		log, err := s.buildLog(tx, req)
		if err != nil {
			return err
		}
		if err := tx.Create(log).Error; err != nil {
			return err
		}
		logID = log.ID
		return tx.Model(&order).Updates(map[string]interface{}{
			"status":       entity.OrderStatusCompleted,
			"actual_qty":   req.ProducedQty,
			"wastage":      req.WastageQty,
			"completed_at": log.LogDate,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.logRepo.GetByID(logID)
}

func (s *MachineService) buildLog(db *gorm.DB, req CreateMachineLogRequest) (*entity.MachineLog, error) {
	var machine entity.Machine
	if err := db.Where("id = ?", req.MachineID).First(&machine).Error; err != nil {
		return nil, err
	}
	logDate, err := time.Parse("2006-01-02", req.LogDate)
	if err != nil {
		return nil, &ledger.ValidationError{Msg: fmt.Sprintf("invalid log_date %q", req.LogDate)}
	}
	log := &entity.MachineLog{
		MachineID:   machine.ID,
		Shift:       req.Shift,
		LogDate:     logDate,
		ProducedQty: req.ProducedQty,
		WastageQty:  req.WastageQty,
		Notes:       req.Notes,
	}
	if req.OrderID != "" {
		orderID := req.OrderID
		log.OrderID = &orderID
	}
	if req.OperatorID != "" {
		var operator entity.Operator
		if err := db.Where("id = ?", req.OperatorID).First(&operator).Error; err != nil {
			return nil, err
		}
		log.OperatorID = &operator.ID
	}
	return log, nil
}

func (s *MachineService) GetLog(id string) (*entity.MachineLog, error) {
	return s.logRepo.GetByID(id)
}

func (s *MachineService) ListLogs(params repository.MachineLogListParams) ([]entity.MachineLog, int64, error) {
	return s.logRepo.List(params)
}
