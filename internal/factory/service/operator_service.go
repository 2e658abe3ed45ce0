package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sameed619/FMS/internal/factory/entity"
	"github.com/sameed619/FMS/internal/factory/ledger"
	"github.com/sameed619/FMS/internal/factory/repository"
)

type OperatorService struct {
	repo      *repository.OperatorRepository
	entryRepo *repository.OperatorEntryRepository
	db        *gorm.DB
}

func NewOperatorService(repo *repository.OperatorRepository, entryRepo *repository.OperatorEntryRepository, db *gorm.DB) *OperatorService {
	return &OperatorService{repo: repo, entryRepo: entryRepo, db: db}
}

type CreateOperatorRequest struct {
	OperatorCode string `json:"operator_code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone"`
}

func (s *OperatorService) Create(req CreateOperatorRequest) (*entity.Operator, error) {
	op := &entity.Operator{
		OperatorCode: req.OperatorCode,
		Name:         req.Name,
		Phone:        req.Phone,
		Active:       true,
	}
	if err := s.repo.Create(op); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ledger.DuplicateError{Field: "operator_code", Value: req.OperatorCode}
		}
		return nil, err
	}
	return op, nil
}

func (s *OperatorService) GetByID(id string) (*entity.Operator, error) {
	return s.repo.GetByID(id)
}

func (s *OperatorService) List(keyword string, activeOnly bool, page, size int) ([]entity.Operator, int64, error) {
	return s.repo.List(keyword, activeOnly, page, size)
}

type UpdateOperatorRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Active *bool   `json:"active"`
}

func (s *OperatorService) Update(id string, req UpdateOperatorRequest) (*entity.Operator, error) {
	op, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		op.Name = *req.Name
	}
	if req.Phone != nil {
		op.Phone = *req.Phone
	}
	if req.Active != nil {
		op.Active = *req.Active
	}
	if err := s.repo.Update(op); err != nil {
		return nil, err
	}
	return op, nil
}

func (s *OperatorService) Delete(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	refs, err := s.repo.References(id)
	if err != nil {
		return err
	}
	if len(refs) > 0 {
		return &ledger.DanglingReferenceError{Entity: "operator", Ref: refs[0]}
	}
	return s.repo.Delete(id)
}

type StartWorkRequest struct {
	OperatorID string `json:"operator_id" binding:"required"`
	MachineID  string `json:"machine_id" binding:"required"`
	Notes      string `json:"notes"`
}

// StartWork opens a work entry for the operator. An operator with an entry
// still open gets a DuplicateError; the check runs behind the operator's
// row lock, and a partial unique index on open entries backstops it.
func (s *OperatorService) StartWork(ctx context.Context, req StartWorkRequest) (*entity.OperatorEntry, error) {
	var entryID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var op entity.Operator
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", req.OperatorID).First(&op).Error
		if err != nil {
			return err
		}
		if !op.Active {
			return fmt.Errorf("operator %s: %w", op.OperatorCode, ledger.ErrOperatorInactive)
		}
		var machine entity.Machine
		if err := tx.Where("id = ?", req.MachineID).First(&machine).Error; err != nil {
			return err
		}

		var open entity.OperatorEntry
		err = tx.Where("operator_id = ? AND end_time IS NULL", op.ID).First(&open).Error
		if err == nil {
			return &ledger.DuplicateError{Field: "open entry for operator", Value: op.OperatorCode}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		entry := entity.OperatorEntry{
			OperatorID: op.ID,
			MachineID:  machine.ID,
			StartTime:  time.Now(),
			Notes:      req.Notes,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		entryID = entry.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.entryRepo.GetByID(entryID)
}

type StopWorkRequest struct {
	OperatorID string `json:"operator_id" binding:"required"`
	Notes      string `json:"notes"`
}

// StopWork closes the operator's open entry. No open entry is a not-found.
func (s *OperatorService) StopWork(ctx context.Context, req StopWorkRequest) (*entity.OperatorEntry, error) {
	var entryID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry entity.OperatorEntry
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("operator_id = ? AND end_time IS NULL", req.OperatorID).
			First(&entry).Error
		if err != nil {
			return err
		}
		now := time.Now()
		updates := map[string]interface{}{"end_time": now}
		if req.Notes != "" {
			updates["notes"] = req.Notes
		}
		if err := tx.Model(&entry).Updates(updates).Error; err != nil {
			return err
		}
		entryID = entry.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.entryRepo.GetByID(entryID)
}

func (s *OperatorService) OpenEntries() ([]entity.OperatorEntry, error) {
	return s.entryRepo.ListOpen()
}

func (s *OperatorService) ListEntries(params repository.OperatorEntryListParams) ([]entity.OperatorEntry, int64, error) {
	return s.entryRepo.List(params)
}
