package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sameed619/FMS/internal/factory/entity"
	"github.com/sameed619/FMS/internal/factory/ledger"
	"github.com/sameed619/FMS/internal/factory/repository"
)

type PurchaseService struct {
	repo  *repository.PurchaseRepository
	stock *ledger.StockLedger
	db    *gorm.DB
}

func NewPurchaseService(repo *repository.PurchaseRepository, stock *ledger.StockLedger, db *gorm.DB) *PurchaseService {
	return &PurchaseService{repo: repo, stock: stock, db: db}
}

type PurchaseLineRequest struct {
	ItemCode     string  `json:"item_code" binding:"required"`
	ItemType     string  `json:"item_type" binding:"required,oneof=Fabric Thread"`
	Name         string  `json:"name" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
	Unit         string  `json:"unit" binding:"required"`
	PricePerUnit float64 `json:"price_per_unit" binding:"gte=0"`
}

type CreatePurchaseRequest struct {
	Supplier     string                `json:"supplier" binding:"required"`
	BillNumber   string                `json:"bill_number"`
	TotalAmount  float64               `json:"total_amount" binding:"gte=0"`
	PurchaseDate string                `json:"purchase_date" binding:"required"` // YYYY-MM-DD
	Notes        string                `json:"notes"`
	Items        []PurchaseLineRequest `json:"items" binding:"required,min=1,dive"`
}

func (s *PurchaseService) receiveLines(req CreatePurchaseRequest, date time.Time) []ledger.ReceiveLine {
	lines := make([]ledger.ReceiveLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, ledger.ReceiveLine{
			ItemCode:     it.ItemCode,
			ItemType:     it.ItemType,
			Name:         it.Name,
			Quantity:     it.Quantity,
			Unit:         it.Unit,
			PricePerUnit: it.PricePerUnit,
			Supplier:     req.Supplier,
			BillNumber:   req.BillNumber,
			PurchaseDate: date,
		})
	}
	return lines
}

// Create books a purchase entry and feeds every line into stock in one
// transaction. Unknown item codes create new inventory items.
func (s *PurchaseService) Create(ctx context.Context, req CreatePurchaseRequest) (*entity.PurchaseEntry, error) {
	date, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return nil, &ledger.ValidationError{Msg: fmt.Sprintf("invalid purchase_date %q", req.PurchaseDate)}
	}

	var entry entity.PurchaseEntry
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := ledger.NextNumber(tx, ledger.SeqPurchaseEntry, "PUR-", 3)
		if err != nil {
			return err
		}
		total := req.TotalAmount
		if total == 0 {
			for _, it := range req.Items {
				total += it.Quantity * it.PricePerUnit
			}
		}
		entry = entity.PurchaseEntry{
			EntryNumber:  number,
			Supplier:     req.Supplier,
			BillNumber:   req.BillNumber,
			TotalAmount:  total,
			PurchaseDate: date,
			Notes:        req.Notes,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("create purchase entry: %w", err)
		}

		ref := ledger.Ref{Type: entity.MovementRefPurchase, ID: entry.ID, Code: number}
		resolved, err := s.stock.ReceiveAndAdjust(tx, s.receiveLines(req, date), ref)
		if err != nil {
			return err
		}
		for i, line := range resolved {
			it := req.Items[i]
			item := entity.PurchaseItem{
				EntryID:      entry.ID,
				ItemID:       line.ItemID,
				ItemCode:     line.ItemCode,
				ItemType:     it.ItemType,
				Name:         it.Name,
				Quantity:     it.Quantity,
				Unit:         it.Unit,
				PricePerUnit: it.PricePerUnit,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("create purchase item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(entry.ID)
}

func (s *PurchaseService) GetByID(id string) (*entity.PurchaseEntry, error) {
	return s.repo.GetByID(id)
}

func (s *PurchaseService) List(params repository.PurchaseListParams) ([]entity.PurchaseEntry, int64, error) {
	return s.repo.List(params)
}

type UpdatePurchaseRequest struct {
	Supplier     *string               `json:"supplier"`
	BillNumber   *string               `json:"bill_number"`
	TotalAmount  *float64              `json:"total_amount" binding:"omitempty,gte=0"`
	PurchaseDate *string               `json:"purchase_date"`
	Notes        *string               `json:"notes"`
	Items        []PurchaseLineRequest `json:"items" binding:"omitempty,min=1,dive"`
}

// Update edits an entry. When lines change, stock is corrected by the net
// per-item difference between the old and new lines, so repeating the same
// edit is harmless.
func (s *PurchaseService) Update(ctx context.Context, id string, req UpdatePurchaseRequest) (*entity.PurchaseEntry, error) {
	entry, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Supplier != nil {
		entry.Supplier = *req.Supplier
	}
	if req.BillNumber != nil {
		entry.BillNumber = *req.BillNumber
	}
	if req.TotalAmount != nil {
		entry.TotalAmount = *req.TotalAmount
	}
	if req.PurchaseDate != nil {
		date, err := time.Parse("2006-01-02", *req.PurchaseDate)
		if err != nil {
			return nil, &ledger.ValidationError{Msg: fmt.Sprintf("invalid purchase_date %q", *req.PurchaseDate)}
		}
		entry.PurchaseDate = date
	}
	if req.Notes != nil {
		entry.Notes = *req.Notes
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Items != nil {
			old := make([]ledger.Line, 0, len(entry.Items))
			for _, it := range entry.Items {
				old = append(old, ledger.Line{ItemID: it.ItemID, ItemCode: it.ItemCode, Quantity: it.Quantity})
			}
			newReq := CreatePurchaseRequest{
				Supplier:   entry.Supplier,
				BillNumber: entry.BillNumber,
				Items:      req.Items,
			}
			ref := ledger.Ref{
				Type:  entity.MovementRefPurchase,
				ID:    entry.ID,
				Code:  entry.EntryNumber,
				Notes: "entry edited",
			}
			resolved, err := s.stock.ReverseAndReapply(tx, old, s.receiveLines(newReq, entry.PurchaseDate), ref)
			if err != nil {
				return err
			}

			if err := tx.Where("entry_id = ?", entry.ID).Delete(&entity.PurchaseItem{}).Error; err != nil {
				return fmt.Errorf("clear purchase items: %w", err)
			}
			for i, line := range resolved {
				it := req.Items[i]
				item := entity.PurchaseItem{
					EntryID:      entry.ID,
					ItemID:       line.ItemID,
					ItemCode:     line.ItemCode,
					ItemType:     it.ItemType,
					Name:         it.Name,
					Quantity:     it.Quantity,
					Unit:         it.Unit,
					PricePerUnit: it.PricePerUnit,
				}
				if err := tx.Create(&item).Error; err != nil {
					return fmt.Errorf("create purchase item: %w", err)
				}
			}
		}
		entry.Items = nil
		return tx.Omit("Items").Save(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// Delete removes an entry and pulls its received quantities back out of
// stock. A receipt the current stock cannot cover is a conflict, nothing
// is reversed in that case.
func (s *PurchaseService) Delete(ctx context.Context, id string) error {
	entry, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := make([]ledger.Line, 0, len(entry.Items))
		for _, it := range entry.Items {
			lines = append(lines, ledger.Line{ItemID: it.ItemID, ItemCode: it.ItemCode, Quantity: -it.Quantity})
		}
		ref := ledger.Ref{
			Type:  entity.MovementRefReversal,
			ID:    entry.ID,
			Code:  entry.EntryNumber,
			Notes: "purchase entry deleted",
		}
		if err := s.stock.ReverseOnDelete(tx, lines, ref); err != nil {
			return err
		}
		if err := tx.Where("entry_id = ?", entry.ID).Delete(&entity.PurchaseItem{}).Error; err != nil {
			return fmt.Errorf("delete purchase items: %w", err)
		}
		return tx.Where("id = ?", entry.ID).Delete(&entity.PurchaseEntry{}).Error
	})
}
