package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/sameed619/FMS/internal/factory/entity"
	"github.com/sameed619/FMS/internal/factory/ledger"
	"github.com/sameed619/FMS/internal/factory/repository"
)

type InventoryService struct {
	repo  *repository.InventoryRepository
	stock *ledger.StockLedger
	db    *gorm.DB
}

func NewInventoryService(repo *repository.InventoryRepository, stock *ledger.StockLedger, db *gorm.DB) *InventoryService {
	return &InventoryService{repo: repo, stock: stock, db: db}
}

type CreateItemRequest struct {
	ItemCode     string  `json:"item_code" binding:"required"`
	ItemType     string  `json:"item_type" binding:"required,oneof=Fabric Thread"`
	Name         string  `json:"name" binding:"required"`
	StockQty     float64 `json:"stock_qty" binding:"gte=0"`
	Unit         string  `json:"unit" binding:"required"`
	Supplier     string  `json:"supplier"`
	BillNumber   string  `json:"bill_number"`
	PricePerUnit float64 `json:"price_per_unit" binding:"gte=0"`
}

func (s *InventoryService) Create(ctx context.Context, req CreateItemRequest) (*entity.InventoryItem, error) {
	code, err := ledger.NormalizeItemCode(req.ItemCode)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByCode(code); err == nil {
		return nil, &ledger.DuplicateError{Field: "item_code", Value: code}
	} else if !ledger.IsNotFound(err) {
		return nil, err
	}

	item := &entity.InventoryItem{
		ItemCode:     code,
		ItemType:     req.ItemType,
		Name:         req.Name,
		Unit:         req.Unit,
		Supplier:     req.Supplier,
		BillNumber:   req.BillNumber,
		PricePerUnit: req.PricePerUnit,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("create inventory item: %w", err)
		}
		if req.StockQty > 0 {
			ref := ledger.Ref{
				Type:  entity.MovementRefAdjustment,
				ID:    item.ID,
				Code:  item.ItemCode,
				Notes: "opening stock",
			}
			return s.stock.ApplyDelta(tx, item.ID, req.StockQty, ref)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(item.ID)
}

func (s *InventoryService) GetByID(id string) (*entity.InventoryItem, error) {
	return s.repo.GetByID(id)
}

// GetByCode looks up an item by its code, normalizing the input first so
// "101" and "msk-101" both resolve to MSK-101.
func (s *InventoryService) GetByCode(code string) (*entity.InventoryItem, error) {
	normalized, err := ledger.NormalizeItemCode(code)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByCode(normalized)
}

func (s *InventoryService) List(params repository.InventoryListParams) ([]entity.InventoryItem, int64, error) {
	return s.repo.List(params)
}

type UpdateItemRequest struct {
	Name         *string  `json:"name"`
	ItemType     *string  `json:"item_type" binding:"omitempty,oneof=Fabric Thread"`
	Unit         *string  `json:"unit"`
	Supplier     *string  `json:"supplier"`
	BillNumber   *string  `json:"bill_number"`
	PricePerUnit *float64 `json:"price_per_unit" binding:"omitempty,gte=0"`
}

// Update edits item metadata. Stock quantity is not editable here; it only
// moves through the ledger.
func (s *InventoryService) Update(id string, req UpdateItemRequest) (*entity.InventoryItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.ItemType != nil {
		item.ItemType = *req.ItemType
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.Supplier != nil {
		item.Supplier = *req.Supplier
	}
	if req.BillNumber != nil {
		item.BillNumber = *req.BillNumber
	}
	if req.PricePerUnit != nil {
		item.PricePerUnit = *req.PricePerUnit
	}
	if err := s.repo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *InventoryService) Delete(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	refs, err := s.repo.References(id)
	if err != nil {
		return err
	}
	if len(refs) > 0 {
		return &ledger.DanglingReferenceError{Entity: "inventory item", Ref: refs[0]}
	}
	return s.repo.Delete(id)
}

type AdjustStockRequest struct {
	Qty       float64 `json:"qty" binding:"required,gt=0"`
	Operation string  `json:"operation" binding:"required,oneof=add subtract"`
	Notes     string  `json:"notes"`
}

func (s *InventoryService) Adjust(ctx context.Context, id string, req AdjustStockRequest) (*entity.InventoryItem, error) {
	return s.stock.AdjustManual(ctx, id, req.Qty, req.Operation, req.Notes)
}

// StockSnapshot is the stock report: every item with its quantity, plus
// per-type totals.
type StockSnapshot struct {
	Items  []entity.InventoryItem `json:"items"`
	Totals map[string]float64     `json:"totals"`
}

func (s *InventoryService) Stock() (*StockSnapshot, error) {
	items, err := s.repo.ListAll()
	if err != nil {
		return nil, err
	}
	totals := map[string]float64{}
	for _, item := range items {
		totals[item.ItemType] += item.StockQty
	}
	return &StockSnapshot{Items: items, Totals: totals}, nil
}

func (s *InventoryService) ListMovements(itemID string, page, size int) ([]entity.StockMovement, int64, error) {
	if _, err := s.repo.GetByID(itemID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListMovements(itemID, page, size)
}

// ExportStock renders the full stock list as an xlsx workbook.
func (s *InventoryService) ExportStock() (*excelize.File, error) {
	items, err := s.repo.ListAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Stock"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Item Code", "Type", "Name", "Stock Qty", "Unit", "Supplier", "Price Per Unit", "Last Purchase"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "B", 10)
	f.SetColWidth(sheet, "C", "C", 30)
	f.SetColWidth(sheet, "D", "E", 12)
	f.SetColWidth(sheet, "F", "F", 24)
	f.SetColWidth(sheet, "G", "H", 16)

	for i, item := range items {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.ItemCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.ItemType)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Name)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.StockQty)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.Unit)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), item.Supplier)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), item.PricePerUnit)
		if item.LastPurchaseDate != nil {
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), item.LastPurchaseDate.Format("2006-01-02"))
		}
	}
	return f, nil
}
