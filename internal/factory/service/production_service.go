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

type ProductionService struct {
	repo        *repository.ProductionRepository
	recipeRepo  *repository.RecipeRepository
	machineRepo *repository.MachineRepository
	stock       *ledger.StockLedger
	db          *gorm.DB
}

func NewProductionService(repo *repository.ProductionRepository, recipeRepo *repository.RecipeRepository, machineRepo *repository.MachineRepository, stock *ledger.StockLedger, db *gorm.DB) *ProductionService {
	return &ProductionService{repo: repo, recipeRepo: recipeRepo, machineRepo: machineRepo, stock: stock, db: db}
}

// Legal status transitions. Terminal statuses have no exits; Completed is
// only reached through order fulfillment.
var orderTransitions = map[string][]string{
	entity.OrderStatusScheduled:  {entity.OrderStatusInProgress, entity.OrderStatusOnHold, entity.OrderStatusCancelled},
	entity.OrderStatusInProgress: {entity.OrderStatusOnHold, entity.OrderStatusCompleted, entity.OrderStatusCancelled},
	entity.OrderStatusOnHold:     {entity.OrderStatusInProgress, entity.OrderStatusCancelled},
}

func canTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type CreateOrderRequest struct {
	RecipeID  string  `json:"recipe_id" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
	MachineID string  `json:"machine_id"`
	StartedAt string  `json:"started_at"` // YYYY-MM-DD
	DueDate   string  `json:"due_date"`   // YYYY-MM-DD
	Notes     string  `json:"notes"`
}

// Create plans an order and draws every required material from stock in one
// transaction. Requirements are recipe quantities scaled by the order
// quantity; a shortfall on any material leaves nothing consumed.
func (s *ProductionService) Create(ctx context.Context, req CreateOrderRequest) (*entity.ProductionOrder, error) {
	recipe, err := s.recipeRepo.GetByID(req.RecipeID)
	if err != nil {
		return nil, err
	}
	if len(recipe.Materials) == 0 {
		return nil, &ledger.ValidationError{Msg: fmt.Sprintf("recipe %s has no materials", recipe.ProductName)}
	}

	var machineID *string
	if req.MachineID != "" {
		if _, err := s.machineRepo.GetByID(req.MachineID); err != nil {
			return nil, err
		}
		machineID = &req.MachineID
	}

	var startedAt, dueDate *time.Time
	if req.StartedAt != "" {
		t, err := time.Parse("2006-01-02", req.StartedAt)
		if err != nil {
			return nil, &ledger.ValidationError{Msg: fmt.Sprintf("invalid started_at %q", req.StartedAt)}
		}
		startedAt = &t
	}
	if req.DueDate != "" {
		t, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return nil, &ledger.ValidationError{Msg: fmt.Sprintf("invalid due_date %q", req.DueDate)}
		}
		dueDate = &t
	}

	var order entity.ProductionOrder
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := ledger.NextNumber(tx, ledger.SeqProductionOrder, "PROD-", 3)
		if err != nil {
			return err
		}
		order = entity.ProductionOrder{
			OrderNumber: number,
			RecipeID:    recipe.ID,
			Quantity:    req.Quantity,
			MachineID:   machineID,
			Status:      entity.OrderStatusScheduled,
			StartedAt:   startedAt,
			DueDate:     dueDate,
			Notes:       req.Notes,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create production order: %w", err)
		}

		lines := make([]ledger.Line, 0, len(recipe.Materials))
		for _, mat := range recipe.Materials {
			lines = append(lines, ledger.Line{
				ItemID:   mat.ItemID,
				Quantity: mat.QtyPerUnit * req.Quantity,
			})
		}
		ref := ledger.Ref{Type: entity.MovementRefProduction, ID: order.ID, Code: number}
		if err := s.stock.ReserveAndConsume(tx, lines, ref); err != nil {
			return err
		}
		for _, line := range lines {
			consumed := entity.ConsumedItem{
				OrderID:  order.ID,
				ItemID:   line.ItemID,
				Quantity: line.Quantity,
			}
			if err := tx.Create(&consumed).Error; err != nil {
				return fmt.Errorf("record consumed item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(order.ID)
}

func (s *ProductionService) GetByID(id string) (*entity.ProductionOrder, error) {
	return s.repo.GetByID(id)
}

func (s *ProductionService) List(params repository.ProductionListParams) ([]entity.ProductionOrder, int64, error) {
	return s.repo.List(params)
}

func (s *ProductionService) ListOpen() ([]entity.ProductionOrder, error) {
	return s.repo.ListOpen()
}

type UpdateOrderRequest struct {
	Status    *string  `json:"status" binding:"omitempty,oneof=Scheduled 'In Progress' 'On Hold' Completed Cancelled"`
	ActualQty *float64 `json:"actual_qty" binding:"omitempty,gte=0"`
	Wastage   *float64 `json:"wastage" binding:"omitempty,gte=0"`
	DueDate   *string  `json:"due_date"`
	Notes     *string  `json:"notes"`
}

// Update edits schedule fields and walks the status machine. Terminal
// orders reject every change; cancelling keeps the consumed materials
// consumed (use delete to restore them).
func (s *ProductionService) Update(id string, req UpdateOrderRequest) (*entity.ProductionOrder, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if entity.IsTerminalStatus(order.Status) {
		return nil, ledger.ErrOrderCompleted
	}
	if req.Status != nil && *req.Status != order.Status {
		if !canTransition(order.Status, *req.Status) {
			return nil, &ledger.InvalidTransitionError{From: order.Status, To: *req.Status}
		}
		order.Status = *req.Status
		if order.Status == entity.OrderStatusInProgress && order.StartedAt == nil {
			now := time.Now()
			order.StartedAt = &now
		}
		if order.Status == entity.OrderStatusCompleted && order.CompletedAt == nil {
			now := time.Now()
			order.CompletedAt = &now
		}
	}
	if req.ActualQty != nil {
		order.ActualQty = *req.ActualQty
	}
	if req.Wastage != nil {
		order.Wastage = *req.Wastage
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			order.DueDate = nil
		} else {
			t, err := time.Parse("2006-01-02", *req.DueDate)
			if err != nil {
				return nil, &ledger.ValidationError{Msg: fmt.Sprintf("invalid due_date %q", *req.DueDate)}
			}
			order.DueDate = &t
		}
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}
	order.Recipe = nil
	order.Machine = nil
	order.ConsumedItems = nil
	if err := s.db.Omit("Recipe", "Machine", "ConsumedItems").Save(order).Error; err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// Delete removes an order and puts its consumed materials back into stock.
// Completed orders cannot be deleted.
func (s *ProductionService) Delete(ctx context.Context, id string) error {
	order, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if order.Status == entity.OrderStatusCompleted {
		return ledger.ErrOrderCompleted
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := make([]ledger.Line, 0, len(order.ConsumedItems))
		for _, ci := range order.ConsumedItems {
			code := ""
			if ci.Item != nil {
				code = ci.Item.ItemCode
			}
			lines = append(lines, ledger.Line{ItemID: ci.ItemID, ItemCode: code, Quantity: ci.Quantity})
		}
		ref := ledger.Ref{
			Type:  entity.MovementRefReversal,
			ID:    order.ID,
			Code:  order.OrderNumber,
			Notes: "production order deleted",
		}
		if err := s.stock.ReverseOnDelete(tx, lines, ref); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&entity.ConsumedItem{}).Error; err != nil {
			return fmt.Errorf("delete consumed items: %w", err)
		}
		if err := tx.Model(&entity.MachineLog{}).Where("order_id = ?", order.ID).
			Update("order_id", nil).Error; err != nil {
			return fmt.Errorf("detach machine logs: %w", err)
		}
		return tx.Where("id = ?", order.ID).Delete(&entity.ProductionOrder{}).Error
	})
}
