package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sameed619/FMS/internal/factory/entity"
)

// Directions accepted by AdjustManual.
const (
	AdjustAdd      = "add"
	AdjustSubtract = "subtract"
)

// Line is one stock delta against an existing item. For ReserveAndConsume
// Quantity is the positive amount to take; for ReverseOnDelete it is the
// signed delta to apply.
type Line struct {
	ItemID   string
	ItemCode string
	Quantity float64
}

// ReceiveLine is one incoming line. The item is resolved by normalized code
// and created on first sight.
type ReceiveLine struct {
	ItemCode     string
	ItemType     string
	Name         string
	Quantity     float64
	Unit         string
	PricePerUnit float64
	Supplier     string
	BillNumber   string
	PurchaseDate time.Time
}

// Ref ties a batch of movements back to the business record that caused it.
type Ref struct {
	Type  string
	ID    string
	Code  string
	Notes string
}

// StockLedger is the single writer of inventory quantities. Every mutation
// goes through it so each change of stock_qty has a matching StockMovement
// row in the same transaction.
type StockLedger struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewStockLedger(db *gorm.DB, logger *zap.Logger) *StockLedger {
	return &StockLedger{db: db, logger: logger}
}

// ReserveAndConsume takes stock for every line or none of them. Items are
// locked in item-code order, all availabilities are checked up front, and
// only then are the deltas applied. A shortfall on any line returns an
// InsufficientStockError naming the first short item.
func (l *StockLedger) ReserveAndConsume(tx *gorm.DB, lines []Line, ref Ref) error {
	if len(lines) == 0 {
		return nil
	}
	ids := make([]string, 0, len(lines))
	need := make(map[string]float64, len(lines))
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			return fmt.Errorf("consume quantity must be positive, got %.4f", ln.Quantity)
		}
		if _, seen := need[ln.ItemID]; !seen {
			ids = append(ids, ln.ItemID)
		}
		need[ln.ItemID] += ln.Quantity
	}

	items, err := l.lockItems(tx, ids)
	if err != nil {
		return err
	}

	// Check everything before touching anything.
	for _, item := range items {
		if item.StockQty < need[item.ID] {
			return &InsufficientStockError{
				ItemCode:  item.ItemCode,
				Required:  need[item.ID],
				Available: item.StockQty,
			}
		}
	}
	for _, item := range items {
		if err := l.applyDelta(tx, item, -need[item.ID], ref); err != nil {
			return err
		}
	}
	return nil
}

// ReceiveAndAdjust books incoming lines into stock, creating items the first
// time their code appears. The item's supplier, unit price, bill number and
// last purchase date follow the most recent receipt. The returned lines are
// resolved to item IDs in input order.
func (l *StockLedger) ReceiveAndAdjust(tx *gorm.DB, lines []ReceiveLine, ref Ref) ([]Line, error) {
	resolved := make([]Line, 0, len(lines))
	for _, ln := range lines {
		item, err := l.resolveOrCreate(tx, ln)
		if err != nil {
			return nil, err
		}
		if err := l.applyDelta(tx, item, ln.Quantity, ref); err != nil {
			return nil, err
		}
		resolved = append(resolved, Line{ItemID: item.ID, ItemCode: item.ItemCode, Quantity: ln.Quantity})
	}
	return resolved, nil
}

// ReverseAndReapply replaces an old set of received lines with a new one by
// applying only the net per-item difference, so editing a purchase twice
// never double-counts. New codes are created like a plain receipt; net
// negative deltas require the stock to cover them.
func (l *StockLedger) ReverseAndReapply(tx *gorm.DB, old []Line, updated []ReceiveLine, ref Ref) ([]Line, error) {
	net := make(map[string]float64)
	codes := make(map[string]string)
	resolved := make([]Line, 0, len(updated))
	for _, ln := range updated {
		item, err := l.resolveOrCreate(tx, ln)
		if err != nil {
			return nil, err
		}
		net[item.ID] += ln.Quantity
		codes[item.ID] = item.ItemCode
		resolved = append(resolved, Line{ItemID: item.ID, ItemCode: item.ItemCode, Quantity: ln.Quantity})
	}
	for _, ln := range old {
		net[ln.ItemID] -= ln.Quantity
		codes[ln.ItemID] = ln.ItemCode
	}

	ids := make([]string, 0, len(net))
	for id, delta := range net {
		if delta != 0 {
			ids = append(ids, id)
		}
	}
	items, err := l.lockItems(tx, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if delta := net[item.ID]; delta < 0 && item.StockQty+delta < 0 {
			return nil, &InsufficientStockError{
				ItemCode:  item.ItemCode,
				Required:  -delta,
				Available: item.StockQty,
			}
		}
	}
	for _, item := range items {
		if err := l.applyDelta(tx, item, net[item.ID], ref); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

// ReverseOnDelete undoes the stock effect of a deleted record by applying
// the exact opposite of each line's original delta: positive restores
// consumed stock, negative removes received stock. A line whose item has
// since disappeared aborts the whole reversal with a
// DanglingReferenceError; a removal the stock cannot cover aborts with an
// InsufficientStockError.
func (l *StockLedger) ReverseOnDelete(tx *gorm.DB, lines []Line, ref Ref) error {
	net := make(map[string]float64, len(lines))
	ids := make([]string, 0, len(lines))
	for _, ln := range lines {
		if _, seen := net[ln.ItemID]; !seen {
			ids = append(ids, ln.ItemID)
		}
		net[ln.ItemID] += ln.Quantity
	}
	if len(ids) == 0 {
		return nil
	}
	sort.Strings(ids)

	var items []*entity.InventoryItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("item_code").
		Find(&items).Error
	if err != nil {
		return fmt.Errorf("lock inventory items: %w", err)
	}
	if len(items) != len(ids) {
		found := make(map[string]bool, len(items))
		for _, item := range items {
			found[item.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return &DanglingReferenceError{
					Entity: "stock reversal for " + ref.Code,
					Ref:    "inventory item " + id,
				}
			}
		}
	}
	for _, item := range items {
		if delta := net[item.ID]; delta < 0 && item.StockQty+delta < 0 {
			return &InsufficientStockError{
				ItemCode:  item.ItemCode,
				Required:  -delta,
				Available: item.StockQty,
			}
		}
	}
	for _, item := range items {
		if err := l.applyDelta(tx, item, net[item.ID], ref); err != nil {
			return err
		}
	}
	return nil
}

// ApplyDelta applies one signed delta to one item inside the caller's
// transaction. A negative delta that would drive the stock below zero
// returns an InsufficientStockError.
func (l *StockLedger) ApplyDelta(tx *gorm.DB, itemID string, delta float64, ref Ref) error {
	items, err := l.lockItems(tx, []string{itemID})
	if err != nil {
		return err
	}
	item := items[0]
	if item.StockQty+delta < 0 {
		return &InsufficientStockError{
			ItemCode:  item.ItemCode,
			Required:  -delta,
			Available: item.StockQty,
		}
	}
	return l.applyDelta(tx, item, delta, ref)
}

// AdjustManual applies a one-off correction to a single item. Subtracting
// more than the current stock fails with an InsufficientStockError.
func (l *StockLedger) AdjustManual(ctx context.Context, itemID string, qty float64, direction, notes string) (*entity.InventoryItem, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("adjustment quantity must be positive, got %.4f", qty)
	}
	if direction != AdjustAdd && direction != AdjustSubtract {
		return nil, fmt.Errorf("unknown adjustment direction %q", direction)
	}

	var out entity.InventoryItem
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, err := l.lockItems(tx, []string{itemID})
		if err != nil {
			return err
		}
		item := items[0]
		delta := qty
		if direction == AdjustSubtract {
			delta = -qty
			if item.StockQty+delta < 0 {
				return &InsufficientStockError{
					ItemCode:  item.ItemCode,
					Required:  qty,
					Available: item.StockQty,
				}
			}
		}
		ref := Ref{Type: entity.MovementRefAdjustment, ID: item.ID, Code: item.ItemCode, Notes: notes}
		if err := l.applyDelta(tx, item, delta, ref); err != nil {
			return err
		}
		out = *item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// lockItems loads the given items FOR UPDATE in item-code order so
// concurrent transactions always acquire row locks in the same sequence.
// Every requested ID must exist.
func (l *StockLedger) lockItems(tx *gorm.DB, ids []string) ([]*entity.InventoryItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	var items []*entity.InventoryItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", sorted).
		Order("item_code").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("lock inventory items: %w", err)
	}
	if len(items) != len(sorted) {
		return nil, ErrNotFound
	}
	return items, nil
}

// resolveOrCreate finds the item for a receive line by normalized code,
// creating it when first seen, and refreshes its purchase metadata. The row
// comes back locked.
func (l *StockLedger) resolveOrCreate(tx *gorm.DB, ln ReceiveLine) (*entity.InventoryItem, error) {
	if ln.Quantity <= 0 {
		return nil, fmt.Errorf("receive quantity must be positive, got %.4f", ln.Quantity)
	}
	code, err := NormalizeItemCode(ln.ItemCode)
	if err != nil {
		return nil, err
	}

	item := entity.InventoryItem{
		ItemCode: code,
		ItemType: ln.ItemType,
		Name:     ln.Name,
		Unit:     ln.Unit,
	}
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(entity.InventoryItem{ItemCode: code}).
		FirstOrCreate(&item).Error
	if err != nil {
		return nil, fmt.Errorf("resolve item %s: %w", code, err)
	}

	updates := map[string]interface{}{
		"supplier":       ln.Supplier,
		"price_per_unit": ln.PricePerUnit,
	}
	if ln.BillNumber != "" {
		updates["bill_number"] = ln.BillNumber
	}
	if !ln.PurchaseDate.IsZero() {
		updates["last_purchase_date"] = ln.PurchaseDate
	}
	if err := tx.Model(&item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("refresh item %s: %w", code, err)
	}
	return &item, nil
}

// applyDelta changes one item's quantity and writes the matching movement
// row. The caller must already hold the row lock.
func (l *StockLedger) applyDelta(tx *gorm.DB, item *entity.InventoryItem, delta float64, ref Ref) error {
	if delta == 0 {
		return nil
	}
	newQty := item.StockQty + delta
	if err := tx.Model(item).Update("stock_qty", newQty).Error; err != nil {
		return fmt.Errorf("update stock for %s: %w", item.ItemCode, err)
	}
	item.StockQty = newQty

	movement := entity.StockMovement{
		ItemID:        item.ID,
		ItemCode:      item.ItemCode,
		Quantity:      delta,
		ReferenceType: ref.Type,
		ReferenceID:   ref.ID,
		ReferenceCode: ref.Code,
		Notes:         ref.Notes,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return fmt.Errorf("record movement for %s: %w", item.ItemCode, err)
	}
	l.logger.Debug("stock moved",
		zap.String("item_code", item.ItemCode),
		zap.Float64("delta", delta),
		zap.Float64("stock_qty", newQty),
		zap.String("ref_type", ref.Type),
		zap.String("ref_code", ref.Code))
	return nil
}

// IsNotFound unifies gorm's and the ledger's not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound)
}
