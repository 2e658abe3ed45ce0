package entity

import (
	"time"
)

// ItemType values
const (
	ItemTypeFabric = "Fabric"
	ItemTypeThread = "Thread"
)

// InventoryItem is one stocked material. ItemCode is the human-readable
// identifier (MSK-NNN); every cross-entity reference uses the uuid ID.
type InventoryItem struct {
	ID               string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ItemCode         string     `json:"item_code" gorm:"size:32;not null;uniqueIndex"`
	ItemType         string     `json:"item_type" gorm:"size:16;not null"`
	Name             string     `json:"name" gorm:"size:128;not null"`
	StockQty         float64    `json:"stock_qty" gorm:"type:decimal(12,4);not null;default:0"`
	Unit             string     `json:"unit" gorm:"size:20;not null"`
	Supplier         string     `json:"supplier" gorm:"size:128;not null"`
	BillNumber       string     `json:"bill_number" gorm:"size:64"`
	PricePerUnit     float64    `json:"price_per_unit" gorm:"type:decimal(12,4);not null;default:0"`
	LastPurchaseDate *time.Time `json:"last_purchase_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

// StockMovement reference types
const (
	MovementRefPurchase   = "PURCHASE"
	MovementRefProduction = "PRODUCTION"
	MovementRefAdjustment = "ADJUSTMENT"
	MovementRefReversal   = "REVERSAL"
)

// StockMovement is one signed delta applied to an item's stock. The sum of
// an item's movements always equals its current quantity minus its opening
// quantity; every ledger operation writes its movements in the same
// transaction as the quantity change.
type StockMovement struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ItemID        string    `json:"item_id" gorm:"type:uuid;not null;index"`
	ItemCode      string    `json:"item_code" gorm:"size:32;not null"`
	Quantity      float64   `json:"quantity" gorm:"type:decimal(12,4);not null"` // negative = out
	ReferenceType string    `json:"reference_type" gorm:"size:20;not null"`
	ReferenceID   string    `json:"reference_id" gorm:"size:64"`
	ReferenceCode string    `json:"reference_code" gorm:"size:64"`
	Notes         string    `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}
