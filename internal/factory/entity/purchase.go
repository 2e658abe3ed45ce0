package entity

import "time"

// PurchaseEntry is one supplier bill. Its lines feed stock on create and are
// reversed on delete.
type PurchaseEntry struct {
	ID           string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EntryNumber  string         `json:"entry_number" gorm:"size:32;not null;uniqueIndex"`
	Supplier     string         `json:"supplier" gorm:"size:128;not null"`
	BillNumber   string         `json:"bill_number" gorm:"size:64"`
	TotalAmount  float64        `json:"total_amount" gorm:"type:decimal(14,4);not null;default:0"`
	PurchaseDate time.Time      `json:"purchase_date" gorm:"not null"`
	Notes        string         `json:"notes" gorm:"type:text"`
	Items        []PurchaseItem `json:"items" gorm:"foreignKey:EntryID"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (PurchaseEntry) TableName() string {
	return "purchase_entries"
}

// PurchaseItem is one received line on a purchase entry.
type PurchaseItem struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EntryID      string    `json:"entry_id" gorm:"type:uuid;not null;index"`
	ItemID       string    `json:"item_id" gorm:"type:uuid;not null"`
	ItemCode     string    `json:"item_code" gorm:"size:32;not null"`
	ItemType     string    `json:"item_type" gorm:"size:16;not null"`
	Name         string    `json:"name" gorm:"size:128;not null"`
	Quantity     float64   `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Unit         string    `json:"unit" gorm:"size:20;not null"`
	PricePerUnit float64   `json:"price_per_unit" gorm:"type:decimal(12,4);not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
}

func (PurchaseItem) TableName() string {
	return "purchase_items"
}
