package entity

import "time"

// Production order statuses. Completed and Cancelled are terminal.
const (
	OrderStatusScheduled  = "Scheduled"
	OrderStatusInProgress = "In Progress"
	OrderStatusOnHold     = "On Hold"
	OrderStatusCompleted  = "Completed"
	OrderStatusCancelled  = "Cancelled"
)

// IsTerminalStatus reports whether an order in the given status accepts no
// further transitions.
func IsTerminalStatus(status string) bool {
	return status == OrderStatusCompleted || status == OrderStatusCancelled
}

// ProductionOrder plans a quantity of a recipe's product. Materials are
// consumed from stock when the order is created; ConsumedItems records what
// was taken so cancellation by deletion can restore it.
type ProductionOrder struct {
	ID            string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderNumber   string         `json:"order_number" gorm:"size:32;not null;uniqueIndex"`
	RecipeID      string         `json:"recipe_id" gorm:"type:uuid;not null;index"`
	Recipe        *Recipe        `json:"recipe,omitempty" gorm:"foreignKey:RecipeID"`
	Quantity      float64        `json:"quantity" gorm:"type:decimal(12,4);not null"`
	MachineID     *string        `json:"machine_id" gorm:"type:uuid;index"`
	Machine       *Machine       `json:"machine,omitempty" gorm:"foreignKey:MachineID"`
	Status        string         `json:"status" gorm:"size:20;not null;default:'Scheduled'"`
	ActualQty     float64        `json:"actual_qty" gorm:"type:decimal(12,4);not null;default:0"`
	Wastage       float64        `json:"wastage" gorm:"type:decimal(12,4);not null;default:0"`
	StartedAt     *time.Time     `json:"started_at"`
	CompletedAt   *time.Time     `json:"completed_at"`
	DueDate       *time.Time     `json:"due_date"`
	Notes         string         `json:"notes" gorm:"type:text"`
	ConsumedItems []ConsumedItem `json:"consumed_items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (ProductionOrder) TableName() string {
	return "production_orders"
}

// ConsumedItem records one material draw made for an order.
type ConsumedItem struct {
	ID        string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderID   string         `json:"order_id" gorm:"type:uuid;not null;index"`
	ItemID    string         `json:"item_id" gorm:"type:uuid;not null"`
	Item      *InventoryItem `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	Quantity  float64        `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Wastage   float64        `json:"wastage" gorm:"type:decimal(12,4);not null;default:0"`
	CreatedAt time.Time      `json:"created_at"`
}

func (ConsumedItem) TableName() string {
	return "consumed_items"
}
