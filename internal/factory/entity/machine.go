package entity

import "time"

// Machine statuses
const (
	MachineStatusActive      = "Active"
	MachineStatusMaintenance = "Maintenance"
	MachineStatusRetired     = "Retired"
)

// Shift values for machine logs.
const (
	ShiftDay     = "DAY"
	ShiftNight   = "NIGHT"
	ShiftGeneral = "GENERAL"
)

// Machine is one production machine on the floor.
type Machine struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	MachineCode string    `json:"machine_code" gorm:"size:32;not null;uniqueIndex"`
	Name        string    `json:"name" gorm:"size:128;not null"`
	Type        string    `json:"type" gorm:"size:64"`
	Status      string    `json:"status" gorm:"size:20;not null;default:'Active'"`
	Location    string    `json:"location" gorm:"size:64"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Machine) TableName() string {
	return "machines"
}

// MachineLog records one shift's output of a machine against an order.
// Fulfilling an order writes a log and moves the order to Completed in the
// same transaction.
type MachineLog struct {
	ID          string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	MachineID   string           `json:"machine_id" gorm:"type:uuid;not null;index"`
	Machine     *Machine         `json:"machine,omitempty" gorm:"foreignKey:MachineID"`
	OrderID     *string          `json:"order_id" gorm:"type:uuid;index"`
	Order       *ProductionOrder `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	OperatorID  *string          `json:"operator_id" gorm:"type:uuid;index"`
	Operator    *Operator        `json:"operator,omitempty" gorm:"foreignKey:OperatorID"`
	Shift       string           `json:"shift" gorm:"size:10;not null"`
	LogDate     time.Time        `json:"log_date" gorm:"not null"`
	ProducedQty float64          `json:"produced_qty" gorm:"type:decimal(12,4);not null;default:0"`
	WastageQty  float64          `json:"wastage_qty" gorm:"type:decimal(12,4);not null;default:0"`
	Notes       string           `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (MachineLog) TableName() string {
	return "machine_logs"
}
