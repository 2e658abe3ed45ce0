package entity

import "time"

// Operator is one floor worker.
type Operator struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OperatorCode string    `json:"operator_code" gorm:"size:32;not null;uniqueIndex"`
	Name         string    `json:"name" gorm:"size:128;not null"`
	Phone        string    `json:"phone" gorm:"size:32"`
	Active       bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Operator) TableName() string {
	return "operators"
}

// OperatorEntry is one work interval of an operator at a machine. An entry
// with a nil EndTime is open; a partial unique index on operator_id keeps at
// most one open entry per operator.
type OperatorEntry struct {
	ID         string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OperatorID string     `json:"operator_id" gorm:"type:uuid;not null;index"`
	Operator   *Operator  `json:"operator,omitempty" gorm:"foreignKey:OperatorID"`
	MachineID  string     `json:"machine_id" gorm:"type:uuid;not null;index"`
	Machine    *Machine   `json:"machine,omitempty" gorm:"foreignKey:MachineID"`
	StartTime  time.Time  `json:"start_time" gorm:"not null"`
	EndTime    *time.Time `json:"end_time"`
	Notes      string     `json:"notes" gorm:"type:text"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (OperatorEntry) TableName() string {
	return "operator_entries"
}
