package entity

import "gorm.io/gorm"

// AutoMigrate migrates all factory tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// master data
		&InventoryItem{},
		&Machine{},
		&Operator{},

		// recipes (bill of materials)
		&Recipe{},
		&RecipeMaterial{},

		// purchasing
		&PurchaseEntry{},
		&PurchaseItem{},

		// production
		&ProductionOrder{},
		&ConsumedItem{},
		&MachineLog{},
		&OperatorEntry{},

		// stock ledger
		&StockMovement{},
	)
}
