package ledger

import (
	"fmt"

	"gorm.io/gorm"
)

// Sequence names used by the services.
const (
	SeqProductionOrder = "production_order"
	SeqPurchaseEntry   = "purchase_entry"
)

// NextNumber atomically claims the next value of the named counter and
// formats it as <prefix><zero-padded value>. It must run inside the
// transaction that persists the record using the number, so a rollback
// releases nothing visible (gaps are acceptable, duplicates are not).
func NextNumber(tx *gorm.DB, name, prefix string, width int) (string, error) {
	var value int64
	err := tx.Raw(`
		INSERT INTO sequences (name, value) VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
		RETURNING value
	`, name).Scan(&value).Error
	if err != nil {
		return "", fmt.Errorf("next number for %s: %w", name, err)
	}
	return fmt.Sprintf("%s%0*d", prefix, width, value), nil
}
