package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidItemCode is returned when an item code cannot be normalized
	// into the MSK-N form.
	ErrInvalidItemCode = errors.New("invalid item code")

	// ErrOrderCompleted is returned when an operation targets a production
	// order that is already in a terminal status.
	ErrOrderCompleted = errors.New("production order already completed")

	// ErrOperatorInactive is returned when work is started for an operator
	// flagged inactive.
	ErrOperatorInactive = errors.New("operator is not active")
)

// ValidationError reports a request body that binds but violates a domain
// rule before anything is written.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// InvalidTransitionError reports a production order status change the state
// machine does not allow.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

// InsufficientStockError reports a consume attempt that would drive an item
// below zero. Nothing is applied when it is returned.
type InsufficientStockError struct {
	ItemCode  string
	Required  float64
	Available float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: required %.4f, available %.4f",
		e.ItemCode, e.Required, e.Available)
}

// DanglingReferenceError reports an operation blocked by a reference: a
// delete target other rows still point at, or a reversal line whose item no
// longer exists.
type DanglingReferenceError struct {
	Entity string
	Ref    string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s: dangling reference to %s", e.Entity, e.Ref)
}

// DuplicateError reports a unique-constraint conflict on a natural key.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s: %s", e.Field, e.Value)
}
