package service

import (
	"errors"
	"fmt"
)

// Sale engine error taxonomy. All pre-flight failures reject the whole cart
// before any mutation; ErrTransactionFailed covers the atomic write phase and
// guarantees a full rollback happened.

var (
	// ErrUnauthorized: no authenticated operator identity reached the engine.
	ErrUnauthorized = errors.New("authenticated operator required")

	// ErrDiscountExceedsSubtotal: a sale total can never go negative.
	ErrDiscountExceedsSubtotal = errors.New("discount exceeds cart subtotal")

	// ErrTransactionFailed wraps any failure during the atomic write phase.
	ErrTransactionFailed = errors.New("sale transaction failed")
)

// ProductNotFoundError names the offending cart line.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

type ProductInactiveError struct {
	Name string
}

func (e *ProductInactiveError) Error() string {
	return fmt.Sprintf("product %s is inactive and cannot be sold", e.Name)
}

// InsufficientStockError reports available vs requested units.
type InsufficientStockError struct {
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.Name, e.Available, e.Requested)
}

// InsufficientVolumeError reports available vs needed milliliters.
type InsufficientVolumeError struct {
	Name        string
	AvailableMl int
	NeededMl    int
}

func (e *InsufficientVolumeError) Error() string {
	return fmt.Sprintf("insufficient barrel volume for %s: available %dml, needed %dml",
		e.Name, e.AvailableMl, e.NeededMl)
}

// ProductNotLinkedToBarrelError: a FRACTIONED product whose barrel is missing.
type ProductNotLinkedToBarrelError struct {
	Name string
}

func (e *ProductNotLinkedToBarrelError) Error() string {
	return fmt.Sprintf("product %s is not linked to a barrel", e.Name)
}

// IsSaleRejection reports whether err is a pre-mutation cart rejection
// (HTTP 400 class), as opposed to an unexpected write-phase failure.
func IsSaleRejection(err error) bool {
	var notFound *ProductNotFoundError
	var inactive *ProductInactiveError
	var stock *InsufficientStockError
	var volume *InsufficientVolumeError
	var noBarrel *ProductNotLinkedToBarrelError
	return errors.As(err, &notFound) ||
		errors.As(err, &inactive) ||
		errors.As(err, &stock) ||
		errors.As(err, &volume) ||
		errors.As(err, &noBarrel) ||
		errors.Is(err, ErrDiscountExceedsSubtotal)
}
