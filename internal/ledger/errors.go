package ledger

import (
	"errors"
	"fmt"

	"bankai/backend/internal/store"
)

var ErrProductNotFound = errors.New("product not found")

// ValidationError rejects malformed input before any mutation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return store.ErrInvalidInput
}

// ProductNotFoundError reports a sale item whose sku matches no product.
type ProductNotFoundError struct {
	SKU string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: sku %q", e.SKU)
}

func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", store.ErrNotFound, kind, id)
}
