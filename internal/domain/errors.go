package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found. Ownership
	// failures also surface as ErrNotFound so callers cannot probe for
	// other users' resources.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint was violated.
	ErrAlreadyExists = errors.New("already exists")

	// ErrCartEmpty indicates a checkout was attempted on a missing or empty cart.
	ErrCartEmpty = errors.New("cart is empty")
)

// OutOfStockError lists every product whose requested quantity exceeds
// current stock, not just the first one found.
type OutOfStockError struct {
	Products []string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %s", strings.Join(e.Products, ", "))
}
