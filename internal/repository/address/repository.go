package address

import (
	"context"

	"retroshop/internal/domain"
)

type CreateInput struct {
	UserID     string
	FullName   string
	Street     string
	City       string
	Region     string
	PostalCode string
	Country    string
	Phone      string
	IsDefault  bool
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (*domain.Address, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)
	// GetForUser returns the address only if it belongs to userID.
	GetForUser(ctx context.Context, userID, id string) (*domain.Address, error)
	// SetDefault marks one address as default and clears the flag on all
	// others, inside a single transaction.
	SetDefault(ctx context.Context, userID, id string) error
}
