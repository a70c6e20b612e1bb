package order

import (
	"context"

	"retroshop/internal/domain"
)

type CheckoutItem struct {
	ProductID      string
	Name           string
	Quantity       int
	UnitPriceCents int64
}

// CheckoutInput describes the atomic persistence step of a checkout:
// order + item snapshots inserted, stock decremented, cart cleared.
// Either all of it commits or none of it does.
type CheckoutInput struct {
	UserID        string
	AddressID     string
	Number        string
	TotalCents    int64
	Currency      string
	Status        domain.OrderStatus
	PaymentStatus domain.PaymentStatus
	Notes         string
	Items         []CheckoutItem
}

type Repository interface {
	// CreateCheckout runs the checkout transaction. Stock is decremented
	// conditionally (stock >= quantity); any shortfall aborts the whole
	// transaction with *domain.OutOfStockError listing every offender.
	CreateCheckout(ctx context.Context, in CheckoutInput) (*domain.Order, error)
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	GetForUser(ctx context.Context, userID, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	// UpdateStatus advances the status pair. A cancelled order is never
	// moved back to a live status.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, paymentStatus domain.PaymentStatus) error
}
