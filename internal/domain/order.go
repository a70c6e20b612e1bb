package domain

import "time"

// OrderStatus is the storefront's coarse order state.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// PaymentStatus is the storefront's coarse payment state.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Order is the immutable-once-created record of a purchase attempt. Its
// status pair may be advanced by webhook reconciliation, never regressed,
// and orders are never deleted.
type Order struct {
	ID            string        `json:"id"`
	Number        string        `json:"orderNumber"`
	UserID        string        `json:"-"`
	AddressID     string        `json:"addressId"`
	TotalCents    int64         `json:"-"`
	Currency      string        `json:"currency"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	// Notes carries the gateway payment identifier for manual reconciliation.
	Notes     string      `json:"notes,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	Items     []OrderItem `json:"items,omitempty"`
}

// Total returns the display total as a fixed-point decimal string.
func (o Order) Total() string {
	return FormatCents(o.TotalCents)
}

// OrderItem snapshots a cart line at the moment of purchase. UnitPriceCents
// is the price at that moment, decoupled from later product price changes.
type OrderItem struct {
	ID             string `json:"id"`
	OrderID        string `json:"orderId"`
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"-"`
}

// UnitPrice returns the snapshotted display price.
func (i OrderItem) UnitPrice() string {
	return FormatCents(i.UnitPriceCents)
}
