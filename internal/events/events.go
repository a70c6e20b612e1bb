package events

import "time"

// Event types published on the order-events queue.
const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the wire shape for order lifecycle notifications.
// Downstream consumers (fulfilment, mail) key on Type.
type OrderEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"orderId"`
	OrderNumber   string    `json:"orderNumber"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	OccurredAt    time.Time `json:"occurredAt"`
}
