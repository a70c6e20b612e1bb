package domain

import "time"

// Cart is the per-user mutable collection of desired purchase quantities.
// At most one cart exists per user; it is created lazily on first add.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Items     []CartItem `json:"items"`
}

// CartItem is one (cart, product) line. Re-adding a product raises the
// quantity on the existing line instead of duplicating it.
type CartItem struct {
	ID        string    `json:"id"`
	CartID    string    `json:"cartId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// LineTotalCents is the derived line total; it is never stored.
func (i CartItem) LineTotalCents() int64 {
	if i.Product == nil {
		return 0
	}
	return i.Product.PriceCents * int64(i.Quantity)
}

// SubtotalCents sums line totals over all items.
func (c Cart) SubtotalCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.LineTotalCents()
	}
	return total
}

// ItemCount sums quantities over all items.
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
