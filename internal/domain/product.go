package domain

import "time"

type Product struct {
	ID                 string    `json:"id"`
	Slug               string    `json:"slug"`
	SKU                string    `json:"sku"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	PriceCents         int64     `json:"-"`
	OriginalPriceCents int64     `json:"-"`
	Currency           string    `json:"currency"`
	Stock              int       `json:"stock"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Price returns the display price as a fixed-point decimal string.
func (p Product) Price() string {
	return FormatCents(p.PriceCents)
}

// OriginalPrice returns the pre-discount display price.
func (p Product) OriginalPrice() string {
	return FormatCents(p.OriginalPriceCents)
}
