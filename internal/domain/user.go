package domain

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Address belongs to a user. At most one address per user carries the
// default flag; setting a new default clears the others transactionally.
type Address struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	FullName   string    `json:"fullName"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	Region     string    `json:"region,omitempty"`
	PostalCode string    `json:"postalCode"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone,omitempty"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
}
