package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Slug               string
	SKU                string
	Name               string
	Description        string
	PriceCents         int64
	OriginalPriceCents int64
	Currency           string
	Stock              int
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Slug:               "commodore-64",
			SKU:                "SKU-C64",
			Name:               "Commodore 64",
			Description:        "Breadbin C64, recapped, tested with a 1541 drive",
			PriceCents:         18999,
			OriginalPriceCents: 21999,
			Currency:           "USD",
			Stock:              8,
		},
		{
			Slug:               "amiga-500",
			SKU:                "SKU-A500",
			Name:               "Amiga 500",
			Description:        "Rev 6A board, 1MB chip RAM expansion fitted",
			PriceCents:         27999,
			OriginalPriceCents: 27999,
			Currency:           "USD",
			Stock:              3,
		},
		{
			Slug:               "zx-spectrum-48k",
			SKU:                "SKU-ZX48",
			Name:               "ZX Spectrum 48K",
			Description:        "Rubber-key model, composite mod done",
			PriceCents:         10999,
			OriginalPriceCents: 12999,
			Currency:           "USD",
			Stock:              12,
		},
		{
			Slug:               "atari-2600-jr",
			SKU:                "SKU-2600JR",
			Name:               "Atari 2600 Jr",
			Description:        "Short rainbow, two joysticks included",
			PriceCents:         7999,
			OriginalPriceCents: 7999,
			Currency:           "USD",
			Stock:              5,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	if err := ensureDemoUser(ctx, pool); err != nil {
		return fmt.Errorf("ensure demo user: %w", err)
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (slug, sku, name, description, price_cents, original_price_cents, currency, stock)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (slug) DO UPDATE
SET sku = EXCLUDED.sku,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    original_price_cents = EXCLUDED.original_price_cents,
    currency = EXCLUDED.currency,
    stock = EXCLUDED.stock
`
	_, err := pool.Exec(ctx, q, p.Slug, p.SKU, p.Name, p.Description, p.PriceCents, p.OriginalPriceCents, p.Currency, p.Stock)
	return err
}

// ensureDemoUser creates a demo account with a long-lived session token
// so the API is usable right after seeding.
func ensureDemoUser(ctx context.Context, pool *pgxpool.Pool) error {
	const userQ = `
INSERT INTO users (email, name)
VALUES ('demo@retroshop.test', 'Demo User')
ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var userID string
	if err := pool.QueryRow(ctx, userQ).Scan(&userID); err != nil {
		return err
	}

	const sessionQ = `
INSERT INTO sessions (token, user_id, expires_at)
VALUES ('demo-session-token', $1, $2)
ON CONFLICT (token) DO UPDATE SET expires_at = EXCLUDED.expires_at
`
	_, err := pool.Exec(ctx, sessionQ, userID, time.Now().Add(30*24*time.Hour))
	return err
}
