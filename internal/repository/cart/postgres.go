package cart

import (
	"context"
	"errors"

	"retroshop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
RETURNING id::text, user_id::text, created_at, updated_at
`
	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, q, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) GetWithItems(ctx context.Context, userID string) (*domain.Cart, error) {
	const cartQuery = `
SELECT id::text, user_id::text, created_at, updated_at
FROM carts
WHERE user_id = $1
`
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const linesQuery = `
SELECT ci.id::text, ci.cart_id::text, ci.product_id::text, ci.quantity, ci.created_at,
       p.id::text, p.slug, p.sku, p.name, COALESCE(p.description, ''), p.price_cents, p.original_price_cents, p.currency, p.stock, p.created_at
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1
ORDER BY ci.created_at ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		var p domain.Product
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&p.ID, &p.Slug, &p.SKU, &p.Name, &p.Description, &p.PriceCents, &p.OriginalPriceCents, &p.Currency, &p.Stock, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		item.Product = &p
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *postgresRepo) GetItemForUser(ctx context.Context, userID, itemID string) (*domain.CartItem, error) {
	const q = `
SELECT ci.id::text, ci.cart_id::text, ci.product_id::text, ci.quantity, ci.created_at
FROM cart_items ci
JOIN carts c ON c.id = ci.cart_id
WHERE ci.id = $1 AND c.user_id = $2
`
	var item domain.CartItem
	err := r.pool.QueryRow(ctx, q, itemID, userID).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *postgresRepo) SetItemQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity
`, cartID, productID, quantity); err != nil {
		return err
	}

	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_items
SET quantity = $1
WHERE id = $2
`, quantity, itemID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteItem(ctx context.Context, itemID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ClearByUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
DELETE FROM cart_items
WHERE cart_id IN (SELECT id FROM carts WHERE user_id = $1)
`, userID)
	return err
}

func (r *postgresRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	const q = `
SELECT COALESCE(SUM(ci.quantity), 0)
FROM cart_items ci
JOIN carts c ON c.id = ci.cart_id
WHERE c.user_id = $1
`
	var count int
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func touchCart(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID)
	return err
}
