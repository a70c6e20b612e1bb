package order

import (
	"context"
	"errors"
	"io"
	"log"

	"retroshop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) CreateCheckout(ctx context.Context, in CheckoutInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (order_number, user_id, address_id, total_cents, currency, status, payment_status, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id::text, created_at
`
	order := domain.Order{
		Number:        in.Number,
		UserID:        in.UserID,
		AddressID:     in.AddressID,
		TotalCents:    in.TotalCents,
		Currency:      in.Currency,
		Status:        in.Status,
		PaymentStatus: in.PaymentStatus,
		Notes:         in.Notes,
	}
	if err := tx.QueryRow(ctx, insertOrder,
		in.Number, in.UserID, in.AddressID, in.TotalCents, in.Currency, in.Status, in.PaymentStatus, in.Notes,
	).Scan(&order.ID, &order.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}

	// The decrement is conditional on remaining stock; a zero row count
	// means another checkout consumed it since the pre-check. All
	// shortfalls are collected before aborting.
	var outOfStock []string
	for _, item := range in.Items {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_items (order_id, product_id, name, quantity, unit_price_cents)
VALUES ($1, $2, $3, $4, $5)
`, order.ID, item.ProductID, item.Name, item.Quantity, item.UnitPriceCents); err != nil {
			return nil, err
		}

		cmd, err := tx.Exec(ctx, `
UPDATE products
SET stock = stock - $1
WHERE id = $2 AND stock >= $1
`, item.Quantity, item.ProductID)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			outOfStock = append(outOfStock, item.Name)
		}
		order.Items = append(order.Items, domain.OrderItem{
			OrderID:        order.ID,
			ProductID:      item.ProductID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	if len(outOfStock) > 0 {
		return nil, &domain.OutOfStockError{Products: outOfStock}
	}

	if _, err := tx.Exec(ctx, `
DELETE FROM cart_items
WHERE cart_id IN (SELECT id FROM carts WHERE user_id = $1)
`, in.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &order, nil
}

const orderColumns = `id::text, order_number, user_id::text, address_id::text, total_cents, currency, status, payment_status, notes, created_at`

func (r *postgresRepo) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return r.fetchOrder(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE order_number = $1
`, number)
}

func (r *postgresRepo) GetForUser(ctx context.Context, userID, id string) (*domain.Order, error) {
	return r.fetchOrder(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE id = $1 AND user_id = $2
`, id, userID)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, paymentStatus domain.PaymentStatus) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET status = $2, payment_status = $3
WHERE id = $1 AND (status <> 'CANCELLED' OR $2 = 'CANCELLED')
`, id, status, paymentStatus)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchOrder(ctx context.Context, q string, args ...any) (*domain.Order, error) {
	var o domain.Order
	if err := scanOrder(r.pool.QueryRow(ctx, q, args...), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT id::text, order_id::text, product_id::text, name, quantity, unit_price_cents
FROM order_items
WHERE order_id = $1
`, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner, o *domain.Order) error {
	return row.Scan(
		&o.ID,
		&o.Number,
		&o.UserID,
		&o.AddressID,
		&o.TotalCents,
		&o.Currency,
		&o.Status,
		&o.PaymentStatus,
		&o.Notes,
		&o.CreatedAt,
	)
}
