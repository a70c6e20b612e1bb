package address

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

const addressColumns = `id::text, user_id::text, full_name, street, city, region, postal_code, country, phone, is_default, created_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Address, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if in.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = false WHERE user_id = $1`, in.UserID); err != nil {
			return nil, err
		}
	}

	const q = `
INSERT INTO addresses (user_id, full_name, street, city, region, postal_code, country, phone, is_default)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + addressColumns
	addr, err := scanAddress(tx.QueryRow(ctx, q,
		in.UserID, in.FullName, in.Street, in.City, in.Region, in.PostalCode, in.Country, in.Phone, in.IsDefault))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return addr, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+addressColumns+`
FROM addresses
WHERE user_id = $1
ORDER BY created_at ASC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Address
	for rows.Next() {
		addr, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *addr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetForUser(ctx context.Context, userID, id string) (*domain.Address, error) {
	addr, err := scanAddress(r.pool.QueryRow(ctx, `
SELECT `+addressColumns+`
FROM addresses
WHERE id = $1 AND user_id = $2
`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return addr, nil
}

func (r *postgresRepo) SetDefault(ctx context.Context, userID, id string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = false WHERE user_id = $1`, userID); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `UPDATE addresses SET is_default = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAddress(row rowScanner) (*domain.Address, error) {
	var a domain.Address
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.FullName,
		&a.Street,
		&a.City,
		&a.Region,
		&a.PostalCode,
		&a.Country,
		&a.Phone,
		&a.IsDefault,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
