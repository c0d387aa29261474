package order

import (
	"context"
	"errors"
	"io"
	"log"

	"smart-retail-bookstore/internal/domain"

	"github.com/jackc/pgx/v5"
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

func (r *postgresRepo) Create(ctx context.Context, order domain.Order) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
INSERT INTO orders (order_id, user_id, total_cents, street, city, state, zip_code, card_masked, expiry_date, status, placed_at, expected_delivery)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`,
		order.OrderID,
		order.UserID,
		order.TotalCents,
		order.ShippingAddress.Street,
		order.ShippingAddress.City,
		order.ShippingAddress.State,
		order.ShippingAddress.ZipCode,
		order.CardMasked,
		order.ExpiryDate,
		order.Status,
		order.PlacedAt,
		order.ExpectedDelivery,
	); err != nil {
		r.logger.Printf("order repo: insert order_id=%s error=%v", order.OrderID, err)
		return err
	}

	for _, line := range order.Lines {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_lines (order_id, book_id, title, unit_price_cents, quantity, subtotal_cents)
VALUES ($1, $2, $3, $4, $5, $6)
`,
			order.OrderID,
			line.BookID,
			line.Title,
			line.UnitPriceCents,
			line.Quantity,
			line.SubtotalCents,
		); err != nil {
			r.logger.Printf("order repo: insert line order_id=%s title=%q error=%v", order.OrderID, line.Title, err)
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Printf("order repo: created order_id=%s lines=%d total_cents=%d", order.OrderID, len(order.Lines), order.TotalCents)
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	const q = `
SELECT order_id::text, user_id, total_cents, street, city, state, zip_code, card_masked, expiry_date, status, placed_at, expected_delivery
FROM orders
WHERE order_id = $1
`
	var o domain.Order
	err := r.pool.QueryRow(ctx, q, orderID).Scan(
		&o.OrderID,
		&o.UserID,
		&o.TotalCents,
		&o.ShippingAddress.Street,
		&o.ShippingAddress.City,
		&o.ShippingAddress.State,
		&o.ShippingAddress.ZipCode,
		&o.CardMasked,
		&o.ExpiryDate,
		&o.Status,
		&o.PlacedAt,
		&o.ExpectedDelivery,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get order_id=%s error=%v", orderID, err)
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT id::text, order_id::text, book_id, title, unit_price_cents, quantity, subtotal_cents
FROM order_lines
WHERE order_id = $1
ORDER BY title ASC
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.BookID,
			&line.Title,
			&line.UnitPriceCents,
			&line.Quantity,
			&line.SubtotalCents,
		); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.OrderSummary, error) {
	const q = `
SELECT order_id::text, placed_at, expected_delivery
FROM orders
WHERE user_id = $1
ORDER BY placed_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("order repo: list user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.OrderSummary
	for rows.Next() {
		var s domain.OrderSummary
		if err := rows.Scan(&s.OrderID, &s.PlacedAt, &s.ExpectedDelivery); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
