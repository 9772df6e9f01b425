// internal/adapters/out/postgres/order_store_pg.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	orderdom "santimill/internal/domain/order"
)

// OrderStorePG implements order.Store on PostgreSQL.
//
// Tables (see schema.sql): orders, order_items. The shipping payload is
// stored as jsonb, matching the shape the checkout form submits.
type OrderStorePG struct {
	DB *sql.DB
}

func NewOrderStorePG(db *sql.DB) *OrderStorePG {
	return &OrderStorePG{DB: db}
}

func (r *OrderStorePG) CreateOrder(ctx context.Context, o orderdom.Order) error {
	if r == nil || r.DB == nil {
		return errors.New("order_store_pg: db is nil")
	}

	shipping, err := json.Marshal(o.Shipping)
	if err != nil {
		return fmt.Errorf("order_store_pg: marshal shipping: %w", err)
	}

	run := getRunner(ctx, r.DB)

	const q = `
INSERT INTO orders (id, user_id, status, total_amount, payment_method, payment_status, shipping_address, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = run.ExecContext(ctx, q,
		o.ID, o.UserID, string(o.Status), o.TotalAmount,
		string(o.PaymentMethod), string(o.PaymentStatus), shipping, o.CreatedAt,
	)
	if IsUniqueViolation(err) {
		return fmt.Errorf("order_store_pg: order %s already exists: %w", o.ID, err)
	}
	return err
}

func (r *OrderStorePG) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	if r == nil || r.DB == nil {
		return orderdom.Order{}, errors.New("order_store_pg: db is nil")
	}

	run := getRunner(ctx, r.DB)

	const q = `
SELECT id, user_id, status, total_amount, payment_method, payment_status, shipping_address, created_at
FROM orders
WHERE id = $1
LIMIT 1`

	var o orderdom.Order
	var status, method, payStatus string
	var shipping []byte
	err := run.QueryRowContext(ctx, q, strings.TrimSpace(id)).Scan(
		&o.ID, &o.UserID, &status, &o.TotalAmount, &method, &payStatus, &shipping, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, err
	}

	o.Status = orderdom.Status(status)
	o.PaymentMethod = orderdom.PaymentMethod(method)
	o.PaymentStatus = orderdom.PaymentStatus(payStatus)
	if len(shipping) > 0 {
		if err := json.Unmarshal(shipping, &o.Shipping); err != nil {
			return orderdom.Order{}, fmt.Errorf("order_store_pg: unmarshal shipping: %w", err)
		}
	}
	return o, nil
}

// InsertLineItems replaces any lines already attached to the order inside
// one transaction, which makes a retried finalization idempotent.
func (r *OrderStorePG) InsertLineItems(ctx context.Context, orderID string, items []orderdom.LineItem) error {
	if r == nil || r.DB == nil {
		return errors.New("order_store_pg: db is nil")
	}
	oid := strings.TrimSpace(orderID)
	if oid == "" {
		return errors.New("order_store_pg: orderID is empty")
	}

	return WithTx(ctx, r.DB, func(ctx context.Context) error {
		run := getRunner(ctx, r.DB)

		if _, err := run.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, oid); err != nil {
			return err
		}

		const q = `
INSERT INTO order_items (order_id, product_id, quantity, price_at_time)
VALUES ($1, $2, $3, $4)`
		for _, it := range items {
			if _, err := run.ExecContext(ctx, q, oid, it.ProductID, it.Qty, it.PriceAtTime); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *OrderStorePG) UpdateStatus(ctx context.Context, orderID string, status orderdom.Status, paymentStatus *orderdom.PaymentStatus) error {
	if r == nil || r.DB == nil {
		return errors.New("order_store_pg: db is nil")
	}

	run := getRunner(ctx, r.DB)

	const q = `
UPDATE orders
SET status = $2,
    payment_status = COALESCE($3, payment_status)
WHERE id = $1`

	var pay any
	if paymentStatus != nil {
		pay = string(*paymentStatus)
	}

	res, err := run.ExecContext(ctx, q, strings.TrimSpace(orderID), string(status), pay)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return orderdom.ErrNotFound
	}
	return nil
}
