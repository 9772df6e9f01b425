// internal/adapters/out/postgres/cart_store_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	cartdom "santimill/internal/domain/cart"
)

// CartStorePG implements cart.RemoteStore on PostgreSQL.
//
// Table (see schema.sql):
//   - cart_items, primary key (id, user_id)
//   - quantity carries the absolute value; upserts replace it
type CartStorePG struct {
	DB *sql.DB
}

func NewCartStorePG(db *sql.DB) *CartStorePG {
	return &CartStorePG{DB: db}
}

func (r *CartStorePG) ListItems(ctx context.Context, userID string) (cartdom.Snapshot, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("cart_store_pg: db is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("cart_store_pg: userID is empty")
	}

	run := getRunner(ctx, r.DB)

	const q = `
SELECT id, product_id, variant, name, price, image_ref, quantity
FROM cart_items
WHERE user_id = $1
ORDER BY added_at, id`
	rows, err := run.QueryContext(ctx, q, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snap := cartdom.Snapshot{}
	for rows.Next() {
		var it cartdom.Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Variant, &it.Name, &it.Price, &it.ImageRef, &it.Qty); err != nil {
			return nil, err
		}
		snap = append(snap, it)
	}
	return snap, rows.Err()
}

func (r *CartStorePG) UpsertItem(ctx context.Context, userID string, item cartdom.Item) error {
	if r == nil || r.DB == nil {
		return errors.New("cart_store_pg: db is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" || strings.TrimSpace(item.ID) == "" {
		return errors.New("cart_store_pg: userID and item.ID are required")
	}

	run := getRunner(ctx, r.DB)

	const q = `
INSERT INTO cart_items (id, user_id, product_id, variant, name, price, image_ref, quantity)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id, user_id) DO UPDATE SET
  quantity  = EXCLUDED.quantity,
  price     = EXCLUDED.price,
  name      = EXCLUDED.name,
  image_ref = EXCLUDED.image_ref`
	_, err := run.ExecContext(ctx, q,
		item.ID, uid, item.ProductID, item.Variant, item.Name, item.Price, item.ImageRef, item.Qty,
	)
	return err
}

func (r *CartStorePG) DeleteItem(ctx context.Context, id, userID string) error {
	if r == nil || r.DB == nil {
		return errors.New("cart_store_pg: db is nil")
	}

	run := getRunner(ctx, r.DB)

	const q = `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`
	_, err := run.ExecContext(ctx, q, strings.TrimSpace(id), strings.TrimSpace(userID))
	return err
}

func (r *CartStorePG) DeleteAllItems(ctx context.Context, userID string) error {
	if r == nil || r.DB == nil {
		return errors.New("cart_store_pg: db is nil")
	}

	run := getRunner(ctx, r.DB)

	const q = `DELETE FROM cart_items WHERE user_id = $1`
	_, err := run.ExecContext(ctx, q, strings.TrimSpace(userID))
	return err
}
