// internal/domain/cart/repository_port.go
package cart

import "context"

// RemoteStore is the boundary to the authoritative backing store for
// authenticated carts. Anonymous carts are never persisted remotely.
//
// Implementations (PostgreSQL, Firestore) key rows/documents by
// (item id, user id); item IDs are already identity-scoped (see
// DeriveItemID), so upserts are idempotent per session.
//
// Not-found policy: ListItems returns an empty snapshot, never an error,
// when the user has no stored cart.
type RemoteStore interface {
	// ListItems returns all items scoped to userID.
	ListItems(ctx context.Context, userID string) (Snapshot, error)

	// UpsertItem inserts or replaces the item by id, carrying the
	// resulting absolute quantity plus the denormalized display fields.
	UpsertItem(ctx context.Context, userID string, item Item) error

	// DeleteItem deletes one item scoped to (id, userID).
	DeleteItem(ctx context.Context, id, userID string) error

	// DeleteAllItems empties the stored cart for userID.
	DeleteAllItems(ctx context.Context, userID string) error
}
