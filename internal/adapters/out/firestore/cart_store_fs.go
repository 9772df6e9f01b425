// internal/adapters/out/firestore/cart_store_fs.go
package firestore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "santimill/internal/domain/cart"
)

// CartStoreFS implements cart.RemoteStore on Firestore.
//
// Collection design:
// - collection: carts
// - docId: userId ✅ (docId is the source of truth)
// - fields: items (map itemId -> item fields), updatedAt
//
// Documents written by older clients may hold partial item shapes, so
// reads parse snap.Data() tolerantly instead of DataTo.
type CartStoreFS struct {
	Client *firestore.Client
}

func NewCartStoreFS(client *firestore.Client) *CartStoreFS {
	return &CartStoreFS{Client: client}
}

func (r *CartStoreFS) col() *firestore.CollectionRef {
	return r.Client.Collection("carts")
}

// ListItems returns an empty snapshot when no cart document exists.
// Items come back in item-id order, which keeps renders stable across
// fetches (the map field has no order of its own).
func (r *CartStoreFS) ListItems(ctx context.Context, userID string) (cartdom.Snapshot, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_store_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("cart_store_fs: userID is empty")
	}

	snap, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return cartdom.Snapshot{}, nil
		}
		return nil, err
	}

	return itemsFromDoc(snap.Data()), nil
}

func (r *CartStoreFS) UpsertItem(ctx context.Context, userID string, item cartdom.Item) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_store_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" || strings.TrimSpace(item.ID) == "" {
		return errors.New("cart_store_fs: userID and item.ID are required")
	}

	fields := map[string]any{
		"productId": item.ProductID,
		"variant":   item.Variant,
		"name":      item.Name,
		"price":     item.Price,
		"imageRef":  item.ImageRef,
		"qty":       item.Qty,
	}

	// Item ids contain the scope delimiter, so address the map entry via
	// FieldPath rather than a dotted path.
	_, err := r.col().Doc(uid).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"items", item.ID}, Value: fields},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if err == nil {
		return nil
	}

	// First item for this user: create the doc.
	if status.Code(err) == codes.NotFound {
		_, setErr := r.col().Doc(uid).Set(ctx, map[string]any{
			"items":     map[string]any{item.ID: fields},
			"updatedAt": time.Now().UTC(),
		})
		return setErr
	}
	return err
}

func (r *CartStoreFS) DeleteItem(ctx context.Context, id, userID string) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_store_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" || strings.TrimSpace(id) == "" {
		return errors.New("cart_store_fs: userID and id are required")
	}

	_, err := r.col().Doc(uid).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"items", id}, Value: firestore.Delete},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if status.Code(err) == codes.NotFound {
		return nil
	}
	return err
}

func (r *CartStoreFS) DeleteAllItems(ctx context.Context, userID string) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_store_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return errors.New("cart_store_fs: userID is empty")
	}

	_, err := r.col().Doc(uid).Delete(ctx)
	if status.Code(err) == codes.NotFound {
		return nil
	}
	return err
}

// itemsFromDoc parses the items map tolerantly; malformed entries are
// skipped, qty < 1 entries dropped.
func itemsFromDoc(raw map[string]any) cartdom.Snapshot {
	out := cartdom.Snapshot{}
	if raw == nil {
		return out
	}

	itemsAny := raw["items"]
	m, ok := itemsAny.(map[string]any)
	if !ok || m == nil {
		return out
	}

	ids := make([]string, 0, len(m))
	for id := range m {
		if strings.TrimSpace(id) != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		mv, ok := m[id].(map[string]any)
		if !ok {
			continue
		}
		qty := asInt(mv["qty"])
		if qty < 1 {
			continue
		}
		out = append(out, cartdom.Item{
			ID:        id,
			ProductID: strings.TrimSpace(asString(mv["productId"])),
			Variant:   strings.TrimSpace(asString(mv["variant"])),
			Name:      asString(mv["name"]),
			Price:     asInt(mv["price"]),
			ImageRef:  asString(mv["imageRef"]),
			Qty:       qty,
		})
	}
	return out
}
