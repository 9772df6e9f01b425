// internal/application/cartsync/pipeline.go
package cartsync

import (
	"context"

	cartdom "santimill/internal/domain/cart"
)

// compensation is the inverse delta of one optimistic mutation. On remote
// failure it is applied to the snapshot current at that moment, so a
// stale failure cannot clobber a newer successful mutation the way a
// baseline restore would.
type compensation func(cartdom.Snapshot) cartdom.Snapshot

// Add increments quantity for item.ID, or appends the item with
// Qty = qtyDelta. Local commit is synchronous; for authenticated
// identities the resulting absolute quantity is then upserted remotely.
func (s *Session) Add(ctx context.Context, item cartdom.Item, qtyDelta int) error {
	s.touch()

	var result cartdom.Item
	err := s.store.Update(func(cur cartdom.Snapshot) (cartdom.Snapshot, error) {
		next, err := cur.WithAdd(item, qtyDelta)
		if err != nil {
			return nil, err
		}
		result, _ = next.Get(item.ID)
		return next, nil
	})
	if err != nil {
		return err
	}

	comp := func(cur cartdom.Snapshot) cartdom.Snapshot {
		i := cur.IndexOf(item.ID)
		if i < 0 {
			return cur
		}
		q := cur[i].Qty - qtyDelta
		if q < 1 {
			return cur.WithoutID(item.ID)
		}
		next := cur.Clone()
		next[i].Qty = q
		return next
	}

	return s.propagate(ctx, comp, func(rctx context.Context, uid string) error {
		return s.remote.UpsertItem(rctx, uid, result)
	})
}

// Remove filters the item out of the snapshot, then deletes it remotely
// for authenticated identities.
func (s *Session) Remove(ctx context.Context, id string) error {
	s.touch()

	var removed cartdom.Item
	var had bool
	err := s.store.Update(func(cur cartdom.Snapshot) (cartdom.Snapshot, error) {
		removed, had = cur.Get(id)
		return cur.WithoutID(id), nil
	})
	if err != nil {
		return err
	}
	if !had {
		return nil
	}

	comp := func(cur cartdom.Snapshot) cartdom.Snapshot {
		if cur.IndexOf(id) >= 0 {
			// a newer mutation recreated the item; keep its version
			return cur
		}
		return append(cur.Clone(), removed)
	}

	return s.propagate(ctx, comp, func(rctx context.Context, uid string) error {
		return s.remote.DeleteItem(rctx, id, uid)
	})
}

// SetQuantity replaces the item's quantity; qty < 1 delegates to Remove
// so the quantity invariant holds by construction.
func (s *Session) SetQuantity(ctx context.Context, id string, qty int) error {
	if qty < 1 {
		return s.Remove(ctx, id)
	}
	s.touch()

	var prevQty int
	var result cartdom.Item
	err := s.store.Update(func(cur cartdom.Snapshot) (cartdom.Snapshot, error) {
		prev, ok := cur.Get(id)
		if !ok {
			return nil, cartdom.ErrInvalidItem
		}
		prevQty = prev.Qty
		next, err := cur.WithQty(id, qty)
		if err != nil {
			return nil, err
		}
		result, _ = next.Get(id)
		return next, nil
	})
	if err != nil {
		return err
	}

	diff := prevQty - qty
	comp := func(cur cartdom.Snapshot) cartdom.Snapshot {
		i := cur.IndexOf(id)
		if i < 0 {
			restored := result
			restored.Qty = prevQty
			return append(cur.Clone(), restored)
		}
		q := cur[i].Qty + diff
		if q < 1 {
			return cur.WithoutID(id)
		}
		next := cur.Clone()
		next[i].Qty = q
		return next
	}

	return s.propagate(ctx, comp, func(rctx context.Context, uid string) error {
		return s.remote.UpsertItem(rctx, uid, result)
	})
}

// Clear empties the snapshot. Anonymous identities also erase the
// durable local copy; authenticated identities delete all remote items.
// Used both for explicit "empty the cart" actions and as the terminal
// step of order finalization.
func (s *Session) Clear(ctx context.Context) error {
	s.touch()

	var prev cartdom.Snapshot
	_ = s.store.Update(func(cur cartdom.Snapshot) (cartdom.Snapshot, error) {
		prev = cur
		return cartdom.Snapshot{}, nil
	})

	if !s.Identity().IsAuthenticated() {
		s.store.EraseLocal()
		return nil
	}

	comp := func(cur cartdom.Snapshot) cartdom.Snapshot {
		next := cur.Clone()
		for _, it := range prev {
			if next.IndexOf(it.ID) < 0 {
				next = append(next, it)
			}
		}
		return next
	}

	return s.propagate(ctx, comp, func(rctx context.Context, uid string) error {
		return s.remote.DeleteAllItems(rctx, uid)
	})
}

// propagate runs the best-effort remote step for authenticated
// identities under the timeout budget, rolling back via comp on failure.
// The error is surfaced to the caller; there is no automatic retry.
func (s *Session) propagate(ctx context.Context, comp compensation, remote func(context.Context, string) error) error {
	id := s.Identity()
	if !id.IsAuthenticated() {
		return nil
	}

	rctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()

	if err := remote(rctx, id.UserID()); err != nil {
		s.store.Mutate(comp)
		return classifyRemote(err)
	}
	return nil
}
