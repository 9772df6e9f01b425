// internal/application/cartsync/merge.go
package cartsync

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	cartdom "santimill/internal/domain/cart"
)

// mergeGuest replays the stored anonymous cart into the now-authenticated
// identity. Invoked via completeMerge after a successful authenticated
// load, and re-invoked on later events until it succeeds in full.
//
// Each guest item is replayed as an Add under a freshly re-derived id
// (ids are identity-scoped, so the anonymous-era id is invalid here)
// using the item's absolute quantity as the delta. The guest slot is
// erased only after the whole replay succeeds; an interrupted replay
// rewrites the slot to the unreplayed remainder so a retry neither
// loses items nor replays one twice.
func (s *Session) mergeGuest(ctx context.Context, id cartdom.Identity) error {
	data, ok := s.store.storage.Load(s.store.storageKey)
	if !ok || len(data) == 0 {
		return nil
	}

	var guest cartdom.Snapshot
	if err := json.Unmarshal(data, &guest); err != nil {
		// corrupt slot: same policy as loading — treat as empty
		log.Printf("[cart_merge] session=%s corrupt guest slot dropped: %v", s.key, err)
		s.store.EraseLocal()
		return nil
	}
	guest = guest.Normalize()
	if guest.IsEmpty() {
		s.store.EraseLocal()
		return nil
	}

	for i, it := range guest {
		replayed := it
		replayed.ID = cartdom.DeriveItemID(id, it.ProductID, it.Variant)
		if err := s.Add(ctx, replayed, it.Qty); err != nil {
			// the failed Add rolled itself back, so it stays in the
			// remainder
			s.keepRemainder(guest[i:])
			return fmt.Errorf("merge replay of %s stopped: %w", replayed.ID, err)
		}
	}

	s.store.EraseLocal()
	log.Printf("[cart_merge] session=%s merged %d guest item(s) into %s", s.key, len(guest), id)
	return nil
}

// keepRemainder rewrites the guest slot to the items an interrupted
// replay did not reach. Write-through is off for authenticated
// identities, so the slot is written directly.
func (s *Session) keepRemainder(rest cartdom.Snapshot) {
	data, err := json.Marshal(rest)
	if err == nil {
		err = s.store.storage.Save(s.store.storageKey, data)
	}
	if err != nil {
		log.Printf("[cart_merge] session=%s rewriting guest slot remainder failed: %v", s.key, err)
	}
}
