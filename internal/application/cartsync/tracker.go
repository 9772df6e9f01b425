// internal/application/cartsync/tracker.go
package cartsync

import (
	"context"
	"log"

	cartdom "santimill/internal/domain/cart"
)

// IdentityChanged reacts to a session identity transition.
//
// Anonymous: the tracked user id is cleared and the snapshot reloads from
// the durable local slot (absent or corrupt data is an empty cart).
//
// Authenticated: when the same user id is already tracked the remote
// fetch is skipped — duplicate restore events must not trigger redundant
// reloads. Otherwise the remote cart is fetched; on success it replaces
// the local cache and the id becomes tracked. On failure the previously
// displayed snapshot is retained ("sticky") and the returned error is a
// non-fatal status, not a cleared cart.
//
// The first transition observed from an anonymous identity marks a guest
// merge as owed. The mark outlives failed fetches and interrupted
// replays: every subsequent authenticated event (and Resync) finishes
// the merge until it fully succeeds, so a transient failure during login
// cannot strand the guest cart.
func (s *Session) IdentityChanged(ctx context.Context, id cartdom.Identity) error {
	s.touch()

	if !id.IsAuthenticated() {
		s.mu.Lock()
		s.trackedUID = ""
		s.pendingMerge = false
		s.lastSyncErr = nil
		s.mu.Unlock()

		s.store.SetIdentity(cartdom.Anonymous())
		s.store.Replace(s.store.LoadLocal())
		return nil
	}

	uid := id.UserID()
	wasAnonymous := !s.Identity().IsAuthenticated()

	s.mu.Lock()
	if wasAnonymous {
		s.pendingMerge = true
	}
	alreadyTracked := s.trackedUID == uid
	s.mu.Unlock()

	if alreadyTracked {
		s.store.SetIdentity(id)
		return s.completeMerge(ctx, id)
	}

	if err := s.fetchRemote(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.trackedUID = uid
	s.mu.Unlock()

	return s.completeMerge(ctx, id)
}

// completeMerge replays the guest slot into the authenticated cart when
// a merge is owed, clearing the mark only on full success. No-op
// otherwise, so duplicate restore events stay cheap.
func (s *Session) completeMerge(ctx context.Context, id cartdom.Identity) error {
	s.mu.Lock()
	pending := s.pendingMerge
	s.mu.Unlock()
	if !pending {
		return nil
	}

	if err := s.mergeGuest(ctx, id); err != nil {
		// the slot keeps the unreplayed remainder; the next
		// authenticated event retries
		log.Printf("[cart_tracker] session=%s guest merge incomplete: %v", s.key, err)
		return err
	}

	s.mu.Lock()
	s.pendingMerge = false
	s.mu.Unlock()
	return nil
}

// Resync re-runs the authenticated fetch unconditionally, bypassing the
// tracked-id short circuit. Invoked opportunistically (the consuming
// surface regaining foreground focus) to catch changes made outside this
// session. No-op for anonymous identities.
func (s *Session) Resync(ctx context.Context) error {
	s.touch()

	id := s.Identity()
	if !id.IsAuthenticated() {
		return nil
	}
	if err := s.fetchRemote(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.trackedUID = id.UserID()
	s.mu.Unlock()

	return s.completeMerge(ctx, id)
}

// fetchRemote loads the authenticated cart under the timeout budget.
// On failure the store keeps what it has; the identity is still adopted
// so subsequent mutations target the right scope.
func (s *Session) fetchRemote(ctx context.Context, id cartdom.Identity) error {
	rctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()

	snap, err := s.remote.ListItems(rctx, id.UserID())
	if err != nil {
		cerr := classifyRemote(err)
		s.store.SetIdentity(id)

		s.mu.Lock()
		s.lastSyncErr = cerr
		s.mu.Unlock()

		log.Printf("[cart_tracker] session=%s fetch for %s failed, keeping prior snapshot: %v", s.key, id, cerr)
		return cerr
	}

	s.store.SetIdentity(id)
	s.store.Replace(snap.Normalize())

	s.mu.Lock()
	s.lastSyncErr = nil
	s.mu.Unlock()
	return nil
}
