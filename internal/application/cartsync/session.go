// internal/application/cartsync/session.go
package cartsync

import (
	"sync"
	"time"

	cartdom "santimill/internal/domain/cart"
)

// DefaultRemoteTimeout bounds every remote propagation call so an
// unresponsive backing store cannot block feedback indefinitely.
const DefaultRemoteTimeout = 4 * time.Second

// Session is one storefront session's cart engine instance: the local
// cache, the tracker state and the mutation pipeline around one remote
// store.
//
// Local optimistic commits serialize through the store lock; remote
// propagation runs outside it, so two operations may have their remote
// calls in flight at once and complete out of invocation order. Rollback
// therefore compensates with per-operation inverse deltas (see
// pipeline.go), never by restoring a whole-snapshot baseline.
type Session struct {
	key    string
	store  *Store
	remote cartdom.RemoteStore

	remoteTimeout time.Duration
	now           func() time.Time

	mu           sync.Mutex
	trackedUID   string
	pendingMerge bool
	lastSyncErr  error
	lastUsed     time.Time
}

func NewSession(key string, remote cartdom.RemoteStore, storage GuestStorage) *Session {
	s := &Session{
		key:           key,
		store:         NewStore(storage, guestSlotKey(key)),
		remote:        remote,
		remoteTimeout: DefaultRemoteTimeout,
		now:           time.Now,
	}
	s.lastUsed = s.now()
	return s
}

// guestSlotKey is the identity-scoped durable slot for a session's
// anonymous cart.
func guestSlotKey(sessionKey string) string {
	return "cart_guest:" + sessionKey
}

func (s *Session) Key() string { return s.key }

// Store exposes the local cache for read/subscribe consumers.
func (s *Session) Store() *Store { return s.store }

// Snapshot is shorthand for a synchronous read of the local cache.
func (s *Session) Snapshot() cartdom.Snapshot { return s.store.Read() }

func (s *Session) Identity() cartdom.Identity { return s.store.Identity() }

// SyncStatus returns the last non-fatal sync failure, if any. A failed
// authenticated fetch keeps the previous snapshot on display; the
// surface may use this to show a "stale" hint.
func (s *Session) SyncStatus() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSyncErr
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastUsed = s.now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
