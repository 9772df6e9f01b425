// internal/application/cartsync/store.go
package cartsync

import (
	"encoding/json"
	"log"
	"sync"

	cartdom "santimill/internal/domain/cart"
)

// GuestStorage is the durable local slot anonymous carts write through
// to. One serialized snapshot per key; absent data is (nil, false).
//
// Corrupt payloads never surface as errors: the store logs and treats
// them as an empty cart.
type GuestStorage interface {
	Load(key string) ([]byte, bool)
	Save(key string, data []byte) error
	Erase(key string) error
}

// Store is the authoritative in-process view of one session's cart.
//
// There is exactly one source of truth: Read returns the current
// snapshot synchronously and never blocks or fails, while change
// notification goes out over subscriber channels. Every swap under an
// anonymous identity writes through to GuestStorage; under an
// authenticated identity the remote store is authoritative and no local
// write occurs.
type Store struct {
	mu         sync.Mutex
	identity   cartdom.Identity
	snapshot   cartdom.Snapshot
	storage    GuestStorage
	storageKey string

	subs    map[int]chan cartdom.Snapshot
	nextSub int
}

func NewStore(storage GuestStorage, storageKey string) *Store {
	return &Store{
		identity:   cartdom.Anonymous(),
		snapshot:   cartdom.Snapshot{},
		storage:    storage,
		storageKey: storageKey,
		subs:       map[int]chan cartdom.Snapshot{},
	}
}

// Read returns the current snapshot. Synchronous, never blocks.
func (st *Store) Read() cartdom.Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.snapshot.Clone()
}

// Identity returns the identity the held snapshot is scoped to.
func (st *Store) Identity() cartdom.Identity {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.identity
}

// SetIdentity rebinds the store to a new identity. Contents are not
// touched here; identity transitions always reload through the session
// tracker (or the guest merge), never by partial merge.
func (st *Store) SetIdentity(id cartdom.Identity) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.identity = id
}

// Replace atomically swaps the held snapshot.
func (st *Store) Replace(snap cartdom.Snapshot) {
	st.mu.Lock()
	st.applyLocked(snap.Clone())
	st.mu.Unlock()
}

// Update computes the next snapshot from the current one under the store
// lock, so local optimistic commits apply strictly in invocation order.
func (st *Store) Update(fn func(cartdom.Snapshot) (cartdom.Snapshot, error)) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	next, err := fn(st.snapshot.Clone())
	if err != nil {
		return err
	}
	st.applyLocked(next)
	return nil
}

// Mutate applies fn to the current snapshot unconditionally. Used for
// rollback compensation, which must never fail.
func (st *Store) Mutate(fn func(cartdom.Snapshot) cartdom.Snapshot) {
	st.mu.Lock()
	st.applyLocked(fn(st.snapshot.Clone()))
	st.mu.Unlock()
}

// LoadLocal reads the durable guest snapshot. Absent or corrupt data is
// an empty cart, never an error.
func (st *Store) LoadLocal() cartdom.Snapshot {
	data, ok := st.storage.Load(st.storageKey)
	if !ok || len(data) == 0 {
		return cartdom.Snapshot{}
	}

	var snap cartdom.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("[cart_store] corrupt local snapshot key=%q treated as empty: %v", st.storageKey, err)
		return cartdom.Snapshot{}
	}
	return snap.Normalize()
}

// EraseLocal removes the durable guest snapshot.
func (st *Store) EraseLocal() {
	if err := st.storage.Erase(st.storageKey); err != nil {
		log.Printf("[cart_store] erase local key=%q failed: %v", st.storageKey, err)
	}
}

// Subscribe registers a change listener. The channel is buffered; a slow
// consumer misses intermediate snapshots, never the final one it reads.
func (st *Store) Subscribe() (int, <-chan cartdom.Snapshot) {
	st.mu.Lock()
	defer st.mu.Unlock()

	id := st.nextSub
	st.nextSub++
	ch := make(chan cartdom.Snapshot, 1)
	st.subs[id] = ch
	return id, ch
}

func (st *Store) Unsubscribe(id int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if ch, ok := st.subs[id]; ok {
		delete(st.subs, id)
		close(ch)
	}
}

// applyLocked swaps the snapshot, writes through for anonymous identity
// and notifies subscribers. Caller holds st.mu.
func (st *Store) applyLocked(next cartdom.Snapshot) {
	st.snapshot = next

	if !st.identity.IsAuthenticated() {
		data, err := json.Marshal(next)
		if err == nil {
			err = st.storage.Save(st.storageKey, data)
		}
		if err != nil {
			log.Printf("[cart_store] local write-through key=%q failed: %v", st.storageKey, err)
		}
	}

	for _, ch := range st.subs {
		select {
		case ch <- next.Clone():
		default:
			// drain the stale snapshot, then publish the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- next.Clone():
			default:
			}
		}
	}
}
