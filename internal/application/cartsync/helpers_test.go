package cartsync

import (
	"context"
	"sync"

	cartdom "santimill/internal/domain/cart"
)

// fakeStorage is an in-memory GuestStorage with optional write failure.
type fakeStorage struct {
	mu      sync.Mutex
	data    map[string][]byte
	saveErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{data: map[string][]byte{}}
}

func (s *fakeStorage) Load(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[key]
	return d, ok
}

func (s *fakeStorage) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data[key] = data
	return nil
}

func (s *fakeStorage) Erase(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *fakeStorage) put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
}

func (s *fakeStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

// fakeRemote is an in-memory RemoteStore with per-operation failure
// injection and call hooks.
type fakeRemote struct {
	mu    sync.Mutex
	items map[string]map[string]cartdom.Item
	order map[string][]string

	listErr   error
	upsertErr error
	deleteErr error
	clearErr  error

	listCalls   int
	upsertCalls int

	// onUpsert, when set, runs before the upsert is applied (and before
	// upsertErr is considered). Used to interleave concurrent mutations.
	onUpsert func(userID string, item cartdom.Item)
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		items: map[string]map[string]cartdom.Item{},
		order: map[string][]string{},
	}
}

func (r *fakeRemote) ListItems(ctx context.Context, userID string) (cartdom.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	snap := cartdom.Snapshot{}
	for _, id := range r.order[userID] {
		if it, ok := r.items[userID][id]; ok {
			snap = append(snap, it)
		}
	}
	return snap, nil
}

func (r *fakeRemote) UpsertItem(ctx context.Context, userID string, item cartdom.Item) error {
	r.mu.Lock()
	hook := r.onUpsert
	r.mu.Unlock()
	if hook != nil {
		hook(userID, item)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertCalls++
	if r.upsertErr != nil {
		return r.upsertErr
	}
	if r.items[userID] == nil {
		r.items[userID] = map[string]cartdom.Item{}
	}
	if _, exists := r.items[userID][item.ID]; !exists {
		r.order[userID] = append(r.order[userID], item.ID)
	}
	r.items[userID][item.ID] = item
	return nil
}

func (r *fakeRemote) DeleteItem(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.items[userID], id)
	return nil
}

func (r *fakeRemote) DeleteAllItems(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clearErr != nil {
		return r.clearErr
	}
	delete(r.items, userID)
	delete(r.order, userID)
	return nil
}

func (r *fakeRemote) seed(userID string, items ...cartdom.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.items[userID] == nil {
		r.items[userID] = map[string]cartdom.Item{}
	}
	for _, it := range items {
		if _, exists := r.items[userID][it.ID]; !exists {
			r.order[userID] = append(r.order[userID], it.ID)
		}
		r.items[userID][it.ID] = it
	}
}

func (r *fakeRemote) item(userID, id string) (cartdom.Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[userID][id]
	return it, ok
}

func riceItem(id, productID string, price, qty int) cartdom.Item {
	return cartdom.Item{
		ID:        id,
		ProductID: productID,
		Variant:   "5kg",
		Name:      "Premium Jasmine Rice",
		Price:     price,
		Qty:       qty,
	}
}

func newTestSession(remote *fakeRemote, storage *fakeStorage) *Session {
	return NewSession("sess-1", remote, storage)
}
