package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"santimill/internal/adapters/in/http/middleware"
	"santimill/internal/application/cartsync"
	cartdom "santimill/internal/domain/cart"
)

type nopStorage struct{ data map[string][]byte }

func (s *nopStorage) Load(key string) ([]byte, bool) {
	d, ok := s.data[key]
	return d, ok
}

func (s *nopStorage) Save(key string, data []byte) error {
	s.data[key] = data
	return nil
}

func (s *nopStorage) Erase(key string) error {
	delete(s.data, key)
	return nil
}

type nopRemote struct{}

func (nopRemote) ListItems(ctx context.Context, userID string) (cartdom.Snapshot, error) {
	return cartdom.Snapshot{}, nil
}
func (nopRemote) UpsertItem(ctx context.Context, userID string, item cartdom.Item) error { return nil }
func (nopRemote) DeleteItem(ctx context.Context, id, userID string) error                { return nil }
func (nopRemote) DeleteAllItems(ctx context.Context, userID string) error                { return nil }

func newHandlerManager(t *testing.T) *cartsync.Manager {
	t.Helper()
	m := cartsync.NewManager(cartsync.ManagerConfig{
		Remote:     nopRemote{},
		Storage:    &nopStorage{data: map[string][]byte{}},
		SessionTTL: -1,
	})
	t.Cleanup(m.Close)
	return m
}

func doCart(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(middleware.SessionKeyHeader, "sess-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// TestCartHandler_AnonymousFlow walks the anonymous surface: add, read,
// change quantity, remove, clear.
func TestCartHandler_AnonymousFlow(t *testing.T) {
	h := NewCartHandler(newHandlerManager(t))

	rec := doCart(t, h, http.MethodPost, "/cart/items", map[string]any{
		"productId": "P1", "variant": "5kg", "name": "Premium Jasmine Rice", "price": 500, "qty": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view cartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, "guest::P1::5kg", view.Items[0].ID)
	assert.Equal(t, 2, view.Items[0].Qty)
	assert.Equal(t, 1000+cartdom.HandlingFee, view.Breakdown.Total)

	rec = doCart(t, h, http.MethodPut, "/cart/items", map[string]any{
		"id": "guest::P1::5kg", "qty": 5,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 5, view.Items[0].Qty)

	rec = doCart(t, h, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doCart(t, h, http.MethodDelete, "/cart/items?id=guest::P1::5kg", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.Breakdown.Total)
}

// TestCartHandler_Validation covers boundary rejections.
func TestCartHandler_Validation(t *testing.T) {
	h := NewCartHandler(newHandlerManager(t))

	rec := doCart(t, h, http.MethodPost, "/cart/items", map[string]any{
		"variant": "5kg", "price": 500,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing productId")

	rec = doCart(t, h, http.MethodPost, "/cart/items", map[string]any{
		"productId": "P1::evil", "price": 500,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "reserved delimiter in productId")

	rec = doCart(t, h, http.MethodPut, "/cart/items", map[string]any{
		"id": "guest::missing::", "qty": 3,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "quantity change on unknown item")

	// no session header at all
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
