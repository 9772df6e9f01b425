package localstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infralocal "santimill/internal/infra/localstore"
)

func openTestStorage(t *testing.T) *GuestStorageBadger {
	t.Helper()
	db, err := infralocal.Open(infralocal.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewGuestStorageBadger(db)
}

// TestGuestStorageBadger_RoundTrip verifies save, load and erase over an
// in-memory instance.
func TestGuestStorageBadger_RoundTrip(t *testing.T) {
	s := openTestStorage(t)

	_, ok := s.Load("cart_guest:sess-1")
	assert.False(t, ok, "absent key reads as (nil, false)")

	require.NoError(t, s.Save("cart_guest:sess-1", []byte(`[{"id":"guest::P1::5kg"}]`)))

	data, ok := s.Load("cart_guest:sess-1")
	require.True(t, ok)
	assert.Equal(t, `[{"id":"guest::P1::5kg"}]`, string(data))

	require.NoError(t, s.Erase("cart_guest:sess-1"))
	_, ok = s.Load("cart_guest:sess-1")
	assert.False(t, ok)
}

// TestGuestStorageBadger_KeysAreIsolated verifies two session slots do
// not bleed into each other.
func TestGuestStorageBadger_KeysAreIsolated(t *testing.T) {
	s := openTestStorage(t)

	require.NoError(t, s.Save("cart_guest:sess-a", []byte("a")))
	require.NoError(t, s.Save("cart_guest:sess-b", []byte("b")))
	require.NoError(t, s.Erase("cart_guest:sess-a"))

	data, ok := s.Load("cart_guest:sess-b")
	require.True(t, ok)
	assert.Equal(t, "b", string(data))
}

// TestGuestStorageBadger_NilDB verifies nil-receiver safety: loads read
// as absent, writes error.
func TestGuestStorageBadger_NilDB(t *testing.T) {
	s := &GuestStorageBadger{}

	_, ok := s.Load("k")
	assert.False(t, ok)
	assert.Error(t, s.Save("k", []byte("v")))
	assert.Error(t, s.Erase("k"))
}
