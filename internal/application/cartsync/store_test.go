package cartsync

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "santimill/internal/domain/cart"
)

// TestStore_AnonymousWriteThrough verifies every anonymous swap lands in
// the durable guest slot.
func TestStore_AnonymousWriteThrough(t *testing.T) {
	storage := newFakeStorage()
	st := NewStore(storage, "cart_guest:sess-1")

	st.Replace(cartdom.Snapshot{riceItem("guest::P1::5kg", "P1", 500, 2)})

	data, ok := storage.Load("cart_guest:sess-1")
	require.True(t, ok)

	var persisted cartdom.Snapshot
	require.NoError(t, json.Unmarshal(data, &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, 2, persisted[0].Qty)
}

// TestStore_AuthenticatedSkipsLocal verifies authenticated swaps never
// touch the guest slot.
func TestStore_AuthenticatedSkipsLocal(t *testing.T) {
	storage := newFakeStorage()
	st := NewStore(storage, "cart_guest:sess-1")
	st.SetIdentity(cartdom.Authenticated("user-1"))

	st.Replace(cartdom.Snapshot{riceItem("user-1::P1::5kg", "P1", 500, 2)})

	assert.False(t, storage.has("cart_guest:sess-1"))
}

// TestStore_LoadLocal_Corrupt verifies corrupt slot data reads as an
// empty cart, never an error.
func TestStore_LoadLocal_Corrupt(t *testing.T) {
	storage := newFakeStorage()
	storage.put("cart_guest:sess-1", []byte("{not json"))
	st := NewStore(storage, "cart_guest:sess-1")

	assert.Empty(t, st.LoadLocal())
}

// TestStore_LoadLocal_Normalizes verifies durable data is normalized on
// the way in (duplicates merged, invalid entries dropped).
func TestStore_LoadLocal_Normalizes(t *testing.T) {
	storage := newFakeStorage()
	raw, _ := json.Marshal(cartdom.Snapshot{
		riceItem("guest::P1::5kg", "P1", 500, 2),
		riceItem("guest::P1::5kg", "P1", 500, 1),
		riceItem("", "P2", 300, 1),
	})
	storage.put("cart_guest:sess-1", raw)
	st := NewStore(storage, "cart_guest:sess-1")

	snap := st.LoadLocal()
	require.Len(t, snap, 1)
	assert.Equal(t, 3, snap[0].Qty)
}

// TestStore_ReadIsIsolated verifies callers cannot mutate the held
// snapshot through a Read result.
func TestStore_ReadIsIsolated(t *testing.T) {
	st := NewStore(newFakeStorage(), "cart_guest:sess-1")
	st.Replace(cartdom.Snapshot{riceItem("guest::P1::5kg", "P1", 500, 2)})

	got := st.Read()
	got[0].Qty = 99

	assert.Equal(t, 2, st.Read()[0].Qty)
}

// TestStore_SubscriberSeesLatest verifies a slow subscriber always ends
// up with the newest snapshot, even if it missed intermediate ones.
func TestStore_SubscriberSeesLatest(t *testing.T) {
	st := NewStore(newFakeStorage(), "cart_guest:sess-1")
	id, ch := st.Subscribe()
	defer st.Unsubscribe(id)

	// two swaps without the subscriber reading in between
	st.Replace(cartdom.Snapshot{riceItem("guest::P1::5kg", "P1", 500, 1)})
	st.Replace(cartdom.Snapshot{riceItem("guest::P1::5kg", "P1", 500, 5)})

	got := <-ch
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Qty, "stale intermediate snapshot must be displaced")
}

// TestStore_Update_ErrorLeavesSnapshot verifies a failed update does not
// swap or notify.
func TestStore_Update_ErrorLeavesSnapshot(t *testing.T) {
	st := NewStore(newFakeStorage(), "cart_guest:sess-1")
	st.Replace(cartdom.Snapshot{riceItem("guest::P1::5kg", "P1", 500, 2)})

	err := st.Update(func(cur cartdom.Snapshot) (cartdom.Snapshot, error) {
		return cur.WithQty("guest::P1::5kg", 0)
	})
	require.ErrorIs(t, err, cartdom.ErrInvalidItem)
	assert.Equal(t, 2, st.Read()[0].Qty)
}
