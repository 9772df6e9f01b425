package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItem(id, productID string, price, qty int) Item {
	return Item{
		ID:        id,
		ProductID: productID,
		Variant:   "5kg",
		Name:      "Premium Jasmine Rice",
		Price:     price,
		Qty:       qty,
	}
}

// TestWithAdd_NewItem verifies that adding an unseen id appends it with
// the delta as absolute quantity.
func TestWithAdd_NewItem(t *testing.T) {
	snap := Snapshot{}

	next, err := snap.WithAdd(testItem("a", "P1", 500, 0), 2)
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, 2, next[0].Qty)
	assert.Empty(t, snap, "receiver must not be mutated")
}

// TestWithAdd_ExistingItem verifies quantity increment on a duplicate id.
func TestWithAdd_ExistingItem(t *testing.T) {
	snap := Snapshot{testItem("a", "P1", 500, 2)}

	next, err := snap.WithAdd(testItem("a", "P1", 500, 0), 3)
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, 5, next[0].Qty)
}

// TestWithAdd_Invalid covers the rejection paths: non-positive delta,
// blank id, blank product id, negative price.
func TestWithAdd_Invalid(t *testing.T) {
	snap := Snapshot{}

	_, err := snap.WithAdd(testItem("a", "P1", 500, 0), 0)
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = snap.WithAdd(testItem("", "P1", 500, 0), 1)
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = snap.WithAdd(testItem("a", "", 500, 0), 1)
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = snap.WithAdd(testItem("a", "P1", -1, 0), 1)
	assert.ErrorIs(t, err, ErrInvalidItem)
}

// TestWithQty verifies quantity replacement and its invariants.
func TestWithQty(t *testing.T) {
	snap := Snapshot{testItem("a", "P1", 500, 2)}

	next, err := snap.WithQty("a", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, next[0].Qty)
	assert.Equal(t, 2, snap[0].Qty, "receiver must not be mutated")

	_, err = snap.WithQty("a", 0)
	assert.ErrorIs(t, err, ErrInvalidItem, "qty < 1 is rejected")

	_, err = snap.WithQty("missing", 1)
	assert.ErrorIs(t, err, ErrInvalidItem)
}

// TestWithoutID verifies removal preserves the order of the survivors
// and that removing an absent id is harmless.
func TestWithoutID(t *testing.T) {
	snap := Snapshot{
		testItem("a", "P1", 500, 1),
		testItem("b", "P2", 300, 1),
		testItem("c", "P3", 200, 1),
	}

	next := snap.WithoutID("b")
	require.Len(t, next, 2)
	assert.Equal(t, "a", next[0].ID)
	assert.Equal(t, "c", next[1].ID)

	assert.Len(t, snap.WithoutID("zzz"), 3)
}

// TestComputeBreakdown verifies the flat handling fee applies only to a
// non-empty cart.
func TestComputeBreakdown(t *testing.T) {
	empty := Snapshot{}
	b := empty.ComputeBreakdown()
	assert.Equal(t, 0, b.Subtotal)
	assert.Equal(t, 0, b.HandlingFee)
	assert.Equal(t, 0, b.Total)

	snap := Snapshot{
		testItem("a", "P1", 500, 2), // 1000
		testItem("b", "P2", 300, 1), // 300
	}
	b = snap.ComputeBreakdown()
	assert.Equal(t, 1300, b.Subtotal)
	assert.Equal(t, HandlingFee, b.HandlingFee)
	assert.Equal(t, 1300+HandlingFee, b.Total)
}

// TestNormalize verifies merging of duplicate ids, dropping of invalid
// entries, and first-seen ordering.
func TestNormalize(t *testing.T) {
	snap := Snapshot{
		testItem("a", "P1", 500, 2),
		testItem("", "P2", 300, 1),  // blank id: dropped
		testItem("b", "", 300, 1),   // blank productId: dropped
		testItem("c", "P3", 200, 0), // qty < 1: dropped
		testItem("a", "P1", 500, 3), // duplicate: merged into first
		testItem("d", "P4", 100, 1),
	}

	out := snap.Normalize()
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, 5, out[0].Qty)
	assert.Equal(t, "d", out[1].ID)
}

// TestClone_Independence verifies a clone does not alias the original's
// backing array.
func TestClone_Independence(t *testing.T) {
	snap := Snapshot{testItem("a", "P1", 500, 2)}
	cp := snap.Clone()
	cp[0].Qty = 99
	assert.Equal(t, 2, snap[0].Qty)
}
