package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "santimill/internal/domain/cart"
)

func validShipping() ShippingSnapshot {
	return ShippingSnapshot{
		FullName: "A Customer",
		Address:  "12 Mill Road",
		City:     "Nakhon",
		ZipCode:  "30000",
		Phone:    "0812345678",
	}
}

// TestNew_Provisional verifies a new order starts pending with payment
// pending regardless of method.
func TestNew_Provisional(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	o, err := New("o-1", "user-1", 1050, MethodOnline, validShipping(), now)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentPending, o.PaymentStatus)
	assert.Equal(t, MethodOnline, o.PaymentMethod)
	assert.Equal(t, 1050, o.TotalAmount)
	assert.Equal(t, now, o.CreatedAt)
}

// TestNew_Validation covers each rejection path.
func TestNew_Validation(t *testing.T) {
	now := time.Now()

	_, err := New("", "user-1", 100, MethodCOD, validShipping(), now)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = New("o-1", "  ", 100, MethodCOD, validShipping(), now)
	assert.ErrorIs(t, err, ErrInvalidUserID)

	_, err = New("o-1", "user-1", 100, PaymentMethod("card"), validShipping(), now)
	assert.ErrorIs(t, err, ErrInvalidMethod)

	_, err = New("o-1", "user-1", 0, MethodCOD, validShipping(), now)
	assert.ErrorIs(t, err, ErrInvalidTotal)

	s := validShipping()
	s.Address = ""
	_, err = New("o-1", "user-1", 100, MethodCOD, s, now)
	assert.ErrorIs(t, err, ErrInvalidShipping)

	_, err = New("o-1", "user-1", 100, MethodCOD, validShipping(), time.Time{})
	assert.ErrorIs(t, err, ErrInvalidCreatedAt)
}

// TestLineItemsFromSnapshot verifies the price captured on each line item
// is the cart price at conversion time.
func TestLineItemsFromSnapshot(t *testing.T) {
	snap := cartdom.Snapshot{
		{ID: "user-1::P1::5kg", ProductID: "P1", Variant: "5kg", Price: 500, Qty: 2},
		{ID: "user-1::P2::", ProductID: "P2", Price: 300, Qty: 1},
	}

	items := LineItemsFromSnapshot(snap)
	require.Len(t, items, 2)
	assert.Equal(t, LineItem{ProductID: "P1", Qty: 2, PriceAtTime: 500}, items[0])
	assert.Equal(t, LineItem{ProductID: "P2", Qty: 1, PriceAtTime: 300}, items[1])
}
