package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDeriveItemID_Deterministic verifies the same triple always yields
// the same id.
func TestDeriveItemID_Deterministic(t *testing.T) {
	id := Authenticated("user-1")

	a := DeriveItemID(id, "P1", "5kg")
	b := DeriveItemID(id, "P1", "5kg")
	assert.Equal(t, a, b)
	assert.Equal(t, "user-1::P1::5kg", a)
}

// TestDeriveItemID_ScopeSeparation verifies distinct identities and
// variants never collide.
func TestDeriveItemID_ScopeSeparation(t *testing.T) {
	guest := DeriveItemID(Anonymous(), "P1", "5kg")
	user := DeriveItemID(Authenticated("user-1"), "P1", "5kg")
	other := DeriveItemID(Authenticated("user-2"), "P1", "5kg")
	variant := DeriveItemID(Authenticated("user-1"), "P1", "10kg")

	assert.Equal(t, "guest::P1::5kg", guest)
	ids := map[string]bool{guest: true, user: true, other: true, variant: true}
	assert.Len(t, ids, 4, "all four triples must map to distinct ids")
}

// TestDeriveItemID_PanicsOnDelimiter verifies the boundary contract: a
// reserved delimiter inside an id part is a programming error.
func TestDeriveItemID_PanicsOnDelimiter(t *testing.T) {
	assert.Panics(t, func() {
		DeriveItemID(Anonymous(), "P1::evil", "5kg")
	})
	assert.Panics(t, func() {
		DeriveItemID(Anonymous(), "P1", "5::kg")
	})
}

// TestValidateIDPart verifies boundary validation.
func TestValidateIDPart(t *testing.T) {
	require.NoError(t, ValidateIDPart("P1"))
	assert.ErrorIs(t, ValidateIDPart("P::1"), ErrInvalidItem)
}

// TestIdentity_ZeroValue verifies the zero identity is anonymous.
func TestIdentity_ZeroValue(t *testing.T) {
	var id Identity
	assert.False(t, id.IsAuthenticated())
	assert.Equal(t, "guest", id.Scope())
	assert.Equal(t, "anonymous", id.String())

	auth := Authenticated("  user-1  ")
	assert.True(t, auth.IsAuthenticated())
	assert.Equal(t, "user-1", auth.UserID())
	assert.Equal(t, "user-1", auth.Scope())
}
