// internal/domain/cart/identity.go
package cart

import (
	"fmt"
	"strings"
)

// IDDelimiter separates the identity scope, product and variant inside a
// derived item ID. It is not permitted inside productId/variant values.
const IDDelimiter = "::"

// guestScope is the identity prefix used for anonymous sessions.
const guestScope = "guest"

// Identity is the session identity a cart is scoped to: either anonymous
// or authenticated with a user id. The zero value is anonymous.
type Identity struct {
	userID string
}

func Anonymous() Identity { return Identity{} }

func Authenticated(userID string) Identity {
	return Identity{userID: strings.TrimSpace(userID)}
}

func (id Identity) IsAuthenticated() bool { return id.userID != "" }

// UserID returns the authenticated user id, or "" for anonymous.
func (id Identity) UserID() string { return id.userID }

// Scope returns the prefix item IDs and storage keys are scoped by.
func (id Identity) Scope() string {
	if id.userID == "" {
		return guestScope
	}
	return id.userID
}

func (id Identity) String() string {
	if id.userID == "" {
		return "anonymous"
	}
	return "authenticated(" + id.userID + ")"
}

// ValidateIDPart reports whether a productId/variant value may be used in
// a derived item ID. Boundary code (handlers) should reject bad values
// with this before they reach DeriveItemID.
func ValidateIDPart(v string) error {
	if strings.Contains(v, IDDelimiter) {
		return fmt.Errorf("%w: %q contains reserved delimiter %q", ErrInvalidItem, v, IDDelimiter)
	}
	return nil
}

// DeriveItemID derives the stable item ID for a (identity, product,
// variant) triple. The same triple always yields the same ID, and two
// distinct triples never collide, which is what makes remote upserts
// idempotent.
//
// A delimiter inside productID or variant is a programming error: callers
// must have validated input at the boundary, so this panics.
func DeriveItemID(identity Identity, productID, variant string) string {
	if err := ValidateIDPart(productID); err != nil {
		panic(err)
	}
	if err := ValidateIDPart(variant); err != nil {
		panic(err)
	}
	return identity.Scope() + IDDelimiter + productID + IDDelimiter + variant
}
