// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"
)

var (
	ErrInvalidItem = errors.New("cart: invalid item")
)

// HandlingFee is the flat fee applied whenever the cart is non-empty.
const HandlingFee = 50

// Item represents one distinct purchasable selection (product + variant)
// held by a session. Display fields (Name, Price, ImageRef) are captured
// at add-time and never re-read from the catalog.
type Item struct {
	// ID is derived via DeriveItemID and is unique within the owning
	// session's cart. It is never reused across sessions.
	ID        string `json:"id" firestore:"id"`
	ProductID string `json:"productId" firestore:"productId"`
	Variant   string `json:"variant" firestore:"variant"`
	Name      string `json:"name" firestore:"name"`
	Price     int    `json:"price" firestore:"price"`
	ImageRef  string `json:"imageRef" firestore:"imageRef"`
	Qty       int    `json:"qty" firestore:"qty"`
}

// Snapshot is the ordered collection of items held by the local cache at
// an instant. Insertion order is kept stable; item IDs are unique.
type Snapshot []Item

func (s Snapshot) Clone() Snapshot {
	if len(s) == 0 {
		return Snapshot{}
	}
	cp := make(Snapshot, len(s))
	copy(cp, s)
	return cp
}

func (s Snapshot) IsEmpty() bool { return len(s) == 0 }

// IndexOf returns the position of id in the snapshot, or -1.
func (s Snapshot) IndexOf(id string) int {
	for i := range s {
		if s[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the item with id, if present.
func (s Snapshot) Get(id string) (Item, bool) {
	if i := s.IndexOf(id); i >= 0 {
		return s[i], true
	}
	return Item{}, false
}

// Subtotal sums price*qty over all items.
func (s Snapshot) Subtotal() int {
	total := 0
	for _, it := range s {
		total += it.Price * it.Qty
	}
	return total
}

// Breakdown is the charge composition for the current snapshot.
type Breakdown struct {
	Subtotal    int `json:"subtotal"`
	HandlingFee int `json:"handlingFee"`
	Total       int `json:"total"`
}

// ComputeBreakdown applies the flat handling fee when the cart is non-empty.
func (s Snapshot) ComputeBreakdown() Breakdown {
	sub := s.Subtotal()
	fee := 0
	if len(s) > 0 {
		fee = HandlingFee
	}
	return Breakdown{Subtotal: sub, HandlingFee: fee, Total: sub + fee}
}

// WithAdd returns the snapshot after adding qtyDelta of item. If an item
// with the same ID exists its quantity is incremented in place, otherwise
// the item is appended with Qty = qtyDelta.
// qtyDelta must be >= 1.
func (s Snapshot) WithAdd(item Item, qtyDelta int) (Snapshot, error) {
	if qtyDelta < 1 {
		return nil, ErrInvalidItem
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	next := s.Clone()
	if i := next.IndexOf(item.ID); i >= 0 {
		next[i].Qty += qtyDelta
		return next, nil
	}
	item.Qty = qtyDelta
	return append(next, item), nil
}

// WithoutID returns the snapshot with id filtered out, preserving order.
func (s Snapshot) WithoutID(id string) Snapshot {
	next := make(Snapshot, 0, len(s))
	for _, it := range s {
		if it.ID != id {
			next = append(next, it)
		}
	}
	return next
}

// WithQty returns the snapshot with the item's quantity replaced.
// qty < 1 is the caller's responsibility (delegate to removal); here it
// is rejected so the quantity invariant holds by construction.
func (s Snapshot) WithQty(id string, qty int) (Snapshot, error) {
	if qty < 1 {
		return nil, ErrInvalidItem
	}
	next := s.Clone()
	i := next.IndexOf(id)
	if i < 0 {
		return nil, ErrInvalidItem
	}
	next[i].Qty = qty
	return next, nil
}

// Normalize drops invalid entries and merges duplicate IDs (summing
// quantities), keeping first-seen order. Used when loading snapshots from
// durable storage, where the data may predate the current invariants.
func (s Snapshot) Normalize() Snapshot {
	out := make(Snapshot, 0, len(s))
	seen := map[string]int{}

	for _, it := range s {
		it.ID = strings.TrimSpace(it.ID)
		it.ProductID = strings.TrimSpace(it.ProductID)
		it.Variant = strings.TrimSpace(it.Variant)
		if it.ID == "" || it.ProductID == "" || it.Qty < 1 {
			continue
		}
		if i, ok := seen[it.ID]; ok {
			out[i].Qty += it.Qty
			continue
		}
		seen[it.ID] = len(out)
		out = append(out, it)
	}
	return out
}

func validateItem(it Item) error {
	if strings.TrimSpace(it.ID) == "" {
		return ErrInvalidItem
	}
	if strings.TrimSpace(it.ProductID) == "" {
		return ErrInvalidItem
	}
	if it.Price < 0 {
		return ErrInvalidItem
	}
	return nil
}
