// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"

	cartdom "santimill/internal/domain/cart"
)

// ========================================
// Status machine
// ========================================

type Status string

const (
	// StatusPending is the provisional state: the order exists with a
	// total and shipping payload but no line items. Orders abandoned in
	// this state are never auto-cancelled by this engine.
	StatusPending Status = "pending"

	// StatusProcessing means line items are attached and the cart that
	// produced them has been cleared.
	StatusProcessing Status = "processing"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type PaymentMethod string

const (
	MethodCOD    PaymentMethod = "cod"
	MethodOnline PaymentMethod = "online"
)

// ========================================
// Snapshot structs (stored in Order)
// ========================================

// ShippingSnapshot is the checkout form payload captured at order time.
type ShippingSnapshot struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	ZipCode  string `json:"zipCode"`
	Phone    string `json:"phone"`
}

// LineItem is an immutable snapshot of one cart item at the moment of
// finalization. PriceAtTime decouples the order from later catalog
// price changes.
type LineItem struct {
	ProductID   string `json:"productId"`
	Qty         int    `json:"qty"`
	PriceAtTime int    `json:"priceAtTime"`
}

// ========================================
// Entity
// ========================================

type Order struct {
	ID     string
	UserID string

	Status        Status
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus

	TotalAmount int
	Shipping    ShippingSnapshot

	CreatedAt time.Time
}

// ========================================
// Errors
// ========================================

var (
	ErrInvalidID        = errors.New("order: invalid id")
	ErrInvalidUserID    = errors.New("order: invalid userId")
	ErrInvalidMethod    = errors.New("order: invalid payment method")
	ErrInvalidTotal     = errors.New("order: invalid total")
	ErrInvalidShipping  = errors.New("order: invalid shipping snapshot")
	ErrInvalidCreatedAt = errors.New("order: invalid createdAt")
	ErrNotFound         = errors.New("order: not found")
)

// ========================================
// Constructors
// ========================================

// New creates a provisional order in status pending. Online orders start
// with payment pending too; payment becomes paid only on the verified
// payment-success path.
func New(id, userID string, total int, method PaymentMethod, shipping ShippingSnapshot, createdAt time.Time) (Order, error) {
	o := Order{
		ID:     strings.TrimSpace(id),
		UserID: strings.TrimSpace(userID),

		Status:        StatusPending,
		PaymentMethod: method,
		PaymentStatus: PaymentPending,

		TotalAmount: total,
		Shipping:    normalizeShipping(shipping),
		CreatedAt:   createdAt.UTC(),
	}
	if err := o.validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// LineItemsFromSnapshot converts cart items into order line items,
// capturing each item's price at this instant.
func LineItemsFromSnapshot(snap cartdom.Snapshot) []LineItem {
	items := make([]LineItem, 0, len(snap))
	for _, it := range snap {
		items = append(items, LineItem{
			ProductID:   it.ProductID,
			Qty:         it.Qty,
			PriceAtTime: it.Price,
		})
	}
	return items
}

// ========================================
// Validation
// ========================================

func (o *Order) validate() error {
	if o.ID == "" {
		return ErrInvalidID
	}
	if o.UserID == "" {
		return ErrInvalidUserID
	}
	if o.PaymentMethod != MethodCOD && o.PaymentMethod != MethodOnline {
		return ErrInvalidMethod
	}
	if o.TotalAmount <= 0 {
		return ErrInvalidTotal
	}
	if o.Shipping.FullName == "" || o.Shipping.Address == "" {
		return ErrInvalidShipping
	}
	if o.CreatedAt.IsZero() {
		return ErrInvalidCreatedAt
	}
	return nil
}

func normalizeShipping(s ShippingSnapshot) ShippingSnapshot {
	return ShippingSnapshot{
		FullName: strings.TrimSpace(s.FullName),
		Address:  strings.TrimSpace(s.Address),
		City:     strings.TrimSpace(s.City),
		ZipCode:  strings.TrimSpace(s.ZipCode),
		Phone:    strings.TrimSpace(s.Phone),
	}
}
