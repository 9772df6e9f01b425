// internal/domain/order/repository_port.go
package order

import "context"

// Store is the persistence port for orders.
//
// The finalization contract mirrors the two-phase flow: CreateOrder
// persists the provisional order (no line items), InsertLineItems
// attaches the snapshot, UpdateStatus transitions the order.
// InsertLineItems must be idempotent per orderID so a failed
// finalization can be retried without duplicating lines.
type Store interface {
	CreateOrder(ctx context.Context, o Order) error

	// GetByID returns ErrNotFound when the order does not exist.
	GetByID(ctx context.Context, id string) (Order, error)

	InsertLineItems(ctx context.Context, orderID string, items []LineItem) error

	// UpdateStatus transitions the order status; paymentStatus is
	// applied only when non-nil (COD finalization leaves it pending).
	UpdateStatus(ctx context.Context, orderID string, status Status, paymentStatus *PaymentStatus) error
}
