// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"santimill/internal/application/cartsync"
	orderdom "santimill/internal/domain/order"
)

var (
	ErrCheckoutUnauthenticated = errors.New("checkout_usecase: authenticated identity required")
	ErrCheckoutEmptyCart       = errors.New("checkout_usecase: cart is empty")
)

// Mailer sends the best-effort order confirmation. A nil Mailer disables
// mail entirely.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// CheckoutUsecase drives the two-phase order finalization:
//
//  1. CreateProvisionalOrder persists a pending order with a computed
//     total and no line items; the cart is untouched.
//  2. Finalize / FinalizePaid materialize the cart snapshot into line
//     items, transition the order to processing and clear the cart.
//
// Phase two runs immediately for cash on delivery, or after the external
// payment-success signal for online payment.
type CheckoutUsecase struct {
	orders orderdom.Store
	mailer Mailer

	mailFrom string
	now      func() time.Time
	newID    func() string
}

func NewCheckoutUsecase(orders orderdom.Store, mailer Mailer, mailFrom string) *CheckoutUsecase {
	return &CheckoutUsecase{
		orders:   orders,
		mailer:   mailer,
		mailFrom: strings.TrimSpace(mailFrom),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// CreateProvisionalOrder requires an authenticated identity and a
// non-empty cart; both violations surface immediately as invalid state
// and are never retried automatically. Returns the new order id.
func (uc *CheckoutUsecase) CreateProvisionalOrder(ctx context.Context, sess *cartsync.Session, shipping orderdom.ShippingSnapshot, method orderdom.PaymentMethod) (string, error) {
	id := sess.Identity()
	if !id.IsAuthenticated() {
		return "", fmt.Errorf("%w: %v", cartsync.ErrInvalidState, ErrCheckoutUnauthenticated)
	}

	snap := sess.Snapshot()
	if snap.IsEmpty() {
		return "", fmt.Errorf("%w: %v", cartsync.ErrInvalidState, ErrCheckoutEmptyCart)
	}

	breakdown := snap.ComputeBreakdown()

	o, err := orderdom.New(uc.newID(), id.UserID(), breakdown.Total, method, shipping, uc.now())
	if err != nil {
		return "", err
	}
	if err := uc.orders.CreateOrder(ctx, o); err != nil {
		return "", err
	}

	log.Printf("[checkout] order=%s created user=%s method=%s total=%d", o.ID, o.UserID, method, breakdown.Total)
	return o.ID, nil
}

// Finalize completes a cash-on-delivery order: payment status stays
// pending until the courier settles it.
func (uc *CheckoutUsecase) Finalize(ctx context.Context, sess *cartsync.Session, orderID, notifyEmail string) error {
	return uc.finalize(ctx, sess, orderID, notifyEmail, nil)
}

// FinalizePaid completes an online order after the verified
// payment-success signal, additionally marking payment as paid.
func (uc *CheckoutUsecase) FinalizePaid(ctx context.Context, sess *cartsync.Session, orderID, notifyEmail string) error {
	paid := orderdom.PaymentPaid
	return uc.finalize(ctx, sess, orderID, notifyEmail, &paid)
}

func (uc *CheckoutUsecase) finalize(ctx context.Context, sess *cartsync.Session, orderID, notifyEmail string, paymentStatus *orderdom.PaymentStatus) error {
	oid := strings.TrimSpace(orderID)
	if oid == "" {
		return fmt.Errorf("%w: order id is empty", cartsync.ErrInvalidState)
	}

	// A signature-valid payment signal is not enough on its own: the
	// order must exist, belong to this session's user and still be
	// pending before the cart is attached to it.
	o, err := uc.orders.GetByID(ctx, oid)
	if err != nil {
		return err
	}
	if o.UserID != sess.Identity().UserID() {
		return fmt.Errorf("%w: order %s belongs to another user", cartsync.ErrInvalidState, oid)
	}
	if o.Status != orderdom.StatusPending {
		return fmt.Errorf("%w: order %s is already %s", cartsync.ErrInvalidState, oid, o.Status)
	}

	snap := sess.Snapshot()
	if snap.IsEmpty() {
		return fmt.Errorf("%w: %v", cartsync.ErrInvalidState, ErrCheckoutEmptyCart)
	}

	items := orderdom.LineItemsFromSnapshot(snap)

	// The cart must not be cleared without persisted line items: a
	// failure here leaves the order pending and the cart untouched.
	if err := uc.orders.InsertLineItems(ctx, oid, items); err != nil {
		return err
	}
	if err := uc.orders.UpdateStatus(ctx, oid, orderdom.StatusProcessing, paymentStatus); err != nil {
		return err
	}

	// Terminal clear: the cart is superseded by the order now, so a
	// clear failure is logged, not surfaced.
	if err := sess.Clear(ctx); err != nil {
		log.Printf("[checkout] order=%s finalized but cart clear failed: %v", oid, err)
	}

	uc.sendConfirmation(ctx, notifyEmail, oid, items, snap.ComputeBreakdown().Total)
	log.Printf("[checkout] order=%s finalized items=%d", oid, len(items))
	return nil
}

// sendConfirmation is best effort; mail problems never fail an order.
func (uc *CheckoutUsecase) sendConfirmation(ctx context.Context, to, orderID string, items []orderdom.LineItem, total int) {
	if uc.mailer == nil || strings.TrimSpace(to) == "" {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order %s.\n\n", orderID)
	for _, it := range items {
		fmt.Fprintf(&b, "- %s x%d @ %d\n", it.ProductID, it.Qty, it.PriceAtTime)
	}
	fmt.Fprintf(&b, "\nTotal: %d (incl. handling fee)\n", total)

	if err := uc.mailer.Send(ctx, to, "Your order "+orderID, b.String()); err != nil {
		log.Printf("[checkout] order=%s confirmation mail to=%s failed: %v", orderID, to, err)
	}
}
