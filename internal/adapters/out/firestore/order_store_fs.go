// internal/adapters/out/firestore/order_store_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	orderdom "santimill/internal/domain/order"
)

// OrderStoreFS implements order.Store on Firestore.
//
// Collection design:
// - collection: orders
// - docId: order id (generated upstream)
// - lineItems is written as a whole array on finalize, which keeps a
//   retried finalization idempotent.
type OrderStoreFS struct {
	Client *firestore.Client
}

func NewOrderStoreFS(client *firestore.Client) *OrderStoreFS {
	return &OrderStoreFS{Client: client}
}

func (r *OrderStoreFS) col() *firestore.CollectionRef {
	return r.Client.Collection("orders")
}

type orderDoc struct {
	UserID        string        `firestore:"userId"`
	Status        string        `firestore:"status"`
	TotalAmount   int           `firestore:"totalAmount"`
	PaymentMethod string        `firestore:"paymentMethod"`
	PaymentStatus string        `firestore:"paymentStatus"`
	Shipping      shippingDoc   `firestore:"shipping"`
	LineItems     []lineItemDoc `firestore:"lineItems"`
	CreatedAt     time.Time     `firestore:"createdAt"`
	UpdatedAt     time.Time     `firestore:"updatedAt"`
}

type shippingDoc struct {
	FullName string `firestore:"fullName"`
	Address  string `firestore:"address"`
	City     string `firestore:"city"`
	ZipCode  string `firestore:"zipCode"`
	Phone    string `firestore:"phone"`
}

type lineItemDoc struct {
	ProductID   string `firestore:"productId"`
	Qty         int    `firestore:"qty"`
	PriceAtTime int    `firestore:"priceAtTime"`
}

func (r *OrderStoreFS) CreateOrder(ctx context.Context, o orderdom.Order) error {
	if r == nil || r.Client == nil {
		return errors.New("order_store_fs: firestore client is nil")
	}
	if strings.TrimSpace(o.ID) == "" {
		return orderdom.ErrInvalidID
	}

	doc := orderDoc{
		UserID:        o.UserID,
		Status:        string(o.Status),
		TotalAmount:   o.TotalAmount,
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		Shipping: shippingDoc{
			FullName: o.Shipping.FullName,
			Address:  o.Shipping.Address,
			City:     o.Shipping.City,
			ZipCode:  o.Shipping.ZipCode,
			Phone:    o.Shipping.Phone,
		},
		LineItems: []lineItemDoc{},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.CreatedAt,
	}

	_, err := r.col().Doc(o.ID).Create(ctx, doc)
	return err
}

func (r *OrderStoreFS) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("order_store_fs: firestore client is nil")
	}

	oid := strings.TrimSpace(id)
	snap, err := r.col().Doc(oid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, err
	}

	var doc orderDoc
	if err := snap.DataTo(&doc); err != nil {
		return orderdom.Order{}, err
	}

	return orderdom.Order{
		ID:            oid,
		UserID:        doc.UserID,
		Status:        orderdom.Status(doc.Status),
		PaymentMethod: orderdom.PaymentMethod(doc.PaymentMethod),
		PaymentStatus: orderdom.PaymentStatus(doc.PaymentStatus),
		TotalAmount:   doc.TotalAmount,
		Shipping: orderdom.ShippingSnapshot{
			FullName: doc.Shipping.FullName,
			Address:  doc.Shipping.Address,
			City:     doc.Shipping.City,
			ZipCode:  doc.Shipping.ZipCode,
			Phone:    doc.Shipping.Phone,
		},
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (r *OrderStoreFS) InsertLineItems(ctx context.Context, orderID string, items []orderdom.LineItem) error {
	if r == nil || r.Client == nil {
		return errors.New("order_store_fs: firestore client is nil")
	}
	oid := strings.TrimSpace(orderID)
	if oid == "" {
		return orderdom.ErrInvalidID
	}

	lines := make([]lineItemDoc, 0, len(items))
	for _, it := range items {
		lines = append(lines, lineItemDoc{ProductID: it.ProductID, Qty: it.Qty, PriceAtTime: it.PriceAtTime})
	}

	_, err := r.col().Doc(oid).Update(ctx, []firestore.Update{
		{Path: "lineItems", Value: lines},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if status.Code(err) == codes.NotFound {
		return orderdom.ErrNotFound
	}
	return err
}

func (r *OrderStoreFS) UpdateStatus(ctx context.Context, orderID string, st orderdom.Status, paymentStatus *orderdom.PaymentStatus) error {
	if r == nil || r.Client == nil {
		return errors.New("order_store_fs: firestore client is nil")
	}
	oid := strings.TrimSpace(orderID)
	if oid == "" {
		return orderdom.ErrInvalidID
	}

	updates := []firestore.Update{
		{Path: "status", Value: string(st)},
		{Path: "updatedAt", Value: time.Now().UTC()},
	}
	if paymentStatus != nil {
		updates = append(updates, firestore.Update{Path: "paymentStatus", Value: string(*paymentStatus)})
	}

	_, err := r.col().Doc(oid).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return orderdom.ErrNotFound
	}
	return err
}
