// internal/adapters/in/http/handler/cart_handler.go
package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"santimill/internal/application/cartsync"
	cartdom "santimill/internal/domain/cart"
)

// CartHandler serves the cart mutation endpoints.
type CartHandler struct {
	manager *cartsync.Manager
}

func NewCartHandler(manager *cartsync.Manager) http.Handler {
	return &CartHandler{manager: manager}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path := strings.TrimRight(r.URL.Path, "/")

	if h.manager == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}

	sess, err := resolveSession(r, h.manager)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	isItems := strings.HasSuffix(path, "/cart/items")

	switch {
	case r.Method == http.MethodGet && !isItems:
		writeJSON(w, http.StatusOK, viewOf(sess))

	case r.Method == http.MethodDelete && !isItems:
		h.handleClear(w, r, sess)

	case r.Method == http.MethodPost && isItems:
		h.handleAdd(w, r, sess)

	case r.Method == http.MethodPut && isItems:
		h.handleSetQty(w, r, sess)

	case r.Method == http.MethodDelete && isItems:
		h.handleRemove(w, r, sess)

	default:
		writeErr(w, http.StatusNotFound, "not found")
	}

	log.Printf("[cart_handler] %s %s session=%s elapsed=%s", r.Method, path, sess.Key(), time.Since(start))
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Variant   string `json:"variant"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	ImageRef  string `json:"imageRef"`
	Qty       int    `json:"qty"`
}

func (h *CartHandler) handleAdd(w http.ResponseWriter, r *http.Request, sess *cartsync.Session) {
	var req addItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if req.Qty < 1 {
		req.Qty = 1
	}
	if strings.TrimSpace(req.ProductID) == "" {
		writeErr(w, http.StatusBadRequest, "productId is required")
		return
	}

	// Reject the reserved delimiter here; past this boundary it would be
	// a programming error.
	if err := cartdom.ValidateIDPart(req.ProductID); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := cartdom.ValidateIDPart(req.Variant); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	item := cartdom.Item{
		ID:        cartdom.DeriveItemID(sess.Identity(), req.ProductID, req.Variant),
		ProductID: req.ProductID,
		Variant:   req.Variant,
		Name:      req.Name,
		Price:     req.Price,
		ImageRef:  req.ImageRef,
	}

	if err := sess.Add(r.Context(), item, req.Qty); err != nil {
		writeEngineErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

type setQtyRequest struct {
	ID  string `json:"id"`
	Qty int    `json:"qty"`
}

func (h *CartHandler) handleSetQty(w http.ResponseWriter, r *http.Request, sess *cartsync.Session) {
	var req setQtyRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		writeErr(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := sess.SetQuantity(r.Context(), req.ID, req.Qty); err != nil {
		writeEngineErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (h *CartHandler) handleRemove(w http.ResponseWriter, r *http.Request, sess *cartsync.Session) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeErr(w, http.StatusBadRequest, "id query parameter is required")
		return
	}

	if err := sess.Remove(r.Context(), id); err != nil {
		writeEngineErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (h *CartHandler) handleClear(w http.ResponseWriter, r *http.Request, sess *cartsync.Session) {
	if err := sess.Clear(r.Context()); err != nil {
		writeEngineErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}
