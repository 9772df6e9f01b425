// internal/adapters/in/http/handler/checkout_handler.go
package handler

import (
	"net/http"
	"strings"

	"santimill/internal/adapters/in/http/middleware"
	"santimill/internal/application/cartsync"
	"santimill/internal/application/usecase"
	orderdom "santimill/internal/domain/order"
)

// CheckoutHandler serves order creation and lookup.
//
// POST /checkout creates the provisional order; for cash on delivery it
// finalizes immediately, for online payment the caller proceeds to the
// gateway and finalization happens through the payment webhook.
type CheckoutHandler struct {
	manager *cartsync.Manager
	uc      *usecase.CheckoutUsecase
	orders  orderdom.Store
}

func NewCheckoutHandler(manager *cartsync.Manager, uc *usecase.CheckoutUsecase, orders orderdom.Store) http.Handler {
	return &CheckoutHandler{manager: manager, uc: uc, orders: orders}
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.manager == nil || h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "checkout handler is not configured")
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.handleCheckout(w, r)
	case http.MethodGet:
		h.handleGetOrder(w, r)
	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type checkoutRequest struct {
	Shipping      orderdom.ShippingSnapshot `json:"shipping"`
	PaymentMethod string                    `json:"paymentMethod"`
}

type checkoutResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

func (h *CheckoutHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	sess, err := resolveSession(r, h.manager)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	var req checkoutRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	method := orderdom.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod)))
	if method != orderdom.MethodCOD && method != orderdom.MethodOnline {
		writeErr(w, http.StatusBadRequest, "paymentMethod must be cod or online")
		return
	}

	orderID, err := h.uc.CreateProvisionalOrder(r.Context(), sess, req.Shipping, method)
	if err != nil {
		writeEngineErr(w, err)
		return
	}

	// COD has no external payment signal; finalize in the same request.
	if method == orderdom.MethodCOD {
		if err := h.uc.Finalize(r.Context(), sess, orderID, middleware.RequestEmail(r)); err != nil {
			// order stays pending; surface the failure so the client can
			// retry finalization
			writeEngineErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, checkoutResponse{OrderID: orderID, Status: string(orderdom.StatusProcessing)})
		return
	}

	writeJSON(w, http.StatusOK, checkoutResponse{OrderID: orderID, Status: string(orderdom.StatusPending)})
}

func (h *CheckoutHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	if h.orders == nil {
		writeErr(w, http.StatusInternalServerError, "order store is not configured")
		return
	}

	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeErr(w, http.StatusBadRequest, "id query parameter is required")
		return
	}

	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		writeEngineErr(w, err)
		return
	}

	// orders are user-scoped; only the owner may read one
	identity := middleware.RequestIdentity(r)
	if !identity.IsAuthenticated() || identity.UserID() != o.UserID {
		writeErr(w, http.StatusForbidden, "forbidden")
		return
	}

	writeJSON(w, http.StatusOK, o)
}
