// internal/adapters/in/http/handler/payment_handler.go
package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"santimill/internal/adapters/in/http/middleware"
	"santimill/internal/application/cartsync"
	"santimill/internal/application/usecase"
	orderdom "santimill/internal/domain/order"
)

// PaymentHandler verifies the gateway payment signature and finalizes
// the paid order. The client forwards the gateway callback fields here
// after a successful online payment.
type PaymentHandler struct {
	manager *cartsync.Manager
	uc      *usecase.CheckoutUsecase
	secret  string
}

func NewPaymentHandler(manager *cartsync.Manager, uc *usecase.CheckoutUsecase, secret string) http.Handler {
	return &PaymentHandler{manager: manager, uc: uc, secret: strings.TrimSpace(secret)}
}

func (h *PaymentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.manager == nil || h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "payment handler is not configured")
		return
	}
	if h.secret == "" {
		writeErr(w, http.StatusInternalServerError, "payment secret is not configured")
		return
	}

	var req paymentVerifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if req.OrderID == "" || req.GatewayOrderID == "" || req.GatewayPaymentID == "" || req.Signature == "" {
		writeErr(w, http.StatusBadRequest, "orderId, gatewayOrderId, gatewayPaymentId and signature are required")
		return
	}

	if !verifySignature(h.secret, req.GatewayOrderID, req.GatewayPaymentID, req.Signature) {
		writeErr(w, http.StatusUnauthorized, "payment signature verification failed")
		return
	}

	sess, err := resolveSession(r, h.manager)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.uc.FinalizePaid(r.Context(), sess, req.OrderID, middleware.RequestEmail(r)); err != nil {
		writeEngineErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkoutResponse{OrderID: req.OrderID, Status: string(orderdom.StatusProcessing)})
}

type paymentVerifyRequest struct {
	OrderID          string `json:"orderId"`
	GatewayOrderID   string `json:"gatewayOrderId"`
	GatewayPaymentID string `json:"gatewayPaymentId"`
	Signature        string `json:"signature"`
}

// verifySignature recomputes the gateway HMAC over
// "<gatewayOrderId>|<gatewayPaymentId>" and compares it in constant
// time against the hex signature from the callback.
func verifySignature(secret, gatewayOrderID, gatewayPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(strings.ToLower(strings.TrimSpace(signature))))
}
