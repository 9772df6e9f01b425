// internal/adapters/in/http/router.go
package httpin

import (
	"log"
	"net/http"

	"santimill/internal/adapters/in/http/middleware"
)

// Deps is the storefront handler set.
type Deps struct {
	IdentityMw *middleware.Identity

	Cart     http.Handler
	Session  http.Handler
	Checkout http.Handler
	Payment  http.Handler
}

// handleSafe registers pattern with h.
// If h is nil, it logs and registers NotFoundHandler instead (so Cloud Run won't crash).
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// NewRouter builds the full HTTP surface: routes plus the middleware
// chain Recover > CORS > Identity.
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// cart
	handleSafe(mux, "/cart", deps.Cart, "Cart")
	handleSafe(mux, "/cart/", deps.Cart, "Cart")

	// session
	handleSafe(mux, "/session", deps.Session, "Session")
	handleSafe(mux, "/session/", deps.Session, "Session")

	// checkout
	handleSafe(mux, "/checkout", deps.Checkout, "Checkout")
	handleSafe(mux, "/checkout/", deps.Checkout, "Checkout")

	// payment
	handleSafe(mux, "/payment/webhook", deps.Payment, "Payment")

	var h http.Handler = mux
	if deps.IdentityMw != nil {
		h = deps.IdentityMw.Handler(h)
	} else {
		log.Printf("[router] WARN: identity middleware not configured; all requests are anonymous")
	}
	h = middleware.CORS(h)
	h = middleware.Recover(h)
	return h
}
