// internal/adapters/in/http/middleware/identity.go
package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	cartdom "santimill/internal/domain/cart"
)

// FirebaseAuthClient is an alias for the firebase auth client, so deps
// can be typed *middleware.FirebaseAuthClient.
type FirebaseAuthClient = fbauth.Client

// context keys use a dedicated type to avoid collisions (SA1029).
type ctxKey struct{ name string }

var (
	ctxKeyIdentity   = ctxKey{name: "identity"}
	ctxKeyEmail      = ctxKey{name: "email"}
	ctxKeySessionKey = ctxKey{name: "sessionKey"}
)

// SessionKeyHeader carries the browser session key. It stays stable
// across login/logout within one browser session, which is what lets the
// engine observe the anonymous→authenticated transition and merge the
// guest cart.
const SessionKeyHeader = "X-Session-Id"

// Identity resolves the session identity for every request:
//
//   - a valid Authorization: Bearer <ID_TOKEN> yields Authenticated(uid)
//     (plus the email claim when present);
//   - anything else is Anonymous. An invalid token is rejected rather
//     than silently downgraded.
type Identity struct {
	FirebaseAuth *FirebaseAuthClient
}

func (m *Identity) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if key := strings.TrimSpace(r.Header.Get(SessionKeyHeader)); key != "" {
			ctx = context.WithValue(ctx, ctxKeySessionKey, key)
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			ctx = context.WithValue(ctx, ctxKeyIdentity, cartdom.Anonymous())
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if m.FirebaseAuth == nil {
			http.Error(w, "auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		token, err := m.FirebaseAuth.VerifyIDToken(ctx, idToken)
		if err != nil {
			log.Printf("[identity] token verification failed: %v", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		ctx = context.WithValue(ctx, ctxKeyIdentity, cartdom.Authenticated(uid))

		if emailRaw, ok := token.Claims["email"]; ok {
			if email, ok2 := emailRaw.(string); ok2 && strings.TrimSpace(email) != "" {
				ctx = context.WithValue(ctx, ctxKeyEmail, strings.TrimSpace(email))
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIdentity returns the identity the middleware resolved.
func RequestIdentity(r *http.Request) cartdom.Identity {
	if v := r.Context().Value(ctxKeyIdentity); v != nil {
		if id, ok := v.(cartdom.Identity); ok {
			return id
		}
	}
	return cartdom.Anonymous()
}

// RequestEmail returns the authenticated email claim, if any.
func RequestEmail(r *http.Request) string {
	if v := r.Context().Value(ctxKeyEmail); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequestSessionKey returns the browser session key, if supplied.
// Falls back to the raw header so the key is available even when the
// identity middleware is not mounted.
func RequestSessionKey(r *http.Request) (string, bool) {
	if v := r.Context().Value(ctxKeySessionKey); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	if key := strings.TrimSpace(r.Header.Get(SessionKeyHeader)); key != "" {
		return key, true
	}
	return "", false
}
