// internal/adapters/in/http/handler/helper_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"santimill/internal/adapters/in/http/middleware"
	"santimill/internal/application/cartsync"
	cartdom "santimill/internal/domain/cart"
	orderdom "santimill/internal/domain/order"
)

// ============================================================
// Shared helpers
// ============================================================

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": strings.TrimSpace(msg)})
}

// writeEngineErr maps engine failure kinds onto status codes. Remote
// failures are recoverable: the client may retry the same operation.
func writeEngineErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cartsync.ErrRemoteTimeout):
		writeErr(w, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, cartsync.ErrRemoteRejected):
		writeErr(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, cartsync.ErrInvalidState):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, cartdom.ErrInvalidItem):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, orderdom.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

// resolveSession locates the request's engine session and lazily syncs
// its identity: when the request identity differs from the session's
// current one, this is exactly the identityChanged transition (login,
// logout, token restore) and the tracker runs before the operation.
//
// The session key must stay stable across the transition, so it always
// comes from the X-Session-Id header.
func resolveSession(r *http.Request, m *cartsync.Manager) (*cartsync.Session, error) {
	key, ok := middleware.RequestSessionKey(r)
	if !ok {
		return nil, errors.New("X-Session-Id header is required")
	}

	sess := m.Session(key)
	id := middleware.RequestIdentity(r)

	if id.String() != sess.Identity().String() {
		// tracker failures are sticky/non-fatal; the operation proceeds
		// on whatever snapshot survived
		if err := sess.IdentityChanged(r.Context(), id); err != nil {
			return sess, nil
		}
	}
	return sess, nil
}

// cartView is the response shape for cart reads.
type cartView struct {
	Items      cartdom.Snapshot  `json:"items"`
	Breakdown  cartdom.Breakdown `json:"breakdown"`
	SyncStatus string            `json:"syncStatus,omitempty"`
}

func viewOf(sess *cartsync.Session) cartView {
	snap := sess.Snapshot()
	v := cartView{Items: snap, Breakdown: snap.ComputeBreakdown()}
	if err := sess.SyncStatus(); err != nil {
		v.SyncStatus = "stale: " + err.Error()
	}
	return v
}

func decodeBody(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
