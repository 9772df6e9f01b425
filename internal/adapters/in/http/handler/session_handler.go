// internal/adapters/in/http/handler/session_handler.go
package handler

import (
	"net/http"
	"strings"

	"santimill/internal/adapters/in/http/middleware"
	"santimill/internal/application/cartsync"
)

// SessionHandler serves the identity-transition endpoints:
//
//   - POST /session/refresh — the auth collaborator's identityChanged
//     event: re-runs the tracker against the request identity.
//   - POST /session/resync — foregroundRegained: unconditional
//     authenticated re-fetch, bypassing the tracked-id short circuit.
//   - GET  /session — current identity and sync status.
type SessionHandler struct {
	manager *cartsync.Manager
}

func NewSessionHandler(manager *cartsync.Manager) http.Handler {
	return &SessionHandler{manager: manager}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.manager == nil {
		writeErr(w, http.StatusInternalServerError, "session handler is not configured")
		return
	}

	key, ok := middleware.RequestSessionKey(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "X-Session-Id header is required")
		return
	}
	sess := h.manager.Session(key)

	path := strings.TrimRight(r.URL.Path, "/")

	switch {
	case r.Method == http.MethodGet:
		h.handleStatus(w, sess)

	case r.Method == http.MethodPost && strings.HasSuffix(path, "/refresh"):
		// non-fatal sync failures still return the (sticky) view
		_ = sess.IdentityChanged(r.Context(), middleware.RequestIdentity(r))
		writeJSON(w, http.StatusOK, viewOf(sess))

	case r.Method == http.MethodPost && strings.HasSuffix(path, "/resync"):
		_ = sess.Resync(r.Context())
		writeJSON(w, http.StatusOK, viewOf(sess))

	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

func (h *SessionHandler) handleStatus(w http.ResponseWriter, sess *cartsync.Session) {
	status := map[string]any{
		"identity": sess.Identity().String(),
		"items":    len(sess.Snapshot()),
	}
	if err := sess.SyncStatus(); err != nil {
		status["syncStatus"] = "stale: " + err.Error()
	} else {
		status["syncStatus"] = "ok"
	}
	writeJSON(w, http.StatusOK, status)
}
