package server

import (
	"context"
	"encoding/json"
	"net/http"

	"tynda/cache"
	"tynda/config"
	"tynda/logger"
	"tynda/model"
	"tynda/repository"
)

// APIHandler handles all API requests.
type APIHandler struct {
	trackRepo   repository.TrackRepository
	userRepo    repository.UserRepository
	contactRepo repository.ContactRepository
	sessions    *cache.SessionStore
	cfg         *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	trackRepo repository.TrackRepository,
	userRepo repository.UserRepository,
	contactRepo repository.ContactRepository,
	sessions *cache.SessionStore,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		trackRepo:   trackRepo,
		userRepo:    userRepo,
		contactRepo: contactRepo,
		sessions:    sessions,
		cfg:         cfg,
	}
}

type contextKey string

const sessionContextKey contextKey = "session"

// SessionMiddleware resolves the session cookie against the session store and
// attaches the session, if any, to the request context. It never rejects a
// request; public routes work without a session and the guarded routes decide
// for themselves.
func (h *APIHandler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(h.cfg.SessionCookieName)
		if err == nil && cookie.Value != "" {
			sess, err := h.sessions.Read(r.Context(), cookie.Value)
			if err != nil {
				logger.Error("Failed to read session", logger.ErrorField(err))
			} else if sess != nil {
				ctx := context.WithValue(r.Context(), sessionContextKey, sess)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFromContext extracts the session from the request context.
// Returns nil for unauthenticated requests.
func SessionFromContext(ctx context.Context) *model.Session {
	sess, _ := ctx.Value(sessionContextKey).(*model.Session)
	return sess
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", logger.ErrorField(err))
	}
}

// respondError writes a JSON error body with the given status.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondServerError logs the underlying failure and returns a generic 500,
// leaking no internal detail to the caller.
func respondServerError(w http.ResponseWriter, msg string, err error) {
	logger.Error(msg, logger.ErrorField(err))
	respondError(w, http.StatusInternalServerError, "Server error")
}
