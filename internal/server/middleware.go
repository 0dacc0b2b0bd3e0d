package server

import (
	"net/http"
	"strings"
	"time"

	"hub-go/internal/hub"
)

// loggingMiddleware logs HTTP requests with method, path, status, and duration.
func loggingMiddleware(logger hub.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// requireTier wraps next with the route guard: no session redirects to the
// login page, and an under-privileged session redirects to the default view.
func (h *Handler) requireTier(required hub.Tier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tier := h.sessionTier(r)
		if !tier.Allows(required) {
			if tier == hub.TierNone {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sessionTier extracts and verifies the session token from the request,
// checking the session cookie first and then an Authorization bearer token.
// Anything absent or invalid is TierNone.
func (h *Handler) sessionTier(r *http.Request) hub.Tier {
	token := ""
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		token = cookie.Value
	}
	if token == "" {
		const prefix = "Bearer "
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, prefix) {
			token = strings.TrimSpace(strings.TrimPrefix(auth, prefix))
		}
	}
	if token == "" {
		return hub.TierNone
	}

	tier, err := h.sessions.Verify(token)
	if err != nil {
		h.logger.Debug("session token rejected", "error", err)
		return hub.TierNone
	}
	return tier
}
