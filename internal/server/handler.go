package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"hub-go/internal/hub"
)

// sessionCookieName is the cookie holding the signed session token.
const sessionCookieName = "hub_session"

// Site is the display metadata exposed to clients.
type Site struct {
	Name           string `json:"name"`
	SupportContact string `json:"supportContact"`
}

// Handler handles HTTP requests for the dashboard API and pages.
type Handler struct {
	repo     *hub.ItemRepository
	auth     *hub.AuthService
	sessions *hub.SessionManager
	site     Site
	logger   hub.Logger
}

// NewHandler creates a Handler with dependencies.
func NewHandler(repo *hub.ItemRepository, auth *hub.AuthService, sessions *hub.SessionManager, site Site, logger hub.Logger) *Handler {
	return &Handler{repo: repo, auth: auth, sessions: sessions, site: site, logger: logger}
}

// Routes builds the request mux: the JSON API plus the guarded pages.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/items", h.itemsHandler)
	mux.HandleFunc("/api/auth", h.handleAuth)
	mux.HandleFunc("/api/logout", h.handleLogout)
	mux.HandleFunc("/api/site", h.handleSite)

	mux.Handle("/", h.requireTier(hub.TierUser, http.HandlerFunc(h.handleDashboardPage)))
	mux.Handle("/admin", h.requireTier(hub.TierAdmin, http.HandlerFunc(h.handleAdminPage)))
	mux.HandleFunc("/login", h.handleLoginPage)
	return mux
}

// itemsHandler routes /api/items by method: GET for list, POST for create,
// DELETE for removal. DELETE carries the id in the request body, matching
// the client contract.
func (h *Handler) itemsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListItems(w, r)
	case http.MethodPost:
		h.handleCreateItem(w, r)
	case http.MethodDelete:
		h.handleDeleteItem(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

// handleListItems processes GET /api/items. It always answers 200; storage
// failures degrade to an empty list inside the repository.
func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.repo.List(r.Context()))
}

// handleCreateItem processes POST /api/items.
func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var in hub.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.repo.Create(r.Context(), in)
	if err != nil {
		var verr *hub.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Message)
			return
		}
		h.logger.Error("creating item failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleDeleteItem processes DELETE /api/items.
func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.repo.Delete(r.Context(), body.ID); err != nil {
		var verr *hub.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Message)
			return
		}
		h.logger.Error("deleting item failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleAuth processes POST /api/auth: validates the password, issues a
// session token, and sets the session cookie.
func (h *Handler) handleAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Password == "" {
		writeError(w, http.StatusBadRequest, "Password is required")
		return
	}

	tier, err := h.auth.Authenticate(body.Password)
	if err != nil {
		switch {
		case errors.Is(err, hub.ErrNotConfigured):
			h.logger.Error("authentication passwords not configured")
			writeError(w, http.StatusInternalServerError, "Authentication not configured")
		case errors.Is(err, hub.ErrInvalidCredential):
			writeError(w, http.StatusUnauthorized, "Invalid password")
		default:
			h.logger.Error("authentication failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	token, err := h.sessions.Issue(tier)
	if err != nil {
		h.logger.Error("issuing session token failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(hub.DefaultSessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"level": string(tier), "token": token})
}

// handleLogout processes POST /api/logout by clearing the session cookie.
// The token itself stays valid until expiry; logout only forgets it
// client-side, mirroring the tier state machine where logout is always a
// transition to none.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleSite processes GET /api/site.
func (h *Handler) handleSite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.site)
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the standard error payload. msg must be safe for
// clients; internal detail belongs in the log.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
