package settings

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	"github.com/Stevy-aimery/pantheres-finance/internal/email"
	"github.com/Stevy-aimery/pantheres-finance/internal/rbac"
)

// NotificationLister reads back the sent-email journal.
type NotificationLister interface {
	ListNotifications(ctx context.Context, limit int) ([]*email.LogEntry, error)
}

// Handler serves the parametres section: account provisioning and the
// notification journal. The route gate restricts the whole section to
// the treasurer; the role is still re-checked per handler.
type Handler struct {
	accounts      *auth.Service
	notifications NotificationLister
}

func NewHandler(accounts *auth.Service, notifications NotificationLister) *Handler {
	return &Handler{accounts: accounts, notifications: notifications}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/utilisateurs", h.createUser)
	r.Get("/notifications", h.listNotifications)
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	if err := identity.RequireRole(rbac.RoleTresorier); err != nil {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Email, req.Password, rbac.Role(req.Role))
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	resp := struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}{
		ID:    user.ID.String(),
		Email: user.Email,
		Role:  string(user.Role),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	if err := identity.RequireRole(rbac.RoleTresorier); err != nil {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	limit := 100
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	entries, err := h.notifications.ListNotifications(r.Context(), limit)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(entries); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
