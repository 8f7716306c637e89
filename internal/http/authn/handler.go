package authn

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	"github.com/Stevy-aimery/pantheres-finance/internal/rbac"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.login)
}

// MeRoutes are mounted behind the authenticator.
func (h *Handler) MeRoutes(r chi.Router) {
	r.Get("/", h.me)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResponse struct {
	UserID         uuid.UUID  `json:"user_id"`
	Email          string     `json:"email"`
	Role           rbac.Role  `json:"role"`
	MemberID       *uuid.UUID `json:"member_id,omitempty"`
	FonctionBureau string     `json:"fonction_bureau,omitempty"`
	Routes         []string   `json:"routes"`
	CanExport      bool       `json:"can_export"`
}

func toIdentityResponse(id *auth.Identity) identityResponse {
	return identityResponse{
		UserID:         id.UserID,
		Email:          id.Email,
		Role:           id.Role,
		MemberID:       id.MemberID,
		FonctionBureau: id.FonctionBureau,
		Routes:         rbac.AllowedRoutes(id.Role),
		CanExport:      id.CanExport(),
	}
}

type loginResponse struct {
	Token    string           `json:"token"`
	Identity identityResponse `json:"identity"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, identity, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(loginResponse{Token: token, Identity: toIdentityResponse(identity)}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toIdentityResponse(identity)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
