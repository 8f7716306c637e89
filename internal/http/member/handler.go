package member

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	"github.com/Stevy-aimery/pantheres-finance/internal/member"
)

type Handler struct {
	svc *member.Service
}

func NewHandler(svc *member.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createMemberRequest struct {
	NomPrenom      string    `json:"nom_prenom"`
	Telephone      string    `json:"telephone"`
	Email          string    `json:"email"`
	Statut         string    `json:"statut"`
	RoleJoueur     bool      `json:"role_joueur"`
	RoleBureau     bool      `json:"role_bureau"`
	FonctionBureau string    `json:"fonction_bureau"`
	DateEntree     time.Time `json:"date_entree"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req createMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.svc.Create(r.Context(), identity, member.CreateParams{
		NomPrenom:      req.NomPrenom,
		Telephone:      req.Telephone,
		Email:          req.Email,
		Statut:         member.Statut(req.Statut),
		RoleJoueur:     req.RoleJoueur,
		RoleBureau:     req.RoleBureau,
		FonctionBureau: req.FonctionBureau,
		DateEntree:     req.DateEntree,
	})
	if err != nil {
		if errors.Is(err, auth.ErrForbidden) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(m)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := member.ListFilter{}

	if s := r.URL.Query().Get("statut"); s != "" {
		statut := member.Statut(s)
		filter.Statut = &statut
	}

	if s := r.URL.Query().Get("role_bureau"); s == "true" {
		yes := true
		filter.RoleBureau = &yes
	}

	members, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(members)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			http.Error(w, "member not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(m)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateMemberRequest struct {
	NomPrenom      *string    `json:"nom_prenom,omitempty"`
	Telephone      *string    `json:"telephone,omitempty"`
	Email          *string    `json:"email,omitempty"`
	Statut         *string    `json:"statut,omitempty"`
	RoleJoueur     *bool      `json:"role_joueur,omitempty"`
	RoleBureau     *bool      `json:"role_bureau,omitempty"`
	FonctionBureau *string    `json:"fonction_bureau,omitempty"`
	DateEntree     *time.Time `json:"date_entree,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := member.UpdateParams{
		NomPrenom:      req.NomPrenom,
		Telephone:      req.Telephone,
		Email:          req.Email,
		RoleJoueur:     req.RoleJoueur,
		RoleBureau:     req.RoleBureau,
		FonctionBureau: req.FonctionBureau,
		DateEntree:     req.DateEntree,
	}
	if req.Statut != nil {
		statut := member.Statut(*req.Statut)
		params.Statut = &statut
	}

	m, err := h.svc.Update(r.Context(), identity, id, params)
	if err != nil {
		switch {
		case errors.Is(err, member.ErrNotFound):
			http.Error(w, "member not found", http.StatusNotFound)
		case errors.Is(err, auth.ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(m)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), identity, id); err != nil {
		switch {
		case errors.Is(err, member.ErrNotFound):
			http.Error(w, "member not found", http.StatusNotFound)
		case errors.Is(err, auth.ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
