package budget

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	"github.com/Stevy-aimery/pantheres-finance/internal/budget"
	"github.com/Stevy-aimery/pantheres-finance/internal/transaction"
)

type Handler struct {
	svc *budget.Service

	// Default reporting period, the running season.
	periodStart time.Time
	periodEnd   time.Time
}

func NewHandler(svc *budget.Service, periodStart, periodEnd time.Time) *Handler {
	return &Handler{svc: svc, periodStart: periodStart, periodEnd: periodEnd}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.overview)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) period(r *http.Request) (time.Time, time.Time) {
	start, end := h.periodStart, h.periodEnd

	if s := r.URL.Query().Get("start"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			start = t
		}
	}
	if s := r.URL.Query().Get("end"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			end = t
		}
	}

	return start, end
}

type lineResponse struct {
	ID           uuid.UUID `json:"id"`
	Categorie    string    `json:"categorie"`
	Type         string    `json:"type"`
	BudgetAlloue int64     `json:"budget_alloue"`
	PeriodeDebut time.Time `json:"periode_debut"`
	PeriodeFin   time.Time `json:"periode_fin"`
}

type realizedResponse struct {
	lineResponse
	Realise     int64   `json:"realise"`
	Ecart       int64   `json:"ecart"`
	Pourcentage float64 `json:"pourcentage"`
	Statut      string  `json:"statut"`
}

func toLineResponse(l *budget.Line) lineResponse {
	return lineResponse{
		ID:           l.ID,
		Categorie:    l.Categorie,
		Type:         string(l.Type),
		BudgetAlloue: l.BudgetAlloue,
		PeriodeDebut: l.PeriodeDebut,
		PeriodeFin:   l.PeriodeFin,
	}
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	start, end := h.period(r)

	lines, err := h.svc.Overview(r.Context(), start, end)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := make([]realizedResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, realizedResponse{
			lineResponse: toLineResponse(&l.Line),
			Realise:      l.Realise,
			Ecart:        l.Ecart,
			Pourcentage:  l.Pourcentage,
			Statut:       string(l.Statut),
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(out); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type lineRequest struct {
	Categorie    string    `json:"categorie"`
	Type         string    `json:"type"`
	BudgetAlloue int64     `json:"budget_alloue"`
	PeriodeDebut time.Time `json:"periode_debut"`
	PeriodeFin   time.Time `json:"periode_fin"`
}

func (req lineRequest) params() budget.LineParams {
	return budget.LineParams{
		Categorie:    req.Categorie,
		Type:         transaction.Type(req.Type),
		BudgetAlloue: req.BudgetAlloue,
		PeriodeDebut: req.PeriodeDebut,
		PeriodeFin:   req.PeriodeFin,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req lineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	line, err := h.svc.Create(r.Context(), identity, req.params())
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

	if err := json.NewEncoder(w).Encode(toLineResponse(line)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req lineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	line, err := h.svc.Update(r.Context(), identity, id, req.params())
	if err != nil {
		switch {
		case errors.Is(err, budget.ErrNotFound):
			http.Error(w, "budget line not found", http.StatusNotFound)
		case errors.Is(err, auth.ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toLineResponse(line)); err != nil {
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
		case errors.Is(err, budget.ErrNotFound):
			http.Error(w, "budget line not found", http.StatusNotFound)
		case errors.Is(err, auth.ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
