package cotisation

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	"github.com/Stevy-aimery/pantheres-finance/internal/cotisation"
)

// Invalidator is notified after every recorded payment so cached
// report aggregates get recomputed.
type Invalidator interface {
	Invalidate()
}

type Handler struct {
	svc     *cotisation.Service
	reports Invalidator
}

func NewHandler(svc *cotisation.Service, reports Invalidator) *Handler {
	return &Handler{svc: svc, reports: reports}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.statusReport)
	r.Post("/paiements", h.record)
	r.Get("/paiements/{membreID}", h.history)
}

type stateResponse struct {
	MonthlyDue     int64  `json:"cotisation_mensuelle"`
	ElapsedMonths  int    `json:"mois_ecoules"`
	TotalDue       int64  `json:"total_du"`
	TotalPaid      int64  `json:"total_paye"`
	Remaining      int64  `json:"reste"`
	PercentagePaid int    `json:"pourcentage_paye"`
	Status         string `json:"statut"`
}

func toStateResponse(st cotisation.State) stateResponse {
	return stateResponse{
		MonthlyDue:     st.MonthlyDue,
		ElapsedMonths:  st.ElapsedMonths,
		TotalDue:       st.TotalDue,
		TotalPaid:      st.TotalPaid,
		Remaining:      st.Remaining,
		PercentagePaid: st.PercentagePaid,
		Status:         string(st.Status),
	}
}

type memberStateResponse struct {
	MemberID  uuid.UUID `json:"membre_id"`
	NomPrenom string    `json:"nom_prenom"`
	Email     string    `json:"email"`
	stateResponse
}

func (h *Handler) statusReport(w http.ResponseWriter, r *http.Request) {
	states, err := h.svc.StatusReport(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := make([]memberStateResponse, 0, len(states))
	for _, st := range states {
		out = append(out, memberStateResponse{
			MemberID:      st.MemberID,
			NomPrenom:     st.NomPrenom,
			Email:         st.Email,
			stateResponse: toStateResponse(st.State),
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(out); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type recordPaymentRequest struct {
	MemberID uuid.UUID `json:"membre_id"`
	Month    int       `json:"mois"`
	Year     int       `json:"annee"`
	Amount   int64     `json:"montant"`
	Method   string    `json:"mode_paiement"`
}

type paymentResponse struct {
	ID          uuid.UUID `json:"id"`
	MemberID    uuid.UUID `json:"membre_id"`
	Month       int       `json:"mois"`
	Year        int       `json:"annee"`
	Amount      int64     `json:"montant"`
	Method      string    `json:"mode_paiement"`
	PaymentDate time.Time `json:"date_paiement"`
}

func toPaymentResponse(p *cotisation.Payment) paymentResponse {
	return paymentResponse{
		ID:          p.ID,
		MemberID:    p.MemberID,
		Month:       p.Month,
		Year:        p.Year,
		Amount:      p.Amount,
		Method:      string(p.Method),
		PaymentDate: p.PaymentDate,
	}
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Record(r.Context(), identity, cotisation.RecordParams{
		MemberID: req.MemberID,
		Month:    req.Month,
		Year:     req.Year,
		Amount:   req.Amount,
		Method:   cotisation.Method(req.Method),
	})
	if err != nil {
		switch {
		case errors.Is(err, cotisation.ErrDuplicatePayment):
			http.Error(w, "this month is already paid", http.StatusConflict)
		case errors.Is(err, auth.ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}

		return
	}

	h.reports.Invalidate()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toPaymentResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	memberID, err := uuid.Parse(chi.URLParam(r, "membreID"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	year := time.Now().Year()
	if s := r.URL.Query().Get("annee"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			year = n
		}
	}

	payments, err := h.svc.History(r.Context(), identity, memberID, year)
	if err != nil {
		if errors.Is(err, auth.ErrForbidden) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(out); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
