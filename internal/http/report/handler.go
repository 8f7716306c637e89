package report

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	"github.com/Stevy-aimery/pantheres-finance/internal/cotisation"
	"github.com/Stevy-aimery/pantheres-finance/internal/member"
	"github.com/Stevy-aimery/pantheres-finance/internal/rbac"
	"github.com/Stevy-aimery/pantheres-finance/internal/report"
)

type Handler struct {
	reports     *report.Service
	cotisations *cotisation.Service
	members     *member.Service
}

func NewHandler(reports *report.Service, cotisations *cotisation.Service, members *member.Service) *Handler {
	return &Handler{reports: reports, cotisations: cotisations, members: members}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.dashboard)
}

// MeRoutes serve the personal dashboard, outside the section gate so
// players reach their own numbers.
func (h *Handler) MeRoutes(r chi.Router) {
	r.Get("/cotisation", h.myCotisation)
	r.Get("/paiements", h.myPayments)
}

type dashboardResponse struct {
	KPIs    report.KPIs    `json:"kpis"`
	Alertes []report.Alert `json:"alertes"`
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	if err := identity.RequirePermission(rbac.PermViewDashboardGlobal); err != nil {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	kpis, err := h.reports.KPIs(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	alerts, err := h.reports.Alerts(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(dashboardResponse{KPIs: kpis, Alertes: alerts}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type myCotisationResponse struct {
	NomPrenom      string `json:"nom_prenom"`
	MonthlyDue     int64  `json:"cotisation_mensuelle"`
	ElapsedMonths  int    `json:"mois_ecoules"`
	TotalDue       int64  `json:"total_du"`
	TotalPaid      int64  `json:"total_paye"`
	Remaining      int64  `json:"reste"`
	PercentagePaid int    `json:"pourcentage_paye"`
	Status         string `json:"statut"`
}

func (h *Handler) myCotisation(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	if identity.MemberID == nil {
		http.Error(w, "no member record linked to this account", http.StatusNotFound)
		return
	}

	m, err := h.members.Get(r.Context(), *identity.MemberID)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			http.Error(w, "member not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	state, err := h.cotisations.StateFor(r.Context(), m.ID, m.RoleJoueur, m.RoleBureau)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := myCotisationResponse{
		NomPrenom:      m.NomPrenom,
		MonthlyDue:     state.MonthlyDue,
		ElapsedMonths:  state.ElapsedMonths,
		TotalDue:       state.TotalDue,
		TotalPaid:      state.TotalPaid,
		Remaining:      state.Remaining,
		PercentagePaid: state.PercentagePaid,
		Status:         string(state.Status),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type paymentResponse struct {
	Month       int       `json:"mois"`
	Year        int       `json:"annee"`
	Amount      int64     `json:"montant"`
	Method      string    `json:"mode_paiement"`
	PaymentDate time.Time `json:"date_paiement"`
}

func (h *Handler) myPayments(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	if identity.MemberID == nil {
		http.Error(w, "no member record linked to this account", http.StatusNotFound)
		return
	}

	year := time.Now().Year()
	if s := r.URL.Query().Get("annee"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			year = n
		}
	}

	payments, err := h.cotisations.History(r.Context(), identity, *identity.MemberID, year)
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
		out = append(out, paymentResponse{
			Month:       p.Month,
			Year:        p.Year,
			Amount:      p.Amount,
			Method:      string(p.Method),
			PaymentDate: p.PaymentDate,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(out); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
