package cron

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/cotisation"
	"github.com/Stevy-aimery/pantheres-finance/internal/email"
	"github.com/Stevy-aimery/pantheres-finance/internal/member"
	"github.com/Stevy-aimery/pantheres-finance/internal/report"
	"github.com/Stevy-aimery/pantheres-finance/internal/transaction"
)

// Notifier is the slice of the email notifier the jobs need.
type Notifier interface {
	SendDuesReminder(ctx context.Context, memberID uuid.UUID) error
	SendMonthlyReport(ctx context.Context, m *member.Member, data email.MonthlyReportData) error
}

// Handler serves the scheduled jobs. These endpoints are called by an
// external scheduler and authenticate with a shared secret instead of
// a user token.
type Handler struct {
	secret       string
	cotisations  *cotisation.Service
	members      *member.Service
	reports      *report.Service
	transactions *transaction.Service
	notifier     Notifier
}

func NewHandler(secret string, cotisations *cotisation.Service, members *member.Service, reports *report.Service, transactions *transaction.Service, notifier Notifier) *Handler {
	return &Handler{
		secret:       secret,
		cotisations:  cotisations,
		members:      members,
		reports:      reports,
		transactions: transactions,
		notifier:     notifier,
	}
}

// Hosted schedulers trigger jobs with plain GET requests.
func (h *Handler) Routes(r chi.Router) {
	r.Use(h.authenticate)
	r.Get("/relance-cotisations", h.duesReminders)
	r.Get("/rapport-mensuel", h.monthlyReport)
}

func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !found || subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type outcome struct {
	MemberID  uuid.UUID `json:"membre_id"`
	NomPrenom string    `json:"nom_prenom"`
	Sent      bool      `json:"sent"`
	Error     string    `json:"error,omitempty"`
}

type jobResponse struct {
	Attempted int       `json:"attempted"`
	Sent      int       `json:"sent"`
	Outcomes  []outcome `json:"outcomes"`
}

// duesReminders emails every member currently behind on cotisations.
// One failed recipient does not stop the batch.
func (h *Handler) duesReminders(w http.ResponseWriter, r *http.Request) {
	states, err := h.cotisations.StatusReport(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := jobResponse{Outcomes: []outcome{}}
	for _, st := range states {
		if st.Status != cotisation.StatusRetard {
			continue
		}

		resp.Attempted++
		out := outcome{MemberID: st.MemberID, NomPrenom: st.NomPrenom, Sent: true}

		if err := h.notifier.SendDuesReminder(r.Context(), st.MemberID); err != nil {
			slog.Error("dues reminder", "member_id", st.MemberID, "error", err)
			out.Sent = false
			out.Error = err.Error()
		} else {
			resp.Sent++
		}

		resp.Outcomes = append(resp.Outcomes, out)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// monthlyReport emails the financial summary to active bureau members.
func (h *Handler) monthlyReport(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.reports.KPIs(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	statut := member.StatutActif
	bureau := true
	recipients, err := h.members.List(r.Context(), member.ListFilter{Statut: &statut, RoleBureau: &bureau})
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := email.MonthlyReportData{
		SoldeActuel:      kpis.Solde,
		TauxRecouvrement: int(kpis.TauxRecouvrement),
		DepensesMois:     h.monthExpenses(r.Context()),
		TotalRecettes:    kpis.TotalRecettes,
		TotalDepenses:    kpis.TotalDepenses,
	}

	resp := jobResponse{Outcomes: []outcome{}}
	for _, m := range recipients {
		resp.Attempted++
		out := outcome{MemberID: m.ID, NomPrenom: m.NomPrenom, Sent: true}

		if err := h.notifier.SendMonthlyReport(r.Context(), m, data); err != nil {
			slog.Error("monthly report", "member_id", m.ID, "error", err)
			out.Sent = false
			out.Error = err.Error()
		} else {
			resp.Sent++
		}

		resp.Outcomes = append(resp.Outcomes, out)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// monthExpenses sums the dépenses of the calendar month being
// reported. Failures degrade to zero rather than blocking the report.
func (h *Handler) monthExpenses(ctx context.Context) int64 {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	typ := transaction.TypeDepense
	txs, err := h.transactions.List(ctx, transaction.ListFilter{Type: &typ, StartDate: &start, EndDate: &now})
	if err != nil {
		slog.Error("summing month expenses", "error", err)
		return 0
	}

	var total int64
	for _, tx := range txs {
		total += tx.Sortie
	}
	return total
}
