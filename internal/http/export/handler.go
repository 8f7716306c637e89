package export

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	"github.com/Stevy-aimery/pantheres-finance/internal/budget"
	"github.com/Stevy-aimery/pantheres-finance/internal/cotisation"
	"github.com/Stevy-aimery/pantheres-finance/internal/export"
	"github.com/Stevy-aimery/pantheres-finance/internal/member"
	"github.com/Stevy-aimery/pantheres-finance/internal/transaction"
)

type Handler struct {
	members      *member.Service
	transactions *transaction.Service
	cotisations  *cotisation.Service
	budgets      *budget.Service

	periodStart time.Time
	periodEnd   time.Time
}

func NewHandler(
	members *member.Service,
	transactions *transaction.Service,
	cotisations *cotisation.Service,
	budgets *budget.Service,
	periodStart, periodEnd time.Time,
) *Handler {
	return &Handler{
		members:      members,
		transactions: transactions,
		cotisations:  cotisations,
		budgets:      budgets,
		periodStart:  periodStart,
		periodEnd:    periodEnd,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/transactions", h.transactionsCSV)
	r.Get("/membres", h.membersCSV)
	r.Get("/cotisations", h.cotisationsCSV)
	r.Get("/budget", h.budgetCSV)
}

// gate enforces the export allow-list: the treasurer always passes,
// bureau members only with an allow-listed fonction, players never.
func gate(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return nil, false
	}

	if !identity.CanExport() {
		http.Error(w, "exports are not allowed for this fonction", http.StatusForbidden)
		return nil, false
	}

	return identity, true
}

func serveCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}

func csvFilename(prefix string) string {
	return fmt.Sprintf("%s_%s.csv", prefix, time.Now().Format("2006-01-02"))
}

func (h *Handler) transactionsCSV(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r); !ok {
		return
	}

	txs, err := h.transactions.List(r.Context(), transaction.ListFilter{})
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data, err := export.Transactions(txs)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	serveCSV(w, csvFilename("transactions"), data)
}

func (h *Handler) membersCSV(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r); !ok {
		return
	}

	members, err := h.members.List(r.Context(), member.ListFilter{})
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data, err := export.Members(members)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	serveCSV(w, csvFilename("membres"), data)
}

func (h *Handler) cotisationsCSV(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r); !ok {
		return
	}

	states, err := h.cotisations.StatusReport(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data, err := export.Cotisations(states)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	serveCSV(w, csvFilename("cotisations"), data)
}

func (h *Handler) budgetCSV(w http.ResponseWriter, r *http.Request) {
	if _, ok := gate(w, r); !ok {
		return
	}

	lines, err := h.budgets.Overview(r.Context(), h.periodStart, h.periodEnd)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data, err := export.Budget(lines)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	serveCSV(w, csvFilename("budget"), data)
}
