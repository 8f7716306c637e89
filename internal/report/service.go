package report

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Stevy-aimery/pantheres-finance/internal/budget"
	"github.com/Stevy-aimery/pantheres-finance/internal/cotisation"
)

const (
	cacheKeyKPIs    = "kpis"
	cacheKeyAlertes = "alertes"
)

// Ledger exposes the all-time transaction totals.
type Ledger interface {
	Totals(ctx context.Context) (recettes, depenses int64, err error)
}

// DuesReporter exposes the per-member cotisation states.
type DuesReporter interface {
	StatusReport(ctx context.Context) ([]cotisation.MemberState, error)
}

// BudgetReader exposes the enriched budget lines for a period.
type BudgetReader interface {
	Overview(ctx context.Context, start, end time.Time) ([]budget.Realized, error)
}

type Service struct {
	ledger  Ledger
	dues    DuesReporter
	budgets BudgetReader

	periodStart  time.Time
	periodEnd    time.Time
	reserveFloor int64

	cache *gocache.Cache
}

func NewService(ledger Ledger, dues DuesReporter, budgets BudgetReader, periodStart, periodEnd time.Time, reserveFloor int64) *Service {
	return &Service{
		ledger:       ledger,
		dues:         dues,
		budgets:      budgets,
		periodStart:  periodStart,
		periodEnd:    periodEnd,
		reserveFloor: reserveFloor,
		cache:        gocache.New(30*time.Second, time.Minute),
	}
}

// KPIs computes the dashboard snapshot. Results are cached for 30
// seconds so repeated dashboard loads do not hammer the aggregates.
func (s *Service) KPIs(ctx context.Context) (KPIs, error) {
	if cached, ok := s.cache.Get(cacheKeyKPIs); ok {
		return cached.(KPIs), nil
	}

	recettes, depenses, err := s.ledger.Totals(ctx)
	if err != nil {
		return KPIs{}, fmt.Errorf("summing transactions: %w", err)
	}

	states, err := s.dues.StatusReport(ctx)
	if err != nil {
		return KPIs{}, fmt.Errorf("deriving cotisation states: %w", err)
	}

	var totalDue, totalPaid int64
	var late int
	for _, st := range states {
		totalDue += st.TotalDue
		totalPaid += st.State.TotalPaid
		if st.Status == cotisation.StatusRetard {
			late++
		}
	}

	taux := 100.0
	if totalDue > 0 {
		taux = float64(totalPaid) / float64(totalDue) * 100
		if taux > 100 {
			taux = 100
		}
	}

	kpis := KPIs{
		Solde:            recettes - depenses,
		TotalRecettes:    recettes,
		TotalDepenses:    depenses,
		TauxRecouvrement: taux,
		FondsReserve:     s.reserveFloor,
		MembresActifs:    len(states),
		MembresEnRetard:  late,
	}

	s.cache.Set(cacheKeyKPIs, kpis, gocache.DefaultExpiration)
	return kpis, nil
}

// Alerts evaluates the alert rules against the current KPIs and budget
// lines. Same 30 second cache as KPIs.
func (s *Service) Alerts(ctx context.Context) ([]Alert, error) {
	if cached, ok := s.cache.Get(cacheKeyAlertes); ok {
		return cached.([]Alert), nil
	}

	kpis, err := s.KPIs(ctx)
	if err != nil {
		return nil, err
	}

	lines, err := s.budgets.Overview(ctx, s.periodStart, s.periodEnd)
	if err != nil {
		return nil, fmt.Errorf("loading budget overview: %w", err)
	}

	alerts := Evaluate(kpis, lines)
	s.cache.Set(cacheKeyAlertes, alerts, gocache.DefaultExpiration)
	return alerts, nil
}

// Invalidate drops the cached snapshot, forcing the next read to
// recompute. Called after payments and transactions are written.
func (s *Service) Invalidate() {
	s.cache.Delete(cacheKeyKPIs)
	s.cache.Delete(cacheKeyAlertes)
}
