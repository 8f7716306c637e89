package budget_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stevy-aimery/pantheres-finance/internal/budget"
	"github.com/Stevy-aimery/pantheres-finance/internal/transaction"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name        string
		typ         transaction.Type
		pourcentage float64
		want        budget.Status
	}{
		// Expense polarity: overspending is the failure mode.
		{"DepenseUnder80", transaction.TypeDepense, 50, budget.StatusOK},
		{"DepenseAt80", transaction.TypeDepense, 80, budget.StatusOK},
		{"DepenseOver80", transaction.TypeDepense, 81, budget.StatusAttention},
		{"DepenseAt100", transaction.TypeDepense, 100, budget.StatusAttention},
		{"DepenseOver100", transaction.TypeDepense, 110, budget.StatusOverrun},
		// Income polarity is inverted: under-collection is the failure mode.
		{"RecetteAt100", transaction.TypeRecette, 100, budget.StatusOK},
		{"RecetteOver100", transaction.TypeRecette, 120, budget.StatusOK},
		{"RecetteAt90", transaction.TypeRecette, 90, budget.StatusAttention},
		{"RecetteAt80", transaction.TypeRecette, 80, budget.StatusAttention},
		{"RecetteUnder80", transaction.TypeRecette, 79, budget.StatusShortfall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, budget.StatusFor(tt.typ, tt.pourcentage))
		})
	}
}

func TestEnrich(t *testing.T) {
	expense := budget.Line{Categorie: "Équipement", Type: transaction.TypeDepense, BudgetAlloue: 1000}

	got := budget.Enrich(expense, 1100)
	assert.Equal(t, int64(100), got.Ecart)
	assert.InDelta(t, 110.0, got.Pourcentage, 0.001)
	assert.Equal(t, budget.StatusOverrun, got.Statut)
	assert.True(t, got.Statut.Alert())

	income := budget.Line{Categorie: "Cotisations", Type: transaction.TypeRecette, BudgetAlloue: 1000}

	short := budget.Enrich(income, 900)
	assert.Equal(t, budget.StatusAttention, short.Statut)

	veryShort := budget.Enrich(income, 700)
	assert.Equal(t, budget.StatusShortfall, veryShort.Statut)
	assert.True(t, veryShort.Statut.Alert())

	onTarget := budget.Enrich(income, 1000)
	assert.Equal(t, budget.StatusOK, onTarget.Statut)
}

func TestEnrich_ZeroAllocation(t *testing.T) {
	line := budget.Line{Categorie: "Divers", Type: transaction.TypeDepense, BudgetAlloue: 0}

	got := budget.Enrich(line, 500)
	assert.Equal(t, 0.0, got.Pourcentage)
	assert.Equal(t, budget.StatusOK, got.Statut)
}

// Mock repository + ledger in the style of the package's narrow interfaces.
type mockRepo struct {
	lines []budget.Line
}

func (m *mockRepo) CreateLine(context.Context, *budget.Line) error { return nil }
func (m *mockRepo) GetLine(context.Context, uuid.UUID) (*budget.Line, error) {
	return nil, budget.ErrNotFound
}
func (m *mockRepo) UpdateLine(context.Context, *budget.Line) error { return nil }
func (m *mockRepo) DeleteLine(context.Context, uuid.UUID) error    { return nil }
func (m *mockRepo) ListLines(context.Context, time.Time, time.Time) ([]budget.Line, error) {
	return m.lines, nil
}

type mockLedger struct {
	sums map[string]int64
}

func (m *mockLedger) RealizedByCategory(context.Context, time.Time, time.Time) (map[string]int64, error) {
	return m.sums, nil
}

func TestService_Overview(t *testing.T) {
	repo := &mockRepo{lines: []budget.Line{
		{Categorie: "Équipement", Type: transaction.TypeDepense, BudgetAlloue: 1000},
		{Categorie: "Cotisations", Type: transaction.TypeRecette, BudgetAlloue: 2000},
		{Categorie: "Transport", Type: transaction.TypeDepense, BudgetAlloue: 500},
	}}
	ledger := &mockLedger{sums: map[string]int64{
		"Dépense-Équipement":  1100,
		"Recette-Cotisations": 2000,
	}}

	svc := budget.NewService(repo, ledger)

	overview, err := svc.Overview(context.Background(), time.Now().AddDate(0, -6, 0), time.Now())
	require.NoError(t, err)
	require.Len(t, overview, 3)

	assert.Equal(t, budget.StatusOverrun, overview[0].Statut)
	assert.Equal(t, budget.StatusOK, overview[1].Statut)
	// No matching transactions at all: zero realized expense is fine.
	assert.Equal(t, int64(0), overview[2].Realise)
	assert.Equal(t, budget.StatusOK, overview[2].Statut)
}
