package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Stevy-aimery/pantheres-finance/internal/budget"
	"github.com/Stevy-aimery/pantheres-finance/internal/transaction"
)

func depenseLine(categorie string, alloue int64, pourcentage float64) budget.Realized {
	realise := int64(float64(alloue) * pourcentage / 100)

	return budget.Realized{
		Line: budget.Line{
			Categorie:    categorie,
			Type:         transaction.TypeDepense,
			BudgetAlloue: alloue,
		},
		Realise:     realise,
		Ecart:       realise - alloue,
		Pourcentage: pourcentage,
	}
}

func TestEvaluate_RecouvrementThresholds(t *testing.T) {
	tests := []struct {
		name   string
		taux   float64
		niveau Level
		none   bool
	}{
		{name: "below 70 is critique", taux: 65, niveau: LevelCritique},
		{name: "below 85 is warning", taux: 80, niveau: LevelWarning},
		{name: "85 and above is silent", taux: 85, none: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kpis := KPIs{TauxRecouvrement: tt.taux, Solde: 5000, TotalRecettes: 10000}

			alerts := Evaluate(kpis, nil)

			if tt.none {
				assert.Empty(t, alerts)
				return
			}

			assert.Len(t, alerts, 1)
			assert.Equal(t, tt.niveau, alerts[0].Niveau)
		})
	}
}

func TestEvaluate_Solde(t *testing.T) {
	tests := []struct {
		name     string
		solde    int64
		recettes int64
		niveau   Level
		none     bool
	}{
		{name: "zero balance is critique", solde: 0, recettes: 10000, niveau: LevelCritique},
		{name: "negative balance is critique", solde: -200, recettes: 10000, niveau: LevelCritique},
		{name: "under ten percent of recettes warns", solde: 900, recettes: 10000, niveau: LevelWarning},
		{name: "healthy balance is silent", solde: 4000, recettes: 10000, none: true},
		{name: "no recettes yet stays silent above zero", solde: 100, recettes: 0, none: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kpis := KPIs{TauxRecouvrement: 100, Solde: tt.solde, TotalRecettes: tt.recettes}

			alerts := Evaluate(kpis, nil)

			if tt.none {
				assert.Empty(t, alerts)
				return
			}

			assert.Len(t, alerts, 1)
			assert.Equal(t, tt.niveau, alerts[0].Niveau)
		})
	}
}

func TestEvaluate_BudgetOverruns(t *testing.T) {
	kpis := KPIs{TauxRecouvrement: 100, Solde: 5000, TotalRecettes: 10000}

	lines := []budget.Realized{
		depenseLine("Équipement", 1000, 130),
		depenseLine("Transport", 2000, 105),
		depenseLine("Arbitrage", 500, 101),
		depenseLine("Logistique", 800, 150),
		{
			Line:        budget.Line{Categorie: "Cotisations", Type: transaction.TypeRecette, BudgetAlloue: 3000},
			Pourcentage: 200,
		},
	}

	alerts := Evaluate(kpis, lines)

	// Overrun alerts are capped at three, keeping the largest overspends
	// (by ecart); recette lines never count as overruns. Arbitrage, the
	// smallest overspend, is the one dropped.
	assert.Len(t, alerts, 3)
	assert.Equal(t, LevelCritique, alerts[0].Niveau)
	assert.Equal(t, "Budget dépassé: Logistique", alerts[0].Titre)
	assert.Equal(t, LevelCritique, alerts[1].Niveau)
	assert.Equal(t, "Budget dépassé: Équipement", alerts[1].Titre)
	assert.Equal(t, LevelWarning, alerts[2].Niveau)
	assert.Equal(t, "Budget dépassé: Transport", alerts[2].Titre)
}

func TestEvaluate_BudgetTensionWarnsOnce(t *testing.T) {
	kpis := KPIs{TauxRecouvrement: 100, Solde: 5000, TotalRecettes: 10000}

	lines := []budget.Realized{
		depenseLine("Équipement", 1000, 85),
		depenseLine("Transport", 2000, 92),
	}

	alerts := Evaluate(kpis, lines)

	// A single warning, naming the line closest to its ceiling.
	assert.Len(t, alerts, 1)
	assert.Equal(t, LevelWarning, alerts[0].Niveau)
	assert.Equal(t, "Budget sous tension: Transport", alerts[0].Titre)
}

func TestEvaluate_CritiqueBeforeWarning(t *testing.T) {
	// Recouvrement at 80 only warns, but the negative solde is critique
	// and must surface first regardless of rule order.
	kpis := KPIs{TauxRecouvrement: 80, Solde: -100, TotalRecettes: 1000}

	alerts := Evaluate(kpis, nil)

	assert.Len(t, alerts, 2)
	assert.Equal(t, LevelCritique, alerts[0].Niveau)
	assert.Equal(t, "Trésorerie épuisée", alerts[0].Titre)
	assert.Equal(t, LevelWarning, alerts[1].Niveau)
	assert.Equal(t, "Recouvrement en baisse", alerts[1].Titre)
}
