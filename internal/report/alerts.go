package report

import (
	"fmt"
	"sort"

	"github.com/Stevy-aimery/pantheres-finance/internal/budget"
	"github.com/Stevy-aimery/pantheres-finance/internal/transaction"
)

const maxOverrunAlerts = 3

var severityRank = map[Level]int{
	LevelCritique: 0,
	LevelWarning:  1,
	LevelInfo:     2,
}

// Evaluate applies the alert rules to a KPI snapshot and the enriched
// budget lines. Pure so the thresholds stay easy to test.
func Evaluate(kpis KPIs, lines []budget.Realized) []Alert {
	var alerts []Alert

	switch {
	case kpis.TauxRecouvrement < 70:
		alerts = append(alerts, Alert{
			Niveau:  LevelCritique,
			Titre:   "Recouvrement critique",
			Message: fmt.Sprintf("Seulement %.0f%% des cotisations attendues ont été encaissées (%d membres en retard).", kpis.TauxRecouvrement, kpis.MembresEnRetard),
		})
	case kpis.TauxRecouvrement < 85:
		alerts = append(alerts, Alert{
			Niveau:  LevelWarning,
			Titre:   "Recouvrement en baisse",
			Message: fmt.Sprintf("%.0f%% des cotisations attendues ont été encaissées (%d membres en retard).", kpis.TauxRecouvrement, kpis.MembresEnRetard),
		})
	}

	switch {
	case kpis.Solde <= 0:
		alerts = append(alerts, Alert{
			Niveau:  LevelCritique,
			Titre:   "Trésorerie épuisée",
			Message: fmt.Sprintf("Le solde du club est de %d MAD.", kpis.Solde),
		})
	case kpis.TotalRecettes > 0 && kpis.Solde < kpis.TotalRecettes/10:
		alerts = append(alerts, Alert{
			Niveau:  LevelWarning,
			Titre:   "Trésorerie basse",
			Message: fmt.Sprintf("Le solde (%d MAD) est sous 10%% des recettes encaissées.", kpis.Solde),
		})
	}

	var overruns, tensions []budget.Realized
	for _, line := range lines {
		if line.Type != transaction.TypeDepense {
			continue
		}

		switch {
		case line.Pourcentage > 100:
			overruns = append(overruns, line)
		case line.Pourcentage > 80:
			tensions = append(tensions, line)
		}
	}

	// The worst overruns surface first; at most three become alerts.
	sort.SliceStable(overruns, func(i, j int) bool {
		return overruns[i].Ecart > overruns[j].Ecart
	})
	if len(overruns) > maxOverrunAlerts {
		overruns = overruns[:maxOverrunAlerts]
	}

	for _, line := range overruns {
		niveau := LevelWarning
		if line.Pourcentage > 120 {
			niveau = LevelCritique
		}
		alerts = append(alerts, Alert{
			Niveau:  niveau,
			Titre:   "Budget dépassé: " + line.Categorie,
			Message: fmt.Sprintf("%.0f%% du budget alloué (%d MAD) est consommé.", line.Pourcentage, line.BudgetAlloue),
		})
	}

	// One tension warning, for the line closest to its ceiling.
	if len(tensions) > 0 {
		worst := tensions[0]
		for _, line := range tensions[1:] {
			if line.Pourcentage > worst.Pourcentage {
				worst = line
			}
		}
		alerts = append(alerts, Alert{
			Niveau:  LevelWarning,
			Titre:   "Budget sous tension: " + worst.Categorie,
			Message: fmt.Sprintf("%.0f%% du budget alloué est déjà consommé.", worst.Pourcentage),
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank[alerts[i].Niveau] < severityRank[alerts[j].Niveau]
	})

	return alerts
}
