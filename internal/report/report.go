// Package report derives the dashboard KPIs and financial alerts from
// the ledger, the cotisation states and the budget lines.
package report

// Level orders alerts by severity. Critique entries surface first on
// the dashboard.
type Level string

const (
	LevelCritique Level = "critique"
	LevelWarning  Level = "warning"
	LevelInfo     Level = "info"
)

// KPIs is the snapshot shown at the top of the treasurer dashboard.
// Amounts are whole MAD, TauxRecouvrement a percentage in [0,100].
type KPIs struct {
	Solde            int64   `json:"solde"`
	TotalRecettes    int64   `json:"total_recettes"`
	TotalDepenses    int64   `json:"total_depenses"`
	TauxRecouvrement float64 `json:"taux_recouvrement"`
	FondsReserve     int64   `json:"fonds_reserve"`
	MembresActifs    int     `json:"membres_actifs"`
	MembresEnRetard  int     `json:"membres_en_retard"`
}

type Alert struct {
	Niveau  Level  `json:"niveau"`
	Titre   string `json:"titre"`
	Message string `json:"message"`
}
