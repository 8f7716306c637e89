package email

import (
	"bytes"
	"fmt"
	"text/template"
	"time"
)

// French month names, indexed by time.Month.
var moisFrancais = [...]string{
	"", "janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// MonthName returns the French name of a 1-based month.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}

	return moisFrancais[month]
}

// MonthYear formats a date as "mois année".
func MonthYear(t time.Time) string {
	return fmt.Sprintf("%s %d", MonthName(int(t.Month())), t.Year())
}

var reminderTmpl = template.Must(template.New("relance").Parse(
	`Bonjour {{.NomMembre}},

Ceci est un rappel amical : votre cotisation de {{.Montant}} {{.Currency}} pour le mois de {{.Mois}} reste à régler. Les cotisations sont attendues avant le {{.JourLimite}} de chaque mois.

Reste à payer pour la saison : {{.ResteAPayer}} {{.Currency}}.

Merci de régulariser votre situation auprès du trésorier.

Sportivement,
{{.ClubName}}
`))

var confirmationTmpl = template.Must(template.New("confirmation").Parse(
	`Bonjour {{.NomMembre}},

Nous confirmons la réception de votre paiement de {{.Montant}} {{.Currency}} pour le mois de {{.Mois}}.

Total payé cette saison : {{.TotalPaye}} {{.Currency}}
Reste à payer : {{.ResteAPayer}} {{.Currency}}

Merci pour votre ponctualité !

Sportivement,
{{.ClubName}}
`))

var monthlyReportTmpl = template.Must(template.New("rapport").Parse(
	`Bonjour {{.NomMembre}},

Voici le rapport financier du club pour {{.Mois}} :

  Solde actuel           : {{.SoldeActuel}} {{.Currency}}
  Taux de recouvrement   : {{.TauxRecouvrement}}%
  Dépenses du mois       : {{.DepensesMois}} {{.Currency}}
  Total recettes         : {{.TotalRecettes}} {{.Currency}}
  Total dépenses         : {{.TotalDepenses}} {{.Currency}}

Sportivement,
{{.ClubName}}
`))

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", tmpl.Name(), err)
	}

	return buf.String(), nil
}
