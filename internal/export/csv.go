// Package export renders the dashboards as CSV files readable by the
// French locale of Excel: UTF-8 BOM, semicolon separator, dd/mm/yyyy
// dates.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Stevy-aimery/pantheres-finance/internal/budget"
	"github.com/Stevy-aimery/pantheres-finance/internal/cotisation"
	"github.com/Stevy-aimery/pantheres-finance/internal/member"
	"github.com/Stevy-aimery/pantheres-finance/internal/transaction"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func formatAmount(v int64) string {
	return strconv.FormatInt(v, 10)
}

// formatPercent uses the French decimal comma.
func formatPercent(v float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(v, 'f', 1, 64), ".", ",")
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("writing csv rows: %w", err)
	}

	return buf.Bytes(), nil
}

// Transactions renders ledger entries with separate entrée and sortie
// columns, matching the paper cahier layout.
func Transactions(entries []*transaction.Transaction) ([]byte, error) {
	header := []string{"Date", "Type", "Catégorie", "Sous-catégorie", "Tiers", "Libellé", "Entrée (MAD)", "Sortie (MAD)", "Mode de paiement"}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			formatDate(e.Date),
			string(e.Type),
			e.Categorie,
			e.SousCategorie,
			e.Tiers,
			e.Libelle,
			formatAmount(e.Entree),
			formatAmount(e.Sortie),
			e.ModePaiement,
		})
	}

	return writeCSV(header, rows)
}

func formatBool(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}

// Members renders the roster.
func Members(members []*member.Member) ([]byte, error) {
	header := []string{"Nom et prénom", "Téléphone", "Email", "Statut", "Joueur", "Bureau", "Fonction bureau", "Date d'entrée"}

	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{
			m.NomPrenom,
			m.Telephone,
			m.Email,
			string(m.Statut),
			formatBool(m.RoleJoueur),
			formatBool(m.RoleBureau),
			m.FonctionBureau,
			formatDate(m.DateEntree),
		})
	}

	return writeCSV(header, rows)
}

// Cotisations renders the per-member dues states.
func Cotisations(states []cotisation.MemberState) ([]byte, error) {
	header := []string{"Membre", "Email", "Cotisation mensuelle (MAD)", "Mois écoulés", "Dû (MAD)", "Payé (MAD)", "Reste (MAD)", "% payé", "Statut"}

	rows := make([][]string, 0, len(states))
	for _, st := range states {
		rows = append(rows, []string{
			st.NomPrenom,
			st.Email,
			formatAmount(st.MonthlyDue),
			strconv.Itoa(st.ElapsedMonths),
			formatAmount(st.TotalDue),
			formatAmount(st.State.TotalPaid),
			formatAmount(st.Remaining),
			strconv.Itoa(st.PercentagePaid),
			string(st.Status),
		})
	}

	return writeCSV(header, rows)
}

// Budget renders the budget lines with their realized figures.
func Budget(lines []budget.Realized) ([]byte, error) {
	header := []string{"Catégorie", "Type", "Budget alloué (MAD)", "Réalisé (MAD)", "Écart (MAD)", "% réalisé", "Statut"}

	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []string{
			l.Categorie,
			string(l.Type),
			formatAmount(l.BudgetAlloue),
			formatAmount(l.Realise),
			formatAmount(l.Ecart),
			formatPercent(l.Pourcentage),
			string(l.Statut),
		})
	}

	return writeCSV(header, rows)
}
