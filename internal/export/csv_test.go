package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stevy-aimery/pantheres-finance/internal/budget"
	"github.com/Stevy-aimery/pantheres-finance/internal/cotisation"
	"github.com/Stevy-aimery/pantheres-finance/internal/member"
	"github.com/Stevy-aimery/pantheres-finance/internal/transaction"
)

func lines(t *testing.T, data []byte) []string {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, utf8BOM), "export must start with the UTF-8 BOM")
	trimmed := strings.TrimSuffix(string(data[len(utf8BOM):]), "\n")
	return strings.Split(trimmed, "\n")
}

func TestTransactions(t *testing.T) {
	data, err := Transactions([]*transaction.Transaction{
		{
			Date:         time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC),
			Type:         transaction.TypeRecette,
			Categorie:    "Cotisations",
			Tiers:        "Karim Benani",
			Libelle:      "Cotisation octobre",
			Entree:       250,
			ModePaiement: "Espèces",
		},
		{
			Date:      time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC),
			Type:      transaction.TypeDepense,
			Categorie: "Équipement",
			Libelle:   "Maillots",
			Sortie:    1800,
		},
	})
	require.NoError(t, err)

	got := lines(t, data)
	require.Len(t, got, 3)
	assert.Equal(t, "Date;Type;Catégorie;Sous-catégorie;Tiers;Libellé;Entrée (MAD);Sortie (MAD);Mode de paiement", got[0])
	assert.Equal(t, "05/10/2025;Recette;Cotisations;;Karim Benani;Cotisation octobre;250;0;Espèces", got[1])
	assert.Equal(t, "12/10/2025;Dépense;Équipement;;;Maillots;0;1800;", got[2])
}

func TestMembers(t *testing.T) {
	data, err := Members([]*member.Member{
		{
			NomPrenom:      "Yassine Alaoui",
			Telephone:      "0612345678",
			Email:          "yassine@pantheresfes.ma",
			Statut:         member.StatutActif,
			RoleJoueur:     true,
			RoleBureau:     true,
			FonctionBureau: "Secrétaire Général",
			DateEntree:     time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	got := lines(t, data)
	require.Len(t, got, 2)
	assert.Equal(t, "Yassine Alaoui;0612345678;yassine@pantheresfes.ma;Actif;Oui;Oui;Secrétaire Général;01/09/2024", got[1])
}

func TestCotisations(t *testing.T) {
	data, err := Cotisations([]cotisation.MemberState{
		{
			MemberDues: cotisation.MemberDues{NomPrenom: "Karim Benani", Email: "karim@pantheresfes.ma"},
			State: cotisation.State{
				MonthlyDue:     250,
				ElapsedMonths:  4,
				TotalDue:       1000,
				TotalPaid:      750,
				Remaining:      250,
				PercentagePaid: 75,
				Status:         cotisation.StatusRetard,
			},
		},
	})
	require.NoError(t, err)

	got := lines(t, data)
	require.Len(t, got, 2)
	assert.Equal(t, "Karim Benani;karim@pantheresfes.ma;250;4;1000;750;250;75;Retard", got[1])
}

func TestBudget(t *testing.T) {
	data, err := Budget([]budget.Realized{
		{
			Line: budget.Line{
				Categorie:    "Transport",
				Type:         transaction.TypeDepense,
				BudgetAlloue: 2000,
			},
			Realise:     2150,
			Ecart:       150,
			Pourcentage: 107.5,
			Statut:      budget.StatusOverrun,
		},
	})
	require.NoError(t, err)

	got := lines(t, data)
	require.Len(t, got, 2)
	// Percentage uses the French decimal comma, safe inside a
	// semicolon-separated file.
	assert.Equal(t, "Transport;Dépense;2000;2150;150;107,5;Dépassé", got[1])
}

func TestEmptyExportStillHasHeader(t *testing.T) {
	data, err := Transactions(nil)
	require.NoError(t, err)

	got := lines(t, data)
	assert.Len(t, got, 1)
}
