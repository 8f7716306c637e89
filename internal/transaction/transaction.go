// Package transaction is the club ledger: every recette and dépense.
package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("transaction not found")

// Type splits the ledger into income and expense entries.
type Type string

const (
	TypeRecette Type = "Recette"
	TypeDepense Type = "Dépense"
)

// Transaction is one ledger entry. Exactly one of Entree/Sortie is
// nonzero, matching Type; both are derived from the submitted amount.
type Transaction struct {
	ID            uuid.UUID
	Date          time.Time
	Type          Type
	Categorie     string
	SousCategorie string
	Tiers         string
	MemberID      *uuid.UUID
	Libelle       string
	Entree        int64
	Sortie        int64
	ModePaiement  string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// Montant is the entry's single amount regardless of direction.
func (t *Transaction) Montant() int64 {
	if t.Type == TypeRecette {
		return t.Entree
	}

	return t.Sortie
}
