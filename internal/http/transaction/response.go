package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/transaction"
)

type transactionResponse struct {
	ID            uuid.UUID  `json:"id"`
	Date          time.Time  `json:"date"`
	Type          string     `json:"type"`
	Categorie     string     `json:"categorie"`
	SousCategorie string     `json:"sous_categorie,omitempty"`
	Tiers         string     `json:"tiers,omitempty"`
	MemberID      *uuid.UUID `json:"membre_id,omitempty"`
	Libelle       string     `json:"libelle"`
	Entree        int64      `json:"entree"`
	Sortie        int64      `json:"sortie"`
	ModePaiement  string     `json:"mode_paiement,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		Date:          tx.Date,
		Type:          string(tx.Type),
		Categorie:     tx.Categorie,
		SousCategorie: tx.SousCategorie,
		Tiers:         tx.Tiers,
		MemberID:      tx.MemberID,
		Libelle:       tx.Libelle,
		Entree:        tx.Entree,
		Sortie:        tx.Sortie,
		ModePaiement:  tx.ModePaiement,
		CreatedAt:     tx.CreatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toResponse(tx))
	}
	return out
}
