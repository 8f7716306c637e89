package member

import (
	"time"

	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/member"
)

type memberResponse struct {
	ID             uuid.UUID `json:"id"`
	NomPrenom      string    `json:"nom_prenom"`
	Telephone      string    `json:"telephone"`
	Email          string    `json:"email"`
	Statut         string    `json:"statut"`
	RoleJoueur     bool      `json:"role_joueur"`
	RoleBureau     bool      `json:"role_bureau"`
	FonctionBureau string    `json:"fonction_bureau,omitempty"`
	DateEntree     time.Time `json:"date_entree"`
	CreatedAt      time.Time `json:"created_at"`
}

func toResponse(m *member.Member) memberResponse {
	return memberResponse{
		ID:             m.ID,
		NomPrenom:      m.NomPrenom,
		Telephone:      m.Telephone,
		Email:          m.Email,
		Statut:         string(m.Statut),
		RoleJoueur:     m.RoleJoueur,
		RoleBureau:     m.RoleBureau,
		FonctionBureau: m.FonctionBureau,
		DateEntree:     m.DateEntree,
		CreatedAt:      m.CreatedAt,
	}
}

func toResponseList(members []*member.Member) []memberResponse {
	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toResponse(m))
	}
	return out
}
