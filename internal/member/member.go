// Package member manages the club roster.
package member

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("member not found")

// Statut is a member's club status.
type Statut string

const (
	StatutActif   Statut = "Actif"
	StatutBlesse  Statut = "Blessé"
	StatutDeparti Statut = "Parti"
)

// Member is one club member. A member owes dues only while at least one
// role flag is set; the due amount itself is derived by the cotisation
// rates, never stored.
type Member struct {
	ID             uuid.UUID
	NomPrenom      string
	Telephone      string
	Email          string
	Statut         Statut
	RoleJoueur     bool
	RoleBureau     bool
	FonctionBureau string
	DateEntree     time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
