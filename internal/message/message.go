// Package message implements the club messaging thread between
// members and the treasurer.
package message

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("message not found")
	ErrNotAThread = errors.New("replies must target a root message")
)

// Type categorizes what a member is writing in about.
type Type string

const (
	TypeRemarque Type = "remarque"
	TypeAnomalie Type = "anomalie"
	TypeQuestion Type = "question"
	TypeAutre    Type = "autre"
)

// Statut tracks the treasurer's handling of a thread. Replies from the
// treasurer move the root message to resolu.
type Statut string

const (
	StatutNouveau Statut = "nouveau"
	StatutEnCours Statut = "en_cours"
	StatutResolu  Statut = "resolu"
)

type Message struct {
	ID              uuid.UUID  `json:"id"`
	MembreID        *uuid.UUID `json:"membre_id"`
	ParentID        *uuid.UUID `json:"parent_id"`
	Sujet           string     `json:"sujet"`
	Contenu         string     `json:"contenu"`
	TypeMessage     Type       `json:"type_message"`
	Statut          Statut     `json:"statut"`
	IsFromTresorier bool       `json:"is_from_tresorier"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Thread is a root message with its replies in chronological order.
type Thread struct {
	Message
	Replies []*Message `json:"replies"`
}
