package message

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	"github.com/Stevy-aimery/pantheres-finance/internal/rbac"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	Get(ctx context.Context, id uuid.UUID) (*Message, error)
	ListThreads(ctx context.Context, membreID *uuid.UUID) ([]*Thread, error)
	UpdateStatut(ctx context.Context, id uuid.UUID, statut Statut) error
}

type Service struct {
	repo     Repository
	hub      *Hub
	validate *validator.Validate
}

func NewService(repo Repository, hub *Hub) *Service {
	return &Service{
		repo:     repo,
		hub:      hub,
		validate: validator.New(),
	}
}

type SendParams struct {
	Sujet       string `validate:"required,max=200"`
	Contenu     string `validate:"required"`
	TypeMessage Type   `validate:"required,oneof=remarque anomalie question autre"`
}

// Send creates a new thread from a member. Any authenticated role may
// write in, including the treasurer.
func (s *Service) Send(ctx context.Context, identity *auth.Identity, params SendParams) (*Message, error) {
	if identity == nil {
		return nil, auth.ErrForbidden
	}

	if err := identity.RequirePermission(rbac.PermSendMessage); err != nil {
		return nil, err
	}

	if err := s.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("validating message: %w", err)
	}

	m := &Message{
		MembreID:        identity.MemberID,
		Sujet:           params.Sujet,
		Contenu:         params.Contenu,
		TypeMessage:     params.TypeMessage,
		Statut:          StatutNouveau,
		IsFromTresorier: identity.Role == rbac.RoleTresorier,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	s.hub.Publish(Event{Message: m, ThreadOwner: m.MembreID})
	return m, nil
}

type ReplyParams struct {
	ParentID uuid.UUID `validate:"required"`
	Contenu  string    `validate:"required"`
}

// Reply appends to an existing thread. A treasurer reply marks the
// root message resolu; a member reply reopens it to en_cours.
func (s *Service) Reply(ctx context.Context, identity *auth.Identity, params ReplyParams) (*Message, error) {
	if identity == nil {
		return nil, auth.ErrForbidden
	}

	if err := identity.RequirePermission(rbac.PermSendMessage); err != nil {
		return nil, err
	}

	if err := s.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("validating reply: %w", err)
	}

	parent, err := s.repo.Get(ctx, params.ParentID)
	if err != nil {
		return nil, err
	}
	if parent.ParentID != nil {
		return nil, ErrNotAThread
	}

	if identity.Role != rbac.RoleTresorier {
		if identity.MemberID == nil || parent.MembreID == nil || *identity.MemberID != *parent.MembreID {
			return nil, auth.ErrForbidden
		}
	}

	statut := StatutEnCours
	if identity.Role == rbac.RoleTresorier {
		statut = StatutResolu
	}

	m := &Message{
		MembreID:        identity.MemberID,
		ParentID:        &parent.ID,
		Sujet:           "Re: " + parent.Sujet,
		Contenu:         params.Contenu,
		TypeMessage:     parent.TypeMessage,
		Statut:          statut,
		IsFromTresorier: identity.Role == rbac.RoleTresorier,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("creating reply: %w", err)
	}

	if err := s.repo.UpdateStatut(ctx, parent.ID, statut); err != nil {
		return nil, fmt.Errorf("updating thread statut: %w", err)
	}

	s.hub.Publish(Event{Message: m, ThreadOwner: parent.MembreID})
	return m, nil
}

// Threads lists conversations. The treasurer and bureau see every
// thread, players only their own.
func (s *Service) Threads(ctx context.Context, identity *auth.Identity) ([]*Thread, error) {
	if identity == nil {
		return nil, auth.ErrForbidden
	}

	if err := identity.RequirePermission(rbac.PermViewMessages); err != nil {
		return nil, err
	}

	var scope *uuid.UUID
	if identity.Role == rbac.RoleJoueur {
		if identity.MemberID == nil {
			return []*Thread{}, nil
		}
		scope = identity.MemberID
	}

	threads, err := s.repo.ListThreads(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("listing threads: %w", err)
	}
	return threads, nil
}

// SetStatut lets the treasurer move a thread through its workflow
// without replying.
func (s *Service) SetStatut(ctx context.Context, identity *auth.Identity, id uuid.UUID, statut Statut) error {
	if identity == nil {
		return auth.ErrForbidden
	}

	if err := identity.RequireRole(rbac.RoleTresorier); err != nil {
		return err
	}

	switch statut {
	case StatutNouveau, StatutEnCours, StatutResolu:
	default:
		return fmt.Errorf("unknown statut %q", statut)
	}

	return s.repo.UpdateStatut(ctx, id, statut)
}
