package member

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	"github.com/Stevy-aimery/pantheres-finance/internal/rbac"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=member
type Repository interface {
	CreateMember(ctx context.Context, m *Member) error
	GetMember(ctx context.Context, id uuid.UUID) (*Member, error)
	UpdateMember(ctx context.Context, m *Member) error
	DeleteMember(ctx context.Context, id uuid.UUID) error
	ListMembers(ctx context.Context, filter ListFilter) ([]*Member, error)
	CountByStatut(ctx context.Context, statut Statut) (int, error)
}

type ListFilter struct {
	Statut     *Statut
	RoleBureau *bool
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

type CreateParams struct {
	NomPrenom      string `validate:"required"`
	Telephone      string
	Email          string `validate:"required,email"`
	Statut         Statut `validate:"required"`
	RoleJoueur     bool
	RoleBureau     bool
	FonctionBureau string
	DateEntree     time.Time
}

// Create adds a member to the roster. Treasurer only; the permission is
// checked again here so the service fails closed even if the HTTP gate
// was bypassed.
func (s *Service) Create(ctx context.Context, identity *auth.Identity, params CreateParams) (*Member, error) {
	if identity == nil {
		return nil, auth.ErrForbidden
	}

	if err := identity.RequirePermission(rbac.PermCreateMembre); err != nil {
		return nil, err
	}

	if err := s.validate.Struct(params); err != nil {
		return nil, err
	}

	m := &Member{
		NomPrenom:      params.NomPrenom,
		Telephone:      params.Telephone,
		Email:          params.Email,
		Statut:         params.Statut,
		RoleJoueur:     params.RoleJoueur,
		RoleBureau:     params.RoleBureau,
		FonctionBureau: params.FonctionBureau,
		DateEntree:     params.DateEntree,
	}
	if m.DateEntree.IsZero() {
		m.DateEntree = time.Now()
	}

	if err := s.repo.CreateMember(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.repo.GetMember(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Member, error) {
	return s.repo.ListMembers(ctx, filter)
}

type UpdateParams struct {
	NomPrenom      *string
	Telephone      *string
	Email          *string `validate:"omitempty,email"`
	Statut         *Statut
	RoleJoueur     *bool
	RoleBureau     *bool
	FonctionBureau *string
	DateEntree     *time.Time
}

func (s *Service) Update(ctx context.Context, identity *auth.Identity, id uuid.UUID, params UpdateParams) (*Member, error) {
	if identity == nil {
		return nil, auth.ErrForbidden
	}

	if err := identity.RequirePermission(rbac.PermEditMembre); err != nil {
		return nil, err
	}

	if err := s.validate.Struct(params); err != nil {
		return nil, err
	}

	m, err := s.repo.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.NomPrenom != nil {
		m.NomPrenom = *params.NomPrenom
	}

	if params.Telephone != nil {
		m.Telephone = *params.Telephone
	}

	if params.Email != nil {
		m.Email = *params.Email
	}

	if params.Statut != nil {
		m.Statut = *params.Statut
	}

	if params.RoleJoueur != nil {
		m.RoleJoueur = *params.RoleJoueur
	}

	if params.RoleBureau != nil {
		m.RoleBureau = *params.RoleBureau
	}

	if params.FonctionBureau != nil {
		m.FonctionBureau = *params.FonctionBureau
	}

	if params.DateEntree != nil {
		m.DateEntree = *params.DateEntree
	}

	if err := s.repo.UpdateMember(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// Delete removes a member; payment history goes with it via the FK
// cascade.
func (s *Service) Delete(ctx context.Context, identity *auth.Identity, id uuid.UUID) error {
	if identity == nil {
		return auth.ErrForbidden
	}

	if err := identity.RequirePermission(rbac.PermDeleteMembre); err != nil {
		return err
	}

	return s.repo.DeleteMember(ctx, id)
}

func (s *Service) CountActive(ctx context.Context) (int, error) {
	return s.repo.CountByStatut(ctx, StatutActif)
}
