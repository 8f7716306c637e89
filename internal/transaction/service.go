package transaction

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	"github.com/Stevy-aimery/pantheres-finance/internal/rbac"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)

	// SumByTypeAndCategory aggregates entree (Recette) or sortie
	// (Dépense) per "type-categorie" key over the period.
	SumByTypeAndCategory(ctx context.Context, start, end time.Time) (map[string]int64, error)
	Totals(ctx context.Context) (recettes, depenses int64, err error)
}

type ListFilter struct {
	Type      *Type
	Categorie *string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

type CreateParams struct {
	Date          time.Time `validate:"required"`
	Type          Type      `validate:"required,oneof=Recette Dépense"`
	Categorie     string    `validate:"required"`
	SousCategorie string
	Tiers         string
	MemberID      *uuid.UUID
	Libelle       string `validate:"required"`
	Montant       int64  `validate:"gt=0"`
	ModePaiement  string `validate:"required"`
}

// Create writes a ledger entry, splitting the amount into entree or
// sortie from the type. Treasurer only, re-checked here.
func (s *Service) Create(ctx context.Context, identity *auth.Identity, params CreateParams) (*Transaction, error) {
	if identity == nil {
		return nil, auth.ErrForbidden
	}

	if err := identity.RequirePermission(rbac.PermCreateTransaction); err != nil {
		return nil, err
	}

	if err := s.validate.Struct(params); err != nil {
		return nil, err
	}

	tx := &Transaction{
		Date:          params.Date,
		Type:          params.Type,
		Categorie:     params.Categorie,
		SousCategorie: params.SousCategorie,
		Tiers:         params.Tiers,
		MemberID:      params.MemberID,
		Libelle:       params.Libelle,
		ModePaiement:  params.ModePaiement,
	}

	if params.Type == TypeRecette {
		tx.Entree = params.Montant
	} else {
		tx.Sortie = params.Montant
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Update replaces the mutable fields, keeping the entree/sortie split
// consistent with the (possibly changed) type.
func (s *Service) Update(ctx context.Context, identity *auth.Identity, id uuid.UUID, params CreateParams) (*Transaction, error) {
	if identity == nil {
		return nil, auth.ErrForbidden
	}

	if err := identity.RequirePermission(rbac.PermEditTransaction); err != nil {
		return nil, err
	}

	if err := s.validate.Struct(params); err != nil {
		return nil, err
	}

	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	tx.Date = params.Date
	tx.Type = params.Type
	tx.Categorie = params.Categorie
	tx.SousCategorie = params.SousCategorie
	tx.Tiers = params.Tiers
	tx.MemberID = params.MemberID
	tx.Libelle = params.Libelle
	tx.ModePaiement = params.ModePaiement

	if params.Type == TypeRecette {
		tx.Entree, tx.Sortie = params.Montant, 0
	} else {
		tx.Entree, tx.Sortie = 0, params.Montant
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, identity *auth.Identity, id uuid.UUID) error {
	if identity == nil {
		return auth.ErrForbidden
	}

	if err := identity.RequirePermission(rbac.PermDeleteTransaction); err != nil {
		return err
	}

	return s.repo.DeleteTransaction(ctx, id)
}

// RealizedByCategory returns the realized amounts per "type-categorie"
// key over the period, the budget enrichment input.
func (s *Service) RealizedByCategory(ctx context.Context, start, end time.Time) (map[string]int64, error) {
	return s.repo.SumByTypeAndCategory(ctx, start, end)
}

// Totals returns the all-time recette and dépense sums.
func (s *Service) Totals(ctx context.Context) (recettes, depenses int64, err error) {
	return s.repo.Totals(ctx)
}
