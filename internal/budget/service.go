package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	"github.com/Stevy-aimery/pantheres-finance/internal/rbac"
	"github.com/Stevy-aimery/pantheres-finance/internal/transaction"
)

type Repository interface {
	CreateLine(ctx context.Context, line *Line) error
	GetLine(ctx context.Context, id uuid.UUID) (*Line, error)
	UpdateLine(ctx context.Context, line *Line) error
	DeleteLine(ctx context.Context, id uuid.UUID) error
	ListLines(ctx context.Context, start, end time.Time) ([]Line, error)
}

// Ledger is the slice of the transaction service the enrichment needs.
type Ledger interface {
	RealizedByCategory(ctx context.Context, start, end time.Time) (map[string]int64, error)
}

type Service struct {
	repo     Repository
	ledger   Ledger
	validate *validator.Validate
}

func NewService(repo Repository, ledger Ledger) *Service {
	return &Service{repo: repo, ledger: ledger, validate: validator.New()}
}

type LineParams struct {
	Categorie    string           `validate:"required"`
	Type         transaction.Type `validate:"required,oneof=Recette Dépense"`
	BudgetAlloue int64            `validate:"gt=0"`
	PeriodeDebut time.Time        `validate:"required"`
	PeriodeFin   time.Time        `validate:"required"`
}

func (s *Service) Create(ctx context.Context, identity *auth.Identity, params LineParams) (*Line, error) {
	if identity == nil {
		return nil, auth.ErrForbidden
	}

	if err := identity.RequirePermission(rbac.PermEditBudget); err != nil {
		return nil, err
	}

	if err := s.validate.Struct(params); err != nil {
		return nil, err
	}

	line := &Line{
		Categorie:    params.Categorie,
		Type:         params.Type,
		BudgetAlloue: params.BudgetAlloue,
		PeriodeDebut: params.PeriodeDebut,
		PeriodeFin:   params.PeriodeFin,
	}

	if err := s.repo.CreateLine(ctx, line); err != nil {
		return nil, err
	}

	return line, nil
}

func (s *Service) Update(ctx context.Context, identity *auth.Identity, id uuid.UUID, params LineParams) (*Line, error) {
	if identity == nil {
		return nil, auth.ErrForbidden
	}

	if err := identity.RequirePermission(rbac.PermEditBudget); err != nil {
		return nil, err
	}

	if err := s.validate.Struct(params); err != nil {
		return nil, err
	}

	line, err := s.repo.GetLine(ctx, id)
	if err != nil {
		return nil, err
	}

	line.Categorie = params.Categorie
	line.Type = params.Type
	line.BudgetAlloue = params.BudgetAlloue
	line.PeriodeDebut = params.PeriodeDebut
	line.PeriodeFin = params.PeriodeFin

	if err := s.repo.UpdateLine(ctx, line); err != nil {
		return nil, err
	}

	return line, nil
}

func (s *Service) Delete(ctx context.Context, identity *auth.Identity, id uuid.UUID) error {
	if identity == nil {
		return auth.ErrForbidden
	}

	if err := identity.RequirePermission(rbac.PermEditBudget); err != nil {
		return err
	}

	return s.repo.DeleteLine(ctx, id)
}

// Overview returns every line of the period enriched with ledger
// actuals.
func (s *Service) Overview(ctx context.Context, start, end time.Time) ([]Realized, error) {
	lines, err := s.repo.ListLines(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing budget lines: %w", err)
	}

	realized, err := s.ledger.RealizedByCategory(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("aggregating ledger: %w", err)
	}

	enriched := make([]Realized, 0, len(lines))
	for _, line := range lines {
		enriched = append(enriched, Enrich(line, realized[line.RealizedKey()]))
	}

	return enriched, nil
}
