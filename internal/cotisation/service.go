package cotisation

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	"github.com/Stevy-aimery/pantheres-finance/internal/rbac"
)

// MemberDues is the row shape the store returns for the season report:
// one member with their paid total for the year.
type MemberDues struct {
	MemberID   uuid.UUID
	NomPrenom  string
	Email      string
	Statut     string
	RoleJoueur bool
	RoleBureau bool
	TotalPaid  int64
}

// MemberState pairs a member with their derived dues state.
type MemberState struct {
	MemberDues
	State
}

type Repository interface {
	CreatePayment(ctx context.Context, p *Payment) error
	ListPayments(ctx context.Context, memberID uuid.UUID, year int) ([]*Payment, error)
	ListMemberDues(ctx context.Context, year int) ([]MemberDues, error)
}

// ConfirmationSender notifies a member that their installment was
// recorded. Implementations are best-effort; failures never block the
// payment itself.
type ConfirmationSender interface {
	SendPaymentConfirmation(ctx context.Context, p *Payment)
}

type Service struct {
	repo         Repository
	rates        Rates
	season       Season
	confirmation ConfirmationSender
	validate     *validator.Validate
	now          func() time.Time
}

func NewService(repo Repository, rates Rates, season Season, confirmation ConfirmationSender) *Service {
	return &Service{
		repo:         repo,
		rates:        rates,
		season:       season,
		confirmation: confirmation,
		validate:     validator.New(),
		now:          time.Now,
	}
}

type RecordParams struct {
	MemberID uuid.UUID `validate:"required"`
	Month    int       `validate:"gte=1,lte=12"`
	Year     int       `validate:"gte=2000"`
	Amount   int64     `validate:"gte=0"`
	Method   Method    `validate:"required"`
}

// Record writes one installment. The route gate has already run; the
// permission is re-checked here so a bypassed gate still fails closed.
func (s *Service) Record(ctx context.Context, identity *auth.Identity, params RecordParams) (*Payment, error) {
	if identity == nil {
		return nil, auth.ErrForbidden
	}

	if err := identity.RequirePermission(rbac.PermAddPaiement); err != nil {
		return nil, err
	}

	if err := s.validate.Struct(params); err != nil {
		return nil, err
	}

	p := &Payment{
		MemberID:    params.MemberID,
		Month:       params.Month,
		Year:        params.Year,
		Amount:      params.Amount,
		Method:      params.Method,
		PaymentDate: s.now(),
	}

	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return nil, err
	}

	if s.confirmation != nil {
		s.confirmation.SendPaymentConfirmation(ctx, p)
	}

	return p, nil
}

// History lists a member's installments for the year. Players may only
// read their own history.
func (s *Service) History(ctx context.Context, identity *auth.Identity, memberID uuid.UUID, year int) ([]*Payment, error) {
	if identity == nil {
		return nil, auth.ErrForbidden
	}

	if identity.Role == rbac.RoleJoueur {
		if identity.MemberID == nil || *identity.MemberID != memberID {
			return nil, auth.ErrForbidden
		}
	}

	return s.repo.ListPayments(ctx, memberID, year)
}

// StateFor derives one member's dues state from their role flags and
// recorded payments.
func (s *Service) StateFor(ctx context.Context, memberID uuid.UUID, isPlayer, isOffice bool) (State, error) {
	year := s.now().Year()

	payments, err := s.repo.ListPayments(ctx, memberID, year)
	if err != nil {
		return State{}, fmt.Errorf("listing payments: %w", err)
	}

	var totalPaid int64
	for _, p := range payments {
		totalPaid += p.Amount
	}

	monthlyDue := s.rates.MonthlyDueFor(isPlayer, isOffice)

	return Derive(monthlyDue, totalPaid, s.season, s.now()), nil
}

// StatusReport derives the dues state of every member for the current
// season year, the backing data of the dashboard cotisations panel.
func (s *Service) StatusReport(ctx context.Context) ([]MemberState, error) {
	dues, err := s.repo.ListMemberDues(ctx, s.now().Year())
	if err != nil {
		return nil, fmt.Errorf("listing member dues: %w", err)
	}

	states := make([]MemberState, 0, len(dues))

	for _, d := range dues {
		monthlyDue := s.rates.MonthlyDueFor(d.RoleJoueur, d.RoleBureau)
		states = append(states, MemberState{
			MemberDues: d,
			State:      Derive(monthlyDue, d.TotalPaid, s.season, s.now()),
		})
	}

	return states, nil
}

// Season returns the configured accrual window.
func (s *Service) Season() Season { return s.season }

// Rates returns the configured due amounts.
func (s *Service) Rates() Rates { return s.rates }
