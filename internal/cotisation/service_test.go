package cotisation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stevy-aimery/pantheres-finance/internal/auth"
	"github.com/Stevy-aimery/pantheres-finance/internal/cotisation"
	"github.com/Stevy-aimery/pantheres-finance/internal/rbac"
)

type mockRepo struct {
	createPayment  func(ctx context.Context, p *cotisation.Payment) error
	listPayments   func(ctx context.Context, memberID uuid.UUID, year int) ([]*cotisation.Payment, error)
	listMemberDues func(ctx context.Context, year int) ([]cotisation.MemberDues, error)
}

func (m *mockRepo) CreatePayment(ctx context.Context, p *cotisation.Payment) error {
	return m.createPayment(ctx, p)
}

func (m *mockRepo) ListPayments(ctx context.Context, memberID uuid.UUID, year int) ([]*cotisation.Payment, error) {
	return m.listPayments(ctx, memberID, year)
}

func (m *mockRepo) ListMemberDues(ctx context.Context, year int) ([]cotisation.MemberDues, error) {
	return m.listMemberDues(ctx, year)
}

type recordingConfirmer struct {
	payments []*cotisation.Payment
}

func (r *recordingConfirmer) SendPaymentConfirmation(_ context.Context, p *cotisation.Payment) {
	r.payments = append(r.payments, p)
}

var (
	testRates = cotisation.Rates{Player: 250, Office: 0, PlayerOffice: 200}

	testSeason = cotisation.Season{
		Start:          time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		DurationMonths: 10,
	}

	tresorier = &auth.Identity{Email: "tresorier@club.ma", Role: rbac.RoleTresorier}
)

func TestService_Record(t *testing.T) {
	memberID := uuid.New()

	repo := &mockRepo{
		createPayment: func(_ context.Context, p *cotisation.Payment) error {
			p.ID = uuid.New()
			return nil
		},
	}
	confirmer := &recordingConfirmer{}
	svc := cotisation.NewService(repo, testRates, testSeason, confirmer)

	p, err := svc.Record(context.Background(), tresorier, cotisation.RecordParams{
		MemberID: memberID,
		Month:    10,
		Year:     2025,
		Amount:   250,
		Method:   cotisation.MethodEspeces,
	})

	require.NoError(t, err)
	assert.Equal(t, memberID, p.MemberID)
	assert.Equal(t, int64(250), p.Amount)
	assert.False(t, p.PaymentDate.IsZero())

	require.Len(t, confirmer.payments, 1)
	assert.Equal(t, p.ID, confirmer.payments[0].ID)
}

func TestService_Record_JoueurDenied(t *testing.T) {
	svc := cotisation.NewService(&mockRepo{}, testRates, testSeason, nil)

	_, err := svc.Record(context.Background(), &auth.Identity{Role: rbac.RoleJoueur}, cotisation.RecordParams{
		MemberID: uuid.New(),
		Month:    10,
		Year:     2025,
		Amount:   250,
		Method:   cotisation.MethodEspeces,
	})

	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestService_Record_DuplicateMonth(t *testing.T) {
	repo := &mockRepo{
		createPayment: func(_ context.Context, _ *cotisation.Payment) error {
			return cotisation.ErrDuplicatePayment
		},
	}
	confirmer := &recordingConfirmer{}
	svc := cotisation.NewService(repo, testRates, testSeason, confirmer)

	_, err := svc.Record(context.Background(), tresorier, cotisation.RecordParams{
		MemberID: uuid.New(),
		Month:    10,
		Year:     2025,
		Amount:   250,
		Method:   cotisation.MethodVirement,
	})

	assert.ErrorIs(t, err, cotisation.ErrDuplicatePayment)
	assert.Empty(t, confirmer.payments)
}

func TestService_History_JoueurScopedToOwnPayments(t *testing.T) {
	own := uuid.New()
	other := uuid.New()

	repo := &mockRepo{
		listPayments: func(_ context.Context, memberID uuid.UUID, _ int) ([]*cotisation.Payment, error) {
			return []*cotisation.Payment{{MemberID: memberID, Amount: 250}}, nil
		},
	}
	svc := cotisation.NewService(repo, testRates, testSeason, nil)

	joueur := &auth.Identity{Role: rbac.RoleJoueur, MemberID: &own}

	got, err := svc.History(context.Background(), joueur, own, 2025)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.History(context.Background(), joueur, other, 2025)
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestService_StatusReport_DerivesPerRole(t *testing.T) {
	repo := &mockRepo{
		listMemberDues: func(_ context.Context, _ int) ([]cotisation.MemberDues, error) {
			return []cotisation.MemberDues{
				{MemberID: uuid.New(), NomPrenom: "Karim Benani", RoleJoueur: true, TotalPaid: 0},
				{MemberID: uuid.New(), NomPrenom: "Nadia Tazi", RoleBureau: true, TotalPaid: 0},
			}, nil
		},
	}
	svc := cotisation.NewService(repo, testRates, testSeason, nil)

	states, err := svc.StatusReport(context.Background())
	require.NoError(t, err)
	require.Len(t, states, 2)

	// Office-only members owe nothing, so they are never late.
	assert.Equal(t, cotisation.StatusAJour, states[1].Status)
	assert.Equal(t, cotisation.StatusRetard, states[0].Status)
}
