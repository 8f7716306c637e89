package cron_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stevy-aimery/pantheres-finance/internal/cotisation"
	"github.com/Stevy-aimery/pantheres-finance/internal/email"
	cronHandler "github.com/Stevy-aimery/pantheres-finance/internal/http/cron"
	"github.com/Stevy-aimery/pantheres-finance/internal/member"
)

type stubDuesRepo struct {
	dues []cotisation.MemberDues
}

func (s *stubDuesRepo) CreatePayment(context.Context, *cotisation.Payment) error { return nil }

func (s *stubDuesRepo) ListPayments(context.Context, uuid.UUID, int) ([]*cotisation.Payment, error) {
	return nil, nil
}

func (s *stubDuesRepo) ListMemberDues(context.Context, int) ([]cotisation.MemberDues, error) {
	return s.dues, nil
}

type stubNotifier struct {
	reminded []uuid.UUID
}

func (s *stubNotifier) SendDuesReminder(_ context.Context, memberID uuid.UUID) error {
	s.reminded = append(s.reminded, memberID)
	return nil
}

func (s *stubNotifier) SendMonthlyReport(context.Context, *member.Member, email.MonthlyReportData) error {
	return nil
}

func newCronRouter(secret string, repo cotisation.Repository, notifier cronHandler.Notifier) http.Handler {
	rates := cotisation.Rates{Player: 250, Office: 0, PlayerOffice: 200}
	season := cotisation.Season{
		Start:          time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		DurationMonths: 10,
	}
	cotisations := cotisation.NewService(repo, rates, season, nil)

	h := cronHandler.NewHandler(secret, cotisations, nil, nil, nil, notifier)

	r := chi.NewRouter()
	r.Route("/cron", h.Routes)

	return r
}

func TestDuesReminders_TriggeredByGet(t *testing.T) {
	late := uuid.New()
	repo := &stubDuesRepo{dues: []cotisation.MemberDues{
		{MemberID: late, NomPrenom: "Karim Benani", RoleJoueur: true, TotalPaid: 0},
		{MemberID: uuid.New(), NomPrenom: "Nadia Tazi", RoleBureau: true, TotalPaid: 0},
	}}
	notifier := &stubNotifier{}
	router := newCronRouter("s3cret", repo, notifier)

	// Hosted schedulers issue GET, so the job must answer it.
	req := httptest.NewRequest(http.MethodGet, "/cron/relance-cotisations", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Attempted int `json:"attempted"`
		Sent      int `json:"sent"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// Only the late player is reminded; the office-only member owes
	// nothing and stays off the list.
	assert.Equal(t, 1, resp.Attempted)
	assert.Equal(t, 1, resp.Sent)
	assert.Equal(t, []uuid.UUID{late}, notifier.reminded)
}

func TestCron_RejectsBadSecret(t *testing.T) {
	router := newCronRouter("s3cret", &stubDuesRepo{}, &stubNotifier{})

	req := httptest.NewRequest(http.MethodGet, "/cron/relance-cotisations", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
