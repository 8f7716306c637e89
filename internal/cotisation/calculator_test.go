package cotisation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Stevy-aimery/pantheres-finance/internal/cotisation"
)

var seasonStart = time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

func TestElapsedMonths(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"FirstMonthCounts", time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC), 1},
		{"SecondMonth", time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), 2},
		{"AcrossYearBoundary", time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC), 5},
		{"LastSeasonMonth", time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC), 10},
		{"SaturatesAfterSeason", time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), 10},
		{"FarPastSeasonEnd", time.Date(2030, time.March, 1, 0, 0, 0, 0, time.UTC), 10},
		{"NeverBelowOne", time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cotisation.ElapsedMonths(seasonStart, tt.now, 10))
		})
	}
}

func TestElapsedMonths_Monotonic(t *testing.T) {
	// Walking forward a day at a time through the season must never
	// decrease the elapsed count.
	prev := 0
	for now := seasonStart; now.Year() < 2027; now = now.AddDate(0, 0, 1) {
		got := cotisation.ElapsedMonths(seasonStart, now, 10)
		assert.GreaterOrEqual(t, got, prev, "decreased at %s", now.Format(time.DateOnly))
		assert.GreaterOrEqual(t, got, 1)
		assert.LessOrEqual(t, got, 10)
		prev = got
	}
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, int64(500), cotisation.Remaining(2000, 1500))
	assert.Equal(t, int64(0), cotisation.Remaining(2000, 2000))
	// Overpayment never produces a negative balance.
	assert.Equal(t, int64(0), cotisation.Remaining(2000, 2500))
	assert.Equal(t, int64(0), cotisation.Remaining(0, 0))
}

func TestPercentagePaid(t *testing.T) {
	tests := []struct {
		name      string
		paid, due int64
		want      int
	}{
		{"Half", 1000, 2000, 50},
		{"Exact", 2000, 2000, 100},
		{"OverpaymentCapped", 3000, 2000, 100},
		{"ZeroDueIsFullyPaid", 0, 0, 100},
		{"Rounded", 1, 3, 33},
		{"RoundedUp", 2, 3, 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cotisation.PercentagePaid(tt.paid, tt.due))
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, cotisation.StatusAJour, cotisation.StatusFor(0))
	assert.Equal(t, cotisation.StatusAJour, cotisation.StatusFor(-1))
	assert.Equal(t, cotisation.StatusRetard, cotisation.StatusFor(1))
}

func TestMonthlyDueFor(t *testing.T) {
	rates := cotisation.Rates{Player: 250, Office: 0, PlayerOffice: 200}

	assert.Equal(t, int64(250), rates.MonthlyDueFor(true, false))
	assert.Equal(t, int64(0), rates.MonthlyDueFor(false, true))
	// Office rate wins over the player rate when both flags are set.
	assert.Equal(t, int64(200), rates.MonthlyDueFor(true, true))
	assert.Equal(t, int64(0), rates.MonthlyDueFor(false, false))
}

func TestDerive(t *testing.T) {
	season := cotisation.Season{Start: seasonStart, DurationMonths: 10}
	now := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC) // month 5

	state := cotisation.Derive(250, 750, season, now)

	assert.Equal(t, 5, state.ElapsedMonths)
	assert.Equal(t, int64(1250), state.TotalDue)
	assert.Equal(t, int64(500), state.Remaining)
	assert.Equal(t, 60, state.PercentagePaid)
	assert.Equal(t, cotisation.StatusRetard, state.Status)
}

func TestDerive_Idempotent(t *testing.T) {
	season := cotisation.Season{Start: seasonStart, DurationMonths: 10}
	now := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)

	first := cotisation.Derive(200, 900, season, now)
	second := cotisation.Derive(200, 900, season, now)

	assert.Equal(t, first, second)
}
