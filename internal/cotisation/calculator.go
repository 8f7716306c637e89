// Package cotisation tracks membership dues: pure derivation of each
// member's payment state over the season, and recording of monthly
// installments.
package cotisation

import "time"

// Status is the derived payment state of a member.
type Status string

const (
	StatusAJour  Status = "À Jour"
	StatusRetard Status = "Retard"
)

// Rates holds the monthly due per role combination, in MAD.
type Rates struct {
	Player       int64
	Office       int64
	PlayerOffice int64
}

// Season is the dues accrual window.
type Season struct {
	Start          time.Time
	DurationMonths int
}

// MonthlyDueFor returns the monthly due for a member's role flags.
// The office rate takes priority when both flags are set; a member with
// neither flag owes nothing.
func (r Rates) MonthlyDueFor(isPlayer, isOffice bool) int64 {
	switch {
	case isPlayer && isOffice:
		return r.PlayerOffice
	case isOffice:
		return r.Office
	case isPlayer:
		return r.Player
	}

	return 0
}

// ElapsedMonths counts the whole calendar months between the season start
// and now, plus one so the current month is already due. The result is
// clamped to [1, durationMonths]: it never drops below one and saturates
// once the season is over.
func ElapsedMonths(seasonStart, now time.Time, durationMonths int) int {
	months := (now.Year()-seasonStart.Year())*12 + int(now.Month()) - int(seasonStart.Month()) + 1

	if months < 1 {
		months = 1
	}

	if months > durationMonths {
		months = durationMonths
	}

	return months
}

// TotalDue is what a member owes after elapsedMonths of the season.
func TotalDue(monthlyDue int64, elapsedMonths int) int64 {
	return monthlyDue * int64(elapsedMonths)
}

// Remaining is the unpaid balance, never negative.
func Remaining(totalDue, totalPaid int64) int64 {
	if remaining := totalDue - totalPaid; remaining > 0 {
		return remaining
	}

	return 0
}

// PercentagePaid is the paid share in percent, rounded, capped at 100 so
// overpayment does not overflow displays. A zero due counts as fully paid.
func PercentagePaid(totalPaid, totalDue int64) int {
	if totalDue == 0 {
		return 100
	}

	pct := int((float64(totalPaid)/float64(totalDue))*100 + 0.5)
	if pct > 100 {
		pct = 100
	}

	return pct
}

// StatusFor derives the binary payment state from the remaining balance.
func StatusFor(remaining int64) Status {
	if remaining <= 0 {
		return StatusAJour
	}

	return StatusRetard
}

// State is the full derived dues position of one member.
type State struct {
	MonthlyDue     int64
	ElapsedMonths  int
	TotalDue       int64
	TotalPaid      int64
	Remaining      int64
	PercentagePaid int
	Status         Status
}

// Derive computes the complete dues state. It is a total function: same
// inputs always yield the same output, with no side effects.
func Derive(monthlyDue, totalPaid int64, season Season, now time.Time) State {
	elapsed := ElapsedMonths(season.Start, now, season.DurationMonths)
	due := TotalDue(monthlyDue, elapsed)
	remaining := Remaining(due, totalPaid)

	return State{
		MonthlyDue:     monthlyDue,
		ElapsedMonths:  elapsed,
		TotalDue:       due,
		TotalPaid:      totalPaid,
		Remaining:      remaining,
		PercentagePaid: PercentagePaid(totalPaid, due),
		Status:         StatusFor(remaining),
	}
}
