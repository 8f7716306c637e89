// Package budget compares allocated amounts against the realized ledger.
package budget

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Stevy-aimery/pantheres-finance/internal/transaction"
)

var ErrNotFound = errors.New("budget line not found")

// Status is the health of a budget line. Expense and income lines fail
// in opposite directions, so the failure state carries a distinct name
// per polarity instead of one overloaded label.
type Status string

const (
	StatusOK        Status = "OK"
	StatusAttention Status = "Attention"
	// StatusOverrun marks an expense line past its allocation.
	StatusOverrun Status = "Dépassé"
	// StatusShortfall marks an income line short of its target.
	StatusShortfall Status = "Insuffisant"
)

// Alert reports whether the status warrants a red flag.
func (s Status) Alert() bool {
	return s == StatusOverrun || s == StatusShortfall
}

// Line is one planned-vs-actual row.
type Line struct {
	ID           uuid.UUID
	Categorie    string
	Type         transaction.Type
	BudgetAlloue int64
	PeriodeDebut time.Time
	PeriodeFin   time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// Realized is a line enriched with ledger actuals.
type Realized struct {
	Line
	Realise     int64
	Ecart       int64
	Pourcentage float64
	Statut      Status
}

// StatusFor applies the asymmetric thresholds. Expense lines flag
// overage: above 100% Dépassé, above 80% Attention. Income lines invert
// the polarity, under-collection being the failure mode: at or above
// 100% OK, at or above 80% Attention, below that Insuffisant.
func StatusFor(typ transaction.Type, pourcentage float64) Status {
	if typ == transaction.TypeDepense {
		switch {
		case pourcentage > 100:
			return StatusOverrun
		case pourcentage > 80:
			return StatusAttention
		default:
			return StatusOK
		}
	}

	switch {
	case pourcentage >= 100:
		return StatusOK
	case pourcentage >= 80:
		return StatusAttention
	default:
		return StatusShortfall
	}
}

// Enrich derives the actuals for one line from the realized amount.
func Enrich(line Line, realise int64) Realized {
	var pourcentage float64
	if line.BudgetAlloue > 0 {
		pourcentage = float64(realise) / float64(line.BudgetAlloue) * 100
	}

	return Realized{
		Line:        line,
		Realise:     realise,
		Ecart:       realise - line.BudgetAlloue,
		Pourcentage: pourcentage,
		Statut:      StatusFor(line.Type, pourcentage),
	}
}

// RealizedKey is the lookup key shared with the ledger aggregation.
func (l Line) RealizedKey() string {
	return string(l.Type) + "-" + l.Categorie
}
