package cotisation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDuplicatePayment = errors.New("this month is already paid")
	ErrPaymentNotFound  = errors.New("payment not found")
)

// Method is how an installment was settled.
type Method string

const (
	MethodEspeces  Method = "Espèces"
	MethodVirement Method = "Virement"
	MethodWafacash Method = "Wafacash"
	MethodCheque   Method = "Chèque"
)

// Payment is one dues installment. Rows are immutable once written; the
// (member, month, year) uniqueness lives in the database and surfaces
// here as ErrDuplicatePayment.
type Payment struct {
	ID          uuid.UUID
	MemberID    uuid.UUID
	Month       int
	Year        int
	Amount      int64
	Method      Method
	PaymentDate time.Time
	CreatedAt   time.Time
}
