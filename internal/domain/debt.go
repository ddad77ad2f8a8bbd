package domain

import "github.com/shopspring/decimal"

// DebtPriority orders debts by repayment urgency.
type DebtPriority string

const (
	PriorityHigh   DebtPriority = "HIGH"
	PriorityMedium DebtPriority = "MEDIUM"
	PriorityLow    DebtPriority = "LOW"
)

// Debt is an outstanding liability. RemainingAmount is the only field the
// reconciliation engine mutates; everything else is user-edited.
//
// At creation 0 <= RemainingAmount <= TotalAmount holds. A later edit can
// lower TotalAmount below RemainingAmount, and reverting payments never
// clamps against TotalAmount, so the ceiling is not an invariant after
// creation. That is deliberate: silently rewriting RemainingAmount would
// hide the user's edit.
type Debt struct {
	ID              string          `json:"id"`
	Creditor        string          `json:"creditor"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`

	// InterestRate is the monthly rate in percent. Informational only;
	// no accrual math happens here.
	InterestRate decimal.Decimal `json:"interestRate"`

	// DueDateDay is the day of the month the installment is due.
	DueDateDay int          `json:"dueDateDay"`
	Priority   DebtPriority `json:"priority"`

	// Fixed-installment metadata, optional.
	MonthlyPayment        *decimal.Decimal `json:"monthlyPayment,omitempty"`
	InstallmentsRemaining *int             `json:"installmentsRemaining,omitempty"`
}
