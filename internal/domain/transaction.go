package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry by the direction of money flow.
type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
	TypeSaving  TransactionType = "SAVING"
)

// TransactionStatus tracks whether an entry has settled.
// Only PAID outflows affect the realized balance.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "PENDING"
	StatusPaid    TransactionStatus = "PAID"
)

// Reserved category values that carry meaning for classification heuristics.
// Free-text categories are allowed everywhere else.
const (
	CategoryDebt       = "Dívida"
	CategoryDailyFlow  = "Fluxo Variável"
	CategoryInvestment = "Investimento"
	CategoryGeneral    = "General"
)

// Transaction is one ledger entry. The ID is an opaque string assigned by
// the store; the application never derives meaning from its format.
type Transaction struct {
	ID          string            `json:"id"`
	Date        time.Time         `json:"date"`
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	Type        TransactionType   `json:"type"`
	Category    string            `json:"category"`
	Status      TransactionStatus `json:"status"`

	// LinkedDebtID is a weak reference to a Debt. When set, paying or
	// un-paying this transaction amortizes or restores that debt's
	// remaining amount.
	LinkedDebtID string `json:"linkedDebtId,omitempty"`
}

// IsOutflow reports whether the entry reduces cash when paid.
func (t Transaction) IsOutflow() bool {
	return t.Type == TypeExpense || t.Type == TypeSaving
}

// IsPaidDebtPayment reports whether the entry is currently amortizing
// its linked debt.
func (t Transaction) IsPaidDebtPayment() bool {
	return t.LinkedDebtID != "" && t.Status == StatusPaid
}
