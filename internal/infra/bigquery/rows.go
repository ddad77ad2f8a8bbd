// Package bigquery is the BigQuery implementation of the ledger store.
// Amounts travel as NUMERIC (big.Rat at the client boundary) and are
// converted back to decimals with two fractional digits.
package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/shopspring/decimal"

	"github.com/bmonteiro/fincycle/internal/domain"
)

const (
	transactionsTable = "transactions"
	debtsTable        = "debts"
)

type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED

	Date        time.Time `bigquery:"date"`        // REQUIRED TIMESTAMP
	Description string    `bigquery:"description"` // REQUIRED
	Amount      *big.Rat  `bigquery:"amount"`      // REQUIRED NUMERIC
	Type        string    `bigquery:"type"`        // REQUIRED
	Category    string    `bigquery:"category"`    // REQUIRED
	Status      string    `bigquery:"status"`      // REQUIRED

	LinkedDebtID bigquery.NullString `bigquery:"linked_debt_id"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED (default CURRENT_TIMESTAMP)
}

type DebtRow struct {
	DebtID string `bigquery:"debt_id"` // REQUIRED

	Creditor        string   `bigquery:"creditor"`         // REQUIRED
	TotalAmount     *big.Rat `bigquery:"total_amount"`     // REQUIRED NUMERIC
	RemainingAmount *big.Rat `bigquery:"remaining_amount"` // REQUIRED NUMERIC
	InterestRate    *big.Rat `bigquery:"interest_rate"`    // REQUIRED NUMERIC
	DueDateDay      int64    `bigquery:"due_date_day"`     // REQUIRED
	Priority        string   `bigquery:"priority"`         // REQUIRED

	MonthlyPayment        *big.Rat           `bigquery:"monthly_payment"`        // NULLABLE NUMERIC
	InstallmentsRemaining bigquery.NullInt64 `bigquery:"installments_remaining"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED (default CURRENT_TIMESTAMP)
}

func ratFromDecimal(d decimal.Decimal) *big.Rat {
	return d.Rat()
}

func decimalFromRat(r *big.Rat) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigRat(r, 2)
}

func transactionRow(t domain.Transaction) *TransactionRow {
	row := &TransactionRow{
		TransactionID: t.ID,
		Date:          t.Date.UTC(),
		Description:   t.Description,
		Amount:        ratFromDecimal(t.Amount),
		Type:          string(t.Type),
		Category:      t.Category,
		Status:        string(t.Status),
		CreatedTS:     time.Now().UTC(),
	}
	if t.LinkedDebtID != "" {
		row.LinkedDebtID = bigquery.NullString{StringVal: t.LinkedDebtID, Valid: true}
	}
	return row
}

func (r *TransactionRow) toDomain() domain.Transaction {
	t := domain.Transaction{
		ID:          r.TransactionID,
		Date:        r.Date.UTC(),
		Description: r.Description,
		Amount:      decimalFromRat(r.Amount),
		Type:        domain.TransactionType(r.Type),
		Category:    r.Category,
		Status:      domain.TransactionStatus(r.Status),
	}
	if r.LinkedDebtID.Valid {
		t.LinkedDebtID = r.LinkedDebtID.StringVal
	}
	return t
}

func debtRow(d domain.Debt) *DebtRow {
	row := &DebtRow{
		DebtID:          d.ID,
		Creditor:        d.Creditor,
		TotalAmount:     ratFromDecimal(d.TotalAmount),
		RemainingAmount: ratFromDecimal(d.RemainingAmount),
		InterestRate:    ratFromDecimal(d.InterestRate),
		DueDateDay:      int64(d.DueDateDay),
		Priority:        string(d.Priority),
		CreatedTS:       time.Now().UTC(),
	}
	if d.MonthlyPayment != nil {
		row.MonthlyPayment = ratFromDecimal(*d.MonthlyPayment)
	}
	if d.InstallmentsRemaining != nil {
		row.InstallmentsRemaining = bigquery.NullInt64{Int64: int64(*d.InstallmentsRemaining), Valid: true}
	}
	return row
}

func (r *DebtRow) toDomain() domain.Debt {
	d := domain.Debt{
		ID:              r.DebtID,
		Creditor:        r.Creditor,
		TotalAmount:     decimalFromRat(r.TotalAmount),
		RemainingAmount: decimalFromRat(r.RemainingAmount),
		InterestRate:    decimalFromRat(r.InterestRate),
		DueDateDay:      int(r.DueDateDay),
		Priority:        domain.DebtPriority(r.Priority),
	}
	if r.MonthlyPayment != nil {
		mp := decimalFromRat(r.MonthlyPayment)
		d.MonthlyPayment = &mp
	}
	if r.InstallmentsRemaining.Valid {
		n := int(r.InstallmentsRemaining.Int64)
		d.InstallmentsRemaining = &n
	}
	return d
}
