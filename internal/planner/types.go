// Package planner calls Gemini to produce financial projections: an annual
// report with an economic profile, and a debt-free strategy plan. The model
// output is an opaque recommendation; it is decoded but never numerically
// validated here.
package planner

import (
	"github.com/shopspring/decimal"

	"github.com/bmonteiro/fincycle/internal/domain"
)

const (
	// DefaultModelName is the default Gemini model used for projections.
	DefaultModelName = "gemini-3-pro-preview"
)

// Snapshot is the ledger state handed to the model.
type Snapshot struct {
	Transactions   []domain.Transaction
	Debts          []domain.Debt
	CurrentBalance decimal.Decimal
}

// EconomicProfile is the model's behavioral read of the user.
type EconomicProfile struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Score       int      `json:"score"`
	KeyAdvice   string   `json:"keyAdvice"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
}

// MonthlyProjection is one projected month of the annual report.
type MonthlyProjection struct {
	MonthLabel     string  `json:"monthLabel"`
	OpeningBalance float64 `json:"openingBalance"`
	TotalIncome    float64 `json:"totalIncome"`
	TotalExpenses  float64 `json:"totalExpenses"`
	TotalSavings   float64 `json:"totalSavings"`
	ClosingBalance float64 `json:"closingBalance"`
	Notes          string  `json:"notes"`
}

// AnnualSummary aggregates the twelve projected months.
type AnnualSummary struct {
	TotalProjectedIncome   float64 `json:"totalProjectedIncome"`
	TotalProjectedExpenses float64 `json:"totalProjectedExpenses"`
	TotalProjectedSavings  float64 `json:"totalProjectedSavings"`
	AverageMonthlyBalance  float64 `json:"averageMonthlyBalance"`
}

// AnnualReport is the full 12-month projection response.
type AnnualReport struct {
	EconomicProfile EconomicProfile     `json:"economicProfile"`
	AnnualSummary   AnnualSummary       `json:"annualSummary"`
	Projections     []MonthlyProjection `json:"projections"`
}

// DebtAllocation is one creditor payment inside a plan month.
type DebtAllocation struct {
	Creditor string  `json:"creditor"`
	Amount   float64 `json:"amount"`
}

// PlanMonth is one projected month of the debt-free plan.
type PlanMonth struct {
	MonthLabel     string           `json:"monthLabel"`
	OpeningBalance float64          `json:"openingBalance"`
	TotalIncome    float64          `json:"totalIncome"`
	FixedExpenses  float64          `json:"fixedExpenses"`
	DebtPayments   []DebtAllocation `json:"debtPayments"`
	ClosingBalance float64          `json:"closingBalance"`
	Notes          string           `json:"notes"`
}

// DebtPlan is the zero-debt strategy response.
type DebtPlan struct {
	EstimatedDebtFreeDate string      `json:"estimatedDebtFreeDate"`
	StrategySummary       string      `json:"strategySummary"`
	Projections           []PlanMonth `json:"projections"`
}
