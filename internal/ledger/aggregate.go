package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bmonteiro/fincycle/internal/domain"
)

// DebtClassifier decides whether a transaction is a debt payment. The two
// implementations are ordered: the typed link wins, the text heuristic only
// covers legacy records created before linking existed.
type DebtClassifier interface {
	IsDebtPayment(t domain.Transaction) bool
}

// LinkClassifier classifies by the typed debt reference.
type LinkClassifier struct{}

func (LinkClassifier) IsDebtPayment(t domain.Transaction) bool {
	return t.LinkedDebtID != ""
}

// HeuristicClassifier classifies legacy records by reserved category or
// debt-related keywords in the description.
type HeuristicClassifier struct{}

var debtKeywords = []string{"dívida", "parcelamento"}

func (HeuristicClassifier) IsDebtPayment(t domain.Transaction) bool {
	if t.Category == domain.CategoryDebt {
		return true
	}
	desc := strings.ToLower(t.Description)
	for _, kw := range debtKeywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// ChainClassifier tries each strategy in order. The default chain is
// typed link first, then the legacy heuristic; the fallback is kept as an
// explicit secondary rule rather than merged into the primary one.
type ChainClassifier []DebtClassifier

func (c ChainClassifier) IsDebtPayment(t domain.Transaction) bool {
	for _, strategy := range c {
		if strategy.IsDebtPayment(t) {
			return true
		}
	}
	return false
}

// DefaultDebtClassifier is the ordered two-strategy chain used by the
// dashboard views.
func DefaultDebtClassifier() DebtClassifier {
	return ChainClassifier{LinkClassifier{}, HeuristicClassifier{}}
}

// CategoryTotals sums amounts per category.
func CategoryTotals(txs []domain.Transaction) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, t := range txs {
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}
	return totals
}

// StatusTotals sums outflow amounts per status: how much is paid versus
// still pending in the selected period.
func StatusTotals(txs []domain.Transaction) map[domain.TransactionStatus]decimal.Decimal {
	totals := map[domain.TransactionStatus]decimal.Decimal{
		domain.StatusPaid:    decimal.Zero,
		domain.StatusPending: decimal.Zero,
	}
	for _, t := range txs {
		if t.IsOutflow() {
			totals[t.Status] = totals[t.Status].Add(t.Amount)
		}
	}
	return totals
}

// PeriodSummary is the income statement for a selected period.
type PeriodSummary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	TotalSavings decimal.Decimal `json:"totalSavings"`
	FreeMargin   decimal.Decimal `json:"freeMargin"`
	PctCommitted decimal.Decimal `json:"pctCommitted"`
}

// SummarizePeriod computes the per-type totals, the free margin (floored at
// zero), and the share of income already committed to expenses and savings.
func SummarizePeriod(txs []domain.Transaction) PeriodSummary {
	s := PeriodSummary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		TotalSavings: decimal.Zero,
		PctCommitted: decimal.Zero,
	}
	for _, t := range txs {
		switch t.Type {
		case domain.TypeIncome:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case domain.TypeExpense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
		case domain.TypeSaving:
			s.TotalSavings = s.TotalSavings.Add(t.Amount)
		}
	}
	committed := s.TotalExpense.Add(s.TotalSavings)
	s.FreeMargin = s.TotalIncome.Sub(committed)
	if s.FreeMargin.IsNegative() {
		s.FreeMargin = decimal.Zero
	}
	if s.TotalIncome.IsPositive() {
		s.PctCommitted = committed.Div(s.TotalIncome).Mul(decimal.NewFromInt(100))
	}
	return s
}

// TotalOpenDebt sums the remaining balance across all debts.
func TotalOpenDebt(debts []domain.Debt) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.RemainingAmount)
	}
	return total
}

// DebtPaymentsInPeriod sums PAID expense amounts the classifier recognizes
// as debt payments. The caller scopes txs to the period of interest first.
func DebtPaymentsInPeriod(txs []domain.Transaction, classifier DebtClassifier) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Type != domain.TypeExpense || t.Status != domain.StatusPaid {
			continue
		}
		if classifier.IsDebtPayment(t) {
			total = total.Add(t.Amount)
		}
	}
	return total
}
