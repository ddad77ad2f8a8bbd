// Package seed loads the starter dataset into an empty ledger: one December
// 2025 profile with both pay-cycle windows populated and an active debt
// portfolio.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmonteiro/fincycle/internal/domain"
	"github.com/bmonteiro/fincycle/internal/store"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(day int) time.Time {
	return time.Date(2025, time.December, day, 10, 0, 0, 0, time.UTC)
}

// Transactions returns the starter transaction set. The entries on the 15th
// and 16th land in the Vale window, the ones on the 30th in Pagamento.
func Transactions() []domain.Transaction {
	return []domain.Transaction{
		{Date: date(15), Description: "Renda Mensal (Vale)", Amount: dec("2323.20"), Type: domain.TypeIncome, Category: "Salary", Status: domain.StatusPaid},
		{Date: date(15), Description: "Aluguel", Amount: dec("550.00"), Type: domain.TypeExpense, Category: "Housing", Status: domain.StatusPending},
		{Date: date(15), Description: "Celular", Amount: dec("60.00"), Type: domain.TypeExpense, Category: "Utilities", Status: domain.StatusPending},
		{Date: date(15), Description: "Futebol", Amount: dec("50.00"), Type: domain.TypeExpense, Category: "Leisure", Status: domain.StatusPending},
		{Date: date(15), Description: "Cannabis", Amount: dec("150.00"), Type: domain.TypeExpense, Category: "Personal", Status: domain.StatusPending},
		{Date: date(16), Description: "Filho/Lazer (Parcial 1)", Amount: dec("300.00"), Type: domain.TypeExpense, Category: "Family", Status: domain.StatusPending},
		{Date: date(16), Description: "Variável Geral", Amount: dec("50.00"), Type: domain.TypeExpense, Category: domain.CategoryGeneral, Status: domain.StatusPending},
		{Date: date(30), Description: "Renda Mensal (Fim Mês)", Amount: dec("1061.17"), Type: domain.TypeIncome, Category: "Salary", Status: domain.StatusPending},
		{Date: date(30), Description: "Internet", Amount: dec("165.00"), Type: domain.TypeExpense, Category: "Utilities", Status: domain.StatusPending},
		{Date: date(30), Description: "Filho/Lazer (Parcial 2)", Amount: dec("300.00"), Type: domain.TypeExpense, Category: "Family", Status: domain.StatusPending},
		{Date: date(30), Description: "Variável Geral (Fim Mês)", Amount: dec("50.00"), Type: domain.TypeExpense, Category: domain.CategoryGeneral, Status: domain.StatusPending},
	}
}

// Debts returns the starter debt portfolio.
func Debts() []domain.Debt {
	return []domain.Debt{
		{Creditor: "Receita Federal (Parcelamento)", TotalAmount: dec("5184.96"), RemainingAmount: dec("5184.96"), InterestRate: decimal.Zero, DueDateDay: 20, Priority: domain.PriorityHigh},
		{Creditor: "Multa do Carro", TotalAmount: dec("850.00"), RemainingAmount: dec("850.00"), InterestRate: decimal.Zero, DueDateDay: 10, Priority: domain.PriorityMedium},
		{Creditor: "Faculdade", TotalAmount: dec("1559.16"), RemainingAmount: dec("1559.16"), InterestRate: decimal.Zero, DueDateDay: 10, Priority: domain.PriorityMedium},
		{Creditor: "Luz (Atrasada)", TotalAmount: dec("365.00"), RemainingAmount: dec("365.00"), InterestRate: decimal.Zero, DueDateDay: 5, Priority: domain.PriorityHigh},
		{Creditor: "Sabesp (Atrasada)", TotalAmount: dec("1109.24"), RemainingAmount: dec("1109.24"), InterestRate: decimal.Zero, DueDateDay: 5, Priority: domain.PriorityHigh},
		{Creditor: "Carro Dívida Ativa", TotalAmount: dec("773.28"), RemainingAmount: dec("773.28"), InterestRate: decimal.Zero, DueDateDay: 20, Priority: domain.PriorityMedium},
	}
}

// Run inserts the starter dataset when the transaction table is empty. It is
// a no-op on a populated ledger, so running it twice never duplicates data.
func Run(ctx context.Context, st store.Ledger) (bool, error) {
	existing, err := st.ListTransactions(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: checking existing data: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	if _, err := st.InsertTransactions(ctx, Transactions()); err != nil {
		return false, fmt.Errorf("seed: inserting transactions: %w", err)
	}
	for _, d := range Debts() {
		if _, err := st.InsertDebt(ctx, d); err != nil {
			return false, fmt.Errorf("seed: inserting debt %q: %w", d.Creditor, err)
		}
	}
	return true, nil
}
