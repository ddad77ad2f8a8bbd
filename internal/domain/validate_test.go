package domain

import (
	"testing"
)

func TestValidateTransaction(t *testing.T) {
	valid := TransactionInput{
		Date:        "2025-12-15",
		Description: "Aluguel",
		Amount:      "550.00",
		Type:        "EXPENSE",
		Status:      "PENDING",
	}

	tests := []struct {
		name    string
		mutate  func(*TransactionInput)
		wantErr bool
	}{
		{"valid", func(in *TransactionInput) {}, false},
		{"missing description", func(in *TransactionInput) { in.Description = "" }, true},
		{"bad type", func(in *TransactionInput) { in.Type = "TRANSFER" }, true},
		{"bad status", func(in *TransactionInput) { in.Status = "DONE" }, true},
		{"empty status is allowed", func(in *TransactionInput) { in.Status = "" }, false},
		{"non-numeric amount", func(in *TransactionInput) { in.Amount = "abc" }, true},
		{"zero amount", func(in *TransactionInput) { in.Amount = "0" }, true},
		{"negative amount", func(in *TransactionInput) { in.Amount = "-10" }, true},
		{"debt payment without link", func(in *TransactionInput) { in.IsDebtPayment = true }, true},
		{"debt payment with link", func(in *TransactionInput) {
			in.IsDebtPayment = true
			in.LinkedDebtID = "debt-1"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			amount, err := ValidateTransaction(in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !IsValidation(err) {
					t.Errorf("expected a validation error, got %T: %v", err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !amount.IsPositive() {
				t.Errorf("expected positive amount, got %s", amount)
			}
		})
	}
}

func TestValidateDebt(t *testing.T) {
	valid := DebtInput{
		Creditor:        "Faculdade",
		TotalAmount:     "1559.16",
		RemainingAmount: "1559.16",
		DueDateDay:      10,
		Priority:        "MEDIUM",
	}

	tests := []struct {
		name    string
		mutate  func(*DebtInput)
		wantErr bool
	}{
		{"valid", func(in *DebtInput) {}, false},
		{"missing creditor", func(in *DebtInput) { in.Creditor = "" }, true},
		{"day zero", func(in *DebtInput) { in.DueDateDay = 0 }, true},
		{"day 32", func(in *DebtInput) { in.DueDateDay = 32 }, true},
		{"bad priority", func(in *DebtInput) { in.Priority = "URGENT" }, true},
		{"remaining above total", func(in *DebtInput) { in.RemainingAmount = "2000" }, true},
		{"negative remaining", func(in *DebtInput) { in.RemainingAmount = "-1" }, true},
		{"partial remaining", func(in *DebtInput) { in.RemainingAmount = "100" }, false},
		{"optional rate", func(in *DebtInput) { in.InterestRate = "2.5" }, false},
		{"bad rate", func(in *DebtInput) { in.InterestRate = "x" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			total, remaining, _, err := ValidateDebt(in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if remaining.GreaterThan(total) {
				t.Errorf("remaining %s exceeds total %s", remaining, total)
			}
		})
	}
}

// Pins the edit-path ceiling waiver: lowering the total below the recorded
// remaining balance is a legal edit and must not be rejected.
func TestValidateDebtEdit_RemainingMayExceedTotal(t *testing.T) {
	total, remaining, _, err := ValidateDebtEdit(DebtInput{
		Creditor:        "Multa do Carro",
		TotalAmount:     "400.00",
		RemainingAmount: "500.00",
		DueDateDay:      10,
		Priority:        "MEDIUM",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !remaining.GreaterThan(total) {
		t.Fatalf("expected remaining %s above total %s to survive the edit", remaining, total)
	}

	// Everything else still applies on the edit path.
	_, _, _, err = ValidateDebtEdit(DebtInput{
		Creditor:        "Multa do Carro",
		TotalAmount:     "400.00",
		RemainingAmount: "-1",
		DueDateDay:      10,
		Priority:        "MEDIUM",
	})
	if err == nil {
		t.Fatal("expected a negative remaining amount to be rejected")
	}
}
