package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidationError rejects malformed input before any store call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var validate = validator.New()

// TransactionInput is the user-supplied portion of a transaction, validated
// before it reaches the store. Amount arrives as a string so that malformed
// numbers are rejected here instead of silently becoming zero.
type TransactionInput struct {
	Date        string `validate:"required"`
	Description string `validate:"required"`
	Amount      string `validate:"required"`
	Type        string `validate:"required,oneof=INCOME EXPENSE SAVING"`
	Category    string
	Status      string `validate:"omitempty,oneof=PENDING PAID"`

	// IsDebtPayment requires LinkedDebtID to be set; the UI exposes the
	// flag and the debt selector separately.
	IsDebtPayment bool
	LinkedDebtID  string
}

// ValidateTransaction checks a TransactionInput and returns the parsed
// amount on success.
func ValidateTransaction(in TransactionInput) (decimal.Decimal, error) {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return decimal.Zero, &ValidationError{Field: verrs[0].Field(), Reason: verrs[0].Tag()}
		}
		return decimal.Zero, &ValidationError{Field: "input", Reason: err.Error()}
	}

	amount, err := decimal.NewFromString(in.Amount)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "Amount", Reason: "not a number"}
	}
	if !amount.IsPositive() {
		return decimal.Zero, &ValidationError{Field: "Amount", Reason: "must be greater than zero"}
	}

	if in.IsDebtPayment && in.LinkedDebtID == "" {
		return decimal.Zero, &ValidationError{Field: "LinkedDebtID", Reason: "debt selection required for a debt payment"}
	}

	return amount, nil
}

// DebtInput is the user-supplied portion of a debt record.
type DebtInput struct {
	Creditor        string `validate:"required"`
	TotalAmount     string `validate:"required"`
	RemainingAmount string `validate:"required"`
	InterestRate    string
	DueDateDay      int    `validate:"required,min=1,max=31"`
	Priority        string `validate:"required,oneof=HIGH MEDIUM LOW"`
}

// ValidateDebt checks a DebtInput for creating a new debt and returns the
// parsed amounts (total, remaining, rate) on success. The remaining amount
// must not exceed the total at creation time.
func ValidateDebt(in DebtInput) (total, remaining, rate decimal.Decimal, err error) {
	total, remaining, rate, err = parseDebt(in)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	if remaining.GreaterThan(total) {
		return decimal.Zero, decimal.Zero, decimal.Zero, &ValidationError{Field: "RemainingAmount", Reason: "must not exceed the total amount"}
	}
	return total, remaining, rate, nil
}

// ValidateDebtEdit checks a DebtInput for editing an existing debt. The
// creation-time ceiling is not enforced here: lowering the total below the
// recorded remaining balance must stay representable, since silently
// rewriting or rejecting the remaining amount would hide the user's edit.
func ValidateDebtEdit(in DebtInput) (total, remaining, rate decimal.Decimal, err error) {
	return parseDebt(in)
}

func parseDebt(in DebtInput) (total, remaining, rate decimal.Decimal, err error) {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return decimal.Zero, decimal.Zero, decimal.Zero, &ValidationError{Field: verrs[0].Field(), Reason: verrs[0].Tag()}
		}
		return decimal.Zero, decimal.Zero, decimal.Zero, &ValidationError{Field: "input", Reason: err.Error()}
	}

	total, err = decimal.NewFromString(in.TotalAmount)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, &ValidationError{Field: "TotalAmount", Reason: "not a number"}
	}
	if total.IsNegative() {
		return decimal.Zero, decimal.Zero, decimal.Zero, &ValidationError{Field: "TotalAmount", Reason: "must not be negative"}
	}

	remaining, err = decimal.NewFromString(in.RemainingAmount)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, &ValidationError{Field: "RemainingAmount", Reason: "not a number"}
	}
	if remaining.IsNegative() {
		return decimal.Zero, decimal.Zero, decimal.Zero, &ValidationError{Field: "RemainingAmount", Reason: "must not be negative"}
	}

	rate = decimal.Zero
	if in.InterestRate != "" {
		rate, err = decimal.NewFromString(in.InterestRate)
		if err != nil {
			return decimal.Zero, decimal.Zero, decimal.Zero, &ValidationError{Field: "InterestRate", Reason: "not a number"}
		}
	}

	return total, remaining, rate, nil
}
