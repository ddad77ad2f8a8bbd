package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bmonteiro/fincycle/internal/domain"
	"github.com/bmonteiro/fincycle/internal/store"
)

// Payment is one debt balance adjustment: amount applied to or reverted
// from the debt's remaining balance.
type Payment struct {
	DebtID string
	Amount decimal.Decimal
}

// Command is the transactional reconciliation order for one transaction
// event. When both halves are present the revert must fully persist before
// the apply begins; a single executor enforces that ordering so there is no
// window where neither or both effects are visible.
type Command struct {
	Revert *Payment
	Apply  *Payment
}

// IsZero reports whether the event requires no reconciliation.
func (c Command) IsZero() bool {
	return c.Revert == nil && c.Apply == nil
}

// PlanReconciliation derives the reconciliation command for a transaction
// transition. before is nil on create, after is nil on delete.
//
//	created PAID + linked            -> apply
//	PENDING -> PAID, linked          -> apply
//	PAID -> PENDING, linked          -> revert
//	delete while PAID + linked       -> revert
//	edit of a previously PAID+linked -> revert old, then apply new if the
//	                                    new state is still PAID+linked
func PlanReconciliation(before, after *domain.Transaction) Command {
	var cmd Command

	if before != nil && before.IsPaidDebtPayment() {
		cmd.Revert = &Payment{DebtID: before.LinkedDebtID, Amount: before.Amount}
	}
	if after != nil && after.IsPaidDebtPayment() {
		cmd.Apply = &Payment{DebtID: after.LinkedDebtID, Amount: after.Amount}
	}

	return cmd
}

// Reconciler applies and reverts debt payments against the debt store.
type Reconciler struct {
	debts store.DebtStore
	log   zerolog.Logger
}

// NewReconciler creates a reconciler writing through the given debt store.
func NewReconciler(debts store.DebtStore, log zerolog.Logger) *Reconciler {
	return &Reconciler{debts: debts, log: log}
}

// ApplyPayment subtracts amount from the debt's remaining balance, floored
// at zero, and persists the result. A missing debt is a no-op.
func (r *Reconciler) ApplyPayment(ctx context.Context, debtID string, amount decimal.Decimal) error {
	return r.adjust(ctx, debtID, amount.Neg())
}

// RevertPayment adds amount back onto the debt's remaining balance and
// persists the result. There is no ceiling clamp against TotalAmount: if
// the total was edited downward after payments were recorded, remaining may
// exceed it, and hiding that would mask the edit. A missing debt is a
// no-op.
func (r *Reconciler) RevertPayment(ctx context.Context, debtID string, amount decimal.Decimal) error {
	return r.adjust(ctx, debtID, amount)
}

// Execute runs a command as a strictly ordered sequence: the revert,
// including its persisted write, completes before the apply starts.
func (r *Reconciler) Execute(ctx context.Context, cmd Command) error {
	if cmd.Revert != nil {
		if err := r.RevertPayment(ctx, cmd.Revert.DebtID, cmd.Revert.Amount); err != nil {
			return fmt.Errorf("reconcile: revert on debt %s: %w", cmd.Revert.DebtID, err)
		}
	}
	if cmd.Apply != nil {
		if err := r.ApplyPayment(ctx, cmd.Apply.DebtID, cmd.Apply.Amount); err != nil {
			return fmt.Errorf("reconcile: apply on debt %s: %w", cmd.Apply.DebtID, err)
		}
	}
	return nil
}

// adjust shifts the remaining balance by delta (negative for payments),
// flooring at zero on the payment side only.
func (r *Reconciler) adjust(ctx context.Context, debtID string, delta decimal.Decimal) error {
	debt, err := r.debts.GetDebt(ctx, debtID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.log.Warn().Str("debt_id", debtID).Msg("Reconciliation target missing, skipping")
			return nil
		}
		return fmt.Errorf("load debt: %w", err)
	}

	remaining := debt.RemainingAmount.Add(delta)
	if delta.IsNegative() && remaining.IsNegative() {
		remaining = decimal.Zero
	}
	debt.RemainingAmount = remaining

	if err := r.debts.UpdateDebt(ctx, *debt); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.log.Warn().Str("debt_id", debtID).Msg("Reconciliation target vanished during update, skipping")
			return nil
		}
		return fmt.Errorf("persist debt: %w", err)
	}

	r.log.Debug().
		Str("debt_id", debtID).
		Str("delta", delta.String()).
		Str("remaining", remaining.String()).
		Msg("Debt balance reconciled")
	return nil
}
