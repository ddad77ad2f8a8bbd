// Package store defines the ports to the external ledger store. All calls
// are remote and may fail transiently; callers treat any failure as "abort
// this action and surface an error", never as "retry silently".
package store

import (
	"context"
	"errors"

	"github.com/bmonteiro/fincycle/internal/domain"
)

// ErrNotFound is returned when a referenced record does not exist.
// The reconciliation engine treats it as a no-op rather than a failure.
var ErrNotFound = errors.New("store: record not found")

// TransactionStore persists ledger entries.
type TransactionStore interface {
	// ListTransactions returns every transaction ordered by date ascending.
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)

	// InsertTransactions writes a batch and returns the assigned ids in
	// the same order.
	InsertTransactions(ctx context.Context, items []domain.Transaction) ([]string, error)

	// UpdateTransaction overwrites the record identified by t.ID.
	UpdateTransaction(ctx context.Context, t domain.Transaction) error

	// DeleteTransaction removes the record. Deleting a missing id returns
	// ErrNotFound.
	DeleteTransaction(ctx context.Context, id string) error
}

// DebtStore persists debts.
type DebtStore interface {
	// ListDebts returns every debt ordered by remaining amount descending.
	ListDebts(ctx context.Context) ([]domain.Debt, error)

	// GetDebt returns the debt or ErrNotFound.
	GetDebt(ctx context.Context, id string) (*domain.Debt, error)

	// InsertDebt writes a new debt and returns the assigned id.
	InsertDebt(ctx context.Context, d domain.Debt) (string, error)

	// UpdateDebt overwrites the record identified by d.ID. Updating a
	// missing id returns ErrNotFound.
	UpdateDebt(ctx context.Context, d domain.Debt) error

	// DeleteDebt removes the record.
	DeleteDebt(ctx context.Context, id string) error
}

// Ledger combines both stores; the BigQuery repository satisfies it with a
// single shared client.
type Ledger interface {
	TransactionStore
	DebtStore
}
