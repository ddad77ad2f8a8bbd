package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bmonteiro/fincycle/internal/domain"
	"github.com/bmonteiro/fincycle/internal/store"
)

// Service owns the application state. Every mutation is one sequential
// chain: validate input, run reconciliation, write to the external store,
// refresh the in-memory view. A failed store write discards the optimistic
// state with a full reload; nothing is ever left half-applied.
//
// The mutex serializes mutations from one process. Two clients paying down
// the same debt concurrently remain unsafe under this design: a lost update
// on the remaining balance is possible unless the storage layer itself
// enforces atomic writes. That is a caller requirement, not something this
// service can provide.
type Service struct {
	mu    sync.RWMutex
	store store.Ledger
	rec   *Reconciler
	log   zerolog.Logger

	transactions []domain.Transaction
	debts        []domain.Debt
}

// NewService creates a service over the given ledger store. Call Refresh
// before serving reads.
func NewService(st store.Ledger, log zerolog.Logger) *Service {
	return &Service{
		store: st,
		rec:   NewReconciler(st, log),
		log:   log,
	}
}

// Refresh reloads both collections from the store.
func (s *Service) Refresh(ctx context.Context) error {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("refresh transactions: %w", err)
	}
	debts, err := s.store.ListDebts(ctx)
	if err != nil {
		return fmt.Errorf("refresh debts: %w", err)
	}

	s.mu.Lock()
	s.transactions = txs
	s.debts = debts
	s.mu.Unlock()
	return nil
}

// Transactions returns a copy of the current transaction collection.
func (s *Service) Transactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Debts returns a copy of the current debt collection.
func (s *Service) Debts() []domain.Debt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Debt, len(s.debts))
	copy(out, s.debts)
	return out
}

// CurrentBalance is the realized balance over the full history.
func (s *Service) CurrentBalance() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return RealizedBalance(s.transactions)
}

// MonthBreakdown clusters the selected month into the two pay-cycle
// windows.
func (s *Service) MonthBreakdown(year int, month time.Month) ClusterBreakdown {
	return Cluster(FilterMonth(s.Transactions(), year, month))
}

// ActiveCycleStats summarizes the cycle containing now.
func (s *Service) ActiveCycleStats(now time.Time) (Cycle, WindowStats) {
	cycle := ActiveCycle(now)
	return cycle, Summarize(FilterCycle(s.Transactions(), cycle))
}

// AddTransactions inserts a batch (a single entry or a recurrence
// expansion). Entries created already PAID and linked to a debt are applied
// against it before the store write.
func (s *Service) AddTransactions(ctx context.Context, items []domain.Transaction) ([]string, error) {
	if len(items) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range items {
		item := items[i]
		if cmd := PlanReconciliation(nil, &item); !cmd.IsZero() {
			if err := s.rec.Execute(ctx, cmd); err != nil {
				return nil, s.rollback(ctx, err)
			}
		}
	}

	ids, err := s.store.InsertTransactions(ctx, items)
	if err != nil {
		return nil, s.rollback(ctx, fmt.Errorf("insert transactions: %w", err))
	}

	return ids, s.reloadLocked(ctx)
}

// UpdateTransaction replaces the stored record. The reconciliation pair for
// an edit runs as one ordered command: the revert of the old state fully
// persists before the apply of the new state starts.
func (s *Service) UpdateTransaction(ctx context.Context, updated domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, idx := s.findLocked(updated.ID)
	if idx < 0 {
		return store.ErrNotFound
	}

	if cmd := PlanReconciliation(&before, &updated); !cmd.IsZero() {
		if err := s.rec.Execute(ctx, cmd); err != nil {
			return s.rollback(ctx, err)
		}
	}

	if err := s.store.UpdateTransaction(ctx, updated); err != nil {
		return s.rollback(ctx, fmt.Errorf("update transaction %s: %w", updated.ID, err))
	}

	s.transactions[idx] = updated
	return s.reloadDebtsLocked(ctx)
}

// ToggleStatus flips PENDING/PAID on one transaction and reconciles any
// linked debt accordingly.
func (s *Service) ToggleStatus(ctx context.Context, id string) error {
	s.mu.RLock()
	t, idx := s.findLocked(id)
	s.mu.RUnlock()
	if idx < 0 {
		return store.ErrNotFound
	}

	if t.Status == domain.StatusPaid {
		t.Status = domain.StatusPending
	} else {
		t.Status = domain.StatusPaid
	}
	return s.UpdateTransaction(ctx, t)
}

// DeleteTransaction removes the record, reverting its payment first when it
// was PAID and linked.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, idx := s.findLocked(id)
	if idx < 0 {
		return store.ErrNotFound
	}

	if cmd := PlanReconciliation(&before, nil); !cmd.IsZero() {
		if err := s.rec.Execute(ctx, cmd); err != nil {
			return s.rollback(ctx, err)
		}
	}

	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return s.rollback(ctx, fmt.Errorf("delete transaction %s: %w", id, err))
	}

	s.transactions = append(s.transactions[:idx], s.transactions[idx+1:]...)
	return s.reloadDebtsLocked(ctx)
}

// AddDebt inserts a new debt and returns its id.
func (s *Service) AddDebt(ctx context.Context, d domain.Debt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.store.InsertDebt(ctx, d)
	if err != nil {
		return "", s.rollback(ctx, fmt.Errorf("insert debt: %w", err))
	}
	d.ID = id
	s.debts = append(s.debts, d)
	return id, nil
}

// UpdateDebt overwrites a debt record. Debt edits do not route through
// reconciliation; lowering the total below the remaining balance is
// representable on purpose.
func (s *Service) UpdateDebt(ctx context.Context, d domain.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.UpdateDebt(ctx, d); err != nil {
		return s.rollback(ctx, fmt.Errorf("update debt %s: %w", d.ID, err))
	}
	for i := range s.debts {
		if s.debts[i].ID == d.ID {
			s.debts[i] = d
			break
		}
	}
	return nil
}

// DeleteDebt removes a debt. Transactions keep their now-dangling link;
// reconciliation treats the missing debt as a no-op from then on.
func (s *Service) DeleteDebt(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteDebt(ctx, id); err != nil {
		return s.rollback(ctx, fmt.Errorf("delete debt %s: %w", id, err))
	}
	for i := range s.debts {
		if s.debts[i].ID == id {
			s.debts = append(s.debts[:i], s.debts[i+1:]...)
			break
		}
	}
	return nil
}

// findLocked locates a transaction by id. Callers hold the mutex.
func (s *Service) findLocked(id string) (domain.Transaction, int) {
	for i, t := range s.transactions {
		if t.ID == id {
			return t, i
		}
	}
	return domain.Transaction{}, -1
}

// rollback discards whatever optimistic state this action produced by
// reloading both collections, then surfaces the original error. A failed
// reload is logged, not returned; the original fault matters more.
func (s *Service) rollback(ctx context.Context, cause error) error {
	if err := s.reloadLocked(ctx); err != nil {
		s.log.Error().Err(err).Msg("Reload after failed mutation also failed")
	}
	return cause
}

// reloadLocked refreshes both collections. Callers hold the mutex.
func (s *Service) reloadLocked(ctx context.Context) error {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("reload transactions: %w", err)
	}
	debts, err := s.store.ListDebts(ctx)
	if err != nil {
		return fmt.Errorf("reload debts: %w", err)
	}
	s.transactions = txs
	s.debts = debts
	return nil
}

// reloadDebtsLocked refreshes the debt collection after reconciliation has
// mutated remaining balances remotely. Callers hold the mutex.
func (s *Service) reloadDebtsLocked(ctx context.Context) error {
	debts, err := s.store.ListDebts(ctx)
	if err != nil {
		return fmt.Errorf("reload debts: %w", err)
	}
	s.debts = debts
	return nil
}
