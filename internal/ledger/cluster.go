package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmonteiro/fincycle/internal/domain"
)

// Window is one of the two semi-monthly pay-cycle windows. Every calendar
// day belongs to exactly one window:
//
//	Vale      days 15 through 29
//	Pagamento day 30 or 31 through day 14 of the following month
//
// Days 30 and 31 that do not exist in a given month simply contribute no
// transactions; they are still classified.
type Window string

const (
	WindowVale      Window = "Vale"
	WindowPagamento Window = "Pagamento"
)

// WindowForDay classifies a day-of-month (1-31).
func WindowForDay(day int) Window {
	if day >= 15 && day <= 29 {
		return WindowVale
	}
	return WindowPagamento
}

// WindowForDate classifies an instant. Evaluation is in UTC so that a
// local-timezone midnight boundary cannot shift an entry across windows.
func WindowForDate(t time.Time) Window {
	return WindowForDay(t.UTC().Day())
}

// WindowStats are the cash figures for one window (or for an aggregate).
// PendingOutflow is reported separately and never subtracted from
// AvailableCash: pending bills are a warning, not spent money.
type WindowStats struct {
	Income           decimal.Decimal `json:"income"`
	CommittedOutflow decimal.Decimal `json:"committedOutflow"`
	PendingOutflow   decimal.Decimal `json:"pendingOutflow"`
	AvailableCash    decimal.Decimal `json:"availableCash"`

	// Realized is Income minus CommittedOutflow accumulated entry by
	// entry; kept alongside AvailableCash because the flow view labels it
	// "Saldo Realizado".
	Realized decimal.Decimal `json:"realized"`

	Count int `json:"count"`
}

// Summarize computes WindowStats over a set of transactions. Accumulation
// is commutative, so re-sorting the input never changes the totals.
func Summarize(txs []domain.Transaction) WindowStats {
	s := WindowStats{
		Income:           decimal.Zero,
		CommittedOutflow: decimal.Zero,
		PendingOutflow:   decimal.Zero,
		AvailableCash:    decimal.Zero,
		Realized:         decimal.Zero,
	}
	for _, t := range txs {
		s.Count++
		switch {
		case t.Type == domain.TypeIncome:
			s.Income = s.Income.Add(t.Amount)
		case t.IsOutflow() && t.Status == domain.StatusPaid:
			s.CommittedOutflow = s.CommittedOutflow.Add(t.Amount)
		case t.IsOutflow() && t.Status == domain.StatusPending:
			s.PendingOutflow = s.PendingOutflow.Add(t.Amount)
		}
	}
	s.AvailableCash = s.Income.Sub(s.CommittedOutflow)
	s.Realized = s.AvailableCash
	return s
}

// RealizedBalance folds all income plus only PAID outflows, the uniform
// accumulation rule used across every view.
func RealizedBalance(txs []domain.Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range txs {
		switch {
		case t.Type == domain.TypeIncome:
			balance = balance.Add(t.Amount)
		case t.IsOutflow() && t.Status == domain.StatusPaid:
			balance = balance.Sub(t.Amount)
		}
	}
	return balance
}

// ClusterBreakdown partitions a transaction set into the two windows and
// carries the aggregate over all of them.
type ClusterBreakdown struct {
	Vale      WindowStats `json:"vale"`
	Pagamento WindowStats `json:"pagamento"`
	All       WindowStats `json:"all"`
}

// Cluster partitions transactions by window and summarizes each slice plus
// the whole set.
func Cluster(txs []domain.Transaction) ClusterBreakdown {
	var vale, pagamento []domain.Transaction
	for _, t := range txs {
		if WindowForDate(t.Date) == WindowVale {
			vale = append(vale, t)
		} else {
			pagamento = append(pagamento, t)
		}
	}
	return ClusterBreakdown{
		Vale:      Summarize(vale),
		Pagamento: Summarize(pagamento),
		All:       Summarize(txs),
	}
}

// FilterMonth keeps transactions dated (in UTC) inside the given month.
func FilterMonth(txs []domain.Transaction, year int, month time.Month) []domain.Transaction {
	var out []domain.Transaction
	for _, t := range txs {
		d := t.Date.UTC()
		if d.Year() == year && d.Month() == month {
			out = append(out, t)
		}
	}
	return out
}

// Cycle is the concrete date range of one pay-cycle window.
type Cycle struct {
	Window Window    `json:"window"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// ActiveCycle returns the cycle containing now. The Pagamento cycle spans a
// month boundary: starting on the 30th it runs through the 14th of the next
// month, including the December to January rollover (time.Date normalizes
// out-of-range months).
func ActiveCycle(now time.Time) Cycle {
	now = now.UTC()
	day := now.Day()
	year, month := now.Year(), now.Month()

	if day >= 15 && day <= 29 {
		return Cycle{
			Window: WindowVale,
			Start:  time.Date(year, month, 15, 0, 0, 0, 0, time.UTC),
			End:    time.Date(year, month, 29, 23, 59, 59, 0, time.UTC),
		}
	}

	if day >= 30 {
		return Cycle{
			Window: WindowPagamento,
			Start:  time.Date(year, month, 30, 0, 0, 0, 0, time.UTC),
			End:    time.Date(year, month+1, 14, 23, 59, 59, 0, time.UTC),
		}
	}

	// Days 1-14: the cycle started on the 30th of the previous month.
	return Cycle{
		Window: WindowPagamento,
		Start:  time.Date(year, month-1, 30, 0, 0, 0, 0, time.UTC),
		End:    time.Date(year, month, 14, 23, 59, 59, 0, time.UTC),
	}
}

// Contains reports whether the instant falls inside the cycle bounds.
func (c Cycle) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(c.Start) && !t.After(c.End)
}

// FilterCycle keeps transactions dated inside the cycle.
func FilterCycle(txs []domain.Transaction, c Cycle) []domain.Transaction {
	var out []domain.Transaction
	for _, t := range txs {
		if c.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}
