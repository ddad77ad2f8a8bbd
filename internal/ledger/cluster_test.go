package ledger

import (
	"math/rand"
	"testing"
	"time"

	"github.com/bmonteiro/fincycle/internal/domain"
)

// The partition must be total and exhaustive: every day 1-31 in every month
// maps to exactly one window.
func TestWindowForDay_TotalPartition(t *testing.T) {
	for day := 1; day <= 31; day++ {
		w := WindowForDay(day)
		inVale := day >= 15 && day <= 29
		if inVale && w != WindowVale {
			t.Errorf("day %d: window = %s, want %s", day, w, WindowVale)
		}
		if !inVale && w != WindowPagamento {
			t.Errorf("day %d: window = %s, want %s", day, w, WindowPagamento)
		}
	}

	// Walk every calendar day of a leap year and the year after it; each
	// date must classify without gaps, short months included.
	for _, year := range []int{2028, 2029} {
		d := time.Date(year, time.January, 1, 12, 0, 0, 0, time.UTC)
		for d.Year() == year {
			w := WindowForDate(d)
			if w != WindowVale && w != WindowPagamento {
				t.Fatalf("%v: unclassified", d)
			}
			d = d.AddDate(0, 0, 1)
		}
	}
}

func TestWindowForDate_UsesUTCDay(t *testing.T) {
	// 2026-03-14T23:00-03:00 is already the 15th in UTC.
	loc := time.FixedZone("BRT", -3*60*60)
	local := time.Date(2026, time.March, 14, 23, 0, 0, 0, loc)
	if got := WindowForDate(local); got != WindowVale {
		t.Errorf("window = %s, want %s (UTC day is 15)", got, WindowVale)
	}
}

func TestSummarize_ValeExample(t *testing.T) {
	txs := []domain.Transaction{
		{
			Date:   time.Date(2025, time.December, 15, 10, 0, 0, 0, time.UTC),
			Amount: dec("2323.20"), Type: domain.TypeIncome, Status: domain.StatusPaid,
		},
		{
			Date:   time.Date(2025, time.December, 15, 10, 0, 0, 0, time.UTC),
			Amount: dec("550.00"), Type: domain.TypeExpense, Status: domain.StatusPending,
		},
	}

	b := Cluster(txs)
	if got := b.Vale.Income; !got.Equal(dec("2323.20")) {
		t.Errorf("vale income = %s, want 2323.20", got)
	}
	if got := b.Vale.CommittedOutflow; !got.IsZero() {
		t.Errorf("vale committed = %s, want 0", got)
	}
	if got := b.Vale.AvailableCash; !got.Equal(dec("2323.20")) {
		t.Errorf("vale available = %s, want 2323.20", got)
	}
	if got := b.Vale.PendingOutflow; !got.Equal(dec("550.00")) {
		t.Errorf("vale pending = %s, want 550.00", got)
	}
	if b.Pagamento.Count != 0 {
		t.Errorf("pagamento count = %d, want 0", b.Pagamento.Count)
	}
	if got := b.All.AvailableCash; !got.Equal(dec("2323.20")) {
		t.Errorf("aggregate available = %s, want 2323.20", got)
	}
}

func TestRealizedBalance_OrderIndependent(t *testing.T) {
	txs := []domain.Transaction{
		{Amount: dec("2323.20"), Type: domain.TypeIncome, Status: domain.StatusPaid},
		{Amount: dec("150.00"), Type: domain.TypeExpense, Status: domain.StatusPaid},
		{Amount: dec("300.00"), Type: domain.TypeSaving, Status: domain.StatusPaid},
		{Amount: dec("550.00"), Type: domain.TypeExpense, Status: domain.StatusPending},
		{Amount: dec("1061.17"), Type: domain.TypeIncome, Status: domain.StatusPending},
	}
	want := RealizedBalance(txs)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]domain.Transaction, len(txs))
		copy(shuffled, txs)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := RealizedBalance(shuffled); !got.Equal(want) {
			t.Fatalf("shuffle %d: balance = %s, want %s", i, got, want)
		}
	}

	// Status gates outflows only: 2323.20 + 1061.17 - 150 - 300.
	if !want.Equal(dec("2934.37")) {
		t.Errorf("realized = %s, want 2934.37", want)
	}
}

func TestActiveCycle(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		window    Window
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "mid vale",
			now:       time.Date(2026, time.March, 20, 8, 0, 0, 0, time.UTC),
			window:    WindowVale,
			wantStart: time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.March, 29, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "day 30 starts pagamento",
			now:       time.Date(2026, time.March, 30, 0, 0, 0, 0, time.UTC),
			window:    WindowPagamento,
			wantStart: time.Date(2026, time.March, 30, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.April, 14, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "early month belongs to previous month's cycle",
			now:       time.Date(2026, time.April, 3, 12, 0, 0, 0, time.UTC),
			window:    WindowPagamento,
			wantStart: time.Date(2026, time.March, 30, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.April, 14, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "december rolls into january",
			now:       time.Date(2025, time.December, 31, 12, 0, 0, 0, time.UTC),
			window:    WindowPagamento,
			wantStart: time.Date(2025, time.December, 30, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.January, 14, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "january 2nd still in december cycle",
			now:       time.Date(2026, time.January, 2, 12, 0, 0, 0, time.UTC),
			window:    WindowPagamento,
			wantStart: time.Date(2025, time.December, 30, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.January, 14, 23, 59, 59, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ActiveCycle(tt.now)
			if c.Window != tt.window {
				t.Errorf("window = %s, want %s", c.Window, tt.window)
			}
			if !c.Start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", c.Start, tt.wantStart)
			}
			if !c.End.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", c.End, tt.wantEnd)
			}
			if !c.Contains(tt.now) {
				t.Error("cycle must contain the reference instant")
			}
		})
	}
}

func TestFilterMonth(t *testing.T) {
	txs := []domain.Transaction{
		{ID: "a", Date: time.Date(2025, time.December, 15, 10, 0, 0, 0, time.UTC)},
		{ID: "b", Date: time.Date(2026, time.January, 2, 10, 0, 0, 0, time.UTC)},
		{ID: "c", Date: time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC)},
	}
	got := FilterMonth(txs, 2025, time.December)
	if len(got) != 2 {
		t.Fatalf("expected 2 december transactions, got %d", len(got))
	}
	for _, tx := range got {
		if tx.ID == "b" {
			t.Error("january transaction leaked into december filter")
		}
	}
}
