package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmonteiro/fincycle/internal/domain"
)

func expenseTemplate() domain.Transaction {
	return domain.Transaction{
		Description: "Aluguel",
		Amount:      decimal.RequireFromString("550.00"),
		Type:        domain.TypeExpense,
		Category:    domain.CategoryGeneral,
		Status:      domain.StatusPending,
	}
}

func TestExpandMonthly_FourMonths(t *testing.T) {
	start := time.Date(2025, time.December, 15, 10, 0, 0, 0, time.UTC)
	end := LastDayOfMonth(2026, time.March)

	got, full := ExpandMonthly(expenseTemplate(), start, end)
	if !full {
		t.Fatal("expected full expansion, got truncation")
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 instances, got %d", len(got))
	}

	want := []time.Time{
		time.Date(2025, time.December, 15, 10, 0, 0, 0, time.UTC),
		time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC),
		time.Date(2026, time.February, 15, 10, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC),
	}
	for i, inst := range got {
		if !inst.Date.Equal(want[i]) {
			t.Errorf("instance %d: date = %v, want %v", i, inst.Date, want[i])
		}
		if inst.ID != "" {
			t.Errorf("instance %d: expected empty id before insert, got %q", i, inst.ID)
		}
		if !inst.Amount.Equal(decimal.RequireFromString("550.00")) {
			t.Errorf("instance %d: amount changed to %s", i, inst.Amount)
		}
	}
}

func TestExpandMonthly_EndBeforeStartIsEmpty(t *testing.T) {
	start := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	got, full := ExpandMonthly(expenseTemplate(), start, end)
	if len(got) != 0 {
		t.Fatalf("expected empty sequence, got %d instances", len(got))
	}
	if !full {
		t.Error("empty-by-contract must not report truncation")
	}
}

func TestExpandMonthly_CapAt60(t *testing.T) {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2126, time.January, 1, 0, 0, 0, 0, time.UTC)

	got, full := ExpandMonthly(expenseTemplate(), start, end)
	if len(got) != MaxOccurrences {
		t.Fatalf("expected cap of %d instances, got %d", MaxOccurrences, len(got))
	}
	if full {
		t.Error("truncated expansion must report the cap was hit")
	}
}

// A span that fits the cap exactly is complete, not truncated.
func TestExpandMonthly_ExactlySixtyIsComplete(t *testing.T) {
	start := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2030, time.December, 15, 23, 59, 59, 0, time.UTC)

	got, full := ExpandMonthly(expenseTemplate(), start, end)
	if len(got) != MaxOccurrences {
		t.Fatalf("expected %d instances, got %d", MaxOccurrences, len(got))
	}
	if !full {
		t.Error("a span honored in full must not be reported as truncated")
	}
	last := got[len(got)-1].Date
	if want := time.Date(2030, time.December, 15, 0, 0, 0, 0, time.UTC); !last.Equal(want) {
		t.Errorf("last instance = %s, want %s", last, want)
	}
}

// Pins the month-end policy: templates anchored past a month's last day
// clamp to that last day and do not drift.
func TestExpandMonthly_ClampsToLastDayOfMonth(t *testing.T) {
	start := time.Date(2026, time.January, 31, 9, 0, 0, 0, time.UTC)
	end := LastDayOfMonth(2026, time.April)

	got, full := ExpandMonthly(expenseTemplate(), start, end)
	if !full {
		t.Fatal("expected full expansion")
	}

	want := []time.Time{
		time.Date(2026, time.January, 31, 9, 0, 0, 0, time.UTC),
		time.Date(2026, time.February, 28, 9, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 31, 9, 0, 0, 0, time.UTC),
		time.Date(2026, time.April, 30, 9, 0, 0, 0, time.UTC),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d instances, got %d", len(want), len(got))
	}
	for i, inst := range got {
		if !inst.Date.Equal(want[i]) {
			t.Errorf("instance %d: date = %v, want %v", i, inst.Date, want[i])
		}
	}
}

func TestExpandMonthly_LeapFebruary(t *testing.T) {
	start := time.Date(2027, time.December, 31, 0, 0, 0, 0, time.UTC)
	end := LastDayOfMonth(2028, time.February)

	got, _ := ExpandMonthly(expenseTemplate(), start, end)
	if len(got) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(got))
	}
	feb := got[2].Date
	if feb.Day() != 29 || feb.Month() != time.February {
		t.Errorf("leap February instance = %v, want Feb 29", feb)
	}
}
