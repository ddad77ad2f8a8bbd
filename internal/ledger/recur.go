// Package ledger implements the reconciliation and cash-flow engine:
// recurrence expansion, debt reconciliation, pay-cycle clustering, and the
// derived aggregation views.
package ledger

import (
	"time"

	"github.com/bmonteiro/fincycle/internal/domain"
)

// MaxOccurrences caps recurrence expansion. The cap is a safety bound
// against runaway date ranges; callers must not assume more than this many
// instances will ever be produced.
const MaxOccurrences = 60

// ExpandMonthly turns a transaction template into dated monthly instances.
// Instances keep the template's day-of-month, advancing one calendar month
// per step, starting at start and continuing while the instance date is on
// or before end. An end before start yields an empty slice; that is part of
// the contract, not an error.
//
// Months shorter than the anchor day clamp to their last day: a template
// anchored on the 31st lands on Feb 28 (29 in leap years) and back on
// Mar 31. The anchor day is taken from start, so clamping never drifts the
// later instances.
//
// The second return value is false when the cap truncated the requested
// span. Callers that honor user-specified end dates should surface that.
func ExpandMonthly(template domain.Transaction, start, end time.Time) ([]domain.Transaction, bool) {
	start = start.UTC()
	end = end.UTC()

	if end.Before(start) {
		return nil, true
	}

	anchorDay := start.Day()
	anchorYear, anchorMonth := start.Year(), start.Month()
	hour, min, sec := start.Hour(), start.Minute(), start.Second()

	var out []domain.Transaction
	for i := 0; ; i++ {
		year, month := addMonths(anchorYear, anchorMonth, i)
		day := clampDay(year, month, anchorDay)
		date := time.Date(year, month, day, hour, min, sec, 0, time.UTC)
		if date.After(end) {
			return out, true
		}
		if i == MaxOccurrences {
			// This instance still fits the span; only the cap stops it.
			return out, false
		}

		instance := template
		instance.ID = ""
		instance.Date = date
		out = append(out, instance)
	}
}

// addMonths advances a year/month pair without day normalization.
func addMonths(year int, month time.Month, delta int) (int, time.Month) {
	m := int(month) - 1 + delta
	return year + m/12, time.Month(m%12 + 1)
}

// clampDay limits day to the last day of the given month.
func clampDay(year int, month time.Month, day int) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	return day
}

// LastDayOfMonth returns the inclusive end-of-month boundary used when a
// recurrence end is specified as a month/year pair.
func LastDayOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 0, 23, 59, 59, 0, time.UTC)
}
