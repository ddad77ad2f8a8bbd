package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bmonteiro/fincycle/internal/api/middleware"
	"github.com/bmonteiro/fincycle/internal/ledger"
)

// CashflowHandler serves the derived cash-flow views: pay-cycle clustering,
// the active cycle, and the period income statement.
type CashflowHandler struct {
	svc        *ledger.Service
	classifier ledger.DebtClassifier
	log        zerolog.Logger
}

// NewCashflowHandler creates a new cashflow handler.
func NewCashflowHandler(svc *ledger.Service, log zerolog.Logger) *CashflowHandler {
	return &CashflowHandler{
		svc:        svc,
		classifier: ledger.DefaultDebtClassifier(),
		log:        log,
	}
}

// parseMonth reads year and month query parameters, defaulting to the
// current UTC month.
func parseMonth(r *http.Request) (int, time.Month, error) {
	now := time.Now().UTC()
	year, month := now.Year(), now.Month()

	query := r.URL.Query()
	if y := query.Get("year"); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil {
			return 0, 0, err
		}
		year = v
	}
	if m := query.Get("month"); m != "" {
		v, err := strconv.Atoi(m)
		if err != nil {
			return 0, 0, err
		}
		if v < 1 || v > 12 {
			return 0, 0, strconv.ErrRange
		}
		month = time.Month(v)
	}
	return year, month, nil
}

// Month handles GET /api/cashflow/month?year=&month=
func (h *CashflowHandler) Month(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseMonth(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid year or month")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"year":      year,
		"month":     int(month),
		"breakdown": h.svc.MonthBreakdown(year, month),
	})
}

// Cycle handles GET /api/cashflow/cycle
func (h *CashflowHandler) Cycle(w http.ResponseWriter, r *http.Request) {
	cycle, stats := h.svc.ActiveCycleStats(time.Now())
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"cycle": cycle,
		"stats": stats,
	})
}

// Summary handles GET /api/cashflow/summary?year=&month=
func (h *CashflowHandler) Summary(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseMonth(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid year or month")
		return
	}

	monthTxs := ledger.FilterMonth(h.svc.Transactions(), year, month)
	debts := h.svc.Debts()

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"year":            year,
		"month":           int(month),
		"summary":         ledger.SummarizePeriod(monthTxs),
		"category_totals": ledger.CategoryTotals(monthTxs),
		"status_totals":   ledger.StatusTotals(monthTxs),
		"total_open_debt": ledger.TotalOpenDebt(debts),
		"debt_payments":   ledger.DebtPaymentsInPeriod(monthTxs, h.classifier),
		"current_balance": h.svc.CurrentBalance(),
	})
}
