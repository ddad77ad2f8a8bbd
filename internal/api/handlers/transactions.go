package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/bmonteiro/fincycle/internal/api/middleware"
	"github.com/bmonteiro/fincycle/internal/domain"
	"github.com/bmonteiro/fincycle/internal/ledger"
	"github.com/bmonteiro/fincycle/internal/store"
)

// TransactionsHandler handles transaction endpoints.
type TransactionsHandler struct {
	svc *ledger.Service
	log zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(svc *ledger.Service, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{svc: svc, log: log}
}

// transactionRequest is the JSON body for create and update.
type transactionRequest struct {
	Date          string `json:"date"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	Type          string `json:"type"`
	Category      string `json:"category"`
	Status        string `json:"status"`
	IsDebtPayment bool   `json:"is_debt_payment"`
	LinkedDebtID  string `json:"linked_debt_id"`

	// Recurring expands the entry into monthly instances through
	// RecurUntil (inclusive, YYYY-MM-DD). Create only.
	Recurring  bool   `json:"recurring"`
	RecurUntil string `json:"recur_until"`
}

// buildTransaction validates the request and assembles the domain record.
func buildTransaction(req transactionRequest) (domain.Transaction, time.Time, error) {
	amount, err := domain.ValidateTransaction(domain.TransactionInput{
		Date:          req.Date,
		Description:   req.Description,
		Amount:        req.Amount,
		Type:          req.Type,
		Category:      req.Category,
		Status:        req.Status,
		IsDebtPayment: req.IsDebtPayment,
		LinkedDebtID:  req.LinkedDebtID,
	})
	if err != nil {
		return domain.Transaction{}, time.Time{}, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return domain.Transaction{}, time.Time{}, &domain.ValidationError{Field: "Date", Reason: "expected YYYY-MM-DD"}
	}

	category := req.Category
	if category == "" {
		category = domain.CategoryGeneral
	}
	status := domain.TransactionStatus(req.Status)
	if status == "" {
		status = domain.StatusPending
	}

	return domain.Transaction{
		Date:         date,
		Description:  req.Description,
		Amount:       amount,
		Type:         domain.TransactionType(req.Type),
		Category:     category,
		Status:       status,
		LinkedDebtID: req.LinkedDebtID,
	}, date, nil
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, log zerolog.Logger, err error, action string) {
	switch {
	case domain.IsValidation(err):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	default:
		log.Error().Err(err).Msg(action)
		middleware.WriteError(w, http.StatusInternalServerError, action)
	}
}

// List handles GET /api/transactions
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	txs := h.svc.Transactions()
	if txs == nil {
		txs = []domain.Transaction{}
	}
	middleware.WriteJSON(w, http.StatusOK, txs)
}

// Create handles POST /api/transactions
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, date, err := buildTransaction(req)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to create transaction")
		return
	}

	items := []domain.Transaction{tx}
	truncated := false
	if req.Recurring {
		if req.RecurUntil == "" {
			middleware.WriteError(w, http.StatusBadRequest, "recur_until is required for a recurring entry")
			return
		}
		until, err := time.Parse("2006-01-02", req.RecurUntil)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid recur_until format")
			return
		}
		end := time.Date(until.Year(), until.Month(), until.Day(), 23, 59, 59, 0, time.UTC)
		var complete bool
		items, complete = ledger.ExpandMonthly(tx, date, end)
		truncated = !complete
	}

	ids, err := h.svc.AddTransactions(r.Context(), items)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to create transaction")
		return
	}

	h.log.Info().Int("count", len(ids)).Bool("recurring", req.Recurring).Msg("Transactions created")

	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"ids":       ids,
		"count":     len(ids),
		"truncated": truncated,
	})
}

// Update handles PUT /api/transactions/{id}
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, _, err := buildTransaction(req)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to update transaction")
		return
	}
	tx.ID = id

	if err := h.svc.UpdateTransaction(r.Context(), tx); err != nil {
		writeServiceError(w, h.log, err, "Failed to update transaction")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, tx)
}

// Toggle handles PATCH /api/transactions/{id}/toggle
func (h *TransactionsHandler) Toggle(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.ToggleStatus(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err, "Failed to toggle transaction")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"id": id, "status": "toggled"})
}

// Delete handles DELETE /api/transactions/{id}
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.DeleteTransaction(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err, "Failed to delete transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
