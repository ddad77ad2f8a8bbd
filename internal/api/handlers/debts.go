package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bmonteiro/fincycle/internal/api/middleware"
	"github.com/bmonteiro/fincycle/internal/domain"
	"github.com/bmonteiro/fincycle/internal/ledger"
)

// DebtsHandler handles debt endpoints.
type DebtsHandler struct {
	svc *ledger.Service
	log zerolog.Logger
}

// NewDebtsHandler creates a new debts handler.
func NewDebtsHandler(svc *ledger.Service, log zerolog.Logger) *DebtsHandler {
	return &DebtsHandler{svc: svc, log: log}
}

// debtRequest is the JSON body for create and update.
type debtRequest struct {
	Creditor              string  `json:"creditor"`
	TotalAmount           string  `json:"total_amount"`
	RemainingAmount       string  `json:"remaining_amount"`
	InterestRate          string  `json:"interest_rate"`
	DueDateDay            int     `json:"due_date_day"`
	Priority              string  `json:"priority"`
	MonthlyPayment        *string `json:"monthly_payment"`
	InstallmentsRemaining *int    `json:"installments_remaining"`
}

// buildDebt validates and assembles the domain record. Edits skip the
// creation-time ceiling so a lowered total keeps the recorded remaining
// balance intact.
func buildDebt(req debtRequest, edit bool) (domain.Debt, error) {
	validate := domain.ValidateDebt
	if edit {
		validate = domain.ValidateDebtEdit
	}
	total, remaining, rate, err := validate(domain.DebtInput{
		Creditor:        req.Creditor,
		TotalAmount:     req.TotalAmount,
		RemainingAmount: req.RemainingAmount,
		InterestRate:    req.InterestRate,
		DueDateDay:      req.DueDateDay,
		Priority:        req.Priority,
	})
	if err != nil {
		return domain.Debt{}, err
	}

	d := domain.Debt{
		Creditor:              req.Creditor,
		TotalAmount:           total,
		RemainingAmount:       remaining,
		InterestRate:          rate,
		DueDateDay:            req.DueDateDay,
		Priority:              domain.DebtPriority(req.Priority),
		InstallmentsRemaining: req.InstallmentsRemaining,
	}
	if req.MonthlyPayment != nil {
		mp, err := decimal.NewFromString(*req.MonthlyPayment)
		if err != nil {
			return domain.Debt{}, &domain.ValidationError{Field: "MonthlyPayment", Reason: "not a number"}
		}
		d.MonthlyPayment = &mp
	}
	return d, nil
}

// List handles GET /api/debts
func (h *DebtsHandler) List(w http.ResponseWriter, r *http.Request) {
	debts := h.svc.Debts()
	if debts == nil {
		debts = []domain.Debt{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"debts":      debts,
		"count":      len(debts),
		"total_open": ledger.TotalOpenDebt(debts),
	})
}

// Create handles POST /api/debts
func (h *DebtsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req debtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	d, err := buildDebt(req, false)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to create debt")
		return
	}

	id, err := h.svc.AddDebt(r.Context(), d)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to create debt")
		return
	}
	d.ID = id
	middleware.WriteJSON(w, http.StatusCreated, d)
}

// Update handles PUT /api/debts/{id}
func (h *DebtsHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	var req debtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	d, err := buildDebt(req, true)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to update debt")
		return
	}
	d.ID = id

	if err := h.svc.UpdateDebt(r.Context(), d); err != nil {
		writeServiceError(w, h.log, err, "Failed to update debt")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, d)
}

// Delete handles DELETE /api/debts/{id}
func (h *DebtsHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.DeleteDebt(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err, "Failed to delete debt")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
