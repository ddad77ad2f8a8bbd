package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/bmonteiro/fincycle/internal/domain"
	"github.com/bmonteiro/fincycle/internal/store"
)

const debtColumns = `
	debt_id,
	creditor,
	total_amount,
	remaining_amount,
	interest_rate,
	due_date_day,
	priority,
	monthly_payment,
	installments_remaining,
	created_ts
`

// ListDebts returns every debt ordered by remaining amount descending.
func (r *Repository) ListDebts(ctx context.Context) ([]domain.Debt, error) {
	q := r.client.Query(`
		SELECT ` + debtColumns + `
		FROM ` + r.table(debtsTable) + `
		ORDER BY remaining_amount DESC
	`)

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListDebts: query read: %w", err)
	}

	var out []domain.Debt
	for {
		var row DebtRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListDebts: iterating rows: %w", err)
		}
		out = append(out, row.toDomain())
	}
	return out, nil
}

// GetDebt returns one debt or store.ErrNotFound.
func (r *Repository) GetDebt(ctx context.Context, id string) (*domain.Debt, error) {
	q := r.client.Query(`
		SELECT ` + debtColumns + `
		FROM ` + r.table(debtsTable) + `
		WHERE debt_id = @debt_id
		LIMIT 1
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "debt_id", Value: id},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetDebt %s: query read: %w", id, err)
	}

	var row DebtRow
	switch err := it.Next(&row); err {
	case nil:
		d := row.toDomain()
		return &d, nil
	case iterator.Done:
		return nil, store.ErrNotFound
	default:
		return nil, fmt.Errorf("GetDebt %s: reading row: %w", id, err)
	}
}

// InsertDebt writes a new debt and returns the assigned id.
func (r *Repository) InsertDebt(ctx context.Context, d domain.Debt) (string, error) {
	d.ID = uuid.New().String()
	row := debtRow(d)

	table := r.client.DatasetInProject(r.projectID, r.datasetID).Table(debtsTable)
	if err := table.Inserter().Put(ctx, row); err != nil {
		return "", fmt.Errorf("InsertDebt: inserting row: %w", err)
	}
	return d.ID, nil
}

// UpdateDebt overwrites all fields of one debt record.
func (r *Repository) UpdateDebt(ctx context.Context, d domain.Debt) error {
	row := debtRow(d)

	affected, err := r.runDML(ctx, `
		UPDATE `+r.table(debtsTable)+`
		SET creditor = @creditor,
			total_amount = @total_amount,
			remaining_amount = @remaining_amount,
			interest_rate = @interest_rate,
			due_date_day = @due_date_day,
			priority = @priority,
			monthly_payment = @monthly_payment,
			installments_remaining = @installments_remaining
		WHERE debt_id = @debt_id
	`, []bigquery.QueryParameter{
		{Name: "creditor", Value: row.Creditor},
		{Name: "total_amount", Value: row.TotalAmount},
		{Name: "remaining_amount", Value: row.RemainingAmount},
		{Name: "interest_rate", Value: row.InterestRate},
		{Name: "due_date_day", Value: row.DueDateDay},
		{Name: "priority", Value: row.Priority},
		{Name: "monthly_payment", Value: row.MonthlyPayment},
		{Name: "installments_remaining", Value: row.InstallmentsRemaining},
		{Name: "debt_id", Value: row.DebtID},
	})
	if err != nil {
		return fmt.Errorf("UpdateDebt %s: %w", d.ID, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteDebt removes one debt. Linked transactions are left untouched;
// reconciliation treats the dangling reference as a no-op.
func (r *Repository) DeleteDebt(ctx context.Context, id string) error {
	affected, err := r.runDML(ctx, `
		DELETE FROM `+r.table(debtsTable)+`
		WHERE debt_id = @debt_id
	`, []bigquery.QueryParameter{
		{Name: "debt_id", Value: id},
	})
	if err != nil {
		return fmt.Errorf("DeleteDebt %s: %w", id, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
