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

// ListTransactions returns every transaction ordered by date ascending.
func (r *Repository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	q := r.client.Query(`
		SELECT
			transaction_id,
			date,
			description,
			amount,
			type,
			category,
			status,
			linked_debt_id,
			created_ts
		FROM ` + r.table(transactionsTable) + `
		ORDER BY date, created_ts
	`)

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: query read: %w", err)
	}

	var out []domain.Transaction
	for {
		var row TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListTransactions: iterating rows: %w", err)
		}
		out = append(out, row.toDomain())
	}
	return out, nil
}

// InsertTransactions writes a batch through the streaming inserter. The
// store assigns the ids; callers receive them in input order.
func (r *Repository) InsertTransactions(ctx context.Context, items []domain.Transaction) ([]string, error) {
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(items))
	rows := make([]*TransactionRow, 0, len(items))
	for _, t := range items {
		t.ID = uuid.New().String()
		ids = append(ids, t.ID)
		rows = append(rows, transactionRow(t))
	}

	table := r.client.DatasetInProject(r.projectID, r.datasetID).Table(transactionsTable)
	if err := table.Inserter().Put(ctx, rows); err != nil {
		return nil, fmt.Errorf("InsertTransactions: inserting rows: %w", err)
	}
	return ids, nil
}

// UpdateTransaction overwrites all user-editable fields of one record.
func (r *Repository) UpdateTransaction(ctx context.Context, t domain.Transaction) error {
	row := transactionRow(t)

	affected, err := r.runDML(ctx, `
		UPDATE `+r.table(transactionsTable)+`
		SET date = @date,
			description = @description,
			amount = @amount,
			type = @type,
			category = @category,
			status = @status,
			linked_debt_id = @linked_debt_id
		WHERE transaction_id = @transaction_id
	`, []bigquery.QueryParameter{
		{Name: "date", Value: row.Date},
		{Name: "description", Value: row.Description},
		{Name: "amount", Value: row.Amount},
		{Name: "type", Value: row.Type},
		{Name: "category", Value: row.Category},
		{Name: "status", Value: row.Status},
		{Name: "linked_debt_id", Value: row.LinkedDebtID},
		{Name: "transaction_id", Value: row.TransactionID},
	})
	if err != nil {
		return fmt.Errorf("UpdateTransaction %s: %w", t.ID, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteTransaction removes one record.
func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	affected, err := r.runDML(ctx, `
		DELETE FROM `+r.table(transactionsTable)+`
		WHERE transaction_id = @transaction_id
	`, []bigquery.QueryParameter{
		{Name: "transaction_id", Value: id},
	})
	if err != nil {
		return fmt.Errorf("DeleteTransaction %s: %w", id, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
