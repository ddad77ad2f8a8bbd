package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// Repository implements store.Ledger against BigQuery with one shared
// client. BigQuery offers no compare-and-swap on NUMERIC columns, so two
// writers reconciling the same debt can lose an update; single-writer
// deployments are the supported mode.
type Repository struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

// NewRepository creates a repository with a shared BigQuery client.
func NewRepository(ctx context.Context, projectID, datasetID string) (*Repository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: creating client: %w", err)
	}
	return &Repository{client: client, projectID: projectID, datasetID: datasetID}, nil
}

// Close closes the BigQuery client connection.
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// table returns the fully qualified table identifier for DML statements.
func (r *Repository) table(name string) string {
	return "`" + r.projectID + "." + r.datasetID + "." + name + "`"
}

// runDML executes a parameterized DML statement and returns the number of
// affected rows.
func (r *Repository) runDML(ctx context.Context, stmt string, params []bigquery.QueryParameter) (int64, error) {
	q := r.client.Query(stmt)
	q.Parameters = params

	job, err := q.Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("run query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return 0, fmt.Errorf("wait for job: %w", err)
	}
	if status.Err() != nil {
		return 0, fmt.Errorf("job failed: %w", status.Err())
	}

	if qs, ok := status.Statistics.Details.(*bigquery.QueryStatistics); ok {
		return qs.NumDMLAffectedRows, nil
	}
	return 0, nil
}
