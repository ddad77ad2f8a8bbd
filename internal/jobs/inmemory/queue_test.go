package inmemory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bmonteiro/fincycle/internal/jobs"
)

func waitForStatus(t *testing.T, store *Store, jobID string, want jobs.JobStatus) *jobs.GenerateReportJob {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetJob(context.Background(), jobID)
		if err == nil && job.Status == want {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	job, _ := store.GetJob(context.Background(), jobID)
	t.Fatalf("job %s never reached %s, last state: %+v", jobID, want, job)
	return nil
}

func TestQueue_ProcessesJob(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, 1, store)
	defer q.Close()

	done := make(chan string, 1)
	handler := func(ctx context.Context, job *jobs.GenerateReportJob) error {
		job.ReportID = "report-123"
		done <- job.JobID
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := q.Start(ctx, handler); err != nil {
		t.Fatalf("start: %v", err)
	}

	job := &jobs.GenerateReportJob{Kind: jobs.ReportKindAnnual}
	if err := q.PublishGenerateReport(ctx, job); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if job.JobID == "" {
		t.Fatal("expected a job id to be assigned")
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was never called")
	}

	final := waitForStatus(t, store, job.JobID, jobs.JobStatusCompleted)
	if final.ReportID != "report-123" {
		t.Errorf("report id = %q, want report-123", final.ReportID)
	}
	if final.CompletedAt == nil {
		t.Error("expected CompletedAt to be set")
	}
}

func TestQueue_RetriesThenFails(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, 1, store)
	defer q.Close()

	handler := func(ctx context.Context, job *jobs.GenerateReportJob) error {
		return errors.New("model unavailable")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := q.Start(ctx, handler); err != nil {
		t.Fatalf("start: %v", err)
	}

	job := &jobs.GenerateReportJob{Kind: jobs.ReportKindDebtPlan, MaxRetries: 1}
	if err := q.PublishGenerateReport(ctx, job); err != nil {
		t.Fatalf("publish: %v", err)
	}

	final := waitForStatus(t, store, job.JobID, jobs.JobStatusFailed)
	if final.RetryCount != 1 {
		t.Errorf("retry count = %d, want 1", final.RetryCount)
	}
	if final.Error == "" {
		t.Error("expected error detail to be recorded")
	}
}

func TestQueue_PublishAfterCloseFails(t *testing.T) {
	q := NewQueue(1, 1, nil)
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	err := q.PublishGenerateReport(context.Background(), &jobs.GenerateReportJob{Kind: jobs.ReportKindAnnual})
	if err == nil {
		t.Fatal("expected publish on a closed queue to fail")
	}
}

func TestStore_ListFiltersAndOrders(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	base := time.Now()
	for i, kind := range []jobs.ReportKind{jobs.ReportKindAnnual, jobs.ReportKindDebtPlan, jobs.ReportKindAnnual} {
		job := &jobs.GenerateReportJob{
			JobID:     string(rune('a' + i)),
			Kind:      kind,
			Status:    jobs.JobStatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := store.SaveJob(ctx, job); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	annual, err := store.ListJobs(ctx, jobs.JobFilter{Kind: jobs.ReportKindAnnual})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(annual) != 2 {
		t.Fatalf("annual jobs = %d, want 2", len(annual))
	}
	if !annual[0].CreatedAt.After(annual[1].CreatedAt) {
		t.Error("expected newest-first ordering")
	}

	limited, err := store.ListJobs(ctx, jobs.JobFilter{Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited jobs = %d, want 1", len(limited))
	}
}
