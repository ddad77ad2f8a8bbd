// Package jobs defines the asynchronous report-generation pipeline: the API
// enqueues a job, a background worker calls the model and archives the
// result, and clients poll the job id for completion.
package jobs

import (
	"context"
	"time"
)

// ReportKind selects which projection a job produces.
type ReportKind string

const (
	// ReportKindAnnual asks for the 12-month annual report.
	ReportKindAnnual ReportKind = "annual_report"
	// ReportKindDebtPlan asks for the zero-debt strategy plan.
	ReportKindDebtPlan ReportKind = "debt_plan"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed.
	JobStatusFailed JobStatus = "failed"
	// JobStatusRetrying indicates the job failed and is being retried.
	JobStatusRetrying JobStatus = "retrying"
)

// GenerateReportJob asks the worker to produce one projection from the
// current ledger snapshot and archive it.
type GenerateReportJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// Kind selects annual report or debt plan.
	Kind ReportKind `json:"kind"`

	// ReportID is the archive entry id once the report is stored.
	ReportID string `json:"report_id,omitempty"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// RetryCount is the number of times this job has been retried.
	RetryCount int `json:"retry_count"`

	// MaxRetries is the maximum number of retries allowed.
	MaxRetries int `json:"max_retries"`
}

// Publisher defines the interface for publishing jobs to a queue.
// The abstraction allows swapping the in-memory queue for Cloud Tasks or
// Pub/Sub without touching the handlers.
type Publisher interface {
	// PublishGenerateReport enqueues a report-generation job.
	PublishGenerateReport(ctx context.Context, job *GenerateReportJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs from the queue.
	// The handler function is called for each job received.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming jobs and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler is a function that processes a job.
// It should return an error if the job failed and should be retried.
type JobHandler func(ctx context.Context, job *GenerateReportJob) error

// JobStore defines the interface for storing and retrieving job status.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *GenerateReportJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*GenerateReportJob, error)

	// ListJobs retrieves jobs with optional filtering.
	ListJobs(ctx context.Context, filter JobFilter) ([]*GenerateReportJob, error)
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// Kind filters jobs by report kind.
	Kind ReportKind

	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
