package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bmonteiro/fincycle/internal/jobs"
)

// Store is an in-memory implementation of JobStore, safe for concurrent
// use. Data is lost on restart; the archived reports themselves live in GCS.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*jobs.GenerateReportJob
}

// NewStore creates a new in-memory job store.
func NewStore() *Store {
	return &Store{
		jobs: make(map[string]*jobs.GenerateReportJob),
	}
}

// SaveJob saves or updates a job in memory.
func (s *Store) SaveJob(ctx context.Context, job *jobs.GenerateReportJob) error {
	if job.JobID == "" {
		return fmt.Errorf("job ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy to shield the stored record from later caller mutation.
	jobCopy := *job
	s.jobs[job.JobID] = &jobCopy
	return nil
}

// GetJob retrieves a job by ID.
func (s *Store) GetJob(ctx context.Context, jobID string) (*jobs.GenerateReportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	jobCopy := *job
	return &jobCopy, nil
}

// ListJobs retrieves jobs with optional filtering, newest first.
func (s *Store) ListJobs(ctx context.Context, filter jobs.JobFilter) ([]*jobs.GenerateReportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*jobs.GenerateReportJob
	for _, job := range s.jobs {
		if filter.Kind != "" && job.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		jobCopy := *job
		result = append(result, &jobCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*jobs.GenerateReportJob{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

var _ jobs.JobStore = (*Store)(nil)
