package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bmonteiro/fincycle/internal/api/middleware"
	"github.com/bmonteiro/fincycle/internal/jobs"
	"github.com/bmonteiro/fincycle/internal/reportstore"
)

// ReportsHandler enqueues report generation and serves the archive.
type ReportsHandler struct {
	publisher jobs.Publisher
	archive   *reportstore.Archive
	log       zerolog.Logger
}

// NewReportsHandler creates a new reports handler. archive may be nil when
// no bucket is configured; archive reads then return 503.
func NewReportsHandler(publisher jobs.Publisher, archive *reportstore.Archive, log zerolog.Logger) *ReportsHandler {
	return &ReportsHandler{
		publisher: publisher,
		archive:   archive,
		log:       log,
	}
}

// Generate handles POST /api/reports
func (h *ReportsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	kind := jobs.ReportKind(req.Kind)
	if kind != jobs.ReportKindAnnual && kind != jobs.ReportKindDebtPlan {
		middleware.WriteError(w, http.StatusBadRequest, "kind must be annual_report or debt_plan")
		return
	}

	job := &jobs.GenerateReportJob{Kind: kind}
	if err := h.publisher.PublishGenerateReport(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue report job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue report job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("kind", string(kind)).Msg("Report job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"kind":   string(kind),
		"status": string(job.Status),
	})
}

// List handles GET /api/reports?year=
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Report archive is not configured")
		return
	}

	year := time.Now().UTC().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid year")
			return
		}
		year = v
	}

	entries, err := h.archive.List(r.Context(), year)
	if err != nil {
		h.log.Error().Err(err).Int("year", year).Msg("Failed to list reports")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}
	if entries == nil {
		entries = []reportstore.Entry{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"year":    year,
		"reports": entries,
		"count":   len(entries),
	})
}

// Get handles GET /api/reports/{year}/{id}
func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request, year int, id string) {
	if h.archive == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Report archive is not configured")
		return
	}

	entry, payload, err := h.archive.Load(r.Context(), year, id)
	if err != nil {
		h.log.Error().Err(err).Str("report_id", id).Msg("Failed to load report")
		middleware.WriteError(w, http.StatusNotFound, "Report not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"id":         entry.ID,
		"kind":       entry.Kind,
		"created_at": entry.CreatedAt,
		"payload":    payload,
	})
}
