package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/bmonteiro/fincycle/internal/api/handlers"
	"github.com/bmonteiro/fincycle/internal/api/middleware"
	"github.com/bmonteiro/fincycle/internal/config"
	infraBQ "github.com/bmonteiro/fincycle/internal/infra/bigquery"
	"github.com/bmonteiro/fincycle/internal/jobs"
	"github.com/bmonteiro/fincycle/internal/jobs/inmemory"
	"github.com/bmonteiro/fincycle/internal/ledger"
	"github.com/bmonteiro/fincycle/internal/logger"
	"github.com/bmonteiro/fincycle/internal/planner"
	"github.com/bmonteiro/fincycle/internal/reportstore"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	repo, err := infraBQ.NewRepository(ctx, cfg.ProjectID, cfg.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery repository")
	}
	defer repo.Close()

	svc := ledger.NewService(repo, logger.ForComponent(log, "ledger"))
	if err := svc.Refresh(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to load initial ledger state")
	}

	var archive *reportstore.Archive
	if cfg.ReportsBucket != "" {
		archive, err = reportstore.NewArchive(ctx, cfg.ReportsBucket)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create report archive")
		}
		defer archive.Close()
	} else {
		log.Warn().Msg("No reports bucket configured - report archiving is disabled")
	}

	generator := planner.NewGenerator(cfg.GeminiModel)

	// Job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, 2, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job *jobs.GenerateReportJob) error {
		log.Info().
			Str("job_id", job.JobID).
			Str("kind", string(job.Kind)).
			Msg("Processing report job")

		snap := planner.Snapshot{
			Transactions:   svc.Transactions(),
			Debts:          svc.Debts(),
			CurrentBalance: svc.CurrentBalance(),
		}

		var payload interface{}
		var kind reportstore.Kind
		switch job.Kind {
		case jobs.ReportKindAnnual:
			report, err := generator.GenerateAnnualReport(ctx, snap)
			if err != nil {
				return err
			}
			payload, kind = report, reportstore.KindAnnualReport
		case jobs.ReportKindDebtPlan:
			plan, err := generator.GenerateDebtPlan(ctx, snap)
			if err != nil {
				return err
			}
			payload, kind = plan, reportstore.KindDebtPlan
		default:
			return fmt.Errorf("unknown report kind: %s", job.Kind)
		}

		if archive != nil {
			entry, err := archive.Save(ctx, kind, payload)
			if err != nil {
				return err
			}
			job.ReportID = entry.ID
		}

		log.Info().
			Str("job_id", job.JobID).
			Str("report_id", job.ReportID).
			Msg("Report job completed")
		return nil
	}

	go func() {
		log.Info().Msg("Starting report worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Report worker stopped with error")
		}
	}()

	// Handlers
	transactionsHandler := handlers.NewTransactionsHandler(svc, log)
	debtsHandler := handlers.NewDebtsHandler(svc, log)
	cashflowHandler := handlers.NewCashflowHandler(svc, log)
	reportsHandler := handlers.NewReportsHandler(jobQueue, archive, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			transactionsHandler.List(w, r)
		case http.MethodPost:
			transactionsHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
		if rest == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Transaction ID is required")
			return
		}

		if id, ok := strings.CutSuffix(rest, "/toggle"); ok {
			if r.Method == http.MethodPatch || r.Method == http.MethodPost {
				transactionsHandler.Toggle(w, r, id)
			} else {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
			return
		}

		switch r.Method {
		case http.MethodPut:
			transactionsHandler.Update(w, r, rest)
		case http.MethodDelete:
			transactionsHandler.Delete(w, r, rest)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/debts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			debtsHandler.List(w, r)
		case http.MethodPost:
			debtsHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/debts/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/debts/")
		if id == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Debt ID is required")
			return
		}
		switch r.Method {
		case http.MethodPut:
			debtsHandler.Update(w, r, id)
		case http.MethodDelete:
			debtsHandler.Delete(w, r, id)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/cashflow/month", cashflowHandler.Month)
	mux.HandleFunc("/api/cashflow/cycle", cashflowHandler.Cycle)
	mux.HandleFunc("/api/cashflow/summary", cashflowHandler.Summary)

	mux.HandleFunc("/api/reports", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			reportsHandler.List(w, r)
		case http.MethodPost:
			reportsHandler.Generate(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/reports/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		// Path layout: /api/reports/{year}/{id}
		parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/api/reports/"), "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Expected /api/reports/{year}/{id}")
			return
		}
		year, err := strconv.Atoi(parts[0])
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid year")
			return
		}
		reportsHandler.Get(w, r, year, parts[1])
	})

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.List(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
		if jobID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
			return
		}
		jobsHandler.Get(w, r, jobID)
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}
