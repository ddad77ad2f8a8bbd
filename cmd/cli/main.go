package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/bmonteiro/fincycle/internal/config"
	infraBQ "github.com/bmonteiro/fincycle/internal/infra/bigquery"
	"github.com/bmonteiro/fincycle/internal/ledger"
	"github.com/bmonteiro/fincycle/internal/logger"
	"github.com/bmonteiro/fincycle/internal/planner"
	"github.com/bmonteiro/fincycle/internal/reportstore"
	"github.com/bmonteiro/fincycle/internal/seed"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "seed":
		runSeed(log)
	case "summary":
		runSummary(log)
	case "cycle":
		runCycle(log)
	case "report":
		runReport(log)
	case "plan":
		runPlan(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Fincycle CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  seed      Load the starter dataset into an empty ledger")
	fmt.Println("  summary   Print the month breakdown by pay-cycle window")
	fmt.Println("  cycle     Print the active pay cycle and its cash figures")
	fmt.Println("  report    Generate the annual projection report")
	fmt.Println("  plan      Generate the zero-debt strategy plan")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// newService loads config, opens the repository, and hydrates the service.
// The returned cleanup closes the repository.
func newService(ctx context.Context, log zerolog.Logger) (*ledger.Service, *infraBQ.Repository, func()) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	repo, err := infraBQ.NewRepository(ctx, cfg.ProjectID, cfg.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery repository")
	}

	svc := ledger.NewService(repo, logger.ForComponent(log, "ledger"))
	if err := svc.Refresh(ctx); err != nil {
		repo.Close()
		log.Fatal().Err(err).Msg("Failed to load ledger state")
	}
	return svc, repo, func() { repo.Close() }
}

func runSeed(log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	repo, err := infraBQ.NewRepository(ctx, cfg.ProjectID, cfg.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery repository")
	}
	defer repo.Close()

	seeded, err := seed.Run(ctx, repo)
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
	if !seeded {
		fmt.Println("Ledger already has data; nothing to do.")
		return
	}
	fmt.Println("Starter dataset loaded.")
}

func runSummary(log zerolog.Logger) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	year := fs.Int("year", time.Now().UTC().Year(), "Year to summarize")
	month := fs.Int("month", int(time.Now().UTC().Month()), "Month to summarize (1-12)")
	fs.Parse(os.Args[2:])

	if *month < 1 || *month > 12 {
		log.Fatal().Msg("Error: --month must be between 1 and 12")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	svc, _, cleanup := newService(ctx, log)
	defer cleanup()

	breakdown := svc.MonthBreakdown(*year, time.Month(*month))

	fmt.Printf("\n=== %04d-%02d ===\n", *year, *month)
	printWindow("Vale (15-29)", breakdown.Vale)
	printWindow("Pagamento (30-14)", breakdown.Pagamento)
	printWindow("Month total", breakdown.All)
	fmt.Printf("\nRealized balance (all time): %s\n\n", svc.CurrentBalance().StringFixed(2))
}

func printWindow(label string, s ledger.WindowStats) {
	fmt.Printf("\n%s  (%d entries)\n", label, s.Count)
	fmt.Printf("  Income:            %s\n", s.Income.StringFixed(2))
	fmt.Printf("  Committed outflow: %s\n", s.CommittedOutflow.StringFixed(2))
	fmt.Printf("  Pending outflow:   %s\n", s.PendingOutflow.StringFixed(2))
	fmt.Printf("  Available cash:    %s\n", s.AvailableCash.StringFixed(2))
}

func runCycle(log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	svc, _, cleanup := newService(ctx, log)
	defer cleanup()

	cycle, stats := svc.ActiveCycleStats(time.Now())
	fmt.Printf("\nActive cycle: %s (%s through %s)\n",
		cycle.Window,
		cycle.Start.Format("2006-01-02"),
		cycle.End.Format("2006-01-02"))
	printWindow(string(cycle.Window), stats)
	fmt.Println()
}

func runReport(log zerolog.Logger) {
	runGeneration(log, false)
}

func runPlan(log zerolog.Logger) {
	runGeneration(log, true)
}

// runGeneration produces one projection synchronously and prints it,
// archiving a copy when a bucket is configured.
func runGeneration(log zerolog.Logger, debtPlan bool) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	noArchive := fs.Bool("no-archive", false, "Skip archiving the result to GCS")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	svc, _, cleanup := newService(ctx, log)
	defer cleanup()

	snap := planner.Snapshot{
		Transactions:   svc.Transactions(),
		Debts:          svc.Debts(),
		CurrentBalance: svc.CurrentBalance(),
	}
	generator := planner.NewGenerator(cfg.GeminiModel)

	var payload interface{}
	var kind reportstore.Kind
	if debtPlan {
		plan, err := generator.GenerateDebtPlan(ctx, snap)
		if err != nil {
			log.Fatal().Err(err).Msg("Plan generation failed")
		}
		payload, kind = plan, reportstore.KindDebtPlan
	} else {
		report, err := generator.GenerateAnnualReport(ctx, snap)
		if err != nil {
			log.Fatal().Err(err).Msg("Report generation failed")
		}
		payload, kind = report, reportstore.KindAnnualReport
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode result")
	}
	fmt.Println(string(out))

	if *noArchive || cfg.ReportsBucket == "" {
		return
	}

	archive, err := reportstore.NewArchive(ctx, cfg.ReportsBucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create report archive")
	}
	defer archive.Close()

	entry, err := archive.Save(ctx, kind, payload)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to archive result")
	}
	fmt.Printf("\nArchived as %s\n", entry.ID)
}
