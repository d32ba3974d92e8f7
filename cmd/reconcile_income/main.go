package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/griyakita/ipl_ledger_app/internal/core/services"
	"github.com/griyakita/ipl_ledger_app/internal/middleware"
	"github.com/griyakita/ipl_ledger_app/internal/platform/config"
	"github.com/griyakita/ipl_ledger_app/internal/repositories/database/pgsql"
	"github.com/griyakita/ipl_ledger_app/pkg/database"
)

// Offline sweep that backfills income rows for approved payments which are
// missing them (older data predating derived income, or manual repairs).
// Run with -dry-run first to see what it would write.
func main() {
	dryRun := flag.Bool("dry-run", false, "scan and validate only, write nothing")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ReconcileTimeout)
	defer cancel()
	ctx = middleware.ContextWithLogger(ctx, logger)

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	repos := pgsql.NewRepositoryProvider(dbPool)
	runner := services.NewReconcileRunner(cfg, repos)

	report, err := runner.BackfillMissingIncomes(ctx, *dryRun)
	if err != nil {
		logger.Error("Reconciliation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Reconciliation finished",
		slog.Int("candidates", report.Candidates),
		slog.Int("excluded", report.Excluded),
		slog.Int("planned", report.Planned),
		slog.Int("inserted", report.Inserted),
		slog.Bool("dry_run", report.DryRun),
	)
	fmt.Printf("candidates=%d excluded=%d planned=%d inserted=%d dry_run=%v\n",
		report.Candidates, report.Excluded, report.Planned, report.Inserted, report.DryRun)
}
