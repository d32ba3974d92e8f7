package services

import "context"

// ReconcileReport summarizes one backfill sweep.
type ReconcileReport struct {
	Candidates int  // approved payments found without a linked income
	Excluded   int  // skipped because a covered month is excluded
	Planned    int  // income rows the sweep intended to write
	Inserted   int  // rows actually written (0 on dry run)
	DryRun     bool // scan and validate only, no writes
}

// ReconcileSvcFacade is the offline backfill sweep for approved payments that
// are missing their derived income rows.
type ReconcileSvcFacade interface {
	// BackfillMissingIncomes validates every candidate first and aborts the
	// whole run on any validation failure. Running it twice in a row writes
	// nothing the second time.
	BackfillMissingIncomes(ctx context.Context, dryRun bool) (*ReconcileReport, error)
}
