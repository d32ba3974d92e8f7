package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/griyakita/ipl_ledger_app/internal/apperrors"
	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	portsrepo "github.com/griyakita/ipl_ledger_app/internal/core/ports/repositories"
	"github.com/griyakita/ipl_ledger_app/internal/models"
	"github.com/griyakita/ipl_ledger_app/internal/utils/mapping"
	"github.com/griyakita/ipl_ledger_app/internal/utils/pagination"
)

type PgxIncomeRepository struct {
	BaseRepository
}

// newPgxIncomeRepository creates a new repository for income records.
func newPgxIncomeRepository(pool *pgxpool.Pool) portsrepo.IncomeRepositoryFacade {
	return &PgxIncomeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.IncomeRepositoryFacade = (*PgxIncomeRepository)(nil)

const incomeColumns = `income_id, record_date, category, amount, description, payment_id,
       created_at, created_by, last_updated_at, last_updated_by`

// SaveIncome persists a manual (non payment-derived) income record.
func (r *PgxIncomeRepository) SaveIncome(ctx context.Context, income domain.Income) error {
	modelIncome := mapping.ToModelIncome(income)
	query := `
		INSERT INTO incomes (` + incomeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelIncome.IncomeID,
		modelIncome.Date,
		modelIncome.Category,
		modelIncome.Amount,
		modelIncome.Description,
		modelIncome.PaymentID,
		modelIncome.CreatedAt,
		modelIncome.CreatedBy,
		modelIncome.LastUpdatedAt,
		modelIncome.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewConflictError("income already exists for this payment")
		}
		return apperrors.NewAppError(500, "failed to insert income "+modelIncome.IncomeID, err)
	}
	return nil
}

// FindIncomeByID retrieves a specific income record.
func (r *PgxIncomeRepository) FindIncomeByID(ctx context.Context, incomeID string) (*domain.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE income_id = $1;`
	return r.queryOne(ctx, query, incomeID)
}

// FindIncomeByPaymentID retrieves the income derived from a payment, if any.
func (r *PgxIncomeRepository) FindIncomeByPaymentID(ctx context.Context, paymentID string) (*domain.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE payment_id = $1;`
	return r.queryOne(ctx, query, paymentID)
}

func (r *PgxIncomeRepository) queryOne(ctx context.Context, query string, arg string) (*domain.Income, error) {
	modelIncome, err := scanIncome(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find income", err)
	}
	domainIncome := mapping.ToDomainIncome(modelIncome)
	return &domainIncome, nil
}

// ListIncomes retrieves a paginated list of income records using token-based pagination.
func (r *PgxIncomeRepository) ListIncomes(ctx context.Context, limit int, nextToken *string) ([]domain.Income, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + incomeColumns + ` FROM incomes`
	// Ordering is crucial and must be stable
	orderByClause := `ORDER BY record_date DESC, created_at DESC`

	args := []interface{}{}
	filterClause := ``
	if nextToken != nil && *nextToken != "" {
		lastRecordDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastRecordDate, lastCreatedAt)
		filterClause = `WHERE (record_date, created_at) < ($1, $2)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query incomes", err)
	}
	defer rows.Close()

	incomes := []models.Income{}
	for rows.Next() {
		inc, err := scanIncome(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan income row", err)
		}
		incomes = append(incomes, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating income rows", err)
	}

	var nextTokenVal *string
	if len(incomes) > limit {
		last := incomes[limit-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		nextTokenVal = &token
		incomes = incomes[:limit]
	}

	return mapping.ToDomainIncomeSlice(incomes), nextTokenVal, nil
}

// FindApprovedPaymentsWithoutIncome returns approved payments with no linked
// income row; the candidate set for the backfill sweep.
func (r *PgxIncomeRepository) FindApprovedPaymentsWithoutIncome(ctx context.Context) ([]domain.Payment, error) {
	query := `
		SELECT p.payment_id, p.resident_id, p.house_id, p.amount_months, p.total_amount, p.status,
		       p.proof_ref, p.rejection_note, p.approved_by, p.approved_at,
		       p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
		FROM payments p
		LEFT JOIN incomes i ON i.payment_id = p.payment_id
		WHERE p.status = 'APPROVED' AND i.income_id IS NULL
		ORDER BY p.approved_at;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query approved payments without income", err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment row", err)
		}
		payments = append(payments, mapping.ToDomainPayment(p))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment rows", err)
	}

	return payments, nil
}

// BackfillIncomes inserts the given payment-derived income rows inside a single
// transaction. ON CONFLICT re-checks per row that the payment is still unlinked,
// so rows that lost a race to a concurrent approval are skipped rather than
// failing the whole sweep. Returns the number of rows actually inserted.
func (r *PgxIncomeRepository) BackfillIncomes(ctx context.Context, incomes []domain.Income) (int, error) {
	if len(incomes) == 0 {
		return 0, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO incomes (` + incomeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (payment_id) WHERE payment_id IS NOT NULL DO NOTHING;
	`

	inserted := 0
	for _, income := range incomes {
		modelIncome := mapping.ToModelIncome(income)
		tag, err := tx.Exec(ctx, query,
			modelIncome.IncomeID,
			modelIncome.Date,
			modelIncome.Category,
			modelIncome.Amount,
			modelIncome.Description,
			modelIncome.PaymentID,
			modelIncome.CreatedAt,
			modelIncome.CreatedBy,
			modelIncome.LastUpdatedAt,
			modelIncome.LastUpdatedBy,
		)
		if err != nil {
			return 0, apperrors.NewAppError(500, "failed to backfill income "+modelIncome.IncomeID, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, apperrors.NewAppError(500, "failed to commit income backfill", err)
	}

	return inserted, nil
}

// scanIncome reads one incomes row, handling the nullable payment link.
func scanIncome(row pgx.Row) (models.Income, error) {
	var inc models.Income
	var paymentID *string

	err := row.Scan(
		&inc.IncomeID,
		&inc.Date,
		&inc.Category,
		&inc.Amount,
		&inc.Description,
		&paymentID,
		&inc.CreatedAt,
		&inc.CreatedBy,
		&inc.LastUpdatedAt,
		&inc.LastUpdatedBy,
	)
	if err != nil {
		return models.Income{}, err
	}

	inc.PaymentID = paymentID
	return inc, nil
}
