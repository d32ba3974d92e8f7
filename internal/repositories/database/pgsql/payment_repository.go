package pgsql

import (
	"context"
	"database/sql"
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

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment and month cell data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryWithTx {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPaymentRepository implements portsrepo.PaymentRepositoryWithTx
var _ portsrepo.PaymentRepositoryWithTx = (*PgxPaymentRepository)(nil)

// SavePaymentWithMonths persists a payment and its claimed month cells within a DB transaction.
// The partial unique index on payment_months(house_id, year, month) WHERE NOT released
// is the arbiter for claim collisions: a unique violation rolls everything back and
// surfaces as apperrors.ErrConflict.
func (r *PgxPaymentRepository) SavePaymentWithMonths(ctx context.Context, payment domain.Payment, periods []domain.MonthPeriod) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	modelPayment := mapping.ToModelPayment(payment)
	paymentQuery := `
		INSERT INTO payments (
			payment_id, resident_id, house_id, amount_months, total_amount, status,
			proof_ref, rejection_note, approved_by, approved_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, paymentQuery,
		modelPayment.PaymentID,
		modelPayment.ResidentID,
		modelPayment.HouseID,
		modelPayment.AmountMonths,
		modelPayment.TotalAmount,
		modelPayment.Status,
		modelPayment.ProofRef,
		modelPayment.RejectionNote,
		modelPayment.ApprovedBy,
		modelPayment.ApprovedAt,
		modelPayment.CreatedAt,
		modelPayment.CreatedBy,
		modelPayment.LastUpdatedAt,
		modelPayment.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert payment "+modelPayment.PaymentID, err)
	}

	batch := &pgx.Batch{}
	monthQuery := `
		INSERT INTO payment_months (payment_month_id, payment_id, house_id, year, month, released)
		VALUES ($1, $2, $3, $4, $5, FALSE);
	`
	for i, p := range periods {
		batch.Queue(monthQuery,
			payment.Months[i].PaymentMonthID,
			payment.PaymentID,
			payment.HouseID,
			p.Year,
			p.Month,
		)
	}

	br := tx.SendBatch(ctx, batch)
	err = br.Close() // Important: Close the batch results to check for errors in each command
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewConflictError("month already claimed for house " + payment.HouseID)
		}
		return apperrors.NewAppError(500, "failed to execute month batch for payment "+modelPayment.PaymentID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction for payment "+modelPayment.PaymentID, err)
	}

	return nil
}

// ApprovePayment flips a PENDING payment to APPROVED and inserts the derived
// income row (when non-nil) inside the same transaction. The guarded UPDATE is
// the arbiter for concurrent approvals: whoever loses the race sees zero rows
// affected and gets ErrIllegalState.
func (r *PgxPaymentRepository) ApprovePayment(ctx context.Context, payment domain.Payment, income *domain.Income) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	updateQuery := `
		UPDATE payments
		SET status = $2, approved_by = $3, approved_at = $4, last_updated_at = $5, last_updated_by = $6
		WHERE payment_id = $1 AND status = 'PENDING';
	`
	tag, err := tx.Exec(ctx, updateQuery,
		payment.PaymentID,
		string(domain.PaymentApproved),
		payment.ApprovedBy,
		payment.ApprovedAt,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to approve payment "+payment.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMissedUpdate(ctx, tx, payment.PaymentID)
	}

	if income != nil {
		modelIncome := mapping.ToModelIncome(*income)
		// ON CONFLICT keeps the approval idempotent if an income row for this
		// payment already landed (for instance via the backfill sweep).
		incomeQuery := `
			INSERT INTO incomes (
				income_id, record_date, category, amount, description, payment_id,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (payment_id) WHERE payment_id IS NOT NULL DO NOTHING;
		`
		_, err = tx.Exec(ctx, incomeQuery,
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
			return apperrors.NewAppError(500, "failed to insert income for payment "+payment.PaymentID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit approval for payment "+payment.PaymentID, err)
	}

	return nil
}

// RejectPayment flips a PENDING payment to REJECTED, stores the note, and
// releases its month cells so the house can be billed for them again.
func (r *PgxPaymentRepository) RejectPayment(ctx context.Context, payment domain.Payment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	updateQuery := `
		UPDATE payments
		SET status = $2, rejection_note = $3, last_updated_at = $4, last_updated_by = $5
		WHERE payment_id = $1 AND status = 'PENDING';
	`
	tag, err := tx.Exec(ctx, updateQuery,
		payment.PaymentID,
		string(domain.PaymentRejected),
		payment.RejectionNote,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to reject payment "+payment.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMissedUpdate(ctx, tx, payment.PaymentID)
	}

	// Releasing the cells removes them from the partial unique index, which is
	// what lets a corrected resubmission claim the same months.
	releaseQuery := `UPDATE payment_months SET released = TRUE WHERE payment_id = $1;`
	if _, err := tx.Exec(ctx, releaseQuery, payment.PaymentID); err != nil {
		return apperrors.NewAppError(500, "failed to release months for payment "+payment.PaymentID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit rejection for payment "+payment.PaymentID, err)
	}

	return nil
}

// classifyMissedUpdate distinguishes a missing payment from one that already
// left the PENDING state, after a guarded UPDATE touched zero rows.
func (r *PgxPaymentRepository) classifyMissedUpdate(ctx context.Context, tx pgx.Tx, paymentID string) error {
	var status string
	err := tx.QueryRow(ctx, `SELECT status FROM payments WHERE payment_id = $1;`, paymentID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to check status of payment "+paymentID, err)
	}
	return apperrors.NewAppError(409, "payment "+paymentID+" is already "+status, apperrors.ErrIllegalState)
}

// DeletePayment removes a payment; its month cells cascade via FK. Any income
// already derived from the payment keeps its row (payment_id FK is SET NULL).
func (r *PgxPaymentRepository) DeletePayment(ctx context.Context, paymentID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM payments WHERE payment_id = $1;`, paymentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete payment "+paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindPaymentByID retrieves a payment by its ID.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `
		SELECT payment_id, resident_id, house_id, amount_months, total_amount, status,
		       proof_ref, rejection_note, approved_by, approved_at,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM payments
		WHERE payment_id = $1;
	`
	modelPayment, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment by ID "+paymentID, err)
	}

	domainPayment := mapping.ToDomainPayment(modelPayment)
	return &domainPayment, nil
}

// FindMonthsByPaymentID retrieves the month cells claimed by a payment.
func (r *PgxPaymentRepository) FindMonthsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentMonth, error) {
	query := `
		SELECT payment_month_id, payment_id, house_id, year, month, released
		FROM payment_months
		WHERE payment_id = $1
		ORDER BY year, month;
	`
	rows, err := r.Pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query months for payment "+paymentID, err)
	}
	defer rows.Close()

	months := []models.PaymentMonth{}
	for rows.Next() {
		var m models.PaymentMonth
		if err := rows.Scan(&m.PaymentMonthID, &m.PaymentID, &m.HouseID, &m.Year, &m.Month, &m.Released); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan month row for payment "+paymentID, err)
		}
		months = append(months, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating month rows for payment "+paymentID, err)
	}

	return mapping.ToDomainPaymentMonthSlice(months), nil
}

// FindOccupiedMonths returns every month cell still claimed for a house.
// Released cells (from rejections) are excluded, matching the partial index.
func (r *PgxPaymentRepository) FindOccupiedMonths(ctx context.Context, houseID string) ([]domain.MonthPeriod, error) {
	query := `
		SELECT year, month
		FROM payment_months
		WHERE house_id = $1 AND NOT released
		ORDER BY year, month;
	`
	rows, err := r.Pool.Query(ctx, query, houseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query occupied months for house "+houseID, err)
	}
	defer rows.Close()

	periods := []domain.MonthPeriod{}
	for rows.Next() {
		var p domain.MonthPeriod
		if err := rows.Scan(&p.Year, &p.Month); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan occupied month row for house "+houseID, err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating occupied month rows for house "+houseID, err)
	}

	return periods, nil
}

// ListPayments retrieves a paginated list of payments using token-based pagination,
// optionally filtered by status, house, or resident.
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, filter domain.PaymentFilter, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT payment_id, resident_id, house_id, amount_months, total_amount, status,
		       proof_ref, rejection_note, approved_by, approved_at,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM payments
	`
	filterClause := `WHERE 1=1`
	args := []interface{}{}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.HouseID != nil {
		args = append(args, *filter.HouseID)
		filterClause += ` AND house_id = $` + strconv.Itoa(len(args))
	}
	if filter.ResidentID != nil {
		args = append(args, *filter.ResidentID)
		filterClause += ` AND resident_id = $` + strconv.Itoa(len(args))
	}

	// Ordering is crucial and must be stable
	orderByClause := `ORDER BY created_at DESC, payment_id DESC`

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastPaymentID, decodeErr := pagination.DecodeIDToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt)
		createdAtIdx := strconv.Itoa(len(args))
		args = append(args, lastPaymentID)
		// Tuple comparison matches the ORDER BY so rows sharing a created_at
		// boundary are not skipped across pages.
		filterClause += ` AND (created_at, payment_id) < ($` + createdAtIdx + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query payments", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan payment row", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating payment rows", err)
	}

	var nextTokenVal *string
	if len(payments) > limit {
		last := payments[limit-1]
		token := pagination.EncodeIDToken(last.CreatedAt, last.PaymentID)
		nextTokenVal = &token
		payments = payments[:limit]
	}

	results := make([]domain.Payment, len(payments))
	for i, p := range payments {
		results[i] = mapping.ToDomainPayment(p)
	}
	return results, nextTokenVal, nil
}

// scanPayment reads one payments row, handling the nullable columns.
func scanPayment(row pgx.Row) (models.Payment, error) {
	var p models.Payment
	var rejectionNote sql.NullString
	var approvedBy sql.NullString
	var approvedAt sql.NullTime

	err := row.Scan(
		&p.PaymentID,
		&p.ResidentID,
		&p.HouseID,
		&p.AmountMonths,
		&p.TotalAmount,
		&p.Status,
		&p.ProofRef,
		&rejectionNote,
		&approvedBy,
		&approvedAt,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return models.Payment{}, err
	}

	if rejectionNote.Valid {
		p.RejectionNote = &rejectionNote.String
	}
	if approvedBy.Valid {
		p.ApprovedBy = &approvedBy.String
	}
	if approvedAt.Valid {
		p.ApprovedAt = &approvedAt.Time
	}
	return p, nil
}
