package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/smartkollect/kollect/internal/payment"
)

// CreateBatch opens a new payment import batch in the running state.
func (s *Store) CreateBatch(ctx context.Context, fileName string, total int) (*payment.Batch, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("postgres store not initialised")
	}
	query, args, err := psql.Insert("payment_batches").
		Columns("file_name", "status", "total_records").
		Values(fileName, payment.BatchStatusRunning, total).
		Suffix(`RETURNING id, file_name, status, total_records, imported_records,
                        unmatched_records, created_at, completed_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build batch insert: %w", err)
	}
	var batch payment.Batch
	if err := s.db.GetContext(ctx, &batch, query, args...); err != nil {
		return nil, fmt.Errorf("insert payment batch: %w", err)
	}
	return &batch, nil
}

// InsertPayments persists one chunk of payment rows in a single transaction
// and reports how many rows were written.
func (s *Store) InsertPayments(ctx context.Context, batchID uuid.UUID, rows []payment.Row) (int, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("postgres store not initialised")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	insert := psql.Insert("payments").
		Columns("batch_id", "account_id", "account_number", "amount", "paid_at", "reference")
	for _, row := range rows {
		insert = insert.Values(batchID, row.AccountID, row.AccountNumber, row.Amount, row.PaidAt, row.Reference)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build payments insert: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin payments transaction: %w", err)
	}
	defer tx.Rollback()
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert payments: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count inserted payments: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit payments transaction: %w", err)
	}
	return int(affected), nil
}

// UpdateBatchProgress records how far an import has progressed.
func (s *Store) UpdateBatchProgress(ctx context.Context, batchID uuid.UUID, imported, unmatched int) error {
	if s == nil || s.db == nil {
		return errors.New("postgres store not initialised")
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE payment_batches SET imported_records = $1, unmatched_records = $2 WHERE id = $3`,
		imported, unmatched, batchID); err != nil {
		return fmt.Errorf("update batch progress: %w", err)
	}
	return nil
}

// FinalizeBatch records the terminal state of an import.
func (s *Store) FinalizeBatch(ctx context.Context, batchID uuid.UUID, status string, imported, unmatched int) error {
	if s == nil || s.db == nil {
		return errors.New("postgres store not initialised")
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE payment_batches
                 SET status = $1, imported_records = $2, unmatched_records = $3, completed_at = $4
                 WHERE id = $5`,
		status, imported, unmatched, time.Now().UTC(), batchID); err != nil {
		return fmt.Errorf("finalize batch: %w", err)
	}
	return nil
}

// PaymentBatch returns one batch, or nil when the id is unknown.
func (s *Store) PaymentBatch(ctx context.Context, id uuid.UUID) (*payment.Batch, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("postgres store not initialised")
	}
	var batch payment.Batch
	err := s.db.GetContext(ctx, &batch,
		`SELECT id, file_name, status, total_records, imported_records,
                        unmatched_records, created_at, completed_at
                 FROM payment_batches WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select payment batch: %w", err)
	}
	return &batch, nil
}

// PaymentsForAccount returns an account's payment history, newest first.
func (s *Store) PaymentsForAccount(ctx context.Context, accountID uuid.UUID) ([]PaymentDetail, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("postgres store not initialised")
	}
	query, args, err := psql.Select("id", "account_id", "account_number", "amount", "paid_at", "reference").
		From("payments").
		Where(sq.Eq{"account_id": accountID}).
		OrderBy("paid_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build payments select: %w", err)
	}
	details := []PaymentDetail{}
	if err := s.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, fmt.Errorf("select account payments: %w", err)
	}
	return details, nil
}
