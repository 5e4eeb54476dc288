package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/smartkollect/kollect/internal/allocation"
)

// ReplaceAllocations deletes any existing allocation rows for the given
// accounts and inserts one active row per account pointing at agentID. Both
// steps run in a single transaction, so a failed insert rolls the delete
// back and no account is ever left without an allocation mid-operation.
func (s *Store) ReplaceAllocations(ctx context.Context, agentID uuid.UUID, accountIDs []uuid.UUID) ([]allocation.Allocation, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("postgres store not initialised")
	}
	if len(accountIDs) == 0 {
		return nil, errors.New("no account ids to allocate")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin allocation transaction: %w", err)
	}
	defer tx.Rollback()

	delQuery, delArgs, err := psql.Delete("allocations").
		Where(sq.Eq{"account_id": accountIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build allocation delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, delQuery, delArgs...); err != nil {
		return nil, fmt.Errorf("delete prior allocations: %w", err)
	}

	now := time.Now().UTC()
	insert := psql.Insert("allocations").
		Columns("account_id", "agent_id", "status", "allocated_at").
		Suffix("RETURNING id, account_id, agent_id, status, allocated_at")
	for _, accountID := range accountIDs {
		insert = insert.Values(accountID, agentID, allocation.StatusActive, now)
	}
	insQuery, insArgs, err := insert.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build allocation insert: %w", err)
	}

	rows, err := tx.QueryxContext(ctx, insQuery, insArgs...)
	if err != nil {
		return nil, fmt.Errorf("insert allocations: %w", err)
	}
	inserted := make([]allocation.Allocation, 0, len(accountIDs))
	for rows.Next() {
		var row allocation.Allocation
		if err := rows.StructScan(&row); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan inserted allocation: %w", err)
		}
		inserted = append(inserted, row)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("read inserted allocations: %w", err)
	}
	rows.Close()

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit allocation transaction: %w", err)
	}
	return inserted, nil
}

// AgentAllocations lists an agent's current allocations joined with their
// accounts, newest first.
func (s *Store) AgentAllocations(ctx context.Context, agentID uuid.UUID) ([]AllocationDetail, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("postgres store not initialised")
	}
	details := []AllocationDetail{}
	if err := s.db.SelectContext(ctx, &details,
		`SELECT al.id, al.account_id, ac.account_number, ac.customer_name, ac.balance,
                        al.agent_id, al.status, al.allocated_at
                 FROM allocations al
                 INNER JOIN accounts ac ON ac.id = al.account_id
                 WHERE al.agent_id = $1
                 ORDER BY al.allocated_at DESC`, agentID); err != nil {
		return nil, fmt.Errorf("select agent allocations: %w", err)
	}
	return details, nil
}

// AllocationForAccount returns the account's current allocation, or nil when
// it is unallocated.
func (s *Store) AllocationForAccount(ctx context.Context, accountID uuid.UUID) (*allocation.Allocation, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("postgres store not initialised")
	}
	rows := []allocation.Allocation{}
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT id, account_id, agent_id, status, allocated_at
                 FROM allocations WHERE account_id = $1
                 ORDER BY allocated_at DESC LIMIT 1`, accountID); err != nil {
		return nil, fmt.Errorf("select account allocation: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
