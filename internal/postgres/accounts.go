package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/smartkollect/kollect/internal/allocation"
)

// AccountNumbers returns every stored (id, account_number) pair. The matcher
// builds its tier indexes from this set once per request.
func (s *Store) AccountNumbers(ctx context.Context) ([]allocation.AccountRef, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("postgres store not initialised")
	}
	refs := []allocation.AccountRef{}
	if err := s.db.SelectContext(ctx, &refs,
		`SELECT id, account_number FROM accounts`); err != nil {
		return nil, fmt.Errorf("select account numbers: %w", err)
	}
	return refs, nil
}

// AccountByID returns the account row, or nil when the id is unknown.
func (s *Store) AccountByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("postgres store not initialised")
	}
	var account Account
	err := s.db.GetContext(ctx, &account,
		`SELECT id, account_number, customer_name, balance, created_at FROM accounts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select account: %w", err)
	}
	return &account, nil
}
