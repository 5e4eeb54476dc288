package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/smartkollect/kollect/internal/allocation"
)

// AgentByID returns the agent profile, or nil when the id is unknown.
func (s *Store) AgentByID(ctx context.Context, id uuid.UUID) (*allocation.Agent, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("postgres store not initialised")
	}
	var agent allocation.Agent
	err := s.db.GetContext(ctx, &agent,
		`SELECT id, full_name, email, role, created_at FROM agents WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select agent: %w", err)
	}
	return &agent, nil
}

// ListAgents returns every agent profile ordered by name.
func (s *Store) ListAgents(ctx context.Context) ([]allocation.Agent, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("postgres store not initialised")
	}
	agents := []allocation.Agent{}
	if err := s.db.SelectContext(ctx, &agents,
		`SELECT id, full_name, email, role, created_at FROM agents ORDER BY full_name`); err != nil {
		return nil, fmt.Errorf("select agents: %w", err)
	}
	return agents, nil
}
