package allocation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/smartkollect/kollect/internal/common"
	"github.com/smartkollect/kollect/internal/metrics"
)

// Store is the data-access collaborator the service writes through. The
// Postgres implementation lives in internal/postgres; tests substitute a
// fake.
type Store interface {
	// AgentByID returns the agent profile, or nil when the id is unknown.
	AgentByID(ctx context.Context, id uuid.UUID) (*Agent, error)
	// AccountNumbers returns every stored (id, account_number) pair.
	AccountNumbers(ctx context.Context) ([]AccountRef, error)
	// ReplaceAllocations deletes any existing allocation rows for the given
	// accounts and inserts one active row per account pointing at the agent,
	// both inside a single transaction. It returns the inserted rows.
	ReplaceAllocations(ctx context.Context, agentID uuid.UUID, accountIDs []uuid.UUID) ([]Allocation, error)
}

// Service runs account allocation against an injected store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// BulkAllocate resolves the raw account numbers, replaces the matched
// accounts' allocations with fresh ones pointing at agentID, and reports
// counts. The caller validates that numbers is non-empty.
//
// Re-running the same request converges to the same end state: each matched
// account ends with exactly one active allocation to agentID. Concurrent
// invocations over overlapping accounts are last-write-wins.
func (s *Service) BulkAllocate(ctx context.Context, agentID uuid.UUID, numbers []string) (*Result, error) {
	logger := common.Logger()

	agent, err := s.store.AgentByID(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("look up agent %s: %w", agentID, err)
	}
	if agent == nil {
		return nil, ErrAgentNotFound
	}

	stored, err := s.store.AccountNumbers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	if len(stored) == 0 {
		return nil, fmt.Errorf("%w: no accounts in store", ErrDataUnavailable)
	}

	outcome := MatchAccounts(numbers, stored)
	if len(outcome.Unmatched) > 0 {
		sample := outcome.Unmatched
		if len(sample) > 5 {
			sample = sample[:5]
		}
		logger.Warn("allocation: unmatched account numbers",
			"count", len(outcome.Unmatched), "sample", sample)
	}
	if len(outcome.Matched) == 0 {
		metrics.AccountsUnmatched.Add(float64(len(outcome.Unmatched)))
		return nil, ErrNoAccountsMatched
	}

	accountIDs := make([]uuid.UUID, 0, len(outcome.Matched))
	for _, ref := range outcome.Matched {
		accountIDs = append(accountIDs, ref.ID)
	}
	inserted, err := s.store.ReplaceAllocations(ctx, agentID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("replace allocations: %w", err)
	}

	metrics.AccountsAllocated.Add(float64(len(inserted)))
	metrics.AccountsUnmatched.Add(float64(len(outcome.Unmatched)))
	logger.Info("allocation: bulk allocation complete",
		"agent", agentID, "requested", len(numbers),
		"matched", len(outcome.Matched), "allocated", len(inserted),
		"unmatched", len(outcome.Unmatched))

	return &Result{
		Total:           len(numbers),
		Allocated:       len(inserted),
		NotFound:        len(outcome.Unmatched),
		NotFoundNumbers: outcome.Unmatched,
	}, nil
}

// Allocate is the single-account counterpart of BulkAllocate.
func (s *Service) Allocate(ctx context.Context, agentID uuid.UUID, number string) (*Result, error) {
	return s.BulkAllocate(ctx, agentID, []string{number})
}
