package allocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	agents   map[uuid.UUID]*Agent
	accounts []AccountRef

	agentErr    error
	accountsErr error
	replaceErr  error

	replaceCalls int
	// current allocation per account, replaced on every write
	state map[uuid.UUID]Allocation
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		agents: make(map[uuid.UUID]*Agent),
		state:  make(map[uuid.UUID]Allocation),
	}
}

func (f *fakeStore) AgentByID(ctx context.Context, id uuid.UUID) (*Agent, error) {
	if f.agentErr != nil {
		return nil, f.agentErr
	}
	return f.agents[id], nil
}

func (f *fakeStore) AccountNumbers(ctx context.Context) ([]AccountRef, error) {
	if f.accountsErr != nil {
		return nil, f.accountsErr
	}
	return f.accounts, nil
}

func (f *fakeStore) ReplaceAllocations(ctx context.Context, agentID uuid.UUID, accountIDs []uuid.UUID) ([]Allocation, error) {
	f.replaceCalls++
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	inserted := make([]Allocation, 0, len(accountIDs))
	for _, accountID := range accountIDs {
		row := Allocation{
			ID:          uuid.New(),
			AccountID:   accountID,
			AgentID:     agentID,
			Status:      StatusActive,
			AllocatedAt: time.Now().UTC(),
		}
		f.state[accountID] = row
		inserted = append(inserted, row)
	}
	return inserted, nil
}

func seedAgent(store *fakeStore) uuid.UUID {
	id := uuid.New()
	store.agents[id] = &Agent{ID: id, FullName: "Thandi Nkosi", Email: "thandi@example.com", Role: "agent"}
	return id
}

func TestBulkAllocateHappyPath(t *testing.T) {
	store := newFakeStore()
	agentID := seedAgent(store)
	store.accounts = storedSet("ACC-001", "ACC-002", "ACC-003")

	result, err := NewService(store).BulkAllocate(context.Background(), agentID,
		[]string{"ACC-001", "acc-002", "MISSING-9"})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Allocated)
	assert.Equal(t, 1, result.NotFound)
	assert.Equal(t, []string{"MISSING-9"}, result.NotFoundNumbers)
	assert.Len(t, store.state, 2)
}

func TestBulkAllocateAgentNotFound(t *testing.T) {
	store := newFakeStore()
	store.accounts = storedSet("ACC-001")

	_, err := NewService(store).BulkAllocate(context.Background(), uuid.New(), []string{"ACC-001"})
	require.ErrorIs(t, err, ErrAgentNotFound)
	assert.Zero(t, store.replaceCalls, "no writes when the agent is unknown")
}

func TestBulkAllocateNoAccountsMatched(t *testing.T) {
	store := newFakeStore()
	agentID := seedAgent(store)
	store.accounts = storedSet("ACC-001")

	_, err := NewService(store).BulkAllocate(context.Background(), agentID, []string{"ZZZ-999"})
	require.ErrorIs(t, err, ErrNoAccountsMatched)
	assert.Zero(t, store.replaceCalls)
}

func TestBulkAllocateDataUnavailable(t *testing.T) {
	store := newFakeStore()
	agentID := seedAgent(store)
	store.accountsErr = errors.New("connection refused")

	_, err := NewService(store).BulkAllocate(context.Background(), agentID, []string{"ACC-001"})
	require.ErrorIs(t, err, ErrDataUnavailable)
}

func TestBulkAllocateEmptyAccountSetIsDataUnavailable(t *testing.T) {
	store := newFakeStore()
	agentID := seedAgent(store)

	_, err := NewService(store).BulkAllocate(context.Background(), agentID, []string{"ACC-001"})
	require.ErrorIs(t, err, ErrDataUnavailable)
	assert.Zero(t, store.replaceCalls)
}

func TestBulkAllocateWriteFailurePropagates(t *testing.T) {
	store := newFakeStore()
	agentID := seedAgent(store)
	store.accounts = storedSet("ACC-001")
	store.replaceErr = errors.New("insert failed")

	_, err := NewService(store).BulkAllocate(context.Background(), agentID, []string{"ACC-001"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert failed")
}

func TestBulkAllocateIsIdempotent(t *testing.T) {
	store := newFakeStore()
	agentID := seedAgent(store)
	store.accounts = storedSet("ACC-001", "ACC-002")
	svc := NewService(store)
	numbers := []string{"ACC-001", "ACC-002"}

	first, err := svc.BulkAllocate(context.Background(), agentID, numbers)
	require.NoError(t, err)
	second, err := svc.BulkAllocate(context.Background(), agentID, numbers)
	require.NoError(t, err)

	assert.Equal(t, first.Allocated, second.Allocated)
	require.Len(t, store.state, 2)
	for _, row := range store.state {
		assert.Equal(t, agentID, row.AgentID)
		assert.Equal(t, StatusActive, row.Status)
	}
}

func TestBulkAllocateDuplicateInputsAllocateOnce(t *testing.T) {
	store := newFakeStore()
	agentID := seedAgent(store)
	store.accounts = storedSet("123")

	result, err := NewService(store).BulkAllocate(context.Background(), agentID,
		[]string{"00123", "123"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Allocated)
	assert.Equal(t, 0, result.NotFound)
}

func TestAllocateSingle(t *testing.T) {
	store := newFakeStore()
	agentID := seedAgent(store)
	store.accounts = storedSet("ACC-001")

	result, err := NewService(store).Allocate(context.Background(), agentID, "acc-001")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Allocated)
	assert.Equal(t, 1, result.Total)
}
