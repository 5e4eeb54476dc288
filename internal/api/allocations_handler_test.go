package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkAllocateValidation(t *testing.T) {
	store := newFakeStore()
	srv := NewServer(store, &stubProvider{}, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/allocations/bulk",
		bulkAllocationRequest{AccountNumbers: nil, AgentID: uuid.NewString()})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Missing or invalid accountNumbers: must be a non-empty array", resp["error"])
	assert.Zero(t, store.replaceCalls, "no database writes on validation failure")

	rec = doJSON(t, srv, http.MethodPost, "/api/allocations/bulk",
		bulkAllocationRequest{AccountNumbers: []string{"ACC-001"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Missing required field: agentId", resp["error"])
}

func TestBulkAllocateAgentNotFound(t *testing.T) {
	store := newFakeStore()
	store.seedAccount("ACC-001")
	srv := NewServer(store, &stubProvider{}, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/allocations/bulk",
		bulkAllocationRequest{AccountNumbers: []string{"ACC-001"}, AgentID: uuid.NewString()})
	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp map[string]string
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Agent not found", resp["error"])
	assert.Zero(t, store.replaceCalls)
}

func TestBulkAllocateNoMatches(t *testing.T) {
	store := newFakeStore()
	store.seedAccount("ACC-001")
	agentID := store.seedAgent("Sipho D")
	srv := NewServer(store, &stubProvider{}, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/allocations/bulk",
		bulkAllocationRequest{AccountNumbers: []string{"ZZZ"}, AgentID: agentID.String()})
	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp map[string]string
	decodeBody(t, rec, &resp)
	assert.Equal(t, "No matching accounts found. Please check the account numbers and try again.", resp["error"])
}

func TestBulkAllocateSuccess(t *testing.T) {
	store := newFakeStore()
	store.seedAccount("ACC-001")
	store.seedAccount("ACC-002")
	agentID := store.seedAgent("Sipho D")
	srv := NewServer(store, &stubProvider{}, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/allocations/bulk",
		bulkAllocationRequest{
			AccountNumbers: []string{"ACC-001", "acc-002", "MISSING"},
			AgentID:        agentID.String(),
		})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp allocationResponse
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.Allocated)
	assert.Equal(t, 1, resp.NotFound)
}

func TestBulkAllocateDuplicatesCollapse(t *testing.T) {
	store := newFakeStore()
	store.seedAccount("123")
	agentID := store.seedAgent("Sipho D")
	srv := NewServer(store, &stubProvider{}, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/allocations/bulk",
		bulkAllocationRequest{AccountNumbers: []string{"00123", "123"}, AgentID: agentID.String()})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp allocationResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, 1, resp.Allocated)
	assert.Equal(t, 0, resp.NotFound)
}

func TestBulkAllocateWriteFailure(t *testing.T) {
	store := newFakeStore()
	store.seedAccount("ACC-001")
	agentID := store.seedAgent("Sipho D")
	store.replaceErr = errors.New("deadlock detected")
	srv := NewServer(store, &stubProvider{}, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/allocations/bulk",
		bulkAllocationRequest{AccountNumbers: []string{"ACC-001"}, AgentID: agentID.String()})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]string
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp["error"], "Failed to allocate accounts:")
	assert.Contains(t, resp["error"], "deadlock detected")
}

func TestBulkAllocateRetryAfterFailureConverges(t *testing.T) {
	store := newFakeStore()
	accountID := store.seedAccount("ACC-001")
	agentID := store.seedAgent("Sipho D")
	store.replaceErr = errors.New("connection reset")
	srv := NewServer(store, &stubProvider{}, nil)

	body := bulkAllocationRequest{AccountNumbers: []string{"ACC-001"}, AgentID: agentID.String()}
	rec := doJSON(t, srv, http.MethodPost, "/api/allocations/bulk", body)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	store.replaceErr = nil
	rec = doJSON(t, srv, http.MethodPost, "/api/allocations/bulk", body)
	require.Equal(t, http.StatusOK, rec.Code)
	row, ok := store.state[accountID]
	require.True(t, ok)
	assert.Equal(t, agentID, row.AgentID)
}

func TestSingleAllocation(t *testing.T) {
	store := newFakeStore()
	store.seedAccount("ACC-001")
	agentID := store.seedAgent("Sipho D")
	srv := NewServer(store, &stubProvider{}, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/allocations",
		singleAllocationRequest{AccountNumber: "acc-001", AgentID: agentID.String()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp allocationResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, 1, resp.Allocated)

	rec = doJSON(t, srv, http.MethodPost, "/api/allocations",
		singleAllocationRequest{AgentID: agentID.String()})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp map[string]string
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "Missing required field: accountNumber", errResp["error"])
}

func TestListAllocations(t *testing.T) {
	store := newFakeStore()
	store.seedAccount("ACC-001")
	agentID := store.seedAgent("Sipho D")
	srv := NewServer(store, &stubProvider{}, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/allocations",
		singleAllocationRequest{AccountNumber: "ACC-001", AgentID: agentID.String()})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/allocations?agentId="+agentID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/allocations", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Missing required query parameter: agentId", resp["error"])
}
