package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/smartkollect/kollect/internal/allocation"
	"github.com/smartkollect/kollect/internal/common"
)

func (s *Server) handleBulkAllocate(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if !s.requireStore(w) {
		return
	}
	var req bulkAllocationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.AccountNumbers) == 0 {
		writeError(w, http.StatusBadRequest, "Missing or invalid accountNumbers: must be a non-empty array")
		return
	}
	if req.AgentID == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: agentId")
		return
	}
	agentID, err := uuid.Parse(req.AgentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid agentId")
		return
	}

	logger.Info("api: bulk allocation requested", "agent", agentID, "accounts", len(req.AccountNumbers))
	result, err := s.alloc.BulkAllocate(r.Context(), agentID, req.AccountNumbers)
	if err != nil {
		writeAllocationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, allocationResponse{
		Success:   true,
		Allocated: result.Allocated,
		Total:     result.Total,
		NotFound:  result.NotFound,
	})
}

func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var req singleAllocationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AccountNumber == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: accountNumber")
		return
	}
	if req.AgentID == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: agentId")
		return
	}
	agentID, err := uuid.Parse(req.AgentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid agentId")
		return
	}

	result, err := s.alloc.Allocate(r.Context(), agentID, req.AccountNumber)
	if err != nil {
		writeAllocationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, allocationResponse{
		Success:   true,
		Allocated: result.Allocated,
		Total:     result.Total,
		NotFound:  result.NotFound,
	})
}

func (s *Server) handleListAllocations(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	raw := r.URL.Query().Get("agentId")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "Missing required query parameter: agentId")
		return
	}
	agentID, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid agentId")
		return
	}
	details, err := s.store.AgentAllocations(r.Context(), agentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list allocations: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"allocations": details})
}

// writeAllocationError maps the allocation error taxonomy onto the HTTP
// contract.
func writeAllocationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, allocation.ErrAgentNotFound):
		writeError(w, http.StatusNotFound, "Agent not found")
	case errors.Is(err, allocation.ErrNoAccountsMatched):
		writeError(w, http.StatusNotFound, "No matching accounts found. Please check the account numbers and try again.")
	default:
		writeError(w, http.StatusInternalServerError, "Failed to allocate accounts: "+err.Error())
	}
}
