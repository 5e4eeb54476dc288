package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/smartkollect/kollect/internal/common"
)

const analysisSystemPrompt = "You are a debt-collection analyst. " +
	"Given a debtor account's balance, allocation state, and payment history, " +
	"assess payment behaviour and collections readiness. " +
	"Answer with a short summary followed by concrete next steps for the agent. " +
	"Never invent figures that are not in the provided data."

func (s *Server) handleCustomerAnalysis(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if !s.requireStore(w) {
		return
	}
	if s.provider == nil {
		writeError(w, http.StatusServiceUnavailable, "Analysis provider not configured")
		return
	}
	var req analysisRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AccountID == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: accountId")
		return
	}
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid accountId")
		return
	}

	ctx := r.Context()
	account, err := s.store.AccountByID(ctx, accountID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load account: "+err.Error())
		return
	}
	if account == nil {
		writeError(w, http.StatusNotFound, "Account not found")
		return
	}
	alloc, err := s.store.AllocationForAccount(ctx, accountID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load allocation: "+err.Error())
		return
	}
	payments, err := s.store.PaymentsForAccount(ctx, accountID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load payments: "+err.Error())
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Account %s (%s)\n", account.AccountNumber, account.CustomerName)
	fmt.Fprintf(&b, "Outstanding balance: %.2f\n", account.Balance)
	if alloc != nil {
		fmt.Fprintf(&b, "Allocated to agent %s since %s\n", alloc.AgentID, alloc.AllocatedAt.Format("2006-01-02"))
	} else {
		b.WriteString("Currently unallocated\n")
	}
	if len(payments) == 0 {
		b.WriteString("No recorded payments.\n")
	} else {
		fmt.Fprintf(&b, "Last %d payments:\n", len(payments))
		for i, p := range payments {
			if i >= 12 {
				fmt.Fprintf(&b, "... %d more\n", len(payments)-i)
				break
			}
			fmt.Fprintf(&b, "- %s: %.2f (%s)\n", p.PaidAt.Format("2006-01-02"), p.Amount, p.Reference)
		}
	}

	answer, err := s.provider.Chat(ctx, analysisSystemPrompt, b.String())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Analysis failed: "+err.Error())
		return
	}
	logger.Info("api: customer analysis produced", "account", accountID, "provider", s.provider.Name())
	writeJSON(w, http.StatusOK, analysisResponse{
		AccountID: account.ID.String(),
		Analysis:  answer,
		Provider:  s.provider.Name(),
	})
}
