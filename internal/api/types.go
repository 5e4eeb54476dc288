package api

import "github.com/smartkollect/kollect/internal/payment"

type bulkAllocationRequest struct {
	AccountNumbers []string `json:"accountNumbers"`
	AgentID        string   `json:"agentId"`
}

type singleAllocationRequest struct {
	AccountNumber string `json:"accountNumber"`
	AgentID       string `json:"agentId"`
}

type allocationResponse struct {
	Success   bool `json:"success"`
	Allocated int  `json:"allocated"`
	Total     int  `json:"total"`
	NotFound  int  `json:"notFound"`
}

type importResponse struct {
	Success  bool           `json:"success"`
	Batch    *payment.Batch `json:"batch"`
	Warnings []string       `json:"warnings,omitempty"`
}

type analysisRequest struct {
	AccountID string `json:"accountId"`
}

type analysisResponse struct {
	AccountID string `json:"accountId"`
	Analysis  string `json:"analysis"`
	Provider  string `json:"provider"`
}
