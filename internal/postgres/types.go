package postgres

import (
	"time"

	"github.com/google/uuid"
)

// Account is a debtor account row. Accounts are written by the upstream
// import process and read-only here.
type Account struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AccountNumber string    `db:"account_number" json:"accountNumber"`
	CustomerName  string    `db:"customer_name" json:"customerName"`
	Balance       float64   `db:"balance" json:"balance"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// AllocationDetail is an allocation row joined with its account, as listed
// on the agent workspace.
type AllocationDetail struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AccountID     uuid.UUID `db:"account_id" json:"accountId"`
	AccountNumber string    `db:"account_number" json:"accountNumber"`
	CustomerName  string    `db:"customer_name" json:"customerName"`
	Balance       float64   `db:"balance" json:"balance"`
	AgentID       uuid.UUID `db:"agent_id" json:"agentId"`
	Status        string    `db:"status" json:"status"`
	AllocatedAt   time.Time `db:"allocated_at" json:"allocatedAt"`
}

// PaymentDetail is a payment row as shown in an account's history.
type PaymentDetail struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	AccountID     *uuid.UUID `db:"account_id" json:"accountId,omitempty"`
	AccountNumber string     `db:"account_number" json:"accountNumber"`
	Amount        float64    `db:"amount" json:"amount"`
	PaidAt        time.Time  `db:"paid_at" json:"paidAt"`
	Reference     string     `db:"reference" json:"reference"`
}
