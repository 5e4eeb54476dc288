package allocation

import (
	"time"

	"github.com/google/uuid"
)

// AccountRef is the (internal id, external account number) pair the matcher
// works with. Account rows are read-only from this package's perspective.
type AccountRef struct {
	ID     uuid.UUID `db:"id" json:"id"`
	Number string    `db:"account_number" json:"accountNumber"`
}

// Agent is a collection agent profile.
type Agent struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"fullName"`
	Email     string    `db:"email" json:"email"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Allocation links one account to one agent. Allocations are never updated in
// place; replacing an account's allocation deletes the old row and inserts a
// fresh one.
type Allocation struct {
	ID          uuid.UUID `db:"id" json:"id"`
	AccountID   uuid.UUID `db:"account_id" json:"accountId"`
	AgentID     uuid.UUID `db:"agent_id" json:"agentId"`
	Status      string    `db:"status" json:"status"`
	AllocatedAt time.Time `db:"allocated_at" json:"allocatedAt"`
}

// StatusActive is the status written on every allocation this service creates.
const StatusActive = "active"

// Result summarizes one allocation request for the caller.
type Result struct {
	Total     int `json:"total"`
	Allocated int `json:"allocated"`
	NotFound  int `json:"notFound"`

	// NotFoundNumbers keeps the original input strings that failed to match,
	// for logging. They are reported verbatim, never in normalized form, so
	// operators can cross-check them against the pasted source list.
	NotFoundNumbers []string `json:"-"`
}
