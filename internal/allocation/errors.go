package allocation

import "errors"

var (
	// ErrAgentNotFound means the requested agent id does not resolve to a
	// stored agent profile. No writes happen when this is returned.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrNoAccountsMatched means every input account number failed all
	// matching tiers. No writes happen when this is returned.
	ErrNoAccountsMatched = errors.New("no matching accounts found")

	// ErrDataUnavailable means the stored account set could not be read, or
	// is empty. Fatal to the whole operation; safe for the caller to retry.
	ErrDataUnavailable = errors.New("account data unavailable")
)
