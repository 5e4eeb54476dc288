package allocation

import "github.com/google/uuid"

// MatchOutcome is the result of resolving a batch of raw account numbers
// against the stored account set.
type MatchOutcome struct {
	// Matched holds the resolved accounts, deduplicated by internal id, in
	// the order their first matching input appeared.
	Matched []AccountRef
	// Unmatched holds the original input strings that failed every tier.
	Unmatched []string
}

// Resolver holds one lookup map per matching tier, built once over the
// stored account set so that resolving a batch is O(n+m) over inputs plus
// stored rows rather than a linear scan per input.
type Resolver struct {
	exact        map[string]AccountRef
	normalized   map[string]AccountRef
	zeroStripped map[string]AccountRef
	digitsOnly   map[string]AccountRef
}

func NewResolver(stored []AccountRef) *Resolver {
	r := &Resolver{
		exact:        make(map[string]AccountRef, len(stored)),
		normalized:   make(map[string]AccountRef, len(stored)),
		zeroStripped: make(map[string]AccountRef, len(stored)),
		digitsOnly:   make(map[string]AccountRef, len(stored)),
	}
	for _, ref := range stored {
		forms := NormalizeNumber(ref.Number)
		putForm(r.exact, ref.Number, ref)
		putForm(r.normalized, forms.Normalized, ref)
		putForm(r.zeroStripped, forms.ZeroStripped, ref)
		putForm(r.digitsOnly, forms.DigitsOnly, ref)
	}
	return r
}

// putForm keeps the first account seen for a given form so that collisions
// between stored numbers resolve deterministically.
func putForm(m map[string]AccountRef, key string, ref AccountRef) {
	if key == "" {
		return
	}
	if _, exists := m[key]; !exists {
		m[key] = ref
	}
}

// Resolve walks the tiers from strictest to loosest and returns the first
// hit: exact, then normalized, then zero-stripped, then digits-only. Tiers
// never match on substrings or partial numbers. An input without a single
// digit never matches, whatever the stored data looks like.
func (r *Resolver) Resolve(raw string) (AccountRef, bool) {
	forms := NormalizeNumber(raw)
	if forms.DigitsOnly == "" {
		return AccountRef{}, false
	}
	if ref, ok := r.exact[raw]; ok {
		return ref, true
	}
	if forms.Normalized != "" {
		if ref, ok := r.normalized[forms.Normalized]; ok {
			return ref, true
		}
	}
	if forms.ZeroStripped != "" {
		if ref, ok := r.zeroStripped[forms.ZeroStripped]; ok {
			return ref, true
		}
	}
	if forms.DigitsOnly != "" {
		if ref, ok := r.digitsOnly[forms.DigitsOnly]; ok {
			return ref, true
		}
	}
	return AccountRef{}, false
}

// MatchAccounts resolves each raw input independently through the tiered
// resolver. Two inputs resolving to the same stored account produce a single
// match; unmatched inputs are reported with their original strings.
func MatchAccounts(inputs []string, stored []AccountRef) MatchOutcome {
	resolver := NewResolver(stored)
	outcome := MatchOutcome{}
	seen := make(map[uuid.UUID]struct{}, len(inputs))
	for _, raw := range inputs {
		ref, ok := resolver.Resolve(raw)
		if !ok {
			outcome.Unmatched = append(outcome.Unmatched, raw)
			continue
		}
		if _, dup := seen[ref.ID]; dup {
			continue
		}
		seen[ref.ID] = struct{}{}
		outcome.Matched = append(outcome.Matched, ref)
	}
	return outcome
}
