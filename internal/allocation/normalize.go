package allocation

import "strings"

// NumberForms holds the canonical representations of one externally supplied
// account number. Pasted spreadsheet lists routinely carry stray whitespace,
// mixed case, zero padding, or punctuation, so matching runs over all four
// forms in order of strictness.
type NumberForms struct {
	Raw          string
	Normalized   string
	ZeroStripped string
	DigitsOnly   string
}

// NormalizeNumber derives the canonical forms of a raw account number. It is
// a pure transformation; an input with no digits yields an empty DigitsOnly
// form, which by design can never match a stored account.
func NormalizeNumber(raw string) NumberForms {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	return NumberForms{
		Raw:          raw,
		Normalized:   normalized,
		ZeroStripped: strings.TrimLeft(normalized, "0"),
		DigitsOnly:   digitsOnly(normalized),
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
