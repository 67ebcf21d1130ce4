package textutil

import (
	"strings"
	"unicode"
)

// legalSuffixes are corporate suffixes stripped from vendor names before the
// name is used as a pattern key, so "Acme Corp" and "ACME" collapse to the
// same key.
var legalSuffixes = []string{
	"incorporated", "corporation", "company", "limited",
	"inc", "llc", "llp", "ltd", "gmbh", "sarl", "sas", "corp",
	"plc", "pty", "bv", "nv", "ag", "sa", "oy", "ab", "co",
}

// NormalizeVendorKey derives the canonical pattern-store key for a vendor
// name: lower-cased, legal-entity suffixes removed, and every
// non-alphanumeric character dropped.
func NormalizeVendorKey(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return ""
	}

	tokens := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if isLegalSuffix(token) {
			continue
		}
		kept = append(kept, token)
	}

	// A name made entirely of suffixes keeps its tokens rather than
	// collapsing to the empty key.
	if len(kept) == 0 {
		kept = tokens
	}

	return strings.Join(kept, "")
}

func isLegalSuffix(token string) bool {
	for _, suffix := range legalSuffixes {
		if token == suffix {
			return true
		}
	}
	return false
}
