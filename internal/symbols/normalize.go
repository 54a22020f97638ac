package symbols

import "golang.org/x/text/unicode/norm"

// NormalizeName canonicalizes an identifier for duplicate-name checks.
// Two source identifiers that differ only in Unicode normalization form
// (e.g. an "é" typed as one precomposed rune vs. "e" + combining accent)
// must be treated as the same name, or a field and a method that look
// identical on screen could silently coexist. gelix source passes through
// no lexer-level normalization step (out of scope for this core), so the
// symbol table normalizes at the point names are compared instead.
func NormalizeName(name string) string {
	if norm.NFC.IsNormalString(name) {
		return name
	}
	return norm.NFC.String(name)
}
