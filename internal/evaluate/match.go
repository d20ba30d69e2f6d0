package evaluate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// containsPattern reports whether pattern occurs in code. Matching is
// case-sensitive and boundary-aware: when the pattern starts or ends with a
// word character, the adjacent character in code must not extend the
// identifier, so "eval" never matches inside "evaluate". Patterns are opaque
// substrings, never regexes.
func containsPattern(code, pattern string) bool {
	if pattern == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(pattern)
	last, _ := utf8.DecodeLastRuneInString(pattern)

	for searched := 0; ; {
		i := strings.Index(code[searched:], pattern)
		if i < 0 {
			return false
		}
		start := searched + i
		end := start + len(pattern)

		ok := true
		if isWordChar(first) {
			if prev, _ := utf8.DecodeLastRuneInString(code[:start]); isWordChar(prev) {
				ok = false
			}
		}
		if ok && isWordChar(last) {
			if next, _ := utf8.DecodeRuneInString(code[end:]); isWordChar(next) {
				ok = false
			}
		}
		if ok {
			return true
		}
		searched = start + 1
	}
}

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
