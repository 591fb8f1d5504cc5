package metadata

import (
	"regexp"
	"strings"
)

// CurrentTimestamp is the canonical spelling of "use the current time" defaults
const CurrentTimestamp = "CURRENT_TIMESTAMP"

var literalUnescaper = strings.NewReplacer(`\\`, `\`, `\'`, `'`, `\"`, `"`, `''`, `'`)

// NormalizeDefault turns dialect-native default text into a plain literal.
//
// One layer of surrounding quotes or parentheses is stripped, backslash and
// doubled-quote escapes are undone, then a second layer is stripped if one is
// still present. This is a heuristic, not a SQL literal parser: deeply nested
// or malformed quoting may come out wrong.
func NormalizeDefault(raw string) string {
	v := strings.TrimSpace(raw)
	v = stripWrapping(v)
	v = literalUnescaper.Replace(v)
	return stripWrapping(v)
}

// stripWrapping removes one pair of matching quotes, or one pair of
// parentheses that enclose the whole value
func stripWrapping(v string) string {
	if len(v) < 2 {
		return v
	}

	first, last := v[0], v[len(v)-1]
	switch {
	case first == '\'' && last == '\'', first == '"' && last == '"':
		return v[1 : len(v)-1]
	case first == '(' && last == ')' && enclosesAll(v):
		return strings.TrimSpace(v[1 : len(v)-1])
	}
	return v
}

// enclosesAll reports whether the opening parenthesis closes at the last byte
func enclosesAll(v string) bool {
	depth := 0
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(v)-1 {
				return false
			}
		}
	}
	return depth == 0
}

var timestampFunc = regexp.MustCompile(`(?i)^(current_timestamp\(\d*\)|now\(\)|getdate\(\)|sysdatetime\(\)|localtimestamp|transaction_timestamp\(\))$`)

// canonicalTimestamp rewrites dialect spellings of "now" to CURRENT_TIMESTAMP
func canonicalTimestamp(v string) string {
	if timestampFunc.MatchString(v) {
		return CurrentTimestamp
	}
	return v
}

// normalizeWith applies the generic passes and timestamp canonicalization
func normalizeWith(raw string) *string {
	v := canonicalTimestamp(NormalizeDefault(raw))
	return &v
}
