package model

import "strings"

// normalizeCode trims and uppercases a raw code for case-insensitive
// comparison.
func normalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
