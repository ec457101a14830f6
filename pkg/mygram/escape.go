package mygram

import "strings"

// EscapeQueryString prepares a query term for the wire: terms containing
// whitespace or quote characters are wrapped in double quotes with `"` and
// `\` backslash-escaped inside; anything else passes through untouched.
func EscapeQueryString(s string) string {
	if !strings.ContainsAny(s, " \t\n\r\"'") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}
