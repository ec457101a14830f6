package engine

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mygramdb/mygram-go/pkg/query"
)

// tsqueryFromExpression renders a simple expression as a to_tsquery string:
// required terms joined with &, optional terms as a | group (or & next to
// required terms, matching the boolean render), excluded terms negated with
// !. Phrase terms become <->-joined word sequences so adjacency survives.
//
// Complex expressions don't decompose into buckets; callers route those
// through websearch_to_tsquery with the raw input instead.
func tsqueryFromExpression(expr *query.Expression) (string, error) {
	var parts []string

	for _, term := range expr.Required {
		if t := tsqueryTerm(term); t != "" {
			parts = append(parts, t)
		}
	}

	var optional []string
	for _, term := range expr.Optional {
		if t := tsqueryTerm(term); t != "" {
			optional = append(optional, t)
		}
	}
	if len(optional) > 0 {
		switch {
		case len(expr.Required) > 0:
			parts = append(parts, optional...)
		case len(optional) == 1:
			parts = append(parts, optional[0])
		default:
			// | binds looser than &, so the group needs parens when negated
			// terms join it.
			parts = append(parts, "("+strings.Join(optional, " | ")+")")
		}
	}

	for _, term := range expr.Excluded {
		t := tsqueryTerm(term)
		if t == "" {
			continue
		}
		// ! binds tighter than <->, so multi-word negations need grouping.
		if strings.Contains(t, " ") {
			t = "(" + t + ")"
		}
		parts = append(parts, "!"+t)
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("expression has no searchable terms after sanitizing")
	}
	return strings.Join(parts, " & "), nil
}

func tsqueryTerm(term string) string {
	words := strings.Fields(sanitizeTsTerm(term))
	if len(words) > 1 {
		return strings.Join(words, " <-> ")
	}
	if len(words) == 1 {
		return words[0]
	}
	return ""
}

func sanitizeTsTerm(term string) string {
	var b strings.Builder
	for _, r := range term {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == ' ' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
