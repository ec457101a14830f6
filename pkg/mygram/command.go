package mygram

import (
	"strconv"
	"strings"

	"github.com/mygramdb/mygram-go/pkg/query"
)

// compileExpression turns a user-facing search expression into the wire
// query argument plus AND/NOT term lists. Complex expressions (OR, grouping)
// travel verbatim as a single query argument so the server's boolean grammar
// resolves the structure; simple ones are flattened to main/AND/NOT lists.
func compileExpression(expression string) (main string, andTerms, notTerms []string, err error) {
	expr, err := query.Parse(expression)
	if err != nil {
		return "", nil, nil, err
	}
	if expr.IsComplex() {
		return expr.Raw, nil, nil, nil
	}

	lists, err := expr.TermLists()
	if err != nil {
		return "", nil, nil, err
	}
	return lists.Main, lists.And, lists.Not, nil
}

func buildSearchCommand(table, q string, andTerms, notTerms []string, o *searchOptions) string {
	var b strings.Builder
	b.WriteString("SEARCH ")
	b.WriteString(table)
	b.WriteByte(' ')
	b.WriteString(EscapeQueryString(q))

	writeTermClauses(&b, andTerms, notTerms)
	writeFilterClauses(&b, o.filters)

	switch {
	case o.sortBy != "":
		b.WriteString(" SORT ")
		b.WriteString(o.sortBy)
		if o.sortDesc {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
	case !o.sortDesc:
		// Primary-key ascending needs an explicit clause; descending is the
		// server default and is never emitted.
		b.WriteString(" SORT ASC")
	}

	if o.limit > 0 && o.offset > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(o.offset))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(o.limit))
	} else if o.limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(o.limit))
	}

	return b.String()
}

func buildCountCommand(table, q string, andTerms, notTerms []string, o *searchOptions) string {
	var b strings.Builder
	b.WriteString("COUNT ")
	b.WriteString(table)
	b.WriteByte(' ')
	b.WriteString(EscapeQueryString(q))

	writeTermClauses(&b, andTerms, notTerms)
	writeFilterClauses(&b, o.filters)

	return b.String()
}

func writeTermClauses(b *strings.Builder, andTerms, notTerms []string) {
	for _, term := range andTerms {
		b.WriteString(" AND ")
		b.WriteString(EscapeQueryString(term))
	}
	for _, term := range notTerms {
		b.WriteString(" NOT ")
		b.WriteString(EscapeQueryString(term))
	}
}

func writeFilterClauses(b *strings.Builder, filters []Filter) {
	for _, f := range filters {
		b.WriteString(" FILTER ")
		b.WriteString(f.Key)
		b.WriteString(" = ")
		b.WriteString(EscapeQueryString(f.Value))
	}
}
