package query

import "strings"

// BooleanString renders a simple expression in the server's boolean grammar:
// required terms joined by " AND ", optional terms joined by " OR " (or by
// " AND " when required terms exist, since anything next to a required term
// is effectively required), and excluded terms as "NOT term" clauses. Empty
// buckets are omitted; there is never a dangling operator.
//
// The result is only meaningful for simple expressions. Callers owning
// complex input should send Raw instead; this method does not check.
func (e *Expression) BooleanString() string {
	var clauses []string

	if len(e.Required) > 0 {
		clauses = append(clauses, strings.Join(e.Required, " AND "))
	}

	if len(e.Optional) > 0 {
		sep := " OR "
		if len(e.Required) > 0 {
			sep = " AND "
		}
		clauses = append(clauses, strings.Join(e.Optional, sep))
	}

	if len(e.Excluded) > 0 {
		nots := make([]string, len(e.Excluded))
		for i, term := range e.Excluded {
			nots[i] = "NOT " + term
		}
		clauses = append(clauses, strings.Join(nots, " AND "))
	}

	return strings.Join(clauses, " AND ")
}

// Compile is the end-to-end convenience path: parse the input and render it
// for the server. Complex expressions come back verbatim, untouched; simple
// ones come back as a boolean string.
func Compile(input string) (string, error) {
	expr, err := Parse(input)
	if err != nil {
		return "", err
	}
	if expr.IsComplex() {
		return expr.Raw, nil
	}
	return expr.BooleanString(), nil
}

// TermLists is the flat triple accepted by callers that only support
// "main term plus AND/NOT lists", such as the wire protocol's SEARCH and
// COUNT commands.
type TermLists struct {
	Main string
	And  []string
	Not  []string
}

// ReduceToTermLists parses the input and flattens it: required then optional
// terms form the positive list, the first positive becomes Main and the rest
// And; Not is the excluded bucket verbatim.
//
// This reduction silently drops OR/grouping structure. Callers that care must
// check IsComplex first and take the verbatim path; the loss is documented
// behavior, not an oversight.
func ReduceToTermLists(input string) (*TermLists, error) {
	expr, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return expr.TermLists()
}

// TermLists flattens an already-parsed expression; see ReduceToTermLists.
func (e *Expression) TermLists() (*TermLists, error) {
	positives := make([]string, 0, len(e.Required)+len(e.Optional))
	positives = append(positives, e.Required...)
	positives = append(positives, e.Optional...)
	if len(positives) == 0 {
		return nil, errNoPositiveTerm()
	}

	return &TermLists{
		Main: positives[0],
		And:  positives[1:],
		Not:  e.Excluded,
	}, nil
}
