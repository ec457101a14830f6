// Package query compiles Google-style search expressions into MygramDB's
// boolean query grammar.
//
// The syntax accepted from users: bare terms are optional, `+term` is
// required, `-term` is excluded, `"multi word"` is a phrase, `OR` and
// parentheses build boolean structure. Expressions without OR/grouping are
// "simple" and decompose losslessly into three term buckets; anything with
// OR or a parenthesis is "complex" and is carried verbatim so the server's
// own grammar resolves the structure.
//
// The package is self-contained and pure: no I/O, no shared state, safe for
// concurrent use.
package query

import "strings"

// Expression is the compiled form of a search expression. The three buckets
// preserve source order. Complex is true iff the input contained an OR or
// parenthesis token anywhere; Raw carries the original input verbatim exactly
// when Complex is true.
type Expression struct {
	Required []string
	Excluded []string
	Optional []string
	Complex  bool
	Raw      string
}

// IsComplex reports whether the expression cannot be losslessly represented
// by the three term buckets.
func (e *Expression) IsComplex() bool {
	return e.Complex
}

// Parse tokenizes and classifies a search expression in a single
// left-to-right pass with one token of lookahead.
//
// Failure cases, all *SyntaxError: blank input, an unterminated quote, and a
// dangling `+`/`-` (at end of input, or not followed by a word or phrase;
// `+` additionally accepts `(`). Parenthesis balance is not
// validated: an unbalanced group simply marks the expression complex and is
// passed through verbatim for the server to judge.
func Parse(input string) (*Expression, error) {
	if strings.TrimSpace(input) == "" {
		return nil, errEmpty()
	}

	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}

	expr := &Expression{}
	complex := false

	// The EOF terminator guarantees tokens[i+1] exists for every non-EOF
	// token, so the lookahead below never ranges out of bounds.
	i := 0
	for tokens[i].Type != EOF {
		tok := tokens[i]
		switch tok.Type {
		case PLUS:
			next := tokens[i+1]
			switch next.Type {
			case WORD, PHRASE:
				expr.Required = append(expr.Required, next.Value)
				i += 2
			case LPAREN:
				// `+(` promotes the whole expression to complex. Only the
				// plus and the paren are consumed; the group's interior is
				// re-encountered token by token and marks complex again.
				complex = true
				i += 2
			default:
				return nil, errDanglingOperator("+", tok.Offset)
			}
		case MINUS:
			next := tokens[i+1]
			if next.Type != WORD && next.Type != PHRASE {
				return nil, errDanglingOperator("-", tok.Offset)
			}
			expr.Excluded = append(expr.Excluded, next.Value)
			i += 2
		case WORD, PHRASE:
			expr.Optional = append(expr.Optional, tok.Value)
			i++
		case OR, LPAREN, RPAREN:
			complex = true
			i++
		default:
			i++
		}
	}

	expr.Complex = complex
	if complex {
		expr.Raw = input
	}
	return expr, nil
}
