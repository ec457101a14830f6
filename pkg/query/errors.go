package query

import "fmt"

type ErrorKind int

const (
	EmptyExpression ErrorKind = iota
	UnterminatedQuote
	DanglingOperator
	NoPositiveTerm
)

func (k ErrorKind) String() string {
	switch k {
	case EmptyExpression:
		return "empty_expression"
	case UnterminatedQuote:
		return "unterminated_quote"
	case DanglingOperator:
		return "dangling_operator"
	case NoPositiveTerm:
		return "no_positive_term"
	default:
		return "unknown"
	}
}

// SyntaxError is the only error type this package produces. Offset is the
// rune index the error refers to, or -1 for errors with no position.
type SyntaxError struct {
	Kind    ErrorKind
	Message string
	Offset  int
}

func (e *SyntaxError) Error() string {
	return e.Message
}

func errEmpty() *SyntaxError {
	return &SyntaxError{
		Kind:    EmptyExpression,
		Message: "Search expression cannot be empty",
		Offset:  -1,
	}
}

func errUnterminatedQuote(offset int) *SyntaxError {
	return &SyntaxError{
		Kind:    UnterminatedQuote,
		Message: fmt.Sprintf("Unterminated quoted string at position %d", offset),
		Offset:  offset,
	}
}

func errDanglingOperator(op string, offset int) *SyntaxError {
	return &SyntaxError{
		Kind:    DanglingOperator,
		Message: fmt.Sprintf("Expected term after '%s' at position %d", op, offset),
		Offset:  offset,
	}
}

func errNoPositiveTerm() *SyntaxError {
	return &SyntaxError{
		Kind:    NoPositiveTerm,
		Message: "Search expression must have at least one positive term",
		Offset:  -1,
	}
}
