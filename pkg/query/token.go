package query

type Type int

const (
	EOF Type = iota
	WORD
	PHRASE
	PLUS
	MINUS
	OR
	LPAREN
	RPAREN
)

func (t Type) String() string {
	switch t {
	case EOF:
		return "EOF"
	case WORD:
		return "WORD"
	case PHRASE:
		return "PHRASE"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case OR:
		return "OR"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token with its type, literal value and the rune
// offset it started at in the input. Offsets are only used for error messages.
type Token struct {
	Type   Type
	Value  string
	Offset int
}
