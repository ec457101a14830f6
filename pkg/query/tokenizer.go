package query

import (
	"strings"
	"unicode"
)

// fullWidthSpace (U+3000) is the only character the tokenizer normalizes:
// CJK input commonly separates terms with it. No NFKC, no case folding.
const fullWidthSpace = '　'

type scanner struct {
	input []rune
	pos   int
}

// Tokenize converts a search expression into a flat token sequence terminated
// by an EOF token.
// Example: `+golang -"legacy code" (api OR sdk)` yields
// PLUS WORD MINUS PHRASE LPAREN WORD OR WORD RPAREN EOF.
func Tokenize(input string) ([]Token, error) {
	s := &scanner{input: []rune(strings.ReplaceAll(input, string(fullWidthSpace), " "))}

	var tokens []Token
	for {
		s.skipWhitespace()
		if s.pos >= len(s.input) {
			break
		}

		ch := s.input[s.pos]
		switch ch {
		case '+':
			tokens = append(tokens, Token{Type: PLUS, Value: "+", Offset: s.pos})
			s.pos++
		case '-':
			tokens = append(tokens, Token{Type: MINUS, Value: "-", Offset: s.pos})
			s.pos++
		case '(':
			tokens = append(tokens, Token{Type: LPAREN, Value: "(", Offset: s.pos})
			s.pos++
		case ')':
			tokens = append(tokens, Token{Type: RPAREN, Value: ")", Offset: s.pos})
			s.pos++
		case '"':
			tok, err := s.readPhrase()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		default:
			tokens = append(tokens, s.readWord())
		}
	}

	tokens = append(tokens, Token{Type: EOF, Offset: len(s.input)})
	return tokens, nil
}

func (s *scanner) skipWhitespace() {
	for s.pos < len(s.input) && unicode.IsSpace(s.input[s.pos]) {
		s.pos++
	}
}

func (s *scanner) readWord() Token {
	start := s.pos
	for s.pos < len(s.input) && isWordRune(s.input[s.pos]) {
		s.pos++
	}

	word := string(s.input[start:s.pos])

	// A standalone token spelled "or" in any casing is always the operator.
	// There is no escape mechanism; quoting is the workaround for a literal
	// term: `"or"` tokenizes as a phrase and is never operator-checked.
	if strings.EqualFold(word, "OR") {
		return Token{Type: OR, Value: word, Offset: start}
	}
	return Token{Type: WORD, Value: word, Offset: start}
}

// readPhrase consumes a double-quoted phrase verbatim: no escape-sequence
// processing, content may be empty. A missing closing quote is fatal and
// reported at the opening quote's offset.
func (s *scanner) readPhrase() (Token, error) {
	start := s.pos
	s.pos++ // skip opening quote
	phraseStart := s.pos
	for s.pos < len(s.input) && s.input[s.pos] != '"' {
		s.pos++
	}
	if s.pos >= len(s.input) {
		return Token{}, errUnterminatedQuote(start)
	}
	value := string(s.input[phraseStart:s.pos])
	s.pos++ // skip closing quote
	return Token{Type: PHRASE, Value: value, Offset: start}, nil
}

func isWordRune(ch rune) bool {
	if unicode.IsSpace(ch) {
		return false
	}
	switch ch {
	case '+', '-', '(', ')', '"':
		return false
	}
	return true
}
