package lexer

import (
	"lox/internal/token"
)

// StringTokenizer reads a double-quoted literal. Strings may span lines and
// have no escape sequences; the token reports the line it started on.
type StringTokenizer struct {
	lexer *Lexer
}

func NewStringTokenizer(lexer *Lexer) *StringTokenizer {
	return &StringTokenizer{lexer: lexer}
}

func (s *StringTokenizer) NextToken() token.Token {
	startPosition := s.lexer.position
	startLine := s.lexer.line

	s.lexer.readChar() // consume the opening "
	start := s.lexer.position

	for s.lexer.ch != '"' {
		if s.lexer.atEnd() {
			s.lexer.switchMode(NewGeneralTokenizer(s.lexer))
			return token.Token{
				Type:     token.ILLEGAL,
				Literal:  "Unterminated string.",
				Line:     s.lexer.line,
				Position: startPosition,
			}
		}
		s.lexer.readChar()
	}

	literal := s.lexer.input[start:s.lexer.position]
	s.lexer.readChar() // consume the closing "

	// Fall back to the general tokenizer mode after the string ends
	s.lexer.switchMode(NewGeneralTokenizer(s.lexer))

	return token.Token{
		Type:     token.STRING,
		Literal:  literal,
		Line:     startLine,
		Position: startPosition,
	}
}
