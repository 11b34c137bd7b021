package lexer

import (
	"fmt"
	"lox/internal/token"
)

type GeneralTokenizer struct {
	lexer *Lexer
}

func NewGeneralTokenizer(lexer *Lexer) *GeneralTokenizer {
	return &GeneralTokenizer{lexer: lexer}
}

func (g *GeneralTokenizer) NextToken() token.Token {
	var tok token.Token

	g.lexer.skipWhitespace()

	startPosition := g.lexer.position // Record the current position as the start of the token

	if g.lexer.atEnd() {
		return token.Token{Type: token.EOF, Literal: "", Line: g.lexer.line, Position: startPosition}
	}

	switch g.lexer.ch {
	case '=':
		tok = g.lexer.handleCompoundToken(token.ASSIGN, '=', token.EQ)
	case '!':
		tok = g.lexer.handleCompoundToken(token.BANG, '=', token.NOT_EQ)
	case '<':
		tok = g.lexer.handleCompoundToken(token.LT, '=', token.LT_EQ)
	case '>':
		tok = g.lexer.handleCompoundToken(token.GT, '=', token.GT_EQ)
	case '+':
		tok = g.lexer.newToken(token.PLUS, g.lexer.ch, startPosition)
	case '-':
		tok = g.lexer.newToken(token.MINUS, g.lexer.ch, startPosition)
	case '/':
		tok = g.lexer.newToken(token.SLASH, g.lexer.ch, startPosition)
	case '*':
		tok = g.lexer.newToken(token.ASTERISK, g.lexer.ch, startPosition)
	case ';':
		tok = g.lexer.newToken(token.SEMICOLON, g.lexer.ch, startPosition)
	case ',':
		tok = g.lexer.newToken(token.COMMA, g.lexer.ch, startPosition)
	case '.':
		tok = g.lexer.newToken(token.PERIOD, g.lexer.ch, startPosition)
	case '(':
		tok = g.lexer.newToken(token.LPAREN, g.lexer.ch, startPosition)
	case ')':
		tok = g.lexer.newToken(token.RPAREN, g.lexer.ch, startPosition)
	case '{':
		tok = g.lexer.newToken(token.LBRACE, g.lexer.ch, startPosition)
	case '}':
		tok = g.lexer.newToken(token.RBRACE, g.lexer.ch, startPosition)
	case '"':
		g.lexer.switchMode(NewStringTokenizer(g.lexer))
		return g.lexer.currentMode.NextToken()
	default:
		if isLetter(g.lexer.ch) {
			line := g.lexer.line
			tok.Literal = g.lexer.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			tok.Line = line
			tok.Position = startPosition
			return tok
		} else if isDigit(g.lexer.ch) {
			line := g.lexer.line
			tok.Type = token.NUMBER
			tok.Literal = g.lexer.readNumber()
			tok.Line = line
			tok.Position = startPosition
			return tok
		} else {
			tok = token.Token{
				Type:     token.ILLEGAL,
				Literal:  fmt.Sprintf("Unexpected character %q.", g.lexer.ch),
				Line:     g.lexer.line,
				Position: startPosition,
			}
		}
	}

	g.lexer.readChar()
	return tok
}
