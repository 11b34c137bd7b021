package lexer

import (
	"lox/internal/token"
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `var five = 5;
var ten = 10.5;

fun add(x, y) {
  return x + y;
}

var result = add(five, ten);
!-/*5;
5 < 10 > 5;
5 <= 10 >= 5;
// comment
if (5 != 10) { print true and false or nil; } else { x = "foo bar"; }
class Counter { init() { this.n = 0; } }
while (false) {}
for (;;) {}
// comment at eof`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
		expectedLine    int
	}{
		{token.VAR, "var", 1},
		{token.IDENT, "five", 1},
		{token.ASSIGN, "=", 1},
		{token.NUMBER, "5", 1},
		{token.SEMICOLON, ";", 1},
		{token.VAR, "var", 2},
		{token.IDENT, "ten", 2},
		{token.ASSIGN, "=", 2},
		{token.NUMBER, "10.5", 2},
		{token.SEMICOLON, ";", 2},
		{token.FUNCTION, "fun", 4},
		{token.IDENT, "add", 4},
		{token.LPAREN, "(", 4},
		{token.IDENT, "x", 4},
		{token.COMMA, ",", 4},
		{token.IDENT, "y", 4},
		{token.RPAREN, ")", 4},
		{token.LBRACE, "{", 4},
		{token.RETURN, "return", 5},
		{token.IDENT, "x", 5},
		{token.PLUS, "+", 5},
		{token.IDENT, "y", 5},
		{token.SEMICOLON, ";", 5},
		{token.RBRACE, "}", 6},
		{token.VAR, "var", 8},
		{token.IDENT, "result", 8},
		{token.ASSIGN, "=", 8},
		{token.IDENT, "add", 8},
		{token.LPAREN, "(", 8},
		{token.IDENT, "five", 8},
		{token.COMMA, ",", 8},
		{token.IDENT, "ten", 8},
		{token.RPAREN, ")", 8},
		{token.SEMICOLON, ";", 8},
		{token.BANG, "!", 9},
		{token.MINUS, "-", 9},
		{token.SLASH, "/", 9},
		{token.ASTERISK, "*", 9},
		{token.NUMBER, "5", 9},
		{token.SEMICOLON, ";", 9},
		{token.NUMBER, "5", 10},
		{token.LT, "<", 10},
		{token.NUMBER, "10", 10},
		{token.GT, ">", 10},
		{token.NUMBER, "5", 10},
		{token.SEMICOLON, ";", 10},
		{token.NUMBER, "5", 11},
		{token.LT_EQ, "<=", 11},
		{token.NUMBER, "10", 11},
		{token.GT_EQ, ">=", 11},
		{token.NUMBER, "5", 11},
		{token.SEMICOLON, ";", 11},
		{token.IF, "if", 13},
		{token.LPAREN, "(", 13},
		{token.NUMBER, "5", 13},
		{token.NOT_EQ, "!=", 13},
		{token.NUMBER, "10", 13},
		{token.RPAREN, ")", 13},
		{token.LBRACE, "{", 13},
		{token.PRINT, "print", 13},
		{token.TRUE, "true", 13},
		{token.AND, "and", 13},
		{token.FALSE, "false", 13},
		{token.OR, "or", 13},
		{token.NIL, "nil", 13},
		{token.SEMICOLON, ";", 13},
		{token.RBRACE, "}", 13},
		{token.ELSE, "else", 13},
		{token.LBRACE, "{", 13},
		{token.IDENT, "x", 13},
		{token.ASSIGN, "=", 13},
		{token.STRING, "foo bar", 13},
		{token.SEMICOLON, ";", 13},
		{token.RBRACE, "}", 13},
		{token.CLASS, "class", 14},
		{token.IDENT, "Counter", 14},
		{token.LBRACE, "{", 14},
		{token.IDENT, "init", 14},
		{token.LPAREN, "(", 14},
		{token.RPAREN, ")", 14},
		{token.LBRACE, "{", 14},
		{token.THIS, "this", 14},
		{token.PERIOD, ".", 14},
		{token.IDENT, "n", 14},
		{token.ASSIGN, "=", 14},
		{token.NUMBER, "0", 14},
		{token.SEMICOLON, ";", 14},
		{token.RBRACE, "}", 14},
		{token.RBRACE, "}", 14},
		{token.WHILE, "while", 15},
		{token.LPAREN, "(", 15},
		{token.FALSE, "false", 15},
		{token.RPAREN, ")", 15},
		{token.LBRACE, "{", 15},
		{token.RBRACE, "}", 15},
		{token.FOR, "for", 16},
		{token.LPAREN, "(", 16},
		{token.SEMICOLON, ";", 16},
		{token.SEMICOLON, ";", 16},
		{token.RPAREN, ")", 16},
		{token.LBRACE, "{", 16},
		{token.RBRACE, "}", 16},
		{token.EOF, "", 17},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q '%q', got=%q: '%q'",
				i, tt.expectedType, tt.expectedLiteral, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}

		if tok.Line != tt.expectedLine {
			t.Fatalf("tests[%d] - line wrong for %q. expected=%d, got=%d",
				i, tt.expectedLiteral, tt.expectedLine, tok.Line)
		}
	}
}

func TestMultiLineString(t *testing.T) {
	input := "\"one\ntwo\" x"

	l := New(input)

	tok := l.NextToken()
	if tok.Type != token.STRING || tok.Literal != "one\ntwo" {
		t.Fatalf("expected multi-line string, got %q: %q", tok.Type, tok.Literal)
	}
	if tok.Line != 1 {
		t.Fatalf("string should report its starting line, got %d", tok.Line)
	}

	tok = l.NextToken()
	if tok.Type != token.IDENT || tok.Line != 2 {
		t.Fatalf("expected IDENT on line 2, got %q on line %d", tok.Type, tok.Line)
	}
}

func TestIllegalTokens(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{`"never closed`, "Unterminated string."},
		{`@`, "Unexpected character '@'."},
	}

	for _, tt := range tests {
		tok := New(tt.input).NextToken()
		if tok.Type != token.ILLEGAL {
			t.Fatalf("expected ILLEGAL token for %q, got %q: %q", tt.input, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.message {
			t.Errorf("expected message %q, got %q", tt.message, tok.Literal)
		}
	}
}

func tokenize(input string) []token.Token {
	l := New(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func TestNumberFollowedByDot(t *testing.T) {
	tokens := tokenize("123.foo")

	want := []token.TokenType{token.NUMBER, token.PERIOD, token.IDENT, token.EOF}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, typ := range want {
		if tokens[i].Type != typ {
			t.Errorf("tokens[%d] - expected %q, got %q", i, typ, tokens[i].Type)
		}
	}
	if tokens[0].Literal != "123" {
		t.Errorf("expected literal 123, got %q", tokens[0].Literal)
	}
}

func TestNulByteIsIllegal(t *testing.T) {
	tests := []struct {
		input string
		want  []token.TokenType
	}{
		{"print 1;\x00print 2;", []token.TokenType{
			token.PRINT, token.NUMBER, token.SEMICOLON, token.ILLEGAL,
			token.PRINT, token.NUMBER, token.SEMICOLON, token.EOF,
		}},
		{"\"a\x00b\" x", []token.TokenType{token.STRING, token.IDENT, token.EOF}},
		{"// note\x00\nx", []token.TokenType{token.IDENT, token.EOF}},
	}

	for _, tt := range tests {
		tokens := tokenize(tt.input)
		if len(tokens) != len(tt.want) {
			t.Fatalf("input %q: expected %d tokens, got %d: %v", tt.input, len(tt.want), len(tokens), tokens)
		}
		for i, typ := range tt.want {
			if tokens[i].Type != typ {
				t.Errorf("input %q: tokens[%d] expected %q, got %q", tt.input, i, typ, tokens[i].Type)
			}
		}
	}

	tok := tokenize("\x00")[0]
	if tok.Literal != `Unexpected character '\x00'.` {
		t.Errorf("expected the NUL to be named in the message, got %q", tok.Literal)
	}
}
