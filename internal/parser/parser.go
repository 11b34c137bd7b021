package parser

import (
	"fmt"
	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/lexer"
	"lox/internal/token"
	"strconv"
)

const maxArgs = 255

const (
	_           int = iota
	LOWEST          // lowest
	ASSIGNMENT      // =
	LOGICAL_OR      // or
	LOGICAL_AND     // and
	EQUALS          // ==
	COMPARISON      // > or <
	SUM             // +
	PRODUCT         // *
	PREFIX          // -X or !X
	CALL            // myFunction(X) or obj.field
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:   ASSIGNMENT,
	token.OR:       LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       COMPARISON,
	token.LT_EQ:    COMPARISON,
	token.GT:       COMPARISON,
	token.GT_EQ:    COMPARISON,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.PERIOD:   CALL,
	token.LPAREN:   CALL,
}

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parser turns tokens into statements. Every parse function starts with
// curToken on the first token of its construct and leaves it on the last one.
// A failed parse returns nil and puts the parser in panic mode, which
// suppresses follow-on errors until the next statement boundary.
type Parser struct {
	l      *lexer.Lexer
	errors []diag.Diagnostic

	curToken  token.Token
	peekToken token.Token

	panicMode bool

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []diag.Diagnostic{},
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.NIL, p.parseNil)
	p.registerPrefix(token.IDENT, p.parseVariable)
	p.registerPrefix(token.THIS, p.parseThis)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	p.registerInfix(token.PLUS, p.parseInfixExpression)
	p.registerInfix(token.MINUS, p.parseInfixExpression)
	p.registerInfix(token.SLASH, p.parseInfixExpression)
	p.registerInfix(token.ASTERISK, p.parseInfixExpression)
	p.registerInfix(token.EQ, p.parseInfixExpression)
	p.registerInfix(token.NOT_EQ, p.parseInfixExpression)
	p.registerInfix(token.LT, p.parseInfixExpression)
	p.registerInfix(token.LT_EQ, p.parseInfixExpression)
	p.registerInfix(token.GT, p.parseInfixExpression)
	p.registerInfix(token.GT_EQ, p.parseInfixExpression)
	p.registerInfix(token.AND, p.parseLogicalExpression)
	p.registerInfix(token.OR, p.parseLogicalExpression)
	p.registerInfix(token.ASSIGN, p.parseAssignmentExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.PERIOD, p.parseGetExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()

	// Scan errors are reported as they are met and never reach the grammar.
	for p.peekToken.Type == token.ILLEGAL {
		p.errors = append(p.errors, diag.Diagnostic{Token: p.peekToken, Message: p.peekToken.Literal})
		p.peekToken = p.l.NextToken()
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// report records an error without entering panic mode. Used where the
// grammar can carry on, e.g. an invalid assignment target.
func (p *Parser) report(tok token.Token, message string) {
	if p.panicMode {
		return
	}
	p.errors = append(p.errors, diag.Diagnostic{Token: tok, Message: message})
}

func (p *Parser) fail(tok token.Token, message string) {
	p.report(tok, message)
	p.panicMode = true
}

func (p *Parser) expectPeek(t token.TokenType, message string) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.fail(p.peekToken, message)
	return false
}

func (p *Parser) noPrefixParseFnError() {
	p.fail(p.curToken, "Expect expression.")
}

func (p *Parser) Errors() []diag.Diagnostic {
	return p.errors
}

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Stmt{}

	for !p.curTokenIs(token.EOF) {
		stmt := p.parseDeclaration()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program
}

// synchronize skips tokens until curToken ends a statement or peekToken
// starts one.
func (p *Parser) synchronize() {
	p.panicMode = false

	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			return
		}

		switch p.peekToken.Type {
		case token.CLASS, token.FUNCTION, token.VAR, token.FOR,
			token.IF, token.WHILE, token.PRINT, token.RETURN, token.EOF:
			return
		}

		p.nextToken()
	}
}

func (p *Parser) parseDeclaration() ast.Stmt {
	var stmt ast.Stmt

	switch p.curToken.Type {
	case token.CLASS:
		stmt = p.parseClassDeclaration()
	case token.FUNCTION:
		stmt = p.parseFunctionDeclaration()
	case token.VAR:
		stmt = p.parseVarDeclaration()
	default:
		stmt = p.parseStatement()
	}

	if p.panicMode {
		p.synchronize()
		return nil
	}

	return stmt
}

func (p *Parser) parseClassDeclaration() ast.Stmt {
	stmt := &ast.Class{Token: p.curToken}

	if !p.expectPeek(token.IDENT, "Expect class name.") {
		return nil
	}
	stmt.Name = p.curToken

	if !p.expectPeek(token.LBRACE, "Expect '{' before class body.") {
		return nil
	}

	stmt.Methods = []*ast.Function{}
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		if !p.expectPeek(token.IDENT, "Expect method name.") {
			return nil
		}
		method := p.parseFunction(p.curToken, "method")
		if method == nil {
			return nil
		}
		stmt.Methods = append(stmt.Methods, method)
	}

	if !p.expectPeek(token.RBRACE, "Expect '}' after class body.") {
		return nil
	}

	return stmt
}

func (p *Parser) parseFunctionDeclaration() ast.Stmt {
	tok := p.curToken

	if !p.expectPeek(token.IDENT, "Expect function name.") {
		return nil
	}

	fn := p.parseFunction(tok, "function")
	if fn == nil {
		return nil
	}

	return fn
}

// parseFunction expects curToken on the function name. kind is "function" or
// "method" and only shapes the error messages.
func (p *Parser) parseFunction(tok token.Token, kind string) *ast.Function {
	fn := &ast.Function{Token: tok, Name: p.curToken}

	if !p.expectPeek(token.LPAREN, fmt.Sprintf("Expect '(' after %s name.", kind)) {
		return nil
	}

	fn.Params = p.parseFunctionParameters()
	if fn.Params == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE, fmt.Sprintf("Expect '{' before %s body.", kind)) {
		return nil
	}

	body, ok := p.parseBlock()
	if !ok {
		return nil
	}
	fn.Body = body

	return fn
}

func (p *Parser) parseFunctionParameters() []token.Token {
	params := []token.Token{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	for {
		if len(params) >= maxArgs {
			p.report(p.peekToken, fmt.Sprintf("Can't have more than %d parameters.", maxArgs))
		}
		if !p.expectPeek(token.IDENT, "Expect parameter name.") {
			return nil
		}
		params = append(params, p.curToken)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RPAREN, "Expect ')' after parameters.") {
		return nil
	}

	return params
}

func (p *Parser) parseVarDeclaration() ast.Stmt {
	stmt := &ast.Var{Token: p.curToken}

	if !p.expectPeek(token.IDENT, "Expect variable name.") {
		return nil
	}
	stmt.Name = p.curToken

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()

		stmt.Initializer = p.parseExpression(LOWEST)
		if stmt.Initializer == nil {
			return nil
		}
	}

	if !p.expectPeek(token.SEMICOLON, "Expect ';' after variable declaration.") {
		return nil
	}

	return stmt
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case token.FOR:
		return p.parseForStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.PRINT:
		return p.parsePrintStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.LBRACE:
		return p.parseBlockStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseForStatement desugars the loop into an optional initializer block
// around a while loop whose body runs the increment last.
func (p *Parser) parseForStatement() ast.Stmt {
	tok := p.curToken

	if !p.expectPeek(token.LPAREN, "Expect '(' after 'for'.") {
		return nil
	}
	p.nextToken()

	var initializer ast.Stmt
	switch p.curToken.Type {
	case token.SEMICOLON:
	case token.VAR:
		initializer = p.parseVarDeclaration()
	default:
		initializer = p.parseExpressionStatement()
	}
	if p.panicMode {
		return nil
	}

	var condition ast.Expr
	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		condition = p.parseExpression(LOWEST)
		if condition == nil {
			return nil
		}
	}
	if !p.expectPeek(token.SEMICOLON, "Expect ';' after loop condition.") {
		return nil
	}

	var increment ast.Expr
	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		increment = p.parseExpression(LOWEST)
		if increment == nil {
			return nil
		}
	}
	if !p.expectPeek(token.RPAREN, "Expect ')' after for clauses.") {
		return nil
	}
	p.nextToken()

	body := p.parseStatement()
	if body == nil {
		return nil
	}

	if increment != nil {
		body = &ast.Block{
			Token: tok,
			Statements: []ast.Stmt{
				body,
				&ast.Expression{Token: tok, Expression: increment},
			},
		}
	}

	if condition == nil {
		condition = &ast.Literal{Token: tok, Value: true}
	}
	body = &ast.While{Token: tok, Condition: condition, Body: body}

	if initializer != nil {
		body = &ast.Block{Token: tok, Statements: []ast.Stmt{initializer, body}}
	}

	return body
}

func (p *Parser) parseIfStatement() ast.Stmt {
	stmt := &ast.If{Token: p.curToken}

	if !p.expectPeek(token.LPAREN, "Expect '(' after 'if'.") {
		return nil
	}
	p.nextToken()

	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}

	if !p.expectPeek(token.RPAREN, "Expect ')' after if condition.") {
		return nil
	}
	p.nextToken()

	stmt.Then = p.parseStatement()
	if stmt.Then == nil {
		return nil
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()

		stmt.Else = p.parseStatement()
		if stmt.Else == nil {
			return nil
		}
	}

	return stmt
}

func (p *Parser) parsePrintStatement() ast.Stmt {
	stmt := &ast.Print{Token: p.curToken}

	p.nextToken()

	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}

	if !p.expectPeek(token.SEMICOLON, "Expect ';' after value.") {
		return nil
	}

	return stmt
}

func (p *Parser) parseReturnStatement() ast.Stmt {
	stmt := &ast.Return{Keyword: p.curToken}

	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()

		stmt.Value = p.parseExpression(LOWEST)
		if stmt.Value == nil {
			return nil
		}
	}

	if !p.expectPeek(token.SEMICOLON, "Expect ';' after return value.") {
		return nil
	}

	return stmt
}

func (p *Parser) parseWhileStatement() ast.Stmt {
	stmt := &ast.While{Token: p.curToken}

	if !p.expectPeek(token.LPAREN, "Expect '(' after 'while'.") {
		return nil
	}
	p.nextToken()

	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}

	if !p.expectPeek(token.RPAREN, "Expect ')' after condition.") {
		return nil
	}
	p.nextToken()

	stmt.Body = p.parseStatement()
	if stmt.Body == nil {
		return nil
	}

	return stmt
}

func (p *Parser) parseBlockStatement() ast.Stmt {
	tok := p.curToken

	statements, ok := p.parseBlock()
	if !ok {
		return nil
	}

	return &ast.Block{Token: tok, Statements: statements}
}

// parseBlock expects curToken on '{' and leaves it on the matching '}'.
// Declarations inside the block recover on their own, so only a missing
// closing brace fails the block.
func (p *Parser) parseBlock() ([]ast.Stmt, bool) {
	statements := []ast.Stmt{}

	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseDeclaration()
		if stmt != nil {
			statements = append(statements, stmt)
		}
		p.nextToken()
	}

	if !p.curTokenIs(token.RBRACE) {
		p.fail(p.curToken, "Expect '}' after block.")
		return nil, false
	}

	return statements, true
}

func (p *Parser) parseExpressionStatement() ast.Stmt {
	stmt := &ast.Expression{Token: p.curToken}

	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}

	if !p.expectPeek(token.SEMICOLON, "Expect ';' after expression.") {
		return nil
	}

	return stmt
}

func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError()
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}

	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}

	return LOWEST
}

func (p *Parser) parseVariable() ast.Expr {
	return &ast.Variable{ID: ast.NewID(), Name: p.curToken}
}

func (p *Parser) parseThis() ast.Expr {
	return &ast.This{ID: ast.NewID(), Keyword: p.curToken}
}

func (p *Parser) parseNumberLiteral() ast.Expr {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.fail(p.curToken, fmt.Sprintf("Could not parse %q as a number.", p.curToken.Literal))
		return nil
	}

	return &ast.Literal{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expr {
	return &ast.Literal{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolean() ast.Expr {
	return &ast.Literal{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNil() ast.Expr {
	return &ast.Literal{Token: p.curToken, Value: nil}
}

func (p *Parser) parsePrefixExpression() ast.Expr {
	expression := &ast.Unary{Operator: p.curToken}

	p.nextToken()

	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expr {
	expression := &ast.Grouping{Token: p.curToken}

	p.nextToken()

	expression.Expression = p.parseExpression(LOWEST)
	if expression.Expression == nil {
		return nil
	}

	if !p.expectPeek(token.RPAREN, "Expect ')' after expression.") {
		return nil
	}

	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expr) ast.Expr {
	expression := &ast.Binary{Left: left, Operator: p.curToken}

	precedence := p.curPrecedence()
	p.nextToken()

	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseLogicalExpression(left ast.Expr) ast.Expr {
	expression := &ast.Logical{Left: left, Operator: p.curToken}

	precedence := p.curPrecedence()
	p.nextToken()

	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

// parseAssignmentExpression is right-associative: the value is parsed at
// LOWEST so a chained '=' binds into it.
func (p *Parser) parseAssignmentExpression(left ast.Expr) ast.Expr {
	equals := p.curToken

	p.nextToken()

	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}

	switch target := left.(type) {
	case *ast.Variable:
		return &ast.Assign{ID: ast.NewID(), Name: target.Name, Value: value}
	case *ast.Get:
		return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
	}

	p.report(equals, "Invalid assignment target.")
	return left
}

func (p *Parser) parseCallExpression(callee ast.Expr) ast.Expr {
	arguments := []ast.Expr{}

	if !p.peekTokenIs(token.RPAREN) {
		for {
			p.nextToken()
			if len(arguments) >= maxArgs {
				p.report(p.curToken, fmt.Sprintf("Can't have more than %d arguments.", maxArgs))
			}

			arg := p.parseExpression(LOWEST)
			if arg == nil {
				return nil
			}
			arguments = append(arguments, arg)

			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
	}

	if !p.expectPeek(token.RPAREN, "Expect ')' after arguments.") {
		return nil
	}

	return &ast.Call{Callee: callee, Paren: p.curToken, Arguments: arguments}
}

func (p *Parser) parseGetExpression(object ast.Expr) ast.Expr {
	if !p.expectPeek(token.IDENT, "Expect property name after '.'.") {
		return nil
	}

	return &ast.Get{Object: object, Name: p.curToken}
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}
