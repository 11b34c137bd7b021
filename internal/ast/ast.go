package ast

import (
	"bytes"
	"fmt"
	"lox/internal/token"
	"strconv"
	"strings"
	"sync/atomic"
)

// NodeID identifies a variable-reference node for the lifetime of the process.
// IDs are never reused, so resolutions from separate REPL entries can share a
// single table.
type NodeID uint64

var nextID atomic.Uint64

func NewID() NodeID {
	return NodeID(nextID.Add(1))
}

// The base Node interface
type Node interface {
	TokenLiteral() string
	String() string
}

// Expr is sealed: only the shapes declared in this package implement it.
type Expr interface {
	Node
	exprNode()
}

// Stmt is sealed: only the shapes declared in this package implement it.
type Stmt interface {
	Node
	stmtNode()
}

// Reference is implemented by expressions that name a binding and therefore
// receive a hop distance from the resolver.
type Reference interface {
	Expr
	RefID() NodeID
	RefName() token.Token
}

type Program struct {
	Statements []Stmt
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	} else {
		return ""
	}
}

func (p *Program) String() string {
	var out bytes.Buffer

	for _, s := range p.Statements {
		out.WriteString(s.String())
	}

	return out.String()
}

// Expressions

type Variable struct {
	ID   NodeID
	Name token.Token
}

func (v *Variable) exprNode()            {}
func (v *Variable) TokenLiteral() string { return v.Name.Literal }
func (v *Variable) String() string       { return v.Name.Literal }
func (v *Variable) RefID() NodeID        { return v.ID }
func (v *Variable) RefName() token.Token { return v.Name }

type Assign struct {
	ID    NodeID
	Name  token.Token
	Value Expr
}

func (a *Assign) exprNode()            {}
func (a *Assign) TokenLiteral() string { return a.Name.Literal }
func (a *Assign) String() string       { return a.Name.Literal + " = " + a.Value.String() }
func (a *Assign) RefID() NodeID        { return a.ID }
func (a *Assign) RefName() token.Token { return a.Name }

type This struct {
	ID      NodeID
	Keyword token.Token
}

func (t *This) exprNode()            {}
func (t *This) TokenLiteral() string { return t.Keyword.Literal }
func (t *This) String() string       { return "this" }
func (t *This) RefID() NodeID        { return t.ID }
func (t *This) RefName() token.Token { return t.Keyword }

type Call struct {
	Callee    Expr
	Paren     token.Token // the closing paren, used to report call errors
	Arguments []Expr
}

func (c *Call) exprNode()            {}
func (c *Call) TokenLiteral() string { return c.Paren.Literal }
func (c *Call) String() string {
	var out bytes.Buffer

	args := []string{}
	for _, a := range c.Arguments {
		args = append(args, a.String())
	}

	out.WriteString(c.Callee.String())
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")

	return out.String()
}

type Get struct {
	Object Expr
	Name   token.Token
}

func (g *Get) exprNode()            {}
func (g *Get) TokenLiteral() string { return g.Name.Literal }
func (g *Get) String() string       { return g.Object.String() + "." + g.Name.Literal }

type Set struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

func (s *Set) exprNode()            {}
func (s *Set) TokenLiteral() string { return s.Name.Literal }
func (s *Set) String() string {
	return s.Object.String() + "." + s.Name.Literal + " = " + s.Value.String()
}

type Logical struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (l *Logical) exprNode()            {}
func (l *Logical) TokenLiteral() string { return l.Operator.Literal }
func (l *Logical) String() string {
	return "(" + l.Left.String() + " " + l.Operator.Literal + " " + l.Right.String() + ")"
}

type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (b *Binary) exprNode()            {}
func (b *Binary) TokenLiteral() string { return b.Operator.Literal }
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Operator.Literal + " " + b.Right.String() + ")"
}

type Unary struct {
	Operator token.Token
	Right    Expr
}

func (u *Unary) exprNode()            {}
func (u *Unary) TokenLiteral() string { return u.Operator.Literal }
func (u *Unary) String() string       { return "(" + u.Operator.Literal + u.Right.String() + ")" }

// Literal holds nil, bool, float64 or string.
type Literal struct {
	Token token.Token
	Value any
}

func (l *Literal) exprNode()            {}
func (l *Literal) TokenLiteral() string { return l.Token.Literal }
func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

type Grouping struct {
	Token      token.Token // the ( token
	Expression Expr
}

func (g *Grouping) exprNode()            {}
func (g *Grouping) TokenLiteral() string { return g.Token.Literal }
func (g *Grouping) String() string       { return "(group " + g.Expression.String() + ")" }

// Statements

type Block struct {
	Token      token.Token // the { token
	Statements []Stmt
}

func (b *Block) stmtNode()            {}
func (b *Block) TokenLiteral() string { return b.Token.Literal }
func (b *Block) String() string {
	var out bytes.Buffer

	out.WriteString("{ ")
	for _, s := range b.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")

	return out.String()
}

type Var struct {
	Token       token.Token // the 'var' token
	Name        token.Token
	Initializer Expr // may be nil
}

func (vs *Var) stmtNode()            {}
func (vs *Var) TokenLiteral() string { return vs.Token.Literal }
func (vs *Var) String() string {
	var out bytes.Buffer

	out.WriteString("var ")
	out.WriteString(vs.Name.Literal)

	if vs.Initializer != nil {
		out.WriteString(" = ")
		out.WriteString(vs.Initializer.String())
	}

	out.WriteString(";")

	return out.String()
}

// Function is shared by every closure created from it and is never mutated
// after parsing.
type Function struct {
	Token  token.Token // the 'fun' token, or the method name inside a class
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

func (fd *Function) stmtNode()            {}
func (fd *Function) TokenLiteral() string { return fd.Token.Literal }
func (fd *Function) String() string {
	var out bytes.Buffer

	params := []string{}
	for _, p := range fd.Params {
		params = append(params, p.Literal)
	}

	out.WriteString("fun ")
	out.WriteString(fd.Name.Literal)
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") { ")
	for _, s := range fd.Body {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")

	return out.String()
}

type Class struct {
	Token   token.Token // the 'class' token
	Name    token.Token
	Methods []*Function
}

func (c *Class) stmtNode()            {}
func (c *Class) TokenLiteral() string { return c.Token.Literal }
func (c *Class) String() string {
	var out bytes.Buffer

	out.WriteString("class ")
	out.WriteString(c.Name.Literal)
	out.WriteString(" { ")
	for _, m := range c.Methods {
		out.WriteString(m.String())
		out.WriteString(" ")
	}
	out.WriteString("}")

	return out.String()
}

type If struct {
	Token     token.Token // the 'if' token
	Condition Expr
	Then      Stmt
	Else      Stmt // may be nil
}

func (is *If) stmtNode()            {}
func (is *If) TokenLiteral() string { return is.Token.Literal }
func (is *If) String() string {
	var out bytes.Buffer

	out.WriteString("if ")
	out.WriteString(is.Condition.String())
	out.WriteString(" ")
	out.WriteString(is.Then.String())

	if is.Else != nil {
		out.WriteString(" else ")
		out.WriteString(is.Else.String())
	}

	return out.String()
}

type Print struct {
	Token      token.Token // the 'print' token
	Expression Expr
}

func (ps *Print) stmtNode()            {}
func (ps *Print) TokenLiteral() string { return ps.Token.Literal }
func (ps *Print) String() string       { return "print " + ps.Expression.String() + ";" }

type Return struct {
	Keyword token.Token // the 'return' token
	Value   Expr        // may be nil
}

func (rs *Return) stmtNode()            {}
func (rs *Return) TokenLiteral() string { return rs.Keyword.Literal }
func (rs *Return) String() string {
	var out bytes.Buffer

	out.WriteString(rs.TokenLiteral())

	if rs.Value != nil {
		out.WriteString(" ")
		out.WriteString(rs.Value.String())
	}

	out.WriteString(";")

	return out.String()
}

type While struct {
	Token     token.Token // the 'while' or 'for' token
	Condition Expr
	Body      Stmt
}

func (ws *While) stmtNode()            {}
func (ws *While) TokenLiteral() string { return ws.Token.Literal }
func (ws *While) String() string {
	return "while " + ws.Condition.String() + " " + ws.Body.String()
}

type Expression struct {
	Token      token.Token // the first token of the expression
	Expression Expr
}

func (es *Expression) stmtNode()            {}
func (es *Expression) TokenLiteral() string { return es.Token.Literal }
func (es *Expression) String() string {
	if es.Expression != nil {
		return es.Expression.String() + ";"
	}
	return ""
}
