package parser

import (
	"fmt"
	"lox/internal/ast"
	"lox/internal/lexer"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func parse(t *testing.T, input string) (*ast.Program, []string) {
	t.Helper()

	p := New(lexer.New(input))
	program := p.ParseProgram()

	var errs []string
	for _, d := range p.Errors() {
		errs = append(errs, d.Error())
	}
	return program, errs
}

func parseClean(t *testing.T, input string) *ast.Program {
	t.Helper()

	program, errs := parse(t, input)
	if len(errs) != 0 {
		t.Fatalf("parser had %d errors for %q:\n%s", len(errs), input, strings.Join(errs, "\n"))
	}
	return program
}

func TestOperatorPrecedenceParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-a * b;", "((-a) * b);"},
		{"!-a;", "(!(-a));"},
		{"a + b * c;", "(a + (b * c));"},
		{"a + b - c;", "((a + b) - c);"},
		{"a * b / c;", "((a * b) / c);"},
		{"a < b == c > d;", "((a < b) == (c > d));"},
		{"a <= b != c >= d;", "((a <= b) != (c >= d));"},
		{"a or b and c;", "(a or (b and c));"},
		{"a and b or c and d;", "((a and b) or (c and d));"},
		{"a == b or c;", "((a == b) or c);"},
		{"(a + b) * c;", "((group (a + b)) * c);"},
		{"a = b = c;", "a = b = c;"},
		{"a = b or c;", "a = (b or c);"},
		{"a.b.c(d)(e);", "a.b.c(d)(e);"},
		{"a.b = c + d;", "a.b = (c + d);"},
		{"a.b.c = d;", "a.b.c = d;"},
		{"add(a, b * c);", "add(a, (b * c));"},
		{"-f(x);", "(-f(x));"},
		{"1 + 2.5;", "(1 + 2.5);"},
		{`"hi" == nil;`, `("hi" == nil);`},
		{"true != false;", "(true != false);"},
		{"this.x;", "this.x;"},
	}

	for _, tt := range tests {
		program := parseClean(t, tt.input)
		if actual := program.String(); actual != tt.expected {
			t.Errorf("input %q: expected=%q, got=%q", tt.input, tt.expected, actual)
		}
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"var a;", "var a;"},
		{"var a = 1;", "var a = 1;"},
		{"print a;", "print a;"},
		{"{ var a = 1; print a; }", "{ var a = 1; print a; }"},
		{"if (a) print 1; else print 2;", "if a print 1; else print 2;"},
		{"while (a) a = a - 1;", "while a a = (a - 1);"},
		{"fun f(a, b) { return a + b; }", "fun f(a, b) { return (a + b); }"},
		{"fun f() { return; }", "fun f() { return; }"},
	}

	for _, tt := range tests {
		program := parseClean(t, tt.input)
		if actual := program.String(); actual != tt.expected {
			t.Errorf("input %q: expected=%q, got=%q", tt.input, tt.expected, actual)
		}
	}
}

func TestDanglingElseBindsToNearestIf(t *testing.T) {
	program := parseClean(t, "if (a) if (b) print 1; else print 2;")

	outer, ok := program.Statements[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", program.Statements[0])
	}
	if outer.Else != nil {
		t.Fatalf("outer if should have no else branch")
	}
	inner, ok := outer.Then.(*ast.If)
	if !ok {
		t.Fatalf("expected nested *ast.If, got %T", outer.Then)
	}
	if inner.Else == nil {
		t.Fatalf("inner if should own the else branch")
	}
}

func TestForLoopDesugaring(t *testing.T) {
	program := parseClean(t, "for (var i = 0; i < 3; i = i + 1) print i;")

	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}

	outer, ok := program.Statements[0].(*ast.Block)
	if !ok {
		t.Fatalf("expected *ast.Block around the loop, got %T", program.Statements[0])
	}
	if len(outer.Statements) != 2 {
		t.Fatalf("expected initializer and loop, got %d statements", len(outer.Statements))
	}
	if _, ok := outer.Statements[0].(*ast.Var); !ok {
		t.Errorf("expected initializer *ast.Var, got %T", outer.Statements[0])
	}

	loop, ok := outer.Statements[1].(*ast.While)
	if !ok {
		t.Fatalf("expected *ast.While, got %T", outer.Statements[1])
	}
	if loop.Condition.String() != "(i < 3)" {
		t.Errorf("unexpected condition %q", loop.Condition.String())
	}

	body, ok := loop.Body.(*ast.Block)
	if !ok {
		t.Fatalf("expected loop body *ast.Block, got %T", loop.Body)
	}
	if len(body.Statements) != 2 {
		t.Fatalf("expected body and increment, got %d statements", len(body.Statements))
	}
	if _, ok := body.Statements[0].(*ast.Print); !ok {
		t.Errorf("expected original body first, got %T", body.Statements[0])
	}
	if body.Statements[1].String() != "i = (i + 1);" {
		t.Errorf("expected increment last, got %q", body.Statements[1].String())
	}
}

func TestForLoopWithoutClauses(t *testing.T) {
	program := parseClean(t, "for (;;) print 1;")

	loop, ok := program.Statements[0].(*ast.While)
	if !ok {
		t.Fatalf("expected bare *ast.While, got %T", program.Statements[0])
	}
	cond, ok := loop.Condition.(*ast.Literal)
	if !ok || cond.Value != true {
		t.Errorf("missing condition should become literal true, got %s", loop.Condition)
	}
	if _, ok := loop.Body.(*ast.Print); !ok {
		t.Errorf("body without increment should not be wrapped, got %T", loop.Body)
	}
}

func TestClassDeclaration(t *testing.T) {
	program := parseClean(t, `
class Counter {
  init(start) { this.n = start; }
  inc() { this.n = this.n + 1; return this.n; }
}`)

	class, ok := program.Statements[0].(*ast.Class)
	if !ok {
		t.Fatalf("expected *ast.Class, got %T", program.Statements[0])
	}
	if class.Name.Literal != "Counter" {
		t.Errorf("expected class name Counter, got %q", class.Name.Literal)
	}

	var names []string
	for _, m := range class.Methods {
		names = append(names, fmt.Sprintf("%s/%d", m.Name.Literal, len(m.Params)))
	}
	if diff := cmp.Diff([]string{"init/1", "inc/0"}, names); diff != "" {
		t.Errorf("methods mismatch (-want +got):\n%s", diff)
	}
}

func TestReferencesGetDistinctIDs(t *testing.T) {
	program := parseClean(t, "a; a; a = 1; this;")

	seen := map[ast.NodeID]bool{}
	for _, s := range program.Statements {
		ref, ok := s.(*ast.Expression).Expression.(ast.Reference)
		if !ok {
			t.Fatalf("expected a reference, got %T", s.(*ast.Expression).Expression)
		}
		if ref.RefID() == 0 {
			t.Errorf("reference %s has zero id", ref)
		}
		if seen[ref.RefID()] {
			t.Errorf("id %d reused", ref.RefID())
		}
		seen[ref.RefID()] = true
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"var 1 = 2;", []string{"[line 1] Error at '1': Expect variable name."}},
		{"print 1", []string{"[line 1] Error at end: Expect ';' after value."}},
		{"print ;", []string{"[line 1] Error at ';': Expect expression."}},
		{"a + b = c;", []string{"[line 1] Error at '=': Invalid assignment target."}},
		{"foo(a, b", []string{"[line 1] Error at end: Expect ')' after arguments."}},
		{"obj.;", []string{"[line 1] Error at ';': Expect property name after '.'."}},
		{"return", []string{"[line 1] Error at end: Expect expression."}},
		{"class { }", []string{"[line 1] Error at '{': Expect class name."}},
		{"fun f(a, ) {}", []string{"[line 1] Error at ')': Expect parameter name."}},
		{"{ var a = 1;", []string{"[line 1] Error at end: Expect '}' after block."}},
		{`"abc`, []string{"[line 1] Error: Unterminated string."}},
		{"var a = 1 @ 2;", []string{
			"[line 1] Error: Unexpected character '@'.",
			"[line 1] Error at '2': Expect ';' after variable declaration.",
		}},
		{"var = 1;\nprint 2 3;\nvar ok = 1;", []string{
			"[line 1] Error at '=': Expect variable name.",
			"[line 2] Error at '3': Expect ';' after value.",
		}},
	}

	for _, tt := range tests {
		_, errs := parse(t, tt.input)
		if diff := cmp.Diff(tt.expected, errs); diff != "" {
			t.Errorf("input %q: errors mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestSynchronizeKeepsLaterStatements(t *testing.T) {
	program, errs := parse(t, "var = 1;\nprint 2 3;\nvar ok = 1;")
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}
	if len(program.Statements) != 1 {
		t.Fatalf("expected the trailing declaration to survive, got %d statements", len(program.Statements))
	}
	if program.Statements[0].String() != "var ok = 1;" {
		t.Errorf("unexpected surviving statement %q", program.Statements[0].String())
	}
}

func TestTooManyArguments(t *testing.T) {
	args := make([]string, 256)
	for i := range args {
		args[i] = fmt.Sprintf("a%d", i)
	}

	_, errs := parse(t, "f("+strings.Join(args, ", ")+");")
	want := []string{"[line 1] Error at 'a255': Can't have more than 255 arguments."}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestTooManyParameters(t *testing.T) {
	params := make([]string, 256)
	for i := range params {
		params[i] = fmt.Sprintf("p%d", i)
	}

	_, errs := parse(t, "fun f("+strings.Join(params, ", ")+") {}")
	want := []string{"[line 1] Error at 'p255': Can't have more than 255 parameters."}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}
