package parser

import (
	"fmt"
	"lox/internal/ast"
	"reflect"
	"strings"
)

// RenderASTAsText produces a human-centric, indented, Lox-like representation of the AST.
// Binary and logical expressions are fully parenthesised so precedence is visible,
// and references show their node id as name#id.
func RenderASTAsText(node ast.Node, indent int) string {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return "nil"
	}

	sp := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.Program:
		var sb strings.Builder
		for i, s := range n.Statements {
			if i > 0 {
				sb.WriteString("\n")
			}
			// Root level statements start at indent 0
			sb.WriteString(RenderASTAsText(s, 0))
		}
		return sb.String()

	case *ast.Block:
		return sp + renderBody(n.Statements, indent)

	case *ast.Var:
		if n.Initializer == nil {
			return fmt.Sprintf("%svar %s;", sp, n.Name.Literal)
		}
		return fmt.Sprintf("%svar %s = %s;", sp, n.Name.Literal, RenderASTAsText(n.Initializer, 0))

	case *ast.Function:
		return sp + renderFunction(n, "fun ", indent)

	case *ast.Class:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%sclass %s {\n", sp, n.Name.Literal))
		for _, m := range n.Methods {
			sb.WriteString(strings.Repeat("  ", indent+1))
			sb.WriteString(renderFunction(m, "", indent+1))
			sb.WriteString("\n")
		}
		sb.WriteString(sp + "}")
		return sb.String()

	case *ast.If:
		out := fmt.Sprintf("%sif (%s)\n%s", sp, RenderASTAsText(n.Condition, 0), RenderASTAsText(n.Then, indent+1))
		if n.Else != nil {
			out += fmt.Sprintf("\n%selse\n%s", sp, RenderASTAsText(n.Else, indent+1))
		}
		return out

	case *ast.Print:
		return fmt.Sprintf("%sprint %s;", sp, RenderASTAsText(n.Expression, 0))

	case *ast.Return:
		if n.Value == nil {
			return sp + "return;"
		}
		return fmt.Sprintf("%sreturn %s;", sp, RenderASTAsText(n.Value, 0))

	case *ast.While:
		return fmt.Sprintf("%swhile (%s)\n%s", sp, RenderASTAsText(n.Condition, 0), RenderASTAsText(n.Body, indent+1))

	case *ast.Expression:
		// The statement handles the line's starting indentation
		return sp + RenderASTAsText(n.Expression, 0) + ";"

	case *ast.Variable:
		return fmt.Sprintf("%s#%d", n.Name.Literal, n.ID)

	case *ast.Assign:
		return fmt.Sprintf("(%s#%d = %s)", n.Name.Literal, n.ID, RenderASTAsText(n.Value, 0))

	case *ast.This:
		return fmt.Sprintf("this#%d", n.ID)

	case *ast.Call:
		args := []string{}
		for _, a := range n.Arguments {
			args = append(args, RenderASTAsText(a, 0))
		}
		return fmt.Sprintf("%s(%s)", RenderASTAsText(n.Callee, 0), strings.Join(args, ", "))

	case *ast.Get:
		return RenderASTAsText(n.Object, 0) + "." + n.Name.Literal

	case *ast.Set:
		return fmt.Sprintf("(%s.%s = %s)", RenderASTAsText(n.Object, 0), n.Name.Literal, RenderASTAsText(n.Value, 0))

	case *ast.Logical:
		return fmt.Sprintf("(%s %s %s)", RenderASTAsText(n.Left, 0), n.Operator.Literal, RenderASTAsText(n.Right, 0))

	case *ast.Binary:
		return fmt.Sprintf("(%s %s %s)", RenderASTAsText(n.Left, 0), n.Operator.Literal, RenderASTAsText(n.Right, 0))

	case *ast.Unary:
		return fmt.Sprintf("(%s%s)", n.Operator.Literal, RenderASTAsText(n.Right, 0))

	case *ast.Literal:
		return n.String()

	case *ast.Grouping:
		return fmt.Sprintf("(group %s)", RenderASTAsText(n.Expression, 0))

	default:
		return fmt.Sprintf("<unknown:%T>", n)
	}
}

func renderFunction(fn *ast.Function, keyword string, indent int) string {
	params := []string{}
	for _, p := range fn.Params {
		params = append(params, p.Literal)
	}
	// Body block aligns its closing brace with 'indent'
	return fmt.Sprintf("%s%s(%s) %s", keyword, fn.Name.Literal, strings.Join(params, ", "), renderBody(fn.Body, indent))
}

func renderBody(stmts []ast.Stmt, indent int) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range stmts {
		// Statements inside the block are indented +1
		sb.WriteString(RenderASTAsText(s, indent+1))
		sb.WriteString("\n")
	}
	// The closing brace aligns with the parent's indent
	sb.WriteString(strings.Repeat("  ", indent) + "}")
	return sb.String()
}
