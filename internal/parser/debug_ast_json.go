package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"lox/internal/ast"
	"lox/internal/token"
	"reflect"
)

// WalkAST recursively traverses an AST and serializes it into a machine-centric map structure.
// Reference nodes carry their id so resolver output can be matched against the dump.
func WalkAST(node ast.Node) interface{} {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return nil
	}

	switch n := node.(type) {
	case *ast.Program:
		return map[string]interface{}{
			"type":       "Program",
			"statements": walkStatements(n.Statements),
		}

	case *ast.Block:
		return map[string]interface{}{
			"type":       "Block",
			"line":       n.Token.Line,
			"statements": walkStatements(n.Statements),
		}

	case *ast.Var:
		return map[string]interface{}{
			"type":        "Var",
			"line":        n.Token.Line,
			"name":        n.Name.Literal,
			"initializer": WalkAST(n.Initializer),
		}

	case *ast.Function:
		return map[string]interface{}{
			"type":   "Function",
			"line":   n.Name.Line,
			"name":   n.Name.Literal,
			"params": tokenLiterals(n.Params),
			"body":   walkStatements(n.Body),
		}

	case *ast.Class:
		methods := make([]interface{}, len(n.Methods))
		for i, m := range n.Methods {
			methods[i] = WalkAST(m)
		}
		return map[string]interface{}{
			"type":    "Class",
			"line":    n.Token.Line,
			"name":    n.Name.Literal,
			"methods": methods,
		}

	case *ast.If:
		return map[string]interface{}{
			"type":      "If",
			"line":      n.Token.Line,
			"condition": WalkAST(n.Condition),
			"then":      WalkAST(n.Then),
			"else":      WalkAST(n.Else),
		}

	case *ast.Print:
		return map[string]interface{}{
			"type":       "Print",
			"line":       n.Token.Line,
			"expression": WalkAST(n.Expression),
		}

	case *ast.Return:
		return map[string]interface{}{
			"type":  "Return",
			"line":  n.Keyword.Line,
			"value": WalkAST(n.Value),
		}

	case *ast.While:
		return map[string]interface{}{
			"type":      "While",
			"line":      n.Token.Line,
			"condition": WalkAST(n.Condition),
			"body":      WalkAST(n.Body),
		}

	case *ast.Expression:
		return map[string]interface{}{
			"type":       "Expression",
			"line":       n.Token.Line,
			"expression": WalkAST(n.Expression),
		}

	case *ast.Variable:
		return map[string]interface{}{
			"type": "Variable",
			"id":   uint64(n.ID),
			"line": n.Name.Line,
			"name": n.Name.Literal,
		}

	case *ast.Assign:
		return map[string]interface{}{
			"type":  "Assign",
			"id":    uint64(n.ID),
			"line":  n.Name.Line,
			"name":  n.Name.Literal,
			"value": WalkAST(n.Value),
		}

	case *ast.This:
		return map[string]interface{}{
			"type": "This",
			"id":   uint64(n.ID),
			"line": n.Keyword.Line,
		}

	case *ast.Call:
		args := make([]interface{}, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = WalkAST(a)
		}
		return map[string]interface{}{
			"type":      "Call",
			"line":      n.Paren.Line,
			"callee":    WalkAST(n.Callee),
			"arguments": args,
		}

	case *ast.Get:
		return map[string]interface{}{
			"type":   "Get",
			"line":   n.Name.Line,
			"object": WalkAST(n.Object),
			"name":   n.Name.Literal,
		}

	case *ast.Set:
		return map[string]interface{}{
			"type":   "Set",
			"line":   n.Name.Line,
			"object": WalkAST(n.Object),
			"name":   n.Name.Literal,
			"value":  WalkAST(n.Value),
		}

	case *ast.Logical:
		return map[string]interface{}{
			"type":     "Logical",
			"operator": n.Operator.Literal,
			"left":     WalkAST(n.Left),
			"right":    WalkAST(n.Right),
		}

	case *ast.Binary:
		return map[string]interface{}{
			"type":     "Binary",
			"operator": n.Operator.Literal,
			"left":     WalkAST(n.Left),
			"right":    WalkAST(n.Right),
		}

	case *ast.Unary:
		return map[string]interface{}{
			"type":     "Unary",
			"operator": n.Operator.Literal,
			"right":    WalkAST(n.Right),
		}

	case *ast.Literal:
		return map[string]interface{}{
			"type":  "Literal",
			"value": n.Value,
		}

	case *ast.Grouping:
		return map[string]interface{}{
			"type":       "Grouping",
			"expression": WalkAST(n.Expression),
		}

	default:
		return map[string]interface{}{
			"type": "Unknown",
			"node": fmt.Sprintf("%T", n),
		}
	}
}

func walkStatements(stmts []ast.Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = WalkAST(s)
	}
	return result
}

func tokenLiterals(tokens []token.Token) []string {
	result := make([]string, len(tokens))
	for i, t := range tokens {
		result[i] = t.Literal
	}
	return result
}

func RenderASTAsJSON(node ast.Node) (string, error) {
	astMap := WalkAST(node)
	buf := new(bytes.Buffer)
	encoder := json.NewEncoder(buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(astMap); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %v", err)
	}
	return buf.String(), nil
}
