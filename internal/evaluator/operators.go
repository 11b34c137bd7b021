package evaluator

import (
	"lox/internal/object"
	"lox/internal/token"
)

func (e *Evaluator) evalPrefixExpression(operator token.Token, right object.Object) (object.Object, error) {
	switch operator.Type {
	case token.BANG:
		return object.NativeBoolToBooleanObject(!isTruthy(right)), nil
	case token.MINUS:
		n, ok := right.(*object.Number)
		if !ok {
			return nil, object.NewRuntimeError(operator, "Operand must be a number.")
		}
		return &object.Number{Value: -n.Value}, nil
	default:
		return nil, object.NewRuntimeError(operator, "Unknown operator %s.", operator.Literal)
	}
}

func (e *Evaluator) evalInfixExpression(
	operator token.Token,
	left, right object.Object,
) (object.Object, error) {
	switch operator.Type {
	case token.EQ:
		return object.NativeBoolToBooleanObject(isEqual(left, right)), nil
	case token.NOT_EQ:
		return object.NativeBoolToBooleanObject(!isEqual(left, right)), nil
	case token.PLUS:
		return e.evalPlusExpression(operator, left, right)
	}

	l, lok := left.(*object.Number)
	r, rok := right.(*object.Number)
	if !lok || !rok {
		return nil, object.NewRuntimeError(operator, "Operands must be numbers.")
	}

	return e.evalNumberInfixExpression(operator, l.Value, r.Value)
}

// evalPlusExpression adds two numbers or concatenates two strings. Nothing
// is converted implicitly.
func (e *Evaluator) evalPlusExpression(
	operator token.Token,
	left, right object.Object,
) (object.Object, error) {
	switch l := left.(type) {
	case *object.Number:
		if r, ok := right.(*object.Number); ok {
			return &object.Number{Value: l.Value + r.Value}, nil
		}
	case *object.String:
		if r, ok := right.(*object.String); ok {
			return &object.String{Value: l.Value + r.Value}, nil
		}
	}
	return nil, object.NewRuntimeError(operator, "Operands must be two numbers or two strings.")
}

func (e *Evaluator) evalNumberInfixExpression(
	operator token.Token,
	leftVal, rightVal float64,
) (object.Object, error) {
	switch operator.Type {
	case token.MINUS:
		return &object.Number{Value: leftVal - rightVal}, nil
	case token.ASTERISK:
		return &object.Number{Value: leftVal * rightVal}, nil
	case token.SLASH:
		// IEEE semantics: division by zero yields an infinity or NaN
		return &object.Number{Value: leftVal / rightVal}, nil
	case token.LT:
		return object.NativeBoolToBooleanObject(leftVal < rightVal), nil
	case token.LT_EQ:
		return object.NativeBoolToBooleanObject(leftVal <= rightVal), nil
	case token.GT:
		return object.NativeBoolToBooleanObject(leftVal > rightVal), nil
	case token.GT_EQ:
		return object.NativeBoolToBooleanObject(leftVal >= rightVal), nil
	default:
		return nil, object.NewRuntimeError(operator, "Unknown operator %s.", operator.Literal)
	}
}

// isTruthy treats nil and false as falsey and everything else as truthy,
// including 0 and the empty string.
func isTruthy(obj object.Object) bool {
	switch obj := obj.(type) {
	case *object.Nil:
		return false
	case *object.Boolean:
		return obj.Value
	default:
		return true
	}
}

func isEqual(a, b object.Object) bool {
	switch a := a.(type) {
	case *object.Nil:
		_, ok := b.(*object.Nil)
		return ok
	case *object.Boolean:
		bb, ok := b.(*object.Boolean)
		return ok && a.Value == bb.Value
	case *object.Number:
		bn, ok := b.(*object.Number)
		return ok && a.Value == bn.Value
	case *object.String:
		bs, ok := b.(*object.String)
		return ok && a.Value == bs.Value
	default:
		// functions, classes and instances compare by identity
		return a == b
	}
}
