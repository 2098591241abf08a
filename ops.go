// ops.go — the operator capability protocol.
//
// Each capability (add, eq, pointer, ...) is a free function switching on the
// concrete variant pair of its evaluated operands. Any pair a capability does
// not handle falls through to a runtime type error naming the operand types
// and the attempted operation; that default-reject contract is what lets the
// evaluator dispatch every operator through one table without special-casing
// node pairs.
//
// All operands arriving here are already-evaluated value nodes, so "&&" and
// "||" cannot short-circuit: both sides were computed before dispatch.
package boomerang

import (
	"fmt"
	"math"
)

// binaryCapability maps an infix operator token to its capability function.
var binaryCapability = map[TokenType]func(op Token, left, right Expression) (Expression, error){
	PLUS:     opAdd,
	MINUS:    opSub,
	MULTIPLY: opMul,
	DIVIDE:   opDiv,
	MOD:      opMod,
	POW:      opPow,
	EQ:       opEq,
	NE:       opNe,
	GT:       opGt,
	GE:       opGe,
	LT:       opLt,
	LE:       opLe,
	AND:      opAnd,
	OR:       opOr,
	XOR:      opXor,
	POINTER:  opPointer,
	INDEX:    opIndex,
	IN:       opContains,
}

// compatibleTypes drives the pre-dispatch operand check for binary
// operations: mixed pairs like Number/Boolean are rejected before any
// capability runs. The check is compatibility-based, not exact-type-equality.
var compatibleTypes = map[string][]string{
	"Number":  {"Number"},
	"String":  {"String", "Output"},
	"Boolean": {"Boolean"},
	"List":    {"List"},
	"Output":  {"Output", "String"},
}

// crossTypeOperators are inherently heterogeneous (a Function receives a
// List, a List is indexed by a Number) and skip the compatibility table.
var crossTypeOperators = map[TokenType]bool{
	POINTER: true,
	INDEX:   true,
	IN:      true,
}

// CheckOperandCompatibility enforces the two-stage validation policy: it runs
// before capability dispatch and rejects incompatible operand types with an
// error naming both types and the operator.
func CheckOperandCompatibility(op Token, left, right Expression) error {
	if crossTypeOperators[op.Type] {
		return nil
	}
	leftName, rightName := TypeName(left), TypeName(right)

	compatible := compatibleTypes[leftName]
	if compatible == nil {
		compatible = []string{leftName}
	}
	for _, name := range compatible {
		if name == rightName {
			return nil
		}
	}
	return binaryTypeError(op, left, right)
}

func binaryTypeError(op Token, left, right Expression) error {
	return runtimeError(left.LineNumber(),
		"invalid types %s and %s for %s", TypeName(left), TypeName(right), op.Literal)
}

func unaryTypeError(op Token, operand Expression) error {
	return runtimeError(operand.LineNumber(),
		"invalid type %s for %s", TypeName(operand), op.Literal)
}

func divideByZeroError(line int) error {
	return runtimeError(line, "division by zero")
}

// ---------------------------------------------------------------------------
// Arithmetic
// ---------------------------------------------------------------------------

func opAdd(op Token, left, right Expression) (Expression, error) {
	switch l := left.(type) {
	case *Number:
		if r, ok := right.(*Number); ok {
			return NewNumber(l.Line, l.Value+r.Value), nil
		}
	case *String:
		if r, ok := right.(*String); ok {
			return NewString(l.Line, l.Value+r.Value), nil
		}
	case *List:
		if r, ok := right.(*List); ok {
			values := make([]Expression, 0, len(l.Values)+len(r.Values))
			values = append(values, l.Values...)
			values = append(values, r.Values...)
			return NewList(l.Line, values), nil
		}
	}
	return nil, binaryTypeError(op, left, right)
}

// opSub subtracts numbers; for lists it removes every element of the left
// list that is value-equal to any element of the right list.
func opSub(op Token, left, right Expression) (Expression, error) {
	switch l := left.(type) {
	case *Number:
		if r, ok := right.(*Number); ok {
			return NewNumber(l.Line, l.Value-r.Value), nil
		}
	case *List:
		if r, ok := right.(*List); ok {
			var values []Expression
			for _, v := range l.Values {
				remove := false
				for _, toRemove := range r.Values {
					if Equals(v, toRemove) {
						remove = true
						break
					}
				}
				if !remove {
					values = append(values, v)
				}
			}
			return NewList(l.Line, values), nil
		}
	}
	return nil, binaryTypeError(op, left, right)
}

func opMul(op Token, left, right Expression) (Expression, error) {
	if l, ok := left.(*Number); ok {
		if r, ok := right.(*Number); ok {
			return NewNumber(l.Line, l.Value*r.Value), nil
		}
	}
	return nil, binaryTypeError(op, left, right)
}

func opDiv(op Token, left, right Expression) (Expression, error) {
	if l, ok := left.(*Number); ok {
		if r, ok := right.(*Number); ok {
			if r.Value == 0 {
				return nil, divideByZeroError(l.Line)
			}
			return NewNumber(l.Line, l.Value/r.Value), nil
		}
	}
	return nil, binaryTypeError(op, left, right)
}

func opMod(op Token, left, right Expression) (Expression, error) {
	if l, ok := left.(*Number); ok {
		if r, ok := right.(*Number); ok {
			if r.Value == 0 {
				return nil, divideByZeroError(l.Line)
			}
			return NewNumber(l.Line, floatMod(l.Value, r.Value)), nil
		}
	}
	return nil, binaryTypeError(op, left, right)
}

func opPow(op Token, left, right Expression) (Expression, error) {
	if l, ok := left.(*Number); ok {
		if r, ok := right.(*Number); ok {
			return NewNumber(l.Line, math.Pow(l.Value, r.Value)), nil
		}
	}
	return nil, binaryTypeError(op, left, right)
}

// floatMod follows the sign of the divisor, matching the original language's
// modulo (-7 % 3 == 2).
func floatMod(a, b float64) float64 {
	m := a - b*float64(int64(a/b))
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// ---------------------------------------------------------------------------
// Equality and comparison
// ---------------------------------------------------------------------------

func opEq(op Token, left, right Expression) (Expression, error) {
	return NewBoolean(left.LineNumber(), Equals(left, right)), nil
}

func opNe(op Token, left, right Expression) (Expression, error) {
	return NewBoolean(left.LineNumber(), !Equals(left, right)), nil
}

func opGt(op Token, left, right Expression) (Expression, error) {
	return numberCompare(op, left, right, func(a, b float64) bool { return a > b })
}

func opGe(op Token, left, right Expression) (Expression, error) {
	return numberCompare(op, left, right, func(a, b float64) bool { return a >= b })
}

func opLt(op Token, left, right Expression) (Expression, error) {
	return numberCompare(op, left, right, func(a, b float64) bool { return a < b })
}

func opLe(op Token, left, right Expression) (Expression, error) {
	return numberCompare(op, left, right, func(a, b float64) bool { return a <= b })
}

func numberCompare(op Token, left, right Expression, cmp func(a, b float64) bool) (Expression, error) {
	if l, ok := left.(*Number); ok {
		if r, ok := right.(*Number); ok {
			return NewBoolean(l.Line, cmp(l.Value, r.Value)), nil
		}
	}
	return nil, binaryTypeError(op, left, right)
}

// ---------------------------------------------------------------------------
// Boolean logic
// ---------------------------------------------------------------------------

func opAnd(op Token, left, right Expression) (Expression, error) {
	return booleanLogic(op, left, right, func(a, b bool) bool { return a && b })
}

func opOr(op Token, left, right Expression) (Expression, error) {
	return booleanLogic(op, left, right, func(a, b bool) bool { return a || b })
}

func opXor(op Token, left, right Expression) (Expression, error) {
	return booleanLogic(op, left, right, func(a, b bool) bool { return a != b })
}

func booleanLogic(op Token, left, right Expression, apply func(a, b bool) bool) (Expression, error) {
	if l, ok := left.(*Boolean); ok {
		if r, ok := right.(*Boolean); ok {
			return NewBoolean(l.Line, apply(l.Value, r.Value)), nil
		}
	}
	return nil, binaryTypeError(op, left, right)
}

// ---------------------------------------------------------------------------
// Pointer, index, membership
// ---------------------------------------------------------------------------

// opPointer is the send operator. Sending a List into a Function or
// BuiltinFunction yields a FunctionCall for the evaluator to run. Sending
// into a List appends (another List concatenates). List operations are
// persistent: the left operand is never mutated, so results already recorded
// in evaluation history stay accurate.
func opPointer(op Token, left, right Expression) (Expression, error) {
	switch l := left.(type) {
	case *Function, *BuiltinFunction:
		if r, ok := right.(*List); ok {
			return NewFunctionCall(left.LineNumber(), left, r), nil
		}
	case *List:
		if r, ok := right.(*List); ok {
			return opAdd(op, l, r)
		}
		values := make([]Expression, 0, len(l.Values)+1)
		values = append(values, l.Values...)
		values = append(values, right)
		return NewList(l.Line, values), nil
	}
	return nil, binaryTypeError(op, left, right)
}

// opIndex indexes a list. Negative indices wrap around Python-style; the
// index must be a whole number and in range.
func opIndex(op Token, left, right Expression) (Expression, error) {
	l, ok := left.(*List)
	if !ok {
		return nil, binaryTypeError(op, left, right)
	}
	r, ok := right.(*Number)
	if !ok {
		return nil, binaryTypeError(op, left, right)
	}
	if !r.IsWholeNumber() {
		return nil, runtimeError(l.Line, "list index must be a whole number")
	}

	idx := int(r.Value)
	if idx < 0 {
		idx += len(l.Values)
	}
	if idx < 0 || idx >= len(l.Values) {
		return nil, runtimeError(l.Line, "list index %s is out of range", r)
	}
	return l.Values[idx], nil
}

func opContains(op Token, left, right Expression) (Expression, error) {
	r, ok := right.(*List)
	if !ok {
		return nil, binaryTypeError(op, left, right)
	}
	for _, v := range r.Values {
		if Equals(left, v) {
			return NewBoolean(left.LineNumber(), true), nil
		}
	}
	return NewBoolean(left.LineNumber(), false), nil
}

// ---------------------------------------------------------------------------
// Unary and postfix
// ---------------------------------------------------------------------------

// opAbs is unary "+": absolute value for numbers.
func opAbs(op Token, operand Expression) (Expression, error) {
	if n, ok := operand.(*Number); ok {
		value := n.Value
		if value < 0 {
			value = -value
		}
		return NewNumber(n.Line, value), nil
	}
	return nil, unaryTypeError(op, operand)
}

// opNeg is unary "-": numeric negation; for lists, reversal.
func opNeg(op Token, operand Expression) (Expression, error) {
	switch o := operand.(type) {
	case *Number:
		return NewNumber(o.Line, -o.Value), nil
	case *List:
		values := make([]Expression, len(o.Values))
		for i, v := range o.Values {
			values[len(o.Values)-1-i] = v
		}
		return NewList(o.Line, values), nil
	}
	return nil, unaryTypeError(op, operand)
}

// opNot is unary "!": boolean negation.
func opNot(op Token, operand Expression) (Expression, error) {
	if b, ok := operand.(*Boolean); ok {
		return NewBoolean(b.Line, !b.Value), nil
	}
	return nil, unaryTypeError(op, operand)
}

// opFactorial implements the postfix "!". The operand must be a whole
// number. A negative base reflects into the positive factorials offset by
// one: (-1)! == 2!, (-2)! == 3!, and so on.
func opFactorial(operand Expression) (Expression, error) {
	n, ok := operand.(*Number)
	if !ok {
		return nil, runtimeError(operand.LineNumber(),
			"invalid type %s for factorial", TypeName(operand))
	}
	if !n.IsWholeNumber() {
		return nil, runtimeError(n.Line, "expression for factorial must be whole number")
	}

	base := int64(n.Value)
	if base == 0 || base == 1 {
		return NewNumber(n.Line, 1), nil
	}

	start := base
	if base < 0 {
		start = -base + 1
	}

	result := 1.0
	for i := int64(2); i <= start; i++ {
		result *= float64(i)
	}
	return NewNumber(n.Line, result), nil
}

// runtimeError builds a language-level *RuntimeError (see evaluator.go).
func runtimeError(line int, format string, args ...interface{}) error {
	return &RuntimeError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
