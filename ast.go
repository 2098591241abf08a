// ast.go — Boomerang expression tree.
//
// Every value the evaluator produces is itself an AST node, so the node model
// doubles as the runtime value model. The set of variants is closed: the
// evaluator and the capability functions in ops.go switch over these concrete
// types, and an unknown variant there is an interpreter bug, not user error.
//
// Every node carries the 1-based source line where it was parsed. Values
// substituted during evaluation (identifier lookups) are re-stamped with the
// line of the use site.
package boomerang

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is the closed interface over all AST variants.
//
// LineNumber/WithLine expose the source-position invariant; Clone produces a
// deep copy so evaluation history never aliases live bindings; String renders
// the value with its user-facing display rule.
type Expression interface {
	LineNumber() int
	WithLine(line int) Expression
	Clone() Expression
	String() string
}

// TypeName returns the user-facing name of a node's type, as used in runtime
// type errors ("invalid types Number and Boolean for ==").
func TypeName(e Expression) string {
	switch e.(type) {
	case *Number:
		return "Number"
	case *String:
		return "String"
	case *Boolean:
		return "Boolean"
	case *List:
		return "List"
	case *Identifier:
		return "Identifier"
	case *Function:
		return "Function"
	case *FunctionCall:
		return "FunctionCall"
	case *BuiltinFunction:
		return "BuiltinFunction"
	case *UnaryExpression:
		return "UnaryExpression"
	case *BinaryExpression:
		return "BinaryExpression"
	case *Factorial:
		return "Factorial"
	case *Assignment:
		return "Assignment"
	case *When:
		return "When"
	case *Error:
		return "Error"
	case *Output:
		return "Output"
	default:
		panic(fmt.Sprintf("TypeName: unknown expression type %T", e))
	}
}

// ---------------------------------------------------------------------------
// Literals
// ---------------------------------------------------------------------------

// Number is a float-backed numeric value. Whole numbers display without a
// decimal point.
type Number struct {
	Line  int
	Value float64
}

func NewNumber(line int, value float64) *Number { return &Number{Line: line, Value: value} }

func (n *Number) LineNumber() int { return n.Line }
func (n *Number) WithLine(line int) Expression {
	return &Number{Line: line, Value: n.Value}
}
func (n *Number) Clone() Expression { return &Number{Line: n.Line, Value: n.Value} }

// IsWholeNumber reports whether the value has no fractional part.
func (n *Number) IsWholeNumber() bool { return n.Value == float64(int64(n.Value)) }

func (n *Number) String() string {
	if n.IsWholeNumber() {
		return strconv.FormatInt(int64(n.Value), 10)
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// String is a text value. Display shows the surrounding quotes.
type String struct {
	Line  int
	Value string
}

func NewString(line int, value string) *String { return &String{Line: line, Value: value} }

func (s *String) LineNumber() int              { return s.Line }
func (s *String) WithLine(line int) Expression { return &String{Line: line, Value: s.Value} }
func (s *String) Clone() Expression            { return &String{Line: s.Line, Value: s.Value} }
func (s *String) String() string               { return "\"" + s.Value + "\"" }

type Boolean struct {
	Line  int
	Value bool
}

func NewBoolean(line int, value bool) *Boolean { return &Boolean{Line: line, Value: value} }

func (b *Boolean) LineNumber() int              { return b.Line }
func (b *Boolean) WithLine(line int) Expression { return &Boolean{Line: line, Value: b.Value} }
func (b *Boolean) Clone() Expression            { return &Boolean{Line: b.Line, Value: b.Value} }
func (b *Boolean) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// List is an ordered sequence of expressions. List literals are written with
// parentheses: "()", "(1,)" is not needed; "(1, 2)" has two elements.
type List struct {
	Line   int
	Values []Expression
}

func NewList(line int, values []Expression) *List { return &List{Line: line, Values: values} }

func (l *List) LineNumber() int { return l.Line }
func (l *List) WithLine(line int) Expression {
	return &List{Line: line, Values: l.Values}
}
func (l *List) Clone() Expression {
	values := make([]Expression, len(l.Values))
	for i, v := range l.Values {
		values[i] = v.Clone()
	}
	return &List{Line: l.Line, Values: values}
}
func (l *List) String() string {
	parts := make([]string, len(l.Values))
	for i, v := range l.Values {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ---------------------------------------------------------------------------
// Identifiers, functions, builtins
// ---------------------------------------------------------------------------

// Identifier references a variable or function binding by name.
type Identifier struct {
	Line int
	Name string
}

func NewIdentifier(line int, name string) *Identifier { return &Identifier{Line: line, Name: name} }

func (i *Identifier) LineNumber() int              { return i.Line }
func (i *Identifier) WithLine(line int) Expression { return &Identifier{Line: line, Name: i.Name} }
func (i *Identifier) Clone() Expression            { return &Identifier{Line: i.Line, Name: i.Name} }
func (i *Identifier) String() string               { return i.Name }

// Function is a function literal. It captures no environment: free variables
// in the body resolve against whatever scope chain is active at call time.
type Function struct {
	Line       int
	Parameters []*Identifier
	Body       Expression
}

func NewFunction(line int, params []*Identifier, body Expression) *Function {
	return &Function{Line: line, Parameters: params, Body: body}
}

func (f *Function) LineNumber() int { return f.Line }
func (f *Function) WithLine(line int) Expression {
	return &Function{Line: line, Parameters: f.Parameters, Body: f.Body}
}
func (f *Function) Clone() Expression {
	params := make([]*Identifier, len(f.Parameters))
	for i, p := range f.Parameters {
		params[i] = p.Clone().(*Identifier)
	}
	return &Function{Line: f.Line, Parameters: params, Body: f.Body.Clone()}
}
func (f *Function) String() string { return "<function>" }

// FunctionCall is produced when a Function or BuiltinFunction receives a List
// through the pointer operator: "f <- (1, 2)".
type FunctionCall struct {
	Line      int
	Function  Expression
	Arguments *List
}

func NewFunctionCall(line int, function Expression, args *List) *FunctionCall {
	return &FunctionCall{Line: line, Function: function, Arguments: args}
}

func (c *FunctionCall) LineNumber() int { return c.Line }
func (c *FunctionCall) WithLine(line int) Expression {
	return &FunctionCall{Line: line, Function: c.Function, Arguments: c.Arguments}
}
func (c *FunctionCall) Clone() Expression {
	return &FunctionCall{Line: c.Line, Function: c.Function.Clone(), Arguments: c.Arguments.Clone().(*List)}
}
func (c *FunctionCall) String() string { return "<function call>" }

// BuiltinFunction names one of the fixed interpreter-implemented functions.
type BuiltinFunction struct {
	Line int
	Name string
}

func NewBuiltinFunction(line int, name string) *BuiltinFunction {
	return &BuiltinFunction{Line: line, Name: name}
}

func (b *BuiltinFunction) LineNumber() int { return b.Line }
func (b *BuiltinFunction) WithLine(line int) Expression {
	return &BuiltinFunction{Line: line, Name: b.Name}
}
func (b *BuiltinFunction) Clone() Expression { return &BuiltinFunction{Line: b.Line, Name: b.Name} }
func (b *BuiltinFunction) String() string    { return "<built-in function " + b.Name + ">" }

// ---------------------------------------------------------------------------
// Operators
// ---------------------------------------------------------------------------

type UnaryExpression struct {
	Line     int
	Operator Token
	Operand  Expression
}

func NewUnaryExpression(line int, op Token, operand Expression) *UnaryExpression {
	return &UnaryExpression{Line: line, Operator: op, Operand: operand}
}

func (u *UnaryExpression) LineNumber() int { return u.Line }
func (u *UnaryExpression) WithLine(line int) Expression {
	return &UnaryExpression{Line: line, Operator: u.Operator, Operand: u.Operand}
}
func (u *UnaryExpression) Clone() Expression {
	return &UnaryExpression{Line: u.Line, Operator: u.Operator, Operand: u.Operand.Clone()}
}
func (u *UnaryExpression) String() string { return u.Operator.Literal + u.Operand.String() }

type BinaryExpression struct {
	Line     int
	Operator Token
	Left     Expression
	Right    Expression
}

func NewBinaryExpression(line int, left Expression, op Token, right Expression) *BinaryExpression {
	return &BinaryExpression{Line: line, Operator: op, Left: left, Right: right}
}

func (b *BinaryExpression) LineNumber() int { return b.Line }
func (b *BinaryExpression) WithLine(line int) Expression {
	return &BinaryExpression{Line: line, Operator: b.Operator, Left: b.Left, Right: b.Right}
}
func (b *BinaryExpression) Clone() Expression {
	return &BinaryExpression{Line: b.Line, Operator: b.Operator, Left: b.Left.Clone(), Right: b.Right.Clone()}
}
func (b *BinaryExpression) String() string {
	return b.Left.String() + " " + b.Operator.Literal + " " + b.Right.String()
}

// Factorial is the postfix "!" operator.
type Factorial struct {
	Line    int
	Operand Expression
}

func NewFactorial(line int, operand Expression) *Factorial {
	return &Factorial{Line: line, Operand: operand}
}

func (f *Factorial) LineNumber() int              { return f.Line }
func (f *Factorial) WithLine(line int) Expression { return &Factorial{Line: line, Operand: f.Operand} }
func (f *Factorial) Clone() Expression {
	return &Factorial{Line: f.Line, Operand: f.Operand.Clone()}
}
func (f *Factorial) String() string { return f.Operand.String() + "!" }

// ---------------------------------------------------------------------------
// Statements-as-expressions
// ---------------------------------------------------------------------------

// Assignment binds a value to a name in the innermost scope. Assignment is an
// expression and yields the assigned value, so "x = y = z = 2" chains.
type Assignment struct {
	Line     int
	Variable string
	Value    Expression
}

func NewAssignment(line int, variable string, value Expression) *Assignment {
	return &Assignment{Line: line, Variable: variable, Value: value}
}

func (a *Assignment) LineNumber() int { return a.Line }
func (a *Assignment) WithLine(line int) Expression {
	return &Assignment{Line: line, Variable: a.Variable, Value: a.Value}
}
func (a *Assignment) Clone() Expression {
	return &Assignment{Line: a.Line, Variable: a.Variable, Value: a.Value.Clone()}
}
func (a *Assignment) String() string { return a.Variable + " = " + a.Value.String() }

// CaseExpression is one "is condition: result" pair of a when expression.
type CaseExpression struct {
	Condition Expression
	Result    Expression
}

// When is the combined if/else-if and switch construct. The final case is the
// mandatory else branch; its condition is a copy of the subject (or the
// literal true in if/else form), re-stamped to the else line.
type When struct {
	Line    int
	Subject Expression
	Cases   []CaseExpression
}

func NewWhen(line int, subject Expression, cases []CaseExpression) *When {
	return &When{Line: line, Subject: subject, Cases: cases}
}

func (w *When) LineNumber() int { return w.Line }
func (w *When) WithLine(line int) Expression {
	return &When{Line: line, Subject: w.Subject, Cases: w.Cases}
}
func (w *When) Clone() Expression {
	cases := make([]CaseExpression, len(w.Cases))
	for i, c := range w.Cases {
		cases[i] = CaseExpression{Condition: c.Condition.Clone(), Result: c.Result.Clone()}
	}
	return &When{Line: w.Line, Subject: w.Subject.Clone(), Cases: cases}
}
func (w *When) String() string { return "<when>" }

// Error is a language-level runtime error surfaced as a result value. It is
// not a parse failure and not an interpreter bug.
type Error struct {
	Line    int
	Message string
}

func NewError(line int, message string) *Error { return &Error{Line: line, Message: message} }

func (e *Error) LineNumber() int              { return e.Line }
func (e *Error) WithLine(line int) Expression { return &Error{Line: line, Message: e.Message} }
func (e *Error) Clone() Expression            { return &Error{Line: e.Line, Message: e.Message} }
func (e *Error) String() string               { return e.Message }

// Output is one line of console output produced by the print builtin,
// captured as a first-class value so REPL and web layers can interleave it
// with statement results.
type Output struct {
	Line int
	Text string
}

func NewOutput(line int, text string) *Output { return &Output{Line: line, Text: text} }

func (o *Output) LineNumber() int              { return o.Line }
func (o *Output) WithLine(line int) Expression { return &Output{Line: line, Text: o.Text} }
func (o *Output) Clone() Expression            { return &Output{Line: o.Line, Text: o.Text} }
func (o *Output) String() string               { return o.Text }

// ---------------------------------------------------------------------------
// Structural equality
// ---------------------------------------------------------------------------

// Equals compares two expressions structurally. Line numbers never
// participate: "1" on line 1 equals "1" on line 9. Function equality compares
// parameters and body structurally (there is no captured environment to
// compare).
func Equals(a, b Expression) bool {
	switch x := a.(type) {
	case *Number:
		y, ok := b.(*Number)
		return ok && x.Value == y.Value
	case *String:
		switch y := b.(type) {
		case *String:
			return x.Value == y.Value
		case *Output:
			return x.Value == y.Text
		}
		return false
	case *Boolean:
		y, ok := b.(*Boolean)
		return ok && x.Value == y.Value
	case *List:
		y, ok := b.(*List)
		if !ok || len(x.Values) != len(y.Values) {
			return false
		}
		for i := range x.Values {
			if !Equals(x.Values[i], y.Values[i]) {
				return false
			}
		}
		return true
	case *Identifier:
		y, ok := b.(*Identifier)
		return ok && x.Name == y.Name
	case *Function:
		y, ok := b.(*Function)
		if !ok || len(x.Parameters) != len(y.Parameters) {
			return false
		}
		for i := range x.Parameters {
			if x.Parameters[i].Name != y.Parameters[i].Name {
				return false
			}
		}
		return Equals(x.Body, y.Body)
	case *FunctionCall:
		y, ok := b.(*FunctionCall)
		return ok && Equals(x.Function, y.Function) && Equals(x.Arguments, y.Arguments)
	case *BuiltinFunction:
		y, ok := b.(*BuiltinFunction)
		return ok && x.Name == y.Name
	case *UnaryExpression:
		y, ok := b.(*UnaryExpression)
		return ok && x.Operator.Type == y.Operator.Type && Equals(x.Operand, y.Operand)
	case *BinaryExpression:
		y, ok := b.(*BinaryExpression)
		return ok && x.Operator.Type == y.Operator.Type &&
			Equals(x.Left, y.Left) && Equals(x.Right, y.Right)
	case *Factorial:
		y, ok := b.(*Factorial)
		return ok && Equals(x.Operand, y.Operand)
	case *Assignment:
		y, ok := b.(*Assignment)
		return ok && x.Variable == y.Variable && Equals(x.Value, y.Value)
	case *When:
		y, ok := b.(*When)
		if !ok || len(x.Cases) != len(y.Cases) || !Equals(x.Subject, y.Subject) {
			return false
		}
		for i := range x.Cases {
			if !Equals(x.Cases[i].Condition, y.Cases[i].Condition) ||
				!Equals(x.Cases[i].Result, y.Cases[i].Result) {
				return false
			}
		}
		return true
	case *Error:
		y, ok := b.(*Error)
		return ok && x.Message == y.Message
	case *Output:
		// Output compares against String by text, so captured print lines can
		// be matched with plain string literals.
		switch y := b.(type) {
		case *Output:
			return x.Text == y.Text
		case *String:
			return x.Text == y.Value
		}
		return false
	default:
		panic(fmt.Sprintf("Equals: unknown expression type %T", a))
	}
}
