// evaluator.go — tree-walking evaluation over the expression model.
//
// Evaluation is single-threaded, synchronous, and depth-first. Statements run
// in program order and operands left to right. Runtime failures travel as
// ordinary Go errors (*RuntimeError) threaded through every evaluate call;
// the outer boundary in Evaluate converts them into a language-level Error
// value. Interpreter bugs (an unknown node kind reaching dispatch) panic
// instead, so incomplete coverage can never masquerade as bad user input.
//
// Recursion depth is bounded only by the host stack: deeply recursive user
// programs can exhaust it, and there is no timeout or cancellation. That is a
// documented resource limit, not something the evaluator papers over.
package boomerang

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"
)

// PlatformEnvVar is the host environment variable gating platform-restricted
// builtins. Known values: "cli" (default), "repl", "web".
const PlatformEnvVar = "BOOMERANG_PLATFORM"

const PlatformWeb = "web"

// RuntimeError is a language-level evaluation failure: undefined variable,
// arity mismatch, division by zero, invalid operand types, and so on. It is
// never process-fatal; the evaluation boundary turns it into an Error value.
type RuntimeError struct {
	Line int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RUNTIME ERROR at line %d: %s", e.Line, e.Msg)
}

// Evaluator walks the AST with one Environment per call frame.
type Evaluator struct {
	env      *Environment
	output   io.Writer
	input    *bufio.Reader
	rand     *rand.Rand
	platform string
	captured []*Output
}

// EvaluatorOption configures a new Evaluator.
type EvaluatorOption func(*Evaluator)

// WithOutput redirects print output (default os.Stdout).
func WithOutput(w io.Writer) EvaluatorOption {
	return func(ev *Evaluator) { ev.output = w }
}

// WithInput sets the reader backing the input builtin (default os.Stdin).
func WithInput(r io.Reader) EvaluatorOption {
	return func(ev *Evaluator) { ev.input = bufio.NewReader(r) }
}

// WithPlatform overrides the platform read from BOOMERANG_PLATFORM.
func WithPlatform(platform string) EvaluatorOption {
	return func(ev *Evaluator) { ev.platform = platform }
}

// WithRandSource seeds the random source used by randint/randfloat, for
// reproducible runs.
func WithRandSource(src rand.Source) EvaluatorOption {
	return func(ev *Evaluator) { ev.rand = rand.New(src) }
}

func NewEvaluator(env *Environment, opts ...EvaluatorOption) *Evaluator {
	ev := &Evaluator{
		env:      env,
		output:   os.Stdout,
		input:    bufio.NewReader(os.Stdin),
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
		platform: os.Getenv(PlatformEnvVar),
	}
	for _, opt := range opts {
		opt(ev)
	}
	return ev
}

// CapturedOutput returns the Output values recorded by print calls, in
// emission order.
func (ev *Evaluator) CapturedOutput() []*Output {
	return ev.captured
}

// Evaluate runs the statements in order and returns one deep-copied result
// per statement. A runtime error anywhere aborts the remaining statements and
// the whole result collapses to a single Error value carrying the failing
// line and message.
func (ev *Evaluator) Evaluate(statements []Expression) []Expression {
	results, err := ev.evaluateStatements(statements)
	if err != nil {
		rte, ok := err.(*RuntimeError)
		if !ok {
			panic(fmt.Sprintf("evaluator returned non-runtime error: %v", err))
		}
		return []Expression{NewError(rte.Line, rte.Error())}
	}
	return results
}

func (ev *Evaluator) evaluateStatements(statements []Expression) ([]Expression, error) {
	var results []Expression
	for _, statement := range statements {
		result, err := ev.evaluateExpression(statement)
		if err != nil {
			return nil, err
		}
		// Deep-copy so the recorded result stays accurate to this point of
		// the program even if a shared structure is changed later.
		results = append(results, result.Clone())
	}
	return results, nil
}

// evaluateExpression is the per-node-kind dispatch.
func (ev *Evaluator) evaluateExpression(expression Expression) (Expression, error) {
	switch e := expression.(type) {
	case *Number, *String, *Boolean, *Function, *BuiltinFunction, *Error, *Output:
		// Value nodes evaluate to themselves. Functions are values too: the
		// body waits for call time and no environment is captured.
		return expression, nil

	case *List:
		return ev.evaluateList(e)

	case *Identifier:
		return ev.evaluateIdentifier(e)

	case *Assignment:
		return ev.evaluateAssignment(e)

	case *UnaryExpression:
		return ev.evaluateUnary(e)

	case *BinaryExpression:
		return ev.evaluateBinary(e)

	case *Factorial:
		operand, err := ev.evaluateExpression(e.Operand)
		if err != nil {
			return nil, err
		}
		return opFactorial(operand)

	case *FunctionCall:
		return ev.evaluateFunctionCall(e)

	case *When:
		return ev.evaluateWhen(e)
	}

	// A missing node kind here is incomplete interpreter coverage, not a
	// language error.
	panic(fmt.Sprintf("evaluator: unsupported expression type %T", expression))
}

// evaluateList evaluates each element, so expressions inside list literals
// work: (1 + 1, x) is a list of values.
func (ev *Evaluator) evaluateList(list *List) (Expression, error) {
	values := make([]Expression, len(list.Values))
	for i, v := range list.Values {
		value, err := ev.evaluateExpression(v)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return NewList(list.Line, values), nil
}

// evaluateIdentifier resolves a name through the scope chain. The bound value
// is returned as a clone re-stamped with the reference line, so the stored
// binding never aliases what callers hold.
func (ev *Evaluator) evaluateIdentifier(identifier *Identifier) (Expression, error) {
	if value, ok := ev.env.Get(identifier.Name); ok {
		return value.Clone().WithLine(identifier.Line), nil
	}
	return nil, runtimeError(identifier.Line, "undefined variable: %s", identifier.Name)
}

// evaluateAssignment binds in the innermost scope and yields the assigned
// value, which is what makes chained assignment evaluate right to left.
func (ev *Evaluator) evaluateAssignment(assignment *Assignment) (Expression, error) {
	value, err := ev.evaluateExpression(assignment.Value)
	if err != nil {
		return nil, err
	}
	ev.env.Set(assignment.Variable, value)
	return value, nil
}

func (ev *Evaluator) evaluateUnary(unary *UnaryExpression) (Expression, error) {
	operand, err := ev.evaluateExpression(unary.Operand)
	if err != nil {
		return nil, err
	}

	switch unary.Operator.Type {
	case PLUS:
		return opAbs(unary.Operator, operand)
	case MINUS:
		return opNeg(unary.Operator, operand)
	case BANG:
		return opNot(unary.Operator, operand)
	}
	panic(fmt.Sprintf("evaluator: invalid unary operator %s (%q)",
		unary.Operator.Type, unary.Operator.Literal))
}

// evaluateBinary fully evaluates the left operand, then the right, then runs
// the two-stage check: operand compatibility first, capability dispatch
// second.
func (ev *Evaluator) evaluateBinary(binary *BinaryExpression) (Expression, error) {
	left, err := ev.evaluateExpression(binary.Left)
	if err != nil {
		return nil, err
	}
	right, err := ev.evaluateExpression(binary.Right)
	if err != nil {
		return nil, err
	}

	if err := CheckOperandCompatibility(binary.Operator, left, right); err != nil {
		return nil, err
	}

	capability, ok := binaryCapability[binary.Operator.Type]
	if !ok {
		panic(fmt.Sprintf("evaluator: invalid binary operator %s (%q)",
			binary.Operator.Type, binary.Operator.Literal))
	}
	result, err := capability(binary.Operator, left, right)
	if err != nil {
		return nil, err
	}

	// The pointer operator on a callable produces a FunctionCall node; run
	// it immediately so "f <- (1, 2)" evaluates to the call's result.
	if call, ok := result.(*FunctionCall); ok {
		return ev.evaluateFunctionCall(call)
	}
	return result, nil
}

// evaluateFunctionCall runs builtins directly (no new scope) and user
// functions in a fresh child environment that is torn down on every exit
// path.
func (ev *Evaluator) evaluateFunctionCall(call *FunctionCall) (Expression, error) {
	callee, err := ev.evaluateExpression(call.Function)
	if err != nil {
		return nil, err
	}

	arguments, err := ev.evaluateList(call.Arguments)
	if err != nil {
		return nil, err
	}
	args := arguments.(*List)

	switch f := callee.(type) {
	case *BuiltinFunction:
		return ev.callBuiltin(f, args.Values)

	case *Function:
		if len(f.Parameters) != len(args.Values) {
			return nil, runtimeError(call.Line,
				"incorrect number of arguments: function expected %d, got %d",
				len(f.Parameters), len(args.Values))
		}

		return ev.callFunction(f, args.Values, call.Line)
	}

	return nil, runtimeError(call.Line, "cannot call type %s", TypeName(callee))
}

func (ev *Evaluator) callFunction(f *Function, args []Expression, callLine int) (result Expression, err error) {
	// Push the call frame. The deferred pop runs on success, error, and
	// panic alike, so a failing body can never leak its scope into the
	// caller.
	ev.env = NewEnvironment(ev.env)
	defer func() { ev.env = ev.env.Parent() }()

	for i, param := range f.Parameters {
		ev.env.Set(param.Name, args[i])
	}

	value, err := ev.evaluateExpression(f.Body)
	if err != nil {
		return nil, err
	}
	return value.WithLine(callLine), nil
}

// evaluateWhen checks each case in order against the subject by value
// equality and returns the first match's result. The trailing else case's
// condition is a copy of the subject (or literal true), so it always matches
// when reached.
func (ev *Evaluator) evaluateWhen(when *When) (Expression, error) {
	subject, err := ev.evaluateExpression(when.Subject)
	if err != nil {
		return nil, err
	}

	for _, c := range when.Cases {
		condition, err := ev.evaluateExpression(c.Condition)
		if err != nil {
			return nil, err
		}
		if Equals(subject, condition) {
			return ev.evaluateExpression(c.Result)
		}
	}

	// Unreachable for parser-produced nodes: the parser appends the
	// always-matching else case.
	return nil, runtimeError(when.Line, "no matching case in when expression")
}
