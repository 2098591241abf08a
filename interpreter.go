// interpreter.go — the public entry points of the Boomerang interpreter.
//
// An Interpreter owns one global Environment and one Evaluator bound to it,
// so state persists across Evaluate calls (REPL-style). Hosts that want a
// throwaway run simply construct a fresh Interpreter; construction is cheap.
//
// Error semantics at this boundary: a lexical or parse failure anywhere in
// the source, or a runtime failure in any statement, collapses the whole
// result to a single Error value carrying the failing line and message.
// Evaluate never returns a Go error; hosts that want a rich source snippet
// for display can re-run the failure through WrapErrorWithSource.
package boomerang

import (
	"fmt"
)

// Version is the interpreter release version.
const Version = "2.0.0"

// FileExtension is the conventional extension for Boomerang source files.
const FileExtension = ".bng"

// Interpreter is the embedding surface: construct once, Evaluate many times.
type Interpreter struct {
	Global *Environment

	evaluator *Evaluator
}

func NewInterpreter(opts ...EvaluatorOption) *Interpreter {
	global := NewEnvironment(nil)
	return &Interpreter{
		Global:    global,
		evaluator: NewEvaluator(global, opts...),
	}
}

// Parse tokenizes and parses src without evaluating it. Callers get the
// statement list or a *LexError / *ParseError.
func Parse(src string) ([]Expression, error) {
	tokens, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	return NewParser(NewTokenQueue(tokens)).Parse()
}

// Evaluate runs src against the interpreter's global state and returns one
// result per statement, or a single Error value on any failure.
func (ip *Interpreter) Evaluate(src string) []Expression {
	statements, err := Parse(src)
	if err != nil {
		return []Expression{errorValue(err)}
	}
	return ip.evaluator.Evaluate(statements)
}

// EvaluateLine runs one REPL line. The trailing semicolon is optional: when
// missing, one is injected before parsing so "1 + 1" works at the prompt.
func (ip *Interpreter) EvaluateLine(line string) []Expression {
	tokens, err := NewLexer(line).Scan()
	if err != nil {
		return []Expression{errorValue(err)}
	}

	queue := NewTokenQueue(tokens)
	if !queue.EndsWith(SEMICOLON) {
		queue.Inject(SEMICOLON)
	}

	statements, err := NewParser(queue).Parse()
	if err != nil {
		return []Expression{errorValue(err)}
	}
	return ip.evaluator.Evaluate(statements)
}

// CapturedOutput returns every line printed so far, in emission order.
func (ip *Interpreter) CapturedOutput() []*Output {
	return ip.evaluator.CapturedOutput()
}

// errorValue converts a front-end or runtime error into a language-level
// Error value.
func errorValue(err error) *Error {
	switch e := err.(type) {
	case *LexError:
		return NewError(e.Line, e.Error())
	case *ParseError:
		return NewError(e.Line, e.Error())
	case *RuntimeError:
		return NewError(e.Line, e.Error())
	}
	panic(fmt.Sprintf("interpreter: unrecognized error type %T", err))
}
