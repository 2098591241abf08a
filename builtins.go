// builtins.go — the built-in function surface.
//
// Builtins are resolved by name at parse time (the tokenizer produces an
// IDENTIFIER; the parser promotes known names to BuiltinFunction nodes), so
// they cannot be shadowed by assignment. Calls run here on the Evaluator with
// no new scope: builtins see only their arguments.
package boomerang

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	builtinPrint     = "print"
	builtinRandInt   = "randint"
	builtinRandFloat = "randfloat"
	builtinLen       = "len"
	builtinRange     = "range"
	builtinRound     = "round"
	builtinInput     = "input"
	builtinInc       = "inc"
	builtinDec       = "dec"
	builtinPack      = "pack"
)

var builtinNames = []string{
	builtinPrint,
	builtinRandInt,
	builtinRandFloat,
	builtinLen,
	builtinRange,
	builtinRound,
	builtinInput,
	builtinInc,
	builtinDec,
	builtinPack,
}

// unsupportedPlatforms lists, per builtin, the platforms where calling it is
// a runtime error. input blocks on a terminal read, which the web platform
// cannot provide.
var unsupportedPlatforms = map[string][]string{
	builtinInput: {PlatformWeb},
}

// IsBuiltinName reports whether name is a built-in function name.
func IsBuiltinName(name string) bool {
	for _, n := range builtinNames {
		if n == name {
			return true
		}
	}
	return false
}

// callBuiltin dispatches a builtin call. Arguments are already evaluated.
func (ev *Evaluator) callBuiltin(f *BuiltinFunction, args []Expression) (Expression, error) {
	for _, platform := range unsupportedPlatforms[f.Name] {
		if platform == ev.platform {
			return nil, runtimeError(f.Line,
				"unsupported builtin function '%s' for %s platform", f.Name, ev.platform)
		}
	}

	switch f.Name {
	case builtinPrint:
		return ev.builtinPrint(f.Line, args)
	case builtinRandInt:
		return ev.builtinRandom(f.Line, args, false)
	case builtinRandFloat:
		return ev.builtinRandom(f.Line, args, true)
	case builtinLen:
		return ev.builtinLen(f.Line, args)
	case builtinRange:
		return ev.builtinRange(f.Line, args)
	case builtinRound:
		return ev.builtinRound(f.Line, args)
	case builtinInput:
		return ev.builtinInput(f.Line, args)
	case builtinInc:
		return ev.builtinStep(f.Line, builtinInc, args, 1)
	case builtinDec:
		return ev.builtinStep(f.Line, builtinDec, args, -1)
	case builtinPack:
		return ev.builtinPack(f.Line, args)
	}
	panic("unimplemented builtin function " + f.Name)
}

// builtinPrint writes the arguments' display forms joined with ", ", records
// the emitted line as an Output value, and returns the arguments as a list.
func (ev *Evaluator) builtinPrint(line int, args []Expression) (Expression, error) {
	displays := make([]string, len(args))
	for i, arg := range args {
		displays[i] = arg.String()
	}
	text := strings.Join(displays, ", ")

	if _, err := ev.output.Write([]byte(text + "\n")); err != nil {
		return nil, runtimeError(line, "print failed: %s", err)
	}
	ev.captured = append(ev.captured, NewOutput(line, text))

	return NewList(line, args), nil
}

// builtinRandom serves both randint and randfloat. randfloat with no
// arguments draws from [0, 1); with one argument the range is [0, arg];
// with two it is [start, end]. randint requires whole-number bounds and
// draws inclusively.
func (ev *Evaluator) builtinRandom(line int, args []Expression, isFloat bool) (Expression, error) {
	var start, end Expression
	switch {
	case isFloat && len(args) == 0:
		return NewNumber(line, ev.rand.Float64()), nil
	case len(args) == 1:
		start, end = NewNumber(line, 0), args[0]
	case len(args) == 2:
		start, end = args[0], args[1]
	default:
		argRange := "1 or 2"
		if isFloat {
			argRange = "0, 1, or 2"
		}
		return nil, runtimeError(line,
			"incorrect number of arguments: expected %s, got %d", argRange, len(args))
	}

	startNum, ok := start.(*Number)
	if !ok {
		return nil, runtimeError(line, "expected Number for start, got %s", TypeName(start))
	}
	endNum, ok := end.(*Number)
	if !ok {
		return nil, runtimeError(line, "expected Number for end, got %s", TypeName(end))
	}
	if !isFloat && !startNum.IsWholeNumber() {
		return nil, runtimeError(line, "start must be a whole number")
	}
	if !isFloat && !endNum.IsWholeNumber() {
		return nil, runtimeError(line, "end must be a whole number")
	}
	if endNum.Value < startNum.Value {
		return nil, runtimeError(line,
			"end (%s) must be greater than start (%s)", endNum, startNum)
	}

	if isFloat {
		return NewNumber(line, startNum.Value+ev.rand.Float64()*(endNum.Value-startNum.Value)), nil
	}
	lo, hi := int64(startNum.Value), int64(endNum.Value)
	return NewNumber(line, float64(lo+ev.rand.Int63n(hi-lo+1))), nil
}

// builtinLen returns the length of a string (in characters) or a list.
func (ev *Evaluator) builtinLen(line int, args []Expression) (Expression, error) {
	if len(args) != 1 {
		return nil, runtimeError(line, "expected 1 argument, got %d", len(args))
	}

	switch collection := args[0].(type) {
	case *String:
		return NewNumber(line, float64(utf8.RuneCountInString(collection.Value))), nil
	case *List:
		return NewNumber(line, float64(len(collection.Values))), nil
	}
	return nil, runtimeError(line,
		"unsupported type %s for built-in function len", TypeName(args[0]))
}

// builtinRange generates a list of numbers. One argument is the end bound
// (start 0, step 1); two arguments are start and end (step 1); three set the
// step explicitly. The step's sign must agree with the direction of travel,
// and the end bound is exclusive.
func (ev *Evaluator) builtinRange(line int, args []Expression) (Expression, error) {
	var start, end, step Expression
	switch len(args) {
	case 1:
		start, end, step = NewNumber(line, 0), args[0], NewNumber(line, 1)
	case 2:
		start, end, step = args[0], args[1], NewNumber(line, 1)
	case 3:
		start, end, step = args[0], args[1], args[2]
	default:
		return nil, runtimeError(line,
			"incorrect number of arguments: expected 1, 2, or 3, got %d", len(args))
	}

	startNum, ok := start.(*Number)
	if !ok {
		return nil, runtimeError(line, "expected Number for start, got %s", TypeName(start))
	}
	endNum, ok := end.(*Number)
	if !ok {
		return nil, runtimeError(line, "expected Number for end, got %s", TypeName(end))
	}
	stepNum, ok := step.(*Number)
	if !ok {
		return nil, runtimeError(line, "expected Number for step, got %s", TypeName(step))
	}

	if stepNum.Value == 0 {
		return nil, runtimeError(line, "step cannot be 0")
	}
	if startNum.Value > endNum.Value && stepNum.Value > 0 {
		return nil, runtimeError(line,
			"step value must be negative if start value is greater than end value")
	}
	if startNum.Value < endNum.Value && stepNum.Value < 0 {
		return nil, runtimeError(line,
			"step value must be positive if start value is less than end value")
	}

	withinRange := func(a, b float64) bool { return a < b }
	if startNum.Value >= endNum.Value {
		withinRange = func(a, b float64) bool { return a > b }
	}

	var values []Expression
	for next := startNum.Value; withinRange(next, endNum.Value); next += stepNum.Value {
		values = append(values, NewNumber(line, next))
	}
	return NewList(line, values), nil
}

// builtinRound rounds a number to a fixed count of decimal places. The place
// count must be a whole number of at least zero.
func (ev *Evaluator) builtinRound(line int, args []Expression) (Expression, error) {
	if len(args) != 2 {
		return nil, runtimeError(line,
			"incorrect number of arguments: expected 2, got %d", len(args))
	}

	number, ok := args[0].(*Number)
	if !ok {
		return nil, runtimeError(line, "expected Number for number, got %s", TypeName(args[0]))
	}
	roundTo, ok := args[1].(*Number)
	if !ok {
		return nil, runtimeError(line, "expected Number for round_to, got %s", TypeName(args[1]))
	}
	if !roundTo.IsWholeNumber() {
		return nil, runtimeError(line, "round_to must be a whole number")
	}
	if roundTo.Value < 0 {
		return nil, runtimeError(line, "round_to must be greater than or equal to 0")
	}

	shift := math.Pow(10, roundTo.Value)
	return NewNumber(line, math.Round(number.Value*shift)/shift), nil
}

// builtinStep serves inc and dec: it moves a number by one in either
// direction.
func (ev *Evaluator) builtinStep(line int, name string, args []Expression, delta float64) (Expression, error) {
	if len(args) != 1 {
		return nil, runtimeError(line, "expected 1 argument, got %d", len(args))
	}

	n, ok := args[0].(*Number)
	if !ok {
		return nil, runtimeError(line,
			"unsupported type %s for built-in function %s", TypeName(args[0]), name)
	}
	return NewNumber(line, n.Value+delta), nil
}

// builtinPack wraps a list in a singleton list: (1, 2) becomes ((1, 2)).
func (ev *Evaluator) builtinPack(line int, args []Expression) (Expression, error) {
	if len(args) != 1 {
		return nil, runtimeError(line, "expected 1 argument, got %d", len(args))
	}

	l, ok := args[0].(*List)
	if !ok {
		return nil, runtimeError(line,
			"unsupported type %s for built-in function pack", TypeName(args[0]))
	}
	return NewList(line, []Expression{NewList(line, l.Values)}), nil
}

// builtinInput writes the prompt and reads one line from the input reader.
// The trailing newline is stripped; the rest of the line is returned verbatim
// as a String.
func (ev *Evaluator) builtinInput(line int, args []Expression) (Expression, error) {
	if len(args) != 1 {
		return nil, runtimeError(line, "expected 1 argument, got %d", len(args))
	}

	prompt, ok := args[0].(*String)
	if !ok {
		return nil, runtimeError(line,
			"unsupported type %s for built-in function input", TypeName(args[0]))
	}

	if _, err := ev.output.Write([]byte(prompt.Value)); err != nil {
		return nil, runtimeError(line, "input failed: %s", err)
	}
	text, err := ev.input.ReadString('\n')
	if err != nil && text == "" {
		return nil, runtimeError(line, "input failed: %s", err)
	}
	return NewString(line, strings.TrimRight(text, "\r\n")), nil
}
