// evaluator_test.go
package boomerang

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
)

func evalSource(t *testing.T, src string, opts ...EvaluatorOption) []Expression {
	t.Helper()
	results := NewInterpreter(opts...).Evaluate(src)
	if len(results) == 0 {
		t.Fatalf("no results for source %q", src)
	}
	return results
}

func wantResult(t *testing.T, src string, want Expression) {
	t.Helper()
	results := evalSource(t, src)
	got := results[len(results)-1]
	if !Equals(want, got) {
		t.Fatalf("\nsource:\n%s\nwant: %s\ngot:  %s", src, want, got)
	}
}

func wantError(t *testing.T, src, wantMsg string) {
	t.Helper()
	results := evalSource(t, src)
	if len(results) != 1 {
		t.Fatalf("errors must collapse to a single result, got %d", len(results))
	}
	e, ok := results[0].(*Error)
	if !ok {
		t.Fatalf("want Error, got %s (%s)", TypeName(results[0]), results[0])
	}
	if e.Message != wantMsg {
		t.Fatalf("wrong message.\nwant: %s\ngot:  %s", wantMsg, e.Message)
	}
}

func Test_Evaluator_Expressions(t *testing.T) {
	cases := []struct {
		src  string
		want Expression
	}{
		{"1 + 1;", NewNumber(0, 2)},
		{"7 / 2;", NewNumber(0, 3.5)},
		{"5 - 3 * 2;", NewNumber(0, -1)},
		{"(5 - 3) * 2;", NewNumber(0, 4)},
		{"-7 % 3;", NewNumber(0, -1)},
		{"2 ** 10;", NewNumber(0, 1024)},
		// "**" outranks "*", so this is 2 * (2 ** 3).
		{"2 * 2 ** 3;", NewNumber(0, 16)},
		{`"hello, " + "world!";`, NewString(0, "hello, world!")},
		{"true && !false;", NewBoolean(0, true)},
		{"true ^ true;", NewBoolean(0, false)},
		{"5!;", NewNumber(0, 120)},
		{"-(1, 2, 3);", NewList(0, []Expression{NewNumber(0, 3), NewNumber(0, 2), NewNumber(0, 1)})},
		// Unary minus binds the whole following expression, so the index
		// happens first and the negation applies to the element.
		{"-(1, 2, 3) @ 0;", NewNumber(0, -1)},
		{"+(0 - 9);", NewNumber(0, 9)},
		{"1 == 1.0;", NewBoolean(0, true)},
		{"3 in (1, 2, 3);", NewBoolean(0, true)},
		{"(1, 2) + (3,);", NewList(0, []Expression{NewNumber(0, 1), NewNumber(0, 2), NewNumber(0, 3)})},
		{"(1, 2, 1) - (1,);", NewList(0, []Expression{NewNumber(0, 2)})},
		{"(1, 2) <- 3;", NewList(0, []Expression{NewNumber(0, 1), NewNumber(0, 2), NewNumber(0, 3)})},
	}

	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			wantResult(t, c.src, c.want)
		})
	}
}

func Test_Evaluator_OneResultPerStatement(t *testing.T) {
	results := evalSource(t, "1 + 1;\n2 * 3;\n\"done\";")
	if len(results) != 3 {
		t.Fatalf("want 3 results, got %d", len(results))
	}
	for i, want := range []Expression{NewNumber(0, 2), NewNumber(0, 6), NewString(0, "done")} {
		if !Equals(want, results[i]) {
			t.Fatalf("result %d: want %s, got %s", i, want, results[i])
		}
	}
}

func Test_Evaluator_Variables(t *testing.T) {
	wantResult(t, "x = 5; x + 1;", NewNumber(0, 6))
	wantResult(t, "x = 5; x = x + 1; x;", NewNumber(0, 6))
}

func Test_Evaluator_AssignmentIsAnExpression(t *testing.T) {
	results := evalSource(t, "a = b = 2; a + b;")
	if !Equals(NewNumber(0, 2), results[0]) {
		t.Fatalf("assignment should evaluate to the assigned value, got %s", results[0])
	}
	if !Equals(NewNumber(0, 4), results[1]) {
		t.Fatalf("both variables should be bound, got %s", results[1])
	}
}

func Test_Evaluator_IdentifierReStampsLine(t *testing.T) {
	results := evalSource(t, "x = 5;\nx;")
	if results[1].LineNumber() != 2 {
		t.Fatalf("looked-up value should carry the use-site line, got %d", results[1].LineNumber())
	}
}

func Test_Evaluator_HistoryIsDeepCopied(t *testing.T) {
	// Appending to the list later must not retroactively change the recorded
	// result of the earlier statement.
	results := evalSource(t, "l = (1, 2); l <- 3;")
	first, ok := results[0].(*List)
	if !ok {
		t.Fatalf("want List, got %s", TypeName(results[0]))
	}
	if len(first.Values) != 2 {
		t.Fatalf("recorded history changed: want 2 elements, got %d", len(first.Values))
	}
}

func Test_Evaluator_FunctionCalls(t *testing.T) {
	wantResult(t, "double = function (n): n * 2; double <- (5,);", NewNumber(0, 10))
	wantResult(t, "add = function (a, b): a + b; add <- (3, 4);", NewNumber(0, 7))
	wantResult(t, "five = function (): 5; five <- ();", NewNumber(0, 5))

	// The call result feeds the surrounding expression directly.
	wantResult(t, "double = function (n): n * 2; double <- (5,) + 1;", NewNumber(0, 11))
}

func Test_Evaluator_FunctionArity(t *testing.T) {
	wantError(t, "add = function (a, b): a + b; add <- (1,);",
		"RUNTIME ERROR at line 1: incorrect number of arguments: function expected 2, got 1")
}

func Test_Evaluator_CallTimeScoping(t *testing.T) {
	// Functions capture nothing: free names resolve at call time.
	wantResult(t, "f = function (): n + 1; n = 10; f <- ();", NewNumber(0, 11))
}

func Test_Evaluator_FunctionScopeIsTornDown(t *testing.T) {
	wantError(t, "f = function (n): n * 2; f <- (5,); n;",
		"RUNTIME ERROR at line 1: undefined variable: n")
}

func Test_Evaluator_InnerScopeSeesOuter(t *testing.T) {
	wantResult(t, "x = 2; f = function (n): n * x; f <- (5,);", NewNumber(0, 10))
}

func Test_Evaluator_WhenSwitchForm(t *testing.T) {
	src := `
classify = function (n):
	when n:
		is 1: "one"
		is 2: "two"
		else: "many";
classify <- (%s,);
`
	for in, want := range map[string]string{"1": "one", "2": "two", "9": "many"} {
		wantResult(t, strings.Replace(src, "%s", in, 1), NewString(0, want))
	}
}

func Test_Evaluator_WhenIfForm(t *testing.T) {
	src := `
sign = function (n):
	when:
		n > 0: "positive"
		n < 0: "negative"
		else: "zero";
sign <- (%s,);
`
	for in, want := range map[string]string{"5": "positive", "-5": "negative", "0": "zero"} {
		wantResult(t, strings.Replace(src, "%s", in, 1), NewString(0, want))
	}
}

func Test_Evaluator_Errors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		msg  string
	}{
		{"undefined variable", "x + 1;",
			"RUNTIME ERROR at line 1: undefined variable: x"},
		{"divide by zero", "1 / 0;",
			"RUNTIME ERROR at line 1: division by zero"},
		{"mixed types", "1 == true;",
			"RUNTIME ERROR at line 1: invalid types Number and Boolean for =="},
		{"call a number", "x = 5; x <- (1,);",
			"RUNTIME ERROR at line 1: invalid types Number and List for <-"},
		{"later statements abort", "1 + 1; 1 / 0; 2 + 2;",
			"RUNTIME ERROR at line 1: division by zero"},
		{"error line is the failing line", "1 + 1;\n1 / 0;",
			"RUNTIME ERROR at line 2: division by zero"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			wantError(t, c.src, c.msg)
		})
	}
}

func Test_Evaluator_Print(t *testing.T) {
	var buf bytes.Buffer
	ip := NewInterpreter(WithOutput(&buf))

	results := ip.Evaluate(`print <- (1, "two", true);`)
	if got := buf.String(); got != "1, \"two\", true\n" {
		t.Fatalf("wrong output: %q", got)
	}

	// print returns its arguments as a list.
	want := NewList(0, []Expression{NewNumber(0, 1), NewString(0, "two"), NewBoolean(0, true)})
	if !Equals(want, results[0]) {
		t.Fatalf("want %s, got %s", want, results[0])
	}

	captured := ip.CapturedOutput()
	if len(captured) != 1 || captured[0].Text != `1, "two", true` {
		t.Fatalf("wrong captured output: %v", captured)
	}
}

func Test_Evaluator_Builtin_Len(t *testing.T) {
	wantResult(t, `len <- ("hello",);`, NewNumber(0, 5))
	wantResult(t, "len <- ((1, 2, 3),);", NewNumber(0, 3))
	wantError(t, "len <- (5,);",
		"RUNTIME ERROR at line 1: unsupported type Number for built-in function len")
	wantError(t, "len <- (1, 2);",
		"RUNTIME ERROR at line 1: expected 1 argument, got 2")
}

func Test_Evaluator_Builtin_Range(t *testing.T) {
	wantResult(t, "range <- (3,);",
		NewList(0, []Expression{NewNumber(0, 0), NewNumber(0, 1), NewNumber(0, 2)}))
	wantResult(t, "range <- (1, 4);",
		NewList(0, []Expression{NewNumber(0, 1), NewNumber(0, 2), NewNumber(0, 3)}))
	wantResult(t, "range <- (5, 1, 0 - 2);",
		NewList(0, []Expression{NewNumber(0, 5), NewNumber(0, 3)}))

	wantError(t, "range <- (1, 5, 0);", "RUNTIME ERROR at line 1: step cannot be 0")
	wantError(t, "range <- (5, 1, 1);",
		"RUNTIME ERROR at line 1: step value must be negative if start value is greater than end value")
	wantError(t, "range <- (1, 5, 0 - 1);",
		"RUNTIME ERROR at line 1: step value must be positive if start value is less than end value")
}

func Test_Evaluator_Builtin_Round(t *testing.T) {
	wantResult(t, "round <- (3.14159, 2);", NewNumber(0, 3.14))
	wantResult(t, "round <- (2.5, 0);", NewNumber(0, 3))
	wantError(t, "round <- (1.5, 0.5);",
		"RUNTIME ERROR at line 1: round_to must be a whole number")
	wantError(t, "round <- (1.5, 0 - 1);",
		"RUNTIME ERROR at line 1: round_to must be greater than or equal to 0")
}

func Test_Evaluator_Builtin_IncDec(t *testing.T) {
	wantResult(t, "inc <- (5,);", NewNumber(0, 6))
	wantResult(t, "dec <- (5,);", NewNumber(0, 4))
	wantResult(t, "dec <- (0.5,);", NewNumber(0, -0.5))
	wantError(t, "inc <- (true,);",
		"RUNTIME ERROR at line 1: unsupported type Boolean for built-in function inc")
	wantError(t, "dec <- ();",
		"RUNTIME ERROR at line 1: expected 1 argument, got 0")
}

func Test_Evaluator_Builtin_Pack(t *testing.T) {
	wantResult(t, "pack <- ((1, 2),);",
		NewList(0, []Expression{
			NewList(0, []Expression{NewNumber(0, 1), NewNumber(0, 2)}),
		}))
	wantResult(t, "pack <- ((),);", NewList(0, []Expression{NewList(0, nil)}))
	wantError(t, "pack <- (1,);",
		"RUNTIME ERROR at line 1: unsupported type Number for built-in function pack")
}

func Test_Evaluator_Builtin_Random(t *testing.T) {
	seed := func() EvaluatorOption { return WithRandSource(rand.NewSource(1)) }

	results := evalSource(t, "randint <- (1, 10);", seed())
	n, ok := results[0].(*Number)
	if !ok {
		t.Fatalf("want Number, got %s", TypeName(results[0]))
	}
	if !n.IsWholeNumber() || n.Value < 1 || n.Value > 10 {
		t.Fatalf("randint out of range: %s", n)
	}

	results = evalSource(t, "randfloat <- ();", seed())
	f := results[0].(*Number)
	if f.Value < 0 || f.Value >= 1 {
		t.Fatalf("randfloat out of range: %s", f)
	}

	wantError(t, "randint <- (1.5, 10);", "RUNTIME ERROR at line 1: start must be a whole number")
	wantError(t, "randint <- (10, 1);",
		"RUNTIME ERROR at line 1: end (1) must be greater than start (10)")
	wantError(t, "randint <- ();",
		"RUNTIME ERROR at line 1: incorrect number of arguments: expected 1 or 2, got 0")
}

func Test_Evaluator_Builtin_Input(t *testing.T) {
	var buf bytes.Buffer
	ip := NewInterpreter(
		WithOutput(&buf),
		WithInput(strings.NewReader("Boomerang\n")),
	)

	results := ip.Evaluate(`input <- ("name: ",);`)
	if !Equals(NewString(0, "Boomerang"), results[0]) {
		t.Fatalf("want \"Boomerang\", got %s", results[0])
	}
	if buf.String() != "name: " {
		t.Fatalf("prompt not written: %q", buf.String())
	}
}

func Test_Evaluator_Builtin_Input_WebPlatform(t *testing.T) {
	ip := NewInterpreter(WithPlatform(PlatformWeb))
	results := ip.Evaluate(`input <- ("name: ",);`)
	e, ok := results[0].(*Error)
	if !ok {
		t.Fatalf("want Error, got %s", TypeName(results[0]))
	}
	want := "RUNTIME ERROR at line 1: unsupported builtin function 'input' for web platform"
	if e.Message != want {
		t.Fatalf("wrong message: %s", e.Message)
	}
}

func Test_Evaluator_BuiltinsCannotBeShadowed(t *testing.T) {
	// Assigning to a builtin name binds a variable, but references to the
	// name still parse as the builtin, so the binding is unreachable.
	results := evalSource(t, "print = 5; print;")
	if _, ok := results[1].(*BuiltinFunction); !ok {
		t.Fatalf("want BuiltinFunction, got %s", TypeName(results[1]))
	}
}

func Test_Evaluator_StatePersistsAcrossEvaluateCalls(t *testing.T) {
	ip := NewInterpreter()
	ip.Evaluate("x = 41;")
	results := ip.Evaluate("x + 1;")
	if !Equals(NewNumber(0, 42), results[0]) {
		t.Fatalf("want 42, got %s", results[0])
	}
}
