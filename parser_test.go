// parser_test.go
package boomerang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) []Expression {
	t.Helper()
	statements, err := Parse(src)
	require.NoError(t, err)
	return statements
}

func parseOne(t *testing.T, src string) Expression {
	t.Helper()
	statements := parse(t, src)
	require.Len(t, statements, 1)
	return statements[0]
}

func TestParser(t *testing.T) {
	cases := []struct {
		src    string
		expect Expression
	}{
		{
			"5;",
			NewNumber(1, 5),
		},
		{
			`"hello";`,
			NewString(1, "hello"),
		},
		{
			"true;",
			NewBoolean(1, true),
		},
		{
			"x;",
			NewIdentifier(1, "x"),
		},
		{
			"x = 5;",
			NewAssignment(1, "x", NewNumber(1, 5)),
		},
		{
			"();",
			NewList(1, nil),
		},
		{
			"(1, 2);",
			NewList(1, []Expression{NewNumber(1, 1), NewNumber(1, 2)}),
		},
		{
			"1 + 2;",
			NewBinaryExpression(1,
				NewNumber(1, 1),
				NewToken(PLUS, "+", 1),
				NewNumber(1, 2)),
		},
		{
			// "*" binds tighter than "+".
			"1 + 2 * 3;",
			NewBinaryExpression(1,
				NewNumber(1, 1),
				NewToken(PLUS, "+", 1),
				NewBinaryExpression(1,
					NewNumber(1, 2),
					NewToken(MULTIPLY, "*", 1),
					NewNumber(1, 3))),
		},
		{
			// "**" binds tighter than "*".
			"2 * 3 ** 4;",
			NewBinaryExpression(1,
				NewNumber(1, 2),
				NewToken(MULTIPLY, "*", 1),
				NewBinaryExpression(1,
					NewNumber(1, 3),
					NewToken(POW, "**", 1),
					NewNumber(1, 4))),
		},
		{
			// Same-precedence operators associate left.
			"1 - 2 + 3;",
			NewBinaryExpression(1,
				NewBinaryExpression(1,
					NewNumber(1, 1),
					NewToken(MINUS, "-", 1),
					NewNumber(1, 2)),
				NewToken(PLUS, "+", 1),
				NewNumber(1, 3)),
		},
		{
			"3!;",
			NewFactorial(1, NewNumber(1, 3)),
		},
		{
			"1 in (1, 2);",
			NewBinaryExpression(1,
				NewNumber(1, 1),
				NewToken(IN, "in", 1),
				NewList(1, []Expression{NewNumber(1, 1), NewNumber(1, 2)})),
		},
		{
			"print;",
			NewBuiltinFunction(1, "print"),
		},
		{
			"function (a, b): a + b;",
			NewFunction(1,
				[]*Identifier{NewIdentifier(1, "a"), NewIdentifier(1, "b")},
				NewBinaryExpression(1,
					NewIdentifier(1, "a"),
					NewToken(PLUS, "+", 1),
					NewIdentifier(1, "b"))),
		},
	}

	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			got := parseOne(t, c.src)
			assert.True(t, Equals(c.expect, got),
				"want %s, got %s", c.expect, got)
		})
	}
}

func TestParser_GroupedExpressionIsNotAList(t *testing.T) {
	got := parseOne(t, "(1 + 2) * 3;")
	mul, ok := got.(*BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, MULTIPLY, mul.Operator.Type)
	_, leftIsBinary := mul.Left.(*BinaryExpression)
	assert.True(t, leftIsBinary, "grouped (1 + 2) should parse as a binary expression, not a list")
}

func TestParser_UnaryWholeExpressionOperand(t *testing.T) {
	// Prefix operators take the whole following expression: -5 + 3 is -(5 + 3).
	got := parseOne(t, "-5 + 3;")
	unary, ok := got.(*UnaryExpression)
	require.True(t, ok)
	assert.Equal(t, MINUS, unary.Operator.Type)
	_, operandIsBinary := unary.Operand.(*BinaryExpression)
	assert.True(t, operandIsBinary)
}

func TestParser_ChainedAssignment(t *testing.T) {
	got := parseOne(t, "a = b = 2;")
	outer, ok := got.(*Assignment)
	require.True(t, ok)
	assert.Equal(t, "a", outer.Variable)
	inner, ok := outer.Value.(*Assignment)
	require.True(t, ok)
	assert.Equal(t, "b", inner.Variable)
}

func TestParser_SendBindsTightest(t *testing.T) {
	// Send and index outrank "+", so the call and the index fold before the
	// addition: ((double <- (5,)) @ 0) + 1.
	got := parseOne(t, "double <- (5,) @ 0 + 1;")
	add, ok := got.(*BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, PLUS, add.Operator.Type)
}

func TestParser_WhenSwitchForm(t *testing.T) {
	src := `
when x:
	is 1: "one"
	is 2: "two"
	else: "many";
`
	got := parseOne(t, src)
	when, ok := got.(*When)
	require.True(t, ok)
	require.Len(t, when.Cases, 3)
	assert.True(t, Equals(NewIdentifier(0, "x"), when.Subject))

	// The else guard is a copy of the subject stamped with the else line.
	elseCase := when.Cases[2]
	assert.True(t, Equals(when.Subject, elseCase.Condition))
	assert.Equal(t, 5, elseCase.Condition.LineNumber())
}

func TestParser_WhenIfForm(t *testing.T) {
	src := `
when:
	x > 0: "positive"
	x < 0: "negative"
	else: "zero";
`
	got := parseOne(t, src)
	when, ok := got.(*When)
	require.True(t, ok)
	require.Len(t, when.Cases, 3)
	assert.True(t, Equals(NewBoolean(0, true), when.Subject))
	// If-form else guard is the literal true, so it always matches.
	assert.True(t, Equals(NewBoolean(0, true), when.Cases[2].Condition))
}

func TestParser_Errors(t *testing.T) {
	cases := []struct {
		src string
		msg string
	}{
		{
			"1 + 2",
			`PARSE ERROR at line 1: expected SEMICOLON (";"), got EOF ("")`,
		},
		{
			"(1, 2;",
			`PARSE ERROR at line 1: expected COMMA (","), got SEMICOLON (";")`,
		},
		{
			"*;",
			`PARSE ERROR at line 1: invalid token: MULTIPLY ("*")`,
		},
		{
			"function (1): 2;",
			"PARSE ERROR at line 1: unsupported type Number for function parameter, expected Identifier",
		},
		{
			"when x: is 1: 2;",
			`PARSE ERROR at line 1: expected IS ("is"), got SEMICOLON (";")`,
		},
	}

	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			_, err := Parse(c.src)
			require.Error(t, err)
			assert.Equal(t, c.msg, err.Error())
			assert.IsType(t, &ParseError{}, err)
		})
	}
}
