// printer_test.go
package boomerang

import (
	"strings"
	"testing"
)

func Test_FormatResult_PlainWithoutColor(t *testing.T) {
	EnableColor = false
	cases := []struct {
		in   Expression
		want string
	}{
		{NewNumber(1, 5), "5"},
		{NewNumber(1, 3.5), "3.5"},
		{NewString(1, "hi"), `"hi"`},
		{NewBoolean(1, true), "true"},
		{NewList(1, []Expression{NewNumber(1, 1), NewNumber(1, 2)}), "(1, 2)"},
		{NewFunction(1, nil, NewNumber(1, 5)), "<function>"},
		{NewBuiltinFunction(1, "print"), "<built-in function print>"},
		{NewError(1, "RUNTIME ERROR at line 1: division by zero"), "RUNTIME ERROR at line 1: division by zero"},
		{NewOutput(1, "hello"), "hello"},
	}

	for _, c := range cases {
		if got := FormatResult(c.in); got != c.want {
			t.Fatalf("want %q, got %q", c.want, got)
		}
	}
}

func Test_FormatResult_ColorsErrors(t *testing.T) {
	EnableColor = true
	defer func() { EnableColor = false }()

	got := FormatResult(NewError(1, "boom"))
	if !strings.Contains(got, "\033[31m") || !strings.Contains(got, "boom") {
		t.Fatalf("error should render red: %q", got)
	}
}

func Test_FormatResults_OnePerLine(t *testing.T) {
	EnableColor = false
	got := FormatResults([]Expression{NewNumber(1, 1), NewNumber(1, 2)})
	if got != "1\n2" {
		t.Fatalf("want %q, got %q", "1\n2", got)
	}
}
