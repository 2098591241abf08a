// errors.go: user-facing error wrapping and source-snippet rendering.
//
// WrapErrorWithSource turns the flat one-line diagnostics produced by the
// lexer, parser, and evaluator into a readable snippet with numbered source
// lines and a marker on the failing line:
//
//	PARSE ERROR at line 3: expected SEMICOLON (";"), got EOF ("")
//
//	   2 | y = x + 1;
//	>  3 | y * 2
//	   4 | z = y;
//
// Tokens carry line numbers only, so the marker points at the line rather
// than a column. Errors of any other type pass through unchanged.
package boomerang

import (
	"fmt"
	"strings"
)

// WrapErrorWithSource returns an error whose message includes a numbered
// snippet of src around the failing line. It recognizes *LexError,
// *ParseError, and *RuntimeError; any other error is returned as-is.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", prettyErrorString(src, "LEXICAL ERROR", e.Line, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorString(src, "PARSE ERROR", e.Line, e.Msg))
	case *RuntimeError:
		return fmt.Errorf("%s", prettyErrorString(src, "RUNTIME ERROR", e.Line, e.Msg))
	default:
		return err
	}
}

// prettyErrorString builds the header plus a snippet showing at most one
// line of context before and after the failing line. The line number is
// 1-based and clamped to the source bounds so rendering never crashes on a
// stale or synthetic coordinate.
func prettyErrorString(src, header string, line int, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at line %d: %s\n\n", header, line, msg)
	if line > 1 {
		fmt.Fprintf(&b, "   %d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, ">  %d | %s\n", line, lines[line-1])
	if line < len(lines) {
		fmt.Fprintf(&b, "   %d | %s\n", line+1, lines[line])
	}
	return b.String()
}
