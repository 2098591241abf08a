// printer.go: result rendering for the CLI and REPL.
package boomerang

import (
	"strings"
)

var EnableColor = false // REPL-only; tests leave this false

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

func colorize(s, c string) string {
	if !EnableColor {
		return s
	}
	return c + s + colorReset
}

func red(s string) string    { return colorize(s, colorRed) }
func green(s string) string  { return colorize(s, colorGreen) }
func yellow(s string) string { return colorize(s, colorYellow) }

// FormatResult renders one evaluation result for display. Errors are red,
// strings yellow, captured output green; everything else uses the value's
// plain display form.
func FormatResult(e Expression) string {
	switch e.(type) {
	case *Error:
		return red(e.String())
	case *String:
		return yellow(e.String())
	case *Output:
		return green(e.String())
	default:
		return e.String()
	}
}

// FormatResults renders a result list one value per line.
func FormatResults(results []Expression) string {
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = FormatResult(r)
	}
	return strings.Join(lines, "\n")
}
