package ui

import (
	"fmt"
	"io"
	"strings"
)

// Status symbols prefixed to result lines.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
)

func withSymbol(symbol, msg string) string {
	return symbol + " " + msg
}

// Success prefixes msg with a check mark.
func Success(msg string) string { return withSymbol(SymbolSuccess, msg) }

// Error prefixes msg with a cross.
func Error(msg string) string { return withSymbol(SymbolError, msg) }

// Warning prefixes msg with a warning sign.
func Warning(msg string) string { return withSymbol(SymbolWarning, msg) }

// Info prefixes msg with an info sign.
func Info(msg string) string { return withSymbol(SymbolInfo, msg) }

// Errorf formats and prefixes with a cross.
func Errorf(format string, args ...interface{}) string {
	return Error(fmt.Sprintf(format, args...))
}

// Warningf formats and prefixes with a warning sign.
func Warningf(format string, args ...interface{}) string {
	return Warning(fmt.Sprintf(format, args...))
}

// Header styles a section heading.
func Header(msg string) string {
	return Bold.Render(msg)
}

// FilePath styles a workspace path.
func FilePath(path string) string {
	return Accent.Render(path)
}

// Hint styles secondary text.
func Hint(msg string) string {
	return Muted.Render(msg)
}

// ErrorWarningCounts summarizes a validation result, e.g.
// "(3 errors, 1 warning)". Zero counts are left out.
func ErrorWarningCounts(errors, warnings int) string {
	var parts []string
	if errors > 0 {
		parts = append(parts, plural(errors, "error"))
	}
	if warnings > 0 || errors == 0 {
		parts = append(parts, plural(warnings, "warning"))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// Printer writes styled human output. Regular output goes to Out and
// failures to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// NewPrinter returns a Printer over the given writers.
func NewPrinter(out, errw io.Writer) *Printer {
	return &Printer{Out: out, Err: errw}
}

// Println writes a line to Out.
func (p *Printer) Println(a ...interface{}) {
	fmt.Fprintln(p.Out, a...)
}

// Printf writes formatted text to Out.
func (p *Printer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.Out, format, args...)
}

// Success writes a success line to Out.
func (p *Printer) Success(format string, args ...interface{}) {
	fmt.Fprintln(p.Out, Success(fmt.Sprintf(format, args...)))
}

// Info writes an info line to Out.
func (p *Printer) Info(format string, args ...interface{}) {
	fmt.Fprintln(p.Out, Info(fmt.Sprintf(format, args...)))
}

// Warning writes a warning line to Out.
func (p *Printer) Warning(format string, args ...interface{}) {
	fmt.Fprintln(p.Out, Warningf(format, args...))
}

// Error writes an error line to Err.
func (p *Printer) Error(format string, args ...interface{}) {
	fmt.Fprintln(p.Err, Errorf(format, args...))
}

// Hint writes an indented, muted hint line to Out.
func (p *Printer) Hint(format string, args ...interface{}) {
	fmt.Fprintln(p.Out, "  "+Hint(fmt.Sprintf(format, args...)))
}
