package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is used when the output is not a terminal or its size
// cannot be read.
const DefaultTermWidth = 100

// minRenderWidth keeps rendered markdown readable in very narrow terminals.
const minRenderWidth = 40

// DisplayContext describes where command output is going.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

// NewDisplayContext inspects w. Only an *os.File attached to a terminal
// is treated as interactive; buffers and pipes get the default width.
func NewDisplayContext(w io.Writer) *DisplayContext {
	d := &DisplayContext{TermWidth: DefaultTermWidth}
	f, ok := w.(*os.File)
	if !ok {
		return d
	}
	fd := f.Fd()
	if !term.IsTerminal(fd) {
		return d
	}
	d.IsTTY = true
	if width, _, err := term.GetSize(fd); err == nil && width > 0 {
		d.TermWidth = width
	}
	return d
}

// NewDisplayContextWithWidth returns a non-interactive context of a fixed
// width, for tests and piped output.
func NewDisplayContextWithWidth(width int) *DisplayContext {
	return &DisplayContext{TermWidth: width}
}

// AvailableWidth is the width left after a left margin, never below the
// minimum render width.
func (d *DisplayContext) AvailableWidth(leftMargin int) int {
	if w := d.TermWidth - leftMargin; w > minRenderWidth {
		return w
	}
	return minRenderWidth
}
