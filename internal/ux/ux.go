// Package ux holds the small set of output and interaction capabilities the
// doctor/analyze engine is injected with: leveled writers, a confirm/deny
// prompt, and progress reporting. None of it is a logging framework; like
// the rest of this codebase's ambient stack, it writes leveled, colored
// lines straight to stdout/stderr.
package ux

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const (
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorCyan   = "\033[0;36m"
	colorDim    = "\033[2m"
	colorReset  = "\033[0m"
)

// Notifier is the minimal interface loader/cache/capture warnings are
// surfaced through, decoupled from any particular UX implementation.
type Notifier interface {
	Warn(msg string)
}

// Writer prints leveled, optionally colorized lines. Color is gated on the
// destination being a real terminal, the same check shac's reporter
// selection makes with go-isatty before handing out a go-colorable writer.
type Writer struct {
	out       io.Writer
	errOut    io.Writer
	colorized bool
}

// NewWriter builds a Writer over stdout/stderr, colorizing only when stderr
// is attached to a terminal.
func NewWriter() *Writer {
	colorized := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	out := io.Writer(os.Stdout)
	errOut := io.Writer(os.Stderr)
	if colorized {
		out = colorable.NewColorableStdout()
		errOut = colorable.NewColorableStderr()
	}
	return &Writer{out: out, errOut: errOut, colorized: colorized}
}

func (w *Writer) colorize(code, msg string) string {
	if !w.colorized {
		return msg
	}
	return code + msg + colorReset
}

// Info prints an informational line to stdout.
func (w *Writer) Info(msg string) {
	fmt.Fprintln(w.out, w.colorize(colorCyan, msg))
}

// Warn prints a warning line to stderr, satisfying the Notifier interface.
func (w *Writer) Warn(msg string) {
	fmt.Fprintln(w.errOut, w.colorize(colorYellow, "warning: "+msg))
}

// Error prints an error line to stderr.
func (w *Writer) Error(msg string) {
	fmt.Fprintln(w.errOut, w.colorize(colorRed, "error: "+msg))
}

// Success prints a success line to stdout.
func (w *Writer) Success(msg string) {
	fmt.Fprintln(w.out, w.colorize(colorGreen, msg))
}

// Dim prints a de-emphasized line to stdout, used for verbose detail.
func (w *Writer) Dim(msg string) {
	fmt.Fprintln(w.out, w.colorize(colorDim, msg))
}
