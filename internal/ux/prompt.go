package ux

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// UserInteraction is the confirm/notify capability injected into the action
// runner and known-error matcher so fix prompts and "no known errors found"
// style messages aren't wired directly to a terminal.
type UserInteraction interface {
	Confirm(prompt string, help string) bool
	Notify(msg string)
}

// TTYPrompt asks on the real terminal, falling back to false when stdin is
// not a TTY (scripted/CI invocations never hang waiting on input).
type TTYPrompt struct {
	Writer *Writer
}

// NewTTYPrompt builds a prompt reading from stdin.
func NewTTYPrompt(w *Writer) *TTYPrompt {
	return &TTYPrompt{Writer: w}
}

func (p *TTYPrompt) Confirm(prompt, help string) bool {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return false
	}
	if help != "" {
		p.Writer.Dim(help)
	}
	fmt.Fprintf(os.Stdout, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (p *TTYPrompt) Notify(msg string) {
	p.Writer.Info(msg)
}

// AutoApprove always confirms; used in yolo/auto-fix mode.
type AutoApprove struct {
	Writer *Writer
}

func (a AutoApprove) Confirm(prompt, help string) bool { return true }
func (a AutoApprove) Notify(msg string) {
	if a.Writer != nil {
		a.Writer.Info(msg)
	}
}

// DenyAll always declines; used for dry runs and check-only invocations.
type DenyAll struct {
	Writer *Writer
}

func (d DenyAll) Confirm(prompt, help string) bool { return false }
func (d DenyAll) Notify(msg string) {
	if d.Writer != nil {
		d.Writer.Info(msg)
	}
}
