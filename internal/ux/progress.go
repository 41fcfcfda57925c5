package ux

import "fmt"

// ProgressReporter is advised of group/action transitions as the scheduler
// runs; it never drives control flow.
type ProgressReporter interface {
	StartGroup(name string, actionCount int)
	AdvanceAction(name, description string)
	FinishGroup()
}

// NoOpProgress discards every event; the zero-value default.
type NoOpProgress struct{}

func (NoOpProgress) StartGroup(name string, actionCount int)  {}
func (NoOpProgress) AdvanceAction(name, description string) {}
func (NoOpProgress) FinishGroup()                           {}

// ConsoleProgress prints a checklist line per action, matching the texture
// of the teacher's doctor command (pass/fail lines with a fix hint).
type ConsoleProgress struct {
	Writer  *Writer
	current string
}

func (c *ConsoleProgress) StartGroup(name string, actionCount int) {
	c.current = name
	c.Writer.Info(fmt.Sprintf("== %s (%d actions)", name, actionCount))
}

func (c *ConsoleProgress) AdvanceAction(name, description string) {
	if description != "" {
		c.Writer.Dim(fmt.Sprintf("  - %s: %s", name, description))
	} else {
		c.Writer.Dim(fmt.Sprintf("  - %s", name))
	}
}

func (c *ConsoleProgress) FinishGroup() {
	c.current = ""
}
