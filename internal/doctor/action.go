// Package doctor implements the action check/fix/verify state machine and
// the group scheduler that drives it across a dependency-ordered run.
package doctor

import (
	"context"
	"fmt"

	"github.com/oscope-dev/scope/internal/cache"
	"github.com/oscope-dev/scope/internal/capture"
	"github.com/oscope-dev/scope/internal/globwalk"
	"github.com/oscope-dev/scope/internal/model"
	"github.com/oscope-dev/scope/internal/ux"
)

// stopExitCode is the threshold an exit code must reach to be treated as
// fatal to the action and its group, per spec.md's exit-code mapping.
const stopExitCode = 100

// Outcome is one of the eight terminal states an action run reports.
type Outcome int

const (
	CheckSucceeded Outcome = iota
	CheckFailedFixSucceedVerifySucceed
	CheckFailedFixFailed
	CheckFailedFixSucceedVerifyFailed
	CheckFailedNoRunFix
	CheckFailedNoFixProvided
	CheckFailedFixFailedStop
	NoCheckFixSucceeded
)

func (o Outcome) String() string {
	switch o {
	case CheckSucceeded:
		return "CheckSucceeded"
	case CheckFailedFixSucceedVerifySucceed:
		return "CheckFailedFixSucceedVerifySucceed"
	case CheckFailedFixFailed:
		return "CheckFailedFixFailed"
	case CheckFailedFixSucceedVerifyFailed:
		return "CheckFailedFixSucceedVerifyFailed"
	case CheckFailedNoRunFix:
		return "CheckFailedNoRunFix"
	case CheckFailedNoFixProvided:
		return "CheckFailedNoFixProvided"
	case CheckFailedFixFailedStop:
		return "CheckFailedFixFailedStop"
	case NoCheckFixSucceeded:
		return "NoCheckFixSucceeded"
	default:
		return "Unknown"
	}
}

// Passed reports whether this outcome counts as the action succeeding, for
// the group-level accumulator in runner.go.
func (o Outcome) Passed() bool {
	switch o {
	case CheckSucceeded, CheckFailedFixSucceedVerifySucceed, NoCheckFixSucceeded:
		return true
	default:
		return false
	}
}

// Stop reports whether this outcome must halt the remainder of the run
// (this group and every later group), per spec.md §4.G.
func (o Outcome) Stop() bool {
	return o == CheckFailedFixFailedStop
}

// checkResult is the internal classification EvaluateCheck produces before
// Outcome is derived.
type checkResult int

const (
	resultFixNotRequired checkResult = iota
	resultFixRequired
	resultStopExecution
	resultCacheNotDefined
)

// Env is the set of capability objects an action run needs: the file
// cache, the command executor, and the user-facing prompt/notify surface.
type Env struct {
	Cache       cache.FileCache
	WorkingDir  string
	Path        string
	ExtraEnv    map[string]string
	Interaction ux.UserInteraction
	Logger      capture.Logger
	Destination capture.OutputDestination
	Yolo        bool
	RunFix      bool
}

// Result is everything one action run produced: its terminal outcome and
// every capture taken along the way (check, fix, verify), in order.
type Result struct {
	GroupName string
	Action    model.Action
	Outcome   Outcome
	Captures  []*capture.OutputCapture
	Err       error
}

// RunAction executes one action's check -> fix -> verify cycle against
// group groupName, per the state machine in spec.md §4.F.
func RunAction(ctx context.Context, groupName string, action model.Action, env Env) Result {
	res := Result{GroupName: groupName, Action: action}

	check, captures, err := evaluateCheck(ctx, groupName, action, env)
	res.Captures = append(res.Captures, captures...)
	if err != nil {
		res.Err = err
		res.Outcome = CheckFailedNoFixProvided
		return res
	}

	switch check {
	case resultFixNotRequired:
		res.Outcome = CheckSucceeded
		updateActionCache(groupName, action, env)
		return res
	case resultStopExecution:
		res.Outcome = CheckFailedFixFailedStop
		return res
	case resultCacheNotDefined:
		// Fix-only action: no check of either kind was defined. Fix is
		// still attempted; success maps to NoCheckFixSucceeded.
		return runFixOnly(ctx, groupName, action, env, res)
	}

	// resultFixRequired.
	if action.Fix == nil {
		res.Outcome = CheckFailedNoFixProvided
		return res
	}
	if !env.RunFix {
		res.Outcome = CheckFailedNoRunFix
		return res
	}
	if !env.Yolo && !action.Fix.Autofix {
		res.Outcome = CheckFailedNoRunFix
		return res
	}

	fixOutcome, fixCaptures := runFix(ctx, groupName, action, env)
	res.Captures = append(res.Captures, fixCaptures...)
	if fixOutcome == resultStopExecution {
		res.Outcome = CheckFailedFixFailedStop
		return res
	}
	if fixOutcome != resultFixNotRequired {
		res.Outcome = CheckFailedFixFailed
		return res
	}

	// FixOk -> VerifyCheck: re-run the command portion only.
	verify, verifyCaptures, err := verifyCheck(ctx, action, env)
	res.Captures = append(res.Captures, verifyCaptures...)
	if err != nil {
		res.Err = err
		res.Outcome = CheckFailedFixSucceedVerifyFailed
		return res
	}
	if verify != resultFixNotRequired {
		res.Outcome = CheckFailedFixSucceedVerifyFailed
		return res
	}

	res.Outcome = CheckFailedFixSucceedVerifySucceed
	updateActionCache(groupName, action, env)
	return res
}

func runFixOnly(ctx context.Context, groupName string, action model.Action, env Env, res Result) Result {
	if action.Fix == nil {
		res.Outcome = CheckFailedNoFixProvided
		return res
	}
	fixOutcome, fixCaptures := runFix(ctx, groupName, action, env)
	res.Captures = append(res.Captures, fixCaptures...)
	if fixOutcome == resultStopExecution {
		res.Outcome = CheckFailedFixFailedStop
		return res
	}
	if fixOutcome != resultFixNotRequired {
		res.Outcome = CheckFailedFixFailed
		return res
	}
	res.Outcome = NoCheckFixSucceeded
	updateActionCache(groupName, action, env)
	return res
}

// evaluateCheck runs the glob/cache portion (if any) and the command
// portion (if any), combining multiple check commands by max-wins.
func evaluateCheck(ctx context.Context, groupName string, action model.Action, env Env) (checkResult, []*capture.OutputCapture, error) {
	hasPaths := action.Check.Paths != nil
	hasCommands := len(action.Check.Commands) > 0

	if hasPaths {
		changed, err := globwalk.HaveGlobsChanged(action.Check.Paths.BasePath, action.Check.Paths.Patterns, groupName, env.Cache)
		if err != nil {
			return resultFixRequired, nil, fmt.Errorf("check globs for action %q: %w", action.Name, err)
		}
		if !changed {
			// Unchanged files satisfy the check without running any command.
			return resultFixNotRequired, nil, nil
		}
	}

	if !hasCommands {
		if hasPaths {
			// Paths changed and there's nothing else to check: a fix must run.
			return resultFixRequired, nil, nil
		}
		return resultCacheNotDefined, nil, nil
	}

	return runCommands(ctx, action.Check.Commands, env)
}

// verifyCheck re-runs only the command portion of a check, per spec.md
// §4.F ("skip the glob portion").
func verifyCheck(ctx context.Context, action model.Action, env Env) (checkResult, []*capture.OutputCapture, error) {
	if len(action.Check.Commands) == 0 {
		return resultFixNotRequired, nil, nil
	}
	return runCommands(ctx, action.Check.Commands, env)
}

// runCommands executes each command in order and combines exit-code
// classifications by maximum severity (worst-wins): StopExecution beats
// FixRequired beats FixNotRequired.
func runCommands(ctx context.Context, commands []string, env Env) (checkResult, []*capture.OutputCapture, error) {
	worst := resultFixNotRequired
	var captures []*capture.OutputCapture

	for _, cmdline := range commands {
		cap, err := runOne(ctx, cmdline, env)
		if err != nil {
			return resultFixRequired, captures, err
		}
		captures = append(captures, cap)

		classification := classifyExit(cap.ExitCode)
		if severity(classification) > severity(worst) {
			worst = classification
		}
		if worst == resultStopExecution {
			break
		}
	}
	return worst, captures, nil
}

func severity(r checkResult) int {
	switch r {
	case resultFixNotRequired:
		return 0
	case resultFixRequired:
		return 1
	case resultStopExecution:
		return 2
	default:
		return 0
	}
}

func classifyExit(code *int) checkResult {
	if code == nil {
		return resultFixRequired
	}
	switch {
	case *code == 0:
		return resultFixNotRequired
	case *code >= stopExitCode:
		return resultStopExecution
	default:
		return resultFixRequired
	}
}

// runFix executes every fix command in sequence, tracking the maximum exit
// code seen; it prompts before the first command unless yolo mode is on.
func runFix(ctx context.Context, groupName string, action model.Action, env Env) (checkResult, []*capture.OutputCapture) {
	fix := action.Fix
	if !env.Yolo {
		prompt := fmt.Sprintf("run fix for %s/%s?", groupName, action.Name)
		helpText := fix.HelpText
		if fix.Prompt != nil {
			if fix.Prompt.Text != "" {
				prompt = fix.Prompt.Text
			}
			if fix.Prompt.ExtraContext != "" {
				helpText = fix.Prompt.ExtraContext
			}
		}
		if env.Interaction != nil && !env.Interaction.Confirm(prompt, helpText) {
			return resultFixRequired, nil
		}
	}

	worst := resultFixNotRequired
	var captures []*capture.OutputCapture
	for _, cmdline := range fix.Commands {
		cap, err := runOne(ctx, cmdline, env)
		if err != nil {
			return resultFixRequired, captures
		}
		captures = append(captures, cap)
		classification := classifyExit(cap.ExitCode)
		if severity(classification) > severity(worst) {
			worst = classification
		}
		if worst == resultStopExecution {
			break
		}
	}
	return worst, captures
}

func runOne(ctx context.Context, cmdline string, env Env) (*capture.OutputCapture, error) {
	args, err := shellSplit(cmdline)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", cmdline, err)
	}
	return capture.Capture(ctx, capture.Options{
		WorkingDir:  env.WorkingDir,
		Args:        args,
		Env:         env.ExtraEnv,
		Path:        env.Path,
		Destination: env.Destination,
		Logger:      env.Logger,
	})
}

func updateActionCache(groupName string, action model.Action, env Env) {
	if action.Check.Paths == nil {
		return
	}
	_ = globwalk.UpdateCache(action.Check.Paths.BasePath, action.Check.Paths.Patterns, groupName, env.Cache)
}
