package doctor

import (
	"context"
	"fmt"
	"sort"

	"github.com/oscope-dev/scope/internal/capture"
	"github.com/oscope-dev/scope/internal/model"
	"github.com/oscope-dev/scope/internal/ux"
)

// CycleError is returned by computeOrder when the requires graph contains a
// cycle among the groups reachable from the desired set; spec.md §4.G
// requires refusal rather than silent truncation (see DESIGN.md's Open
// Question decision on the order algorithm).
type CycleError struct {
	Groups []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected among doctor groups: %v", e.Groups)
}

// computeOrder returns a flat execution order such that every group named
// directly or transitively (via requires) by desired appears exactly once,
// after every group it requires. Missing requires are warned and dropped
// rather than treated as an error. Ties are broken by group name so the
// order is deterministic across runs.
func computeOrder(groups map[string]model.DoctorGroup, desired []string, notify ux.Notifier) ([]string, error) {
	reachable := map[string]bool{}
	var walk func(name string)
	walk = func(name string) {
		if reachable[name] {
			return
		}
		g, ok := groups[name]
		if !ok {
			return
		}
		reachable[name] = true
		for _, dep := range g.Spec.Needs {
			if _, ok := groups[dep]; !ok {
				notify.Warn(fmt.Sprintf("group %q requires unknown group %q, dropping dependency edge", name, dep))
				continue
			}
			walk(dep)
		}
	}
	for _, name := range desired {
		if _, ok := groups[name]; !ok {
			notify.Warn(fmt.Sprintf("requested group %q does not exist, skipping", name))
			continue
		}
		walk(name)
	}

	// in-degree within the reachable subgraph: count of requires edges
	// from each node that land on another reachable node.
	indegree := map[string]int{}
	dependents := map[string][]string{}
	for name := range reachable {
		indegree[name] = 0
	}
	for name := range reachable {
		g := groups[name]
		for _, dep := range g.Spec.Needs {
			if !reachable[dep] {
				continue
			}
			indegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for name, deg := range indegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	var order []string
	for len(ready) > 0 {
		sort.Strings(ready)
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		deps := append([]string(nil), dependents[next]...)
		sort.Strings(deps)
		for _, d := range deps {
			indegree[d]--
			if indegree[d] == 0 {
				ready = append(ready, d)
			}
		}
	}

	if len(order) != len(reachable) {
		var remaining []string
		for name, deg := range indegree {
			if deg > 0 {
				remaining = append(remaining, name)
			}
		}
		sort.Strings(remaining)
		return nil, &CycleError{Groups: remaining}
	}

	return order, nil
}

// ActionOutcome pairs a Result with the action index for reporting.
type GroupResult struct {
	Name       string
	Skipped    bool
	Failed     bool
	ActionRuns []Result
}

// PathRunResult is the scheduler's summary of one full invocation.
type PathRunResult struct {
	DidSucceed      bool
	SucceededGroups []string
	FailedGroup     string
	SkippedGroups   []string
	Groups          []GroupResult
}

// ExitCode maps the result to the process exit code spec.md §6 specifies:
// 0 on success, 1 otherwise.
func (r PathRunResult) ExitCode() int {
	if r.DidSucceed {
		return 0
	}
	return 1
}

// RunOptions configures a full scheduler invocation.
type RunOptions struct {
	Groups   map[string]model.DoctorGroup
	Desired  []string
	Env      Env
	Notify   ux.Notifier
	Progress ux.ProgressReporter
}

// RunGroups computes the execution order and runs every group's actions in
// turn, honoring skip specs and the CheckFailedFixFailedStop short-circuit.
func RunGroups(ctx context.Context, opts RunOptions) (PathRunResult, error) {
	order, err := computeOrder(opts.Groups, opts.Desired, opts.Notify)
	if err != nil {
		return PathRunResult{}, err
	}

	progress := opts.Progress
	if progress == nil {
		progress = ux.NoOpProgress{}
	}

	result := PathRunResult{DidSucceed: true}
	stopped := false

	for _, name := range order {
		group := opts.Groups[name]

		if stopped {
			result.SkippedGroups = append(result.SkippedGroups, name)
			result.Groups = append(result.Groups, GroupResult{Name: name, Skipped: true})
			continue
		}

		// Each group's commands resolve against its own bin-path annotation
		// (ancestor bin/ dirs, SCOPE_BIN_DIR) prepended to the configured
		// base path, per spec.md §3's ExecPath annotation.
		groupEnv := opts.Env
		groupEnv.Path = group.Metadata.ExecPath(opts.Env.Path)

		skip, err := evaluateSkip(ctx, group, groupEnv)
		if err != nil {
			opts.Notify.Warn(fmt.Sprintf("group %q: skip command failed: %v", name, err))
		}
		if skip {
			result.SkippedGroups = append(result.SkippedGroups, name)
			result.Groups = append(result.Groups, GroupResult{Name: name, Skipped: true})
			continue
		}

		progress.StartGroup(name, len(group.Spec.Actions))
		gr := GroupResult{Name: name}

		for _, action := range group.Spec.Actions {
			progress.AdvanceAction(action.Name, action.Description)
			res := RunAction(ctx, name, action, groupEnv)
			gr.ActionRuns = append(gr.ActionRuns, res)

			if res.Outcome.Stop() {
				gr.Failed = true
				result.DidSucceed = false
				result.FailedGroup = name
				stopped = true
				break
			}
			if !res.Outcome.Passed() {
				gr.Failed = true
				result.DidSucceed = false
				if result.FailedGroup == "" {
					result.FailedGroup = name
				}
				if action.Required {
					stopped = true
					break
				}
			}
		}
		progress.FinishGroup()

		if !gr.Failed {
			result.SucceededGroups = append(result.SucceededGroups, name)
		}
		result.Groups = append(result.Groups, gr)
	}

	return result, nil
}

func evaluateSkip(ctx context.Context, group model.DoctorGroup, env Env) (bool, error) {
	skip := group.Spec.Skip
	if skip == nil {
		return false, nil
	}
	if !skip.HasCommand {
		return skip.Unconditional, nil
	}

	args, err := shellSplit(skip.Command)
	if err != nil {
		return false, err
	}
	cap, err := capture.Capture(ctx, capture.Options{
		WorkingDir:  env.WorkingDir,
		Args:        args,
		Env:         env.ExtraEnv,
		Path:        env.Path,
		Destination: capture.Null,
	})
	if err != nil {
		return false, err
	}
	return cap.ExitCode != nil && *cap.ExitCode == 0, nil
}
