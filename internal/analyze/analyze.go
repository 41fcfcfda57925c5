// Package analyze streams a line source through the configured known-error
// patterns, reporting and optionally fixing the first match of each.
package analyze

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/google/shlex"

	"github.com/oscope-dev/scope/internal/capture"
	"github.com/oscope-dev/scope/internal/model"
	"github.com/oscope-dev/scope/internal/ux"
)

// shellSplit tokenizes a fix command the way a POSIX shell would, honoring
// quotes.
func shellSplit(cmdline string) ([]string, error) {
	args, err := shlex.Split(cmdline)
	if err != nil {
		return nil, fmt.Errorf("invalid shell syntax: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return args, nil
}

// Status is the typed discriminant the known-error matcher terminates
// with; its numeric value is also the process exit code (spec.md §6),
// except for the successful-fix case which exits 0.
type Status int

const (
	NoKnownErrorsFound Status = iota
	KnownErrorFoundNoFixFound
	KnownErrorFoundUserDenied
	KnownErrorFoundFixFailed
	KnownErrorFoundFixSucceeded
)

func (s Status) String() string {
	switch s {
	case NoKnownErrorsFound:
		return "NoKnownErrorsFound"
	case KnownErrorFoundNoFixFound:
		return "KnownErrorFoundNoFixFound"
	case KnownErrorFoundUserDenied:
		return "KnownErrorFoundUserDenied"
	case KnownErrorFoundFixFailed:
		return "KnownErrorFoundFixFailed"
	case KnownErrorFoundFixSucceeded:
		return "KnownErrorFoundFixSucceeded"
	default:
		return "Unknown"
	}
}

// ExitCode maps Status to the process exit code: the successful-fix state
// is the sole discriminant that maps to 0 rather than its ordinal.
func (s Status) ExitCode() int {
	if s == KnownErrorFoundFixSucceeded {
		return 0
	}
	if s == NoKnownErrorsFound {
		return 0
	}
	return int(s)
}

// Match records one known error found in the stream, alongside the fix
// outcome (if a fix was attached and attempted).
type Match struct {
	KnownError model.KnownError
	Line       string
}

// Result is the full outcome of one Analyze invocation.
type Result struct {
	Status  Status
	Matches []Match
}

// Env bundles the capability objects the matcher and any fixes it runs
// need.
type Env struct {
	WorkingDir  string
	Path        string
	ExtraEnv    map[string]string
	Interaction ux.UserInteraction
	Logger      capture.Logger
	Destination capture.OutputDestination
	Yolo        bool
}

type compiledError struct {
	known model.KnownError
	re    *regexp.Regexp
}

// Analyze reads lines from r, testing each against every not-yet-matched
// known error in order. On a match it reports the help text, optionally
// prompts and runs the attached fix, then removes that pattern from the
// active set (one-shot per invocation per spec.md §4.H). It stops early
// once the active set is empty.
func Analyze(ctx context.Context, r io.Reader, knownErrors map[string]model.KnownError, env Env) (Result, error) {
	active := make([]*compiledError, 0, len(knownErrors))
	for _, ke := range knownErrors {
		re, err := regexp.Compile(ke.Spec.Pattern)
		if err != nil {
			continue
		}
		active = append(active, &compiledError{known: ke, re: re})
	}

	result := Result{Status: NoKnownErrorsFound}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for len(active) > 0 && scanner.Scan() {
		line := scanner.Text()

		var matchedIdx = -1
		for i, ce := range active {
			if ce.re.MatchString(line) {
				matchedIdx = i
				break
			}
		}
		if matchedIdx == -1 {
			continue
		}

		ce := active[matchedIdx]
		active = append(active[:matchedIdx], active[matchedIdx+1:]...)

		match := Match{KnownError: ce.known, Line: line}
		result.Matches = append(result.Matches, match)

		status, err := handleMatch(ctx, ce.known, env)
		if err != nil {
			return result, err
		}
		result.Status = worseStatus(result.Status, status)
	}

	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("read input: %w", err)
	}

	return result, nil
}

// worseStatus keeps the most severe status seen across multiple matches in
// one invocation: a later success never downgrades an earlier failure, and
// vice versa, a later failure always takes precedence over a prior "found,
// no fix" state.
func worseStatus(current, next Status) Status {
	rank := func(s Status) int {
		switch s {
		case NoKnownErrorsFound:
			return 0
		case KnownErrorFoundFixSucceeded:
			return 1
		case KnownErrorFoundNoFixFound:
			return 2
		case KnownErrorFoundUserDenied:
			return 3
		case KnownErrorFoundFixFailed:
			return 4
		default:
			return 0
		}
	}
	if rank(next) > rank(current) {
		return next
	}
	return current
}

func handleMatch(ctx context.Context, ke model.KnownError, env Env) (Status, error) {
	if env.Interaction != nil {
		env.Interaction.Notify(ke.Spec.Help)
	}

	if ke.Spec.Fix == nil {
		return KnownErrorFoundNoFixFound, nil
	}

	if !env.Yolo {
		prompt := fmt.Sprintf("run fix for known error %q?", ke.Metadata.Name)
		helpText := ke.Spec.Fix.HelpText
		if ke.Spec.Fix.Prompt != nil {
			if ke.Spec.Fix.Prompt.Text != "" {
				prompt = ke.Spec.Fix.Prompt.Text
			}
			if ke.Spec.Fix.Prompt.ExtraContext != "" {
				helpText = ke.Spec.Fix.Prompt.ExtraContext
			}
		}
		if env.Interaction != nil && !env.Interaction.Confirm(prompt, helpText) {
			return KnownErrorFoundUserDenied, nil
		}
	}

	path := ke.Metadata.ExecPath(env.Path)
	for _, cmdline := range ke.Spec.Fix.Commands {
		args, err := shellSplit(cmdline)
		if err != nil {
			return KnownErrorFoundFixFailed, nil
		}
		cap, err := capture.Capture(ctx, capture.Options{
			WorkingDir:  env.WorkingDir,
			Args:        args,
			Env:         env.ExtraEnv,
			Path:        path,
			Destination: env.Destination,
			Logger:      env.Logger,
		})
		if err != nil {
			return KnownErrorFoundFixFailed, nil
		}
		if cap.ExitCode == nil || *cap.ExitCode != 0 {
			if env.Interaction != nil {
				if ke.Spec.Fix.HelpText != "" {
					env.Interaction.Notify(ke.Spec.Fix.HelpText)
				}
				if ke.Spec.Fix.HelpURL != "" {
					env.Interaction.Notify(ke.Spec.Fix.HelpURL)
				}
			}
			return KnownErrorFoundFixFailed, nil
		}
	}

	return KnownErrorFoundFixSucceeded, nil
}

// Source names the three input shapes Analyze's entry points accept: a
// file path, standard input, or a prebuilt line vector, all unified behind
// the same io.Reader-based Analyze function.
type Source struct {
	FilePath string
	Stdin    bool
	Lines    []string
}

// Open resolves a Source into a reader (and closer, for file sources).
func (s Source) Open() (io.ReadCloser, error) {
	switch {
	case s.FilePath != "":
		f, err := os.Open(s.FilePath)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", s.FilePath, err)
		}
		return f, nil
	case s.Stdin:
		return io.NopCloser(os.Stdin), nil
	default:
		return io.NopCloser(newLineReader(s.Lines)), nil
	}
}

func newLineReader(lines []string) io.Reader {
	var b []byte
	for _, l := range lines {
		b = append(b, []byte(l)...)
		b = append(b, '\n')
	}
	return &sliceReader{data: b}
}

type sliceReader struct {
	data []byte
	pos  int
}

func (r *sliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
