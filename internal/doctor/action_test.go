package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/oscope-dev/scope/internal/cache"
	"github.com/oscope-dev/scope/internal/capture"
	"github.com/oscope-dev/scope/internal/model"
)

func testEnv(t *testing.T) Env {
	t.Helper()
	dir := t.TempDir()
	return Env{
		Cache:       cache.NewFileBasedCache(filepath.Join(dir, "cache.json"), nil),
		WorkingDir:  dir,
		Path:        os.Getenv("PATH"),
		Destination: capture.Null,
		Yolo:        true,
		RunFix:      true,
	}
}

func TestRunActionCheckSucceeded(t *testing.T) {
	env := testEnv(t)
	action := model.Action{
		Name:     "shell-ok",
		Required: true,
		Check:    model.CheckSpec{Commands: []string{"true"}},
	}
	res := RunAction(context.Background(), "g", action, env)
	if res.Outcome != CheckSucceeded {
		t.Fatalf("Outcome = %v, want CheckSucceeded", res.Outcome)
	}
	if !res.Outcome.Passed() {
		t.Fatal("Passed() = false, want true")
	}
}

func TestRunActionFixRequiredAndVerified(t *testing.T) {
	env := testEnv(t)
	action := model.Action{
		Name:     "fixable",
		Required: true,
		Check:    model.CheckSpec{Commands: []string{"false"}},
		Fix:      &model.FixSpec{Commands: []string{"true"}, Autofix: true},
	}
	res := RunAction(context.Background(), "g", action, env)
	if res.Outcome != CheckFailedFixSucceedVerifySucceed {
		t.Fatalf("Outcome = %v, want CheckFailedFixSucceedVerifySucceed", res.Outcome)
	}
}

func TestRunActionFixFailsVerify(t *testing.T) {
	env := testEnv(t)
	action := model.Action{
		Name:     "stays-broken",
		Required: true,
		Check:    model.CheckSpec{Commands: []string{"false"}},
		Fix:      &model.FixSpec{Commands: []string{"true"}, Autofix: true},
	}
	// Fix "succeeds" (exit 0) but the check command is re-run and still
	// fails, so verify must fail.
	res := RunAction(context.Background(), "g", action, env)
	if res.Outcome != CheckFailedFixSucceedVerifyFailed {
		t.Fatalf("Outcome = %v, want CheckFailedFixSucceedVerifyFailed", res.Outcome)
	}
}

func TestRunActionNoFixProvided(t *testing.T) {
	env := testEnv(t)
	action := model.Action{
		Name:     "no-fix",
		Required: true,
		Check:    model.CheckSpec{Commands: []string{"false"}},
	}
	res := RunAction(context.Background(), "g", action, env)
	if res.Outcome != CheckFailedNoFixProvided {
		t.Fatalf("Outcome = %v, want CheckFailedNoFixProvided", res.Outcome)
	}
}

func TestRunActionNoRunFixWithoutAutofixOrYolo(t *testing.T) {
	env := testEnv(t)
	env.Yolo = false
	action := model.Action{
		Name:     "manual-fix",
		Required: true,
		Check:    model.CheckSpec{Commands: []string{"false"}},
		Fix:      &model.FixSpec{Commands: []string{"true"}, Autofix: false},
	}
	res := RunAction(context.Background(), "g", action, env)
	if res.Outcome != CheckFailedNoRunFix {
		t.Fatalf("Outcome = %v, want CheckFailedNoRunFix", res.Outcome)
	}
}

func TestRunActionStopExitCode(t *testing.T) {
	env := testEnv(t)
	action := model.Action{
		Name:     "fatal",
		Required: true,
		Check:    model.CheckSpec{Commands: []string{"sh -c 'exit 100'"}},
	}
	res := RunAction(context.Background(), "g", action, env)
	if res.Outcome != CheckFailedFixFailedStop {
		t.Fatalf("Outcome = %v, want CheckFailedFixFailedStop", res.Outcome)
	}
	if !res.Outcome.Stop() {
		t.Fatal("Stop() = false, want true")
	}
}

func TestRunActionFixOnlyNoCheck(t *testing.T) {
	env := testEnv(t)
	action := model.Action{
		Name:     "fix-only",
		Required: true,
		Fix:      &model.FixSpec{Commands: []string{"true"}, Autofix: true},
	}
	res := RunAction(context.Background(), "g", action, env)
	if res.Outcome != NoCheckFixSucceeded {
		t.Fatalf("Outcome = %v, want NoCheckFixSucceeded", res.Outcome)
	}
}

func TestRunActionFilesGlobCachedShortCircuits(t *testing.T) {
	env := testEnv(t)
	file := filepath.Join(env.WorkingDir, "a.txt")
	if err := os.WriteFile(file, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	action := model.Action{
		Name:     "glob-check",
		Required: true,
		Check: model.CheckSpec{
			Paths: &model.FilesGlob{BasePath: env.WorkingDir, Patterns: []string{"*.txt"}},
		},
	}

	// First run: no cache entry, glob reports changed, no commands to run
	// so EvaluateCheck falls to resultFixRequired, and with no fix this is
	// CheckFailedNoFixProvided.
	res := RunAction(context.Background(), "g", action, env)
	if res.Outcome != CheckFailedNoFixProvided {
		t.Fatalf("first run Outcome = %v, want CheckFailedNoFixProvided", res.Outcome)
	}

	if err := env.Cache.Update("g", file); err != nil {
		t.Fatal(err)
	}

	res = RunAction(context.Background(), "g", action, env)
	if res.Outcome != CheckSucceeded {
		t.Fatalf("cached run Outcome = %v, want CheckSucceeded", res.Outcome)
	}
}

func TestRunActionFixPromptDenied(t *testing.T) {
	env := testEnv(t)
	env.Yolo = false
	env.Interaction = denyInteraction{}
	action := model.Action{
		Name:     "needs-confirm",
		Required: true,
		Check:    model.CheckSpec{Commands: []string{"false"}},
		Fix:      &model.FixSpec{Commands: []string{"true"}, Autofix: true},
	}
	res := RunAction(context.Background(), "g", action, env)
	if res.Outcome != CheckFailedFixFailed {
		t.Fatalf("Outcome = %v, want CheckFailedFixFailed", res.Outcome)
	}
}

type denyInteraction struct{}

func (denyInteraction) Confirm(prompt, help string) bool { return false }
func (denyInteraction) Notify(msg string)                {}
