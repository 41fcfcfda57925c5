package doctor

import (
	"context"
	"strings"
	"testing"

	"github.com/oscope-dev/scope/internal/model"
)

type collectNotifier struct {
	warnings []string
}

func (c *collectNotifier) Warn(msg string) { c.warnings = append(c.warnings, msg) }

func groupWithNeeds(name string, needs ...string) model.DoctorGroup {
	return model.DoctorGroup{
		Metadata: model.Metadata{Name: name},
		Spec:     model.DoctorGroupSpec{Needs: needs},
	}
}

func TestComputeOrderDependencyChain(t *testing.T) {
	groups := map[string]model.DoctorGroup{
		"a": groupWithNeeds("a"),
		"b": groupWithNeeds("b", "a"),
		"c": groupWithNeeds("c", "b"),
	}
	order, err := computeOrder(groups, []string{"c"}, &collectNotifier{})
	if err != nil {
		t.Fatalf("computeOrder: %v", err)
	}
	if want := []string{"a", "b", "c"}; !equalStrings(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestComputeOrderMissingDependencyWarnedAndDropped(t *testing.T) {
	groups := map[string]model.DoctorGroup{
		"a": groupWithNeeds("a", "ghost"),
	}
	notifier := &collectNotifier{}
	order, err := computeOrder(groups, []string{"a"}, notifier)
	if err != nil {
		t.Fatalf("computeOrder: %v", err)
	}
	if !equalStrings(order, []string{"a"}) {
		t.Fatalf("order = %v, want [a]", order)
	}
	if len(notifier.warnings) == 0 {
		t.Fatal("expected a warning about the missing dependency")
	}
}

func TestComputeOrderCycleRefused(t *testing.T) {
	groups := map[string]model.DoctorGroup{
		"a": groupWithNeeds("a", "b"),
		"b": groupWithNeeds("b", "a"),
	}
	_, err := computeOrder(groups, []string{"a"}, &collectNotifier{})
	if err == nil {
		t.Fatal("expected a cycle error")
	}
	var cycleErr *CycleError
	if !asCycleError(err, &cycleErr) {
		t.Fatalf("err = %v, want *CycleError", err)
	}
}

func TestComputeOrderEmptyDesiredIsEmpty(t *testing.T) {
	groups := map[string]model.DoctorGroup{"a": groupWithNeeds("a")}
	order, err := computeOrder(groups, nil, &collectNotifier{})
	if err != nil {
		t.Fatalf("computeOrder: %v", err)
	}
	if len(order) != 0 {
		t.Fatalf("order = %v, want empty", order)
	}
}

func TestRunGroupsSkipBooleanProducesNoActivity(t *testing.T) {
	env := testEnv(t)
	groups := map[string]model.DoctorGroup{
		"g": {
			Metadata: model.Metadata{Name: "g"},
			Spec: model.DoctorGroupSpec{
				Skip: &model.SkipSpec{Unconditional: true},
				Actions: []model.Action{
					{Name: "always-fails", Required: true, Check: model.CheckSpec{Commands: []string{"false"}}},
				},
			},
		},
	}
	result, err := RunGroups(context.Background(), RunOptions{
		Groups:  groups,
		Desired: []string{"g"},
		Env:     env,
		Notify:  &collectNotifier{},
	})
	if err != nil {
		t.Fatalf("RunGroups: %v", err)
	}
	if !result.DidSucceed {
		t.Fatal("DidSucceed = false, want true for a skipped group")
	}
	if len(result.SkippedGroups) != 1 || result.SkippedGroups[0] != "g" {
		t.Fatalf("SkippedGroups = %v", result.SkippedGroups)
	}
	if len(result.Groups[0].ActionRuns) != 0 {
		t.Fatal("expected zero action activity for a skipped group")
	}
}

func TestRunGroupsStopPropagatesToLaterGroups(t *testing.T) {
	env := testEnv(t)
	groups := map[string]model.DoctorGroup{
		"a": {
			Metadata: model.Metadata{Name: "a"},
			Spec: model.DoctorGroupSpec{
				Actions: []model.Action{
					{Name: "fatal", Required: true, Check: model.CheckSpec{Commands: []string{"sh -c 'exit 100'"}}},
				},
			},
		},
		"b": {
			Metadata: model.Metadata{Name: "b"},
			Spec: model.DoctorGroupSpec{
				Needs: []string{"a"},
				Actions: []model.Action{
					{Name: "never-runs", Required: true, Check: model.CheckSpec{Commands: []string{"true"}}},
				},
			},
		},
	}
	result, err := RunGroups(context.Background(), RunOptions{
		Groups:  groups,
		Desired: []string{"b"},
		Env:     env,
		Notify:  &collectNotifier{},
	})
	if err != nil {
		t.Fatalf("RunGroups: %v", err)
	}
	if result.DidSucceed {
		t.Fatal("DidSucceed = true, want false")
	}
	if result.ExitCode() != 1 {
		t.Fatalf("ExitCode() = %d, want 1", result.ExitCode())
	}
	var bResult *GroupResult
	for i := range result.Groups {
		if result.Groups[i].Name == "b" {
			bResult = &result.Groups[i]
		}
	}
	if bResult == nil || !bResult.Skipped {
		t.Fatalf("group b = %+v, want skipped", bResult)
	}
}

func equalStrings(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func asCycleError(err error, target **CycleError) bool {
	ce, ok := err.(*CycleError)
	if !ok {
		return false
	}
	*target = ce
	return strings.Contains(ce.Error(), "cycle")
}
