package doctor

import (
	"sort"

	"github.com/oscope-dev/scope/internal/model"
)

// GroupSummary is one entry in a List() response: a group name plus its
// action names, without running anything.
type GroupSummary struct {
	Name        string
	RunByDefault bool
	Actions     []string
}

// List enumerates every configured group and its action names, in name
// order, without evaluating any check/fix/verify cycle. Grounded on
// scope-doctor's "doctor list" subcommand (see SPEC_FULL.md's supplemented
// features).
func List(groups map[string]model.DoctorGroup) []GroupSummary {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]GroupSummary, 0, len(names))
	for _, name := range names {
		g := groups[name]
		actions := make([]string, len(g.Spec.Actions))
		for i, a := range g.Spec.Actions {
			actions[i] = a.Name
		}
		out = append(out, GroupSummary{
			Name:         name,
			RunByDefault: g.Spec.RunByDefault(),
			Actions:      actions,
		})
	}
	return out
}
