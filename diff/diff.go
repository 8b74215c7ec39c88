// Package diff implements myxa's structural diff engine: given two
// snapshots of a package's interface, it computes an ordered,
// deterministically-sorted list of Changes, each classified Breaking
// or NonBreaking.
//
// The classification rules are deliberately conservative — whenever a
// construct's compatibility is ambiguous, the engine calls it
// Breaking, on the theory that the resolver's selective major-crossing
// already gives depending packages an escape hatch for breakage they
// don't actually touch.
package diff

import (
	"sort"

	"github.com/gregorybchris/myxa/model"
	"github.com/pkg/errors"
)

// Category classifies a single Change.
type Category string

const (
	Breaking    Category = "Breaking"
	NonBreaking Category = "NonBreaking"
)

// Change is one detected structural difference between two package
// interfaces.
type Change struct {
	// Path is a stable, dotted locator: "module.path.member" (starting
	// with the root module's name), with an optional ".field.<name>",
	// ".variant.<name>", ".param.<name>", ".params" or ".return"
	// suffix; dependency changes use "deps.<name>". Path
	// ordering (lexicographic) is the engine's public sort key, so two
	// runs over the same inputs produce byte-identical output.
	Path        string
	Category    Category
	Description string
}

// Diff is the full, path-sorted set of Changes between two Package
// snapshots.
type Diff []Change

// IsBreaking reports whether any Change in d is classified Breaking.
func (d Diff) IsBreaking() bool {
	for _, c := range d {
		if c.Category == Breaking {
			return true
		}
	}
	return false
}

// Compute walks old and new in lockstep — modules, then members, then
// dependencies — and returns the sorted Diff between them.
//
// Diff(P, P) is always empty: every branch below only emits a Change
// when it finds an actual structural difference.
func Compute(old, new *model.Package) (Diff, error) {
	if old == nil || new == nil {
		return nil, errors.New("diff: both packages must be non-nil")
	}

	var changes []Change
	changes = append(changes, diffModule(old.Root, new.Root, nil)...)
	changes = append(changes, diffDeps(old.Deps, new.Deps)...)

	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})
	return changes, nil
}

func joinPath(prefix []string, parts ...string) string {
	all := make([]string, 0, len(prefix)+len(parts))
	all = append(all, prefix...)
	all = append(all, parts...)
	out := ""
	for i, p := range all {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

func diffModule(oldMod, newMod *model.Module, prefix []string) []Change {
	var changes []Change

	if oldMod == nil && newMod == nil {
		return nil
	}
	if oldMod == nil {
		return []Change{{
			Path:        joinPath(prefix, newMod.Name),
			Category:    NonBreaking,
			Description: "module added",
		}}
	}
	if newMod == nil {
		return []Change{{
			Path:        joinPath(prefix, oldMod.Name),
			Category:    Breaking,
			Description: "module removed",
		}}
	}

	childPrefix := append(append([]string{}, prefix...), oldMod.Name)

	names := unionKeysModule(oldMod.Modules, newMod.Modules)
	for _, name := range names {
		changes = append(changes, diffModule(oldMod.Modules[name], newMod.Modules[name], childPrefix)...)
	}

	memberNames := unionKeysMember(oldMod.Members, newMod.Members)
	for _, name := range memberNames {
		changes = append(changes, diffMember(name, oldMod.Members[name], newMod.Members[name], childPrefix)...)
	}

	return changes
}

func unionKeysModule(a, b map[string]*model.Module) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var names []string
	for n := range a {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for n := range b {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

func unionKeysMember(a, b map[string]model.Member) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var names []string
	for n := range a {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for n := range b {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

func diffMember(name string, oldMember, newMember model.Member, prefix []string) []Change {
	path := joinPath(prefix, name)

	if oldMember == nil && newMember == nil {
		return nil
	}
	if oldMember == nil {
		return []Change{{Path: path, Category: NonBreaking, Description: "member added"}}
	}
	if newMember == nil {
		return []Change{{Path: path, Category: Breaking, Description: "member removed"}}
	}

	if oldMember.Kind() != newMember.Kind() {
		return []Change{{
			Path:        path,
			Category:    Breaking,
			Description: "member kind changed from " + oldMember.Kind() + " to " + newMember.Kind(),
		}}
	}

	switch oldKind := oldMember.(type) {
	case model.Func:
		newFunc := newMember.(model.Func)
		return diffFunc(path, oldKind, newFunc)
	case model.Struct:
		newStruct := newMember.(model.Struct)
		return diffStruct(path, oldKind, newStruct)
	case model.Enum:
		newEnum := newMember.(model.Enum)
		return diffEnum(path, oldKind, newEnum)
	default:
		return nil
	}
}
