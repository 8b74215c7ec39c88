package diff

import (
	"fmt"

	"github.com/gregorybchris/myxa/model"
	"github.com/gregorybchris/myxa/version"
)

// diffFunc classifies changes between two Func members. Optional
// parameters are a non-goal, so every parameter-list change — add,
// remove, reorder, or type change — is Breaking; only the description
// (and the precise path suffix) varies.
func diffFunc(path string, old, new model.Func) []Change {
	var changes []Change

	oldNames := paramNames(old.Params)
	newNames := paramNames(new.Params)

	switch {
	case equalStrings(oldNames, newNames):
		for i, name := range oldNames {
			if !model.Equal(old.Params[i].Type, new.Params[i].Type) {
				changes = append(changes, Change{
					Path:        path + ".param." + name,
					Category:    Breaking,
					Description: fmt.Sprintf("parameter %q type changed from %s to %s", name, old.Params[i].Type, new.Params[i].Type),
				})
			}
		}
	case sameSet(oldNames, newNames):
		changes = append(changes, Change{
			Path:        path + ".params",
			Category:    Breaking,
			Description: "parameters reordered",
		})
	default:
		oldByName := paramsByName(old.Params)
		newByName := paramsByName(new.Params)
		for _, name := range oldNames {
			if _, ok := newByName[name]; !ok {
				changes = append(changes, Change{
					Path:        path + ".param." + name,
					Category:    Breaking,
					Description: fmt.Sprintf("parameter %q removed", name),
				})
			}
		}
		for _, name := range newNames {
			if _, ok := oldByName[name]; !ok {
				changes = append(changes, Change{
					Path:        path + ".param." + name,
					Category:    Breaking,
					Description: fmt.Sprintf("parameter %q added", name),
				})
			}
		}
		for name, oldType := range oldByName {
			if newType, ok := newByName[name]; ok && !model.Equal(oldType, newType) {
				changes = append(changes, Change{
					Path:        path + ".param." + name,
					Category:    Breaking,
					Description: fmt.Sprintf("parameter %q type changed from %s to %s", name, oldType, newType),
				})
			}
		}
	}

	if !model.Equal(old.Return, new.Return) {
		changes = append(changes, Change{
			Path:        path + ".return",
			Category:    Breaking,
			Description: fmt.Sprintf("return type changed from %s to %s", old.Return, new.Return),
		})
	}

	return changes
}

// diffStruct classifies changes between two Struct members: both
// adding and removing a field are Breaking (a consumer may construct
// the type positionally or exhaustively), and a rename is modeled as
// remove+add rather than detected directly.
func diffStruct(path string, old, new model.Struct) []Change {
	var changes []Change

	for _, name := range old.FieldOrder {
		if _, ok := new.Fields[name]; !ok {
			changes = append(changes, Change{
				Path:        path + ".field." + name,
				Category:    Breaking,
				Description: fmt.Sprintf("field %q removed", name),
			})
		}
	}
	for _, name := range new.FieldOrder {
		if _, ok := old.Fields[name]; !ok {
			changes = append(changes, Change{
				Path:        path + ".field." + name,
				Category:    Breaking,
				Description: fmt.Sprintf("field %q added", name),
			})
		}
	}
	for name, oldType := range old.Fields {
		if newType, ok := new.Fields[name]; ok && !model.Equal(oldType, newType) {
			changes = append(changes, Change{
				Path:        path + ".field." + name,
				Category:    Breaking,
				Description: fmt.Sprintf("field %q type changed from %s to %s", name, oldType, newType),
			})
		}
	}

	return sortedChanges(changes)
}

// diffEnum classifies changes between two Enum members. Variant
// addition is Breaking under an exhaustive-match stance (see
// DESIGN.md's Open Question record).
func diffEnum(path string, old, new model.Enum) []Change {
	var changes []Change

	for _, name := range old.VariantOrder {
		if _, ok := new.Variants[name]; !ok {
			changes = append(changes, Change{
				Path:        path + ".variant." + name,
				Category:    Breaking,
				Description: fmt.Sprintf("variant %q removed", name),
			})
		}
	}
	for _, name := range new.VariantOrder {
		if _, ok := old.Variants[name]; !ok {
			changes = append(changes, Change{
				Path:        path + ".variant." + name,
				Category:    Breaking,
				Description: fmt.Sprintf("variant %q added", name),
			})
		}
	}
	for name, oldPayload := range old.Variants {
		newPayload, ok := new.Variants[name]
		if !ok {
			continue
		}
		if payloadChanged(oldPayload, newPayload) {
			changes = append(changes, Change{
				Path:        path + ".variant." + name,
				Category:    Breaking,
				Description: fmt.Sprintf("variant %q payload type changed", name),
			})
		}
	}

	return sortedChanges(changes)
}

func payloadChanged(old, new model.Type) bool {
	if old == nil && new == nil {
		return false
	}
	if old == nil || new == nil {
		return true
	}
	return !model.Equal(old, new)
}

// diffDeps implements the Dependency rows: add/remove/major-change are
// Breaking, minor bump is NonBreaking.
func diffDeps(old, new map[string]model.Dep) []Change {
	var changes []Change
	names := make(map[string]bool, len(old)+len(new))
	for n := range old {
		names[n] = true
	}
	for n := range new {
		names[n] = true
	}

	for name := range names {
		oldDep, hasOld := old[name]
		newDep, hasNew := new[name]
		path := "deps." + name

		switch {
		case !hasOld:
			changes = append(changes, Change{Path: path, Category: Breaking, Description: fmt.Sprintf("dependency %q added", name)})
		case !hasNew:
			changes = append(changes, Change{Path: path, Category: Breaking, Description: fmt.Sprintf("dependency %q removed", name)})
		case oldDep.Version.Major != newDep.Version.Major:
			changes = append(changes, Change{
				Path:        path,
				Category:    Breaking,
				Description: fmt.Sprintf("dependency %q major version changed from %s to %s", name, oldDep.Version, newDep.Version),
			})
		case oldDep.Version.Minor != newDep.Version.Minor:
			changes = append(changes, Change{
				Path:        path,
				Category:    NonBreaking,
				Description: fmt.Sprintf("dependency %q minor version bumped from %s to %s", name, oldDep.Version, newDep.Version),
			})
		}
	}

	return sortedChanges(changes)
}

func paramNames(params []model.Param) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

func paramsByName(params []model.Param) map[string]model.Type {
	m := make(map[string]model.Type, len(params))
	for _, p := range params {
		m[p.Name] = p.Type
	}
	return m
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	am := make(map[string]int, len(a))
	for _, s := range a {
		am[s]++
	}
	for _, s := range b {
		am[s]--
	}
	for _, c := range am {
		if c != 0 {
			return false
		}
	}
	return true
}

func sortedChanges(changes []Change) []Change {
	// Stable insertion sort is overkill for the handful of changes any
	// one member produces; Compute does the real global sort. This
	// just keeps per-member output deterministic for direct callers
	// (e.g. tests) that exercise diffStruct/diffEnum without going
	// through Compute.
	for i := 1; i < len(changes); i++ {
		for j := i; j > 0 && changes[j].Path < changes[j-1].Path; j-- {
			changes[j], changes[j-1] = changes[j-1], changes[j]
		}
	}
	return changes
}

// RequiredBump returns the version bump that old must take to legally
// publish a package whose diff against old is d — bump_major if any
// change is Breaking, else bump_minor.
func RequiredBump(old version.Version, d Diff) version.Version {
	if d.IsBreaking() {
		return version.BumpMajor(old)
	}
	return version.BumpMinor(old)
}
