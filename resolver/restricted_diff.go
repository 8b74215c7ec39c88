package resolver

import (
	"strings"

	"github.com/gregorybchris/myxa/diff"
	"github.com/gregorybchris/myxa/internal/pathset"
	"github.com/gregorybchris/myxa/model"
)

// restrictedDiffBreaking computes the full diff between old and new,
// then reports whether any Breaking change falls within used's
// transitive closure: changes outside that set don't affect
// admissibility, even though the full diff is still what Compute
// returns to any other caller that wants it.
func restrictedDiffBreaking(old, new *model.Package, used *pathset.Set) (bool, error) {
	closed := pathset.New()
	closed.Union(used)
	closeRefs(old, closed)
	closeRefs(new, closed)

	d, err := diff.Compute(old, new)
	if err != nil {
		return false, err
	}

	for _, c := range d {
		if c.Category != diff.Breaking {
			continue
		}
		if withinUsed(c.Path, closed) {
			return true, nil
		}
	}
	return false, nil
}

// withinUsed reports whether path is one of used's member paths or
// nested under one (e.g. "lib.f.param.x" under "lib.f").
func withinUsed(path string, used *pathset.Set) bool {
	if used.Contains(path) {
		return true
	}
	for _, p := range used.Slice() {
		if strings.HasPrefix(path, p+".") {
			return true
		}
	}
	return false
}

// closeRefs expands used in place to include every member that a used
// member's type graph transitively Refs, within pkg. Func members
// can't themselves be Ref targets, but a used Struct or Enum's
// fields/variants may Ref further Structs/Enums, and those belong in
// the restricted diff too.
func closeRefs(pkg *model.Package, used *pathset.Set) {
	queue := used.Slice()
	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		member, ok := findMember(pkg.Root, path)
		if !ok {
			continue
		}
		for _, refName := range collectRefs(member) {
			if used.Add(refName) {
				queue = append(queue, refName)
			}
		}
	}
}

// findMember resolves an absolute dotted path ("pkgRootName.path.Name")
// to the member it names within root's tree.
func findMember(root *model.Module, absPath string) (model.Member, bool) {
	segments := strings.Split(absPath, ".")
	if len(segments) < 2 || root == nil || segments[0] != root.Name {
		return nil, false
	}

	mod := root
	for _, seg := range segments[1 : len(segments)-1] {
		child, ok := mod.Modules[seg]
		if !ok {
			return nil, false
		}
		mod = child
	}
	member, ok := mod.Members[segments[len(segments)-1]]
	return member, ok
}

// collectRefs gathers every Ref.Name reachable from member's type
// graph.
func collectRefs(member model.Member) []string {
	var refs []string
	var walk func(model.Type)
	walk = func(t model.Type) {
		switch v := t.(type) {
		case model.List:
			walk(v.Elem)
		case model.Set:
			walk(v.Elem)
		case model.Dict:
			walk(v.Key)
			walk(v.Value)
		case model.Tuple:
			for _, e := range v.Elems {
				walk(e)
			}
		case model.Ref:
			refs = append(refs, v.Name)
		}
	}

	switch v := member.(type) {
	case model.Func:
		for _, p := range v.Params {
			walk(p.Type)
		}
		walk(v.Return)
	case model.Struct:
		for _, t := range v.Fields {
			walk(t)
		}
	case model.Enum:
		for _, t := range v.Variants {
			if t != nil {
				walk(t)
			}
		}
	}
	return refs
}
