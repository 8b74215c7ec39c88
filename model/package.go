package model

import "github.com/gregorybchris/myxa/version"

// PackageInfo is the identifying metadata of a package version.
type PackageInfo struct {
	Name        string
	Description string
	Version     version.Version
}

// DepReq is a declared, unlocked dependency requirement: "at least
// MinVersion of Name". There is no upper bound.
type DepReq struct {
	Name       string
	MinVersion version.Version
}

// Dep is a locked dependency: a concrete, resolved Version of Name.
type Dep struct {
	Name    string
	Version version.Version
}

// Package is the full interface of one published (or draft) version of
// a package: its metadata, its member tree, and its dependency
// requirements/lock.
//
// A draft Package (built by Init and mutated by Add/Remove/user edits)
// typically has Requirements populated and Deps empty or partial; a
// locked Package has both, with the invariant that for every
// requirement r, Deps[r] >= Requirements[r].MinVersion. Deps[r]'s major
// need not match Requirements[r].MinVersion.Major: selective
// major-crossing can lock a higher major than the requirement floor.
type Package struct {
	Info         PackageInfo
	Root         *Module
	Requirements map[string]DepReq
	Deps         map[string]Dep

	// Uses declares, per dependency name, the absolute member paths
	// this package's code actually references there. Ref only targets
	// Struct/Enum members, so a Func dependency is never reachable
	// from the type graph alone — Uses is how the resolver's
	// used-members tracking learns about Func usage too. A path
	// appearing here is always of the form "<depName>.<rest...>".
	Uses map[string][]string
}

// Init creates a fresh draft package at version.First, with an empty
// root module named after the package.
func Init(name, description string) *Package {
	return &Package{
		Info: PackageInfo{
			Name:        name,
			Description: description,
			Version:     version.First,
		},
		Root:         NewModule(name),
		Requirements: make(map[string]DepReq),
		Deps:         make(map[string]Dep),
		Uses:         make(map[string][]string),
	}
}

// AddUse declares that pkg's code references absolutePath within
// dependency depName (e.g. "lib.f"). Used as input to the resolver's
// used_members tracking.
func (pkg *Package) AddUse(depName, absolutePath string) {
	if pkg.Uses == nil {
		pkg.Uses = make(map[string][]string)
	}
	for _, existing := range pkg.Uses[depName] {
		if existing == absolutePath {
			return
		}
	}
	pkg.Uses[depName] = append(pkg.Uses[depName], absolutePath)
}

// Clone returns a deep, independent copy of pkg. The Index relies on
// this to guarantee that published snapshots never share mutable
// substructure with a caller's working draft.
func (pkg *Package) Clone() *Package {
	if pkg == nil {
		return nil
	}
	out := &Package{
		Info:         pkg.Info,
		Root:         pkg.Root.clone(),
		Requirements: make(map[string]DepReq, len(pkg.Requirements)),
		Deps:         make(map[string]Dep, len(pkg.Deps)),
		Uses:         make(map[string][]string, len(pkg.Uses)),
	}
	for k, v := range pkg.Requirements {
		out.Requirements[k] = v
	}
	for k, v := range pkg.Deps {
		out.Deps[k] = v
	}
	for k, v := range pkg.Uses {
		out.Uses[k] = append([]string(nil), v...)
	}
	return out
}

// IsLocked reports whether every requirement has a corresponding
// entry in Deps at or above its floor. A locked dependency need not
// share its requirement's major: the resolver's selective
// major-crossing can legitimately lock a higher major than the
// requirement floor names, and that lock is still valid.
func (pkg *Package) IsLocked() bool {
	for name, req := range pkg.Requirements {
		dep, ok := pkg.Deps[name]
		if !ok {
			return false
		}
		if !version.GreaterOrEqual(dep.Version, req.MinVersion) {
			return false
		}
	}
	return true
}

// AddRequirement declares (or replaces) a dependency requirement and
// drops any existing lock entry for name from Deps; call the
// resolver's Lock to produce a consistent lock afterward.
func (pkg *Package) AddRequirement(name string, min version.Version) {
	if pkg.Requirements == nil {
		pkg.Requirements = make(map[string]DepReq)
	}
	pkg.Requirements[name] = DepReq{Name: name, MinVersion: min}
	delete(pkg.Deps, name)
}

// RemoveRequirement removes a declared dependency requirement and any
// corresponding lock entry.
func (pkg *Package) RemoveRequirement(name string) {
	delete(pkg.Requirements, name)
	delete(pkg.Deps, name)
}
