// Package index implements myxa's content-addressed store of published
// package versions: the sole durable artifact in the system, and the
// thing every other component (diff against "old", resolver, publish
// gate) reads from.
package index

import (
	"encoding/json"
	"sort"

	"github.com/gregorybchris/myxa/internal/pathset"
	"github.com/gregorybchris/myxa/model"
	"github.com/gregorybchris/myxa/version"
	"github.com/pkg/errors"
)

// ErrNotFound is the sentinel cause returned when a package name or
// version isn't present in the index.
var ErrNotFound = errors.New("not found")

// ErrAlreadyPublished is the sentinel cause returned by Insert when
// (name, version) already exists.
var ErrAlreadyPublished = errors.New("already published")

// Index is an in-memory, append-only store of package versions. Once
// inserted, a (name, version) snapshot is never mutated — Insert deep
// clones on the way in, and every read deep clones on the way out, so
// no caller can reach back in and corrupt a stored snapshot.
type Index struct {
	packages map[string]map[version.Version]*model.Package
	names    *pathset.Set
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		packages: make(map[string]map[version.Version]*model.Package),
		names:    pathset.New(),
	}
}

// Get returns every published version of name, keyed by Version.
func (idx *Index) Get(name string) (map[version.Version]*model.Package, error) {
	versions, ok := idx.packages[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "package %q", name)
	}
	out := make(map[version.Version]*model.Package, len(versions))
	for v, pkg := range versions {
		out[v] = pkg.Clone()
	}
	return out, nil
}

// Versions returns the sorted list of published versions for name.
func (idx *Index) Versions(name string) ([]version.Version, error) {
	versions, ok := idx.packages[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "package %q", name)
	}
	out := make([]version.Version, 0, len(versions))
	for v := range versions {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return version.Cmp(out[i], out[j]) < 0 })
	return out, nil
}

// Latest returns the highest-cmp published version of name.
func (idx *Index) Latest(name string) (*model.Package, error) {
	versions, ok := idx.packages[name]
	if !ok || len(versions) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "package %q", name)
	}
	var best *model.Package
	for _, pkg := range versions {
		if best == nil || version.GreaterThan(pkg.Info.Version, best.Info.Version) {
			best = pkg
		}
	}
	return best.Clone(), nil
}

// LatestMajor returns the highest published version of name whose
// major component equals major.
func (idx *Index) LatestMajor(name string, major int) (*model.Package, error) {
	versions, ok := idx.packages[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "package %q", name)
	}
	var best *model.Package
	for _, pkg := range versions {
		if pkg.Info.Version.Major != major {
			continue
		}
		if best == nil || version.GreaterThan(pkg.Info.Version, best.Info.Version) {
			best = pkg
		}
	}
	if best == nil {
		return nil, errors.Wrapf(ErrNotFound, "package %q major %d", name, major)
	}
	return best.Clone(), nil
}

// PackageNames returns every published package name, sorted.
func (idx *Index) PackageNames() []string {
	return idx.names.Slice()
}

// List returns every published package name mapped to its sorted
// version list.
func (idx *Index) List() map[string][]version.Version {
	out := make(map[string][]version.Version, len(idx.packages))
	for _, name := range idx.PackageNames() {
		versions, _ := idx.Versions(name)
		out[name] = versions
	}
	return out
}

// Insert stores a deep snapshot of pkg at (pkg.Info.Name,
// pkg.Info.Version). It fails with ErrAlreadyPublished if that key is
// already present.
func (idx *Index) Insert(pkg *model.Package) error {
	name := pkg.Info.Name
	v := pkg.Info.Version

	if versions, ok := idx.packages[name]; ok {
		if _, exists := versions[v]; exists {
			return errors.Wrapf(ErrAlreadyPublished, "%s@%s", name, v)
		}
	} else {
		idx.packages[name] = make(map[version.Version]*model.Package)
	}

	idx.packages[name][v] = pkg.Clone()
	idx.names.Add(name)
	return nil
}

// indexDTO is the on-disk shape of an Index:
// `{ "packages": { <name>: { <version-string>: Package } } }`.
// Package's own MarshalJSON/UnmarshalJSON handle each leaf.
type indexDTO struct {
	Packages map[string]map[string]*model.Package `json:"packages"`
}

// MarshalJSON encodes idx to its on-disk wire shape.
func (idx *Index) MarshalJSON() ([]byte, error) {
	dto := indexDTO{Packages: make(map[string]map[string]*model.Package, len(idx.packages))}
	for name, versions := range idx.packages {
		vm := make(map[string]*model.Package, len(versions))
		for v, pkg := range versions {
			vm[v.String()] = pkg
		}
		dto.Packages[name] = vm
	}
	return json.Marshal(dto)
}

// UnmarshalJSON decodes idx from its on-disk wire shape, replacing any
// existing contents.
func (idx *Index) UnmarshalJSON(data []byte) error {
	var dto indexDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}

	packages := make(map[string]map[version.Version]*model.Package, len(dto.Packages))
	names := pathset.New()
	for name, versions := range dto.Packages {
		vm := make(map[version.Version]*model.Package, len(versions))
		for vs, pkg := range versions {
			v, err := version.Parse(vs)
			if err != nil {
				return errors.Wrapf(err, "package %q version key %q", name, vs)
			}
			vm[v] = pkg
		}
		packages[name] = vm
		names.Add(name)
	}

	idx.packages = packages
	idx.names = names
	return nil
}
