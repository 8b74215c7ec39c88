package model

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidInterface is the sentinel cause of every validation
// failure; wrap it with errors.Wrap for a human-readable message and
// unwrap it with errors.Cause (or errors.Is) to detect the kind.
var ErrInvalidInterface = errors.New("invalid interface")

var nameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidName reports whether s is a legal PackageName/MemberName/module
// segment: non-empty, `[A-Za-z_][A-Za-z0-9_]*`.
func ValidName(s string) bool {
	return nameRE.MatchString(s)
}

// Validate checks pkg's structural integrity: every name is
// well-formed, no name collides with a sibling in its container, and
// every Ref resolves to a Struct or Enum member, either within pkg
// itself or within one of the supplied locked dependency snapshots
// (keyed by dependency name, as published interfaces already
// validated by a previous call to Validate).
//
// Refs are validated last, after the full member index has been
// built, so a Ref can point anywhere in the package regardless of
// declaration order.
func Validate(pkg *Package, deps map[string]*Package) error {
	if pkg == nil {
		return errors.Wrap(ErrInvalidInterface, "nil package")
	}
	if !ValidName(pkg.Info.Name) {
		return errors.Wrapf(ErrInvalidInterface, "invalid package name %q", pkg.Info.Name)
	}
	if pkg.Root == nil {
		return errors.Wrap(ErrInvalidInterface, "package has no root module")
	}
	if pkg.Root.Name != pkg.Info.Name {
		return errors.Wrapf(ErrInvalidInterface, "root module name %q must match package name %q", pkg.Root.Name, pkg.Info.Name)
	}

	members := make(map[string]Member)
	if err := walkAndCollect(pkg.Root, []string{}, members); err != nil {
		return err
	}

	depMembers := make(map[string]map[string]Member, len(deps))
	for depName, depPkg := range deps {
		if depPkg == nil {
			continue
		}
		m := make(map[string]Member)
		if err := walkAndCollect(depPkg.Root, []string{}, m); err != nil {
			return errors.Wrapf(err, "invalid interface in dependency %q", depName)
		}
		depMembers[depPkg.Info.Name] = m
	}

	for path, member := range members {
		if err := validateMemberRefs(path, member, members, depMembers); err != nil {
			return err
		}
	}

	for name := range pkg.Requirements {
		if !ValidName(name) {
			return errors.Wrapf(ErrInvalidInterface, "invalid dependency name %q", name)
		}
	}
	for name := range pkg.Deps {
		if !ValidName(name) {
			return errors.Wrapf(ErrInvalidInterface, "invalid dependency name %q", name)
		}
	}

	for depName, paths := range pkg.Uses {
		if _, declared := pkg.Requirements[depName]; !declared {
			return errors.Wrapf(ErrInvalidInterface, "uses references undeclared dependency %q", depName)
		}
		for _, p := range paths {
			if !strings.HasPrefix(p, depName+".") {
				return errors.Wrapf(ErrInvalidInterface, "used path %q does not belong to dependency %q", p, depName)
			}
		}
	}

	return nil
}

// walkAndCollect walks a module tree depth-first, validating names and
// container-uniqueness along the way, and records every member found
// under its absolute path (joined with "." starting from the root
// module's own name).
func walkAndCollect(m *Module, prefix []string, out map[string]Member) error {
	if m == nil {
		return errors.Wrap(ErrInvalidInterface, "nil module")
	}
	if !ValidName(m.Name) {
		return errors.Wrapf(ErrInvalidInterface, "invalid module name %q", m.Name)
	}

	seen := make(map[string]bool, len(m.Modules)+len(m.Members))
	for name := range m.Modules {
		if !ValidName(name) {
			return errors.Wrapf(ErrInvalidInterface, "invalid module name %q", name)
		}
		if seen[name] {
			return errors.Wrapf(ErrInvalidInterface, "name collision %q in module %q", name, strings.Join(prefix, "."))
		}
		seen[name] = true
	}
	for name, member := range m.Members {
		if !ValidName(name) {
			return errors.Wrapf(ErrInvalidInterface, "invalid member name %q", name)
		}
		if seen[name] {
			return errors.Wrapf(ErrInvalidInterface, "name collision %q in module %q", name, strings.Join(prefix, "."))
		}
		seen[name] = true

		if err := validateMemberShape(member); err != nil {
			return errors.Wrapf(err, "member %q", strings.Join(append(append([]string{}, prefix...), name), "."))
		}

		path := strings.Join(append(append([]string{}, prefix...), m.Name, name), ".")
		out[path] = member
	}

	for _, name := range m.SortedModuleNames() {
		child := m.Modules[name]
		if err := walkAndCollect(child, append(append([]string{}, prefix...), m.Name), out); err != nil {
			return err
		}
	}

	return nil
}

func validateMemberShape(m Member) error {
	switch v := m.(type) {
	case Func:
		seen := make(map[string]bool, len(v.Params))
		for _, p := range v.Params {
			if !ValidName(p.Name) {
				return errors.Wrapf(ErrInvalidInterface, "invalid parameter name %q", p.Name)
			}
			if seen[p.Name] {
				return errors.Wrapf(ErrInvalidInterface, "duplicate parameter name %q", p.Name)
			}
			seen[p.Name] = true
			if err := validateType(p.Type); err != nil {
				return err
			}
		}
		return validateType(v.Return)
	case Struct:
		for name, t := range v.Fields {
			if !ValidName(name) {
				return errors.Wrapf(ErrInvalidInterface, "invalid field name %q", name)
			}
			if err := validateType(t); err != nil {
				return err
			}
		}
		return nil
	case Enum:
		for name, t := range v.Variants {
			if !ValidName(name) {
				return errors.Wrapf(ErrInvalidInterface, "invalid variant name %q", name)
			}
			if t != nil {
				if err := validateType(t); err != nil {
					return err
				}
			}
		}
		return nil
	default:
		return errors.Wrapf(ErrInvalidInterface, "unknown member kind %T", m)
	}
}

func validateType(t Type) error {
	switch v := t.(type) {
	case nil:
		return errors.Wrap(ErrInvalidInterface, "nil type")
	case Primitive:
		if !v.Kind.valid() {
			return errors.Wrapf(ErrInvalidInterface, "invalid primitive kind %q", v.Kind)
		}
		return nil
	case List:
		return validateType(v.Elem)
	case Set:
		return validateType(v.Elem)
	case Dict:
		if err := validateType(v.Key); err != nil {
			return err
		}
		return validateType(v.Value)
	case Tuple:
		for _, e := range v.Elems {
			if err := validateType(e); err != nil {
				return err
			}
		}
		return nil
	case Ref:
		if !isWellFormedRefName(v.Name) {
			return errors.Wrapf(ErrInvalidInterface, "malformed ref %q", v.Name)
		}
		return nil
	default:
		return errors.Wrapf(ErrInvalidInterface, "unknown type %T", t)
	}
}

// isWellFormedRefName checks only syntax ("pkg.path.Member", at least
// two dotted segments, each a valid name) — resolution against the
// member index happens separately in validateMemberRefs.
func isWellFormedRefName(name string) bool {
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		if !ValidName(p) {
			return false
		}
	}
	return true
}

// validateMemberRefs checks that every Ref reachable from member
// resolves to a Struct or Enum, either in the owning package's own
// member index or in one of the resolved dependency indexes.
func validateMemberRefs(path string, member Member, local map[string]Member, deps map[string]map[string]Member) error {
	var walk func(Type) error
	walk = func(t Type) error {
		switch v := t.(type) {
		case List:
			return walk(v.Elem)
		case Set:
			return walk(v.Elem)
		case Dict:
			if err := walk(v.Key); err != nil {
				return err
			}
			return walk(v.Value)
		case Tuple:
			for _, e := range v.Elems {
				if err := walk(e); err != nil {
					return err
				}
			}
			return nil
		case Ref:
			return resolveRef(v.Name, local, deps)
		default:
			return nil
		}
	}

	switch v := member.(type) {
	case Func:
		for _, p := range v.Params {
			if err := walk(p.Type); err != nil {
				return errors.Wrapf(err, "member %q parameter %q", path, p.Name)
			}
		}
		if err := walk(v.Return); err != nil {
			return errors.Wrapf(err, "member %q return type", path)
		}
	case Struct:
		for name, t := range v.Fields {
			if err := walk(t); err != nil {
				return errors.Wrapf(err, "member %q field %q", path, name)
			}
		}
	case Enum:
		for name, t := range v.Variants {
			if t == nil {
				continue
			}
			if err := walk(t); err != nil {
				return errors.Wrapf(err, "member %q variant %q", path, name)
			}
		}
	}
	return nil
}

// resolveRef finds the target of an absolute ref name and ensures it
// is a Struct or Enum, the only valid Ref targets.
func resolveRef(name string, local map[string]Member, deps map[string]map[string]Member) error {
	target, ok := local[name]
	if !ok {
		parts := strings.SplitN(name, ".", 2)
		if len(parts) == 2 {
			if depIndex, has := deps[parts[0]]; has {
				target, ok = depIndex[name]
			}
		}
	}
	if !ok {
		return errors.Wrapf(ErrInvalidInterface, "unresolved ref %q", name)
	}
	switch target.(type) {
	case Struct, Enum:
		return nil
	default:
		return errors.Wrapf(ErrInvalidInterface, "ref %q does not target a struct or enum", name)
	}
}
