// Package resolver implements myxa's backtracking dependency resolver:
// given a working package's declared requirements and the index, it
// produces a consistent, acyclic deps lock, admitting a higher-major
// candidate only when the selective major-crossing check finds no
// breakage across the member paths actually used.
package resolver

import (
	"io"
	"sort"

	"github.com/gregorybchris/myxa/index"
	"github.com/gregorybchris/myxa/internal/pathset"
	"github.com/gregorybchris/myxa/model"
	"github.com/gregorybchris/myxa/version"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrUnresolvable is the sentinel cause when no assignment satisfies
// every requirement.
var ErrUnresolvable = errors.New("unresolvable dependency graph")

// ErrCycle is the sentinel cause when the requirement graph contains a
// cycle: dependency requirements must form a DAG.
var ErrCycle = errors.New("dependency cycle")

// ErrUnknownDependency is the sentinel cause when a required package
// name has no entry in the index at all.
var ErrUnknownDependency = errors.New("unknown dependency")

// workItem is one pending requirement in the backtracking work list.
type workItem struct {
	name       string
	minVersion version.Version
	requester  string
}

// resolution is the mutable state threaded through one Lock call.
// assignment and usedMembers are copied at each backtracking choice
// point (each used-member set is copied too, since sets grow in place)
// so a failed branch can be rolled back.
type resolution struct {
	idx    *index.Index
	logger *logrus.Entry

	assignment  map[string]version.Version
	usedMembers map[string]*pathset.Set
	chain       map[string]bool
}

// Lock resolves pkg's requirements against idx and returns the
// resulting deps lock. logger may be nil, in which case the trial
// trace is discarded.
func Lock(pkg *model.Package, idx *index.Index, logger *logrus.Entry) (map[string]model.Dep, error) {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = logrus.NewEntry(discard)
	}

	r := &resolution{
		idx:         idx,
		logger:      logger,
		assignment:  make(map[string]version.Version),
		usedMembers: make(map[string]*pathset.Set),
		chain:       make(map[string]bool),
	}

	var work []workItem
	for name, req := range pkg.Requirements {
		r.ensureUsed(name).Union(pathsOf(pkg.Uses[name]))
		work = append(work, workItem{name: name, minVersion: req.MinVersion, requester: pkg.Info.Name})
	}
	sortWork(work)

	if err := r.resolve(work); err != nil {
		return nil, err
	}

	deps := make(map[string]model.Dep, len(r.assignment))
	for name, v := range r.assignment {
		deps[name] = model.Dep{Name: name, Version: v}
	}
	return deps, nil
}

func pathsOf(paths []string) *pathset.Set {
	s := pathset.New()
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

func (r *resolution) ensureUsed(name string) *pathset.Set {
	s, ok := r.usedMembers[name]
	if !ok {
		s = pathset.New()
		r.usedMembers[name] = s
	}
	return s
}

func sortWork(work []workItem) {
	sort.SliceStable(work, func(i, j int) bool { return work[i].name < work[j].name })
}

// resolve is the recursive backtracking step: dequeue the first
// (name-ascending, for determinism) work item, try each candidate
// version for it in descending order, and recurse on the remainder of
// the work list plus whatever new requirements that candidate brings
// in.
func (r *resolution) resolve(work []workItem) error {
	if len(work) == 0 {
		return nil
	}

	item := work[0]
	rest := work[1:]

	// A name still on the active chain is an ancestor of itself in the
	// requirement graph, regardless of whether it already has an
	// assignment — that assignment is provisional, made before the
	// recursion looped back here. Check this before consulting
	// r.assignment, which would otherwise short-circuit straight past
	// the cycle.
	if r.chain[item.name] {
		return errors.Wrapf(ErrCycle, "cycle through %q", item.name)
	}

	if already, ok := r.assignment[item.name]; ok {
		ok2, err := r.candidateSatisfies(item.name, already, item.minVersion)
		if err != nil {
			return err
		}
		if !ok2 {
			return errors.Wrapf(ErrUnresolvable, "package %q is locked at %s, which does not satisfy %s's requirement of >= %s",
				item.name, already, item.requester, item.minVersion)
		}
		return r.resolve(rest)
	}

	versions, err := r.idx.Versions(item.name)
	if err != nil {
		if errors.Is(err, index.ErrNotFound) {
			return errors.Wrapf(ErrUnknownDependency, "%q (required by %s)", item.name, item.requester)
		}
		return err
	}
	sort.Slice(versions, func(i, j int) bool { return version.GreaterThan(versions[i], versions[j]) })

	r.chain[item.name] = true
	defer delete(r.chain, item.name)

	versionsByV, err := r.idx.Get(item.name)
	if err != nil {
		return err
	}

	var lastErr error
	for _, v := range versions {
		allowed, err := r.candidateSatisfies(item.name, v, item.minVersion)
		if err != nil {
			return err
		}
		if !allowed {
			r.logger.WithFields(logrus.Fields{"package": item.name, "version": v.String()}).
				Debug("rejected: does not satisfy requirer's minimum version or breaks used members")
			continue
		}

		candidate := versionsByV[v]
		r.logger.WithFields(logrus.Fields{"package": item.name, "version": v.String()}).Debug("tried")

		prevAssignment := cloneAssignment(r.assignment)
		prevUsed := cloneUsed(r.usedMembers)

		r.assignment[item.name] = v
		var newWork []workItem
		for depName, depReq := range candidate.Requirements {
			r.ensureUsed(depName).Union(pathsOf(candidate.Uses[depName]))
			newWork = append(newWork, workItem{name: depName, minVersion: depReq.MinVersion, requester: item.name})
		}

		combined := append(append([]workItem{}, rest...), newWork...)
		sortWork(combined)

		resolveErr := r.resolve(combined)
		if resolveErr == nil {
			r.logger.WithFields(logrus.Fields{"package": item.name, "version": v.String()}).Info("selected")
			return nil
		}
		// A cycle is a structural property of the requirement graph,
		// not a rejected candidate: trying a different version of
		// item.name can't fix it, so propagate it as-is instead of
		// folding it into the generic "no version worked" error below.
		if errors.Is(resolveErr, ErrCycle) {
			r.assignment = prevAssignment
			r.usedMembers = prevUsed
			return resolveErr
		}
		lastErr = resolveErr

		r.assignment = prevAssignment
		r.usedMembers = prevUsed
	}

	if lastErr != nil {
		return errors.Wrapf(ErrUnresolvable, "no version of %q satisfies every requirer: %v", item.name, lastErr)
	}
	return errors.Wrapf(ErrUnresolvable, "no version of %q satisfies %s's requirement of >= %s", item.name, item.requester, item.minVersion)
}

// candidateSatisfies reports whether version v of name may be selected
// given a requirer asking for at least minVersion: same-major versions
// qualify outright (subject to the >= floor), and a higher-major
// candidate additionally qualifies via selective major-crossing when
// the restricted diff against the highest available version at
// minVersion's major contains no Breaking change across the member
// paths actually used in name.
func (r *resolution) candidateSatisfies(name string, v, minVersion version.Version) (bool, error) {
	if v.Major == minVersion.Major {
		return version.GreaterOrEqual(v, minVersion), nil
	}
	if v.Major < minVersion.Major {
		return false, nil
	}

	base, err := r.idx.LatestMajor(name, minVersion.Major)
	if err != nil {
		if errors.Is(err, index.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	versionsByV, err := r.idx.Get(name)
	if err != nil {
		return false, err
	}
	candidate, ok := versionsByV[v]
	if !ok {
		return false, nil
	}

	breaking, err := restrictedDiffBreaking(base, candidate, r.ensureUsed(name))
	if err != nil {
		return false, err
	}
	return !breaking, nil
}

func cloneAssignment(m map[string]version.Version) map[string]version.Version {
	out := make(map[string]version.Version, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneUsed(m map[string]*pathset.Set) map[string]*pathset.Set {
	out := make(map[string]*pathset.Set, len(m))
	for k, v := range m {
		clone := pathset.New()
		clone.Union(v)
		out[k] = clone
	}
	return out
}
