// Package update implements myxa's update planner: for each currently
// locked dependency, ask whether a higher version now qualifies under
// the resolver's selective-major rule, and if so replace the lock
// entry.
package update

import (
	"io"

	"github.com/gregorybchris/myxa/index"
	"github.com/gregorybchris/myxa/model"
	"github.com/gregorybchris/myxa/resolver"
	"github.com/gregorybchris/myxa/version"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Outcome is one dependency's result from a Plan run.
type Outcome struct {
	Name string
	From version.Version
	To   version.Version
}

// Plan is the structured report Run returns: the CLI renders
// Upgraded/Unchanged/Failed as three sections, mirroring how a real
// package manager's update command reports per-project outcomes
// rather than silently rewriting the lock file.
type Plan struct {
	Upgraded  []Outcome
	Unchanged []Outcome
	Failed    []Failure
}

// Failure records a previously locked dependency that the new lock no
// longer contains, alongside why. A requirement that cannot be
// resolved at all makes Run return an error instead.
type Failure struct {
	Name string
	Err  error
}

// Run re-resolves pkg's requirements against idx and reports the
// resulting plan. It is idempotent: re-running Run against an
// unchanged index produces the same Plan with nothing in Upgraded.
// pkg.Deps is updated in place to the new lock.
func Run(pkg *model.Package, idx *index.Index, logger *logrus.Entry) (*Plan, error) {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = logrus.NewEntry(discard)
	}

	before := make(map[string]version.Version, len(pkg.Deps))
	for name, dep := range pkg.Deps {
		before[name] = dep.Version
	}

	newDeps, err := resolver.Lock(pkg, idx, logger)
	if err != nil {
		return nil, errors.Wrap(err, "update: re-resolving requirements")
	}

	plan := &Plan{}
	for name, dep := range newDeps {
		prior, existed := before[name]
		switch {
		case !existed:
			plan.Upgraded = append(plan.Upgraded, Outcome{Name: name, From: version.Version{}, To: dep.Version})
		case version.GreaterThan(dep.Version, prior):
			plan.Upgraded = append(plan.Upgraded, Outcome{Name: name, From: prior, To: dep.Version})
		default:
			plan.Unchanged = append(plan.Unchanged, Outcome{Name: name, From: prior, To: dep.Version})
		}
	}
	for name := range before {
		if _, ok := newDeps[name]; !ok {
			plan.Failed = append(plan.Failed, Failure{Name: name, Err: errors.Errorf("dependency %q dropped from requirements", name)})
		}
	}

	pkg.Deps = newDeps
	return plan, nil
}
