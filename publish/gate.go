// Package publish implements myxa's publish gate: the single place
// where the diff engine's Breaking/NonBreaking classification becomes
// an enforced version-bump contract.
package publish

import (
	"fmt"
	"io"

	"github.com/gregorybchris/myxa/diff"
	"github.com/gregorybchris/myxa/index"
	"github.com/gregorybchris/myxa/model"
	"github.com/gregorybchris/myxa/version"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrNotLocked is returned when pkg's requirements aren't fully
// locked.
var ErrNotLocked = errors.New("package requirements are not locked")

// ErrInvalidInitialVersion is returned when a name's first-ever
// publish isn't at version.First.
var ErrInvalidInitialVersion = errors.New("first publish must be at version 1.0")

// VersionBumpRequiredError is returned when pkg.Info.Version doesn't
// match the version the diff against the latest published version
// requires. It carries both the computed requirement and what was
// actually supplied, so a caller (typically the CLI) can report both.
type VersionBumpRequiredError struct {
	Required version.Version
	Actual   version.Version
}

func (e *VersionBumpRequiredError) Error() string {
	return fmt.Sprintf("version bump required: need %s, got %s", e.Required, e.Actual)
}

// Gate runs the publish gate against pkg and idx: validate, check the
// initial-version rule or reject an already-published version and
// compute+enforce the required bump, then insert. logger may be nil,
// in which case trace output is discarded.
func Gate(pkg *model.Package, idx *index.Index, logger *logrus.Entry) error {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = logrus.NewEntry(discard)
	}

	if !pkg.IsLocked() {
		return errors.Wrapf(ErrNotLocked, "%s@%s", pkg.Info.Name, pkg.Info.Version)
	}

	deps, err := lockedDeps(pkg, idx)
	if err != nil {
		return err
	}
	if err := model.Validate(pkg, deps); err != nil {
		return errors.Wrapf(err, "publish %s@%s", pkg.Info.Name, pkg.Info.Version)
	}

	_, err = idx.Latest(pkg.Info.Name)
	if errors.Is(err, index.ErrNotFound) {
		if pkg.Info.Version != version.First {
			return errors.Wrapf(ErrInvalidInitialVersion, "%s@%s", pkg.Info.Name, pkg.Info.Version)
		}
		logger.WithField("package", pkg.Info.Name).Info("publishing initial version")
		return idx.Insert(pkg)
	}
	if err != nil {
		return err
	}

	published, err := idx.Versions(pkg.Info.Name)
	if err != nil {
		return err
	}
	for _, v := range published {
		if v == pkg.Info.Version {
			return errors.Wrapf(index.ErrAlreadyPublished, "%s@%s", pkg.Info.Name, pkg.Info.Version)
		}
	}

	old, err := idx.Latest(pkg.Info.Name)
	if err != nil {
		return err
	}

	d, err := diff.Compute(old, pkg)
	if err != nil {
		return errors.Wrap(err, "computing publish diff")
	}

	required := diff.RequiredBump(old.Info.Version, d)
	logger.WithFields(logrus.Fields{
		"package":  pkg.Info.Name,
		"breaking": d.IsBreaking(),
		"required": required.String(),
		"actual":   pkg.Info.Version.String(),
	}).Debug("publish gate evaluated diff")

	if pkg.Info.Version != required {
		return &VersionBumpRequiredError{Required: required, Actual: pkg.Info.Version}
	}

	return idx.Insert(pkg)
}

// lockedDeps fetches, from idx, the exact locked version of every
// dependency pkg declares, for use as Validate's cross-package ref
// resolution context.
func lockedDeps(pkg *model.Package, idx *index.Index) (map[string]*model.Package, error) {
	deps := make(map[string]*model.Package, len(pkg.Deps))
	for name, dep := range pkg.Deps {
		versions, err := idx.Get(name)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving locked dependency %q", name)
		}
		depPkg, ok := versions[dep.Version]
		if !ok {
			return nil, errors.Wrapf(index.ErrNotFound, "%s@%s", name, dep.Version)
		}
		deps[name] = depPkg
	}
	return deps, nil
}
