// Package version implements myxa's two-slot (major, minor) version
// value and the compatibility predicate the rest of the system builds
// on.
//
// There is deliberately no patch slot, no pre-release or build
// metadata, and no upper-bound range syntax: myxa tracks structural
// compatibility at the major boundary and cosmetic/additive change at
// the minor boundary, nothing finer.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Version is a non-negative (major, minor) pair. The zero value is not
// a valid published version; the first version of any package is
// First (1, 0).
type Version struct {
	Major int
	Minor int
}

// First is the version every package starts at on its first publish.
var First = Version{Major: 1, Minor: 0}

// New constructs a Version, rejecting negative components.
func New(major, minor int) (Version, error) {
	if major < 0 || minor < 0 {
		return Version{}, errors.Errorf("version components must be non-negative, got %d.%d", major, minor)
	}
	return Version{Major: major, Minor: minor}, nil
}

// String renders "<major>.<minor>", the on-disk version-string form
// used as a map key throughout the index schema.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Parse reads the "<major>.<minor>" form produced by String.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return Version{}, errors.Errorf("invalid version string %q: want <major>.<minor>", s)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return Version{}, errors.Wrapf(err, "invalid major component in %q", s)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return Version{}, errors.Wrapf(err, "invalid minor component in %q", s)
	}
	return New(major, minor)
}

// Compatible reports whether v1 and v2 share a major version. This is
// the only notion of "compatible" the data model knows about directly;
// the diff engine is what earns that trust.
func Compatible(v1, v2 Version) bool {
	return v1.Major == v2.Major
}

// BumpMajor returns the next major version, resetting minor to zero.
func BumpMajor(v Version) Version {
	return Version{Major: v.Major + 1, Minor: 0}
}

// BumpMinor returns the next minor version within the same major.
func BumpMinor(v Version) Version {
	return Version{Major: v.Major, Minor: v.Minor + 1}
}

// Cmp provides lexicographic ordering: -1 if v1 < v2, 0 if equal, 1 if
// v1 > v2.
func Cmp(v1, v2 Version) int {
	if v1.Major != v2.Major {
		if v1.Major < v2.Major {
			return -1
		}
		return 1
	}
	if v1.Minor != v2.Minor {
		if v1.Minor < v2.Minor {
			return -1
		}
		return 1
	}
	return 0
}

// GreaterThan reports whether v1 sorts after v2.
func GreaterThan(v1, v2 Version) bool {
	return Cmp(v1, v2) > 0
}

// GreaterOrEqual reports whether v1 sorts at or after v2.
func GreaterOrEqual(v1, v2 Version) bool {
	return Cmp(v1, v2) >= 0
}
