// Package pathset provides a radix-tree-backed set of absolute member
// paths ("package.module.path.Member"), used by the resolver to track
// which members a dependency's consumer actually uses, and by the
// index to keep package names in sorted, prefix-queryable order.
//
// This is a typed wrapper around github.com/armon/go-radix: the
// underlying tree stores interface{}, and this package hides that
// behind a string-keyed, presence-only API so callers never
// type-assert.
package pathset

import "github.com/armon/go-radix"

// Set is a sorted set of strings backed by a radix tree.
type Set struct {
	t *radix.Tree
}

// New returns an empty Set.
func New() *Set {
	return &Set{t: radix.New()}
}

// Add inserts str, returning true if it was not already present.
func (s *Set) Add(str string) bool {
	_, had := s.t.Insert(str, struct{}{})
	return !had
}

// Contains reports whether str is in the set.
func (s *Set) Contains(str string) bool {
	_, ok := s.t.Get(str)
	return ok
}

// Len returns the number of elements.
func (s *Set) Len() int {
	return s.t.Len()
}

// Union adds every element of other into s.
func (s *Set) Union(other *Set) {
	other.t.Walk(func(key string, _ interface{}) bool {
		s.t.Insert(key, struct{}{})
		return false
	})
}

// WithPrefix returns every element of s that has the given prefix, in
// sorted order, e.g. one package's member paths out of a set that
// mixes several packages' paths together.
func (s *Set) WithPrefix(prefix string) []string {
	var out []string
	s.t.WalkPrefix(prefix, func(key string, _ interface{}) bool {
		out = append(out, key)
		return false
	})
	return out
}

// Slice returns every element of s in sorted order. Sorted order is
// part of the contract: callers rely on it for deterministic restricted
// diffs and golden-output tests.
func (s *Set) Slice() []string {
	var out []string
	s.t.Walk(func(key string, _ interface{}) bool {
		out = append(out, key)
		return false
	})
	return out
}
