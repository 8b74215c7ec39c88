package resolver_test

import (
	"testing"

	"github.com/gregorybchris/myxa/index"
	"github.com/gregorybchris/myxa/model"
	"github.com/gregorybchris/myxa/resolver"
	"github.com/gregorybchris/myxa/version"
	"github.com/stretchr/testify/require"
)

func libV1() *model.Package {
	pkg := model.Init("lib", "")
	pkg.Root.AddMember("f", model.NewFunc(model.Primitive{Kind: model.Int}))
	pkg.Root.AddMember("g", model.NewFunc(model.Primitive{Kind: model.Str}))
	return pkg
}

// lib@2.0 only changes g's return type; f is untouched.
func libV2() *model.Package {
	pkg := model.Init("lib", "")
	pkg.Info.Version = version.Version{Major: 2, Minor: 0}
	pkg.Root.AddMember("f", model.NewFunc(model.Primitive{Kind: model.Int}))
	pkg.Root.AddMember("g", model.NewFunc(model.Primitive{Kind: model.Int}))
	return pkg
}

func appRequiringLib(usedPaths ...string) *model.Package {
	pkg := model.Init("app", "")
	pkg.AddRequirement("lib", version.First)
	for _, p := range usedPaths {
		pkg.AddUse("lib", p)
	}
	return pkg
}

// app uses only f, which is untouched between lib@1.0 and lib@2.0, so
// selective major-crossing admits lib@2.0.
func TestLockSelectsHigherMajorWhenUsedMembersUnaffected(t *testing.T) {
	idx := index.New()
	require.NoError(t, idx.Insert(libV1()))
	require.NoError(t, idx.Insert(libV2()))

	app := appRequiringLib("lib.f")
	deps, err := resolver.Lock(app, idx, nil)
	require.NoError(t, err)

	got, ok := deps["lib"]
	require.True(t, ok, "expected a lock entry for \"lib\"")
	require.Equal(t, version.Version{Major: 2, Minor: 0}, got.Version)
}

// app uses both f and g; g changed, so the crossing check fails and
// the resolver must stay on lib@1.0.
func TestLockStaysOnLowerMajorWhenUsedMemberBreaks(t *testing.T) {
	idx := index.New()
	require.NoError(t, idx.Insert(libV1()))
	require.NoError(t, idx.Insert(libV2()))

	app := appRequiringLib("lib.f", "lib.g")
	deps, err := resolver.Lock(app, idx, nil)
	require.NoError(t, err)

	got, ok := deps["lib"]
	require.True(t, ok, "expected a lock entry for \"lib\"")
	require.Equal(t, version.Version{Major: 1, Minor: 0}, got.Version)
}

// a requires b and b requires a: a genuine cycle in the requirement
// graph, which no choice of candidate version can resolve.
func TestLockDetectsRequirementCycle(t *testing.T) {
	idx := index.New()

	a := model.Init("a", "")
	a.AddRequirement("b", version.First)
	require.NoError(t, idx.Insert(a))

	b := model.Init("b", "")
	b.AddRequirement("a", version.First)
	require.NoError(t, idx.Insert(b))

	app := model.Init("app", "")
	app.AddRequirement("a", version.First)

	_, err := resolver.Lock(app, idx, nil)
	require.ErrorIs(t, err, resolver.ErrCycle)
}

func TestLockUnknownDependencyFails(t *testing.T) {
	idx := index.New()
	app := model.Init("app", "")
	app.AddRequirement("ghost", version.First)

	_, err := resolver.Lock(app, idx, nil)
	require.ErrorIs(t, err, resolver.ErrUnknownDependency)
}

func TestLockPicksLatestCompatibleMinorWithinMajor(t *testing.T) {
	idx := index.New()
	require.NoError(t, idx.Insert(libV1()))

	libV1Point1 := libV1()
	libV1Point1.Info.Version = version.Version{Major: 1, Minor: 1}
	libV1Point1.Root.AddMember("h", model.NewFunc(model.Primitive{Kind: model.Bool}))
	require.NoError(t, idx.Insert(libV1Point1))

	app := appRequiringLib("lib.f")
	deps, err := resolver.Lock(app, idx, nil)
	require.NoError(t, err)
	require.Equal(t, version.Version{Major: 1, Minor: 1}, deps["lib"].Version)
}

func TestLockTransitiveRequirement(t *testing.T) {
	idx := index.New()
	base := model.Init("base", "")
	base.Root.AddMember("h", model.NewFunc(model.Primitive{Kind: model.Bool}))
	require.NoError(t, idx.Insert(base))

	mid := model.Init("mid", "")
	mid.AddRequirement("base", version.First)
	mid.AddUse("base", "base.h")
	mid.Root.AddMember("m", model.NewFunc(model.Primitive{Kind: model.Int}))
	require.NoError(t, idx.Insert(mid))

	app := model.Init("app", "")
	app.AddRequirement("mid", version.First)
	app.AddUse("mid", "mid.m")

	deps, err := resolver.Lock(app, idx, nil)
	require.NoError(t, err)
	require.Contains(t, deps, "mid")
	require.Contains(t, deps, "base")
}
