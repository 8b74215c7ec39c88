package model_test

import (
	"encoding/json"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/gregorybchris/myxa/model"
	"github.com/gregorybchris/myxa/version"
)

func eulerPackage() *model.Package {
	pkg := model.Init("euler", "number theory helpers")
	pkg.Root.AddMember("compute", model.NewFunc(
		model.Primitive{Kind: model.Int},
		model.Param{Name: "x", Type: model.Primitive{Kind: model.Int}},
	))
	return pkg
}

func TestValidateValidPackage(t *testing.T) {
	pkg := eulerPackage()
	if err := model.Validate(pkg, nil); err != nil {
		t.Fatalf("Validate() returned error on a valid package: %v", err)
	}
}

func TestValidateRejectsBadName(t *testing.T) {
	pkg := model.Init("9euler", "bad name")
	if err := model.Validate(pkg, nil); err == nil {
		t.Fatal("Validate() expected error for invalid package name, got nil")
	}
}

func TestValidateRejectsNameCollision(t *testing.T) {
	pkg := model.Init("euler", "")
	pkg.Root.AddModule(model.NewModule("helpers"))
	pkg.Root.AddMember("helpers", model.NewStruct())
	if err := model.Validate(pkg, nil); err == nil {
		t.Fatal("Validate() expected error for module/member name collision, got nil")
	}
}

func TestValidateResolvesLocalRef(t *testing.T) {
	pkg := model.Init("geo", "")
	pkg.Root.AddMember("Point", model.NewStruct(
		model.Param{Name: "x", Type: model.Primitive{Kind: model.Int}},
	))
	pkg.Root.AddMember("origin", model.NewFunc(model.Ref{Name: "geo.Point"}))
	if err := model.Validate(pkg, nil); err != nil {
		t.Fatalf("Validate() returned error resolving a local ref: %v", err)
	}
}

func TestValidateRejectsUnresolvedRef(t *testing.T) {
	pkg := model.Init("geo", "")
	pkg.Root.AddMember("origin", model.NewFunc(model.Ref{Name: "geo.Missing"}))
	if err := model.Validate(pkg, nil); err == nil {
		t.Fatal("Validate() expected error for unresolved ref, got nil")
	}
}

func TestValidateResolvesCrossPackageRef(t *testing.T) {
	lib := model.Init("lib", "")
	lib.Root.AddMember("Thing", model.NewStruct(
		model.Param{Name: "n", Type: model.Primitive{Kind: model.Int}},
	))

	app := model.Init("app", "")
	app.AddRequirement("lib", version.First)
	app.Deps["lib"] = model.Dep{Name: "lib", Version: version.First}
	app.Root.AddMember("useThing", model.NewFunc(
		model.Primitive{Kind: model.Null},
		model.Param{Name: "t", Type: model.Ref{Name: "lib.Thing"}},
	))

	if err := model.Validate(app, map[string]*model.Package{"lib": lib}); err != nil {
		t.Fatalf("Validate() returned error resolving a cross-package ref: %v", err)
	}
}

func TestValidateRejectsRefToFunc(t *testing.T) {
	pkg := model.Init("geo", "")
	pkg.Root.AddMember("compute", model.NewFunc(model.Primitive{Kind: model.Int}))
	pkg.Root.AddMember("wrong", model.NewFunc(model.Ref{Name: "geo.compute"}))
	if err := model.Validate(pkg, nil); err == nil {
		t.Fatal("Validate() expected error for ref targeting a Func, got nil")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	pkg := eulerPackage()
	clone := pkg.Clone()

	clone.Root.AddMember("extra", model.NewStruct())
	clone.Info.Description = "mutated"

	if _, ok := pkg.Root.Members["extra"]; ok {
		t.Error("mutating the clone's root module affected the original")
	}
	if pkg.Info.Description == "mutated" {
		t.Error("mutating the clone's info affected the original")
	}
}

func TestPackageJSONRoundTrip(t *testing.T) {
	pkg := eulerPackage()
	pkg.AddRequirement("lib", version.First)
	pkg.Deps["lib"] = model.Dep{Name: "lib", Version: version.Version{Major: 2, Minor: 1}}

	data, err := json.Marshal(pkg)
	if err != nil {
		t.Fatalf("Marshal() returned error: %v", err)
	}

	var got model.Package
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() returned error: %v", err)
	}

	if diff := cmp.Diff(pkg.Info, got.Info); diff != "" {
		t.Errorf("info mismatch after round trip (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(pkg.Deps, got.Deps); diff != "" {
		t.Errorf("deps mismatch after round trip (-want +got):\n%s", diff)
	}
	fn, ok := got.Root.Members["compute"].(model.Func)
	if !ok {
		t.Fatalf("compute member missing or wrong kind after round trip:\n%s", spew.Sdump(got.Root.Members["compute"]))
	}
	if len(fn.Params) != 1 || fn.Params[0].Name != "x" {
		t.Errorf("compute params mismatch after round trip: %#v", fn.Params)
	}
}

func TestTypeEqual(t *testing.T) {
	a := model.Dict{Key: model.Primitive{Kind: model.Str}, Value: model.List{Elem: model.Primitive{Kind: model.Int}}}
	b := model.Dict{Key: model.Primitive{Kind: model.Str}, Value: model.List{Elem: model.Primitive{Kind: model.Int}}}
	c := model.Dict{Key: model.Primitive{Kind: model.Str}, Value: model.List{Elem: model.Primitive{Kind: model.Float}}}

	if !model.Equal(a, b) {
		t.Error("expected equal types to compare equal")
	}
	if model.Equal(a, c) {
		t.Error("expected different types to compare unequal")
	}
}

func TestAddUseDeduplicates(t *testing.T) {
	pkg := model.Init("app", "")
	pkg.AddUse("lib", "lib.Thing")
	pkg.AddUse("lib", "lib.Thing")
	pkg.AddUse("lib", "lib.Other")

	if got := len(pkg.Uses["lib"]); got != 2 {
		t.Fatalf("len(Uses[\"lib\"]) = %d, want 2 (deduplicated):\n%s", got, spew.Sdump(pkg.Uses))
	}
}

func TestValidateRejectsUseOfUndeclaredDependency(t *testing.T) {
	pkg := model.Init("app", "")
	pkg.Uses["lib"] = []string{"lib.Thing"}

	if err := model.Validate(pkg, nil); err == nil {
		t.Fatal("Validate() expected error for use of an undeclared dependency, got nil")
	}
}

func TestValidateRejectsUsePathOutsideDependency(t *testing.T) {
	pkg := model.Init("app", "")
	pkg.AddRequirement("lib", version.First)
	pkg.Uses["lib"] = []string{"other.Thing"}

	if err := model.Validate(pkg, nil); err == nil {
		t.Fatal("Validate() expected error for a used path outside its dependency, got nil")
	}
}

func TestIsLocked(t *testing.T) {
	pkg := model.Init("app", "")
	pkg.AddRequirement("lib", version.Version{Major: 1, Minor: 0})

	if pkg.IsLocked() {
		t.Fatal("fresh requirement with no Deps entry should not be locked")
	}

	pkg.Deps["lib"] = model.Dep{Name: "lib", Version: version.Version{Major: 1, Minor: 4}}
	if !pkg.IsLocked() {
		t.Fatal("matching major, >= min_version dep should be locked")
	}

	pkg.Deps["lib"] = model.Dep{Name: "lib", Version: version.Version{Major: 0, Minor: 9}}
	if pkg.IsLocked() {
		t.Fatal("dep below the requirement floor should not satisfy IsLocked")
	}

	// A higher major than the requirement floor is still a valid lock:
	// selective major-crossing legitimately locks above the floor.
	pkg.Deps["lib"] = model.Dep{Name: "lib", Version: version.Version{Major: 2, Minor: 0}}
	if !pkg.IsLocked() {
		t.Fatal("dep with a higher major than the requirement floor should still satisfy IsLocked")
	}
}
