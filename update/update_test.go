package update_test

import (
	"testing"

	"github.com/gregorybchris/myxa/index"
	"github.com/gregorybchris/myxa/model"
	"github.com/gregorybchris/myxa/update"
	"github.com/gregorybchris/myxa/version"
)

func libV1() *model.Package {
	pkg := model.Init("lib", "")
	pkg.Root.AddMember("f", model.NewFunc(model.Primitive{Kind: model.Int}))
	return pkg
}

func appLockedAt(v version.Version) *model.Package {
	app := model.Init("app", "")
	app.AddRequirement("lib", version.First)
	app.AddUse("lib", "lib.f")
	app.Deps["lib"] = model.Dep{Name: "lib", Version: v}
	return app
}

func TestUpdateReportsUpgrade(t *testing.T) {
	idx := index.New()
	if err := idx.Insert(libV1()); err != nil {
		t.Fatalf("Insert(lib@1.0) returned error: %v", err)
	}
	libV1Point1 := libV1()
	libV1Point1.Info.Version = version.Version{Major: 1, Minor: 1}
	if err := idx.Insert(libV1Point1); err != nil {
		t.Fatalf("Insert(lib@1.1) returned error: %v", err)
	}

	app := appLockedAt(version.First)
	plan, err := update.Run(app, idx, nil)
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	if len(plan.Upgraded) != 1 || plan.Upgraded[0].Name != "lib" {
		t.Fatalf("Upgraded = %+v, want one entry for lib", plan.Upgraded)
	}
	want := version.Version{Major: 1, Minor: 1}
	if plan.Upgraded[0].To != want {
		t.Errorf("Upgraded[0].To = %s, want %s", plan.Upgraded[0].To, want)
	}
	if app.Deps["lib"].Version != want {
		t.Errorf("app.Deps[\"lib\"].Version = %s, want %s", app.Deps["lib"].Version, want)
	}
}

// Idempotence: re-running Run against an unchanged index reports no
// upgrades.
func TestUpdateIsIdempotent(t *testing.T) {
	idx := index.New()
	if err := idx.Insert(libV1()); err != nil {
		t.Fatalf("Insert(lib@1.0) returned error: %v", err)
	}

	app := appLockedAt(version.First)
	if _, err := update.Run(app, idx, nil); err != nil {
		t.Fatalf("first Run() returned error: %v", err)
	}

	plan, err := update.Run(app, idx, nil)
	if err != nil {
		t.Fatalf("second Run() returned error: %v", err)
	}
	if len(plan.Upgraded) != 0 {
		t.Errorf("Upgraded = %+v, want none on a re-run with no index change", plan.Upgraded)
	}
	if len(plan.Unchanged) != 1 || plan.Unchanged[0].Name != "lib" {
		t.Errorf("Unchanged = %+v, want one entry for lib", plan.Unchanged)
	}
}
