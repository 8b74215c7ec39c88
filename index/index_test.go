package index_test

import (
	"errors"
	"testing"

	"github.com/gregorybchris/myxa/index"
	"github.com/gregorybchris/myxa/model"
	"github.com/gregorybchris/myxa/version"
)

func TestInsertAndLatest(t *testing.T) {
	idx := index.New()
	pkg := model.Init("euler", "")

	if err := idx.Insert(pkg); err != nil {
		t.Fatalf("Insert() returned error: %v", err)
	}

	got, err := idx.Latest("euler")
	if err != nil {
		t.Fatalf("Latest() returned error: %v", err)
	}
	if got.Info.Version != version.First {
		t.Errorf("Latest().Info.Version = %s, want %s", got.Info.Version, version.First)
	}
}

// Publishing the same (name, version) twice fails AlreadyPublished.
func TestInsertDuplicateFails(t *testing.T) {
	idx := index.New()
	pkg := model.Init("lib", "")

	if err := idx.Insert(pkg); err != nil {
		t.Fatalf("first Insert() returned error: %v", err)
	}
	err := idx.Insert(pkg)
	if err == nil {
		t.Fatal("second Insert() of the same (name, version) should fail")
	}
	if !errors.Is(err, index.ErrAlreadyPublished) {
		t.Errorf("expected ErrAlreadyPublished, got %v", err)
	}
}

// Publishing a brand-new major for a name that already has a lower
// major published is fine.
func TestInsertNewMajorForExistingName(t *testing.T) {
	idx := index.New()
	lib10 := model.Init("lib", "")
	if err := idx.Insert(lib10); err != nil {
		t.Fatalf("Insert() lib@1.0 returned error: %v", err)
	}

	lib20 := model.Init("lib", "")
	lib20.Info.Version = version.Version{Major: 2, Minor: 0}
	if err := idx.Insert(lib20); err != nil {
		t.Fatalf("Insert() lib@2.0 returned error: %v", err)
	}

	latest, err := idx.Latest("lib")
	if err != nil {
		t.Fatalf("Latest() returned error: %v", err)
	}
	if latest.Info.Version.Major != 2 {
		t.Errorf("Latest().Info.Version.Major = %d, want 2", latest.Info.Version.Major)
	}
}

func TestLatestNotFound(t *testing.T) {
	idx := index.New()
	if _, err := idx.Latest("missing"); !errors.Is(err, index.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// Index immutability: mutating a value returned from the index must
// not affect what a subsequent read returns.
func TestIndexImmutability(t *testing.T) {
	idx := index.New()
	pkg := model.Init("lib", "")
	pkg.Root.AddMember("f", model.NewFunc(model.Primitive{Kind: model.Int}))
	if err := idx.Insert(pkg); err != nil {
		t.Fatalf("Insert() returned error: %v", err)
	}

	got, err := idx.Latest("lib")
	if err != nil {
		t.Fatalf("Latest() returned error: %v", err)
	}
	got.Root.AddMember("intruder", model.NewStruct())
	got.Info.Description = "mutated after the fact"

	again, err := idx.Latest("lib")
	if err != nil {
		t.Fatalf("Latest() returned error: %v", err)
	}
	if _, ok := again.Root.Members["intruder"]; ok {
		t.Error("mutating a returned snapshot leaked into the index's stored copy")
	}
	if again.Info.Description == "mutated after the fact" {
		t.Error("mutating a returned snapshot's info leaked into the index's stored copy")
	}

	pkg.Info.Description = "mutated the original draft too"
	again2, _ := idx.Latest("lib")
	if again2.Info.Description == "mutated the original draft too" {
		t.Error("mutating the original draft after Insert leaked into the index's stored copy")
	}
}

func TestPackageNamesSorted(t *testing.T) {
	idx := index.New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := idx.Insert(model.Init(name, "")); err != nil {
			t.Fatalf("Insert(%q) returned error: %v", name, err)
		}
	}
	got := idx.PackageNames()
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PackageNames() = %v, want %v", got, want)
		}
	}
}
