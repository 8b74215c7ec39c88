package pathset_test

import (
	"reflect"
	"testing"

	"github.com/gregorybchris/myxa/internal/pathset"
)

func TestAddContainsSlice(t *testing.T) {
	s := pathset.New()
	if !s.Add("lib.f") {
		t.Fatal("first Add should report true")
	}
	if s.Add("lib.f") {
		t.Fatal("duplicate Add should report false")
	}
	s.Add("lib.g")
	s.Add("app.h")

	if !s.Contains("lib.f") || !s.Contains("lib.g") || !s.Contains("app.h") {
		t.Fatal("Contains should find every added element")
	}
	if s.Contains("missing") {
		t.Fatal("Contains should not find an unadded element")
	}

	want := []string{"app.h", "lib.f", "lib.g"}
	if got := s.Slice(); !reflect.DeepEqual(got, want) {
		t.Errorf("Slice() = %v, want %v", got, want)
	}
}

func TestWithPrefix(t *testing.T) {
	s := pathset.New()
	s.Add("lib.f")
	s.Add("lib.g")
	s.Add("app.h")

	got := s.WithPrefix("lib.")
	want := []string{"lib.f", "lib.g"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WithPrefix(\"lib.\") = %v, want %v", got, want)
	}
}

func TestUnion(t *testing.T) {
	a := pathset.New()
	a.Add("x")
	b := pathset.New()
	b.Add("y")

	a.Union(b)
	if !a.Contains("x") || !a.Contains("y") {
		t.Fatal("Union should merge both sets' elements")
	}
	if a.Len() != 2 {
		t.Errorf("Len() = %d, want 2", a.Len())
	}
}
