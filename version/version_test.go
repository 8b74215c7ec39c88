package version_test

import (
	"testing"

	"github.com/gregorybchris/myxa/version"
)

func TestCompatible(t *testing.T) {
	cases := []struct {
		name     string
		v1, v2   version.Version
		expected bool
	}{
		{"same major and minor", version.Version{Major: 1, Minor: 0}, version.Version{Major: 1, Minor: 0}, true},
		{"same major, different minor", version.Version{Major: 1, Minor: 0}, version.Version{Major: 1, Minor: 3}, true},
		{"different major", version.Version{Major: 1, Minor: 9}, version.Version{Major: 2, Minor: 0}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := version.Compatible(c.v1, c.v2); got != c.expected {
				t.Errorf("Compatible(%s, %s) = %v, want %v", c.v1, c.v2, got, c.expected)
			}
		})
	}
}

func TestBumpMajor(t *testing.T) {
	got := version.BumpMajor(version.Version{Major: 1, Minor: 7})
	want := version.Version{Major: 2, Minor: 0}
	if got != want {
		t.Errorf("BumpMajor = %s, want %s", got, want)
	}
}

func TestBumpMinor(t *testing.T) {
	got := version.BumpMinor(version.Version{Major: 1, Minor: 7})
	want := version.Version{Major: 1, Minor: 8}
	if got != want {
		t.Errorf("BumpMinor = %s, want %s", got, want)
	}
}

func TestCmp(t *testing.T) {
	cases := []struct {
		v1, v2   version.Version
		expected int
	}{
		{version.Version{Major: 1, Minor: 0}, version.Version{Major: 1, Minor: 0}, 0},
		{version.Version{Major: 1, Minor: 0}, version.Version{Major: 1, Minor: 1}, -1},
		{version.Version{Major: 2, Minor: 0}, version.Version{Major: 1, Minor: 9}, 1},
	}

	for _, c := range cases {
		if got := version.Cmp(c.v1, c.v2); got != c.expected {
			t.Errorf("Cmp(%s, %s) = %d, want %d", c.v1, c.v2, got, c.expected)
		}
	}
}

func TestStringAndParse(t *testing.T) {
	v := version.Version{Major: 3, Minor: 14}
	s := v.String()
	if s != "3.14" {
		t.Fatalf("String() = %q, want %q", s, "3.14")
	}

	got, err := version.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", s, err)
	}
	if got != v {
		t.Errorf("Parse(%q) = %s, want %s", s, got, v)
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []string{"", "1", "1.2.3", "a.b", "1.b", "-1.0"}
	for _, s := range cases {
		if _, err := version.Parse(s); err == nil {
			t.Errorf("Parse(%q) expected error, got nil", s)
		}
	}
}

func TestNewRejectsNegative(t *testing.T) {
	if _, err := version.New(-1, 0); err == nil {
		t.Error("New(-1, 0) expected error, got nil")
	}
	if _, err := version.New(0, -1); err == nil {
		t.Error("New(0, -1) expected error, got nil")
	}
}
