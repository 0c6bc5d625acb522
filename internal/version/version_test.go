package version

import "testing"

func TestGet(t *testing.T) {
	old := Dirty
	defer func() { Dirty = old }()

	Dirty = "true"
	info := Get()
	if !info.Dirty || info.GoVersion == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	if got := info.String(); got != Version+" ("+Commit+") dirty" {
		t.Fatalf("unexpected string %q", got)
	}
}
