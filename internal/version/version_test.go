package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestCurrent_TrimsAndDefaults(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version, GitCommit = "  ", " abc123 "
	info := Current()
	if info.Version != "dev" || info.GitCommit != "abc123" {
		t.Fatalf("Current() = %+v", info)
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = orig }()

	tests := []struct{ in, want string }{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		if got := Colored(tt.in); got != tt.want {
			t.Errorf("Colored(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColored_AddsEscapes(t *testing.T) {
	orig := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = orig }()

	if got := Colored("1.2.3"); got == "1.2.3" {
		t.Fatalf("expected colored output")
	}
}
