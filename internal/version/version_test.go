package version

import (
	"strings"
	"testing"
)

// setBuild overrides the build variables for the duration of a test.
func setBuild(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = v, c, d })
	Version, Commit, BuildDate = version, commit, date
}

func TestInfo(t *testing.T) {
	tests := []struct {
		commit string
		want   string
	}{
		{"unknown", "0.2.0"},
		{"abc", "0.2.0"},
		{"1234567", "0.2.0"},
		{"12345678", "0.2.0 (1234567)"},
		{"9f2c1d0e44aa", "0.2.0 (9f2c1d0)"},
	}
	for _, tt := range tests {
		t.Run(tt.commit, func(t *testing.T) {
			setBuild(t, "0.2.0", tt.commit, "unknown")
			if got := Info(); got != tt.want {
				t.Errorf("Info() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFull(t *testing.T) {
	setBuild(t, "1.2.3", "abcdef123456", "2026-03-02")

	lines := strings.Split(Full(), "\n")
	want := []string{"pyedit version 1.2.3", "Commit: abcdef123456", "Built: 2026-03-02"}
	if len(lines) != 4 {
		t.Fatalf("Full() has %d lines, want 4: %q", len(lines), lines)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
	if !strings.HasPrefix(lines[3], "Parser: ") || lines[3] == "Parser: " {
		t.Errorf("parser line = %q", lines[3])
	}
}

func TestVersionIsSemver(t *testing.T) {
	if parts := strings.Split(Version, "."); len(parts) != 3 {
		t.Errorf("Version %q is not MAJOR.MINOR.PATCH", Version)
	}
}
