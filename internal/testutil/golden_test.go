package testutil

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestUnifiedDiff(t *testing.T) {
	diff := unifiedDiff("a\nb\nc\n", "a\nx\nc\n", "f.golden")
	for _, want := range []string{"--- f.golden (expected)", "+++ f.golden (got)", "-b", "+x", " a", " c"} {
		if !strings.Contains(diff, want) {
			t.Errorf("diff missing %q:\n%s", want, diff)
		}
	}
}

func TestUnifiedDiff_Equal(t *testing.T) {
	diff := unifiedDiff("same\n", "same\n", "f")
	if strings.Contains(diff, "@@") {
		t.Errorf("equal inputs produced a hunk:\n%s", diff)
	}
}

func TestCompareGolden_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.golden")
	UpdateGolden(t, path, []byte("hello\n"))
	CompareGolden(t, path, []byte("hello\n"))
}
