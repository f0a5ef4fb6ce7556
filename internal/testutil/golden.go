// Package testutil holds helpers shared by tests.
package testutil

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// updateGolden controls whether golden files should be updated.
// Use: go test ./... -run TestGolden -update
var updateGolden = flag.Bool("update", false, "update golden files")

// ShouldUpdate returns true if golden files should be updated.
func ShouldUpdate() bool {
	return *updateGolden
}

// CompareGolden compares got against the golden file at path, failing with
// a diff on mismatch. With -update the file is rewritten instead.
func CompareGolden(t *testing.T, path string, got []byte) {
	t.Helper()

	if *updateGolden {
		UpdateGolden(t, path, got)
		t.Logf("Updated golden: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("Golden file missing: %s\n\nGot:\n%s\n\nRun with -update to create:\n  go test ./... -run %s -update",
				path, got, t.Name())
		}
		t.Fatalf("Failed to read golden file: %v", err)
	}

	if !bytes.Equal(got, expected) {
		t.Fatalf("Golden mismatch for %s:\n%s\nRun with -update to refresh:\n  go test ./... -run %s -update",
			path, unifiedDiff(string(expected), string(got), path), t.Name())
	}
}

// UpdateGolden writes data to the golden file, creating parent directories.
func UpdateGolden(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create golden directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write golden file: %v", err)
	}
}

// unifiedDiff produces a line-by-line diff with three lines of context.
func unifiedDiff(expected, got, path string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- %s (expected)\n", path)
	fmt.Fprintf(&buf, "+++ %s (got)\n", path)

	exp := strings.Split(expected, "\n")
	act := strings.Split(got, "\n")
	n := max(len(exp), len(act))
	line := func(lines []string, i int) (string, bool) {
		if i < len(lines) {
			return lines[i], true
		}
		return "", false
	}

	var hunk []string
	start, quiet := 0, 0
	flush := func() {
		if len(hunk) == 0 {
			return
		}
		fmt.Fprintf(&buf, "@@ line %d @@\n", start+1)
		for _, l := range hunk {
			buf.WriteString(l)
			buf.WriteByte('\n')
		}
		hunk = nil
	}

	for i := 0; i < n; i++ {
		e, eok := line(exp, i)
		a, aok := line(act, i)
		if eok && aok && e == a {
			if hunk != nil {
				hunk = append(hunk, " "+e)
				if quiet++; quiet >= 3 {
					flush()
				}
			}
			continue
		}
		if hunk == nil {
			start = max(0, i-3)
			for j := start; j < i && j < len(exp); j++ {
				hunk = append(hunk, " "+exp[j])
			}
		}
		quiet = 0
		if eok {
			hunk = append(hunk, "-"+e)
		}
		if aok {
			hunk = append(hunk, "+"+a)
		}
	}
	flush()
	return buf.String()
}
