// Package testutil provides golden-file comparison for pipeline output
// that is easier to eyeball as text than to assert field-by-field (the
// final mangled function list, say): write the committed golden once,
// then every later test run just diffs against it.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// update controls whether GoldenCompare overwrites the golden file
// instead of comparing against it.
// Usage: go test -update ./internal/compiler
var update = flag.Bool("update", false, "update golden files")

// GoldenCompare compares got against testdata/<dir>/<name>.golden. With
// -update it (re)writes the golden file instead.
func GoldenCompare(t *testing.T, dir, name, got string) {
	t.Helper()

	path := filepath.Join("testdata", dir, name+".golden")

	if *update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating golden directory %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			t.Fatalf("writing golden file %s: %v", path, err)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading golden file %s: %v\nrun with -update to create it", path, err)
	}

	if diff := cmp.Diff(string(want), got); diff != "" {
		t.Errorf("golden mismatch for %s (-want +got):\n%s", name, diff)
	}
}
