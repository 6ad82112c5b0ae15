// Package testutil holds helpers shared by package tests.
package testutil

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var update = flag.Bool("update", false, "rewrite golden files with the actual output")

// VerifyGoldenFile compares actual with the content of goldenPath. With
// -update the file is rewritten instead.
func VerifyGoldenFile(goldenPath, actual string, updateGolden bool) error {
	if updateGolden {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			return fmt.Errorf("failed to create golden file directory: %w", err)
		}
		if err := os.WriteFile(goldenPath, []byte(actual), 0o644); err != nil {
			return fmt.Errorf("failed to write golden file %s: %w", goldenPath, err)
		}
		return nil
	}

	expected, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("golden file %s does not exist; run with -update to create it", goldenPath)
	} else if err != nil {
		return fmt.Errorf("failed to read golden file %s: %w", goldenPath, err)
	}

	if diff := cmp.Diff(string(expected), actual); diff != "" {
		return fmt.Errorf("golden file mismatch for %s (-want +got):\n%s", goldenPath, diff)
	}

	return nil
}

// Golden checks actual against testdata/<name>.golden.
func Golden(t testing.TB, name, actual string) {
	t.Helper()
	if err := VerifyGoldenFile(filepath.Join("testdata", name+".golden"), actual, *update); err != nil {
		t.Error(err)
	}
}
