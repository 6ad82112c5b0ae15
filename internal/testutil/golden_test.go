package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVerifyGoldenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.golden")

	if err := VerifyGoldenFile(path, "PASS a\n", false); err == nil {
		t.Fatal("expected an error for a missing golden file")
	}

	if err := VerifyGoldenFile(path, "PASS a\n", true); err != nil {
		t.Fatalf("update: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "PASS a\n" {
		t.Fatalf("golden file holds %q", data)
	}

	if err := VerifyGoldenFile(path, "PASS a\n", false); err != nil {
		t.Fatalf("unexpected mismatch: %v", err)
	}

	err := VerifyGoldenFile(path, "FAIL a\n", false)
	if err == nil || !strings.Contains(err.Error(), "mismatch") {
		t.Fatalf("expected a mismatch, got %v", err)
	}
}
