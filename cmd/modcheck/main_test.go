package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/modcheck/internal/cli"
)

const testdata = "../../internal/driver/testdata"

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFixture(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	code, out, _ := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "modcheck v"+cli.Version)

	code, out, _ = run(t, "version", "--json")
	require.Equal(t, 0, code)
	var decoded struct {
		Tool        string `json:"tool"`
		VersionInfo struct {
			Version string `json:"version"`
		} `json:"version_info"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "modcheck", decoded.Tool)
	assert.Equal(t, cli.Version, decoded.VersionInfo.Version)
}

func TestCheckPassing(t *testing.T) {
	code, out, _ := run(t, "check", "--no-color", filepath.Join(testdata, "Modules.rs"), filepath.Join(testdata, "tree", "main.rs"))
	assert.Equal(t, 0, code, out)
	assert.Contains(t, out, "PASS ")
	assert.Contains(t, out, "2 fixtures: 2 passed, 0 failed, 0 skipped")
}

func TestCheckFailingExitCode(t *testing.T) {
	cos := writeFixture(t, "cos.rs", "mod math {\n    fn cos() {}\n}\n\nfn main() {\n    math::cos();\n}\n")
	dup := writeFixture(t, "dup.rs", "fn f() {}\nfn f() {}\n")

	code, out, _ := run(t, "check", "--no-color", cos, dup)
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "UnresolvedPath[E2002]")
	assert.Contains(t, out, "DuplicateSymbol[E2001]")

	code, _, _ = run(t, "check", "--policy", "permissive", cos)
	assert.Equal(t, 0, code)
}

func TestCheckDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rs"), []byte("fn main() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.rs"), []byte("fn main() -> impl Nope { 0 }\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("fixtures\n"), 0o644))

	code, out, _ := run(t, "check", "--format", "json", dir)
	assert.Equal(t, 1, code)

	var s struct {
		Reports []struct {
			Fixture string `json:"fixture"`
			Status  string `json:"status"`
		} `json:"reports"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	require.Len(t, s.Reports, 2)
	assert.Equal(t, filepath.Join(dir, "a.rs"), s.Reports[0].Fixture)
	assert.Equal(t, "pass", s.Reports[0].Status)
	assert.Equal(t, "fail", s.Reports[1].Status)
}

func TestCheckSuite(t *testing.T) {
	code, out, _ := run(t, "check", "--no-color", "--suite", filepath.Join(testdata, "suite.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "FAIL wrong-expectation")
	assert.Contains(t, out, "SKIP future-syntax")
	assert.Contains(t, out, "6 fixtures: 4 passed, 1 failed, 1 skipped")
}

func TestCheckConfigFile(t *testing.T) {
	cos := writeFixture(t, "cos.rs", "mod math {\n    fn cos() {}\n}\n\nfn main() {\n    math::cos();\n}\n")
	cfg := writeFixture(t, "modcheck.yaml", "policy: permissive\nformat: yaml\n")

	code, out, _ := run(t, "check", "--config", cfg, cos)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "policy: permissive")

	code, out, _ = run(t, "check", "--config", cfg, "--policy", "strict", "--format", "text", "--no-color", cos)
	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(out, "FAIL "), out)
}

func TestUsageErrors(t *testing.T) {
	bad := writeFixture(t, "bad.yaml", "jobs: [1]\n")

	tests := []struct {
		name string
		args []string
	}{
		{"no fixtures", []string{"check"}},
		{"bad policy", []string{"check", "--policy", "lenient", "x.rs"}},
		{"bad format", []string{"check", "--format", "xml", "x.rs"}},
		{"bad jobs", []string{"check", "--jobs", "0", "x.rs"}},
		{"missing config", []string{"check", "--config", "does-not-exist.yaml", "x.rs"}},
		{"bad config", []string{"check", "--config", bad, "x.rs"}},
		{"unknown flag", []string{"check", "--frobnicate"}},
		{"unknown command", []string{"frobnicate"}},
		{"watch of a missing path", []string{"check", "--watch", "does-not-exist.rs"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := run(t, tt.args...)
			assert.Equal(t, cli.UsageExitCode, code)
			assert.Contains(t, stderr, "modcheck:")
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestInternalErrorExitCode(t *testing.T) {
	fixture := writeFixture(t, "main.rs", "fn main() {}\n")

	var stderr bytes.Buffer
	code := execute(context.Background(), []string{"check", fixture}, failingWriter{}, &stderr)
	assert.Equal(t, cli.InternalExitCode, code)
	assert.Contains(t, stderr.String(), "internal error: disk full")
}

func TestInterruptedRunExitCode(t *testing.T) {
	fixture := writeFixture(t, "main.rs", "fn main() {}\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := execute(ctx, []string{"check", "--no-color", fixture}, &stdout, &stderr)
	assert.Equal(t, cli.InterruptedExitCode, code)
	assert.Contains(t, stdout.String(), "1 skipped (interrupted)")
}

func TestMissingFixtureIsAReadError(t *testing.T) {
	code, out, _ := run(t, "check", "--no-color", filepath.Join(t.TempDir(), "gone.rs"))
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "[read]")
	assert.Contains(t, out, "ReadError")
}

func TestOutline(t *testing.T) {
	code, out, _ := run(t, "outline", filepath.Join(testdata, "Modules.rs"))
	require.Equal(t, 0, code)
	assert.Contains(t, out, "   1  mod math\n")
	assert.Contains(t, out, "fn generic::foo2")
	assert.Contains(t, out, "fn main")

	code, _, _ = run(t, "outline", "--oracle", filepath.Join(testdata, "Modules.rs"))
	assert.Equal(t, 0, code)

	broken := writeFixture(t, "broken.rs", "fn main( {}\n")
	code, _, stderr := run(t, "outline", broken)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "syntax error")
	assert.Contains(t, stderr, "1 | fn main( {}")
}
