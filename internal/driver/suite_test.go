package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/modcheck/internal/diagnostic"
	"github.com/orizon-lang/modcheck/internal/source"
)

func TestLoadSuite(t *testing.T) {
	fixtures, err := LoadSuite(source.NewOS(), "testdata/suite.yaml")
	require.NoError(t, err)

	ids := make([]string, len(fixtures))
	for i, f := range fixtures {
		ids[i] = f.ID
	}
	assert.Equal(t, []string{"modules", "module-tree", "private-cos", "unknown-trait", "wrong-expectation", "future-syntax"}, ids)

	assert.Equal(t, "testdata/Modules.rs", fixtures[0].Path)
	assert.Equal(t, "testdata/tree/main.rs", fixtures[1].Path)
	assert.Equal(t, StatusPass, fixtures[0].Expect.Status)

	cos := fixtures[2]
	assert.Empty(t, cos.Path)
	assert.Contains(t, cos.Source, "math::cos(5.0);")
	assert.Equal(t, StatusFail, cos.Expect.Status)
	assert.Equal(t, []diagnostic.Kind{diagnostic.KindUnresolvedPath}, cos.Expect.Errors)

	assert.Equal(t, StatusFail, fixtures[3].Expect.Status, "listing errors implies fail")
	assert.NotNil(t, fixtures[5].Expect.constraint)
}

func TestRunSuite(t *testing.T) {
	fixtures, err := LoadSuite(source.NewOS(), "testdata/suite.yaml")
	require.NoError(t, err)

	s := newDriver(t).Check(context.Background(), fixtures)

	verdicts := make(map[string]Status)
	for _, r := range s.Reports {
		verdicts[r.FixtureID] = r.Verdict()
	}
	assert.Equal(t, map[string]Status{
		"modules":           StatusPass,
		"module-tree":       StatusPass,
		"private-cos":       StatusPass,
		"unknown-trait":     StatusPass,
		"wrong-expectation": StatusFail,
		"future-syntax":     StatusSkip,
	}, verdicts)

	wrong := s.Reports[4]
	assert.Equal(t, StatusPass, wrong.Status)
	assert.Equal(t, "expected fail, got pass", wrong.Mismatch)

	assert.Contains(t, s.Reports[5].Reason, "requires >= 9.0.0")

	assert.Equal(t, 4, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, s.ExitCode())
}

func TestLoadSuiteInvalid(t *testing.T) {
	manifest := `name: broken
fixtures:
  - id: a
    source: "fn main() {}"
  - id: a
    path: a.rs
    source: "fn main() {}"
  - path: b.rs
    expect: pass
    errors: [UnknownTrait]
  - id: c
    path: c.rs
    errors: [NoSuchKind]
  - id: d
    path: d.rs
    expect: maybe
    requires: "not a version"
`
	fsys := source.NewMem()
	fsys.WriteFile("suites/broken.yaml", []byte(manifest))

	_, err := LoadSuite(fsys, "suites/broken.yaml")
	var suiteErr *SuiteError
	require.True(t, errors.As(err, &suiteErr), "got %v", err)

	assert.Equal(t, "suites/broken.yaml", suiteErr.Path)
	assert.Equal(t, []string{
		`fixtures[1]: duplicate id "a"`,
		"fixtures[1]: exactly one of path and source must be provided",
		"fixtures[2]: id must be provided",
		"fixtures[2]: a passing fixture cannot list errors",
		`fixtures[3]: unknown error kind "NoSuchKind"`,
		`fixtures[4]: expect must be pass or fail, got "maybe"`,
	}, suiteErr.Issues[:6])
	require.Len(t, suiteErr.Issues, 7)
	assert.Contains(t, suiteErr.Issues[6], `fixtures[4]: invalid requires "not a version"`)
	assert.Contains(t, err.Error(), "suite suites/broken.yaml is invalid:\n- ")
}

func TestLoadSuiteErrors(t *testing.T) {
	fsys := source.NewMem()
	fsys.WriteFile("empty.yaml", nil)
	fsys.WriteFile("unknown.yaml", []byte("name: x\nfixture: []\n"))
	fsys.WriteFile("nested/suite.yaml", []byte("fixtures:\n  - id: one\n    path: ../cases/one.rs\n"))

	_, err := LoadSuite(fsys, "missing.yaml")
	assert.ErrorContains(t, err, "suite: read missing.yaml")

	_, err = LoadSuite(fsys, "empty.yaml")
	assert.ErrorContains(t, err, "is empty")

	_, err = LoadSuite(fsys, "unknown.yaml")
	assert.ErrorContains(t, err, "field fixture not found")

	fixtures, err := LoadSuite(fsys, "nested/suite.yaml")
	require.NoError(t, err)
	assert.Equal(t, "cases/one.rs", fixtures[0].Path)
}
