package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/modcheck/internal/diagnostic"
	"github.com/orizon-lang/modcheck/internal/source"
)

// Suite is a YAML manifest listing fixtures with their expected outcomes.
//
//	name: modules
//	fixtures:
//	  - id: private-cos
//	    path: cases/private.rs
//	    expect: fail
//	    errors: [UnresolvedPath]
//	    requires: ">= 0.2.0"
type Suite struct {
	Name     string       `yaml:"name"`
	Fixtures []SuiteEntry `yaml:"fixtures"`
}

// SuiteEntry declares one fixture. Path is relative to the manifest. When
// Expect is empty it defaults to fail if Errors are listed and pass
// otherwise.
type SuiteEntry struct {
	ID       string            `yaml:"id"`
	Path     string            `yaml:"path"`
	Source   string            `yaml:"source"`
	Expect   Status            `yaml:"expect"`
	Errors   []diagnostic.Kind `yaml:"errors"`
	Requires string            `yaml:"requires"`
}

// SuiteError lists every problem found in a manifest.
type SuiteError struct {
	Path   string
	Issues []string
}

func (e *SuiteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "suite %s is invalid:", e.Path)
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadSuite reads a manifest and returns its fixtures in manifest order.
func LoadSuite(fsys source.FileSystem, path string) ([]Fixture, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("suite: read %s: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var suite Suite
	if err := decoder.Decode(&suite); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("suite: %s is empty", path)
		}
		return nil, fmt.Errorf("suite: parse %s: %w", path, err)
	}

	return suite.fixtures(path)
}

func (s *Suite) fixtures(path string) ([]Fixture, error) {
	errs := &SuiteError{Path: path}
	issue := func(i int, format string, args ...interface{}) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("fixtures[%d]: ", i)+fmt.Sprintf(format, args...))
	}

	dir := moduleDir(path)
	seen := make(map[string]bool)
	fixtures := make([]Fixture, 0, len(s.Fixtures))

	for i, entry := range s.Fixtures {
		if entry.ID == "" {
			issue(i, "id must be provided")
		} else if seen[entry.ID] {
			issue(i, "duplicate id %q", entry.ID)
		}
		seen[entry.ID] = true

		if (entry.Path == "") == (entry.Source == "") {
			issue(i, "exactly one of path and source must be provided")
		}

		expect := &Expectation{Status: entry.Expect, Errors: entry.Errors, Requires: entry.Requires}
		switch expect.Status {
		case StatusPass, StatusFail:
		case "":
			expect.Status = StatusPass
			if len(entry.Errors) > 0 {
				expect.Status = StatusFail
			}
		default:
			issue(i, "expect must be pass or fail, got %q", entry.Expect)
		}
		if expect.Status == StatusPass && len(entry.Errors) > 0 {
			issue(i, "a passing fixture cannot list errors")
		}

		for _, k := range entry.Errors {
			if _, ok := diagnostic.ParseKind(string(k)); !ok {
				issue(i, "unknown error kind %q", k)
			}
		}

		if entry.Requires != "" {
			c, err := semver.NewConstraint(entry.Requires)
			if err != nil {
				issue(i, "invalid requires %q: %v", entry.Requires, err)
			}
			expect.constraint = c
		}

		f := Fixture{ID: entry.ID, Source: entry.Source, Expect: expect}
		if entry.Path != "" {
			f.Path = source.Join(dir, entry.Path)
		}
		fixtures = append(fixtures, f)
	}

	if len(errs.Issues) > 0 {
		return nil, errs
	}

	return fixtures, nil
}
