package driver

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/modcheck/internal/cli"
	"github.com/orizon-lang/modcheck/internal/diagnostic"
)

// Status is the outcome of one fixture.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Fixture is one compilation unit to check. Path names a file on the
// driver's file system; Source is used when Path is empty.
type Fixture struct {
	ID     string
	Path   string
	Source string
	Expect *Expectation
}

// Expectation is the outcome a suite manifest declares for a fixture.
type Expectation struct {
	Status   Status            `json:"status,omitempty" yaml:"status,omitempty"`
	Errors   []diagnostic.Kind `json:"errors,omitempty" yaml:"errors,omitempty"`
	Requires string            `json:"requires,omitempty" yaml:"requires,omitempty"`

	constraint *semver.Constraints
}

// check returns why r disagrees with e, or "" when it agrees.
func (e *Expectation) check(r *Report) string {
	if e.Status != "" && r.Status != e.Status {
		return fmt.Sprintf("expected %s, got %s", e.Status, r.Status)
	}
	if len(e.Errors) == 0 {
		return ""
	}

	got := make([]diagnostic.Kind, len(r.Errors))
	for i, d := range r.Errors {
		got[i] = d.Kind
	}
	want := slices.Clone(e.Errors)
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		return fmt.Sprintf("expected errors [%s], got [%s]", joinKinds(want), joinKinds(got))
	}

	return ""
}

func joinKinds(kinds []diagnostic.Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, " ")
}

// Report is the result of checking one fixture. Errors are ordered by
// stage, then by source position.
type Report struct {
	FixtureID string                   `json:"fixture" yaml:"fixture"`
	Path      string                   `json:"path,omitempty" yaml:"path,omitempty"`
	Status    Status                   `json:"status" yaml:"status"`
	Stage     diagnostic.Stage         `json:"stage,omitempty" yaml:"stage,omitempty"`
	Errors    []*diagnostic.Diagnostic `json:"errors,omitempty" yaml:"errors,omitempty"`
	Reason    string                   `json:"reason,omitempty" yaml:"reason,omitempty"`
	Expect    *Expectation             `json:"expect,omitempty" yaml:"expect,omitempty"`
	Mismatch  string                   `json:"mismatch,omitempty" yaml:"mismatch,omitempty"`
}

// Verdict is the status the run counts: the checker's outcome, or in suite
// mode whether that outcome matched the expectation.
func (r *Report) Verdict() Status {
	switch {
	case r.Status == StatusSkip:
		return StatusSkip
	case r.Expect == nil:
		return r.Status
	case r.Mismatch != "":
		return StatusFail
	default:
		return StatusPass
	}
}

// Summary is the result of a batch run. Reports are in input order.
// Interrupted is set when the run's context ended before the batch finished;
// the fixtures it did not reach are skipped.
type Summary struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	Version     string    `json:"version" yaml:"version"`
	Policy      string    `json:"policy" yaml:"policy"`
	Reports     []*Report `json:"reports" yaml:"reports"`
	Passed      int       `json:"passed" yaml:"passed"`
	Failed      int       `json:"failed" yaml:"failed"`
	Skipped     int       `json:"skipped" yaml:"skipped"`
	Interrupted bool      `json:"interrupted,omitempty" yaml:"interrupted,omitempty"`
}

func (s *Summary) tally() {
	s.Passed, s.Failed, s.Skipped = 0, 0, 0
	for _, r := range s.Reports {
		switch r.Verdict() {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
		case StatusSkip:
			s.Skipped++
		}
	}
}

// ExitCode is 0 when every fixture passed, otherwise the number of failing
// fixtures capped at cli.MaxFailureExitCode. An interrupted run exits with
// cli.InterruptedExitCode whatever its tally.
func (s *Summary) ExitCode() int {
	if s.Interrupted {
		return cli.InterruptedExitCode
	}
	return cli.ExitCode(s.Failed)
}
