// Package driver runs the acceptance pipeline over fixtures:
// read, parse, optional outline oracle, symbol table, resolution and bound
// checking. A fixture stops at its first failing stage.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/modcheck/internal/cli"
	"github.com/orizon-lang/modcheck/internal/config"
	"github.com/orizon-lang/modcheck/internal/diagnostic"
	"github.com/orizon-lang/modcheck/internal/outline"
	"github.com/orizon-lang/modcheck/internal/position"
	"github.com/orizon-lang/modcheck/internal/resolver"
	"github.com/orizon-lang/modcheck/internal/source"
	"github.com/orizon-lang/modcheck/internal/typechecker"
)

// Driver checks fixtures. It holds no per-fixture state and may run
// several batches concurrently.
type Driver struct {
	cfg     *config.Config
	logger  *zap.Logger
	fsys    source.FileSystem
	oracle  *outline.Oracle
	version *semver.Version
	policy  resolver.VisibilityPolicy
	prelude *resolver.Prelude
}

// Option configures a Driver.
type Option func(*Driver)

// WithFileSystem reads fixtures and module files from fsys instead of disk.
func WithFileSystem(fsys source.FileSystem) Option {
	return func(d *Driver) { d.fsys = fsys }
}

// WithVersion sets the checker version that suite `requires` constraints
// are tested against.
func WithVersion(v *semver.Version) Option {
	return func(d *Driver) { d.version = v }
}

// New creates a driver. A nil cfg uses config.DefaultConfig and a nil
// logger discards output.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *Driver {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Driver{
		cfg:     cfg,
		logger:  logger,
		fsys:    source.NewOS(),
		version: semver.MustParse(cli.Version),
		policy:  cfg.VisibilityPolicy(),
		prelude: cfg.PreludeNames(),
	}
	if cfg.Oracle {
		d.oracle = outline.NewOracle()
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Check runs every fixture and returns the batch summary. Fixtures run in
// parallel up to the configured job limit; reports keep input order.
func (d *Driver) Check(ctx context.Context, fixtures []Fixture) *Summary {
	start := time.Now()
	s := &Summary{
		RunID:   uuid.NewString(),
		Version: d.version.String(),
		Policy:  d.policy.String(),
		Reports: make([]*Report, len(fixtures)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(d.cfg.Jobs, 1))
	for i, f := range fixtures {
		i, f := i, f
		g.Go(func() error {
			s.Reports[i] = d.CheckFixture(gctx, f)
			return nil
		})
	}
	_ = g.Wait()

	s.Interrupted = ctx.Err() != nil
	s.tally()
	d.logger.Info("check finished",
		zap.String("run_id", s.RunID),
		zap.Int("fixtures", len(fixtures)),
		zap.Int("passed", s.Passed),
		zap.Int("failed", s.Failed),
		zap.Int("skipped", s.Skipped),
		zap.Bool("interrupted", s.Interrupted),
		zap.Duration("elapsed", time.Since(start)))

	return s
}

// CheckFixture runs the pipeline on one fixture.
func (d *Driver) CheckFixture(ctx context.Context, f Fixture) *Report {
	r := &Report{FixtureID: f.ID, Path: f.Path, Expect: f.Expect}

	if f.Expect != nil && f.Expect.constraint != nil && !f.Expect.constraint.Check(d.version) {
		r.Status = StatusSkip
		r.Reason = fmt.Sprintf("requires %s, checker is %s", f.Expect.Requires, d.version)
		return r
	}
	if err := ctx.Err(); err != nil {
		r.Status = StatusSkip
		r.Reason = err.Error()
		return r
	}

	start := time.Now()
	r.Stage, r.Errors = d.run(ctx, f)
	if f.Path != "" {
		relativize(r.Errors, moduleDir(f.Path))
	}
	r.Status = StatusPass
	if len(r.Errors) > 0 {
		r.Status = StatusFail
	}
	if f.Expect != nil {
		r.Mismatch = f.Expect.check(r)
	}

	d.logger.Debug("fixture checked",
		zap.String("fixture", f.ID),
		zap.String("status", string(r.Status)),
		zap.Stringer("stage", r.Stage),
		zap.Int("errors", len(r.Errors)),
		zap.Duration("elapsed", time.Since(start)))

	return r
}

func (d *Driver) run(ctx context.Context, f Fixture) (diagnostic.Stage, []*diagnostic.Diagnostic) {
	filename, src := f.Path, []byte(f.Source)
	if filename != "" {
		data, err := d.fsys.ReadFile(filename)
		if err != nil {
			return diagnostic.StageRead, []*diagnostic.Diagnostic{readError(filename, err)}
		}
		src = data
	} else {
		filename = f.ID
	}

	l := &loader{fsys: d.fsys}
	file, diag := l.load(filename, src)
	if diag != nil {
		return diag.Kind.Stage(), []*diagnostic.Diagnostic{diag}
	}

	if d.oracle != nil {
		if diags := d.checkOutline(ctx, l.units); len(diags) > 0 {
			return diagnostic.StageOracle, diags
		}
	}

	table, buildErrs := resolver.BuildSymbolTable(file, resolver.WithPrelude(d.prelude))
	if len(buildErrs) > 0 {
		return diagnostic.StageBuild, resolverDiagnostics(buildErrs)
	}

	if errs := resolver.New(table, d.policy).Resolve(); len(errs) > 0 {
		return diagnostic.StageResolve, resolverDiagnostics(errs)
	}

	if errs := typechecker.NewBoundChecker(table, d.policy).Check(); len(errs) > 0 {
		diags := make([]*diagnostic.Diagnostic, len(errs))
		for i, e := range errs {
			diags[i] = e.Diagnostic()
		}
		diagnostic.Sort(diags)
		return diagnostic.StageBounds, diags
	}

	return diagnostic.StageNone, nil
}

// checkOutline compares each file's outline with the reference parser's.
func (d *Driver) checkOutline(ctx context.Context, units []unit) []*diagnostic.Diagnostic {
	var diags []*diagnostic.Diagnostic
	for _, u := range units {
		reference, err := d.oracle.Outline(ctx, u.src)
		var syntaxErr *outline.SyntaxError
		switch {
		case errors.As(err, &syntaxErr):
			pos := position.Position{Filename: u.path, Line: syntaxErr.Line, Column: syntaxErr.Column}
			diags = append(diags, diagnostic.New(diagnostic.KindOutlineMismatch).
				Message("the reference parser rejects this file").
				Span(position.Span{Start: pos, End: pos}).
				Build())
		case err != nil:
			d.logger.Warn("reference parser failed", zap.String("file", u.path), zap.Error(err))
		default:
			diags = append(diags, outline.Compare(u.path, u.outline, reference)...)
		}
	}

	return diags
}

// relativize rewrites diagnostic file names relative to dir, the directory
// of the fixture's root file.
func relativize(diags []*diagnostic.Diagnostic, dir string) {
	rel := func(span position.Span) position.Span {
		if span.Start.Filename != "" {
			span.Start.Filename = source.Rel(dir, span.Start.Filename)
		}
		if span.End.Filename != "" {
			span.End.Filename = source.Rel(dir, span.End.Filename)
		}
		return span
	}

	for _, d := range diags {
		d.Span = rel(d.Span)
		for i := range d.Related {
			d.Related[i].Span = rel(d.Related[i].Span)
		}
	}
}

func resolverDiagnostics(errs []*resolver.Error) []*diagnostic.Diagnostic {
	diags := make([]*diagnostic.Diagnostic, len(errs))
	for i, e := range errs {
		diags[i] = e.Diagnostic()
	}
	diagnostic.Sort(diags)
	return diags
}
