package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orizon-lang/modcheck/internal/cli"
	"github.com/orizon-lang/modcheck/internal/config"
	"github.com/orizon-lang/modcheck/internal/driver"
	"github.com/orizon-lang/modcheck/internal/source"
	"github.com/orizon-lang/modcheck/internal/watch"
)

func newCheckCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path]...",
		Short: "Check fixture files, directories of fixtures, or a suite manifest",
		Long: `Check runs every fixture through parse, symbol table, resolution and bound
checking. A directory argument checks each .rs file directly inside it;
module files below it are loaded through mod declarations.

With --suite the fixtures of a YAML manifest are checked against their
declared outcomes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, o, args)
		},
	}

	defaults := config.DefaultConfig()
	flags := cmd.Flags()
	flags.StringVarP(&o.format, "format", "f", defaults.Format, "Report format: text, json or yaml")
	flags.IntVarP(&o.jobs, "jobs", "j", defaults.Jobs, "Fixtures checked in parallel")
	flags.StringVar(&o.policy, "policy", defaults.Policy, "Visibility policy: strict or permissive")
	flags.StringVar(&o.suite, "suite", "", "Suite manifest listing fixtures and expected outcomes")
	flags.BoolVar(&o.oracle, "oracle", false, "Cross-check item outlines against the tree-sitter Rust grammar")
	flags.BoolVarP(&o.watch, "watch", "w", false, "Check again whenever sources change")
	flags.BoolVar(&o.noColor, "no-color", false, "Disable styling of text reports")

	return cmd
}

// loadConfig layers the config file, environment and changed flags, in that
// order.
func loadConfig(cmd *cobra.Command, o *options) (*config.Config, error) {
	path, required := o.configPath, true
	if path == "" {
		path, required = config.DefaultPath, false
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, &cli.UsageError{Err: err}
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if flags.Changed("jobs") {
		cfg.Jobs = o.jobs
	}
	if flags.Changed("policy") {
		cfg.Policy = o.policy
	}
	if flags.Changed("suite") {
		cfg.Suite = o.suite
	}
	if flags.Changed("oracle") {
		cfg.Oracle = o.oracle
	}

	if err := cfg.Validate(); err != nil {
		return nil, &cli.UsageError{Err: err}
	}

	return cfg, nil
}

// collectFixtures expands path arguments and appends the suite's fixtures.
func collectFixtures(paths []string, suite string) ([]driver.Fixture, error) {
	var fixtures []driver.Fixture
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			// A missing file is reported by the driver as a read error.
			fixtures = append(fixtures, driver.Fixture{ID: p, Path: p})
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".rs") {
				continue
			}
			path := filepath.Join(p, e.Name())
			fixtures = append(fixtures, driver.Fixture{ID: path, Path: path})
		}
	}

	if suite != "" {
		suiteFixtures, err := driver.LoadSuite(source.NewOS(), suite)
		if err != nil {
			var suiteErr *driver.SuiteError
			if errors.As(err, &suiteErr) {
				return nil, &cli.UsageError{Err: err}
			}
			return nil, err
		}
		fixtures = append(fixtures, suiteFixtures...)
	}

	return fixtures, nil
}

func runCheck(cmd *cobra.Command, o *options, args []string) error {
	cfg, err := loadConfig(cmd, o)
	if err != nil {
		return err
	}
	if len(args) == 0 && cfg.Suite == "" {
		return cli.Usagef("no fixtures: pass paths or --suite")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := driver.New(cfg, o.logger)
	renderOpts := driver.RenderOptions{Format: cfg.Format, NoColor: o.noColor}

	if o.watch {
		return runWatch(ctx, cmd.OutOrStdout(), o.logger, cfg, d, args, renderOpts)
	}

	fixtures, err := collectFixtures(args, cfg.Suite)
	if err != nil {
		return err
	}

	s := d.Check(ctx, fixtures)
	if err := driver.Render(cmd.OutOrStdout(), s, renderOpts); err != nil {
		return err
	}
	if code := s.ExitCode(); code != 0 {
		return &cli.ExitError{Code: code}
	}

	return nil
}

func runWatch(ctx context.Context, out io.Writer, logger *zap.Logger, cfg *config.Config,
	d *driver.Driver, args []string, renderOpts driver.RenderOptions) error {
	w, err := watch.New(logger, cfg.Watch.Debounce, func(ctx context.Context) {
		fixtures, err := collectFixtures(args, cfg.Suite)
		if err != nil {
			logger.Error("cannot collect fixtures", zap.Error(err))
			return
		}

		s := d.Check(ctx, fixtures)
		if ctx.Err() != nil {
			return
		}
		if err := driver.Render(out, s, renderOpts); err != nil {
			logger.Error("cannot render report", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	paths := append([]string(nil), args...)
	if cfg.Suite != "" {
		paths = append(paths, cfg.Suite)
	}
	if err := w.Add(paths...); err != nil {
		_ = w.Close()
		return &cli.UsageError{Err: err}
	}

	return w.Run(ctx)
}
