// Command modcheck checks that fixtures written in a Rust-like surface
// syntax pass the module, visibility and trait-bound stages of a compiler
// front end.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/orizon-lang/modcheck/internal/cli"
)

type options struct {
	verbose    bool
	configPath string

	format  string
	jobs    int
	policy  string
	suite   string
	oracle  bool
	watch   bool
	noColor bool

	logger *zap.Logger
	// started is set once flags and arguments have been accepted; errors
	// before that point are usage errors.
	started bool
}

func newRootCmd(o *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "modcheck",
		Short: "Acceptance checker for module resolution and trait bounds",
		Long: `modcheck parses fixtures, builds their symbol tables, resolves every path
against module scopes and visibility, and checks that every trait named in a
bound, impl header or impl Trait position exists.

Each fixture passes or fails. The exit status is the number of failing
fixtures, capped at 125; usage and configuration errors exit with 126.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			o.started = true
			config := zap.NewProductionConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if o.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			o.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = o.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "Configuration file (default: ./.modcheck.yaml when present)")

	rootCmd.AddCommand(newCheckCmd(o))
	rootCmd.AddCommand(newOutlineCmd(o))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.PrintVersion(cmd.OutOrStdout(), "modcheck", jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version information in JSON format")
	return cmd
}

// execute runs the command line and returns the process exit status.
// Flag, argument and configuration errors exit with cli.UsageExitCode; any
// other error ends the run with cli.InternalExitCode.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o := &options{logger: zap.NewNop()}
	rootCmd := newRootCmd(o)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	var (
		exitErr  *cli.ExitError
		usageErr *cli.UsageError
	)
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.As(err, &usageErr) || !o.started:
		fmt.Fprintln(stderr, "modcheck:", err)
		return cli.UsageExitCode
	default:
		fmt.Fprintln(stderr, "modcheck: internal error:", err)
		return cli.InternalExitCode
	}
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
