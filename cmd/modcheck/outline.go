package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/modcheck/internal/cli"
	"github.com/orizon-lang/modcheck/internal/config"
	"github.com/orizon-lang/modcheck/internal/diagnostic"
	"github.com/orizon-lang/modcheck/internal/outline"
	"github.com/orizon-lang/modcheck/internal/parser"
	"github.com/orizon-lang/modcheck/internal/position"
)

func newOutlineCmd(o *options) *cobra.Command {
	var (
		format string
		oracle bool
	)
	cmd := &cobra.Command{
		Use:   "outline <path>",
		Short: "Print the items parsed from a single file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			src, err := os.ReadFile(path)
			if err != nil {
				return &cli.UsageError{Err: err}
			}

			file, err := parser.ParseFile(path, string(src))
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				var syntaxErr *parser.SyntaxError
				if errors.As(err, &syntaxErr) {
					fmt.Fprint(cmd.ErrOrStderr(), position.NewSourceFile(path, string(src)).Highlight(syntaxErr.Span))
				}
				return &cli.ExitError{Code: 1}
			}
			entries := outline.FromFile(file)

			out := cmd.OutOrStdout()
			switch format {
			case config.FormatJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(entries); err != nil {
					return err
				}
			case config.FormatYAML:
				if err := yaml.NewEncoder(out).Encode(entries); err != nil {
					return err
				}
			case config.FormatText:
				for _, e := range entries {
					fmt.Fprintf(out, "%4d  %s\n", e.Line, e)
				}
			default:
				return cli.Usagef("invalid format: %s (valid: %v)", format, config.ValidFormats)
			}

			if !oracle {
				return nil
			}
			reference, err := outline.NewOracle().Outline(cmd.Context(), src)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return &cli.ExitError{Code: 1}
			}
			if diags := outline.Compare(path, entries, reference); len(diags) > 0 {
				fmt.Fprint(cmd.ErrOrStderr(), diagnostic.Format(diags))
				return &cli.ExitError{Code: cli.ExitCode(len(diags))}
			}
			o.logger.Debug("reference parser agrees")
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", config.FormatText, "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&oracle, "oracle", false, "Compare with the tree-sitter Rust grammar")
	return cmd
}
