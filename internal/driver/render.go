package driver

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/modcheck/internal/config"
)

// RenderOptions controls report output.
type RenderOptions struct {
	Format  string
	NoColor bool
}

// Render writes the summary in the requested format.
func Render(w io.Writer, s *Summary, opts RenderOptions) error {
	switch opts.Format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)

	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()

	case config.FormatText, "":
		_, err := io.WriteString(w, renderText(w, s, opts.NoColor))
		return err
	}

	return fmt.Errorf("unknown format %q", opts.Format)
}

type textStyles struct {
	pass, fail, skip, detail lipgloss.Style
}

func newTextStyles(w io.Writer, noColor bool) textStyles {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}

	return textStyles{
		pass:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		fail:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		skip:   r.NewStyle().Foreground(lipgloss.Color("3")),
		detail: r.NewStyle().Faint(true),
	}
}

func renderText(w io.Writer, s *Summary, noColor bool) string {
	st := newTextStyles(w, noColor)
	var b strings.Builder

	for _, r := range s.Reports {
		var badge string
		switch r.Verdict() {
		case StatusPass:
			badge = st.pass.Render("PASS")
		case StatusFail:
			badge = st.fail.Render("FAIL")
		default:
			badge = st.skip.Render("SKIP")
		}

		b.WriteString(badge + " " + r.FixtureID)
		if r.Stage != 0 {
			b.WriteString(" [" + r.Stage.String() + "]")
		}
		b.WriteString("\n")

		if r.Reason != "" {
			b.WriteString("    " + st.detail.Render(r.Reason) + "\n")
		}
		if r.Mismatch != "" {
			b.WriteString("    " + r.Mismatch + "\n")
		}
		for _, d := range r.Errors {
			b.WriteString("    " + d.String() + "\n")
			for _, related := range d.Related {
				b.WriteString("      " + st.detail.Render(fmt.Sprintf("%s: %s", related.Span.Start, related.Message)) + "\n")
			}
		}
	}

	fmt.Fprintf(&b, "\n%d fixtures: %d passed, %d failed, %d skipped",
		len(s.Reports), s.Passed, s.Failed, s.Skipped)
	if s.Interrupted {
		b.WriteString(" (interrupted)")
	}
	b.WriteString("\n")

	return b.String()
}
