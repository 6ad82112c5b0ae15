package outline

import (
	"fmt"

	"github.com/orizon-lang/modcheck/internal/diagnostic"
	"github.com/orizon-lang/modcheck/internal/position"
)

// Compare reports every item that only one of the two outlines lists.
// Items match on kind and path; lines are informational because the two
// parsers disagree on whether attributes belong to an item.
func Compare(filename string, ours, reference []Entry) []*diagnostic.Diagnostic {
	var diags []*diagnostic.Diagnostic

	remaining := make(map[string]int)
	for _, e := range reference {
		remaining[e.String()]++
	}
	for _, e := range ours {
		if remaining[e.String()] > 0 {
			remaining[e.String()]--
			continue
		}
		diags = append(diags, mismatch(filename, e,
			fmt.Sprintf("`%s` was parsed but the reference parser does not list it", e)))
	}

	for _, e := range reference {
		if remaining[e.String()] <= 0 {
			continue
		}
		remaining[e.String()]--
		diags = append(diags, mismatch(filename, e,
			fmt.Sprintf("the reference parser lists `%s` but it was not parsed", e)))
	}

	return diags
}

func mismatch(filename string, e Entry, msg string) *diagnostic.Diagnostic {
	pos := position.Position{Filename: filename, Line: e.Line, Column: 1}
	return diagnostic.New(diagnostic.KindOutlineMismatch).
		Message(msg).
		Span(position.Span{Start: pos, End: pos}).
		Build()
}
