package parser

import (
	"fmt"

	"github.com/orizon-lang/modcheck/internal/position"
)

// SyntaxError is the first offending token of a fixture. Parsing stops at
// the first error; there is no recovery.
type SyntaxError struct {
	Span     position.Span
	Expected string
	Found    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: expected %s, found %s", e.Span.Start, e.Expected, e.Found)
}
