package resolver

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/modcheck/internal/diagnostic"
	"github.com/orizon-lang/modcheck/internal/position"
)

// Error is a symbol table or resolution error. Which fields are set depends
// on Kind: DuplicateSymbol carries Name, FirstSpan and SecondSpan;
// UnresolvedPath carries Path and AttemptedScopes; AmbiguousPath carries
// Path and Candidates.
type Error struct {
	Kind    diagnostic.Kind
	Message string
	Span    position.Span

	Name       string
	FirstSpan  position.Span
	SecondSpan position.Span

	Path            string
	AttemptedScopes []string
	Candidates      []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.Start, e.Message)
}

// Diagnostic converts the error for reporting.
func (e *Error) Diagnostic() *diagnostic.Diagnostic {
	b := diagnostic.New(e.Kind).Message(e.Message).Span(e.Span)
	if e.Kind == diagnostic.KindDuplicateSymbol {
		b.Related(e.FirstSpan, fmt.Sprintf("previous definition of `%s` here", e.Name))
	}

	return b.Build()
}

func newDuplicateSymbol(name, scope string, first, second position.Span) *Error {
	return &Error{
		Kind:       diagnostic.KindDuplicateSymbol,
		Message:    fmt.Sprintf("the name `%s` is defined multiple times in `%s`", name, scope),
		Span:       second,
		Name:       name,
		FirstSpan:  first,
		SecondSpan: second,
	}
}

func newUnresolvedPath(path string, span position.Span, attempted []string, private string) *Error {
	msg := fmt.Sprintf("cannot resolve `%s`", path)
	if private != "" {
		msg = fmt.Sprintf("`%s` is private to `%s`", path, private)
	}
	if len(attempted) > 0 {
		msg += fmt.Sprintf(" (searched: %s)", strings.Join(attempted, ", "))
	}

	return &Error{
		Kind:            diagnostic.KindUnresolvedPath,
		Message:         msg,
		Span:            span,
		Path:            path,
		AttemptedScopes: attempted,
	}
}

func newAmbiguousPath(path string, span position.Span, candidates []string) *Error {
	return &Error{
		Kind:       diagnostic.KindAmbiguousPath,
		Message:    fmt.Sprintf("`%s` is ambiguous (candidates: %s)", path, strings.Join(candidates, ", ")),
		Span:       span,
		Path:       path,
		Candidates: candidates,
	}
}
