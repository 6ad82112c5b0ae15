// Diagnostic model shared by every checker stage.
// Stage errors are converted into Diagnostics before they reach a report.

package diagnostic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/orizon-lang/modcheck/internal/position"
)

// Kind is the error taxonomy of the acceptance checker.
type Kind string

const (
	KindSyntaxError       Kind = "SyntaxError"
	KindDuplicateSymbol   Kind = "DuplicateSymbol"
	KindUnresolvedPath    Kind = "UnresolvedPath"
	KindAmbiguousPath     Kind = "AmbiguousPath"
	KindUnknownTrait      Kind = "UnknownTrait"
	KindImplausibleOpaque Kind = "ImplausibleOpaque"
	KindMissingModuleFile Kind = "MissingModuleFile"
	KindReadError         Kind = "ReadError"
	KindOutlineMismatch   Kind = "OutlineMismatch"
)

// Kinds lists every kind in reporting order.
var Kinds = []Kind{
	KindReadError,
	KindSyntaxError,
	KindMissingModuleFile,
	KindOutlineMismatch,
	KindDuplicateSymbol,
	KindUnresolvedPath,
	KindAmbiguousPath,
	KindUnknownTrait,
	KindImplausibleOpaque,
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}

	return "", false
}

// Code returns the stable diagnostic code for the kind.
func (k Kind) Code() string {
	switch k {
	case KindReadError:
		return "E0001"
	case KindMissingModuleFile:
		return "E0002"
	case KindSyntaxError:
		return "E1001"
	case KindOutlineMismatch:
		return "E1002"
	case KindDuplicateSymbol:
		return "E2001"
	case KindUnresolvedPath:
		return "E2002"
	case KindAmbiguousPath:
		return "E2003"
	case KindUnknownTrait:
		return "E3001"
	case KindImplausibleOpaque:
		return "E3002"
	default:
		return "E9999"
	}
}

// Stage names the pipeline stage that produces the kind.
func (k Kind) Stage() Stage {
	switch k {
	case KindReadError:
		return StageRead
	case KindSyntaxError, KindMissingModuleFile:
		return StageParse
	case KindOutlineMismatch:
		return StageOracle
	case KindDuplicateSymbol:
		return StageBuild
	case KindUnresolvedPath, KindAmbiguousPath:
		return StageResolve
	case KindUnknownTrait, KindImplausibleOpaque:
		return StageBounds
	default:
		return StageNone
	}
}

// Stage is one step of the per-fixture pipeline.
type Stage int

const (
	StageNone Stage = iota
	StageRead
	StageParse
	StageOracle
	StageBuild
	StageResolve
	StageBounds
)

func (s Stage) String() string {
	switch s {
	case StageRead:
		return "read"
	case StageParse:
		return "parse"
	case StageOracle:
		return "oracle"
	case StageBuild:
		return "build"
	case StageResolve:
		return "resolve"
	case StageBounds:
		return "bounds"
	default:
		return ""
	}
}

// MarshalText renders the stage name for JSON and YAML reports.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic represents a single reported error.
type Diagnostic struct {
	Kind    Kind                 `json:"kind" yaml:"kind"`
	Code    string               `json:"code" yaml:"code"`
	Message string               `json:"message" yaml:"message"`
	Span    position.Span        `json:"span" yaml:"span"`
	Related []RelatedInformation `json:"related,omitempty" yaml:"related,omitempty"`
}

// RelatedInformation points at a second location involved in the error.
type RelatedInformation struct {
	Message string        `json:"message" yaml:"message"`
	Span    position.Span `json:"span" yaml:"span"`
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s: %s[%s]: %s", d.Span.Start, d.Kind, d.Code, d.Message)
}

// Builder helps construct diagnostics with a fluent API.
type Builder struct {
	diagnostic *Diagnostic
}

// New starts a diagnostic of the given kind.
func New(kind Kind) *Builder {
	return &Builder{diagnostic: &Diagnostic{Kind: kind, Code: kind.Code()}}
}

func (b *Builder) Message(message string) *Builder {
	b.diagnostic.Message = message

	return b
}

func (b *Builder) Messagef(format string, args ...interface{}) *Builder {
	b.diagnostic.Message = fmt.Sprintf(format, args...)

	return b
}

func (b *Builder) Span(span position.Span) *Builder {
	b.diagnostic.Span = span

	return b
}

func (b *Builder) Related(span position.Span, message string) *Builder {
	b.diagnostic.Related = append(b.diagnostic.Related, RelatedInformation{Span: span, Message: message})

	return b
}

func (b *Builder) Build() *Diagnostic {
	return b.diagnostic
}

// Sort orders diagnostics by stage, then by source position. The sort is
// stable so equal positions keep discovery order.
func Sort(diags []*Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if sa, sb := a.Kind.Stage(), b.Kind.Stage(); sa != sb {
			return sa < sb
		}

		return position.Compare(a.Span, b.Span) < 0
	})
}

// Format renders diagnostics one per line, followed by related locations.
func Format(diags []*Diagnostic) string {
	var result strings.Builder

	for _, d := range diags {
		result.WriteString(d.String())
		result.WriteString("\n")

		for _, related := range d.Related {
			result.WriteString(fmt.Sprintf("  %s: %s\n", related.Span.Start, related.Message))
		}
	}

	return result.String()
}
