// Package parser implements the fixture language parser and syntax tree.
package parser

import (
	"strings"

	"github.com/orizon-lang/modcheck/internal/position"
)

// Node represents the base interface for all syntax tree nodes
type Node interface {
	// GetSpan returns the source span for this node
	GetSpan() position.Span
}

// Item represents all declarations that may appear in a module or block
type Item interface {
	Node
	itemNode()
}

// Expr represents all expression nodes
type Expr interface {
	Node
	exprNode()
}

// Stmt represents all statement nodes
type Stmt interface {
	Node
	stmtNode()
}

// Pattern represents all pattern nodes
type Pattern interface {
	Node
	patternNode()
}

// TypeRef represents all type nodes
type TypeRef interface {
	Node
	String() string
	typeNode()
}

// File is the root of a parsed fixture (the crate root module)
type File struct {
	Span     position.Span
	Filename string
	Attrs    []*Attribute
	Items    []Item
}

func (f *File) GetSpan() position.Span { return f.Span }

// Ident is a single name with its location
type Ident struct {
	Span position.Span
	Name string
}

func (i *Ident) GetSpan() position.Span { return i.Span }
func (i *Ident) String() string         { return i.Name }

// Attribute is an outer (#[...]) or inner (#![...]) attribute. Only the
// attribute name is kept; arguments are skipped as a token tree.
type Attribute struct {
	Span  position.Span
	Inner bool
	Name  string
}

func (a *Attribute) GetSpan() position.Span { return a.Span }

// ====== Paths ======

// Path is a `::`-separated name such as `math::sin` or `Vec::<T>::new`
type Path struct {
	Span     position.Span
	Global   bool // leading `::`
	Segments []*PathSegment
}

func (p *Path) GetSpan() position.Span { return p.Span }

// String renders the path without generic arguments, e.g. `crate::math::sin`
func (p *Path) String() string {
	names := make([]string, len(p.Segments))
	for i, seg := range p.Segments {
		names[i] = seg.Name.Name
	}
	s := strings.Join(names, "::")
	if p.Global {
		return "::" + s
	}
	return s
}

// Names returns the segment names in order
func (p *Path) Names() []string {
	names := make([]string, len(p.Segments))
	for i, seg := range p.Segments {
		names[i] = seg.Name.Name
	}
	return names
}

// IsSingle reports whether the path is one plain segment
func (p *Path) IsSingle() bool {
	return !p.Global && len(p.Segments) == 1
}

// PathSegment is one segment of a path together with its generic arguments
type PathSegment struct {
	Name *Ident
	Args *GenericArgs // nil when the segment has no arguments
}

// GenericArgs holds `<...>` arguments or the parenthesized `Fn(A) -> B` sugar
type GenericArgs struct {
	Span      position.Span
	Types     []TypeRef
	Bindings  []*AssocBinding
	Consts    []Expr
	Lifetimes []string

	// Parenthesized marks `Fn(A, B) -> C` sugar; Types holds the inputs.
	Parenthesized bool
	Output        TypeRef
}

// AssocBinding is an associated type constraint such as `Item = T` or `Item: Trait`
type AssocBinding struct {
	Span   position.Span
	Name   *Ident
	Type   TypeRef
	Bounds []*TraitBound
}

// ====== Visibility ======

// VisibilityKind classifies visibility markers
type VisibilityKind int

const (
	VisPrivate VisibilityKind = iota // no marker
	VisPublic                        // pub
	VisCrate                         // pub(crate)
	VisSelf                          // pub(self)
	VisSuper                         // pub(super)
	VisIn                            // pub(in path)
)

// Visibility is the declared visibility of an item
type Visibility struct {
	Span position.Span
	Kind VisibilityKind
	Path *Path // only for VisIn
}

// String renders the visibility marker as written
func (v Visibility) String() string {
	switch v.Kind {
	case VisPublic:
		return "pub"
	case VisCrate:
		return "pub(crate)"
	case VisSelf:
		return "pub(self)"
	case VisSuper:
		return "pub(super)"
	case VisIn:
		return "pub(in " + v.Path.String() + ")"
	default:
		return ""
	}
}
