package parser

import (
	"fmt"

	"github.com/orizon-lang/modcheck/internal/position"
)

// ====== Module Structure ======

// ModDecl represents `mod name { ... }` or the out-of-line `mod name;`
type ModDecl struct {
	Span  position.Span
	Attrs []*Attribute
	Vis   Visibility
	Name  *Ident
	Items []Item

	// Inline is false for `mod name;`. The driver loads the body from disk
	// and sets Items and File.
	Inline bool
	File   string
}

func (m *ModDecl) GetSpan() position.Span { return m.Span }
func (m *ModDecl) String() string         { return fmt.Sprintf("mod %s", m.Name.Name) }
func (m *ModDecl) itemNode()              {}

// ====== Declarations ======

// FnQualifiers holds the qualifiers written before `fn`
type FnQualifiers struct {
	Const  bool
	Async  bool
	Unsafe bool
	Extern bool
	ABI    string
}

// FnDecl represents a function declaration, free or associated
type FnDecl struct {
	Span       position.Span
	Attrs      []*Attribute
	Vis        Visibility
	Qualifiers FnQualifiers
	Name       *Ident
	Generics   *Generics
	SelfParam  *SelfParam
	Params     []*Param
	ReturnType TypeRef // nil for the unit return
	Where      []*WherePredicate
	Body       *BlockExpr // nil when declared with `;`
}

func (f *FnDecl) GetSpan() position.Span { return f.Span }
func (f *FnDecl) String() string         { return fmt.Sprintf("fn %s", f.Name.Name) }
func (f *FnDecl) itemNode()              {}

// SelfParam is a method receiver: self, mut self, &self, &'a mut self, self: T
type SelfParam struct {
	Span     position.Span
	Ref      bool
	Mut      bool
	Lifetime string
	Type     TypeRef
}

// Param represents a function parameter
type Param struct {
	Span    position.Span
	Attrs   []*Attribute
	Pattern Pattern
	Type    TypeRef
}

// TypeAlias represents `type Name<T> = Type;` or an associated type in a
// trait (`type Item: Bound;`) where Type may be nil
type TypeAlias struct {
	Span     position.Span
	Attrs    []*Attribute
	Vis      Visibility
	Name     *Ident
	Generics *Generics
	Bounds   []*TraitBound
	Where    []*WherePredicate
	Type     TypeRef
}

func (t *TypeAlias) GetSpan() position.Span { return t.Span }
func (t *TypeAlias) String() string         { return fmt.Sprintf("type %s", t.Name.Name) }
func (t *TypeAlias) itemNode()              {}

// TraitDecl represents a trait declaration; Items holds required and
// provided methods, associated types and consts
type TraitDecl struct {
	Span        position.Span
	Attrs       []*Attribute
	Vis         Visibility
	Unsafe      bool
	Name        *Ident
	Generics    *Generics
	Supertraits []*TraitBound
	Where       []*WherePredicate
	Items       []Item
}

func (t *TraitDecl) GetSpan() position.Span { return t.Span }
func (t *TraitDecl) String() string         { return fmt.Sprintf("trait %s", t.Name.Name) }
func (t *TraitDecl) itemNode()              {}

// StructKind tells apart the three struct shapes
type StructKind int

const (
	StructUnit StructKind = iota
	StructTuple
	StructNamed
)

// StructDecl represents a struct declaration
type StructDecl struct {
	Span     position.Span
	Attrs    []*Attribute
	Vis      Visibility
	Name     *Ident
	Generics *Generics
	Where    []*WherePredicate
	Kind     StructKind
	Fields   []*Field
}

func (s *StructDecl) GetSpan() position.Span { return s.Span }
func (s *StructDecl) String() string         { return fmt.Sprintf("struct %s", s.Name.Name) }
func (s *StructDecl) itemNode()              {}

// Field is a named or positional struct/variant field
type Field struct {
	Span  position.Span
	Attrs []*Attribute
	Vis   Visibility
	Name  *Ident // nil for tuple fields
	Type  TypeRef
}

// EnumDecl represents an enum declaration
type EnumDecl struct {
	Span     position.Span
	Attrs    []*Attribute
	Vis      Visibility
	Name     *Ident
	Generics *Generics
	Where    []*WherePredicate
	Variants []*Variant
}

func (e *EnumDecl) GetSpan() position.Span { return e.Span }
func (e *EnumDecl) String() string         { return fmt.Sprintf("enum %s", e.Name.Name) }
func (e *EnumDecl) itemNode()              {}

// Variant is a single enum variant
type Variant struct {
	Span         position.Span
	Attrs        []*Attribute
	Name         *Ident
	Kind         StructKind
	Fields       []*Field
	Discriminant Expr
}

func (v *Variant) GetSpan() position.Span { return v.Span }

// ConstDecl represents `const NAME: T = expr;` (Value may be nil inside traits)
type ConstDecl struct {
	Span  position.Span
	Attrs []*Attribute
	Vis   Visibility
	Name  *Ident
	Type  TypeRef
	Value Expr
}

func (c *ConstDecl) GetSpan() position.Span { return c.Span }
func (c *ConstDecl) String() string         { return fmt.Sprintf("const %s", c.Name.Name) }
func (c *ConstDecl) itemNode()              {}

// StaticDecl represents `static [mut] NAME: T = expr;`
type StaticDecl struct {
	Span  position.Span
	Attrs []*Attribute
	Vis   Visibility
	Mut   bool
	Name  *Ident
	Type  TypeRef
	Value Expr
}

func (s *StaticDecl) GetSpan() position.Span { return s.Span }
func (s *StaticDecl) String() string         { return fmt.Sprintf("static %s", s.Name.Name) }
func (s *StaticDecl) itemNode()              {}

// UseDecl represents a `use` declaration
type UseDecl struct {
	Span  position.Span
	Attrs []*Attribute
	Vis   Visibility
	Tree  *UseTree
}

func (u *UseDecl) GetSpan() position.Span { return u.Span }
func (u *UseDecl) String() string         { return "use " + u.Tree.String() }
func (u *UseDecl) itemNode()              {}

// UseTreeKind classifies use trees
type UseTreeKind int

const (
	UseSimple UseTreeKind = iota // a::b [as c]
	UseGlob                      // a::*
	UseGroup                     // a::{b, c}
)

// UseTree is one node of a (possibly nested) use declaration. Prefix is
// relative to the enclosing tree's prefix.
type UseTree struct {
	Span     position.Span
	Kind     UseTreeKind
	Prefix   *Path // may have zero segments for `{a, b}` and `*`
	Alias    *Ident
	Children []*UseTree
}

func (u *UseTree) GetSpan() position.Span { return u.Span }

func (u *UseTree) String() string {
	prefix := u.Prefix.String()
	join := func(s string) string {
		if prefix == "" || prefix == "::" {
			return prefix + s
		}
		return prefix + "::" + s
	}
	switch u.Kind {
	case UseGlob:
		return join("*")
	case UseGroup:
		s := "{"
		for i, c := range u.Children {
			if i > 0 {
				s += ", "
			}
			s += c.String()
		}
		return join(s + "}")
	default:
		if u.Alias != nil {
			return prefix + " as " + u.Alias.Name
		}
		return prefix
	}
}

// ImplBlock represents `impl<T> Type { ... }` or `impl<T> Trait for Type { ... }`
type ImplBlock struct {
	Span     position.Span
	Attrs    []*Attribute
	Unsafe   bool
	Generics *Generics
	Negative bool // impl !Trait for Type
	Trait    *Path
	SelfType TypeRef
	Where    []*WherePredicate
	Items    []Item
}

func (i *ImplBlock) GetSpan() position.Span { return i.Span }
func (i *ImplBlock) String() string {
	if i.Trait != nil {
		return fmt.Sprintf("impl %s for %s", i.Trait, i.SelfType)
	}
	return fmt.Sprintf("impl %s", i.SelfType)
}
func (i *ImplBlock) itemNode() {}

// MacroItem is an item-level macro invocation such as `macro_rules! m { ... }`;
// its token tree is not interpreted
type MacroItem struct {
	Span  position.Span
	Attrs []*Attribute
	Path  *Path
	Name  *Ident // the identifier after `!`, if any
}

func (m *MacroItem) GetSpan() position.Span { return m.Span }
func (m *MacroItem) itemNode()              {}
