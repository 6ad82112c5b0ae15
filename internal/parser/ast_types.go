package parser

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/modcheck/internal/position"
)

// ====== Type References ======

// NamedType is a path type such as `f64`, `Vec<T>` or `math::Complex`
type NamedType struct {
	Span position.Span
	Path *Path
}

func (t *NamedType) GetSpan() position.Span { return t.Span }
func (t *NamedType) String() string         { return renderPath(t.Path) }
func (t *NamedType) typeNode()              {}

// GenericType is a use of an in-scope generic parameter. The parser never
// produces it; the resolver rewrites matching NamedTypes.
type GenericType struct {
	Span  position.Span
	Param *GenericParam
}

func (t *GenericType) GetSpan() position.Span { return t.Span }
func (t *GenericType) String() string         { return t.Param.Name.Name }
func (t *GenericType) typeNode()              {}

// OpaqueType is `impl Trait + ...`
type OpaqueType struct {
	Span   position.Span
	Bounds []*TraitBound
}

func (t *OpaqueType) GetSpan() position.Span { return t.Span }
func (t *OpaqueType) String() string         { return "impl " + renderBounds(t.Bounds) }
func (t *OpaqueType) typeNode()              {}

// DynType is `dyn Trait + ...`
type DynType struct {
	Span   position.Span
	Bounds []*TraitBound
}

func (t *DynType) GetSpan() position.Span { return t.Span }
func (t *DynType) String() string         { return "dyn " + renderBounds(t.Bounds) }
func (t *DynType) typeNode()              {}

// TupleType is `(A, B)`; the unit type has no elements
type TupleType struct {
	Span  position.Span
	Elems []TypeRef
}

func (t *TupleType) GetSpan() position.Span { return t.Span }
func (t *TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *TupleType) typeNode() {}

// RefType is `&'a mut T`
type RefType struct {
	Span     position.Span
	Lifetime string
	Mut      bool
	Elem     TypeRef
}

func (t *RefType) GetSpan() position.Span { return t.Span }
func (t *RefType) String() string {
	s := "&"
	if t.Lifetime != "" {
		s += t.Lifetime + " "
	}
	if t.Mut {
		s += "mut "
	}
	return s + t.Elem.String()
}
func (t *RefType) typeNode() {}

// PointerType is `*const T` or `*mut T`
type PointerType struct {
	Span position.Span
	Mut  bool
	Elem TypeRef
}

func (t *PointerType) GetSpan() position.Span { return t.Span }
func (t *PointerType) String() string {
	if t.Mut {
		return "*mut " + t.Elem.String()
	}
	return "*const " + t.Elem.String()
}
func (t *PointerType) typeNode() {}

// SliceType is `[T]`
type SliceType struct {
	Span position.Span
	Elem TypeRef
}

func (t *SliceType) GetSpan() position.Span { return t.Span }
func (t *SliceType) String() string         { return "[" + t.Elem.String() + "]" }
func (t *SliceType) typeNode()              {}

// ArrayType is `[T; N]`
type ArrayType struct {
	Span position.Span
	Elem TypeRef
	Len  Expr
}

func (t *ArrayType) GetSpan() position.Span { return t.Span }
func (t *ArrayType) String() string         { return "[" + t.Elem.String() + "; _]" }
func (t *ArrayType) typeNode()              {}

// NeverType is `!`
type NeverType struct {
	Span position.Span
}

func (t *NeverType) GetSpan() position.Span { return t.Span }
func (t *NeverType) String() string         { return "!" }
func (t *NeverType) typeNode()              {}

// InferType is `_`
type InferType struct {
	Span position.Span
}

func (t *InferType) GetSpan() position.Span { return t.Span }
func (t *InferType) String() string         { return "_" }
func (t *InferType) typeNode()              {}

// SelfType is `Self` inside a trait or impl
type SelfType struct {
	Span position.Span
}

func (t *SelfType) GetSpan() position.Span { return t.Span }
func (t *SelfType) String() string         { return "Self" }
func (t *SelfType) typeNode()              {}

// FnPointerType is `fn(A, B) -> C`
type FnPointerType struct {
	Span       position.Span
	Params     []TypeRef
	ReturnType TypeRef
}

func (t *FnPointerType) GetSpan() position.Span { return t.Span }
func (t *FnPointerType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	s := "fn(" + strings.Join(parts, ", ") + ")"
	if t.ReturnType != nil {
		s += " -> " + t.ReturnType.String()
	}
	return s
}
func (t *FnPointerType) typeNode() {}

// QualifiedType is `<T as Trait>::Name` (Trait may be nil for `<T>::Name`)
type QualifiedType struct {
	Span     position.Span
	SelfType TypeRef
	Trait    *Path
	Rest     []*PathSegment
}

func (t *QualifiedType) GetSpan() position.Span { return t.Span }
func (t *QualifiedType) String() string {
	s := "<" + t.SelfType.String()
	if t.Trait != nil {
		s += " as " + renderPath(t.Trait)
	}
	s += ">"
	for _, seg := range t.Rest {
		s += "::" + seg.Name.Name
	}
	return s
}
func (t *QualifiedType) typeNode() {}

// ====== Generics and Bounds ======

// GenericParamKind classifies generic parameters
type GenericParamKind int

const (
	GenericTypeParam GenericParamKind = iota
	GenericLifetimeParam
	GenericConstParam
)

// Generics is a `<...>` parameter list
type Generics struct {
	Span   position.Span
	Params []*GenericParam
}

// GenericParam is a single generic parameter with its inline bounds
type GenericParam struct {
	Span    position.Span
	Kind    GenericParamKind
	Name    *Ident
	Bounds  []*TraitBound
	Default TypeRef
	Type    TypeRef // const parameters only
}

func (g *GenericParam) GetSpan() position.Span { return g.Span }

// TraitBound is a single bound: a trait path (possibly `?Sized`) or a lifetime
type TraitBound struct {
	Span     position.Span
	Path     *Path
	Maybe    bool   // ?Trait
	Lifetime string // set for lifetime bounds; Path is nil
}

func (b *TraitBound) GetSpan() position.Span { return b.Span }

// IsLifetime reports whether the bound is a lifetime rather than a trait
func (b *TraitBound) IsLifetime() bool { return b.Path == nil }

func (b *TraitBound) String() string {
	if b.IsLifetime() {
		return b.Lifetime
	}
	if b.Maybe {
		return "?" + renderPath(b.Path)
	}
	return renderPath(b.Path)
}

// WherePredicate is one `Type: Bounds` or `'a: 'b` entry of a where clause
type WherePredicate struct {
	Span     position.Span
	Type     TypeRef
	Lifetime string
	Bounds   []*TraitBound
}

func (w *WherePredicate) GetSpan() position.Span { return w.Span }

func renderBounds(bounds []*TraitBound) string {
	parts := make([]string, len(bounds))
	for i, b := range bounds {
		parts[i] = b.String()
	}
	return strings.Join(parts, " + ")
}

// renderPath renders a path with its generic arguments
func renderPath(p *Path) string {
	var b strings.Builder
	if p.Global {
		b.WriteString("::")
	}
	for i, seg := range p.Segments {
		if i > 0 {
			b.WriteString("::")
		}
		b.WriteString(seg.Name.Name)
		if seg.Args != nil {
			b.WriteString(renderArgs(seg.Args))
		}
	}
	return b.String()
}

func renderArgs(a *GenericArgs) string {
	var parts []string
	for _, t := range a.Types {
		parts = append(parts, t.String())
	}
	if a.Parenthesized {
		s := "(" + strings.Join(parts, ", ") + ")"
		if a.Output != nil {
			s += " -> " + a.Output.String()
		}
		return s
	}
	parts = append(append([]string{}, a.Lifetimes...), parts...)
	for range a.Consts {
		parts = append(parts, "{const}")
	}
	for _, bind := range a.Bindings {
		if bind.Type != nil {
			parts = append(parts, fmt.Sprintf("%s = %s", bind.Name.Name, bind.Type))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", bind.Name.Name, renderBounds(bind.Bounds)))
		}
	}
	return "<" + strings.Join(parts, ", ") + ">"
}
