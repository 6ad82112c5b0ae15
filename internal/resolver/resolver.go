// Scope resolver for the module-and-trait checker.
// It resolves every path of a fixture against the symbol table and records
// trait positions for the bound checker.

package resolver

import (
	"github.com/orizon-lang/modcheck/internal/parser"
)

// Resolver performs path resolution over one symbol table.
type Resolver struct {
	table  *SymbolTable
	policy VisibilityPolicy
	errors []*Error

	imports     map[importKey]*importState
	implsByType map[ItemID][]*Impl
	implTraits  map[*Impl]ItemID
	openTypes   map[ItemID]bool
	reported    map[[2]ItemID]bool
}

// New creates a resolver for table under the given visibility policy.
func New(table *SymbolTable, policy VisibilityPolicy) *Resolver {
	return &Resolver{
		table:    table,
		policy:   policy,
		imports:  make(map[importKey]*importState),
		reported: make(map[[2]ItemID]bool),
	}
}

// Table returns the symbol table being resolved.
func (r *Resolver) Table() *SymbolTable { return r.table }

// Policy returns the visibility policy in effect.
func (r *Resolver) Policy() VisibilityPolicy { return r.policy }

// Resolve resolves every path in the fixture and returns all errors found,
// in discovery order. Named types that denote generic parameters are
// rewritten to GenericType nodes.
func (r *Resolver) Resolve() []*Error {
	r.errors = nil
	r.reported = make(map[[2]ItemID]bool)
	r.table.traitRefs = nil
	r.indexImpls()

	r.resolveItems(r.table.root, r.table.file.Items)

	return r.errors
}

// LookupTrait resolves the path of a trait position. A single-segment path
// naming a generic parameter yields NoItem without an error.
func (r *Resolver) LookupTrait(s *Scope, path *parser.Path) (ItemID, *Error) {
	if path.IsSingle() && s.Generic(path.Segments[0].Name.Name) != nil {
		return NoItem, nil
	}
	id, f := r.resolveNames(s, path.Global, path.Names(), TypeNS)
	if f != nil {
		return NoItem, r.toError(path, f)
	}

	return id, nil
}

func (r *Resolver) toError(path *parser.Path, f *failure) *Error {
	if f.candidates != nil {
		return newAmbiguousPath(path.String(), path.Span, f.candidates)
	}

	return newUnresolvedPath(path.String(), path.Span, f.attempted, f.privateTo)
}

// ====== Items ======

func (r *Resolver) resolveItems(container ItemID, items []parser.Item) {
	for _, item := range items {
		r.resolveItem(container, NewScope(container), item)
	}
}

func (r *Resolver) resolveItem(container ItemID, s *Scope, item parser.Item) {
	switch n := item.(type) {
	case *parser.ModDecl:
		if id, ok := r.table.NodeItem(n); ok {
			r.resolveItems(id, n.Items)
		}

	case *parser.FnDecl:
		r.resolveFn(s, n)

	case *parser.TypeAlias:
		as := s.withGenerics(n.Generics)
		r.resolveGenerics(as, n.Generics)
		r.traitBounds(as, n.Bounds, false)
		r.resolveWhere(as, n.Where)
		n.Type = r.resolveType(as, n.Type)

	case *parser.TraitDecl:
		ts := s.withGenerics(n.Generics)
		ts.self = true
		r.resolveGenerics(ts, n.Generics)
		r.traitBounds(ts, n.Supertraits, false)
		r.resolveWhere(ts, n.Where)
		for _, ti := range n.Items {
			r.resolveItem(container, ts, ti)
		}

	case *parser.StructDecl:
		ss := s.withGenerics(n.Generics)
		r.resolveGenerics(ss, n.Generics)
		r.resolveWhere(ss, n.Where)
		r.resolveFields(ss, n.Fields)

	case *parser.EnumDecl:
		es := s.withGenerics(n.Generics)
		r.resolveGenerics(es, n.Generics)
		r.resolveWhere(es, n.Where)
		for _, v := range n.Variants {
			r.resolveFields(es, v.Fields)
			r.resolveExpr(es, v.Discriminant)
		}

	case *parser.ConstDecl:
		n.Type = r.resolveType(s, n.Type)
		r.resolveExpr(s, n.Value)

	case *parser.StaticDecl:
		n.Type = r.resolveType(s, n.Type)
		r.resolveExpr(s, n.Value)

	case *parser.UseDecl:
		r.checkUse(n)

	case *parser.ImplBlock:
		is := s.withGenerics(n.Generics)
		is.self = true
		r.resolveGenerics(is, n.Generics)
		if n.Trait != nil {
			r.traitRef(is, n.Trait, false)
		}
		n.SelfType = r.resolveType(is, n.SelfType)
		r.resolveWhere(is, n.Where)
		for _, ii := range n.Items {
			r.resolveItem(container, is, ii)
		}
	}
}

func (r *Resolver) resolveFn(s *Scope, fn *parser.FnDecl) {
	fs := s.withGenerics(fn.Generics)
	r.resolveGenerics(fs, fn.Generics)
	r.resolveWhere(fs, fn.Where)

	if fn.SelfParam != nil {
		fn.SelfParam.Type = r.resolveType(fs, fn.SelfParam.Type)
	}

	body := fs.child()
	for _, p := range fn.Params {
		p.Type = r.resolveType(fs, p.Type)
		r.bindPattern(body, p.Pattern)
	}
	fn.ReturnType = r.resolveType(fs, fn.ReturnType)

	if fn.Body != nil {
		r.resolveBlock(body, fn.Body)
	}
}

func (r *Resolver) resolveFields(s *Scope, fields []*parser.Field) {
	for _, f := range fields {
		f.Type = r.resolveType(s, f.Type)
	}
}

func (r *Resolver) resolveGenerics(s *Scope, g *parser.Generics) {
	if g == nil {
		return
	}
	for _, param := range g.Params {
		r.traitBounds(s, param.Bounds, false)
		param.Default = r.resolveType(s, param.Default)
		param.Type = r.resolveType(s, param.Type)
	}
}

func (r *Resolver) resolveWhere(s *Scope, preds []*parser.WherePredicate) {
	for _, pred := range preds {
		pred.Type = r.resolveType(s, pred.Type)
		r.traitBounds(s, pred.Bounds, false)
	}
}

// checkUse verifies every leaf of a use declaration and reports imports
// that collide with items or other imports of the same namespace.
func (r *Resolver) checkUse(u *parser.UseDecl) {
	t := r.table
	for _, id := range t.uses[u] {
		it := t.items[id]
		imp := it.Import
		s := NewScope(it.Parent)
		path := &parser.Path{Span: imp.Span, Global: imp.Global}
		for _, name := range imp.Segments {
			path.Segments = append(path.Segments, &parser.PathSegment{Name: &parser.Ident{Span: imp.Span, Name: name}})
		}

		if imp.Glob {
			src, f := r.resolveNames(s, imp.Global, imp.Segments, TypeNS)
			switch {
			case f != nil:
				r.errors = append(r.errors, r.toError(path, f))
			case !t.items[src].IsContainer() && t.items[src].Kind != ItemExtern:
				r.errors = append(r.errors, newUnresolvedPath(imp.Path(), imp.Span, []string{t.Path(src)}, ""))
			}
			continue
		}

		_, typeFail := r.resolveNames(s, imp.Global, imp.Segments, TypeNS)
		_, valueFail := r.resolveNames(s, imp.Global, imp.Segments, ValueNS)
		if typeFail != nil && valueFail != nil {
			f := typeFail
			if valueFail.privateTo != "" || valueFail.candidates != nil {
				f = valueFail
			}
			r.errors = append(r.errors, r.toError(path, f))
			continue
		}

		r.checkImportCollisions(id)
	}
}

func (r *Resolver) checkImportCollisions(id ItemID) {
	t := r.table
	it := t.items[id]
	c := t.items[it.Parent]

	for _, ns := range []Namespace{TypeNS, ValueNS} {
		if _, ok := r.importTarget(id, ns); !ok {
			continue
		}

		first := NoItem
		if local, ok := c.Lookup(it.Name, ns); ok {
			first = local
		} else {
			for _, other := range c.imports[it.Name] {
				if other == id {
					break
				}
				if _, ok := r.importTarget(other, ns); ok {
					first = other
					break
				}
			}
		}
		if first == NoItem || r.reported[[2]ItemID{first, id}] {
			continue
		}
		r.reported[[2]ItemID{first, id}] = true
		r.errors = append(r.errors, newDuplicateSymbol(it.Name, t.Path(it.Parent), t.items[first].Span, it.Span))
	}
}

// ====== Types and Paths ======

// resolveType resolves the paths inside a type and returns the type to
// store back, which differs from t when a generic parameter was named.
func (r *Resolver) resolveType(s *Scope, t parser.TypeRef) parser.TypeRef {
	switch n := t.(type) {
	case nil:
		return nil

	case *parser.NamedType:
		if n.Path.IsSingle() && n.Path.Segments[0].Args == nil {
			param := s.Generic(n.Path.Segments[0].Name.Name)
			if param != nil && param.Kind == parser.GenericTypeParam {
				return &parser.GenericType{Span: n.Span, Param: param}
			}
		}
		r.resolvePath(s, n.Path, TypeNS)

	case *parser.OpaqueType:
		r.traitBounds(s, n.Bounds, true)

	case *parser.DynType:
		r.traitBounds(s, n.Bounds, false)

	case *parser.TupleType:
		for i, elem := range n.Elems {
			n.Elems[i] = r.resolveType(s, elem)
		}

	case *parser.RefType:
		n.Elem = r.resolveType(s, n.Elem)

	case *parser.PointerType:
		n.Elem = r.resolveType(s, n.Elem)

	case *parser.SliceType:
		n.Elem = r.resolveType(s, n.Elem)

	case *parser.ArrayType:
		n.Elem = r.resolveType(s, n.Elem)
		r.resolveExpr(s, n.Len)

	case *parser.FnPointerType:
		for i, param := range n.Params {
			n.Params[i] = r.resolveType(s, param)
		}
		n.ReturnType = r.resolveType(s, n.ReturnType)

	case *parser.QualifiedType:
		n.SelfType = r.resolveType(s, n.SelfType)
		if n.Trait != nil {
			r.traitRef(s, n.Trait, false)
		}
		for _, seg := range n.Rest {
			r.resolveArgs(s, seg.Args)
		}
	}

	return t
}

func (r *Resolver) traitBounds(s *Scope, bounds []*parser.TraitBound, opaque bool) {
	for _, b := range bounds {
		if !b.IsLifetime() {
			r.traitRef(s, b.Path, opaque)
		}
	}
}

// traitRef records a trait position for the bound checker and resolves the
// generic arguments written on the trait path.
func (r *Resolver) traitRef(s *Scope, path *parser.Path, opaque bool) {
	r.table.traitRefs = append(r.table.traitRefs, TraitRef{Path: path, Scope: s, Opaque: opaque})
	for _, seg := range path.Segments {
		r.resolveArgs(s, seg.Args)
	}
}

func (r *Resolver) resolveArgs(s *Scope, a *parser.GenericArgs) {
	if a == nil {
		return
	}
	for i, ty := range a.Types {
		a.Types[i] = r.resolveType(s, ty)
	}
	for _, bind := range a.Bindings {
		bind.Type = r.resolveType(s, bind.Type)
		r.traitBounds(s, bind.Bounds, false)
	}
	for _, c := range a.Consts {
		r.resolveExpr(s, c)
	}
	a.Output = r.resolveType(s, a.Output)
}

// resolvePath resolves a path in ns, reporting failures. Single-segment
// value paths naming a local binding are accepted first.
func (r *Resolver) resolvePath(s *Scope, path *parser.Path, ns Namespace) {
	for _, seg := range path.Segments {
		r.resolveArgs(s, seg.Args)
	}

	if ns == ValueNS && path.IsSingle() {
		name := path.Segments[0].Name.Name
		if name == "self" || s.Local(name) {
			return
		}
	}

	if _, f := r.resolveNames(s, path.Global, path.Names(), ns); f != nil {
		r.errors = append(r.errors, r.toError(path, f))
	}
}

// ====== Expressions ======

func (r *Resolver) resolveBlock(s *Scope, b *parser.BlockExpr) {
	bs := s.child()
	if id, ok := r.table.BlockItem(b); ok {
		bs.module = id
	}

	for _, stmt := range b.Stmts {
		switch n := stmt.(type) {
		case *parser.LetStmt:
			n.Type = r.resolveType(bs, n.Type)
			r.resolveExpr(bs, n.Value)
			if n.Else != nil {
				r.resolveBlock(bs, n.Else)
			}
			r.bindPattern(bs, n.Pattern)
		case *parser.ExprStmt:
			r.resolveExpr(bs, n.X)
		case *parser.ItemStmt:
			r.resolveItem(bs.module, NewScope(bs.module), n.Item)
		}
	}

	r.resolveExpr(bs, b.Tail)
}

func (r *Resolver) resolveExprs(s *Scope, exprs []parser.Expr) {
	for _, e := range exprs {
		r.resolveExpr(s, e)
	}
}

func (r *Resolver) resolveExpr(s *Scope, e parser.Expr) {
	switch n := e.(type) {
	case nil:

	case *parser.PathExpr:
		r.resolvePath(s, n.Path, ValueNS)

	case *parser.QualifiedPathExpr:
		r.resolveType(s, n.Type)

	case *parser.CallExpr:
		r.resolveExpr(s, n.Func)
		r.resolveExprs(s, n.Args)

	case *parser.MethodCallExpr:
		r.resolveExpr(s, n.Receiver)
		r.resolveArgs(s, n.Args)
		r.resolveExprs(s, n.CallArgs)

	case *parser.FieldExpr:
		r.resolveExpr(s, n.Receiver)

	case *parser.IndexExpr:
		r.resolveExpr(s, n.X)
		r.resolveExpr(s, n.Index)

	case *parser.UnaryExpr:
		r.resolveExpr(s, n.X)

	case *parser.BinaryExpr:
		r.resolveExpr(s, n.Left)
		r.resolveExpr(s, n.Right)

	case *parser.CastExpr:
		r.resolveExpr(s, n.X)
		n.Type = r.resolveType(s, n.Type)

	case *parser.TryExpr:
		r.resolveExpr(s, n.X)

	case *parser.RangeExpr:
		r.resolveExpr(s, n.Lo)
		r.resolveExpr(s, n.Hi)

	case *parser.TupleExpr:
		r.resolveExprs(s, n.Elems)

	case *parser.ParenExpr:
		r.resolveExpr(s, n.X)

	case *parser.ArrayExpr:
		r.resolveExprs(s, n.Elems)
		r.resolveExpr(s, n.Repeat)

	case *parser.BlockExpr:
		if n != nil {
			r.resolveBlock(s, n)
		}

	case *parser.IfExpr:
		// `if let` bindings are visible in the then-branch only.
		cs := s.child()
		r.resolveExpr(cs, n.Cond)
		r.resolveBlock(cs, n.Then)
		r.resolveExpr(s, n.Else)

	case *parser.LetExpr:
		r.resolveExpr(s, n.Value)
		r.bindPattern(s, n.Pattern)

	case *parser.WhileExpr:
		cs := s.child()
		r.resolveExpr(cs, n.Cond)
		r.resolveBlock(cs, n.Body)

	case *parser.LoopExpr:
		r.resolveBlock(s, n.Body)

	case *parser.ForExpr:
		r.resolveExpr(s, n.Iter)
		fs := s.child()
		r.bindPattern(fs, n.Pattern)
		r.resolveBlock(fs, n.Body)

	case *parser.MatchExpr:
		r.resolveExpr(s, n.Scrutinee)
		for _, arm := range n.Arms {
			as := s.child()
			r.bindPattern(as, arm.Pattern)
			r.resolveExpr(as, arm.Guard)
			r.resolveExpr(as, arm.Body)
		}

	case *parser.ReturnExpr:
		r.resolveExpr(s, n.Value)

	case *parser.BreakExpr:
		r.resolveExpr(s, n.Value)

	case *parser.StructExpr:
		r.resolvePath(s, n.Path, TypeNS)
		for _, field := range n.Fields {
			if field.Value != nil {
				r.resolveExpr(s, field.Value)
				continue
			}
			r.resolvePath(s, &parser.Path{
				Span:     field.Name.Span,
				Segments: []*parser.PathSegment{{Name: field.Name}},
			}, ValueNS)
		}
		r.resolveExpr(s, n.Base)

	case *parser.ClosureExpr:
		cs := s.child()
		for _, p := range n.Params {
			p.Type = r.resolveType(s, p.Type)
			r.bindPattern(cs, p.Pattern)
		}
		n.ReturnType = r.resolveType(s, n.ReturnType)
		r.resolveExpr(cs, n.Body)
	}
}

// ====== Patterns ======

// bindPattern resolves the paths of a pattern and declares its bindings
// in s.
func (r *Resolver) bindPattern(s *Scope, p parser.Pattern) {
	switch n := p.(type) {
	case *parser.IdentPattern:
		if n.Sub == nil && !n.Ref && !n.Mut && r.isPathPattern(s, n.Name.Name) {
			return
		}
		s.Declare(n.Name.Name)
		r.bindPattern(s, n.Sub)

	case *parser.PathPattern:
		r.resolvePath(s, n.Path, ValueNS)

	case *parser.TupleStructPattern:
		r.resolvePath(s, n.Path, ValueNS)
		for _, elem := range n.Elems {
			r.bindPattern(s, elem)
		}

	case *parser.StructPattern:
		r.resolvePath(s, n.Path, TypeNS)
		for _, field := range n.Fields {
			r.bindPattern(s, field.Pattern)
		}

	case *parser.TuplePattern:
		for _, elem := range n.Elems {
			r.bindPattern(s, elem)
		}

	case *parser.SlicePattern:
		for _, elem := range n.Elems {
			r.bindPattern(s, elem)
		}

	case *parser.RefPattern:
		r.bindPattern(s, n.Pattern)

	case *parser.RangePattern:
		r.resolveExpr(s, n.Lo)
		r.resolveExpr(s, n.Hi)

	case *parser.OrPattern:
		for _, alt := range n.Alts {
			r.bindPattern(s, alt)
		}
	}
}

// isPathPattern reports whether a bare identifier in a pattern names a
// constant, a unit variant or a unit struct rather than a new binding.
func (r *Resolver) isPathPattern(s *Scope, name string) bool {
	b, f := r.lookupLexical(s, name, ValueNS)
	if f != nil {
		return false
	}

	it := r.table.items[b.target]
	switch it.Kind {
	case ItemConst, ItemStatic:
		return true
	case ItemVariant:
		v, ok := it.Node.(*parser.Variant)
		return !ok || v.Kind == parser.StructUnit
	case ItemStruct:
		d, ok := it.Node.(*parser.StructDecl)
		return ok && d.Kind == parser.StructUnit
	}

	return false
}
