package resolver

import (
	"github.com/orizon-lang/modcheck/internal/parser"
)

// binding is a name found in a container: item is the declaration or
// import through which it was found, target the item it finally denotes.
type binding struct {
	item   ItemID
	target ItemID
}

// failure describes why a path did not resolve.
type failure struct {
	attempted  []string
	candidates []string
	privateTo  string
}

type importKey struct {
	id ItemID
	ns Namespace
}

type importState struct {
	target   ItemID
	ok       bool
	resolved bool
}

// resolveNames walks a path given as segment names. The last segment is
// looked up in ns, earlier segments in the type namespace.
func (r *Resolver) resolveNames(s *Scope, global bool, names []string, ns Namespace) (ItemID, *failure) {
	t := r.table
	if len(names) == 0 {
		return NoItem, &failure{}
	}

	from := s.module
	cur := NoItem
	i := 0

	switch {
	case global:
		id, ok := t.prelude[TypeNS][names[0]]
		if !ok || t.items[id].Kind != ItemExtern {
			return NoItem, &failure{attempted: []string{"extern crates"}}
		}
		cur, i = id, 1

	case names[0] == "crate":
		cur, i = t.root, 1

	case names[0] == "self" && len(names) > 1:
		cur, i = t.ModuleOf(from), 1

	case names[0] == "super":
		cur = t.ModuleOf(from)
		for ; i < len(names) && names[i] == "super"; i++ {
			if cur == t.root {
				return NoItem, &failure{attempted: []string{"crate"}}
			}
			cur = t.ModuleOf(t.items[cur].Parent)
		}

	case names[0] == "Self" && s.self:
		return t.opaque, nil

	case s.Generic(names[0]) != nil:
		return t.opaque, nil

	default:
		firstNS := TypeNS
		if len(names) == 1 {
			firstNS = ns
		}
		b, f := r.lookupLexical(s, names[0], firstNS)
		if f != nil {
			return NoItem, f
		}
		cur, i = b.target, 1
	}

	for ; i < len(names); i++ {
		segNS := TypeNS
		if i == len(names)-1 {
			segNS = ns
		}
		next, f := r.lookupMember(from, cur, names[i], segNS)
		if f != nil {
			return NoItem, f
		}
		cur = next
	}

	return cur, nil
}

// lookupLexical finds the first segment of a path: the items of the
// enclosing blocks up to and including the module, then the prelude.
func (r *Resolver) lookupLexical(s *Scope, name string, ns Namespace) (binding, *failure) {
	t := r.table
	var attempted []string

	for m := s.module; m != NoItem; m = t.items[m].Parent {
		b, found, candidates := r.lookupIn(m, name, ns, make(map[ItemID]bool))
		if found {
			return b, nil
		}
		if candidates != nil {
			return binding{}, &failure{candidates: candidates}
		}
		attempted = append(attempted, t.Path(m))
		if t.items[m].Kind == ItemModule {
			break
		}
	}

	if id, ok := t.prelude[ns][name]; ok {
		return binding{item: id, target: id}, nil
	}

	return binding{}, &failure{attempted: append(attempted, "prelude")}
}

// lookupIn finds name among the items, explicit imports and glob imports
// of a module or block. Items and explicit imports shadow globs. A non-nil
// candidates result reports an ambiguity between globs.
func (r *Resolver) lookupIn(container ItemID, name string, ns Namespace,
	visited map[ItemID]bool) (binding, bool, []string) {
	t := r.table
	c := t.items[container]

	if id, ok := c.Lookup(name, ns); ok {
		return binding{item: id, target: id}, true, nil
	}
	for _, imp := range c.imports[name] {
		if target, ok := r.importTarget(imp, ns); ok {
			return binding{item: imp, target: target}, true, nil
		}
	}

	if visited[container] {
		return binding{}, false, nil
	}
	visited[container] = true

	var (
		found      []binding
		externGlob = NoItem
	)
	for _, glob := range c.globs {
		src, ok := r.importTarget(glob, TypeNS)
		if !ok {
			continue
		}
		if t.items[src].Kind == ItemExtern {
			externGlob = glob
			continue
		}
		if !t.items[src].IsContainer() {
			continue
		}
		b, ok, candidates := r.lookupIn(src, name, ns, visited)
		if candidates != nil {
			return binding{}, false, candidates
		}
		if !ok || !t.IsVisible(b.item, container, r.policy) {
			continue
		}
		if !containsTarget(found, b.target) {
			found = append(found, binding{item: glob, target: b.target})
		}
	}

	switch {
	case len(found) == 1:
		return found[0], true, nil
	case len(found) > 1:
		candidates := make([]string, len(found))
		for i, b := range found {
			candidates[i] = t.Path(b.target)
		}
		return binding{}, false, candidates
	case externGlob != NoItem:
		return binding{item: externGlob, target: t.opaque}, true, nil
	}

	return binding{}, false, nil
}

func containsTarget(bindings []binding, target ItemID) bool {
	for _, b := range bindings {
		if b.target == target {
			return true
		}
	}

	return false
}

// lookupMember resolves a later path segment relative to cur with a
// visibility check from the referencing container.
func (r *Resolver) lookupMember(from, cur ItemID, name string, ns Namespace) (ItemID, *failure) {
	t := r.table
	it := t.items[cur]

	switch {
	case it.Kind == ItemExtern:
		return t.opaque, nil

	case it.Prelude && (it.Kind == ItemStruct || it.Kind == ItemTrait):
		return t.opaque, nil

	case it.Kind == ItemModule:
		b, found, candidates := r.lookupIn(cur, name, ns, make(map[ItemID]bool))
		if candidates != nil {
			return NoItem, &failure{candidates: candidates}
		}
		if !found {
			return NoItem, &failure{attempted: []string{t.Path(cur)}}
		}
		if !t.IsVisible(b.item, from, r.policy) {
			return NoItem, &failure{
				attempted: []string{t.Path(cur)},
				privateTo: t.Path(t.items[b.item].Scope),
			}
		}
		return b.target, nil

	case it.Kind == ItemTypeAlias:
		return t.opaque, nil

	case it.Kind == ItemEnum || it.Kind == ItemStruct || it.Kind == ItemTrait:
		return r.lookupAssoc(from, cur, name)
	}

	return NoItem, &failure{attempted: []string{t.Path(cur)}}
}

// lookupAssoc resolves an associated item of a local type: enum variants,
// trait items, then items of impl blocks for the type and provided methods
// of the local traits it implements.
func (r *Resolver) lookupAssoc(from, ty ItemID, name string) (ItemID, *failure) {
	t := r.table
	it := t.items[ty]
	attempted := []string{t.Path(ty)}

	private := func(id ItemID) (ItemID, *failure) {
		if t.IsVisible(id, from, r.policy) {
			return id, nil
		}
		return NoItem, &failure{attempted: attempted, privateTo: t.Path(t.items[id].Scope)}
	}

	if it.IsContainer() {
		for _, ns := range []Namespace{TypeNS, ValueNS} {
			if id, ok := it.Lookup(name, ns); ok {
				return private(id)
			}
		}
	}

	r.indexImpls()
	for _, impl := range r.implsByType[ty] {
		for _, id := range impl.Items {
			if t.items[id].Name == name {
				return private(id)
			}
		}
	}
	for _, impl := range r.implsByType[ty] {
		trait, ok := r.implTraits[impl]
		if !ok {
			continue
		}
		for _, ns := range []Namespace{TypeNS, ValueNS} {
			if id, ok := t.items[trait].Lookup(name, ns); ok {
				return id, nil
			}
		}
	}

	if r.openTypes[ty] {
		return t.opaque, nil
	}

	return NoItem, &failure{attempted: attempted}
}

// importTarget resolves an import in one namespace. Results are memoized;
// an import reached again while it is being resolved does not resolve,
// which breaks import cycles.
func (r *Resolver) importTarget(id ItemID, ns Namespace) (ItemID, bool) {
	key := importKey{id: id, ns: ns}
	if st, ok := r.imports[key]; ok {
		return st.target, st.ok && st.resolved
	}
	r.imports[key] = &importState{}

	it := r.table.items[id]
	target, f := r.resolveNames(NewScope(it.Parent), it.Import.Global, it.Import.Segments, ns)
	r.imports[key] = &importState{target: target, ok: f == nil, resolved: true}

	return target, f == nil
}

// indexImpls maps local types to their impl blocks. Types with a derive
// attribute or an impl of an external trait accept any associated name.
func (r *Resolver) indexImpls() {
	if r.implsByType != nil {
		return
	}
	t := r.table
	r.implsByType = make(map[ItemID][]*Impl)
	r.implTraits = make(map[*Impl]ItemID)
	r.openTypes = make(map[ItemID]bool)

	for _, it := range t.items {
		var attrs []*parser.Attribute
		switch n := it.Node.(type) {
		case *parser.StructDecl:
			attrs = n.Attrs
		case *parser.EnumDecl:
			attrs = n.Attrs
		}
		for _, a := range attrs {
			if a.Name == "derive" {
				r.openTypes[it.ID] = true
			}
		}
	}

	for _, impl := range t.impls {
		s := NewScope(impl.Module).withGenerics(impl.Node.Generics)
		s.self = true

		named, ok := impl.Node.SelfType.(*parser.NamedType)
		if !ok {
			continue
		}
		ty, f := r.resolveNames(s, named.Path.Global, named.Path.Names(), TypeNS)
		if f != nil || t.items[ty].Prelude {
			continue
		}
		r.implsByType[ty] = append(r.implsByType[ty], impl)

		if impl.Node.Trait == nil {
			continue
		}
		trait, f := r.resolveNames(s, impl.Node.Trait.Global, impl.Node.Trait.Names(), TypeNS)
		switch {
		case f != nil:
		case t.items[trait].Kind == ItemTrait && !t.items[trait].Prelude:
			r.implTraits[impl] = trait
		default:
			r.openTypes[ty] = true
		}
	}
}
