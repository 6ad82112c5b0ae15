package resolver

import (
	"fmt"

	"github.com/orizon-lang/modcheck/internal/diagnostic"
	"github.com/orizon-lang/modcheck/internal/parser"
	"github.com/orizon-lang/modcheck/internal/position"
)

// BuildOption configures BuildSymbolTable.
type BuildOption func(*buildConfig)

type buildConfig struct {
	prelude *Prelude
}

// WithPrelude replaces the default prelude.
func WithPrelude(p *Prelude) BuildOption {
	return func(c *buildConfig) {
		if p != nil {
			c.prelude = p
		}
	}
}

type builder struct {
	table    *SymbolTable
	errors   []*Error
	reported map[[2]ItemID]bool
}

// BuildSymbolTable registers every item of file under its declaring module.
// On any DuplicateSymbol or malformed visibility restriction it returns all
// errors and no table.
func BuildSymbolTable(file *parser.File, opts ...BuildOption) (*SymbolTable, []*Error) {
	cfg := buildConfig{prelude: DefaultPrelude()}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &builder{
		table: &SymbolTable{
			file:   file,
			nodes:  make(map[parser.Node]ItemID),
			blocks: make(map[*parser.BlockExpr]ItemID),
			uses:   make(map[*parser.UseDecl][]ItemID),
		},
		reported: make(map[[2]ItemID]bool),
	}

	b.table.root = b.newItem(ItemModule, "crate", file.Span, NoItem, file)
	b.table.items[b.table.root].Scope = NoItem
	b.table.opaque = b.newPreludeItem(ItemExtern, "{extern}")
	b.installPrelude(cfg.prelude)

	b.declareItems(b.table.root, file.Items)

	if len(b.errors) > 0 {
		return nil, b.errors
	}

	return b.table, nil
}

func (b *builder) newItem(kind ItemKind, name string, span position.Span, parent ItemID, node parser.Node) ItemID {
	id := ItemID(len(b.table.items))
	it := &Item{ID: id, Kind: kind, Name: name, Span: span, Parent: parent, Scope: parent, Node: node}
	if it.IsContainer() {
		it.names[TypeNS] = make(map[string]ItemID)
		it.names[ValueNS] = make(map[string]ItemID)
	}
	if kind == ItemModule || kind == ItemBlock {
		it.imports = make(map[string][]ItemID)
	}
	b.table.items = append(b.table.items, it)
	if node != nil {
		b.table.nodes[node] = id
	}

	return id
}

func (b *builder) newPreludeItem(kind ItemKind, name string) ItemID {
	id := b.newItem(kind, name, position.Span{}, NoItem, nil)
	it := b.table.items[id]
	it.Prelude = true
	it.Scope = NoItem
	it.Vis = parser.Visibility{Kind: parser.VisPublic}

	return id
}

// attach makes id a child of parent and registers it in the given
// namespaces, reporting collisions.
func (b *builder) attach(parent, id ItemID, namespaces ...Namespace) {
	p := b.table.items[parent]
	it := b.table.items[id]
	p.Children = append(p.Children, id)
	if it.Name == "_" {
		return
	}

	for _, ns := range namespaces {
		prev, ok := p.names[ns][it.Name]
		if !ok {
			p.names[ns][it.Name] = id
			continue
		}
		key := [2]ItemID{prev, id}
		if b.reported[key] {
			continue
		}
		b.reported[key] = true
		b.errors = append(b.errors, newDuplicateSymbol(it.Name, b.table.Path(parent),
			b.table.items[prev].Span, it.Span))
	}
}

// declare creates an item for a named declaration and attaches it.
func (b *builder) declare(container ItemID, kind ItemKind, node parser.Node, name *parser.Ident,
	vis parser.Visibility, namespaces ...Namespace) ItemID {
	id := b.newItem(kind, name.Name, node.GetSpan(), container, node)
	it := b.table.items[id]
	it.Vis = vis
	it.Scope = b.visibilityScope(container, vis)
	b.attach(container, id, namespaces...)

	return id
}

func (b *builder) declareItems(container ItemID, items []parser.Item) {
	for _, item := range items {
		switch n := item.(type) {
		case *parser.ModDecl:
			id := b.declare(container, ItemModule, n, n.Name, n.Vis, TypeNS)
			b.declareItems(id, n.Items)

		case *parser.FnDecl:
			b.declare(container, ItemFunction, n, n.Name, n.Vis, ValueNS)
			if n.Body != nil {
				b.collectBlocks(container, n.Body)
			}

		case *parser.TypeAlias:
			b.declare(container, ItemTypeAlias, n, n.Name, n.Vis, TypeNS)

		case *parser.TraitDecl:
			id := b.declare(container, ItemTrait, n, n.Name, n.Vis, TypeNS)
			b.declareTraitItems(container, id, n.Items)

		case *parser.StructDecl:
			if n.Kind == parser.StructNamed {
				b.declare(container, ItemStruct, n, n.Name, n.Vis, TypeNS)
			} else {
				b.declare(container, ItemStruct, n, n.Name, n.Vis, TypeNS, ValueNS)
			}

		case *parser.EnumDecl:
			id := b.declare(container, ItemEnum, n, n.Name, n.Vis, TypeNS)
			scope := b.table.items[id].Scope
			for _, v := range n.Variants {
				vid := b.newItem(ItemVariant, v.Name.Name, v.Span, id, v)
				b.table.items[vid].Scope = scope
				b.attach(id, vid, TypeNS, ValueNS)
				if v.Discriminant != nil {
					b.collectBlocks(container, v.Discriminant)
				}
			}

		case *parser.ConstDecl:
			b.declare(container, ItemConst, n, n.Name, n.Vis, ValueNS)
			if n.Value != nil {
				b.collectBlocks(container, n.Value)
			}

		case *parser.StaticDecl:
			b.declare(container, ItemStatic, n, n.Name, n.Vis, ValueNS)
			if n.Value != nil {
				b.collectBlocks(container, n.Value)
			}

		case *parser.UseDecl:
			b.declareUse(container, n)

		case *parser.ImplBlock:
			b.declareImpl(container, n)
		}
	}
}

// declareTraitItems registers associated items under the trait. They share
// the trait's visibility.
func (b *builder) declareTraitItems(container, trait ItemID, items []parser.Item) {
	scope := b.table.items[trait].Scope
	for _, item := range items {
		var id ItemID
		switch n := item.(type) {
		case *parser.FnDecl:
			id = b.newItem(ItemFunction, n.Name.Name, n.Span, trait, n)
			b.table.items[id].Scope = scope
			b.attach(trait, id, ValueNS)
			if n.Body != nil {
				b.collectBlocks(container, n.Body)
			}
		case *parser.ConstDecl:
			id = b.newItem(ItemConst, n.Name.Name, n.Span, trait, n)
			b.table.items[id].Scope = scope
			b.attach(trait, id, ValueNS)
		case *parser.TypeAlias:
			id = b.newItem(ItemTypeAlias, n.Name.Name, n.Span, trait, n)
			b.table.items[id].Scope = scope
			b.attach(trait, id, TypeNS)
		}
	}
}

// declareImpl records an impl block. Its items are kept out of every
// namespace; they are reached through the self type.
func (b *builder) declareImpl(container ItemID, n *parser.ImplBlock) {
	impl := &Impl{Node: n, Module: container}
	seen := make(map[string]ItemID)

	for _, item := range n.Items {
		var (
			kind ItemKind
			name *parser.Ident
			vis  parser.Visibility
		)
		switch m := item.(type) {
		case *parser.FnDecl:
			kind, name, vis = ItemFunction, m.Name, m.Vis
			if m.Body != nil {
				b.collectBlocks(container, m.Body)
			}
		case *parser.ConstDecl:
			kind, name, vis = ItemConst, m.Name, m.Vis
		case *parser.TypeAlias:
			kind, name, vis = ItemTypeAlias, m.Name, m.Vis
		default:
			continue
		}

		id := b.newItem(kind, name.Name, item.GetSpan(), container, item)
		it := b.table.items[id]
		it.Associated = true
		it.Vis = vis
		if n.Trait != nil {
			it.Scope = NoItem
		} else {
			it.Scope = b.visibilityScope(container, vis)
		}
		impl.Items = append(impl.Items, id)

		if prev, dup := seen[name.Name]; dup {
			b.errors = append(b.errors, newDuplicateSymbol(name.Name, n.String(),
				b.table.items[prev].Span, it.Span))
			continue
		}
		seen[name.Name] = id
	}

	b.table.impls = append(b.table.impls, impl)
}

// declareUse flattens a use tree into one import item per leaf. Globs are
// kept apart from named imports.
func (b *builder) declareUse(container ItemID, u *parser.UseDecl) {
	c := b.table.items[container]
	scope := b.visibilityScope(container, u.Vis)

	var walk func(prefix []string, global bool, tree *parser.UseTree)
	walk = func(prefix []string, global bool, tree *parser.UseTree) {
		segments := append([]string{}, prefix...)
		if tree.Prefix != nil {
			segments = append(segments, tree.Prefix.Names()...)
			global = global || tree.Prefix.Global
		}

		imp := &Import{Decl: u, Segments: segments, Span: tree.Span, Global: global}
		var name string

		switch tree.Kind {
		case parser.UseGroup:
			for _, child := range tree.Children {
				walk(segments, global, child)
			}
			return
		case parser.UseGlob:
			imp.Glob = true
			name = "*"
		default:
			if n := len(segments); n > 1 && segments[n-1] == "self" {
				imp.Segments = segments[:n-1]
			}
			if len(imp.Segments) == 0 {
				return
			}
			name = imp.Segments[len(imp.Segments)-1]
			if tree.Alias != nil {
				name = tree.Alias.Name
			}
		}

		id := b.newItem(ItemImport, name, tree.Span, container, nil)
		it := b.table.items[id]
		it.Import = imp
		it.Vis = u.Vis
		it.Scope = scope
		c.Children = append(c.Children, id)
		b.table.uses[u] = append(b.table.uses[u], id)

		switch {
		case imp.Glob:
			c.globs = append(c.globs, id)
		case name != "_":
			c.imports[name] = append(c.imports[name], id)
		}
	}

	walk(nil, false, u.Tree)
}

// collectBlocks finds blocks under root that declare items and registers
// each as an anonymous module nested in container.
func (b *builder) collectBlocks(container ItemID, root parser.Node) {
	parser.Inspect(root, func(n parser.Node) bool {
		blk, ok := n.(*parser.BlockExpr)
		if !ok || !blk.HasItems() {
			return true
		}

		id := b.newItem(ItemBlock, "{block}", blk.Span, container, nil)
		b.table.blocks[blk] = id
		b.table.items[container].Children = append(b.table.items[container].Children, id)

		var items []parser.Item
		for _, stmt := range blk.Stmts {
			if is, ok := stmt.(*parser.ItemStmt); ok {
				items = append(items, is.Item)
				continue
			}
			b.collectBlocks(id, stmt)
		}
		b.declareItems(id, items)
		if blk.Tail != nil {
			b.collectBlocks(id, blk.Tail)
		}

		return false
	})
}

// visibilityScope maps a visibility marker to the container whose subtree
// may see the item.
func (b *builder) visibilityScope(container ItemID, vis parser.Visibility) ItemID {
	t := b.table
	switch vis.Kind {
	case parser.VisPublic:
		return NoItem
	case parser.VisCrate:
		return t.root
	case parser.VisSuper:
		m := t.ModuleOf(container)
		if m == t.root {
			b.errors = append(b.errors, &Error{
				Kind:    diagnostic.KindUnresolvedPath,
				Message: "`pub(super)` used in the crate root",
				Span:    vis.Span,
				Path:    "super",
			})
			return container
		}
		return t.ModuleOf(t.items[m].Parent)
	case parser.VisIn:
		target, ok := b.restrictionTarget(container, vis.Path)
		if !ok || !t.IsAncestor(target, container) {
			b.errors = append(b.errors, &Error{
				Kind:    diagnostic.KindUnresolvedPath,
				Message: fmt.Sprintf("`%s` does not name an ancestor module", vis),
				Span:    vis.Path.Span,
				Path:    vis.Path.String(),
			})
			return container
		}
		return target
	default:
		return container
	}
}

// restrictionTarget walks the module path of a `pub(in path)` marker.
// Ancestors are always registered before their descendants.
func (b *builder) restrictionTarget(container ItemID, path *parser.Path) (ItemID, bool) {
	t := b.table
	names := path.Names()
	cur := t.root
	i := 0

	switch {
	case len(names) > 0 && names[0] == "crate":
		i = 1
	case len(names) > 0 && names[0] == "self":
		cur = t.ModuleOf(container)
		i = 1
	case len(names) > 0 && names[0] == "super":
		cur = t.ModuleOf(container)
		for ; i < len(names) && names[i] == "super"; i++ {
			if cur == t.root {
				return NoItem, false
			}
			cur = t.ModuleOf(t.items[cur].Parent)
		}
	}

	for ; i < len(names); i++ {
		next, ok := t.items[cur].Lookup(names[i], TypeNS)
		if !ok || t.items[next].Kind != ItemModule {
			return NoItem, false
		}
		cur = next
	}

	return cur, true
}
