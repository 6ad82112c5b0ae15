// Symbol table for the module-and-trait checker.
// Items live in an arena indexed by ItemID; parents are ids, never pointers.

package resolver

import (
	"github.com/orizon-lang/modcheck/internal/parser"
	"github.com/orizon-lang/modcheck/internal/position"
)

// ItemID indexes the symbol table arena.
type ItemID int

// NoItem marks the absent parent of the crate root and the unrestricted
// visibility scope of public items.
const NoItem ItemID = -1

// ItemKind represents the kind of declared item.
type ItemKind int

const (
	ItemModule ItemKind = iota
	ItemFunction
	ItemTypeAlias
	ItemTrait
	ItemStruct
	ItemEnum
	ItemVariant
	ItemConst
	ItemStatic
	ItemImport
	ItemBlock  // anonymous module for a block that declares items
	ItemExtern // opaque item from an external crate
)

// String returns the string representation of ItemKind.
func (k ItemKind) String() string {
	switch k {
	case ItemModule:
		return "module"
	case ItemFunction:
		return "function"
	case ItemTypeAlias:
		return "type alias"
	case ItemTrait:
		return "trait"
	case ItemStruct:
		return "struct"
	case ItemEnum:
		return "enum"
	case ItemVariant:
		return "variant"
	case ItemConst:
		return "const"
	case ItemStatic:
		return "static"
	case ItemImport:
		return "import"
	case ItemBlock:
		return "block"
	case ItemExtern:
		return "extern"
	default:
		return "unknown"
	}
}

// IsType reports whether paths may continue with associated items after
// an item of this kind.
func (k ItemKind) IsType() bool {
	switch k {
	case ItemTypeAlias, ItemTrait, ItemStruct, ItemEnum, ItemExtern:
		return true
	}

	return false
}

// Namespace separates type-like from value-like names.
type Namespace int

const (
	TypeNS Namespace = iota
	ValueNS
)

func (ns Namespace) String() string {
	if ns == TypeNS {
		return "type"
	}

	return "value"
}

// Item is a single declared entity.
type Item struct {
	Node     parser.Node
	Import   *Import
	Name     string
	Span     position.Span
	Vis      parser.Visibility
	Children []ItemID
	ID       ItemID
	Parent   ItemID
	// Scope is the container whose subtree may see the item, or NoItem
	// when the item is public.
	Scope ItemID
	Kind  ItemKind

	// Associated marks items declared inside an impl block. They are not
	// registered in any namespace.
	Associated bool
	Prelude    bool

	names [2]map[string]ItemID
	// imports and globs are only set on modules and blocks.
	imports map[string][]ItemID
	globs   []ItemID
}

// IsContainer reports whether the item owns a namespace.
func (it *Item) IsContainer() bool {
	switch it.Kind {
	case ItemModule, ItemBlock, ItemEnum, ItemTrait:
		return true
	}

	return false
}

// Lookup returns the item declared directly in this container under name.
// Imports are not consulted.
func (it *Item) Lookup(name string, ns Namespace) (ItemID, bool) {
	if it.names[ns] == nil {
		return NoItem, false
	}
	id, ok := it.names[ns][name]

	return id, ok
}

// Import describes one leaf of a `use` tree.
type Import struct {
	Decl     *parser.UseDecl
	Segments []string
	Span     position.Span
	Global   bool
	Glob     bool
}

// Path renders the imported path.
func (imp *Import) Path() string {
	s := joinPath(imp.Segments)
	if imp.Glob {
		s += "::*"
	}
	if imp.Global {
		s = "::" + s
	}

	return s
}

// Impl records an impl block together with the module declaring it.
type Impl struct {
	Node   *parser.ImplBlock
	Items  []ItemID
	Module ItemID
}

// SymbolTable is the module hierarchy of one fixture.
type SymbolTable struct {
	file    *parser.File
	items   []*Item
	nodes   map[parser.Node]ItemID
	blocks  map[*parser.BlockExpr]ItemID
	uses    map[*parser.UseDecl][]ItemID
	impls   []*Impl
	prelude [2]map[string]ItemID
	root    ItemID
	opaque  ItemID

	traitRefs []TraitRef
}

// TraitRef is a trait position recorded during resolution: a bound, a
// supertrait, an `impl Trait` or `dyn Trait` type, or an impl header.
type TraitRef struct {
	Path  *parser.Path
	Scope *Scope
	// Opaque marks bounds of an `impl Trait` type.
	Opaque bool
}

// File returns the syntax tree the table was built from.
func (t *SymbolTable) File() *parser.File { return t.file }

// Root returns the crate root module.
func (t *SymbolTable) Root() ItemID { return t.root }

// Item returns the item with the given id.
func (t *SymbolTable) Item(id ItemID) *Item { return t.items[id] }

// Len returns the number of items in the arena, prelude included.
func (t *SymbolTable) Len() int { return len(t.items) }

// Items returns the declared items in declaration order, excluding the
// prelude.
func (t *SymbolTable) Items() []*Item {
	out := make([]*Item, 0, len(t.items))
	for _, it := range t.items {
		if !it.Prelude {
			out = append(out, it)
		}
	}

	return out
}

// Impls returns the impl blocks in declaration order.
func (t *SymbolTable) Impls() []*Impl { return t.impls }

// NodeItem returns the item declared by a syntax node.
func (t *SymbolTable) NodeItem(n parser.Node) (ItemID, bool) {
	id, ok := t.nodes[n]

	return id, ok
}

// BlockItem returns the anonymous module of a block that declares items.
func (t *SymbolTable) BlockItem(b *parser.BlockExpr) (ItemID, bool) {
	id, ok := t.blocks[b]

	return id, ok
}

// TraitRefs returns the trait positions recorded by the last Resolve.
func (t *SymbolTable) TraitRefs() []TraitRef { return t.traitRefs }

// Opaque returns the item standing for anything reached through an
// external crate.
func (t *SymbolTable) Opaque() ItemID { return t.opaque }

// Path renders the qualified path of an item, e.g. `crate::math::sin`.
func (t *SymbolTable) Path(id ItemID) string {
	if id == NoItem {
		return ""
	}
	it := t.items[id]
	switch {
	case it.Prelude:
		return "prelude::" + it.Name
	case id == t.root:
		return "crate"
	case it.Parent == NoItem:
		return it.Name
	}

	return t.Path(it.Parent) + "::" + it.Name
}

// ModuleOf returns the nearest enclosing module, skipping blocks, enums and
// traits.
func (t *SymbolTable) ModuleOf(id ItemID) ItemID {
	for id != NoItem && t.items[id].Kind != ItemModule {
		id = t.items[id].Parent
	}

	return id
}

// IsAncestor reports whether anc is id or one of its ancestors.
func (t *SymbolTable) IsAncestor(anc, id ItemID) bool {
	for id != NoItem {
		if id == anc {
			return true
		}
		id = t.items[id].Parent
	}

	return false
}

func joinPath(segments []string) string {
	s := ""
	for i, seg := range segments {
		if i > 0 {
			s += "::"
		}
		s += seg
	}

	return s
}
