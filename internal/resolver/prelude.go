package resolver

// Prelude lists the names every module sees without importing them.
// Prelude types and crates accept any associated path segment.
type Prelude struct {
	Types    []string `yaml:"types"`
	Traits   []string `yaml:"traits"`
	Values   []string `yaml:"values"`
	Variants []string `yaml:"variants"`
	Crates   []string `yaml:"crates"`
}

// DefaultPrelude returns the primitive types and the standard prelude.
func DefaultPrelude() *Prelude {
	return &Prelude{
		Types: []string{
			"bool", "char", "str",
			"i8", "i16", "i32", "i64", "i128", "isize",
			"u8", "u16", "u32", "u64", "u128", "usize",
			"f32", "f64",
			"String", "Vec", "Box", "Option", "Result",
		},
		Traits: []string{
			"Fn", "FnMut", "FnOnce",
			"Clone", "Copy", "Send", "Sync", "Sized", "Unpin", "Drop",
			"Default", "Debug", "PartialEq", "Eq", "PartialOrd", "Ord", "Hash",
			"Iterator", "IntoIterator", "DoubleEndedIterator", "ExactSizeIterator", "Extend",
			"From", "Into", "TryFrom", "TryInto", "AsRef", "AsMut", "ToOwned", "ToString",
		},
		Values:   []string{"drop"},
		Variants: []string{"Some", "None", "Ok", "Err"},
		Crates:   []string{"std", "core", "alloc"},
	}
}

// Merge returns a prelude holding the names of both p and other.
func (p *Prelude) Merge(other *Prelude) *Prelude {
	if other == nil {
		return p
	}

	return &Prelude{
		Types:    append(append([]string{}, p.Types...), other.Types...),
		Traits:   append(append([]string{}, p.Traits...), other.Traits...),
		Values:   append(append([]string{}, p.Values...), other.Values...),
		Variants: append(append([]string{}, p.Variants...), other.Variants...),
		Crates:   append(append([]string{}, p.Crates...), other.Crates...),
	}
}

// installPrelude adds prelude items to the arena. Later duplicates of a name are
// ignored.
func (b *builder) installPrelude(p *Prelude) {
	t := b.table
	t.prelude[TypeNS] = make(map[string]ItemID)
	t.prelude[ValueNS] = make(map[string]ItemID)

	add := func(kind ItemKind, name string, namespaces ...Namespace) {
		id := b.newPreludeItem(kind, name)
		for _, ns := range namespaces {
			if _, ok := t.prelude[ns][name]; !ok {
				t.prelude[ns][name] = id
			}
		}
	}

	for _, name := range p.Types {
		add(ItemStruct, name, TypeNS)
	}
	for _, name := range p.Traits {
		add(ItemTrait, name, TypeNS)
	}
	for _, name := range p.Crates {
		add(ItemExtern, name, TypeNS)
	}
	for _, name := range p.Values {
		add(ItemFunction, name, ValueNS)
	}
	for _, name := range p.Variants {
		add(ItemVariant, name, TypeNS, ValueNS)
	}
}
