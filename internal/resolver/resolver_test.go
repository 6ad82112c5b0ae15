package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/modcheck/internal/diagnostic"
	"github.com/orizon-lang/modcheck/internal/parser"
)

const modulesFixture = `mod math {
    type Complex = (f64, f64);

    pub fn sin(f: f64) -> f64 {
        1.0
    }
    fn cos(f: f64) -> f64 {
        2.0
    }
    fn tan(f: f64) -> f64 {
        3.0
    }
}

mod generic {
    trait Trait {}

    fn foo(arg: impl Trait) {}

    fn bar() -> impl Trait {}

    fn foo2<T: Trait>(arg: T) {}

    fn returns_closure() -> impl Fn(i32) -> i32 {
        |x| x + 1
    }
}

fn main() {
    math::sin(5.0);
    ()
}
`

func build(t *testing.T, src string, opts ...BuildOption) *SymbolTable {
	t.Helper()
	file, err := parser.ParseFile("test.rs", src)
	require.NoError(t, err)
	table, errs := BuildSymbolTable(file, opts...)
	require.Empty(t, errs)
	require.NotNil(t, table)
	return table
}

func resolve(t *testing.T, src string, policy VisibilityPolicy) []*Error {
	t.Helper()
	return New(build(t, src), policy).Resolve()
}

func kinds(errs []*Error) []diagnostic.Kind {
	out := make([]diagnostic.Kind, len(errs))
	for i, e := range errs {
		out[i] = e.Kind
	}
	return out
}

func TestBuildSymbolTableModulesFixture(t *testing.T) {
	table := build(t, modulesFixture)
	root := table.Item(table.Root())

	assert.Equal(t, ItemModule, root.Kind)
	assert.Equal(t, NoItem, root.Parent)
	require.Len(t, root.Children, 3)

	var names []string
	for _, id := range root.Children {
		names = append(names, table.Item(id).Name)
	}
	assert.Equal(t, []string{"math", "generic", "main"}, names)

	mathID, ok := root.Lookup("math", TypeNS)
	require.True(t, ok)
	math := table.Item(mathID)
	require.Len(t, math.Children, 4)

	sinID, ok := math.Lookup("sin", ValueNS)
	require.True(t, ok)
	assert.Equal(t, "crate::math::sin", table.Path(sinID))
	assert.Equal(t, NoItem, table.Item(sinID).Scope)
	assert.Equal(t, mathID, table.Item(sinID).Parent)

	cosID, ok := math.Lookup("cos", ValueNS)
	require.True(t, ok)
	assert.Equal(t, mathID, table.Item(cosID).Scope)

	aliasID, ok := math.Lookup("Complex", TypeNS)
	require.True(t, ok)
	assert.Equal(t, ItemTypeAlias, table.Item(aliasID).Kind)

	_, ok = math.Lookup("sin", TypeNS)
	assert.False(t, ok, "functions live in the value namespace")
}

func TestItemKindString(t *testing.T) {
	tests := []struct {
		kind ItemKind
		want string
	}{
		{ItemModule, "module"},
		{ItemFunction, "function"},
		{ItemTypeAlias, "type alias"},
		{ItemTrait, "trait"},
		{ItemBlock, "block"},
		{ItemKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ItemKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestDuplicateSymbol(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		count int
	}{
		{"functions", "mod m {\n    fn a() {}\n    fn a() {}\n}\n", 1},
		{"every later duplicate", "fn a() {}\nfn a() {}\nfn a() {}\n", 2},
		{"unit struct and function share the value namespace", "struct S;\nfn S() {}\n", 1},
		{"enum variants", "enum E { A, B, A }\n", 1},
		{"trait items", "trait T {\n    fn f();\n    fn f();\n}\n", 1},
		{"methods of one impl", "struct S;\nimpl S {\n    fn f() {}\n    fn f() {}\n}\n", 1},
		{"in a block", "fn main() {\n    fn h() {}\n    fn h() {}\n}\n", 1},
		{"separate collisions are all reported", "mod x {}\nmod x {}\nconst C: i32 = 1;\nconst C: i32 = 2;\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := parser.ParseFile("test.rs", tt.src)
			require.NoError(t, err)

			table, errs := BuildSymbolTable(file)
			assert.Nil(t, table, "no table is produced on duplicates")
			require.Len(t, errs, tt.count)
			for _, e := range errs {
				assert.Equal(t, diagnostic.KindDuplicateSymbol, e.Kind)
			}
		})
	}
}

func TestDuplicateSymbolSpans(t *testing.T) {
	file, err := parser.ParseFile("test.rs", "mod m {\n    fn a() {}\n    fn a() {}\n}\n")
	require.NoError(t, err)

	_, errs := BuildSymbolTable(file)
	require.Len(t, errs, 1)
	assert.Equal(t, "a", errs[0].Name)
	assert.Equal(t, 2, errs[0].FirstSpan.Start.Line)
	assert.Equal(t, 3, errs[0].SecondSpan.Start.Line)
	assert.Contains(t, errs[0].Message, "crate::m")

	d := errs[0].Diagnostic()
	require.Len(t, d.Related, 1)
	assert.Equal(t, errs[0].FirstSpan, d.Related[0].Span)
}

func TestSeparateNamespaces(t *testing.T) {
	// Named structs only occupy the type namespace.
	build(t, "struct S {}\nfn S() {}\nmod x {}\nfn x() {}\n")
}

func TestRestrictedVisibilityErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"pub(in) naming a sibling", "mod a {\n    pub(in crate::b) fn f() {}\n}\nmod b {}\n"},
		{"pub(in) naming a missing module", "mod a {\n    pub(in crate::nope) fn f() {}\n}\n"},
		{"pub(super) at the root", "pub(super) fn f() {}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := parser.ParseFile("test.rs", tt.src)
			require.NoError(t, err)

			table, errs := BuildSymbolTable(file)
			assert.Nil(t, table)
			require.Len(t, errs, 1)
			assert.Equal(t, diagnostic.KindUnresolvedPath, errs[0].Kind)
		})
	}
}

func TestRestrictedVisibilityScopes(t *testing.T) {
	src := `mod outer {
    pub(crate) fn krate() {}
    pub(super) fn sup() {}
    mod inner {
        pub(in crate::outer) fn within() {}
        pub(self) fn own() {}
    }
}
`
	table := build(t, src)
	root := table.Item(table.Root())
	outerID, _ := root.Lookup("outer", TypeNS)
	outer := table.Item(outerID)
	innerID, _ := outer.Lookup("inner", TypeNS)
	inner := table.Item(innerID)

	scopeOf := func(container *Item, name string) ItemID {
		id, ok := container.Lookup(name, ValueNS)
		require.True(t, ok, name)
		return table.Item(id).Scope
	}

	assert.Equal(t, table.Root(), scopeOf(outer, "krate"))
	assert.Equal(t, table.Root(), scopeOf(outer, "sup"))
	assert.Equal(t, outerID, scopeOf(inner, "within"))
	assert.Equal(t, innerID, scopeOf(inner, "own"))
}

func TestResolveModulesFixture(t *testing.T) {
	for _, policy := range []VisibilityPolicy{PolicyStrict, PolicyPermissive} {
		errs := resolve(t, modulesFixture, policy)
		assert.Empty(t, errs, "policy %s", policy)
	}
}

func TestResolvePrivateFunction(t *testing.T) {
	src := `mod math {
    pub fn sin(f: f64) -> f64 { 1.0 }
    fn cos(f: f64) -> f64 { 2.0 }
}

fn main() {
    math::cos(5.0);
}
`
	errs := resolve(t, src, PolicyStrict)
	require.Len(t, errs, 1)

	e := errs[0]
	assert.Equal(t, diagnostic.KindUnresolvedPath, e.Kind)
	assert.Equal(t, "math::cos", e.Path)
	assert.Equal(t, []string{"crate::math"}, e.AttemptedScopes)
	assert.Contains(t, e.Message, "private to `crate::math`")
	assert.Equal(t, 7, e.Span.Start.Line)

	assert.Empty(t, resolve(t, src, PolicyPermissive), "ancestors see private items under the permissive policy")
}

func TestResolveVisibility(t *testing.T) {
	const modules = `mod outer {
    fn private() {}
    pub(crate) fn krate() {}
    pub(super) fn sup() {}
    pub mod inner {
        pub(super) fn up() {}
        fn hidden() {}
        pub fn open() {}
        pub fn call_parent() { super::private(); }
    }
    mod sealed {
        pub fn f() {}
    }
    fn use_inner() { inner::up(); sealed::f(); }
}
`
	tests := []struct {
		name   string
		body   string
		errors int
	}{
		{"public and crate-visible items", "outer::krate(); outer::sup(); outer::inner::open();", 0},
		{"private item of a child module", "outer::private();", 1},
		{"restricted to the parent module", "outer::inner::up();", 1},
		{"private item two levels down", "outer::inner::hidden();", 1},
		{"private module on the way", "outer::sealed::f();", 1},
		{"every failing path is reported", "outer::private(); outer::inner::hidden();", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := resolve(t, modules+"fn main() { "+tt.body+" }\n", PolicyStrict)
			require.Len(t, errs, tt.errors)
			for _, e := range errs {
				assert.Equal(t, diagnostic.KindUnresolvedPath, e.Kind)
			}
		})
	}
}

func TestResolveRelativePaths(t *testing.T) {
	src := `mod a {
    pub fn f() {}
    pub mod b {
        pub fn g() {
            super::f();
            self::h();
            crate::top();
            super::super::top();
        }
        fn h() {}
    }
}

fn top() {}
`
	assert.Empty(t, resolve(t, src, PolicyStrict))

	errs := resolve(t, "fn main() { super::f(); }\n", PolicyStrict)
	require.Len(t, errs, 1)
	assert.Equal(t, "super::f", errs[0].Path)
}

func TestResolveLocalsAndClosures(t *testing.T) {
	assert.Empty(t, resolve(t, `fn f(n: i32) -> i32 {
    let a = 1;
    let add = |b| a + b + n;
    for i in 0..n {
        add(i);
    }
    if let Some(v) = Some(a) { v } else { 0 }
}
`, PolicyStrict))

	errs := resolve(t, "fn f() {\n    let g = |b| b + c;\n}\n", PolicyStrict)
	require.Len(t, errs, 1)
	assert.Equal(t, "c", errs[0].Path)
	assert.Equal(t, []string{"crate", "prelude"}, errs[0].AttemptedScopes)
}

func TestResolveBlockItems(t *testing.T) {
	src := `fn main() {
    fn helper() -> i32 { 1 }
    helper();
}

fn other() {
    helper();
}
`
	errs := resolve(t, src, PolicyStrict)
	require.Len(t, errs, 1)
	assert.Equal(t, 7, errs[0].Span.Start.Line)
}

func TestResolveImports(t *testing.T) {
	const shapes = `mod shapes {
    pub struct Circle;
    pub fn area() -> f64 { 1.0 }
    fn secret() {}
}
`
	tests := []struct {
		name  string
		src   string
		kinds []diagnostic.Kind
	}{
		{"simple and renamed", "use shapes::Circle;\nuse shapes::area as compute;\nfn main() { let _c = Circle; compute(); }\n", nil},
		{"grouped", "use shapes::{Circle, area};\nfn main() { area(); }\n", nil},
		{"self in a group", "mod outer {\n    use crate::shapes::{self};\n    pub fn g() { shapes::area(); }\n}\n", nil},
		{"glob", "use shapes::*;\nfn main() { area(); }\n", nil},
		{"missing name", "use shapes::Square;\n", []diagnostic.Kind{diagnostic.KindUnresolvedPath}},
		{"private name", "use shapes::secret;\n", []diagnostic.Kind{diagnostic.KindUnresolvedPath}},
		{"glob skips private names", "use shapes::*;\nfn main() { secret(); }\n", []diagnostic.Kind{diagnostic.KindUnresolvedPath}},
		{"collides with an item", "use shapes::area;\nfn area() {}\n", []diagnostic.Kind{diagnostic.KindDuplicateSymbol}},
		{"collides with another import", "mod other { pub fn area() {} }\nuse shapes::area;\nuse other::area;\n", []diagnostic.Kind{diagnostic.KindDuplicateSymbol}},
		{"extern crate paths", "use std::collections::HashMap;\nfn main() { let m = HashMap::new(); std::mem::drop(m); }\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := resolve(t, shapes+tt.src, PolicyStrict)
			if tt.kinds == nil {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.kinds, kinds(errs))
		})
	}
}

func TestResolveReexports(t *testing.T) {
	const inner = "mod inner { pub fn f() {} }\n"

	assert.Empty(t, resolve(t, inner+"pub mod api { pub use crate::inner::f; }\nfn main() { api::f(); }\n", PolicyStrict))

	errs := resolve(t, inner+"pub mod api { use crate::inner::f; }\nfn main() { api::f(); }\n", PolicyStrict)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "private to `crate::api`")
}

func TestResolveAmbiguousGlobs(t *testing.T) {
	src := `mod a { pub fn f() {} }
mod b { pub fn f() {} }
use a::*;
use b::*;
fn main() { f(); }
`
	errs := resolve(t, src, PolicyStrict)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostic.KindAmbiguousPath, errs[0].Kind)
	assert.Equal(t, "f", errs[0].Path)
	assert.Equal(t, []string{"crate::a::f", "crate::b::f"}, errs[0].Candidates)

	// A local item shadows glob imports.
	assert.Empty(t, resolve(t, src+"fn f() {}\n", PolicyStrict))

	// The same item reached through two globs is not ambiguous.
	assert.Empty(t, resolve(t, `mod a { pub fn f() {} }
mod b { pub use crate::a::f; }
use a::*;
use b::*;
fn main() { f(); }
`, PolicyStrict))
}

func TestResolveImportCycle(t *testing.T) {
	src := `mod a { pub use super::b::x; }
mod b { pub use super::a::x; }
fn main() { a::x(); }
`
	errs := resolve(t, src, PolicyStrict)
	require.NotEmpty(t, errs)
	for _, e := range errs {
		assert.Equal(t, diagnostic.KindUnresolvedPath, e.Kind)
	}
}

func TestResolveEnumsAndPatterns(t *testing.T) {
	const decls = `enum Color { Red, Green, Rgb(u8, u8, u8) }
const LIMIT: i32 = 3;
`
	assert.Empty(t, resolve(t, decls+`fn classify(c: Color, n: i32, o: Option<i32>) -> i32 {
    let _ = Color::Green;
    match o {
        Some(v) => v,
        None => 0,
    };
    match c {
        Color::Red => 1,
        Color::Rgb(r, _, _) => r as i32,
        _ => match n { LIMIT => 0, other => other },
    }
}
`, PolicyStrict))

	errs := resolve(t, decls+"fn f() { let c = Color::Blue; }\n", PolicyStrict)
	require.Len(t, errs, 1)
	assert.Equal(t, "Color::Blue", errs[0].Path)
	assert.Equal(t, []string{"crate::Color"}, errs[0].AttemptedScopes)
}

func TestResolveAssociatedItems(t *testing.T) {
	src := `mod geo {
    pub struct Point { x: i32 }
    impl Point {
        pub fn new() -> Self { Point { x: 0 } }
        fn hidden() {}
    }
    pub trait Shape {
        fn name() -> i32 { 0 }
    }
}

fn main() {
    let p = geo::Point::new();
    geo::Shape::name();
    geo::Point::hidden();
    geo::Point::missing();
}
`
	errs := resolve(t, src, PolicyStrict)
	require.Len(t, errs, 2)
	assert.Equal(t, "geo::Point::hidden", errs[0].Path)
	assert.Contains(t, errs[0].Message, "private")
	assert.Equal(t, "geo::Point::missing", errs[1].Path)
}

func TestResolveDerivedTypesAcceptAnyAssociatedName(t *testing.T) {
	src := `#[derive(Default)]
struct Config { verbose: bool }

fn main() { let c = Config::default(); }
`
	assert.Empty(t, resolve(t, src, PolicyStrict))
}

func TestResolveRewritesGenericParams(t *testing.T) {
	table := build(t, "fn id<T: Clone>(x: T) -> T { x }\n")
	require.Empty(t, New(table, PolicyStrict).Resolve())

	fn := table.File().Items[0].(*parser.FnDecl)
	param, ok := fn.Params[0].Type.(*parser.GenericType)
	require.True(t, ok, "parameter type is %T", fn.Params[0].Type)
	assert.Equal(t, "T", param.Param.Name.Name)

	_, ok = fn.ReturnType.(*parser.GenericType)
	assert.True(t, ok, "return type is %T", fn.ReturnType)

	refs := table.TraitRefs()
	require.Len(t, refs, 1)
	assert.Equal(t, "Clone", refs[0].Path.String())
}

func TestResolveCustomPrelude(t *testing.T) {
	table := build(t, "fn f(x: f64) -> i32 { 0 }\n", WithPrelude(&Prelude{Types: []string{"i32"}}))
	errs := New(table, PolicyStrict).Resolve()
	require.Len(t, errs, 1)
	assert.Equal(t, "f64", errs[0].Path)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    VisibilityPolicy
		wantErr bool
	}{
		{"", PolicyStrict, false},
		{"strict", PolicyStrict, false},
		{"Permissive", PolicyPermissive, false},
		{"loose", PolicyStrict, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
