package outline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/modcheck/internal/diagnostic"
	"github.com/orizon-lang/modcheck/internal/parser"
)

const fixture = `mod math {
    type Complex = (f64, f64);

    pub fn sin(f: f64) -> f64 {
        1.0
    }
}

mod shapes;

trait Trait {}

struct Point { x: i32 }

enum Color { Red }

const LIMIT: i32 = 3;

static NAME: &str = "x";

impl Point {
    fn new() -> Self { Point { x: 0 } }
}

fn main() {
    fn helper() {}
}
`

var want = []Entry{
	{Kind: "mod", Path: "math", Line: 1},
	{Kind: "type", Path: "math::Complex", Line: 2},
	{Kind: "fn", Path: "math::sin", Line: 4},
	{Kind: "mod", Path: "shapes", Line: 9},
	{Kind: "trait", Path: "Trait", Line: 11},
	{Kind: "struct", Path: "Point", Line: 13},
	{Kind: "enum", Path: "Color", Line: 15},
	{Kind: "const", Path: "LIMIT", Line: 17},
	{Kind: "static", Path: "NAME", Line: 19},
	{Kind: "fn", Path: "main", Line: 25},
}

func TestFromFile(t *testing.T) {
	file, err := parser.ParseFile("outline.rs", fixture)
	require.NoError(t, err)

	if diff := cmp.Diff(want, FromFile(file)); diff != "" {
		t.Errorf("FromFile() mismatch (-want +got):\n%s", diff)
	}
}

func TestOracleAgreesWithParser(t *testing.T) {
	got, err := NewOracle().Outline(context.Background(), []byte(fixture))
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Outline() mismatch (-want +got):\n%s", diff)
	}
}

func TestOracleSyntaxError(t *testing.T) {
	_, err := NewOracle().Outline(context.Background(), []byte("mod a {\n    fn f( {}\n"))

	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr), "got %v", err)
	assert.GreaterOrEqual(t, syntaxErr.Line, 1)
}

func TestCompare(t *testing.T) {
	ours := []Entry{
		{Kind: "mod", Path: "a", Line: 1},
		{Kind: "fn", Path: "a::f", Line: 2},
		{Kind: "fn", Path: "g", Line: 5},
	}
	reference := []Entry{
		{Kind: "mod", Path: "a", Line: 1},
		{Kind: "fn", Path: "a::f", Line: 3},
		{Kind: "struct", Path: "g", Line: 5},
	}

	diags := Compare("cmp.rs", ours, reference)
	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, diagnostic.KindOutlineMismatch, d.Kind)
		assert.Equal(t, 5, d.Span.Start.Line)
	}
	assert.Contains(t, diags[0].Message, "`fn g` was parsed")
	assert.Contains(t, diags[1].Message, "lists `struct g`")

	assert.Empty(t, Compare("cmp.rs", ours, ours))
}
