// Package outline lists the named items of a fixture. The outline of the
// checker's own syntax tree can be compared against one produced by the
// tree-sitter Rust grammar, which serves as a reference parser.
package outline

import (
	"fmt"

	"github.com/orizon-lang/modcheck/internal/parser"
)

// Entry is one named item of a fixture.
type Entry struct {
	Kind string `json:"kind" yaml:"kind"`
	Path string `json:"path" yaml:"path"`
	Line int    `json:"line" yaml:"line"`
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s", e.Kind, e.Path)
}

// FromFile lists the items of a parsed file in source order, descending
// into inline modules. Bodies of out-of-line modules live in other files and
// are not listed.
func FromFile(f *parser.File) []Entry {
	var entries []Entry
	collect(&entries, "", f.Items)
	return entries
}

func collect(entries *[]Entry, prefix string, items []parser.Item) {
	for _, item := range items {
		var kind string
		var name *parser.Ident

		switch n := item.(type) {
		case *parser.ModDecl:
			kind, name = "mod", n.Name
		case *parser.FnDecl:
			kind, name = "fn", n.Name
		case *parser.StructDecl:
			kind, name = "struct", n.Name
		case *parser.EnumDecl:
			kind, name = "enum", n.Name
		case *parser.TraitDecl:
			kind, name = "trait", n.Name
		case *parser.TypeAlias:
			kind, name = "type", n.Name
		case *parser.ConstDecl:
			kind, name = "const", n.Name
		case *parser.StaticDecl:
			kind, name = "static", n.Name
		default:
			continue
		}

		path := join(prefix, name.Name)
		*entries = append(*entries, Entry{Kind: kind, Path: path, Line: item.GetSpan().Start.Line})

		if mod, ok := item.(*parser.ModDecl); ok && mod.Inline {
			collect(entries, path, mod.Items)
		}
	}
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "::" + name
}
