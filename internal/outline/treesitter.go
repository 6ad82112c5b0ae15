package outline

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

var itemKinds = map[string]string{
	"mod_item":                "mod",
	"function_item":           "fn",
	"function_signature_item": "fn",
	"struct_item":             "struct",
	"enum_item":               "enum",
	"trait_item":              "trait",
	"type_item":               "type",
	"const_item":              "const",
	"static_item":             "static",
}

// SyntaxError is reported when the reference grammar rejects a fixture.
type SyntaxError struct {
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("reference parser: syntax error at %d:%d", e.Line, e.Column)
}

// Oracle parses fixtures with the tree-sitter Rust grammar. It is safe for
// concurrent use; each call gets its own parser.
type Oracle struct{}

func NewOracle() *Oracle { return &Oracle{} }

// Outline lists the items of src the way FromFile does. A fixture the
// grammar rejects yields a *SyntaxError.
func (o *Oracle) Outline(ctx context.Context, src []byte) ([]Entry, error) {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(rust.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("reference parser: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root)
	}

	var entries []Entry
	walkItems(&entries, "", root, src)
	return entries, nil
}

func walkItems(entries *[]Entry, prefix string, node *sitter.Node, src []byte) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		kind, ok := itemKinds[child.Type()]
		if !ok {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}

		path := join(prefix, nameNode.Content(src))
		*entries = append(*entries, Entry{Kind: kind, Path: path, Line: int(child.StartPoint().Row) + 1})

		if child.Type() == "mod_item" {
			if body := child.ChildByFieldName("body"); body != nil {
				walkItems(entries, path, body, src)
			}
		}
	}
}

// syntaxError locates the first missing node, else the first error node.
func syntaxError(root *sitter.Node) *SyntaxError {
	node := firstNode(root, func(n *sitter.Node) bool { return n.IsMissing() })
	if node == nil {
		node = firstNode(root, func(n *sitter.Node) bool { return n.Type() == "ERROR" })
	}
	if node == nil {
		node = root
	}

	start := node.StartPoint()
	return &SyntaxError{Line: int(start.Row) + 1, Column: int(start.Column) + 1}
}

func firstNode(root *sitter.Node, match func(*sitter.Node) bool) *sitter.Node {
	var best *sitter.Node
	walkNodes(root, func(n *sitter.Node) {
		if !match(n) {
			return
		}
		if best == nil || n.StartByte() < best.StartByte() {
			best = n
		}
	})
	return best
}

func walkNodes(node *sitter.Node, visit func(*sitter.Node)) {
	if node == nil {
		return
	}
	visit(node)
	for i := 0; i < int(node.ChildCount()); i++ {
		walkNodes(node.Child(i), visit)
	}
}
