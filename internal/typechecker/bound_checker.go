// Trait and bound checker for the module-and-trait checker.
// Performs a capability-declaration check only: every trait position must
// name a visible trait, and opaque return types must have a body behind
// them. Whether a type actually satisfies a bound is not checked.

package typechecker

import (
	"fmt"

	"github.com/orizon-lang/modcheck/internal/diagnostic"
	"github.com/orizon-lang/modcheck/internal/parser"
	"github.com/orizon-lang/modcheck/internal/position"
	"github.com/orizon-lang/modcheck/internal/resolver"
)

// Error is a bound checking error.
type Error struct {
	Kind    diagnostic.Kind
	Name    string
	Message string
	Span    position.Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.Start, e.Message)
}

// Diagnostic converts the error for reporting.
func (e *Error) Diagnostic() *diagnostic.Diagnostic {
	return diagnostic.New(e.Kind).Message(e.Message).Span(e.Span).Build()
}

// BoundChecker verifies trait positions recorded by resolver.Resolve.
type BoundChecker struct {
	table    *resolver.SymbolTable
	resolver *resolver.Resolver
	errors   []*Error
}

// NewBoundChecker creates a checker for a resolved table.
func NewBoundChecker(table *resolver.SymbolTable, policy resolver.VisibilityPolicy) *BoundChecker {
	return &BoundChecker{
		table:    table,
		resolver: resolver.New(table, policy),
	}
}

// Check returns every UnknownTrait and ImplausibleOpaque error of the
// fixture in discovery order.
func (c *BoundChecker) Check() []*Error {
	c.errors = nil

	for _, ref := range c.table.TraitRefs() {
		c.checkTraitRef(ref)
	}

	for _, it := range c.table.Items() {
		if it.Kind == resolver.ItemFunction {
			c.checkOpaqueReturn(it)
		}
	}

	return c.errors
}

func (c *BoundChecker) checkTraitRef(ref resolver.TraitRef) {
	name := ref.Path.String()
	id, err := c.resolver.LookupTrait(ref.Scope, ref.Path)

	switch {
	case err != nil:
		c.unknownTrait(name, ref.Path.Span, fmt.Sprintf("unknown trait `%s`: %s", name, err.Message))

	case id == resolver.NoItem:
		c.unknownTrait(name, ref.Path.Span, fmt.Sprintf("expected trait, found type parameter `%s`", name))

	default:
		it := c.table.Item(id)
		if it.Kind != resolver.ItemTrait && it.Kind != resolver.ItemExtern {
			c.unknownTrait(name, ref.Path.Span,
				fmt.Sprintf("expected trait, found %s `%s`", it.Kind, c.table.Path(id)))
		}
	}
}

func (c *BoundChecker) unknownTrait(name string, span position.Span, msg string) {
	c.errors = append(c.errors, &Error{
		Kind:    diagnostic.KindUnknownTrait,
		Name:    name,
		Message: msg,
		Span:    span,
	})
}

// checkOpaqueReturn rejects a free function or impl method that declares an
// `impl Trait` return without a body. Any block yields a value, the unit
// value included, so a body is all that is required. Only methods declared
// in a trait may omit their bodies; their parent is the trait.
func (c *BoundChecker) checkOpaqueReturn(it *resolver.Item) {
	parent := c.table.Item(it.Parent)
	if parent.Kind != resolver.ItemModule && parent.Kind != resolver.ItemBlock {
		return
	}

	fn, ok := it.Node.(*parser.FnDecl)
	if !ok || fn.Body != nil {
		return
	}
	if _, opaque := fn.ReturnType.(*parser.OpaqueType); !opaque {
		return
	}

	c.errors = append(c.errors, &Error{
		Kind:    diagnostic.KindImplausibleOpaque,
		Name:    fn.Name.Name,
		Message: fmt.Sprintf("function `%s` returns `%s` but has no body", fn.Name.Name, fn.ReturnType),
		Span:    fn.Span,
	})
}
