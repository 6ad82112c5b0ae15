package resolver

import (
	"github.com/orizon-lang/modcheck/internal/parser"
)

// Scope is a lexical scope: the innermost module or block whose items are
// in view, plus local bindings and generic parameters. Item declarations
// start a fresh scope, so nested items never see outer locals or generics.
type Scope struct {
	parent   *Scope
	generics map[string]*parser.GenericParam
	locals   map[string]struct{}
	module   ItemID
	self     bool
}

// NewScope returns an item-level scope inside container.
func NewScope(container ItemID) *Scope {
	return &Scope{module: container}
}

// Module returns the module or block whose items are in view.
func (s *Scope) Module() ItemID { return s.module }

// HasSelf reports whether `Self` is in scope.
func (s *Scope) HasSelf() bool { return s.self }

func (s *Scope) child() *Scope {
	return &Scope{parent: s, module: s.module, self: s.self}
}

// withGenerics opens a child scope declaring the type and const parameters
// of g.
func (s *Scope) withGenerics(g *parser.Generics) *Scope {
	c := s.child()
	if g == nil {
		return c
	}
	for _, param := range g.Params {
		if param.Kind == parser.GenericLifetimeParam {
			continue
		}
		if c.generics == nil {
			c.generics = make(map[string]*parser.GenericParam)
		}
		c.generics[param.Name.Name] = param
	}

	return c
}

// Declare adds a local binding.
func (s *Scope) Declare(name string) {
	if s.locals == nil {
		s.locals = make(map[string]struct{})
	}
	s.locals[name] = struct{}{}
}

// Local reports whether name is bound by a let, parameter or pattern.
func (s *Scope) Local(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.locals[name]; ok {
			return true
		}
	}

	return false
}

// Generic returns the generic parameter named name, or nil.
func (s *Scope) Generic(name string) *parser.GenericParam {
	for cur := s; cur != nil; cur = cur.parent {
		if param, ok := cur.generics[name]; ok {
			return param
		}
	}

	return nil
}
