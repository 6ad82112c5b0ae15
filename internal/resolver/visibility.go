package resolver

import (
	"fmt"
	"strings"
)

// VisibilityPolicy selects how restricted items may be reached. It is passed
// explicitly to the resolver and the bound checker.
type VisibilityPolicy int

const (
	// PolicyStrict: a restricted item is visible only inside the subtree of
	// the module it is restricted to.
	PolicyStrict VisibilityPolicy = iota
	// PolicyPermissive additionally lets ancestors of that module see it.
	PolicyPermissive
)

func (p VisibilityPolicy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicyPermissive:
		return "permissive"
	default:
		return "unknown"
	}
}

// ParsePolicy parses "strict" or "permissive"; the empty string is strict.
func ParsePolicy(s string) (VisibilityPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return PolicyStrict, nil
	case "permissive":
		return PolicyPermissive, nil
	}

	return PolicyStrict, fmt.Errorf("unknown visibility policy %q (want strict or permissive)", s)
}

// IsVisible reports whether item id may be referenced from the container
// from (a module or block).
func (t *SymbolTable) IsVisible(id, from ItemID, policy VisibilityPolicy) bool {
	it := t.items[id]
	if it.Scope == NoItem || it.Prelude {
		return true
	}
	if t.IsAncestor(it.Scope, from) {
		return true
	}

	return policy == PolicyPermissive && t.IsAncestor(from, it.Scope)
}
