package parser

// Inspect traverses items, statements and expressions in depth-first order,
// calling f for each node. If f returns false the node's children are
// skipped. Types and patterns are not descended into.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		inspectItems(n.Items, f)
	case *ModDecl:
		inspectItems(n.Items, f)
	case *FnDecl:
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	case *TraitDecl:
		inspectItems(n.Items, f)
	case *ImplBlock:
		inspectItems(n.Items, f)
	case *ConstDecl:
		inspectExpr(n.Value, f)
	case *StaticDecl:
		inspectExpr(n.Value, f)
	case *EnumDecl:
		for _, v := range n.Variants {
			inspectExpr(v.Discriminant, f)
		}

	// Statements
	case *LetStmt:
		inspectExpr(n.Value, f)
		if n.Else != nil {
			Inspect(n.Else, f)
		}
	case *ExprStmt:
		inspectExpr(n.X, f)
	case *ItemStmt:
		Inspect(n.Item, f)

	// Expressions
	case *CallExpr:
		inspectExpr(n.Func, f)
		inspectExprs(n.Args, f)
	case *MethodCallExpr:
		inspectExpr(n.Receiver, f)
		inspectExprs(n.CallArgs, f)
	case *FieldExpr:
		inspectExpr(n.Receiver, f)
	case *IndexExpr:
		inspectExpr(n.X, f)
		inspectExpr(n.Index, f)
	case *UnaryExpr:
		inspectExpr(n.X, f)
	case *BinaryExpr:
		inspectExpr(n.Left, f)
		inspectExpr(n.Right, f)
	case *CastExpr:
		inspectExpr(n.X, f)
	case *TryExpr:
		inspectExpr(n.X, f)
	case *RangeExpr:
		inspectExpr(n.Lo, f)
		inspectExpr(n.Hi, f)
	case *TupleExpr:
		inspectExprs(n.Elems, f)
	case *ParenExpr:
		inspectExpr(n.X, f)
	case *ArrayExpr:
		inspectExprs(n.Elems, f)
		inspectExpr(n.Repeat, f)
	case *BlockExpr:
		for _, s := range n.Stmts {
			Inspect(s, f)
		}
		inspectExpr(n.Tail, f)
	case *IfExpr:
		inspectExpr(n.Cond, f)
		Inspect(n.Then, f)
		inspectExpr(n.Else, f)
	case *LetExpr:
		inspectExpr(n.Value, f)
	case *WhileExpr:
		inspectExpr(n.Cond, f)
		Inspect(n.Body, f)
	case *LoopExpr:
		Inspect(n.Body, f)
	case *ForExpr:
		inspectExpr(n.Iter, f)
		Inspect(n.Body, f)
	case *MatchExpr:
		inspectExpr(n.Scrutinee, f)
		for _, arm := range n.Arms {
			inspectExpr(arm.Guard, f)
			inspectExpr(arm.Body, f)
		}
	case *ReturnExpr:
		inspectExpr(n.Value, f)
	case *BreakExpr:
		inspectExpr(n.Value, f)
	case *StructExpr:
		for _, field := range n.Fields {
			inspectExpr(field.Value, f)
		}
		inspectExpr(n.Base, f)
	case *ClosureExpr:
		inspectExpr(n.Body, f)
	}
}

func inspectItems(items []Item, f func(Node) bool) {
	for _, item := range items {
		Inspect(item, f)
	}
}

func inspectExprs(exprs []Expr, f func(Node) bool) {
	for _, e := range exprs {
		inspectExpr(e, f)
	}
}

// inspectExpr guards against typed nil expressions stored in optional fields.
func inspectExpr(e Expr, f func(Node) bool) {
	if e == nil {
		return
	}
	if b, ok := e.(*BlockExpr); ok && b == nil {
		return
	}
	Inspect(e, f)
}
