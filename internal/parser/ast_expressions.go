package parser

import (
	"github.com/orizon-lang/modcheck/internal/lexer"
	"github.com/orizon-lang/modcheck/internal/position"
)

// ====== Statements ======

// LetStmt is `let pat [: T] [= value [else { ... }]];`
type LetStmt struct {
	Span    position.Span
	Pattern Pattern
	Type    TypeRef
	Value   Expr
	Else    *BlockExpr
}

func (s *LetStmt) GetSpan() position.Span { return s.Span }
func (s *LetStmt) stmtNode()              {}

// ExprStmt is an expression in statement position
type ExprStmt struct {
	Span position.Span
	X    Expr
	Semi bool
}

func (s *ExprStmt) GetSpan() position.Span { return s.Span }
func (s *ExprStmt) stmtNode()              {}

// ItemStmt is an item declared inside a block
type ItemStmt struct {
	Item Item
}

func (s *ItemStmt) GetSpan() position.Span { return s.Item.GetSpan() }
func (s *ItemStmt) stmtNode()              {}

// ====== Expressions ======

// Literal is an integer, float, string, char or boolean literal
type Literal struct {
	Span  position.Span
	Kind  lexer.TokenType
	Value string
}

func (e *Literal) GetSpan() position.Span { return e.Span }
func (e *Literal) exprNode()              {}

// PathExpr is a path in value position, such as `math::sin` or `x`
type PathExpr struct {
	Span position.Span
	Path *Path
}

func (e *PathExpr) GetSpan() position.Span { return e.Span }
func (e *PathExpr) exprNode()              {}

// QualifiedPathExpr is `<T as Trait>::name` in value position
type QualifiedPathExpr struct {
	Span position.Span
	Type *QualifiedType
}

func (e *QualifiedPathExpr) GetSpan() position.Span { return e.Span }
func (e *QualifiedPathExpr) exprNode()              {}

// CallExpr is `f(args)`
type CallExpr struct {
	Span position.Span
	Func Expr
	Args []Expr
}

func (e *CallExpr) GetSpan() position.Span { return e.Span }
func (e *CallExpr) exprNode()              {}

// MethodCallExpr is `recv.method::<T>(args)`
type MethodCallExpr struct {
	Span     position.Span
	Receiver Expr
	Method   *Ident
	Args     *GenericArgs
	CallArgs []Expr
}

func (e *MethodCallExpr) GetSpan() position.Span { return e.Span }
func (e *MethodCallExpr) exprNode()              {}

// FieldExpr is `x.field` or `x.0`
type FieldExpr struct {
	Span     position.Span
	Receiver Expr
	Field    string
}

func (e *FieldExpr) GetSpan() position.Span { return e.Span }
func (e *FieldExpr) exprNode()              {}

// IndexExpr is `x[i]`
type IndexExpr struct {
	Span  position.Span
	X     Expr
	Index Expr
}

func (e *IndexExpr) GetSpan() position.Span { return e.Span }
func (e *IndexExpr) exprNode()              {}

// UnaryExpr is a prefix operation: `-x`, `!x`, `*x`, `&x`, `&mut x`
type UnaryExpr struct {
	Span position.Span
	Op   lexer.TokenType
	Mut  bool
	X    Expr
}

func (e *UnaryExpr) GetSpan() position.Span { return e.Span }
func (e *UnaryExpr) exprNode()              {}

// BinaryExpr covers arithmetic, comparison, logical and assignment operators
type BinaryExpr struct {
	Span  position.Span
	Op    lexer.TokenType
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) GetSpan() position.Span { return e.Span }
func (e *BinaryExpr) exprNode()              {}

// CastExpr is `x as T`
type CastExpr struct {
	Span position.Span
	X    Expr
	Type TypeRef
}

func (e *CastExpr) GetSpan() position.Span { return e.Span }
func (e *CastExpr) exprNode()              {}

// TryExpr is `x?`
type TryExpr struct {
	Span position.Span
	X    Expr
}

func (e *TryExpr) GetSpan() position.Span { return e.Span }
func (e *TryExpr) exprNode()              {}

// RangeExpr is `lo..hi`, `lo..=hi` or any of the open forms
type RangeExpr struct {
	Span      position.Span
	Lo        Expr
	Hi        Expr
	Inclusive bool
}

func (e *RangeExpr) GetSpan() position.Span { return e.Span }
func (e *RangeExpr) exprNode()              {}

// TupleExpr is `(a, b)`; the unit value `()` has no elements
type TupleExpr struct {
	Span  position.Span
	Elems []Expr
}

func (e *TupleExpr) GetSpan() position.Span { return e.Span }
func (e *TupleExpr) exprNode()              {}

// ParenExpr is a parenthesized expression
type ParenExpr struct {
	Span position.Span
	X    Expr
}

func (e *ParenExpr) GetSpan() position.Span { return e.Span }
func (e *ParenExpr) exprNode()              {}

// ArrayExpr is `[a, b]` or the repeat form `[x; n]`
type ArrayExpr struct {
	Span   position.Span
	Elems  []Expr
	Repeat Expr
}

func (e *ArrayExpr) GetSpan() position.Span { return e.Span }
func (e *ArrayExpr) exprNode()              {}

// BlockExpr is `{ stmts; tail }`, optionally unsafe, async or labeled
type BlockExpr struct {
	Span   position.Span
	Label  string
	Unsafe bool
	Async  bool
	Move   bool
	Stmts  []Stmt
	Tail   Expr
}

func (e *BlockExpr) GetSpan() position.Span { return e.Span }
func (e *BlockExpr) exprNode()              {}

// HasItems reports whether the block declares nested items
func (e *BlockExpr) HasItems() bool {
	for _, s := range e.Stmts {
		if _, ok := s.(*ItemStmt); ok {
			return true
		}
	}
	return false
}

// IfExpr is `if cond { } else ...`; Else is a *BlockExpr or *IfExpr
type IfExpr struct {
	Span position.Span
	Cond Expr
	Then *BlockExpr
	Else Expr
}

func (e *IfExpr) GetSpan() position.Span { return e.Span }
func (e *IfExpr) exprNode()              {}

// LetExpr is the `let pat = value` condition of `if let` and `while let`
type LetExpr struct {
	Span    position.Span
	Pattern Pattern
	Value   Expr
}

func (e *LetExpr) GetSpan() position.Span { return e.Span }
func (e *LetExpr) exprNode()              {}

// WhileExpr is `while cond { }`
type WhileExpr struct {
	Span  position.Span
	Label string
	Cond  Expr
	Body  *BlockExpr
}

func (e *WhileExpr) GetSpan() position.Span { return e.Span }
func (e *WhileExpr) exprNode()              {}

// LoopExpr is `loop { }`
type LoopExpr struct {
	Span  position.Span
	Label string
	Body  *BlockExpr
}

func (e *LoopExpr) GetSpan() position.Span { return e.Span }
func (e *LoopExpr) exprNode()              {}

// ForExpr is `for pat in iter { }`
type ForExpr struct {
	Span    position.Span
	Label   string
	Pattern Pattern
	Iter    Expr
	Body    *BlockExpr
}

func (e *ForExpr) GetSpan() position.Span { return e.Span }
func (e *ForExpr) exprNode()              {}

// MatchExpr is `match x { arms }`
type MatchExpr struct {
	Span      position.Span
	Scrutinee Expr
	Arms      []*MatchArm
}

func (e *MatchExpr) GetSpan() position.Span { return e.Span }
func (e *MatchExpr) exprNode()              {}

// MatchArm is `pat [if guard] => body`
type MatchArm struct {
	Span    position.Span
	Pattern Pattern
	Guard   Expr
	Body    Expr
}

// ReturnExpr is `return [value]`
type ReturnExpr struct {
	Span  position.Span
	Value Expr
}

func (e *ReturnExpr) GetSpan() position.Span { return e.Span }
func (e *ReturnExpr) exprNode()              {}

// BreakExpr is `break ['label] [value]`
type BreakExpr struct {
	Span  position.Span
	Label string
	Value Expr
}

func (e *BreakExpr) GetSpan() position.Span { return e.Span }
func (e *BreakExpr) exprNode()              {}

// ContinueExpr is `continue ['label]`
type ContinueExpr struct {
	Span  position.Span
	Label string
}

func (e *ContinueExpr) GetSpan() position.Span { return e.Span }
func (e *ContinueExpr) exprNode()              {}

// StructExpr is `Path { field: value, ..base }`
type StructExpr struct {
	Span   position.Span
	Path   *Path
	Fields []*FieldInit
	Base   Expr
}

func (e *StructExpr) GetSpan() position.Span { return e.Span }
func (e *StructExpr) exprNode()              {}

// FieldInit is `name: value` or the shorthand `name`
type FieldInit struct {
	Span  position.Span
	Name  *Ident
	Value Expr // nil for shorthand
}

// ClosureExpr is `[move] |params| [-> T] body`
type ClosureExpr struct {
	Span       position.Span
	Move       bool
	Async      bool
	Params     []*ClosureParam
	ReturnType TypeRef
	Body       Expr
}

func (e *ClosureExpr) GetSpan() position.Span { return e.Span }
func (e *ClosureExpr) exprNode()              {}

// ClosureParam is a closure parameter with an optional type
type ClosureParam struct {
	Span    position.Span
	Pattern Pattern
	Type    TypeRef
}

// MacroCall is `path!(...)`; its arguments are skipped as a token tree
type MacroCall struct {
	Span   position.Span
	Path   *Path
	Braced bool // `name! { ... }` needs no trailing semicolon
}

func (e *MacroCall) GetSpan() position.Span { return e.Span }
func (e *MacroCall) exprNode()              {}

// ====== Patterns ======

// WildcardPattern is `_`
type WildcardPattern struct {
	Span position.Span
}

func (p *WildcardPattern) GetSpan() position.Span { return p.Span }
func (p *WildcardPattern) patternNode()           {}

// RestPattern is `..` inside tuple and slice patterns
type RestPattern struct {
	Span position.Span
}

func (p *RestPattern) GetSpan() position.Span { return p.Span }
func (p *RestPattern) patternNode()           {}

// IdentPattern is `[ref] [mut] name [@ sub]`. A bare name may also denote a
// unit variant or constant; the resolver decides.
type IdentPattern struct {
	Span position.Span
	Ref  bool
	Mut  bool
	Name *Ident
	Sub  Pattern
}

func (p *IdentPattern) GetSpan() position.Span { return p.Span }
func (p *IdentPattern) patternNode()           {}

// PathPattern is a multi-segment path such as `Color::Red`
type PathPattern struct {
	Span position.Span
	Path *Path
}

func (p *PathPattern) GetSpan() position.Span { return p.Span }
func (p *PathPattern) patternNode()           {}

// TupleStructPattern is `Some(x)`
type TupleStructPattern struct {
	Span  position.Span
	Path  *Path
	Elems []Pattern
}

func (p *TupleStructPattern) GetSpan() position.Span { return p.Span }
func (p *TupleStructPattern) patternNode()           {}

// StructPattern is `Point { x, y: py, .. }`
type StructPattern struct {
	Span   position.Span
	Path   *Path
	Fields []*FieldPattern
	Rest   bool
}

func (p *StructPattern) GetSpan() position.Span { return p.Span }
func (p *StructPattern) patternNode()           {}

// FieldPattern is `name: pat` or the shorthand binding `[ref] [mut] name`
type FieldPattern struct {
	Span    position.Span
	Name    *Ident
	Pattern Pattern
}

// TuplePattern is `(a, b)`
type TuplePattern struct {
	Span  position.Span
	Elems []Pattern
}

func (p *TuplePattern) GetSpan() position.Span { return p.Span }
func (p *TuplePattern) patternNode()           {}

// SlicePattern is `[a, .., b]`
type SlicePattern struct {
	Span  position.Span
	Elems []Pattern
}

func (p *SlicePattern) GetSpan() position.Span { return p.Span }
func (p *SlicePattern) patternNode()           {}

// RefPattern is `&pat` or `&mut pat`
type RefPattern struct {
	Span    position.Span
	Mut     bool
	Pattern Pattern
}

func (p *RefPattern) GetSpan() position.Span { return p.Span }
func (p *RefPattern) patternNode()           {}

// LiteralPattern matches a literal value
type LiteralPattern struct {
	Span  position.Span
	Value Expr
}

func (p *LiteralPattern) GetSpan() position.Span { return p.Span }
func (p *LiteralPattern) patternNode()           {}

// RangePattern is `lo..=hi` or `lo..hi` with literal or path bounds
type RangePattern struct {
	Span      position.Span
	Lo        Expr
	Hi        Expr
	Inclusive bool
}

func (p *RangePattern) GetSpan() position.Span { return p.Span }
func (p *RangePattern) patternNode()           {}

// OrPattern is `a | b`
type OrPattern struct {
	Span position.Span
	Alts []Pattern
}

func (p *OrPattern) GetSpan() position.Span { return p.Span }
func (p *OrPattern) patternNode()           {}
