package parser

import (
	"github.com/orizon-lang/modcheck/internal/lexer"
	"github.com/orizon-lang/modcheck/internal/position"
)

// Precedence represents operator precedence levels
type Precedence int

const (
	_ Precedence = iota
	LOWEST
	ASSIGN      // = += -= ...
	RANGE       // .. ..=
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	COMPARE     // == != < > <= >=
	BITWISE_OR  // |
	BITWISE_XOR // ^
	BITWISE_AND // &
	SHIFT       // << >>
	SUM         // + -
	PRODUCT     // * / %
	CAST        // as
	PREFIX      // -x !x *x &x
)

// precedences maps binary operators to their precedence
var precedences = map[lexer.TokenType]Precedence{
	lexer.TokenEq:        ASSIGN,
	lexer.TokenPlusEq:    ASSIGN,
	lexer.TokenMinusEq:   ASSIGN,
	lexer.TokenStarEq:    ASSIGN,
	lexer.TokenSlashEq:   ASSIGN,
	lexer.TokenPercentEq: ASSIGN,
	lexer.TokenCaretEq:   ASSIGN,
	lexer.TokenAndEq:     ASSIGN,
	lexer.TokenOrEq:      ASSIGN,
	lexer.TokenShlEq:     ASSIGN,
	lexer.TokenShrEq:     ASSIGN,

	lexer.TokenDotDot:   RANGE,
	lexer.TokenDotDotEq: RANGE,

	lexer.TokenOrOr:   LOGICAL_OR,
	lexer.TokenAndAnd: LOGICAL_AND,

	lexer.TokenEqEq: COMPARE,
	lexer.TokenNe:   COMPARE,
	lexer.TokenLt:   COMPARE,
	lexer.TokenGt:   COMPARE,
	lexer.TokenLe:   COMPARE,
	lexer.TokenGe:   COMPARE,

	lexer.TokenOr:    BITWISE_OR,
	lexer.TokenCaret: BITWISE_XOR,
	lexer.TokenAnd:   BITWISE_AND,
	lexer.TokenShl:   SHIFT,
	lexer.TokenShr:   SHIFT,

	lexer.TokenPlus:    SUM,
	lexer.TokenMinus:   SUM,
	lexer.TokenStar:    PRODUCT,
	lexer.TokenSlash:   PRODUCT,
	lexer.TokenPercent: PRODUCT,

	lexer.TokenAs: CAST,
}

func isLiteralToken(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenInteger, lexer.TokenFloat, lexer.TokenString, lexer.TokenChar, lexer.TokenTrue, lexer.TokenFalse:
		return true
	}
	return false
}

// canStartExpression reports whether tok can begin an expression
func (p *Parser) canStartExpression(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.TokenIdentifier, lexer.TokenPathSep, lexer.TokenSelfValue, lexer.TokenSelfType,
		lexer.TokenSuper, lexer.TokenCrate, lexer.TokenLParen, lexer.TokenLBracket,
		lexer.TokenMinus, lexer.TokenNot, lexer.TokenStar, lexer.TokenAnd, lexer.TokenAndAnd,
		lexer.TokenOr, lexer.TokenOrOr, lexer.TokenMove, lexer.TokenIf, lexer.TokenMatch,
		lexer.TokenLoop, lexer.TokenWhile, lexer.TokenFor, lexer.TokenUnsafe, lexer.TokenAsync,
		lexer.TokenReturn, lexer.TokenBreak, lexer.TokenContinue, lexer.TokenLt, lexer.TokenLifetime,
		lexer.TokenDotDot, lexer.TokenDotDotEq, lexer.TokenLet:
		return true
	case lexer.TokenLBrace:
		return !p.noStruct
	}
	return isLiteralToken(tok.Type)
}

// parseExpression parses a full expression
func (p *Parser) parseExpression() Expr {
	return p.parseExpressionPrec(LOWEST)
}

// parseExpressionPrec parses an expression whose operators bind tighter
// than precedence, using Pratt parsing
func (p *Parser) parseExpressionPrec(precedence Precedence) Expr {
	start := p.current.Span.Start

	var left Expr
	if p.currentTokenIs(lexer.TokenDotDot) || p.currentTokenIs(lexer.TokenDotDotEq) {
		inclusive := p.currentTokenIs(lexer.TokenDotDotEq)
		p.nextToken()
		r := &RangeExpr{Inclusive: inclusive}
		if p.canStartExpression(p.current) {
			r.Hi = p.parseExpressionPrec(RANGE)
		}
		r.Span = p.spanFrom(start)
		left = r
	} else {
		left = p.parseUnaryExpression()
	}

	return p.parseInfixExpressions(left, precedence)
}

// parseInfixExpressions continues an expression with binary operators
func (p *Parser) parseInfixExpressions(left Expr, precedence Precedence) Expr {
	start := left.GetSpan().Start

	for {
		op := p.current.Type
		opPrec, ok := precedences[op]
		if !ok || opPrec <= precedence {
			// assignment is right associative
			if !(ok && opPrec == ASSIGN && precedence == ASSIGN) {
				return left
			}
		}
		p.nextToken()

		switch {
		case op == lexer.TokenAs:
			t := p.parseTypeNoBounds()
			left = &CastExpr{Span: p.spanFrom(start), X: left, Type: t}

		case opPrec == RANGE:
			r := &RangeExpr{Lo: left, Inclusive: op == lexer.TokenDotDotEq}
			if p.canStartExpression(p.current) {
				r.Hi = p.parseExpressionPrec(RANGE)
			}
			r.Span = p.spanFrom(start)
			left = r

		case opPrec == ASSIGN:
			right := p.parseExpressionPrec(ASSIGN)
			left = &BinaryExpr{Span: p.spanFrom(start), Op: op, Left: left, Right: right}

		default:
			right := p.parseExpressionPrec(opPrec)
			left = &BinaryExpr{Span: p.spanFrom(start), Op: op, Left: left, Right: right}
		}
	}
}

// parseUnaryExpression parses prefix operators and then postfix operators
func (p *Parser) parseUnaryExpression() Expr {
	start := p.current.Span.Start

	switch p.current.Type {
	case lexer.TokenMinus, lexer.TokenNot, lexer.TokenStar:
		op := p.current.Type
		p.nextToken()
		x := p.parseUnaryExpression()
		return &UnaryExpr{Span: p.spanFrom(start), Op: op, X: x}

	case lexer.TokenAnd, lexer.TokenAndAnd:
		if p.currentTokenIs(lexer.TokenAndAnd) {
			p.splitToken(lexer.TokenAnd, lexer.TokenAnd)
		}
		p.nextToken()
		mut := p.accept(lexer.TokenMut)
		x := p.parseUnaryExpression()
		return &UnaryExpr{Span: p.spanFrom(start), Op: lexer.TokenAnd, Mut: mut, X: x}
	}

	return p.parsePostfixExpressions(p.parsePrimaryExpression())
}

// parsePostfixExpressions parses calls, indexing, field access, method
// calls and `?`
func (p *Parser) parsePostfixExpressions(left Expr) Expr {
	start := left.GetSpan().Start

	for {
		switch p.current.Type {
		case lexer.TokenQuestion:
			p.nextToken()
			left = &TryExpr{Span: p.spanFrom(start), X: left}

		case lexer.TokenLParen:
			args := p.parseCallArguments()
			left = &CallExpr{Span: p.spanFrom(start), Func: left, Args: args}

		case lexer.TokenLBracket:
			p.nextToken()
			index := p.withStructLiterals(p.parseExpression)
			p.expect(lexer.TokenRBracket, "`]`")
			left = &IndexExpr{Span: p.spanFrom(start), X: left, Index: index}

		case lexer.TokenDot:
			p.nextToken()
			switch p.current.Type {
			case lexer.TokenInteger, lexer.TokenFloat:
				field := p.current.Literal
				p.nextToken()
				left = &FieldExpr{Span: p.spanFrom(start), Receiver: left, Field: field}
			case lexer.TokenIdentifier:
				name := p.expectIdent()
				var generics *GenericArgs
				if p.currentTokenIs(lexer.TokenPathSep) {
					p.nextToken()
					generics = p.parseGenericArgs()
				}
				if p.currentTokenIs(lexer.TokenLParen) {
					args := p.parseCallArguments()
					left = &MethodCallExpr{Span: p.spanFrom(start), Receiver: left, Method: name, Args: generics, CallArgs: args}
				} else {
					left = &FieldExpr{Span: p.spanFrom(start), Receiver: left, Field: name.Name}
				}
			default:
				p.fail("field or method name")
			}

		default:
			return left
		}
	}
}

// parseCallArguments parses a parenthesized, comma-separated expression list
func (p *Parser) parseCallArguments() []Expr {
	p.expect(lexer.TokenLParen, "`(`")
	var args []Expr
	p.withStructLiterals(func() Expr {
		for !p.currentTokenIs(lexer.TokenRParen) {
			args = append(args, p.parseExpression())
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
		return nil
	})
	p.expect(lexer.TokenRParen, "`)`")
	return args
}

// withStructLiterals runs fn with struct literals re-enabled, as inside
// parentheses and brackets
func (p *Parser) withStructLiterals(fn func() Expr) Expr {
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()
	return fn()
}

// withoutStructLiterals runs fn with struct literals disabled
func (p *Parser) withoutStructLiterals(fn func() Expr) Expr {
	saved := p.noStruct
	p.noStruct = true
	defer func() { p.noStruct = saved }()
	return fn()
}

// parsePrimaryExpression parses literals, paths and the keyword expressions
func (p *Parser) parsePrimaryExpression() Expr {
	start := p.current.Span.Start

	switch p.current.Type {
	case lexer.TokenInteger, lexer.TokenFloat, lexer.TokenString, lexer.TokenChar, lexer.TokenTrue, lexer.TokenFalse:
		return p.parseLiteralExpr()

	case lexer.TokenIdentifier, lexer.TokenPathSep, lexer.TokenSelfValue, lexer.TokenSelfType,
		lexer.TokenSuper, lexer.TokenCrate:
		return p.parsePathExpression()

	case lexer.TokenLt, lexer.TokenShl:
		q := p.parseQualifiedType()
		return &QualifiedPathExpr{Span: q.Span, Type: q}

	case lexer.TokenLParen:
		return p.parseParenExpression()

	case lexer.TokenLBracket:
		return p.parseArrayExpression()

	case lexer.TokenLBrace:
		return p.parseBlock()

	case lexer.TokenUnsafe:
		p.nextToken()
		block := p.parseBlock()
		block.Unsafe = true
		block.Span = p.spanFrom(start)
		return block

	case lexer.TokenAsync:
		if next := p.peekToken(1).Type; next == lexer.TokenOr || next == lexer.TokenOrOr ||
			(next == lexer.TokenMove && p.peekToken(2).Type != lexer.TokenLBrace) {
			return p.parseClosureExpression()
		}
		p.nextToken()
		move := p.accept(lexer.TokenMove)
		block := p.parseBlock()
		block.Async, block.Move = true, move
		block.Span = p.spanFrom(start)
		return block

	case lexer.TokenMove, lexer.TokenOr, lexer.TokenOrOr:
		return p.parseClosureExpression()

	case lexer.TokenLifetime:
		label := p.current.Literal
		p.nextToken()
		p.expect(lexer.TokenColon, "`:`")
		return p.parseLabeled(start, label)

	case lexer.TokenIf:
		return p.parseIfExpression()
	case lexer.TokenWhile, lexer.TokenLoop, lexer.TokenFor:
		return p.parseLabeled(start, "")
	case lexer.TokenMatch:
		return p.parseMatchExpression()

	case lexer.TokenLet:
		p.nextToken()
		pat := p.parsePattern()
		p.expect(lexer.TokenEq, "`=`")
		value := p.parseExpressionPrec(LOGICAL_AND)
		return &LetExpr{Span: p.spanFrom(start), Pattern: pat, Value: value}

	case lexer.TokenReturn:
		p.nextToken()
		ret := &ReturnExpr{}
		if p.canStartExpression(p.current) {
			ret.Value = p.parseExpression()
		}
		ret.Span = p.spanFrom(start)
		return ret

	case lexer.TokenBreak:
		p.nextToken()
		brk := &BreakExpr{}
		if p.currentTokenIs(lexer.TokenLifetime) {
			brk.Label = p.current.Literal
			p.nextToken()
		}
		if p.canStartExpression(p.current) {
			brk.Value = p.parseExpression()
		}
		brk.Span = p.spanFrom(start)
		return brk

	case lexer.TokenContinue:
		p.nextToken()
		cont := &ContinueExpr{}
		if p.currentTokenIs(lexer.TokenLifetime) {
			cont.Label = p.current.Literal
			p.nextToken()
		}
		cont.Span = p.spanFrom(start)
		return cont
	}

	p.fail("expression")
	return nil
}

// parseLiteralExpr parses a literal, optionally negated
func (p *Parser) parseLiteralExpr() Expr {
	start := p.current.Span.Start
	if p.accept(lexer.TokenMinus) {
		x := p.parseLiteralExpr()
		return &UnaryExpr{Span: p.spanFrom(start), Op: lexer.TokenMinus, X: x}
	}
	if !isLiteralToken(p.current.Type) {
		p.fail("literal")
	}
	lit := &Literal{Span: p.current.Span, Kind: p.current.Type, Value: p.current.Literal}
	p.nextToken()
	return lit
}

// parsePathExpression parses a path, macro call or struct literal
func (p *Parser) parsePathExpression() Expr {
	start := p.current.Span.Start
	path := p.parsePath(pathModeExpr)

	if p.currentTokenIs(lexer.TokenNot) && p.isDelimiter(p.peekToken(1).Type) {
		p.nextToken()
		braced := p.currentTokenIs(lexer.TokenLBrace)
		p.skipTokenTree()
		return &MacroCall{Span: p.spanFrom(start), Path: path, Braced: braced}
	}

	if p.currentTokenIs(lexer.TokenLBrace) && !p.noStruct && p.looksLikeStructLiteral() {
		return p.parseStructExpression(start, path)
	}
	return &PathExpr{Span: path.Span, Path: path}
}

func (p *Parser) isDelimiter(tt lexer.TokenType) bool {
	return tt == lexer.TokenLParen || tt == lexer.TokenLBracket || tt == lexer.TokenLBrace
}

// looksLikeStructLiteral checks the tokens after `{`
func (p *Parser) looksLikeStructLiteral() bool {
	t1, t2 := p.peekToken(1).Type, p.peekToken(2).Type
	switch t1 {
	case lexer.TokenRBrace, lexer.TokenDotDot:
		return true
	case lexer.TokenIdentifier, lexer.TokenInteger:
		return t2 == lexer.TokenColon || t2 == lexer.TokenComma || t2 == lexer.TokenRBrace
	}
	return false
}

// parseStructExpression parses `Path { field: value, ..base }`
func (p *Parser) parseStructExpression(start position.Position, path *Path) Expr {
	p.expect(lexer.TokenLBrace, "`{`")
	s := &StructExpr{Path: path}

	p.withStructLiterals(func() Expr {
		for !p.currentTokenIs(lexer.TokenRBrace) {
			if p.accept(lexer.TokenDotDot) {
				if !p.currentTokenIs(lexer.TokenRBrace) {
					s.Base = p.parseExpression()
				}
				break
			}

			fstart := p.current.Span.Start
			field := &FieldInit{}
			if p.currentTokenIs(lexer.TokenInteger) {
				field.Name = &Ident{Span: p.current.Span, Name: p.current.Literal}
				p.nextToken()
			} else {
				field.Name = p.expectIdent()
			}
			if p.accept(lexer.TokenColon) {
				field.Value = p.parseExpression()
			}
			field.Span = p.spanFrom(fstart)
			s.Fields = append(s.Fields, field)

			if !p.accept(lexer.TokenComma) {
				break
			}
		}
		return nil
	})

	p.expect(lexer.TokenRBrace, "`}`")
	s.Span = p.spanFrom(start)
	return s
}

// parseParenExpression parses `()`, `(x)` and `(a, b)`
func (p *Parser) parseParenExpression() Expr {
	start := p.current.Span.Start
	p.expect(lexer.TokenLParen, "`(`")

	var elems []Expr
	trailingComma := false
	p.withStructLiterals(func() Expr {
		for !p.currentTokenIs(lexer.TokenRParen) {
			elems = append(elems, p.parseExpression())
			trailingComma = false
			if !p.accept(lexer.TokenComma) {
				break
			}
			trailingComma = true
		}
		return nil
	})
	p.expect(lexer.TokenRParen, "`)`")

	if len(elems) == 1 && !trailingComma {
		return &ParenExpr{Span: p.spanFrom(start), X: elems[0]}
	}
	return &TupleExpr{Span: p.spanFrom(start), Elems: elems}
}

// parseArrayExpression parses `[a, b]` and `[x; n]`
func (p *Parser) parseArrayExpression() Expr {
	start := p.current.Span.Start
	p.expect(lexer.TokenLBracket, "`[`")
	arr := &ArrayExpr{}

	p.withStructLiterals(func() Expr {
		if p.currentTokenIs(lexer.TokenRBracket) {
			return nil
		}
		first := p.parseExpression()
		arr.Elems = append(arr.Elems, first)
		if p.accept(lexer.TokenSemicolon) {
			arr.Repeat = p.parseExpression()
			return nil
		}
		for p.accept(lexer.TokenComma) && !p.currentTokenIs(lexer.TokenRBracket) {
			arr.Elems = append(arr.Elems, p.parseExpression())
		}
		return nil
	})

	p.expect(lexer.TokenRBracket, "`]`")
	arr.Span = p.spanFrom(start)
	return arr
}

// parseClosureExpression parses `[async] [move] |params| [-> T] body`
func (p *Parser) parseClosureExpression() Expr {
	start := p.current.Span.Start
	c := &ClosureExpr{}
	c.Async = p.accept(lexer.TokenAsync)
	c.Move = p.accept(lexer.TokenMove)

	if p.currentTokenIs(lexer.TokenOrOr) {
		p.nextToken()
	} else {
		p.expect(lexer.TokenOr, "`|`")
		for !p.currentTokenIs(lexer.TokenOr) {
			pstart := p.current.Span.Start
			param := &ClosureParam{Pattern: p.parsePatternNoAlt()}
			if p.accept(lexer.TokenColon) {
				param.Type = p.parseTypeNoBounds()
			}
			param.Span = p.spanFrom(pstart)
			c.Params = append(c.Params, param)
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
		p.expect(lexer.TokenOr, "`|`")
	}

	if p.accept(lexer.TokenRArrow) {
		c.ReturnType = p.parseTypeNoBounds()
		c.Body = p.parseBlock()
	} else {
		c.Body = p.parseExpression()
	}
	c.Span = p.spanFrom(start)
	return c
}

// parseIfExpression parses `if cond { } [else if ... | else { }]`
func (p *Parser) parseIfExpression() Expr {
	start := p.current.Span.Start
	p.expect(lexer.TokenIf, "`if`")

	ifExpr := &IfExpr{}
	ifExpr.Cond = p.withoutStructLiterals(p.parseExpression)
	ifExpr.Then = p.parseBlock()

	if p.accept(lexer.TokenElse) {
		if p.currentTokenIs(lexer.TokenIf) {
			ifExpr.Else = p.parseIfExpression()
		} else {
			ifExpr.Else = p.parseBlock()
		}
	}
	ifExpr.Span = p.spanFrom(start)
	return ifExpr
}

// parseLabeled parses loops and blocks that may carry a label
func (p *Parser) parseLabeled(start position.Position, label string) Expr {
	switch p.current.Type {
	case lexer.TokenWhile:
		p.nextToken()
		w := &WhileExpr{Label: label}
		w.Cond = p.withoutStructLiterals(p.parseExpression)
		w.Body = p.parseBlock()
		w.Span = p.spanFrom(start)
		return w

	case lexer.TokenLoop:
		p.nextToken()
		body := p.parseBlock()
		return &LoopExpr{Span: p.spanFrom(start), Label: label, Body: body}

	case lexer.TokenFor:
		p.nextToken()
		f := &ForExpr{Label: label}
		f.Pattern = p.parsePattern()
		p.expect(lexer.TokenIn, "`in`")
		f.Iter = p.withoutStructLiterals(p.parseExpression)
		f.Body = p.parseBlock()
		f.Span = p.spanFrom(start)
		return f

	case lexer.TokenLBrace:
		block := p.parseBlock()
		block.Label = label
		block.Span = p.spanFrom(start)
		return block
	}

	p.fail("loop or block after label")
	return nil
}

// parseMatchExpression parses `match x { pat [if guard] => body, ... }`
func (p *Parser) parseMatchExpression() Expr {
	start := p.current.Span.Start
	p.expect(lexer.TokenMatch, "`match`")

	m := &MatchExpr{}
	m.Scrutinee = p.withoutStructLiterals(p.parseExpression)
	p.expect(lexer.TokenLBrace, "`{`")
	p.parseInnerAttributes()

	p.withStructLiterals(func() Expr {
		for !p.currentTokenIs(lexer.TokenRBrace) {
			p.parseOuterAttributes()
			astart := p.current.Span.Start
			arm := &MatchArm{Pattern: p.parsePattern()}
			if p.accept(lexer.TokenIf) {
				arm.Guard = p.parseExpression()
			}
			p.expect(lexer.TokenFatArrow, "`=>`")
			arm.Body = p.parseExpression()
			arm.Span = p.spanFrom(astart)
			m.Arms = append(m.Arms, arm)

			if !p.accept(lexer.TokenComma) && !p.currentTokenIs(lexer.TokenRBrace) && !isBlockLike(arm.Body) {
				p.fail("`,` or `}`")
			}
		}
		return nil
	})

	p.expect(lexer.TokenRBrace, "`}`")
	m.Span = p.spanFrom(start)
	return m
}

// isBlockLike reports whether an expression ends with a block and may stand
// as a statement without a semicolon
func isBlockLike(e Expr) bool {
	switch x := e.(type) {
	case *BlockExpr, *IfExpr, *WhileExpr, *LoopExpr, *ForExpr, *MatchExpr:
		return true
	case *MacroCall:
		return x.Braced
	}
	return false
}

// ====== Blocks and Statements ======

// parseBlock parses `{ stmts [tail] }`
func (p *Parser) parseBlock() *BlockExpr {
	start := p.current.Span.Start
	p.expect(lexer.TokenLBrace, "`{`")
	block := &BlockExpr{}

	p.withStructLiterals(func() Expr {
		p.parseInnerAttributes()
		for !p.currentTokenIs(lexer.TokenRBrace) {
			if p.accept(lexer.TokenSemicolon) {
				continue
			}
			attrs := p.parseOuterAttributes()

			if p.isItemStart() {
				block.Stmts = append(block.Stmts, &ItemStmt{Item: p.parseItem(attrs)})
				continue
			}
			if p.currentTokenIs(lexer.TokenLet) {
				block.Stmts = append(block.Stmts, p.parseLetStatement())
				continue
			}

			sstart := p.current.Span.Start
			x := p.parseStatementExpression()
			switch {
			case p.accept(lexer.TokenSemicolon):
				block.Stmts = append(block.Stmts, &ExprStmt{Span: p.spanFrom(sstart), X: x, Semi: true})
			case p.currentTokenIs(lexer.TokenRBrace):
				block.Tail = x
			case isBlockLike(x):
				block.Stmts = append(block.Stmts, &ExprStmt{Span: p.spanFrom(sstart), X: x})
			default:
				p.fail("`;` or `}`")
			}
		}
		return nil
	})

	p.expect(lexer.TokenRBrace, "`}`")
	block.Span = p.spanFrom(start)
	return block
}

// parseStatementExpression parses an expression in statement position. A
// statement starting with a block-like expression ends with that block
// unless a method call or `?` continues it.
func (p *Parser) parseStatementExpression() Expr {
	switch p.current.Type {
	case lexer.TokenLBrace, lexer.TokenIf, lexer.TokenWhile, lexer.TokenLoop, lexer.TokenFor, lexer.TokenMatch:
	case lexer.TokenUnsafe:
		if !p.peekTokenIs(lexer.TokenLBrace) {
			return p.parseExpression()
		}
	case lexer.TokenLifetime:
		if !p.peekTokenIs(lexer.TokenColon) {
			return p.parseExpression()
		}
	default:
		return p.parseExpression()
	}

	x := p.parsePrimaryExpression()
	if p.currentTokenIs(lexer.TokenDot) || p.currentTokenIs(lexer.TokenQuestion) {
		x = p.parsePostfixExpressions(x)
		return p.parseInfixExpressions(x, LOWEST)
	}
	return x
}

// parseLetStatement parses `let pat [: T] [= value [else { }]];`
func (p *Parser) parseLetStatement() Stmt {
	start := p.current.Span.Start
	p.expect(lexer.TokenLet, "`let`")

	let := &LetStmt{Pattern: p.parsePattern()}
	if p.accept(lexer.TokenColon) {
		let.Type = p.parseType()
	}
	if p.accept(lexer.TokenEq) {
		let.Value = p.parseExpression()
		if p.accept(lexer.TokenElse) {
			let.Else = p.parseBlock()
		}
	}
	p.expect(lexer.TokenSemicolon, "`;`")
	let.Span = p.spanFrom(start)
	return let
}
