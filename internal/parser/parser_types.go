package parser

import (
	"github.com/orizon-lang/modcheck/internal/lexer"
)

// pathMode selects how generic arguments attach to path segments
type pathMode int

const (
	// pathModeType allows `Vec<T>` and `Fn(A) -> B`.
	pathModeType pathMode = iota
	// pathModeExpr only allows the turbofish `Vec::<T>`.
	pathModeExpr
)

func isPathSegmentStart(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenIdentifier, lexer.TokenSelfValue, lexer.TokenSelfType, lexer.TokenSuper, lexer.TokenCrate:
		return true
	}
	return false
}

// parsePath parses a path in type or expression position
func (p *Parser) parsePath(mode pathMode) *Path {
	start := p.current.Span.Start
	path := &Path{}
	if p.accept(lexer.TokenPathSep) {
		path.Global = true
	}

	for {
		if !isPathSegmentStart(p.current.Type) {
			p.fail("identifier")
		}
		seg := &PathSegment{Name: &Ident{Span: p.current.Span, Name: p.current.Literal}}
		p.nextToken()
		path.Segments = append(path.Segments, seg)

		if mode == pathModeType {
			switch p.current.Type {
			case lexer.TokenLt, lexer.TokenShl:
				seg.Args = p.parseGenericArgs()
			case lexer.TokenPathSep:
				if p.peekTokenIs(lexer.TokenLt) {
					p.nextToken()
					seg.Args = p.parseGenericArgs()
				}
			case lexer.TokenLParen:
				seg.Args = p.parseParenthesizedArgs()
			}
		} else if p.currentTokenIs(lexer.TokenPathSep) && (p.peekTokenIs(lexer.TokenLt) || p.peekTokenIs(lexer.TokenShl)) {
			p.nextToken()
			seg.Args = p.parseGenericArgs()
		}

		if !p.currentTokenIs(lexer.TokenPathSep) || !isPathSegmentStart(p.peekToken(1).Type) {
			break
		}
		p.nextToken()
	}

	path.Span = p.spanFrom(start)
	return path
}

// parseGenericArgs parses `<T, 'a, N, Item = U, Item: Bound>`
func (p *Parser) parseGenericArgs() *GenericArgs {
	start := p.current.Span.Start
	if !p.acceptLt() {
		p.fail("`<`")
	}

	args := &GenericArgs{}
	for !p.currentTokenIs(lexer.TokenGt) && !p.currentTokenIs(lexer.TokenShr) &&
		!p.currentTokenIs(lexer.TokenGe) && !p.currentTokenIs(lexer.TokenShrEq) {
		switch {
		case p.currentTokenIs(lexer.TokenLifetime):
			args.Lifetimes = append(args.Lifetimes, p.current.Literal)
			p.nextToken()
		case p.currentTokenIs(lexer.TokenIdentifier) && p.peekTokenIs(lexer.TokenEq):
			bstart := p.current.Span.Start
			name := p.expectIdent()
			p.nextToken()
			args.Bindings = append(args.Bindings, &AssocBinding{Name: name, Type: p.parseType(), Span: p.spanFrom(bstart)})
		case p.currentTokenIs(lexer.TokenIdentifier) && p.peekTokenIs(lexer.TokenColon):
			bstart := p.current.Span.Start
			name := p.expectIdent()
			p.nextToken()
			args.Bindings = append(args.Bindings, &AssocBinding{Name: name, Bounds: p.parseBounds(), Span: p.spanFrom(bstart)})
		case p.currentTokenIs(lexer.TokenLBrace):
			args.Consts = append(args.Consts, p.parseBlock())
		case isLiteralToken(p.current.Type) || p.currentTokenIs(lexer.TokenMinus):
			args.Consts = append(args.Consts, p.parseLiteralExpr())
		default:
			args.Types = append(args.Types, p.parseType())
		}
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.expectGt()
	args.Span = p.spanFrom(start)
	return args
}

// parseParenthesizedArgs parses the `(A, B) -> C` of `Fn(A, B) -> C`
func (p *Parser) parseParenthesizedArgs() *GenericArgs {
	start := p.current.Span.Start
	p.expect(lexer.TokenLParen, "`(`")
	args := &GenericArgs{Parenthesized: true}
	for !p.currentTokenIs(lexer.TokenRParen) {
		args.Types = append(args.Types, p.parseType())
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRParen, "`)`")
	if p.accept(lexer.TokenRArrow) {
		args.Output = p.parseTypeNoBounds()
	}
	args.Span = p.spanFrom(start)
	return args
}

// parseType parses a type, including `impl A + B` and `dyn A + B`
func (p *Parser) parseType() TypeRef {
	return p.parseTypeInner(true)
}

// parseTypeNoBounds parses a type where a trailing `+` is not part of it,
// as in `&dyn A` or the output of `Fn() -> T`
func (p *Parser) parseTypeNoBounds() TypeRef {
	return p.parseTypeInner(false)
}

func (p *Parser) parseTypeInner(allowPlus bool) TypeRef {
	start := p.current.Span.Start

	switch p.current.Type {
	case lexer.TokenLParen:
		p.nextToken()
		var elems []TypeRef
		trailingComma := false
		for !p.currentTokenIs(lexer.TokenRParen) {
			elems = append(elems, p.parseType())
			trailingComma = false
			if !p.accept(lexer.TokenComma) {
				break
			}
			trailingComma = true
		}
		p.expect(lexer.TokenRParen, "`)`")
		if len(elems) == 1 && !trailingComma {
			return elems[0]
		}
		return &TupleType{Span: p.spanFrom(start), Elems: elems}

	case lexer.TokenAnd, lexer.TokenAndAnd:
		if p.currentTokenIs(lexer.TokenAndAnd) {
			p.splitToken(lexer.TokenAnd, lexer.TokenAnd)
		}
		p.nextToken()
		ref := &RefType{}
		if p.currentTokenIs(lexer.TokenLifetime) {
			ref.Lifetime = p.current.Literal
			p.nextToken()
		}
		ref.Mut = p.accept(lexer.TokenMut)
		ref.Elem = p.parseTypeNoBounds()
		ref.Span = p.spanFrom(start)
		return ref

	case lexer.TokenStar:
		p.nextToken()
		ptr := &PointerType{}
		if p.accept(lexer.TokenMut) {
			ptr.Mut = true
		} else {
			p.expect(lexer.TokenConst, "`const` or `mut`")
		}
		ptr.Elem = p.parseTypeNoBounds()
		ptr.Span = p.spanFrom(start)
		return ptr

	case lexer.TokenLBracket:
		p.nextToken()
		elem := p.parseType()
		if p.accept(lexer.TokenSemicolon) {
			length := p.parseExpression()
			p.expect(lexer.TokenRBracket, "`]`")
			return &ArrayType{Span: p.spanFrom(start), Elem: elem, Len: length}
		}
		p.expect(lexer.TokenRBracket, "`]`")
		return &SliceType{Span: p.spanFrom(start), Elem: elem}

	case lexer.TokenNot:
		p.nextToken()
		return &NeverType{Span: p.spanFrom(start)}

	case lexer.TokenUnderscore:
		p.nextToken()
		return &InferType{Span: p.spanFrom(start)}

	case lexer.TokenImpl:
		p.nextToken()
		bounds := p.parseBoundList(allowPlus)
		return &OpaqueType{Span: p.spanFrom(start), Bounds: bounds}

	case lexer.TokenDyn:
		p.nextToken()
		bounds := p.parseBoundList(allowPlus)
		return &DynType{Span: p.spanFrom(start), Bounds: bounds}

	case lexer.TokenFn, lexer.TokenUnsafe, lexer.TokenExtern:
		return p.parseFnPointerType()

	case lexer.TokenFor:
		p.skipForLifetimes()
		return p.parseTypeInner(allowPlus)

	case lexer.TokenLt, lexer.TokenShl:
		return p.parseQualifiedType()

	case lexer.TokenSelfType:
		if !p.peekTokenIs(lexer.TokenPathSep) {
			p.nextToken()
			return &SelfType{Span: p.spanFrom(start)}
		}
		path := p.parsePath(pathModeType)
		return &NamedType{Span: path.Span, Path: path}

	case lexer.TokenIdentifier, lexer.TokenPathSep, lexer.TokenSelfValue, lexer.TokenSuper, lexer.TokenCrate:
		path := p.parsePath(pathModeType)
		if p.currentTokenIs(lexer.TokenNot) && path.IsSingle() && p.peekTokenIs(lexer.TokenLParen) {
			// type macro
			p.nextToken()
			p.skipTokenTree()
			return &InferType{Span: p.spanFrom(start)}
		}
		return &NamedType{Span: path.Span, Path: path}
	}

	p.fail("type")
	return nil
}

// parseFnPointerType parses `[unsafe] [extern "abi"] fn(A, B) -> C`
func (p *Parser) parseFnPointerType() TypeRef {
	start := p.current.Span.Start
	p.accept(lexer.TokenUnsafe)
	if p.accept(lexer.TokenExtern) {
		p.accept(lexer.TokenString)
	}
	p.expect(lexer.TokenFn, "`fn`")
	p.expect(lexer.TokenLParen, "`(`")

	fp := &FnPointerType{}
	for !p.currentTokenIs(lexer.TokenRParen) {
		// named parameters: fn(x: i32)
		if (p.currentTokenIs(lexer.TokenIdentifier) || p.currentTokenIs(lexer.TokenUnderscore)) &&
			p.peekTokenIs(lexer.TokenColon) {
			p.nextToken()
			p.nextToken()
		}
		if p.accept(lexer.TokenDotDotDot) {
			break
		}
		fp.Params = append(fp.Params, p.parseType())
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRParen, "`)`")
	if p.accept(lexer.TokenRArrow) {
		fp.ReturnType = p.parseTypeNoBounds()
	}
	fp.Span = p.spanFrom(start)
	return fp
}

// parseQualifiedType parses `<T as Trait>::Name` and `<T>::Name`
func (p *Parser) parseQualifiedType() *QualifiedType {
	start := p.current.Span.Start
	if !p.acceptLt() {
		p.fail("`<`")
	}
	q := &QualifiedType{SelfType: p.parseType()}
	if p.accept(lexer.TokenAs) {
		q.Trait = p.parsePath(pathModeType)
	}
	p.expectGt()

	for p.currentTokenIs(lexer.TokenPathSep) && isPathSegmentStart(p.peekToken(1).Type) {
		p.nextToken()
		seg := &PathSegment{Name: &Ident{Span: p.current.Span, Name: p.current.Literal}}
		p.nextToken()
		if p.currentTokenIs(lexer.TokenPathSep) && p.peekTokenIs(lexer.TokenLt) {
			p.nextToken()
			seg.Args = p.parseGenericArgs()
		}
		q.Rest = append(q.Rest, seg)
	}
	if len(q.Rest) == 0 {
		p.fail("`::`")
	}
	q.Span = p.spanFrom(start)
	return q
}

// skipForLifetimes skips a higher-ranked `for<'a, 'b>` prefix
func (p *Parser) skipForLifetimes() {
	p.expect(lexer.TokenFor, "`for`")
	if !p.acceptLt() {
		p.fail("`<`")
	}
	for p.currentTokenIs(lexer.TokenLifetime) {
		p.nextToken()
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.expectGt()
}

// ====== Generics and Bounds ======

// parseGenerics parses an optional `<...>` parameter list
func (p *Parser) parseGenerics() *Generics {
	if !p.currentTokenIs(lexer.TokenLt) {
		return nil
	}
	start := p.current.Span.Start
	p.nextToken()

	g := &Generics{}
	for !p.currentTokenIs(lexer.TokenGt) && !p.currentTokenIs(lexer.TokenShr) {
		p.parseOuterAttributes()
		pstart := p.current.Span.Start
		param := &GenericParam{}

		switch p.current.Type {
		case lexer.TokenLifetime:
			param.Kind = GenericLifetimeParam
			param.Name = &Ident{Span: p.current.Span, Name: p.current.Literal}
			p.nextToken()
			if p.accept(lexer.TokenColon) {
				for p.currentTokenIs(lexer.TokenLifetime) {
					param.Bounds = append(param.Bounds, &TraitBound{Span: p.current.Span, Lifetime: p.current.Literal})
					p.nextToken()
					if !p.accept(lexer.TokenPlus) {
						break
					}
				}
			}
		case lexer.TokenConst:
			p.nextToken()
			param.Kind = GenericConstParam
			param.Name = p.expectIdent()
			p.expect(lexer.TokenColon, "`:`")
			param.Type = p.parseType()
			if p.accept(lexer.TokenEq) {
				if p.currentTokenIs(lexer.TokenLBrace) {
					p.parseBlock()
				} else {
					p.parseLiteralExpr()
				}
			}
		default:
			param.Kind = GenericTypeParam
			param.Name = p.expectIdent()
			if p.accept(lexer.TokenColon) {
				param.Bounds = p.parseBounds()
			}
			if p.accept(lexer.TokenEq) {
				param.Default = p.parseType()
			}
		}

		param.Span = p.spanFrom(pstart)
		g.Params = append(g.Params, param)
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.expectGt()
	g.Span = p.spanFrom(start)
	return g
}

func isBoundStart(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenIdentifier, lexer.TokenPathSep, lexer.TokenQuestion, lexer.TokenLifetime,
		lexer.TokenLParen, lexer.TokenFor, lexer.TokenSelfType, lexer.TokenSuper, lexer.TokenCrate,
		lexer.TokenSelfValue, lexer.TokenTilde:
		return true
	}
	return false
}

// parseBounds parses `A + B + 'a + ?Sized`; an empty list is allowed
func (p *Parser) parseBounds() []*TraitBound {
	if !isBoundStart(p.current.Type) {
		return nil
	}
	return p.parseBoundList(true)
}

// parseBoundList parses at least one bound, continuing over `+` when allowed
func (p *Parser) parseBoundList(allowPlus bool) []*TraitBound {
	var bounds []*TraitBound
	for {
		bounds = append(bounds, p.parseBound())
		if !allowPlus || !p.currentTokenIs(lexer.TokenPlus) || !isBoundStart(p.peekToken(1).Type) {
			break
		}
		p.nextToken()
	}
	// trailing `+`
	if allowPlus && p.currentTokenIs(lexer.TokenPlus) {
		p.nextToken()
	}
	return bounds
}

func (p *Parser) parseBound() *TraitBound {
	start := p.current.Span.Start

	switch p.current.Type {
	case lexer.TokenLifetime:
		b := &TraitBound{Span: p.current.Span, Lifetime: p.current.Literal}
		p.nextToken()
		return b
	case lexer.TokenLParen:
		p.nextToken()
		b := p.parseBound()
		p.expect(lexer.TokenRParen, "`)`")
		b.Span = p.spanFrom(start)
		return b
	case lexer.TokenFor:
		p.skipForLifetimes()
		return p.parseBound()
	case lexer.TokenTilde:
		// ~const Trait
		p.nextToken()
		p.expect(lexer.TokenConst, "`const`")
		return p.parseBound()
	}

	b := &TraitBound{}
	b.Maybe = p.accept(lexer.TokenQuestion)
	if !isPathSegmentStart(p.current.Type) && !p.currentTokenIs(lexer.TokenPathSep) {
		p.fail("trait bound")
	}
	b.Path = p.parsePath(pathModeType)
	b.Span = p.spanFrom(start)
	return b
}

// parseWhereClause parses an optional `where` clause
func (p *Parser) parseWhereClause() []*WherePredicate {
	if !p.accept(lexer.TokenWhere) {
		return nil
	}

	var preds []*WherePredicate
	for !p.currentTokenIs(lexer.TokenLBrace) && !p.currentTokenIs(lexer.TokenSemicolon) &&
		!p.currentTokenIs(lexer.TokenEq) && !p.currentTokenIs(lexer.TokenEOF) {
		start := p.current.Span.Start
		pred := &WherePredicate{}

		if p.currentTokenIs(lexer.TokenLifetime) {
			pred.Lifetime = p.current.Literal
			p.nextToken()
			p.expect(lexer.TokenColon, "`:`")
			for p.currentTokenIs(lexer.TokenLifetime) {
				pred.Bounds = append(pred.Bounds, &TraitBound{Span: p.current.Span, Lifetime: p.current.Literal})
				p.nextToken()
				if !p.accept(lexer.TokenPlus) {
					break
				}
			}
		} else {
			if p.currentTokenIs(lexer.TokenFor) {
				p.skipForLifetimes()
			}
			pred.Type = p.parseType()
			p.expect(lexer.TokenColon, "`:`")
			pred.Bounds = p.parseBounds()
		}

		pred.Span = p.spanFrom(start)
		preds = append(preds, pred)
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	return preds
}
