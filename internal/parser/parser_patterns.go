package parser

import (
	"github.com/orizon-lang/modcheck/internal/lexer"
)

// parsePattern parses a pattern including top-level alternatives `a | b`
func (p *Parser) parsePattern() Pattern {
	start := p.current.Span.Start
	p.accept(lexer.TokenOr) // leading vert

	first := p.parsePatternNoAlt()
	if !p.currentTokenIs(lexer.TokenOr) {
		return first
	}

	alts := []Pattern{first}
	for p.accept(lexer.TokenOr) {
		alts = append(alts, p.parsePatternNoAlt())
	}
	return &OrPattern{Span: p.spanFrom(start), Alts: alts}
}

// parsePatternNoAlt parses a pattern without top-level `|`, as needed for
// closure and function parameters
func (p *Parser) parsePatternNoAlt() Pattern {
	start := p.current.Span.Start

	switch p.current.Type {
	case lexer.TokenUnderscore:
		p.nextToken()
		return &WildcardPattern{Span: p.spanFrom(start)}

	case lexer.TokenDotDot:
		p.nextToken()
		return &RestPattern{Span: p.spanFrom(start)}

	case lexer.TokenAnd, lexer.TokenAndAnd:
		if p.currentTokenIs(lexer.TokenAndAnd) {
			p.splitToken(lexer.TokenAnd, lexer.TokenAnd)
		}
		p.nextToken()
		mut := p.accept(lexer.TokenMut)
		inner := p.parsePatternNoAlt()
		return &RefPattern{Span: p.spanFrom(start), Mut: mut, Pattern: inner}

	case lexer.TokenLParen:
		elems, trailingComma := p.parsePatternList(lexer.TokenLParen, lexer.TokenRParen)
		if len(elems) == 1 && !trailingComma {
			if _, rest := elems[0].(*RestPattern); !rest {
				return elems[0]
			}
		}
		return &TuplePattern{Span: p.spanFrom(start), Elems: elems}

	case lexer.TokenLBracket:
		elems, _ := p.parsePatternList(lexer.TokenLBracket, lexer.TokenRBracket)
		return &SlicePattern{Span: p.spanFrom(start), Elems: elems}

	case lexer.TokenRef, lexer.TokenMut:
		return p.parseBindingPattern()

	case lexer.TokenMinus, lexer.TokenInteger, lexer.TokenFloat, lexer.TokenString,
		lexer.TokenChar, lexer.TokenTrue, lexer.TokenFalse:
		lo := p.parseLiteralExpr()
		return p.parseRangePatternRest(lo, &LiteralPattern{Span: lo.GetSpan(), Value: lo})

	case lexer.TokenIdentifier, lexer.TokenPathSep, lexer.TokenSelfValue, lexer.TokenSelfType,
		lexer.TokenSuper, lexer.TokenCrate:
		return p.parsePathPattern()

	case lexer.TokenLt, lexer.TokenShl:
		q := p.parseQualifiedType()
		lo := &QualifiedPathExpr{Span: q.Span, Type: q}
		return p.parseRangePatternRest(lo, &WildcardPattern{Span: q.Span})
	}

	p.fail("pattern")
	return nil
}

// parsePatternList parses the elements between open and close
func (p *Parser) parsePatternList(open, close lexer.TokenType) ([]Pattern, bool) {
	p.nextToken() // open
	var elems []Pattern
	trailingComma := false
	for !p.currentTokenIs(close) {
		elems = append(elems, p.parsePattern())
		trailingComma = false
		if !p.accept(lexer.TokenComma) {
			break
		}
		trailingComma = true
	}
	p.expect(close, "`"+closingLiteral(close)+"`")
	return elems, trailingComma
}

// parseBindingPattern parses `[ref] [mut] name [@ subpattern]`
func (p *Parser) parseBindingPattern() Pattern {
	start := p.current.Span.Start
	bind := &IdentPattern{}
	bind.Ref = p.accept(lexer.TokenRef)
	bind.Mut = p.accept(lexer.TokenMut)
	if p.currentTokenIs(lexer.TokenSelfValue) {
		bind.Name = &Ident{Span: p.current.Span, Name: p.current.Literal}
		p.nextToken()
	} else {
		bind.Name = p.expectIdent()
	}
	if p.accept(lexer.TokenAt) {
		bind.Sub = p.parsePatternNoAlt()
	}
	bind.Span = p.spanFrom(start)
	return bind
}

// parsePathPattern parses bindings, unit/tuple/struct variant patterns and
// path range bounds
func (p *Parser) parsePathPattern() Pattern {
	start := p.current.Span.Start
	path := p.parsePath(pathModeExpr)

	switch p.current.Type {
	case lexer.TokenLParen:
		elems, _ := p.parsePatternList(lexer.TokenLParen, lexer.TokenRParen)
		return &TupleStructPattern{Span: p.spanFrom(start), Path: path, Elems: elems}

	case lexer.TokenLBrace:
		return p.parseStructPattern(path)

	case lexer.TokenNot:
		// macro in pattern position
		p.nextToken()
		p.skipTokenTree()
		return &WildcardPattern{Span: p.spanFrom(start)}

	case lexer.TokenDotDotEq, lexer.TokenDotDotDot, lexer.TokenDotDot:
		lo := &PathExpr{Span: path.Span, Path: path}
		return p.parseRangePatternRest(lo, nil)
	}

	if path.IsSingle() && path.Segments[0].Args == nil && path.Segments[0].Name.Name != "Self" {
		bind := &IdentPattern{Name: path.Segments[0].Name}
		if p.accept(lexer.TokenAt) {
			bind.Sub = p.parsePatternNoAlt()
		}
		bind.Span = p.spanFrom(start)
		return bind
	}
	return &PathPattern{Span: path.Span, Path: path}
}

// parseRangePatternRest finishes `lo..=hi`; without a range operator it
// returns plain
func (p *Parser) parseRangePatternRest(lo Expr, plain Pattern) Pattern {
	start := lo.GetSpan().Start
	if !p.currentTokenIs(lexer.TokenDotDotEq) && !p.currentTokenIs(lexer.TokenDotDotDot) &&
		!p.currentTokenIs(lexer.TokenDotDot) {
		if plain == nil {
			p.fail("pattern")
		}
		return plain
	}

	r := &RangePattern{Lo: lo, Inclusive: !p.currentTokenIs(lexer.TokenDotDot)}
	p.nextToken()

	switch {
	case isLiteralToken(p.current.Type) || p.currentTokenIs(lexer.TokenMinus):
		r.Hi = p.parseLiteralExpr()
	case isPathSegmentStart(p.current.Type) || p.currentTokenIs(lexer.TokenPathSep):
		path := p.parsePath(pathModeExpr)
		r.Hi = &PathExpr{Span: path.Span, Path: path}
	}
	r.Span = p.spanFrom(start)
	return r
}

// parseStructPattern parses `Path { field: pat, name, .. }`
func (p *Parser) parseStructPattern(path *Path) Pattern {
	start := path.Span.Start
	p.expect(lexer.TokenLBrace, "`{`")
	s := &StructPattern{Path: path}

	for !p.currentTokenIs(lexer.TokenRBrace) {
		p.parseOuterAttributes()
		if p.accept(lexer.TokenDotDot) {
			s.Rest = true
			break
		}

		fstart := p.current.Span.Start
		field := &FieldPattern{}
		switch {
		case (p.currentTokenIs(lexer.TokenIdentifier) || p.currentTokenIs(lexer.TokenInteger)) &&
			p.peekTokenIs(lexer.TokenColon):
			field.Name = &Ident{Span: p.current.Span, Name: p.current.Literal}
			p.nextToken()
			p.nextToken()
			field.Pattern = p.parsePattern()
		default:
			bind := p.parseBindingPattern().(*IdentPattern)
			field.Name = bind.Name
			field.Pattern = bind
		}
		field.Span = p.spanFrom(fstart)
		s.Fields = append(s.Fields, field)

		if !p.accept(lexer.TokenComma) {
			break
		}
	}

	p.expect(lexer.TokenRBrace, "`}`")
	s.Span = p.spanFrom(start)
	return s
}
