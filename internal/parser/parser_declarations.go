package parser

import (
	"github.com/orizon-lang/modcheck/internal/lexer"
	"github.com/orizon-lang/modcheck/internal/position"
)

// parseItems parses items until the closing token (EOF or `}`)
func (p *Parser) parseItems(closing lexer.TokenType) []Item {
	var items []Item
	for !p.currentTokenIs(closing) {
		if p.accept(lexer.TokenSemicolon) {
			continue
		}
		items = append(items, p.parseItem(p.parseOuterAttributes()))
	}
	return items
}

// isItemStart reports whether the current token begins an item. Used inside
// blocks, where items and statements mix.
func (p *Parser) isItemStart() bool {
	next := p.peekToken(1).Type
	switch p.current.Type {
	case lexer.TokenFn, lexer.TokenMod, lexer.TokenStruct, lexer.TokenEnum, lexer.TokenTrait,
		lexer.TokenImpl, lexer.TokenType_, lexer.TokenUse, lexer.TokenStatic, lexer.TokenPub, lexer.TokenExtern:
		return true
	case lexer.TokenConst:
		return next == lexer.TokenIdentifier || next == lexer.TokenUnderscore || next == lexer.TokenFn ||
			next == lexer.TokenUnsafe || next == lexer.TokenAsync || next == lexer.TokenExtern
	case lexer.TokenUnsafe:
		return next == lexer.TokenFn || next == lexer.TokenImpl || next == lexer.TokenTrait || next == lexer.TokenExtern
	case lexer.TokenAsync:
		return next == lexer.TokenFn || next == lexer.TokenUnsafe
	case lexer.TokenIdentifier:
		return p.current.Literal == "macro_rules" && next == lexer.TokenNot
	}
	return false
}

// parseItem parses a single item after its outer attributes
func (p *Parser) parseItem(attrs []*Attribute) Item {
	start := p.current.Span.Start
	if len(attrs) > 0 {
		start = attrs[0].Span.Start
	}
	vis := p.parseVisibility()

	switch p.current.Type {
	case lexer.TokenMod:
		return p.parseModDecl(start, attrs, vis)
	case lexer.TokenFn, lexer.TokenAsync, lexer.TokenExtern:
		return p.parseFnDecl(start, attrs, vis)
	case lexer.TokenConst:
		if next := p.peekToken(1).Type; next == lexer.TokenFn || next == lexer.TokenUnsafe ||
			next == lexer.TokenAsync || next == lexer.TokenExtern {
			return p.parseFnDecl(start, attrs, vis)
		}
		return p.parseConstDecl(start, attrs, vis)
	case lexer.TokenUnsafe:
		switch p.peekToken(1).Type {
		case lexer.TokenImpl:
			return p.parseImplBlock(start, attrs)
		case lexer.TokenTrait:
			return p.parseTraitDecl(start, attrs, vis)
		}
		return p.parseFnDecl(start, attrs, vis)
	case lexer.TokenStatic:
		return p.parseStaticDecl(start, attrs, vis)
	case lexer.TokenType_:
		return p.parseTypeAlias(start, attrs, vis)
	case lexer.TokenTrait:
		return p.parseTraitDecl(start, attrs, vis)
	case lexer.TokenStruct:
		return p.parseStructDecl(start, attrs, vis)
	case lexer.TokenEnum:
		return p.parseEnumDecl(start, attrs, vis)
	case lexer.TokenUse:
		return p.parseUseDecl(start, attrs, vis)
	case lexer.TokenImpl:
		return p.parseImplBlock(start, attrs)
	case lexer.TokenIdentifier, lexer.TokenPathSep:
		if vis.Kind == VisPrivate {
			return p.parseMacroItem(start, attrs)
		}
	}

	p.fail("item")
	return nil
}

// parseVisibility parses `pub`, `pub(crate)`, `pub(self)`, `pub(super)` and
// `pub(in path)`. A `pub (` not followed by one of those is left alone so
// tuple fields such as `pub (i32, i32)` parse.
func (p *Parser) parseVisibility() Visibility {
	if !p.currentTokenIs(lexer.TokenPub) {
		return Visibility{Kind: VisPrivate}
	}
	start := p.current.Span.Start
	p.nextToken()

	vis := Visibility{Kind: VisPublic}
	if p.currentTokenIs(lexer.TokenLParen) {
		inner := p.peekToken(1).Type
		closed := p.peekToken(2).Type == lexer.TokenRParen
		switch {
		case inner == lexer.TokenCrate && closed:
			vis.Kind = VisCrate
		case inner == lexer.TokenSelfValue && closed:
			vis.Kind = VisSelf
		case inner == lexer.TokenSuper && closed:
			vis.Kind = VisSuper
		case inner == lexer.TokenIn:
			vis.Kind = VisIn
		}
		if vis.Kind != VisPublic {
			p.nextToken() // (
			if vis.Kind == VisIn {
				p.nextToken() // in
				vis.Path = p.parsePath(pathModeType)
			} else {
				p.nextToken()
			}
			p.expect(lexer.TokenRParen, "`)`")
		}
	}
	vis.Span = p.spanFrom(start)
	return vis
}

// parseModDecl parses `mod name;` or `mod name { items }`
func (p *Parser) parseModDecl(start position.Position, attrs []*Attribute, vis Visibility) *ModDecl {
	p.expect(lexer.TokenMod, "`mod`")
	mod := &ModDecl{Attrs: attrs, Vis: vis, Name: p.expectIdent()}

	if p.accept(lexer.TokenSemicolon) {
		mod.Span = p.spanFrom(start)
		return mod
	}

	mod.Inline = true
	p.expect(lexer.TokenLBrace, "`{` or `;`")
	mod.Attrs = append(mod.Attrs, p.parseInnerAttributes()...)
	mod.Items = p.parseItems(lexer.TokenRBrace)
	p.expect(lexer.TokenRBrace, "`}`")
	mod.Span = p.spanFrom(start)
	return mod
}

// parseFnDecl parses a function with optional qualifiers, generics, where
// clause and body
func (p *Parser) parseFnDecl(start position.Position, attrs []*Attribute, vis Visibility) *FnDecl {
	fn := &FnDecl{Attrs: attrs, Vis: vis}

	fn.Qualifiers = p.parseFnQualifiers()
	p.expect(lexer.TokenFn, "`fn`")
	fn.Name = p.expectIdent()
	fn.Generics = p.parseGenerics()

	p.expect(lexer.TokenLParen, "`(`")
	fn.SelfParam, fn.Params = p.parseParameterList()
	p.expect(lexer.TokenRParen, "`)`")

	if p.accept(lexer.TokenRArrow) {
		fn.ReturnType = p.parseType()
	}
	fn.Where = p.parseWhereClause()

	if p.accept(lexer.TokenSemicolon) {
		fn.Span = p.spanFrom(start)
		return fn
	}
	fn.Body = p.parseBlock()
	fn.Span = p.spanFrom(start)
	return fn
}

func (p *Parser) parseFnQualifiers() FnQualifiers {
	var q FnQualifiers
	for {
		switch p.current.Type {
		case lexer.TokenConst:
			q.Const = true
		case lexer.TokenAsync:
			q.Async = true
		case lexer.TokenUnsafe:
			q.Unsafe = true
		case lexer.TokenExtern:
			q.Extern = true
			if p.peekTokenIs(lexer.TokenString) {
				p.nextToken()
				q.ABI = p.current.Literal
			}
		default:
			return q
		}
		p.nextToken()
	}
}

// parseParameterList parses the parameters between the parentheses,
// separating a leading self receiver
func (p *Parser) parseParameterList() (*SelfParam, []*Param) {
	var self *SelfParam
	var params []*Param

	for !p.currentTokenIs(lexer.TokenRParen) {
		attrs := p.parseOuterAttributes()
		if len(params) == 0 && self == nil && p.isSelfParam() {
			self = p.parseSelfParam()
		} else if p.currentTokenIs(lexer.TokenDotDotDot) {
			p.nextToken() // C variadics
		} else {
			params = append(params, p.parseParameter(attrs))
		}
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	return self, params
}

func (p *Parser) isSelfParam() bool {
	t0, t1, t2, t3 := p.current.Type, p.peekToken(1).Type, p.peekToken(2).Type, p.peekToken(3).Type
	switch t0 {
	case lexer.TokenSelfValue:
		return t1 != lexer.TokenPathSep
	case lexer.TokenMut:
		return t1 == lexer.TokenSelfValue
	case lexer.TokenAnd:
		switch t1 {
		case lexer.TokenSelfValue:
			return true
		case lexer.TokenMut:
			return t2 == lexer.TokenSelfValue
		case lexer.TokenLifetime:
			return t2 == lexer.TokenSelfValue || (t2 == lexer.TokenMut && t3 == lexer.TokenSelfValue)
		}
	}
	return false
}

func (p *Parser) parseSelfParam() *SelfParam {
	start := p.current.Span.Start
	self := &SelfParam{}

	if p.accept(lexer.TokenAnd) {
		self.Ref = true
		if p.currentTokenIs(lexer.TokenLifetime) {
			self.Lifetime = p.current.Literal
			p.nextToken()
		}
	}
	self.Mut = p.accept(lexer.TokenMut)
	p.expect(lexer.TokenSelfValue, "`self`")

	if !self.Ref && p.accept(lexer.TokenColon) {
		self.Type = p.parseType()
	}
	self.Span = p.spanFrom(start)
	return self
}

// parseParameter parses `pattern: Type`
func (p *Parser) parseParameter(attrs []*Attribute) *Param {
	start := p.current.Span.Start
	param := &Param{Attrs: attrs}
	param.Pattern = p.parsePatternNoAlt()
	p.expect(lexer.TokenColon, "`:`")
	param.Type = p.parseType()
	param.Span = p.spanFrom(start)
	return param
}

// parseTypeAlias parses `type Name<T>: Bounds where ... = Type;`
func (p *Parser) parseTypeAlias(start position.Position, attrs []*Attribute, vis Visibility) *TypeAlias {
	p.expect(lexer.TokenType_, "`type`")
	alias := &TypeAlias{Attrs: attrs, Vis: vis, Name: p.expectIdent()}
	alias.Generics = p.parseGenerics()

	if p.accept(lexer.TokenColon) {
		alias.Bounds = p.parseBounds()
	}
	alias.Where = p.parseWhereClause()
	if p.accept(lexer.TokenEq) {
		alias.Type = p.parseType()
		alias.Where = append(alias.Where, p.parseWhereClause()...)
	}
	p.expect(lexer.TokenSemicolon, "`;`")
	alias.Span = p.spanFrom(start)
	return alias
}

// parseTraitDecl parses a trait with its supertraits and associated items
func (p *Parser) parseTraitDecl(start position.Position, attrs []*Attribute, vis Visibility) *TraitDecl {
	trait := &TraitDecl{Attrs: attrs, Vis: vis}
	trait.Unsafe = p.accept(lexer.TokenUnsafe)
	p.expect(lexer.TokenTrait, "`trait`")
	trait.Name = p.expectIdent()
	trait.Generics = p.parseGenerics()

	if p.accept(lexer.TokenColon) {
		trait.Supertraits = p.parseBounds()
	}
	trait.Where = p.parseWhereClause()

	p.expect(lexer.TokenLBrace, "`{`")
	p.parseInnerAttributes()
	trait.Items = p.parseAssociatedItems()
	p.expect(lexer.TokenRBrace, "`}`")
	trait.Span = p.spanFrom(start)
	return trait
}

// parseAssociatedItems parses the body of a trait or impl block
func (p *Parser) parseAssociatedItems() []Item {
	var items []Item
	for !p.currentTokenIs(lexer.TokenRBrace) {
		if p.accept(lexer.TokenSemicolon) {
			continue
		}
		attrs := p.parseOuterAttributes()
		start := p.current.Span.Start
		if len(attrs) > 0 {
			start = attrs[0].Span.Start
		}
		vis := p.parseVisibility()

		switch p.current.Type {
		case lexer.TokenType_:
			items = append(items, p.parseTypeAlias(start, attrs, vis))
		case lexer.TokenConst:
			if next := p.peekToken(1).Type; next == lexer.TokenIdentifier || next == lexer.TokenUnderscore {
				items = append(items, p.parseConstDecl(start, attrs, vis))
			} else {
				items = append(items, p.parseFnDecl(start, attrs, vis))
			}
		case lexer.TokenFn, lexer.TokenAsync, lexer.TokenUnsafe, lexer.TokenExtern:
			items = append(items, p.parseFnDecl(start, attrs, vis))
		case lexer.TokenIdentifier:
			items = append(items, p.parseMacroItem(start, attrs))
		default:
			p.fail("associated item")
		}
	}
	return items
}

// parseStructDecl parses unit, tuple and named structs
func (p *Parser) parseStructDecl(start position.Position, attrs []*Attribute, vis Visibility) *StructDecl {
	p.expect(lexer.TokenStruct, "`struct`")
	s := &StructDecl{Attrs: attrs, Vis: vis, Name: p.expectIdent()}
	s.Generics = p.parseGenerics()

	switch {
	case p.accept(lexer.TokenSemicolon):
		s.Kind = StructUnit
	case p.currentTokenIs(lexer.TokenLParen):
		s.Kind = StructTuple
		s.Fields = p.parseTupleFields()
		s.Where = p.parseWhereClause()
		p.expect(lexer.TokenSemicolon, "`;`")
	default:
		s.Kind = StructNamed
		s.Where = p.parseWhereClause()
		if p.accept(lexer.TokenSemicolon) {
			s.Kind = StructUnit
			break
		}
		s.Fields = p.parseNamedFields()
	}
	s.Span = p.spanFrom(start)
	return s
}

// parseTupleFields parses `(vis Type, ...)`
func (p *Parser) parseTupleFields() []*Field {
	p.expect(lexer.TokenLParen, "`(`")
	var fields []*Field
	for !p.currentTokenIs(lexer.TokenRParen) {
		attrs := p.parseOuterAttributes()
		start := p.current.Span.Start
		f := &Field{Attrs: attrs, Vis: p.parseVisibility()}
		f.Type = p.parseType()
		f.Span = p.spanFrom(start)
		fields = append(fields, f)
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRParen, "`)`")
	return fields
}

// parseNamedFields parses `{ vis name: Type, ... }`
func (p *Parser) parseNamedFields() []*Field {
	p.expect(lexer.TokenLBrace, "`{`")
	var fields []*Field
	for !p.currentTokenIs(lexer.TokenRBrace) {
		attrs := p.parseOuterAttributes()
		start := p.current.Span.Start
		f := &Field{Attrs: attrs, Vis: p.parseVisibility()}
		f.Name = p.expectIdent()
		p.expect(lexer.TokenColon, "`:`")
		f.Type = p.parseType()
		f.Span = p.spanFrom(start)
		fields = append(fields, f)
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRBrace, "`}`")
	return fields
}

// parseEnumDecl parses an enum and its variants
func (p *Parser) parseEnumDecl(start position.Position, attrs []*Attribute, vis Visibility) *EnumDecl {
	p.expect(lexer.TokenEnum, "`enum`")
	e := &EnumDecl{Attrs: attrs, Vis: vis, Name: p.expectIdent()}
	e.Generics = p.parseGenerics()
	e.Where = p.parseWhereClause()

	p.expect(lexer.TokenLBrace, "`{`")
	for !p.currentTokenIs(lexer.TokenRBrace) {
		vattrs := p.parseOuterAttributes()
		vstart := p.current.Span.Start
		p.parseVisibility()

		v := &Variant{Attrs: vattrs, Name: p.expectIdent()}
		switch p.current.Type {
		case lexer.TokenLParen:
			v.Kind = StructTuple
			v.Fields = p.parseTupleFields()
		case lexer.TokenLBrace:
			v.Kind = StructNamed
			v.Fields = p.parseNamedFields()
		default:
			v.Kind = StructUnit
		}
		if p.accept(lexer.TokenEq) {
			v.Discriminant = p.parseExpression()
		}
		v.Span = p.spanFrom(vstart)
		e.Variants = append(e.Variants, v)

		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRBrace, "`}`")
	e.Span = p.spanFrom(start)
	return e
}

// parseConstDecl parses `const NAME: Type [= value];`
func (p *Parser) parseConstDecl(start position.Position, attrs []*Attribute, vis Visibility) *ConstDecl {
	p.expect(lexer.TokenConst, "`const`")
	c := &ConstDecl{Attrs: attrs, Vis: vis}
	if p.currentTokenIs(lexer.TokenUnderscore) {
		c.Name = &Ident{Span: p.current.Span, Name: "_"}
		p.nextToken()
	} else {
		c.Name = p.expectIdent()
	}
	p.expect(lexer.TokenColon, "`:`")
	c.Type = p.parseType()
	if p.accept(lexer.TokenEq) {
		c.Value = p.parseExpression()
	}
	p.expect(lexer.TokenSemicolon, "`;`")
	c.Span = p.spanFrom(start)
	return c
}

// parseStaticDecl parses `static [mut] NAME: Type = value;`
func (p *Parser) parseStaticDecl(start position.Position, attrs []*Attribute, vis Visibility) *StaticDecl {
	p.expect(lexer.TokenStatic, "`static`")
	s := &StaticDecl{Attrs: attrs, Vis: vis}
	s.Mut = p.accept(lexer.TokenMut)
	s.Name = p.expectIdent()
	p.expect(lexer.TokenColon, "`:`")
	s.Type = p.parseType()
	if p.accept(lexer.TokenEq) {
		s.Value = p.parseExpression()
	}
	p.expect(lexer.TokenSemicolon, "`;`")
	s.Span = p.spanFrom(start)
	return s
}

// parseUseDecl parses `use tree;`
func (p *Parser) parseUseDecl(start position.Position, attrs []*Attribute, vis Visibility) *UseDecl {
	p.expect(lexer.TokenUse, "`use`")
	u := &UseDecl{Attrs: attrs, Vis: vis, Tree: p.parseUseTree()}
	p.expect(lexer.TokenSemicolon, "`;`")
	u.Span = p.spanFrom(start)
	return u
}

// parseUseTree parses `a::b`, `a::b as c`, `a::*` and `a::{...}`
func (p *Parser) parseUseTree() *UseTree {
	start := p.current.Span.Start
	tree := &UseTree{Prefix: &Path{Span: position.Span{Start: start, End: start}}}

	if p.accept(lexer.TokenPathSep) {
		tree.Prefix.Global = true
	}

	for {
		switch p.current.Type {
		case lexer.TokenStar:
			p.nextToken()
			tree.Kind = UseGlob
			tree.Span = p.spanFrom(start)
			return tree
		case lexer.TokenLBrace:
			p.nextToken()
			tree.Kind = UseGroup
			for !p.currentTokenIs(lexer.TokenRBrace) {
				tree.Children = append(tree.Children, p.parseUseTree())
				if !p.accept(lexer.TokenComma) {
					break
				}
			}
			p.expect(lexer.TokenRBrace, "`}`")
			tree.Span = p.spanFrom(start)
			return tree
		}

		if !isPathSegmentStart(p.current.Type) {
			p.fail("identifier, `*` or `{`")
		}
		tree.Prefix.Segments = append(tree.Prefix.Segments, &PathSegment{
			Name: &Ident{Span: p.current.Span, Name: p.current.Literal},
		})
		p.nextToken()
		tree.Prefix.Span = p.spanFrom(tree.Prefix.Span.Start)

		if !p.accept(lexer.TokenPathSep) {
			break
		}
	}

	tree.Kind = UseSimple
	if p.accept(lexer.TokenAs) {
		if p.currentTokenIs(lexer.TokenUnderscore) {
			tree.Alias = &Ident{Span: p.current.Span, Name: "_"}
			p.nextToken()
		} else {
			tree.Alias = p.expectIdent()
		}
	}
	tree.Span = p.spanFrom(start)
	return tree
}

// parseImplBlock parses inherent and trait impls
func (p *Parser) parseImplBlock(start position.Position, attrs []*Attribute) *ImplBlock {
	impl := &ImplBlock{Attrs: attrs}
	impl.Unsafe = p.accept(lexer.TokenUnsafe)
	p.expect(lexer.TokenImpl, "`impl`")

	if p.currentTokenIs(lexer.TokenLt) {
		impl.Generics = p.parseGenerics()
	}
	if p.currentTokenIs(lexer.TokenNot) {
		impl.Negative = true
		p.nextToken()
	}

	first := p.parseType()
	if p.accept(lexer.TokenFor) {
		named, ok := first.(*NamedType)
		if !ok {
			p.err = &SyntaxError{Span: first.GetSpan(), Expected: "trait path", Found: "`" + first.String() + "`"}
			panic(bailout{})
		}
		impl.Trait = named.Path
		impl.SelfType = p.parseType()
	} else {
		impl.SelfType = first
	}
	impl.Where = p.parseWhereClause()

	p.expect(lexer.TokenLBrace, "`{`")
	p.parseInnerAttributes()
	impl.Items = p.parseAssociatedItems()
	p.expect(lexer.TokenRBrace, "`}`")
	impl.Span = p.spanFrom(start)
	return impl
}

// parseMacroItem parses `path! [name] tokens` in item position
func (p *Parser) parseMacroItem(start position.Position, attrs []*Attribute) *MacroItem {
	m := &MacroItem{Attrs: attrs, Path: p.parsePath(pathModeExpr)}
	p.expect(lexer.TokenNot, "`!`")
	if p.currentTokenIs(lexer.TokenIdentifier) {
		m.Name = p.expectIdent()
	}
	braced := p.currentTokenIs(lexer.TokenLBrace)
	p.skipTokenTree()
	if !braced {
		p.expect(lexer.TokenSemicolon, "`;`")
	}
	m.Span = p.spanFrom(start)
	return m
}
