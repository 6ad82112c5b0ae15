package parser

import (
	"slices"

	"github.com/orizon-lang/modcheck/internal/lexer"
	"github.com/orizon-lang/modcheck/internal/position"
)

// Parser represents the recursive descent parser
type Parser struct {
	tokens   []lexer.Token
	pos      int
	current  lexer.Token
	prevEnd  position.Position
	filename string

	// noStruct is set while parsing `if`, `while`, `for` and `match` heads,
	// where `Path {` starts the body instead of a struct literal.
	noStruct bool

	err *SyntaxError
}

// bailout unwinds the parser after the first syntax error.
type bailout struct{}

// NewParser creates a new parser instance. The lexer is drained up front so
// the parser can look ahead freely.
func NewParser(l *lexer.Lexer, filename string) *Parser {
	p := &Parser{
		tokens:   l.Tokenize(),
		filename: filename,
	}
	p.current = p.tokens[0]
	return p
}

// ParseFile parses a whole fixture
func ParseFile(filename, src string) (*File, error) {
	return NewParser(lexer.NewWithFilename(src, filename), filename).Parse()
}

// Parse parses the input and returns the syntax tree, or the first
// *SyntaxError encountered
func (p *Parser) Parse() (file *File, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			file, err = nil, p.err
		}
	}()

	start := p.current.Span.Start
	file = &File{Filename: p.filename}
	file.Attrs = p.parseInnerAttributes()
	file.Items = p.parseItems(lexer.TokenEOF)
	file.Span = position.Span{Start: start, End: p.current.Span.End}
	return file, nil
}

// ParseType parses a standalone type, used by tests and tooling
func ParseType(src string) (t TypeRef, err error) {
	p := NewParser(lexer.New(src), "")
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			t, err = nil, p.err
		}
	}()
	t = p.parseType()
	p.expect(lexer.TokenEOF, "end of input")
	return t, nil
}

// nextToken advances the parser to the next token
func (p *Parser) nextToken() {
	p.prevEnd = p.current.Span.End
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.current = p.tokens[p.pos]
}

// peekToken returns the token n positions ahead of the current one
func (p *Parser) peekToken(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

// currentTokenIs checks if the current token is of the given type
func (p *Parser) currentTokenIs(tokenType lexer.TokenType) bool {
	return p.current.Type == tokenType
}

// peekTokenIs checks if the next token is of the given type
func (p *Parser) peekTokenIs(tokenType lexer.TokenType) bool {
	return p.peekToken(1).Type == tokenType
}

// accept consumes the current token if it matches
func (p *Parser) accept(tokenType lexer.TokenType) bool {
	if p.currentTokenIs(tokenType) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes a token of the given type or fails
func (p *Parser) expect(tokenType lexer.TokenType, what string) lexer.Token {
	tok := p.current
	if tok.Type != tokenType {
		p.fail(what)
	}
	p.nextToken()
	return tok
}

// expectIdent consumes an identifier and returns it
func (p *Parser) expectIdent() *Ident {
	tok := p.expect(lexer.TokenIdentifier, "identifier")
	return &Ident{Span: tok.Span, Name: tok.Literal}
}

// fail records the syntax error at the current token and unwinds
func (p *Parser) fail(expected string) {
	found := p.current.Describe()
	if p.current.Type == lexer.TokenError {
		expected = "valid token"
	}
	p.err = &SyntaxError{
		Span:     p.current.Span,
		Expected: expected,
		Found:    found,
	}
	panic(bailout{})
}

// spanFrom returns the span from start to the end of the last consumed token
func (p *Parser) spanFrom(start position.Position) position.Span {
	return position.Span{Start: start, End: p.prevEnd}
}

// splitToken splits a compound operator so its first byte can be consumed
// alone: `>>` closing nested generics, `&&` as two borrows, `||` as an empty
// closure parameter list.
func (p *Parser) splitToken(head, tail lexer.TokenType) {
	tok := p.current
	mid := tok.Span.Start
	mid.Column++
	mid.Offset++

	first := lexer.Token{Type: head, Literal: tok.Literal[:1], Span: position.Span{Start: tok.Span.Start, End: mid}}
	rest := lexer.Token{Type: tail, Literal: tok.Literal[1:], Span: position.Span{Start: mid, End: tok.Span.End}}

	p.tokens[p.pos] = first
	p.tokens = slices.Insert(p.tokens, p.pos+1, rest)
	p.current = first
}

// expectGt consumes a closing `>`, splitting `>>`, `>=` and `>>=`
func (p *Parser) expectGt() {
	switch p.current.Type {
	case lexer.TokenShr:
		p.splitToken(lexer.TokenGt, lexer.TokenGt)
	case lexer.TokenGe:
		p.splitToken(lexer.TokenGt, lexer.TokenEq)
	case lexer.TokenShrEq:
		p.splitToken(lexer.TokenGt, lexer.TokenGe)
	}
	p.expect(lexer.TokenGt, "`>`")
}

// acceptLt consumes an opening `<`, splitting `<<` and `<=`
func (p *Parser) acceptLt() bool {
	switch p.current.Type {
	case lexer.TokenShl:
		p.splitToken(lexer.TokenLt, lexer.TokenLt)
	case lexer.TokenLe:
		p.splitToken(lexer.TokenLt, lexer.TokenEq)
	}
	return p.accept(lexer.TokenLt)
}

// skipTokenTree skips a balanced (...), [...] or {...} group
func (p *Parser) skipTokenTree() {
	closers := map[lexer.TokenType]lexer.TokenType{
		lexer.TokenLParen:   lexer.TokenRParen,
		lexer.TokenLBracket: lexer.TokenRBracket,
		lexer.TokenLBrace:   lexer.TokenRBrace,
	}

	if _, ok := closers[p.current.Type]; !ok {
		p.fail("`(`, `[` or `{`")
	}

	var stack []lexer.TokenType
	for {
		switch tt := p.current.Type; tt {
		case lexer.TokenLParen, lexer.TokenLBracket, lexer.TokenLBrace:
			stack = append(stack, closers[tt])
		case lexer.TokenRParen, lexer.TokenRBracket, lexer.TokenRBrace:
			want := stack[len(stack)-1]
			if tt != want {
				p.fail("`" + closingLiteral(want) + "`")
			}
			stack = stack[:len(stack)-1]
		case lexer.TokenEOF, lexer.TokenError:
			p.fail("`" + closingLiteral(stack[len(stack)-1]) + "`")
		}
		p.nextToken()
		if len(stack) == 0 {
			return
		}
	}
}

func closingLiteral(tt lexer.TokenType) string {
	switch tt {
	case lexer.TokenRParen:
		return ")"
	case lexer.TokenRBracket:
		return "]"
	default:
		return "}"
	}
}

// ====== Attributes ======

// parseOuterAttributes parses zero or more `#[...]`
func (p *Parser) parseOuterAttributes() []*Attribute {
	var attrs []*Attribute
	for p.currentTokenIs(lexer.TokenPound) && p.peekTokenIs(lexer.TokenLBracket) {
		attrs = append(attrs, p.parseAttribute(false))
	}
	return attrs
}

// parseInnerAttributes parses zero or more `#![...]`
func (p *Parser) parseInnerAttributes() []*Attribute {
	var attrs []*Attribute
	for p.currentTokenIs(lexer.TokenPound) && p.peekTokenIs(lexer.TokenNot) {
		attrs = append(attrs, p.parseAttribute(true))
	}
	return attrs
}

func (p *Parser) parseAttribute(inner bool) *Attribute {
	start := p.current.Span.Start
	p.expect(lexer.TokenPound, "`#`")
	if inner {
		p.expect(lexer.TokenNot, "`!`")
	}

	attr := &Attribute{Inner: inner}
	if p.peekTokenIs(lexer.TokenIdentifier) || p.peekToken(1).Type.IsKeyword() {
		attr.Name = p.peekToken(1).Literal
	}
	p.skipTokenTree()
	attr.Span = p.spanFrom(start)
	return attr
}
