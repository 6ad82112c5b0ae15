// Package lexer implements the lexical analyzer for the fixture language,
// a Rust subset covering modules, traits, generics and closures.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/orizon-lang/modcheck/internal/position"
)

// Lexer represents the lexical analyzer
type Lexer struct {
	input        string
	filename     string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // current line number
	lineStart    int  // offset of the first byte of the current line
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "")
}

// NewWithFilename creates a new lexer instance with filename for error reporting
func NewWithFilename(input, filename string) *Lexer {
	l := &Lexer{
		input:    input,
		filename: filename,
		line:     1,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.lineStart = l.readPosition
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NUL character represents "EOF"
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	return l.peekAt(1)
}

func (l *Lexer) peekAt(n int) byte {
	idx := l.position + n
	if idx >= len(l.input) {
		return 0
	}
	return l.input[idx]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// currentPosition returns the position of the current char
func (l *Lexer) currentPosition() position.Position {
	return position.Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.position - l.lineStart + 1,
		Offset:   l.position,
	}
}

// skipTrivia skips whitespace and comments. An unterminated block comment is
// reported as an error token.
func (l *Lexer) skipTrivia() *Token {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			start := l.currentPosition()
			if !l.skipBlockComment() {
				tok := l.tokenFrom(TokenError, "unterminated block comment", start)
				return &tok
			}
		default:
			return nil
		}
	}
}

// skipBlockComment consumes a (possibly nested) block comment.
func (l *Lexer) skipBlockComment() bool {
	depth := 0
	for !l.atEOF() {
		switch {
		case l.ch == '/' && l.peekChar() == '*':
			depth++
			l.readChar()
			l.readChar()
		case l.ch == '*' && l.peekChar() == '/':
			depth--
			l.readChar()
			l.readChar()
			if depth == 0 {
				return true
			}
		default:
			l.readChar()
		}
	}
	return false
}

// NextToken scans the input and returns the next token
func (l *Lexer) NextToken() Token {
	if errTok := l.skipTrivia(); errTok != nil {
		return *errTok
	}

	start := l.currentPosition()

	if l.atEOF() {
		return l.tokenFrom(TokenEOF, "", start)
	}

	switch {
	case l.ch == 'r' && l.rawStringAt(1):
		return l.readRawString(start)
	case l.ch == 'b' && l.peekChar() == 'r' && l.rawStringAt(2):
		l.readChar()
		return l.readRawString(start)
	case l.ch == 'b' && l.peekChar() == '"':
		l.readChar()
		return l.readString(start)
	case l.ch == 'b' && l.peekChar() == '\'':
		l.readChar()
		return l.readCharLiteral(start)
	case l.ch == '_' && !isIdentContinue(l.peekChar()):
		l.readChar()
		return l.tokenFrom(TokenUnderscore, "_", start)
	case isIdentStart(l.ch):
		ident := l.readIdentifier()
		return l.tokenFrom(lookupIdent(ident), ident, start)
	case l.ch >= utf8.RuneSelf:
		r, size := utf8.DecodeRuneInString(l.input[l.position:])
		if unicode.IsLetter(r) {
			ident := l.readIdentifier()
			return l.tokenFrom(lookupIdent(ident), ident, start)
		}
		for i := 0; i < size; i++ {
			l.readChar()
		}
		return l.tokenFrom(TokenError, fmt.Sprintf("unknown character %q", r), start)
	case isDigit(l.ch):
		return l.readNumber(start)
	case l.ch == '"':
		return l.readString(start)
	case l.ch == '\'':
		return l.readCharOrLifetime(start)
	}

	if tt, lit, ok := l.readPunctuation(); ok {
		return l.tokenFrom(tt, lit, start)
	}

	ch := l.ch
	l.readChar()
	return l.tokenFrom(TokenError, fmt.Sprintf("unknown character %q", ch), start)
}

// Tokenize scans the whole input. Scanning stops after the first error token,
// which is returned as the last element.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			return tokens
		}
	}
}

// punctuation lists operators longest first so the scan is greedy.
var punctuation = []struct {
	lit string
	tt  TokenType
}{
	{"<<=", TokenShlEq}, {">>=", TokenShrEq}, {"...", TokenDotDotDot}, {"..=", TokenDotDotEq},
	{"::", TokenPathSep}, {"->", TokenRArrow}, {"=>", TokenFatArrow}, {"==", TokenEqEq},
	{"!=", TokenNe}, {"<=", TokenLe}, {">=", TokenGe}, {"&&", TokenAndAnd}, {"||", TokenOrOr},
	{"<<", TokenShl}, {">>", TokenShr}, {"+=", TokenPlusEq}, {"-=", TokenMinusEq},
	{"*=", TokenStarEq}, {"/=", TokenSlashEq}, {"%=", TokenPercentEq}, {"^=", TokenCaretEq},
	{"&=", TokenAndEq}, {"|=", TokenOrEq}, {"..", TokenDotDot},
	{"+", TokenPlus}, {"-", TokenMinus}, {"*", TokenStar}, {"/", TokenSlash}, {"%", TokenPercent},
	{"^", TokenCaret}, {"!", TokenNot}, {"&", TokenAnd}, {"|", TokenOr}, {"=", TokenEq},
	{">", TokenGt}, {"<", TokenLt}, {"@", TokenAt}, {".", TokenDot}, {",", TokenComma},
	{";", TokenSemicolon}, {":", TokenColon}, {"#", TokenPound}, {"$", TokenDollar},
	{"?", TokenQuestion}, {"~", TokenTilde}, {"(", TokenLParen}, {")", TokenRParen},
	{"[", TokenLBracket}, {"]", TokenRBracket}, {"{", TokenLBrace}, {"}", TokenRBrace},
}

func (l *Lexer) readPunctuation() (TokenType, string, bool) {
	rest := l.input[l.position:]
	for _, p := range punctuation {
		if len(rest) >= len(p.lit) && rest[:len(p.lit)] == p.lit {
			for i := 0; i < len(p.lit); i++ {
				l.readChar()
			}
			return p.tt, p.lit, true
		}
	}
	return TokenError, "", false
}

// readIdentifier reads an ASCII or Unicode identifier
func (l *Lexer) readIdentifier() string {
	start := l.position
	for !l.atEOF() {
		if isIdentContinue(l.ch) {
			l.readChar()
			continue
		}
		if l.ch >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(l.input[l.position:])
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				for i := 0; i < size; i++ {
					l.readChar()
				}
				continue
			}
		}
		break
	}
	return l.input[start:l.position]
}

// readNumber reads integer and float literals, including `_` separators,
// exponents, radix prefixes and type suffixes such as `5u8` or `1.0f64`.
func (l *Lexer) readNumber(start position.Position) Token {
	begin := l.position
	tt := TokenInteger

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'o' || l.peekChar() == 'b') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	} else {
		l.readDigits()
		// `1..2` is a range and `x.0.foo()` a field access, so a dot only
		// continues the literal when a digit follows.
		if l.ch == '.' && isDigit(l.peekChar()) {
			tt = TokenFloat
			l.readChar()
			l.readDigits()
		}
		if (l.ch == 'e' || l.ch == 'E') &&
			(isDigit(l.peekChar()) || ((l.peekChar() == '+' || l.peekChar() == '-') && isDigit(l.peekAt(2)))) {
			tt = TokenFloat
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			l.readDigits()
		}
	}

	// type suffix
	if isIdentStart(l.ch) {
		suffix := l.readIdentifier()
		if suffix == "f32" || suffix == "f64" {
			tt = TokenFloat
		}
	}

	return l.tokenFrom(tt, l.input[begin:l.position], start)
}

func (l *Lexer) readDigits() {
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
}

// readString reads a quoted string; the current char is the opening quote.
// The literal starts at start, which covers a consumed b prefix.
func (l *Lexer) readString(start position.Position) Token {
	begin := start.Offset
	l.readChar()
	for l.ch != '"' {
		if l.atEOF() {
			return l.tokenFrom(TokenError, "unterminated string literal", start)
		}
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	l.readChar()
	return l.tokenFrom(TokenString, l.input[begin:l.position], start)
}

// rawStringAt reports whether a raw string body (`"` or `#"`, `##"`, ...)
// begins n bytes ahead.
func (l *Lexer) rawStringAt(n int) bool {
	for l.peekAt(n) == '#' {
		n++
	}
	return l.peekAt(n) == '"'
}

// readRawString reads r"..." and r#"..."# literals, with an optional b
// prefix already consumed.
func (l *Lexer) readRawString(start position.Position) Token {
	begin := start.Offset
	l.readChar() // r
	hashes := 0
	for l.ch == '#' {
		hashes++
		l.readChar()
	}
	if l.ch != '"' {
		return l.tokenFrom(TokenError, "malformed raw string literal", start)
	}
	l.readChar()
	for {
		if l.atEOF() {
			return l.tokenFrom(TokenError, "unterminated raw string literal", start)
		}
		if l.ch == '"' {
			n := 0
			for n < hashes && l.peekAt(n+1) == '#' {
				n++
			}
			if n == hashes {
				for i := 0; i <= hashes; i++ {
					l.readChar()
				}
				return l.tokenFrom(TokenString, l.input[begin:l.position], start)
			}
		}
		l.readChar()
	}
}

// readCharOrLifetime distinguishes 'a' (char) from 'a (lifetime).
func (l *Lexer) readCharOrLifetime(start position.Position) Token {
	next := l.peekChar()
	if next == '\\' {
		return l.readCharLiteral(start)
	}
	_, size := utf8.DecodeRuneInString(l.input[min(l.position+1, len(l.input)):])
	if l.peekAt(1+size) == '\'' {
		return l.readCharLiteral(start)
	}
	if isIdentStart(next) {
		begin := l.position
		l.readChar()
		l.readIdentifier()
		return l.tokenFrom(TokenLifetime, l.input[begin:l.position], start)
	}
	return l.readCharLiteral(start)
}

// readCharLiteral reads a quoted char; the current char is the opening quote.
func (l *Lexer) readCharLiteral(start position.Position) Token {
	begin := start.Offset
	l.readChar()
	for l.ch != '\'' {
		if l.atEOF() || l.ch == '\n' {
			return l.tokenFrom(TokenError, "unterminated character literal", start)
		}
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	l.readChar()
	return l.tokenFrom(TokenChar, l.input[begin:l.position], start)
}

// tokenFrom creates a token spanning from start to the current position
func (l *Lexer) tokenFrom(tokenType TokenType, literal string, start position.Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Span: position.Span{
			Start: start,
			End:   l.currentPosition(),
		},
	}
}

func isIdentStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
