package lexer

import (
	"fmt"

	"github.com/orizon-lang/modcheck/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token types
const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenIdentifier
	TokenInteger
	TokenFloat
	TokenString
	TokenChar
	TokenLifetime

	// Keywords
	TokenAs
	TokenAsync
	TokenBreak
	TokenConst
	TokenContinue
	TokenCrate
	TokenDyn
	TokenElse
	TokenEnum
	TokenExtern
	TokenFalse
	TokenFn
	TokenFor
	TokenIf
	TokenImpl
	TokenIn
	TokenLet
	TokenLoop
	TokenMatch
	TokenMod
	TokenMove
	TokenMut
	TokenPub
	TokenRef
	TokenReturn
	TokenSelfValue
	TokenSelfType
	TokenStatic
	TokenStruct
	TokenSuper
	TokenTrait
	TokenTrue
	TokenType_
	TokenUnsafe
	TokenUse
	TokenWhere
	TokenWhile

	// Operators
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenCaret
	TokenNot
	TokenAnd
	TokenOr
	TokenAndAnd
	TokenOrOr
	TokenShl
	TokenShr
	TokenPlusEq
	TokenMinusEq
	TokenStarEq
	TokenSlashEq
	TokenPercentEq
	TokenCaretEq
	TokenAndEq
	TokenOrEq
	TokenShlEq
	TokenShrEq
	TokenEq
	TokenEqEq
	TokenNe
	TokenGt
	TokenLt
	TokenGe
	TokenLe

	// Punctuation
	TokenAt
	TokenUnderscore
	TokenDot
	TokenDotDot
	TokenDotDotDot
	TokenDotDotEq
	TokenComma
	TokenSemicolon
	TokenColon
	TokenPathSep
	TokenRArrow
	TokenFatArrow
	TokenPound
	TokenDollar
	TokenQuestion
	TokenTilde
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
)

// Token represents a lexical token with position information
type Token struct {
	Type    TokenType
	Literal string
	Span    position.Span
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, At: %s}", t.Type, t.Literal, t.Span.Start)
}

// Describe renders the token the way diagnostics quote it.
func (t Token) Describe() string {
	switch t.Type {
	case TokenEOF:
		return "end of file"
	case TokenError:
		return t.Literal
	case TokenIdentifier:
		return fmt.Sprintf("identifier `%s`", t.Literal)
	case TokenInteger, TokenFloat, TokenString, TokenChar:
		return fmt.Sprintf("literal `%s`", t.Literal)
	default:
		return fmt.Sprintf("`%s`", t.Literal)
	}
}

// IsKeyword reports whether the token type is a reserved word.
func (tt TokenType) IsKeyword() bool {
	return tt >= TokenAs && tt <= TokenWhile
}

// tokenNames provides string representations for token types
var tokenNames = map[TokenType]string{
	TokenEOF:   "EOF",
	TokenError: "ERROR",

	TokenIdentifier: "IDENTIFIER",
	TokenInteger:    "INTEGER",
	TokenFloat:      "FLOAT",
	TokenString:     "STRING",
	TokenChar:       "CHAR",
	TokenLifetime:   "LIFETIME",

	TokenAs:        "AS",
	TokenAsync:     "ASYNC",
	TokenBreak:     "BREAK",
	TokenConst:     "CONST",
	TokenContinue:  "CONTINUE",
	TokenCrate:     "CRATE",
	TokenDyn:       "DYN",
	TokenElse:      "ELSE",
	TokenEnum:      "ENUM",
	TokenExtern:    "EXTERN",
	TokenFalse:     "FALSE",
	TokenFn:        "FN",
	TokenFor:       "FOR",
	TokenIf:        "IF",
	TokenImpl:      "IMPL",
	TokenIn:        "IN",
	TokenLet:       "LET",
	TokenLoop:      "LOOP",
	TokenMatch:     "MATCH",
	TokenMod:       "MOD",
	TokenMove:      "MOVE",
	TokenMut:       "MUT",
	TokenPub:       "PUB",
	TokenRef:       "REF",
	TokenReturn:    "RETURN",
	TokenSelfValue: "SELF_VALUE",
	TokenSelfType:  "SELF_TYPE",
	TokenStatic:    "STATIC",
	TokenStruct:    "STRUCT",
	TokenSuper:     "SUPER",
	TokenTrait:     "TRAIT",
	TokenTrue:      "TRUE",
	TokenType_:     "TYPE",
	TokenUnsafe:    "UNSAFE",
	TokenUse:       "USE",
	TokenWhere:     "WHERE",
	TokenWhile:     "WHILE",

	TokenPlus:      "PLUS",
	TokenMinus:     "MINUS",
	TokenStar:      "STAR",
	TokenSlash:     "SLASH",
	TokenPercent:   "PERCENT",
	TokenCaret:     "CARET",
	TokenNot:       "NOT",
	TokenAnd:       "AND",
	TokenOr:        "OR",
	TokenAndAnd:    "AND_AND",
	TokenOrOr:      "OR_OR",
	TokenShl:       "SHL",
	TokenShr:       "SHR",
	TokenPlusEq:    "PLUS_EQ",
	TokenMinusEq:   "MINUS_EQ",
	TokenStarEq:    "STAR_EQ",
	TokenSlashEq:   "SLASH_EQ",
	TokenPercentEq: "PERCENT_EQ",
	TokenCaretEq:   "CARET_EQ",
	TokenAndEq:     "AND_EQ",
	TokenOrEq:      "OR_EQ",
	TokenShlEq:     "SHL_EQ",
	TokenShrEq:     "SHR_EQ",
	TokenEq:        "EQ",
	TokenEqEq:      "EQ_EQ",
	TokenNe:        "NE",
	TokenGt:        "GT",
	TokenLt:        "LT",
	TokenGe:        "GE",
	TokenLe:        "LE",

	TokenAt:         "AT",
	TokenUnderscore: "UNDERSCORE",
	TokenDot:        "DOT",
	TokenDotDot:     "DOT_DOT",
	TokenDotDotDot:  "DOT_DOT_DOT",
	TokenDotDotEq:   "DOT_DOT_EQ",
	TokenComma:      "COMMA",
	TokenSemicolon:  "SEMICOLON",
	TokenColon:      "COLON",
	TokenPathSep:    "PATH_SEP",
	TokenRArrow:     "R_ARROW",
	TokenFatArrow:   "FAT_ARROW",
	TokenPound:      "POUND",
	TokenDollar:     "DOLLAR",
	TokenQuestion:   "QUESTION",
	TokenTilde:      "TILDE",
	TokenLParen:     "LPAREN",
	TokenRParen:     "RPAREN",
	TokenLBracket:   "LBRACKET",
	TokenRBracket:   "RBRACKET",
	TokenLBrace:     "LBRACE",
	TokenRBrace:     "RBRACE",
}

// keywords maps string keywords to their token types
var keywords = map[string]TokenType{
	"as":       TokenAs,
	"async":    TokenAsync,
	"break":    TokenBreak,
	"const":    TokenConst,
	"continue": TokenContinue,
	"crate":    TokenCrate,
	"dyn":      TokenDyn,
	"else":     TokenElse,
	"enum":     TokenEnum,
	"extern":   TokenExtern,
	"false":    TokenFalse,
	"fn":       TokenFn,
	"for":      TokenFor,
	"if":       TokenIf,
	"impl":     TokenImpl,
	"in":       TokenIn,
	"let":      TokenLet,
	"loop":     TokenLoop,
	"match":    TokenMatch,
	"mod":      TokenMod,
	"move":     TokenMove,
	"mut":      TokenMut,
	"pub":      TokenPub,
	"ref":      TokenRef,
	"return":   TokenReturn,
	"self":     TokenSelfValue,
	"Self":     TokenSelfType,
	"static":   TokenStatic,
	"struct":   TokenStruct,
	"super":    TokenSuper,
	"trait":    TokenTrait,
	"true":     TokenTrue,
	"type":     TokenType_,
	"unsafe":   TokenUnsafe,
	"use":      TokenUse,
	"where":    TokenWhere,
	"while":    TokenWhile,
}

// lookupIdent checks if identifier is keyword
func lookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdentifier
}
