package lexer

import "testing"

type expectedToken struct {
	expectedType  TokenType
	expectedValue string
}

func checkTokens(t *testing.T, input string, tests []expectedToken) {
	t.Helper()

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (literal %q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestBasicTokens(t *testing.T) {
	input := `mod math {
    pub fn sin(x: f64) -> f64 { x }
}`

	checkTokens(t, input, []expectedToken{
		{TokenMod, "mod"},
		{TokenIdentifier, "math"},
		{TokenLBrace, "{"},
		{TokenPub, "pub"},
		{TokenFn, "fn"},
		{TokenIdentifier, "sin"},
		{TokenLParen, "("},
		{TokenIdentifier, "x"},
		{TokenColon, ":"},
		{TokenIdentifier, "f64"},
		{TokenRParen, ")"},
		{TokenRArrow, "->"},
		{TokenIdentifier, "f64"},
		{TokenLBrace, "{"},
		{TokenIdentifier, "x"},
		{TokenRBrace, "}"},
		{TokenRBrace, "}"},
		{TokenEOF, ""},
	})
}

func TestKeywords(t *testing.T) {
	input := `trait impl type use where dyn self Self super crate move`

	checkTokens(t, input, []expectedToken{
		{TokenTrait, "trait"},
		{TokenImpl, "impl"},
		{TokenType_, "type"},
		{TokenUse, "use"},
		{TokenWhere, "where"},
		{TokenDyn, "dyn"},
		{TokenSelfValue, "self"},
		{TokenSelfType, "Self"},
		{TokenSuper, "super"},
		{TokenCrate, "crate"},
		{TokenMove, "move"},
		{TokenEOF, ""},
	})
}

func TestOperators(t *testing.T) {
	input := `:: -> => == != <= >= && || << >> <<= >>= += .. ..= ... | ! ? # _`

	checkTokens(t, input, []expectedToken{
		{TokenPathSep, "::"},
		{TokenRArrow, "->"},
		{TokenFatArrow, "=>"},
		{TokenEqEq, "=="},
		{TokenNe, "!="},
		{TokenLe, "<="},
		{TokenGe, ">="},
		{TokenAndAnd, "&&"},
		{TokenOrOr, "||"},
		{TokenShl, "<<"},
		{TokenShr, ">>"},
		{TokenShlEq, "<<="},
		{TokenShrEq, ">>="},
		{TokenPlusEq, "+="},
		{TokenDotDot, ".."},
		{TokenDotDotEq, "..="},
		{TokenDotDotDot, "..."},
		{TokenOr, "|"},
		{TokenNot, "!"},
		{TokenQuestion, "?"},
		{TokenPound, "#"},
		{TokenUnderscore, "_"},
		{TokenEOF, ""},
	})
}

func TestNumbers(t *testing.T) {
	input := `5 5.0 1_000 0xFF 5u8 1.5f32 2e10 1..2 x.0`

	checkTokens(t, input, []expectedToken{
		{TokenInteger, "5"},
		{TokenFloat, "5.0"},
		{TokenInteger, "1_000"},
		{TokenInteger, "0xFF"},
		{TokenInteger, "5u8"},
		{TokenFloat, "1.5f32"},
		{TokenFloat, "2e10"},
		{TokenInteger, "1"},
		{TokenDotDot, ".."},
		{TokenInteger, "2"},
		{TokenIdentifier, "x"},
		{TokenDot, "."},
		{TokenInteger, "0"},
		{TokenEOF, ""},
	})
}

func TestStringsCharsAndLifetimes(t *testing.T) {
	input := `"hi \"there\"" r#"raw "quoted""# b"bytes" br"raw" br#"r"b"# b'x' 'a' '\n' 'a &'static str`

	checkTokens(t, input, []expectedToken{
		{TokenString, `"hi \"there\""`},
		{TokenString, `r#"raw "quoted""#`},
		{TokenString, `b"bytes"`},
		{TokenString, `br"raw"`},
		{TokenString, `br#"r"b"#`},
		{TokenChar, `b'x'`},
		{TokenChar, `'a'`},
		{TokenChar, `'\n'`},
		{TokenLifetime, `'a`},
		{TokenAnd, "&"},
		{TokenLifetime, `'static`},
		{TokenIdentifier, "str"},
		{TokenEOF, ""},
	})
}

func TestComments(t *testing.T) {
	input := `// line comment
fn /* block /* nested */ still comment */ main() {}`

	checkTokens(t, input, []expectedToken{
		{TokenFn, "fn"},
		{TokenIdentifier, "main"},
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenLBrace, "{"},
		{TokenRBrace, "}"},
		{TokenEOF, ""},
	})
}

func TestUnicodeIdentifiers(t *testing.T) {
	checkTokens(t, `let größe = 1;`, []expectedToken{
		{TokenLet, "let"},
		{TokenIdentifier, "größe"},
		{TokenEq, "="},
		{TokenInteger, "1"},
		{TokenSemicolon, ";"},
		{TokenEOF, ""},
	})
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"unknown character", "fn main() { ` }", "unknown character '`'"},
		{"unterminated string", `"abc`, "unterminated string literal"},
		{"unterminated block comment", "/* open", "unterminated block comment"},
		{"unterminated char", "'\\x", "unterminated character literal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := New(tt.input).Tokenize()
			last := tokens[len(tokens)-1]

			if last.Type != TokenError {
				t.Fatalf("last token type = %s, want ERROR", last.Type)
			}
			if last.Literal != tt.message {
				t.Errorf("error message = %q, want %q", last.Literal, tt.message)
			}
		})
	}
}

func TestPositions(t *testing.T) {
	input := "mod a {\n    fn cos() {}\n}"
	l := NewWithFilename(input, "main.rs")

	var cos Token
	for {
		tok := l.NextToken()
		if tok.Literal == "cos" {
			cos = tok
			break
		}
		if tok.Type == TokenEOF {
			t.Fatal("identifier cos not found")
		}
	}

	if cos.Span.Start.Line != 2 || cos.Span.Start.Column != 8 {
		t.Errorf("start = %d:%d, want 2:8", cos.Span.Start.Line, cos.Span.Start.Column)
	}
	if cos.Span.End.Column != 11 {
		t.Errorf("end column = %d, want 11", cos.Span.End.Column)
	}
	if cos.Span.Start.Offset != 15 || cos.Span.End.Offset != 18 {
		t.Errorf("offsets = %d..%d, want 15..18", cos.Span.Start.Offset, cos.Span.End.Offset)
	}
	if cos.Span.Start.Filename != "main.rs" {
		t.Errorf("filename = %q, want main.rs", cos.Span.Start.Filename)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Type: TokenEOF}, "end of file"},
		{Token{Type: TokenIdentifier, Literal: "x"}, "identifier `x`"},
		{Token{Type: TokenInteger, Literal: "1"}, "literal `1`"},
		{Token{Type: TokenSemicolon, Literal: ";"}, "`;`"},
	}

	for _, tt := range tests {
		if got := tt.tok.Describe(); got != tt.want {
			t.Errorf("Describe() = %q, want %q", got, tt.want)
		}
	}
}
