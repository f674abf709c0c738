package lexer

import (
	"testing"

	"github.com/tova-lang/tova/internal/token"
)

func lexAll(src string) []token.Token {
	l := New(src, "test.tova")
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, src string, want ...token.Kind) {
	t.Helper()
	got := kinds(lexAll(src))
	if len(got) != len(want) {
		t.Fatalf("lex(%q) produced %d tokens %v, want %d %v", src, len(got), got, len(want), want)
	}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("lex(%q)[%d] = %v, want %v (full: %v)", src, i, got[i], k, got)
		}
	}
}

func TestLexerPunctuationAndOperators(t *testing.T) {
	assertKinds(t, "1 + 2", token.NUMBER, token.PLUS, token.NUMBER, token.EOF)
	assertKinds(t, "a ?? b", token.IDENT, token.QQ, token.IDENT, token.EOF)
	assertKinds(t, "a?.b", token.IDENT, token.QDOT, token.IDENT, token.EOF)
	assertKinds(t, "a |> b", token.IDENT, token.PIPE, token.IDENT, token.EOF)
	assertKinds(t, "a..b", token.IDENT, token.DOTDOT, token.IDENT, token.EOF)
	assertKinds(t, "a..=b", token.IDENT, token.DOTDOTEQ, token.IDENT, token.EOF)
	assertKinds(t, "[...xs]", token.LBRACK, token.ELLIPSIS, token.IDENT, token.RBRACK, token.EOF)
}

func TestLexerKeywords(t *testing.T) {
	assertKinds(t, "server client shared deploy test form",
		token.SERVER, token.CLIENT, token.SHARED, token.DEPLOY, token.TEST, token.FORM, token.EOF)
	assertKinds(t, "state computed effect component store route",
		token.STATE, token.COMPUTED, token.EFFECT, token.COMPONENT, token.STORE, token.ROUTE, token.EOF)
}

func TestLexerNumbers(t *testing.T) {
	l := New("42 3.14 1e10", "test.tova")

	tok := l.NextToken()
	if tok.Kind != token.NUMBER || tok.IsFloat || tok.Number != 42 {
		t.Fatalf("42 lexed as %+v", tok)
	}
	tok = l.NextToken()
	if tok.Kind != token.NUMBER || !tok.IsFloat || tok.Number != 3.14 {
		t.Fatalf("3.14 lexed as %+v", tok)
	}
	tok = l.NextToken()
	if tok.Kind != token.NUMBER || !tok.IsFloat || tok.Number != 1e10 {
		t.Fatalf("1e10 lexed as %+v", tok)
	}
}

func TestLexerStringLiteral(t *testing.T) {
	l := New(`"hello\nworld"`, "test.tova")
	tok := l.NextToken()
	if tok.Kind != token.STRING {
		t.Fatalf("expected STRING, got %v", tok.Kind)
	}
	if tok.Literal != "hello\nworld" {
		t.Fatalf("decoded literal = %q, want %q", tok.Literal, "hello\nworld")
	}
}

func TestLexerStringTemplate(t *testing.T) {
	l := New(`"count: {count}"`, "test.tova")
	tok := l.NextToken()
	if tok.Kind != token.STRING_TEMPLATE {
		t.Fatalf("expected STRING_TEMPLATE, got %v", tok.Kind)
	}
	if len(tok.Template) != 2 {
		t.Fatalf("expected 2 template parts, got %d: %+v", len(tok.Template), tok.Template)
	}
}

func TestLexerStyleBlock(t *testing.T) {
	l := New("style { .foo { color: red; } }", "test.tova")
	tok := l.NextToken()
	if tok.Kind != token.STYLE_BLOCK {
		t.Fatalf("expected STYLE_BLOCK, got %v: %q", tok.Kind, tok.Literal)
	}
	if tok.Literal == "" {
		t.Fatalf("STYLE_BLOCK literal should carry the raw CSS text")
	}
}

func TestLexerPositions(t *testing.T) {
	l := New("a\nbc", "test.tova")
	tok := l.NextToken()
	if tok.Pos.Line != 1 || tok.Pos.Column != 1 {
		t.Fatalf("first token pos = %v, want 1:1", tok.Pos)
	}
	tok = l.NextToken()
	if tok.Pos.Line != 2 || tok.Pos.Column != 1 {
		t.Fatalf("second-line token pos = %v, want 2:1", tok.Pos)
	}
}

func TestLexerIllegalCharacter(t *testing.T) {
	l := New("a \x01 b", "test.tova")
	l.NextToken() // a
	tok := l.NextToken()
	if tok.Kind != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL for control character, got %v", tok.Kind)
	}
}
