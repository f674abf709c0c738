// Package parser implements a recursive-descent parser over the token
// stream produced by internal/lexer, building the internal/ast tree
// (spec §4.2).
//
// Key patterns:
//   - tokenSource abstracts "pull from the live lexer" vs. "replay a fixed
//     token slice" (the latter used for string-template `{expr}` parts,
//     which the lexer already tokenized in isolation).
//   - One token of lookahead is fetched lazily, not eagerly, because JSX
//     child scanning depends on the lexer's mode stack: pushing/popping
//     JSX-children mode must happen before the *next* token is pulled, so
//     callers that switch modes must do so while no lookahead is cached.
//   - Tolerant mode never aborts on a syntax error: it records the error
//     and inserts an ast.ErrorNode, then synchronizes to the next
//     statement boundary (a blank line equivalent: a RBRACE, or a keyword
//     that starts a new statement) and keeps going.
package parser

import (
	"fmt"

	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/errors"
	"github.com/tova-lang/tova/internal/lexer"
	"github.com/tova-lang/tova/internal/token"
)

// tokenSource is anything the parser can pull tokens from one at a time.
type tokenSource interface {
	next() token.Token
}

type lexerSource struct{ l *lexer.Lexer }

func (s lexerSource) next() token.Token { return s.l.NextToken() }

type sliceSource struct {
	toks []token.Token
	i    int
}

func (s *sliceSource) next() token.Token {
	if s.i >= len(s.toks) {
		if len(s.toks) > 0 {
			return token.Token{Kind: token.EOF, Pos: s.toks[len(s.toks)-1].Pos}
		}
		return token.Token{Kind: token.EOF}
	}
	t := s.toks[s.i]
	s.i++
	return t
}

// Option configures a Parser.
type Option func(*Parser)

// Tolerant enables error-recovery mode: after a syntax error the parser
// synchronizes to the next statement boundary and inserts an ast.ErrorNode
// placeholder (spec §4.2). Without it the parser still records every error
// and keeps parsing, skipping only the offending token and inserting no
// ErrorNode; it does not stop at the first error.
func Tolerant(v bool) Option {
	return func(p *Parser) { p.tolerant = v }
}

// Parser turns a token stream into an *ast.Program.
type Parser struct {
	lex    *lexer.Lexer // non-nil only for the top-level, lexer-backed parser
	src    tokenSource
	file   string
	source string

	cur    token.Token
	peeked *token.Token // lazily filled; must be nil across a lexer-mode switch

	diags    []*errors.Diagnostic
	tolerant bool
}

// New creates a Parser over freshly lexed source.
func New(src, file string, opts ...Option) *Parser {
	l := lexer.New(src, file)
	p := &Parser{lex: l, src: lexerSource{l}, file: file, source: src}
	for _, o := range opts {
		o(p)
	}
	p.cur = p.src.next()
	return p
}

// newFromTokens builds a parser replaying an already-tokenized slice, used
// for the expression embedded in a string template's `{...}` part.
func newFromTokens(toks []token.Token, file, source string, tolerant bool) *Parser {
	p := &Parser{src: &sliceSource{toks: toks}, file: file, source: source, tolerant: tolerant}
	p.cur = p.src.next()
	return p
}

// Diagnostics returns every error recorded so far, plus any fatal lexer
// errors (invalid UTF-8, unterminated comments/strings).
func (p *Parser) Diagnostics() []*errors.Diagnostic {
	diags := append([]*errors.Diagnostic(nil), p.diags...)
	if p.lex != nil {
		for _, e := range p.lex.Errors() {
			diags = append(diags, errors.New(e.Pos, e.Message, p.source, p.file))
		}
	}
	return diags
}

func (p *Parser) errorf(pos token.Position, format string, args ...interface{}) {
	p.diags = append(p.diags, errors.New(pos, fmt.Sprintf(format, args...), p.source, p.file))
}

// peek returns (and caches) the next token without consuming cur. Callers
// that are about to switch the underlying lexer's JSX mode must not have
// called peek since the last advance(), or the cached token will reflect
// the wrong mode.
func (p *Parser) peek() token.Token {
	if p.peeked == nil {
		t := p.src.next()
		p.peeked = &t
	}
	return *p.peeked
}

// hasPeeked reports whether a lookahead token is currently cached.
func (p *Parser) hasPeeked() bool { return p.peeked != nil }

func (p *Parser) advance() token.Token {
	prev := p.cur
	if p.peeked != nil {
		p.cur = *p.peeked
		p.peeked = nil
	} else {
		p.cur = p.src.next()
	}
	return prev
}

func (p *Parser) at(k token.Kind) bool { return p.cur.Kind == k }

func (p *Parser) atAny(ks ...token.Kind) bool {
	for _, k := range ks {
		if p.cur.Kind == k {
			return true
		}
	}
	return false
}

// accept consumes cur if it matches k, reporting whether it did.
func (p *Parser) accept(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes cur if it matches k, else records a diagnostic and
// returns the zero Token so callers can keep going in tolerant mode.
func (p *Parser) expect(k token.Kind) token.Token {
	if p.at(k) {
		return p.advance()
	}
	p.errorf(p.cur.Pos, "expected %s, got %s %q", k, p.cur.Kind, p.cur.Literal)
	return token.Token{Kind: k, Pos: p.cur.Pos}
}

// synchronize skips tokens until a likely statement boundary, so tolerant
// mode can recover from one bad statement without cascading.
func (p *Parser) synchronize() {
	for !p.at(token.EOF) {
		if p.at(token.RBRACE) {
			return
		}
		switch p.cur.Kind {
		case token.VAR, token.FN, token.IF, token.FOR, token.WHILE, token.RETURN,
			token.TYPE, token.IMPL, token.TRAIT, token.MATCH, token.BREAK, token.CONTINUE:
			return
		}
		p.advance()
	}
}

// drainDocComments collects and clears any `///` lines the lexer has
// accumulated since the last declaration, joined with newlines.
func (p *Parser) drainDocComments() string {
	if p.lex == nil {
		return ""
	}
	docs := p.lex.DocComments()
	if len(docs) == 0 {
		return ""
	}
	out := ""
	for i, d := range docs {
		if i > 0 {
			out += "\n"
		}
		out += d
	}
	return out
}

// Parse consumes the whole token stream and returns the resulting
// Program. In tolerant mode it never returns a nil Program; check
// Diagnostics() for what went wrong.
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{Loc: ast.Loc{P: p.cur.Pos}}
	for !p.at(token.EOF) {
		stmt := p.parseTopLevelStmt()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog
}

// mark is a bounded-backtracking snapshot, used to try a parse (lambda
// params vs. a parenthesized expression) and undo it if it doesn't pan
// out. Only safe across lexer-backed and slice-backed sources; it never
// crosses a JSX mode switch because callers always resolve the ambiguity
// before any JSX parsing begins.
type mark struct {
	cur      token.Token
	peeked   *token.Token
	lexState lexer.State
	sliceIdx int
}

// tryMark saves parser state. ok is always true; it mirrors the
// save/attempt/reset call shape used elsewhere so callers read naturally.
func (p *Parser) tryMark() (mark, bool) {
	m := mark{cur: p.cur, peeked: p.peeked}
	switch src := p.src.(type) {
	case lexerSource:
		m.lexState = src.l.Save()
	case *sliceSource:
		m.sliceIdx = src.i
	}
	return m, true
}

func (p *Parser) reset(m mark) {
	p.cur = m.cur
	p.peeked = m.peeked
	switch src := p.src.(type) {
	case lexerSource:
		src.l.Restore(m.lexState)
	case *sliceSource:
		src.i = m.sliceIdx
	}
}

// recoverStmt wraps a parse step with tolerant-mode error recovery: if fn
// returns nil, a synchronize + ErrorNode is substituted.
func (p *Parser) recoverStmt(fn func() ast.Stmt) ast.Stmt {
	pos := p.cur.Pos
	stmt := fn()
	if stmt == nil {
		msg := "unexpected token"
		p.errorf(pos, msg+" %q while parsing statement", p.cur.Literal)
		if !p.tolerant {
			p.advance()
			return nil
		}
		p.synchronize()
		return &ast.ErrorNode{Loc: ast.Loc{P: pos}, Message: msg}
	}
	return stmt
}
