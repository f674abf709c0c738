package lexer

import (
	"strings"

	"github.com/tova-lang/tova/internal/token"
)

// jsxControlWords are the identifiers that, at a word boundary inside JSX
// children, terminate a running JSX_TEXT scan so the parser can read them
// as a control-flow keyword instead (spec §4.1 "Control-flow block").
var jsxControlWords = map[string]bool{"if": true, "elif": true, "else": true, "for": true}

// valueKinds is the set of token kinds after which a following `<` cannot
// start JSX (spec §4.1 JSX lexing rule / §8 "JSX boundary recognition").
var valueKinds = map[token.Kind]bool{
	token.IDENT: true, token.NUMBER: true, token.STRING: true,
	token.STRING_TEMPLATE: true, token.RPAREN: true, token.RBRACK: true,
	token.RBRACE: true, token.TRUE: true, token.FALSE: true, token.NIL: true,
}

// jsxOpensHere decides whether the `<` at the current position begins a
// JSX element: the previous emitted token must not be value-producing, and
// the character right after `<` must be alphabetic.
func (l *Lexer) jsxOpensHere() bool {
	if l.havePrev && valueKinds[l.prevSignificant] {
		return false
	}
	return isLetter(l.peek())
}

func (l *Lexer) readJSXOpenAngle(pos token.Position) token.Token {
	l.readChar()
	return token.Token{Kind: token.LT, Literal: "<", Pos: pos}
}

// PushNormal temporarily suspends JSX-children text scanning; the parser
// calls this right after consuming the `{` that opens an attribute/child
// expression, and PopJSXMode to resume once the matching `}` is consumed.
func (l *Lexer) PushNormal() { l.pushMode(modeNormal) }

// tryJSXChildToken attempts to produce a JSX_TEXT token from the current
// position. It returns ok=false (consuming nothing extra beyond leading
// whitespace) when the position is structural and should be tokenized
// normally instead.
func (l *Lexer) tryJSXChildToken() (token.Token, bool) {
	pos := l.currentPos()
	var sb strings.Builder
	sawSpace := false
	consumedAny := false

	flush := func() string {
		s := strings.TrimSpace(sb.String())
		return s
	}

	for {
		switch {
		case l.ch == 0, l.ch == '<', l.ch == '{', l.ch == '"', l.ch == '\'', l.ch == '}':
			text := flush()
			if text == "" {
				return token.Token{}, false
			}
			return token.Token{Kind: token.JSX_TEXT, Literal: text, Pos: pos}, true
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			sawSpace = true
			l.readChar()
			continue
		case isLetter(l.ch):
			if word, ok := l.peekWord(); ok && jsxControlWords[word] {
				text := flush()
				if text == "" {
					return token.Token{}, false
				}
				return token.Token{Kind: token.JSX_TEXT, Literal: text, Pos: pos}, true
			}
		}
		if sawSpace && consumedAny {
			sb.WriteByte(' ')
		}
		sawSpace = false
		sb.WriteRune(l.ch)
		consumedAny = true
		l.readChar()
	}
}

// peekWord reports the maximal identifier run starting at the current
// character, without consuming it.
func (l *Lexer) peekWord() (string, bool) {
	if !isLetter(l.ch) {
		return "", false
	}
	var sb strings.Builder
	sb.WriteRune(l.ch)
	n := 1
	for {
		r := l.peekN(n - 1)
		if !isLetter(r) && !isDigit(r) {
			break
		}
		sb.WriteRune(r)
		n++
	}
	return sb.String(), true
}
