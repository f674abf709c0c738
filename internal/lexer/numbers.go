package lexer

import (
	"strconv"
	"strings"

	"github.com/tova-lang/tova/internal/token"
)

// readNumber scans one numeric literal starting at l.ch (already known to
// be a digit, or a '.' followed by a digit). See spec §4.1/§8 for the full
// set of supported forms and their edge cases.
func (l *Lexer) readNumber(pos token.Position) token.Token {
	start := l.position

	if l.ch == '0' {
		switch l.peek() {
		case 'x', 'X':
			return l.readPrefixedInt(pos, start, "hex", isHexDigit, 16)
		case 'b', 'B':
			return l.readPrefixedInt(pos, start, "binary", isBinDigit, 2)
		case 'o', 'O':
			return l.readPrefixedInt(pos, start, "octal", isOctDigit, 8)
		}
	}

	var intDigits, fracDigits, expDigits strings.Builder
	hasFrac, hasExp, expNeg := false, false, false

	l.consumeDigitsInto(&intDigits)

	// A '.' starts a fractional part only when followed by a digit (or by
	// `_` and a digit, `1._5`); otherwise it's a separate DOT token
	// (disambiguates `42.abc`/`3.14.x`).
	if l.ch == '.' && (isDigit(l.peek()) || (l.peek() == '_' && isDigit(l.peekN(1)))) {
		hasFrac = true
		l.readChar() // consume '.'
		l.consumeDigitsInto(&fracDigits)
	}

	if l.ch == 'e' || l.ch == 'E' {
		// Exponent marker is consumed greedily even with no digits after it
		// (and no sign, or a sign with no digits): `1e == 1`, `1e+ == 1`.
		// This matches the observed reference behavior rather than erroring.
		hasExp = true
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			expNeg = l.ch == '-'
			l.readChar()
		}
		l.consumeDigitsInto(&expDigits)
	}

	literal := l.input[start:l.position]

	clean := intDigits.String()
	if clean == "" {
		clean = "0"
	}
	if hasFrac {
		f := fracDigits.String()
		if f == "" {
			f = "0"
		}
		clean += "." + f
	}
	if hasExp && expDigits.Len() > 0 {
		sign := "+"
		if expNeg {
			sign = "-"
		}
		clean += "e" + sign + expDigits.String()
	}
	// else: exponent marker present but no digits — parsed as if it never
	// trailed into an exponent at all (value unaffected by the dangling `e`).

	val, _ := strconv.ParseFloat(clean, 64)

	return token.Token{
		Kind: token.NUMBER, Literal: literal, Pos: pos,
		Number: val, IsFloat: hasFrac || hasExp,
	}
}

// consumeDigitsInto reads decimal digits, allowing `_` as a separator that
// is dropped from the accumulated text (`1._5 == 1.5`).
func (l *Lexer) consumeDigitsInto(into *strings.Builder) {
	for isDigit(l.ch) || (l.ch == '_' && isDigit(l.peek())) {
		if l.ch != '_' {
			into.WriteRune(l.ch)
		}
		l.readChar()
	}
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
func isBinDigit(r rune) bool { return r == '0' || r == '1' }
func isOctDigit(r rune) bool { return r >= '0' && r <= '7' }

func (l *Lexer) readPrefixedInt(pos token.Position, start int, kindName string, valid func(rune) bool, base int) token.Token {
	l.readChar() // '0'
	prefixCh := l.ch
	l.readChar() // x/b/o
	digitsStart := l.position
	for valid(l.ch) {
		l.readChar()
	}
	digits := l.input[digitsStart:l.position]
	if digits == "" {
		l.addError("Expected "+kindName+" digits after 0"+string(prefixCh), pos)
		return token.Token{Kind: token.NUMBER, Literal: l.input[start:l.position], Pos: pos}
	}
	n, _ := strconv.ParseInt(digits, base, 64)
	return token.Token{
		Kind: token.NUMBER, Literal: l.input[start:l.position], Pos: pos,
		Number: float64(n), IsFloat: false,
	}
}
