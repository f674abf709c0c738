package lexer

import (
	"strings"

	"github.com/tova-lang/tova/internal/token"
)

// readSingleQuoted scans a single-quoted string literal. Single-quoted
// strings never interpolate (spec §4.1); a doubled quote `''` stands for
// one literal quote, and everything else (including backslashes) is
// copied verbatim, so `\'` does not escape the quote.
func (l *Lexer) readSingleQuoted(pos token.Position) token.Token {
	l.readChar() // opening '
	var sb strings.Builder
	for {
		if l.ch == 0 {
			l.addError("unterminated string literal", pos)
			break
		}
		if l.ch == '\'' {
			if l.peek() == '\'' { // doubled quote = literal quote
				sb.WriteRune('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			break
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return token.Token{Kind: token.STRING, Literal: sb.String(), Pos: pos}
}

// readDoubleQuoted scans a double-quoted string. If it contains no
// unescaped `{…}` it yields a plain STRING token; otherwise it yields a
// STRING_TEMPLATE token whose Template field alternates text and expr
// parts (spec §4.1, §3.1).
func (l *Lexer) readDoubleQuoted(pos token.Position) token.Token {
	l.readChar() // opening "

	var parts []token.TemplatePart
	var text strings.Builder
	isTemplate := false

	flushText := func() {
		if text.Len() > 0 {
			parts = append(parts, token.TemplatePart{Kind: token.TemplateText, Text: text.String()})
			text.Reset()
		}
	}

	for {
		switch {
		case l.ch == 0:
			l.addError("unterminated string literal", pos)
			plain := text.String()
			flushText()
			return l.finishTemplate(pos, parts, isTemplate, plain)
		case l.ch == '"':
			l.readChar()
			plain := text.String()
			flushText()
			return l.finishTemplate(pos, parts, isTemplate, plain)
		case l.ch == '\\':
			l.readEscape(&text)
		case l.ch == '{':
			isTemplate = true
			flushText()
			parts = append(parts, l.readTemplateExpr())
		default:
			text.WriteRune(l.ch)
			l.readChar()
		}
	}
}

func (l *Lexer) finishTemplate(pos token.Position, parts []token.TemplatePart, isTemplate bool, plain string) token.Token {
	if !isTemplate {
		return token.Token{Kind: token.STRING, Literal: plain, Pos: pos}
	}
	return token.Token{Kind: token.STRING_TEMPLATE, Pos: pos, Template: parts}
}

// readEscape handles the fixed escape set; anything else passes through
// literally, backslash included (`\a == \\a`).
func (l *Lexer) readEscape(into *strings.Builder) {
	l.readChar() // consume '\'
	switch l.ch {
	case 'n':
		into.WriteByte('\n')
	case 't':
		into.WriteByte('\t')
	case 'r':
		into.WriteByte('\r')
	case '\\':
		into.WriteByte('\\')
	case '"':
		into.WriteByte('"')
	case '{':
		into.WriteByte('{')
	default:
		into.WriteByte('\\')
		if l.ch != 0 {
			into.WriteRune(l.ch)
		}
	}
	if l.ch != 0 {
		l.readChar()
	}
}

// readTemplateExpr reads a balanced `{ ... }` region (ignoring braces that
// appear inside nested quoted strings) and tokenizes its contents with a
// fresh Lexer so the template's expression gets its own token stream.
func (l *Lexer) readTemplateExpr() token.TemplatePart {
	l.readChar() // consume '{'
	start := l.position
	depth := 1
	for {
		switch l.ch {
		case 0:
			goto done
		case '\'':
			l.skipNestedString('\'')
			continue
		case '"':
			l.skipNestedString('"')
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				goto done
			}
		}
		l.readChar()
	}
done:
	inner := l.input[start:l.position]
	if l.ch == '}' {
		l.readChar()
	}
	sub := New(inner, l.file)
	var toks []token.Token
	for {
		t := sub.NextToken()
		if t.Kind == token.EOF {
			break
		}
		toks = append(toks, t)
	}
	return token.TemplatePart{Kind: token.TemplateExpr, Tokens: toks}
}

func (l *Lexer) skipNestedString(quote rune) {
	l.readChar() // opening quote
	for l.ch != 0 && l.ch != quote {
		if l.ch == '\\' {
			l.readChar()
		}
		if l.ch == 0 {
			return
		}
		l.readChar()
	}
	if l.ch == quote {
		l.readChar()
	}
}
