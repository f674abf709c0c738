// Package errors formats compiler diagnostics with source context,
// line/column information, and a caret pointing at the offending token.
package errors

import (
	"fmt"
	"strings"

	"github.com/tova-lang/tova/internal/token"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single compiler message with position and context. This
// is the shape the lexer, parser, and analyzer all report through, and the
// shape internal/compiler.Result.Diagnostics exposes to callers.
type Diagnostic struct {
	Message  string
	Source   string
	File     string
	Pos      token.Position
	Severity Severity
}

// New creates an error-severity Diagnostic.
func New(pos token.Position, message, source, file string) *Diagnostic {
	return &Diagnostic{Pos: pos, Message: message, Source: source, File: file, Severity: SeverityError}
}

// NewWarning creates a warning-severity Diagnostic.
func NewWarning(pos token.Position, message, source, file string) *Diagnostic {
	return &Diagnostic{Pos: pos, Message: message, Source: source, File: file, Severity: SeverityWarning}
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return d.Format(false)
}

// Terse renders the diagnostic as a single "file:line:col: message" line,
// the form used by cmd/tova when reporting a list of diagnostics.
func (d *Diagnostic) Terse() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos.String(), d.Severity, d.Message)
}

// Format renders the diagnostic with its source line and a caret
// indicator. If color is true, ANSI color codes are used.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	if d.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d\n", capitalize(d.Severity.String()), d.File, d.Pos.Line, d.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s at line %d:%d\n", capitalize(d.Severity.String()), d.Pos.Line, d.Pos.Column)
	}

	if line := d.sourceLine(d.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+d.Pos.Column-1))
		if color {
			sb.WriteString(caretColor(d.Severity))
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func caretColor(sev Severity) string {
	if sev == SeverityWarning {
		return "\033[1;33m" // yellow bold
	}
	return "\033[1;31m" // red bold
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (d *Diagnostic) sourceLine(lineNum int) string {
	if d.Source == "" {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatAll formats a batch of diagnostics, one after another.
func FormatAll(diags []*Diagnostic, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format(color)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d diagnostic(s):\n\n", len(diags))
	for i, d := range diags {
		fmt.Fprintf(&sb, "[%d of %d]\n", i+1, len(diags))
		sb.WriteString(d.Format(color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// HasErrors reports whether diags contains at least one error-severity
// entry (warnings alone don't fail compilation).
func HasErrors(diags []*Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
