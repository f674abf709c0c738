package lexer

import "github.com/tova-lang/tova/internal/token"

// Error is a fatal lexical error: unterminated string/comment, a bad
// numeric prefix, or an illegal character (spec §7, always fatal).
type Error struct {
	Message string
	Pos     token.Position
}

func (e Error) Error() string {
	return e.Pos.String() + ": " + e.Message
}
