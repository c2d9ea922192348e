package diagnostics

import (
	"fmt"

	"github.com/bernlang/bern/internal/token"
)

// Error is a positional diagnostic with a stable code.
//
// Code prefixes by phase: L (lexer), P (parser), N (name analysis),
// E (evaluation), R (range validation), V (parameter vectors), S (store).
type Error struct {
	Code    string
	Message string
	File    string
	Line    int
	Column  int
}

// NewError creates a diagnostic at the position of tok.
func NewError(code string, tok token.Token, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

func (e *Error) Error() string {
	pos := ""
	if e.Line > 0 {
		pos = fmt.Sprintf("%d:%d: ", e.Line, e.Column)
	}
	if e.File != "" {
		pos = e.File + ":" + pos
	}
	return fmt.Sprintf("%s[%s] %s", pos, e.Code, e.Message)
}
