package parser

import (
	"github.com/bernlang/bern/internal/ast"
	"github.com/bernlang/bern/internal/lexer"
	"github.com/bernlang/bern/internal/token"
)

// ParseValue parses a standalone pure expression, as given on the command
// line or in a training dataset (one observation per line).
func ParseValue(input string) (ast.PureNode, error) {
	l := lexer.New(input)
	var stream []token.Token
	for {
		tok := l.NextToken()
		stream = append(stream, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	p := New(stream)
	val := p.parsePure()
	if val == nil {
		return nil, p.errors[0]
	}
	if tok := p.cur(); tok.Type != token.EOF {
		p.errorf("P003", tok, "unexpected %q after value", tok.Lexeme)
		return nil, p.errors[0]
	}
	return val, nil
}
