// Package parser implements the recursive-descent parser for bern programs.
//
// Grammar:
//
//	prog      : defn* eff
//	defn      : "define" IDENT "=" pure
//	eff       : IDENT "<-" nonBindEff ";" eff
//	          | nonBindEff
//	nonBindEff: "flip" param
//	          | "return" pure
//	          | "(" eff ")"
//	param     : FLOAT | IDENT
//	pure      : "if" pure "then" pure "else" nonIfPure
//	          | nonIfPure
//	nonIfPure : "true" | "false" | "cons" pure pure | "nil"
//	          | "(" pure ")" | IDENT
//
// The else branch takes a non-if pure expression; a nested if there must be
// parenthesized. Keywords are never identifiers.
package parser

import (
	"strconv"

	"github.com/bernlang/bern/internal/ast"
	"github.com/bernlang/bern/internal/diagnostics"
	"github.com/bernlang/bern/internal/token"
)

type Parser struct {
	tokens []token.Token
	pos    int
	errors []*diagnostics.Error
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) Errors() []*diagnostics.Error { return p.errors }

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() token.Token {
	tok := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) errorf(code string, tok token.Token, format string, args ...interface{}) {
	p.errors = append(p.errors, diagnostics.NewError(code, tok, format, args...))
}

func (p *Parser) expect(t token.Type, what string) (token.Token, bool) {
	tok := p.cur()
	if tok.Type != t {
		p.errorf("P001", tok, "expected %s, got %q", what, tok.Lexeme)
		return tok, false
	}
	p.advance()
	return tok, true
}

// ParseProgram parses the whole token stream as a program. On a syntax error
// it records a diagnostic and returns nil.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Defns: map[string]ast.PureNode{}}

	for p.cur().Type == token.DEFINE {
		p.advance()
		nameTok, ok := p.expect(token.IDENT, "definition name")
		if !ok {
			return nil
		}
		if _, ok := p.expect(token.ASSIGN, `"="`); !ok {
			return nil
		}
		body := p.parsePure()
		if body == nil {
			return nil
		}
		if _, dup := prog.Defns[nameTok.Lexeme]; dup {
			p.errorf("P002", nameTok, "duplicate definition of %q", nameTok.Lexeme)
			return nil
		}
		prog.Defns[nameTok.Lexeme] = body
		prog.Order = append(prog.Order, nameTok.Lexeme)
	}

	prog.Root = p.parseEff()
	if prog.Root == nil {
		return nil
	}
	if tok := p.cur(); tok.Type != token.EOF {
		p.errorf("P003", tok, "unexpected %q after program", tok.Lexeme)
		return nil
	}
	return prog
}

func (p *Parser) parseEff() ast.EffNode {
	if p.cur().Type == token.IDENT && p.peek().Type == token.LARROW {
		binder := p.advance()
		p.advance() // <-
		bound := p.parseNonBindEff()
		if bound == nil {
			return nil
		}
		if _, ok := p.expect(token.SEMICOLON, `";"`); !ok {
			return nil
		}
		rest := p.parseEff()
		if rest == nil {
			return nil
		}
		return &ast.Sequence{Token: binder, Name: binder.Lexeme, Bound: bound, Rest: rest}
	}
	return p.parseNonBindEff()
}

func (p *Parser) parseNonBindEff() ast.EffNode {
	tok := p.cur()
	switch tok.Type {
	case token.FLIP:
		p.advance()
		return p.parseFlipParam(tok)
	case token.RETURN:
		p.advance()
		val := p.parsePure()
		if val == nil {
			return nil
		}
		return &ast.Return{Token: tok, Value: val}
	case token.LPAREN:
		p.advance()
		inner := p.parseEff()
		if inner == nil {
			return nil
		}
		if _, ok := p.expect(token.RPAREN, `")"`); !ok {
			return nil
		}
		return inner
	default:
		p.errorf("P004", tok, "expected effectful expression, got %q", tok.Lexeme)
		return nil
	}
}

func (p *Parser) parseFlipParam(flipTok token.Token) ast.EffNode {
	tok := p.cur()
	switch tok.Type {
	case token.FLOAT:
		p.advance()
		theta, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.errorf("P005", tok, "invalid probability literal %q", tok.Lexeme)
			return nil
		}
		flip, err := ast.NewFlip(flipTok, theta)
		if err != nil {
			p.errors = append(p.errors, err.(*diagnostics.Error))
			return nil
		}
		return flip
	case token.IDENT:
		p.advance()
		flip, err := ast.NewFlipParam(flipTok, tok.Lexeme)
		if err != nil {
			p.errors = append(p.errors, err.(*diagnostics.Error))
			return nil
		}
		return flip
	default:
		p.errorf("P006", tok, "expected probability or parameter name after flip, got %q", tok.Lexeme)
		return nil
	}
}

func (p *Parser) parsePure() ast.PureNode {
	tok := p.cur()
	if tok.Type == token.IF {
		p.advance()
		cond := p.parsePure()
		if cond == nil {
			return nil
		}
		if _, ok := p.expect(token.THEN, `"then"`); !ok {
			return nil
		}
		then := p.parsePure()
		if then == nil {
			return nil
		}
		if _, ok := p.expect(token.ELSE, `"else"`); !ok {
			return nil
		}
		els := p.parseNonIfPure()
		if els == nil {
			return nil
		}
		return &ast.If{Token: tok, Cond: cond, Then: then, Else: els}
	}
	return p.parseNonIfPure()
}

func (p *Parser) parseNonIfPure() ast.PureNode {
	tok := p.cur()
	switch tok.Type {
	case token.TRUE:
		p.advance()
		return &ast.True{Token: tok}
	case token.FALSE:
		p.advance()
		return &ast.False{Token: tok}
	case token.NIL:
		p.advance()
		return &ast.Nil{Token: tok}
	case token.CONS:
		p.advance()
		head := p.parsePure()
		if head == nil {
			return nil
		}
		tail := p.parsePure()
		if tail == nil {
			return nil
		}
		return &ast.Cons{Token: tok, Head: head, Tail: tail}
	case token.LPAREN:
		p.advance()
		inner := p.parsePure()
		if inner == nil {
			return nil
		}
		if _, ok := p.expect(token.RPAREN, `")"`); !ok {
			return nil
		}
		return inner
	case token.IDENT:
		p.advance()
		return &ast.Variable{Token: tok, Name: tok.Lexeme}
	default:
		p.errorf("P007", tok, "expected pure expression, got %q", tok.Lexeme)
		return nil
	}
}
