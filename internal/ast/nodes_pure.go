package ast

import (
	"github.com/bernlang/bern/internal/token"
)

// Variable represents a variable reference.
// Grammar: x
type Variable struct {
	Token token.Token // The IDENT token
	Name  string
}

func (v *Variable) pureNode()            {}
func (v *Variable) TokenLiteral() string { return v.Token.Lexeme }
func (v *Variable) String() string       { return v.Name }
func (v *Variable) GetToken() token.Token {
	if v == nil {
		return token.Token{}
	}
	return v.Token
}

// True represents the boolean literal 'true'.
type True struct {
	Token token.Token
}

func (t *True) pureNode()             {}
func (t *True) TokenLiteral() string  { return t.Token.Lexeme }
func (t *True) String() string        { return "true" }
func (t *True) GetToken() token.Token { return t.Token }

// False represents the boolean literal 'false'.
type False struct {
	Token token.Token
}

func (f *False) pureNode()             {}
func (f *False) TokenLiteral() string  { return f.Token.Lexeme }
func (f *False) String() string        { return "false" }
func (f *False) GetToken() token.Token { return f.Token }

// Nil represents the empty list value 'nil'.
type Nil struct {
	Token token.Token
}

func (n *Nil) pureNode()             {}
func (n *Nil) TokenLiteral() string  { return n.Token.Lexeme }
func (n *Nil) String() string        { return "nil" }
func (n *Nil) GetToken() token.Token { return n.Token }

// Cons represents a pair constructor.
// Grammar: cons p p
type Cons struct {
	Token token.Token // The 'cons' token
	Head  PureNode
	Tail  PureNode
}

func (c *Cons) pureNode()            {}
func (c *Cons) TokenLiteral() string { return c.Token.Lexeme }
func (c *Cons) String() string {
	return "cons " + atom(c.Head) + " " + atom(c.Tail)
}
func (c *Cons) GetToken() token.Token { return c.Token }

// If represents a conditional expression. The condition must evaluate to a
// boolean; exactly one branch is evaluated.
// Grammar: if p then p else p
type If struct {
	Token token.Token // The 'if' token
	Cond  PureNode
	Then  PureNode
	Else  PureNode
}

func (i *If) pureNode()            {}
func (i *If) TokenLiteral() string { return i.Token.Lexeme }
func (i *If) String() string {
	// The grammar requires a non-if else branch; parenthesize nested ifs so
	// String output stays parseable.
	els := i.Else.String()
	if _, ok := i.Else.(*If); ok {
		els = "(" + els + ")"
	}
	return "if " + i.Cond.String() + " then " + i.Then.String() + " else " + els
}
func (i *If) GetToken() token.Token { return i.Token }

// Bool constructs a boolean literal node.
func Bool(v bool) PureNode {
	if v {
		return &True{}
	}
	return &False{}
}

// atom renders a pure node, parenthesized unless it is a bare literal or
// variable, so that printed trees re-parse to the same shape.
func atom(p PureNode) string {
	switch p.(type) {
	case *Variable, *True, *False, *Nil:
		return p.String()
	default:
		return "(" + p.String() + ")"
	}
}

// Equal reports structural equality of two pure nodes: same constructor and
// equal fields, recursively. Canonical forms are compared with this.
func Equal(a, b PureNode) bool {
	switch a := a.(type) {
	case *True:
		_, ok := b.(*True)
		return ok
	case *False:
		_, ok := b.(*False)
		return ok
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *Variable:
		bv, ok := b.(*Variable)
		return ok && a.Name == bv.Name
	case *Cons:
		bc, ok := b.(*Cons)
		return ok && Equal(a.Head, bc.Head) && Equal(a.Tail, bc.Tail)
	case *If:
		bi, ok := b.(*If)
		return ok && Equal(a.Cond, bi.Cond) && Equal(a.Then, bi.Then) && Equal(a.Else, bi.Else)
	default:
		return false
	}
}
