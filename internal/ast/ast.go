package ast

import (
	"strings"

	"github.com/bernlang/bern/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary
// token. This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	String() string
	GetToken() token.Token
}

// PureNode is a side-effect-free, value-producing expression (booleans, nil,
// cons cells, variables, conditionals). Pure positions in the tree only admit
// pure nodes; the marker method makes that a compile-time guarantee.
type PureNode interface {
	Node
	pureNode()
}

// EffNode is an effectful expression: one whose evaluation may involve
// randomness (flip) or sequencing (bind). The set of parameter names a node
// references symbolically is derivable via Params.
type EffNode interface {
	Node
	effNode()
	// Params is the set of symbolic parameter names referenced by this node
	// and its subexpressions. Computed once per node and cached.
	Params() map[string]struct{}
}

// Program is the root node our parser produces: named definitions plus one
// effectful root expression. Definition bodies are pure values; they are
// mutually visible and installed as the outermost scope at evaluation time.
type Program struct {
	File  string // Source file path
	Defns map[string]PureNode
	Order []string // definition names in source order
	Root  EffNode
}

func (p *Program) TokenLiteral() string {
	if p.Root != nil {
		return p.Root.TokenLiteral()
	}
	return ""
}

func (p *Program) GetToken() token.Token {
	if p == nil || p.Root == nil {
		return token.Token{}
	}
	return p.Root.GetToken()
}

// Params is the closed set of tunable parameter names of the program.
// Definition bodies are pure and cannot contain flips, so this is exactly the
// parameter set of the root expression.
func (p *Program) Params() map[string]struct{} {
	if p.Root == nil {
		return map[string]struct{}{}
	}
	return p.Root.Params()
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, name := range p.Order {
		sb.WriteString("define ")
		sb.WriteString(name)
		sb.WriteString(" = ")
		sb.WriteString(p.Defns[name].String())
		sb.WriteString("\n")
	}
	if p.Root != nil {
		sb.WriteString(p.Root.String())
	}
	return sb.String()
}
