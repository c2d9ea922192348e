package ast

import (
	"strconv"

	"github.com/bernlang/bern/internal/diagnostics"
	"github.com/bernlang/bern/internal/token"
)

var noParams = map[string]struct{}{}

// Return lifts a pure value into an effectful expression.
// Grammar: return p
type Return struct {
	Token token.Token // The 'return' token
	Value PureNode
}

func (r *Return) effNode()                    {}
func (r *Return) TokenLiteral() string        { return r.Token.Lexeme }
func (r *Return) String() string              { return "return " + r.Value.String() }
func (r *Return) GetToken() token.Token       { return r.Token }
func (r *Return) Params() map[string]struct{} { return noParams }

// Flip is a Bernoulli coin flip. Theta is either a literal probability or,
// when Param is non-empty, a symbolic reference into the parameter vector.
// Grammar: flip theta
type Flip struct {
	Token token.Token // The 'flip' token
	Theta float64
	Param string

	params map[string]struct{} // lazily cached Params result
}

// NewFlip constructs a flip with a literal probability, which must lie in
// [0,1].
func NewFlip(tok token.Token, theta float64) (*Flip, error) {
	if theta < 0.0 || theta > 1.0 {
		return nil, diagnostics.NewError("R001", tok, "flip probability %v outside [0,1]", theta)
	}
	return &Flip{Token: tok, Theta: theta}, nil
}

// NewFlipParam constructs a flip whose probability is the named parameter.
func NewFlipParam(tok token.Token, name string) (*Flip, error) {
	if name == "" {
		return nil, diagnostics.NewError("R002", tok, "flip parameter name must be non-empty")
	}
	return &Flip{Token: tok, Param: name}, nil
}

func (f *Flip) effNode()             {}
func (f *Flip) TokenLiteral() string { return f.Token.Lexeme }
func (f *Flip) String() string {
	if f.Param != "" {
		return "flip " + f.Param
	}
	return "flip " + strconv.FormatFloat(f.Theta, 'g', -1, 64)
}
func (f *Flip) GetToken() token.Token { return f.Token }

func (f *Flip) Params() map[string]struct{} {
	if f.params == nil {
		f.params = map[string]struct{}{}
		if f.Param != "" {
			f.params[f.Param] = struct{}{}
		}
	}
	return f.params
}

// Sequence is the monadic bind: evaluate Bound, bind its result to Name, then
// evaluate Rest with the binding in scope.
// Grammar: x <- e; e
type Sequence struct {
	Token token.Token // The binder's IDENT token
	Name  string
	Bound EffNode
	Rest  EffNode

	params map[string]struct{} // lazily cached Params result
}

func (s *Sequence) effNode()             {}
func (s *Sequence) TokenLiteral() string { return s.Token.Lexeme }
func (s *Sequence) String() string {
	bound := s.Bound.String()
	if _, ok := s.Bound.(*Sequence); ok {
		// binds only nest on the left when parenthesized
		bound = "(" + bound + ")"
	}
	return s.Name + " <- " + bound + "; " + s.Rest.String()
}
func (s *Sequence) GetToken() token.Token { return s.Token }

func (s *Sequence) Params() map[string]struct{} {
	if s.params == nil {
		merged := map[string]struct{}{}
		for p := range s.Bound.Params() {
			merged[p] = struct{}{}
		}
		for p := range s.Rest.Params() {
			merged[p] = struct{}{}
		}
		s.params = merged
	}
	return s.params
}
