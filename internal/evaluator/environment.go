package evaluator

import (
	"github.com/bernlang/bern/internal/ast"
	"github.com/bernlang/bern/internal/diagnostics"
	"github.com/bernlang/bern/internal/params"
	"github.com/bernlang/bern/internal/token"
)

// Scope is one frame of the environment: a mapping from name to an
// already-evaluated pure value (or an unevaluated definition body in the base
// scope, canonicalized on lookup).
type Scope map[string]ast.PureNode

// Environment is the naming environment for expression evaluation: a stack
// of lexical scopes plus the parameter vector. Lookup is innermost-first, so
// inner scopes shadow outer ones. Rebinding a name within one scope fails.
type Environment struct {
	params params.Vector
	scopes []Scope
}

func NewEnvironment(p params.Vector) *Environment {
	return &Environment{params: p, scopes: []Scope{{}}}
}

// PushScope adds a fresh scope on top of the stack.
func (e *Environment) PushScope() {
	e.scopes = append(e.scopes, Scope{})
}

// PopScope removes the top scope.
func (e *Environment) PopScope() {
	e.scopes = e.scopes[:len(e.scopes)-1]
}

// Depth is the number of active scopes.
func (e *Environment) Depth() int { return len(e.scopes) }

// Bind adds a binding to the current scope. Binding a name that already
// exists in the current scope fails; shadowing an outer scope does not.
func (e *Environment) Bind(name string, val ast.PureNode) error {
	local := e.scopes[len(e.scopes)-1]
	if _, ok := local[name]; ok {
		return diagnostics.NewError("E002", token.Token{}, "name %q already bound in local scope", name)
	}
	local[name] = val
	return nil
}

// Lookup resolves a name innermost-first.
func (e *Environment) Lookup(name string) (ast.PureNode, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if val, ok := e.scopes[i][name]; ok {
			return val, true
		}
	}
	return nil, false
}

// Param resolves a parameter from the attached vector.
func (e *Environment) Param(name string) (float64, error) {
	return e.params.Get(name)
}

// withBinding runs fn with name bound to val in a newly pushed scope. The
// scope is popped on every exit path, including error propagation.
func (e *Environment) withBinding(name string, val ast.PureNode, fn func() error) error {
	e.PushScope()
	defer e.PopScope()
	if err := e.Bind(name, val); err != nil {
		return err
	}
	return fn()
}
