package evaluator

import (
	"github.com/bernlang/bern/internal/ast"
	"github.com/bernlang/bern/internal/params"
)

// NewProgramEnv builds a fresh environment for prog: the supplied parameter
// vector plus the program's definitions installed as the base scope.
// Definition bodies go in unevaluated; Variable resolution canonicalizes
// them, which is what makes definitions mutually visible without imposing an
// installation order. Top-level binders get a scope of their own so they can
// shadow a definition without colliding with it.
func NewProgramEnv(prog *ast.Program, p params.Vector) (*Environment, error) {
	env := NewEnvironment(p)
	for _, name := range prog.Order {
		if err := env.Bind(name, prog.Defns[name]); err != nil {
			return nil, err
		}
	}
	env.PushScope()
	return env, nil
}

// SampleProgram draws k independent samples from the program's output
// distribution. Each draw runs in its own fresh environment; no state leaks
// between top-level calls.
func (e *Evaluator) SampleProgram(prog *ast.Program, p params.Vector, k int) ([]ast.PureNode, error) {
	out := make([]ast.PureNode, 0, k)
	for i := 0; i < k; i++ {
		env, err := NewProgramEnv(prog, p)
		if err != nil {
			return nil, err
		}
		val, err := e.Sample(prog.Root, env)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

// InferProgram computes the exact probability the program assigns to val.
func (e *Evaluator) InferProgram(prog *ast.Program, p params.Vector, val ast.PureNode) (float64, error) {
	env, err := NewProgramEnv(prog, p)
	if err != nil {
		return 0, err
	}
	return e.Infer(prog.Root, env, val)
}

// GradientProgram computes the gradient of the program's probability mass at
// val with respect to every parameter the program references.
func (e *Evaluator) GradientProgram(prog *ast.Program, p params.Vector, val ast.PureNode) (params.Vector, error) {
	env, err := NewProgramEnv(prog, p)
	if err != nil {
		return params.Vector{}, err
	}
	return e.Gradient(prog.Root, env, val)
}

// SupportProgram enumerates the program's finite output support.
func (e *Evaluator) SupportProgram(prog *ast.Program, p params.Vector) (*ValueSet, error) {
	env, err := NewProgramEnv(prog, p)
	if err != nil {
		return nil, err
	}
	return e.Support(prog.Root, env)
}
