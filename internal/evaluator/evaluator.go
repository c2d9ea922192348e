// Package evaluator implements the semantics of bern expressions: stochastic
// sampling, finite-support enumeration, exact probability-mass inference, and
// symbolic differentiation of that mass with respect to the named parameters.
//
// All four traversals share one denotation. Each is an exhaustive type switch
// over the closed node set, so adding a node variant is a compile-visible
// obligation in every semantic function.
package evaluator

import (
	"math/rand"
	"time"

	"github.com/bernlang/bern/internal/ast"
	"github.com/bernlang/bern/internal/diagnostics"
)

// maxEvalDepth bounds Eval recursion. Mutually recursive definitions pass
// name analysis (definitions are all visible to each other), so the guard is
// what turns them into an error instead of a stack overflow.
const maxEvalDepth = 10000

type Evaluator struct {
	rand      *rand.Rand
	evalDepth int
}

// New creates an evaluator drawing randomness from rng. Passing the generator
// in keeps sampling deterministic under a fixed seed; a nil rng gets a
// time-seeded one.
func New(rng *rand.Rand) *Evaluator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Evaluator{rand: rng}
}

// EvalPure reduces a pure node to its canonical value under env. Canonical
// forms are fixed points: evaluating an already-canonical value returns it
// unchanged.
func (e *Evaluator) EvalPure(node ast.PureNode, env *Environment) (ast.PureNode, error) {
	e.evalDepth++
	defer func() { e.evalDepth-- }()
	if e.evalDepth > maxEvalDepth {
		return nil, diagnostics.NewError("E006", node.GetToken(), "maximum recursion depth exceeded")
	}

	switch node := node.(type) {
	case *ast.True:
		return node, nil
	case *ast.False:
		return node, nil
	case *ast.Nil:
		return node, nil
	case *ast.Variable:
		val, ok := env.Lookup(node.Name)
		if !ok {
			return nil, diagnostics.NewError("E001", node.Token, "name %q not bound", node.Name)
		}
		// Definition bodies are stored unevaluated; canonicalize on the way
		// out. Already-canonical bindings are fixed points, so this is a
		// no-op for sequence-bound values.
		return e.EvalPure(val, env)
	case *ast.Cons:
		head, err := e.EvalPure(node.Head, env)
		if err != nil {
			return nil, err
		}
		tail, err := e.EvalPure(node.Tail, env)
		if err != nil {
			return nil, err
		}
		return &ast.Cons{Token: node.Token, Head: head, Tail: tail}, nil
	case *ast.If:
		cond, err := e.EvalPure(node.Cond, env)
		if err != nil {
			return nil, err
		}
		// Exactly one branch is evaluated; the untaken branch may reference
		// names that are not in scope.
		switch cond.(type) {
		case *ast.True:
			return e.EvalPure(node.Then, env)
		case *ast.False:
			return e.EvalPure(node.Else, env)
		default:
			return nil, diagnostics.NewError("E003", node.Token, "if condition evaluated to non-boolean %s", cond)
		}
	default:
		return nil, diagnostics.NewError("E000", node.GetToken(), "unhandled pure node %T", node)
	}
}

// resolveTheta resolves a flip's probability: the literal value, or a lookup
// into the parameter vector for a symbolic flip. The resolved value must lie
// in [0,1]; learned parameters can drift out of range, so this is checked at
// resolution time as well as construction time.
func (e *Evaluator) resolveTheta(f *ast.Flip, env *Environment) (float64, error) {
	theta := f.Theta
	if f.Param != "" {
		var err error
		theta, err = env.Param(f.Param)
		if err != nil {
			return 0, diagnostics.NewError("E004", f.Token, "undefined parameter %q", f.Param)
		}
	}
	if theta < 0.0 || theta > 1.0 {
		return 0, diagnostics.NewError("R001", f.Token, "flip probability %v outside [0,1]", theta)
	}
	return theta, nil
}

// Sample draws one concrete value from the node's distribution.
//
// Sequence binds the sampled value into the current scope rather than a
// pushed one: a sampled binding must stay visible to everything lexically
// after it in the same top-level pass. Binding the same name twice in one
// pass therefore fails.
func (e *Evaluator) Sample(node ast.EffNode, env *Environment) (ast.PureNode, error) {
	switch node := node.(type) {
	case *ast.Return:
		return e.EvalPure(node.Value, env)
	case *ast.Flip:
		theta, err := e.resolveTheta(node, env)
		if err != nil {
			return nil, err
		}
		return ast.Bool(e.rand.Float64() < theta), nil
	case *ast.Sequence:
		val, err := e.Sample(node.Bound, env)
		if err != nil {
			return nil, err
		}
		if err := env.Bind(node.Name, val); err != nil {
			return nil, err
		}
		return e.Sample(node.Rest, env)
	default:
		return nil, diagnostics.NewError("E000", node.GetToken(), "unhandled expression node %T", node)
	}
}
