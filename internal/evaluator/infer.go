package evaluator

import (
	"github.com/bernlang/bern/internal/ast"
	"github.com/bernlang/bern/internal/diagnostics"
	"github.com/bernlang/bern/internal/params"
)

// Infer computes the exact probability mass node assigns to target under env.
//
// The sequence case is the defining recursive law:
//
//	sum over v in Support(bound) of
//	    Infer(bound, env, v) * Infer(rest, env[x:=v], target)
//
// The bound factor is computed outside the temporary binding of x, so a
// binder shadowing a free variable of its own bound expression cannot change
// the bound expression's meaning. This path re-enumerates the support of
// bound for every intermediate value and is the potentially-exponential one;
// cost grows with the product of branching factors along the bind chain.
func (e *Evaluator) Infer(node ast.EffNode, env *Environment, target ast.PureNode) (float64, error) {
	switch node := node.(type) {
	case *ast.Return:
		val, err := e.EvalPure(node.Value, env)
		if err != nil {
			return 0, err
		}
		want, err := e.EvalPure(target, env)
		if err != nil {
			return 0, err
		}
		if ast.Equal(val, want) {
			return 1.0, nil
		}
		return 0.0, nil
	case *ast.Flip:
		want, err := e.EvalPure(target, env)
		if err != nil {
			return 0, err
		}
		theta, err := e.resolveTheta(node, env)
		if err != nil {
			return 0, err
		}
		switch want.(type) {
		case *ast.True:
			return theta, nil
		case *ast.False:
			return 1.0 - theta, nil
		default:
			return 0.0, nil
		}
	case *ast.Sequence:
		supp, err := e.Support(node.Bound, env)
		if err != nil {
			return 0, err
		}
		prob := 0.0
		for _, val := range supp.Values() {
			boundProb, err := e.Infer(node.Bound, env, val)
			if err != nil {
				return 0, err
			}
			var restProb float64
			err = env.withBinding(node.Name, val, func() error {
				var inner error
				restProb, inner = e.Infer(node.Rest, env, target)
				return inner
			})
			if err != nil {
				return 0, err
			}
			prob += boundProb * restProb
		}
		return prob, nil
	default:
		return 0, diagnostics.NewError("E000", node.GetToken(), "unhandled expression node %T", node)
	}
}

// Deriv computes the partial derivative of Infer(node, env, target) with
// respect to the named parameter.
func (e *Evaluator) Deriv(node ast.EffNode, env *Environment, param string, target ast.PureNode) (float64, error) {
	switch node := node.(type) {
	case *ast.Return:
		// Constants do not depend on parameters.
		return 0.0, nil
	case *ast.Flip:
		if node.Param == "" || node.Param != param {
			return 0.0, nil
		}
		want, err := e.EvalPure(target, env)
		if err != nil {
			return 0, err
		}
		switch want.(type) {
		case *ast.True:
			return 1.0, nil
		case *ast.False:
			return -1.0, nil
		default:
			return 0.0, nil
		}
	case *ast.Sequence:
		// Product rule over the Infer sum.
		supp, err := e.Support(node.Bound, env)
		if err != nil {
			return 0, err
		}
		deriv := 0.0
		for _, val := range supp.Values() {
			boundProb, err := e.Infer(node.Bound, env, val)
			if err != nil {
				return 0, err
			}
			boundDeriv, err := e.Deriv(node.Bound, env, param, val)
			if err != nil {
				return 0, err
			}
			var restProb, restDeriv float64
			err = env.withBinding(node.Name, val, func() error {
				var inner error
				restProb, inner = e.Infer(node.Rest, env, target)
				if inner != nil {
					return inner
				}
				restDeriv, inner = e.Deriv(node.Rest, env, param, target)
				return inner
			})
			if err != nil {
				return 0, err
			}
			deriv += boundDeriv*restProb + boundProb*restDeriv
		}
		return deriv, nil
	default:
		return 0, diagnostics.NewError("E000", node.GetToken(), "unhandled expression node %T", node)
	}
}

// Gradient maps every parameter referenced by node to its Deriv at target.
func (e *Evaluator) Gradient(node ast.EffNode, env *Environment, target ast.PureNode) (params.Vector, error) {
	vals := map[string]float64{}
	for name := range node.Params() {
		d, err := e.Deriv(node, env, name, target)
		if err != nil {
			return params.Vector{}, err
		}
		vals[name] = d
	}
	return params.New(vals), nil
}
