// Package analyzer implements static name analysis: every variable reference
// must resolve in some active scope. Running it before evaluation is the
// precondition for safe execution; the evaluator itself only enforces shape
// invariants.
package analyzer

import (
	"github.com/bernlang/bern/internal/ast"
	"github.com/bernlang/bern/internal/diagnostics"
)

// nameEnv is the scope stack for analysis. Scopes hold names only, not
// values.
type nameEnv struct {
	scopes []map[string]struct{}
}

func newNameEnv() *nameEnv {
	return &nameEnv{scopes: []map[string]struct{}{{}}}
}

func (e *nameEnv) push() { e.scopes = append(e.scopes, map[string]struct{}{}) }
func (e *nameEnv) pop()  { e.scopes = e.scopes[:len(e.scopes)-1] }

func (e *nameEnv) add(name string) {
	e.scopes[len(e.scopes)-1][name] = struct{}{}
}

func (e *nameEnv) bound(name string) bool {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if _, ok := e.scopes[i][name]; ok {
			return true
		}
	}
	return false
}

// Analyze checks that every name in the program is accessed in a scope that
// binds it. Definitions are mutually visible, including inside each other.
func Analyze(prog *ast.Program) []*diagnostics.Error {
	env := newNameEnv()
	var errs []*diagnostics.Error

	for _, name := range prog.Order {
		env.add(name)
	}
	for _, name := range prog.Order {
		errs = append(errs, checkPure(env, prog.Defns[name])...)
	}
	errs = append(errs, checkEff(env, prog.Root)...)
	return errs
}

// checkPure walks all children, including both branches of an if: analysis
// is static, so even branches evaluation would skip must resolve.
func checkPure(env *nameEnv, node ast.PureNode) []*diagnostics.Error {
	switch node := node.(type) {
	case *ast.Variable:
		if !env.bound(node.Name) {
			return []*diagnostics.Error{
				diagnostics.NewError("N001", node.Token, "name %q not bound", node.Name),
			}
		}
		return nil
	case *ast.Cons:
		errs := checkPure(env, node.Head)
		return append(errs, checkPure(env, node.Tail)...)
	case *ast.If:
		errs := checkPure(env, node.Cond)
		errs = append(errs, checkPure(env, node.Then)...)
		return append(errs, checkPure(env, node.Else)...)
	default:
		return nil
	}
}

func checkEff(env *nameEnv, node ast.EffNode) []*diagnostics.Error {
	switch node := node.(type) {
	case *ast.Return:
		return checkPure(env, node.Value)
	case *ast.Sequence:
		errs := checkEff(env, node.Bound)
		env.push()
		env.add(node.Name)
		errs = append(errs, checkEff(env, node.Rest)...)
		env.pop()
		return errs
	default:
		// Flip references parameters, not names.
		return nil
	}
}
