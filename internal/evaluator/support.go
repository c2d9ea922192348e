package evaluator

import (
	"strings"

	"github.com/bernlang/bern/internal/ast"
	"github.com/bernlang/bern/internal/diagnostics"
)

// ValueSet is a set of canonical pure values. Membership is keyed on the
// canonical printed form (structural equality), and iteration preserves
// insertion order so probability sums accumulate in a stable order.
type ValueSet struct {
	index map[string]struct{}
	items []ast.PureNode
}

func NewValueSet(items ...ast.PureNode) *ValueSet {
	s := &ValueSet{index: map[string]struct{}{}}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

func (s *ValueSet) Add(v ast.PureNode) {
	key := v.String()
	if _, ok := s.index[key]; ok {
		return
	}
	s.index[key] = struct{}{}
	s.items = append(s.items, v)
}

func (s *ValueSet) Contains(v ast.PureNode) bool {
	_, ok := s.index[v.String()]
	return ok
}

func (s *ValueSet) Len() int { return len(s.items) }

// Values returns the members in insertion order. The slice is shared; do not
// mutate it.
func (s *ValueSet) Values() []ast.PureNode { return s.items }

// Union adds every member of other to s.
func (s *ValueSet) Union(other *ValueSet) {
	for _, v := range other.items {
		s.Add(v)
	}
}

func (s *ValueSet) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, v := range s.items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteString("}")
	return sb.String()
}

// Support is the exact, finite set of values node can produce under env,
// ignoring probabilities. It terminates because flips are the only source of
// branching and always have exactly two outcomes.
func (e *Evaluator) Support(node ast.EffNode, env *Environment) (*ValueSet, error) {
	switch node := node.(type) {
	case *ast.Return:
		val, err := e.EvalPure(node.Value, env)
		if err != nil {
			return nil, err
		}
		return NewValueSet(val), nil
	case *ast.Flip:
		// Both outcomes are always possible, whatever theta resolves to.
		return NewValueSet(&ast.True{}, &ast.False{}), nil
	case *ast.Sequence:
		bound, err := e.Support(node.Bound, env)
		if err != nil {
			return nil, err
		}
		out := NewValueSet()
		for _, val := range bound.Values() {
			err := env.withBinding(node.Name, val, func() error {
				rest, err := e.Support(node.Rest, env)
				if err != nil {
					return err
				}
				out.Union(rest)
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	default:
		return nil, diagnostics.NewError("E000", node.GetToken(), "unhandled expression node %T", node)
	}
}
