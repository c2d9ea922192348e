// Package params implements the fixed-key-set vector of learnable program
// parameters. The key set is closed at construction: arithmetic between two
// vectors requires identical key sets and assignment to an unknown key fails,
// so no computation can invent parameters on the fly.
package params

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/bernlang/bern/internal/diagnostics"
	"github.com/bernlang/bern/internal/token"
)

// Vector is a named vector of float parameters with a fixed key set.
type Vector struct {
	vals map[string]float64
}

// New builds a vector from a name-to-value map. The map is copied.
func New(vals map[string]float64) Vector {
	m := make(map[string]float64, len(vals))
	for k, v := range vals {
		m[k] = v
	}
	return Vector{vals: m}
}

// ZeroLike returns a zero vector with the same key set as other.
func ZeroLike(other Vector) Vector {
	m := make(map[string]float64, len(other.vals))
	for k := range other.vals {
		m[k] = 0.0
	}
	return Vector{vals: m}
}

// Zero returns a zero vector over the given names.
func Zero(names map[string]struct{}) Vector {
	m := make(map[string]float64, len(names))
	for k := range names {
		m[k] = 0.0
	}
	return Vector{vals: m}
}

// Random returns a vector over the given names with values drawn uniformly
// from [0,1) using rng.
func Random(names map[string]struct{}, rng *rand.Rand) Vector {
	m := make(map[string]float64, len(names))
	for k := range names {
		m[k] = rng.Float64()
	}
	return Vector{vals: m}
}

// Len is the number of parameters.
func (v Vector) Len() int { return len(v.vals) }

// Has reports whether name is in the key set.
func (v Vector) Has(name string) bool {
	_, ok := v.vals[name]
	return ok
}

// Keys returns the parameter names in sorted order.
func (v Vector) Keys() []string {
	keys := make([]string, 0, len(v.vals))
	for k := range v.vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get looks up a parameter value.
func (v Vector) Get(name string) (float64, error) {
	x, ok := v.vals[name]
	if !ok {
		return 0, diagnostics.NewError("V002", token.Token{}, "no such parameter %q in vector (keys: %v)", name, v.Keys())
	}
	return x, nil
}

// Set assigns to an existing parameter. Assigning an unknown name fails.
func (v Vector) Set(name string, x float64) error {
	if _, ok := v.vals[name]; !ok {
		return diagnostics.NewError("V002", token.Token{}, "no such parameter %q in vector (keys: %v)", name, v.Keys())
	}
	v.vals[name] = x
	return nil
}

// Clone returns an independent copy.
func (v Vector) Clone() Vector { return New(v.vals) }

func (v Vector) checkKeysMatch(other Vector) error {
	if len(v.vals) == len(other.vals) {
		ok := true
		for k := range v.vals {
			if _, present := other.vals[k]; !present {
				ok = false
				break
			}
		}
		if ok {
			return nil
		}
	}
	return diagnostics.NewError("V001", token.Token{},
		"keys in vectors do not match (this: %v, other: %v)", v.Keys(), other.Keys())
}

// Add returns v + other. The key sets must match.
func (v Vector) Add(other Vector) (Vector, error) {
	if err := v.checkKeysMatch(other); err != nil {
		return Vector{}, err
	}
	m := make(map[string]float64, len(v.vals))
	for k, x := range v.vals {
		m[k] = x + other.vals[k]
	}
	return Vector{vals: m}, nil
}

// Sub returns v - other. The key sets must match.
func (v Vector) Sub(other Vector) (Vector, error) {
	if err := v.checkKeysMatch(other); err != nil {
		return Vector{}, err
	}
	m := make(map[string]float64, len(v.vals))
	for k, x := range v.vals {
		m[k] = x - other.vals[k]
	}
	return Vector{vals: m}, nil
}

// Scale returns v scaled by x.
func (v Vector) Scale(x float64) Vector {
	m := make(map[string]float64, len(v.vals))
	for k, val := range v.vals {
		m[k] = val * x
	}
	return Vector{vals: m}
}

// Div returns v divided by the scalar x. Division by zero fails.
func (v Vector) Div(x float64) (Vector, error) {
	if x == 0 {
		return Vector{}, diagnostics.NewError("V003", token.Token{}, "division of parameter vector by zero")
	}
	return v.Scale(1 / x), nil
}

// Neg returns -v.
func (v Vector) Neg() Vector { return v.Scale(-1) }

// SquaredL2Norm returns the squared Euclidean norm of v.
func (v Vector) SquaredL2Norm() float64 {
	acc := 0.0
	for _, x := range v.vals {
		acc += x * x
	}
	return acc
}

func (v Vector) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range v.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(strconv.FormatFloat(v.vals[k], 'g', -1, 64))
	}
	sb.WriteString("}")
	return sb.String()
}
