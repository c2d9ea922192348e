package params_test

import (
	"math/rand"
	"testing"

	"github.com/bernlang/bern/internal/params"
)

func TestArithmetic(t *testing.T) {
	a := params.New(map[string]float64{"p": 0.5, "q": 0.25})
	b := params.New(map[string]float64{"p": 0.25, "q": 0.25})

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if got, _ := sum.Get("p"); got != 0.75 {
		t.Errorf("sum p = %v, want 0.75", got)
	}

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	if got, _ := diff.Get("q"); got != 0.0 {
		t.Errorf("diff q = %v, want 0", got)
	}

	if got, _ := a.Scale(2).Get("p"); got != 1.0 {
		t.Errorf("scaled p = %v, want 1", got)
	}
	if got, _ := a.Neg().Get("p"); got != -0.5 {
		t.Errorf("negated p = %v, want -0.5", got)
	}

	half, err := a.Div(2)
	if err != nil {
		t.Fatalf("Div failed: %v", err)
	}
	if got, _ := half.Get("p"); got != 0.25 {
		t.Errorf("halved p = %v, want 0.25", got)
	}

	// Operands are untouched.
	if got, _ := a.Get("p"); got != 0.5 {
		t.Errorf("a mutated by arithmetic: p = %v", got)
	}
}

func TestKeySetMismatch(t *testing.T) {
	a := params.New(map[string]float64{"p": 0.5})
	b := params.New(map[string]float64{"q": 0.5})
	c := params.New(map[string]float64{"p": 0.5, "q": 0.5})

	if _, err := a.Add(b); err == nil {
		t.Error("Add with different keys should fail")
	}
	if _, err := a.Sub(c); err == nil {
		t.Error("Sub with different key counts should fail")
	}
}

func TestSetUnknownKey(t *testing.T) {
	v := params.New(map[string]float64{"p": 0.5})
	if err := v.Set("p", 0.75); err != nil {
		t.Errorf("Set of existing key failed: %v", err)
	}
	if got, _ := v.Get("p"); got != 0.75 {
		t.Errorf("p = %v after Set, want 0.75", got)
	}
	if err := v.Set("nope", 1.0); err == nil {
		t.Error("Set of unknown key should fail")
	}
	if _, err := v.Get("nope"); err == nil {
		t.Error("Get of unknown key should fail")
	}
}

func TestDivByZero(t *testing.T) {
	v := params.New(map[string]float64{"p": 0.5})
	if _, err := v.Div(0); err == nil {
		t.Error("Div by zero should fail")
	}
}

func TestZeroAndNorm(t *testing.T) {
	v := params.New(map[string]float64{"a": 3, "b": 4})
	if got := v.SquaredL2Norm(); got != 25 {
		t.Errorf("norm = %v, want 25", got)
	}

	z := params.ZeroLike(v)
	if got := z.SquaredL2Norm(); got != 0 {
		t.Errorf("zero norm = %v", got)
	}
	if _, err := v.Add(z); err != nil {
		t.Errorf("ZeroLike key set differs: %v", err)
	}

	z2 := params.Zero(map[string]struct{}{"a": {}, "b": {}})
	if _, err := v.Add(z2); err != nil {
		t.Errorf("Zero key set differs: %v", err)
	}
}

func TestRandom(t *testing.T) {
	names := map[string]struct{}{"p": {}, "q": {}}
	v := params.Random(names, rand.New(rand.NewSource(1)))
	if v.Len() != 2 {
		t.Fatalf("Len = %d, want 2", v.Len())
	}
	for _, k := range v.Keys() {
		x, _ := v.Get(k)
		if x < 0 || x >= 1 {
			t.Errorf("%s = %v outside [0,1)", k, x)
		}
	}

	// Same seed, same draw.
	w := params.Random(names, rand.New(rand.NewSource(1)))
	diff, err := v.Sub(w)
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	if diff.SquaredL2Norm() != 0 {
		t.Error("same seed should give identical vectors")
	}
}

func TestCloneIndependence(t *testing.T) {
	v := params.New(map[string]float64{"p": 0.5})
	c := v.Clone()
	if err := c.Set("p", 0.9); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, _ := v.Get("p"); got != 0.5 {
		t.Errorf("clone mutation leaked into original: p = %v", got)
	}
}

func TestString(t *testing.T) {
	v := params.New(map[string]float64{"b": 0.25, "a": 0.5})
	if got, want := v.String(), "{a: 0.5, b: 0.25}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
