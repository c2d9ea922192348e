package evaluator_test

import (
	"strings"
	"testing"

	"github.com/bernlang/bern/internal/ast"
	"github.com/bernlang/bern/internal/evaluator"
	"github.com/bernlang/bern/internal/lexer"
	"github.com/bernlang/bern/internal/params"
	"github.com/bernlang/bern/internal/parser"
	"github.com/bernlang/bern/internal/pipeline"
)

// mustParse parses a program in surface syntax for use in semantics tests.
func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	ctx := &pipeline.PipelineContext{SourceCode: src}
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if ctx.HasErrors() {
		var msgs []string
		for _, err := range ctx.Errors {
			msgs = append(msgs, err.Error())
		}
		t.Fatalf("parse of %q failed:\n%s", src, strings.Join(msgs, "\n"))
	}
	return ctx.Program
}

func mustValue(t *testing.T, src string) ast.PureNode {
	t.Helper()
	val, err := parser.ParseValue(src)
	if err != nil {
		t.Fatalf("value %q failed to parse: %v", src, err)
	}
	return val
}

func emptyEnv() *evaluator.Environment {
	return evaluator.NewEnvironment(params.New(nil))
}

func TestEvalPureCanonical(t *testing.T) {
	e := evaluator.New(nil)
	env := emptyEnv()
	if err := env.Bind("x", &ast.True{}); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name string
		node string
		want string
	}{
		{"true", "true", "true"},
		{"false", "false", "false"},
		{"nil", "nil", "nil"},
		{"variable", "x", "true"},
		{"cons", "cons x nil", "cons true nil"},
		{"if_then", "if x then nil else false", "nil"},
		{"if_else", "if false then nil else cons x nil", "cons true nil"},
		{"nested_if_cond", "if (if x then false else true) then true else nil", "nil"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.EvalPure(mustValue(t, tc.node), env)
			if err != nil {
				t.Fatalf("EvalPure failed: %v", err)
			}
			if got.String() != tc.want {
				t.Errorf("EvalPure(%s) = %s, want %s", tc.node, got, tc.want)
			}
		})
	}
}

func TestEvalPureIdempotent(t *testing.T) {
	e := evaluator.New(nil)
	env := emptyEnv()
	if err := env.Bind("x", &ast.False{}); err != nil {
		t.Fatal(err)
	}

	for _, src := range []string{"true", "nil", "cons x (cons true nil)", "if x then true else nil"} {
		once, err := e.EvalPure(mustValue(t, src), env)
		if err != nil {
			t.Fatalf("EvalPure(%s) failed: %v", src, err)
		}
		twice, err := e.EvalPure(once, env)
		if err != nil {
			t.Fatalf("EvalPure(EvalPure(%s)) failed: %v", src, err)
		}
		if !ast.Equal(once, twice) {
			t.Errorf("canonical form of %s is not a fixed point: %s vs %s", src, once, twice)
		}
	}
}

func TestEvalPureShortCircuit(t *testing.T) {
	// The untaken branch references an unbound name; it must never be
	// evaluated.
	e := evaluator.New(nil)
	env := emptyEnv()

	got, err := e.EvalPure(mustValue(t, "if true then nil else ghost"), env)
	if err != nil {
		t.Fatalf("short-circuit if failed: %v", err)
	}
	if got.String() != "nil" {
		t.Errorf("got %s, want nil", got)
	}
}

func TestEvalPureErrors(t *testing.T) {
	e := evaluator.New(nil)
	env := emptyEnv()
	if err := env.Bind("pair", &ast.Cons{Head: &ast.True{}, Tail: &ast.Nil{}}); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name string
		node string
	}{
		{"unbound_variable", "ghost"},
		{"non_boolean_condition", "if nil then true else false"},
		{"cons_condition", "if pair then true else false"},
		{"unbound_in_cons", "cons ghost nil"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := e.EvalPure(mustValue(t, tc.node), env); err == nil {
				t.Errorf("EvalPure(%s) should fail", tc.node)
			}
		})
	}
}

func TestEvalPureSelfReferentialDefinition(t *testing.T) {
	// define x = x passes name analysis (definitions see each other); the
	// depth guard has to catch it.
	prog := mustParse(t, "define x = x\nreturn x")
	env, err := evaluator.NewProgramEnv(prog, params.New(nil))
	if err != nil {
		t.Fatal(err)
	}
	e := evaluator.New(nil)
	if _, err := e.EvalPure(&ast.Variable{Name: "x"}, env); err == nil {
		t.Fatal("self-referential definition should fail, not hang")
	}
}
