// Package cli implements the bern command line front end.
package cli

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/bernlang/bern/internal/analyzer"
	"github.com/bernlang/bern/internal/ast"
	"github.com/bernlang/bern/internal/config"
	"github.com/bernlang/bern/internal/diagnostics"
	"github.com/bernlang/bern/internal/evaluator"
	"github.com/bernlang/bern/internal/learn"
	"github.com/bernlang/bern/internal/lexer"
	"github.com/bernlang/bern/internal/params"
	"github.com/bernlang/bern/internal/parser"
	"github.com/bernlang/bern/internal/pipeline"
	"github.com/bernlang/bern/internal/store"
)

const usageText = `usage: bern <command> [options] <file` + config.SourceFileExt + `>

commands:
  run      sample the program once
  sample   draw -k samples from the program
  infer    exact probability of -value under the program
  support  enumerate the program's possible output values
  check    parse and name-check only
  train    fit parameters by maximum likelihood (-config train.yaml)
  repl     interactive session
`

// Entry runs the command line and returns the process exit code.
func Entry(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usageText)
		return 2
	}

	switch args[0] {
	case "run":
		return cmdSample(args[1:], stdout, stderr, true)
	case "sample":
		return cmdSample(args[1:], stdout, stderr, false)
	case "infer":
		return cmdInfer(args[1:], stdout, stderr)
	case "support":
		return cmdSupport(args[1:], stdout, stderr)
	case "check":
		return cmdCheck(args[1:], stdout, stderr)
	case "train":
		return cmdTrain(args[1:], stdout, stderr)
	case "repl":
		return cmdRepl(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usageText)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		fmt.Fprint(stderr, usageText)
		return 2
	}
}

// paramList is a repeatable -p name=value flag.
type paramList map[string]float64

func (p paramList) String() string {
	parts := make([]string, 0, len(p))
	for k, v := range p {
		parts = append(parts, fmt.Sprintf("%s=%g", k, v))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (p paramList) Set(s string) error {
	name, val, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	x, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fmt.Errorf("invalid parameter value %q", val)
	}
	p[name] = x
	return nil
}

func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func red(w io.Writer, s string) string {
	if useColor(w) {
		return "\x1b[31m" + s + "\x1b[0m"
	}
	return s
}

func green(w io.Writer, s string) string {
	if useColor(w) {
		return "\x1b[32m" + s + "\x1b[0m"
	}
	return s
}

func printErrors(stderr io.Writer, errs []*diagnostics.Error) {
	for _, err := range errs {
		fmt.Fprintln(stderr, red(stderr, err.Error()))
	}
}

// loadProgram lexes, parses, and name-checks a source file.
func loadProgram(path string) (*ast.Program, []*diagnostics.Error, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	pipe := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.AnalyzerProcessor{},
	)
	ctx := pipe.Run(&pipeline.PipelineContext{FilePath: path, SourceCode: string(src)})
	if ctx.HasErrors() {
		return nil, ctx.Errors, nil
	}
	return ctx.Program, nil, nil
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func cmdSample(args []string, stdout, stderr io.Writer, single bool) int {
	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pl := paramList{}
	fs.Var(pl, "p", "parameter assignment name=value (repeatable)")
	k := fs.Int("k", 1, "number of samples")
	seed := fs.Int64("seed", 0, "random seed (0 = time-seeded)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "expected exactly one source file")
		return 2
	}
	if single {
		*k = 1
	}

	prog, errs, err := loadProgram(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, red(stderr, err.Error()))
		return 1
	}
	if errs != nil {
		printErrors(stderr, errs)
		return 1
	}

	e := evaluator.New(newRand(*seed))
	samples, err := e.SampleProgram(prog, params.New(pl), *k)
	if err != nil {
		fmt.Fprintln(stderr, red(stderr, err.Error()))
		return 1
	}
	for _, s := range samples {
		fmt.Fprintln(stdout, s)
	}
	return 0
}

func cmdInfer(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("infer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pl := paramList{}
	fs.Var(pl, "p", "parameter assignment name=value (repeatable)")
	value := fs.String("value", "", "observed value in surface syntax")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || *value == "" {
		fmt.Fprintln(stderr, "expected -value and exactly one source file")
		return 2
	}

	prog, errs, err := loadProgram(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, red(stderr, err.Error()))
		return 1
	}
	if errs != nil {
		printErrors(stderr, errs)
		return 1
	}

	target, err := parser.ParseValue(*value)
	if err != nil {
		fmt.Fprintln(stderr, red(stderr, err.Error()))
		return 1
	}

	e := evaluator.New(nil)
	prob, err := e.InferProgram(prog, params.New(pl), target)
	if err != nil {
		fmt.Fprintln(stderr, red(stderr, err.Error()))
		return 1
	}
	fmt.Fprintf(stdout, "%g\n", prob)
	return 0
}

func cmdSupport(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("support", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pl := paramList{}
	fs.Var(pl, "p", "parameter assignment name=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "expected exactly one source file")
		return 2
	}

	prog, errs, err := loadProgram(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, red(stderr, err.Error()))
		return 1
	}
	if errs != nil {
		printErrors(stderr, errs)
		return 1
	}

	e := evaluator.New(nil)
	supp, err := e.SupportProgram(prog, params.New(pl))
	if err != nil {
		fmt.Fprintln(stderr, red(stderr, err.Error()))
		return 1
	}
	for _, v := range supp.Values() {
		fmt.Fprintln(stdout, v)
	}
	return 0
}

func cmdCheck(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "expected exactly one source file")
		return 2
	}
	_, errs, err := loadProgram(args[0])
	if err != nil {
		fmt.Fprintln(stderr, red(stderr, err.Error()))
		return 1
	}
	if errs != nil {
		printErrors(stderr, errs)
		return 1
	}
	fmt.Fprintln(stdout, green(stdout, "ok"))
	return 0
}

func cmdTrain(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "training configuration (yaml)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || *cfgPath == "" {
		fmt.Fprintln(stderr, "expected -config and exactly one source file")
		return 2
	}

	prog, errs, err := loadProgram(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, red(stderr, err.Error()))
		return 1
	}
	if errs != nil {
		printErrors(stderr, errs)
		return 1
	}

	cfg, err := config.LoadTrainConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, red(stderr, err.Error()))
		return 1
	}
	data, err := learn.LoadDataset(cfg.Data)
	if err != nil {
		fmt.Fprintln(stderr, red(stderr, err.Error()))
		return 1
	}

	opts := learn.Options{
		Epochs:       cfg.Epochs,
		LearningRate: cfg.LearningRate,
		Out:          stdout,
	}

	var st *store.Store
	var runID string
	if cfg.Store != "" {
		st, err = store.Open(cfg.Store)
		if err != nil {
			fmt.Fprintln(stderr, red(stderr, err.Error()))
			return 1
		}
		defer st.Close()
		runID, err = st.BeginRun(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(stderr, red(stderr, err.Error()))
			return 1
		}
		opts.Record = func(epoch int, nll float64, p params.Vector) error {
			return st.LogEpoch(runID, epoch, nll)
		}
	}

	rng := newRand(cfg.Seed)
	e := evaluator.New(rng)
	learned, err := learn.Optimize(e, prog, data, rng, opts)
	if err != nil {
		fmt.Fprintln(stderr, red(stderr, err.Error()))
		return 1
	}

	if st != nil {
		if err := st.FinishRun(runID, learned); err != nil {
			fmt.Fprintln(stderr, red(stderr, err.Error()))
			return 1
		}
		fmt.Fprintf(stdout, "run %s recorded in %s\n", runID, cfg.Store)
	}
	fmt.Fprintf(stdout, "learned: %s\n", learned)
	return 0
}
