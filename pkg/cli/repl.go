package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/bernlang/bern/internal/analyzer"
	"github.com/bernlang/bern/internal/config"
	"github.com/bernlang/bern/internal/evaluator"
	"github.com/bernlang/bern/internal/lexer"
	"github.com/bernlang/bern/internal/params"
	"github.com/bernlang/bern/internal/parser"
	"github.com/bernlang/bern/internal/pipeline"
)

const (
	promptMain = "bern> "
	replHelp   = `REPL commands:
  :set <name> <value>   set a parameter
  :params               show the current parameters
  :infer <value>        exact probability of a value under the last program
  :support              possible values of the last program
  :help                 show this help
  :quit                 exit

Anything else is parsed as a program and sampled once.`
)

func cmdRepl(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	seed := fs.Int64("seed", 0, "random seed (0 = time-seeded)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	historyPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyPath = filepath.Join(home, config.HistoryFileName)
		if f, err := os.Open(historyPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Fprintln(stdout, "bern REPL. Ctrl+D exits, :help for commands.")

	session := &replSession{
		eval:   evaluator.New(newRand(*seed)),
		params: paramList{},
		stdout: stdout,
		stderr: stderr,
	}

	for {
		line, err := ln.Prompt(promptMain)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			break // io.EOF / Ctrl+D
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if line == ":quit" {
			break
		}
		session.handle(line)
	}

	if historyPath != "" {
		if f, err := os.Create(historyPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}
	return 0
}

type replSession struct {
	eval   *evaluator.Evaluator
	params paramList
	last   *pipeline.PipelineContext
	stdout io.Writer
	stderr io.Writer
}

func (s *replSession) handle(line string) {
	if strings.HasPrefix(line, ":") {
		s.command(line)
		return
	}

	pipe := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.AnalyzerProcessor{},
	)
	ctx := pipe.Run(&pipeline.PipelineContext{FilePath: "<repl>", SourceCode: line})
	if ctx.HasErrors() {
		printErrors(s.stderr, ctx.Errors)
		return
	}
	s.last = ctx

	val, err := s.eval.SampleProgram(ctx.Program, params.New(s.params), 1)
	if err != nil {
		fmt.Fprintln(s.stderr, red(s.stderr, err.Error()))
		return
	}
	fmt.Fprintln(s.stdout, val[0])
}

func (s *replSession) command(line string) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case ":help":
		fmt.Fprintln(s.stdout, replHelp)
	case ":set":
		name, val, ok := strings.Cut(rest, " ")
		if !ok {
			fmt.Fprintln(s.stderr, "usage: :set <name> <value>")
			return
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			fmt.Fprintf(s.stderr, "invalid value %q\n", val)
			return
		}
		s.params[name] = x
	case ":params":
		fmt.Fprintln(s.stdout, params.New(s.params))
	case ":infer":
		if s.last == nil {
			fmt.Fprintln(s.stderr, "no program yet")
			return
		}
		target, err := parser.ParseValue(rest)
		if err != nil {
			fmt.Fprintln(s.stderr, red(s.stderr, err.Error()))
			return
		}
		prob, err := s.eval.InferProgram(s.last.Program, params.New(s.params), target)
		if err != nil {
			fmt.Fprintln(s.stderr, red(s.stderr, err.Error()))
			return
		}
		fmt.Fprintf(s.stdout, "%g\n", prob)
	case ":support":
		if s.last == nil {
			fmt.Fprintln(s.stderr, "no program yet")
			return
		}
		supp, err := s.eval.SupportProgram(s.last.Program, params.New(s.params))
		if err != nil {
			fmt.Fprintln(s.stderr, red(s.stderr, err.Error()))
			return
		}
		fmt.Fprintln(s.stdout, supp)
	default:
		fmt.Fprintf(s.stderr, "unknown command %s (:help for help)\n", cmd)
	}
}
