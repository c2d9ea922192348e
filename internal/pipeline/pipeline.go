package pipeline

import (
	"github.com/bernlang/bern/internal/ast"
	"github.com/bernlang/bern/internal/diagnostics"
	"github.com/bernlang/bern/internal/token"
)

// PipelineContext carries one source file through the processing stages.
type PipelineContext struct {
	FilePath    string
	SourceCode  string
	TokenStream []token.Token
	Program     *ast.Program
	Errors      []*diagnostics.Error
}

// HasErrors reports whether any stage recorded a diagnostic.
func (ctx *PipelineContext) HasErrors() bool { return len(ctx.Errors) > 0 }

// Processor is a single processing stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Continue on errors so diagnostics from later stages are still
		// collected.
	}
	return ctx
}
