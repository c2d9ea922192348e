package analyzer

import (
	"github.com/bernlang/bern/internal/pipeline"
)

type AnalyzerProcessor struct{}

func (ap *AnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil {
		// Parsing failed; nothing to analyze.
		return ctx
	}

	for _, err := range Analyze(ctx.Program) {
		if err.File == "" {
			err.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}
