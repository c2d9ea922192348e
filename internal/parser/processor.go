package parser

import (
	"github.com/bernlang/bern/internal/diagnostics"
	"github.com/bernlang/bern/internal/pipeline"
	"github.com/bernlang/bern/internal/token"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		// This case should ideally not be hit if lexer runs first, but as a safeguard:
		err := diagnostics.NewError("P000", token.Token{}, "parser: token stream is nil")
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	parser := New(ctx.TokenStream)
	ctx.Program = parser.ParseProgram()
	ctx.Errors = append(ctx.Errors, parser.Errors()...)

	if ctx.Program != nil {
		ctx.Program.File = ctx.FilePath
	}

	// Ensure all errors have file path set
	for _, err := range ctx.Errors {
		if err.File == "" {
			err.File = ctx.FilePath
		}
	}

	return ctx
}
