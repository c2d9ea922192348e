package lexer

import (
	"github.com/bernlang/bern/internal/diagnostics"
	"github.com/bernlang/bern/internal/pipeline"
	"github.com/bernlang/bern/internal/token"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.SourceCode)

	var stream []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			err := diagnostics.NewError("L001", tok, "illegal character %q", tok.Lexeme)
			err.File = ctx.FilePath
			ctx.Errors = append(ctx.Errors, err)
		}
		stream = append(stream, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	ctx.TokenStream = stream
	return ctx
}
