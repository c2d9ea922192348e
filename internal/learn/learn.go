// Package learn fits program parameters to observed data by maximum
// likelihood: it minimizes the average negative log-likelihood of the
// dataset under the distribution the program denotes, which is equivalent to
// maximizing the likelihood with respect to the parameters.
package learn

import (
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/bernlang/bern/internal/ast"
	"github.com/bernlang/bern/internal/evaluator"
	"github.com/bernlang/bern/internal/params"
)

// Epsilon is the clamp applied to inferred probabilities before taking logs.
// Zero-probability observations are clamped rather than skipped, so a datum
// the program cannot produce contributes a large but finite penalty instead
// of a math-domain failure.
const Epsilon = 1e-6

// AvgNegLogLikelihood computes the average negative log-likelihood of the
// dataset under prog at p.
func AvgNegLogLikelihood(e *evaluator.Evaluator, prog *ast.Program, p params.Vector, data []ast.PureNode) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("empty training set")
	}
	acc := 0.0
	for _, datum := range data {
		prob, err := e.InferProgram(prog, p, datum)
		if err != nil {
			return 0, err
		}
		acc -= math.Log(math.Max(Epsilon, prob))
	}
	return acc / float64(len(data)), nil
}

// AvgNegLogLikelihoodGradient computes the gradient of AvgNegLogLikelihood
// at p: the average over the dataset of -grad(prob)/prob, with the same
// epsilon clamp as the objective.
func AvgNegLogLikelihoodGradient(e *evaluator.Evaluator, prog *ast.Program, p params.Vector, data []ast.PureNode) (params.Vector, error) {
	if len(data) == 0 {
		return params.Vector{}, fmt.Errorf("empty training set")
	}
	grad := params.Zero(prog.Params())
	for _, datum := range data {
		prob, err := e.InferProgram(prog, p, datum)
		if err != nil {
			return params.Vector{}, err
		}
		prob = math.Max(Epsilon, prob)

		g, err := e.GradientProgram(prog, p, datum)
		if err != nil {
			return params.Vector{}, err
		}
		scaled, err := g.Div(prob)
		if err != nil {
			return params.Vector{}, err
		}
		grad, err = grad.Sub(scaled)
		if err != nil {
			return params.Vector{}, err
		}
	}
	return grad.Div(float64(len(data)))
}

// Options configures an optimization run.
type Options struct {
	Epochs       int
	LearningRate float64
	// Out receives one line per epoch with the current NLL. Nil silences it.
	Out io.Writer
	// Record, when non-nil, is called after every epoch with the epoch
	// number, its NLL, and the current parameters.
	Record func(epoch int, nll float64, p params.Vector) error
	// Init, when non-nil, is the starting parameter vector instead of a
	// random one. Used to resume a run from stored parameters.
	Init *params.Vector
}

// Optimize runs gradient descent on the average NLL, starting from random
// parameters in [0,1) drawn from rng. Updated parameters are clamped back to
// [0,1] after each step, since a probability parameter outside that range has
// no meaning to a flip.
func Optimize(e *evaluator.Evaluator, prog *ast.Program, data []ast.PureNode, rng *rand.Rand, opts Options) (params.Vector, error) {
	var p params.Vector
	if opts.Init != nil {
		p = opts.Init.Clone()
	} else {
		p = params.Random(prog.Params(), rng)
	}

	for epoch := 0; epoch < opts.Epochs; epoch++ {
		nll, err := AvgNegLogLikelihood(e, prog, p, data)
		if err != nil {
			return params.Vector{}, err
		}
		if opts.Out != nil {
			fmt.Fprintf(opts.Out, "epoch: %d; nll: %g\n", epoch, nll)
		}

		grad, err := AvgNegLogLikelihoodGradient(e, prog, p, data)
		if err != nil {
			return params.Vector{}, err
		}
		p, err = p.Sub(grad.Scale(opts.LearningRate))
		if err != nil {
			return params.Vector{}, err
		}
		clamp01(p)

		if opts.Record != nil {
			if err := opts.Record(epoch, nll, p); err != nil {
				return params.Vector{}, err
			}
		}
	}
	return p, nil
}

func clamp01(p params.Vector) {
	for _, k := range p.Keys() {
		v, _ := p.Get(k)
		if v < 0 {
			_ = p.Set(k, 0)
		} else if v > 1 {
			_ = p.Set(k, 1)
		}
	}
}
