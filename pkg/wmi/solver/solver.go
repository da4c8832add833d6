package solver

import (
	"context"
	"fmt"
	"io"

	"github.com/go-logr/logr"

	"github.com/operator-framework/wmidnf/internal/integrate"
	"github.com/operator-framework/wmidnf/internal/sampler"
	"github.com/operator-framework/wmidnf/internal/solver"
	"github.com/operator-framework/wmidnf/pkg/wmi"
)

// Solution is the outcome of one Estimate call.
type Solution struct {
	value         float64
	trials        int
	clauseWeights []float64
}

// Value is the estimated weighted model integral.
func (s *Solution) Value() float64 {
	return s.value
}

// Trials is the number of coverage trials the estimate was built from.
// It is zero when the formula had no weight at all.
func (s *Solution) Trials() int {
	return s.trials
}

// ClauseWeights returns the exact weight of every clause taken alone.
// Note: This is only present if the AddClauseWeightsToSolution option is
// passed to the Estimate call that produced the solution.
func (s *Solution) ClauseWeights() []float64 {
	return s.clauseWeights
}

type estimateOptions struct {
	addClauseWeights bool
}

func (e *estimateOptions) apply(options ...EstimateOption) *estimateOptions {
	for _, applyOption := range options {
		applyOption(e)
	}
	return e
}

type EstimateOption func(*estimateOptions)

// AddClauseWeightsToSolution includes the per-clause weights in the
// Solution.
func AddClauseWeightsToSolution() EstimateOption {
	return func(e *estimateOptions) {
		e.addClauseWeights = true
	}
}

type Option func(opts *[]solver.Option)

// WithLatte integrates multi-variable clauses with the LattE binary at
// path. Without an oracle those clauses are given zero weight.
func WithLatte(path string, logger logr.Logger) Option {
	return WithOracle(integrate.NewLatteOracle(path, logger))
}

func WithOracle(o integrate.Oracle) Option {
	return func(opts *[]solver.Option) {
		*opts = append(*opts, solver.WithOracle(o))
	}
}

func WithSeed(seed uint64) Option {
	return func(opts *[]solver.Option) {
		*opts = append(*opts, solver.WithSeed(seed))
	}
}

func WithLogger(logger logr.Logger) Option {
	return func(opts *[]solver.Option) {
		*opts = append(*opts, solver.WithLogger(logger))
	}
}

func WithTracer(t wmi.Tracer) Option {
	return func(opts *[]solver.Option) {
		*opts = append(*opts, solver.WithTracer(t))
	}
}

// WithHitAndRun overrides the walk length and bisection probes of the
// sampler.
func WithHitAndRun(iterations, probes int) Option {
	return func(opts *[]solver.Option) {
		*opts = append(*opts, solver.WithSamplerOptions(sampler.WithIterations(iterations), sampler.WithProbes(probes)))
	}
}

// WMISolver estimates weighted model integrals of a DNF formula. Clause
// weights and chain starting points are computed once, at construction;
// chains keep advancing across Estimate calls.
type WMISolver struct {
	s solver.Solver
}

func NewWMISolver(ctx context.Context, formula wmi.Formula, nbBools int, domain *wmi.Domain, weight *wmi.WeightFunction, options ...Option) (*WMISolver, error) {
	var opts []solver.Option
	for _, option := range options {
		option(&opts)
	}
	s, err := solver.NewSolver(ctx, solver.Problem{
		Formula: formula,
		NbBools: nbBools,
		Domain:  domain,
		Weight:  weight,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing solver: %w", err)
	}
	return &WMISolver{s: s}, nil
}

func (w *WMISolver) Estimate(ctx context.Context, epsilon, delta float64, options ...EstimateOption) (*Solution, error) {
	opts := (&estimateOptions{}).apply(options...)

	value, err := w.s.Estimate(ctx, epsilon, delta)
	if err != nil {
		return nil, err
	}
	solution := &Solution{value: value}
	if w.s.NormalizationSum() != 0 {
		_, _, solution.trials = solver.Trials(epsilon, delta, len(w.s.ClauseWeights()))
	}
	if opts.addClauseWeights {
		solution.clauseWeights = w.s.ClauseWeights()
	}
	return solution, nil
}

// ChainState returns the last point sampled for clause i, or nil when
// the clause has no chain.
func (w *WMISolver) ChainState(i int) []float64 {
	return w.s.ChainState(i)
}

// NewLoggingTracer returns a Tracer writing one line per coverage trial
// to w.
func NewLoggingTracer(w io.Writer) wmi.Tracer {
	return solver.LoggingTracer{Writer: w}
}
