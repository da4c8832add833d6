package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/go-logr/logr"

	"github.com/operator-framework/wmidnf/internal/integrate"
	"github.com/operator-framework/wmidnf/internal/polytope"
	"github.com/operator-framework/wmidnf/internal/sampler"
	"github.com/operator-framework/wmidnf/pkg/wmi"
)

// equalityTol is the tolerance of = atoms when testing a point.
const equalityTol = 1e-9

// Problem is the input of a Solver.
type Problem struct {
	Formula wmi.Formula
	NbBools int
	Domain  *wmi.Domain
	Weight  *wmi.WeightFunction
}

type Solver interface {
	// Estimate returns an (epsilon, delta) approximation of the weighted
	// volume of the formula.
	Estimate(ctx context.Context, epsilon, delta float64) (float64, error)
	ClauseWeights() []float64
	NormalizationSum() float64
	// ChainState returns the last point sampled for clause i, or nil if
	// the clause has no chain.
	ChainState(i int) []float64
}

type solver struct {
	formula     wmi.Formula
	nbBools     int
	nbReals     int
	nbVariables int
	domain      *wmi.Domain
	weight      *wmi.WeightFunction

	oracle         integrate.Oracle
	rng            *rand.Rand
	logger         logr.Logger
	tracer         wmi.Tracer
	samplerOptions []sampler.Option

	litMap        *litMapping
	weights       []float64
	cumulative    []float64
	normalization float64
	chains        []*sampler.Chain
	sampler       *sampler.Sampler
}

// assignment is a point of the hybrid space.
type assignment struct {
	bools []bool
	reals []float64
}

func (a *assignment) flatten() []float64 {
	out := make([]float64, 0, len(a.bools)+len(a.reals))
	for _, b := range a.bools {
		if b {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	}
	return append(out, a.reals...)
}

// NewSolver validates the problem and precomputes, per clause, its
// weight and the starting point of its sampling chain.
func NewSolver(ctx context.Context, p Problem, options ...Option) (Solver, error) {
	if p.Domain == nil || p.Weight == nil {
		return nil, errors.New("problem needs a domain and a weight function")
	}
	if p.Weight.Dimension() != p.Domain.Dimension() {
		return nil, fmt.Errorf("weight function has dimension %d but the domain has %d", p.Weight.Dimension(), p.Domain.Dimension())
	}
	if len(p.Weight.BoolWeights()) != p.NbBools {
		return nil, fmt.Errorf("%d boolean weights for %d boolean variables", len(p.Weight.BoolWeights()), p.NbBools)
	}
	if err := p.Formula.Validate(p.NbBools, p.Domain.Dimension()); err != nil {
		return nil, err
	}

	s := solver{
		formula:     p.Formula,
		nbBools:     p.NbBools,
		nbReals:     p.Domain.Dimension(),
		nbVariables: p.NbBools + p.Domain.Dimension(),
		domain:      p.Domain,
		weight:      p.Weight,
	}
	for _, option := range append(options, defaults...) {
		if err := option(&s); err != nil {
			return nil, err
		}
	}
	s.sampler = sampler.New(s.rng, s.samplerOptions...)
	s.litMap = newLitMapping(s.formula, s.nbBools, s.nbReals)

	if err := s.computeClauseWeights(ctx); err != nil {
		return nil, err
	}
	if err := s.initChains(); err != nil {
		return nil, err
	}
	return &s, nil
}

// initChains seeds one chain per clause at its interior point. A clause
// without interior is only an error when it carries weight, since a
// zero-weight clause is never drawn.
func (s *solver) initChains() error {
	s.chains = make([]*sampler.Chain, len(s.formula))
	for i, clause := range s.formula {
		atoms := clause.Atoms()
		x0, err := polytope.InteriorPoint(atoms, s.domain, s.nbBools)
		if err != nil {
			var infeasible *wmi.InfeasiblePolytope
			if errors.As(err, &infeasible) {
				infeasible.Clause = i
			}
			if s.weights[i] > 0 {
				return err
			}
			s.logger.V(1).Info("clause without interior point", "clause", i, "error", err.Error())
			continue
		}
		active, _ := polytope.Partition(atoms, s.nbReals, s.nbBools)
		dims := sampler.SampledDims(active, s.weight)
		target := sampler.NewTarget(polytope.FromClause(clause, s.domain, s.nbBools), dims, s.weight, s.domain)
		s.chains[i] = sampler.NewChain(target, x0)
	}
	return nil
}

// Trials returns the accuracy budget handed to the sampler and the
// number of trials the coverage loop needs for an (epsilon, delta)
// estimate over m clauses.
func Trials(epsilon, delta float64, m int) (sampleEps, sampleDelta float64, trials int) {
	fm := float64(m)
	sampleEps = epsilon * epsilon / (47 * fm)
	sampleDelta = delta * epsilon * epsilon / (2276 * fm * math.Log(8/delta))
	c := 1 + sampleEps
	t := 8 * fm * (1 + epsilon) * math.Log(8/delta) / (epsilon*epsilon - 8*(c-1)*fm)
	return sampleEps, sampleDelta, int(math.Ceil(t))
}

// Estimate runs the coverage loop. A point is drawn from a clause chosen
// proportionally to its weight and tested against one uniformly chosen
// clause per trial; a hit discards the point, a miss keeps it for the
// next trial.
func (s *solver) Estimate(ctx context.Context, epsilon, delta float64) (float64, error) {
	if epsilon <= 0 || delta <= 0 || delta >= 1 {
		return 0, fmt.Errorf("invalid accuracy: epsilon=%g delta=%g", epsilon, delta)
	}
	if s.normalization == 0 {
		return 0, nil
	}

	m := len(s.formula)
	sampleEps, sampleDelta, trials := Trials(epsilon, delta, m)
	s.logger.V(1).Info("estimating", "clauses", m, "trials", trials, "normalization", s.normalization)

	var point *assignment
	var drawn, successes int
	for t := 0; t < trials; t++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if point == nil {
			var err error
			drawn = s.drawClause()
			if point, err = s.sampleSolution(drawn, sampleEps, sampleDelta); err != nil {
				return 0, fmt.Errorf("sampling clause %d: %w", drawn, err)
			}
		}

		checked := s.rng.IntN(m)
		ok := s.satisfies(point, s.formula[checked])
		s.tracer.Trace(position{trial: t, drawn: drawn, checked: checked, satisfied: ok, point: point})
		if ok {
			successes++
			point = nil
		}
	}

	if successes == 0 {
		return 0, wmi.ErrNoSuccessfulTrials
	}
	return float64(trials) * s.normalization / (float64(m) * float64(successes)), nil
}

// drawClause picks a clause index with probability proportional to its
// weight.
func (s *solver) drawClause() int {
	u := s.rng.Float64() * s.normalization
	i := sort.Search(len(s.cumulative), func(i int) bool {
		return s.cumulative[i] > u
	})
	if i == len(s.cumulative) {
		// u rounded onto the total; take the last weighted clause.
		for i = len(s.weights) - 1; s.weights[i] == 0; i-- {
		}
	}
	return i
}

// sampleSolution draws the Boolean part from the Boolean weights with
// the clause's literals forced, and the real part from the clause chain.
func (s *solver) sampleSolution(i int, epsilon, delta float64) (*assignment, error) {
	bools := make([]bool, s.nbBools)
	for j, p := range s.weight.BoolWeights() {
		bools[j] = s.rng.Float64() < p
	}
	for _, id := range s.formula[i].BoolIDs() {
		if id < s.nbVariables {
			bools[id] = true
		} else {
			bools[id-s.nbVariables] = false
		}
	}

	reals, err := s.chains[i].Next(s.sampler, epsilon, delta)
	if err != nil {
		return nil, err
	}
	return &assignment{bools: bools, reals: reals}, nil
}

func (s *solver) satisfies(a *assignment, clause wmi.Clause) bool {
	for _, l := range clause {
		switch l.Kind() {
		case wmi.BoolLiteral:
			id := l.ID()
			if id >= s.nbVariables {
				if a.bools[id-s.nbVariables] {
					return false
				}
			} else if !a.bools[id] {
				return false
			}
		case wmi.RealAtom:
			if !l.Operator().Holds(l.Sum(a.reals, s.nbBools), l.Constant(), equalityTol) {
				return false
			}
		}
	}
	return true
}

func (s *solver) ClauseWeights() []float64 {
	return append([]float64(nil), s.weights...)
}

func (s *solver) NormalizationSum() float64 {
	return s.normalization
}

func (s *solver) ChainState(i int) []float64 {
	if s.chains[i] == nil {
		return nil
	}
	return s.chains[i].State()
}

type Option func(s *solver) error

// WithOracle sets the exact integrator used for clauses coupling several
// real variables.
func WithOracle(o integrate.Oracle) Option {
	return func(s *solver) error {
		s.oracle = o
		return nil
	}
}

// WithRand sets the random stream. The solver must be its only user.
func WithRand(rng *rand.Rand) Option {
	return func(s *solver) error {
		s.rng = rng
		return nil
	}
}

// WithSeed makes runs reproducible.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

func WithLogger(logger logr.Logger) Option {
	return func(s *solver) error {
		s.logger = logger
		return nil
	}
}

func WithTracer(t wmi.Tracer) Option {
	return func(s *solver) error {
		s.tracer = t
		return nil
	}
}

func WithSamplerOptions(options ...sampler.Option) Option {
	return func(s *solver) error {
		s.samplerOptions = append(s.samplerOptions, options...)
		return nil
	}
}

var defaults = []Option{
	func(s *solver) error {
		if s.rng == nil {
			s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
		return nil
	},
	func(s *solver) error {
		if s.logger.GetSink() == nil {
			s.logger = logr.Discard()
		}
		return nil
	},
	func(s *solver) error {
		if s.tracer == nil {
			s.tracer = DefaultTracer{}
		}
		return nil
	},
}
