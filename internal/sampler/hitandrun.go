package sampler

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/operator-framework/wmidnf/internal/polytope"
	"github.com/operator-framework/wmidnf/pkg/wmi"
)

const (
	// DefaultIterations is the number of hit-and-run moves per sample.
	// It does not depend on the accuracy targets.
	DefaultIterations = 32
	// DefaultProbes is the number of bisection probes used to locate the
	// weight envelope along a direction.
	DefaultProbes = 32

	// FeasibilityTol is how far a chain point may sit outside its
	// polytope before the chain is considered corrupt.
	FeasibilityTol = 1e-9
)

// Sampler draws points from clause regions proportionally to a weight
// function. It is not safe for concurrent use; give each goroutine its
// own Sampler and random stream.
type Sampler struct {
	rng        *rand.Rand
	iterations int
	probes     int
}

type Option func(s *Sampler)

func WithIterations(n int) Option {
	return func(s *Sampler) {
		s.iterations = n
	}
}

func WithProbes(n int) Option {
	return func(s *Sampler) {
		s.probes = n
	}
}

func New(rng *rand.Rand, options ...Option) *Sampler {
	s := &Sampler{rng: rng, iterations: DefaultIterations, probes: DefaultProbes}
	for _, option := range options {
		option(s)
	}
	return s
}

// Target is the region a chain samples from: a clause polytope reduced to
// the dimensions that matter for it, and the weight projected on them.
type Target struct {
	domain  *wmi.Domain
	dims    []int
	reduced *polytope.Polytope
	weight  *wmi.WeightFunction
}

// SampledDims returns the union of the clause's active variables and
// the variables the weight depends on, in increasing order.
func SampledDims(active []int, w *wmi.WeightFunction) []int {
	in := make([]bool, w.Dimension())
	for _, v := range active {
		in[v] = true
	}
	for i := range in {
		in[i] = in[i] || w.HasNonzeroExponent(i)
	}
	var dims []int
	for i, ok := range in {
		if ok {
			dims = append(dims, i)
		}
	}
	return dims
}

// NewTarget restricts the full clause polytope p and the weight w to dims.
func NewTarget(p *polytope.Polytope, dims []int, w *wmi.WeightFunction, domain *wmi.Domain) *Target {
	return &Target{
		domain:  domain,
		dims:    dims,
		reduced: p.Reduce(dims),
		weight:  w.FilterVars(dims),
	}
}

func (t *Target) Dims() []int { return t.dims }

// Sample runs the hit-and-run walk from x0, a full-dimension point of
// the clause region, and returns a new full-dimension point. Dimensions
// outside the target are drawn uniformly over the domain. The accuracy
// pair is accepted for interface stability; the walk length is fixed.
func (s *Sampler) Sample(t *Target, x0 []float64, epsilon, delta float64) ([]float64, error) {
	k := len(t.dims)
	y := make([]float64, k+1)
	for i, v := range t.dims {
		y[i] = x0[v]
	}
	if k > 0 {
		y[k] = s.rng.Float64() * math.Max(t.weight.Eval(y[:k]), 0)
		for i := 0; i < s.iterations; i++ {
			if err := s.step(t, y); err != nil {
				return nil, err
			}
		}
	}

	out := make([]float64, t.domain.Dimension())
	for i := range out {
		out[i] = t.domain.Lower() + s.rng.Float64()*t.domain.Width()
	}
	for i, v := range t.dims {
		out[v] = y[i]
	}
	return out, nil
}

// step performs one hit-and-run move of y in place. The last coordinate
// of y is the height under the weight surface.
func (s *Sampler) step(t *Target, y []float64) error {
	k := len(y) - 1
	p := t.reduced
	if row, excess := p.Violation(y[:k]); excess > FeasibilityTol {
		return &wmi.InvalidSamplerState{Point: append([]float64(nil), y[:k]...), Row: row, Violation: excess}
	}

	d := make([]float64, k+1)
	for i := range d {
		d[i] = s.rng.NormFloat64()
	}
	floats.Scale(1/floats.Norm(d, 2), d)

	closest := s.boundary(p, y[:k], d[:k])
	if math.IsInf(closest, 1) {
		return nil
	}

	low, high := 0.0, closest
	curr := make([]float64, k+1)
	for i := 0; i < s.probes; i++ {
		mid := (low + high) / 2
		floats.AddScaledTo(curr, y, mid, d)
		if curr[k] >= 0 && curr[k] <= t.weight.Eval(curr[:k]) {
			low = mid
		} else {
			high = mid
		}
	}

	floats.AddScaled(y, low*s.rng.Float64(), d)
	return nil
}

// boundary returns the distance from x along d to the first facet of p,
// or +Inf when d never leaves p.
func (s *Sampler) boundary(p *polytope.Polytope, x, d []float64) float64 {
	closest := math.Inf(1)
	if p.A == nil {
		return closest
	}
	ax := mat.NewVecDense(p.Rows(), nil)
	ax.MulVec(p.A, mat.NewVecDense(len(x), x))
	ad := mat.NewVecDense(p.Rows(), nil)
	ad.MulVec(p.A, mat.NewVecDense(len(d), d))
	for i, b := range p.B {
		den := ad.AtVec(i)
		if den <= 0 {
			continue
		}
		// A point on or marginally past a facet cannot move towards it.
		if ratio := math.Max((b-ax.AtVec(i))/den, 0); ratio < closest {
			closest = ratio
		}
	}
	return closest
}

// Chain carries the last point sampled for one clause between calls.
// Only Next writes it.
type Chain struct {
	target *Target
	state  []float64
}

func NewChain(t *Target, seed []float64) *Chain {
	return &Chain{target: t, state: append([]float64(nil), seed...)}
}

// State returns a copy of the last sampled point.
func (c *Chain) State() []float64 {
	return append([]float64(nil), c.state...)
}

func (c *Chain) Target() *Target { return c.target }

// Next draws the next point of the chain with s and records it.
func (c *Chain) Next(s *Sampler, epsilon, delta float64) ([]float64, error) {
	x, err := s.Sample(c.target, c.state, epsilon, delta)
	if err != nil {
		return nil, err
	}
	c.state = x
	return append([]float64(nil), x...), nil
}
