package wmi

import (
	"fmt"
	"math"
)

// Monomial is Coefficient·∏ x_i^Exponents[i].
type Monomial struct {
	Coefficient float64
	Exponents   []int
}

func (m Monomial) Eval(point []float64) float64 {
	v := m.Coefficient
	for i, e := range m.Exponents {
		if e != 0 {
			v *= math.Pow(point[i], float64(e))
		}
	}
	return v
}

// Degree is the sum of the exponents.
func (m Monomial) Degree() int {
	var d int
	for _, e := range m.Exponents {
		d += e
	}
	return d
}

// WeightFunction is a polynomial over the continuous variables together
// with independent truth probabilities for the Boolean variables.
type WeightFunction struct {
	dimension   int
	monomials   []Monomial
	boolWeights []float64
}

func NewWeightFunction(dimension int, monomials []Monomial, boolWeights []float64) (*WeightFunction, error) {
	for i, m := range monomials {
		if len(m.Exponents) != dimension {
			return nil, fmt.Errorf("monomial %d has %d exponents, want %d", i, len(m.Exponents), dimension)
		}
		for _, e := range m.Exponents {
			if e < 0 {
				return nil, fmt.Errorf("monomial %d has negative exponent %d", i, e)
			}
		}
	}
	for i, p := range boolWeights {
		if p < 0 || p > 1 || math.IsNaN(p) {
			return nil, fmt.Errorf("boolean weight %d is %g, not a probability", i, p)
		}
	}
	return &WeightFunction{dimension: dimension, monomials: monomials, boolWeights: boolWeights}, nil
}

// Constant returns the weight function k over dimension variables.
func Constant(k float64, dimension int, boolWeights []float64) (*WeightFunction, error) {
	return NewWeightFunction(dimension, []Monomial{{Coefficient: k, Exponents: make([]int, dimension)}}, boolWeights)
}

func (w *WeightFunction) Dimension() int { return w.dimension }

func (w *WeightFunction) Monomials() []Monomial { return w.monomials }

func (w *WeightFunction) BoolWeights() []float64 { return w.boolWeights }

// Eval evaluates the polynomial part at point. It panics when the point
// does not have Dimension entries.
func (w *WeightFunction) Eval(point []float64) float64 {
	if len(point) != w.dimension {
		panic(fmt.Sprintf("wmi: weight function of dimension %d evaluated at a point of length %d", w.dimension, len(point)))
	}
	var v float64
	for _, m := range w.monomials {
		v += m.Eval(point)
	}
	return v
}

// HasNonzeroExponent reports whether variable i appears in any monomial.
func (w *WeightFunction) HasNonzeroExponent(i int) bool {
	for _, m := range w.monomials {
		if m.Exponents[i] != 0 {
			return true
		}
	}
	return false
}

// FilterVars projects the polynomial onto the variables listed in
// indices, in that order. Coefficients and Boolean weights are kept.
func (w *WeightFunction) FilterVars(indices []int) *WeightFunction {
	monomials := make([]Monomial, len(w.monomials))
	for i, m := range w.monomials {
		exponents := make([]int, len(indices))
		for j, v := range indices {
			exponents[j] = m.Exponents[v]
		}
		monomials[i] = Monomial{Coefficient: m.Coefficient, Exponents: exponents}
	}
	return &WeightFunction{dimension: len(indices), monomials: monomials, boolWeights: w.boolWeights}
}
