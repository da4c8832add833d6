package generator

import (
	"math"
	"math/rand/v2"

	"github.com/operator-framework/wmidnf/pkg/wmi"
)

const (
	maxWeightTerms  = 4
	maxWeightDegree = 5
	degreeSuccess   = 0.6
)

// Weight draws a random polynomial weight over nbReals variables: up to
// four monomials of geometric degree, plus a constant large enough to keep
// the polynomial positive on [0, 10]^nbReals. Boolean weights are uniform
// on [0, 1).
func Weight(rng *rand.Rand, nbReals, nbBools int) (*wmi.WeightFunction, error) {
	var monomials []wmi.Monomial
	constant := 2.0
	terms := 1 + rng.IntN(maxWeightTerms)
	for i := 0; i < terms; i++ {
		exponents := make([]int, nbReals)
		degree := min(geometric(rng, degreeSuccess), maxWeightDegree)
		if nbReals == 0 {
			degree = 0
		}
		for d := 0; d < degree; d++ {
			exponents[rng.IntN(nbReals)]++
		}
		c := float64(1 + rng.IntN(10))
		constant += math.Pow(10, float64(degree)) * c
		if degree >= 2 {
			c = -c
		}
		monomials = append(monomials, wmi.Monomial{Coefficient: -c, Exponents: exponents})
	}
	monomials = append(monomials, wmi.Monomial{Coefficient: constant, Exponents: make([]int, nbReals)})

	boolWeights := make([]float64, nbBools)
	for i := range boolWeights {
		boolWeights[i] = rng.Float64()
	}
	return wmi.NewWeightFunction(nbReals, monomials, boolWeights)
}
