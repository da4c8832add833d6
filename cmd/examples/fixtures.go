package examples

import (
	"github.com/operator-framework/wmidnf/pkg/wmi"
)

// Fixture is a small problem with a known weighted model integral.
type Fixture struct {
	Name     string
	Formula  wmi.Formula
	NbBools  int
	Domain   *wmi.Domain
	Weight   *wmi.WeightFunction
	Expected float64
}

func x(v int, coefficient float64) wmi.Term {
	return wmi.Term{Variable: v, Coefficient: coefficient}
}

// Fixtures returns the reference problems.
func Fixtures() ([]Fixture, error) {
	var fixtures []Fixture
	add := func(name string, formula wmi.Formula, nbBools int, dim int, lower, upper float64, monomials []wmi.Monomial, boolWeights []float64, expected float64) error {
		domain, err := wmi.NewDomain(dim, lower, upper)
		if err != nil {
			return err
		}
		weight, err := wmi.NewWeightFunction(dim, monomials, boolWeights)
		if err != nil {
			return err
		}
		fixtures = append(fixtures, Fixture{Name: name, Formula: formula, NbBools: nbBools, Domain: domain, Weight: weight, Expected: expected})
		return nil
	}
	one := func(dim int) []wmi.Monomial {
		return []wmi.Monomial{{Coefficient: 1, Exponents: make([]int, dim)}}
	}

	for _, err := range []error{
		// a or b
		add("boolean-disjunction",
			wmi.Formula{{wmi.Bool(0)}, {wmi.Bool(1)}},
			2, 0, 0, 1, one(0), []float64{0.6, 0.8}, 0.92),
		// (a and b) or (a and c) or (b and c)
		add("boolean-majority",
			wmi.Formula{{wmi.Bool(0), wmi.Bool(1)}, {wmi.Bool(0), wmi.Bool(2)}, {wmi.Bool(1), wmi.Bool(2)}},
			3, 1, 0, 1, one(1), []float64{0.5, 0.5, 0.5}, 0.5),
		// b or not b, x in [0, 2]
		add("boolean-complement",
			wmi.Formula{{wmi.Bool(0)}, {wmi.Bool(2)}},
			1, 1, 0, 2, one(1), []float64{0.7}, 2),
		add("linear-weight",
			wmi.Formula{{}},
			0, 1, 0, 2, []wmi.Monomial{{Coefficient: 1, Exponents: []int{1}}}, nil, 2),
		// 1 + x + y over the unit square
		add("two-variables",
			wmi.Formula{{}},
			0, 2, 0, 1, []wmi.Monomial{
				{Coefficient: 1, Exponents: []int{0, 0}},
				{Coefficient: 1, Exponents: []int{1, 0}},
				{Coefficient: 1, Exponents: []int{0, 1}},
			}, nil, 2),
		add("single-bound",
			wmi.Formula{{wmi.Atom(wmi.OpLessEq, 2, x(0, 1))}},
			0, 1, 0, 10, one(1), nil, 2),
		add("square",
			wmi.Formula{{
				wmi.Atom(wmi.OpGreaterEq, 10, x(0, 1)),
				wmi.Atom(wmi.OpLessEq, 30, x(0, 1)),
				wmi.Atom(wmi.OpGreaterEq, 10, x(1, 1)),
				wmi.Atom(wmi.OpLessEq, 30, x(1, 1)),
			}},
			0, 2, 0, 30, one(2), nil, 400),
		// z and w are free
		add("four-variables",
			wmi.Formula{{
				wmi.Atom(wmi.OpGreaterEq, 2, x(0, 1), x(1, 0), x(2, 0), x(3, 0)),
				wmi.Atom(wmi.OpLessEq, 8, x(0, 1), x(1, 0), x(2, 0), x(3, 0)),
				wmi.Atom(wmi.OpGreaterEq, 3, x(0, 0), x(1, 1), x(2, 0), x(3, 0)),
				wmi.Atom(wmi.OpLessEq, 7, x(0, 0), x(1, 1), x(2, 0), x(3, 0)),
			}},
			0, 4, 0, 10, one(4), nil, 2400),
	} {
		if err != nil {
			return nil, err
		}
	}
	return fixtures, nil
}
