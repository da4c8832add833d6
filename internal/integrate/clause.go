package integrate

import (
	"context"
	"math"

	"github.com/operator-framework/wmidnf/internal/polytope"
	"github.com/operator-framework/wmidnf/pkg/wmi"
)

// equalityTol is the tolerance used to decide constant atoms.
const equalityTol = 1e-9

// Integrator computes the integral of a weight polynomial over the real
// region of a clause. Clauses whose atoms each mention a single variable
// are integrated in closed form; the others go to the Oracle.
type Integrator struct {
	Domain  *wmi.Domain
	NbBools int
	// Oracle may be nil, in which case multi-variable clauses fail with
	// wmi.ErrOracleUnavailable.
	Oracle Oracle
}

// ClauseIntegral returns Σ_m coefficient_m · ∫_region monomial_m.
func (in *Integrator) ClauseIntegral(ctx context.Context, atoms []wmi.Literal, w *wmi.WeightFunction) (float64, error) {
	n := in.Domain.Dimension()
	lower := make([]float64, n)
	upper := make([]float64, n)
	for i := range lower {
		lower[i], upper[i] = in.Domain.Lower(), in.Domain.Upper()
	}

	coupled := false
	for _, atom := range atoms {
		if atom.Operator() == wmi.OpNever {
			continue
		}
		coeffs := map[int]float64{}
		for _, t := range atom.Terms() {
			coeffs[t.Variable-in.NbBools] += t.Coefficient
		}
		for v, c := range coeffs {
			if c == 0 {
				delete(coeffs, v)
			}
		}
		switch len(coeffs) {
		case 0:
			if !atom.Operator().Holds(0, atom.Constant(), equalityTol) {
				return 0, nil
			}
		case 1:
			for v, c := range coeffs {
				tighten(atom.Operator(), atom.Constant()/c, c > 0, &lower[v], &upper[v])
			}
		default:
			coupled = true
		}
	}

	active, free := polytope.Partition(atoms, n, in.NbBools)
	if !coupled {
		var total float64
		for _, m := range w.Monomials() {
			v := m.Coefficient
			for i := 0; i < n; i++ {
				v *= AxisIntegral(lower[i], upper[i], m.Exponents[i])
			}
			total += v
		}
		return total, nil
	}

	if in.Oracle == nil {
		return 0, wmi.ErrOracleUnavailable
	}
	a, b := polytope.ActiveRows(atoms, active, in.Domain, in.NbBools)
	var total float64
	for _, m := range w.Monomials() {
		exponents := make([]int, len(active))
		for i, v := range active {
			exponents[i] = m.Exponents[v]
		}
		inner, err := in.Oracle.Integrate(ctx, &Problem{A: a, B: b, Monomials: [][]int{exponents}})
		if err != nil {
			return 0, err
		}
		v := m.Coefficient * inner
		for _, i := range free {
			v *= AxisIntegral(in.Domain.Lower(), in.Domain.Upper(), m.Exponents[i])
		}
		total += v
	}
	return total, nil
}

// tighten narrows [lower, upper] with the single-variable atom
// c·x <op> constant, given bound = constant/c and the sign of c.
func tighten(op wmi.Operator, bound float64, positive bool, lower, upper *float64) {
	switch op {
	case wmi.OpLessEq, wmi.OpLess:
		if positive {
			*upper = math.Min(*upper, bound)
		} else {
			*lower = math.Max(*lower, bound)
		}
	case wmi.OpGreaterEq, wmi.OpGreater:
		if positive {
			*lower = math.Max(*lower, bound)
		} else {
			*upper = math.Min(*upper, bound)
		}
	case wmi.OpEqual:
		*lower = math.Max(*lower, bound)
		*upper = math.Min(*upper, bound)
	}
}
