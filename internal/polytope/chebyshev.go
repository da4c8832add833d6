package polytope

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/operator-framework/wmidnf/pkg/wmi"
)

const simplexTol = 1e-10

// InteriorPoint returns a point of the clause polytope over all nbReals
// continuous variables. Active variables are placed at a Chebyshev
// center of the clause restricted to them; free variables sit at the
// domain midpoint. The returned error is a *wmi.InfeasiblePolytope when
// no center exists.
func InteriorPoint(atoms []wmi.Literal, domain *wmi.Domain, nbBools int) ([]float64, error) {
	point := domain.Center()
	active, _ := Partition(atoms, domain.Dimension(), nbBools)
	if len(active) == 0 {
		return point, nil
	}

	a, b := ActiveRows(atoms, active, domain, nbBools)
	center, err := ChebyshevCenter(a, b)
	if err != nil {
		return nil, &wmi.InfeasiblePolytope{Clause: -1, Err: err}
	}
	for i, v := range active {
		point[v] = center[i]
	}
	return point, nil
}

// ChebyshevCenter computes the center of the largest ball inscribed in
// {x : a·x <= b} by solving
//
//	maximize r  s.t.  a_i·x + ||a_i||·r <= b_i,  r >= 0.
//
// Centers are rarely unique (a rectangle has a segment of them), so the
// result is pinned coordinate by coordinate to the middle of the set of
// optimal centers.
func ChebyshevCenter(a [][]float64, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, errors.New("no constraints")
	}
	n := len(a[0])
	norms := make([]float64, len(a))
	for i, row := range a {
		norms[i] = floats.Norm(row, 2)
	}

	g := mat.NewDense(len(a)+1, n+1, nil)
	for i, row := range a {
		g.SetRow(i, append(append(make([]float64, 0, n+1), row...), norms[i]))
	}
	g.Set(len(a), n, -1)
	h := append(append(make([]float64, 0, len(b)+1), b...), 0)

	c := make([]float64, n+1)
	c[n] = -1
	z, err := solve(c, g, h)
	if err != nil {
		return nil, err
	}
	center, r := z[:n], z[n]

	// Shrink slightly so the fixed radius stays feasible for the
	// refinement programs despite rounding.
	r -= simplexTol * (1 + r)
	if r < 0 {
		r = 0
	}
	return refine(a, b, norms, r, center), nil
}

// refine moves each coordinate, in order, to the midpoint of its range
// over the centers of radius r that agree with the coordinates already
// fixed. Any failing program leaves the remaining coordinates untouched.
func refine(a [][]float64, b, norms []float64, r float64, center []float64) []float64 {
	n := len(center)
	out := append([]float64(nil), center...)
	for j := 0; j < n; j++ {
		free := n - j
		g := mat.NewDense(len(a), free, nil)
		h := make([]float64, len(a))
		for i, row := range a {
			g.SetRow(i, row[j:])
			h[i] = b[i] - norms[i]*r - floats.Dot(row[:j], out[:j])
		}
		c := make([]float64, free)
		c[0] = 1
		lo, err := solve(c, g, h)
		if err != nil {
			return out
		}
		c[0] = -1
		hi, err := solve(c, g, h)
		if err != nil {
			return out
		}
		out[j] = (lo[0] + hi[0]) / 2
	}
	return out
}

// solve minimizes cᵀx subject to g·x <= h with x unrestricted in sign.
func solve(c []float64, g *mat.Dense, h []float64) ([]float64, error) {
	cNew, aNew, bNew := lp.Convert(c, g, h, nil, nil)
	_, xNew, err := lp.Simplex(cNew, aNew, bNew, simplexTol, nil)
	if err != nil {
		return nil, fmt.Errorf("chebyshev program: %w", err)
	}
	// Convert splits x into xNew[:n] - xNew[n:2n] followed by slacks.
	n := len(c)
	x := make([]float64, n)
	for i := range x {
		x[i] = xNew[i] - xNew[n+i]
	}
	return x, nil
}
