package polytope

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/operator-framework/wmidnf/pkg/wmi"
)

// Polytope is the H-representation A·x <= B. A is nil when the
// polytope has no rows or no columns.
type Polytope struct {
	A    *mat.Dense
	B    []float64
	cols int
}

// New builds a polytope from row-major constraint rows a·x <= b.
func New(a [][]float64, b []float64, cols int) *Polytope {
	p := &Polytope{B: b, cols: cols}
	if len(a) == 0 || cols == 0 {
		return p
	}
	data := make([]float64, 0, len(a)*cols)
	for _, row := range a {
		data = append(data, row...)
	}
	p.A = mat.NewDense(len(a), cols, data)
	return p
}

func (p *Polytope) Rows() int { return len(p.B) }

func (p *Polytope) Cols() int { return p.cols }

// Row returns row i of A. The slice must not be modified.
func (p *Polytope) Row(i int) []float64 {
	if p.A == nil {
		return make([]float64, p.cols)
	}
	return p.A.RawRowView(i)
}

// Violation returns the row with the largest excess a_i·x - b_i and that
// excess. A non-positive excess means x lies in the polytope.
func (p *Polytope) Violation(x []float64) (int, float64) {
	worst, excess := -1, math.Inf(-1)
	if p.A == nil {
		for i, b := range p.B {
			if -b > excess {
				worst, excess = i, -b
			}
		}
		return worst, excess
	}
	ax := mat.NewVecDense(p.Rows(), nil)
	ax.MulVec(p.A, mat.NewVecDense(len(x), x))
	for i, b := range p.B {
		if e := ax.AtVec(i) - b; e > excess {
			worst, excess = i, e
		}
	}
	return worst, excess
}

// Contains reports whether A·x <= B + tol holds row-wise.
func (p *Polytope) Contains(x []float64, tol float64) bool {
	_, excess := p.Violation(x)
	return excess <= tol
}

// Reduce projects the polytope onto cols, in that order, and drops the
// rows that no longer mention any kept column.
func (p *Polytope) Reduce(cols []int) *Polytope {
	var a [][]float64
	var b []float64
	for i := 0; i < p.Rows(); i++ {
		full := p.Row(i)
		row := make([]float64, len(cols))
		nonzero := false
		for j, c := range cols {
			row[j] = full[c]
			nonzero = nonzero || row[j] != 0
		}
		if !nonzero {
			continue
		}
		a = append(a, row)
		b = append(b, p.B[i])
	}
	return New(a, b, len(cols))
}

// AtomRows converts one atom into rows of the a·x <= b form over nbReals
// columns: >= and > are negated, = yields both orientations and never
// atoms yield nothing.
func AtomRows(atom wmi.Literal, nbReals, nbBools int) ([][]float64, []float64) {
	if atom.Kind() != wmi.RealAtom {
		return nil, nil
	}
	row := make([]float64, nbReals)
	for _, t := range atom.Terms() {
		row[t.Variable-nbBools] += t.Coefficient
	}
	c := atom.Constant()
	switch atom.Operator() {
	case wmi.OpLessEq, wmi.OpLess:
		return [][]float64{row}, []float64{c}
	case wmi.OpGreaterEq, wmi.OpGreater:
		return [][]float64{negate(row)}, []float64{-c}
	case wmi.OpEqual:
		return [][]float64{row, negate(row)}, []float64{c, -c}
	}
	return nil, nil
}

// FromClause builds the polytope of a clause's real atoms intersected
// with the domain box.
func FromClause(clause wmi.Clause, domain *wmi.Domain, nbBools int) *Polytope {
	n := domain.Dimension()
	var a [][]float64
	var b []float64
	for _, atom := range clause.Atoms() {
		rows, bounds := AtomRows(atom, n, nbBools)
		a = append(a, rows...)
		b = append(b, bounds...)
	}
	boxA, boxB := domain.HRep()
	return New(append(a, boxA...), append(b, boxB...), n)
}

func negate(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = -v
	}
	return out
}
