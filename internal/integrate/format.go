package integrate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxExactPrecision is the largest decimal scaling that keeps the
// integer coefficients handed to the oracle exact enough.
const MaxExactPrecision = 9

// Encoding is a Problem rendered in the LattE text formats.
type Encoding struct {
	// Polytope is the H-representation file: a "<rows> <cols>" header and
	// one "b -a_1 ... -a_k" line per constraint, meaning b - a·x >= 0.
	Polytope string
	// Monomials lists every monomial as [1, [exponents]].
	Monomials string
	// Precision is the number of decimal digits every value was scaled by.
	// Scaling a row and its bound together leaves the polytope unchanged.
	Precision int
	// Kept are the variables that survived the removal of all-zero
	// columns.
	Kept []int
}

// Encode renders p. LattE reads integers only, so every row is scaled by
// 10^p where p is the largest number of decimals among all coefficients
// and bounds.
func Encode(p *Problem) (*Encoding, error) {
	if len(p.A) != len(p.B) {
		return nil, fmt.Errorf("problem has %d rows but %d bounds", len(p.A), len(p.B))
	}
	n := p.Vars()
	precision := 0
	for i, row := range p.A {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d coefficients, want %d", i, len(row), n)
		}
		precision = max(precision, decimals(p.B[i]))
		for _, v := range row {
			precision = max(precision, decimals(v))
		}
	}
	scale := math.Pow(10, float64(precision))

	var kept []int
	for j := 0; j < n; j++ {
		for _, row := range p.A {
			if row[j] != 0 {
				kept = append(kept, j)
				break
			}
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %d\n", len(p.A), len(kept)+1)
	for i, row := range p.A {
		fields := make([]string, 0, len(kept)+1)
		fields = append(fields, scaled(p.B[i], scale))
		for _, j := range kept {
			fields = append(fields, scaled(-row[j], scale))
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Join(fields, " "))
	}

	monomials := make([]string, len(p.Monomials))
	for i, exponents := range p.Monomials {
		if len(exponents) != n {
			return nil, fmt.Errorf("monomial %d has %d exponents, want %d", i, len(exponents), n)
		}
		es := make([]string, len(kept))
		for k, j := range kept {
			es[k] = strconv.Itoa(exponents[j])
		}
		monomials[i] = fmt.Sprintf("[1, [%s]]", strings.Join(es, ", "))
	}

	return &Encoding{
		Polytope:  sb.String(),
		Monomials: "[" + strings.Join(monomials, ", ") + "]\n",
		Precision: precision,
		Kept:      kept,
	}, nil
}

// decimals is the number of digits after the decimal point in the
// shortest representation of v.
func decimals(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

func scaled(v, scale float64) string {
	r := math.Round(v * scale)
	if r == 0 {
		// no "-0"
		r = 0
	}
	return strconv.FormatFloat(r, 'f', 0, 64)
}
