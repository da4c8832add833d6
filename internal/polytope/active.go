package polytope

import (
	"github.com/operator-framework/wmidnf/pkg/wmi"
)

// Partition splits the continuous variables 0..nbReals-1 into those with
// a nonzero coefficient in at least one atom (active) and the rest
// (free). Never atoms do not activate anything.
func Partition(atoms []wmi.Literal, nbReals, nbBools int) (active, free []int) {
	appearing := make([]bool, nbReals)
	for _, atom := range atoms {
		if atom.Kind() != wmi.RealAtom || atom.Operator() == wmi.OpNever {
			continue
		}
		for _, t := range atom.Terms() {
			if t.Coefficient != 0 {
				appearing[t.Variable-nbBools] = true
			}
		}
	}
	for i, ok := range appearing {
		if ok {
			active = append(active, i)
		} else {
			free = append(free, i)
		}
	}
	return active, free
}

// ActiveRows builds the rows of the atoms projected on the active
// variables, followed by the domain box rows of those variables.
func ActiveRows(atoms []wmi.Literal, active []int, domain *wmi.Domain, nbBools int) ([][]float64, []float64) {
	var a [][]float64
	var b []float64
	for _, atom := range atoms {
		rows, bounds := AtomRows(atom, domain.Dimension(), nbBools)
		for i, row := range rows {
			a = append(a, project(row, active))
			b = append(b, bounds[i])
		}
	}
	for i := range active {
		upper := make([]float64, len(active))
		upper[i] = 1
		lower := make([]float64, len(active))
		lower[i] = -1
		a = append(a, upper, lower)
		b = append(b, domain.Upper(), -domain.Lower())
	}
	return a, b
}

func project(row []float64, cols []int) []float64 {
	out := make([]float64, len(cols))
	for i, c := range cols {
		out[i] = row[c]
	}
	return out
}
