package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// MaxAttempts bounds the retries of the random DNF generator.
const MaxAttempts = 5

var ErrGenerationFailed = errors.New("could not generate a formula within the retry budget")

// DNF draws nbClauses clauses whose widths lie in [minWidth, maxWidth]
// over literals 0..2·nbVars-1, where literal v+nbVars negates v. Every
// variable appears at least once and at most once per clause.
func DNF(rng *rand.Rand, nbVars, nbClauses, minWidth, maxWidth int) ([][]int, error) {
	if nbVars <= 0 || nbClauses <= 0 || minWidth <= 0 || maxWidth < minWidth {
		return nil, fmt.Errorf("invalid DNF shape: %d variables, %d clauses, widths [%d, %d]", nbVars, nbClauses, minWidth, maxWidth)
	}
	if maxWidth > nbVars {
		maxWidth = nbVars
		minWidth = min(minWidth, maxWidth)
	}
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		widths := make([]int, nbClauses)
		slots := 0
		for i := range widths {
			widths[i] = minWidth + rng.IntN(maxWidth-minWidth+1)
			slots += widths[i]
		}
		if slots < nbVars {
			continue
		}
		return fill(rng, nbVars, widths, slots), nil
	}
	return nil, fmt.Errorf("%w: %d variables over %d clauses of width [%d, %d]", ErrGenerationFailed, nbVars, nbClauses, minWidth, maxWidth)
}

// fill places every variable once in a random slot, then completes each
// clause with variables it does not hold yet.
func fill(rng *rand.Rand, nbVars int, widths []int, slots int) [][]int {
	owners := make([]int, 0, slots)
	for c, w := range widths {
		for k := 0; k < w; k++ {
			owners = append(owners, c)
		}
	}
	rng.Shuffle(len(owners), func(i, j int) { owners[i], owners[j] = owners[j], owners[i] })

	vars := make([][]int, len(widths))
	for v, c := range rng.Perm(nbVars) {
		vars[owners[c]] = append(vars[owners[c]], v)
	}

	clauses := make([][]int, len(widths))
	for c, w := range widths {
		used := map[int]bool{}
		for _, v := range vars[c] {
			used[v] = true
		}
		for len(vars[c]) < w {
			if v := rng.IntN(nbVars); !used[v] {
				used[v] = true
				vars[c] = append(vars[c], v)
			}
		}
		for _, v := range vars[c] {
			if rng.IntN(2) == 1 {
				v += nbVars
			}
			clauses[c] = append(clauses[c], v)
		}
	}
	return clauses
}
