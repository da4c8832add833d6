package generator

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/operator-framework/wmidnf/pkg/wmi"
)

// MaxRealTermsPerClause caps the number of real terms of a generated
// clause.
const MaxRealTermsPerClause = 10

// Config describes a random hybrid benchmark.
type Config struct {
	NbReals       int
	NbBools       int
	NbClauses     int
	MinWidth      int
	MaxWidth      int
	AvgAtomLength int
	Domain        *wmi.Domain
}

// LRA draws a hybrid DNF: a random DNF over nbBools+nbReals variables in
// which every literal on a real variable becomes a linear atom. The atoms
// of each clause hold at a witness point drawn uniformly in the domain.
func LRA(rng *rand.Rand, cfg Config) (*wmi.Instance, error) {
	if cfg.Domain == nil || cfg.Domain.Dimension() != cfg.NbReals {
		return nil, fmt.Errorf("domain must cover the %d real variables", cfg.NbReals)
	}
	nbVars := cfg.NbBools + cfg.NbReals
	dnf, err := DNF(rng, nbVars, cfg.NbClauses, cfg.MinWidth, cfg.MaxWidth)
	if err != nil {
		return nil, err
	}
	formula := make(wmi.Formula, len(dnf))
	for i, lits := range dnf {
		formula[i] = clause(rng, lits, cfg, witness(rng, cfg))
	}
	return &wmi.Instance{
		Formula:       formula,
		NbReals:       cfg.NbReals,
		NbBools:       cfg.NbBools,
		NbClauses:     cfg.NbClauses,
		ClauseWidth:   cfg.MaxWidth,
		AvgAtomLength: cfg.AvgAtomLength,
	}, nil
}

func witness(rng *rand.Rand, cfg Config) []float64 {
	x := make([]float64, cfg.NbReals)
	for i := range x {
		x[i] = cfg.Domain.Lower() + rng.Float64()*cfg.Domain.Width()
	}
	return x
}

// clause turns DNF literals into a hybrid clause whose atoms all hold at
// witness.
func clause(rng *rand.Rand, lits []int, cfg Config, witness []float64) wmi.Clause {
	nbVars := cfg.NbBools + cfg.NbReals

	var out wmi.Clause
	var atoms [][]wmi.Term
	for _, lit := range lits {
		v := lit
		if v >= nbVars {
			v -= nbVars
		}
		if v < cfg.NbBools {
			out = append(out, wmi.Bool(lit))
			continue
		}
		atoms = append(atoms, atomTerms(rng, v-cfg.NbBools, cfg))
	}

	total := 0
	for _, terms := range atoms {
		total += len(terms)
	}
	for i := 0; total > MaxRealTermsPerClause && i < len(atoms); i++ {
		drop := min(total-MaxRealTermsPerClause, len(atoms[i]))
		atoms[i] = atoms[i][drop:]
		total -= drop
	}

	for _, terms := range atoms {
		if len(terms) == 0 {
			continue
		}
		out = append(out, orient(rng, terms, witness, cfg.NbBools))
	}
	return out
}

// atomTerms draws integer coefficients for an atom led by real variable
// main, over roughly AvgAtomLength variables.
func atomTerms(rng *rand.Rand, main int, cfg Config) []wmi.Term {
	length := min(cfg.NbReals, geometric(rng, 1/float64(max(cfg.AvgAtomLength, 1))))
	weights := make([]float64, cfg.NbReals)
	for _, j := range rng.Perm(cfg.NbReals)[:length] {
		weights[j] = 1 + rng.NormFloat64()
	}
	if weights[main] == 0 {
		for j := range weights {
			if weights[j] != 0 {
				weights[j] = 0
				break
			}
		}
	}
	weights[main] = 1

	var terms []wmi.Term
	for j, w := range weights {
		if c := math.Ceil(100 * w); c != 0 {
			terms = append(terms, wmi.Term{Variable: j + cfg.NbBools, Coefficient: c})
		}
	}
	return terms
}

// orient draws the constant of Σ terms <= b and flips the atom when the
// witness would violate it.
func orient(rng *rand.Rand, terms []wmi.Term, witness []float64, nbBools int) wmi.Literal {
	var sum, lhs float64
	for _, t := range terms {
		sum += t.Coefficient / 100
		lhs += t.Coefficient * witness[t.Variable-nbBools]
	}
	b := math.Ceil(100 * rng.NormFloat64() * math.Abs(2*sum))
	if lhs > b {
		flipped := make([]wmi.Term, len(terms))
		for i, t := range terms {
			flipped[i] = wmi.Term{Variable: t.Variable, Coefficient: -t.Coefficient}
		}
		return wmi.Atom(wmi.OpLessEq, -b, flipped...)
	}
	return wmi.Atom(wmi.OpLessEq, b, terms...)
}

// geometric draws the number of Bernoulli(p) trials up to the first
// success.
func geometric(rng *rand.Rand, p float64) int {
	if p >= 1 {
		return 1
	}
	u := 1 - rng.Float64()
	return max(1, int(math.Ceil(math.Log(u)/math.Log1p(-p))))
}
