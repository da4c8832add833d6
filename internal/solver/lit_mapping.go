package solver

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/operator-framework/wmidnf/pkg/wmi"
)

const satisfiable = 1

// litMapping translates the Boolean literals of a formula into a logic
// circuit so that each clause's Boolean part can be checked for
// consistency by the SAT solver.
type litMapping struct {
	nbVariables int
	lits        map[int]z.Lit
	clauses     []z.Lit
	c           *logic.C
	g           inter.S
}

// newLitMapping returns a litMapping with one circuit literal per clause,
// the conjunction of its Boolean literals.
func newLitMapping(formula wmi.Formula, nbBools, nbReals int) *litMapping {
	d := litMapping{
		nbVariables: nbBools + nbReals,
		lits:        make(map[int]z.Lit),
		clauses:     make([]z.Lit, len(formula)),
		c:           logic.NewC(),
		g:           gini.New(),
	}
	for i, clause := range formula {
		ids := clause.BoolIDs()
		ms := make([]z.Lit, len(ids))
		for j, id := range ids {
			ms[j] = d.LitOf(id)
		}
		d.clauses[i] = d.c.Ands(ms...)
	}
	d.c.ToCnf(d.g)
	return &d
}

// LitOf returns the circuit literal of a Boolean literal id. Ids from
// nbVariables on map to the negation of variable id-nbVariables.
func (d *litMapping) LitOf(id int) z.Lit {
	variable, negated := id, false
	if id >= d.nbVariables {
		variable, negated = id-d.nbVariables, true
	}
	m, ok := d.lits[variable]
	if !ok {
		m = d.c.Lit()
		d.lits[variable] = m
	}
	if negated {
		return m.Not()
	}
	return m
}

// Consistent reports whether the Boolean literals of clause i can hold
// together.
func (d *litMapping) Consistent(i int) bool {
	d.g.Assume(d.clauses[i])
	return d.g.Solve() == satisfiable
}
