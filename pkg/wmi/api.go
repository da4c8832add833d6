package wmi

import (
	"errors"
	"fmt"
	"strings"
)

// Operator is the comparison of a linear real atom against its constant.
type Operator string

const (
	OpLessEq    Operator = "<="
	OpLess      Operator = "<"
	OpGreaterEq Operator = ">="
	OpGreater   Operator = ">"
	OpEqual     Operator = "="
	// OpNever marks an atom that is dropped from every geometric
	// and satisfaction computation.
	OpNever Operator = "!"
)

// ParseOperator returns the Operator spelled by s.
func ParseOperator(s string) (Operator, error) {
	switch op := Operator(strings.TrimSpace(s)); op {
	case OpLessEq, OpLess, OpGreaterEq, OpGreater, OpEqual, OpNever:
		return op, nil
	}
	return "", &ClauseFormatError{Clause: -1, Reason: fmt.Sprintf("unknown operator %q", s)}
}

// Holds reports whether lhs <op> rhs. Equality is tested with tolerance
// tol and strict inequalities are treated as non-strict. OpNever always
// holds.
func (op Operator) Holds(lhs, rhs, tol float64) bool {
	switch op {
	case OpLessEq, OpLess:
		return lhs <= rhs
	case OpGreaterEq, OpGreater:
		return lhs >= rhs
	case OpEqual:
		return lhs-rhs <= tol && rhs-lhs <= tol
	}
	return true
}

// LiteralKind tags the two shapes a Literal can take.
type LiteralKind int

const (
	// BoolLiteral is a (possibly negated) Boolean variable.
	BoolLiteral LiteralKind = iota
	// RealAtom is a linear constraint over the continuous variables.
	RealAtom
)

func (k LiteralKind) String() string {
	switch k {
	case BoolLiteral:
		return "bool"
	case RealAtom:
		return "real"
	}
	return fmt.Sprintf("LiteralKind(%d)", int(k))
}

// Term is one coefficient·variable product of a RealAtom. Variable
// indices are offset by the number of Boolean variables.
type Term struct {
	Variable    int
	Coefficient float64
}

// Literal is a tagged union of a Boolean literal and a linear real atom.
type Literal struct {
	kind     LiteralKind
	id       int
	terms    []Term
	op       Operator
	constant float64
}

// Bool returns a Boolean literal. Ids below nbBools+nbReals denote the
// positive literal of variable id; ids in [nbBools+nbReals,
// 2·nbBools+nbReals) denote the negation of variable id-nbBools-nbReals.
func Bool(id int) Literal {
	return Literal{kind: BoolLiteral, id: id}
}

// Atom returns the real atom Σ terms <op> constant.
func Atom(op Operator, constant float64, terms ...Term) Literal {
	return Literal{kind: RealAtom, op: op, constant: constant, terms: terms}
}

// Never returns an atom tagged with OpNever.
func Never(terms ...Term) Literal {
	return Atom(OpNever, 0, terms...)
}

func (l Literal) Kind() LiteralKind { return l.kind }

// ID is only meaningful for BoolLiteral.
func (l Literal) ID() int { return l.id }

func (l Literal) Terms() []Term { return l.terms }

func (l Literal) Operator() Operator { return l.op }

func (l Literal) Constant() float64 { return l.constant }

// Sum evaluates Σ coefficient·x over reals, where reals[i] holds the
// continuous variable numbered nbBools+i.
func (l Literal) Sum(reals []float64, nbBools int) float64 {
	var s float64
	for _, t := range l.terms {
		s += t.Coefficient * reals[t.Variable-nbBools]
	}
	return s
}

func (l Literal) String() string {
	if l.kind == BoolLiteral {
		return fmt.Sprintf("b%d", l.id)
	}
	parts := make([]string, len(l.terms))
	for i, t := range l.terms {
		parts[i] = fmt.Sprintf("%g*x%d", t.Coefficient, t.Variable)
	}
	return fmt.Sprintf("(%s %s %g)", strings.Join(parts, " + "), l.op, l.constant)
}

// Clause is a conjunction of literals.
type Clause []Literal

// Atoms returns the real atoms of c, including OpNever atoms.
func (c Clause) Atoms() []Literal {
	var atoms []Literal
	for _, l := range c {
		if l.kind == RealAtom {
			atoms = append(atoms, l)
		}
	}
	return atoms
}

// BoolIDs returns the ids of the Boolean literals of c.
func (c Clause) BoolIDs() []int {
	var ids []int
	for _, l := range c {
		if l.kind == BoolLiteral {
			ids = append(ids, l.id)
		}
	}
	return ids
}

// Formula is a disjunction of clauses.
type Formula []Clause

// Validate checks every literal against the variable counts of the
// problem.
func (f Formula) Validate(nbBools, nbReals int) error {
	nbVariables := nbBools + nbReals
	for i, clause := range f {
		for _, l := range clause {
			switch l.kind {
			case BoolLiteral:
				if l.id < 0 || (l.id >= nbBools && l.id < nbVariables) || l.id >= nbVariables+nbBools {
					return &ClauseFormatError{Clause: i, Reason: fmt.Sprintf("boolean literal %d out of range", l.id)}
				}
			case RealAtom:
				if _, err := ParseOperator(string(l.op)); err != nil {
					return &ClauseFormatError{Clause: i, Reason: fmt.Sprintf("unknown operator %q", l.op)}
				}
				for _, t := range l.terms {
					if t.Variable < nbBools || t.Variable >= nbVariables {
						return &ClauseFormatError{Clause: i, Reason: fmt.Sprintf("real variable %d out of range [%d, %d)", t.Variable, nbBools, nbVariables)}
					}
				}
			default:
				return &ClauseFormatError{Clause: i, Reason: fmt.Sprintf("unknown literal kind %s", l.kind)}
			}
		}
	}
	return nil
}

// ClauseFormatError reports malformed literal input. Clause is -1 when
// the error is not attached to a clause.
type ClauseFormatError struct {
	Clause int
	Reason string
}

func (e *ClauseFormatError) Error() string {
	if e.Clause < 0 {
		return fmt.Sprintf("malformed clause: %s", e.Reason)
	}
	return fmt.Sprintf("malformed clause %d: %s", e.Clause, e.Reason)
}

// InfeasiblePolytope is returned when a clause polytope has no interior
// point the LP solver can find.
type InfeasiblePolytope struct {
	Clause int
	Err    error
}

func (e *InfeasiblePolytope) Error() string {
	if e.Clause < 0 {
		return fmt.Sprintf("polytope has no feasible interior: %v", e.Err)
	}
	return fmt.Sprintf("clause %d: polytope has no feasible interior: %v", e.Clause, e.Err)
}

func (e *InfeasiblePolytope) Unwrap() error {
	return e.Err
}

// InvalidSamplerState is returned when a chain point violates the
// polytope it is supposed to lie in.
type InvalidSamplerState struct {
	Point     []float64
	Row       int
	Violation float64
}

func (e *InvalidSamplerState) Error() string {
	return fmt.Sprintf("invalid sampler state %v: row %d violated by %g", e.Point, e.Row, e.Violation)
}

// OracleFailure wraps an integration oracle run that did not produce a
// value.
type OracleFailure struct {
	Err    error
	Output string
}

func (e *OracleFailure) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("integration oracle failed: %v", e.Err)
	}
	return fmt.Sprintf("integration oracle failed: %v\n%s", e.Err, e.Output)
}

func (e *OracleFailure) Unwrap() error {
	return e.Err
}

var (
	ErrOracleUnavailable  = errors.New("integration oracle unavailable")
	ErrNoSuccessfulTrials = errors.New("no trial hit a clause, estimate is unbounded")
)
