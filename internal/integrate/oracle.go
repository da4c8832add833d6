package integrate

import (
	"context"
)

// Problem is the integral of a sum of unit-coefficient monomials over
// the polytope {x : A·x <= B} in len(A[0]) variables.
type Problem struct {
	A         [][]float64
	B         []float64
	Monomials [][]int
}

// Vars is the number of variables of the problem.
func (p *Problem) Vars() int {
	if len(p.A) == 0 {
		return 0
	}
	return len(p.A[0])
}

// Oracle computes exact polytope integrals. Implementations may block
// on external processes.
type Oracle interface {
	Integrate(ctx context.Context, p *Problem) (float64, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, p *Problem) (float64, error)

func (f OracleFunc) Integrate(ctx context.Context, p *Problem) (float64, error) {
	return f(ctx, p)
}
