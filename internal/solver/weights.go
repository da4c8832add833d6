package solver

import (
	"context"
	"errors"

	"gonum.org/v1/gonum/floats"

	"github.com/operator-framework/wmidnf/internal/integrate"
	"github.com/operator-framework/wmidnf/pkg/wmi"
)

// booleanWeight is the product of p over positive literals and 1-p over
// negated ones. Variables absent from the clause are marginalized out.
func booleanWeight(ids []int, boolWeights []float64, nbVariables int) float64 {
	w := 1.0
	for _, id := range ids {
		if id >= nbVariables {
			w *= 1 - boolWeights[id-nbVariables]
		} else {
			w *= boolWeights[id]
		}
	}
	return w
}

// computeClauseWeights fills s.weights with Boolean weight × real
// integral per clause. Oracle failures zero the clause instead of
// aborting.
func (s *solver) computeClauseWeights(ctx context.Context) error {
	in := &integrate.Integrator{Domain: s.domain, NbBools: s.nbBools, Oracle: s.oracle}
	s.weights = make([]float64, len(s.formula))
	for i, clause := range s.formula {
		if !s.litMap.Consistent(i) {
			s.logger.V(1).Info("clause has contradictory boolean literals", "clause", i)
			continue
		}
		bw := booleanWeight(clause.BoolIDs(), s.weight.BoolWeights(), s.nbVariables)
		if bw == 0 {
			continue
		}
		rw, err := in.ClauseIntegral(ctx, clause.Atoms(), s.weight)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			var failure *wmi.OracleFailure
			if !errors.Is(err, wmi.ErrOracleUnavailable) && !errors.As(err, &failure) {
				return err
			}
			s.logger.Info("integration failed, assuming empty volume", "clause", i, "error", err.Error())
			rw = 0
		}
		s.weights[i] = bw * rw
		s.logger.V(1).Info("clause weight", "clause", i, "boolean", bw, "real", rw)
	}

	s.normalization = floats.Sum(s.weights)
	s.cumulative = floats.CumSum(make([]float64, len(s.weights)), s.weights)
	return nil
}
