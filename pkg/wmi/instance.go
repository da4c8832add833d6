package wmi

import (
	"errors"
	"fmt"
	"io"

	"github.com/operator-framework/wmidnf/internal/lib/util"
)

// Instance is a test description: a formula plus the parameters it was
// generated with.
type Instance struct {
	Formula       Formula `json:"formula"`
	NbReals       int     `json:"nbReals"`
	NbBools       int     `json:"nbBools"`
	NbClauses     int     `json:"nbClauses"`
	ClauseWidth   int     `json:"clauseWidth"`
	AvgAtomLength int     `json:"avgAtomLength"`
}

// ReadInstance decodes and validates an Instance.
func ReadInstance(r io.Reader) (*Instance, error) {
	var in Instance
	if err := util.DecodeStrict(r, &in); err != nil {
		var formatErr *ClauseFormatError
		if errors.As(err, &formatErr) {
			return nil, formatErr
		}
		return nil, fmt.Errorf("error decoding instance: %w", err)
	}
	if in.NbReals < 0 || in.NbBools < 0 {
		return nil, fmt.Errorf("invalid variable counts: %d reals, %d booleans", in.NbReals, in.NbBools)
	}
	if len(in.Formula) == 0 {
		return nil, fmt.Errorf("invalid instance: no clauses found")
	}
	if in.NbClauses != 0 && in.NbClauses != len(in.Formula) {
		return nil, fmt.Errorf("invalid instance: nbClauses is %d but the formula has %d clauses", in.NbClauses, len(in.Formula))
	}
	if err := in.Formula.Validate(in.NbBools, in.NbReals); err != nil {
		return nil, err
	}
	return &in, nil
}

// WriteInstance encodes in as a single line of compact JSON.
func WriteInstance(w io.Writer, in *Instance) error {
	data, err := util.JSONMarshal(in)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
