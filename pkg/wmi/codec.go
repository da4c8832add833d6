package wmi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes a Boolean literal as its id and a real atom as
// [[variable, coefficient], ..., [operator, constant]].
func (l Literal) MarshalJSON() ([]byte, error) {
	if l.kind == BoolLiteral {
		return json.Marshal(l.id)
	}
	parts := make([][2]interface{}, 0, len(l.terms)+1)
	for _, t := range l.terms {
		parts = append(parts, [2]interface{}{t.Variable, t.Coefficient})
	}
	parts = append(parts, [2]interface{}{string(l.op), l.constant})
	return json.Marshal(parts)
}

func (l *Literal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &ClauseFormatError{Clause: -1, Reason: "empty literal"}
	}
	if data[0] != '[' {
		var id int
		if err := json.Unmarshal(data, &id); err != nil {
			return &ClauseFormatError{Clause: -1, Reason: fmt.Sprintf("boolean literal %s: %v", data, err)}
		}
		*l = Bool(id)
		return nil
	}

	var parts [][]json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return &ClauseFormatError{Clause: -1, Reason: fmt.Sprintf("atom %s: %v", data, err)}
	}
	if len(parts) == 0 {
		return &ClauseFormatError{Clause: -1, Reason: "atom without operator"}
	}
	for _, p := range parts {
		if len(p) != 2 {
			return &ClauseFormatError{Clause: -1, Reason: fmt.Sprintf("atom %s: expected pairs", data)}
		}
	}

	last := parts[len(parts)-1]
	var opName string
	var constant float64
	if err := json.Unmarshal(last[0], &opName); err != nil {
		return &ClauseFormatError{Clause: -1, Reason: fmt.Sprintf("atom %s: operator is not a string", data)}
	}
	op, err := ParseOperator(opName)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(last[1], &constant); err != nil {
		return &ClauseFormatError{Clause: -1, Reason: fmt.Sprintf("atom %s: constant is not a number", data)}
	}

	terms := make([]Term, 0, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		var t Term
		if err := json.Unmarshal(p[0], &t.Variable); err != nil {
			return &ClauseFormatError{Clause: -1, Reason: fmt.Sprintf("atom %s: variable is not an integer", data)}
		}
		if err := json.Unmarshal(p[1], &t.Coefficient); err != nil {
			return &ClauseFormatError{Clause: -1, Reason: fmt.Sprintf("atom %s: coefficient is not a number", data)}
		}
		terms = append(terms, t)
	}
	*l = Atom(op, constant, terms...)
	return nil
}
