package util

import (
	"bytes"
	"encoding/json"
	"io"
)

// JSONMarshal encodes p as compact JSON without HTML escaping, followed
// by a newline.
func JSONMarshal(p interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	out := &bytes.Buffer{}
	if err := json.Compact(out, buf.Bytes()); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// DecodeStrict decodes a single JSON document from r, rejecting unknown
// fields.
func DecodeStrict(r io.Reader, out interface{}) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
