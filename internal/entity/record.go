package entity

import (
	"encoding/json"
	"errors"
	"io"
)

// ErrNotObject is returned when a payload is valid JSON but not an object.
var ErrNotObject = errors.New("expected a JSON object")

// Record is a single JSON object stored in a collection file.
// Fields are open-ended; whatever the client sends is persisted as is.
type Record map[string]any

// String returns the field as a string, or "" if it is missing or not a string.
func (r Record) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Key returns the field as a lookup key. Only strings are keys: a number or
// any other JSON value never matches a path segment.
func (r Record) Key(field string) (string, bool) {
	v, ok := r[field].(string)
	return v, ok
}

// Has reports whether the field is present, even if its value is null.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge returns a new record with every field of existing overridden by the
// same-named field of patch. Fields absent from patch are kept.
// Neither argument is modified.
func Merge(existing, patch Record) Record {
	out := make(Record, len(existing)+len(patch))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// DecodeRecord reads one JSON object from r, keeping numbers as json.Number
// so they are written back exactly as received. An empty body is an empty record.
func DecodeRecord(r io.Reader) (Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var rec Record
	if err := dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, nil
		}
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotObject
	}
	return rec, nil
}
