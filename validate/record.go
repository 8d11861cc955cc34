package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/promptshape/promptshape/schema"
)

// Record is the immutable result of a successful validation: a reference to
// the schema it was validated against plus a value for every declared field.
// Records are created only by the Validator and never mutated in place; any
// evolve operation constructs a new Record.
//
// Values use canonical shapes: int64, float64, string, bool, []any for
// lists, map[string]any for nested records, and nil for absent optionals.
type Record struct {
	schema    *schema.Schema
	values    map[string]any
	validator *Validator
}

// Schema returns the schema the record was validated against.
func (r *Record) Schema() *schema.Schema { return r.schema }

// Len returns the number of fields held by the record.
func (r *Record) Len() int { return r.schema.Len() }

// Get returns the validated value of a field. An absent optional field
// yields (nil, true); an undeclared name yields (nil, false).
func (r *Record) Get(name string) (any, bool) {
	if !r.schema.Has(name) {
		return nil, false
	}
	return r.values[name], true
}

// Values returns a copy of the field values keyed by field name.
func (r *Record) Values() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// String returns a field's value as a string.
func (r *Record) String(name string) (string, bool) {
	v, ok := r.values[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int returns a field's value as an int64. Whole-valued floats convert.
func (r *Record) Int(name string) (int64, bool) {
	switch n := r.values[name].(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if n == math.Trunc(n) {
			return int64(n), true
		}
		return 0, false
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

// Float returns a field's value as a float64.
func (r *Record) Float(name string) (float64, bool) {
	return looseFloat(r.values[name])
}

// Bool returns a field's value as a bool.
func (r *Record) Bool(name string) (bool, bool) {
	b, ok := r.values[name].(bool)
	return b, ok
}

// List returns a field's value as a list.
func (r *Record) List(name string) ([]any, bool) {
	l, ok := r.values[name].([]any)
	return l, ok
}

// Map returns a nested record field's values.
func (r *Record) Map(name string) (map[string]any, bool) {
	m, ok := r.values[name].(map[string]any)
	return m, ok
}

// With returns a new Record with one field replaced by a freshly coerced
// value; the receiver is left untouched. The replacement is coerced by the
// validator that produced the record, so its registry and strictness carry
// over to evolution.
func (r *Record) With(name string, value any) (*Record, error) {
	f, ok := r.schema.Field(name)
	if !ok {
		return nil, fmt.Errorf("schema %q has no field %q", r.schema.Name(), name)
	}
	v := r.validator
	if v == nil {
		v = New()
	}
	coerced, errs := v.coerce(value, f.Type, Path{name})
	if len(errs) > 0 {
		return nil, errs
	}
	values := make(map[string]any, len(r.values))
	for k, val := range r.values {
		values[k] = val
	}
	values[name] = coerced
	return &Record{schema: r.schema, values: values, validator: r.validator}, nil
}

// MarshalJSON writes the record as a JSON object with fields in schema
// declaration order, so equal records always serialize identically.
func (r *Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range r.schema.Fields() {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		val, err := json.Marshal(r.values[f.Name])
		if err != nil {
			return nil, err
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
