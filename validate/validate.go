package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/promptshape/promptshape/internal/metrics"
	"github.com/promptshape/promptshape/schema"
)

// Validator checks raw, untyped structured data against a schema, fills
// defaults, coerces compatible values, and recurses into nested schemas and
// containers. A Validator is stateless apart from its configuration and safe
// for concurrent use.
type Validator struct {
	opts     *Options
	registry *schema.Registry
	logger   *zap.Logger
	metrics  *metrics.Collector
}

// New creates a validator with the given options.
func New(opts ...Option) *Validator {
	v := &Validator{
		opts:   DefaultOptions(),
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Validate checks raw data against the schema. On success it returns a
// Record holding exactly the schema's declared fields. On failure it returns
// the full list of field errors, sorted by path; errors accumulate across all
// fields in one pass and never short-circuit.
//
// A malformed schema (an unresolvable named record reference) fails fast with
// a plain error before any field is examined.
func (v *Validator) Validate(s *schema.Schema, raw map[string]any) (*Record, error) {
	start := time.Now()
	if err := v.preflight(s, map[string]bool{}); err != nil {
		return nil, err
	}

	values, errs := v.validateFields(s, raw, nil)
	sortByPath(errs)

	ok := len(errs) == 0
	if v.metrics != nil {
		v.metrics.ObserveValidation(s.Name(), ok, time.Since(start))
		for i := range errs {
			v.metrics.CountError(s.Name(), string(errs[i].Kind))
		}
	}
	if !ok {
		v.logger.Debug("validation failed",
			zap.String("schema", s.Name()), zap.Int("errors", len(errs)))
		return nil, errs
	}
	return &Record{schema: s, values: values, validator: v}, nil
}

// preflight verifies every named record reference in the schema tree is
// resolvable before validation starts.
func (v *Validator) preflight(s *schema.Schema, visited map[string]bool) error {
	if visited[s.Name()] {
		return nil
	}
	visited[s.Name()] = true
	for _, f := range s.Fields() {
		if err := v.preflightType(f.Type, visited); err != nil {
			return fmt.Errorf("schema %q field %q: %w", s.Name(), f.Name, err)
		}
	}
	return nil
}

func (v *Validator) preflightType(t schema.Type, visited map[string]bool) error {
	switch t.Kind {
	case schema.KindOptional, schema.KindList:
		return v.preflightType(*t.Elem, visited)
	case schema.KindRecord:
		nested, err := v.recordSchema(t)
		if err != nil {
			return err
		}
		return v.preflight(nested, visited)
	}
	return nil
}

// recordSchema resolves a record type to its schema, going through the
// registry for named references.
func (v *Validator) recordSchema(t schema.Type) (*schema.Schema, error) {
	if t.Schema != nil {
		return t.Schema, nil
	}
	if t.Ref == "" {
		return nil, fmt.Errorf("record type carries neither a schema nor a reference")
	}
	if v.registry == nil {
		return nil, fmt.Errorf("record reference %q needs a registry (use WithRegistry): %w", t.Ref, schema.ErrUnknownType)
	}
	nested, ok := v.registry.Schema(t.Ref)
	if !ok {
		return nil, fmt.Errorf("record reference %q: %w", t.Ref, schema.ErrUnknownType)
	}
	return nested, nil
}

// validateFields runs the per-field algorithm for one schema level. base is
// the path prefix; nested record errors are re-parented through it.
func (v *Validator) validateFields(s *schema.Schema, raw map[string]any, base Path) (map[string]any, Errors) {
	var errs Errors
	values := make(map[string]any, s.Len())

	for _, f := range s.Fields() {
		path := base.child(f.Name)
		rawVal, present := raw[f.Name]
		if !present {
			if f.Required {
				errs = append(errs, Error{Path: path, Kind: KindMissingField, Message: "required field is missing"})
			} else {
				values[f.Name] = f.Default
			}
			continue
		}
		coerced, fieldErrs := v.coerce(rawVal, f.Type, path)
		if len(fieldErrs) > 0 {
			errs = append(errs, fieldErrs...)
			continue
		}
		values[f.Name] = coerced
	}

	if v.opts.RejectUnknownFields {
		var unknown []string
		for k := range raw {
			if !s.Has(k) {
				unknown = append(unknown, k)
			}
		}
		sort.Strings(unknown)
		for _, k := range unknown {
			errs = append(errs, Error{Path: base.child(k), Kind: KindUnknownField, Message: "field is not declared by the schema"})
		}
	}
	return values, errs
}

// coerce checks one raw value against a semantic type, recursing into
// wrappers and containers. Coerced values use canonical shapes: int64,
// float64, string, bool, []any, map[string]any, and nil for absent optionals.
func (v *Validator) coerce(value any, t schema.Type, path Path) (any, Errors) {
	switch t.Kind {
	case schema.KindOptional:
		if value == nil {
			return nil, nil
		}
		return v.coerce(value, *t.Elem, path)

	case schema.KindBool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
		return nil, Errors{mismatch(path, "bool", value)}

	case schema.KindInt:
		if n, ok := v.toInt(value); ok {
			return n, nil
		}
		return nil, Errors{mismatch(path, "int", value)}

	case schema.KindFloat:
		if f, ok := v.toFloat(value); ok {
			return f, nil
		}
		return nil, Errors{mismatch(path, "float", value)}

	case schema.KindString:
		if s, ok := value.(string); ok {
			return s, nil
		}
		return nil, Errors{mismatch(path, "string", value)}

	case schema.KindLiteral:
		for _, allowed := range t.Values {
			if equalValues(value, allowed) {
				return allowed, nil
			}
		}
		return nil, Errors{{
			Path:    path,
			Kind:    KindInvalidLiteral,
			Message: fmt.Sprintf("value %v is not one of the allowed values %s", value, t.Label()),
		}}

	case schema.KindList:
		arr, ok := value.([]any)
		if !ok {
			return nil, Errors{mismatch(path, "list", value)}
		}
		out := make([]any, 0, len(arr))
		var errs Errors
		for i, el := range arr {
			coerced, elErrs := v.coerce(el, *t.Elem, path.index(i))
			if len(elErrs) > 0 {
				errs = append(errs, elErrs...)
				continue
			}
			out = append(out, coerced)
		}
		// Any failing element fails the field as a whole.
		if len(errs) > 0 {
			return nil, errs
		}
		return out, nil

	case schema.KindRecord:
		nested, err := v.recordSchema(t)
		if err != nil {
			return nil, Errors{{Path: path, Kind: KindTypeMismatch, Message: err.Error()}}
		}
		m, ok := value.(map[string]any)
		if !ok {
			return nil, Errors{mismatch(path, "object", value)}
		}
		values, nestedErrs := v.validateFields(nested, m, path)
		if len(nestedErrs) > 0 {
			return nil, nestedErrs
		}
		return values, nil
	}

	return nil, Errors{{Path: path, Kind: KindTypeMismatch, Message: fmt.Sprintf("unsupported type kind %q", t.Kind)}}
}

func mismatch(path Path, want string, got any) Error {
	return Error{
		Path:    path,
		Kind:    KindTypeMismatch,
		Message: fmt.Sprintf("expected %s, got %T", want, got),
	}
}

// toInt converts a raw value to int64 under the configured strictness.
func (v *Validator) toInt(value any) (int64, bool) {
	lenient := v.opts.Strictness == Lenient
	switch n := value.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if lenient {
			if f, err := n.Float64(); err == nil && f == math.Trunc(f) {
				return int64(f), true
			}
		}
		return 0, false
	case float64:
		if lenient && f64IsWhole(n) {
			return int64(n), true
		}
		return 0, false
	case float32:
		if lenient && f64IsWhole(float64(n)) {
			return int64(n), true
		}
		return 0, false
	case string:
		if lenient {
			if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
				return i, true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// toFloat converts a raw value to float64 under the configured strictness.
func (v *Validator) toFloat(value any) (float64, bool) {
	lenient := v.opts.Strictness == Lenient
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), lenient
	case int32:
		return float64(n), lenient
	case int64:
		return float64(n), lenient
	case uint:
		return float64(n), lenient
	case uint32:
		return float64(n), lenient
	case uint64:
		return float64(n), lenient
	case string:
		if lenient {
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return f, true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

func f64IsWhole(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) &&
		f >= math.MinInt64 && f <= math.MaxInt64
}

// equalValues compares a raw value to a literal's allowed value. Numeric
// values compare by magnitude regardless of strictness; strings and bools
// compare directly.
func equalValues(a, b any) bool {
	if af, aok := looseFloat(a); aok {
		bf, bok := looseFloat(b)
		return bok && af == bf
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	}
	if a == nil && b == nil {
		return true
	}
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	return string(aj) == string(bj)
}

func looseFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
