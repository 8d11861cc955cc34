// Package match dispatches on a validated record: an ordered list of
// (field, expected-value) arms is evaluated in declaration order and the
// first arm whose field value equals the expectation wins. This is a pure
// dispatch mechanism over an already-validated record; it performs no
// validation of its own.
package match

import (
	"encoding/json"
	"errors"

	"github.com/promptshape/promptshape/validate"
)

// ErrNoMatch is returned when no arm matches and no default handler is
// supplied.
var ErrNoMatch = errors.New("no arm matched")

// Bindings holds the record fields an arm exposes to its handler.
type Bindings map[string]any

// Handler consumes an arm's bindings.
type Handler func(b Bindings) (any, error)

// Arm is one dispatch case: match when the record's Field equals Equals,
// bind the named fields (all other fields when Bind is empty), and invoke
// Handler. A nil Handler returns the bindings themselves.
type Arm struct {
	Field   string
	Equals  any
	Bind    []string
	Handler Handler
}

// Matcher evaluates arms in declaration order with an optional default.
type Matcher struct {
	arms     []Arm
	fallback Handler
}

// New builds a matcher over the given arms.
func New(arms ...Arm) *Matcher {
	return &Matcher{arms: arms}
}

// WithDefault installs the default handler invoked when no arm matches. The
// default receives every record field as bindings.
func (m *Matcher) WithDefault(h Handler) *Matcher {
	m.fallback = h
	return m
}

// Match selects the first matching arm and invokes its handler with the
// arm's bindings. It fails with ErrNoMatch when nothing matches and no
// default is installed.
func (m *Matcher) Match(rec *validate.Record) (any, error) {
	for _, arm := range m.arms {
		v, ok := rec.Get(arm.Field)
		if !ok || !equal(v, arm.Equals) {
			continue
		}
		b := bindings(rec, arm)
		if arm.Handler == nil {
			return b, nil
		}
		return arm.Handler(b)
	}
	if m.fallback != nil {
		return m.fallback(allBindings(rec))
	}
	return nil, ErrNoMatch
}

func bindings(rec *validate.Record, arm Arm) Bindings {
	if len(arm.Bind) == 0 {
		b := allBindings(rec)
		delete(b, arm.Field)
		return b
	}
	b := make(Bindings, len(arm.Bind))
	for _, name := range arm.Bind {
		if v, ok := rec.Get(name); ok {
			b[name] = v
		}
	}
	return b
}

func allBindings(rec *validate.Record) Bindings {
	b := make(Bindings, rec.Len())
	for k, v := range rec.Values() {
		b[k] = v
	}
	return b
}

// equal compares a record value to an arm's expectation. Numeric values
// compare by magnitude so an int64-coerced field matches an untyped int
// expectation; everything else falls back to JSON equality.
func equal(a, b any) bool {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
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

func toFloat(value any) (float64, bool) {
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
