package validate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrorKind classifies a field validation error.
type ErrorKind string

const (
	KindMissingField   ErrorKind = "missing_field"
	KindTypeMismatch   ErrorKind = "type_mismatch"
	KindInvalidLiteral ErrorKind = "invalid_literal"
	KindUnknownField   ErrorKind = "unknown_field"
)

// Path addresses a field in the raw data: a sequence of field names and list
// indices (indices stored in decimal form).
type Path []string

// child returns a new path extended by one field-name segment. The receiver
// is never aliased; errors keep independent paths.
func (p Path) child(seg string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// index returns a new path extended by one list-index segment.
func (p Path) index(i int) Path {
	return p.child(strconv.Itoa(i))
}

// String renders the path in dotted form with bracketed list indices, e.g.
// "owner.tags[1]".
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if _, err := strconv.Atoi(seg); err == nil && i > 0 {
			b.WriteString("[")
			b.WriteString(seg)
			b.WriteString("]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(seg)
	}
	return b.String()
}

// Error is one field-path-scoped validation failure.
type Error struct {
	Path    Path      `json:"path"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Errors is the accumulated result of a failed validation call. Every
// field's problems are reported in one pass so a caller (or a re-prompted
// generative collaborator) can correct all of them at once.
type Errors []Error

// Error implements the error interface.
func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i := range e {
		msgs[i] = e[i].Error()
	}
	return fmt.Sprintf("validation failed with %d errors: %s", len(e), strings.Join(msgs, "; "))
}

// sortByPath orders errors by rendered path for deterministic reporting.
func sortByPath(errs Errors) {
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Path.String() < errs[j].Path.String()
	})
}

// AsErrors unwraps an error returned by Validate into its error list.
func AsErrors(err error) (Errors, bool) {
	errs, ok := err.(Errors)
	return errs, ok
}
