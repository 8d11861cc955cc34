package schema

import "errors"

// Construction-time errors. These abort schema construction entirely; a
// Schema is never returned partially built.
var (
	// ErrUnknownType is returned when a type token has no registered mapping.
	ErrUnknownType = errors.New("unknown type token")

	// ErrDuplicateField is returned when two fields in the same schema
	// (including fields inherited from a base schema) share a name.
	ErrDuplicateField = errors.New("duplicate field name")

	// ErrAlreadyRegistered is returned when a registry token or schema name
	// is registered a second time. Registry entries are append-only.
	ErrAlreadyRegistered = errors.New("already registered")
)
