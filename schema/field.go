package schema

import "fmt"

// Field describes one named field of a schema: its semantic type, a
// human-readable description, whether a response must include it, and the
// default bound when an optional field is absent.
//
// A required field never consults its default. For a non-required field a nil
// default is meaningful: it is the absent value (the natural default for
// optional types).
type Field struct {
	Name        string
	Type        Type
	Description string
	Required    bool
	Default     any
}

// NewField builds a required field.
func NewField(name string, t Type, description string) Field {
	return Field{Name: name, Type: t, Description: description, Required: true}
}

// AsOptional returns a copy of the field marked non-required with the given
// default. Pass nil for "absent".
func (f Field) AsOptional(def any) Field {
	f.Required = false
	f.Default = def
	return f
}

func (f Field) check() error {
	if f.Name == "" {
		return fmt.Errorf("field name must not be empty")
	}
	return nil
}
