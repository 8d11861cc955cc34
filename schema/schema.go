package schema

// Schema is an ordered, named set of field descriptors plus narrative text.
//
// Field insertion order is preserved and significant: the prompt renderer
// emits fields in declaration order, and validation reports errors in a
// deterministic order derived from it. A Schema is immutable once built and
// safe for concurrent use.
type Schema struct {
	name      string
	narrative string
	fields    []Field
	index     map[string]int
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Narrative returns the narrative description, possibly empty.
func (s *Schema) Narrative() string { return s.narrative }

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Fields returns the fields in declaration order. The slice is a copy; the
// schema itself cannot be mutated through it.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field returns the named field descriptor.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Has reports whether the schema declares the named field.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}
