package schema

import "fmt"

// Row is the externally supplied shape of one dynamically declared field,
// e.g. sourced from a configuration catalog at run time. TypeToken is
// resolved through a Registry.
type Row struct {
	Name        string
	TypeToken   string
	Description string
	Required    bool
	Default     any
}

// Define builds a schema from a static field declaration. It fails with
// ErrDuplicateField if two fields share a name.
func Define(name, narrative string, fields ...Field) (*Schema, error) {
	s := &Schema{
		name:      name,
		narrative: narrative,
		fields:    make([]Field, 0, len(fields)),
		index:     make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if err := s.appendField(f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Extend builds a derived schema: the base schema's fields in their original
// order, followed by the new fields. A name collision between base and new
// fields is a construction-time error; there is no silent override.
func Extend(base *Schema, name, narrative string, fields ...Field) (*Schema, error) {
	all := make([]Field, 0, base.Len()+len(fields))
	all = append(all, base.fields...)
	all = append(all, fields...)
	return Define(name, narrative, all...)
}

// DefineDynamic builds a schema from externally supplied rows, resolving each
// row's type token through the registry. When base is non-nil its fields are
// prepended in their original order (extension semantics). It fails with
// ErrUnknownType when a token does not resolve and with ErrDuplicateField
// when a row collides with the base schema or an earlier row.
func DefineDynamic(reg *Registry, name, narrative string, base *Schema, rows []Row) (*Schema, error) {
	fields := make([]Field, 0, len(rows))
	if base != nil {
		fields = append(fields, base.fields...)
	}
	for _, r := range rows {
		t, err := reg.Resolve(r.TypeToken)
		if err != nil {
			return nil, fmt.Errorf("schema %q field %q: %w", name, r.Name, err)
		}
		fields = append(fields, Field{
			Name:        r.Name,
			Type:        t,
			Description: r.Description,
			Required:    r.Required,
			Default:     r.Default,
		})
	}
	return Define(name, narrative, fields...)
}

func (s *Schema) appendField(f Field) error {
	if err := f.check(); err != nil {
		return fmt.Errorf("schema %q: %w", s.name, err)
	}
	if _, exists := s.index[f.Name]; exists {
		return fmt.Errorf("schema %q field %q: %w", s.name, f.Name, ErrDuplicateField)
	}
	s.index[f.Name] = len(s.fields)
	s.fields = append(s.fields, f)
	return nil
}
