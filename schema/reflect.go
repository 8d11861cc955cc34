package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// FromStruct derives a schema from a Go struct value using reflection. It is
// a convenience for statically known shapes; dynamically sourced schemas go
// through DefineDynamic instead.
//
// Field names come from the `json` tag (falling back to the Go name), and the
// `shape` tag carries comma-separated options:
//
//   - optional            marks the field non-required
//   - default=<v>         default for a non-required field
//   - values=a|b|c        restricts the field to a literal set
//   - description=<text>  field description (must not contain commas)
//
// Pointers map to optional<T>, slices to list<T>, and nested structs to
// nested record schemas named after their Go type.
func FromStruct(name, narrative string, v any) (*Schema, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("schema %q: cannot derive from nil", name)
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema %q: expected struct, got %s", name, t.Kind())
	}
	fields, err := structFields(t)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", name, err)
	}
	return Define(name, narrative, fields...)
}

func structFields(t reflect.Type) ([]Field, error) {
	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := jsonFieldName(sf)
		if name == "-" {
			continue
		}

		ft, optional, err := fieldType(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}

		f := Field{Name: name, Type: ft, Required: !optional}
		if err := applyShapeTag(&f, sf.Tag.Get("shape")); err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func jsonFieldName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" {
		return sf.Name
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		return sf.Name
	}
	return name
}

// fieldType maps a Go type to a semantic type. The returned bool reports
// whether the shape itself implies optionality (a pointer type).
func fieldType(t reflect.Type) (Type, bool, error) {
	switch t.Kind() {
	case reflect.Pointer:
		elem, _, err := fieldType(t.Elem())
		if err != nil {
			return Type{}, false, err
		}
		return Optional(elem), true, nil
	case reflect.String:
		return String(), false, nil
	case reflect.Bool:
		return Bool(), false, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int(), false, nil
	case reflect.Float32, reflect.Float64:
		return Float(), false, nil
	case reflect.Slice, reflect.Array:
		elem, _, err := fieldType(t.Elem())
		if err != nil {
			return Type{}, false, err
		}
		return List(elem), false, nil
	case reflect.Struct:
		fields, err := structFields(t)
		if err != nil {
			return Type{}, false, err
		}
		nested, err := Define(t.Name(), "", fields...)
		if err != nil {
			return Type{}, false, err
		}
		return Record(nested), false, nil
	default:
		return Type{}, false, fmt.Errorf("unsupported type %s", t.Kind())
	}
}

func applyShapeTag(f *Field, tag string) error {
	if tag == "" {
		return nil
	}
	for _, opt := range strings.Split(tag, ",") {
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "":
		case opt == "optional":
			f.Required = false
		case strings.HasPrefix(opt, "description="):
			f.Description = strings.TrimPrefix(opt, "description=")
		case strings.HasPrefix(opt, "default="):
			v, err := scalarForType(f.Type, strings.TrimPrefix(opt, "default="))
			if err != nil {
				return err
			}
			f.Required = false
			f.Default = v
		case strings.HasPrefix(opt, "values="):
			raw := strings.Split(strings.TrimPrefix(opt, "values="), "|")
			values := make([]any, 0, len(raw))
			for _, rv := range raw {
				v, err := scalarForType(f.Type, rv)
				if err != nil {
					return err
				}
				values = append(values, v)
			}
			f.Type = Literal(values...)
		default:
			return fmt.Errorf("unknown shape tag option %q", opt)
		}
	}
	return nil
}

// scalarForType parses a tag-supplied scalar according to the field's
// (possibly optional-wrapped) primitive kind.
func scalarForType(t Type, raw string) (any, error) {
	for t.Kind == KindOptional {
		t = *t.Elem
	}
	switch t.Kind {
	case KindInt:
		return strconv.ParseInt(raw, 10, 64)
	case KindFloat:
		return strconv.ParseFloat(raw, 64)
	case KindBool:
		return strconv.ParseBool(raw)
	default:
		return raw, nil
	}
}
