package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies one of the closed set of semantic type shapes.
type Kind string

const (
	KindBool     Kind = "bool"
	KindInt      Kind = "int"
	KindFloat    Kind = "float"
	KindString   Kind = "string"
	KindOptional Kind = "optional"
	KindList     Kind = "list"
	KindLiteral  Kind = "literal"
	KindRecord   Kind = "record"
)

// Type is a semantic type: a primitive, an optional or list wrapper around an
// element type, a literal set of allowed scalar values, or a nested record.
//
// Record types either embed the nested schema directly or carry a named
// reference that is resolved lazily through a Registry. Self-referential
// schemas must use a named reference; they can never be embedded by value.
type Type struct {
	Kind   Kind
	Elem   *Type   // element type for optional and list
	Values []any   // allowed values for literal
	Schema *Schema // resolved nested schema for record
	Ref    string  // named record reference, resolved lazily
}

// Bool returns the bool primitive type.
func Bool() Type { return Type{Kind: KindBool} }

// Int returns the int primitive type.
func Int() Type { return Type{Kind: KindInt} }

// Float returns the float primitive type.
func Float() Type { return Type{Kind: KindFloat} }

// String returns the string primitive type.
func String() Type { return Type{Kind: KindString} }

// Optional wraps an element type; raw null is accepted and yields the absent
// value (nil).
func Optional(elem Type) Type {
	return Type{Kind: KindOptional, Elem: &elem}
}

// List wraps an element type into a sequence type.
func List(elem Type) Type {
	return Type{Kind: KindList, Elem: &elem}
}

// Literal restricts a field to one of the given scalar values.
func Literal(values ...any) Type {
	return Type{Kind: KindLiteral, Values: values}
}

// Record embeds a nested schema by value.
func Record(s *Schema) Type {
	return Type{Kind: KindRecord, Schema: s}
}

// Ref names a registered record schema to be resolved lazily at render or
// validation time. This is the only way to declare self-referential shapes.
func Ref(name string) Type {
	return Type{Kind: KindRecord, Ref: name}
}

// Label renders the type as the short label used in prompt text, e.g.
// "string", "optional<string>", "list<int>", `literal<"web"|"image">`, or the
// nested schema's name.
func (t Type) Label() string {
	switch t.Kind {
	case KindBool, KindInt, KindFloat, KindString:
		return string(t.Kind)
	case KindOptional:
		return "optional<" + t.Elem.Label() + ">"
	case KindList:
		return "list<" + t.Elem.Label() + ">"
	case KindLiteral:
		parts := make([]string, len(t.Values))
		for i, v := range t.Values {
			parts[i] = literalToken(v)
		}
		return "literal<" + strings.Join(parts, "|") + ">"
	case KindRecord:
		if t.Ref != "" {
			return t.Ref
		}
		if t.Schema != nil {
			return t.Schema.Name()
		}
		return "record"
	default:
		return string(t.Kind)
	}
}

// literalToken renders a single allowed literal value for a type label.
// Strings are quoted so that "1" and 1 stay distinguishable.
func literalToken(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
