package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userFields() []Field {
	return []Field{
		NewField("name", String(), "Full name"),
		NewField("age", Int(), "Age in years"),
		NewField("email", Optional(String()), "Contact address").AsOptional(nil),
	}
}

func TestDefine(t *testing.T) {
	s, err := Define("user", "A user profile.", userFields()...)
	require.NoError(t, err)

	assert.Equal(t, "user", s.Name())
	assert.Equal(t, "A user profile.", s.Narrative())
	assert.Equal(t, []string{"name", "age", "email"}, s.FieldNames())

	f, ok := s.Field("email")
	require.True(t, ok)
	assert.False(t, f.Required)
	assert.Nil(t, f.Default)
	assert.Equal(t, KindOptional, f.Type.Kind)

	_, ok = s.Field("missing")
	assert.False(t, ok)
}

func TestDefine_DuplicateField(t *testing.T) {
	_, err := Define("user", "",
		NewField("name", String(), ""),
		NewField("name", Int(), ""),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateField)
	assert.Contains(t, err.Error(), `"name"`)
}

func TestDefine_EmptyFieldName(t *testing.T) {
	_, err := Define("user", "", NewField("", String(), ""))
	require.Error(t, err)
}

func TestDefine_FieldsAreCopied(t *testing.T) {
	s, err := Define("user", "", userFields()...)
	require.NoError(t, err)

	fields := s.Fields()
	fields[0].Name = "mutated"

	assert.Equal(t, []string{"name", "age", "email"}, s.FieldNames())
}

func TestExtend(t *testing.T) {
	base, err := Define("base", "", userFields()...)
	require.NoError(t, err)

	derived, err := Extend(base, "derived", "Extended profile.",
		NewField("role", Literal("admin", "member"), "Access role"),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "email", "role"}, derived.FieldNames())
	assert.Equal(t, []string{"name", "age", "email"}, base.FieldNames())
}

func TestExtend_CollisionWithBase(t *testing.T) {
	base, err := Define("base", "", NewField("name", String(), ""))
	require.NoError(t, err)

	_, err = Extend(base, "derived", "", NewField("name", Int(), ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateField)
}

func TestDefineDynamic(t *testing.T) {
	reg := NewRegistry(nil)

	rows := []Row{
		{Name: "query", TypeToken: "string", Description: "Search text", Required: true},
		{Name: "limit", TypeToken: "optional<int>", Description: "Max results", Default: int64(10)},
		{Name: "tags", TypeToken: "list<string>", Description: "Filter tags", Required: true},
		{Name: "mode", TypeToken: `literal<"web"|"image"|"video">`, Description: "Search mode", Required: true},
	}
	s, err := DefineDynamic(reg, "search", "A search request.", nil, rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"query", "limit", "tags", "mode"}, s.FieldNames())

	limit, _ := s.Field("limit")
	assert.False(t, limit.Required)
	assert.Equal(t, int64(10), limit.Default)
	assert.Equal(t, KindOptional, limit.Type.Kind)
	assert.Equal(t, KindInt, limit.Type.Elem.Kind)

	mode, _ := s.Field("mode")
	assert.Equal(t, KindLiteral, mode.Type.Kind)
	assert.Equal(t, []any{"web", "image", "video"}, mode.Type.Values)
}

func TestDefineDynamic_Extension(t *testing.T) {
	reg := NewRegistry(nil)
	base, err := Define("base", "", NewField("id", String(), ""))
	require.NoError(t, err)

	s, err := DefineDynamic(reg, "derived", "", base, []Row{
		{Name: "score", TypeToken: "float", Required: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "score"}, s.FieldNames())
}

func TestDefineDynamic_UnknownType(t *testing.T) {
	reg := NewRegistry(nil)
	_, err := DefineDynamic(reg, "bad", "", nil, []Row{
		{Name: "x", TypeToken: "decimal", Required: true},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestDefineDynamic_DuplicateAgainstBase(t *testing.T) {
	reg := NewRegistry(nil)
	base, err := Define("base", "", NewField("id", String(), ""))
	require.NoError(t, err)

	_, err = DefineDynamic(reg, "derived", "", base, []Row{
		{Name: "id", TypeToken: "int", Required: true},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateField)
}

func TestDefineDynamic_DuplicateWithinRows(t *testing.T) {
	reg := NewRegistry(nil)
	_, err := DefineDynamic(reg, "dup", "", nil, []Row{
		{Name: "x", TypeToken: "int", Required: true},
		{Name: "x", TypeToken: "string", Required: true},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateField)
}
