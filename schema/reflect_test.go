package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Email string `json:"email" shape:"description=Contact address"`
	Phone string `json:"phone" shape:"optional"`
}

type profile struct {
	Name    string   `json:"name" shape:"description=Full name"`
	Age     int      `json:"age"`
	Score   *float64 `json:"score"`
	Tags    []string `json:"tags"`
	Kind    string   `json:"kind" shape:"values=person|org"`
	Retries int      `json:"retries" shape:"default=3"`
	Contact contact  `json:"contact"`
	skipped string   //nolint:unused
	Ignored string   `json:"-"`
}

func TestFromStruct(t *testing.T) {
	s, err := FromStruct("profile", "A profile.", profile{})
	require.NoError(t, err)

	assert.Equal(t, "profile", s.Name())
	assert.Equal(t,
		[]string{"name", "age", "score", "tags", "kind", "retries", "contact"},
		s.FieldNames())

	name, _ := s.Field("name")
	assert.Equal(t, KindString, name.Type.Kind)
	assert.True(t, name.Required)
	assert.Equal(t, "Full name", name.Description)

	age, _ := s.Field("age")
	assert.Equal(t, KindInt, age.Type.Kind)

	score, _ := s.Field("score")
	assert.Equal(t, KindOptional, score.Type.Kind)
	assert.Equal(t, KindFloat, score.Type.Elem.Kind)
	assert.False(t, score.Required)

	tags, _ := s.Field("tags")
	assert.Equal(t, KindList, tags.Type.Kind)
	assert.Equal(t, KindString, tags.Type.Elem.Kind)

	kind, _ := s.Field("kind")
	assert.Equal(t, KindLiteral, kind.Type.Kind)
	assert.Equal(t, []any{"person", "org"}, kind.Type.Values)

	retries, _ := s.Field("retries")
	assert.False(t, retries.Required)
	assert.Equal(t, int64(3), retries.Default)

	nested, _ := s.Field("contact")
	require.Equal(t, KindRecord, nested.Type.Kind)
	require.NotNil(t, nested.Type.Schema)
	assert.Equal(t, "contact", nested.Type.Schema.Name())
	assert.Equal(t, []string{"email", "phone"}, nested.Type.Schema.FieldNames())

	phone, _ := nested.Type.Schema.Field("phone")
	assert.False(t, phone.Required)
}

func TestFromStruct_NonStruct(t *testing.T) {
	_, err := FromStruct("bad", "", 42)
	require.Error(t, err)

	_, err = FromStruct("bad", "", nil)
	require.Error(t, err)
}

func TestFromStruct_UnsupportedField(t *testing.T) {
	type withMap struct {
		M map[string]int `json:"m"`
	}
	_, err := FromStruct("bad", "", withMap{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestFromStruct_Pointer(t *testing.T) {
	s, err := FromStruct("profile", "", &profile{})
	require.NoError(t, err)
	assert.Equal(t, 7, s.Len())
}
