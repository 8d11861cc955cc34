package validate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptshape/promptshape/schema"
)

func validRecord(t *testing.T) *Record {
	t.Helper()
	rec, err := New().Validate(userSchema(t), map[string]any{
		"name": "Ann", "age": 30, "email": "ann@example.com",
	})
	require.NoError(t, err)
	return rec
}

func TestRecord_TypedGetters(t *testing.T) {
	rec := validRecord(t)

	name, ok := rec.String("name")
	assert.True(t, ok)
	assert.Equal(t, "Ann", name)

	age, ok := rec.Int("age")
	assert.True(t, ok)
	assert.Equal(t, int64(30), age)

	f, ok := rec.Float("age")
	assert.True(t, ok)
	assert.Equal(t, float64(30), f)

	_, ok = rec.Bool("name")
	assert.False(t, ok)

	_, ok = rec.Get("nope")
	assert.False(t, ok)

	assert.Equal(t, 3, rec.Len())
}

func TestRecord_ValuesIsACopy(t *testing.T) {
	rec := validRecord(t)

	values := rec.Values()
	values["name"] = "mutated"

	name, _ := rec.String("name")
	assert.Equal(t, "Ann", name)
}

func TestRecord_With(t *testing.T) {
	rec := validRecord(t)

	updated, err := rec.With("age", 31)
	require.NoError(t, err)

	age, _ := updated.Int("age")
	assert.Equal(t, int64(31), age)

	// The original record is untouched.
	age, _ = rec.Int("age")
	assert.Equal(t, int64(30), age)
}

func TestRecord_WithKeepsValidatorStrictness(t *testing.T) {
	strict := New(WithOptions(&Options{Strictness: Strict}))
	rec, err := strict.Validate(userSchema(t), map[string]any{
		"name": "Ann", "age": 30,
	})
	require.NoError(t, err)

	// Evolution coerces under the same policy the record was validated with.
	_, err = rec.With("age", "31")
	require.Error(t, err)
	errs, ok := AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, KindTypeMismatch, errs[0].Kind)

	updated, err := rec.With("age", 31)
	require.NoError(t, err)
	age, _ := updated.Int("age")
	assert.Equal(t, int64(31), age)
}

func TestRecord_WithKeepsValidatorRegistry(t *testing.T) {
	reg := schema.NewRegistry(nil)
	address, err := schema.Define("address", "",
		schema.NewField("city", schema.String(), ""),
	)
	require.NoError(t, err)
	require.NoError(t, reg.RegisterSchema(address))

	s, err := schema.Define("person", "",
		schema.NewField("name", schema.String(), ""),
		schema.NewField("home", schema.Ref("address"), ""),
	)
	require.NoError(t, err)

	v := New(WithRegistry(reg))
	rec, err := v.Validate(s, map[string]any{
		"name": "Ann",
		"home": map[string]any{"city": "Oslo"},
	})
	require.NoError(t, err)

	updated, err := rec.With("home", map[string]any{"city": "Bergen"})
	require.NoError(t, err)
	home, _ := updated.Map("home")
	assert.Equal(t, "Bergen", home["city"])

	_, err = rec.With("home", map[string]any{"city": 7})
	require.Error(t, err)
}

func TestRecord_WithRejectsBadValue(t *testing.T) {
	rec := validRecord(t)

	_, err := rec.With("age", "thirty-one")
	require.Error(t, err)
	errs, ok := AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, KindTypeMismatch, errs[0].Kind)

	_, err = rec.With("nope", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestRecord_MarshalJSONFollowsSchemaOrder(t *testing.T) {
	rec := validRecord(t)

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t,
		`{"name":"Ann","age":30,"email":"ann@example.com"}`,
		string(out))
}

func TestRecord_MarshalJSONAbsentOptionalIsNull(t *testing.T) {
	rec, err := New().Validate(userSchema(t), map[string]any{
		"name": "Ann", "age": 30,
	})
	require.NoError(t, err)

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Ann","age":30,"email":null}`, string(out))
}
