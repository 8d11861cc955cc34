package promptshape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptshape/promptshape/validate"
)

func TestDefineRenderValidate(t *testing.T) {
	s, err := Define("user", "A user profile.",
		NewField("name", String(), "Full name"),
		NewField("age", Int(), "Age in years"),
		NewField("email", Optional(String()), "Contact address").AsOptional(nil),
	)
	require.NoError(t, err)

	prompt := Render(s)
	assert.Contains(t, prompt, "A user profile.")
	assert.Contains(t, prompt, "- email (optional<string>, optional): Contact address")

	rec, err := Validate(s, map[string]any{"name": "Ann", "age": 30})
	require.NoError(t, err)
	name, _ := rec.String("name")
	assert.Equal(t, "Ann", name)

	_, err = Validate(s, map[string]any{"name": "Ann", "age": "thirty"})
	require.Error(t, err)
	errs, ok := validate.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, validate.KindTypeMismatch, errs[0].Kind)
}
