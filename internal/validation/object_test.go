package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userObject() *Object {
	f := DefaultFactory()
	return f.Object(
		Field{Name: "id", Schema: f.Int()},
		Field{Name: "name", Schema: f.String()},
		Field{Name: "nickname", Schema: f.String().Nullable().Optional()},
	)
}

func TestObjectValidate(t *testing.T) {
	obj := userObject()

	assert.NoError(t, obj.Validate(map[string]any{"id": 1, "name": "a"}))
	assert.NoError(t, obj.Validate(map[string]any{"id": 1, "name": "a", "nickname": nil}))

	// typed maps are validated value by value
	issues := issuesOf(t, obj.Validate(map[string]string{"name": "a", "id": "1"}))
	require.Len(t, issues, 1)
	assert.Equal(t, "id", issues[0].Path)

	issues = issuesOf(t, obj.Validate(map[string]any{"name": nil}))
	require.Len(t, issues, 2)
	assert.Equal(t, Issue{Path: "id", Code: CodeRequired, Message: "required"}, issues[0])
	assert.Equal(t, "name", issues[1].Path)
	assert.Equal(t, CodeInvalidType, issues[1].Code)
}

func TestObjectRejectsNonObjects(t *testing.T) {
	obj := userObject()

	assert.Error(t, obj.Validate(nil))
	assert.Error(t, obj.Validate([]any{}))
	assert.Error(t, obj.Validate(map[int]any{1: 1}))
	assert.NoError(t, obj.Nullable().Validate(nil))
}

func TestObjectUnknownKeys(t *testing.T) {
	obj := userObject()
	payload := map[string]any{"id": 1, "name": "a", "zeta": 1, "alpha": 2}

	assert.NoError(t, obj.Validate(payload))

	strict := obj.Strict()
	assert.False(t, obj.IsStrict(), "Strict returns a copy")
	issues := issuesOf(t, strict.Validate(payload))
	require.Len(t, issues, 1)
	assert.Equal(t, CodeUnrecognizedKeys, issues[0].Code)
	assert.Equal(t, "unrecognized keys: alpha, zeta", issues[0].Message)
}

func TestObjectNestedPaths(t *testing.T) {
	f := DefaultFactory()
	obj := f.Object(
		Field{Name: "profile", Schema: f.Object(Field{Name: "age", Schema: f.Int()})},
		Field{Name: "tags", Schema: f.Array(f.String())},
	)

	issues := issuesOf(t, obj.Validate(map[string]any{
		"profile": map[string]any{"age": "old"},
		"tags":    []any{"a", 2},
	}))
	require.Len(t, issues, 2)
	assert.Equal(t, "profile.age", issues[0].Path)
	assert.Equal(t, "tags.1", issues[1].Path)
}

func TestObjectShape(t *testing.T) {
	f := DefaultFactory()
	obj := NewObject(
		Field{Name: "a", Schema: f.Int()},
		Field{Name: "b", Schema: f.String()},
		Field{Name: "a", Schema: f.Boolean()},
	)

	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	assert.Equal(t, 2, obj.Len())
	a, ok := obj.Field("a")
	require.True(t, ok)
	assert.Equal(t, KindBoolean, a.Kind())
	_, ok = obj.Field("c")
	assert.False(t, ok)
}

func TestObjectDescribe(t *testing.T) {
	d := userObject().Strict().Describe()

	assert.Equal(t, "object", d.Type)
	assert.True(t, d.Strict)
	require.Len(t, d.Properties, 3)
	assert.Equal(t, "nickname", d.Properties[2].Name)
	assert.True(t, d.Properties[2].Schema.Nullable())
	assert.True(t, d.Properties[2].Schema.Optional())
	assert.False(t, d.Properties[0].Schema.Optional())
}
