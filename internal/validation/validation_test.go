package validation

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issuesOf(t *testing.T, err error) []Issue {
	t.Helper()
	require.Error(t, err)
	verr, ok := err.(*Error)
	require.True(t, ok, "expected *Error, got %T", err)
	return verr.Issues
}

func TestInt(t *testing.T) {
	s := DefaultFactory().Int()

	for _, v := range []any{1, int8(2), int64(-3), uint16(4), 5.0, float32(6), json.Number("7")} {
		assert.NoError(t, s.Validate(v), "%T %v", v, v)
	}
	for _, v := range []any{1.5, json.Number("2.5"), "1", true, math.NaN(), math.Inf(1)} {
		assert.Error(t, s.Validate(v), "%T %v", v, v)
	}

	issues := issuesOf(t, s.Validate(nil))
	assert.Equal(t, CodeInvalidType, issues[0].Code)
	assert.Equal(t, "expected integer, received null", issues[0].Message)
}

func TestNumber(t *testing.T) {
	s := DefaultFactory().Number()

	assert.NoError(t, s.Validate(1.25))
	assert.NoError(t, s.Validate(42))
	assert.NoError(t, s.Validate(json.Number("3.14")))
	assert.Error(t, s.Validate(math.NaN()))
	assert.Error(t, s.Validate("3.14"))
	assert.Error(t, s.Validate(false))
}

func TestStringAndBoolean(t *testing.T) {
	f := DefaultFactory()

	assert.NoError(t, f.String().Validate(""))
	assert.Error(t, f.String().Validate(1))
	assert.NoError(t, f.Boolean().Validate(false))
	assert.Error(t, f.Boolean().Validate("true"))
}

func TestUUID(t *testing.T) {
	s := DefaultFactory().UUID()

	assert.NoError(t, s.Validate("123e4567-e89b-12d3-a456-426614174000"))
	issues := issuesOf(t, s.Validate("not-a-uuid"))
	assert.Equal(t, CodeInvalidString, issues[0].Code)
	assert.Error(t, s.Validate(123))
}

func TestDate(t *testing.T) {
	s := DefaultFactory().Date()

	assert.NoError(t, s.Validate(time.Now()))
	assert.NoError(t, s.Validate("2024-01-02T03:04:05Z"))
	assert.NoError(t, s.Validate("2024-01-02T03:04:05.123+02:00"))
	assert.NoError(t, s.Validate("2024-01-02"))
	assert.Error(t, s.Validate(time.Time{}))
	assert.Error(t, s.Validate("yesterday"))
	assert.Error(t, s.Validate(1704164645))
}

func TestBytes(t *testing.T) {
	s := DefaultFactory().Bytes()

	assert.NoError(t, s.Validate([]byte("abc")))
	assert.NoError(t, s.Validate(json.RawMessage(`{}`)))
	assert.NoError(t, s.Validate("aGVsbG8="), "base64 as encoding/json writes []byte")
	assert.NoError(t, s.Validate(""))

	issues := issuesOf(t, s.Validate("abc"))
	assert.Equal(t, CodeInvalidString, issues[0].Code)
	issues = issuesOf(t, s.Validate([]any{json.Number("104"), json.Number("101")}))
	assert.Equal(t, CodeInvalidType, issues[0].Code)
	assert.Equal(t, "bytes", s.Describe().Type)
	assert.Equal(t, "base64", s.Describe().Format)
}

func TestLiteralAndUnion(t *testing.T) {
	f := DefaultFactory()

	lit := f.Literal("active")
	assert.NoError(t, lit.Validate("active"))
	issues := issuesOf(t, lit.Validate("inactive"))
	assert.Equal(t, CodeInvalidLiteral, issues[0].Code)

	u := f.Union(f.Literal("a"), f.Literal("b"))
	assert.NoError(t, u.Validate("b"))
	issues = issuesOf(t, u.Validate("c"))
	assert.Equal(t, CodeInvalidUnion, issues[0].Code)
}

func TestRecordAndArray(t *testing.T) {
	f := DefaultFactory()

	rec := f.Record(f.String(), f.Int())
	assert.NoError(t, rec.Validate(map[string]any{"a": 1}))
	assert.NoError(t, rec.Validate(map[string]int{"a": 1}))
	issues := issuesOf(t, rec.Validate(map[string]any{"a": "x"}))
	assert.Equal(t, "a", issues[0].Path)
	assert.Error(t, rec.Validate([]any{1}))

	arr := f.Array(f.Int())
	assert.NoError(t, arr.Validate([]int{1, 2}))
	assert.NoError(t, arr.Validate([]any{}))
	issues = issuesOf(t, arr.Validate([]any{1, "two"}))
	assert.Equal(t, "1", issues[0].Path)
	assert.Error(t, arr.Validate(nil))
}

func TestNullAndAny(t *testing.T) {
	f := DefaultFactory()

	assert.NoError(t, f.Null().Validate(nil))
	assert.Error(t, f.Null().Validate(0))
	assert.NoError(t, f.Any().Validate(nil))
	assert.NoError(t, f.Any().Validate(struct{}{}))
}

func TestWrappers(t *testing.T) {
	base := DefaultFactory().String()
	assert.False(t, base.IsNullable())
	assert.False(t, base.IsOptional())

	nullable := base.Nullable()
	assert.True(t, nullable.IsNullable())
	assert.False(t, base.IsNullable(), "wrapping must not mutate the base")
	assert.NoError(t, nullable.Validate(nil))

	var nilPtr *string
	assert.NoError(t, nullable.Validate(nilPtr))
	s := "x"
	assert.NoError(t, base.Validate(&s))

	both := nullable.Optional()
	assert.Equal(t, []string{WrapNullable, WrapOptional}, both.Describe().Wrappers)
	assert.True(t, both.Describe().Nullable())
	assert.True(t, both.Describe().Optional())
}

func TestDescribe(t *testing.T) {
	f := DefaultFactory()

	assert.Equal(t, Description{Type: "string", Format: "uuid"}, f.UUID().Describe())
	assert.Equal(t, Description{Type: "number", Format: "int"}, f.Int().Describe())

	d := f.Union(f.Literal("a"), f.Null()).Describe()
	assert.Equal(t, "union", d.Type)
	require.Len(t, d.Options, 2)
	assert.Equal(t, "a", d.Options[0].Value)

	items := f.Array(f.Boolean()).Describe().Items
	require.NotNil(t, items)
	assert.Equal(t, "boolean", items.Type)
}

func TestTag(t *testing.T) {
	f := DefaultFactory()

	email := f.Tag(f.String(), "email")
	assert.NoError(t, email.Validate("a@example.com"))
	issues := issuesOf(t, email.Validate("nope"))
	assert.Equal(t, CodeCustom, issues[0].Code)
	assert.Contains(t, issues[0].Message, "email")

	// base type errors are reported before the tag runs
	issues = issuesOf(t, email.Validate(1))
	assert.Equal(t, CodeInvalidType, issues[0].Code)

	nullable := f.Tag(f.String().Nullable(), "max=3")
	assert.True(t, nullable.IsNullable())
	assert.NoError(t, nullable.Validate(nil))
	assert.Error(t, nullable.Validate("toolong"))
	assert.Equal(t, "max=3", nullable.Describe().Format)
}

func TestFactoryCustomValidator(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if (r < 'a' || r > 'z') && r != '-' {
				return false
			}
		}
		return true
	}))

	f := NewFactory(v)
	assert.Same(t, v, f.Validator())
	slug := f.Tag(f.String(), "slug")
	assert.NoError(t, slug.Validate("hello-world"))
	assert.Error(t, slug.Validate("Hello World"))
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Issues: []Issue{
		{Path: "name", Code: CodeRequired, Message: "required"},
		{Path: "", Code: CodeUnrecognizedKeys, Message: "unrecognized keys: x"},
	}}
	assert.Equal(t, "validation failed: name: required; unrecognized keys: x", err.Error())
}
