package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"schema-forge/internal/datatype"
	"schema-forge/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func TestRawAttributesToDescriptors(t *testing.T) {
	raw := RawAttributes{
		{Name: "bare"},
		{Name: "id", Type: datatype.Tag("INTEGER"), AllowNull: boolPtr(false), AutoIncrementIdentity: true},
		{Name: "name", Type: datatype.Token(datatype.String(100)), AllowNull: boolPtr(false)},
		{Name: "created", Type: datatype.Token(datatype.DATE), DefaultValue: datatype.NOW},
		{Name: "flag", Type: datatype.Token(datatype.BOOLEAN), HasDefault: true},
		{Name: "kind", Type: datatype.Tag("ENUM"), Values: []string{"a", "b"}},
		{Name: "level", Type: datatype.Token(datatype.Enum("low", "high"))},
		{Name: "loose", Type: datatype.Tag("ENUM")},
		{Name: "shape", Type: datatype.Tag("GEOMETRY"), Values: []string{"ignored"}},
	}

	want := Descriptors{
		{Name: "bare", ColumnDescriptor: model.ColumnDescriptor{Category: model.CategoryOther, AllowNull: true}},
		{Name: "id", ColumnDescriptor: model.ColumnDescriptor{Category: model.CategoryInteger, IsGenerated: true}},
		{Name: "name", ColumnDescriptor: model.ColumnDescriptor{Category: model.CategoryString}},
		{Name: "created", ColumnDescriptor: model.ColumnDescriptor{Category: model.CategoryDate, AllowNull: true, HasDefault: true}},
		{Name: "flag", ColumnDescriptor: model.ColumnDescriptor{Category: model.CategoryBoolean, AllowNull: true, HasDefault: true}},
		{Name: "kind", ColumnDescriptor: model.ColumnDescriptor{Category: model.CategoryEnum, AllowNull: true, EnumValues: []string{"a", "b"}}},
		{Name: "level", ColumnDescriptor: model.ColumnDescriptor{Category: model.CategoryEnum, AllowNull: true, EnumValues: []string{"low", "high"}}},
		{Name: "loose", ColumnDescriptor: model.ColumnDescriptor{Category: model.CategoryEnum, AllowNull: true}},
		{Name: "shape", ColumnDescriptor: model.ColumnDescriptor{Category: model.CategoryGeometry, AllowNull: true}},
	}
	assert.Equal(t, want, RawAttributesToDescriptors(raw))
}

func TestRawAttributesGet(t *testing.T) {
	raw := RawAttributes{{Name: "a"}, {Name: "b", HasDefault: true}}

	b, ok := raw.Get("b")
	assert.True(t, ok)
	assert.True(t, b.HasDefault)
	_, ok = raw.Get("c")
	assert.False(t, ok)
	assert.Equal(t, raw, raw.RawAttributes())
}
