package schema

import (
	"schema-forge/internal/datatype"
	"schema-forge/internal/model"
	"schema-forge/internal/utils"
)

// RawAttribute is the persistence layer's metadata for one attribute
type RawAttribute struct {
	Name string
	Type datatype.Ref
	// AllowNull is nil when the definition does not say
	AllowNull             *bool
	DefaultValue          any
	HasDefault            bool
	AutoIncrementIdentity bool
	// Values lists the permitted literals of an enum column
	Values []string
}

// RawAttributes is a model's ordered attribute metadata
type RawAttributes []RawAttribute

// RawAttributes lets raw metadata be used wherever a model definition is expected
func (r RawAttributes) RawAttributes() RawAttributes {
	return r
}

// Get returns the metadata of an attribute
func (r RawAttributes) Get(name string) (RawAttribute, bool) {
	for _, attr := range r {
		if attr.Name == name {
			return attr, true
		}
	}
	return RawAttribute{}, false
}

var mapper = utils.NewDataTypeMapper()

// RawAttributesToDescriptors normalizes raw attribute metadata into column
// descriptors. Missing metadata falls back to nullable, no default, not generated.
func RawAttributesToDescriptors(raw RawAttributes) Descriptors {
	result := make(Descriptors, 0, len(raw))
	for _, attr := range raw {
		result = append(result, Descriptor{Name: attr.Name, ColumnDescriptor: rawAttributeToDescriptor(attr)})
	}
	return result
}

func rawAttributeToDescriptor(attr RawAttribute) model.ColumnDescriptor {
	category := mapper.MapToCategory(attr.Type)
	d := model.ColumnDescriptor{
		Category:    category,
		AllowNull:   true,
		HasDefault:  attr.HasDefault || attr.DefaultValue != nil,
		IsGenerated: attr.AutoIncrementIdentity,
	}
	if attr.AllowNull != nil {
		d.AllowNull = *attr.AllowNull
	}
	if category == model.CategoryEnum {
		values := attr.Values
		if len(values) == 0 {
			values = attr.Type.Values()
		}
		if len(values) > 0 {
			d.EnumValues = append([]string(nil), values...)
		}
	}
	return d
}
