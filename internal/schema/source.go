package schema

import (
	"reflect"

	"schema-forge/internal/column"
	"schema-forge/internal/model"
	"schema-forge/internal/utils"
)

// ModelDefinition is an already-defined model exposing its raw attribute metadata
type ModelDefinition interface {
	RawAttributes() RawAttributes
}

type sourceKind int

const (
	sourceNone sourceKind = iota
	sourceAttributes
	sourceModel
)

// Source is the input of the schema builders: either column declarations or
// a defined model. Build one with FromAttributes, FromRawAttributes or FromModel.
type Source struct {
	kind       sourceKind
	attributes column.Attributes
	model      ModelDefinition
}

// FromAttributes uses column builder declarations as the source
func FromAttributes(attributes column.Attributes) Source {
	return Source{kind: sourceAttributes, attributes: attributes}
}

// FromModel uses a defined model's raw attribute metadata as the source
func FromModel(m ModelDefinition) Source {
	return Source{kind: sourceModel, model: m}
}

// FromRawAttributes uses raw attribute metadata directly as the source
func FromRawAttributes(raw RawAttributes) Source {
	return Source{kind: sourceModel, model: raw}
}

// Descriptor is a column descriptor together with its attribute name
type Descriptor struct {
	Name string
	model.ColumnDescriptor
}

// Descriptors is an ordered list of named column descriptors
type Descriptors []Descriptor

// Get returns the descriptor of an attribute
func (d Descriptors) Get(name string) (model.ColumnDescriptor, bool) {
	for _, desc := range d {
		if desc.Name == name {
			return desc.ColumnDescriptor, true
		}
	}
	return model.ColumnDescriptor{}, false
}

// Names returns the attribute names in order
func (d Descriptors) Names() []string {
	names := make([]string, len(d))
	for i, desc := range d {
		names[i] = desc.Name
	}
	return names
}

// GetDescriptors converts a source into named column descriptors, preserving
// the source's attribute order. A zero Source or a nil model is rejected.
func GetDescriptors(src Source) (Descriptors, error) {
	switch src.kind {
	case sourceAttributes:
		result := make(Descriptors, 0, len(src.attributes))
		for _, attr := range src.attributes {
			if attr.Column == nil {
				return nil, utils.NewInvalidSourceError("attribute " + attr.Name + " has no column declaration")
			}
			result = append(result, Descriptor{Name: attr.Name, ColumnDescriptor: attr.Column.SchemaDescriptor()})
		}
		return result, nil
	case sourceModel:
		if isNil(src.model) {
			return nil, utils.NewInvalidSourceError("model is nil")
		}
		return RawAttributesToDescriptors(src.model.RawAttributes()), nil
	default:
		return nil, utils.NewInvalidSourceError("source is neither column attributes nor a model")
	}
}

func isNil(m ModelDefinition) bool {
	if m == nil {
		return true
	}
	rv := reflect.ValueOf(m)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func:
		return rv.IsNil()
	}
	return false
}
