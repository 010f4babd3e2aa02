package schema

import (
	"schema-forge/internal/model"
	"schema-forge/internal/validation"
)

// ColumnDescriptorToValidator returns the base validator for a descriptor,
// before any nullable, optional or refinement handling
func ColumnDescriptorToValidator(d model.ColumnDescriptor, f validation.Factory) validation.Schema {
	switch d.Category {
	case model.CategoryInteger:
		return f.Int()
	case model.CategoryFloat:
		return f.Number()
	case model.CategoryString, model.CategoryText:
		return f.String()
	case model.CategoryBoolean:
		return f.Boolean()
	case model.CategoryDate:
		return f.Date()
	case model.CategoryUUID:
		return f.UUID()
	case model.CategoryJSON:
		return f.Union(
			f.String(),
			f.Number(),
			f.Boolean(),
			f.Null(),
			f.Record(f.String(), f.Any()),
			f.Array(f.Any()),
		)
	case model.CategoryEnum:
		if !d.HasEnumValues() {
			return f.String()
		}
		return enumValidator(d.EnumValues, f)
	case model.CategoryBlob:
		return f.Bytes()
	case model.CategoryArray:
		return f.Array(f.Any())
	default:
		// geometry, other and anything unrecognized pass through unchecked
		return f.Any()
	}
}

func enumValidator(values []string, f validation.Factory) validation.Schema {
	if len(values) == 1 {
		return f.Literal(values[0])
	}
	literals := make([]validation.Schema, len(values))
	for i, v := range values {
		literals[i] = f.Literal(v)
	}
	return f.Union(literals...)
}
