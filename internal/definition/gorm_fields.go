package definition

import (
	"reflect"

	"github.com/google/uuid"
	gormschema "gorm.io/gorm/schema"

	"schema-forge/internal/datatype"
	"schema-forge/internal/schema"
	"schema-forge/internal/utils"
)

var (
	typeMapper = utils.NewDataTypeMapper()
	uuidType   = reflect.TypeOf(uuid.UUID{})
)

// rawAttributesFromGorm reads attribute metadata from a parsed gorm schema.
// Fields without a database column are skipped.
func rawAttributesFromGorm(s *gormschema.Schema) schema.RawAttributes {
	raw := make(schema.RawAttributes, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.DBName == "" {
			continue
		}
		raw = append(raw, fieldToRawAttribute(f))
	}
	return raw
}

func fieldToRawAttribute(f *gormschema.Field) schema.RawAttribute {
	dt := fieldDataType(f)
	attr := schema.RawAttribute{
		Name:                  f.DBName,
		Type:                  datatype.Token(dt),
		HasDefault:            f.HasDefaultValue,
		AutoIncrementIdentity: isAutoIncrement(f),
		Values:                dt.Values(),
	}
	if f.NotNull || f.PrimaryKey {
		notNull := false
		attr.AllowNull = &notNull
	}
	if f.HasDefaultValue {
		if f.DefaultValueInterface != nil {
			attr.DefaultValue = f.DefaultValueInterface
		} else if f.DefaultValue != "" {
			attr.DefaultValue = f.DefaultValue
		}
	}
	return attr
}

// isAutoIncrement mirrors gorm's insert behaviour: a sole integer primary key
// without an autoIncrement tag is filled in by the database
func isAutoIncrement(f *gormschema.Field) bool {
	if f.AutoIncrement {
		return true
	}
	if _, tagged := f.TagSettings["AUTOINCREMENT"]; tagged || !f.PrimaryKey || f.Schema == nil {
		return false
	}
	if f.Schema.PrioritizedPrimaryField != f {
		return false
	}
	return f.GORMDataType == gormschema.Int || f.GORMDataType == gormschema.Uint
}

// fieldDataType resolves the engine type of a gorm field: an explicit type tag
// wins, then well known Go types, then gorm's own data type
func fieldDataType(f *gormschema.Field) datatype.DataType {
	if t, ok := f.TagSettings["TYPE"]; ok && t != "" {
		return typeMapper.CanonicalType(t)
	}
	if f.IndirectFieldType == uuidType {
		return datatype.UUID
	}

	switch f.GORMDataType {
	case gormschema.Bool:
		return datatype.BOOLEAN
	case gormschema.Int, gormschema.Uint:
		if f.Size > 32 {
			return datatype.BIGINT
		}
		return datatype.INTEGER
	case gormschema.Float:
		if f.Size > 0 && f.Size <= 32 {
			return datatype.FLOAT
		}
		return datatype.DOUBLE
	case gormschema.String:
		return datatype.STRING
	case gormschema.Time:
		return datatype.DATE
	case gormschema.Bytes:
		return datatype.BLOB
	}

	if f.DataType != "" {
		return typeMapper.CanonicalType(string(f.DataType))
	}
	return datatype.ABSTRACT
}
