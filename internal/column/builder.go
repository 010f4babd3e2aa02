package column

import (
	"fmt"
	"strings"
	"time"

	"schema-forge/internal/datatype"
	"schema-forge/internal/model"
)

// SQLExpr is a default value rendered verbatim, e.g. CURRENT_TIMESTAMP
type SQLExpr string

// Builder declares a single column: an engine type plus the category fixed
// by the factory that created it
type Builder struct {
	dataType      datatype.DataType
	category      model.Category
	allowNull     *bool
	defaultValue  any
	hasDefault    bool
	primaryKey    bool
	autoIncrement bool
	unique        bool
	comment       string
	field         string
}

// NewBuilder creates a builder. Prefer the typed factories, which keep the
// category consistent with the data type.
func NewBuilder(dataType datatype.DataType, category model.Category) *Builder {
	return &Builder{dataType: dataType, category: category}
}

// AllowNull sets whether the column accepts NULL
func (b *Builder) AllowNull(allow bool) *Builder {
	b.allowNull = &allow
	return b
}

// NotNull is shorthand for AllowNull(false)
func (b *Builder) NotNull() *Builder {
	return b.AllowNull(false)
}

// Default declares a default value producer
func (b *Builder) Default(value any) *Builder {
	b.defaultValue = value
	b.hasDefault = true
	return b
}

// PrimaryKey marks the column as (part of) the primary key. Primary keys are
// not nullable unless AllowNull says otherwise.
func (b *Builder) PrimaryKey() *Builder {
	b.primaryKey = true
	return b
}

// AutoIncrement marks the column as an identity column generated by the database
func (b *Builder) AutoIncrement() *Builder {
	b.autoIncrement = true
	return b
}

func (b *Builder) Unique() *Builder {
	b.unique = true
	return b
}

func (b *Builder) Comment(comment string) *Builder {
	b.comment = comment
	return b
}

// Field overrides the database column name
func (b *Builder) Field(name string) *Builder {
	b.field = name
	return b
}

func (b *Builder) DataType() datatype.DataType {
	return b.dataType
}

func (b *Builder) Category() model.Category {
	return b.category
}

// SchemaDescriptor returns the column descriptor used for schema generation
func (b *Builder) SchemaDescriptor() model.ColumnDescriptor {
	d := model.ColumnDescriptor{
		Category:    b.category,
		AllowNull:   b.nullable(),
		HasDefault:  b.hasDefault,
		IsGenerated: b.autoIncrement,
	}
	if b.category == model.CategoryEnum {
		if values := b.dataType.Values(); len(values) > 0 {
			d.EnumValues = append([]string(nil), values...)
		}
	}
	return d
}

func (b *Builder) nullable() bool {
	if b.allowNull != nil {
		return *b.allowNull
	}
	return !b.primaryKey
}

// Build returns the engine-native attribute options for the column
func (b *Builder) Build() AttributeOptions {
	opts := AttributeOptions{
		Type:                  b.dataType,
		DefaultValue:          b.defaultValue,
		HasDefault:            b.hasDefault,
		PrimaryKey:            b.primaryKey,
		AutoIncrement:         b.autoIncrement,
		AutoIncrementIdentity: b.autoIncrement,
		Unique:                b.unique,
		Comment:               b.comment,
		Field:                 b.field,
		Values:                b.dataType.Values(),
	}
	if b.allowNull != nil || b.primaryKey {
		allow := b.nullable()
		opts.AllowNull = &allow
	}
	return opts
}

// AttributeOptions is the attribute definition handed to the persistence layer
type AttributeOptions struct {
	Type                  datatype.DataType
	AllowNull             *bool
	DefaultValue          any
	HasDefault            bool
	PrimaryKey            bool
	AutoIncrement         bool
	AutoIncrementIdentity bool
	Unique                bool
	Comment               string
	Field                 string
	Values                []string
}

// GormTag renders the options as a gorm struct tag body for the named attribute
func (o AttributeOptions) GormTag(name string) string {
	column := o.Field
	if column == "" {
		column = name
	}
	settings := []string{"column:" + column, "type:" + o.Type.SQL()}
	if o.PrimaryKey {
		settings = append(settings, "primaryKey")
	}
	if o.AutoIncrement {
		settings = append(settings, "autoIncrement")
	} else if o.PrimaryKey {
		settings = append(settings, "autoIncrement:false")
	}
	if o.AllowNull != nil && !*o.AllowNull {
		settings = append(settings, "not null")
	}
	if o.Unique {
		settings = append(settings, "unique")
	}
	if o.HasDefault {
		settings = append(settings, "default:"+renderDefault(o.DefaultValue))
	}
	if o.Comment != "" {
		settings = append(settings, "comment:"+escapeTagValue(o.Comment))
	}
	return strings.Join(settings, ";")
}

func renderDefault(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case SQLExpr:
		return string(v)
	case datatype.DataType:
		switch v.Key() {
		case "NOW":
			return "CURRENT_TIMESTAMP"
		case "UUIDV1", "UUIDV4":
			return "(UUID())"
		}
		return v.SQL()
	case string:
		return "'" + escapeTagValue(strings.ReplaceAll(v, "'", "''")) + "'"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case time.Time:
		return "'" + v.UTC().Format("2006-01-02 15:04:05") + "'"
	default:
		return escapeTagValue(fmt.Sprint(v))
	}
}

// escapeTagValue protects the gorm tag separator
func escapeTagValue(s string) string {
	return strings.ReplaceAll(s, ";", "\\;")
}
