package definition

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"gorm.io/gorm"
	gormschema "gorm.io/gorm/schema"

	"schema-forge/internal/column"
	"schema-forge/internal/datatype"
	"schema-forge/internal/model"
	"schema-forge/internal/schema"
	"schema-forge/internal/utils"
)

// Model is a persistence model, either defined from column declarations or
// wrapped around an existing gorm struct
type Model struct {
	name       string
	modelType  reflect.Type
	gormSchema *gormschema.Schema
	raw        schema.RawAttributes
}

// DefineModel creates a model from column declarations. The generated struct
// type carries gorm tags so the model can be migrated and queried with gorm.
func DefineModel(name string, attributes column.Attributes) (*Model, error) {
	if strings.TrimSpace(name) == "" {
		return nil, utils.NewErrorBuilder(utils.ErrCodeModelDefinition).
			WithDetails("model name is required").
			Build()
	}

	fields := make([]reflect.StructField, 0, len(attributes))
	raw := make(schema.RawAttributes, 0, len(attributes))
	used := make(map[string]int, len(attributes))
	for _, attr := range attributes {
		if attr.Column == nil {
			return nil, utils.NewErrorBuilder(utils.ErrCodeModelDefinition).
				WithDetails(fmt.Sprintf("attribute %s has no column declaration", attr.Name)).
				Build()
		}
		opts := attr.Column.Build()
		nullable := opts.AllowNull == nil || *opts.AllowNull

		fields = append(fields, reflect.StructField{
			Name: goFieldName(attr.Name, used),
			Type: goType(attr.Column.Category(), nullable),
			Tag:  reflect.StructTag(`gorm:` + strconv.Quote(opts.GormTag(attr.Name)) + ` json:` + strconv.Quote(attr.Name)),
		})
		raw = append(raw, optionsToRawAttribute(attr.Name, opts))
	}

	modelType := reflect.StructOf(fields)
	s, err := gormschema.ParseWithSpecialTableName(reflect.New(modelType).Interface(), &sync.Map{}, gormschema.NamingStrategy{}, name)
	if err != nil {
		return nil, utils.NewErrorBuilder(utils.ErrCodeModelDefinition).
			WithDetails(fmt.Sprintf("failed to parse model %s", name)).
			WithCause(err).
			Build()
	}

	return &Model{
		name:       name,
		modelType:  modelType,
		gormSchema: s,
		raw:        raw,
	}, nil
}

// optionsToRawAttribute keeps the declared type token, so the category of a
// defined model always matches its column declarations
func optionsToRawAttribute(name string, opts column.AttributeOptions) schema.RawAttribute {
	return schema.RawAttribute{
		Name:                  name,
		Type:                  datatype.Token(opts.Type),
		AllowNull:             opts.AllowNull,
		DefaultValue:          opts.DefaultValue,
		HasDefault:            opts.HasDefault,
		AutoIncrementIdentity: opts.AutoIncrementIdentity,
		Values:                opts.Values,
	}
}

// FromGorm wraps an existing gorm model, e.g. &User{}
func FromGorm(value any) (*Model, error) {
	if value == nil {
		return nil, utils.NewErrorBuilder(utils.ErrCodeModelDefinition).
			WithDetails("gorm model is nil").
			Build()
	}
	s, err := gormschema.Parse(value, &sync.Map{}, gormschema.NamingStrategy{})
	if err != nil {
		return nil, utils.NewErrorBuilder(utils.ErrCodeModelDefinition).
			WithDetails(fmt.Sprintf("failed to parse %T", value)).
			WithCause(err).
			Build()
	}
	return &Model{
		name:       s.Name,
		modelType:  s.ModelType,
		gormSchema: s,
		raw:        rawAttributesFromGorm(s),
	}, nil
}

// Name returns the model name
func (m *Model) Name() string {
	return m.name
}

// TableName returns the database table of the model
func (m *Model) TableName() string {
	return m.gormSchema.Table
}

// RawAttributes returns the model's attribute metadata in field order
func (m *Model) RawAttributes() schema.RawAttributes {
	return m.raw
}

// GormSchema returns the parsed gorm schema
func (m *Model) GormSchema() *gormschema.Schema {
	return m.gormSchema
}

// New returns a pointer to a new zero instance of the model struct
func (m *Model) New() any {
	return reflect.New(m.modelType).Interface()
}

// NewSlice returns a pointer to an empty slice of model structs, for Find
func (m *Model) NewSlice() any {
	return reflect.New(reflect.SliceOf(m.modelType)).Interface()
}

// AutoMigrate creates or updates the model's table
func (m *Model) AutoMigrate(db *gorm.DB) error {
	if err := db.Table(m.TableName()).AutoMigrate(m.New()); err != nil {
		return utils.NewDatabaseError(err, fmt.Sprintf("failed to migrate %s", m.TableName()))
	}
	return nil
}

var (
	int64Type   = reflect.TypeOf(int64(0))
	float64Type = reflect.TypeOf(float64(0))
	stringType  = reflect.TypeOf("")
	boolType    = reflect.TypeOf(false)
	timeType    = reflect.TypeOf(time.Time{})
	bytesType   = reflect.TypeOf([]byte(nil))
	jsonType    = reflect.TypeOf(json.RawMessage(nil))
)

// goType picks the struct field type for a category; nullable scalars are pointers
func goType(category model.Category, nullable bool) reflect.Type {
	var t reflect.Type
	switch category {
	case model.CategoryInteger:
		t = int64Type
	case model.CategoryFloat:
		t = float64Type
	case model.CategoryBoolean:
		t = boolType
	case model.CategoryDate:
		t = timeType
	case model.CategoryBlob:
		return bytesType
	case model.CategoryJSON:
		return jsonType
	default:
		t = stringType
	}
	if nullable {
		return reflect.PointerTo(t)
	}
	return t
}

// goFieldName derives a unique exported Go identifier from an attribute name
func goFieldName(name string, used map[string]int) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	ident := b.String()
	if ident == "" || !unicode.IsLetter([]rune(ident)[0]) {
		ident = "F" + ident
	}

	used[ident]++
	if n := used[ident]; n > 1 {
		ident += strconv.Itoa(n)
	}
	return ident
}
