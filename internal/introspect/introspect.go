package introspect

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"schema-forge/internal/schema"
	"schema-forge/internal/utils"
)

var mapper = utils.NewDataTypeMapper()

// TableAttributes reads the raw attribute metadata of a live table
func TableAttributes(ctx context.Context, db *gorm.DB, table string) (schema.RawAttributes, error) {
	if db == nil {
		return nil, utils.NewErrorBuilder(utils.ErrCodeServiceUnavailable).
			WithDetails("database is not configured").
			Build()
	}

	migrator := db.WithContext(ctx).Migrator()
	if !migrator.HasTable(table) {
		return nil, utils.NewModelNotFoundError(table)
	}

	columns, err := migrator.ColumnTypes(table)
	if err != nil {
		return nil, utils.NewDatabaseError(err, fmt.Sprintf("failed to read columns of %s", table))
	}

	raw := make(schema.RawAttributes, 0, len(columns))
	for _, col := range columns {
		raw = append(raw, columnToRawAttribute(col))
	}
	return raw, nil
}

func columnToRawAttribute(col gorm.ColumnType) schema.RawAttribute {
	// the full column type keeps enum literals and tinyint(1) widths
	columnType, ok := col.ColumnType()
	if !ok || columnType == "" {
		columnType = col.DatabaseTypeName()
	}

	attr := schema.RawAttribute{
		Name: col.Name(),
		Type: mapper.CanonicalRef(columnType),
	}
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(columnType)), "ENUM") {
		attr.Values = utils.ParseEnumValues(columnType)
	}

	if nullable, ok := col.Nullable(); ok {
		attr.AllowNull = &nullable
	}
	if pk, ok := col.PrimaryKey(); ok && pk {
		notNull := false
		attr.AllowNull = &notNull
	}
	if def, ok := col.DefaultValue(); ok && def != "" && !strings.EqualFold(def, "NULL") {
		attr.HasDefault = true
		attr.DefaultValue = def
	}
	if ai, ok := col.AutoIncrement(); ok && ai {
		attr.AutoIncrementIdentity = true
	}
	return attr
}
