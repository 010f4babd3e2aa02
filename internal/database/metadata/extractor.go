package metadata

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"schema-forge/internal/introspect"
	"schema-forge/internal/schema"
	"schema-forge/internal/utils"
)

// Extractor reads attribute metadata of a table
type Extractor interface {
	ExtractTable(ctx context.Context, table string) (schema.RawAttributes, error)
}

// ExtractorFunc adapts a function to Extractor
type ExtractorFunc func(ctx context.Context, table string) (schema.RawAttributes, error)

func (f ExtractorFunc) ExtractTable(ctx context.Context, table string) (schema.RawAttributes, error) {
	return f(ctx, table)
}

// MetadataExtractor extracts table metadata from a live database
type MetadataExtractor struct {
	db *gorm.DB
}

// NewMetadataExtractor creates a new metadata extractor
func NewMetadataExtractor(db *gorm.DB) *MetadataExtractor {
	return &MetadataExtractor{db: db}
}

// ExtractTable reads the columns of a table in ordinal order
func (e *MetadataExtractor) ExtractTable(ctx context.Context, table string) (schema.RawAttributes, error) {
	return introspect.TableAttributes(ctx, e.db, table)
}

// ListTables lists the tables of the connected database
func (e *MetadataExtractor) ListTables(ctx context.Context) ([]string, error) {
	if e.db == nil {
		return nil, utils.NewErrorBuilder(utils.ErrCodeServiceUnavailable).
			WithDetails("database is not configured").
			Build()
	}
	tables, err := e.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}
