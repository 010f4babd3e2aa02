package service

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"schema-forge/internal/column"
	"schema-forge/internal/database/metadata"
	"schema-forge/internal/ddl"
	"schema-forge/internal/schema"
	"schema-forge/internal/utils"
)

// ModelOrigin says where a registered model's metadata comes from
type ModelOrigin string

const (
	OriginAttributes ModelOrigin = "attributes"
	OriginModel      ModelOrigin = "model"
	OriginDDL        ModelOrigin = "ddl"
	OriginTable      ModelOrigin = "table"
)

// ModelInfo summarizes a registered model
type ModelInfo struct {
	Name       string      `json:"name"`
	Origin     ModelOrigin `json:"origin"`
	Attributes []string    `json:"attributes,omitempty"`
}

type registeredModel struct {
	name        string
	origin      ModelOrigin
	source      schema.Source
	table       string
	refinements schema.Refinements
}

// ModelRegistry holds the named schema sources served by the validation API.
// Live tables are introspected lazily and their metadata is cached.
type ModelRegistry struct {
	mu        sync.RWMutex
	models    map[string]*registeredModel
	cache     *metadata.SchemaCache
	extractor metadata.Extractor
}

// NewModelRegistry creates a registry. extractor may be nil when no database
// is configured, in which case RegisterTable fails.
func NewModelRegistry(cache *metadata.SchemaCache, extractor metadata.Extractor) *ModelRegistry {
	if cache == nil {
		cache = metadata.NewSchemaCache(0)
	}
	return &ModelRegistry{
		models:    make(map[string]*registeredModel),
		cache:     cache,
		extractor: extractor,
	}
}

// RegisterAttributes registers column declarations under a name
func (r *ModelRegistry) RegisterAttributes(name string, attributes column.Attributes) error {
	return r.register(&registeredModel{name: name, origin: OriginAttributes, source: schema.FromAttributes(attributes)})
}

// RegisterModel registers a defined model under a name
func (r *ModelRegistry) RegisterModel(name string, def schema.ModelDefinition) error {
	return r.register(&registeredModel{name: name, origin: OriginModel, source: schema.FromModel(def)})
}

// RegisterDDL registers every parsed table under its table name
func (r *ModelRegistry) RegisterDDL(tables ...*ddl.Table) error {
	for _, t := range tables {
		if t == nil {
			continue
		}
		if err := r.register(&registeredModel{name: t.Name, origin: OriginDDL, source: schema.FromModel(t)}); err != nil {
			return err
		}
	}
	return nil
}

// LoadDDLFile parses a DDL file and registers its tables
func (r *ModelRegistry) LoadDDLFile(parser *ddl.Parser, path string) (int, error) {
	tables, err := parser.ParseFile(path)
	if err != nil {
		return 0, err
	}
	if err := r.RegisterDDL(tables...); err != nil {
		return 0, err
	}
	return len(tables), nil
}

// RegisterTable registers a live database table, introspected on first use
func (r *ModelRegistry) RegisterTable(table string) error {
	if r.extractor == nil {
		return utils.NewErrorBuilder(utils.ErrCodeServiceUnavailable).
			WithDetails("database is not configured, cannot register table " + table).
			Build()
	}
	return r.register(&registeredModel{name: table, origin: OriginTable, table: table})
}

// SetRefinements attaches per-attribute refinements applied to every variant of a model
func (r *ModelRegistry) SetRefinements(name string, refinements schema.Refinements) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.models[name]
	if !ok {
		return utils.NewModelNotFoundError(name)
	}
	m.refinements = refinements
	return nil
}

func (r *ModelRegistry) register(m *registeredModel) error {
	if strings.TrimSpace(m.name) == "" {
		return utils.NewErrorBuilder(utils.ErrCodeModelDefinition).
			WithDetails("model name is required").
			Build()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.models[m.name]; exists {
		log.Printf("Model %s re-registered from %s", m.name, m.origin)
	}
	r.models[m.name] = m
	if m.table != "" {
		r.cache.Invalidate(m.table)
	}
	return nil
}

// Source resolves a model to a schema source and its refinements
func (r *ModelRegistry) Source(ctx context.Context, name string) (schema.Source, schema.Refinements, error) {
	r.mu.RLock()
	m, ok := r.models[name]
	r.mu.RUnlock()
	if !ok {
		return schema.Source{}, nil, utils.NewModelNotFoundError(name)
	}

	if m.origin != OriginTable {
		return m.source, m.refinements, nil
	}

	attrs, err := r.cache.Refresh(ctx, m.table, r.extractor)
	if err != nil {
		return schema.Source{}, nil, err
	}
	return schema.FromRawAttributes(attrs), m.refinements, nil
}

// Invalidate drops cached metadata of a live table model. Models of other
// origins have nothing cached and are left as they are.
func (r *ModelRegistry) Invalidate(name string) error {
	r.mu.RLock()
	m, ok := r.models[name]
	r.mu.RUnlock()
	if !ok {
		return utils.NewModelNotFoundError(name)
	}
	if m.table != "" {
		r.cache.Invalidate(m.table)
	}
	return nil
}

// InvalidateAll drops the cached metadata of every live table model
func (r *ModelRegistry) InvalidateAll() {
	r.cache.Clear()
}

// List returns the registered models sorted by name. Attribute names of live
// tables are listed only when their metadata can be read.
func (r *ModelRegistry) List(ctx context.Context) []ModelInfo {
	r.mu.RLock()
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)

	infos := make([]ModelInfo, 0, len(names))
	for _, name := range names {
		r.mu.RLock()
		m, ok := r.models[name]
		r.mu.RUnlock()
		if !ok {
			continue
		}

		info := ModelInfo{Name: name, Origin: m.origin}
		if src, _, err := r.Source(ctx, name); err == nil {
			if descriptors, err := schema.GetDescriptors(src); err == nil {
				info.Attributes = descriptors.Names()
			}
		}
		infos = append(infos, info)
	}
	return infos
}

// Len returns the number of registered models
func (r *ModelRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

// CacheStats returns the live table metadata cache statistics
func (r *ModelRegistry) CacheStats() metadata.CacheStats {
	return r.cache.GetStats()
}
