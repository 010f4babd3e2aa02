package service

import (
	"context"
	"errors"

	"schema-forge/internal/schema"
	"schema-forge/internal/validation"
)

type SchemaService interface {
	ListModels(ctx context.Context) []ModelInfo
	Describe(ctx context.Context, model string, variant schema.Variant) (*SchemaResponse, error)
	Validate(ctx context.Context, model string, variant schema.Variant, payload map[string]any) (*ValidationResult, error)
}

// SchemaResponse is the declarative form of a model's schema
type SchemaResponse struct {
	Model   string                 `json:"model"`
	Variant schema.Variant         `json:"variant"`
	Schema  validation.Description `json:"schema"`
}

// ValidationResult is the outcome of validating one payload
type ValidationResult struct {
	Model   string             `json:"model"`
	Variant schema.Variant     `json:"variant"`
	Valid   bool               `json:"valid"`
	Issues  []validation.Issue `json:"issues,omitempty"`
}

// ValidationObserver is notified of every validation outcome
type ValidationObserver interface {
	ObserveValidation(model string, variant schema.Variant, valid bool)
}

type schemaService struct {
	registry *ModelRegistry
	factory  validation.Factory
	strict   bool
	observer ValidationObserver
}

// SchemaServiceOption configures a schema service
type SchemaServiceOption func(*schemaService)

// WithFactory sets the validation factory used to build schemas
func WithFactory(f validation.Factory) SchemaServiceOption {
	return func(s *schemaService) { s.factory = f }
}

// WithStrict rejects unknown keys in validated payloads
func WithStrict(strict bool) SchemaServiceOption {
	return func(s *schemaService) { s.strict = strict }
}

// WithObserver reports validation outcomes, e.g. to metrics
func WithObserver(o ValidationObserver) SchemaServiceOption {
	return func(s *schemaService) { s.observer = o }
}

// NewSchemaService creates a new instance of SchemaService
func NewSchemaService(registry *ModelRegistry, opts ...SchemaServiceOption) SchemaService {
	s := &schemaService{
		registry: registry,
		factory:  validation.DefaultFactory(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *schemaService) ListModels(ctx context.Context) []ModelInfo {
	return s.registry.List(ctx)
}

func (s *schemaService) Describe(ctx context.Context, model string, variant schema.Variant) (*SchemaResponse, error) {
	obj, err := s.build(ctx, model, variant)
	if err != nil {
		return nil, err
	}
	return &SchemaResponse{Model: model, Variant: variant, Schema: obj.Describe()}, nil
}

func (s *schemaService) Validate(ctx context.Context, model string, variant schema.Variant, payload map[string]any) (*ValidationResult, error) {
	obj, err := s.build(ctx, model, variant)
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{Model: model, Variant: variant, Valid: true}
	if err := obj.Validate(payload); err != nil {
		var verr *validation.Error
		if !errors.As(err, &verr) {
			return nil, err
		}
		result.Valid = false
		result.Issues = verr.Issues
	}

	if s.observer != nil {
		s.observer.ObserveValidation(model, variant, result.Valid)
	}
	return result, nil
}

// build creates a fresh schema per call so live table changes are picked up
// once the metadata cache expires
func (s *schemaService) build(ctx context.Context, model string, variant schema.Variant) (*validation.Object, error) {
	src, refinements, err := s.registry.Source(ctx, model)
	if err != nil {
		return nil, err
	}
	return schema.CreateSchema(src, variant, refinements,
		schema.WithFactory(s.factory),
		schema.WithStrict(s.strict),
	)
}
