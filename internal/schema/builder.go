package schema

import (
	"fmt"

	"schema-forge/internal/utils"
	"schema-forge/internal/validation"
)

// Refinement overrides the generated validator of one field. Use Replace or Refine.
type Refinement struct {
	replace validation.Schema
	refine  func(validation.Schema) validation.Schema
}

// Replace uses s verbatim instead of the generated validator
func Replace(s validation.Schema) Refinement {
	return Refinement{replace: s}
}

// Refine derives the field's validator from the generated base validator
func Refine(fn func(base validation.Schema) validation.Schema) Refinement {
	return Refinement{refine: fn}
}

// IsZero reports whether the refinement overrides nothing
func (r Refinement) IsZero() bool {
	return r.replace == nil && r.refine == nil
}

func (r Refinement) apply(base validation.Schema) validation.Schema {
	if r.refine != nil {
		return r.refine(base)
	}
	return r.replace
}

// Refinements maps attribute names to their overrides
type Refinements map[string]Refinement

type buildOptions struct {
	factory validation.Factory
	strict  bool
}

// Option configures schema building
type Option func(*buildOptions)

// WithFactory builds validators with f instead of the default factory
func WithFactory(f validation.Factory) Option {
	return func(o *buildOptions) {
		if f != nil {
			o.factory = f
		}
	}
}

// WithStrict rejects keys that are not part of the schema
func WithStrict(strict bool) Option {
	return func(o *buildOptions) {
		o.strict = strict
	}
}

func newBuildOptions(opts []Option) *buildOptions {
	o := &buildOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.factory == nil {
		o.factory = validation.DefaultFactory()
	}
	return o
}

// BuildSchema assembles an object schema from descriptors under the given
// conditions. A refinement bypasses the automatic nullable and optional
// wrapping; otherwise nullable is applied before optional. A refinement that
// yields no schema fails the build.
func BuildSchema(descriptors Descriptors, conditions Conditions, refinements Refinements, opts ...Option) (*validation.Object, error) {
	o := newBuildOptions(opts)

	fields := make([]validation.Field, 0, len(descriptors))
	for _, d := range descriptors {
		if !conditions.Include(d.ColumnDescriptor) {
			continue
		}
		s := ColumnDescriptorToValidator(d.ColumnDescriptor, o.factory)
		if r, ok := refinements[d.Name]; ok && !r.IsZero() {
			s = r.apply(s)
			if s == nil {
				return nil, utils.NewErrorBuilder(utils.ErrCodeModelDefinition).
					WithMessage("Refinement returned no schema").
					WithDetails(fmt.Sprintf("refinement of field %q returned nil", d.Name)).
					Build()
			}
		} else {
			if conditions.Nullable(d.ColumnDescriptor) {
				s = s.Nullable()
			}
			if conditions.Optional(d.ColumnDescriptor) {
				s = s.Optional()
			}
		}
		fields = append(fields, validation.Field{Name: d.Name, Schema: s})
	}

	obj := o.factory.Object(fields...)
	if o.strict {
		obj = obj.Strict()
	}
	return obj, nil
}
