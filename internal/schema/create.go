package schema

import (
	"schema-forge/internal/validation"
)

// CreateSelectSchema builds the schema of rows as they are read back
func CreateSelectSchema(src Source, refinements Refinements, opts ...Option) (*validation.Object, error) {
	return createSchema(src, SelectConditions, refinements, opts)
}

// CreateInsertSchema builds the schema of insert payloads. Generated columns
// are omitted and columns that are nullable or have a default are optional.
func CreateInsertSchema(src Source, refinements Refinements, opts ...Option) (*validation.Object, error) {
	return createSchema(src, InsertConditions, refinements, opts)
}

// CreateUpdateSchema builds the schema of partial update payloads. Generated
// columns are omitted and every field is optional.
func CreateUpdateSchema(src Source, refinements Refinements, opts ...Option) (*validation.Object, error) {
	return createSchema(src, UpdateConditions, refinements, opts)
}

// CreateSchema builds the schema of the given variant
func CreateSchema(src Source, v Variant, refinements Refinements, opts ...Option) (*validation.Object, error) {
	conditions, err := ConditionsFor(v)
	if err != nil {
		return nil, err
	}
	return createSchema(src, conditions, refinements, opts)
}

func createSchema(src Source, conditions Conditions, refinements Refinements, opts []Option) (*validation.Object, error) {
	descriptors, err := GetDescriptors(src)
	if err != nil {
		return nil, err
	}
	return BuildSchema(descriptors, conditions, refinements, opts...)
}
