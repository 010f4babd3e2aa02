package schema

import (
	"strings"

	"schema-forge/internal/model"
	"schema-forge/internal/utils"
)

// Conditions decide per column whether it is part of a schema and how it is wrapped
type Conditions struct {
	// Include omits the column from the schema when false
	Include func(d model.ColumnDescriptor) bool
	// Optional marks the column as optional
	Optional func(d model.ColumnDescriptor) bool
	// Nullable marks the column as nullable
	Nullable func(d model.ColumnDescriptor) bool
}

// SelectConditions describe rows as they are read back
var SelectConditions = Conditions{
	Include:  func(model.ColumnDescriptor) bool { return true },
	Optional: func(d model.ColumnDescriptor) bool { return d.AllowNull },
	Nullable: func(d model.ColumnDescriptor) bool { return d.AllowNull },
}

// InsertConditions omit generated columns and relax nullable or defaulted ones
var InsertConditions = Conditions{
	Include:  func(d model.ColumnDescriptor) bool { return !d.IsGenerated },
	Optional: func(d model.ColumnDescriptor) bool { return d.AllowNull || d.HasDefault },
	Nullable: func(d model.ColumnDescriptor) bool { return d.AllowNull },
}

// UpdateConditions omit generated columns and make every field optional
var UpdateConditions = Conditions{
	Include:  func(d model.ColumnDescriptor) bool { return !d.IsGenerated },
	Optional: func(model.ColumnDescriptor) bool { return true },
	Nullable: func(d model.ColumnDescriptor) bool { return d.AllowNull },
}

// Variant names one of the three schema shapes
type Variant string

const (
	VariantSelect Variant = "select"
	VariantInsert Variant = "insert"
	VariantUpdate Variant = "update"
)

// Variants lists the supported variants
var Variants = []Variant{VariantSelect, VariantInsert, VariantUpdate}

// ParseVariant parses a variant name, case-insensitively
func ParseVariant(name string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(name)))
	if _, err := ConditionsFor(v); err != nil {
		return "", err
	}
	return v, nil
}

// ConditionsFor returns the conditions of a variant
func ConditionsFor(v Variant) (Conditions, error) {
	switch v {
	case VariantSelect:
		return SelectConditions, nil
	case VariantInsert:
		return InsertConditions, nil
	case VariantUpdate:
		return UpdateConditions, nil
	default:
		return Conditions{}, utils.NewErrorBuilder(utils.ErrCodeInvalidVariant).
			WithDetails("variant " + string(v) + " is not one of select, insert, update").
			Build()
	}
}
