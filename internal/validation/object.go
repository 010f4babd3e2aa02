package validation

import (
	"reflect"
	"sort"
	"strings"
)

// Field is a named member of an Object
type Field struct {
	Name   string
	Schema Schema
}

// Object validates string-keyed maps against an ordered set of fields.
// Unknown keys are ignored unless the object is strict.
type Object struct {
	fields   []Field
	index    map[string]int
	strict   bool
	wrappers []string
}

// NewObject creates an object schema. A repeated name replaces the earlier
// field in place.
func NewObject(fields ...Field) *Object {
	o := &Object{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		o.set(f)
	}
	return o
}

func (o *Object) set(f Field) {
	if i, exists := o.index[f.Name]; exists {
		o.fields[i] = f
		return
	}
	o.index[f.Name] = len(o.fields)
	o.fields = append(o.fields, f)
}

// Keys returns the field names in declaration order
func (o *Object) Keys() []string {
	keys := make([]string, len(o.fields))
	for i, f := range o.fields {
		keys[i] = f.Name
	}
	return keys
}

// Shape returns a copy of the fields in declaration order
func (o *Object) Shape() []Field {
	return append([]Field(nil), o.fields...)
}

// Field returns the schema of a field
func (o *Object) Field(name string) (Schema, bool) {
	i, ok := o.index[name]
	if !ok {
		return nil, false
	}
	return o.fields[i].Schema, true
}

// Len returns the number of fields
func (o *Object) Len() int {
	return len(o.fields)
}

// Strict returns a copy that rejects keys not declared as fields
func (o *Object) Strict() *Object {
	c := o.clone()
	c.strict = true
	return c
}

// IsStrict reports whether unknown keys are rejected
func (o *Object) IsStrict() bool {
	return o.strict
}

func (o *Object) Validate(value any) error {
	return asError(o.validateAt(value, ""))
}

func (o *Object) validateAt(value any, path string) []Issue {
	value = indirect(value)
	if value == nil {
		if o.IsNullable() {
			return nil
		}
		return []Issue{typeIssue(path, "object", value)}
	}

	entries, ok := toEntries(value)
	if !ok {
		return []Issue{typeIssue(path, "object", value)}
	}

	var issues []Issue
	for _, f := range o.fields {
		fieldPath := joinPath(path, f.Name)
		v, present := entries[f.Name]
		if !present {
			if !f.Schema.IsOptional() {
				issues = append(issues, Issue{Path: fieldPath, Code: CodeRequired, Message: "required"})
			}
			continue
		}
		issues = append(issues, validateChild(f.Schema, v, fieldPath)...)
	}

	if o.strict {
		var unknown []string
		for k := range entries {
			if _, declared := o.index[k]; !declared {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			issues = append(issues, Issue{
				Path:    path,
				Code:    CodeUnrecognizedKeys,
				Message: "unrecognized keys: " + strings.Join(unknown, ", "),
			})
		}
	}
	return issues
}

func (o *Object) Nullable() Schema {
	return o.wrap(WrapNullable)
}

func (o *Object) Optional() Schema {
	return o.wrap(WrapOptional)
}

func (o *Object) wrap(wrapper string) *Object {
	c := o.clone()
	c.wrappers = append(c.wrappers, wrapper)
	return c
}

func (o *Object) IsNullable() bool {
	return hasWrapper(o.wrappers, WrapNullable)
}

func (o *Object) IsOptional() bool {
	return hasWrapper(o.wrappers, WrapOptional)
}

func (o *Object) Kind() Kind {
	return KindObject
}

func (o *Object) Describe() Description {
	d := Description{
		Type:       "object",
		Strict:     o.strict,
		Wrappers:   append([]string(nil), o.wrappers...),
		Properties: make([]Property, len(o.fields)),
	}
	for i, f := range o.fields {
		d.Properties[i] = Property{Name: f.Name, Schema: f.Schema.Describe()}
	}
	return d
}

func (o *Object) clone() *Object {
	c := &Object{
		fields:   append([]Field(nil), o.fields...),
		index:    make(map[string]int, len(o.index)),
		strict:   o.strict,
		wrappers: append([]string(nil), o.wrappers...),
	}
	for k, v := range o.index {
		c.index[k] = v
	}
	return c
}

func toEntries(value any) (map[string]any, bool) {
	if m, ok := value.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	entries := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries[iter.Key().String()] = iter.Value().Interface()
	}
	return entries, true
}
