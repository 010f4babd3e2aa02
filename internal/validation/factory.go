package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Factory builds validator nodes. Alternate implementations can be passed to
// the schema builders in place of the default one.
type Factory interface {
	Int() Schema
	Number() Schema
	String() Schema
	UUID() Schema
	Boolean() Schema
	Date() Schema
	Bytes() Schema
	Null() Schema
	Any() Schema
	Literal(value string) Schema
	Union(options ...Schema) Schema
	Record(key, value Schema) Schema
	Array(element Schema) Schema
	Object(fields ...Field) *Object
}

// StandardFactory builds nodes backed by a go-playground validator instance
type StandardFactory struct {
	validate *validator.Validate
}

var defaultFactory = sync.OnceValue(func() *StandardFactory {
	return NewFactory(validator.New())
})

// DefaultFactory returns the shared factory backed by a default validator
func DefaultFactory() *StandardFactory {
	return defaultFactory()
}

// NewFactory creates a factory using the given validator instance, which may
// carry custom tags. A nil instance gets a fresh default validator.
func NewFactory(validate *validator.Validate) *StandardFactory {
	if validate == nil {
		validate = validator.New()
	}
	return &StandardFactory{validate: validate}
}

// Validator returns the underlying go-playground instance
func (f *StandardFactory) Validator() *validator.Validate {
	return f.validate
}

func (f *StandardFactory) Int() Schema {
	return newNode(KindInt, func(value any, path string) []Issue {
		n, ok := toFloat(value)
		if !ok {
			return []Issue{typeIssue(path, "integer", value)}
		}
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return []Issue{{Path: path, Code: CodeInvalidType, Message: "expected integer, received float"}}
		}
		return nil
	}, func() Description { return Description{Type: "number", Format: "int"} })
}

func (f *StandardFactory) Number() Schema {
	return newNode(KindNumber, func(value any, path string) []Issue {
		n, ok := toFloat(value)
		if !ok || math.IsNaN(n) {
			return []Issue{typeIssue(path, "number", value)}
		}
		return nil
	}, func() Description { return Description{Type: "number"} })
}

func (f *StandardFactory) String() Schema {
	return newNode(KindString, func(value any, path string) []Issue {
		if _, ok := value.(string); !ok {
			return []Issue{typeIssue(path, "string", value)}
		}
		return nil
	}, func() Description { return Description{Type: "string"} })
}

// UUID accepts strings in UUID lexical format
func (f *StandardFactory) UUID() Schema {
	return newNode(KindUUID, func(value any, path string) []Issue {
		s, ok := value.(string)
		if !ok {
			return []Issue{typeIssue(path, "string", value)}
		}
		if err := f.validate.Var(s, "uuid"); err != nil {
			return []Issue{{Path: path, Code: CodeInvalidString, Message: "invalid uuid"}}
		}
		return nil
	}, func() Description { return Description{Type: "string", Format: "uuid"} })
}

func (f *StandardFactory) Boolean() Schema {
	return newNode(KindBoolean, func(value any, path string) []Issue {
		if _, ok := value.(bool); !ok {
			return []Issue{typeIssue(path, "boolean", value)}
		}
		return nil
	}, func() Description { return Description{Type: "boolean"} })
}

// Date accepts time.Time values and RFC 3339 or YYYY-MM-DD strings, since
// JSON payloads carry timestamps as text
func (f *StandardFactory) Date() Schema {
	return newNode(KindDate, func(value any, path string) []Issue {
		switch v := value.(type) {
		case time.Time:
			if v.IsZero() {
				return []Issue{{Path: path, Code: CodeInvalidType, Message: "invalid date"}}
			}
			return nil
		case string:
			if _, err := time.Parse(time.RFC3339Nano, v); err == nil {
				return nil
			}
			if _, err := time.Parse(time.DateOnly, v); err == nil {
				return nil
			}
			return []Issue{{Path: path, Code: CodeInvalidType, Message: "invalid date"}}
		default:
			return []Issue{typeIssue(path, "date", value)}
		}
	}, func() Description { return Description{Type: "date"} })
}

// Bytes accepts raw bytes and, for JSON payloads, standard base64 strings
// the way encoding/json marshals []byte
func (f *StandardFactory) Bytes() Schema {
	return newNode(KindBytes, func(value any, path string) []Issue {
		switch v := value.(type) {
		case []byte, json.RawMessage:
			return nil
		case string:
			if v == "" {
				return nil
			}
			if err := f.validate.Var(v, "base64"); err != nil {
				return []Issue{{Path: path, Code: CodeInvalidString, Message: "invalid base64"}}
			}
			return nil
		default:
			return []Issue{typeIssue(path, "bytes", value)}
		}
	}, func() Description { return Description{Type: "bytes", Format: "base64"} })
}

func (f *StandardFactory) Null() Schema {
	return newNode(KindNull, func(value any, path string) []Issue {
		if value != nil {
			return []Issue{typeIssue(path, "null", value)}
		}
		return nil
	}, func() Description { return Description{Type: "null"} })
}

// Any accepts every value, including nil
func (f *StandardFactory) Any() Schema {
	return newNode(KindAny, func(any, string) []Issue {
		return nil
	}, func() Description { return Description{Type: "any"} })
}

func (f *StandardFactory) Literal(literal string) Schema {
	return newNode(KindLiteral, func(value any, path string) []Issue {
		if s, ok := value.(string); ok && s == literal {
			return nil
		}
		return []Issue{{
			Path:    path,
			Code:    CodeInvalidLiteral,
			Message: fmt.Sprintf("expected %q", literal),
		}}
	}, func() Description { return Description{Type: "literal", Value: literal} })
}

// Union accepts a value matching at least one of the options
func (f *StandardFactory) Union(options ...Schema) Schema {
	return newNode(KindUnion, func(value any, path string) []Issue {
		for _, option := range options {
			if len(validateChild(option, value, path)) == 0 {
				return nil
			}
		}
		return []Issue{{Path: path, Code: CodeInvalidUnion, Message: "value does not match any allowed type"}}
	}, func() Description {
		d := Description{Type: "union", Options: make([]Description, len(options))}
		for i, option := range options {
			d.Options[i] = option.Describe()
		}
		return d
	})
}

// Record accepts maps with string keys whose values all match value
func (f *StandardFactory) Record(key, value Schema) Schema {
	return newNode(KindRecord, func(v any, path string) []Issue {
		rv := reflect.ValueOf(v)
		if v == nil || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
			return []Issue{typeIssue(path, "record", v)}
		}
		var issues []Issue
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			childPath := joinPath(path, k)
			issues = append(issues, validateChild(key, k, childPath)...)
			issues = append(issues, validateChild(value, iter.Value().Interface(), childPath)...)
		}
		return issues
	}, func() Description {
		values := value.Describe()
		return Description{Type: "record", Values: &values}
	})
}

// Array accepts slices and arrays whose elements all match element
func (f *StandardFactory) Array(element Schema) Schema {
	return newNode(KindArray, func(v any, path string) []Issue {
		rv := reflect.ValueOf(v)
		if v == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return []Issue{typeIssue(path, "array", v)}
		}
		var issues []Issue
		for i := 0; i < rv.Len(); i++ {
			issues = append(issues, validateChild(element, rv.Index(i).Interface(), joinPath(path, fmt.Sprint(i)))...)
		}
		return issues
	}, func() Description {
		items := element.Describe()
		return Description{Type: "array", Items: &items}
	})
}

func (f *StandardFactory) Object(fields ...Field) *Object {
	return NewObject(fields...)
}

// Tag refines base with a go-playground validation tag such as "email,max=255".
// The result keeps the nullable and optional wrappers of base.
func (f *StandardFactory) Tag(base Schema, tag string) Schema {
	refined := newNode(base.Kind(), func(value any, path string) []Issue {
		if issues := validateChild(base, value, path); len(issues) > 0 {
			return issues
		}
		if value == nil {
			return nil
		}
		err := f.validate.Var(value, tag)
		if err == nil {
			return nil
		}
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []Issue{{Path: path, Code: CodeCustom, Message: err.Error()}}
		}
		issues := make([]Issue, len(fieldErrs))
		for i, fe := range fieldErrs {
			issues[i] = Issue{Path: path, Code: CodeCustom, Message: fmt.Sprintf("failed on the '%s' tag", fe.Tag())}
		}
		return issues
	}, func() Description {
		d := base.Describe()
		d.Wrappers = nil
		if d.Format != "" {
			d.Format += ","
		}
		d.Format += tag
		return d
	})
	refined.wrappers = base.Describe().Wrappers
	return refined
}

// toFloat converts any Go numeric value or json.Number
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case bool, nil:
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
