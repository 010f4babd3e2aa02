package validation

import (
	"fmt"
	"reflect"
	"strings"
)

// Kind identifies the shape a Schema accepts
type Kind string

const (
	KindInt     Kind = "int"
	KindNumber  Kind = "number"
	KindString  Kind = "string"
	KindUUID    Kind = "uuid"
	KindBoolean Kind = "boolean"
	KindDate    Kind = "date"
	KindBytes   Kind = "bytes"
	KindNull    Kind = "null"
	KindLiteral Kind = "literal"
	KindUnion   Kind = "union"
	KindRecord  Kind = "record"
	KindArray   Kind = "array"
	KindAny     Kind = "any"
	KindObject  Kind = "object"
)

// Wrapper names recorded on a schema in application order
const (
	WrapNullable = "nullable"
	WrapOptional = "optional"
)

// Schema is a validator node for a single value
type Schema interface {
	// Validate returns a *Error describing every issue found, or nil
	Validate(value any) error
	// Nullable returns a copy that also accepts nil
	Nullable() Schema
	// Optional returns a copy that may be absent from an enclosing object
	Optional() Schema
	IsNullable() bool
	IsOptional() bool
	Kind() Kind
	Describe() Description
}

// Issue codes
const (
	CodeInvalidType      = "invalid_type"
	CodeInvalidLiteral   = "invalid_literal"
	CodeInvalidUnion     = "invalid_union"
	CodeInvalidString    = "invalid_string"
	CodeRequired         = "required"
	CodeUnrecognizedKeys = "unrecognized_keys"
	CodeCustom           = "custom"
)

// Issue is a single validation failure
type Issue struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error collects the issues of a failed validation
type Error struct {
	Issues []Issue `json:"issues"`
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		if issue.Path == "" {
			parts[i] = issue.Message
			continue
		}
		parts[i] = fmt.Sprintf("%s: %s", issue.Path, issue.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Description is the declarative, JSON-serializable form of a schema
type Description struct {
	Type       string        `json:"type"`
	Format     string        `json:"format,omitempty"`
	Value      string        `json:"value,omitempty"`
	Wrappers   []string      `json:"wrappers,omitempty"`
	Options    []Description `json:"options,omitempty"`
	Items      *Description  `json:"items,omitempty"`
	Values     *Description  `json:"values,omitempty"`
	Properties []Property    `json:"properties,omitempty"`
	Strict     bool          `json:"strict,omitempty"`
}

// Property is a named member of an object description
type Property struct {
	Name   string      `json:"name"`
	Schema Description `json:"schema"`
}

// Nullable reports whether the description carries the nullable wrapper
func (d Description) Nullable() bool {
	return hasWrapper(d.Wrappers, WrapNullable)
}

// Optional reports whether the description carries the optional wrapper
func (d Description) Optional() bool {
	return hasWrapper(d.Wrappers, WrapOptional)
}

type checkFunc func(value any, path string) []Issue

// node is the leaf and combinator implementation behind every Schema except Object
type node struct {
	kind     Kind
	check    checkFunc
	describe func() Description
	wrappers []string
}

func newNode(kind Kind, check checkFunc, describe func() Description) *node {
	return &node{kind: kind, check: check, describe: describe}
}

func (n *node) Validate(value any) error {
	return asError(n.validateAt(value, ""))
}

func (n *node) validateAt(value any, path string) []Issue {
	value = indirect(value)
	if value == nil && n.IsNullable() {
		return nil
	}
	return n.check(value, path)
}

func (n *node) Nullable() Schema {
	return n.wrap(WrapNullable)
}

func (n *node) Optional() Schema {
	return n.wrap(WrapOptional)
}

func (n *node) wrap(wrapper string) *node {
	c := *n
	c.wrappers = append(append([]string(nil), n.wrappers...), wrapper)
	return &c
}

func (n *node) IsNullable() bool {
	return hasWrapper(n.wrappers, WrapNullable)
}

func (n *node) IsOptional() bool {
	return hasWrapper(n.wrappers, WrapOptional)
}

func (n *node) Kind() Kind {
	return n.kind
}

func (n *node) Describe() Description {
	d := n.describe()
	d.Wrappers = append([]string(nil), n.wrappers...)
	return d
}

// pathValidator is implemented by every schema in this package so nested
// issues carry the full path
type pathValidator interface {
	validateAt(value any, path string) []Issue
}

// validateChild validates value against s, preserving paths for schemas
// defined outside this package
func validateChild(s Schema, value any, path string) []Issue {
	if pv, ok := s.(pathValidator); ok {
		return pv.validateAt(value, path)
	}
	err := s.Validate(value)
	if err == nil {
		return nil
	}
	if verr, ok := err.(*Error); ok {
		issues := make([]Issue, len(verr.Issues))
		for i, issue := range verr.Issues {
			issue.Path = joinPath(path, issue.Path)
			issues[i] = issue
		}
		return issues
	}
	return []Issue{{Path: path, Code: CodeCustom, Message: err.Error()}}
}

func asError(issues []Issue) error {
	if len(issues) == 0 {
		return nil
	}
	return &Error{Issues: issues}
}

func hasWrapper(wrappers []string, name string) bool {
	for _, w := range wrappers {
		if w == name {
			return true
		}
	}
	return false
}

func joinPath(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	default:
		return parent + "." + child
	}
}

// indirect dereferences pointers; a nil pointer becomes a nil interface
func indirect(value any) any {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

func typeIssue(path, expected string, value any) Issue {
	return Issue{
		Path:    path,
		Code:    CodeInvalidType,
		Message: fmt.Sprintf("expected %s, received %s", expected, typeName(value)),
	}
}

func typeName(value any) string {
	if value == nil {
		return "null"
	}
	return reflect.TypeOf(value).String()
}
