package datatype

import (
	"fmt"
	"strconv"
	"strings"
)

// Keyer is implemented by structured type tokens that expose an identifying key
type Keyer interface {
	Key() string
}

// DataType is an engine type token: a canonical key plus optional arguments
type DataType struct {
	key     string
	args    []string
	values  []string
	element *DataType
}

// Base type tokens without arguments
var (
	INTEGER   = DataType{key: "INTEGER"}
	BIGINT    = DataType{key: "BIGINT"}
	TINYINT   = DataType{key: "TINYINT"}
	SMALLINT  = DataType{key: "SMALLINT"}
	MEDIUMINT = DataType{key: "MEDIUMINT"}
	FLOAT     = DataType{key: "FLOAT"}
	REAL      = DataType{key: "REAL"}
	DOUBLE    = DataType{key: "DOUBLE"}
	DECIMAL   = DataType{key: "DECIMAL"}
	NUMBER    = DataType{key: "NUMBER"}
	STRING    = DataType{key: "STRING"}
	CHAR      = DataType{key: "CHAR"}
	CITEXT    = DataType{key: "CITEXT"}
	CIDR      = DataType{key: "CIDR"}
	INET      = DataType{key: "INET"}
	MACADDR   = DataType{key: "MACADDR"}
	TEXT      = DataType{key: "TEXT"}
	TSVECTOR  = DataType{key: "TSVECTOR"}
	BOOLEAN   = DataType{key: "BOOLEAN"}
	DATE      = DataType{key: "DATE"}
	DATEONLY  = DataType{key: "DATEONLY"}
	TIME      = DataType{key: "TIME"}
	NOW       = DataType{key: "NOW"}
	UUID      = DataType{key: "UUID"}
	UUIDV1    = DataType{key: "UUIDV1"}
	UUIDV4    = DataType{key: "UUIDV4"}
	JSON      = DataType{key: "JSON"}
	JSONB     = DataType{key: "JSONB"}
	HSTORE    = DataType{key: "HSTORE"}
	BLOB      = DataType{key: "BLOB"}
	ENUM      = DataType{key: "ENUM"}
	GEOMETRY  = DataType{key: "GEOMETRY"}
	GEOGRAPHY = DataType{key: "GEOGRAPHY"}
	VIRTUAL   = DataType{key: "VIRTUAL"}
	ABSTRACT  = DataType{key: "ABSTRACT"}
)

// New creates a token for an arbitrary key
func New(key string, args ...string) DataType {
	return DataType{key: strings.ToUpper(key), args: args}
}

// String returns a variable length string type
func String(length int) DataType {
	return STRING.withInts(length)
}

// Char returns a fixed length string type
func Char(length int) DataType {
	return CHAR.withInts(length)
}

// Text returns a long-form text type. size is one of tiny, medium or long.
func Text(size string) DataType {
	if size == "" {
		return TEXT
	}
	return TEXT.with(strings.ToLower(size))
}

// Float returns a FLOAT(length, decimals) type
func Float(length, decimals int) DataType {
	return FLOAT.withInts(length, decimals)
}

// Real returns a REAL(length, decimals) type
func Real(length, decimals int) DataType {
	return REAL.withInts(length, decimals)
}

// Double returns a DOUBLE(length, decimals) type
func Double(length, decimals int) DataType {
	return DOUBLE.withInts(length, decimals)
}

// Decimal returns a DECIMAL(precision, scale) type
func Decimal(precision, scale int) DataType {
	return DECIMAL.withInts(precision, scale)
}

// Date returns a timestamp type with fractional second precision
func Date(precision int) DataType {
	return DATE.withInts(precision)
}

// Blob returns a binary type. size is one of tiny, medium or long.
func Blob(size string) DataType {
	if size == "" {
		return BLOB
	}
	return BLOB.with(strings.ToLower(size))
}

// Enum returns an enumeration over the given values
func Enum(values ...string) DataType {
	dt := ENUM
	dt.values = append([]string(nil), values...)
	return dt
}

// Array returns an array of the element type
func Array(element DataType) DataType {
	return DataType{key: "ARRAY", element: &element}
}

// Range returns a range over the subtype
func Range(subtype DataType) DataType {
	return DataType{key: "RANGE", element: &subtype}
}

// Geometry returns a spatial geometry type
func Geometry(typ string, srid int) DataType {
	return spatial(GEOMETRY, typ, srid)
}

// Geography returns a spatial geography type
func Geography(typ string, srid int) DataType {
	return spatial(GEOGRAPHY, typ, srid)
}

func spatial(base DataType, typ string, srid int) DataType {
	if typ == "" {
		typ = base.key
	}
	dt := base.with(strings.ToUpper(typ))
	if srid > 0 {
		dt.args = append(dt.args, strconv.Itoa(srid))
	}
	return dt
}

// Key returns the canonical identifying key
func (dt DataType) Key() string {
	return dt.key
}

// Args returns the type arguments, e.g. length or precision
func (dt DataType) Args() []string {
	return dt.args
}

// Values returns the declared enum values
func (dt DataType) Values() []string {
	return dt.values
}

// Element returns the element type of an ARRAY or RANGE
func (dt DataType) Element() (DataType, bool) {
	if dt.element == nil {
		return DataType{}, false
	}
	return *dt.element, true
}

// IsZero reports whether the token is unset
func (dt DataType) IsZero() bool {
	return dt.key == ""
}

// String renders the token in its declarative form, e.g. STRING(255)
func (dt DataType) String() string {
	var b strings.Builder
	b.WriteString(dt.key)
	switch {
	case dt.element != nil:
		b.WriteString("(" + dt.element.String() + ")")
	case len(dt.values) > 0:
		b.WriteString("(" + quoteAll(dt.values) + ")")
	case len(dt.args) > 0:
		b.WriteString("(" + strings.Join(dt.args, ",") + ")")
	}
	return b.String()
}

// SQL renders the column type for DDL (MySQL flavoured where dialects differ)
func (dt DataType) SQL() string {
	switch dt.key {
	case "INTEGER":
		return "int"
	case "BIGINT", "TINYINT", "SMALLINT", "MEDIUMINT", "FLOAT", "DOUBLE", "DECIMAL", "CHAR":
		return strings.ToLower(dt.key) + dt.argList()
	case "REAL":
		return "double" + dt.argList()
	case "NUMBER":
		return "decimal" + dt.argList()
	case "STRING":
		if len(dt.args) == 0 {
			return "varchar(255)"
		}
		return "varchar" + dt.argList()
	case "TEXT", "BLOB":
		if len(dt.args) > 0 {
			return dt.args[0] + strings.ToLower(dt.key)
		}
		return strings.ToLower(dt.key)
	case "BOOLEAN":
		return "boolean"
	case "DATE":
		return "datetime" + dt.argList()
	case "DATEONLY":
		return "date"
	case "TIME":
		return "time"
	case "NOW":
		return "datetime"
	case "UUID", "UUIDV1", "UUIDV4":
		return "char(36)"
	case "JSON", "JSONB":
		return "json"
	case "ENUM":
		return "enum(" + quoteAll(dt.values) + ")"
	case "ARRAY":
		if dt.element != nil {
			return dt.element.SQL() + "[]"
		}
		return "text[]"
	case "RANGE":
		if dt.element != nil {
			return rangeSQL(dt.element.key)
		}
		return "numrange"
	case "GEOMETRY", "GEOGRAPHY":
		if len(dt.args) > 0 {
			return strings.ToLower(dt.args[0])
		}
		return "geometry"
	default:
		return strings.ToLower(dt.key) + dt.argList()
	}
}

func (dt DataType) with(args ...string) DataType {
	dt.args = append(append([]string(nil), dt.args...), args...)
	return dt
}

func (dt DataType) withInts(values ...int) DataType {
	var args []string
	for _, v := range values {
		if v <= 0 {
			break
		}
		args = append(args, strconv.Itoa(v))
	}
	if len(args) == 0 {
		return dt
	}
	return dt.with(args...)
}

func (dt DataType) argList() string {
	if len(dt.args) == 0 {
		return ""
	}
	return "(" + strings.Join(dt.args, ",") + ")"
}

func rangeSQL(subtype string) string {
	switch subtype {
	case "INTEGER":
		return "int4range"
	case "BIGINT":
		return "int8range"
	case "DATE":
		return "tstzrange"
	case "DATEONLY":
		return "daterange"
	default:
		return "numrange"
	}
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return strings.Join(quoted, ",")
}

// Ref identifies an engine type either by a plain string tag or by a structured token
type Ref struct {
	tag   string
	token Keyer
}

// Tag references a type by a plain string tag, used verbatim
func Tag(tag string) Ref {
	return Ref{tag: tag}
}

// Token references a type by a structured token
func Token(token Keyer) Ref {
	return Ref{token: token}
}

// Key returns the normalized key: a tag verbatim, a token's key upper-cased,
// or an empty string when nothing identifies the type.
func (r Ref) Key() string {
	if r.token == nil {
		return r.tag
	}
	return strings.ToUpper(r.token.Key())
}

// Token returns the structured token, if any
func (r Ref) Token() (Keyer, bool) {
	return r.token, r.token != nil
}

// Values returns the enum values carried by a DataType token
func (r Ref) Values() []string {
	if dt, ok := r.token.(DataType); ok {
		return dt.Values()
	}
	return nil
}

func (r Ref) String() string {
	if r.token == nil {
		return r.tag
	}
	if s, ok := r.token.(fmt.Stringer); ok {
		return s.String()
	}
	return r.token.Key()
}
