package column

import (
	"schema-forge/internal/datatype"
	"schema-forge/internal/model"
)

// Size selects a storage size for TEXT and BLOB columns
type Size string

const (
	SizeTiny   Size = "tiny"
	SizeMedium Size = "medium"
	SizeLong   Size = "long"
)

func Integer() *Builder {
	return NewBuilder(datatype.INTEGER, model.CategoryInteger)
}

func BigInt() *Builder {
	return NewBuilder(datatype.BIGINT, model.CategoryInteger)
}

func SmallInt() *Builder {
	return NewBuilder(datatype.SMALLINT, model.CategoryInteger)
}

func TinyInt() *Builder {
	return NewBuilder(datatype.TINYINT, model.CategoryInteger)
}

// Float declares a FLOAT column. Length and decimals apply only when both are given.
func Float(lengthAndDecimals ...int) *Builder {
	return NewBuilder(withPrecision(datatype.FLOAT, datatype.Float, lengthAndDecimals), model.CategoryFloat)
}

func Real(lengthAndDecimals ...int) *Builder {
	return NewBuilder(withPrecision(datatype.REAL, datatype.Real, lengthAndDecimals), model.CategoryFloat)
}

func Double(lengthAndDecimals ...int) *Builder {
	return NewBuilder(withPrecision(datatype.DOUBLE, datatype.Double, lengthAndDecimals), model.CategoryFloat)
}

// Decimal declares a fixed-point column with optional precision and scale
func Decimal(precisionAndScale ...int) *Builder {
	precision, scale := intArg(precisionAndScale, 0), intArg(precisionAndScale, 1)
	return NewBuilder(datatype.Decimal(precision, scale), model.CategoryFloat)
}

func String(length ...int) *Builder {
	if n := intArg(length, 0); n > 0 {
		return NewBuilder(datatype.String(n), model.CategoryString)
	}
	return NewBuilder(datatype.STRING, model.CategoryString)
}

func Char(length ...int) *Builder {
	if n := intArg(length, 0); n > 0 {
		return NewBuilder(datatype.Char(n), model.CategoryString)
	}
	return NewBuilder(datatype.CHAR, model.CategoryString)
}

func Text(size ...Size) *Builder {
	if len(size) > 0 {
		return NewBuilder(datatype.Text(string(size[0])), model.CategoryText)
	}
	return NewBuilder(datatype.TEXT, model.CategoryText)
}

func Boolean() *Builder {
	return NewBuilder(datatype.BOOLEAN, model.CategoryBoolean)
}

// Date declares a timestamp column with optional fractional second precision
func Date(precision ...int) *Builder {
	if n := intArg(precision, 0); n > 0 {
		return NewBuilder(datatype.Date(n), model.CategoryDate)
	}
	return NewBuilder(datatype.DATE, model.CategoryDate)
}

func DateOnly() *Builder {
	return NewBuilder(datatype.DATEONLY, model.CategoryDate)
}

func Time() *Builder {
	return NewBuilder(datatype.TIME, model.CategoryDate)
}

func UUID() *Builder {
	return NewBuilder(datatype.UUID, model.CategoryUUID)
}

func UUIDv1() *Builder {
	return NewBuilder(datatype.UUIDV1, model.CategoryUUID)
}

func UUIDv4() *Builder {
	return NewBuilder(datatype.UUIDV4, model.CategoryUUID)
}

func JSON() *Builder {
	return NewBuilder(datatype.JSON, model.CategoryJSON)
}

func JSONB() *Builder {
	return NewBuilder(datatype.JSONB, model.CategoryJSON)
}

func Blob(size ...Size) *Builder {
	if len(size) > 0 {
		return NewBuilder(datatype.Blob(string(size[0])), model.CategoryBlob)
	}
	return NewBuilder(datatype.BLOB, model.CategoryBlob)
}

// Enum declares a column restricted to the given values
func Enum(values ...string) *Builder {
	return NewBuilder(datatype.Enum(values...), model.CategoryEnum)
}

func Array(element datatype.DataType) *Builder {
	return NewBuilder(datatype.Array(element), model.CategoryArray)
}

func Range(subtype datatype.DataType) *Builder {
	return NewBuilder(datatype.Range(subtype), model.CategoryOther)
}

func Geometry(typ string, srid int) *Builder {
	return NewBuilder(datatype.Geometry(typ, srid), model.CategoryGeometry)
}

func Geography(typ string, srid int) *Builder {
	return NewBuilder(datatype.Geography(typ, srid), model.CategoryGeometry)
}

func HStore() *Builder {
	return NewBuilder(datatype.HSTORE, model.CategoryJSON)
}

func CIDR() *Builder {
	return NewBuilder(datatype.CIDR, model.CategoryString)
}

func Inet() *Builder {
	return NewBuilder(datatype.INET, model.CategoryString)
}

func MACAddr() *Builder {
	return NewBuilder(datatype.MACADDR, model.CategoryString)
}

func CIText() *Builder {
	return NewBuilder(datatype.CITEXT, model.CategoryString)
}

func TSVector() *Builder {
	return NewBuilder(datatype.TSVECTOR, model.CategoryText)
}

// Virtual declares a computed attribute that is not stored. Its values are
// never constrained.
func Virtual(returnType datatype.DataType, dependencies ...string) *Builder {
	return NewBuilder(datatype.VIRTUAL, model.CategoryOther)
}

func withPrecision(base datatype.DataType, sized func(int, int) datatype.DataType, args []int) datatype.DataType {
	if len(args) < 2 {
		return base
	}
	return sized(args[0], args[1])
}

func intArg(args []int, i int) int {
	if i < len(args) {
		return args[i]
	}
	return 0
}
