package utils

import (
	"strings"

	"schema-forge/internal/datatype"
	"schema-forge/internal/model"
)

// DataTypeMapper maps engine type identifiers to semantic categories
type DataTypeMapper struct{}

// NewDataTypeMapper creates a new DataTypeMapper instance
func NewDataTypeMapper() *DataTypeMapper {
	return &DataTypeMapper{}
}

// MapToCategory maps a type reference to its category. It never fails:
// anything unrecognized maps to model.CategoryOther.
func (dtm *DataTypeMapper) MapToCategory(ref datatype.Ref) model.Category {
	return dtm.keyToCategory(ref.Key())
}

func (dtm *DataTypeMapper) keyToCategory(key string) model.Category {
	switch key {
	case "INTEGER", "BIGINT", "TINYINT", "SMALLINT", "MEDIUMINT":
		return model.CategoryInteger
	case "FLOAT", "REAL", "DOUBLE", "DECIMAL", "NUMBER":
		return model.CategoryFloat
	case "STRING", "CHAR", "CITEXT", "CIDR", "INET", "MACADDR":
		return model.CategoryString
	case "TEXT", "TSVECTOR":
		return model.CategoryText
	case "BOOLEAN":
		return model.CategoryBoolean
	case "DATE", "DATEONLY", "TIME", "NOW":
		return model.CategoryDate
	case "UUID", "UUIDV1", "UUIDV4":
		return model.CategoryUUID
	case "JSON", "JSONB", "HSTORE":
		return model.CategoryJSON
	case "BLOB":
		return model.CategoryBlob
	case "ENUM":
		return model.CategoryEnum
	case "ARRAY":
		return model.CategoryArray
	case "GEOMETRY", "GEOGRAPHY":
		return model.CategoryGeometry
	default:
		// RANGE, VIRTUAL, ABSTRACT and unknown keys
		return model.CategoryOther
	}
}

// CanonicalRef translates a raw SQL column type, as reported by DDL or a live
// database, into a structured token with a canonical key
func (dtm *DataTypeMapper) CanonicalRef(sqlType string) datatype.Ref {
	return datatype.Token(dtm.CanonicalType(sqlType))
}

// CanonicalType is CanonicalRef returning the token itself
func (dtm *DataTypeMapper) CanonicalType(sqlType string) datatype.DataType {
	raw := strings.TrimSpace(sqlType)
	if raw == "" {
		return datatype.ABSTRACT
	}

	if strings.HasSuffix(raw, "[]") {
		return datatype.Array(dtm.CanonicalType(strings.TrimSuffix(raw, "[]")))
	}

	upper := strings.ToUpper(raw)
	// MySQL reports booleans as TINYINT(1)
	if strings.HasPrefix(upper, "TINYINT(1)") {
		return datatype.BOOLEAN
	}
	if strings.HasPrefix(upper, "ENUM") {
		return datatype.Enum(ParseEnumValues(raw)...)
	}

	normalized := dtm.normalizeColumnType(raw)
	if canonical, ok := sqlTypeAliases[normalized]; ok {
		return canonical
	}
	return datatype.New(normalized)
}

// sqlTypeAliases resolves dialect type names to canonical tokens
var sqlTypeAliases = map[string]datatype.DataType{
	// integers
	"INT":         datatype.INTEGER,
	"INTEGER":     datatype.INTEGER,
	"INT4":        datatype.INTEGER,
	"SERIAL":      datatype.INTEGER,
	"SERIAL4":     datatype.INTEGER,
	"YEAR":        datatype.INTEGER,
	"BIGINT":      datatype.BIGINT,
	"INT8":        datatype.BIGINT,
	"BIGSERIAL":   datatype.BIGINT,
	"SERIAL8":     datatype.BIGINT,
	"SMALLINT":    datatype.SMALLINT,
	"INT2":        datatype.SMALLINT,
	"SMALLSERIAL": datatype.SMALLINT,
	"TINYINT":     datatype.TINYINT,
	"MEDIUMINT":   datatype.MEDIUMINT,

	// floating and fixed point
	"FLOAT":            datatype.FLOAT,
	"FLOAT4":           datatype.FLOAT,
	"BINARY_FLOAT":     datatype.FLOAT,
	"REAL":             datatype.REAL,
	"DOUBLE":           datatype.DOUBLE,
	"FLOAT8":           datatype.DOUBLE,
	"DOUBLE PRECISION": datatype.DOUBLE,
	"BINARY_DOUBLE":    datatype.DOUBLE,
	"DECIMAL":          datatype.DECIMAL,
	"NUMERIC":          datatype.DECIMAL,
	"MONEY":            datatype.DECIMAL,
	"SMALLMONEY":       datatype.DECIMAL,
	"NUMBER":           datatype.NUMBER,

	// strings
	"VARCHAR":           datatype.STRING,
	"CHARACTER VARYING": datatype.STRING,
	"NVARCHAR":          datatype.STRING,
	"VARCHAR2":          datatype.STRING,
	"NVARCHAR2":         datatype.STRING,
	"STRING":            datatype.STRING,
	"CHAR":              datatype.CHAR,
	"CHARACTER":         datatype.CHAR,
	"NCHAR":             datatype.CHAR,
	"BPCHAR":            datatype.CHAR,
	"CITEXT":            datatype.CITEXT,
	"CIDR":              datatype.CIDR,
	"INET":              datatype.INET,
	"MACADDR":           datatype.MACADDR,
	"MACADDR8":          datatype.MACADDR,

	// long text
	"TEXT":       datatype.TEXT,
	"TINYTEXT":   datatype.TEXT,
	"MEDIUMTEXT": datatype.TEXT,
	"LONGTEXT":   datatype.TEXT,
	"CLOB":       datatype.TEXT,
	"NCLOB":      datatype.TEXT,
	"TSVECTOR":   datatype.TSVECTOR,

	"BOOLEAN": datatype.BOOLEAN,
	"BOOL":    datatype.BOOLEAN,
	"BIT":     datatype.BOOLEAN,

	// temporal
	"DATETIME":                    datatype.DATE,
	"TIMESTAMP":                   datatype.DATE,
	"TIMESTAMPTZ":                 datatype.DATE,
	"TIMESTAMP WITH TIME ZONE":    datatype.DATE,
	"TIMESTAMP WITHOUT TIME ZONE": datatype.DATE,
	"DATE":                        datatype.DATEONLY,
	"TIME":                        datatype.TIME,
	"TIMETZ":                      datatype.TIME,
	"TIME WITH TIME ZONE":         datatype.TIME,
	"TIME WITHOUT TIME ZONE":      datatype.TIME,

	"UUID":             datatype.UUID,
	"UNIQUEIDENTIFIER": datatype.UUID,

	"JSON":   datatype.JSON,
	"JSONB":  datatype.JSONB,
	"HSTORE": datatype.HSTORE,

	// binary
	"BLOB":       datatype.BLOB,
	"TINYBLOB":   datatype.BLOB,
	"MEDIUMBLOB": datatype.BLOB,
	"LONGBLOB":   datatype.BLOB,
	"BYTEA":      datatype.BLOB,
	"BINARY":     datatype.BLOB,
	"VARBINARY":  datatype.BLOB,
	"RAW":        datatype.BLOB,
	"LONG RAW":   datatype.BLOB,

	// spatial
	"GEOMETRY":           datatype.GEOMETRY,
	"POINT":              datatype.GEOMETRY,
	"LINESTRING":         datatype.GEOMETRY,
	"POLYGON":            datatype.GEOMETRY,
	"MULTIPOINT":         datatype.GEOMETRY,
	"MULTILINESTRING":    datatype.GEOMETRY,
	"MULTIPOLYGON":       datatype.GEOMETRY,
	"GEOMETRYCOLLECTION": datatype.GEOMETRY,
	"GEOGRAPHY":          datatype.GEOGRAPHY,

	"INT4RANGE": datatype.Range(datatype.INTEGER),
	"INT8RANGE": datatype.Range(datatype.BIGINT),
	"NUMRANGE":  datatype.Range(datatype.DECIMAL),
	"TSRANGE":   datatype.Range(datatype.DATE),
	"TSTZRANGE": datatype.Range(datatype.DATE),
	"DATERANGE": datatype.Range(datatype.DATEONLY),
}

// normalizeColumnType upper-cases the type and removes size constraints and sign modifiers
func (dtm *DataTypeMapper) normalizeColumnType(columnType string) string {
	normalized := strings.ToUpper(strings.TrimSpace(columnType))

	// Remove parentheses and contents (size constraints)
	if start := strings.Index(normalized, "("); start != -1 {
		if end := strings.Index(normalized[start:], ")"); end != -1 {
			normalized = normalized[:start] + normalized[start+end+1:]
		}
	}

	fields := strings.Fields(normalized)
	kept := fields[:0]
	for _, f := range fields {
		switch f {
		case "UNSIGNED", "SIGNED", "ZEROFILL":
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// ParseEnumValues extracts the quoted literals from a type such as enum('a','b')
func ParseEnumValues(columnType string) []string {
	start := strings.Index(columnType, "(")
	end := strings.LastIndex(columnType, ")")
	if start == -1 || end <= start {
		return nil
	}
	body := columnType[start+1 : end]

	var (
		values  []string
		current strings.Builder
		inQuote bool
	)
	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case ch == '\'' && inQuote && i+1 < len(body) && body[i+1] == '\'':
			current.WriteByte('\'')
			i++
		case ch == '\\' && inQuote && i+1 < len(body):
			current.WriteByte(body[i+1])
			i++
		case ch == '\'':
			if inQuote {
				values = append(values, current.String())
				current.Reset()
			}
			inQuote = !inQuote
		case inQuote:
			current.WriteByte(ch)
		}
	}
	return values
}
