package model

// Category is the semantic kind of a column, independent of the storage engine's type system
type Category string

const (
	CategoryInteger  Category = "integer"
	CategoryFloat    Category = "float"
	CategoryString   Category = "string"
	CategoryText     Category = "text"
	CategoryBoolean  Category = "boolean"
	CategoryDate     Category = "date"
	CategoryUUID     Category = "uuid"
	CategoryJSON     Category = "json"
	CategoryEnum     Category = "enum"
	CategoryBlob     Category = "blob"
	CategoryArray    Category = "array"
	CategoryGeometry Category = "geometry"
	CategoryOther    Category = "other"
)

// AllCategories lists every category in declaration order
var AllCategories = []Category{
	CategoryInteger, CategoryFloat, CategoryString, CategoryText,
	CategoryBoolean, CategoryDate, CategoryUUID, CategoryJSON,
	CategoryEnum, CategoryBlob, CategoryArray, CategoryGeometry,
	CategoryOther,
}

// IsValid checks if a category belongs to the closed set
func (c Category) IsValid() bool {
	switch c {
	case CategoryInteger, CategoryFloat, CategoryString, CategoryText,
		CategoryBoolean, CategoryDate, CategoryUUID, CategoryJSON,
		CategoryEnum, CategoryBlob, CategoryArray, CategoryGeometry,
		CategoryOther:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	return string(c)
}
