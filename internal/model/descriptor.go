package model

// ColumnDescriptor is the engine-agnostic description of a single column
type ColumnDescriptor struct {
	Category    Category `json:"category"`
	AllowNull   bool     `json:"allowNull"`
	HasDefault  bool     `json:"hasDefault"`
	IsGenerated bool     `json:"isGenerated"`
	// EnumValues is only set for enum columns that declare their values
	EnumValues []string `json:"enumValues,omitempty"`
}

// HasEnumValues reports whether the descriptor carries a closed set of literals
func (d ColumnDescriptor) HasEnumValues() bool {
	return d.Category == CategoryEnum && len(d.EnumValues) > 0
}
