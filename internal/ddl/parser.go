package ddl

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"vitess.io/vitess/go/vt/sqlparser"

	"schema-forge/internal/schema"
	"schema-forge/internal/utils"
)

var (
	ErrNotCreateTable = errors.New("statement is not CREATE TABLE")
	ErrEmptyStatement = errors.New("statement cannot be empty")
)

// Table is the attribute metadata of one CREATE TABLE statement
type Table struct {
	Name       string
	Attributes schema.RawAttributes
	PrimaryKey []string
}

// RawAttributes lets a parsed table be used as a schema source
func (t *Table) RawAttributes() schema.RawAttributes {
	return t.Attributes
}

// Parser turns CREATE TABLE statements into raw attribute metadata
type Parser struct {
	parser *sqlparser.Parser
	mapper *utils.DataTypeMapper
}

// NewParser creates a new DDL parser
func NewParser() *Parser {
	return &Parser{
		parser: sqlparser.NewTestParser(),
		mapper: utils.NewDataTypeMapper(),
	}
}

// ParseCreateTable parses a single CREATE TABLE statement
func (p *Parser) ParseCreateTable(sql string) (*Table, error) {
	sql = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(sql), ";"))
	if sql == "" {
		return nil, parseError(ErrEmptyStatement, "")
	}

	stmt, err := p.parser.Parse(sql)
	if err != nil {
		return nil, parseError(err, sql)
	}
	create, ok := stmt.(*sqlparser.CreateTable)
	if !ok || create.TableSpec == nil {
		return nil, parseError(ErrNotCreateTable, sql)
	}

	return p.tableFromSpec(create.Table.Name.String(), create.TableSpec), nil
}

// ParseFile parses every CREATE TABLE statement in a file. Other statements are skipped.
func (p *Parser) ParseFile(path string) ([]*Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return p.ParseScript(string(content))
}

// ParseScript parses every CREATE TABLE statement in a multi-statement script
func (p *Parser) ParseScript(script string) ([]*Table, error) {
	pieces, err := p.parser.SplitStatementToPieces(script)
	if err != nil {
		return nil, parseError(err, "")
	}

	var tables []*Table
	for _, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		table, err := p.ParseCreateTable(piece)
		if errors.Is(err, ErrNotCreateTable) {
			continue
		}
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func (p *Parser) tableFromSpec(name string, spec *sqlparser.TableSpec) *Table {
	primary := make(map[string]bool)
	for _, idx := range spec.Indexes {
		if idx.Info == nil || idx.Info.Type != sqlparser.IndexTypePrimary {
			continue
		}
		for _, col := range idx.Columns {
			primary[col.Column.Lowered()] = true
		}
	}

	table := &Table{Name: name}
	for _, col := range spec.Columns {
		colName := col.Name.String()
		attr, isPrimary := p.columnToRawAttribute(col, primary[col.Name.Lowered()])
		if isPrimary {
			table.PrimaryKey = append(table.PrimaryKey, colName)
		}
		table.Attributes = append(table.Attributes, attr)
	}
	return table
}

func (p *Parser) columnToRawAttribute(col *sqlparser.ColumnDefinition, primary bool) (schema.RawAttribute, bool) {
	attr := schema.RawAttribute{Name: col.Name.String()}
	if col.Type == nil {
		return attr, primary
	}

	typeName := col.Type.Type
	// MySQL booleans are TINYINT(1); the width lives outside the type name
	if strings.EqualFold(typeName, "tinyint") &&
		strings.HasPrefix(strings.ToLower(sqlparser.String(col.Type)), "tinyint(1)") {
		typeName = "tinyint(1)"
	}
	if len(col.Type.EnumValues) > 0 {
		attr.Values = unquoteAll(col.Type.EnumValues)
	}
	dt := p.mapper.CanonicalType(typeName)
	if strings.EqualFold(typeName, "enum") && len(attr.Values) == 0 {
		attr.Values = dt.Values()
	}
	attr.Type = p.mapper.CanonicalRef(typeName)

	if isSerial(typeName) {
		attr.AutoIncrementIdentity = true
		attr.AllowNull = boolPtr(false)
	}

	if opts := col.Type.Options; opts != nil {
		if opts.Null != nil {
			attr.AllowNull = boolPtr(*opts.Null)
		}
		if opts.Default != nil {
			attr.HasDefault = true
			attr.DefaultValue = sqlparser.String(opts.Default)
		}
		if opts.Autoincrement || opts.As != nil {
			attr.AutoIncrementIdentity = true
		}
		if opts.KeyOpt == sqlparser.ColKeyPrimary {
			primary = true
		}
	}

	if primary {
		attr.AllowNull = boolPtr(false)
	}
	return attr, primary
}

func isSerial(typeName string) bool {
	switch strings.ToLower(typeName) {
	case "serial", "bigserial", "smallserial", "serial4", "serial8":
		return true
	}
	return false
}

// unquoteAll strips SQL string quoting from enum literals
func unquoteAll(values []string) []string {
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = unquote(v)
	}
	return result
}

func unquote(v string) string {
	if len(v) < 2 || (v[0] != '\'' && v[0] != '"') || v[len(v)-1] != v[0] {
		return v
	}
	quote := v[0]
	body := v[1 : len(v)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		switch {
		case body[i] == '\\' && i+1 < len(body):
			i++
			b.WriteByte(body[i])
		case body[i] == quote && i+1 < len(body) && body[i+1] == quote:
			i++
			b.WriteByte(quote)
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String()
}

func boolPtr(b bool) *bool {
	return &b
}

func parseError(cause error, sql string) error {
	eb := utils.NewErrorBuilder(utils.ErrCodeDDLParse).WithCause(cause)
	if sql != "" {
		if len(sql) > 120 {
			sql = sql[:120] + "..."
		}
		eb.WithDetails(cause.Error() + ": " + sql)
	} else {
		eb.WithDetails(cause.Error())
	}
	return eb.Build()
}
