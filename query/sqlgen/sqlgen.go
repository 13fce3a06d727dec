// Package sqlgen generates parameterised single-table SQL statements.
//
// Identifiers (table, column and index names) are written into the statement
// text as given; only values are bound. Every generated statement is a single
// statement terminated with a semicolon.
package sqlgen

import (
	"fmt"
	"strings"
)

// Query represents a SQL statement with its bound arguments
type Query struct {
	SQL  string
	Args []interface{}
}

// Batch is a statement template executed once per row
type Batch struct {
	SQL  string
	Rows [][]interface{}
}

// Builder generates statements for one dialect
type Builder struct {
	dialect Dialect
}

// NewBuilder creates a builder for the given dialect
func NewBuilder(dialect Dialect) *Builder {
	if dialect == nil {
		dialect = SQLite{}
	}
	return &Builder{dialect: dialect}
}

// NewBuilderFor creates a builder for an engine name
func NewBuilderFor(engine string) (*Builder, error) {
	dialect, err := NewDialect(engine)
	if err != nil {
		return nil, err
	}
	return NewBuilder(dialect), nil
}

// Dialect returns the dialect the builder writes
func (b *Builder) Dialect() Dialect {
	return b.dialect
}

// placeholders renders n placeholders starting at *argIndex, comma separated
// without spaces.
func (b *Builder) placeholders(n int, argIndex *int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = b.dialect.Placeholder(*argIndex)
		(*argIndex)++
	}
	return strings.Join(parts, ",")
}

func checkTable(table string) error {
	if strings.TrimSpace(table) == "" {
		return ErrEmptyTable
	}
	return nil
}

func checkColumns(columns []string) error {
	if len(columns) == 0 {
		return ErrNoColumns
	}
	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		if strings.TrimSpace(col) == "" {
			return ErrEmptyColumn
		}
		if _, ok := seen[col]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateColumn, col)
		}
		seen[col] = struct{}{}
	}
	return nil
}
