package sqlgen

import (
	"fmt"
	"strings"
)

// AlterFunc is the action of an ALTER TABLE statement
type AlterFunc string

const (
	AlterAdd          AlterFunc = "ADD"
	AlterAlterColumn  AlterFunc = "ALTER COLUMN"
	AlterModifyColumn AlterFunc = "MODIFY COLUMN"
	AlterModify       AlterFunc = "MODIFY"
	AlterDropColumn   AlterFunc = "DROP COLUMN"
)

// ParseAlterFunc maps a function name onto one of the known ALTER TABLE
// functions. Anything else is an error; there is no default.
func ParseAlterFunc(s string) (AlterFunc, error) {
	fn := AlterFunc(strings.ToUpper(strings.Join(strings.Fields(s), " ")))
	switch fn {
	case AlterAdd, AlterAlterColumn, AlterModifyColumn, AlterModify, AlterDropColumn:
		return fn, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlterFunc, s)
	}
}

// CreateTable generates CREATE TABLE t (c1 type1, c2 type2);
func (b *Builder) CreateTable(table string, columns Pairs) (string, error) {
	if err := checkTable(table); err != nil {
		return "", err
	}
	if err := checkColumns(columns.Columns()); err != nil {
		return "", err
	}

	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = columnDef(col)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s);", table, strings.Join(defs, ", ")), nil
}

// AlterTable generates ALTER TABLE t FN c1 type1, FN c2 type2;
// For DROP COLUMN only the column names are used.
func (b *Builder) AlterTable(table string, fn AlterFunc, columns Pairs) (string, error) {
	if err := checkTable(table); err != nil {
		return "", err
	}
	fn, err := ParseAlterFunc(string(fn))
	if err != nil {
		return "", err
	}
	if err := checkColumns(columns.Columns()); err != nil {
		return "", err
	}
	if err := b.dialect.CheckAlter(fn, len(columns)); err != nil {
		return "", err
	}

	clauses := make([]string, len(columns))
	for i, col := range columns {
		if fn == AlterDropColumn {
			clauses[i] = fmt.Sprintf("%s %s", fn, col.Column)
		} else {
			clauses[i] = fmt.Sprintf("%s %s", fn, columnDef(col))
		}
	}
	return fmt.Sprintf("ALTER TABLE %s %s;", table, strings.Join(clauses, ", ")), nil
}

// AlterTableDrop generates ALTER TABLE t DROP COLUMN c1, DROP COLUMN c2;
func (b *Builder) AlterTableDrop(table string, columns ...string) (string, error) {
	pairs := make(Pairs, len(columns))
	for i, col := range columns {
		pairs[i] = Pair{Column: col}
	}
	return b.AlterTable(table, AlterDropColumn, pairs)
}

// DropTable generates DROP TABLE t;
func (b *Builder) DropTable(table string) (string, error) {
	if err := checkTable(table); err != nil {
		return "", err
	}
	return fmt.Sprintf("DROP TABLE %s;", table), nil
}

// TruncateTable generates the dialect's statement for emptying a table
func (b *Builder) TruncateTable(table string) (string, error) {
	if err := checkTable(table); err != nil {
		return "", err
	}
	return b.dialect.Truncate(table), nil
}

// CreateIndex generates CREATE INDEX name ON table(c1,c2);
func (b *Builder) CreateIndex(name, table string, columns ...string) (string, error) {
	return b.createIndex("CREATE INDEX", name, table, columns)
}

// CreateUniqueIndex generates CREATE UNIQUE INDEX name ON table(c1,c2);
func (b *Builder) CreateUniqueIndex(name, table string, columns ...string) (string, error) {
	return b.createIndex("CREATE UNIQUE INDEX", name, table, columns)
}

func (b *Builder) createIndex(head, name, table string, columns []string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyIndex
	}
	if err := checkTable(table); err != nil {
		return "", err
	}
	if err := checkColumns(columns); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s ON %s(%s);", head, name, table, strings.Join(columns, ",")), nil
}

// DropIndex generates DROP INDEX. Some engines (MySQL) need the table name,
// passed as the optional second argument.
func (b *Builder) DropIndex(name string, table ...string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyIndex
	}
	var t string
	if len(table) > 0 {
		t = table[0]
	}
	return b.dialect.DropIndex(name, t)
}

func columnDef(p Pair) string {
	if p.Value == nil {
		return p.Column
	}
	def := strings.TrimSpace(fmt.Sprint(p.Value))
	if def == "" {
		return p.Column
	}
	return p.Column + " " + def
}
