package sqlgen

import (
	"fmt"
	"strings"
)

// Insert generates INSERT INTO. Positional values take precedence over
// columns when both are given:
//
//	INSERT INTO t VALUES (?,?);
//	INSERT INTO t (x,y) VALUES (?,?);
func (b *Builder) Insert(table string, values []interface{}, columns Pairs) (*Query, error) {
	return b.insert(table, ConflictNone, values, columns)
}

// InsertOrReplace generates INSERT OR REPLACE INTO (or the dialect's equivalent)
func (b *Builder) InsertOrReplace(table string, values []interface{}, columns Pairs) (*Query, error) {
	return b.insert(table, ConflictReplace, values, columns)
}

// InsertOrIgnore generates INSERT OR IGNORE INTO t VALUES (?,...);
func (b *Builder) InsertOrIgnore(table string, values []interface{}) (*Query, error) {
	return b.insert(table, ConflictIgnore, values, nil)
}

// InsertConflict generates an insert with an explicit conflict policy
func (b *Builder) InsertConflict(table string, c Conflict, values []interface{}, columns Pairs) (*Query, error) {
	return b.insert(table, c, values, columns)
}

func (b *Builder) insert(table string, c Conflict, values []interface{}, columns Pairs) (*Query, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	head, tail, err := b.dialect.Insert(c)
	if err != nil {
		return nil, err
	}

	argIndex := 1
	switch {
	case len(values) > 0:
		sql := fmt.Sprintf("%s %s VALUES (%s)%s;", head, table, b.placeholders(len(values), &argIndex), tail)
		return &Query{SQL: sql, Args: values}, nil
	case len(columns) > 0:
		if err := checkColumns(columns.Columns()); err != nil {
			return nil, err
		}
		sql := fmt.Sprintf("%s %s (%s) VALUES (%s)%s;",
			head, table, strings.Join(columns.Columns(), ","), b.placeholders(len(columns), &argIndex), tail)
		return &Query{SQL: sql, Args: columns.Values()}, nil
	default:
		return nil, ErrNoValues
	}
}

// BatchInsert generates one positional insert template for all rows. The
// width is taken from the first row and every row must match it.
func (b *Builder) BatchInsert(table string, c Conflict, rows [][]interface{}) (*Batch, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrNoValues
	}
	if err := checkRows(rows, len(rows[0])); err != nil {
		return nil, err
	}
	head, tail, err := b.dialect.Insert(c)
	if err != nil {
		return nil, err
	}

	argIndex := 1
	sql := fmt.Sprintf("%s %s VALUES (%s)%s;", head, table, b.placeholders(len(rows[0]), &argIndex), tail)
	return &Batch{SQL: sql, Rows: rows}, nil
}

// Update generates UPDATE t SET a = ?, b = ? WHERE c = ?;
// The set list names the target columns; where holds the predicates.
func (b *Builder) Update(table string, set Pairs, where []Condition) (*Query, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, ErrNoValues
	}
	if err := checkColumns(set.Columns()); err != nil {
		return nil, err
	}

	argIndex := 1
	assignments := make([]string, len(set))
	for i, pair := range set {
		assignments[i] = fmt.Sprintf("%s = %s", pair.Column, b.dialect.Placeholder(argIndex))
		argIndex++
	}
	args := set.Values()

	whereSQL, whereArgs, err := b.whereConditions(where, &argIndex)
	if err != nil {
		return nil, err
	}
	args = append(args, whereArgs...)

	sql := fmt.Sprintf("UPDATE %s SET %s%s;", table, strings.Join(assignments, ", "), clause("WHERE", whereSQL))
	return &Query{SQL: sql, Args: args}, nil
}

// UpdateValue generates UPDATE t SET column = ? WHERE ...;
func (b *Builder) UpdateValue(table, column string, value interface{}, where []Condition) (*Query, error) {
	return b.Update(table, Pairs{{Column: column, Value: value}}, where)
}

// BatchUpdateValue generates UPDATE t SET column = ? WHERE p1 op ? AND ...;
// executed once per row. Each row holds the new value followed by one value
// per predicate.
func (b *Builder) BatchUpdateValue(table, column string, where []Predicate, rows [][]interface{}) (*Batch, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if strings.TrimSpace(column) == "" {
		return nil, ErrEmptyColumn
	}
	if len(rows) == 0 {
		return nil, ErrNoValues
	}
	if err := checkRows(rows, 1+len(where)); err != nil {
		return nil, err
	}

	argIndex := 1
	set := fmt.Sprintf("%s = %s", column, b.dialect.Placeholder(argIndex))
	argIndex++
	whereSQL, err := b.buildWhere(where, &argIndex)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("UPDATE %s SET %s%s;", table, set, clause("WHERE", whereSQL))
	return &Batch{SQL: sql, Rows: rows}, nil
}

// Select generates SELECT cols FROM t WHERE ... ORDER BY ...;
// No columns selects *.
func (b *Builder) Select(table string, columns []string, where []Condition, order []OrderBy) (*Query, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	cols := "*"
	if len(columns) > 0 {
		if err := checkColumns(columns); err != nil {
			return nil, err
		}
		cols = strings.Join(columns, ",")
	}

	argIndex := 1
	whereSQL, args, err := b.whereConditions(where, &argIndex)
	if err != nil {
		return nil, err
	}
	orderSQL, err := buildOrderBy(order)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("SELECT %s FROM %s%s%s;", cols, table, clause("WHERE", whereSQL), clause("ORDER BY", orderSQL))
	return &Query{SQL: sql, Args: args}, nil
}

// SelectDistinct generates SELECT DISTINCT column FROM t;
func (b *Builder) SelectDistinct(table, column string) (*Query, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if strings.TrimSpace(column) == "" {
		return nil, ErrEmptyColumn
	}
	return &Query{SQL: fmt.Sprintf("SELECT DISTINCT %s FROM %s;", column, table)}, nil
}

// Delete generates DELETE FROM t WHERE ...; An empty condition list is an
// error, use DeleteAll to empty a table.
func (b *Builder) Delete(table string, where []Condition) (*Query, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if len(where) == 0 {
		return nil, ErrNoConditions
	}

	argIndex := 1
	whereSQL, args, err := b.whereConditions(where, &argIndex)
	if err != nil {
		return nil, err
	}
	return &Query{SQL: fmt.Sprintf("DELETE FROM %s WHERE %s;", table, whereSQL), Args: args}, nil
}

// DeleteAll generates DELETE FROM t;
func (b *Builder) DeleteAll(table string) (*Query, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	return &Query{SQL: fmt.Sprintf("DELETE FROM %s;", table)}, nil
}

func clause(keyword, body string) string {
	if body == "" {
		return ""
	}
	return " " + keyword + " " + body
}

func checkRows(rows [][]interface{}, width int) error {
	for i, row := range rows {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d values, want %d", ErrRowArity, i, len(row), width)
		}
	}
	return nil
}
