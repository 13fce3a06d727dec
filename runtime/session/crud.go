package session

import (
	"context"
	"fmt"

	"github.com/satishbabariya/sqlkit/query/sqlgen"
	"github.com/satishbabariya/sqlkit/runtime/database"
)

// CreateTable creates table with the given ordered column definitions
func (s *Session) CreateTable(ctx context.Context, table string, columns sqlgen.Pairs) error {
	return s.ddl(ctx, "create_table", table, func(b *sqlgen.Builder) (string, error) {
		return b.CreateTable(table, columns)
	})
}

// AlterTable applies fn to every column in columns
func (s *Session) AlterTable(ctx context.Context, table string, fn sqlgen.AlterFunc, columns sqlgen.Pairs) error {
	return s.ddl(ctx, "alter_table", table, func(b *sqlgen.Builder) (string, error) {
		if parsed, err := sqlgen.ParseAlterFunc(string(fn)); err == nil && parsed == sqlgen.AlterDropColumn {
			if err := s.checkDropColumn(ctx); err != nil {
				return "", err
			}
		}
		return b.AlterTable(table, fn, columns)
	})
}

// AlterTableDrop drops the named columns
func (s *Session) AlterTableDrop(ctx context.Context, table string, columns ...string) error {
	return s.ddl(ctx, "alter_table", table, func(b *sqlgen.Builder) (string, error) {
		if err := s.checkDropColumn(ctx); err != nil {
			return "", err
		}
		return b.AlterTableDrop(table, columns...)
	})
}

// DropTable drops table
func (s *Session) DropTable(ctx context.Context, table string) error {
	return s.ddl(ctx, "drop_table", table, func(b *sqlgen.Builder) (string, error) {
		return b.DropTable(table)
	})
}

// TruncateTable removes every row of table
func (s *Session) TruncateTable(ctx context.Context, table string) error {
	return s.ddl(ctx, "truncate_table", table, func(b *sqlgen.Builder) (string, error) {
		return b.TruncateTable(table)
	})
}

// CreateIndex creates a non-unique index over columns
func (s *Session) CreateIndex(ctx context.Context, name, table string, columns ...string) error {
	return s.ddl(ctx, "create_index", table, func(b *sqlgen.Builder) (string, error) {
		return b.CreateIndex(name, table, columns...)
	})
}

// CreateUniqueIndex creates a unique index over columns
func (s *Session) CreateUniqueIndex(ctx context.Context, name, table string, columns ...string) error {
	return s.ddl(ctx, "create_uindex", table, func(b *sqlgen.Builder) (string, error) {
		return b.CreateUniqueIndex(name, table, columns...)
	})
}

// DropIndex drops an index. MySQL needs the table name.
func (s *Session) DropIndex(ctx context.Context, name string, table ...string) error {
	var t string
	if len(table) > 0 {
		t = table[0]
	}
	return s.ddl(ctx, "drop_index", t, func(b *sqlgen.Builder) (string, error) {
		return b.DropIndex(name, table...)
	})
}

func (s *Session) ddl(ctx context.Context, op, table string, build func(*sqlgen.Builder) (string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}
	stmt, err := build(s.builder)
	if err != nil {
		return opError(op, table, "", err)
	}
	if table != "" {
		s.stmts.InvalidatePrefix(table + ":")
	}
	_, err = s.exec(ctx, op, table, stmt, nil)
	return err
}

// checkDropColumn refuses DROP COLUMN on engines too old for it. Caller holds mu.
func (s *Session) checkDropColumn(ctx context.Context) error {
	v, err := s.serverVersion(ctx)
	if err != nil {
		return err
	}
	if !database.SupportsDropColumn(s.db.Engine(), v) {
		return fmt.Errorf("%w: DROP COLUMN needs %s 3.35.0 or later, have %s",
			sqlgen.ErrUnsupported, s.db.Engine(), v)
	}
	return nil
}

// Insert inserts one row. Positional values win over columns when both are given.
func (s *Session) Insert(ctx context.Context, table string, values []interface{}, columns sqlgen.Pairs) (Result, error) {
	return s.write(ctx, "insert", table, func(b *sqlgen.Builder) (*sqlgen.Query, error) {
		return b.Insert(table, values, columns)
	})
}

// InsertOrReplace inserts one row, replacing a conflicting one
func (s *Session) InsertOrReplace(ctx context.Context, table string, values []interface{}, columns sqlgen.Pairs) (Result, error) {
	return s.write(ctx, "insert_or_replace", table, func(b *sqlgen.Builder) (*sqlgen.Query, error) {
		return b.InsertOrReplace(table, values, columns)
	})
}

// InsertOrIgnore inserts one row unless it conflicts
func (s *Session) InsertOrIgnore(ctx context.Context, table string, values ...interface{}) (Result, error) {
	return s.write(ctx, "insert_or_ignore", table, func(b *sqlgen.Builder) (*sqlgen.Query, error) {
		return b.InsertOrIgnore(table, values)
	})
}

// InsertMany inserts rows in order. Every row must have the first row's width.
func (s *Session) InsertMany(ctx context.Context, table string, rows [][]interface{}) (Result, error) {
	return s.insertMany(ctx, "insert_many", table, sqlgen.ConflictNone, rows)
}

// InsertOrReplaceMany is InsertMany with replace-on-conflict
func (s *Session) InsertOrReplaceMany(ctx context.Context, table string, rows [][]interface{}) (Result, error) {
	return s.insertMany(ctx, "insert_or_replace_many", table, sqlgen.ConflictReplace, rows)
}

// InsertOrIgnoreMany is InsertMany with skip-on-conflict
func (s *Session) InsertOrIgnoreMany(ctx context.Context, table string, rows [][]interface{}) (Result, error) {
	return s.insertMany(ctx, "insert_or_ignore_many", table, sqlgen.ConflictIgnore, rows)
}

func (s *Session) insertMany(ctx context.Context, op, table string, c sqlgen.Conflict, rows [][]interface{}) (Result, error) {
	return s.batch(ctx, op, table, func(b *sqlgen.Builder) (*sqlgen.Batch, error) {
		return b.BatchInsert(table, c, rows)
	})
}

// Update sets columns on the rows matching where. No conditions updates every row.
func (s *Session) Update(ctx context.Context, table string, set sqlgen.Pairs, where ...sqlgen.Condition) (Result, error) {
	return s.write(ctx, "update", table, func(b *sqlgen.Builder) (*sqlgen.Query, error) {
		return b.Update(table, set, where)
	})
}

// UpdateValue sets one column on the rows matching where
func (s *Session) UpdateValue(ctx context.Context, table, column string, value interface{}, where ...sqlgen.Condition) (Result, error) {
	return s.write(ctx, "update_value", table, func(b *sqlgen.Builder) (*sqlgen.Query, error) {
		return b.UpdateValue(table, column, value, where)
	})
}

// UpdateValueMany runs one single-column update per row. Each row holds the
// new value followed by one value per predicate.
func (s *Session) UpdateValueMany(ctx context.Context, table, column string, where []sqlgen.Predicate, rows [][]interface{}) (Result, error) {
	return s.batch(ctx, "update_value_many", table, func(b *sqlgen.Builder) (*sqlgen.Batch, error) {
		return b.BatchUpdateValue(table, column, where, rows)
	})
}

// Delete removes the rows matching where and commits immediately. An empty
// condition list is refused.
func (s *Session) Delete(ctx context.Context, table string, where ...sqlgen.Condition) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return Result{}, err
	}
	q, err := s.builder.Delete(table, where)
	if err != nil {
		return Result{}, opError("delete", table, "", err)
	}
	res, err := s.exec(ctx, "delete", table, q.SQL, q.Args)
	if err != nil {
		return res, err
	}
	return res, s.commit()
}

func (s *Session) write(ctx context.Context, op, table string, build func(*sqlgen.Builder) (*sqlgen.Query, error)) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return Result{}, err
	}
	q, err := build(s.builder)
	if err != nil {
		return Result{}, opError(op, table, "", err)
	}
	return s.exec(ctx, op, table, q.SQL, q.Args)
}

func (s *Session) batch(ctx context.Context, op, table string, build func(*sqlgen.Builder) (*sqlgen.Batch, error)) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return Result{}, err
	}
	b, err := build(s.builder)
	if err != nil {
		return Result{}, opError(op, table, "", err)
	}
	return s.execBatch(ctx, op, table, b)
}

// FetchAll returns every column of the rows matching where
func (s *Session) FetchAll(ctx context.Context, table string, where ...sqlgen.Condition) ([]Row, error) {
	return s.read(ctx, "fetch_all", table, func(b *sqlgen.Builder) (*sqlgen.Query, error) {
		return b.Select(table, nil, where, nil)
	})
}

// FetchByColumns returns the requested columns, in the requested order
func (s *Session) FetchByColumns(ctx context.Context, table string, columns []string, where ...sqlgen.Condition) ([]Row, error) {
	return s.read(ctx, "fetch_by_columns", table, func(b *sqlgen.Builder) (*sqlgen.Query, error) {
		return b.Select(table, columns, where, nil)
	})
}

// FetchAllInOrder returns the rows matching where sorted by order
func (s *Session) FetchAllInOrder(ctx context.Context, table string, order sqlgen.OrderBy, where ...sqlgen.Condition) ([]Row, error) {
	return s.read(ctx, "fetch_all_in_order", table, func(b *sqlgen.Builder) (*sqlgen.Query, error) {
		return b.Select(table, nil, where, []sqlgen.OrderBy{order})
	})
}

// FetchDistinct returns the distinct values of column
func (s *Session) FetchDistinct(ctx context.Context, table, column string) ([]interface{}, error) {
	rows, err := s.read(ctx, "fetch_distinct", table, func(b *sqlgen.Builder) (*sqlgen.Query, error) {
		return b.SelectDistinct(table, column)
	})
	if err != nil {
		return nil, err
	}
	values := make([]interface{}, len(rows))
	for i, row := range rows {
		values[i] = row[0]
	}
	return values, nil
}

func (s *Session) read(ctx context.Context, op, table string, build func(*sqlgen.Builder) (*sqlgen.Query, error)) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return nil, err
	}
	q, err := build(s.builder)
	if err != nil {
		return nil, opError(op, table, "", err)
	}
	return s.query(ctx, op, table, q)
}

// Exec runs a caller-written statement with bound args
func (s *Session) Exec(ctx context.Context, query string, args ...interface{}) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return Result{}, err
	}
	return s.exec(ctx, "exec", "", query, args)
}

// ExecScript splits script into statements and runs them in order in the
// session's transaction
func (s *Session) ExecScript(ctx context.Context, script string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}
	stmts, err := database.SplitScript("script", script)
	if err != nil {
		return opError("exec_script", "", "", err)
	}
	for _, stmt := range stmts {
		if _, err := s.exec(ctx, "exec_script", "", stmt, nil); err != nil {
			return err
		}
	}
	return nil
}
