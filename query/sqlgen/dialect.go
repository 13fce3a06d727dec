package sqlgen

import (
	"fmt"
	"strings"
)

// Conflict selects the uniqueness-conflict policy of an insert
type Conflict int

const (
	// ConflictNone fails the insert on a uniqueness conflict.
	ConflictNone Conflict = iota
	// ConflictReplace replaces the conflicting row.
	ConflictReplace
	// ConflictIgnore skips the conflicting row.
	ConflictIgnore
)

func (c Conflict) String() string {
	switch c {
	case ConflictReplace:
		return "replace"
	case ConflictIgnore:
		return "ignore"
	default:
		return "none"
	}
}

// Dialect covers the parts of statement text that differ between engines
type Dialect interface {
	// Name returns the engine name, e.g. "sqlite".
	Name() string
	// Placeholder returns the bind parameter for the n-th argument (1-based).
	Placeholder(n int) string
	// Insert returns the statement head and tail for a conflict policy.
	Insert(c Conflict) (head, tail string, err error)
	// Truncate returns the statement that empties a table.
	Truncate(table string) string
	// DropIndex returns the DROP INDEX statement; table may be empty.
	DropIndex(index, table string) (string, error)
	// CheckAlter reports whether ALTER TABLE fn over n columns can be expressed.
	CheckAlter(fn AlterFunc, n int) error
}

// NewDialect creates the dialect for the given engine
func NewDialect(engine string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	case "postgresql", "postgres":
		return Postgres{}, nil
	case "mysql":
		return MySQL{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
}

// SQLite writes SQLite statements
type SQLite struct{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) Placeholder(int) string { return "?" }

func (SQLite) Insert(c Conflict) (string, string, error) {
	switch c {
	case ConflictReplace:
		return "INSERT OR REPLACE INTO", "", nil
	case ConflictIgnore:
		return "INSERT OR IGNORE INTO", "", nil
	default:
		return "INSERT INTO", "", nil
	}
}

// Truncate uses DELETE since SQLite has no TRUNCATE statement.
func (SQLite) Truncate(table string) string {
	return fmt.Sprintf("DELETE FROM %s;", table)
}

func (SQLite) DropIndex(index, _ string) (string, error) {
	return fmt.Sprintf("DROP INDEX %s;", index), nil
}

func (SQLite) CheckAlter(fn AlterFunc, n int) error {
	switch fn {
	case AlterAdd, AlterDropColumn:
		if n > 1 {
			return fmt.Errorf("%w: sqlite alters one column per statement", ErrUnsupported)
		}
		return nil
	default:
		return fmt.Errorf("%w: sqlite ALTER TABLE %s", ErrUnsupported, fn)
	}
}

// Postgres writes PostgreSQL statements
type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (Postgres) Insert(c Conflict) (string, string, error) {
	switch c {
	case ConflictReplace:
		return "", "", fmt.Errorf("%w: postgres INSERT OR REPLACE needs a conflict target", ErrUnsupported)
	case ConflictIgnore:
		return "INSERT INTO", " ON CONFLICT DO NOTHING", nil
	default:
		return "INSERT INTO", "", nil
	}
}

func (Postgres) Truncate(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s;", table)
}

func (Postgres) DropIndex(index, _ string) (string, error) {
	return fmt.Sprintf("DROP INDEX %s;", index), nil
}

func (Postgres) CheckAlter(fn AlterFunc, _ int) error {
	switch fn {
	case AlterAdd, AlterAlterColumn, AlterDropColumn:
		return nil
	default:
		return fmt.Errorf("%w: postgres ALTER TABLE %s", ErrUnsupported, fn)
	}
}

// MySQL writes MySQL statements
type MySQL struct{}

func (MySQL) Name() string { return "mysql" }

func (MySQL) Placeholder(int) string { return "?" }

func (MySQL) Insert(c Conflict) (string, string, error) {
	switch c {
	case ConflictReplace:
		return "REPLACE INTO", "", nil
	case ConflictIgnore:
		return "INSERT IGNORE INTO", "", nil
	default:
		return "INSERT INTO", "", nil
	}
}

func (MySQL) Truncate(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s;", table)
}

// DropIndex requires the table name on MySQL.
func (MySQL) DropIndex(index, table string) (string, error) {
	if err := checkTable(table); err != nil {
		return "", fmt.Errorf("mysql DROP INDEX: %w", err)
	}
	return fmt.Sprintf("DROP INDEX %s ON %s;", index, table), nil
}

func (MySQL) CheckAlter(AlterFunc, int) error { return nil }
