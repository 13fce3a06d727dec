package database

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrUnsupportedEngine is returned for engines without a registered driver.
	ErrUnsupportedEngine = errors.New("unsupported database engine")
	// ErrEmptyDataSource is returned when no file path or DSN is configured.
	ErrEmptyDataSource = errors.New("data source is empty")
	// ErrInvalidDataSource is returned when a DSN cannot be parsed.
	ErrInvalidDataSource = errors.New("invalid data source")
	// ErrSchemaNotFound is returned when a fresh SQLite file has no schema script.
	ErrSchemaNotFound = errors.New("schema script not found")
	// ErrBootstrap wraps failures while running the schema script.
	ErrBootstrap = errors.New("schema bootstrap failed")
	// ErrClosed is returned by Open after Close.
	ErrClosed = errors.New("database is closed")
)

// MySQL error numbers treated as constraint violations.
const (
	mysqlDuplicateEntry   = 1062
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlColumnCannotNull = 1048
)

// IsConstraint reports whether err is a constraint violation raised by one of
// the supported drivers (unique, foreign key, not null or check).
func IsConstraint(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23"
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDuplicateEntry, mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlColumnCannotNull:
			return true
		}
	}

	return false
}
