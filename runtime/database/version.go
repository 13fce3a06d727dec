package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// minSQLiteDropColumn is the first SQLite release with ALTER TABLE DROP COLUMN.
var minSQLiteDropColumn = goversion.Must(goversion.NewVersion("3.35.0"))

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ServerVersion queries the engine's version through q
func ServerVersion(ctx context.Context, q Querier, engine string) (*goversion.Version, error) {
	var query string
	switch getDriverName(engine) {
	case "sqlite3":
		query = "SELECT sqlite_version()"
	case "postgres":
		query = "SHOW server_version"
	case "mysql":
		query = "SELECT VERSION()"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEngine, engine)
	}

	var raw string
	if err := q.QueryRowContext(ctx, query).Scan(&raw); err != nil {
		return nil, fmt.Errorf("failed to query server version: %w", err)
	}
	return ParseVersion(raw)
}

// ParseVersion parses a version string as reported by a server. Distribution
// suffixes such as "14.5 (Debian 14.5-1)" are dropped.
func ParseVersion(raw string) (*goversion.Version, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty server version")
	}
	v, err := goversion.NewVersion(fields[0])
	if err != nil {
		return nil, fmt.Errorf("invalid server version %q: %w", raw, err)
	}
	return v, nil
}

// SupportsDropColumn reports whether the engine at version v can drop columns
func SupportsDropColumn(engine string, v *goversion.Version) bool {
	if getDriverName(engine) != "sqlite3" {
		return true
	}
	return v != nil && v.Core().GreaterThanOrEqual(minSQLiteDropColumn)
}
