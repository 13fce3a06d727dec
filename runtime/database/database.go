// Package database opens connections to the relational engine and prepares
// fresh SQLite files from a schema script on first use.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/spf13/afero"

	"github.com/satishbabariya/sqlkit/internal/debug"
	"github.com/satishbabariya/sqlkit/query/sqlgen"
)

const (
	// DefaultEngine is the engine used when Config.Engine is empty.
	DefaultEngine = "sqlite"
	// DefaultSchemaPath is the bootstrap script read for fresh SQLite files.
	DefaultSchemaPath = "./create_guild.sql"
)

// Database is the capability a session binds to
type Database interface {
	// Name returns the logical database name.
	Name() string
	// Engine returns the normalised engine name.
	Engine() string
	// Dialect returns the statement dialect for the engine.
	Dialect() sqlgen.Dialect
	// Open returns a dedicated connection. The caller closes it.
	Open(ctx context.Context) (*sql.Conn, error)
	// Close releases every connection held by the database.
	Close() error
}

// Config holds database connection configuration
type Config struct {
	// DataSource is the file path for SQLite or the DSN for server engines.
	DataSource string
	// Engine selects the driver: "sqlite", "postgres" or "mysql".
	Engine string
	// Name is the logical database name; defaults to DataSource.
	Name string
	// SchemaPath is the bootstrap script for a fresh SQLite file.
	SchemaPath string
	// SkipBootstrap disables the schema script entirely.
	SkipBootstrap bool
	// Fs is used to inspect the data source and read the schema script.
	Fs afero.Fs
}

func (c Config) withDefaults() Config {
	if c.Engine == "" {
		c.Engine = DefaultEngine
	}
	if c.SchemaPath == "" {
		c.SchemaPath = DefaultSchemaPath
	}
	if c.Name == "" {
		c.Name = c.DataSource
	}
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	return c
}

// Engine is the database/sql backed Database implementation
type Engine struct {
	cfg     Config
	engine  string
	driver  string
	dsn     string
	dialect sqlgen.Dialect

	mu     sync.Mutex
	db     *sql.DB
	script []string
	closed bool

	// fresh is the SQLite file created by the pending bootstrap, removed
	// again if the script fails. Empty for in-memory databases.
	fresh string
}

// New validates the configuration and, for a SQLite file that does not exist
// yet, loads the schema script that will run on the first Open. A missing
// schema script is reported and leaves the file uncreated.
func New(cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()

	if strings.TrimSpace(cfg.DataSource) == "" {
		return nil, ErrEmptyDataSource
	}

	driver := getDriverName(cfg.Engine)
	if driver == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEngine, cfg.Engine)
	}
	dialect, err := sqlgen.NewDialect(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEngine, cfg.Engine)
	}

	e := &Engine{
		cfg:     cfg,
		engine:  dialect.Name(),
		driver:  driver,
		dsn:     cfg.DataSource,
		dialect: dialect,
	}

	switch driver {
	case "sqlite3":
		if cfg.SkipBootstrap {
			break
		}
		fresh, err := isFresh(cfg.Fs, cfg.DataSource)
		if err != nil {
			return nil, err
		}
		if fresh {
			stmts, err := LoadSchema(cfg.Fs, cfg.SchemaPath)
			if err != nil {
				return nil, err
			}
			e.script = stmts
			e.fresh = sqlitePath(cfg.DataSource)
			debug.Debug("schema bootstrap pending", "data_source", cfg.DataSource, "schema", cfg.SchemaPath, "statements", len(stmts))
		}
	case "postgres":
		if strings.HasPrefix(cfg.DataSource, "postgres://") || strings.HasPrefix(cfg.DataSource, "postgresql://") {
			dsn, err := pq.ParseURL(cfg.DataSource)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidDataSource, err)
			}
			e.dsn = dsn
		}
	case "mysql":
		if _, err := mysql.ParseDSN(cfg.DataSource); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDataSource, err)
		}
	}

	return e, nil
}

// getDriverName maps engine names to Go database driver names
func getDriverName(engine string) string {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "sqlite", "sqlite3":
		return "sqlite3"
	case "postgresql", "postgres":
		return "postgres"
	case "mysql":
		return "mysql"
	default:
		return ""
	}
}

// Name returns the logical database name
func (e *Engine) Name() string { return e.cfg.Name }

// Engine returns the normalised engine name
func (e *Engine) Engine() string { return e.engine }

// Dialect returns the statement dialect
func (e *Engine) Dialect() sqlgen.Dialect { return e.dialect }

// DataSource returns the configured data source
func (e *Engine) DataSource() string { return e.cfg.DataSource }

// Pending reports whether the bootstrap script has yet to run
func (e *Engine) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.script) > 0
}

// Open returns a dedicated connection, running the pending bootstrap script
// on it first if there is one.
func (e *Engine) Open(ctx context.Context) (*sql.Conn, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}

	if e.db == nil {
		db, err := sql.Open(e.driver, e.dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if e.driver == "sqlite3" {
			// One writer; idle connections are kept so in-memory databases survive.
			db.SetMaxOpenConns(1)
			db.SetMaxIdleConns(1)
		}
		e.db = db
	}

	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if e.driver == "sqlite3" {
		if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if len(e.script) > 0 {
		if err := RunScript(ctx, conn, e.script); err != nil {
			conn.Close()
			if rmErr := e.discardFresh(); rmErr != nil {
				debug.Warn("failed to remove database after bootstrap failure", "data_source", e.cfg.DataSource, "error", rmErr)
			}
			return nil, fmt.Errorf("%w: %v", ErrBootstrap, err)
		}
		debug.Info("schema bootstrapped", "data_source", e.cfg.DataSource, "statements", len(e.script))
		e.script = nil
		e.fresh = ""
	}

	return conn, nil
}

// discardFresh closes the pool and removes the file the failed bootstrap
// created, with its journal files, so the next New finds it fresh again.
// Caller holds mu.
func (e *Engine) discardFresh() error {
	if e.fresh == "" {
		return nil
	}
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			return err
		}
		e.db = nil
	}
	for _, suffix := range []string{"", "-journal", "-wal", "-shm"} {
		err := e.cfg.Fs.Remove(e.fresh + suffix)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Close closes the connection pool
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

// sqlitePath returns the file behind a SQLite data source, or "" for an
// in-memory database.
func sqlitePath(dataSource string) string {
	if dataSource == ":memory:" || strings.Contains(dataSource, "mode=memory") {
		return ""
	}
	path := strings.TrimPrefix(dataSource, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}

// isFresh reports whether a SQLite data source has no schema behind it yet:
// in-memory databases, missing files and empty files.
func isFresh(fsys afero.Fs, dataSource string) (bool, error) {
	path := sqlitePath(dataSource)
	if path == "" {
		return true, nil
	}

	info, err := fsys.Stat(path)
	switch {
	case err == nil:
		return info.Size() == 0, nil
	case errors.Is(err, fs.ErrNotExist):
		return true, nil
	default:
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
}

var _ Database = (*Engine)(nil)
