// Package session runs generated statements on one dedicated connection.
//
// A Session moves through Unbound, Bound, Connected and Closed. Statements
// run only while Connected, inside a transaction that is begun on the first
// statement and ended by Commit, Rollback or Close.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"sync"
	"time"

	goversion "github.com/hashicorp/go-version"

	"github.com/satishbabariya/sqlkit/internal/debug"
	"github.com/satishbabariya/sqlkit/query/cache"
	"github.com/satishbabariya/sqlkit/query/sqlgen"
	"github.com/satishbabariya/sqlkit/runtime/database"
)

// State is the lifecycle state of a Session
type State int

const (
	// Unbound sessions have no database.
	Unbound State = iota
	// Bound sessions have a database but no connection.
	Bound
	// Connected sessions own a live connection.
	Connected
	// Closed is terminal.
	Closed
)

func (s State) String() string {
	switch s {
	case Unbound:
		return "unbound"
	case Bound:
		return "bound"
	case Connected:
		return "connected"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result reports the effect of a write
type Result struct {
	RowsAffected int64
	LastInsertID int64
}

// Row is one result row, values in selected column order
type Row []interface{}

// DefaultStatementCacheSize bounds the prepared batch templates kept per transaction
const DefaultStatementCacheSize = 16

// Option configures a Session
type Option func(*Session)

// WithQueryTimeout bounds every statement by d. Zero disables the bound.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithMiddleware appends statement middleware, run in the order given
func WithMiddleware(m ...Middleware) Option {
	return func(s *Session) {
		s.middlewares = append(s.middlewares, m...)
	}
}

// Session owns one connection and the transaction open on it. Its methods
// are safe for concurrent use; statements are serialised.
type Session struct {
	mu sync.Mutex

	state   State
	db      database.Database
	builder *sqlgen.Builder

	base    context.Context
	conn    *sql.Conn
	tx      *sql.Tx
	version *goversion.Version

	timeout     time.Duration
	middlewares []Middleware

	// prepared batch templates, valid until the transaction ends
	stmts *cache.LRU
}

// New creates an unbound session
func New(opts ...Option) *Session {
	s := &Session{
		state: Unbound,
		stmts: cache.New(DefaultStatementCacheSize, closeStmt),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func closeStmt(key string, v interface{}) {
	if stmt, ok := v.(*sql.Stmt); ok {
		if err := stmt.Close(); err != nil {
			debug.Warn("failed to close prepared statement", "key", key, "error", err)
		}
	}
}

// NewBound creates a session bound to db
func NewBound(db database.Database, opts ...Option) (*Session, error) {
	s := New(opts...)
	if err := s.Bind(db); err != nil {
		return nil, err
	}
	return s, nil
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Database returns the bound database, or nil
func (s *Session) Database() database.Database {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db
}

// Builder returns the statement builder for the bound database, or nil
func (s *Session) Builder() *sqlgen.Builder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builder
}

// Bind attaches db. A bound session may be rebound until it connects.
func (s *Session) Bind(db database.Database) error {
	if isNil(db) {
		return ErrInvalidDatabase
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Unbound, Bound:
	case Closed:
		return ErrClosed
	default:
		return fmt.Errorf("%w: cannot bind a %s session", ErrInvalidState, s.state)
	}

	s.db = db
	s.builder = sqlgen.NewBuilder(db.Dialect())
	s.state = Bound
	return nil
}

func isNil(db database.Database) bool {
	if db == nil {
		return true
	}
	v := reflect.ValueOf(db)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Connect opens the session's connection. The transaction is begun lazily
// and is not tied to ctx's cancellation.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Bound:
	case Unbound:
		return ErrNotBound
	case Closed:
		return ErrClosed
	default:
		return fmt.Errorf("%w: already connected", ErrInvalidState)
	}

	conn, err := s.db.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", s.db.Name(), err)
	}

	s.conn = conn
	s.base = context.WithoutCancel(ctx)
	s.state = Connected
	debug.Debug("session connected", "database", s.db.Name(), "engine", s.db.Engine())
	return nil
}

// Commit commits the open transaction, if any
func (s *Session) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}
	return s.commit()
}

func (s *Session) commit() error {
	if s.tx == nil {
		return nil
	}
	s.stmts.Clear()
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback discards the open transaction, if any
func (s *Session) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}
	return s.rollback()
}

func (s *Session) rollback() error {
	if s.tx == nil {
		return nil
	}
	s.stmts.Clear()
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// Close rolls back uncommitted work and releases the connection
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}

	rbErr := s.rollback()
	closeErr := s.conn.Close()
	s.conn = nil
	s.state = Closed
	debug.Debug("session closed", "database", s.db.Name())

	if rbErr != nil {
		return rbErr
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close connection: %w", closeErr)
	}
	return nil
}

// Run binds a new session to db, connects it and calls fn. The work is
// committed when fn succeeds and rolled back when it fails or panics; the
// session is always closed.
func Run(ctx context.Context, db database.Database, fn func(*Session) error, opts ...Option) (err error) {
	s, err := NewBound(db, opts...)
	if err != nil {
		return err
	}
	if err := s.Connect(ctx); err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = s.Close()
			panic(p)
		}
		if err != nil {
			_ = s.Close()
			return
		}
		if err = s.Commit(); err != nil {
			_ = s.Close()
			return
		}
		err = s.Close()
	}()

	return fn(s)
}

// ready reports whether statements may run. Caller holds mu.
func (s *Session) ready() error {
	switch s.state {
	case Connected:
		return nil
	case Closed:
		return ErrClosed
	default:
		return ErrNotConnected
	}
}

// cursor returns the open transaction, beginning one if needed. Caller holds mu.
func (s *Session) cursor() (*sql.Tx, error) {
	if s.tx != nil {
		return s.tx, nil
	}
	tx, err := s.conn.BeginTx(s.base, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	s.tx = tx
	return tx, nil
}

func (s *Session) statementContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// exec runs a write statement. Caller holds mu.
func (s *Session) exec(ctx context.Context, op, table, query string, args []interface{}) (Result, error) {
	var res Result
	tx, err := s.cursor()
	if err != nil {
		return res, err
	}

	ctx, cancel := s.statementContext(ctx)
	defer cancel()

	err = s.run(ctx, op, table, query, args, func() error {
		r, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		res = toResult(r)
		return nil
	})
	return res, err
}

// execBatch runs one prepared template per row. Caller holds mu.
func (s *Session) execBatch(ctx context.Context, op, table string, batch *sqlgen.Batch) (Result, error) {
	var total Result
	tx, err := s.cursor()
	if err != nil {
		return total, err
	}

	ctx, cancel := s.statementContext(ctx)
	defer cancel()

	err = s.run(ctx, op, table, batch.SQL, nil, func() error {
		stmt, err := s.prepare(ctx, tx, table, batch.SQL)
		if err != nil {
			return err
		}

		for i, row := range batch.Rows {
			r, err := stmt.ExecContext(ctx, row...)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			res := toResult(r)
			total.RowsAffected += res.RowsAffected
			total.LastInsertID = res.LastInsertID
		}
		return nil
	})
	return total, err
}

// prepare returns the cached statement for query, preparing it on tx on a
// miss. Caller holds mu.
func (s *Session) prepare(ctx context.Context, tx *sql.Tx, table, query string) (*sql.Stmt, error) {
	key := cache.Key(table, query)
	if v, ok := s.stmts.Get(key); ok {
		return v.(*sql.Stmt), nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	s.stmts.Set(key, stmt)
	return stmt, nil
}

// query runs a read statement and materialises its rows. Caller holds mu.
func (s *Session) query(ctx context.Context, op, table string, q *sqlgen.Query) ([]Row, error) {
	tx, err := s.cursor()
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.statementContext(ctx)
	defer cancel()

	var out []Row
	err = s.run(ctx, op, table, q.SQL, q.Args, func() error {
		rows, err := tx.QueryContext(ctx, q.SQL, q.Args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out, err = scanRows(rows)
		return err
	})
	return out, err
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []Row{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = append([]byte(nil), b...)
			}
		}
		out = append(out, Row(values))
	}
	return out, rows.Err()
}

func toResult(r sql.Result) Result {
	var res Result
	if n, err := r.RowsAffected(); err == nil {
		res.RowsAffected = n
	}
	if id, err := r.LastInsertId(); err == nil {
		res.LastInsertID = id
	}
	return res
}

// ServerVersion returns the engine's version, queried once per session
func (s *Session) ServerVersion(ctx context.Context) (*goversion.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.serverVersion(ctx)
}

// serverVersion returns the cached engine version. Caller holds mu.
func (s *Session) serverVersion(ctx context.Context) (*goversion.Version, error) {
	if s.version != nil {
		return s.version, nil
	}
	tx, err := s.cursor()
	if err != nil {
		return nil, err
	}
	v, err := database.ServerVersion(ctx, tx, s.db.Engine())
	if err != nil {
		return nil, err
	}
	s.version = v
	return v, nil
}
