package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNotBound is returned by Connect on a session with no database.
	ErrNotBound = errors.New("session is not bound to a database")
	// ErrNotConnected is returned by statement operations before Connect.
	ErrNotConnected = errors.New("session is not connected")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("session is closed")
	// ErrInvalidState is returned for transitions the state machine forbids.
	ErrInvalidState = errors.New("invalid session state")
	// ErrInvalidDatabase is returned by Bind for a nil database.
	ErrInvalidDatabase = errors.New("invalid database")
	// ErrReadOnly is returned by ReadOnlyMiddleware for writes.
	ErrReadOnly = errors.New("session is read-only")
)

// OpError records a failed statement together with its text.
type OpError struct {
	Op    string
	Table string
	SQL   string
	Err   error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Err
}

func opError(op, table, sql string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Table: table, SQL: sql, Err: err}
}
