package session

import (
	"context"
	"time"

	"github.com/satishbabariya/sqlkit/internal/debug"
)

// StatementEvent describes one statement execution
type StatementEvent struct {
	Op       string
	Table    string
	SQL      string
	Args     []interface{}
	Start    time.Time
	Duration time.Duration
	Error    error
}

// Middleware intercepts statement execution. It must call next exactly once
// unless it wants to stop the statement, in which case it returns an error.
type Middleware func(ctx context.Context, event *StatementEvent, next func() error) error

// LoggingMiddleware reports every statement through logf
func LoggingMiddleware(logf func(format string, args ...interface{})) Middleware {
	return func(ctx context.Context, event *StatementEvent, next func() error) error {
		err := next()
		if err != nil {
			logf("%s %s failed after %s: %v", event.Op, event.SQL, event.Duration, err)
			return err
		}
		logf("%s %s (%d args) in %s", event.Op, event.SQL, len(event.Args), event.Duration)
		return nil
	}
}

// ReadOnlyMiddleware refuses every statement that is not a read
func ReadOnlyMiddleware() Middleware {
	return func(ctx context.Context, event *StatementEvent, next func() error) error {
		if !isRead(event.Op) {
			return ErrReadOnly
		}
		return next()
	}
}

func isRead(op string) bool {
	switch op {
	case "fetch_all", "fetch_by_columns", "fetch_all_in_order", "fetch_distinct":
		return true
	}
	return false
}

// run executes exec through the middleware chain and logs the outcome
func (s *Session) run(ctx context.Context, op, table, sql string, args []interface{}, exec func() error) error {
	event := &StatementEvent{Op: op, Table: table, SQL: sql, Args: args, Start: time.Now()}

	index := 0
	var next func() error
	next = func() error {
		if index >= len(s.middlewares) {
			err := exec()
			event.Duration = time.Since(event.Start)
			event.Error = err
			return err
		}
		m := s.middlewares[index]
		index++
		return m(ctx, event, next)
	}

	err := next()
	debug.Statement(op, sql, args, time.Since(event.Start), err)
	return opError(op, table, sql, err)
}
