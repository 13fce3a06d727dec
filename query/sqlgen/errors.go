package sqlgen

import "errors"

var (
	// ErrEmptyTable is returned when a statement is requested without a table name.
	ErrEmptyTable = errors.New("table name is empty")

	// ErrEmptyColumn is returned when a column name is blank.
	ErrEmptyColumn = errors.New("column name is empty")

	// ErrDuplicateColumn is returned when the same column appears twice in one list.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrEmptyIndex is returned when an index statement has no index name.
	ErrEmptyIndex = errors.New("index name is empty")

	// ErrNoColumns is returned when a statement needs at least one column.
	ErrNoColumns = errors.New("no columns given")

	// ErrNoValues is returned when an insert or update has nothing to write.
	ErrNoValues = errors.New("no values given")

	// ErrNoConditions is returned by Delete when the condition list is empty.
	ErrNoConditions = errors.New("no conditions given")

	// ErrRowArity is returned when batch rows do not all have the expected width.
	ErrRowArity = errors.New("row arity mismatch")

	// ErrOperatorArity is returned when the operator count differs from the marker count.
	ErrOperatorArity = errors.New("operator count does not match markers")

	// ErrUnknownOperator is returned for comparison operators outside the allowed set.
	ErrUnknownOperator = errors.New("unknown comparison operator")

	// ErrUnknownAlterFunc is returned for ALTER TABLE functions outside the allowed set.
	ErrUnknownAlterFunc = errors.New("unknown ALTER TABLE function")

	// ErrInvalidDirection is returned for ORDER BY directions other than ASC and DESC.
	ErrInvalidDirection = errors.New("invalid order direction")

	// ErrUnknownEngine is returned by NewDialect for unrecognised engines.
	ErrUnknownEngine = errors.New("unknown engine")

	// ErrUnsupported is returned when the dialect cannot express a statement.
	ErrUnsupported = errors.New("not supported by dialect")
)
