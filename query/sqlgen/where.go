package sqlgen

import (
	"fmt"
	"strings"
)

// Condition represents a single WHERE predicate with its bound value
type Condition struct {
	Column   string
	Operator string // "=", "!=", ">", "<", ">=", "<=", "LIKE", ...
	Value    interface{}
}

// C creates a condition
func C(column, operator string, value interface{}) Condition {
	return Condition{Column: column, Operator: operator, Value: value}
}

// Eq creates an equality condition
func Eq(column string, value interface{}) Condition {
	return Condition{Column: column, Operator: "=", Value: value}
}

// Predicate is a condition without a value, used by batch templates
// where values come from each row.
type Predicate struct {
	Column   string
	Operator string
}

// Zip pairs positional operators with column/value pairs, in order.
// It fails when the two lists differ in length.
func Zip(ops []string, conds Pairs) ([]Condition, error) {
	if len(ops) != len(conds) {
		return nil, fmt.Errorf("%w: %d conditions, %d operators", ErrOperatorArity, len(conds), len(ops))
	}
	out := make([]Condition, len(conds))
	for i, pair := range conds {
		out[i] = Condition{Column: pair.Column, Operator: ops[i], Value: pair.Value}
	}
	return out, nil
}

// OrderBy represents an ORDER BY term
type OrderBy struct {
	Column    string
	Direction string // "ASC" or "DESC"
}

// buildWhere renders the predicates joined by AND. Each fragment's operator
// slot is filled before the column is prepended, so a Marker inside a quoted
// column name is never mistaken for a slot.
func (b *Builder) buildWhere(preds []Predicate, argIndex *int) (string, error) {
	if len(preds) == 0 {
		return "", nil
	}

	parts := make([]string, len(preds))
	for i, p := range preds {
		if strings.TrimSpace(p.Column) == "" {
			return "", ErrEmptyColumn
		}
		cmp, err := SubstituteOperators(Marker+" "+b.dialect.Placeholder(*argIndex), []string{p.Operator})
		if err != nil {
			return "", err
		}
		parts[i] = p.Column + " " + cmp
		(*argIndex)++
	}

	return strings.Join(parts, " AND "), nil
}

func (b *Builder) whereConditions(conds []Condition, argIndex *int) (string, []interface{}, error) {
	preds := make([]Predicate, len(conds))
	args := make([]interface{}, len(conds))
	for i, c := range conds {
		preds[i] = Predicate{Column: c.Column, Operator: c.Operator}
		args[i] = c.Value
	}
	sql, err := b.buildWhere(preds, argIndex)
	if err != nil {
		return "", nil, err
	}
	return sql, args, nil
}

func buildOrderBy(order []OrderBy) (string, error) {
	parts := make([]string, len(order))
	for i, ob := range order {
		if strings.TrimSpace(ob.Column) == "" {
			return "", ErrEmptyColumn
		}
		direction := strings.ToUpper(strings.TrimSpace(ob.Direction))
		switch direction {
		case "":
			direction = "ASC"
		case "ASC", "DESC":
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidDirection, ob.Direction)
		}
		parts[i] = ob.Column + " " + direction
	}
	return strings.Join(parts, ", "), nil
}
