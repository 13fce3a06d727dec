package sqlgen

import (
	"fmt"
	"strings"
)

// Marker is the operator slot in a WHERE template.
const Marker = "|"

var operators = map[string]struct{}{
	"=":        {},
	"==":       {},
	"!=":       {},
	"<>":       {},
	"<":        {},
	">":        {},
	"<=":       {},
	">=":       {},
	"LIKE":     {},
	"NOT LIKE": {},
	"GLOB":     {},
	"IS":       {},
	"IS NOT":   {},
}

// NormalizeOperator upper-cases an operator, collapses inner whitespace and
// checks it against the allowed comparison operators.
func NormalizeOperator(op string) (string, error) {
	norm := strings.ToUpper(strings.Join(strings.Fields(op), " "))
	if _, ok := operators[norm]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOperator, op)
	}
	return norm, nil
}

// SubstituteOperators replaces each Marker in template with the next operator,
// left to right. The number of markers must equal len(ops).
func SubstituteOperators(template string, ops []string) (string, error) {
	if n := strings.Count(template, Marker); n != len(ops) {
		return "", fmt.Errorf("%w: %d markers, %d operators", ErrOperatorArity, n, len(ops))
	}

	var sb strings.Builder
	sb.Grow(len(template) + 8*len(ops))
	rest := template
	for _, op := range ops {
		norm, err := NormalizeOperator(op)
		if err != nil {
			return "", err
		}
		i := strings.Index(rest, Marker)
		sb.WriteString(rest[:i])
		sb.WriteString(norm)
		rest = rest[i+len(Marker):]
	}
	sb.WriteString(rest)

	return sb.String(), nil
}
