// Package filter parses the small expression language used by command line
// flags: conditions such as `score >= 10` or `name NOT LIKE 'a%'` and
// assignments such as `name='ann'`.
package filter

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/satishbabariya/sqlkit/query/sqlgen"
)

var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `'(?:''|[^'])*'`},
	{Name: "Float", Pattern: `[-+]?\d+\.\d+`},
	{Name: "Int", Pattern: `[-+]?\d+`},
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_.]*`},
	{Name: "Op", Pattern: `<>|!=|<=|>=|==|=|<|>`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Expression is `column operator literal`
type Expression struct {
	Column   string   `@Ident`
	Operator []string `( @Op | @"NOT"? @"LIKE" | @"GLOB" | @"IS" @"NOT"? )`
	Value    *Literal `@@`
}

// Assignment is `column = literal`
type Assignment struct {
	Column string   `@Ident "="`
	Value  *Literal `@@`
}

// Literal is a single value
type Literal struct {
	Null   bool     `  @"NULL"`
	Bool   *Boolean `| @("TRUE" | "FALSE")`
	Float  *float64 `| @Float`
	Int    *int64   `| @Int`
	String *string  `| @String`
	Word   *string  `| @Ident`
}

// Boolean captures TRUE and FALSE in any case
type Boolean bool

// Capture implements participle.Capture
func (b *Boolean) Capture(values []string) error {
	*b = Boolean(strings.EqualFold(values[0], "TRUE"))
	return nil
}

// Interface returns the literal as a bindable Go value
func (l *Literal) Interface() interface{} {
	switch {
	case l.Null:
		return nil
	case l.Bool != nil:
		return bool(*l.Bool)
	case l.Float != nil:
		return *l.Float
	case l.Int != nil:
		return *l.Int
	case l.String != nil:
		s := *l.String
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	case l.Word != nil:
		return *l.Word
	default:
		return nil
	}
}

var (
	options = []participle.Option{
		participle.Lexer(filterLexer),
		participle.Elide("Whitespace"),
		participle.CaseInsensitive("Ident"),
		participle.UseLookahead(2),
	}
	expressionParser = participle.MustBuild[Expression](options...)
	assignmentParser = participle.MustBuild[Assignment](options...)
)

// Parse parses one condition
func Parse(expr string) (sqlgen.Condition, error) {
	e, err := expressionParser.ParseString("", expr)
	if err != nil {
		return sqlgen.Condition{}, fmt.Errorf("invalid condition %q: %w", expr, err)
	}
	op, err := sqlgen.NormalizeOperator(strings.Join(e.Operator, " "))
	if err != nil {
		return sqlgen.Condition{}, err
	}
	return sqlgen.C(e.Column, op, e.Value.Interface()), nil
}

// ParseAll parses every condition in order
func ParseAll(exprs []string) ([]sqlgen.Condition, error) {
	conds := make([]sqlgen.Condition, 0, len(exprs))
	for _, expr := range exprs {
		c, err := Parse(expr)
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	return conds, nil
}

// ParseAssignments parses `column=value` arguments into ordered pairs
func ParseAssignments(args []string) (sqlgen.Pairs, error) {
	pairs := make(sqlgen.Pairs, 0, len(args))
	for _, arg := range args {
		a, err := assignmentParser.ParseString("", arg)
		if err != nil {
			return nil, fmt.Errorf("invalid assignment %q: %w", arg, err)
		}
		pairs = pairs.Add(a.Column, a.Value.Interface())
	}
	return pairs, nil
}

// ParseLiterals parses positional values
func ParseLiterals(args []string) ([]interface{}, error) {
	values := make([]interface{}, 0, len(args))
	for _, arg := range args {
		l, err := literalParser.ParseString("", arg)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", arg, err)
		}
		values = append(values, l.Interface())
	}
	return values, nil
}

var literalParser = participle.MustBuild[Literal](options...)

// ParseOrder parses `column` or `column:direction`
func ParseOrder(s string) (sqlgen.OrderBy, error) {
	col, dir, _ := strings.Cut(s, ":")
	col = strings.TrimSpace(col)
	if col == "" {
		return sqlgen.OrderBy{}, fmt.Errorf("invalid order %q", s)
	}
	return sqlgen.OrderBy{Column: col, Direction: strings.ToUpper(strings.TrimSpace(dir))}, nil
}
