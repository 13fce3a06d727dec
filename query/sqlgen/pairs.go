package sqlgen

// Pair is one column and its value. For DDL the value is the column type
// and constraints, e.g. "INTEGER PRIMARY KEY".
type Pair struct {
	Column string
	Value  interface{}
}

// Pairs is an ordered column/value mapping. Statement column lists follow
// slice order, so values always line up with their placeholders.
type Pairs []Pair

// P creates a pair
func P(column string, value interface{}) Pair {
	return Pair{Column: column, Value: value}
}

// Add appends a pair and returns the extended list
func (p Pairs) Add(column string, value interface{}) Pairs {
	return append(p, Pair{Column: column, Value: value})
}

// Columns returns the column names in order
func (p Pairs) Columns() []string {
	cols := make([]string, len(p))
	for i, pair := range p {
		cols[i] = pair.Column
	}
	return cols
}

// Values returns the values in order
func (p Pairs) Values() []interface{} {
	vals := make([]interface{}, len(p))
	for i, pair := range p {
		vals[i] = pair.Value
	}
	return vals
}

// Get returns the value for column, if present
func (p Pairs) Get(column string) (interface{}, bool) {
	for _, pair := range p {
		if pair.Column == column {
			return pair.Value, true
		}
	}
	return nil, false
}
