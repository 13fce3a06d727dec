package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "NULL", FormatValue(nil))
	assert.Equal(t, "0x0a0b", FormatValue([]byte{0x0a, 0x0b}))
	assert.Equal(t, "2024-05-01T12:00:00Z", FormatValue(ts))
	assert.Equal(t, "ann", FormatValue("ann"))
	assert.Equal(t, "42", FormatValue(int64(42)))
	assert.Equal(t, "2.5", FormatValue(2.5))
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	prev := Out
	Out = &buf
	defer func() { Out = prev }()

	require.NoError(t, PrintTable([]string{"id", "name"}, [][]string{{"1", "ann"}, {"2", "bob"}}))
	assert.Contains(t, buf.String(), "ann")
	assert.Contains(t, buf.String(), "bob")

	buf.Reset()
	require.NoError(t, PrintTable(nil, nil))
	assert.Empty(t, buf.String())
}
