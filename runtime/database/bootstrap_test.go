package database

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitScript(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "empty",
			script: "  \n-- nothing here\n",
			want:   nil,
		},
		{
			name:   "two statements",
			script: "CREATE TABLE a (id INTEGER);\nCREATE TABLE b (id INTEGER);",
			want:   []string{"CREATE TABLE a (id INTEGER)", "CREATE TABLE b (id INTEGER)"},
		},
		{
			name:   "missing final semicolon",
			script: "CREATE TABLE a (id INTEGER);\nINSERT INTO a VALUES (1)",
			want:   []string{"CREATE TABLE a (id INTEGER)", "INSERT INTO a VALUES (1)"},
		},
		{
			name:   "semicolon in string",
			script: "INSERT INTO a VALUES ('x;y');INSERT INTO a VALUES ('it''s');",
			want:   []string{"INSERT INTO a VALUES ('x;y')", "INSERT INTO a VALUES ('it''s')"},
		},
		{
			name:   "comments dropped",
			script: "/* header; with semicolon */\nCREATE TABLE a (id INTEGER); -- trailing; comment\n",
			want:   []string{"CREATE TABLE a (id INTEGER)"},
		},
		{
			name: "trigger body",
			script: `CREATE TABLE log (msg TEXT);
CREATE TRIGGER t_ins AFTER INSERT ON log BEGIN
  INSERT INTO log VALUES (CASE WHEN NEW.msg IS NULL THEN 'none' ELSE NEW.msg END);
  DELETE FROM log WHERE msg = 'x';
END;
SELECT 1;`,
			want: []string{
				"CREATE TABLE log (msg TEXT)",
				"CREATE TRIGGER t_ins AFTER INSERT ON log BEGIN\n  INSERT INTO log VALUES (CASE WHEN NEW.msg IS NULL THEN 'none' ELSE NEW.msg END);\n  DELETE FROM log WHERE msg = 'x';\nEND",
				"SELECT 1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitScript("test.sql", tt.script)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitScriptUnterminatedTrigger(t *testing.T) {
	_, err := SplitScript("test.sql", "CREATE TRIGGER t AFTER INSERT ON a BEGIN SELECT 1;")
	assert.Error(t, err)
}

func TestLoadSchema(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/schema.sql", []byte("CREATE TABLE a (id INTEGER);"), 0o644))

	stmts, err := LoadSchema(fs, "/schema.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"CREATE TABLE a (id INTEGER)"}, stmts)

	_, err = LoadSchema(fs, "/missing.sql")
	assert.ErrorIs(t, err, ErrSchemaNotFound)
}
