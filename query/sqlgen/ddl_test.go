package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTable(t *testing.T) {
	b := NewBuilder(SQLite{})

	sql, err := b.CreateTable("t", Pairs{P("a", "INTEGER"), P("b", "TEXT")})
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE t (a INTEGER, b TEXT);", sql)

	sql, err = b.CreateTable("members", Pairs{
		P("id", "INTEGER PRIMARY KEY"),
		P("name", "TEXT NOT NULL"),
		P("joined", "TIMESTAMP"),
	})
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE members (id INTEGER PRIMARY KEY, name TEXT NOT NULL, joined TIMESTAMP);", sql)
}

func TestCreateTableErrors(t *testing.T) {
	b := NewBuilder(SQLite{})

	_, err := b.CreateTable("", Pairs{P("a", "INTEGER")})
	assert.ErrorIs(t, err, ErrEmptyTable)

	_, err = b.CreateTable("t", nil)
	assert.ErrorIs(t, err, ErrNoColumns)

	_, err = b.CreateTable("t", Pairs{P("a", "INTEGER"), P("a", "TEXT")})
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestAlterTable(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		fn      AlterFunc
		columns Pairs
		want    string
	}{
		{
			name:    "sqlite add",
			dialect: SQLite{},
			fn:      AlterAdd,
			columns: Pairs{P("level", "INTEGER DEFAULT 0")},
			want:    "ALTER TABLE t ADD level INTEGER DEFAULT 0;",
		},
		{
			name:    "mysql add repeats function",
			dialect: MySQL{},
			fn:      AlterAdd,
			columns: Pairs{P("a", "INT"), P("b", "TEXT")},
			want:    "ALTER TABLE t ADD a INT, ADD b TEXT;",
		},
		{
			name:    "mysql modify column",
			dialect: MySQL{},
			fn:      "modify column",
			columns: Pairs{P("a", "BIGINT")},
			want:    "ALTER TABLE t MODIFY COLUMN a BIGINT;",
		},
		{
			name:    "postgres alter column",
			dialect: Postgres{},
			fn:      AlterAlterColumn,
			columns: Pairs{P("a", "TYPE BIGINT")},
			want:    "ALTER TABLE t ALTER COLUMN a TYPE BIGINT;",
		},
		{
			name:    "drop column ignores values",
			dialect: Postgres{},
			fn:      AlterDropColumn,
			columns: Pairs{P("a", "ignored"), P("b", nil)},
			want:    "ALTER TABLE t DROP COLUMN a, DROP COLUMN b;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewBuilder(tt.dialect).AlterTable("t", tt.fn, tt.columns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAlterTableDrop(t *testing.T) {
	sql, err := NewBuilder(SQLite{}).AlterTableDrop("t", "legacy")
	require.NoError(t, err)
	assert.Equal(t, "ALTER TABLE t DROP COLUMN legacy;", sql)
}

func TestAlterTableErrors(t *testing.T) {
	b := NewBuilder(SQLite{})

	_, err := b.AlterTable("t", "RENAME", Pairs{P("a", "b")})
	assert.ErrorIs(t, err, ErrUnknownAlterFunc)

	_, err = b.AlterTable("t", "ADD; DROP TABLE t", Pairs{P("a", "INT")})
	assert.ErrorIs(t, err, ErrUnknownAlterFunc)

	_, err = b.AlterTable("t", AlterModify, Pairs{P("a", "INT")})
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = b.AlterTable("t", AlterAdd, Pairs{P("a", "INT"), P("b", "INT")})
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = b.AlterTable("t", AlterAdd, nil)
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestParseAlterFunc(t *testing.T) {
	fn, err := ParseAlterFunc(" drop   column ")
	require.NoError(t, err)
	assert.Equal(t, AlterDropColumn, fn)

	_, err = ParseAlterFunc("")
	assert.ErrorIs(t, err, ErrUnknownAlterFunc)
}

func TestDropAndTruncate(t *testing.T) {
	sqlite := NewBuilder(SQLite{})
	pg := NewBuilder(Postgres{})

	sql, err := sqlite.DropTable("t")
	require.NoError(t, err)
	assert.Equal(t, "DROP TABLE t;", sql)

	sql, err = sqlite.TruncateTable("t")
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM t;", sql)

	sql, err = pg.TruncateTable("t")
	require.NoError(t, err)
	assert.Equal(t, "TRUNCATE TABLE t;", sql)
}

func TestIndexes(t *testing.T) {
	b := NewBuilder(SQLite{})

	sql, err := b.CreateIndex("idx_name", "members", "name")
	require.NoError(t, err)
	assert.Equal(t, "CREATE INDEX idx_name ON members(name);", sql)

	sql, err = b.CreateUniqueIndex("idx_guild_user", "members", "guild_id", "user_id")
	require.NoError(t, err)
	assert.Equal(t, "CREATE UNIQUE INDEX idx_guild_user ON members(guild_id,user_id);", sql)

	_, err = b.CreateIndex("idx", "members")
	assert.ErrorIs(t, err, ErrNoColumns)

	_, err = b.CreateUniqueIndex(" ", "members", "name")
	assert.ErrorIs(t, err, ErrEmptyIndex)
	_, err = b.DropIndex("")
	assert.ErrorIs(t, err, ErrEmptyIndex)

	sql, err = b.DropIndex("idx_name")
	require.NoError(t, err)
	assert.Equal(t, "DROP INDEX idx_name;", sql)

	my := NewBuilder(MySQL{})
	sql, err = my.DropIndex("idx_name", "members")
	require.NoError(t, err)
	assert.Equal(t, "DROP INDEX idx_name ON members;", sql)

	_, err = my.DropIndex("idx_name")
	assert.ErrorIs(t, err, ErrEmptyTable)
}
