package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	prev := AppFs
	AppFs = afero.NewMemMapFs()
	t.Cleanup(func() { AppFs = prev })
	t.Setenv("DATABASE_URL", "")
	return AppFs
}

func TestLoadDefaults(t *testing.T) {
	useMemFs(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "./guild.db", cfg.DataSource)
	assert.Equal(t, "sqlite", cfg.Engine)
	assert.Equal(t, "./create_guild.sql", cfg.SchemaPath)
	assert.False(t, cfg.SkipBootstrap)
	assert.Zero(t, cfg.QueryTimeout)
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, "/etc/sqlkit.yaml", []byte(`
data_source: /var/lib/guild.db
schema_path: /etc/guild.sql
query_timeout: 3s
`), 0o644))

	cfg, err := Load("/etc/sqlkit.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/guild.db", cfg.DataSource)
	assert.Equal(t, "/etc/guild.sql", cfg.SchemaPath)
	assert.Equal(t, 3*time.Second, cfg.QueryTimeout)

	t.Setenv("SQLKIT_SKIP_BOOTSTRAP", "true")
	t.Setenv("SQLKIT_QUERY_TIMEOUT", "250ms")
	cfg, err = Load("/etc/sqlkit.yaml", nil)
	require.NoError(t, err)
	assert.True(t, cfg.SkipBootstrap)
	assert.Equal(t, 250*time.Millisecond, cfg.QueryTimeout)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "")
	flags.Bool("debug", false, "")
	require.NoError(t, flags.Parse([]string{"--db", "/tmp/other.db", "--debug"}))

	cfg, err = Load("/etc/sqlkit.yaml", flags)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.DataSource)
	assert.True(t, cfg.Debug)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	useMemFs(t)

	_, err := Load("/nope.yaml", nil)
	assert.Error(t, err)
}

func TestDatabaseURLOverride(t *testing.T) {
	useMemFs(t)
	t.Setenv("DATABASE_URL", "postgres://bot@localhost/guild")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres://bot@localhost/guild", cfg.DataSource)
	assert.Equal(t, "postgres", cfg.Engine)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "")
	require.NoError(t, flags.Parse([]string{"--db", "local.db"}))
	cfg, err = Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "local.db", cfg.DataSource)
	assert.Equal(t, "sqlite", cfg.Engine)
}

func TestSaveRoundTrip(t *testing.T) {
	useMemFs(t)

	want := &Config{
		DataSource:   "/data/guild.db",
		Engine:       "sqlite",
		Name:         "guild",
		SchemaPath:   "/data/schema.sql",
		QueryTimeout: 2 * time.Second,
	}
	require.NoError(t, Save(want, "/home/bot/.sqlkit.yaml"))

	got, err := Load("/home/bot/.sqlkit.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	db := got.Database()
	assert.Equal(t, "/data/guild.db", db.DataSource)
	assert.Equal(t, "guild", db.Name)
	assert.Same(t, AppFs, db.Fs)
}

func TestDetectEngine(t *testing.T) {
	assert.Equal(t, "postgres", detectEngine("postgresql://x/y"))
	assert.Equal(t, "mysql", detectEngine("bot:pw@tcp(localhost:3306)/guild"))
	assert.Equal(t, "sqlite", detectEngine("file:guild.db?cache=shared"))
	assert.Equal(t, "", detectEngine("something"))
}

func TestLoadDotEnvFromAppFs(t *testing.T) {
	fs := useMemFs(t)
	for _, key := range []string{"SQLKIT_ENGINE", "SQLKIT_DB_NAME"} {
		key := key
		t.Cleanup(func() { os.Unsetenv(key) })
	}
	t.Setenv("SQLKIT_SCHEMA_PATH", "/from/env.sql")

	require.NoError(t, afero.WriteFile(fs, ".env", []byte(
		"SQLKIT_ENGINE=postgres\nSQLKIT_DB_NAME=guild\nSQLKIT_SCHEMA_PATH=/from/dotenv.sql\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, ".env.local", []byte("SQLKIT_DB_NAME=guild_local\n"), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Engine)
	assert.Equal(t, "guild_local", cfg.Name)
	assert.Equal(t, "/from/env.sql", cfg.SchemaPath)
}

func TestLoadDotEnvInvalid(t *testing.T) {
	fs := useMemFs(t)
	t.Cleanup(func() { os.Unsetenv("SQLKIT_ENGINE") })
	require.NoError(t, afero.WriteFile(fs, ".env", []byte("SQLKIT_ENGINE='unterminated\n"), 0o644))

	_, err := Load("", nil)
	assert.Error(t, err)
}
