package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/satishbabariya/sqlkit/runtime/database"
)

// AppFs is the filesystem config files, .env files and schema scripts are read from
var AppFs = afero.NewOsFs()

const (
	// FileName is the config file looked up in ., $HOME and $HOME/.config/sqlkit.
	FileName = ".sqlkit"
	// EnvPrefix prefixes every environment override, e.g. SQLKIT_DATA_SOURCE.
	EnvPrefix = "SQLKIT"
)

// Config holds the application configuration
type Config struct {
	DataSource    string        `mapstructure:"data_source"`
	Engine        string        `mapstructure:"engine"`
	Name          string        `mapstructure:"db_name"`
	SchemaPath    string        `mapstructure:"schema_path"`
	SkipBootstrap bool          `mapstructure:"skip_bootstrap"`
	QueryTimeout  time.Duration `mapstructure:"query_timeout"`
	Debug         bool          `mapstructure:"debug"`
}

// flagKeys maps command line flags onto config keys
var flagKeys = map[string]string{
	"db":             "data_source",
	"engine":         "engine",
	"name":           "db_name",
	"schema":         "schema_path",
	"skip-bootstrap": "skip_bootstrap",
	"timeout":        "query_timeout",
	"debug":          "debug",
}

// Load reads configuration from, lowest priority first: defaults, the config
// file, .env files, SQLKIT_* variables and the flags that were set. An
// explicit configFile must exist; the default lookup may find nothing.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetFs(AppFs)

	v.SetDefault("data_source", "./guild.db")
	v.SetDefault("engine", database.DefaultEngine)
	v.SetDefault("schema_path", database.DefaultSchemaPath)
	v.SetDefault("db_name", "")
	v.SetDefault("skip_bootstrap", false)
	v.SetDefault("query_timeout", time.Duration(0))
	v.SetDefault("debug", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "sqlkit"))

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for flag, key := range flagKeys {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// DATABASE_URL wins over everything but an explicit --db.
	if url := os.Getenv("DATABASE_URL"); url != "" && !flagChanged(flags, "db") {
		cfg.DataSource = url
		if engine := detectEngine(url); engine != "" && !flagChanged(flags, "engine") {
			cfg.Engine = engine
		}
	}

	return cfg, nil
}

// loadDotEnv loads .env and then .env.local from AppFs. Variables already in
// the environment win over .env; .env.local overrides both.
func loadDotEnv() error {
	for _, file := range []struct {
		name     string
		override bool
	}{
		{".env", false},
		{".env.local", true},
	} {
		data, err := afero.ReadFile(AppFs, file.name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to read %s: %w", file.name, err)
		}
		vars, err := godotenv.Parse(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", file.name, err)
		}
		for key, value := range vars {
			if _, set := os.LookupEnv(key); set && !file.override {
				continue
			}
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func flagChanged(flags *pflag.FlagSet, name string) bool {
	if flags == nil {
		return false
	}
	f := flags.Lookup(name)
	return f != nil && f.Changed
}

func detectEngine(url string) string {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres"
	case strings.Contains(url, "@tcp("), strings.Contains(url, "@unix("):
		return "mysql"
	case strings.HasPrefix(url, "file:"), strings.HasSuffix(url, ".db"), strings.HasSuffix(url, ".sqlite"):
		return "sqlite"
	default:
		return ""
	}
}

// Database converts the configuration into the engine configuration
func (c *Config) Database() database.Config {
	return database.Config{
		DataSource:    c.DataSource,
		Engine:        c.Engine,
		Name:          c.Name,
		SchemaPath:    c.SchemaPath,
		SkipBootstrap: c.SkipBootstrap,
		Fs:            AppFs,
	}
}

// Save writes the configuration to path as YAML
func Save(cfg *Config, path string) error {
	v := viper.New()
	v.SetFs(AppFs)
	v.Set("data_source", cfg.DataSource)
	v.Set("engine", cfg.Engine)
	if cfg.Name != "" {
		v.Set("db_name", cfg.Name)
	}
	v.Set("schema_path", cfg.SchemaPath)
	v.Set("skip_bootstrap", cfg.SkipBootstrap)
	if cfg.QueryTimeout > 0 {
		v.Set("query_timeout", cfg.QueryTimeout.String())
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := AppFs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return v.WriteConfigAs(path)
}
