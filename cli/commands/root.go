package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlkit/cli/internal/config"
	"github.com/satishbabariya/sqlkit/cli/internal/ui"
	"github.com/satishbabariya/sqlkit/internal/debug"
	"github.com/satishbabariya/sqlkit/runtime/database"
	"github.com/satishbabariya/sqlkit/runtime/session"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sqlkit",
	Short: "Run single-table SQL statements without writing SQL",
	Long: `sqlkit builds and runs parameterised single-table statements against
SQLite, PostgreSQL or MySQL.

A fresh SQLite file is created from the schema script on first use.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded
		debug.Init(cfg.Debug)
		debug.Debug("config loaded", "data_source", cfg.DataSource, "engine", cfg.Engine)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default .sqlkit.yaml in ., $HOME or $HOME/.config/sqlkit)")
	flags.String("db", "", "data source: SQLite file or server DSN")
	flags.String("engine", "", "engine: sqlite, postgres or mysql")
	flags.String("name", "", "logical database name")
	flags.String("schema", "", "schema script for a fresh SQLite file")
	flags.Bool("skip-bootstrap", false, "never run the schema script")
	flags.Duration("timeout", 0, "per-statement timeout, e.g. 5s")
	flags.Bool("debug", false, "log every statement to stderr")
}

// Execute is the main entry point for the CLI
func Execute() error {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}

// openDatabase builds the engine from the loaded configuration
func openDatabase() (*database.Engine, error) {
	db, err := database.New(cfg.Database())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.DataSource, err)
	}
	return db, nil
}

// withSession runs fn in a committed-or-rolled-back session
func withSession(ctx context.Context, fn func(*session.Session) error) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	return session.Run(ctx, db, fn, session.WithQueryTimeout(cfg.QueryTimeout))
}
