package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlkit/cli/internal/config"
	"github.com/satishbabariya/sqlkit/cli/internal/ui"
	"github.com/satishbabariya/sqlkit/query/sqlgen"
	"github.com/satishbabariya/sqlkit/runtime/session"
)

var initSave string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database from the schema script and list its tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		pending := db.Pending()
		spinner, _ := ui.PrintSpinner(fmt.Sprintf("Connecting to %s", db.Name()))

		var tables []string
		err = session.Run(cmd.Context(), db, func(s *session.Session) error {
			if db.Engine() != "sqlite" {
				return nil
			}
			rows, err := s.FetchByColumns(cmd.Context(), "sqlite_master", []string{"name"},
				sqlgen.Eq("type", "table"), sqlgen.C("name", "NOT LIKE", "sqlite_%"))
			if err != nil {
				return err
			}
			for _, row := range rows {
				tables = append(tables, ui.FormatValue(row[0]))
			}
			return nil
		}, session.WithQueryTimeout(cfg.QueryTimeout))
		if spinner != nil {
			_ = spinner.Stop()
		}
		if err != nil {
			return err
		}

		if pending {
			ui.PrintSuccess("Created %s from %s", db.Name(), cfg.SchemaPath)
		} else {
			ui.PrintSuccess("Connected to %s (%s)", db.Name(), db.Engine())
		}
		if len(tables) > 0 {
			ui.PrintInfo("Tables:")
			ui.PrintList(tables)
		}

		if initSave != "" {
			if err := config.Save(cfg, initSave); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			ui.PrintSuccess("Saved configuration to %s", initSave)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initSave, "save", "", "write the effective configuration to this file")
	rootCmd.AddCommand(initCmd)
}
