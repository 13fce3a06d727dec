package commands

import (
	"os"
	"os/signal"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlkit/cli/internal/config"
	"github.com/satishbabariya/sqlkit/cli/internal/ui"
	"github.com/satishbabariya/sqlkit/cli/internal/watch"
	"github.com/satishbabariya/sqlkit/runtime/session"
)

var execWatch bool

var execCmd = &cobra.Command{
	Use:   "exec <script.sql>",
	Short: "Run a SQL script in one transaction",
	Long: `Run every statement of a SQL script in one transaction. With --watch the
script is run again each time it is saved, until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		run := func() error {
			data, err := afero.ReadFile(config.AppFs, path)
			if err != nil {
				return err
			}
			err = withSession(cmd.Context(), func(s *session.Session) error {
				return s.ExecScript(cmd.Context(), string(data))
			})
			if err != nil {
				return err
			}
			ui.PrintSuccess("Ran %s", path)
			return nil
		}

		if err := run(); err != nil {
			if !execWatch {
				return err
			}
			ui.PrintError("%v", err)
		}
		if !execWatch {
			return nil
		}

		w, err := watch.New(path, watch.DefaultDebounce)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		ui.PrintInfo("Watching %s, press Ctrl+C to stop", path)
		return w.Run(ctx, run, func(err error) { ui.PrintError("%v", err) })
	},
}

func init() {
	execCmd.Flags().BoolVarP(&execWatch, "watch", "w", false, "re-run the script whenever it changes")
	rootCmd.AddCommand(execCmd)
}
