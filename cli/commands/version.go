package commands

import (
	goversion "github.com/hashicorp/go-version"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlkit/cli/internal/ui"
	"github.com/satishbabariya/sqlkit/cli/internal/version"
	"github.com/satishbabariya/sqlkit/runtime/session"
)

var versionServer bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.Highlight("sqlkit", version.Get().String())
		if !versionServer {
			return nil
		}

		var (
			engine string
			server *goversion.Version
		)
		err := withSession(cmd.Context(), func(s *session.Session) error {
			var err error
			engine = s.Database().Engine()
			server, err = s.ServerVersion(cmd.Context())
			return err
		})
		if err != nil {
			return err
		}

		ui.Highlight(engine, server.String())
		if err := version.CheckServer(engine, server); err != nil {
			ui.PrintWarning("%v", err)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionServer, "server", false, "also connect and print the server version")
	rootCmd.AddCommand(versionCmd)
}
