package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlkit/cli/internal/filter"
	"github.com/satishbabariya/sqlkit/cli/internal/ui"
	"github.com/satishbabariya/sqlkit/query/sqlgen"
	"github.com/satishbabariya/sqlkit/runtime/session"
)

var (
	insertMode  string
	updateWhere []string
	deleteWhere []string
	deleteYes   bool
)

var insertCmd = &cobra.Command{
	Use:   "insert <table> (col=value... | value...)",
	Short: "Insert one row",
	Long: `Insert one row, either as column=value assignments or as positional
values in table column order. --mode ignore takes positional values only.`,
	Example: `  sqlkit insert members id=1 name='ann' score=10
  sqlkit insert members 2 'bob' 20 --mode ignore`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, rest := args[0], args[1:]

		var (
			values  []interface{}
			columns sqlgen.Pairs
			err     error
		)
		if strings.Contains(rest[0], "=") {
			columns, err = filter.ParseAssignments(rest)
		} else {
			values, err = filter.ParseLiterals(rest)
		}
		if err != nil {
			return err
		}

		var res session.Result
		err = withSession(cmd.Context(), func(s *session.Session) error {
			var err error
			switch insertMode {
			case "", "none":
				res, err = s.Insert(cmd.Context(), table, values, columns)
			case "replace":
				res, err = s.InsertOrReplace(cmd.Context(), table, values, columns)
			case "ignore":
				if len(values) == 0 {
					return errors.New("--mode ignore takes positional values")
				}
				res, err = s.InsertOrIgnore(cmd.Context(), table, values...)
			default:
				return fmt.Errorf("unknown mode %q (want replace or ignore)", insertMode)
			}
			return err
		})
		if err != nil {
			return err
		}

		ui.PrintSuccess("Inserted %d row(s) into %s", res.RowsAffected, table)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:     "update <table> col=value...",
	Short:   "Set columns on the rows matching --where",
	Example: `  sqlkit update members score=0 --where "guild = 2"`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := filter.ParseAssignments(args[1:])
		if err != nil {
			return err
		}
		where, err := filter.ParseAll(updateWhere)
		if err != nil {
			return err
		}
		if len(where) == 0 && !confirm(fmt.Sprintf("Update every row of %s?", args[0])) {
			ui.PrintWarning("Aborted")
			return nil
		}

		var res session.Result
		err = withSession(cmd.Context(), func(s *session.Session) error {
			var err error
			res, err = s.Update(cmd.Context(), args[0], set, where...)
			return err
		})
		if err != nil {
			return err
		}

		ui.PrintSuccess("Updated %d row(s) in %s", res.RowsAffected, args[0])
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <table> --where cond...",
	Short:   "Delete the rows matching --where",
	Example: `  sqlkit delete members --where "id = 1"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		where, err := filter.ParseAll(deleteWhere)
		if err != nil {
			return err
		}
		if len(where) == 0 {
			return errors.New("delete needs at least one --where condition")
		}
		if !deleteYes && !confirm(fmt.Sprintf("Delete rows of %s where %s?", args[0], strings.Join(deleteWhere, " AND "))) {
			ui.PrintWarning("Aborted")
			return nil
		}

		var res session.Result
		err = withSession(cmd.Context(), func(s *session.Session) error {
			var err error
			res, err = s.Delete(cmd.Context(), args[0], where...)
			return err
		})
		if err != nil {
			return err
		}

		ui.PrintSuccess("Deleted %d row(s) from %s", res.RowsAffected, args[0])
		return nil
	},
}

// confirm asks a yes/no question; any prompt failure counts as no
func confirm(message string) bool {
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: message}, &ok); err != nil {
		return false
	}
	return ok
}

func init() {
	insertCmd.Flags().StringVar(&insertMode, "mode", "", "conflict handling: replace or ignore")
	updateCmd.Flags().StringArrayVar(&updateWhere, "where", nil, "condition (repeatable, joined with AND)")
	deleteCmd.Flags().StringArrayVar(&deleteWhere, "where", nil, "condition (repeatable, joined with AND)")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "do not ask for confirmation")

	rootCmd.AddCommand(insertCmd, updateCmd, deleteCmd)
}
