package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlkit/cli/internal/filter"
	"github.com/satishbabariya/sqlkit/cli/internal/ui"
	"github.com/satishbabariya/sqlkit/query/sqlgen"
	"github.com/satishbabariya/sqlkit/runtime/session"
)

var (
	fetchColumns []string
	fetchWhere   []string
	fetchOrder   string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <table>",
	Short: "Print the rows of a table",
	Example: `  sqlkit fetch members
  sqlkit fetch members --columns name,score --where "guild = 1" --where "score > 10"
  sqlkit fetch members --order score:desc`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table := args[0]
		where, err := filter.ParseAll(fetchWhere)
		if err != nil {
			return err
		}
		var order sqlgen.OrderBy
		if fetchOrder != "" {
			if order, err = filter.ParseOrder(fetchOrder); err != nil {
				return err
			}
		}

		var rows []session.Row
		err = withSession(cmd.Context(), func(s *session.Session) error {
			ctx := cmd.Context()
			var err error
			switch {
			case fetchOrder != "":
				rows, err = s.FetchAllInOrder(ctx, table, order, where...)
			case len(fetchColumns) > 0:
				rows, err = s.FetchByColumns(ctx, table, fetchColumns, where...)
			default:
				rows, err = s.FetchAll(ctx, table, where...)
			}
			return err
		})
		if err != nil {
			return err
		}

		if len(rows) == 0 {
			ui.PrintWarning("No rows in %s", table)
			return nil
		}
		headers := fetchColumns
		if fetchOrder != "" {
			headers = nil
		}
		return ui.PrintTable(headers, formatRows(rows))
	},
}

var distinctCmd = &cobra.Command{
	Use:   "distinct <table> <column>",
	Short: "Print the distinct values of a column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var values []interface{}
		err := withSession(cmd.Context(), func(s *session.Session) error {
			var err error
			values, err = s.FetchDistinct(cmd.Context(), args[0], args[1])
			return err
		})
		if err != nil {
			return err
		}

		items := make([]string, len(values))
		for i, v := range values {
			items[i] = ui.FormatValue(v)
		}
		ui.PrintList(items)
		return nil
	},
}

func formatRows(rows []session.Row) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = ui.FormatValue(v)
		}
		out[i] = cells
	}
	return out
}

func init() {
	fetchCmd.Flags().StringSliceVar(&fetchColumns, "columns", nil, "columns to select, in order")
	fetchCmd.Flags().StringArrayVar(&fetchWhere, "where", nil, `condition such as "score >= 10" (repeatable, joined with AND)`)
	fetchCmd.Flags().StringVar(&fetchOrder, "order", "", "order by column[:asc|desc]")
	fetchCmd.MarkFlagsMutuallyExclusive("columns", "order")

	rootCmd.AddCommand(fetchCmd, distinctCmd)
}
