package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlkit/cli/internal/filter"
	"github.com/satishbabariya/sqlkit/cli/internal/ui"
	"github.com/satishbabariya/sqlkit/query/sqlgen"
)

var (
	sqlColumns []string
	sqlWhere   []string
	sqlOrder   []string
	sqlUnique  bool
)

var sqlCmd = &cobra.Command{
	Use:   "sql",
	Short: "Print the statement a command would run, without running it",
}

// sqlBuilder returns a builder for the configured engine
func sqlBuilder() (*sqlgen.Builder, error) {
	return sqlgen.NewBuilderFor(cfg.Engine)
}

// columnDefs parses `name=TYPE ...` arguments for DDL. The type is kept verbatim.
func columnDefs(args []string) (sqlgen.Pairs, error) {
	defs := make(sqlgen.Pairs, 0, len(args))
	for _, arg := range args {
		name, typ, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid column definition %q (want name=TYPE)", arg)
		}
		defs = defs.Add(strings.TrimSpace(name), strings.TrimSpace(typ))
	}
	return defs, nil
}

func printStatement(q *sqlgen.Query, err error) error {
	if err != nil {
		return err
	}
	return ui.PrintSQL(q.SQL, q.Args)
}

func printDDL(stmt string, err error) error {
	if err != nil {
		return err
	}
	return ui.PrintSQL(stmt, nil)
}

func init() {
	selectCmd := &cobra.Command{
		Use:   "select <table>",
		Short: "SELECT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := sqlBuilder()
			if err != nil {
				return err
			}
			where, err := filter.ParseAll(sqlWhere)
			if err != nil {
				return err
			}
			order := make([]sqlgen.OrderBy, 0, len(sqlOrder))
			for _, o := range sqlOrder {
				ob, err := filter.ParseOrder(o)
				if err != nil {
					return err
				}
				order = append(order, ob)
			}
			return printStatement(b.Select(args[0], sqlColumns, where, order))
		},
	}
	selectCmd.Flags().StringSliceVar(&sqlColumns, "columns", nil, "columns to select")
	selectCmd.Flags().StringArrayVar(&sqlWhere, "where", nil, "condition (repeatable)")
	selectCmd.Flags().StringArrayVar(&sqlOrder, "order", nil, "column[:asc|desc] (repeatable)")

	insertSQLCmd := &cobra.Command{
		Use:   "insert <table> col=value...",
		Short: "INSERT",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := sqlBuilder()
			if err != nil {
				return err
			}
			cols, err := filter.ParseAssignments(args[1:])
			if err != nil {
				return err
			}
			return printStatement(b.Insert(args[0], nil, cols))
		},
	}

	updateSQLCmd := &cobra.Command{
		Use:   "update <table> col=value...",
		Short: "UPDATE",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := sqlBuilder()
			if err != nil {
				return err
			}
			set, err := filter.ParseAssignments(args[1:])
			if err != nil {
				return err
			}
			where, err := filter.ParseAll(sqlWhere)
			if err != nil {
				return err
			}
			return printStatement(b.Update(args[0], set, where))
		},
	}
	updateSQLCmd.Flags().StringArrayVar(&sqlWhere, "where", nil, "condition (repeatable)")

	deleteSQLCmd := &cobra.Command{
		Use:   "delete <table>",
		Short: "DELETE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := sqlBuilder()
			if err != nil {
				return err
			}
			where, err := filter.ParseAll(sqlWhere)
			if err != nil {
				return err
			}
			return printStatement(b.Delete(args[0], where))
		},
	}
	deleteSQLCmd.Flags().StringArrayVar(&sqlWhere, "where", nil, "condition (repeatable)")

	createTableCmd := &cobra.Command{
		Use:     "create-table <table> name=TYPE...",
		Short:   "CREATE TABLE",
		Example: `  sqlkit sql create-table members "id=INTEGER PRIMARY KEY" "name=TEXT NOT NULL"`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := sqlBuilder()
			if err != nil {
				return err
			}
			defs, err := columnDefs(args[1:])
			if err != nil {
				return err
			}
			return printDDL(b.CreateTable(args[0], defs))
		},
	}

	alterTableCmd := &cobra.Command{
		Use:     "alter-table <table> <function> name=TYPE...",
		Short:   "ALTER TABLE",
		Example: `  sqlkit sql alter-table members ADD "level=INTEGER DEFAULT 1"`,
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := sqlBuilder()
			if err != nil {
				return err
			}
			fn, err := sqlgen.ParseAlterFunc(args[1])
			if err != nil {
				return err
			}
			if fn == sqlgen.AlterDropColumn {
				return printDDL(b.AlterTableDrop(args[0], args[2:]...))
			}
			defs, err := columnDefs(args[2:])
			if err != nil {
				return err
			}
			return printDDL(b.AlterTable(args[0], fn, defs))
		},
	}

	dropTableCmd := &cobra.Command{
		Use:   "drop-table <table>",
		Short: "DROP TABLE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := sqlBuilder()
			if err != nil {
				return err
			}
			return printDDL(b.DropTable(args[0]))
		},
	}

	createIndexCmd := &cobra.Command{
		Use:   "create-index <name> <table> <column>...",
		Short: "CREATE [UNIQUE] INDEX",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := sqlBuilder()
			if err != nil {
				return err
			}
			if sqlUnique {
				return printDDL(b.CreateUniqueIndex(args[0], args[1], args[2:]...))
			}
			return printDDL(b.CreateIndex(args[0], args[1], args[2:]...))
		},
	}
	createIndexCmd.Flags().BoolVar(&sqlUnique, "unique", false, "create a unique index")

	sqlCmd.AddCommand(selectCmd, insertSQLCmd, updateSQLCmd, deleteSQLCmd,
		createTableCmd, alterTableCmd, dropTableCmd, createIndexCmd)
	rootCmd.AddCommand(sqlCmd)
}
