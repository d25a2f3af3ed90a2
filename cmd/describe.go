package cmd

import (
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fennelq/oraclescan/oracle"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables and views in the default (or --schema) schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		catalog, err := attach(ctx)
		if err != nil {
			return err
		}
		schema := catalog.GetSchema(catalog.Params().EffectiveSchema())

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Kind", "Columns"})
		err = schema.Scan(ctx, func(entry *oracle.TableEntry) {
			kind := "table"
			if entry.IsView() {
				kind = "view"
			}
			table.Append([]string{entry.Name(), kind, strconv.Itoa(len(entry.Columns()))})
		})
		if err != nil {
			return err
		}
		table.Render()
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe [schema.]table",
	Short: "Show a table's Oracle columns and their engine types",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		catalog, err := attach(ctx)
		if err != nil {
			return err
		}
		schemaName, tableName := splitQualified(args[0], catalog.Params().EffectiveSchema())
		entry, err := catalog.GetSchema(schemaName).GetEntry(ctx, tableName)
		if err != nil {
			return err
		}
		if entry == nil {
			return errors.Errorf("table %s.%s does not exist", schemaName, tableName)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Column", "Oracle Type", "Precision", "Scale", "Nullable", "Engine Type"})
		columns := entry.Columns()
		types := entry.Types()
		for i := range columns {
			table.Append([]string{
				columns[i].Name,
				columns[i].TypeName,
				strconv.Itoa(int(columns[i].Precision)),
				strconv.Itoa(int(columns[i].Scale)),
				strconv.FormatBool(columns[i].Nullable),
				types[i].String(),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(describeCmd)
}
