package cmd

import (
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fennelq/oraclescan/execution"
	"github.com/fennelq/oraclescan/oracle"
)

var (
	flagColumns []string
	flagRowid   bool
	flagLimit   int64
	flagOffset  int64
)

var scanCmd = &cobra.Command{
	Use:   "scan [schema.]table",
	Short: "Stream a table's rows through the scan pipeline and print them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		catalog, err := attach(ctx)
		if err != nil {
			return err
		}

		schemaName, tableName := splitQualified(args[0], catalog.Params().EffectiveSchema())
		schema := catalog.GetSchema(schemaName)
		entry, err := schema.GetEntry(ctx, tableName)
		if err != nil {
			return err
		}
		if entry == nil {
			return errors.Errorf("table %s.%s does not exist", schemaName, tableName)
		}

		bind, err := entry.BindScan(ctx)
		if err != nil {
			return err
		}
		if flagLimit >= 0 {
			bind.Limit = flagLimit
			bind.Offset = flagOffset
		}
		if len(flagColumns) > 0 || flagRowid {
			bind.ColumnIDs = resolveProjection(entry, flagColumns, flagRowid)
		}

		global := oracle.NewScanGlobalState(bind)
		local, err := oracle.NewScanLocalState(ctx, bind)
		if err != nil {
			return err
		}
		defer local.Close(bind)

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader(bind.ProjectedNames())

		err = oracle.Scan(ctx, bind, global, local, func(chunk *execution.Chunk) bool {
			for row := 0; row < chunk.Size(); row++ {
				cells := make([]string, chunk.ColumnCount())
				for col := 0; col < chunk.ColumnCount(); col++ {
					cells[col] = chunk.Value(col, row).String()
				}
				table.Append(cells)
			}
			return true
		})
		if err != nil {
			return err
		}

		table.Render()
		return nil
	},
}

func init() {
	scanCmd.Flags().StringSliceVar(&flagColumns, "columns", nil, "project only these columns")
	scanCmd.Flags().BoolVar(&flagRowid, "rowid", false, "include the ROWID pseudo-column")
	scanCmd.Flags().Int64Var(&flagLimit, "limit", -1, "limit the number of rows")
	scanCmd.Flags().Int64Var(&flagOffset, "offset", 0, "skip this many rows (requires --limit)")
	rootCmd.AddCommand(scanCmd)
}

func splitQualified(name, defaultSchema string) (string, string) {
	if idx := strings.IndexByte(name, '.'); idx >= 0 {
		return strings.ToUpper(name[:idx]), strings.ToUpper(name[idx+1:])
	}
	return defaultSchema, strings.ToUpper(name)
}

// resolveProjection maps --columns names (plus the optional rowid) onto
// projection ids; unknown names are ignored, matching the scan's own
// out-of-range tolerance.
func resolveProjection(entry *oracle.TableEntry, names []string, rowid bool) []int {
	var ids []int
	if rowid {
		ids = append(ids, oracle.ColumnIDRowID)
	}
	columns := entry.Columns()
	for _, want := range names {
		for i := range columns {
			if strings.EqualFold(columns[i].Name, want) {
				ids = append(ids, i)
				break
			}
		}
	}
	return ids
}
