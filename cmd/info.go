package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fennelq/oraclescan/oracle"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Report server version and catalog facts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if _, err := attach(ctx); err != nil {
			return err
		}
		rows, err := oracle.Info(ctx, flagDatabase)
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Key", "Value"})
		for _, row := range rows {
			table.Append([]string{row.Key, row.Value})
		}
		table.Render()
		return nil
	},
}

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Drop the catalog's schema cache and idle connections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if _, err := attach(ctx); err != nil {
			return err
		}
		fmt.Println(oracle.ClearCache(flagDatabase))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(clearCacheCmd)
}
