package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fennelq/oraclescan/config"
	"github.com/fennelq/oraclescan/oracle"
)

var (
	flagDSN       string
	flagConfig    string
	flagDatabase  string
	flagSchema    string
	flagFetchSize int
)

var rootCmd = &cobra.Command{
	Use:   "oraclescan",
	Short: "Scan Oracle tables as engine-typed columnar chunks",
	Example: `oraclescan tables --dsn "host=db1 service=ORCLPDB user=scott password=tiger"
oraclescan scan HR.EMPLOYEES --limit 10 --dsn "//db1:1521/ORCLPDB user=scott password=tiger"`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDSN, "dsn", "", "connection string (key-value or //host:port/service form)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a YAML profile file")
	rootCmd.PersistentFlags().StringVar(&flagDatabase, "db", "oracle", "profile name in the config file, and the attach name")
	rootCmd.PersistentFlags().StringVar(&flagSchema, "schema", "", "override the default schema")
	rootCmd.PersistentFlags().IntVar(&flagFetchSize, "fetch-size", 0, "override the driver fetch size")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// attach resolves connection parameters from --dsn or the config profile,
// applies the attach-time overrides and registers the catalog.
func attach(ctx context.Context) (*oracle.Catalog, error) {
	connString := flagDSN
	readOnly := false

	if connString == "" {
		if flagConfig == "" {
			return nil, errors.New("either --dsn or --config is required")
		}
		cfg, err := config.Read(flagConfig)
		if err != nil {
			return nil, err
		}
		profile, err := cfg.Get(flagDatabase)
		if err != nil {
			return nil, errors.Wrapf(err, "profile '%s'", flagDatabase)
		}
		connString = profile.ConnString
		readOnly = profile.ReadOnly
		if flagSchema == "" {
			flagSchema = profile.Schema
		}
		if flagFetchSize == 0 && profile.FetchSize > 0 {
			flagFetchSize = profile.FetchSize
		}
	}

	params, err := oracle.ParseConnectionString(connString)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't parse connection string")
	}
	params.ReadOnly = readOnly
	if flagSchema != "" {
		params.Schema = flagSchema
	}
	if flagFetchSize > 0 {
		params.FetchSize = flagFetchSize
	}

	catalog, err := oracle.AttachNamed(ctx, flagDatabase, params)
	if err != nil {
		return nil, fmt.Errorf("couldn't attach to Oracle: %w", err)
	}
	return catalog, nil
}
