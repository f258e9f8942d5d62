package main

import (
	"github.com/JonMunkholm/sqlsift/internal/config"
	"github.com/spf13/cobra"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "sqlsift",
		Short: "Convert SQL dump files into per-table CSVs and repair malformed rows",
		Long: "sqlsift streams a SQL dump file, indexes its CREATE TABLE and INSERT INTO\n" +
			"statements, and exports each table's data as CSV. Rows whose field count\n" +
			"does not match the table's columns are set aside; a separate repair pass\n" +
			"realigns them against a schema inferred from the exported CSV.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newExportCmd(cfg))
	root.AddCommand(newRepairCmd(cfg))
	return root
}
