package main

import (
	"fmt"

	"github.com/JonMunkholm/sqlsift/internal/config"
	"github.com/JonMunkholm/sqlsift/internal/repair"
	"github.com/spf13/cobra"
)

func newRepairCmd(cfg *config.Config) *cobra.Command {
	var sampleRows int

	cmd := &cobra.Command{
		Use:   "repair <file_wrong_length.txt>",
		Short: "Repair wrong-length rows and append them to their CSV",
		Long: "repair reads a _wrong_length.txt file produced by export, infers a column\n" +
			"schema from the companion CSV, and realigns each malformed row against it.\n" +
			"Recovered rows are appended to the CSV; the rest go to a\n" +
			"_failed_recovery.txt file.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recovery, err := repair.NewRecovery(args[0], repair.Options{SampleRows: sampleRows})
			if err != nil {
				return err
			}

			result, err := recovery.Run()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case result.Recovered == 0 && result.Failed == 0:
				fmt.Fprintf(out, "%s: no rows found to process\n", result.Table)
			default:
				fmt.Fprintf(out, "%s: recovered %d rows -> %s\n", result.Table, result.Recovered, result.CSVPath)
				if result.Failed > 0 {
					fmt.Fprintf(out, "%s: %d rows could not be recovered -> %s\n", result.Table, result.Failed, result.FailedPath)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&sampleRows, "sample-rows", cfg.Repair.SampleRows, "CSV rows to sample for schema inference")
	return cmd
}
