package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bikeshare-dashboard/internal/app"
)

var importTo string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the dataset into a SQLite table",
	Long: `Loads the dataset, checks its dates and writes the rows into table
$DATASET_TABLE of a SQLite file, creating the file and table when needed.
The file can then be served with --dataset pointing at it.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importTo, "to", "day.db", "SQLite file to write")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	n, err := app.ImportDataset(cmd.Context(), cfg, logger, importTo)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	logger.Info("dataset imported", "to", importTo, "table", cfg.DatasetTable, "rows", n)
	return nil
}
