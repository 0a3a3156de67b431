package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bikeshare-dashboard/internal/app"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the preview, column info and correlation matrix to an Excel workbook",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "report.xlsx", `output file ("-" for stdout)`)
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	w, closeOut, err := openOutput(cmd, exportOut)
	if err != nil {
		return err
	}
	exportErr := app.ExportReport(cmd.Context(), cfg, logger, w)
	if err := closeOut(); err != nil {
		return err
	}
	if exportErr != nil {
		return fmt.Errorf("export failed: %w", exportErr)
	}
	logger.Info("workbook written", "out", exportOut)
	return nil
}

// openOutput opens path for writing; "-" is the command's stdout.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}
