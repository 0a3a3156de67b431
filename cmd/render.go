package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bikeshare-dashboard/internal/app"
)

var renderOut string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the report once to a static HTML file",
	Long: `Runs one render pass and writes the page. When a step fails the partial
page, ending in the error, is still written and the command exits non-zero.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "report.html", `output file ("-" for stdout)`)
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	w, closeOut, err := openOutput(cmd, renderOut)
	if err != nil {
		return err
	}
	renderErr := app.RenderReport(cmd.Context(), cfg, logger, w)
	if err := closeOut(); err != nil {
		return err
	}
	if renderErr != nil {
		return fmt.Errorf("render failed: %w", renderErr)
	}
	logger.Info("report written", "out", renderOut)
	return nil
}
