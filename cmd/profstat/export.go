package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"profstat/internal/logging"
	"profstat/internal/report"
)

var exportCmd = &cobra.Command{
	Use:   "export [flags] <path>",
	Short: "Convert a profiling log to a Chrome trace or Prometheus metrics",
	Long: `Convert a profiling log for other tools.

  chrome      the intervals in the Chrome trace-viewer JSON format
              (chrome://tracing, Perfetto), grouped into categories by
              their module prefix
  prometheus  the per-label statistics in the Prometheus text format, for
              the node_exporter textfile collector`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
	exportCmd.Flags().String("format", "chrome", "export format (chrome|prometheus)")
}

func runExport(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "chrome" && format != "prometheus" {
		return fmt.Errorf("unsupported format %q (must be chrome or prometheus)", format)
	}

	prof, err := loadProfile(cmd, args[0])
	if err != nil {
		return err
	}
	var write func(w io.Writer) error
	switch format {
	case "chrome":
		write = func(w io.Writer) error {
			return report.WriteChromeTrace(w, prof, app.cfg.Report.Separator)
		}
	case "prometheus":
		table, err := aggregate(prof)
		if err != nil {
			return err
		}
		write = func(w io.Writer) error {
			return report.WritePrometheus(w, table)
		}
	}

	if output == "" {
		return render(cmd.OutOrStdout(), write)
	}
	var buf bytes.Buffer
	if err := render(&buf, write); err != nil {
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	logging.FromContext(cmd.Context()).Info("export written", logging.Path(output))
	return nil
}
