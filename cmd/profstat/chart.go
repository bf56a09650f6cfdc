package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"profstat/internal/profile"
	"profstat/internal/report"
)

var chartCmd = &cobra.Command{
	Use:   "chart [flags] <path>",
	Short: "Draw mean ± std of every label as a bar chart",
	Long: `Draw a horizontal bar chart of the mean execution time of every label,
sorted by mean, with the standard deviation as whiskers. Only
module-qualified labels are shown unless --all is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

func init() {
	chartCmd.Flags().Bool("all", false, "include labels without a module prefix")
	chartCmd.Flags().Int("width", 0, "plot width in cells (default: [chart].width)")
	chartCmd.Flags().String("title", "", "chart title")
	chartCmd.Flags().String("format", "text", "output format (text|json)")
}

func runChart(cmd *cobra.Command, args []string) error {
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	if !cmd.Flags().Changed("width") {
		width = app.cfg.Chart.Width
	}
	title, err := cmd.Flags().GetString("title")
	if err != nil {
		return fmt.Errorf("failed to get title flag: %w", err)
	}
	format, err := chartFormat(cmd)
	if err != nil {
		return err
	}

	prof, err := loadProfile(cmd, args[0])
	if err != nil {
		return err
	}
	table, err := aggregate(prof)
	if err != nil {
		return err
	}
	if filter := moduleFilter(app.cfg.Chart.FilterModules && !all); filter != nil {
		table = table.Filter(filter)
	}
	series, err := report.NewBarSeries(table)
	if err != nil {
		return err
	}
	series.Title = title

	return render(cmd.OutOrStdout(), func(w io.Writer) error {
		if format == "json" {
			return writeSeriesJSON(w, series)
		}
		return report.NewTerminalSink(w, terminalOptions(width)).RenderBars(series)
	})
}

func chartFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "text", "json":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format %q (must be text or json)", format)
	}
}

func terminalOptions(width int) report.TerminalOptions {
	return report.TerminalOptions{Width: width, Color: app.colorOut}
}

func writeSeriesJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var timelineCmd = &cobra.Command{
	Use:   "timeline [flags] <path> <label>",
	Short: "Draw the durations of one label in occurrence order",
	Args:  cobra.ExactArgs(2),
	RunE:  runTimeline,
}

func init() {
	timelineCmd.Flags().Int("width", 0, "wrap the timeline at this many points (default: [chart].width)")
	timelineCmd.Flags().String("format", "text", "output format (text|json)")
}

func runTimeline(cmd *cobra.Command, args []string) error {
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	if !cmd.Flags().Changed("width") {
		width = app.cfg.Chart.Width
	}
	format, err := chartFormat(cmd)
	if err != nil {
		return err
	}

	prof, err := loadProfile(cmd, args[0])
	if err != nil {
		return err
	}
	series, err := report.NewTimelineSeries(prof, args[1])
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return &profile.EmptyDatasetError{Label: args[1]}
	}

	return render(cmd.OutOrStdout(), func(w io.Writer) error {
		if format == "json" {
			return writeSeriesJSON(w, series)
		}
		return report.NewTerminalSink(w, terminalOptions(width)).RenderTimeline(series)
	})
}
