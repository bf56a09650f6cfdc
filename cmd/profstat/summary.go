package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"profstat/internal/profile"
	"profstat/internal/report"
)

func runSummary(cmd *cobra.Command, args []string) error {
	format, err := summaryFormat(cmd)
	if err != nil {
		return err
	}
	filterModules, err := cmd.Flags().GetBool("filter-modules")
	if err != nil {
		return fmt.Errorf("failed to get filter-modules flag: %w", err)
	}

	prof, err := loadProfile(cmd, args[0])
	if err != nil {
		return err
	}
	table, err := aggregate(prof)
	if err != nil {
		return err
	}
	if filter := moduleFilter(filterModules); filter != nil {
		table = table.Filter(filter)
		if len(table) == 0 {
			return &profile.EmptyDatasetError{}
		}
	}

	return render(cmd.OutOrStdout(), func(w io.Writer) error {
		if format == "json" {
			return report.WriteJSON(w, table, prof)
		}
		return report.WriteSummary(w, table, report.SummaryOptions{Lang: app.lang})
	})
}

// summaryFormat resolves --format, falling back to [report].format.
func summaryFormat(cmd *cobra.Command) (string, error) {
	format := app.cfg.Report.Format
	if cmd.Flags().Changed("format") {
		value, err := cmd.Flags().GetString("format")
		if err != nil {
			return "", fmt.Errorf("failed to get format flag: %w", err)
		}
		format = value
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "text", "json":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format %q (must be text or json)", format)
	}
}
