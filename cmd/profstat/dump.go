package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"profstat/internal/logging"
	"profstat/internal/profile"
	"profstat/internal/record"
	"profstat/internal/report"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <path>",
	Short: "Print the decoded records with their absolute timestamps",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().String("format", "text", "output format (text|ndjson|rows)")
}

func runDump(cmd *cobra.Command, args []string) error {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := record.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open profiling log: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logging.FromContext(cmd.Context()).Warn("close failed", logging.Path(path), logging.Error(closeErr))
		}
	}()

	var prof *profile.Profile
	err = render(cmd.OutOrStdout(), func(w io.Writer) error {
		var err error
		prof, err = profile.Walk(cmd.Context(), f, func(ev record.Event) error {
			_, err := w.Write(record.FormatEvent(ev, format))
			return err
		})
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return report.WriteWarnings(cmd.ErrOrStderr(), prof, report.WarningOptions{Color: app.colorErr})
}
