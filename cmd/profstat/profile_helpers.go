package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"profstat/internal/logging"
	"profstat/internal/profile"
	"profstat/internal/report"
	"profstat/internal/stats"
)

// loadProfile parses path (through the cache when enabled) and prints the
// non-fatal warnings of the parse to stderr.
func loadProfile(cmd *cobra.Command, path string) (*profile.Profile, error) {
	var prof *profile.Profile
	err := app.timer.Track("parse", func() (string, error) {
		var err error
		prof, err = app.cache.ParseFile(cmd.Context(), path)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d records", prof.Records), nil
	})
	if err != nil {
		return nil, err
	}
	logging.FromContext(cmd.Context()).Info("parsed profiling log",
		logging.Path(path),
		logging.Records(prof.Records),
		logging.Labels(len(prof.Labels)),
		logging.Intervals(prof.Intervals()),
	)
	if err := report.WriteWarnings(cmd.ErrOrStderr(), prof, report.WarningOptions{Color: app.colorErr}); err != nil {
		return nil, err
	}
	return prof, nil
}

func aggregate(prof *profile.Profile) (stats.Table, error) {
	var table stats.Table
	err := app.timer.Track("aggregate", func() (string, error) {
		var err error
		table, err = stats.Aggregate(prof.Labels)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d labels", len(table)), nil
	})
	return table, err
}

// render buffers fn's output and copies it to out only when fn succeeds, so
// a failure never leaves a partial report behind.
func render(out io.Writer, fn func(w io.Writer) error) error {
	var buf bytes.Buffer
	err := app.timer.Track("render", func() (string, error) {
		if err := fn(&buf); err != nil {
			return "", err
		}
		return fmt.Sprintf("%d bytes", buf.Len()), nil
	})
	if err != nil {
		return err
	}
	_, err = out.Write(buf.Bytes())
	return err
}

func moduleFilter(enabled bool) stats.Predicate {
	if !enabled {
		return nil
	}
	return stats.ModuleFilter(app.cfg.Report.Separator)
}

// printTimings writes the stage timer to stderr when --timings is set.
func printTimings(cmd *cobra.Command, args []string) {
	if app == nil || !app.timings {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), app.timer.Summary())
}
