package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"profstat/internal/config"
	"profstat/internal/logging"
	"profstat/internal/report"
	"profstat/internal/session"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] <path>...",
	Short: "Analyze several profiling logs concurrently",
	Long: `Analyze several profiling logs concurrently. A summary is printed for
every log, followed by the statistics of all logs combined.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("ui", "auto", "progress UI mode (auto|on|off)")
	batchCmd.Flags().IntP("jobs", "j", 0, "max parallel sessions (0=auto)")
	batchCmd.Flags().Bool("keep-going", false, "report failed logs and continue with the rest")
	batchCmd.Flags().Bool("filter-modules", false, "only report module-qualified labels")
}

func runBatch(cmd *cobra.Command, args []string) error {
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	uiMode, err := config.ParseMode(uiValue)
	if err != nil {
		return fmt.Errorf("--ui: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs < 0 {
		return fmt.Errorf("--jobs must not be negative")
	}
	keepGoing, err := cmd.Flags().GetBool("keep-going")
	if err != nil {
		return fmt.Errorf("failed to get keep-going flag: %w", err)
	}
	filterModules, err := cmd.Flags().GetBool("filter-modules")
	if err != nil {
		return fmt.Errorf("failed to get filter-modules flag: %w", err)
	}

	req := session.Request{
		Paths:     args,
		Jobs:      jobs,
		KeepGoing: keepGoing,
		Cache:     app.cache,
	}

	var results []session.Result
	err = app.timer.Track("analyze", func() (string, error) {
		var err error
		if uiMode.Enabled(isTerminal(os.Stdout)) {
			results, err = analyzeWithUI(cmd.Context(), "analyzing", req)
		} else {
			results, err = session.Analyze(cmd.Context(), req)
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d logs", len(results)), nil
	})
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", res.Err)
			continue
		}
		logging.FromContext(cmd.Context()).Debug("session finished",
			logging.Path(res.Path), logging.Duration(res.Elapsed))
		if err := report.WriteWarnings(cmd.ErrOrStderr(), res.Profile, report.WarningOptions{
			Color: app.colorErr,
			Path:  res.Path,
		}); err != nil {
			return err
		}
	}
	if failed == len(results) {
		return fmt.Errorf("all %d logs failed", failed)
	}

	opts := report.SummaryOptions{Lang: app.lang, Filter: moduleFilter(filterModules)}
	err = render(cmd.OutOrStdout(), func(w io.Writer) error {
		for _, res := range results {
			if res.Err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "== %s\n", res.Path); err != nil {
				return err
			}
			if err := report.WriteSummary(w, res.Stats, opts); err != nil {
				return fmt.Errorf("%s: %w", res.Path, err)
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "== combined\n"); err != nil {
			return err
		}
		return report.WriteSummary(w, session.Combine(results), opts)
	})
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d logs failed", failed, len(results))
	}
	return nil
}
