package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"profstat/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "profstat [flags] <path>",
	Short: "Timing statistics for profiling logs",
	Long: `profstat reconstructs begin/end intervals from a profiling log and
prints per-label timing statistics: mean ± standard deviation, [min, max]
and the number of intervals.`,
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: setupApp,
	PersistentPostRun: printTimings,
	RunE:              runSummary,
	SilenceErrors:     true,
}

func main() {
	err := rootCmd.Execute()
	if stopErr := stopProfiling(); stopErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", stopErr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "path to profstat.toml (default: searched upwards from the working directory)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("separator", ".", "separator marking module-qualified labels")
	rootCmd.PersistentFlags().String("locale", "en", "locale used for digit grouping")
	rootCmd.PersistentFlags().Bool("cache", false, "reuse parsed profiles from the on-disk cache")
	rootCmd.PersistentFlags().String("log-level", "warn", "diagnostic log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "text", "diagnostic log format (text|json)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile of profstat itself to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile of profstat itself to file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace of profstat itself to file")

	rootCmd.Flags().String("format", "text", "output format (text|json)")
	rootCmd.Flags().Bool("filter-modules", false, "only report module-qualified labels")
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
