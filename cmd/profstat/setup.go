package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"profstat/internal/cache"
	"profstat/internal/config"
	"profstat/internal/logging"
	"profstat/internal/observ"
	"profstat/internal/report"
)

// appState is built once per invocation by setupApp.
type appState struct {
	cfg      config.Config
	lang     language.Tag
	colorOut bool
	colorErr bool
	cache    *cache.Cache
	timer    *observ.Timer
	timings  bool
	profiler *observ.Profiler
}

var app *appState

// setupApp loads profstat.toml, applies explicitly set flags on top of it and
// installs the logger into the command context.
func setupApp(cmd *cobra.Command, args []string) error {
	// Argument errors have already been reported with usage at this point.
	cmd.SilenceUsage = true

	flags := cmd.Root().PersistentFlags()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if flags.Changed("color") {
		if cfg.Report.Color, err = flags.GetString("color"); err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	if flags.Changed("separator") {
		if cfg.Report.Separator, err = flags.GetString("separator"); err != nil {
			return fmt.Errorf("failed to get separator flag: %w", err)
		}
	}
	if flags.Changed("locale") {
		if cfg.Report.Locale, err = flags.GetString("locale"); err != nil {
			return fmt.Errorf("failed to get locale flag: %w", err)
		}
	}
	if flags.Changed("cache") {
		if cfg.Cache.Enabled, err = flags.GetBool("cache"); err != nil {
			return fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	if flags.Changed("log-level") {
		if cfg.Log.Level, err = flags.GetString("log-level"); err != nil {
			return fmt.Errorf("failed to get log-level flag: %w", err)
		}
	}
	if flags.Changed("log-format") {
		if cfg.Log.Format, err = flags.GetString("log-format"); err != nil {
			return fmt.Errorf("failed to get log-format flag: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	timings, err := flags.GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	colorMode, err := config.ParseMode(cfg.Report.Color)
	if err != nil {
		return fmt.Errorf("--color: %w", err)
	}
	lang, err := report.ParseLanguage(cfg.Report.Locale)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logFormat, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return err
	}
	log := logging.New(cmd.ErrOrStderr(), level, logFormat)
	cmd.SetContext(logging.WithLogger(cmd.Context(), log))
	if cfg.Path != "" {
		log.Debug("loaded configuration", logging.Path(cfg.Path))
	}

	var c *cache.Cache
	if cfg.Cache.Enabled {
		c, err = cache.Open(cfg.Cache.Dir)
		if err != nil {
			// The cache is an optimisation; run without it.
			log.Warn("cache disabled", logging.Error(err))
			c = nil
		}
	}

	profiler, err := startProfiling(cmd)
	if err != nil {
		return err
	}

	app = &appState{
		cfg:      cfg,
		lang:     lang,
		colorOut: colorMode.Enabled(isTerminal(os.Stdout)),
		colorErr: colorMode.Enabled(isTerminal(os.Stderr)),
		cache:    c,
		timer:    observ.NewTimer(),
		timings:  timings,
		profiler: profiler,
	}
	return nil
}

func startProfiling(cmd *cobra.Command) (*observ.Profiler, error) {
	flags := cmd.Root().PersistentFlags()
	var opts observ.ProfileOptions
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	return observ.StartProfiling(opts)
}

// stopProfiling flushes the self-profiles started by setupApp.
func stopProfiling() error {
	if app == nil {
		return nil
	}
	return app.profiler.Stop()
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.Discover(wd)
}
