package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/manamurah/flotilla-watch/internal/common"
	"github.com/manamurah/flotilla-watch/internal/config"
	"github.com/manamurah/flotilla-watch/internal/mailer"
	"github.com/manamurah/flotilla-watch/internal/report"
	"github.com/manamurah/flotilla-watch/internal/scrape"
	"github.com/manamurah/flotilla-watch/internal/storage"
	"github.com/manamurah/flotilla-watch/internal/workflow"
)

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	runNow      = flag.Bool("now", false, "Run one cycle immediately and exit")
	runNowN     = flag.Bool("n", false, "Run one cycle immediately and exit (shorthand)")
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("flotilla-watch version %s\n", config.GetVersion())
		os.Exit(0)
	}

	// Auto-discover config file if not specified.
	// Binary-relative paths are tried first so the config is found even when
	// the working directory differs from the binary location.
	if len(configFiles) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				configFiles = append(configFiles, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if issues := cfg.Validate(); len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Configuration error: mandatory fields are missing or invalid")
		fmt.Fprintln(os.Stderr, "")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "  - %s\n", issue)
		}
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Values can be set via TOML file or FLOTILLA_* environment variables.")
		fmt.Fprintln(os.Stderr, "")
		os.Exit(1)
	}

	logger := setupLogger(cfg)

	logger.Info().
		Str("url", cfg.Scraper.URL).
		Str("recipient", cfg.Mail.Recipient).
		Str("timezone", cfg.Report.Timezone).
		Str("config_files", fmt.Sprintf("%v", configFiles)).
		Msg("configuration loaded")

	storageManager, err := storage.NewStorageManager(slog.Default(), logger, cfg)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to open storage")
		os.Exit(1)
	}
	defer storageManager.Close()

	zone := common.NewDisplayZone(cfg.Report.Timezone)

	scraper := scrape.NewScraper(scrape.Config{
		URL:      cfg.Scraper.URL,
		Headless: cfg.Scraper.Headless,
		Timeout:  cfg.Scraper.GetTimeout(),
	}, logger)

	sender, err := mailer.NewMailer(cfg.Mail, logger)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to initialize mailer")
		os.Exit(1)
	}

	wf := workflow.New(
		scraper,
		report.NewBuilder(zone, logger),
		storageManager.ReportStorage(),
		sender,
		common.NewRetryPolicy(cfg.Scraper.RetryAttempts),
		common.NewRetryPolicy(cfg.Mail.RetryAttempts),
		logger,
	)

	if *runNow || *runNowN {
		// Manual invocation propagates a cycle failure as a non-zero exit.
		logger.Info().Msg("running workflow manually")
		if _, err := wf.Run(context.Background()); err != nil {
			logger.Error().Str("error", err.Error()).Msg("manual run failed")
			os.Exit(1)
		}
		logger.Info().Msg("manual run completed")
		return
	}

	scheduler, err := workflow.NewScheduler(wf, cfg.Scheduler.Spec, zone, cfg.Scheduler.AlertThreshold, logger)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("invalid schedule spec")
		os.Exit(1)
	}

	scheduler.Start()
	logger.Info().
		Str("spec", cfg.Scheduler.Spec).
		Str("zone", zone.Location().String()).
		Msg("scheduler ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("shutdown signal received")
	scheduler.Stop()
	logger.Info().Msg("flotilla-watch stopped")
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first, with CWD and Docker fallbacks after.
// Paths are deduplicated via filepath.Abs.
func configSearchPaths() []string {
	candidates := []string{
		"flotilla-watch.toml",
		"config/flotilla-watch.toml",
		"docker/flotilla-watch.toml",
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "flotilla-watch.toml"),
		filepath.Join(binDir, "config", "flotilla-watch.toml"),
	}
	paths = append(paths, candidates...)

	// Deduplicate via absolute path.
	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}

// setupLogger creates an arbor logger based on config.
func setupLogger(cfg *config.Config) *common.Logger {
	return common.NewLoggerFromConfig(common.LoggingConfig{
		Level:      cfg.Logging.Level,
		Outputs:    cfg.Logging.Outputs,
		FilePath:   cfg.Logging.FilePath,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}
