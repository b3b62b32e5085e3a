package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string          `toml:"environment"`
	Scraper     ScraperConfig   `toml:"scraper"`
	Mail        MailConfig      `toml:"mail"`
	Report      ReportConfig    `toml:"report"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ScraperConfig contains browser acquisition settings.
type ScraperConfig struct {
	URL           string `toml:"url"`
	Headless      bool   `toml:"headless"`
	Timeout       string `toml:"timeout"`
	RetryAttempts int    `toml:"retry_attempts"`
}

// GetTimeout parses and returns the timeout duration
func (c *ScraperConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// MailConfig contains SMTP delivery settings.
type MailConfig struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Username      string `toml:"username"`
	APIKey        string `toml:"api_key"`
	SenderEmail   string `toml:"sender_email"`
	SenderName    string `toml:"sender_name"`
	Recipient     string `toml:"recipient"`
	RetryAttempts int    `toml:"retry_attempts"`
}

// ReportConfig contains report rendering settings.
type ReportConfig struct {
	// Timezone is the IANA name of the display zone; an unresolvable name
	// falls back to fixed UTC+8.
	Timezone string `toml:"timezone"`
}

// SchedulerConfig contains cron scheduling settings.
type SchedulerConfig struct {
	// Spec is a standard cron expression, evaluated in the display zone.
	Spec           string `toml:"spec"`
	AlertThreshold int    `toml:"alert_threshold"`
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies FLOTILLA_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if url := os.Getenv("FLOTILLA_URL"); url != "" {
		config.Scraper.URL = url
	}
	if headless := os.Getenv("FLOTILLA_HEADLESS"); headless != "" {
		if b, err := strconv.ParseBool(headless); err == nil {
			config.Scraper.Headless = b
		}
	}
	if attempts := os.Getenv("FLOTILLA_RETRY_ATTEMPTS"); attempts != "" {
		if n, err := strconv.Atoi(attempts); err == nil {
			config.Scraper.RetryAttempts = n
			config.Mail.RetryAttempts = n
		}
	}
	if host := os.Getenv("FLOTILLA_SMTP_HOST"); host != "" {
		config.Mail.Host = host
	}
	if key := os.Getenv("FLOTILLA_SMTP_API_KEY"); key != "" {
		config.Mail.APIKey = key
	}
	if sender := os.Getenv("FLOTILLA_SENDER_EMAIL"); sender != "" {
		config.Mail.SenderEmail = sender
	}
	if recipient := os.Getenv("FLOTILLA_RECIPIENT_EMAIL"); recipient != "" {
		config.Mail.Recipient = recipient
	}
	if tz := os.Getenv("FLOTILLA_TIMEZONE"); tz != "" {
		config.Report.Timezone = tz
	}
	if badgerPath := os.Getenv("FLOTILLA_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if level := os.Getenv("FLOTILLA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// Validate returns a list of issues for mandatory fields that are missing
// or invalid. An empty list means the configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.Scraper.URL == "" {
		issues = append(issues, "scraper.url is required (FLOTILLA_URL)")
	}
	if c.Mail.APIKey == "" {
		issues = append(issues, "mail.api_key is required (FLOTILLA_SMTP_API_KEY)")
	}
	if c.Mail.SenderEmail == "" {
		issues = append(issues, "mail.sender_email is required (FLOTILLA_SENDER_EMAIL)")
	}
	if c.Mail.Recipient == "" {
		issues = append(issues, "mail.recipient is required (FLOTILLA_RECIPIENT_EMAIL)")
	}
	if c.Scraper.RetryAttempts < 1 {
		issues = append(issues, "scraper.retry_attempts must be at least 1")
	}
	if c.Mail.RetryAttempts < 1 {
		issues = append(issues, "mail.retry_attempts must be at least 1")
	}

	return issues
}
