package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Scraper: ScraperConfig{
			URL:           "https://flotilla-orpin.vercel.app/",
			Headless:      true,
			Timeout:       "30s",
			RetryAttempts: 3,
		},
		Mail: MailConfig{
			Host:          "smtp.resend.com",
			Port:          465,
			Username:      "resend",
			SenderName:    "ManaMurah",
			RetryAttempts: 3,
		},
		Report: ReportConfig{
			Timezone: "Asia/Kuala_Lumpur",
		},
		Scheduler: SchedulerConfig{
			Spec:           "0 * * * *",
			AlertThreshold: 3,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/flotilla",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
