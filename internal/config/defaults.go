package config

import "time"

// Default returns the configuration used when nothing else is specified.
func Default() *Config {
	return &Config{
		Retention: RetentionConfig{Days: 7, Weeks: 5, Months: 3, Years: 2},
		Prune: PruneConfig{
			PITRCutoff: "oldest",
		},
		Schedule: ScheduleConfig{Cron: "0 3 * * *"},
		Metrics: MetricsConfig{
			Enabled: true,
			Listen:  ":9479",
			Path:    "/metrics",
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		ConfigReload: ReloadConfig{
			Enabled:         true,
			Mode:            "auto",
			PollInterval:    5 * time.Second,
			DebounceWindow:  500 * time.Millisecond,
			StabilityWindow: time.Second,
		},
	}
}
