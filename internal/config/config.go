// Package config loads the pruner configuration from YAML, the environment
// and defaults.
package config

import (
	"time"

	"github.com/raoulx24/pbm-pruner/internal/retention"
)

type Config struct {
	Retention    RetentionConfig `yaml:"retention"`
	PBM          PBMConfig       `yaml:"pbm"`
	Prune        PruneConfig     `yaml:"prune"`
	Schedule     ScheduleConfig  `yaml:"schedule"`
	Metrics      MetricsConfig   `yaml:"metrics"`
	Logging      LoggingConfig   `yaml:"logging"`
	ConfigReload ReloadConfig    `yaml:"configReload"`
}

// RetentionConfig holds how many representatives of each granularity to keep.
type RetentionConfig struct {
	Days   int `yaml:"days"`
	Weeks  int `yaml:"weeks"`
	Months int `yaml:"months"`
	Years  int `yaml:"years"`
}

// Policy converts the counts to a retention policy evaluated at wall clock.
func (r RetentionConfig) Policy() retention.Policy {
	return retention.Policy{Years: r.Years, Months: r.Months, Weeks: r.Weeks, Days: r.Days}
}

type PBMConfig struct {
	Bin      string `yaml:"bin"`
	MongoURI string `yaml:"mongodbURI"`
}

type PruneConfig struct {
	DryRun        bool   `yaml:"dryRun"`
	PITR          bool   `yaml:"pitr"`
	DeleteOrphans bool   `yaml:"deleteOrphans"`
	PITRCutoff    string `yaml:"pitrCutoff"` // "oldest", "successor"
}

type ScheduleConfig struct {
	Cron       string `yaml:"cron"` // standard 5-field expression
	RunOnStart bool   `yaml:"runOnStart"`
}

type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Listen   string `yaml:"listen"`
	Path     string `yaml:"path"`
	Textfile string `yaml:"textfile"` // one-shot runs only
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "info", "debug", etc.
	Format string `yaml:"format"` // "json", "text"
}

type ReloadConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Mode            string        `yaml:"mode"`           // "auto", "poll", "fsnotify"
	PollInterval    time.Duration `yaml:"pollInterval"`   // e.g. 5s
	DebounceWindow  time.Duration `yaml:"debounceWindow"` // e.g. 500ms
	StabilityWindow time.Duration `yaml:"stabilityWindow"`
}
