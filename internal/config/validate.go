package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/pbm-pruner/internal/logging"
	"github.com/raoulx24/pbm-pruner/internal/retention"
)

// FieldError is a problem with one configuration field.
type FieldError struct {
	Field   string // dotted path, e.g. "retention.days"
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every FieldError found in a configuration.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate checks cfg and reports all problems at once.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateRetention(&cfg.Retention)...)
	errs = append(errs, validatePrune(&cfg.Prune)...)
	errs = append(errs, validateSchedule(&cfg.Schedule)...)
	errs = append(errs, validateMetrics(&cfg.Metrics)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateReload(&cfg.ConfigReload)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateRetention(r *RetentionConfig) []FieldError {
	var errs []FieldError
	for _, f := range []struct {
		name string
		v    int
	}{{"days", r.Days}, {"weeks", r.Weeks}, {"months", r.Months}, {"years", r.Years}} {
		if f.v < 0 {
			errs = append(errs, FieldError{Field: "retention." + f.name, Message: "must not be negative"})
		}
	}
	return errs
}

func validatePrune(p *PruneConfig) []FieldError {
	if _, err := retention.ParseCutoffMode(p.PITRCutoff); err != nil {
		return []FieldError{{Field: "prune.pitrCutoff", Message: err.Error()}}
	}
	return nil
}

func validateSchedule(s *ScheduleConfig) []FieldError {
	if s.Cron == "" {
		return nil
	}
	if _, err := cron.ParseStandard(s.Cron); err != nil {
		return []FieldError{{Field: "schedule.cron", Message: fmt.Sprintf("invalid cron expression: %v", err)}}
	}
	return nil
}

func validateMetrics(m *MetricsConfig) []FieldError {
	if !m.Enabled {
		return nil
	}
	var errs []FieldError
	if m.Listen == "" {
		errs = append(errs, FieldError{Field: "metrics.listen", Message: "listen address is required"})
	}
	if !strings.HasPrefix(m.Path, "/") {
		errs = append(errs, FieldError{Field: "metrics.path", Message: "must start with /"})
	}
	return errs
}

func validateLogging(l *LoggingConfig) []FieldError {
	var errs []FieldError
	if _, err := logging.ParseLevel(l.Level); err != nil {
		errs = append(errs, FieldError{Field: "logging.level", Message: err.Error()})
	}
	switch strings.ToLower(l.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, FieldError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", l.Format)})
	}
	return errs
}

func validateReload(r *ReloadConfig) []FieldError {
	if !r.Enabled {
		return nil
	}
	var errs []FieldError
	switch r.Mode {
	case "auto", "poll", "fsnotify":
	default:
		errs = append(errs, FieldError{Field: "configReload.mode", Message: fmt.Sprintf("unknown mode %q", r.Mode)})
	}
	if r.PollInterval <= 0 {
		errs = append(errs, FieldError{Field: "configReload.pollInterval", Message: "must be positive"})
	}
	if r.DebounceWindow < 0 {
		errs = append(errs, FieldError{Field: "configReload.debounceWindow", Message: "must not be negative"})
	}
	if r.StabilityWindow < 0 {
		errs = append(errs, FieldError{Field: "configReload.stabilityWindow", Message: "must not be negative"})
	}
	return errs
}
