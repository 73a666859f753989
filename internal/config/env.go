package config

import (
	"strconv"
	"strings"
)

// Environment variables understood on top of the config file.
const (
	EnvKeepDays   = "PBM_KEEP_DAYS"
	EnvKeepWeeks  = "PBM_KEEP_WEEKS"
	EnvKeepMonths = "PBM_KEEP_MONTHS"
	EnvKeepYears  = "PBM_KEEP_YEARS"
	EnvBin        = "PBM_BIN"
	EnvMongoURI   = "PBM_MONGODB_URI"
	EnvSchedule   = "PBM_PRUNER_SCHEDULE"
	EnvLogLevel   = "PBM_PRUNER_LOG_LEVEL"
	EnvLogFormat  = "PBM_PRUNER_LOG_FORMAT"
)

func applyEnvOverrides(cfg *Config, lookup LookupFunc) error {
	var errs []FieldError

	counts := []struct {
		key string
		dst *int
	}{
		{EnvKeepDays, &cfg.Retention.Days},
		{EnvKeepWeeks, &cfg.Retention.Weeks},
		{EnvKeepMonths, &cfg.Retention.Months},
		{EnvKeepYears, &cfg.Retention.Years},
	}
	for _, c := range counts {
		val, ok := lookup(c.key)
		if !ok || strings.TrimSpace(val) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			errs = append(errs, FieldError{Field: c.key, Message: "must be an integer"})
			continue
		}
		*c.dst = n
	}

	strs := []struct {
		key string
		dst *string
	}{
		{EnvBin, &cfg.PBM.Bin},
		{EnvMongoURI, &cfg.PBM.MongoURI},
		{EnvSchedule, &cfg.Schedule.Cron},
		{EnvLogLevel, &cfg.Logging.Level},
		{EnvLogFormat, &cfg.Logging.Format},
	}
	for _, s := range strs {
		if val, ok := lookup(s.key); ok && val != "" {
			*s.dst = val
		}
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
