package worker

import (
	"time"
)

// Job is a request to run a prune.
type Job struct {
	Reason string // "schedule", "startup", "signal", ...
	At     time.Time
}
