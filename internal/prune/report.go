package prune

import (
	"time"

	"github.com/raoulx24/pbm-pruner/internal/retention"
)

// Report describes the outcome of a run.
type Report struct {
	RunID   string           `json:"runID,omitempty"`
	Policy  retention.Policy `json:"policy"`
	DryRun  bool             `json:"dryRun"`
	Running string           `json:"running,omitempty"`
	Total   int              `json:"total"`

	// Kept is sorted oldest to newest.
	Kept []string `json:"kept"`
	// Delete lists deletion targets in the order they are attempted.
	Delete   []string `json:"delete"`
	Orphaned []string `json:"orphaned,omitempty"`

	Deleted int       `json:"deleted"`
	Failed  []Failure `json:"failed,omitempty"`

	PITRCutoff *time.Time `json:"pitrCutoff,omitempty"`
	// PITRPruned is true when chunks older than PITRCutoff were removed.
	PITRPruned bool `json:"pitrPruned"`

	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// Failure is a deletion that did not succeed. Target is a snapshot name or
// "pitr".
type Failure struct {
	Target string `json:"target"`
	Error  string `json:"error"`
}
