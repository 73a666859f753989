// Package snapshot holds the backup records reported by pbm.
package snapshot

import (
	"encoding/json"
	"slices"
	"time"
)

// Backup states reported by pbm.
const (
	StatusDone      = "done"
	StatusRunning   = "running"
	StatusError     = "error"
	StatusCancelled = "canceled"
)

// Snapshot represents a single backup snapshot as listed by pbm.
type Snapshot struct {
	BackupName string `json:"name"`
	Status     string `json:"status"`
	Type       string `json:"type,omitempty"`
	PBMVersion string `json:"pbmVersion,omitempty"`
	Size       int64  `json:"size,omitempty"`

	// SrcBackup is the snapshot an incremental backup builds on.
	SrcBackup string `json:"src,omitempty"`

	CompleteTS int64 `json:"completeTS,omitempty"`
	RestoreTS  int64 `json:"restoreTo,omitempty"`

	// CompleteDate is derived from CompleteTS, or RestoreTS when pbm does
	// not report a completion time.
	CompleteDate time.Time `json:"completeDate"`
}

func (s Snapshot) Timestamp() time.Time { return s.CompleteDate }
func (s Snapshot) Name() string         { return s.BackupName }
func (s Snapshot) ParentName() string   { return s.SrcBackup }

func (s Snapshot) IsDone() bool    { return s.Status == StatusDone }
func (s Snapshot) IsRunning() bool { return s.Status == StatusRunning }

// IsIncremental reports whether restoring s requires another snapshot.
func (s Snapshot) IsIncremental() bool { return s.SrcBackup != "" }

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type wire Snapshot
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Snapshot(w)
	if d := completeDate(s.CompleteTS, s.RestoreTS); !d.IsZero() {
		s.CompleteDate = d
	}
	return nil
}

func completeDate(completeTS, restoreTS int64) time.Time {
	switch {
	case completeTS > 0:
		return time.Unix(completeTS, 0).UTC()
	case restoreTS > 0:
		return time.Unix(restoreTS, 0).UTC()
	default:
		return time.Time{}
	}
}

// Eligible returns the finished snapshots that retention may consider,
// leaving out the backup currently running, sorted oldest to newest.
func Eligible(snaps []Snapshot, running string) []Snapshot {
	out := make([]Snapshot, 0, len(snaps))
	for _, s := range snaps {
		if !s.IsDone() || (running != "" && s.BackupName == running) {
			continue
		}
		out = append(out, s)
	}
	SortOldestFirst(out)
	return out
}

// SortOldestFirst sorts snapshots by completion time, keeping input order
// for equal timestamps.
func SortOldestFirst(snaps []Snapshot) {
	slices.SortStableFunc(snaps, func(a, b Snapshot) int {
		return a.CompleteDate.Compare(b.CompleteDate)
	})
}

// Names returns the backup names in order.
func Names(snaps []Snapshot) []string {
	out := make([]string, len(snaps))
	for i, s := range snaps {
		out[i] = s.BackupName
	}
	return out
}
