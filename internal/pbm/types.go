package pbm

import "github.com/raoulx24/pbm-pruner/internal/snapshot"

// Version is the output of `pbm version`.
type Version struct {
	Version   string `json:"Version"`
	Platform  string `json:"Platform"`
	GitCommit string `json:"GitCommit"`
	BuildTime string `json:"BuildTime"`
	GitBranch string `json:"GitBranch"`
	GoVersion string `json:"GoVersion"`
}

// List is the output of `pbm list`.
type List struct {
	Snapshots []snapshot.Snapshot `json:"snapshots"`
	PITR      struct {
		On     bool                 `json:"on"`
		Ranges []snapshot.PITRRange `json:"ranges"`
	} `json:"pitr"`
}

// LogEntry is one line of `pbm logs`.
type LogEntry struct {
	TS         int64  `json:"ts"`
	Severity   int    `json:"s"`
	ReplicaSet string `json:"rs"`
	Node       string `json:"node"`
	Event      string `json:"e"`
	EventObj   string `json:"eobj"`
	OpID       struct {
		T int64 `json:"T"`
		I int64 `json:"I"`
	} `json:"ep"`
	Msg string `json:"msg"`
}

// Response is the acknowledgement printed by mutating commands.
type Response struct {
	Msg string `json:"msg"`
}

// Status is the output of `pbm status`.
type Status struct {
	Running RunningOp `json:"running"`
	PITR    struct {
		Conf bool `json:"conf"`
		Run  bool `json:"run"`
	} `json:"pitr"`
	Cluster []ReplicaSetStatus `json:"cluster"`
	Backups BackupsStatus      `json:"backups"`
}

// RunningOp describes the operation pbm is currently executing, if any.
type RunningOp struct {
	Type   string `json:"type,omitempty"`
	Name   string `json:"name,omitempty"`
	Status string `json:"status,omitempty"`
	OPID   string `json:"opID,omitempty"`
}

type ReplicaSetStatus struct {
	ReplicaSet string       `json:"rs"`
	Nodes      []NodeStatus `json:"nodes"`
}

type NodeStatus struct {
	Host  string `json:"host"`
	Agent string `json:"agent"`
	OK    bool   `json:"ok"`
}

type BackupsStatus struct {
	Type       string              `json:"type"`
	Path       string              `json:"path"`
	Region     string              `json:"region,omitempty"`
	Snapshot   []snapshot.Snapshot `json:"snapshot"`
	PITRChunks struct {
		Chunks []snapshot.PITRRange `json:"pitrChunks"`
		Size   int64                `json:"size"`
	} `json:"pitrChunks"`
}

// RunningBackup returns the name of the backup in progress, or "".
func (s *Status) RunningBackup() string {
	for _, snap := range s.Backups.Snapshot {
		if snap.IsRunning() {
			return snap.BackupName
		}
	}
	if s.Running.Type == "backup" {
		return s.Running.Name
	}
	return ""
}
