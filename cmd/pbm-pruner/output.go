package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/raoulx24/pbm-pruner/internal/pbm"
	"github.com/raoulx24/pbm-pruner/internal/prune"
	"github.com/raoulx24/pbm-pruner/internal/snapshot"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkOutput(format string) error {
	switch format {
	case outputText, outputJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", format)
	}
}

// writeReport prints a run report. In text mode the snapshot names are only
// listed when detailed is set.
func writeReport(w io.Writer, r *prune.Report, format string, detailed bool) error {
	if err := checkOutput(format); err != nil {
		return err
	}
	if format == outputJSON {
		return writeJSON(w, r)
	}

	fmt.Fprintf(w, "Retention policy: %s\n", r.Policy)
	if r.Running != "" {
		fmt.Fprintf(w, "Backup %s is running and was not considered.\n", r.Running)
	}

	fmt.Fprintf(w, "Keeping %d snapshots out of %d total.\n", len(r.Kept), r.Total)
	if detailed {
		for _, n := range r.Kept {
			fmt.Fprintf(w, "  - %s\n", n)
		}
	}

	fmt.Fprintf(w, "Deleting %d snapshots:\n", len(r.Delete))
	if detailed {
		for _, n := range r.Delete {
			fmt.Fprintf(w, "  - %s\n", n)
		}
	}

	if len(r.Orphaned) > 0 {
		fmt.Fprintf(w, "%d snapshots have a missing base backup:\n", len(r.Orphaned))
		for _, n := range r.Orphaned {
			fmt.Fprintf(w, "  - %s\n", n)
		}
	}

	if r.PITRCutoff != nil {
		verb := "Would prune"
		if r.PITRPruned {
			verb = "Pruned"
		}
		fmt.Fprintf(w, "%s PITR chunks older than %s.\n", verb, r.PITRCutoff.UTC().Format(time.RFC3339))
	}

	if r.DryRun {
		fmt.Fprintln(w, "Dry run: nothing was deleted (use --force to delete).")
	} else {
		fmt.Fprintf(w, "Deleted %d snapshots.\n", r.Deleted)
	}
	for _, f := range r.Failed {
		fmt.Fprintf(w, "Failed to delete %s: %s\n", f.Target, f.Error)
	}
	return nil
}

func writeList(w io.Writer, l *pbm.List, format string) error {
	if err := checkOutput(format); err != nil {
		return err
	}
	if format == outputJSON {
		return writeJSON(w, l)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tSTATUS\tCOMPLETED\tBASE")
	snaps := append([]snapshot.Snapshot(nil), l.Snapshots...)
	snapshot.SortOldestFirst(snaps)
	for _, s := range snaps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.BackupName, s.Type, s.Status, formatTime(s.CompleteDate), orDash(s.SrcBackup))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	state := "off"
	if l.PITR.On {
		state = "on"
	}
	fmt.Fprintf(w, "\nPITR: %s\n", state)
	for _, r := range l.PITR.Ranges {
		fmt.Fprintf(w, "  %s - %s\n", formatTime(r.StartDate), formatTime(r.EndDate))
	}
	return nil
}

func writeStatus(w io.Writer, s *pbm.Status, format string) error {
	if err := checkOutput(format); err != nil {
		return err
	}
	if format == outputJSON {
		return writeJSON(w, s)
	}

	fmt.Fprintf(w, "Running backup: %s\n", orDash(s.RunningBackup()))
	fmt.Fprintf(w, "PITR: enabled=%t running=%t\n", s.PITR.Conf, s.PITR.Run)
	fmt.Fprintf(w, "Storage: %s %s\n", orDash(s.Backups.Type), s.Backups.Path)
	fmt.Fprintf(w, "Snapshots: %d\n", len(s.Backups.Snapshot))
	for _, rs := range s.Cluster {
		fmt.Fprintf(w, "Replica set %s:\n", rs.ReplicaSet)
		for _, n := range rs.Nodes {
			state := "ok"
			if !n.OK {
				state = "FAILED"
			}
			fmt.Fprintf(w, "  %s agent %s %s\n", n.Host, orDash(n.Agent), state)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
