package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/raoulx24/pbm-pruner/internal/pbm"
	"github.com/raoulx24/pbm-pruner/internal/prune"
	"github.com/raoulx24/pbm-pruner/internal/snapshot"
)

var planFlags struct {
	policyFlags
	file    string
	now     string
	running string
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Evaluate the retention policy against a saved snapshot list",
	Long: `Evaluate the retention policy offline. The input is the output of
"pbm -o json list", or a JSON array of snapshots. Nothing is contacted or
deleted.

Examples:
  pbm -o json list > list.json
  pbm-pruner plan --file list.json --days 3 --weeks 2

  # Pin the reference time
  pbm-pruner plan --file list.json --now 2024-06-01T00:00:00Z -o json`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	addPolicyFlags(planCmd, &planFlags.policyFlags)
	planCmd.Flags().StringVarP(&planFlags.file, "file", "i", "-", `snapshot list file ("-" for stdin)`)
	planCmd.Flags().StringVar(&planFlags.now, "now", "", "reference time (RFC3339), default now")
	planCmd.Flags().StringVar(&planFlags.running, "running", "", "name of a backup to treat as in progress")
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := planFlags.apply(cmd, cfg); err != nil {
		return err
	}

	policy := cfg.Retention.Policy()
	if planFlags.now != "" {
		now, err := time.Parse(time.RFC3339, planFlags.now)
		if err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
		policy.Now = now
	}

	list, err := readList(cmd.InOrStdin(), planFlags.file)
	if err != nil {
		return err
	}

	opts := optionsFrom(cfg)
	opts.DryRun = true

	report, err := prune.Evaluate(policy, list, planFlags.running, opts)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), report, planFlags.output, true)
}

// readList decodes either a full `pbm list` document or a bare array of
// snapshots.
func readList(stdin io.Reader, path string) (*pbm.List, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot list: %w", err)
	}

	list := &pbm.List{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var snaps []snapshot.Snapshot
		if err := json.Unmarshal(trimmed, &snaps); err != nil {
			return nil, fmt.Errorf("decoding snapshot list: %w", err)
		}
		list.Snapshots = snaps
		return list, nil
	}
	if err := json.Unmarshal(trimmed, list); err != nil {
		return nil, fmt.Errorf("decoding snapshot list: %w", err)
	}
	return list, nil
}
