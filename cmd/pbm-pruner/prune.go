package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raoulx24/pbm-pruner/internal/metrics"
	"github.com/raoulx24/pbm-pruner/internal/prune"
)

var pruneFlags struct {
	policyFlags
	force       bool
	metricsFile string
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete snapshots outside the retention policy",
	Long: `Apply the retention policy once. Without --force nothing is deleted and the
plan is only reported.

Examples:
  # Dry run with the configured policy
  pbm-pruner prune

  # Keep 14 days and 8 weeks, delete the rest and prune PITR chunks
  pbm-pruner prune -d 14 -w 8 --pitr --force

  # Write metrics for the node_exporter textfile collector
  pbm-pruner prune --force --metrics-file /var/lib/node_exporter/pbm_pruner.prom`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	addPolicyFlags(pruneCmd, &pruneFlags.policyFlags)
	pruneCmd.Flags().BoolVarP(&pruneFlags.force, "force", "f", false, "actually delete the snapshots (without this flag it is a dry run)")
	pruneCmd.Flags().StringVar(&pruneFlags.metricsFile, "metrics-file", "", "write prometheus metrics to this textfile after the run")
}

func runPrune(cmd *cobra.Command, args []string) error {
	cfg, log, client, err := setup(cmd)
	if err != nil {
		return err
	}
	if err := pruneFlags.apply(cmd, cfg); err != nil {
		return err
	}

	metricsFile := cfg.Metrics.Textfile
	if pruneFlags.metricsFile != "" {
		metricsFile = pruneFlags.metricsFile
	}
	var collector *metrics.Collector
	if metricsFile != "" {
		collector = metrics.NewCollector(nil)
	}

	opts := optionsFrom(cfg)
	opts.DryRun = !pruneFlags.force

	report, runErr := prune.New(client, log, collector).Run(cmd.Context(), cfg.Retention.Policy(), opts)

	if collector != nil {
		if err := collector.WriteTextfile(metricsFile); err != nil {
			log.Error("writing metrics failed", "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	if err := writeReport(cmd.OutOrStdout(), report, pruneFlags.output, verbose); err != nil {
		return err
	}
	if n := len(report.Failed); n > 0 {
		return fmt.Errorf("%d deletions failed", n)
	}
	return nil
}
