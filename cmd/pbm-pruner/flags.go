package main

import (
	"github.com/spf13/cobra"

	"github.com/raoulx24/pbm-pruner/internal/config"
	"github.com/raoulx24/pbm-pruner/internal/prune"
	"github.com/raoulx24/pbm-pruner/internal/retention"
)

// policyFlags are shared by the commands that evaluate a policy. They only
// override the config when given on the command line.
type policyFlags struct {
	days, weeks, months, years int
	pitr                       bool
	deleteOrphans              bool
	pitrCutoff                 string
	output                     string
}

func addPolicyFlags(cmd *cobra.Command, f *policyFlags) {
	d := config.Default().Retention
	cmd.Flags().IntVarP(&f.days, "days", "d", d.Days, "how many days to keep")
	cmd.Flags().IntVarP(&f.weeks, "weeks", "w", d.Weeks, "how many weeks to keep")
	cmd.Flags().IntVarP(&f.months, "months", "m", d.Months, "how many months to keep")
	cmd.Flags().IntVarP(&f.years, "years", "y", d.Years, "how many years to keep")
	cmd.Flags().BoolVar(&f.pitr, "pitr", false, "also prune PITR chunks older than the oldest kept snapshot")
	cmd.Flags().BoolVar(&f.deleteOrphans, "delete-orphans", false, "delete snapshots whose base backup is missing")
	cmd.Flags().StringVar(&f.pitrCutoff, "pitr-cutoff", "", "PITR cutoff: oldest (default) or successor")
	cmd.Flags().StringVarP(&f.output, "output", "o", "text", "output format (text, json)")
}

func (f *policyFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fl := cmd.Flags()
	if fl.Changed("days") {
		cfg.Retention.Days = f.days
	}
	if fl.Changed("weeks") {
		cfg.Retention.Weeks = f.weeks
	}
	if fl.Changed("months") {
		cfg.Retention.Months = f.months
	}
	if fl.Changed("years") {
		cfg.Retention.Years = f.years
	}
	if fl.Changed("pitr") {
		cfg.Prune.PITR = f.pitr
	}
	if fl.Changed("delete-orphans") {
		cfg.Prune.DeleteOrphans = f.deleteOrphans
	}
	if fl.Changed("pitr-cutoff") {
		cfg.Prune.PITRCutoff = f.pitrCutoff
	}
	return config.Validate(cfg)
}

// optionsFrom converts a validated config to run options.
func optionsFrom(cfg *config.Config) prune.Options {
	mode, _ := retention.ParseCutoffMode(cfg.Prune.PITRCutoff)
	return prune.Options{
		DryRun:        cfg.Prune.DryRun,
		PITR:          cfg.Prune.PITR,
		DeleteOrphans: cfg.Prune.DeleteOrphans,
		CutoffMode:    mode,
	}
}
