// Package prune applies a retention policy to the snapshots PBM reports and
// deletes what the policy does not keep.
package prune

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/raoulx24/pbm-pruner/internal/logging"
	"github.com/raoulx24/pbm-pruner/internal/metrics"
	"github.com/raoulx24/pbm-pruner/internal/pbm"
	"github.com/raoulx24/pbm-pruner/internal/retention"
	"github.com/raoulx24/pbm-pruner/internal/snapshot"
)

// Backend is the subset of pbm the pruner needs. *pbm.Client implements it.
type Backend interface {
	Status(ctx context.Context) (*pbm.Status, error)
	List(ctx context.Context) (*pbm.List, error)
	DeleteBackup(ctx context.Context, name string, force bool) error
	DeletePITR(ctx context.Context, olderThan time.Time, force bool) error
}

// Options control what a run is allowed to do.
type Options struct {
	// DryRun reports the plan without deleting anything.
	DryRun bool
	// PITR also prunes oplog chunks older than the cutoff.
	PITR bool
	// DeleteOrphans deletes snapshots whose ancestor chain is broken.
	DeleteOrphans bool
	CutoffMode    retention.CutoffMode
}

// Pruner runs retention against a Backend.
type Pruner struct {
	backend Backend
	log     logging.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

// New creates a pruner. metrics may be nil.
func New(backend Backend, log logging.Logger, m *metrics.Collector) *Pruner {
	if log == nil {
		log = logging.Nop()
	}
	return &Pruner{
		backend: backend,
		log:     log.With("component", "prune"),
		metrics: m,
		now:     time.Now,
	}
}

// WithClock overrides the wall clock used for the policy reference time.
func (p *Pruner) WithClock(now func() time.Time) *Pruner {
	p.now = now
	return p
}

// Run fetches the current state from PBM, partitions the finished snapshots
// and deletes the rest. Individual deletion failures are recorded in the
// report and do not abort the run.
func (p *Pruner) Run(ctx context.Context, policy retention.Policy, opts Options) (*Report, error) {
	started := p.now()
	if policy.Now.IsZero() {
		policy.Now = started
	}

	runID := uuid.NewString()
	log := p.log.With("run_id", runID)
	log.Debug("retention policy", "policy", policy.String(), "dry_run", opts.DryRun)

	report, err := p.run(ctx, log, policy, opts)
	finished := p.now()
	if err != nil {
		p.metrics.ObserveRun(metrics.ResultFailure, finished.Sub(started), finished)
		return nil, err
	}

	report.RunID = runID
	report.Started = started
	report.Duration = finished.Sub(started)

	result := metrics.ResultSuccess
	if len(report.Failed) > 0 {
		result = metrics.ResultFailure
	}
	p.metrics.ObserveRun(result, report.Duration, finished)

	log.Info("prune run finished",
		"kept", len(report.Kept),
		"deleted", report.Deleted,
		"failed", len(report.Failed),
		"dry_run", report.DryRun,
		"duration", report.Duration,
	)
	return report, nil
}

func (p *Pruner) run(ctx context.Context, log logging.Logger, policy retention.Policy, opts Options) (*Report, error) {
	status, err := p.backend.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting PBM status (is PBM_MONGODB_URI set correctly?): %w", err)
	}

	running := status.RunningBackup()
	if running != "" {
		log.Warn("a backup is running and will not be included", "backup", running)
	}

	list, err := p.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}

	report, ev, err := evaluate(policy, list, running, opts)
	if err != nil {
		return nil, err
	}
	p.metrics.SetSnapshots(report.Total, len(report.Kept), len(report.Delete), len(report.Orphaned))
	if ev.hasCutoff {
		p.metrics.SetPITRCutoff(ev.cutoff)
	}

	log.Info(fmt.Sprintf("keeping %d snapshots out of %d total", len(report.Kept), report.Total))
	for _, s := range ev.plan.Keep {
		log.Debug("keep", "snapshot", s.Name(), "completed", s.Timestamp())
	}
	for _, s := range ev.plan.Orphaned {
		log.Warn("snapshot has a broken ancestor chain", "snapshot", s.Name(), "parent", s.ParentName())
	}
	log.Info(fmt.Sprintf("deleting %d snapshots", len(report.Delete)))
	for _, s := range ev.targets {
		log.Debug("delete", "snapshot", s.Name(), "completed", s.Timestamp())
	}

	if opts.DryRun {
		for range ev.targets {
			p.metrics.RecordDeletion(metrics.ResultSkipped)
		}
		return report, nil
	}

	for _, s := range ev.targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.backend.DeleteBackup(ctx, s.Name(), true); err != nil {
			log.Error("error deleting snapshot", "snapshot", s.Name(), "error", err)
			report.Failed = append(report.Failed, Failure{Target: s.Name(), Error: err.Error()})
			p.metrics.RecordDeletion(metrics.ResultFailure)
			continue
		}
		report.Deleted++
		p.metrics.RecordDeletion(metrics.ResultSuccess)
	}

	if report.PITRPruned {
		if err := p.backend.DeletePITR(ctx, ev.cutoff, true); err != nil {
			log.Error("error deleting PITR chunks", "older_than", ev.cutoff, "error", err)
			report.Failed = append(report.Failed, Failure{Target: pitrTarget, Error: err.Error()})
			report.PITRPruned = false
			p.metrics.RecordDeletion(metrics.ResultFailure)
		} else {
			log.Info("deleted PITR chunks", "older_than", ev.cutoff)
			p.metrics.RecordDeletion(metrics.ResultSuccess)
		}
	}

	return report, nil
}

const pitrTarget = "pitr"

type evaluation struct {
	plan      retention.Plan[snapshot.Snapshot]
	targets   []snapshot.Snapshot
	cutoff    time.Time
	hasCutoff bool
}

// Evaluate computes the report of a run without contacting PBM.
func Evaluate(policy retention.Policy, list *pbm.List, running string, opts Options) (*Report, error) {
	report, _, err := evaluate(policy, list, running, opts)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func evaluate(policy retention.Policy, list *pbm.List, running string, opts Options) (*Report, *evaluation, error) {
	eligible := snapshot.Eligible(list.Snapshots, running)

	plan, err := retention.Partition(policy, eligible)
	if err != nil {
		return nil, nil, fmt.Errorf("selecting snapshots to keep: %w", err)
	}

	ev := &evaluation{plan: plan, targets: plan.Delete}
	if opts.DeleteOrphans {
		orphans := slices.Clone(plan.Orphaned)
		slices.Reverse(orphans)
		ev.targets = append(slices.Clone(plan.Delete), orphans...)
	}

	report := &Report{
		Policy:   policy,
		DryRun:   opts.DryRun,
		Running:  running,
		Total:    len(eligible),
		Kept:     snapshot.Names(plan.Keep),
		Delete:   snapshot.Names(ev.targets),
		Orphaned: snapshot.Names(plan.Orphaned),
	}

	if opts.PITR {
		ev.cutoff, ev.hasCutoff = retention.PITRCutoff(plan.Keep, opts.CutoffMode)
		if ev.hasCutoff {
			cutoff := ev.cutoff
			report.PITRCutoff = &cutoff
			report.PITRPruned = snapshot.StartsBefore(list.PITR.Ranges, cutoff) && !opts.DryRun
		}
	}

	return report, ev, nil
}
