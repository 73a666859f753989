// Package worker runs prune jobs one at a time as they are requested.
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/raoulx24/pbm-pruner/internal/logging"
	"github.com/raoulx24/pbm-pruner/internal/mailbox"
	"github.com/raoulx24/pbm-pruner/internal/prune"
	"github.com/raoulx24/pbm-pruner/internal/retention"
)

// Runner executes one prune. *prune.Pruner implements it.
type Runner interface {
	Run(ctx context.Context, policy retention.Policy, opts prune.Options) (*prune.Report, error)
}

// Settings are the parts of the configuration a run depends on.
type Settings struct {
	Policy  retention.Policy
	Options prune.Options
}

// Worker takes jobs from a mailbox and runs them.
type Worker struct {
	mu       sync.RWMutex
	settings Settings
	runner   Runner
	log      logging.Logger
	mb       *mailbox.Mailbox[Job]
}

// New creates a worker reading from mb.
func New(settings Settings, runner Runner, log logging.Logger, mb *mailbox.Mailbox[Job]) *Worker {
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("component", "worker")
	log.Debug("creating worker")
	return &Worker{
		settings: settings,
		runner:   runner,
		log:      log,
		mb:       mb,
	}
}

// Start runs the worker loop until ctx is done.
func (w *Worker) Start(ctx context.Context) error {
	w.log.Info("starting worker")
	for {
		job, err := w.mb.Take(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				w.log.Info("worker stopped")
				return nil
			}
			return err
		}
		if _, err := w.Handle(ctx, job); err != nil {
			w.log.Error("prune run failed", "reason", job.Reason, "error", err)
		}
	}
}

// Handle runs a single job with the current settings.
func (w *Worker) Handle(ctx context.Context, job Job) (*prune.Report, error) {
	s := w.Settings()
	w.log.Info("running prune", "reason", job.Reason, "requested_at", job.At, "policy", s.Policy.String())
	return w.runner.Run(ctx, s.Policy, s.Options)
}

// UpdateConfig hot-reloads the policy and run options. A run already in
// progress keeps the settings it started with.
func (w *Worker) UpdateConfig(s Settings) {
	w.log.Debug("entering Worker.UpdateConfig()")
	w.mu.Lock()
	w.settings = s
	w.mu.Unlock()
}

func (w *Worker) Settings() Settings {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.settings
}
