package worker

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/pbm-pruner/internal/logging"
	"github.com/raoulx24/pbm-pruner/internal/mailbox"
)

// Scheduler posts a job to the mailbox on every tick of a cron schedule.
//
// Common expressions:
//   - "0 3 * * *"    - daily at 3 AM
//   - "0 */6 * * *"  - every 6 hours
//   - "0 0 * * 0"    - weekly on Sunday at midnight
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entry   cron.EntryID
	expr    string
	running bool
	mb      *mailbox.Mailbox[Job]
	log     logging.Logger
}

func NewScheduler(mb *mailbox.Mailbox[Job], log logging.Logger) *Scheduler {
	if log == nil {
		log = logging.Nop()
	}
	return &Scheduler{
		cron: cron.New(),
		mb:   mb,
		log:  log.With("component", "scheduler"),
	}
}

// Start schedules expr and starts the cron loop. An empty expression starts
// the loop with nothing scheduled.
func (s *Scheduler) Start(expr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.setLocked(expr); err != nil {
		return err
	}
	s.cron.Start()
	s.running = true
	s.log.Info("scheduler started", "schedule", expr)
	return nil
}

// Reschedule replaces the current schedule.
func (s *Scheduler) Reschedule(expr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expr == s.expr {
		return nil
	}
	if err := s.setLocked(expr); err != nil {
		return err
	}
	s.log.Info("schedule updated", "schedule", expr)
	return nil
}

func (s *Scheduler) setLocked(expr string) error {
	if expr != "" {
		if _, err := cron.ParseStandard(expr); err != nil {
			return fmt.Errorf("invalid cron schedule %q: %w", expr, err)
		}
	}

	if s.entry != 0 {
		s.cron.Remove(s.entry)
		s.entry = 0
	}
	s.expr = expr
	if expr == "" {
		s.log.Info("prune schedule not configured")
		return nil
	}

	id, err := s.cron.AddFunc(expr, func() { s.Trigger("schedule") })
	if err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}
	s.entry = id
	return nil
}

// Trigger requests a run now.
func (s *Scheduler) Trigger(reason string) {
	s.log.Debug("prune requested", "reason", reason)
	s.mb.Put(Job{Reason: reason, At: time.Now()})
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.log.Info("scheduler stopped")
	}
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled run, or nil when nothing is scheduled
// or the scheduler is not running.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.entry == 0 {
		return nil
	}
	next := s.cron.Entry(s.entry).Next
	if next.IsZero() {
		return nil
	}
	return &next
}
