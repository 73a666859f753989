// Package watcher reloads the configuration file when it changes.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/raoulx24/pbm-pruner/internal/config"
	"github.com/raoulx24/pbm-pruner/internal/logging"
)

// Watcher observes the config file and hands every valid new version to a
// callback.
type Watcher struct {
	mu sync.RWMutex

	path      string
	interval  time.Duration
	mode      string
	debounce  time.Duration
	stability time.Duration

	log logging.Logger

	lastModTime time.Time
	lastSize    int64

	load     func(path string) (*config.Config, error)
	onChange func(*config.Config)
}

// New creates a watcher for the config file at path.
func New(path string, cfg config.ReloadConfig, log logging.Logger, onChange func(*config.Config)) *Watcher {
	if log == nil {
		log = logging.Nop()
	}
	w := &Watcher{
		path:      path,
		interval:  cfg.PollInterval,
		mode:      cfg.Mode,
		debounce:  cfg.DebounceWindow,
		stability: cfg.StabilityWindow,
		log:       log.With("component", "watcher"),
		load:      config.Load,
		onChange:  onChange,
	}
	if info, err := os.Stat(path); err == nil {
		w.lastModTime = info.ModTime()
		w.lastSize = info.Size()
	}
	return w
}

// Start chooses the correct watching strategy based on config and blocks
// until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.RLock()
	mode := w.mode
	dir := filepath.Dir(w.path)
	w.mu.RUnlock()

	switch mode {
	case "fsnotify":
		return w.StartFsNotify(ctx)

	case "poll":
		w.StartPolling(ctx)
		return nil

	case "auto":
		res := Probe(dir)
		if res.FsnotifySupported {
			return w.StartFsNotify(ctx)
		}
		w.log.Warn("fsnotify disabled, polling instead", "reason", res.Reason)
		w.StartPolling(ctx)
		return nil

	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// UpdateConfig updates watcher timings for hot-reload. The mode takes effect
// on the next Start.
func (w *Watcher) UpdateConfig(cfg config.ReloadConfig) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.interval = cfg.PollInterval
	w.mode = cfg.Mode
	w.debounce = cfg.DebounceWindow
	w.stability = cfg.StabilityWindow
}
