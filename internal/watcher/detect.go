package watcher

import (
	"os"
	"time"
)

// detect reloads the config file if it changed since the last look.
func (w *Watcher) detect() {
	w.mu.RLock()
	path := w.path
	last := w.lastModTime
	lastSize := w.lastSize
	w.mu.RUnlock()

	info, err := os.Stat(path)
	if err != nil {
		w.log.Debug("config file not readable", "path", path, "error", err)
		return
	}

	if info.ModTime().Equal(last) && info.Size() == lastSize {
		return
	}

	if !w.isFileStable() {
		w.log.Debug("config file still changing", "path", path)
		return
	}

	// re-stat so a write that finished during the stability wait is not
	// reported twice
	if info, err = os.Stat(path); err != nil {
		return
	}
	w.mu.Lock()
	w.lastModTime = info.ModTime()
	w.lastSize = info.Size()
	w.mu.Unlock()

	w.reload("file changed")
}

// Reload loads the config file unconditionally, e.g. on SIGHUP.
func (w *Watcher) Reload() {
	w.reload("reload requested")
}

func (w *Watcher) reload(reason string) {
	w.mu.RLock()
	path := w.path
	w.mu.RUnlock()

	cfg, err := w.load(path)
	if err != nil {
		w.log.Error("config reload failed, keeping current config", "path", path, "error", err)
		return
	}
	w.log.Info("config reloaded", "path", path, "reason", reason)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}

// isFileStable reports whether the file size holds still for the stability
// window.
func (w *Watcher) isFileStable() bool {
	w.mu.RLock()
	path := w.path
	stability := w.stability
	w.mu.RUnlock()

	if stability <= 0 {
		return true
	}

	info1, err := os.Stat(path)
	if err != nil {
		return false
	}

	time.Sleep(stability)

	info2, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info1.Size() == info2.Size()
}
