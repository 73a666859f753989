package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ProbeResult reports whether fsnotify is usable and why.
type ProbeResult struct {
	FsnotifySupported bool   // true if events are delivered
	Reason            string // explanation when unsupported
}

// Probe tests whether fsnotify reliably reports rename events in dir. It
// performs a real create+rename so network and overlay filesystems that
// accept a watch but never deliver events are caught.
func Probe(dir string) ProbeResult {
	st, err := os.Stat(dir)
	if err != nil {
		return ProbeResult{false, fmt.Sprintf("stat failed: %v", err)}
	}
	if !st.IsDir() {
		return ProbeResult{false, "not a directory"}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ProbeResult{false, fmt.Sprintf("fsnotify unavailable: %v", err)}
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return ProbeResult{false, fmt.Sprintf("cannot watch directory: %v", err)}
	}

	tmp := filepath.Join(dir, ".pbm-pruner-probe.tmp")
	final := filepath.Join(dir, ".pbm-pruner-probe")

	if f, err := os.Create(tmp); err == nil {
		f.Close()
	} else {
		return ProbeResult{false, fmt.Sprintf("cannot create temp file: %v", err)}
	}

	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return ProbeResult{false, fmt.Sprintf("rename failed: %v", err)}
	}
	defer os.Remove(final)

	timeout := time.After(200 * time.Millisecond)
	for {
		select {
		case ev := <-w.Events:
			if ev.Op&(fsnotify.Rename|fsnotify.Create|fsnotify.Write) != 0 {
				return ProbeResult{true, ""}
			}
		case <-timeout:
			return ProbeResult{false, "no events received (rename not reported)"}
		}
	}
}
