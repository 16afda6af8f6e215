package watcher

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config contains watcher settings.
type Config struct {
	SettleDelay     time.Duration // grace interval after a creation event
	StableThreshold time.Duration // size-stability window; 0 disables polling
	IgnorePatterns  []string      // glob patterns for temp/partial artifacts
}

// Outcome classifies how the pipeline handled one settled arrival.
type Outcome int

const (
	// OutcomePlaced means the file was moved into the destination tree.
	OutcomePlaced Outcome = iota
	// OutcomeRejected means classification or placement failed; the file
	// stays in the staging directory.
	OutcomeRejected
	// OutcomeDiscarded means the file vanished before processing.
	OutcomeDiscarded
)

// Handler processes one settled arrival and reports the outcome.
// It must never panic; a failing file must not stop the watch loop.
type Handler func(path string) Outcome

// Summary contains counters from a watch session.
type Summary struct {
	Placed    int
	Rejected  int
	Discarded int
	Skipped   int
	Duration  time.Duration
}

// Watcher subscribes to creation events on a single staging directory and
// feeds settled arrivals to the handler one at a time. Serial dispatch means
// two arrivals can never race each other's exists-check-then-move sequence.
type Watcher struct {
	config    Config
	handler   Handler
	logger    *slog.Logger
	fsWatcher *fsnotify.Watcher
	filter    *FileFilter
	settler   *Settler
	stability *StabilityChecker
	dispatch  chan string
	done      chan struct{}
	wg        sync.WaitGroup
	startTime time.Time

	mu        sync.Mutex
	placed    int
	rejected  int
	discarded int
	skipped   int
}

// New creates a Watcher. The handler is invoked for each settled arrival.
func New(config Config, handler Handler, logger *slog.Logger) *Watcher {
	w := &Watcher{
		config:   config,
		handler:  handler,
		logger:   logger.With("component", "watcher"),
		filter:   NewFileFilter(config.IgnorePatterns),
		dispatch: make(chan string, 64),
		done:     make(chan struct{}),
	}
	w.settler = NewSettler(config.SettleDelay, w.enqueue)
	if config.StableThreshold > 0 {
		w.stability = NewStabilityChecker(config.StableThreshold)
	}
	return w
}

// Start begins watching the staging directory, non-recursively.
// The watcher runs until Stop is called.
func (w *Watcher) Start(dir string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.fsWatcher.Add(absDir); err != nil {
		w.fsWatcher.Close()
		return err
	}

	w.startTime = time.Now()

	w.wg.Add(2)
	go w.watchEvents()
	go w.dispatchLoop()

	return nil
}

// Stop shuts the watcher down and returns the session summary.
// An arrival already in the handler finishes before Stop returns; arrivals
// still settling are dropped.
func (w *Watcher) Stop() *Summary {
	close(w.done)
	w.settler.CancelAll()
	w.wg.Wait()

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return &Summary{
		Placed:    w.placed,
		Rejected:  w.rejected,
		Discarded: w.discarded,
		Skipped:   w.skipped,
		Duration:  time.Since(w.startTime),
	}
}

// Enqueue feeds a path directly into the settle stage, bypassing fsnotify.
// The daemon uses this to sweep files already present at startup.
func (w *Watcher) Enqueue(path string) {
	w.settler.Add(path)
}

// watchEvents consumes fsnotify notifications until shutdown.
func (w *Watcher) watchEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				w.handleCreate(event.Name)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// handleCreate screens a creation event and schedules it for settling.
func (w *Watcher) handleCreate(path string) {
	// Directory creation carries no payload.
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return
	}

	if w.filter.ShouldIgnore(path) {
		w.logger.Debug("ignoring temp artifact", "file", filepath.Base(path))
		w.mu.Lock()
		w.skipped++
		w.mu.Unlock()
		return
	}

	w.settler.Add(path)
}

// enqueue hands a settled path to the dispatch loop.
func (w *Watcher) enqueue(path string) {
	select {
	case w.dispatch <- path:
	case <-w.done:
	}
}

// dispatchLoop runs the pipeline for settled arrivals, one at a time.
func (w *Watcher) dispatchLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case path := <-w.dispatch:
			w.process(path)
		}
	}
}

// process re-verifies an arrival and invokes the handler.
func (w *Watcher) process(path string) {
	// The producer may have been writing a transient artifact; a file gone
	// by now is a benign race, not an error.
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			w.logger.Debug("arrival vanished while settling", "file", filepath.Base(path))
			w.count(OutcomeDiscarded)
			return
		}
	}

	if w.stability != nil {
		if err := w.stability.WaitForStable(context.Background(), path); err != nil {
			if errors.Is(err, ErrFileVanished) {
				w.logger.Debug("arrival vanished while settling", "file", filepath.Base(path))
				w.count(OutcomeDiscarded)
				return
			}
			w.logger.Warn("arrival never stabilized", "file", filepath.Base(path), "error", err)
			w.count(OutcomeRejected)
			return
		}
	}

	w.count(w.handler(path))
}

func (w *Watcher) count(outcome Outcome) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch outcome {
	case OutcomePlaced:
		w.placed++
	case OutcomeRejected:
		w.rejected++
	case OutcomeDiscarded:
		w.discarded++
	}
}
