// Package daemon supervises the dropsort watch session: it wires the arrival
// pipeline to the watcher, enforces single-instance execution, and owns the
// startup and shutdown sequence.
package daemon

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"dropsort/internal/classify"
	"dropsort/internal/config"
	"dropsort/internal/layout"
	"dropsort/internal/platform"
	"dropsort/internal/resolve"
	"dropsort/internal/stats"
	"dropsort/internal/watcher"
)

// ErrAlreadyRunning is returned when another dropsort instance holds the
// staging-directory lock.
var ErrAlreadyRunning = errors.New("another dropsort instance is already watching this staging directory")

// Daemon coordinates the watch session for one staging directory.
type Daemon struct {
	cfg      *config.Configuration
	logger   *slog.Logger
	registry *platform.Registry
	watcher  *watcher.Watcher

	runID    string
	lockPath string
	lock     *flock.Flock

	running bool
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Configuration, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)

	registry := platform.NewRegistry(cfg.Platforms)
	classifier := classify.New(registry, cfg.ImageExtension, cfg.LabelExtension)
	resolver := resolve.New(cfg.DatasetDir)
	pipeline := NewPipeline(classifier, resolver, logger)

	w := watcher.New(watcher.Config{
		SettleDelay:     time.Duration(cfg.Watch.SettleDelayMs) * time.Millisecond,
		StableThreshold: time.Duration(cfg.Watch.StableThresholdMs) * time.Millisecond,
		IgnorePatterns:  cfg.Watch.IgnorePatterns,
	}, pipeline.Handle, logger)

	// The lock lives in the dataset root, not the staging directory, so the
	// watcher never sees it as an arrival.
	lockPath := filepath.Join(cfg.DatasetDir, ".dropsort.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		watcher:  w,
		runID:    runID,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// RunID returns the identifier stamped on this session's log lines.
func (d *Daemon) RunID() string {
	return d.runID
}

// Start acquires the instance lock, prepares the destination tree, sweeps
// the staging backlog, and begins watching.
func (d *Daemon) Start() error {
	if d.running {
		return errors.New("daemon already running")
	}

	if err := layout.EnsureTree(d.cfg.DatasetDir, d.cfg.StagingDir, d.registry); err != nil {
		return fmt.Errorf("prepare destination tree: %w", err)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	if err := d.watcher.Start(d.cfg.StagingDir); err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("start watcher: %w", err)
	}
	d.running = true

	// Files that arrived before this session get the same treatment as new
	// arrivals; the sweep goes through the settle stage like everything else.
	backlog, err := watcher.Backlog(d.cfg.StagingDir, watcher.NewFileFilter(d.cfg.Watch.IgnorePatterns))
	if err != nil {
		d.logger.Warn("staging backlog sweep failed", "error", err)
	} else {
		for _, path := range backlog {
			d.watcher.Enqueue(path)
		}
		if len(backlog) > 0 {
			d.logger.Info("queued staging backlog", "files", len(backlog))
		}
	}

	d.logger.Info("watching staging directory",
		"staging", d.cfg.StagingDir,
		"dataset", d.cfg.DatasetDir,
		"platforms", d.registry.Len(),
	)
	return nil
}

// Stop drains the watcher, releases the lock, and returns session counters.
// An in-flight placement always finishes before Stop returns.
func (d *Daemon) Stop() *watcher.Summary {
	if !d.running {
		return &watcher.Summary{}
	}
	d.running = false

	summary := d.watcher.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release instance lock", "path", d.lockPath, "error", err)
	}

	d.logger.Info("watch session finished",
		"placed", summary.Placed,
		"rejected", summary.Rejected,
		"discarded", summary.Discarded,
		"skipped", summary.Skipped,
		"duration", summary.Duration.Round(time.Millisecond),
	)
	return summary
}

// Stats counts dataset files currently in the destination tree.
func (d *Daemon) Stats() *stats.Snapshot {
	return stats.Collect(d.cfg.DatasetDir, d.registry, d.cfg.ImageExtension, d.cfg.LabelExtension)
}
