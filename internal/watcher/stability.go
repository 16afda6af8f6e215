package watcher

import (
	"context"
	"errors"
	"os"
	"time"
)

// ErrFileVanished is returned when the file disappears during the wait.
var ErrFileVanished = errors.New("file vanished while settling")

// ErrFileUnstable is returned when the file does not stabilize within the timeout.
var ErrFileUnstable = errors.New("file did not stabilize within timeout")

// StabilityChecker waits for a file's size to stop changing before the file
// is handed to the pipeline. This strengthens the settle delay for producers
// that write large files slowly.
type StabilityChecker struct {
	threshold time.Duration // size must remain unchanged for this long
	timeout   time.Duration // maximum total wait
	interval  time.Duration // polling interval
}

// NewStabilityChecker creates a StabilityChecker. The polling interval is a
// quarter of the threshold, floored at 50ms; the total wait is capped at 30s.
func NewStabilityChecker(threshold time.Duration) *StabilityChecker {
	interval := threshold / 4
	if interval < 50*time.Millisecond {
		interval = 50 * time.Millisecond
	}
	return &StabilityChecker{
		threshold: threshold,
		timeout:   30 * time.Second,
		interval:  interval,
	}
}

// WaitForStable blocks until the file size has been unchanged for the
// threshold duration, the context is cancelled, or the timeout elapses.
func (s *StabilityChecker) WaitForStable(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	lastSize, err := fileSize(path)
	if err != nil {
		return err
	}
	lastChange := time.Now()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrFileUnstable
			}
			return ctx.Err()
		case <-ticker.C:
			size, err := fileSize(path)
			if err != nil {
				return err
			}
			if size != lastSize {
				lastSize = size
				lastChange = time.Now()
			} else if time.Since(lastChange) >= s.threshold {
				return nil
			}
		}
	}
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrFileVanished
		}
		return 0, err
	}
	return info.Size(), nil
}
