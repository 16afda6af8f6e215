package watcher

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastConfig() Config {
	return Config{
		SettleDelay:     10 * time.Millisecond,
		StableThreshold: 0,
		IgnorePatterns:  []string{"*.tmp", "*.part"},
	}
}

func startWatcher(t *testing.T, dir string, config Config, handler Handler) *Watcher {
	t.Helper()
	w := New(config, handler, testLogger())
	if err := w.Start(dir); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	return w
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_NewFileReachesHandler(t *testing.T) {
	tmpDir := t.TempDir()

	var handled atomic.Int32
	var mu sync.Mutex
	var handledPath string

	w := startWatcher(t, tmpDir, fastConfig(), func(path string) Outcome {
		mu.Lock()
		handledPath = path
		mu.Unlock()
		handled.Add(1)
		return OutcomePlaced
	})

	testFile := filepath.Join(tmpDir, "twitter_123_1.jpg")
	if err := os.WriteFile(testFile, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 2*time.Second, func() bool { return handled.Load() == 1 }) {
		t.Fatalf("handler called %d times, want 1", handled.Load())
	}

	mu.Lock()
	if handledPath != testFile {
		t.Errorf("handled path = %q, want %q", handledPath, testFile)
	}
	mu.Unlock()

	summary := w.Stop()
	if summary.Placed != 1 {
		t.Errorf("Placed = %d, want 1", summary.Placed)
	}
}

func TestWatcher_TempArtifactsSkipped(t *testing.T) {
	tmpDir := t.TempDir()

	var handled atomic.Int32
	w := startWatcher(t, tmpDir, fastConfig(), func(path string) Outcome {
		handled.Add(1)
		return OutcomePlaced
	})

	if err := os.WriteFile(filepath.Join(tmpDir, "download.tmp"), []byte("partial"), 0644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(200 * time.Millisecond)
	if handled.Load() != 0 {
		t.Errorf("handler called %d times for a temp artifact", handled.Load())
	}

	summary := w.Stop()
	if summary.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", summary.Skipped)
	}
}

func TestWatcher_DirectoryCreationIgnored(t *testing.T) {
	tmpDir := t.TempDir()

	var handled atomic.Int32
	w := startWatcher(t, tmpDir, fastConfig(), func(path string) Outcome {
		handled.Add(1)
		return OutcomePlaced
	})
	defer w.Stop()

	if err := os.Mkdir(filepath.Join(tmpDir, "subdir"), 0755); err != nil {
		t.Fatal(err)
	}

	time.Sleep(200 * time.Millisecond)
	if handled.Load() != 0 {
		t.Errorf("handler called %d times for a directory", handled.Load())
	}
}

// A file that disappears during the settle delay is discarded silently and
// the loop keeps accepting events.
func TestWatcher_VanishedFileDiscardedLoopContinues(t *testing.T) {
	tmpDir := t.TempDir()

	config := fastConfig()
	config.SettleDelay = 100 * time.Millisecond

	var handled atomic.Int32
	w := startWatcher(t, tmpDir, config, func(path string) Outcome {
		handled.Add(1)
		return OutcomePlaced
	})

	ghost := filepath.Join(tmpDir, "twitter_1_1.jpg")
	if err := os.WriteFile(ghost, []byte("transient"), 0644); err != nil {
		t.Fatal(err)
	}
	// Remove it before the settle delay expires.
	if err := os.Remove(ghost); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 2*time.Second, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.discarded == 1
	}) {
		t.Fatal("vanished file was not discarded")
	}
	if handled.Load() != 0 {
		t.Errorf("handler called %d times for a vanished file", handled.Load())
	}

	// The loop still processes the next arrival.
	survivor := filepath.Join(tmpDir, "twitter_2_2.jpg")
	if err := os.WriteFile(survivor, []byte("real"), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 2*time.Second, func() bool { return handled.Load() == 1 }) {
		t.Fatalf("handler called %d times after the discard, want 1", handled.Load())
	}

	summary := w.Stop()
	if summary.Discarded != 1 || summary.Placed != 1 {
		t.Errorf("summary = %+v, want 1 discarded and 1 placed", summary)
	}
}

// A handler failure for one file never stops processing of subsequent files.
func TestWatcher_RejectionDoesNotStopLoop(t *testing.T) {
	tmpDir := t.TempDir()

	var calls atomic.Int32
	w := startWatcher(t, tmpDir, fastConfig(), func(path string) Outcome {
		if calls.Add(1) == 1 {
			return OutcomeRejected
		}
		return OutcomePlaced
	})

	if err := os.WriteFile(filepath.Join(tmpDir, "a_file_1.jpg"), []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 2*time.Second, func() bool { return calls.Load() == 1 }) {
		t.Fatal("first arrival never reached the handler")
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "b_file_2.jpg"), []byte("b"), 0644); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 2*time.Second, func() bool { return calls.Load() == 2 }) {
		t.Fatal("second arrival never reached the handler")
	}

	summary := w.Stop()
	if summary.Rejected != 1 || summary.Placed != 1 {
		t.Errorf("summary = %+v, want 1 rejected and 1 placed", summary)
	}
}

func TestWatcher_EnqueueBypassesNotifications(t *testing.T) {
	tmpDir := t.TempDir()

	backlogFile := filepath.Join(tmpDir, "reddit_1_1.txt")
	if err := os.WriteFile(backlogFile, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	var handled atomic.Int32
	w := startWatcher(t, t.TempDir(), fastConfig(), func(path string) Outcome {
		handled.Add(1)
		return OutcomePlaced
	})
	defer w.Stop()

	w.Enqueue(backlogFile)

	if !waitFor(t, 2*time.Second, func() bool { return handled.Load() == 1 }) {
		t.Errorf("enqueued backlog file never reached the handler")
	}
}

func TestWatcher_StopWaitsForInFlightHandler(t *testing.T) {
	tmpDir := t.TempDir()

	entered := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	w := startWatcher(t, tmpDir, fastConfig(), func(path string) Outcome {
		close(entered)
		<-release
		finished.Store(true)
		return OutcomePlaced
	})

	if err := os.WriteFile(filepath.Join(tmpDir, "twitter_1_1.jpg"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	<-entered

	stopped := make(chan *Summary)
	go func() { stopped <- w.Stop() }()

	// Stop must not return while the handler is still working.
	select {
	case <-stopped:
		t.Fatal("Stop returned while a placement was in flight")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	summary := <-stopped

	if !finished.Load() {
		t.Error("handler did not finish before Stop returned")
	}
	if summary.Placed != 1 {
		t.Errorf("Placed = %d, want 1", summary.Placed)
	}
}
