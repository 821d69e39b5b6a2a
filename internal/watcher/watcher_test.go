package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyentantai21042004/tube-digest/internal/logger"
)

func TestIsJobFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"inbox/talk.url", true},
		{"inbox/TALK.TXT", true},
		{"inbox/video.mp4", false},
		{"inbox/.url.swp", false},
		{"inbox/noext", false},
	}

	for _, tt := range tests {
		if got := IsJobFile(tt.path); got != tt.want {
			t.Errorf("IsJobFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

type recorder struct {
	mu    sync.Mutex
	paths []string
	done  chan struct{}
	want  int
}

func (r *recorder) handle(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, filepath.Base(path))
	if len(r.paths) == r.want {
		close(r.done)
	}
	// Consume the job like the processor does.
	return os.Remove(path)
}

func TestWatcherDispatchesJobs(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pending.url"), []byte("https://youtu.be/dQw4w9WgXcQ"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{done: make(chan struct{}), want: 2}
	w, err := New(dir, rec.handle, logger.Nop(), 2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w.(*implWatcher).settle = 10 * time.Millisecond
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	// Give the watcher a moment to process the existing file before adding more.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "ignored.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "new.txt"), []byte("https://youtu.be/dQw4w9WgXcQ"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-rec.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for jobs")
	}
	cancel()
	<-errCh

	rec.mu.Lock()
	defer rec.mu.Unlock()
	sort.Strings(rec.paths)
	if len(rec.paths) != 2 || rec.paths[0] != "new.txt" || rec.paths[1] != "pending.url" {
		t.Errorf("handled %v, want [new.txt pending.url]", rec.paths)
	}
}

func TestWatcherWaitsForRunningJobsOnShutdown(t *testing.T) {
	dir := t.TempDir()

	started := make(chan struct{}, 2)
	var finished atomic.Bool
	handler := func(ctx context.Context, path string) error {
		started <- struct{}{}
		<-ctx.Done()
		time.Sleep(100 * time.Millisecond)
		finished.Store(true)
		return nil
	}

	w, err := New(dir, handler, logger.Nop(), 1)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w.(*implWatcher).settle = 10 * time.Millisecond
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "first.url"), []byte("https://youtu.be/dQw4w9WgXcQ"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the first job")
	}

	// The only slot is taken, so this job blocks in dispatch.
	if err := os.WriteFile(filepath.Join(dir, "second.url"), []byte("https://youtu.be/dQw4w9WgXcQ"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	if !finished.Load() {
		t.Error("Start returned before the running job finished")
	}
}
