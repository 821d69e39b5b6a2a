package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/tube-digest/internal/logger"
)

type implWatcher struct {
	inputDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	wg            sync.WaitGroup
	// settle is how long a new file is left alone before it is read.
	settle time.Duration

	mu       sync.Mutex
	inFlight map[string]bool
}

// Start picks up job files already in the inbox, then monitors it for new
// ones until ctx is done.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Inbox watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inputDir)
	w.logger.Info(ctx, "Job files: %s (one YouTube URL per file)", strings.Join(JobExtensions, ", "))

	if err := w.scanExisting(ctx); err != nil {
		w.logger.Warn(ctx, "Failed to scan inbox: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			w.drain(ctx)
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !IsJobFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-job file: %s", event.Name)
				continue
			}
			if err := w.dispatch(ctx, event.Name); err != nil {
				w.drain(ctx)
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// drain blocks until every dispatched job has returned.
func (w *implWatcher) drain(ctx context.Context) {
	w.logger.Info(ctx, "Waiting for ongoing jobs to complete...")
	w.wg.Wait()
	w.logger.Info(ctx, "Inbox watcher stopped")
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) scanExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && IsJobFile(e.Name()) {
			names = append(names, filepath.Join(w.inputDir, e.Name()))
		}
	}
	sort.Strings(names)
	for _, name := range names {
		w.logger.Info(ctx, "Found pending job: %s", name)
		if err := w.dispatch(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// dispatch runs the handler for path on a semaphore slot. A file already
// being handled is skipped, so Create and Write events for the same job
// start it only once.
func (w *implWatcher) dispatch(ctx context.Context, path string) error {
	w.mu.Lock()
	if w.inFlight[path] {
		w.mu.Unlock()
		return nil
	}
	w.inFlight[path] = true
	w.mu.Unlock()

	w.logger.Info(ctx, "New job detected: %s", path)

	// Acquire semaphore slot (blocks if max concurrent reached)
	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		w.mu.Lock()
		delete(w.inFlight, path)
		w.mu.Unlock()
		return ctx.Err()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.semaphore }()
		defer func() {
			w.mu.Lock()
			delete(w.inFlight, path)
			w.mu.Unlock()
		}()

		// Small delay to ensure file is fully written
		select {
		case <-time.After(w.settle):
		case <-ctx.Done():
			return
		}

		if _, err := os.Stat(path); err != nil {
			w.logger.Debug(ctx, "Job file vanished before processing: %s", path)
			return
		}
		if err := w.handler(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", path, err)
		}
	}()
	return nil
}

// IsJobFile checks if the file has a job file extension
func IsJobFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range JobExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
