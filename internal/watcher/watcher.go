// Package watcher ingests resumes dropped into an inbox directory.
//
// The watcher picks up plain-text resume files, registers them through the
// ingest service and processes them immediately. Files already present at
// startup are ingested on the first scan; fsnotify events cover everything
// that arrives afterwards. Ingestion is throttled with a token bucket so a
// bulk drop of files does not monopolize the process.
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/resumatch-cli/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/resumatch-cli/internal/logger"
)

// Default throttle: two ingestions per second, small burst for catch-up.
const (
	defaultRate  = rate.Limit(2)
	defaultBurst = 4
)

// defaultSettle is how long a file must stay unchanged before it is read.
// Create events fire as soon as the file exists, often before the writer
// has flushed all of it.
const defaultSettle = 200 * time.Millisecond

// Watcher ingests resume text files from an inbox directory.
type Watcher struct {
	inbox     string
	ingest    driving.IngestService
	extractor *filesystem.Extractor
	limiter   *rate.Limiter
	settle    time.Duration
}

// Option configures the watcher.
type Option func(*Watcher)

// WithThrottle overrides the ingestion rate limit.
func WithThrottle(r rate.Limit, burst int) Option {
	return func(w *Watcher) {
		w.limiter = rate.NewLimiter(r, burst)
	}
}

// WithSettleDelay overrides how long a file must stay unchanged before
// it is ingested.
func WithSettleDelay(d time.Duration) Option {
	return func(w *Watcher) {
		w.settle = d
	}
}

// New creates an inbox watcher.
func New(inbox string, ingest driving.IngestService, extractor *filesystem.Extractor, opts ...Option) *Watcher {
	w := &Watcher{
		inbox:     inbox,
		ingest:    ingest,
		extractor: extractor,
		limiter:   rate.NewLimiter(defaultRate, defaultBurst),
		settle:    defaultSettle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches the inbox until the context is cancelled. Files present
// before the watch starts are ingested first.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.inbox); err != nil {
		return fmt.Errorf("watching %s: %w", w.inbox, err)
	}
	logger.Info("Watching inbox %s", w.inbox)

	if err := w.ScanOnce(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !isCandidate(event.Name) {
				continue
			}
			if err := w.ingestFile(ctx, event.Name); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warn("Ingesting %s failed: %v", event.Name, err)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// ScanOnce ingests every candidate file currently in the inbox.
func (w *Watcher) ScanOnce(ctx context.Context) error {
	entries, err := os.ReadDir(w.inbox)
	if err != nil {
		return fmt.Errorf("reading inbox: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.inbox, entry.Name())
		if !isCandidate(path) {
			continue
		}
		if err := w.ingestFile(ctx, path); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("Ingesting %s failed: %v", path, err)
		}
	}
	return nil
}

// ingestFile registers, stores and processes a single inbox file. The
// idempotency key covers filename and content, so re-delivered events for
// unchanged files replay instead of creating duplicates.
func (w *Watcher) ingestFile(ctx context.Context, path string) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := w.waitSettled(ctx, path); err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	if len(content) == 0 {
		// Create events can fire before the writer finishes; the
		// follow-up write event retries.
		return nil
	}

	filename := filepath.Base(path)
	sum := sha256.Sum256(content)
	key := "inbox:" + filename + ":" + hex.EncodeToString(sum[:8])

	resume, err := w.ingest.Register(ctx, driving.RegisterRequest{
		IdempotencyKey: key,
		Filename:       filename,
		Content:        content,
	})
	if err != nil {
		return fmt.Errorf("registering: %w", err)
	}

	if err := w.extractor.SaveText(resume.ID, content); err != nil {
		return err
	}
	if err := w.ingest.Process(ctx, resume.ID); err != nil {
		return fmt.Errorf("processing: %w", err)
	}

	logger.Info("Ingested %s as %s", filename, resume.ID)
	return nil
}

// waitSettled blocks until the file's size and mtime stop changing, so a
// Create event observed mid-write does not ingest a partial file.
func (w *Watcher) waitSettled(ctx context.Context, path string) error {
	prev, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("checking file: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.settle):
		}
		cur, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("checking file: %w", err)
		}
		if cur.Size() == prev.Size() && cur.ModTime().Equal(prev.ModTime()) {
			return nil
		}
		prev = cur
	}
}

// isCandidate reports whether a path looks like an extractable resume
// file. Hidden files and partial downloads are skipped.
func isCandidate(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".txt")
}
