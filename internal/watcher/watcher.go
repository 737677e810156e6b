// Package watcher monitors the input directory and runs new documents
// through the full pipeline (ingest, segment, embed) as they appear.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docquery-cli/internal/logger"
)

// defaultSettle is how long the watcher waits after a create event
// before processing, so the writer has finished the file.
const defaultSettle = 500 * time.Millisecond

// Watcher monitors a directory and feeds new files into the pipeline.
type Watcher struct {
	ingest   driving.IngestService
	segment  driving.SegmentService
	embed    driving.EmbedService
	dir      string
	strategy domain.Strategy
	settle   time.Duration
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettleDelay overrides the wait between a create event and
// processing the file.
func WithSettleDelay(d time.Duration) Option {
	return func(w *Watcher) {
		w.settle = d
	}
}

// New creates a watcher over dir. Every new file is ingested, segmented
// with the given strategy and embedded.
func New(
	ingest driving.IngestService,
	segment driving.SegmentService,
	embed driving.EmbedService,
	dir string,
	strategy domain.Strategy,
	opts ...Option,
) *Watcher {
	w := &Watcher{
		ingest:   ingest,
		segment:  segment,
		embed:    embed,
		dir:      dir,
		strategy: strategy,
		settle:   defaultSettle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes the files already present in the directory, then
// blocks handling create events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	logger.Section("Watch Mode")

	if err := w.processExisting(ctx); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Info("Watching %s", w.dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(w.settle):
			}
			w.processFile(ctx, event.Name)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// processExisting runs the pipeline over files already in the directory.
func (w *Watcher) processExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", w.dir, err)
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() {
			continue
		}
		w.processFile(ctx, filepath.Join(w.dir, entry.Name()))
	}
	return nil
}

// processFile runs one file through ingest, segment and embed.
// Failures are logged so one bad file never stops the watch loop.
func (w *Watcher) processFile(ctx context.Context, path string) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return
	}

	doc, err := w.ingest.Ingest(ctx, path, false)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateDocument) {
			logger.Debug("Skipping %s: already ingested", name)
		} else {
			logger.Warn("Ingesting %s failed: %v", name, err)
		}
		return
	}

	if _, err := w.segment.SegmentDocument(ctx, doc.ID, w.strategy); err != nil {
		logger.Warn("Segmenting %s failed: %v", name, err)
		return
	}

	if _, err := w.embed.EmbedPending(ctx); err != nil {
		logger.Warn("Embedding after %s failed: %v", name, err)
	}
}
