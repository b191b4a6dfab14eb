// Package watcher ingests documents automatically as files change on
// disk. It watches a directory tree and feeds created or modified
// supported files into the ingestion service, and removes documents
// whose backing files disappear.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docsage/docsage/internal/core/ports/driven"
	"github.com/docsage/docsage/internal/core/ports/driving"
	"github.com/docsage/docsage/internal/extractors"
	"github.com/docsage/docsage/internal/logger"
)

// defaultSettle is how long a path must stay quiet before it is
// ingested. Editors and copies emit bursts of write events.
const defaultSettle = 250 * time.Millisecond

// Watcher watches a directory tree and keeps the document store in
// sync with supported files on disk.
type Watcher struct {
	root       string
	ingester   driving.IngestionService
	registry   driven.ExtractorRegistry
	settle     time.Duration
	mu         sync.Mutex
	pending    map[string]*time.Timer
	timersDone sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle overrides the quiet period before a changed file is
// ingested. Used in tests.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) { w.settle = d }
}

// New creates a watcher for the directory tree rooted at root.
func New(root string, ingester driving.IngestionService, registry driven.ExtractorRegistry, opts ...Option) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	w := &Watcher{
		root:     abs,
		ingester: ingester,
		registry: registry,
		settle:   defaultSettle,
		pending:  make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run watches for changes until the context is cancelled. Existing
// supported files are ingested on startup so the index reflects the
// directory from the first moment.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addTree(fw, w.root); err != nil {
		return err
	}
	w.ingestExisting(ctx)

	logger.Info("Watching %s", w.root)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			w.timersDone.Wait()
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, fw, event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher: %v", err)
		}
	}
}

// addTree registers root and every subdirectory with the fs watcher.
func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if isHidden(d.Name()) && path != root {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// ingestExisting feeds all supported files already present under root
// into the ingestion service. Unchanged content is a no-op there.
func (w *Watcher) ingestExisting(ctx context.Context) {
	_ = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if isHidden(d.Name()) && path != w.root {
				return filepath.SkipDir
			}
			return nil
		}
		if w.supported(path) {
			w.ingestFile(ctx, path)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(ctx context.Context, fw *fsnotify.Watcher, event fsnotify.Event) {
	path := event.Name

	switch {
	case event.Op.Has(fsnotify.Create):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !isHidden(filepath.Base(path)) {
				_ = w.addTree(fw, path)
			}
			return
		}
		w.scheduleIngest(ctx, path)

	case event.Op.Has(fsnotify.Write):
		w.scheduleIngest(ctx, path)

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		w.cancelPath(path)
		w.removeDocument(ctx, path)
	}
}

// scheduleIngest (re)arms the debounce timer for a path. The file is
// ingested only after it has stayed quiet for the settle period.
func (w *Watcher) scheduleIngest(ctx context.Context, path string) {
	if !w.supported(path) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.settle)
		return
	}

	w.timersDone.Add(1)
	w.pending[path] = time.AfterFunc(w.settle, func() {
		defer w.timersDone.Done()
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.ingestFile(ctx, path)
	})
}

func (w *Watcher) cancelPath(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		if timer.Stop() {
			w.timersDone.Done()
		}
		delete(w.pending, path)
	}
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		if timer.Stop() {
			w.timersDone.Done()
		}
		delete(w.pending, path)
	}
}

// ingestFile reads a file and hands it to the ingestion service.
func (w *Watcher) ingestFile(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Watcher: read %s: %v", path, err)
		return
	}

	uri := SourceURI(path)
	if _, err := w.ingester.Ingest(ctx, uri, content, extractors.FileTypeOf(path)); err != nil {
		logger.Warn("Watcher: ingest %s: %v", path, err)
		return
	}
	logger.Info("Watcher: ingested %s", path)
}

// removeDocument deletes the document backed by a removed file, when
// one exists.
func (w *Watcher) removeDocument(ctx context.Context, path string) {
	docs, err := w.ingester.List(ctx)
	if err != nil {
		logger.Warn("Watcher: list documents: %v", err)
		return
	}

	uri := SourceURI(path)
	for _, doc := range docs {
		if doc.SourceURI != uri {
			continue
		}
		if err := w.ingester.Delete(ctx, doc.ID); err != nil {
			logger.Warn("Watcher: delete %s: %v", doc.ID, err)
			return
		}
		logger.Info("Watcher: removed %s", path)
		return
	}
}

func (w *Watcher) supported(path string) bool {
	if isHidden(filepath.Base(path)) {
		return false
	}
	return w.registry.Supports(extractors.FileTypeOf(path))
}

// SourceURI converts a local path into the document source URI.
func SourceURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + abs
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
