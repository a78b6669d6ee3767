package inbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/pnld-ingest/internal/logger"
)

// Archive directories inside the inbox.
const (
	ProcessedDir = "processed"
	FailedDir    = "failed"
)

// DefaultSettle is how long a file must be quiet before it is reported.
const DefaultSettle = 500 * time.Millisecond

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("inbox: watcher closed")

// Watcher reports batch files written into a directory.
type Watcher struct {
	dir      string
	settle   time.Duration
	existing bool

	mu     sync.Mutex
	closed bool
	fsw    *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle sets the quiet period before a file is reported.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) { w.settle = d }
}

// WithExisting also reports batch files already in the directory.
func WithExisting() Option {
	return func(w *Watcher) { w.existing = true }
}

// New creates a watcher for dir.
func New(dir string, opts ...Option) *Watcher {
	w := &Watcher{dir: dir, settle: DefaultSettle}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Watch starts watching. The channel yields file paths and is closed when
// ctx is cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrClosed
	}
	info, err := os.Stat(w.dir)
	if err != nil {
		return nil, fmt.Errorf("inbox: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox: %s is not a directory", w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("inbox: create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("inbox: watch %s: %w", w.dir, err)
	}
	w.fsw = fsw

	var initial []string
	if w.existing {
		initial = w.scan()
	}

	out := make(chan string)
	go w.loop(ctx, fsw, initial, out)
	return out, nil
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, initial []string, out chan<- string) {
	defer close(out)

	ticker := time.NewTicker(w.tick())
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	now := time.Now()
	for _, p := range initial {
		pending[p] = now.Add(-w.settle)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if path, ok := w.handleEvent(ev); ok {
				pending[path] = time.Now()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("inbox watcher error: %v", err)

		case t := <-ticker.C:
			for path, last := range pending {
				if t.Sub(last) < w.settle {
					continue
				}
				delete(pending, path)
				select {
				case out <- path:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func (w *Watcher) tick() time.Duration {
	if t := w.settle / 2; t > 0 {
		return t
	}
	return time.Millisecond
}

// handleEvent returns the path of a batch file that was created or written.
func (w *Watcher) handleEvent(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return "", false
	}
	if !isBatchFile(ev.Name) {
		return "", false
	}
	info, err := os.Stat(ev.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return ev.Name, true
}

func (w *Watcher) scan() []string {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logger.Warn("inbox scan failed: %v", err)
		return nil
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && isBatchFile(e.Name()) {
			paths = append(paths, filepath.Join(w.dir, e.Name()))
		}
	}
	return paths
}

// isBatchFile accepts visible .json files.
func isBatchFile(path string) bool {
	base := filepath.Base(path)
	return !strings.HasPrefix(base, ".") && strings.EqualFold(filepath.Ext(base), ".json")
}

// Archive moves a handled batch file into the processed or failed
// subdirectory of its inbox and returns the new path.
func Archive(path string, ok bool) (string, error) {
	sub := FailedDir
	if ok {
		sub = ProcessedDir
	}
	dir := filepath.Join(filepath.Dir(path), sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("inbox: create %s: %w", sub, err)
	}
	dest := filepath.Join(dir, filepath.Base(path))
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(dest)
		dest = strings.TrimSuffix(dest, ext) + "-" + time.Now().UTC().Format("20060102T150405") + ext
	}
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("inbox: archive %s: %w", path, err)
	}
	return dest, nil
}
