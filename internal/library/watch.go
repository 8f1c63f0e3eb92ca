package library

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"scrub/internal/logging"
)

// Watcher monitors the source root and coalesces bursts of file activity
// into re-scan requests. A file being copied in produces a stream of write
// events; the settle delay waits for the stream to go quiet before the
// library is scanned again.
type Watcher struct {
	scanner *Scanner
	settle  time.Duration
	logger  *slog.Logger
	fsw     *fsnotify.Watcher
}

// NewWatcher builds a watcher over the scanner's source root. Close it when
// done.
func NewWatcher(scanner *Scanner, settle time.Duration, logger *slog.Logger) (*Watcher, error) {
	if settle <= 0 {
		settle = 2 * time.Second
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		scanner: scanner,
		settle:  settle,
		logger:  logging.NewComponentLogger(logger, "library"),
		fsw:     fsw,
	}
	if err := w.addRecursive(scanner.sourceRoot); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks until ctx is canceled, invoking rescan after each settled
// burst of relevant events. Errors from rescan stop the watch; filesystem
// watch errors are logged and the watch continues.
func (w *Watcher) Run(ctx context.Context, rescan func(context.Context) error) error {
	timer := time.NewTimer(w.settle)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false
	w.logger.Info("watching library",
		logging.String("path", w.scanner.sourceRoot),
		logging.Duration("settle", w.settle))

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch events channel closed")
			}
			name := filepath.Base(event.Name)
			if strings.HasPrefix(name, ".") || junkDir(name) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if event.Name != w.scanner.outputRoot {
						if err := w.addRecursive(event.Name); err != nil {
							w.logger.Warn("cannot watch new directory",
								logging.String("path", event.Name), logging.Error(err))
						}
					}
					continue
				}
			}
			if !w.videoEvent(event) {
				continue
			}
			w.logger.Debug("library activity",
				logging.String("path", event.Name),
				logging.String("op", event.Op.String()))
			pending = true
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.settle)
		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := rescan(ctx); err != nil {
				return err
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch errors channel closed")
			}
			w.logger.Warn("watch error", logging.Error(err))
		}
	}
}

func (w *Watcher) videoEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	_, ok := w.scanner.extensions[strings.ToLower(filepath.Ext(event.Name))]
	return ok
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (junkDir(name) || strings.HasPrefix(name, ".") || path == w.scanner.outputRoot) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
