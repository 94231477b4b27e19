// SPDX-License-Identifier: MIT

package registry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/suksuki/bazi-sub001/pattern"
	"github.com/suksuki/bazi-sub001/tensor"
)

// DefaultDebounce coalesces bursts of file events (editors write in several steps).
const DefaultDebounce = 200 * time.Millisecond

// FileStore serves patterns from a YAML file (pattern.File layout).
// Writes rewrite the whole file through a temp file and rename.
type FileStore struct {
	path     string
	debounce time.Duration

	mu       sync.RWMutex
	patterns map[string]pattern.Pattern
	loaded   bool
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithDebounce sets the reload debounce interval. Panics if d <= 0.
func WithDebounce(d time.Duration) FileOption {
	if d <= 0 {
		panic("registry: WithDebounce requires d > 0")
	}

	return func(s *FileStore) { s.debounce = d }
}

// NewFileStore returns a store backed by path. A missing file is an empty registry.
func NewFileStore(path string, opts ...FileOption) *FileStore {
	s := &FileStore{path: path, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// Init loads the file.
func (s *FileStore) Init(context.Context) error {
	if s.path == "" {
		return ErrPathRequired
	}
	_, err := s.reload()

	return err
}

func (s *FileStore) PutPattern(_ context.Context, p pattern.Pattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotInitialized
	}
	next := s.snapshotLocked()
	next[p.ID] = p.Clone()

	return s.commitLocked(next)
}

func (s *FileStore) GetPattern(_ context.Context, id string) (pattern.Pattern, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return pattern.Pattern{}, false, ErrNotInitialized
	}
	p, ok := s.patterns[id]
	if !ok {
		return pattern.Pattern{}, false, nil
	}

	return p.Clone(), true, nil
}

func (s *FileStore) ListPatterns(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrNotInitialized
	}

	return sortedKeys(s.patterns), nil
}

func (s *FileStore) SaveFit(_ context.Context, id string, tm tensor.TransferMatrix, m pattern.Manifold) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotInitialized
	}
	cur, found := s.patterns[id]
	p, err := applyFit(cur, found, id, tm, m, time.Now())
	if err != nil {
		return err
	}
	next := s.snapshotLocked()
	next[id] = p

	return s.commitLocked(next)
}

// snapshotLocked copies the map (values are replaced, never mutated, so a shallow copy suffices).
func (s *FileStore) snapshotLocked() map[string]pattern.Pattern {
	next := make(map[string]pattern.Pattern, len(s.patterns)+1)
	for id, p := range s.patterns {
		next[id] = p
	}

	return next
}

// commitLocked writes next to disk and swaps it in only when the write succeeded.
func (s *FileStore) commitLocked(next map[string]pattern.Pattern) error {
	list := make([]pattern.Pattern, 0, len(next))
	for _, id := range sortedKeys(next) {
		list = append(list, next[id])
	}
	var buf bytes.Buffer
	if err := pattern.EncodeYAML(&buf, list); err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.patterns = next

	return nil
}

// reload re-reads the file. On a decode error the previous snapshot is kept.
func (s *FileStore) reload() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	list, err := pattern.DecodeYAML(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	next := make(map[string]pattern.Pattern, len(list))
	for _, p := range list {
		next[p.ID] = p
	}

	s.mu.Lock()
	s.patterns = next
	s.loaded = true
	s.mu.Unlock()

	return sortedKeys(next), nil
}

// Watch reloads the file whenever it changes, until ctx is done.
// The directory is watched, not the file, so rename-based saves are seen.
// onReload (optional) receives the new ids, or the error that left the
// previous snapshot in place. Watch returns once the watcher is registered.
func (s *FileStore) Watch(ctx context.Context, logger *slog.Logger, onReload func(ids []string, err error)) error {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(s.path)
	if err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return err
	}

	go s.watchLoop(ctx, w, abs, logger, onReload)

	return nil
}

func (s *FileStore) watchLoop(ctx context.Context, w *fsnotify.Watcher, abs string, logger *slog.Logger, onReload func([]string, error)) {
	defer w.Close()

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	fire := func() {
		ids, err := s.reload()
		if err != nil {
			logger.Warn("pattern reload failed; keeping previous snapshot", "path", abs, "error", err)
		} else {
			logger.Info("patterns reloaded", "path", abs, "count", len(ids))
		}
		if onReload != nil {
			onReload(ids, err)
		}
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != abs || ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			timerMu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(s.debounce, fire)
			timerMu.Unlock()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("pattern watcher error", "path", abs, "error", err)
		}
	}
}

// writeFileAtomic writes data to a temp file in the same directory and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".patterns-*.yaml")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}

	return os.Rename(name, path)
}
