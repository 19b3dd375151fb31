package catalog

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dmarsters/slapstick-enhancer/errors"
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before reloading.
const DefaultDebounce = 500 * time.Millisecond

// ReloadCallback is called after a reload attempt with the new snapshot, or
// with the error that kept the previous one in place.
type ReloadCallback func(*Snapshot, error)

// Watcher reloads a Store when catalog files under its paths change.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	log      *zap.SugaredLogger
	debounce time.Duration

	mu        sync.Mutex
	callbacks []ReloadCallback
	timer     *time.Timer
	stopped   bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher watches the directories of the store's current paths. Files
// are watched through their parent directory so editors that replace files
// on save are still seen.
func NewWatcher(store *Store, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	dirs := make(map[string]bool)
	for _, p := range store.Paths() {
		dir := p
		if IsCatalogFile(p) {
			dir = filepath.Dir(p)
		}
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch catalog path %s", dir)
		}
	}

	return &Watcher{
		store:    store,
		watcher:  fw,
		log:      store.log,
		debounce: debounce,
		done:     make(chan struct{}),
	}, nil
}

// OnReload registers a callback.
func (w *Watcher) OnReload(cb ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Start begins watching.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.watchLoop()
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !IsCatalogFile(event.Name) || isEditorTemp(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.log.Infow("Catalog watcher detected change",
				"file", event.Name,
				"op", event.Op.String())
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnw("Catalog watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	callbacks := make([]ReloadCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	err := w.store.Reload()
	if err != nil {
		w.log.Errorw("Catalog reload failed, keeping previous snapshot", "error", err)
	}
	snap := w.store.Snapshot()
	for _, cb := range callbacks {
		cb(snap, err)
	}
}

// Stop ends the watch loop and cancels any pending reload. It is safe to
// call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

// isEditorTemp skips swap and backup files written next to catalog files.
func isEditorTemp(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || strings.HasPrefix(base, "#")
}
