package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const (
	debounceDelay   = 50 * time.Millisecond
	eventBufferSize = 16
)

// KeyEvent reports that the file backing a storage key changed on disk.
type KeyEvent struct {
	Key       string
	Timestamp time.Time
}

type watchSub struct {
	keys []string
	ch   chan KeyEvent
}

func (s watchSub) wants(key string) bool {
	return len(s.keys) == 0 || slices.Contains(s.keys, key)
}

// Watcher reports writes to a LocalStorage directory made by any process,
// including this one. Bursts of events for one key are coalesced.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher
	logger  zerolog.Logger

	mu          sync.Mutex
	subscribers []*watchSub
	debounce    map[string]*time.Timer
	closed      bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher starts watching dir. The directory is created if it does not
// exist.
func NewWatcher(dir string, logger zerolog.Logger) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		dir:      dir,
		watcher:  fsw,
		logger:   logger,
		debounce: make(map[string]*time.Timer),
		ctx:      ctx,
		cancel:   cancel,
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Watch returns a channel of change events for keys, or for every key when
// none are given. The channel is closed when ctx ends or the watcher closes.
// Events are dropped rather than blocking when the reader falls behind.
func (w *Watcher) Watch(ctx context.Context, keys ...string) <-chan KeyEvent {
	sub := &watchSub{keys: keys, ch: make(chan KeyEvent, eventBufferSize)}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		close(sub.ch)
		return sub.ch
	}
	w.subscribers = append(w.subscribers, sub)
	w.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			w.unsubscribe(sub)
		case <-w.ctx.Done():
		}
	}()

	return sub.ch
}

// Close stops watching and closes every subscriber channel.
func (w *Watcher) Close() error {
	w.cancel()

	w.mu.Lock()
	w.closed = true
	for _, timer := range w.debounce {
		timer.Stop()
	}
	for _, sub := range w.subscribers {
		close(sub.ch)
	}
	w.subscribers = nil
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) unsubscribe(sub *watchSub) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, s := range w.subscribers {
		if s == sub {
			w.subscribers = slices.Delete(w.subscribers, i, i+1)
			close(sub.ch)
			return
		}
	}
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Str("dir", w.dir).Msg("storage watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}

	key, ok := keyFromFilename(filepath.Base(event.Name))
	if !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if timer, exists := w.debounce[key]; exists {
		timer.Stop()
	}
	w.debounce[key] = time.AfterFunc(debounceDelay, func() {
		w.notify(key)
	})
}

func (w *Watcher) notify(key string) {
	event := KeyEvent{Key: key, Timestamp: time.Now()}

	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.debounce, key)
	if w.closed {
		return
	}

	for _, sub := range w.subscribers {
		if !sub.wants(key) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			w.logger.Debug().Str("key", key).Msg("storage event dropped")
		}
	}
}
