package evconfig

import (
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a YAML override file whenever it changes on disk,
// invoking onChange with the freshly-loaded Config. Grounded on the
// teacher's watchfs/parlfs use of fsnotify, narrowed to a single file.
type Watcher struct {
	dotenvPath string
	yamlPath   string
	onChange   func(*Config)

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher starts watching yamlPath; onChange fires once per write
// or create event with the reloaded Config. Errors reloading are swallowed (the
// previous Config stays in effect) since a transient partial write
// should not crash the loop.
func NewWatcher(dotenvPath, yamlPath string, onChange func(*Config)) (w *Watcher, err error) {
	var fsw *fsnotify.Watcher
	if fsw, err = fsnotify.NewWatcher(); err != nil {
		return
	}
	if err = fsw.Add(yamlPath); err != nil {
		_ = fsw.Close()
		return
	}
	w = &Watcher{dotenvPath: dotenvPath, yamlPath: yamlPath, onChange: onChange, watcher: fsw, done: make(chan struct{})}
	go w.run()
	return
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if cfg, err := Load(w.dotenvPath, w.yamlPath); err == nil {
				w.onChange(cfg)
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	return w.watcher.Close()
}
