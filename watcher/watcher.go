package watcher

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	zlog "github.com/roljohntorralba/imgopt/log"
	"github.com/roljohntorralba/imgopt/optimize"
	"github.com/roljohntorralba/imgopt/utils"
)

func logger() zlog.Logger {
	return zlog.Get()
}

const defaultDelay = 500 * time.Millisecond

// Watcher monitors a source tree and queues changed images as tasks.
// Rapid successive events on a file collapse into one task.
type Watcher struct {
	root  string
	delay time.Duration
	fw    *fsnotify.Watcher
	tasks chan optimize.FileTask

	mu       sync.Mutex
	closed   bool
	debounce map[string]*time.Timer
}

// New prepares a watcher over root. A non-positive delay falls back
// to half a second of debounce.
func New(root string, delay time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = defaultDelay
	}
	return &Watcher{
		root:     filepath.Clean(root),
		delay:    delay,
		fw:       fw,
		tasks:    make(chan optimize.FileTask, 100),
		debounce: make(map[string]*time.Timer),
	}, nil
}

// Start attaches the notifier to the tree and begins processing
// events until ctx ends or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.root); err != nil {
		w.fw.Close()
		return err
	}
	go w.processEvents(ctx)
	return nil
}

// Tasks returns the queue of changed files.
func (w *Watcher) Tasks() <-chan optimize.FileTask {
	return w.tasks
}

// Stop ends watching. Pending debounced tasks are dropped.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for name, tm := range w.debounce {
		tm.Stop()
		delete(w.debounce, name)
	}
	w.mu.Unlock()

	err := w.fw.Close()
	close(w.tasks)
	return err
}

// addTree watches dir and every folder below it, pruning the
// per-format output folders.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			logger().Warnw("walk fail", "path", p, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && optimize.IsOutDir(d.Name()) {
			return fs.SkipDir
		}
		if aerr := w.fw.Add(p); aerr != nil {
			logger().Warnw("watch fail", "dir", p, "err", aerr)
			return nil
		}
		logger().Debugw("watching", "dir", p)
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logger().Warnw("watch error", "err", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	name := filepath.Clean(event.Name)
	if w.underOut(name) {
		return
	}

	if event.Op&fsnotify.Create != 0 && utils.IsDir(name) {
		// a fresh folder: watch it and sweep what it already holds
		if err := w.addTree(name); err != nil {
			logger().Warnw("watch subtree fail", "dir", name, "err", err)
			return
		}
		if tasks, err := optimize.Scan(name); err == nil {
			for _, ft := range tasks {
				w.arm(ft.Path)
			}
		}
		return
	}

	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			w.forget(name)
		}
		return
	}

	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return
	}
	if !optimize.IsImageExt(base) {
		return
	}

	w.arm(name)
}

// arm starts or restarts the debounce timer of one path.
func (w *Watcher) arm(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if tm, ok := w.debounce[name]; ok {
		tm.Stop()
	}
	w.debounce[name] = time.AfterFunc(w.delay, func() { w.flush(name) })
}

// flush queues the settled file, unless it vanished meanwhile.
func (w *Watcher) flush(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.debounce, name)
	if w.closed {
		return
	}
	if !utils.IsRegular(name) {
		return
	}
	rel, err := filepath.Rel(w.root, name)
	if err != nil {
		return
	}
	select {
	case w.tasks <- optimize.FileTask{Path: name, Rel: rel}:
		logger().Debugw("queued", "file", rel)
	default:
		logger().Warnw("task queue full, dropped", "file", rel)
	}
}

func (w *Watcher) forget(name string) {
	w.mu.Lock()
	if tm, ok := w.debounce[name]; ok {
		tm.Stop()
		delete(w.debounce, name)
	}
	w.mu.Unlock()
}

// underOut reports whether p sits below a per-format output folder.
func (w *Watcher) underOut(p string) bool {
	rel, err := filepath.Rel(w.root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return true
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if optimize.IsOutDir(part) {
			return true
		}
	}
	return false
}
