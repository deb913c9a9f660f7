package workspace

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchOptions controls incremental re-extraction on file-system changes.
type WatchOptions struct {
	DebounceMs     int
	IgnorePatterns []string
}

// DefaultWatchOptions always returns a populated struct.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		DebounceMs:     200,
		IgnorePatterns: []string{"*.tmp", "*.swp"},
	}
}

// Watcher drives incremental SetFileContent/RemoveFile calls on a Workspace
// from file-system events, debouncing rapid successive writes to the same
// path.
type Watcher struct {
	ws      *Workspace
	fsw     *fsnotify.Watcher
	opts    WatchOptions
	stop    chan struct{}
	stopped bool
	mu      sync.Mutex

	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
}

// Watch starts watching root (and every non-ignored subdirectory) for
// changes, applying them to w. Call Stop on the returned Watcher to end
// watching.
func (w *Workspace) Watch(root string, opts WatchOptions) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if opts.DebounceMs == 0 {
		opts.DebounceMs = 200
	}

	wt := &Watcher{
		ws:       w,
		fsw:      fsw,
		opts:     opts,
		stop:     make(chan struct{}),
		debounce: map[string]*time.Timer{},
	}

	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, err
	}
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d == nil || !d.IsDir() {
			return nil
		}
		if wt.shouldIgnore(path) {
			return filepath.SkipDir
		}
		_ = fsw.Add(path)
		return nil
	})

	go wt.loop()
	w.logger.Info("watch started", "root", root)
	return wt, nil
}

func (wt *Watcher) loop() {
	for {
		select {
		case <-wt.stop:
			return
		case ev, ok := <-wt.fsw.Events:
			if !ok {
				return
			}
			wt.handle(ev)
		case err, ok := <-wt.fsw.Errors:
			if !ok {
				return
			}
			wt.ws.logger.Error("watch error", "error", err)
		}
	}
}

func (wt *Watcher) handle(ev fsnotify.Event) {
	if wt.shouldIgnore(ev.Name) {
		return
	}
	if !isSourceFile(ev.Name) {
		return
	}

	switch {
	case ev.Op&(fsnotify.Write|fsnotify.Create) != 0:
		wt.debounceReindex(ev.Name)
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		wt.ws.RemoveFile(ev.Name)
	}
}

func (wt *Watcher) debounceReindex(path string) {
	wt.debounceMu.Lock()
	defer wt.debounceMu.Unlock()

	if timer, ok := wt.debounce[path]; ok {
		timer.Stop()
	}
	wt.debounce[path] = time.AfterFunc(time.Duration(wt.opts.DebounceMs)*time.Millisecond, func() {
		content, err := os.ReadFile(path)
		if err != nil {
			wt.ws.logger.Warn("watch: read failed", "path", path, "error", err)
		} else {
			wt.ws.SetFileContent(path, content)
			wt.ws.ResolveAll()
		}
		wt.debounceMu.Lock()
		delete(wt.debounce, path)
		wt.debounceMu.Unlock()
	})
}

func (wt *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range wt.opts.IgnorePatterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	switch base {
	case "node_modules", ".git":
		return true
	}
	return false
}

func isSourceFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".kerml" || ext == ".sysml"
}

// Stop ends watching, canceling pending debounce timers.
func (wt *Watcher) Stop() error {
	wt.mu.Lock()
	defer wt.mu.Unlock()
	if wt.stopped {
		return nil
	}
	wt.stopped = true
	close(wt.stop)

	wt.debounceMu.Lock()
	for _, t := range wt.debounce {
		t.Stop()
	}
	wt.debounce = map[string]*time.Timer{}
	wt.debounceMu.Unlock()

	return wt.fsw.Close()
}
