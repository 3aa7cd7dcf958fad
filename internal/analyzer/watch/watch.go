// ============================================================================
// jackc - Jack Syntax Analyzer
// ============================================================================
//
// Package:     watch
// Description: Re-analyzes Jack sources when they change on disk
// Author:      Mike Stoffels
// Created:     2025-12-09
// License:     MIT
// ============================================================================

// Package watch keeps parse trees up to date while sources are edited.
//
// A Watcher registers every directory below its root with fsnotify. Create
// and write events on source files are debounced per path and then handed
// to the analyzer service. Directories created later are added on the fly.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
	"github.com/msto63/jackc/foundation/utils/filex"
	"github.com/msto63/jackc/internal/analyzer/service"
	"github.com/msto63/jackc/pkg/core/logging"
)

// DefaultDebounce is the quiet period after the last event on a file
const DefaultDebounce = 200 * time.Millisecond

// Config configures a Watcher
type Config struct {
	Debounce time.Duration
	Logger   *logging.Logger
	// OnResult is called from the watch goroutine after every analysis.
	OnResult func(service.Result)
}

// Watcher re-analyzes changed sources below a root directory
type Watcher struct {
	svc      *service.Service
	root     string
	ext      string
	debounce time.Duration
	logger   *logging.Logger
	onResult func(service.Result)

	watcher *fsnotify.Watcher
	fire    chan string
	stopCh  chan struct{}
	done    chan struct{}
	once    sync.Once
}

// New creates a watcher for root. root must be a directory.
func New(svc *service.Service, root string, cfg Config) (*Watcher, error) {
	if !filex.IsDir(root) {
		return nil, mdwerror.Newf("watch root is not a directory: %s", root).
			WithCode(mdwerror.CodeInvalidInput).WithDetail("path", root)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New("watch")
	}
	return &Watcher{
		svc:      svc,
		root:     root,
		ext:      svc.Config().SourceExt,
		debounce: cfg.Debounce,
		logger:   cfg.Logger.With("root", root),
		onResult: cfg.OnResult,
		fire:     make(chan string),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start registers the directory tree and begins handling events in a
// goroutine. It returns once the tree is watched.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "failed to create watcher").WithCode(mdwerror.CodeIOError)
	}
	w.watcher = watcher

	if err := w.addTree(w.root); err != nil {
		w.watcher.Close()
		return err
	}

	w.logger.Info("Started watching for source changes", "ext", w.ext, "debounce", w.debounce)
	go w.loop(ctx)
	return nil
}

// Run starts the watcher and blocks until ctx is done or Stop is called.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-w.done
	return nil
}

// Stop ends the watch loop. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.once.Do(func() { close(w.stopCh) })
}

// Done is closed when the watch loop has ended
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// addTree watches dir and every directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return mdwerror.Wrap(err, "failed to watch directory").
				WithCode(mdwerror.CodeIOError).WithDetail("path", path)
		}
		w.logger.Debug("Watching directory", "dir", path)
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	pending := make(map[string]*time.Timer)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
		w.watcher.Close()
		close(w.done)
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping file watcher (context cancelled)")
			return

		case <-w.stopCh:
			w.logger.Info("Stopping file watcher (stop signal)")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event, pending)

		case path := <-w.fire:
			delete(pending, path)
			w.analyze(ctx, path)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err.Error())
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event, pending map[string]*time.Timer) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addDir(ctx, event.Name, pending)
			return
		}
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if filex.HasExt(event.Name, w.ext) {
		w.schedule(ctx, event.Name, pending)
	}
}

// addDir watches a new directory. Sources created in it before the watch
// was registered are scheduled as well.
func (w *Watcher) addDir(ctx context.Context, dir string, pending map[string]*time.Timer) {
	if err := w.addTree(dir); err != nil {
		w.logger.Warn("Cannot watch new directory", "dir", dir, "error", err.Error())
		return
	}
	sources, err := filex.FindByExt(dir, w.ext)
	if err != nil {
		return
	}
	for _, src := range sources {
		w.schedule(ctx, src, pending)
	}
}

// schedule (re)starts the debounce timer of path.
func (w *Watcher) schedule(ctx context.Context, path string, pending map[string]*time.Timer) {
	if t, ok := pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	pending[path] = time.AfterFunc(w.debounce, func() {
		select {
		case w.fire <- path:
		case <-w.done:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) analyze(ctx context.Context, path string) {
	if !filex.IsFile(path) {
		return
	}
	w.logger.Info("Source changed, re-analyzing", "file", filepath.Base(path))

	res := w.svc.AnalyzeFile(ctx, w.svc.JobFor(path))
	switch res.Status {
	case service.StatusOK:
		w.logger.Info("Source analyzed", "file", filepath.Base(path), "tokens", res.Tokens, "duration", res.Duration)
	case service.StatusFailed:
		w.logger.Error("Analysis failed", "file", filepath.Base(path), "error", res.Err.Error())
	}
	if w.onResult != nil {
		w.onResult(res)
	}
}
