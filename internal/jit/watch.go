package jit

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hlang-toolchain/hlang/internal/ir"
	"github.com/hlang-toolchain/hlang/internal/watcher"
)

// SourceCompiler turns an edited source file back into a fresh
// ir.Module. Supplied by the caller, since producing a Module requires
// the out-of-scope surface parser plus type resolution — the same
// reason internal/recompile.Compiler is an interface rather than a
// concrete type.
type SourceCompiler interface {
	CompileFile(path string) (*ir.Module, error)
}

// WatchLoop sits on top of internal/watcher, coalescing its raw
// (path, kind) events into settled recompile-and-install cycles. A burst
// of writes to the same file (common with editors that write-then-rename)
// collapses into one Install call after the debounce window elapses with
// no further events for that path.
type WatchLoop struct {
	watch    *watcher.Watcher
	compiler SourceCompiler
	runner   *Runner
	debounce time.Duration
	log      *logrus.Logger

	pending map[string]*time.Timer
	fire    chan string
}

// NewWatchLoop wires a watcher.Watcher with a 300ms debounce, matching
// the interval a human edit-save cycle settles within without feeling
// laggy.
func NewWatchLoop(compiler SourceCompiler, runner *Runner, log *logrus.Logger) (*WatchLoop, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	loop := &WatchLoop{
		compiler: compiler,
		runner:   runner,
		debounce: 300 * time.Millisecond,
		log:      log,
		pending:  make(map[string]*time.Timer),
		fire:     make(chan string, 16),
	}

	w, err := watcher.New(loop.onEvent, loop.onError)
	if err != nil {
		return nil, err
	}
	loop.watch = w
	return loop, nil
}

func (w *WatchLoop) onEvent(path string, kind watcher.EventKind) {
	if kind == watcher.Delete {
		return
	}
	if t, exists := w.pending[path]; exists {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.fire <- path
	})
}

func (w *WatchLoop) onError(err error) {
	w.log.WithError(err).Warn("jit: watcher reported an error")
}

// AddRoot subscribes to a directory that should be watched.
func (w *WatchLoop) AddRoot(dir string) error {
	return w.watch.AddRoot(dir)
}

// Close releases the underlying OS file-watch handle.
func (w *WatchLoop) Close() error {
	return w.watch.Close()
}

// Run blocks, reacting to settled filesystem changes until ctx is
// canceled.
func (w *WatchLoop) Run(ctx context.Context) error {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		w.watch.Run(stop)
		close(done)
	}()

	defer func() {
		for _, t := range w.pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			close(stop)
			return ctx.Err()

		case <-done:
			return nil

		case path := <-w.fire:
			delete(w.pending, path)
			w.reinstall(ctx, path)
		}
	}
}

func (w *WatchLoop) reinstall(ctx context.Context, path string) {
	module, err := w.compiler.CompileFile(path)
	if err != nil {
		w.log.WithError(err).WithField("path", path).Warn("jit: recompilation failed, keeping previous generation installed")
		return
	}

	result, err := w.runner.Install(ctx, module)
	if err != nil {
		w.log.WithError(err).WithField("module", module.Name).Warn("jit: install failed")
		return
	}

	w.log.WithFields(logrus.Fields{
		"module":     module.Name,
		"recompiled": result.RecompiledModules,
		"new":        len(result.NewSymbols),
		"replaced":   len(result.ReplacedSymbols),
		"generation": result.Generation,
	}).Info("jit: installed new generation")
}
