// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch re-runs a conversion pass whenever convertible documents
// appear or change in a directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/pdiddy/docsweep/internal/convert"
	"github.com/pdiddy/docsweep/pkg/types"
)

// DefaultDebounce is the quiet period after the last relevant event before
// a pass starts.
const DefaultDebounce = 500 * time.Millisecond

// RunFunc performs one conversion pass.
type RunFunc func(ctx context.Context) error

// Watcher triggers passes over one directory.
type Watcher struct {
	dir      string
	run      RunFunc
	debounce time.Duration
	log      zerolog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period between the last event and a pass.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(w *Watcher) { w.log = log }
}

// New creates a Watcher for dir that calls run for each pass.
func New(dir string, run RunFunc, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		run:      run,
		debounce: DefaultDebounce,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch runs one pass immediately, then one pass per burst of relevant
// events until ctx is done. A failing pass is logged and watching
// continues. Watch returns nil when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	w.pass(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !Relevant(ev) {
				continue
			}
			w.log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("change detected")
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watcher error")
		case <-timer.C:
			w.pass(ctx)
		}
	}
}

func (w *Watcher) pass(ctx context.Context) {
	if err := w.run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		w.log.Warn().Err(err).Str("dir", w.dir).Msg("conversion pass failed")
	}
}

// Relevant reports whether ev should trigger a pass: a create or write of a
// regular .docx or .xlsx file. Outputs the pass itself writes never qualify.
func Relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	kind, ok := convert.Classify(filepath.Base(ev.Name))
	if !ok || (kind != types.KindDOCX && kind != types.KindXLSX) {
		return false
	}
	info, err := os.Stat(ev.Name)
	if err != nil || info.IsDir() {
		return false
	}
	return true
}
