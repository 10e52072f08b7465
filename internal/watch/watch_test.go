// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	docx := filepath.Join(dir, "report.docx")
	xlsx := filepath.Join(dir, "data.xlsx")
	pdf := filepath.Join(dir, "report.pdf")
	folder := filepath.Join(dir, "nested.docx")
	for _, p := range []string{docx, xlsx, pdf} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(folder, 0o755))

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"create docx", fsnotify.Event{Name: docx, Op: fsnotify.Create}, true},
		{"write xlsx", fsnotify.Event{Name: xlsx, Op: fsnotify.Write}, true},
		{"chmod docx", fsnotify.Event{Name: docx, Op: fsnotify.Chmod}, false},
		{"remove docx", fsnotify.Event{Name: filepath.Join(dir, "gone.docx"), Op: fsnotify.Remove}, false},
		{"create pdf output", fsnotify.Event{Name: pdf, Op: fsnotify.Create}, false},
		{"directory named like a document", fsnotify.Event{Name: folder, Op: fsnotify.Create}, false},
		{"owner lock file", fsnotify.Event{Name: filepath.Join(dir, "~$report.docx"), Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Relevant(tt.ev))
		})
	}
}

func TestWatch_RunsOnStartAndOnChange(t *testing.T) {
	dir := t.TempDir()
	var passes atomic.Int32
	w := New(dir, func(ctx context.Context) error {
		passes.Add(1)
		return nil
	}, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	require.Eventually(t, func() bool { return passes.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), passes.Load(), "unrelated files do not trigger a pass")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.docx"), []byte("x"), 0o644))
	require.Eventually(t, func() bool { return passes.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatch_FailingPassKeepsWatching(t *testing.T) {
	dir := t.TempDir()
	var passes atomic.Int32
	w := New(dir, func(ctx context.Context) error {
		passes.Add(1)
		return errors.New("render backend unavailable")
	}, WithDebounce(30*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Watch(ctx)

	require.Eventually(t, func() bool { return passes.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.xlsx"), []byte("x"), 0o644))
	require.Eventually(t, func() bool { return passes.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatch_MissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "absent"), func(context.Context) error { return nil })
	err := w.Watch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching")
}
