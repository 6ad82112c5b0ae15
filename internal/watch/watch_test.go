package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "a/main.rs", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "suite.yaml", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "suite.yml", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "a/main.rs", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		if got := relevant(fromFSNotify(tt.ev)); got != tt.want {
			t.Errorf("relevant(%v) = %v, want %v", tt.ev, got, tt.want)
		}
	}
}

func TestFromFSNotify(t *testing.T) {
	e := fromFSNotify(fsnotify.Event{Name: "x.rs", Op: fsnotify.Create | fsnotify.Write})
	assert.Equal(t, "x.rs", e.Path)
	assert.Equal(t, OpCreate|OpWrite, e.Op)
}

func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		require.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

func TestRunRestartsOnChange(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.rs")
	require.NoError(t, os.WriteFile(main, []byte("fn main() {}\n"), 0o644))

	events := make(chan string, 16)
	runs := 0
	run := func(ctx context.Context) {
		runs++
		events <- "started"
		if runs == 1 {
			<-ctx.Done()
			events <- "cancelled"
		}
	}

	w, err := New(zaptest.NewLogger(t), 20*time.Millisecond, run)
	require.NoError(t, err)
	require.NoError(t, w.Add(main))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitFor(t, events, "started")

	require.NoError(t, os.WriteFile(main, []byte("fn main() { }\n"), 0o644))
	waitFor(t, events, "cancelled")
	waitFor(t, events, "started")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()

	events := make(chan string, 16)
	w, err := New(nil, 10*time.Millisecond, func(ctx context.Context) { events <- "started" })
	require.NoError(t, err)
	require.NoError(t, w.Add(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitFor(t, events, "started")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case got := <-events:
		t.Fatalf("unexpected run: %s", got)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestAddWalksSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755))

	w, err := New(nil, time.Millisecond, func(context.Context) {})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Add(dir))
	require.NoError(t, w.Add(dir))
	assert.Len(t, w.dirs, 3)

	assert.Error(t, w.Add(filepath.Join(dir, "missing")))
}

func TestCloseWithoutRun(t *testing.T) {
	w, err := New(nil, time.Millisecond, func(context.Context) {})
	require.NoError(t, err)
	require.NoError(t, w.Add(t.TempDir()))
	require.Error(t, w.Add(filepath.Join(t.TempDir(), "missing")))
	assert.NoError(t, w.Close())
}
