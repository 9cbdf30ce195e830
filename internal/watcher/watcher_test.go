package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) onChange(_ context.Context, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func startWatcher(t *testing.T, paths []string, rec *recorder) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := New(paths, rec.onChange).WithDebounce(100 * time.Millisecond)

	errc := make(chan error, 1)
	go func() { errc <- w.Watch(ctx) }()

	select {
	case <-w.Ready():
	case err := <-errc:
		cancel()
		t.Fatalf("watcher failed to start: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("watcher did not become ready")
	}
	return cancel, errc
}

func TestWatchDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "office.js")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	rec := &recorder{}
	cancel, errc := startWatcher(t, []string{path}, rec)
	defer cancel()

	for _, content := range []string{"b", "c", "d"} {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) >= 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	got := rec.snapshot()
	assert.Len(t, got, 1)
	assert.Equal(t, abs, got[0])

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "office.js")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	rec := &recorder{}
	cancel, _ := startWatcher(t, []string{path}, rec)
	defer cancel()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.js"), []byte("x"), 0o644))
	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestWatchMissingDirectory(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing", "office.js")}, func(context.Context, string) {})
	err := w.Watch(context.Background())
	assert.Error(t, err)
}

func receive(t *testing.T, d *debouncer) firing {
	t.Helper()
	select {
	case f := <-d.fired:
		return f
	case <-time.After(5 * time.Second):
		t.Fatal("debounce timer did not fire")
		return firing{}
	}
}

func TestDebouncerDiscardsStaleFiring(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)
	defer d.stop()

	d.touch("/a")
	stale := receive(t, d)

	// A new event arrives before the stale firing is handled
	d.touch("/a")
	assert.False(t, d.accept(stale))
	assert.Contains(t, d.timers, "/a", "the newer timer stays registered")

	current := receive(t, d)
	assert.True(t, d.accept(current))
	assert.NotContains(t, d.timers, "/a")

	select {
	case f := <-d.fired:
		t.Fatalf("unexpected second firing %+v", f)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncerTracksFilesSeparately(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)
	defer d.stop()

	d.touch("/a")
	d.touch("/b")

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		f := receive(t, d)
		assert.True(t, d.accept(f))
		got[f.path] = true
	}
	assert.Equal(t, map[string]bool{"/a": true, "/b": true}, got)
}

func TestDebouncerStopReleasesTimers(t *testing.T) {
	d := newDebouncer(time.Millisecond)
	d.touch("/a")
	time.Sleep(20 * time.Millisecond)
	// the timer goroutine is blocked sending; stop must release it
	d.stop()
	assert.Len(t, d.timers, 1)
}
