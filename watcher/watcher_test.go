package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestWatcher(t *testing.T, root string) *Watcher {
	t.Helper()
	w, err := New(root, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("new watcher: %s", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start watcher: %s", err)
	}
	t.Cleanup(func() { w.Stop() })
	return w
}

func expectTask(t *testing.T, w *Watcher, rel string) {
	t.Helper()
	select {
	case ft := <-w.Tasks():
		assert.Equal(t, rel, ft.Rel)
	case <-time.After(3 * time.Second):
		t.Errorf("timeout waiting for %s", rel)
	}
}

func expectQuiet(t *testing.T, w *Watcher, wait time.Duration) {
	t.Helper()
	select {
	case ft := <-w.Tasks():
		t.Errorf("unexpected task %s", ft.Rel)
	case <-time.After(wait):
	}
}

func TestWatcher(t *testing.T) {
	root := t.TempDir()
	assert.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0755))
	assert.NoError(t, os.MkdirAll(filepath.Join(root, "webp"), 0755))

	w := newTestWatcher(t, root)

	assert.NoError(t, os.WriteFile(filepath.Join(root, "a.png"), []byte("x"), 0644))
	expectTask(t, w, "a.png")

	assert.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.jpg"), []byte("x"), 0644))
	expectTask(t, w, filepath.Join("sub", "b.jpg"))
}

func TestWatcherIgnores(t *testing.T) {
	root := t.TempDir()
	assert.NoError(t, os.MkdirAll(filepath.Join(root, "webp"), 0755))

	w := newTestWatcher(t, root)

	// output folder content, wrong extension and dot files stay quiet
	assert.NoError(t, os.WriteFile(filepath.Join(root, "webp", "c.png"), []byte("x"), 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(root, "d.txt"), []byte("x"), 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(root, ".partial.png"), []byte("x"), 0644))
	expectQuiet(t, w, time.Second)
}

func TestWatcherDebounce(t *testing.T) {
	root := t.TempDir()
	w, err := New(root, 300*time.Millisecond)
	assert.NoError(t, err)
	assert.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { w.Stop() })

	name := filepath.Join(root, "burst.png")
	for i := 0; i < 3; i++ {
		assert.NoError(t, os.WriteFile(name, []byte{byte(i)}, 0644))
		time.Sleep(50 * time.Millisecond)
	}

	expectTask(t, w, "burst.png")
	expectQuiet(t, w, 600*time.Millisecond)
}

func TestWatcherNewFolder(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root)

	fresh := filepath.Join(root, "fresh")
	assert.NoError(t, os.MkdirAll(fresh, 0755))
	time.Sleep(300 * time.Millisecond)

	assert.NoError(t, os.WriteFile(filepath.Join(fresh, "e.png"), []byte("x"), 0644))
	expectTask(t, w, filepath.Join("fresh", "e.png"))
}

func TestWatcherRemoveCancels(t *testing.T) {
	root := t.TempDir()
	w, err := New(root, 400*time.Millisecond)
	assert.NoError(t, err)
	assert.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { w.Stop() })

	name := filepath.Join(root, "gone.png")
	assert.NoError(t, os.WriteFile(name, []byte("x"), 0644))
	assert.NoError(t, os.Remove(name))

	expectQuiet(t, w, time.Second)
}

func TestWatcherStop(t *testing.T) {
	w, err := New(t.TempDir(), 0)
	assert.NoError(t, err)
	assert.NoError(t, w.Start(context.Background()))
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())

	_, ok := <-w.Tasks()
	assert.False(t, ok)
}
