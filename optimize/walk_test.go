package optimize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func touch(t *testing.T, name string) {
	t.Helper()
	assert.NoError(t, os.MkdirAll(filepath.Dir(name), 0755))
	assert.NoError(t, os.WriteFile(name, []byte("x"), 0644))
}

func TestIsImageExt(t *testing.T) {
	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.bmp", "e.tiff", "f.tif", "g.gif", "h.webp"} {
		assert.True(t, IsImageExt(name), name)
	}
	for _, name := range []string{"a.txt", "b", "c.avif", "d.jpg.bak"} {
		assert.False(t, IsImageExt(name), name)
	}
}

func TestIsOutDir(t *testing.T) {
	assert.True(t, IsOutDir("webp"))
	assert.True(t, IsOutDir("AVIF"))
	assert.False(t, IsOutDir("images"))
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.jpg"))
	touch(t, filepath.Join(root, "b.txt"))
	touch(t, filepath.Join(root, "g.webp"))
	touch(t, filepath.Join(root, "sub", "c.PNG"))
	touch(t, filepath.Join(root, "sub", "webp", "d.png"))
	touch(t, filepath.Join(root, "webp", "e.jpg"))
	touch(t, filepath.Join(root, "avif", "deep", "f.png"))

	tasks, err := Scan(root)
	assert.NoError(t, err)

	var rels []string
	for _, ft := range tasks {
		rels = append(rels, ft.Rel)
		assert.Equal(t, filepath.Join(root, ft.Rel), ft.Path)
	}
	assert.Equal(t, []string{"a.jpg", "g.webp", filepath.Join("sub", "c.PNG")}, rels)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
