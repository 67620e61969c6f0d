package optimize

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// FileTask is one source file queued for conversion.
type FileTask struct {
	Path string // absolute
	Rel  string // relative to the job source root
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".gif":  true,
	".webp": true,
}

// IsImageExt reports whether name carries a known raster extension.
func IsImageExt(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// IsOutDir reports whether a folder name is one of the per-format
// output folders. Those are pruned while scanning so a second pass
// never re-reads its own results.
func IsOutDir(name string) bool {
	switch strings.ToLower(name) {
	case FmtWEBP.DirName(), FmtAVIF.DirName():
		return true
	}
	return false
}

// Scan walks root and collects the files to convert, pruning the
// per-format output folders at any depth.
func Scan(root string) ([]FileTask, error) {
	root = filepath.Clean(root)
	var tasks []FileTask
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			logger().Warnw("walk fail", "path", p, "err", err)
			return nil
		}
		if d.IsDir() {
			if p != root && IsOutDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !IsImageExt(d.Name()) {
			return nil
		}
		rel, rerr := filepath.Rel(root, p)
		if rerr != nil {
			return nil
		}
		tasks = append(tasks, FileTask{Path: p, Rel: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
