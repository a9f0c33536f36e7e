// File: pkg/consolidate/traversal.go
package consolidate

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// WalkOption customizes Walk.
type WalkOption func(*walkConfig)

type walkConfig struct {
	logger *zap.Logger
	skip   func(rel string, isDir bool) bool
}

// WithWalkLogger sets the logger used for skipped directories.
func WithWalkLogger(logger *zap.Logger) WalkOption {
	return func(c *walkConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSkip installs a filter consulted before a path is descended into or
// yielded. Returning true for a directory prunes its whole subtree.
func WithSkip(skip func(rel string, isDir bool) bool) WalkOption {
	return func(c *walkConfig) {
		c.skip = skip
	}
}

// Walk lazily yields every regular file below root in lexical depth-first
// order. Symlinked directories are not followed, so cycles cannot occur;
// symlinks to files are yielded. Unreadable subdirectories are logged and
// skipped. A failure on root itself is yielded once as an error, after which
// the sequence ends.
func Walk(root string, opts ...WalkOption) iter.Seq2[FileCandidate, error] {
	cfg := walkConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(yield func(FileCandidate, error) bool) {
		walkRoot := resolveRoot(root)
		stopped := false

		err := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == walkRoot {
					return err
				}
				cfg.logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if path == walkRoot {
				return nil
			}

			relPath, err := filepath.Rel(walkRoot, path)
			if err != nil {
				return err
			}
			relPath = filepath.ToSlash(relPath)

			if d.IsDir() {
				if cfg.skip != nil && cfg.skip(relPath, true) {
					cfg.logger.Debug("Skipping ignored directory during traversal", zap.String("directory", relPath))
					return filepath.SkipDir
				}
				return nil
			}

			if !isRegularCandidate(path, d) {
				cfg.logger.Debug("Skipping non-regular file", zap.String("path", relPath))
				return nil
			}
			if cfg.skip != nil && cfg.skip(relPath, false) {
				return nil
			}

			if !yield(FileCandidate{Rel: relPath, Path: path}, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})

		if err != nil && !stopped {
			yield(FileCandidate{}, err)
		}
	}
}

// resolveRoot follows a symlinked root so the walk descends into its target.
func resolveRoot(root string) string {
	info, err := os.Lstat(root)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return root
	}
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return root
	}
	return resolved
}

// isRegularCandidate reports whether d should be offered for reading.
// Dangling symlinks are offered so the read failure gets recorded.
func isRegularCandidate(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return info.Mode().IsRegular()
}
