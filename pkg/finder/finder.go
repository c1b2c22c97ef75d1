package finder

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// ManifestFinder is responsible for finding manifests in a directory
type ManifestFinder interface {
	// FindManifests finds all files under dir that match pattern, relative to dir
	FindManifests(ctx context.Context, dir string, pattern string) ([]string, error)
}

// DefaultFinder walks an afero filesystem.
type DefaultFinder struct {
	fs afero.Fs
}

var _ ManifestFinder = (*DefaultFinder)(nil)

// NewDefaultFinder creates a new DefaultFinder
func NewDefaultFinder(fsys afero.Fs) *DefaultFinder {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &DefaultFinder{fs: fsys}
}

// skippedDirs never hold manifests the user edits.
var skippedDirs = []string{"node_modules", ".git"}

// FindManifests implements ManifestFinder. Results are absolute when dir is,
// and sorted.
func (f *DefaultFinder) FindManifests(ctx context.Context, dir string, pattern string) ([]string, error) {
	info, err := f.fs.Stat(dir)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", dir)
	}

	var found []string
	err = doublestar.GlobWalk(afero.NewIOFS(afero.NewBasePathFs(f.fs, dir)), pattern, func(path string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || inSkippedDir(path) {
			return nil
		}
		found = append(found, filepath.Join(dir, filepath.FromSlash(path)))
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("finding manifests in %s: %w", dir, err)
	}

	sort.Strings(found)
	return found, nil
}

func inSkippedDir(path string) bool {
	for _, part := range strings.Split(path, "/") {
		for _, skip := range skippedDirs {
			if part == skip {
				return true
			}
		}
	}
	return false
}
