// Package discover builds the ordered file batch a check run operates
// on, by walking a directory tree with include/exclude glob patterns.
package discover

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Options configures batch discovery.
type Options struct {
	// Include globs, matched against the slash-separated path relative
	// to the root. Empty means every source extension the classifiers
	// recognize.
	Include []string `yaml:"include"`

	// Exclude globs. A matching directory is skipped entirely.
	Exclude []string `yaml:"exclude"`
}

// DefaultOptions matches all recognized source extensions and skips the
// usual dependency and build output trees.
func DefaultOptions() Options {
	return Options{
		Include: []string{"**/*.{js,mjs,cjs,jsx,ts,mts,cts,tsx}"},
		Exclude: []string{
			"**/node_modules/**",
			"**/.git/**",
			"**/dist/**",
			"**/build/**",
		},
	}
}

// Files walks rootPath and returns the matching file paths in sorted
// order, so two runs over the same tree always produce the same batch.
func Files(rootPath string, opts Options, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.Include) == 0 {
		opts.Include = DefaultOptions().Include
	}

	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range opts.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("walk error", "path", path, "error", err)
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range opts.Exclude {
			matched, _ := doublestar.PathMatch(pattern, relPath)
			if matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		for _, pattern := range opts.Include {
			if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
				files = append(files, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
