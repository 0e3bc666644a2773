// Package ingest discovers screenshots on disk for batch and watch runs.
package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/screenshot-vocab/constants"
	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
)

// ScanStats summarizes a directory walk.
type ScanStats struct {
	Scanned uint32
	Matched uint32
	Skipped uint32 // hidden entries
	Failed  uint32 // entries the walk could not read
}

// AllowedExt checks if a path's extension is an accepted screenshot type.
func AllowedExt(path string) bool {
	return constants.IsImageExt(filepath.Ext(path))
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return base != "." && base != ".." && strings.HasPrefix(base, ".")
}

// ScanImages returns the sorted screenshot paths under root. A root that is a
// single file is returned as-is if its extension is allowed.
func ScanImages(root string, skipHidden bool) ([]string, ScanStats, error) {
	var stats ScanStats
	if strings.TrimSpace(root) == "" {
		return nil, stats, fmt.Errorf("%w: path is required", common.ErrInvalidInput)
	}
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, stats, fmt.Errorf("%w: %s", common.ErrNotFound, root)
		}
		return nil, stats, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		stats.Scanned = 1
		if !AllowedExt(root) {
			return nil, stats, fmt.Errorf("%w: unsupported file type %q", common.ErrInvalidInput, filepath.Ext(root))
		}
		stats.Matched = 1
		return []string{root}, stats, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			stats.Failed++
			return nil // continue walking
		}
		if path == root {
			return nil
		}
		stats.Scanned++
		if skipHidden && IsHidden(path) {
			stats.Skipped++
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(path) {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return paths, stats, fmt.Errorf("walk: %w", err)
	}
	sort.Strings(paths)
	return paths, stats, nil
}
