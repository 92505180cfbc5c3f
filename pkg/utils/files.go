package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IsGoFile checks if a file is a Go source file (includes test files)
func IsGoFile(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".go")
}

// ValidPatterns reports the first exclude pattern doublestar cannot parse.
func ValidPatterns(patterns []string) (string, bool) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return p, false
		}
	}
	return "", true
}

// matchesAny reports whether the slash-separated rel path matches one of patterns.
func matchesAny(patterns []string, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(filepath.ToSlash(pattern), rel); err == nil && ok {
			return true
		}
	}
	return false
}

// FindGoFiles recursively finds all Go source files in a directory. Exclude
// patterns are doublestar globs matched against paths relative to root; a
// matching directory is not descended into.
func FindGoFiles(root string, exclude ...string) ([]string, error) {
	var goFiles []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		// Skip vendor directories and hidden directories (but not the root directory)
		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || matchesAny(exclude, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() && IsGoFile(d.Name()) && !matchesAny(exclude, rel) {
			goFiles = append(goFiles, path)
		}

		return nil
	})

	return goFiles, err
}

// IsDirectory checks if the given path is a directory
func IsDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
