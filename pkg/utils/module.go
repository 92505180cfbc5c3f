package utils

import (
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// GetProjectModule returns the module path declared by the nearest go.mod at
// or above path, or "" when there is none.
func GetProjectModule(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}

	dir := abs
	if isDir, err := IsDirectory(abs); err != nil || !isDir {
		dir = filepath.Dir(abs)
	}

	for {
		if content, err := os.ReadFile(filepath.Join(dir, "go.mod")); err == nil {
			if module := modfile.ModulePath(content); module != "" {
				return module
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
