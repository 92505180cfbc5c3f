package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUtils_GetProjectModule(t *testing.T) {
	req := require.New(t)
	tempDir := t.TempDir()

	goModContent := `// comment before the module line
module "github.com/test/project"

go 1.21
`
	req.NoError(os.WriteFile(filepath.Join(tempDir, "go.mod"), []byte(goModContent), 0644))

	subDir := filepath.Join(tempDir, "internal", "pkg")
	req.NoError(os.MkdirAll(subDir, 0755))

	testFile := filepath.Join(subDir, "test.go")
	req.NoError(os.WriteFile(testFile, []byte("package pkg"), 0644))

	// finds go.mod in a parent directory, starting from a file
	req.Equal("github.com/test/project", GetProjectModule(testFile))

	// and starting from a directory
	req.Equal("github.com/test/project", GetProjectModule(subDir))
	req.Equal("github.com/test/project", GetProjectModule(tempDir))
}

func TestUtils_GetProjectModule_nested(t *testing.T) {
	req := require.New(t)
	tempDir := t.TempDir()

	req.NoError(os.WriteFile(filepath.Join(tempDir, "go.mod"), []byte("module example.com/outer\n"), 0644))
	inner := filepath.Join(tempDir, "tools")
	req.NoError(os.MkdirAll(inner, 0755))
	req.NoError(os.WriteFile(filepath.Join(inner, "go.mod"), []byte("module example.com/outer/tools\n"), 0644))

	req.Equal("example.com/outer/tools", GetProjectModule(filepath.Join(inner, "main.go")))
	req.Equal("example.com/outer", GetProjectModule(filepath.Join(tempDir, "main.go")))
}

func TestUtils_GetProjectModule_fallbacks(t *testing.T) {
	req := require.New(t)

	// a go.mod without a module line is skipped
	tempDir := t.TempDir()
	req.NoError(os.WriteFile(filepath.Join(tempDir, "go.mod"), []byte("go 1.21\n"), 0644))
	req.Empty(GetProjectModule(filepath.Join(tempDir, "file.go")))
}
