package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siyuan-infoblox/go-imports-sorter/pkg/errors"
)

const unsorted = `package main

import (
	"github.com/myorg/project1"
	"os"
	"github.com/external/lib"
	"fmt"
)

func main() {}
`

const sorted = `package main

import (
	"fmt"
	"os"

	"github.com/external/lib"

	"github.com/myorg/project1"
)

func main() {}
`

// execute runs the root command in an isolated home directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeGoFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRootCmd_Version(t *testing.T) {
	req := require.New(t)

	out, err := execute(t, "--version")
	req.NoError(err)
	req.Contains(out, "gis version")
}

func TestRootCmd_RequiresPath(t *testing.T) {
	req := require.New(t)

	_, err := execute(t, "-p", "github.com/myorg")
	req.Error(err)
	req.Contains(err.Error(), "requires at least 1 arg")
}

func TestRootCmd_Write(t *testing.T) {
	req := require.New(t)

	path := writeGoFile(t, unsorted)
	out, err := execute(t, "-p", "github.com/myorg", "--log-level", "error", filepath.Dir(path))
	req.NoError(err)
	req.Empty(out)

	content, err := os.ReadFile(path)
	req.NoError(err)
	req.Equal(sorted, string(content))
}

func TestRootCmd_List(t *testing.T) {
	req := require.New(t)

	path := writeGoFile(t, unsorted)
	out, err := execute(t, "--list", "--package=github.com/myorg", "--log-level=error", path)
	req.NoError(err)
	req.Equal(path+"\n", out)

	content, err := os.ReadFile(path)
	req.NoError(err)
	req.Equal(unsorted, string(content))
}

func TestRootCmd_Diff(t *testing.T) {
	req := require.New(t)

	path := writeGoFile(t, unsorted)
	out, err := execute(t, "-d", "-p", "github.com/myorg", "--log-level", "error", path)
	req.NoError(err)
	req.Contains(out, "+++ "+path)
}

func TestRootCmd_ListAndDiffConflict(t *testing.T) {
	req := require.New(t)

	path := writeGoFile(t, unsorted)
	_, err := execute(t, "-l", "-d", path)
	req.Error(err)

	content, err := os.ReadFile(path)
	req.NoError(err)
	req.Equal(unsorted, string(content))
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	req := require.New(t)

	path := writeGoFile(t, unsorted)
	_, err := execute(t, "-j", "0", path)
	req.ErrorIs(err, errors.ErrInvalidConfig)

	_, err = execute(t, "--log-level", "loud", path)
	req.ErrorIs(err, errors.ErrInvalidConfig)
}

func TestRootCmd_Failures(t *testing.T) {
	req := require.New(t)

	bad := writeGoFile(t, "package main\n\nimport (\n\t\"fmt\"\n")
	good := writeGoFile(t, unsorted)

	_, err := execute(t, "-p", "github.com/myorg", "--log-level", "fatal", bad, good)
	req.EqualError(err, "1 files failed to process")

	content, err := os.ReadFile(good)
	req.NoError(err)
	req.Equal(sorted, string(content))
}
