package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMalformedImportError(t *testing.T) {
	req := require.New(t)

	err := &MalformedImportError{Line: 4, Text: "this is not an import"}
	req.True(Is(err, ErrMalformedImport))
	req.False(Is(err, ErrIO))
	req.Equal(`malformed import block: line 4: "this is not an import"`, err.Error())

	wrapped := fmt.Errorf("%s: %w", ErrMsgFailedToReadFile, err)
	req.True(Is(wrapped, ErrMalformedImport))

	var target *MalformedImportError
	req.True(As(wrapped, &target))
	req.Equal(4, target.Line)

	req.Equal(ErrMsgUnterminatedImport, (&MalformedImportError{}).Error())
}

func TestPathError(t *testing.T) {
	req := require.New(t)

	err := NewPathError("open", "/tmp/x.go", fs.ErrNotExist)
	req.True(Is(err, ErrIO))
	req.True(Is(err, fs.ErrNotExist))
	req.False(Is(err, ErrMalformedImport))
	req.Equal("open /tmp/x.go: file does not exist", err.Error())
}
