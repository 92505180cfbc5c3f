package errors

import (
	"errors"
	"fmt"
)

// Error message constants for the go-imports-sorter application
const (
	// File processing errors
	ErrMsgFailedToReadFile    = "failed to read file"
	ErrMsgFailedToWriteFile   = "failed to write file"
	ErrMsgFailedToRenderFile  = "failed to render file"
	ErrMsgMalformedImport     = "malformed import block"
	ErrMsgUnterminatedImport  = "unterminated import block"
	ErrMsgFailedToCompileExpr = "failed to compile import matcher"

	// Directory processing errors
	ErrMsgFailedToCheckPath    = "failed to check path"
	ErrMsgFailedToFindGoFiles  = "failed to find Go files in directory"
	ErrMsgFilesFailedToProcess = "%d files failed to process"

	// Configuration errors
	ErrMsgInvalidWorkers        = "workers must be at least 1, got %d"
	ErrMsgConflictingModes      = "--list and --diff cannot be used together"
	ErrMsgInvalidLogLevel       = "invalid log level %q"
	ErrMsgInvalidExclude        = "invalid exclude pattern %q"
	ErrMsgFailedToGetWorkingDir = "failed to get current working directory"
	ErrMsgModuleNotFound        = "no go.mod found above %s"

	// Info messages
	InfoMsgProcessedFile   = "processed file"
	InfoMsgSkippedFile     = "skipped non-Go file"
	InfoMsgErrorProcessing = "error processing file"
	InfoMsgNoGoFilesFound  = "no Go files found in directory"
	InfoMsgFoundGoFiles    = "found Go files in directory"
	InfoMsgSummary         = "processing finished"
)

// Sentinel errors, checked with errors.Is.
var (
	ErrIO              = errors.New("i/o error")
	ErrMalformedImport = errors.New(ErrMsgMalformedImport)
	ErrRegexCompile    = errors.New(ErrMsgFailedToCompileExpr)
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// MalformedImportError reports content inside an import block that is neither
// an import entry nor the closing parenthesis.
type MalformedImportError struct {
	Line int    // 1-based line number, 0 when the block was not closed before EOF
	Text string // offending line
}

// Error implements the error interface
func (e *MalformedImportError) Error() string {
	if e.Line == 0 {
		return ErrMsgUnterminatedImport
	}
	return fmt.Sprintf("%s: line %d: %q", ErrMsgMalformedImport, e.Line, e.Text)
}

// Is implements errors.Is support
func (e *MalformedImportError) Is(target error) bool {
	return target == ErrMalformedImport
}

// PathError is an I/O failure on a specific file.
type PathError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *PathError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *PathError) Is(target error) bool {
	return target == ErrIO
}

// NewPathError creates a new PathError
func NewPathError(op, path string, err error) *PathError {
	return &PathError{Op: op, Path: path, Err: err}
}

// Is, As and New mirror the standard library so callers need a single errors import.
var (
	Is  = errors.Is
	As  = errors.As
	New = errors.New
)
