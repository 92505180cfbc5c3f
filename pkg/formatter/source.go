package formatter

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/siyuan-infoblox/go-imports-sorter/pkg/errors"
)

const packageKeyword = "package "

// readState is the position of the reader relative to the import section.
type readState int

const (
	outside readState = iota
	insideImportBlock
	// afterImports is entered on the first top-level declaration following
	// the package clause. Go allows imports only before it, so nothing past
	// this point is matched: import-looking text in code or string literals
	// stays untouched.
	afterImports
)

var declarationKeywords = []string{"func", "var", "const", "type"}

// SourceFile is a Go file split into its imports and every other line.
type SourceFile struct {
	path   string
	lines  []string // all lines outside the import section, in order
	sorter *Sorter
	digest uint64 // xxhash64 of the bytes read
}

// Read parses the file at path. Nothing is written when Read fails.
func Read(prefixes Prefixes, m *Matcher, path string) (*SourceFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewPathError("open", path, err)
	}
	defer func() { _ = f.Close() }()

	return ReadFrom(prefixes, m, path, f)
}

// ReadFrom parses Go source from r; path is used for error context and by Write.
func ReadFrom(prefixes Prefixes, m *Matcher, path string, r io.Reader) (*SourceFile, error) {
	h := xxhash.New()
	br := bufio.NewReader(io.TeeReader(r, h))

	sf := &SourceFile{
		path:   path,
		sorter: NewSorter(prefixes),
	}

	state := outside
	seenPackage := false
	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.NewPathError("read", path, err)
		}
		if line == "" && err == io.EOF {
			break
		}
		line = strings.TrimSuffix(line, "\n")

		switch state {
		case insideImportBlock:
			if m.MatchImportEnd(line) {
				state = outside
			} else if imp, ok := m.MatchInBlock(line); ok {
				sf.sorter.Insert(imp)
			} else if !isBlank(line) {
				return nil, fmt.Errorf("%s: %w", path, &errors.MalformedImportError{Line: n, Text: line})
			}
		case outside:
			if imp, ok := m.MatchSingle(line); ok {
				sf.sorter.Insert(imp)
			} else if m.MatchImportBegin(line) {
				state = insideImportBlock
			} else {
				switch {
				case strings.HasPrefix(line, packageKeyword):
					seenPackage = true
				case seenPackage && isDeclaration(line):
					state = afterImports
				}
				sf.lines = append(sf.lines, line)
			}
		case afterImports:
			sf.lines = append(sf.lines, line)
		}

		if err == io.EOF {
			break
		}
	}

	if state == insideImportBlock {
		return nil, fmt.Errorf("%s: %w", path, &errors.MalformedImportError{})
	}

	sf.digest = h.Sum64()
	return sf, nil
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// isDeclaration reports whether line opens a top-level func, var, const or
// type declaration. Declarations start in the first column.
func isDeclaration(line string) bool {
	for _, kw := range declarationKeywords {
		rest, ok := strings.CutPrefix(line, kw)
		if !ok {
			continue
		}
		if rest == "" || strings.ContainsRune(" \t(\r", rune(rest[0])) {
			return true
		}
	}
	return false
}

// Path returns the file path given to Read.
func (f *SourceFile) Path() string {
	return f.path
}

// Lines returns the retained non-import lines.
func (f *SourceFile) Lines() []string {
	return f.lines
}

// Sorter returns the sorter holding the file's imports.
func (f *SourceFile) Sorter() *Sorter {
	return f.sorter
}

// Sort orders the imports of every bucket.
func (f *SourceFile) Sort() {
	f.sorter.Sort()
}

// Bytes renders the file with a rebuilt import section placed after the
// package clause.
func (f *SourceFile) Bytes() []byte {
	var buf bytes.Buffer

	if f.sorter.Count() == 0 {
		for _, line := range f.lines {
			writeLine(&buf, line)
		}
		return buf.Bytes()
	}

	i := 0
	if at := f.packageLine(); at >= 0 {
		for ; i <= at; i++ {
			writeLine(&buf, f.lines[i])
		}
		buf.WriteByte('\n')
	}

	f.writeImports(&buf)

	// the import section already ends with one blank line
	for i < len(f.lines) && isBlank(f.lines[i]) {
		i++
	}
	for ; i < len(f.lines); i++ {
		writeLine(&buf, f.lines[i])
	}
	return buf.Bytes()
}

// WriteTo implements io.WriterTo.
func (f *SourceFile) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}

// Render returns the rendered output and whether it differs from what was read.
func (f *SourceFile) Render() ([]byte, bool) {
	out := f.Bytes()
	return out, xxhash.Sum64(out) != f.digest
}

// Changed reports whether the rendered output differs from what was read.
func (f *SourceFile) Changed() bool {
	_, changed := f.Render()
	return changed
}

// Write replaces the file on disk with the rendered output. An unchanged
// file is left alone.
func (f *SourceFile) Write() error {
	out, changed := f.Render()
	if !changed {
		return nil
	}
	return f.replace(out)
}

// replace writes out to a temporary file in the same directory and renames
// it over the original.
func (f *SourceFile) replace(out []byte) error {
	return writeFileAtomic(f.path, out)
}

func (f *SourceFile) packageLine() int {
	for i, line := range f.lines {
		if strings.HasPrefix(line, packageKeyword) {
			return i
		}
	}
	return -1
}

func (f *SourceFile) writeImports(buf *bytes.Buffer) {
	if imp, ok := f.sorter.Single(); ok {
		fmt.Fprintf(buf, "import %s\n\n", imp)
		return
	}

	buf.WriteString("import (\n")
	separate := false
	for _, bucket := range f.sorter.Buckets() {
		if len(bucket.Imports) == 0 {
			continue
		}
		if separate {
			buf.WriteByte('\n')
		}
		for _, imp := range bucket.Imports {
			buf.WriteByte('\t')
			buf.WriteString(imp.String())
			buf.WriteByte('\n')
		}
		separate = true
	}
	buf.WriteString(")\n\n")
}

func writeLine(buf *bytes.Buffer, line string) {
	buf.WriteString(line)
	buf.WriteByte('\n')
}

func writeFileAtomic(path string, data []byte) (err error) {
	// write through symlinks instead of replacing them
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return errors.NewPathError("resolve", path, err)
	}
	info, err := os.Stat(target)
	if err != nil {
		return errors.NewPathError("stat", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return errors.NewPathError("create", path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.NewPathError("write", path, err)
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		return errors.NewPathError("chmod", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return errors.NewPathError("sync", path, err)
	}
	if err = tmp.Close(); err != nil {
		return errors.NewPathError("close", path, err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return errors.NewPathError("rename", path, err)
	}
	return nil
}
