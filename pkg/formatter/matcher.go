package formatter

import (
	"fmt"
	"regexp"

	"github.com/siyuan-infoblox/go-imports-sorter/pkg/errors"
)

const (
	importName = `([A-Za-z0-9_-]+|\.)?`
	importPath = `"([^"]+)"`

	singleImportExpr = `^\s*import\s+` + importName + `\s*` + importPath + `\s*$`
	blockImportExpr  = `^\s*` + importName + `\s*` + importPath + `\s*$`
	importBeginExpr  = `^\s*import\s*\(\s*$`
	importEndExpr    = `^\s*\)\s*$`
)

// Matcher recognizes the four line shapes of Go import syntax. It keeps no
// state between calls and is safe for concurrent use.
type Matcher struct {
	singleImport *regexp.Regexp
	blockImport  *regexp.Regexp
	importBegin  *regexp.Regexp
	importEnd    *regexp.Regexp
}

// NewMatcher compiles the line patterns.
func NewMatcher() (*Matcher, error) {
	var (
		m   Matcher
		err error
	)
	for _, p := range []struct {
		dst  **regexp.Regexp
		expr string
	}{
		{&m.singleImport, singleImportExpr},
		{&m.blockImport, blockImportExpr},
		{&m.importBegin, importBeginExpr},
		{&m.importEnd, importEndExpr},
	} {
		if *p.dst, err = regexp.Compile(p.expr); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", errors.ErrRegexCompile, p.expr, err)
		}
	}
	return &m, nil
}

// MustMatcher is like NewMatcher but panics on error.
func MustMatcher() *Matcher {
	m, err := NewMatcher()
	if err != nil {
		panic(err)
	}
	return m
}

// MatchSingle recognizes `import [name] "path"` on one line.
func (m *Matcher) MatchSingle(line string) (Import, bool) {
	return capture(m.singleImport, line)
}

// MatchInBlock recognizes a `[name] "path"` entry inside an import block.
func (m *Matcher) MatchInBlock(line string) (Import, bool) {
	return capture(m.blockImport, line)
}

// MatchImportBegin recognizes the `import (` line opening a block.
func (m *Matcher) MatchImportBegin(line string) bool {
	return m.importBegin.MatchString(line)
}

// MatchImportEnd recognizes the `)` line closing a block.
func (m *Matcher) MatchImportEnd(line string) bool {
	return m.importEnd.MatchString(line)
}

func capture(re *regexp.Regexp, line string) (Import, bool) {
	sub := re.FindStringSubmatch(line)
	if sub == nil {
		return Import{}, false
	}
	return NewImport(sub[1], sub[2]), true
}
