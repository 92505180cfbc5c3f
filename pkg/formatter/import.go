package formatter

// Import represents a single import statement
type Import struct {
	Name string // alias name, empty if no alias
	Path string // import path as written between the quotes
}

// NewImport creates an Import with an optional alias
func NewImport(name, path string) Import {
	return Import{Name: name, Path: path}
}

// String renders the import the way it appears in source: `name "path"` or `"path"`.
// The path is emitted verbatim, never re-quoted.
func (i Import) String() string {
	if i.Name == "" {
		return `"` + i.Path + `"`
	}
	return i.Name + ` "` + i.Path + `"`
}
