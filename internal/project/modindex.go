package project

import (
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"

	"jsfront/internal/source"
)

// ModuleIndex maps module paths to files. Keys are NFC-normalized, so a
// specifier typed in decomposed form finds a file saved precomposed. It is
// read-only after construction and safe for concurrent use.
type ModuleIndex struct {
	byPath     map[string]source.FileID
	extensions []string
}

// NewModuleIndex indexes every file by its Module path. A later file with
// the same normalized path replaces an earlier one.
func NewModuleIndex(files []source.File, extensions []string) *ModuleIndex {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	idx := &ModuleIndex{
		byPath:     make(map[string]source.FileID, len(files)),
		extensions: extensions,
	}
	for i := range files {
		idx.byPath[normalizeKey(files[i].Module)] = files[i].ID
	}
	return idx
}

func normalizeKey(p string) string {
	return norm.NFC.String(path.Clean(p))
}

func (idx *ModuleIndex) Len() int { return len(idx.byPath) }

// Lookup finds an exact module path.
func (idx *ModuleIndex) Lookup(modulePath string) (source.FileID, bool) {
	id, ok := idx.byPath[normalizeKey(modulePath)]
	return id, ok
}

// IsRelative reports "./x", "../x" and "." style specifiers.
func IsRelative(spec string) bool {
	return spec == "." || spec == ".." || strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// Resolve finds the module a require specifier written in fromModule
// refers to. Relative specifiers are joined with fromModule's directory;
// others are looked up from the project root. Candidates are tried in the
// order: exact, each extension, then /index plus each extension.
func (idx *ModuleIndex) Resolve(fromModule, spec string) (source.FileID, bool) {
	if spec == "" {
		return 0, false
	}
	base := spec
	if IsRelative(spec) {
		base = path.Join(path.Dir(fromModule), spec)
	}
	base = normalizeKey(base)

	if id, ok := idx.byPath[base]; ok && !strings.HasSuffix(spec, "/") {
		return id, true
	}
	for _, ext := range idx.extensions {
		if id, ok := idx.byPath[base+ext]; ok {
			return id, true
		}
	}
	for _, ext := range idx.extensions {
		if id, ok := idx.byPath[base+"/index"+ext]; ok {
			return id, true
		}
	}
	return 0, false
}
