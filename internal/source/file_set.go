package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"

	"fortio.org/safecast"
)

// ModuleSuffix is stripped from an ESTree dump's path to get the logical
// module path: "lib/util.js.json" is module "lib/util.js".
const ModuleSuffix = ".json"

// FileSet owns every loaded module source of a run. It is filled before
// resolution starts and only read afterwards, so concurrent readers are fine
// once loading is done.
type FileSet struct {
	files []File
	index map[string]FileID // path -> id
}

func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores normalized bytes under path and returns a fresh FileID. Adding
// the same path twice yields two ids; the index tracks the latest one.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	normalized := normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    normalized,
		Module:  strings.TrimSuffix(normalized, ModuleSuffix),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[normalized] = id
	return id
}

// Load reads path from disk, strips a BOM and folds CRLF, then calls Add.
func (fs *FileSet) Load(path string) (FileID, error) {
	return fs.LoadAs(path, path)
}

// LoadAs is Load with the file registered under name instead of path,
// typically the path relative to the project root.
func (fs *FileSet) LoadAs(path, name string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	var flags FileFlags
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(name, content, flags), nil
}

// AddVirtual adds in-memory content flagged FileVirtual.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file for id, or nil if id was never issued by this set.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// GetLatest returns the most recent id registered for path.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.index[normalizePath(path)]
	return id, ok
}

func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Files exposes the loaded files in id order. Read-only.
func (fs *FileSet) Files() []File {
	return fs.files
}

// Resolve converts a span into line/column positions. Spans of unknown
// files resolve to zero positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}
