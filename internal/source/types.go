package source

type (
	// FileID identifies a loaded source file. It doubles as the module
	// identity that resolved `require` calls point at.
	FileID uint32
	// FileFlags records how a file's bytes were obtained or normalized.
	FileFlags uint8
)

const (
	// FileVirtual marks files added from memory (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is one loaded module source: an ESTree dump plus its metadata.
type File struct {
	ID      FileID
	Path    string // slash-separated, cleaned
	Module  string // logical module path (Path without the trailing .json)
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based line/column pair.
type LineCol struct {
	Line uint32
	Col  uint32
}
