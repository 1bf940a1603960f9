package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a position as reported by the external parser: Line is 1-based,
// Col is a 0-based character offset within the line. Line 0 means "unknown".
type LineCol struct {
	Line uint32
	Col  uint32
}

// Known reports whether the position carries a line number.
func (p LineCol) Known() bool { return p.Line != 0 }

// Before orders positions by line, then column.
func (p LineCol) Before(other LineCol) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}
