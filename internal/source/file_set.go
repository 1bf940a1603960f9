package source

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
)

// StdinName is the path label given to source read from standard input.
const StdinName = "<stdin>"

// FileSet owns every source text read during one run. IDs are dense and
// handed out in load order, so they double as indexes into files.
type FileSet struct {
	files   []File
	latest  map[string]FileID // нормализованный путь -> последний id
	baseDir string
}

// NewFileSet returns an empty set whose relative paths resolve against the
// working directory.
func NewFileSet() *FileSet {
	return &FileSet{latest: make(map[string]FileID)}
}

// NewFileSetWithBase returns an empty set rooted at baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.SetBaseDir(baseDir)
	return fs
}

// SetBaseDir changes the directory used by the "relative" path mode.
func (fileSet *FileSet) SetBaseDir(dir string) { fileSet.baseDir = dir }

// BaseDir returns the base directory, falling back to the working directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir != "" {
		return fileSet.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// Len reports the number of files in the set.
func (fileSet *FileSet) Len() int { return len(fileSet.files) }

func (fileSet *FileSet) nextID() FileID {
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	return FileID(n)
}

// Add stores content as-is under path. Adding the same path twice yields a
// fresh ID; GetLatest then reports the newer one.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	key := normalizePath(path)
	f := File{
		ID:      fileSet.nextID(),
		Path:    key,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
	fileSet.files = append(fileSet.files, f)
	fileSet.latest[key] = f.ID
	return f.ID
}

// AddVirtual adds in-memory content (tests, generated input) with FileVirtual set.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Load reads path from disk, strips a UTF-8 BOM and folds CRLF to LF.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path comes from the command line
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fileSet.addClean(path, raw, 0), nil
}

// LoadReader drains r (usually stdin) into a virtual file called name.
func (fileSet *FileSet) LoadReader(name string, r io.Reader) (FileID, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	return fileSet.addClean(name, raw, FileVirtual), nil
}

func (fileSet *FileSet) addClean(path string, raw []byte, flags FileFlags) FileID {
	text, bom := removeBOM(raw)
	if bom {
		flags |= FileHadBOM
	}
	text, crlf := normalizeCRLF(text)
	if crlf {
		flags |= FileNormalizedCRLF
	}
	return fileSet.Add(path, text, flags)
}

// Get returns the file with the given ID, or nil.
func (fileSet *FileSet) Get(id FileID) *File {
	if uint64(id) >= uint64(len(fileSet.files)) {
		return nil
	}
	return &fileSet.files[id]
}

// GetLatest returns the most recently added ID for path.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.latest[normalizePath(path)]
	return id, ok
}

// lineBounds returns the byte range of the 1-based line n, without its
// terminator.
func (f *File) lineBounds(n uint32) (start, end int, ok bool) {
	if n == 0 {
		return 0, 0, false
	}
	idx := int(n) - 1
	if idx > len(f.LineIdx) {
		return 0, 0, false
	}
	if idx > 0 {
		start = int(f.LineIdx[idx-1]) + 1
	}
	end = len(f.Content)
	if idx < len(f.LineIdx) {
		end = int(f.LineIdx[idx])
	}
	if start >= len(f.Content) || start > end {
		return 0, 0, false
	}
	return start, end, true
}

// GetLine returns the text of the 1-based line n, or "" when there is no
// such line.
func (f *File) GetLine(n uint32) string {
	start, end, ok := f.lineBounds(n)
	if !ok {
		return ""
	}
	return string(f.Content[start:end])
}

// Lines splits the content into physical lines without their terminators.
// A trailing newline yields a final empty line.
func (f *File) Lines() []string {
	return strings.Split(string(f.Content), "\n")
}

// longPath is the length past which "auto" shortens absolute paths.
const longPath = 40

// FormatPath renders the path for display. mode is one of absolute,
// relative, basename or auto; anything else returns the path unchanged.
// The stdin label is never rewritten.
func (f *File) FormatPath(mode, baseDir string) string {
	if f.Path == StdinName {
		return f.Path
	}
	var (
		out string
		err error
	)
	switch mode {
	case "absolute":
		out, err = AbsolutePath(f.Path)
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		out, err = RelativePath(f.Path, baseDir)
	case "basename":
		out = BaseName(f.Path)
	case "auto":
		out = f.Path
		if filepath.IsAbs(f.Path) && len(f.Path) >= longPath {
			out = BaseName(f.Path)
		}
	default:
		out = f.Path
	}
	if err != nil {
		return f.Path
	}
	return out
}
