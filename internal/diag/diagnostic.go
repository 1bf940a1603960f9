package diag

import (
	"strconv"

	"scopelint/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding. Primary is unknown (zero Start.Line) for
// findings that cannot be attributed to a node.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Path     string
	Primary  source.Span
	// Name is the offending identifier substituted into Message.
	Name string
	// OtherLine is the secondary line (loop-shadowed: the earlier binding).
	OtherLine uint32
	Notes     []Note
}

// New renders the code's template and fills in its default severity.
func New(code Code, path string, primary source.Span, name string, otherLine uint32) Diagnostic {
	line := ""
	if otherLine != 0 {
		line = strconv.FormatUint(uint64(otherLine), 10)
	}
	return Diagnostic{
		Severity:  code.Severity(),
		Code:      code,
		Message:   code.Render(name, line),
		Path:      path,
		Primary:   primary,
		Name:      name,
		OtherLine: otherLine,
	}
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
