package source

import (
	"fmt"
)

// Span is a line/column range inside one file. End is exclusive.
type Span struct {
	File  FileID
	Start LineCol
	End   LineCol
}

// Known reports whether the span has a start line.
func (s Span) Known() bool {
	return s.Start.Known()
}

func (s Span) String() string {
	if !s.Known() {
		return fmt.Sprintf("%d:?", s.File)
	}
	return fmt.Sprintf("%d:%d:%d-%d:%d", s.File, s.Start.Line, s.Start.Col, s.End.Line, s.End.Col)
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	if s.File != other.File || !other.Known() {
		return s
	}
	if !s.Known() {
		return other
	}
	if other.Start.Before(s.Start) {
		s.Start = other.Start
	}
	if s.End.Before(other.End) {
		s.End = other.End
	}
	return s
}

// Point builds a span of the given width on a single line.
func Point(file FileID, line, col, width uint32) Span {
	return Span{
		File:  file,
		Start: LineCol{Line: line, Col: col},
		End:   LineCol{Line: line, Col: col + width},
	}
}
