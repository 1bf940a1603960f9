// Package parse obtains syntax trees from the external parser.
package parse

import (
	"context"
	"errors"
	"fmt"

	"scopelint/internal/ast"
	"scopelint/internal/source"
)

// ErrParserUnavailable means no parser could be started.
var ErrParserUnavailable = errors.New("parser unavailable")

// Parser turns one file into a tree. A rejected file yields a *SyntaxError.
type Parser interface {
	Parse(ctx context.Context, file *source.File) (*ast.Tree, error)
}

// Fingerprinter is implemented by parsers whose output depends on settings
// other than the file content; the fingerprint keys cached trees.
type Fingerprinter interface {
	Fingerprint() string
}

// SyntaxError is a parse failure reported by the parser itself. Line is
// 1-based and Col 0-based; Line 0 means no position was reported.
type SyntaxError struct {
	Path    string
	Message string
	Line    uint32
	Col     uint32
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Col, e.Message)
}

// Span returns the position of the error in file.
func (e *SyntaxError) Span(file source.FileID) source.Span {
	if e.Line == 0 {
		return source.Span{File: file}
	}
	return source.Point(file, e.Line, e.Col, 1)
}

// Func adapts a function to Parser.
type Func func(ctx context.Context, file *source.File) (*ast.Tree, error)

func (f Func) Parse(ctx context.Context, file *source.File) (*ast.Tree, error) {
	return f(ctx, file)
}
