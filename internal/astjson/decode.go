// Package astjson decodes the JSON document printed by the external parser.
//
// A document is either {"ast": node} or {"error": {"message", "line", "col"}}.
// Nodes carry a "type" label plus optional role fields; see node below.
package astjson

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"scopelint/internal/ast"
	"scopelint/internal/source"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrEmptyDocument means the parser printed neither a tree nor an error.
var ErrEmptyDocument = errors.New("parser output has neither ast nor error")

// Failure is a syntax error reported by the parser. Line is 1-based, Col
// 0-based; Line 0 means the parser gave no position.
type Failure struct {
	Message string `json:"message"`
	Line    uint32 `json:"line"`
	Col     uint32 `json:"col"`
}

type document struct {
	AST   *node    `json:"ast"`
	Error *Failure `json:"error"`
}

type position struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

type node struct {
	Type     string    `json:"type"`
	Start    *position `json:"start"`
	End      *position `json:"end"`
	Name     string    `json:"name"`
	Alias    string    `json:"alias"`
	Key      string    `json:"key"`
	Operator string    `json:"operator"`
	SType    string    `json:"stype"`
	Members  bool      `json:"members"`
	Left     *node     `json:"left"`
	Init     *node     `json:"init"`
	Value    *node     `json:"value"`
	Body     []*node   `json:"body"`
}

// Decode parses data into a tree for file. Exactly one of the tree and the
// failure is non-nil when err is nil.
func Decode(data []byte, file source.FileID) (*ast.Tree, *Failure, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode parser output: %w", err)
	}
	if doc.Error != nil {
		if doc.Error.Message == "" {
			doc.Error.Message = "syntax error"
		}
		return nil, doc.Error, nil
	}
	if doc.AST == nil {
		return nil, nil, ErrEmptyDocument
	}
	b := ast.NewBuilder(file, 64)
	root := build(b, file, doc.AST)
	return b.Finish(root), nil, nil
}

// build stores n and its subtree. Role nodes come first among the children
// in left, init, value order, followed by the body.
func build(b *ast.Builder, file source.FileID, n *node) ast.NodeID {
	out := ast.Node{
		Kind:     ast.ParseKind(n.Type),
		Span:     span(file, n),
		Name:     n.Name,
		Alias:    n.Alias,
		Key:      n.Key,
		Operator: n.Operator,
		SType:    n.SType,
		Members:  n.Members,
	}
	children := make([]ast.NodeID, 0, len(n.Body)+3)
	if n.Left != nil {
		out.Target = build(b, file, n.Left)
		children = append(children, out.Target)
	}
	if n.Init != nil {
		id := build(b, file, n.Init)
		if !out.Target.IsValid() {
			out.Target = id
		}
		children = append(children, id)
	}
	if n.Value != nil {
		out.Value = build(b, file, n.Value)
		children = append(children, out.Value)
	}
	for _, child := range n.Body {
		if child != nil {
			children = append(children, build(b, file, child))
		}
	}
	out.Children = children
	return b.Add(out)
}

func span(file source.FileID, n *node) source.Span {
	var sp source.Span
	sp.File = file
	if n.Start != nil {
		sp.Start = source.LineCol{Line: n.Start.Line, Col: n.Start.Col}
		sp.End = sp.Start
	}
	if n.End != nil {
		sp.End = source.LineCol{Line: n.End.Line, Col: n.End.Col}
	}
	return sp
}
