package astjson

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"scopelint/internal/ast"
)

func TestDecodeTree(t *testing.T) {
	doc := `{"ast": {"type": "Toplevel", "start": {"line": 1, "col": 0}, "body": [
		{"type": "Import", "key": "os.path", "start": {"line": 1, "col": 7}},
		{"type": "Assign", "operator": "=", "start": {"line": 2, "col": 2},
		 "left": {"type": "SymbolRef", "name": "x", "start": {"line": 2, "col": 0}, "end": {"line": 2, "col": 1}},
		 "value": {"type": "Number"}},
		{"type": "Defun", "name": "f", "start": {"line": 3, "col": 4}, "body": [
			{"type": "SymbolFunarg", "name": "a", "start": {"line": 3, "col": 6}}
		]}
	]}}`
	tree, failure, err := Decode([]byte(doc), 1)
	if err != nil || failure != nil {
		t.Fatalf("Decode: failure=%v err=%v", failure, err)
	}

	var kinds []string
	tree.Inspect(tree.Root, func(_ ast.NodeID, n *ast.Node) bool {
		kinds = append(kinds, n.Kind.String())
		return true
	}, nil)
	want := []string{"Toplevel", "Import", "Assign", "SymbolRef", "Node", "Function", "FuncArg"}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}

	root := tree.Node(tree.Root)
	assign := tree.Node(root.Children[1])
	target := tree.Node(assign.Target)
	if target == nil || target.Name != "x" {
		t.Fatalf("assignment target not decoded: %+v", target)
	}
	if target.Span.Start.Line != 2 || target.Span.End.Col != 1 {
		t.Fatalf("unexpected target span %v", target.Span)
	}
}

func TestDecodeLoopTarget(t *testing.T) {
	doc := `{"ast": {"type": "Toplevel", "body": [
		{"type": "ForIn", "init": {"type": "SymbolRef", "name": "i"}, "value": {"type": "SymbolRef", "name": "xs"},
		 "body": [{"type": "SymbolRef", "name": "i"}]}
	]}}`
	tree, _, err := Decode([]byte(doc), 1)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	loop := tree.Node(tree.Node(tree.Root).Children[0])
	if loop.Kind != ast.KindForIn {
		t.Fatalf("expected ForIn, got %s", loop.Kind)
	}
	if got := tree.Node(loop.Target).Name; got != "i" {
		t.Fatalf("loop target %q", got)
	}
	if len(loop.Children) != 3 || loop.Children[0] != loop.Target {
		t.Fatalf("loop target must be the first child, got %v", loop.Children)
	}
}

func TestDecodeFailure(t *testing.T) {
	tree, failure, err := Decode([]byte(`{"error": {"message": "Unexpected token", "line": 4, "col": 2}}`), 1)
	if err != nil || tree != nil {
		t.Fatalf("expected a failure only, got tree=%v err=%v", tree, err)
	}
	want := &Failure{Message: "Unexpected token", Line: 4, Col: 2}
	if diff := cmp.Diff(want, failure); diff != "" {
		t.Fatalf("failure mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, _, err := Decode([]byte(`not json`), 1); err == nil {
		t.Fatalf("expected an error")
	}
	if _, _, err := Decode([]byte(`{}`), 1); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}
