package ast

import (
	"testing"
)

func TestParseKindCollapsesCallables(t *testing.T) {
	for _, label := range []string{"Function", "Lambda", "Defun", "Method"} {
		if got := ParseKind(label); got != KindFunction {
			t.Fatalf("ParseKind(%q) = %v, want Function", label, got)
		}
	}
	if got := ParseKind("Except"); got != KindCatch {
		t.Fatalf("Except should map to Catch, got %v", got)
	}
	if got := ParseKind("Binary"); got != KindNode {
		t.Fatalf("unknown labels should be generic, got %v", got)
	}
}

func TestKindStringsAreDistinct(t *testing.T) {
	seen := make(map[string]Kind, KindCount)
	for k := KindToplevel; k < kindCount; k++ {
		s := k.String()
		if s == "Invalid" {
			t.Fatalf("kind %d has no name", k)
		}
		if prev, ok := seen[s]; ok {
			t.Fatalf("kinds %d and %d share name %q", prev, k, s)
		}
		seen[s] = k
	}
}

func TestBuilderInspectOrder(t *testing.T) {
	b := NewBuilder(0, 8)
	x := b.At(1, 0).Ref("x")
	one := b.Generic(KindNode)
	assign := b.Assign("=", x, one)
	root := b.Toplevel(assign)
	tree := b.Finish(root)

	var pre, post []Kind
	tree.Inspect(tree.Root, func(_ NodeID, n *Node) bool {
		pre = append(pre, n.Kind)
		return true
	}, func(_ NodeID, n *Node) {
		post = append(post, n.Kind)
	})

	wantPre := []Kind{KindToplevel, KindAssign, KindSymbolRef, KindNode}
	wantPost := []Kind{KindSymbolRef, KindNode, KindAssign, KindToplevel}
	for i := range wantPre {
		if pre[i] != wantPre[i] || post[i] != wantPost[i] {
			t.Fatalf("unexpected order pre=%v post=%v", pre, post)
		}
	}
	if tree.Node(assign).Target != x {
		t.Fatalf("assignment target not recorded")
	}
	if tree.Len() != 4 {
		t.Fatalf("expected 4 nodes, got %d", tree.Len())
	}
}

func TestArenaIsOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil {
		t.Fatalf("index 0 must be the empty sentinel")
	}
	id := a.Allocate(7)
	if id != 1 || *a.Get(id) != 7 {
		t.Fatalf("unexpected allocation %d", id)
	}
	if a.Get(2) != nil {
		t.Fatalf("out of range lookup must return nil")
	}
}
