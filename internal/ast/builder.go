package ast

import (
	"unicode/utf8"

	"scopelint/internal/source"
)

// Builder assembles a Tree. Decoders and tests use it; positions come from
// the cursor set with At.
type Builder struct {
	tree *Tree
	pos  source.LineCol
}

// NewBuilder creates a builder for the given file with a capacity hint.
func NewBuilder(file source.FileID, capHint uint) *Builder {
	return &Builder{
		tree: &Tree{File: file, Nodes: NewArena[Node](capHint)},
	}
}

// At moves the position cursor used by subsequently created nodes.
func (b *Builder) At(line, col uint32) *Builder {
	b.pos = source.LineCol{Line: line, Col: col}
	return b
}

// Add stores n as-is and returns its ID.
func (b *Builder) Add(n Node) NodeID {
	if n.Span.File == 0 {
		n.Span.File = b.tree.File
	}
	return NodeID(b.tree.Nodes.Allocate(n))
}

// Node exposes a stored node for late patching (e.g. attaching children).
func (b *Builder) Node(id NodeID) *Node {
	return b.tree.Node(id)
}

// Finish sets root and returns the tree. The builder must not be reused.
func (b *Builder) Finish(root NodeID) *Tree {
	b.tree.Root = root
	t := b.tree
	b.tree = nil
	return t
}

func (b *Builder) span(width int) source.Span {
	w := uint32(0)
	if width > 0 {
		w = uint32(width)
	}
	return source.Point(b.tree.File, b.pos.Line, b.pos.Col, w)
}

func (b *Builder) named(kind Kind, name string, children ...NodeID) NodeID {
	return b.Add(Node{
		Kind:     kind,
		Span:     b.span(utf8.RuneCountInString(name)),
		Name:     name,
		Children: children,
	})
}

// Toplevel creates the module root.
func (b *Builder) Toplevel(body ...NodeID) NodeID {
	return b.Add(Node{Kind: KindToplevel, Span: b.span(0), Children: body})
}

// Ref creates a plain name reference.
func (b *Builder) Ref(name string) NodeID { return b.named(KindSymbolRef, name) }

// Arg creates a function parameter.
func (b *Builder) Arg(name string) NodeID { return b.named(KindFuncArg, name) }

// Decorator creates a decorator reference.
func (b *Builder) Decorator(name string) NodeID { return b.named(KindDecorator, name) }

// Func creates a function; an empty name makes it an anonymous lambda.
// Parameters and body statements are both children, parameters first.
func (b *Builder) Func(name string, args []NodeID, body ...NodeID) NodeID {
	return b.named(KindFunction, name, append(append([]NodeID{}, args...), body...)...)
}

// Class creates a class declaration.
func (b *Builder) Class(name string, body ...NodeID) NodeID {
	return b.named(KindClass, name, body...)
}

// Assign creates `target op value`.
func (b *Builder) Assign(op string, target, value NodeID) NodeID {
	id := b.Add(Node{Kind: KindAssign, Span: b.span(len(op)), Operator: op, Target: target})
	b.Node(id).Children = childList(target, value)
	return id
}

// VarDef creates a variable definition with an optional initializer.
func (b *Builder) VarDef(name string, value NodeID) NodeID {
	id := b.named(KindVarDef, name, childList(value)...)
	b.Node(id).Value = value
	return id
}

// ForIn creates `for target in iter: body`.
func (b *Builder) ForIn(target, iter NodeID, body ...NodeID) NodeID {
	id := b.Add(Node{Kind: KindForIn, Span: b.span(3), Target: target})
	b.Node(id).Children = append(childList(target, iter), body...)
	return id
}

// Comprehension creates `[elem for target in iter]`.
func (b *Builder) Comprehension(target, iter NodeID, elems ...NodeID) NodeID {
	id := b.Add(Node{Kind: KindComprehension, Span: b.span(1), Target: target})
	b.Node(id).Children = append(childList(target, iter), elems...)
	return id
}

// Import creates `import key [as alias]`.
func (b *Builder) Import(key, alias string) NodeID {
	return b.Add(Node{Kind: KindImport, Span: b.span(len(key)), Key: key, Alias: alias})
}

// ImportFrom creates `from key import members...`.
func (b *Builder) ImportFrom(key string, members ...NodeID) NodeID {
	return b.Add(Node{Kind: KindImport, Span: b.span(len(key)), Key: key, Members: true, Children: members})
}

// ImportedVar creates one imported member.
func (b *Builder) ImportedVar(name, alias string) NodeID {
	id := b.named(KindImportedVar, name)
	b.Node(id).Alias = alias
	return id
}

// Empty creates an empty statement with the given marker text.
func (b *Builder) Empty(stype string) NodeID {
	return b.Add(Node{Kind: KindEmptyStatement, Span: b.span(len(stype)), SType: stype})
}

// Array creates a list literal, also used as a destructuring target.
func (b *Builder) Array(elems ...NodeID) NodeID {
	return b.Add(Node{Kind: KindArray, Span: b.span(1), Children: elems})
}

// Branch creates an If, Switch, Try or Catch node.
func (b *Builder) Branch(kind Kind, children ...NodeID) NodeID {
	return b.Add(Node{Kind: kind, Span: b.span(0), Children: children})
}

// Generic creates a KindNode or KindBlock wrapper around children.
func (b *Builder) Generic(kind Kind, children ...NodeID) NodeID {
	return b.Add(Node{Kind: kind, Span: b.span(0), Children: children})
}

func childList(ids ...NodeID) []NodeID {
	out := make([]NodeID, 0, len(ids))
	for _, id := range ids {
		if id.IsValid() {
			out = append(out, id)
		}
	}
	return out
}
