package ast

import "scopelint/internal/source"

// Node is one syntax node. Role fields (Target, Value) point at nodes that
// also appear in Children; Children alone defines traversal order.
type Node struct {
	Kind Kind
	Span source.Span

	// Name is the declared or referenced identifier: symbol references,
	// function/class names (empty for anonymous lambdas), arguments,
	// decorators, variable definitions and imported members.
	Name string
	// Alias is the `as` name of an import or imported member.
	Alias string
	// Key is the dotted module path of an import.
	Key string
	// Operator of an assignment: "=" or a compound operator such as "+=".
	Operator string
	// SType is the statement marker text of an empty statement.
	SType string
	// Members is set on imports that list members (`from a import b`);
	// such an import binds nothing itself.
	Members bool

	// Target is the assignment target or the loop variable(s) of a for-in
	// or comprehension.
	Target NodeID
	// Value is the initializer of a variable definition.
	Value NodeID

	Children []NodeID
}

// Tree is a parsed file.
type Tree struct {
	File  source.FileID
	Root  NodeID
	Nodes *Arena[Node]
}

// Node returns the node for id or nil.
func (t *Tree) Node(id NodeID) *Node {
	if t == nil || t.Nodes == nil {
		return nil
	}
	return t.Nodes.Get(uint32(id))
}

// Len reports the number of nodes in the tree.
func (t *Tree) Len() int {
	if t == nil || t.Nodes == nil {
		return 0
	}
	return int(t.Nodes.Len())
}

// Inspect walks the subtree rooted at id depth-first in Children order,
// calling pre before and post after each node's children. If pre returns
// false, the children and post are skipped.
func (t *Tree) Inspect(id NodeID, pre func(NodeID, *Node) bool, post func(NodeID, *Node)) {
	n := t.Node(id)
	if n == nil {
		return
	}
	if !pre(id, n) {
		return
	}
	for _, child := range n.Children {
		t.Inspect(child, pre, post)
	}
	if post != nil {
		post(id, n)
	}
}
