package ast

// NodeID addresses a node inside a Tree arena.
type NodeID uint32

// NoNodeID marks the absence of a node.
const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }
