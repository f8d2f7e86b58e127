package ast

// NodeID addresses a node inside one Tree. Node identity is what the
// semantic context keys its cross-reference maps on.
type NodeID uint32

// NoNodeID marks an absent child (missing initializer, array hole, ...).
const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }
