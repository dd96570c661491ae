package mg

import (
	"fmt"
	"sort"
	"strings"
)

const (
	OpLex   = "lex"
	OpMerge = "merge"
	OpMove  = "move"
	OpTrace = "t"
)

// DerivationNode is one node of an MG derivation tree. Features holds the
// features of the node still unchecked; every Merge or Move consumes
// exactly one feature pair. Nodes are persistent: operations build new
// nodes and copy the root-to-site path, sharing everything else, so trees
// can be held by many search states at once.
type DerivationNode struct {
	Op       string
	Item     *LexicalItem
	Index    int // token position for pronounced leaves, -1 otherwise
	Features []Feature
	Children []*DerivationNode
	// HeadChild indexes the child projecting this node.
	HeadChild int
}

func Leaf(item LexicalItem, index int) *DerivationNode {
	li := item
	return &DerivationNode{
		Op:       OpLex,
		Item:     &li,
		Index:    index,
		Features: item.Features,
	}
}

func trace() *DerivationNode {
	return &DerivationNode{Op: OpTrace, Index: -1}
}

func (n *DerivationNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// withFeatures is the persistent feature update: a shallow copy sharing
// the children.
func (n *DerivationNode) withFeatures(features []Feature) *DerivationNode {
	clone := *n
	clone.Features = features
	return &clone
}

func (n *DerivationNode) replaceAt(path []int, replacement *DerivationNode) *DerivationNode {
	if len(path) == 0 {
		return replacement
	}
	clone := *n
	clone.Children = make([]*DerivationNode, len(n.Children))
	copy(clone.Children, n.Children)
	clone.Children[path[0]] = n.Children[path[0]].replaceAt(path[1:], replacement)
	return &clone
}

// Signature is a canonical string of the derivation used to deduplicate
// structurally identical trees and search states.
func (n *DerivationNode) Signature() string {
	var sb strings.Builder
	n.signature(&sb)
	return sb.String()
}

func (n *DerivationNode) signature(sb *strings.Builder) {
	sb.WriteString(n.Op)
	if n.Item != nil {
		sb.WriteByte(':')
		sb.WriteString(n.Item.Word)
		fmt.Fprintf(sb, "@%d", n.Index)
	}
	sb.WriteByte('{')
	sb.WriteString(featuresString(n.Features))
	sb.WriteByte('}')
	if len(n.Children) > 0 {
		sb.WriteByte('(')
		for i, child := range n.Children {
			if i > 0 {
				sb.WriteByte(' ')
			}
			child.signature(sb)
		}
		sb.WriteByte(')')
	}
}

// Leaves collects the pronounced leaves in derived order.
func (n *DerivationNode) Leaves() []*DerivationNode {
	var leaves []*DerivationNode
	n.walk(func(node *DerivationNode) {
		if node.Op == OpLex && node.Item.Word != "" {
			leaves = append(leaves, node)
		}
	})
	return leaves
}

func (n *DerivationNode) walk(visit func(*DerivationNode)) {
	visit(n)
	for _, child := range n.Children {
		child.walk(visit)
	}
}

// Linearize yields the surface string of the derivation, ordering
// pronounced leaves by token index. Traces and null heads are silent.
func (n *DerivationNode) Linearize() []string {
	leaves := n.Leaves()
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].Index < leaves[j].Index })
	words := make([]string, len(leaves))
	for i, leaf := range leaves {
		words[i] = leaf.Item.Word
	}
	return words
}

// UncheckedBelow counts features still unchecked strictly below the root.
func (n *DerivationNode) UncheckedBelow() int {
	count := 0
	for _, child := range n.Children {
		child.walk(func(node *DerivationNode) {
			count += len(node.Features)
		})
	}
	return count
}

func (n *DerivationNode) Pretty() string {
	var sb strings.Builder
	n.pretty(&sb, 0)
	return sb.String()
}

func (n *DerivationNode) pretty(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Op {
	case OpLex:
		fmt.Fprintf(sb, "%s%s\n", indent, n.Item)
	case OpTrace:
		fmt.Fprintf(sb, "%st\n", indent)
	default:
		fmt.Fprintf(sb, "%s%s", indent, n.Op)
		if len(n.Features) > 0 {
			fmt.Fprintf(sb, " [%s]", featuresString(n.Features))
		}
		sb.WriteByte('\n')
		for _, child := range n.Children {
			child.pretty(sb, depth+1)
		}
	}
}
