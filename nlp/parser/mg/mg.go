package mg

import (
	"context"
	"errors"
	"log"

	"nlparsers/nlp/types"
)

var AllOut = false

// ErrSearchBound reports that the depth or step bound was hit before the
// search space was exhausted, with no derivation found inside the
// explored region. Distinct from an empty result, which means the space
// was fully explored and contains no derivation.
var ErrSearchBound = errors.New("derivation search bound exceeded")

// ErrLocalityViolation names the shortest-move prune: among candidates
// satisfying a move trigger, only the structurally closest is eligible.
// It never escapes Parse; Result.LocalityPrunes counts its occurrences.
var ErrLocalityViolation = errors.New("shortest-move locality violation")

const DefaultMaxDerivationDepth = 20

type Config struct {
	Lexicon Lexicon
	// MaxDerivationDepth bounds the number of Merge/Move operations in
	// one derivation. Zero takes the default of 20.
	MaxDerivationDepth int
	// NullHeads are phonetically empty functional items the search may
	// insert at the left edge of the workspace.
	NullHeads []LexicalItem
	// StepBudget bounds explored search states; 0 is unbounded.
	StepBudget int
}

type Result struct {
	Derivations    []*DerivationNode
	Steps          int
	LocalityPrunes int
	Bounded        bool
}

// state is one point of the derivational search: an ordered workspace of
// trees covering the input left to right.
type state struct {
	workspace []*DerivationNode
	depth     int
}

func (s *state) signature() string {
	sig := ""
	for _, tree := range s.workspace {
		sig += tree.Signature() + "|"
	}
	return sig
}

// Parse searches breadth-first for derivations whose single remaining
// tree has exactly the goal categorial feature at its root and no
// unchecked feature anywhere below it; every lexical feature must have
// been consumed by a Merge or Move.
// Merge combines adjacent trees by feature selection; Move displaces the
// closest constituent bearing a matching licensee, leaving a trace.
func Parse(ctx context.Context, tokens []string, goal string, cfg Config) (*Result, error) {
	maxDepth := cfg.MaxDerivationDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxDerivationDepth
	}
	result := &Result{}
	queue, err := initialStates(tokens, cfg)
	if err != nil {
		return nil, err
	}

	goalFeature := Feature{Categorial, goal}
	visited := make(map[string]bool)
	seen := make(map[string]bool)
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		s := queue[0]
		queue = queue[1:]
		result.Steps++
		if cfg.StepBudget > 0 && result.Steps > cfg.StepBudget {
			result.Bounded = true
			break
		}
		if AllOut {
			log.Println("MG state depth", s.depth, "trees", len(s.workspace))
		}
		if len(s.workspace) == 1 {
			root := s.workspace[0]
			if len(root.Features) == 1 && root.Features[0] == goalFeature && root.UncheckedBelow() == 0 {
				if sig := root.Signature(); !seen[sig] {
					seen[sig] = true
					result.Derivations = append(result.Derivations, root)
				}
				continue
			}
		}
		if s.depth >= maxDepth {
			result.Bounded = true
			continue
		}
		for _, successor := range expand(s, result) {
			if sig := successor.signature(); !visited[sig] {
				visited[sig] = true
				queue = append(queue, successor)
			}
		}
	}
	if len(result.Derivations) == 0 && result.Bounded {
		return result, ErrSearchBound
	}
	return result, nil
}

func initialStates(tokens []string, cfg Config) ([]*state, error) {
	assignments := [][]*DerivationNode{{}}
	for i, token := range tokens {
		items := cfg.Lexicon.Lookup(token)
		if len(items) == 0 {
			return nil, &types.UnknownTokenError{Token: token, Position: i}
		}
		var next [][]*DerivationNode
		for _, prefix := range assignments {
			for _, item := range items {
				extended := make([]*DerivationNode, len(prefix), len(prefix)+1)
				copy(extended, prefix)
				next = append(next, append(extended, Leaf(item, i)))
			}
		}
		assignments = next
	}

	var states []*state
	for _, workspace := range assignments {
		for mask := 0; mask < 1<<uint(len(cfg.NullHeads)); mask++ {
			var nulls []*DerivationNode
			for h, head := range cfg.NullHeads {
				if mask&(1<<uint(h)) != 0 {
					nulls = append(nulls, Leaf(head, -1))
				}
			}
			states = append(states, &state{workspace: append(nulls, workspace...)})
		}
	}
	return states, nil
}

func expand(s *state, result *Result) []*state {
	var successors []*state
	for i := 0; i+1 < len(s.workspace); i++ {
		left, right := s.workspace[i], s.workspace[i+1]
		if len(left.Features) == 0 || len(right.Features) == 0 {
			continue
		}
		if left.Features[0].Selects(right.Features[0]) {
			successors = append(successors, s.replacePair(i, merge(left, right, 0)))
		}
		if right.Features[0].Selects(left.Features[0]) {
			successors = append(successors, s.replacePair(i, merge(right, left, 1)))
		}
	}
	for i, tree := range s.workspace {
		if len(tree.Features) == 0 || tree.Features[0].Kind != Licensor {
			continue
		}
		for _, moved := range move(tree, result) {
			successors = append(successors, s.replaceTree(i, moved))
		}
	}
	return successors
}

func (s *state) replacePair(i int, merged *DerivationNode) *state {
	workspace := make([]*DerivationNode, 0, len(s.workspace)-1)
	workspace = append(workspace, s.workspace[:i]...)
	workspace = append(workspace, merged)
	workspace = append(workspace, s.workspace[i+2:]...)
	return &state{workspace: workspace, depth: s.depth + 1}
}

func (s *state) replaceTree(i int, tree *DerivationNode) *state {
	workspace := make([]*DerivationNode, len(s.workspace))
	copy(workspace, s.workspace)
	workspace[i] = tree
	return &state{workspace: workspace, depth: s.depth + 1}
}

// merge consumes the head's selector and the selectee's categorial
// feature. The head's remaining features project to the new node; the
// selectee keeps its leftovers (licensees awaiting Move) on its own node.
// headChild gives the head's position among the linearly ordered
// children.
func merge(head, selectee *DerivationNode, headChild int) *DerivationNode {
	headDone := head.withFeatures(nil)
	selecteeRest := selectee.withFeatures(selectee.Features[1:])
	children := []*DerivationNode{headDone, selecteeRest}
	if headChild == 1 {
		children = []*DerivationNode{selecteeRest, headDone}
	}
	return &DerivationNode{
		Op:        OpMerge,
		Index:     -1,
		Features:  head.Features[1:],
		Children:  children,
		HeadChild: headChild,
	}
}

type moveCandidate struct {
	path []int
	node *DerivationNode
}

// move applies the tree's licensor to the closest matching licensee. When
// several candidates match, only those at minimal depth survive; the rest
// are pruned as locality violations.
func move(tree *DerivationNode, result *Result) []*DerivationNode {
	trigger := tree.Features[0]
	var candidates []moveCandidate
	collectMovers(tree, trigger, nil, &candidates)
	if len(candidates) == 0 {
		return nil
	}
	minDepth := len(candidates[0].path)
	for _, c := range candidates[1:] {
		if len(c.path) < minDepth {
			minDepth = len(c.path)
		}
	}

	var moved []*DerivationNode
	for _, c := range candidates {
		if len(c.path) > minDepth {
			result.LocalityPrunes++
			if AllOut {
				log.Println("MG prune:", ErrLocalityViolation, "depth", len(c.path), "min", minDepth)
			}
			continue
		}
		mover := c.node.withFeatures(c.node.Features[1:])
		remnant := tree.replaceAt(c.path, trace()).withFeatures(nil)
		moved = append(moved, &DerivationNode{
			Op:        OpMove,
			Index:     -1,
			Features:  tree.Features[1:],
			Children:  []*DerivationNode{mover, remnant},
			HeadChild: 1,
		})
	}
	return moved
}

func collectMovers(n *DerivationNode, trigger Feature, path []int, out *[]moveCandidate) {
	for i, child := range n.Children {
		childPath := append(append([]int{}, path...), i)
		if len(child.Features) > 0 && trigger.Licenses(child.Features[0]) {
			*out = append(*out, moveCandidate{path: childPath, node: child})
		}
		collectMovers(child, trigger, childPath, out)
	}
}
