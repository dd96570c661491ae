package chart

import (
	"nlparsers/nlp/types"
	"nlparsers/util"
)

// Edge is one chart entry: a category derived over the half-open token
// span [Start,End). Edges with the same span and the same category
// signature are packed: the chart keeps one Edge and appends alternative
// derivation histories to it, so ambiguity grows by sharing instead of
// duplication. Edges are never mutated after all wavefronts containing
// their span length have completed.
type Edge struct {
	Start, End  int
	Category    *types.Category
	Derivations []Derivation
	Weight      float64
}

// Derivation is one way of building an Edge: a lexical assignment (nil
// children) or a rule combining one or two child edges.
type Derivation struct {
	Rule  string
	Left  *Edge
	Right *Edge
	Entry *types.LexicalEntry
}

func Lexical(start int, entry types.LexicalEntry, cat *types.Category) *Edge {
	e := entry
	return &Edge{
		Start:       start,
		End:         start + 1,
		Category:    cat,
		Weight:      entry.Weight,
		Derivations: []Derivation{{Rule: "lex", Entry: &e}},
	}
}

func (e *Edge) Span() (int, int) {
	return e.Start, e.End
}

func (e *Edge) IsLexical() bool {
	return len(e.Derivations) > 0 && e.Derivations[0].Entry != nil
}

// cell holds the packed edges of one span, indexed by interned category
// signature.
type cell struct {
	edges []*Edge
	bySig map[int]*Edge
}

// Table is the chart proper: cells indexed by [start][end]. One Table is
// owned by one parse invocation; within a wavefront, parallel workers
// touch disjoint cells, so no cell-level locking exists.
type Table struct {
	n          int
	cells      [][]cell
	signatures *util.EnumSet
}

func NewTable(n int) *Table {
	cells := make([][]cell, n)
	for i := range cells {
		cells[i] = make([]cell, n+1)
	}
	return &Table{n: n, cells: cells, signatures: util.NewEnumSet(n * 4)}
}

func (t *Table) Cell(start, end int) []*Edge {
	return t.cells[start][end].edges
}

// Insert adds an edge at its span, packing it with an existing edge of
// equivalent category when one is present. Reports whether a new
// representative edge was created.
func (t *Table) Insert(e *Edge) (*Edge, bool) {
	c := &t.cells[e.Start][e.End]
	if c.bySig == nil {
		c.bySig = make(map[int]*Edge)
	}
	sig, _ := t.signatures.Add(e.Category.Signature())
	if packed, exists := c.bySig[sig]; exists {
		packed.Derivations = append(packed.Derivations, e.Derivations...)
		return packed, false
	}
	c.bySig[sig] = e
	c.edges = append(c.edges, e)
	return e, true
}

// TreeCount is the number of distinct derivation trees packed below the
// edge.
func (e *Edge) TreeCount() int {
	count := 0
	for _, d := range e.Derivations {
		switch {
		case d.Entry != nil:
			count++
		case d.Right == nil:
			count += d.Left.TreeCount()
		default:
			count += d.Left.TreeCount() * d.Right.TreeCount()
		}
	}
	return count
}
