package parser

import (
	"strings"

	"nlparsers/alg/chart"
	"nlparsers/nlp/parser/mg"
	"nlparsers/nlp/parser/tlg"
)

// Derivation is one root of the returned forest: a packed chart edge for
// CCG, a derivation tree for MG, a proof for TLG.
type Derivation interface {
	// CategoryString is the root category in the formalism's notation.
	CategoryString() string
	// Count is the number of distinct derivations packed under this
	// root.
	Count() int
	// Pretty renders the derivation as an indented tree.
	Pretty() string
}

type Forest []Derivation

// TreeCount totals the packed derivations across all roots.
func (f Forest) TreeCount() int {
	count := 0
	for _, d := range f {
		count += d.Count()
	}
	return count
}

type ccgDerivation struct {
	edge *chart.Edge
}

func (d ccgDerivation) CategoryString() string {
	return d.edge.Category.String()
}

func (d ccgDerivation) Count() int {
	return d.edge.TreeCount()
}

func (d ccgDerivation) Pretty() string {
	return d.edge.Pretty()
}

type mgDerivation struct {
	root *mg.DerivationNode
}

func (d mgDerivation) CategoryString() string {
	parts := make([]string, len(d.root.Features))
	for i, f := range d.root.Features {
		parts[i] = f.String()
	}
	return strings.Join(parts, " ")
}

func (d mgDerivation) Count() int {
	return 1
}

func (d mgDerivation) Pretty() string {
	return d.root.Pretty()
}

type tlgDerivation struct {
	proof *tlg.ProofNode
}

func (d tlgDerivation) CategoryString() string {
	return d.proof.Succedent.String()
}

func (d tlgDerivation) Count() int {
	return 1
}

func (d tlgDerivation) Pretty() string {
	return d.proof.Pretty() + "term: " + d.proof.Term().String() + "\n"
}
