package tlg

import (
	"context"
	"errors"
	"log"

	"nlparsers/nlp/types"
)

var AllOut = false

// ErrProofBound reports that proof search hit its depth or step bound
// before exhausting the space. Distinct from an empty result, which means
// no proof exists.
var ErrProofBound = errors.New("proof search bound exceeded")

const DefaultMaxProofDepth = 20

// Lexicon maps words to candidate Lambek types. Read-only while parsing.
type Lexicon map[string][]*LogicalType

func (l Lexicon) Lookup(word string) []*LogicalType {
	return l[word]
}

func (l Lexicon) Add(word, typeText string) error {
	t, err := ParseType(typeText)
	if err != nil {
		return err
	}
	l[word] = append(l[word], t)
	return nil
}

type Config struct {
	Lexicon Lexicon
	// MaxProofDepth bounds backward-chaining depth. The subformula
	// property already bounds any proof by the sequent's size; this is a
	// hard stop on top of it. Zero takes the default of 20.
	MaxProofDepth int
	EnableProduct bool
	// StepBudget bounds distinct sequents explored; 0 is unbounded.
	StepBudget int
}

type Result struct {
	Proofs  []*ProofNode
	Steps   int
	Bounded bool
}

// Parse proves tokens ⊢ goal for every assignment of lexical types to
// tokens. The antecedent is ordered and non-permutable; word order is
// carried by the sequent itself. Proofs whose lambda labels coincide are
// counted once.
func Parse(ctx context.Context, tokens []string, goal *LogicalType, cfg Config) (*Result, error) {
	maxDepth := cfg.MaxProofDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxProofDepth
	}
	assignments := [][]*LogicalType{{}}
	for i, token := range tokens {
		candidates := cfg.Lexicon.Lookup(token)
		if len(candidates) == 0 {
			return nil, &types.UnknownTokenError{Token: token, Position: i}
		}
		var next [][]*LogicalType
		for _, prefix := range assignments {
			for _, candidate := range candidates {
				extended := make([]*LogicalType, len(prefix), len(prefix)+1)
				copy(extended, prefix)
				next = append(next, append(extended, candidate))
			}
		}
		assignments = next
	}

	p := &prover{
		ctx:      ctx,
		maxDepth: maxDepth,
		budget:   cfg.StepBudget,
		product:  cfg.EnableProduct,
		memo:     make(map[string][]*ProofNode),
	}
	result := &Result{}
	seen := make(map[string]bool)
	for _, antecedent := range assignments {
		proofs, err := p.prove(antecedent, goal, 0)
		if err != nil {
			result.Steps = p.steps
			return result, err
		}
		for _, proof := range proofs {
			key := sequentKey(proof.Antecedent, proof.Succedent) + "#" + proof.Term().String()
			if !seen[key] {
				seen[key] = true
				result.Proofs = append(result.Proofs, proof)
			}
		}
	}
	result.Steps = p.steps
	result.Bounded = p.bounded
	if len(result.Proofs) == 0 && p.bounded {
		return result, ErrProofBound
	}
	return result, nil
}

// prover is the backward-chaining search. The memo table plays the role
// a chart plays for CCG: one entry per distinct sequent, shared by every
// proof that passes through it.
type prover struct {
	ctx      context.Context
	maxDepth int
	budget   int
	product  bool
	memo     map[string][]*ProofNode
	steps    int
	bounded  bool
	err      error
}

func (p *prover) prove(antecedent []*LogicalType, succedent *LogicalType, depth int) ([]*ProofNode, error) {
	if p.err == nil {
		p.err = p.ctx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}
	key := sequentKey(antecedent, succedent)
	if cached, exists := p.memo[key]; exists {
		return cached, nil
	}
	if depth >= p.maxDepth {
		p.bounded = true
		return nil, nil
	}
	p.steps++
	if p.budget > 0 && p.steps > p.budget {
		p.bounded = true
		return nil, nil
	}
	if AllOut {
		log.Println("TLG sequent", key)
	}

	var proofs []*ProofNode
	conclude := func(rule string, pos, end, split int, premises ...*ProofNode) {
		proofs = append(proofs, &ProofNode{
			Antecedent: antecedent,
			Succedent:  succedent,
			Rule:       rule,
			Premises:   premises,
			Pos:        pos,
			End:        end,
			Split:      split,
		})
	}

	// Axiom: identity on atoms only; identity on complex formulas is
	// derivable, admitting it would double count proofs.
	if len(antecedent) == 1 && antecedent[0].Kind == AtomicType && antecedent[0].Equal(succedent) {
		conclude(RuleAxiom, 0, 0, 0)
	}

	// Right rules.
	switch succedent.Kind {
	case Over:
		extended := append(sliceOfTypes(antecedent), succedent.B)
		for _, premise := range p.mustProve(extended, succedent.A, depth) {
			conclude(RuleOverR, 0, 0, 0, premise)
		}
	case Under:
		extended := append([]*LogicalType{succedent.A}, antecedent...)
		for _, premise := range p.mustProve(extended, succedent.B, depth) {
			conclude(RuleUnderR, 0, 0, 0, premise)
		}
	case Product:
		if p.product {
			for split := 1; split < len(antecedent); split++ {
				lefts := p.mustProve(antecedent[:split], succedent.A, depth)
				if len(lefts) == 0 {
					continue
				}
				for _, right := range p.mustProve(antecedent[split:], succedent.B, depth) {
					for _, left := range lefts {
						conclude(RuleProdR, 0, 0, split, left, right)
					}
				}
			}
		}
	}

	// Left rules, one per occurrence of a connective in the antecedent.
	for k, formula := range antecedent {
		switch formula.Kind {
		case Over:
			// Δ ⊢ B consumed to the right of the functor.
			for end := k + 2; end <= len(antecedent); end++ {
				args := p.mustProve(sliceOfTypes(antecedent[k+1:end]), formula.B, depth)
				if len(args) == 0 {
					continue
				}
				remainder := spliceTypes(antecedent, k, end, formula.A)
				for _, rest := range p.mustProve(remainder, succedent, depth) {
					for _, arg := range args {
						conclude(RuleOverL, k, end, 0, arg, rest)
					}
				}
			}
		case Under:
			// Δ ⊢ A consumed to the left of the functor.
			for start := 0; start < k; start++ {
				args := p.mustProve(sliceOfTypes(antecedent[start:k]), formula.A, depth)
				if len(args) == 0 {
					continue
				}
				remainder := spliceTypes(antecedent, start, k+1, formula.B)
				for _, rest := range p.mustProve(remainder, succedent, depth) {
					for _, arg := range args {
						conclude(RuleUnderL, k, start, 0, arg, rest)
					}
				}
			}
		case Product:
			if p.product {
				expanded := make([]*LogicalType, 0, len(antecedent)+1)
				expanded = append(expanded, antecedent[:k]...)
				expanded = append(expanded, formula.A, formula.B)
				expanded = append(expanded, antecedent[k+1:]...)
				for _, premise := range p.mustProve(expanded, succedent, depth) {
					conclude(RuleProdL, k, 0, 0, premise)
				}
			}
		}
	}

	if p.err != nil {
		return nil, p.err
	}
	p.memo[key] = proofs
	return proofs, nil
}

// mustProve runs a premise search, parking any error on the prover so the
// enclosing prove call neither memoizes a truncated result nor keeps
// searching.
func (p *prover) mustProve(antecedent []*LogicalType, succedent *LogicalType, depth int) []*ProofNode {
	proofs, err := p.prove(antecedent, succedent, depth+1)
	if err != nil {
		p.err = err
		return nil
	}
	return proofs
}

func sliceOfTypes(ts []*LogicalType) []*LogicalType {
	out := make([]*LogicalType, len(ts))
	copy(out, ts)
	return out
}

// spliceTypes replaces antecedent[from:to] with the single formula.
func spliceTypes(antecedent []*LogicalType, from, to int, formula *LogicalType) []*LogicalType {
	out := make([]*LogicalType, 0, len(antecedent)-(to-from)+1)
	out = append(out, antecedent[:from]...)
	out = append(out, formula)
	out = append(out, antecedent[to:]...)
	return out
}
