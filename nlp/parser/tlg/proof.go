package tlg

import (
	"fmt"
	"strings"
)

// Proof rule names. L rules decompose an antecedent occurrence, R rules
// the succedent.
const (
	RuleAxiom  = "ax"
	RuleOverL  = "/L"
	RuleOverR  = "/R"
	RuleUnderL = "\\L"
	RuleUnderR = "\\R"
	RuleProdL  = "*L"
	RuleProdR  = "*R"
)

// ProofNode is one sequent in a cut-free proof: the ordered, non
// permutable antecedent, the succedent, the rule that concluded it and
// the premise proofs. Pos/End locate the decomposed occurrence and its
// argument segment for left rules; Split is the antecedent split point
// of *R.
type ProofNode struct {
	Antecedent []*LogicalType
	Succedent  *LogicalType
	Rule       string
	Premises   []*ProofNode
	Pos, End   int
	Split      int
}

func (p *ProofNode) Pretty() string {
	var sb strings.Builder
	p.pretty(&sb, 0)
	return sb.String()
}

func (p *ProofNode) pretty(sb *strings.Builder, depth int) {
	fmt.Fprintf(sb, "%s%s  [%s]\n", strings.Repeat("  ", depth), sequentKey(p.Antecedent, p.Succedent), p.Rule)
	for _, premise := range p.Premises {
		premise.pretty(sb, depth+1)
	}
}

type TermKind byte

const (
	TermVar TermKind = iota
	TermApp
	TermAbs
	TermPair
	TermLetPair
)

// LambdaTerm is the Curry-Howard label of a proof: the meaning recipe a
// downstream semantic component would evaluate. Construction only here;
// evaluation is out of scope.
type LambdaTerm struct {
	Kind       TermKind
	Name       string // TermVar, TermAbs binder, TermLetPair binders in Name/Name2
	Name2      string
	Fun, Arg   *LambdaTerm // TermApp; TermPair reuses Fun/Arg as the components
	Body       *LambdaTerm // TermAbs, TermLetPair
	PairSource *LambdaTerm // TermLetPair
}

func (t *LambdaTerm) String() string {
	switch t.Kind {
	case TermVar:
		return t.Name
	case TermApp:
		return "(" + t.Fun.String() + " " + t.Arg.String() + ")"
	case TermAbs:
		return "λ" + t.Name + "." + t.Body.String()
	case TermPair:
		return "⟨" + t.Fun.String() + "," + t.Arg.String() + "⟩"
	case TermLetPair:
		return "let ⟨" + t.Name + "," + t.Name2 + "⟩ = " + t.PairSource.String() + " in " + t.Body.String()
	}
	panic(fmt.Sprintf("Unknown term kind %d", t.Kind))
}

// Term reconstructs the proof's lambda label, naming the root hypotheses
// x0..xn-1 left to right.
func (p *ProofNode) Term() *LambdaTerm {
	env := make([]*LambdaTerm, len(p.Antecedent))
	for i := range env {
		env[i] = &LambdaTerm{Kind: TermVar, Name: fmt.Sprintf("x%d", i)}
	}
	counter := 0
	return p.term(env, &counter)
}

func freshVar(counter *int) string {
	name := fmt.Sprintf("y%d", *counter)
	*counter++
	return name
}

// term threads an environment assigning a lambda term to each antecedent
// position, mirrored through every rule's premise layout.
func (p *ProofNode) term(env []*LambdaTerm, counter *int) *LambdaTerm {
	switch p.Rule {
	case RuleAxiom:
		return env[0]
	case RuleOverR:
		// Γ ⊢ A/B from Γ,B ⊢ A.
		name := freshVar(counter)
		body := p.Premises[0].term(append(sliceCopy(env), &LambdaTerm{Kind: TermVar, Name: name}), counter)
		return &LambdaTerm{Kind: TermAbs, Name: name, Body: body}
	case RuleUnderR:
		// Γ ⊢ A\B from A,Γ ⊢ B.
		name := freshVar(counter)
		inner := append([]*LambdaTerm{{Kind: TermVar, Name: name}}, env...)
		return &LambdaTerm{Kind: TermAbs, Name: name, Body: p.Premises[0].term(inner, counter)}
	case RuleProdR:
		left := p.Premises[0].term(env[:p.Split], counter)
		right := p.Premises[1].term(env[p.Split:], counter)
		return &LambdaTerm{Kind: TermPair, Fun: left, Arg: right}
	case RuleOverL:
		// Γ,A/B,Δ,Θ ⊢ C from Δ ⊢ B and Γ,A,Θ ⊢ C.
		argTerm := p.Premises[0].term(env[p.Pos+1:p.End], counter)
		applied := &LambdaTerm{Kind: TermApp, Fun: env[p.Pos], Arg: argTerm}
		rest := concat(env[:p.Pos], applied, env[p.End:])
		return p.Premises[1].term(rest, counter)
	case RuleUnderL:
		// Γ,Δ,A\B,Θ ⊢ C from Δ ⊢ A and Γ,B,Θ ⊢ C.
		argTerm := p.Premises[0].term(env[p.End:p.Pos], counter)
		applied := &LambdaTerm{Kind: TermApp, Fun: env[p.Pos], Arg: argTerm}
		rest := concat(env[:p.End], applied, env[p.Pos+1:])
		return p.Premises[1].term(rest, counter)
	case RuleProdL:
		first, second := freshVar(counter), freshVar(counter)
		inner := make([]*LambdaTerm, 0, len(env)+1)
		inner = append(inner, env[:p.Pos]...)
		inner = append(inner, &LambdaTerm{Kind: TermVar, Name: first}, &LambdaTerm{Kind: TermVar, Name: second})
		inner = append(inner, env[p.Pos+1:]...)
		body := p.Premises[0].term(inner, counter)
		return &LambdaTerm{Kind: TermLetPair, Name: first, Name2: second, PairSource: env[p.Pos], Body: body}
	}
	panic("Unknown proof rule " + p.Rule)
}

func sliceCopy(env []*LambdaTerm) []*LambdaTerm {
	out := make([]*LambdaTerm, len(env))
	copy(out, env)
	return out
}

func concat(before []*LambdaTerm, mid *LambdaTerm, after []*LambdaTerm) []*LambdaTerm {
	out := make([]*LambdaTerm, 0, len(before)+1+len(after))
	out = append(out, before...)
	out = append(out, mid)
	out = append(out, after...)
	return out
}
