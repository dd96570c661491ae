package parser

import (
	"context"
	"errors"
	"fmt"

	"nlparsers/alg/chart"
	"nlparsers/nlp/parser/ccg"
	"nlparsers/nlp/parser/mg"
	"nlparsers/nlp/parser/tlg"
	"nlparsers/nlp/types"
)

// Formalism is a closed enum: the set of grammars is fixed at build time
// and dispatch is an exhaustive switch, not open-ended polymorphism.
type Formalism byte

const (
	CCG Formalism = iota
	MG
	TLG
)

func (f Formalism) String() string {
	switch f {
	case CCG:
		return "ccg"
	case MG:
		return "mg"
	case TLG:
		return "tlg"
	}
	return fmt.Sprintf("formalism(%d)", f)
}

func ParseFormalism(s string) (Formalism, error) {
	switch s {
	case "ccg":
		return CCG, nil
	case "mg":
		return MG, nil
	case "tlg":
		return TLG, nil
	}
	return 0, fmt.Errorf("unknown formalism %q", s)
}

// Config selects the formalism and carries its engine configuration.
// StepBudget applies to whichever engine runs; zero is unbounded.
type Config struct {
	Formalism  Formalism
	StepBudget int
	CCG        ccg.Config
	MG         mg.Config
	TLG        tlg.Config
}

// Parse derives the token sequence under the configured formalism. The
// goal is formalism notation: a category for CCG, a categorial feature
// name for MG, a Lambek type for TLG. The returned forest is constructed
// fresh per call and owned by the caller; failures are *ParseError.
// When a search bound interrupts an exploration that already found
// derivations, the partial forest is returned together with a
// SearchBoundExceeded error, never silently truncated.
func Parse(ctx context.Context, tokens []string, goal string, cfg Config) (Forest, error) {
	switch cfg.Formalism {
	case CCG:
		return parseCCG(ctx, tokens, goal, cfg)
	case MG:
		return parseMG(ctx, tokens, goal, cfg)
	case TLG:
		return parseTLG(ctx, tokens, goal, cfg)
	}
	return nil, fmt.Errorf("unknown formalism %q", cfg.Formalism)
}

func parseCCG(ctx context.Context, tokens []string, goal string, cfg Config) (Forest, error) {
	goalCat, err := types.ParseCategory(goal)
	if err != nil {
		return nil, err
	}
	engineCfg := cfg.CCG
	if engineCfg.StepBudget == 0 {
		engineCfg.StepBudget = cfg.StepBudget
	}
	result, err := ccg.Parse(ctx, tokens, goalCat, engineCfg)
	if err != nil {
		var forest Forest
		if result != nil {
			for _, root := range result.Roots {
				forest = append(forest, ccgDerivation{edge: root})
			}
		}
		return forest, failure(err, stepsOf(result))
	}
	if len(result.Roots) == 0 {
		return nil, &ParseError{Kind: NoDerivation, Steps: result.Steps}
	}
	forest := make(Forest, len(result.Roots))
	for i, root := range result.Roots {
		forest[i] = ccgDerivation{edge: root}
	}
	return forest, nil
}

func parseMG(ctx context.Context, tokens []string, goal string, cfg Config) (Forest, error) {
	engineCfg := cfg.MG
	if engineCfg.StepBudget == 0 {
		engineCfg.StepBudget = cfg.StepBudget
	}
	result, err := mg.Parse(ctx, tokens, goal, engineCfg)
	if err != nil {
		steps := 0
		if result != nil {
			steps = result.Steps
		}
		return nil, failure(err, steps)
	}
	if len(result.Derivations) == 0 {
		return nil, &ParseError{Kind: NoDerivation, Steps: result.Steps}
	}
	forest := make(Forest, len(result.Derivations))
	for i, root := range result.Derivations {
		forest[i] = mgDerivation{root: root}
	}
	if result.Bounded {
		return forest, &ParseError{Kind: SearchBoundExceeded, Steps: result.Steps, Cause: mg.ErrSearchBound}
	}
	return forest, nil
}

func parseTLG(ctx context.Context, tokens []string, goal string, cfg Config) (Forest, error) {
	goalType, err := tlg.ParseType(goal)
	if err != nil {
		return nil, err
	}
	engineCfg := cfg.TLG
	if engineCfg.StepBudget == 0 {
		engineCfg.StepBudget = cfg.StepBudget
	}
	result, err := tlg.Parse(ctx, tokens, goalType, engineCfg)
	if err != nil {
		steps := 0
		if result != nil {
			steps = result.Steps
		}
		return nil, failure(err, steps)
	}
	if len(result.Proofs) == 0 {
		return nil, &ParseError{Kind: NoDerivation, Steps: result.Steps}
	}
	forest := make(Forest, len(result.Proofs))
	for i, proof := range result.Proofs {
		forest[i] = tlgDerivation{proof: proof}
	}
	if result.Bounded {
		return forest, &ParseError{Kind: SearchBoundExceeded, Steps: result.Steps, Cause: tlg.ErrProofBound}
	}
	return forest, nil
}

func stepsOf(result *ccg.Result) int {
	if result == nil {
		return 0
	}
	return result.Steps
}

// failure maps engine-level errors onto the caller-visible taxonomy.
func failure(err error, steps int) error {
	var unknown *types.UnknownTokenError
	switch {
	case errors.As(err, &unknown):
		return &ParseError{
			Kind:     UnknownToken,
			Token:    unknown.Token,
			Position: unknown.Position,
			Cause:    err,
		}
	case errors.Is(err, chart.ErrBudgetExceeded),
		errors.Is(err, mg.ErrSearchBound),
		errors.Is(err, tlg.ErrProofBound),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return &ParseError{Kind: SearchBoundExceeded, Steps: steps, Cause: err}
	}
	return err
}
