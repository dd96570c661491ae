package ccg

import (
	"context"

	"nlparsers/alg/chart"
	"nlparsers/nlp/types"
)

const (
	DefaultCompositionDegree = 2
	DefaultRaisingTarget     = "S"
)

type Config struct {
	Lexicon types.Lexicon
	// MaxCompositionDegree bounds generalized composition; degree 1 is
	// plain composition. Zero takes the default of 2.
	MaxCompositionDegree int
	EnableTypeRaising    bool
	// TypeRaisingTargets lists the result atoms a raised category may
	// seek. Empty takes {S}.
	TypeRaisingTargets []string
	EnableSubstitution bool
	// Morphosyntax keeps feature structures on categories; when false,
	// lexical instantiation strips them and combination is purely
	// categorial.
	Morphosyntax bool
	StepBudget   int
	Parallel     bool
}

func (cfg *Config) withDefaults() Config {
	out := *cfg
	if out.MaxCompositionDegree == 0 {
		out.MaxCompositionDegree = DefaultCompositionDegree
	}
	if len(out.TypeRaisingTargets) == 0 {
		out.TypeRaisingTargets = []string{DefaultRaisingTarget}
	}
	return out
}

type Result struct {
	Chart *chart.Result
	Roots []*chart.Edge
	Steps int
}

// Parse derives all packed goal-spanning analyses of the token sequence.
// Unknown tokens return *types.UnknownTokenError; an exhausted step
// budget returns chart.ErrBudgetExceeded alongside whatever goal roots
// completed before the bound. An empty Roots with a nil error means the
// search space was fully explored and contains no derivation.
func Parse(ctx context.Context, tokens []string, goal *types.Category, cfg Config) (*Result, error) {
	conf := cfg.withDefaults()
	fresh := &types.Freshener{}
	var seeds []*chart.Edge
	for i, token := range tokens {
		entries := conf.Lexicon.Lookup(token)
		if len(entries) == 0 {
			return nil, &types.UnknownTokenError{Token: token, Position: i}
		}
		for _, entry := range entries {
			cat := entry.Category.Freshen(fresh)
			if !conf.Morphosyntax {
				cat = cat.StripFeatures()
			}
			seeds = append(seeds, chart.Lexical(i, entry, cat))
		}
	}
	// The goal shares the freshener so its variable ids never collide
	// with ids handed to the seeds.
	rules := &ruleSet{conf: conf, goal: goal.Freshen(fresh)}
	result, err := chart.Parse(ctx, len(tokens), seeds, rules, chart.Config{
		StepBudget: conf.StepBudget,
		Parallel:   conf.Parallel,
	})
	return &Result{Chart: result, Roots: result.Roots, Steps: result.Steps}, err
}

// ruleSet plugs the combinators into the chart scheduler. Type raising
// follows the normal-form restriction: a category is raised only when
// plain application between the pair cannot proceed, and the raised
// category must immediately feed composition or application. Unrestricted
// raising only multiplies derivations with identical meaning.
type ruleSet struct {
	conf Config
	goal *types.Category
}

func (r *ruleSet) Combine(left, right *chart.Edge) []chart.Derived {
	var out []chart.Derived
	lc, rc := left.Category, right.Category

	if cat, err := ApplyForward(lc, rc); err == nil {
		out = append(out, chart.Derived{Category: cat, Rule: ">"})
	}
	if cat, err := ApplyBackward(lc, rc); err == nil {
		out = append(out, chart.Derived{Category: cat, Rule: "<"})
	}
	applied := len(out) > 0

	for degree := 1; degree <= r.conf.MaxCompositionDegree; degree++ {
		if cat, err := ComposeForward(lc, rc, degree); err == nil {
			out = append(out, chart.Derived{Category: cat, Rule: composeRuleName(true, degree)})
		}
		if cat, err := ComposeBackward(lc, rc, degree); err == nil {
			out = append(out, chart.Derived{Category: cat, Rule: composeRuleName(false, degree)})
		}
	}

	if r.conf.EnableSubstitution {
		if cat, err := SubstituteForward(lc, rc); err == nil {
			out = append(out, chart.Derived{Category: cat, Rule: ">S"})
		}
		if cat, err := SubstituteBackward(lc, rc); err == nil {
			out = append(out, chart.Derived{Category: cat, Rule: "<S"})
		}
	}

	if r.conf.EnableTypeRaising && !applied {
		out = append(out, r.raisedCombinations(lc, rc)...)
	}
	return out
}

func (r *ruleSet) raisedCombinations(lc, rc *types.Category) []chart.Derived {
	var out []chart.Derived
	for _, target := range r.conf.TypeRaisingTargets {
		if raised, err := TypeRaiseForward(lc, target); err == nil {
			if cat, err := ApplyForward(raised, rc); err == nil {
				out = append(out, chart.Derived{Category: cat, Rule: ">T >"})
			}
			for degree := 1; degree <= r.conf.MaxCompositionDegree; degree++ {
				if cat, err := ComposeForward(raised, rc, degree); err == nil {
					out = append(out, chart.Derived{Category: cat, Rule: ">T " + composeRuleName(true, degree)})
				}
			}
		}
		if raised, err := TypeRaiseBackward(rc, target); err == nil {
			if cat, err := ApplyBackward(lc, raised); err == nil {
				out = append(out, chart.Derived{Category: cat, Rule: "<T <"})
			}
			for degree := 1; degree <= r.conf.MaxCompositionDegree; degree++ {
				if cat, err := ComposeBackward(lc, raised, degree); err == nil {
					out = append(out, chart.Derived{Category: cat, Rule: "<T " + composeRuleName(false, degree)})
				}
			}
		}
	}
	return out
}

func (r *ruleSet) Goal(cat *types.Category) bool {
	_, err := types.Unify(cat, r.goal, make(types.Bindings))
	return err == nil
}
