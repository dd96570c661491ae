package ccg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nlparsers/alg/chart"
	"nlparsers/nlp/types"
)

var (
	goalS       = types.Atomic("S")
	testLexicon = types.MapLexicon{}
)

func init() {
	for token, category := range map[string]string{
		"Kim":    "NP",
		"left":   "S\\NP",
		"the":    "NP/N",
		"cat":    "N",
		"dog":    "N",
		"sleeps": "S\\NP",
		"chases": "(S\\NP)/NP",
	} {
		testLexicon.Add(token, types.MustParseCategory(category))
	}
}

func parseTokens(t *testing.T, tokens []string, cfg Config) *Result {
	t.Helper()
	if cfg.Lexicon == nil {
		cfg.Lexicon = testLexicon
	}
	result, err := Parse(context.Background(), tokens, goalS, cfg)
	require.NoError(t, err)
	return result
}

func TestBackwardApplication(t *testing.T) {
	result := parseTokens(t, []string{"Kim", "left"}, Config{})
	require.Len(t, result.Roots, 1)
	root := result.Roots[0]
	assert.Equal(t, "S", root.Category.String())
	assert.Equal(t, 1, root.TreeCount())
	assert.Equal(t, "<", root.Derivations[0].Rule)
}

func TestReversedOrderHasNoDerivation(t *testing.T) {
	result := parseTokens(t, []string{"left", "Kim"}, Config{})
	assert.Empty(t, result.Roots)
}

func TestTransitiveSentence(t *testing.T) {
	result := parseTokens(t, []string{"the", "cat", "chases", "the", "dog"}, Config{})
	require.Len(t, result.Roots, 1)
	assert.Equal(t, 1, result.Roots[0].TreeCount())
}

func TestApplicationSoundness(t *testing.T) {
	cases := []struct {
		name, left, right, want string
		forward                 bool
	}{
		{"forward", "NP/N", "N", "NP", true},
		{"backward", "NP", "S\\NP", "S", false},
		{"forward nested arg", "S/(S\\NP)", "S\\NP", "S", true},
		{"result under substitution", "S[form=?f]\\NP", "", "", false},
	}
	for _, c := range cases[:3] {
		t.Run(c.name, func(t *testing.T) {
			left, right := types.MustParseCategory(c.left), types.MustParseCategory(c.right)
			var cat *types.Category
			var err error
			if c.forward {
				cat, err = ApplyForward(left, right)
			} else {
				cat, err = ApplyBackward(left, right)
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, cat.String())
		})
	}

	t.Run("wrong direction", func(t *testing.T) {
		_, err := ApplyForward(types.MustParseCategory("S\\NP"), types.Atomic("NP"))
		assert.ErrorIs(t, err, ErrDirectionalMismatch)
	})
	t.Run("argument mismatch", func(t *testing.T) {
		_, err := ApplyForward(types.MustParseCategory("NP/N"), types.Atomic("S"))
		assert.ErrorIs(t, err, types.ErrUnification)
	})
	t.Run("substitution flows into result", func(t *testing.T) {
		functor := types.MustParseCategory("S[agr=?x]\\NP[agr=?x]")
		cat, err := ApplyBackward(types.MustParseCategory("NP[agr=sg]"), functor)
		require.NoError(t, err)
		assert.Equal(t, types.AtomValue("sg"), cat.Features["agr"])
	})
}

func TestGeneralizedComposition(t *testing.T) {
	t.Run("degree 1", func(t *testing.T) {
		cat, err := ComposeForward(
			types.MustParseCategory("X/Y"), types.MustParseCategory("Y/Z"), 1)
		require.NoError(t, err)
		assert.Equal(t, "X/Z", cat.String())
	})
	t.Run("degree 2", func(t *testing.T) {
		cat, err := ComposeForward(
			types.MustParseCategory("X/Y"), types.MustParseCategory("(Y/Z1)/Z2"), 2)
		require.NoError(t, err)
		assert.Equal(t, "(X/Z1)/Z2", cat.String())
	})
	t.Run("backward degree 1", func(t *testing.T) {
		cat, err := ComposeBackward(
			types.MustParseCategory("Y\\Z"), types.MustParseCategory("X\\Y"), 1)
		require.NoError(t, err)
		assert.Equal(t, "X\\Z", cat.String())
	})
	t.Run("crossed slash rejected", func(t *testing.T) {
		_, err := ComposeForward(
			types.MustParseCategory("X/Y"), types.MustParseCategory("Y\\Z"), 1)
		assert.ErrorIs(t, err, ErrDirectionalMismatch)
	})
}

func TestSubstitutionCombinator(t *testing.T) {
	cat, err := SubstituteForward(
		types.MustParseCategory("(X/Y)/Z"), types.MustParseCategory("Y/Z"))
	require.NoError(t, err)
	assert.Equal(t, "X/Z", cat.String())

	cat, err = SubstituteBackward(
		types.MustParseCategory("Y\\Z"), types.MustParseCategory("(X\\Y)\\Z"))
	require.NoError(t, err)
	assert.Equal(t, "X\\Z", cat.String())
}

func goalTreeCount(result *Result) int {
	count := 0
	for _, root := range result.Roots {
		count += root.TreeCount()
	}
	return count
}

func TestTypeRaisingOnlyAddsDerivations(t *testing.T) {
	tokens := []string{"Kim", "chases", "the", "dog"}
	without := parseTokens(t, tokens, Config{})
	with := parseTokens(t, tokens, Config{EnableTypeRaising: true})
	assert.GreaterOrEqual(t, goalTreeCount(with), goalTreeCount(without))
	assert.Greater(t, goalTreeCount(without), 0)

	// The raised analysis composes Kim into S/NP before consuming the
	// object, an analysis plain application cannot produce.
	assert.Greater(t, goalTreeCount(with), goalTreeCount(without))
}

// naiveDerive enumerates every bracketing recursively and applies the
// rule set at each split, with no chart and no packing. The chart must
// agree on the count of goal derivations.
func naiveDerive(rules *ruleSet, cats []*types.Category) []*types.Category {
	if len(cats) == 1 {
		return cats
	}
	var out []*types.Category
	for split := 1; split < len(cats); split++ {
		for _, left := range naiveDerive(rules, cats[:split]) {
			for _, right := range naiveDerive(rules, cats[split:]) {
				le := &chart.Edge{Category: left}
				re := &chart.Edge{Category: right}
				for _, derived := range rules.Combine(le, re) {
					out = append(out, derived.Category)
				}
			}
		}
	}
	return out
}

func TestChartMatchesNaiveEnumeration(t *testing.T) {
	tokens := []string{"Kim", "chases", "the", "dog"}
	cfg := Config{EnableTypeRaising: true, Lexicon: testLexicon}
	conf := cfg.withDefaults()
	rules := &ruleSet{conf: conf, goal: goalS}

	cats := make([]*types.Category, len(tokens))
	for i, token := range tokens {
		cats[i] = testLexicon.Lookup(token)[0].Category
	}
	naiveGoals := 0
	for _, cat := range naiveDerive(rules, cats) {
		if rules.Goal(cat) {
			naiveGoals++
		}
	}

	result := parseTokens(t, tokens, cfg)
	assert.Equal(t, naiveGoals, goalTreeCount(result))
}

func TestMorphosyntaxToggle(t *testing.T) {
	lexicon := types.MapLexicon{}
	lexicon.Add("dogs", types.MustParseCategory("NP[num=pl]"))
	lexicon.Add("sleeps", types.MustParseCategory("S\\NP[num=sg]"))

	mismatch, err := Parse(context.Background(), []string{"dogs", "sleeps"}, goalS,
		Config{Lexicon: lexicon, Morphosyntax: true})
	require.NoError(t, err)
	assert.Empty(t, mismatch.Roots)

	stripped, err := Parse(context.Background(), []string{"dogs", "sleeps"}, goalS,
		Config{Lexicon: lexicon})
	require.NoError(t, err)
	assert.Len(t, stripped.Roots, 1)
}

func TestGoalVariablesDisjointFromSeeds(t *testing.T) {
	// The goal's parsed variable ids start at zero, like the lexicon's.
	// Without renaming, the goal's ?u would alias the seed's ?v and the
	// two bindings below would clash.
	lexicon := types.MapLexicon{}
	lexicon.Add("shared", types.MustParseCategory("S[a=pl,b=?v]"))
	goal := types.MustParseCategory("S[a=?u,b=sg]")

	result, err := Parse(context.Background(), []string{"shared"}, goal,
		Config{Lexicon: lexicon, Morphosyntax: true})
	require.NoError(t, err)
	assert.Len(t, result.Roots, 1)
}

func TestEmptyInput(t *testing.T) {
	result, err := Parse(context.Background(), nil, goalS, Config{Lexicon: testLexicon})
	require.NoError(t, err)
	assert.Empty(t, result.Roots)
}

func TestUnknownToken(t *testing.T) {
	_, err := Parse(context.Background(), []string{"Kim", "zzyzx"}, goalS,
		Config{Lexicon: testLexicon})
	var unknown *types.UnknownTokenError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "zzyzx", unknown.Token)
	assert.Equal(t, 1, unknown.Position)
}

func TestStepBudget(t *testing.T) {
	_, err := Parse(context.Background(), []string{"the", "cat", "chases", "the", "dog"}, goalS,
		Config{Lexicon: testLexicon, StepBudget: 1})
	assert.ErrorIs(t, err, chart.ErrBudgetExceeded)
}
