package parser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nlparsers/nlp/parser/mg"
	"nlparsers/nlp/parser/tlg"
	"nlparsers/nlp/types"
)

var ccgLexicon = types.MapLexicon{}

func init() {
	ccgLexicon.Add("Kim", types.MustParseCategory("NP"))
	ccgLexicon.Add("left", types.MustParseCategory("S\\NP"))
}

func TestCCGEndToEnd(t *testing.T) {
	cfg := Config{Formalism: CCG}
	cfg.CCG.Lexicon = ccgLexicon
	forest, err := Parse(context.Background(), []string{"Kim", "left"}, "S", cfg)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, "S", forest[0].CategoryString())
	assert.Equal(t, 1, forest[0].Count())
	assert.Equal(t, 1, forest.TreeCount())
}

func TestCCGNoDerivation(t *testing.T) {
	cfg := Config{Formalism: CCG}
	cfg.CCG.Lexicon = ccgLexicon
	_, err := Parse(context.Background(), []string{"left", "Kim"}, "S", cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoDerivation)
	assert.NotErrorIs(t, err, ErrSearchBound)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, NoDerivation, parseErr.Kind)
	assert.Greater(t, parseErr.Steps, 0)
}

func TestMGEndToEnd(t *testing.T) {
	lexicon := mg.Lexicon{}
	require.NoError(t, lexicon.Add("z", "=b +m +m c"))
	require.NoError(t, lexicon.Add("near", "=a b -m"))
	require.NoError(t, lexicon.Add("far", "a -m"))

	cfg := Config{Formalism: MG}
	cfg.MG.Lexicon = lexicon
	forest, err := Parse(context.Background(), []string{"z", "near", "far"}, "c", cfg)
	require.NoError(t, err)
	// Shortest-move fixes the order: the near phrase checks the first
	// trigger, the far leaf the second, and no other derivation survives.
	require.Len(t, forest, 1)
	assert.Equal(t, "c", forest[0].CategoryString())
}

func TestTLGEndToEnd(t *testing.T) {
	lexicon := tlg.Lexicon{}
	require.NoError(t, lexicon.Add("Kim", "np"))
	require.NoError(t, lexicon.Add("left", "np\\s"))

	cfg := Config{Formalism: TLG}
	cfg.TLG.Lexicon = lexicon
	forest, err := Parse(context.Background(), []string{"Kim", "left"}, "s", cfg)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, "s", forest[0].CategoryString())
	assert.Contains(t, forest[0].Pretty(), "(x1 x0)")
}

func TestFormalismsAgreeOnGrammaticality(t *testing.T) {
	ccgCfg := Config{Formalism: CCG}
	ccgCfg.CCG.Lexicon = ccgLexicon
	tlgCfg := Config{Formalism: TLG}
	tlgCfg.TLG.Lexicon = tlg.Lexicon{}
	require.NoError(t, tlgCfg.TLG.Lexicon.Add("Kim", "np"))
	require.NoError(t, tlgCfg.TLG.Lexicon.Add("left", "np\\s"))

	verdicts := func(cfg Config, goal string) []bool {
		good, errGood := Parse(context.Background(), []string{"Kim", "left"}, goal, cfg)
		_, errBad := Parse(context.Background(), []string{"left", "Kim"}, goal, cfg)
		return []bool{errGood == nil && len(good) == 1, errors.Is(errBad, ErrNoDerivation)}
	}
	if diff := cmp.Diff(verdicts(ccgCfg, "S"), verdicts(tlgCfg, "s")); diff != "" {
		t.Errorf("formalisms disagree (-ccg +tlg):\n%s", diff)
	}
}

func TestUnknownTokenSurfaced(t *testing.T) {
	cfg := Config{Formalism: CCG}
	cfg.CCG.Lexicon = ccgLexicon
	_, err := Parse(context.Background(), []string{"Kim", "zzyzx", "left"}, "S", cfg)
	require.ErrorIs(t, err, ErrUnknownToken)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "zzyzx", parseErr.Token)
	assert.Equal(t, 1, parseErr.Position)
}

func TestStepBudgetSurfacedAsSearchBound(t *testing.T) {
	lexicon := types.MapLexicon{}
	for token, category := range map[string]string{
		"the": "NP/N", "cat": "N", "chases": "(S\\NP)/NP", "dog": "N",
	} {
		lexicon.Add(token, types.MustParseCategory(category))
	}
	cfg := Config{Formalism: CCG, StepBudget: 1}
	cfg.CCG.Lexicon = lexicon
	_, err := Parse(context.Background(), []string{"the", "cat", "chases", "the", "dog"}, "S", cfg)
	require.ErrorIs(t, err, ErrSearchBound)
	assert.NotErrorIs(t, err, ErrNoDerivation)
}

func TestEmptyInput(t *testing.T) {
	for _, formalism := range []Formalism{CCG, MG, TLG} {
		cfg := Config{Formalism: formalism}
		cfg.CCG.Lexicon = ccgLexicon
		cfg.MG.Lexicon = mg.Lexicon{}
		cfg.TLG.Lexicon = tlg.Lexicon{}
		goal := map[Formalism]string{CCG: "S", MG: "c", TLG: "s"}[formalism]
		forest, err := Parse(context.Background(), nil, goal, cfg)
		assert.ErrorIs(t, err, ErrNoDerivation, formalism.String())
		assert.Empty(t, forest, formalism.String())
	}
}

func TestPartialForestOnSearchBound(t *testing.T) {
	// Two lexical assignments derive the goal; the budget admits the
	// first and interrupts the search before the second, so the forest
	// holds one derivation and the error says the result is incomplete.
	lexicon := mg.Lexicon{}
	require.NoError(t, lexicon.Add("x", "=n v"))
	require.NoError(t, lexicon.Add("x", "=m v"))
	require.NoError(t, lexicon.Add("y", "n"))
	require.NoError(t, lexicon.Add("y", "m"))

	cfg := Config{Formalism: MG}
	cfg.MG.Lexicon = lexicon
	cfg.MG.StepBudget = 5
	forest, err := Parse(context.Background(), []string{"x", "y"}, "v", cfg)
	require.ErrorIs(t, err, ErrSearchBound)
	require.Len(t, forest, 1)
	assert.Equal(t, "v", forest[0].CategoryString())
}

func TestTimeoutSurfacedAsSearchBound(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	cfg := Config{Formalism: CCG}
	cfg.CCG.Lexicon = ccgLexicon
	_, err := Parse(ctx, []string{"Kim", "left"}, "S", cfg)
	require.ErrorIs(t, err, ErrSearchBound)
}

func TestFormalismRoundTrip(t *testing.T) {
	for _, f := range []Formalism{CCG, MG, TLG} {
		parsed, err := ParseFormalism(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}
	_, err := ParseFormalism("hpsg")
	assert.Error(t, err)
}
