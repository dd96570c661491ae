package tlg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nlparsers/nlp/types"
)

var (
	goalS       = AtomType("s")
	testLexicon = Lexicon{}
)

func init() {
	for word, typeText := range map[string]string{
		"Kim":   "np",
		"left":  "np\\s",
		"likes": "(np\\s)/np",
		"the":   "np/n",
		"cat":   "n",
	} {
		if err := testLexicon.Add(word, typeText); err != nil {
			panic(err)
		}
	}
}

func tlgParse(t *testing.T, tokens []string, goal *LogicalType, cfg Config) *Result {
	t.Helper()
	if cfg.Lexicon == nil {
		cfg.Lexicon = testLexicon
	}
	result, err := Parse(context.Background(), tokens, goal, cfg)
	require.NoError(t, err)
	return result
}

func TestTypeRoundTrip(t *testing.T) {
	for _, text := range []string{"np", "np\\s", "(np\\s)/np", "np*(np\\s)", "s/(np\\s)"} {
		t.Run(text, func(t *testing.T) {
			parsed, err := ParseType(text)
			require.NoError(t, err)
			reparsed, err := ParseType(parsed.String())
			require.NoError(t, err)
			assert.True(t, parsed.Equal(reparsed))
		})
	}
}

func TestBackwardProof(t *testing.T) {
	result := tlgParse(t, []string{"Kim", "left"}, goalS, Config{})
	require.Len(t, result.Proofs, 1)
	proof := result.Proofs[0]
	assert.Equal(t, RuleUnderL, proof.Rule)
	assert.Equal(t, "(x1 x0)", proof.Term().String())
}

func TestReversedOrderHasNoProof(t *testing.T) {
	// The antecedent is non-permutable: np\s, np ⊢ s is not derivable.
	result := tlgParse(t, []string{"left", "Kim"}, goalS, Config{})
	assert.Empty(t, result.Proofs)
	assert.False(t, result.Bounded)
}

func TestTransitiveProofNormalForm(t *testing.T) {
	result := tlgParse(t, []string{"Kim", "likes", "the", "cat"}, goalS, Config{})
	// Left rules commute into several proof trees of one reading; the
	// forest counts the reading once, by its lambda label.
	require.Len(t, result.Proofs, 1)
	term := result.Proofs[0].Term()
	// Outermost application: the verb phrase applied to the subject.
	require.Equal(t, TermApp, term.Kind)
	assert.Equal(t, "x0", term.Arg.String())
}

func TestHypotheticalReasoning(t *testing.T) {
	result := tlgParse(t, []string{"Kim"}, MustParseType("s/(np\\s)"), Config{})
	require.Len(t, result.Proofs, 1)
	proof := result.Proofs[0]
	assert.Equal(t, RuleOverR, proof.Rule)
	assert.Equal(t, "λy0.(y0 x0)", proof.Term().String())
}

func TestProductRight(t *testing.T) {
	result := tlgParse(t, []string{"Kim", "left"}, MustParseType("np*(np\\s)"),
		Config{EnableProduct: true})
	require.Len(t, result.Proofs, 1)
	assert.Equal(t, "⟨x0,x1⟩", result.Proofs[0].Term().String())
}

func TestProductLeft(t *testing.T) {
	lexicon := Lexicon{}
	require.NoError(t, lexicon.Add("kimleft", "np*(np\\s)"))
	result := tlgParse(t, []string{"kimleft"}, goalS, Config{Lexicon: lexicon, EnableProduct: true})
	require.Len(t, result.Proofs, 1)
	assert.Equal(t, RuleProdL, result.Proofs[0].Rule)
	assert.Equal(t, "let ⟨y0,y1⟩ = x0 in (y1 y0)", result.Proofs[0].Term().String())
}

func TestProductDisabled(t *testing.T) {
	lexicon := Lexicon{}
	require.NoError(t, lexicon.Add("kimleft", "np*(np\\s)"))
	result := tlgParse(t, []string{"kimleft"}, goalS, Config{Lexicon: lexicon})
	assert.Empty(t, result.Proofs)
}

func TestTerminationOnUnprovableSequent(t *testing.T) {
	// Every rule strictly shrinks the sequent, so even a hopeless goal
	// exhausts quickly.
	result := tlgParse(t, []string{"likes", "likes"}, goalS, Config{})
	assert.Empty(t, result.Proofs)
	assert.False(t, result.Bounded)
	assert.Less(t, result.Steps, 1000)
}

func TestProofBoundDistinctFromNoProof(t *testing.T) {
	_, err := Parse(context.Background(), []string{"Kim", "likes", "the", "cat"}, goalS,
		Config{Lexicon: testLexicon, MaxProofDepth: 1})
	assert.ErrorIs(t, err, ErrProofBound)
}

func TestUnknownToken(t *testing.T) {
	_, err := Parse(context.Background(), []string{"Kim", "zzyzx"}, goalS,
		Config{Lexicon: testLexicon})
	var unknown *types.UnknownTokenError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 1, unknown.Position)
}
