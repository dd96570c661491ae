package mg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nlparsers/nlp/types"
)

var baseLexicon = Lexicon{}

func init() {
	for word, features := range map[string]string{
		"the":    "=n d",
		"cat":    "n",
		"sleeps": "=d v",
		"Kim":    "d",
		"what":   "d -wh",
		"likes":  "=d =d v",
	} {
		if err := baseLexicon.Add(word, features); err != nil {
			panic(err)
		}
	}
}

func mgParse(t *testing.T, lexicon Lexicon, tokens []string, goal string, cfg Config) *Result {
	t.Helper()
	cfg.Lexicon = lexicon
	result, err := Parse(context.Background(), tokens, goal, cfg)
	require.NoError(t, err)
	return result
}

func TestParseFeatures(t *testing.T) {
	features, err := ParseFeatures("=d +wh c")
	require.NoError(t, err)
	assert.Equal(t, []Feature{{Selector, "d"}, {Licensor, "wh"}, {Categorial, "c"}}, features)

	_, err = ParseFeatures("")
	assert.Error(t, err)
	_, err = ParseFeatures("=d +")
	assert.Error(t, err)
}

func TestComplementMerge(t *testing.T) {
	result := mgParse(t, baseLexicon, []string{"the", "cat"}, "d", Config{})
	require.Len(t, result.Derivations, 1)
	root := result.Derivations[0]
	assert.Equal(t, OpMerge, root.Op)
	assert.Equal(t, 0, root.HeadChild)
	assert.Equal(t, []string{"the", "cat"}, root.Linearize())
}

func TestSpecifierMerge(t *testing.T) {
	result := mgParse(t, baseLexicon, []string{"the", "cat", "sleeps"}, "v", Config{})
	require.Len(t, result.Derivations, 1)
	root := result.Derivations[0]
	// The verb projects; its unchecked features were consumed down to v.
	assert.Equal(t, 1, root.HeadChild)
	assert.Equal(t, 0, root.UncheckedBelow())
}

func TestFeatureConsumption(t *testing.T) {
	result := mgParse(t, baseLexicon, []string{"the", "cat", "sleeps"}, "v", Config{})
	require.Len(t, result.Derivations, 1)
	root := result.Derivations[0]
	// Exactly the goal feature remains at the root, nothing below.
	require.Len(t, root.Features, 1)
	assert.Equal(t, Feature{Categorial, "v"}, root.Features[0])
	assert.Equal(t, 0, root.UncheckedBelow())
}

func TestWhMovementWithNullHead(t *testing.T) {
	comp := Item("", "=v +wh c")
	result := mgParse(t, baseLexicon, []string{"what", "Kim", "likes"}, "c",
		Config{NullHeads: []LexicalItem{comp}})
	require.Len(t, result.Derivations, 1)
	root := result.Derivations[0]
	assert.Equal(t, OpMove, root.Op)

	mover := root.Children[0]
	leaves := mover.Leaves()
	require.Len(t, leaves, 1)
	assert.Equal(t, "what", leaves[0].Item.Word)

	var traces int
	root.walk(func(n *DerivationNode) {
		if n.Op == OpTrace {
			traces++
		}
	})
	assert.Equal(t, 1, traces)
	assert.Equal(t, []string{"what", "Kim", "likes"}, root.Linearize())
}

// Locality: candidate movers at depths 1 and 2 under the same trigger.
// The first Move must take the closer phrase; the farther candidate is
// pruned there and only checked by a later trigger, or succeeds on its
// own once the closer licensee is gone from the lexicon.
func localityLexicon(zFeatures, nearFeatures string) Lexicon {
	lexicon := Lexicon{}
	for word, features := range map[string]string{
		"z":    zFeatures,
		"near": nearFeatures,
		"far":  "a -m",
	} {
		if err := lexicon.Add(word, features); err != nil {
			panic(err)
		}
	}
	return lexicon
}

func moverWords(node *DerivationNode) []string {
	var words []string
	for _, leaf := range node.Children[0].Leaves() {
		words = append(words, leaf.Item.Word)
	}
	return words
}

func TestShortestMoveLocality(t *testing.T) {
	lexicon := localityLexicon("=b +m +m c", "=a b -m")
	result := mgParse(t, lexicon, []string{"z", "near", "far"}, "c", Config{})
	require.Len(t, result.Derivations, 1)
	root := result.Derivations[0]
	require.Equal(t, OpMove, root.Op)
	assert.Equal(t, 0, root.UncheckedBelow())

	// The inner Move took the closer phrase; the farther leaf could only
	// leave on the second trigger.
	inner := root.Children[1]
	require.Equal(t, OpMove, inner.Op)
	assert.Contains(t, moverWords(inner), "near")
	assert.Equal(t, []string{"far"}, moverWords(root))
	assert.Greater(t, result.LocalityPrunes, 0)
}

func TestFartherMoverSucceedsWithoutCloser(t *testing.T) {
	result := mgParse(t, localityLexicon("=b +m c", "=a b"), []string{"z", "near", "far"}, "c", Config{})
	require.Len(t, result.Derivations, 1)
	root := result.Derivations[0]
	require.Equal(t, OpMove, root.Op)
	assert.Equal(t, []string{"far"}, moverWords(root))
	assert.Equal(t, 0, result.LocalityPrunes)
}

func TestCloserMoverBlocksFarther(t *testing.T) {
	// One trigger, two licensees: moving the closer phrase strands the
	// farther licensee below the root, so nothing is accepted.
	result := mgParse(t, localityLexicon("=b +m c", "=a b -m"), []string{"z", "near", "far"}, "c", Config{})
	assert.Empty(t, result.Derivations)
	assert.False(t, result.Bounded)
	assert.Greater(t, result.LocalityPrunes, 0)
}

func TestStrandedLicenseeRejected(t *testing.T) {
	lexicon := Lexicon{}
	require.NoError(t, lexicon.Add("a", "=b v"))
	require.NoError(t, lexicon.Add("b", "b -m"))
	result, err := Parse(context.Background(), []string{"a", "b"}, "v",
		Config{Lexicon: lexicon})
	require.NoError(t, err)
	assert.Empty(t, result.Derivations)
	assert.False(t, result.Bounded)
}

func TestDepthBoundDistinctFromNoDerivation(t *testing.T) {
	_, err := Parse(context.Background(), []string{"the", "cat", "sleeps"}, "v",
		Config{Lexicon: baseLexicon, MaxDerivationDepth: 1})
	assert.ErrorIs(t, err, ErrSearchBound)

	// Two selectors with no categorial feature to consume: search space
	// exhausts with nothing derived.
	result, err := Parse(context.Background(), []string{"the", "sleeps"}, "v",
		Config{Lexicon: baseLexicon})
	require.NoError(t, err)
	assert.Empty(t, result.Derivations)
	assert.False(t, result.Bounded)
}

func TestUnknownToken(t *testing.T) {
	_, err := Parse(context.Background(), []string{"the", "zzyzx"}, "d",
		Config{Lexicon: baseLexicon})
	var unknown *types.UnknownTokenError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "zzyzx", unknown.Token)
	assert.Equal(t, 1, unknown.Position)
}

func TestStepBudget(t *testing.T) {
	_, err := Parse(context.Background(), []string{"the", "cat", "sleeps"}, "v",
		Config{Lexicon: baseLexicon, StepBudget: 1})
	assert.ErrorIs(t, err, ErrSearchBound)
}
