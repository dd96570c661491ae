package types

import "fmt"

// UnknownTokenError reports a token with no lexicon entries, identifying
// the token and its zero-based position in the input.
type UnknownTokenError struct {
	Token    string
	Position int
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown token %q at position %d", e.Token, e.Position)
}

// LexicalEntry assigns a category to a surface token. Entries are
// immutable once retrieved; engines instantiate fresh category copies per
// occurrence instead of mutating them.
type LexicalEntry struct {
	Token     string
	Category  *Category
	Weight    float64
	Semantics string
}

// Lexicon maps a surface token to its candidate entries. Implementations
// must be safe for concurrent readers; a token with no entries returns an
// empty slice, which parse treats as an unknown token, not an error.
type Lexicon interface {
	Lookup(token string) []LexicalEntry
}

// MapLexicon is the in-memory Lexicon used by the lexfile loader and by
// tests.
type MapLexicon map[string][]LexicalEntry

func (m MapLexicon) Lookup(token string) []LexicalEntry {
	return m[token]
}

func (m MapLexicon) Add(token string, category *Category) {
	m[token] = append(m[token], LexicalEntry{Token: token, Category: category, Weight: 1.0})
}

func (m MapLexicon) AddEntry(entry LexicalEntry) {
	m[entry.Token] = append(m[entry.Token], entry)
}
