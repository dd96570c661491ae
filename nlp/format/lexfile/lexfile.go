// Package lexfile reads lexicons from YAML documents. One file declares
// a formalism and its entries; the category field holds that formalism's
// notation (a CCG category, an MG feature bundle or a Lambek type).
package lexfile

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"nlparsers/nlp/parser/mg"
	"nlparsers/nlp/parser/tlg"
	"nlparsers/nlp/types"
)

type Entry struct {
	Token     string  `yaml:"token"`
	Category  string  `yaml:"category"`
	Weight    float64 `yaml:"weight,omitempty"`
	Semantics string  `yaml:"semantics,omitempty"`
}

type File struct {
	Formalism string  `yaml:"formalism"`
	Entries   []Entry `yaml:"entries"`
	// NullHeads lists feature bundles of phonetically empty items;
	// meaningful for MG lexicons only.
	NullHeads []string `yaml:"null_heads,omitempty"`
}

func Read(reader io.Reader) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}
	if len(f.Entries) == 0 {
		return nil, fmt.Errorf("lexicon has no entries")
	}
	for i, entry := range f.Entries {
		if entry.Token == "" {
			return nil, fmt.Errorf("entry %d has no token", i)
		}
		if entry.Category == "" {
			return nil, fmt.Errorf("entry %d (%q) has no category", i, entry.Token)
		}
	}
	return &f, nil
}

func ReadFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

// CCGLexicon parses every entry's category in CCG notation.
func (f *File) CCGLexicon() (types.MapLexicon, error) {
	lexicon := types.MapLexicon{}
	for _, entry := range f.Entries {
		category, err := types.ParseCategory(entry.Category)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", entry.Token, err)
		}
		weight := entry.Weight
		if weight == 0 {
			weight = 1.0
		}
		lexicon.AddEntry(types.LexicalEntry{
			Token:     entry.Token,
			Category:  category,
			Weight:    weight,
			Semantics: entry.Semantics,
		})
	}
	return lexicon, nil
}

// MGLexicon parses entries as feature bundles and returns the null heads
// alongside.
func (f *File) MGLexicon() (mg.Lexicon, []mg.LexicalItem, error) {
	lexicon := mg.Lexicon{}
	for _, entry := range f.Entries {
		if err := lexicon.Add(entry.Token, entry.Category); err != nil {
			return nil, nil, fmt.Errorf("entry %q: %w", entry.Token, err)
		}
	}
	var nullHeads []mg.LexicalItem
	for i, bundle := range f.NullHeads {
		features, err := mg.ParseFeatures(bundle)
		if err != nil {
			return nil, nil, fmt.Errorf("null head %d: %w", i, err)
		}
		nullHeads = append(nullHeads, mg.LexicalItem{Features: features})
	}
	return lexicon, nullHeads, nil
}

// TLGLexicon parses entries as Lambek types.
func (f *File) TLGLexicon() (tlg.Lexicon, error) {
	lexicon := tlg.Lexicon{}
	for _, entry := range f.Entries {
		if err := lexicon.Add(entry.Token, entry.Category); err != nil {
			return nil, fmt.Errorf("entry %q: %w", entry.Token, err)
		}
	}
	return lexicon, nil
}
