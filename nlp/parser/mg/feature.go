package mg

import (
	"fmt"
	"strings"
)

type FeatureKind byte

const (
	Categorial FeatureKind = iota
	Selector
	Licensor
	Licensee
)

// Feature is one element of a lexical item's ordered bundle. `d` is a
// categorial feature, `=d` selects a d, `+wh` licenses a move and `-wh`
// demands one. Features are checked strictly left to right and each is
// consumed exactly once.
type Feature struct {
	Kind FeatureKind
	Name string
}

func (f Feature) String() string {
	switch f.Kind {
	case Selector:
		return "=" + f.Name
	case Licensor:
		return "+" + f.Name
	case Licensee:
		return "-" + f.Name
	}
	return f.Name
}

// Selects reports whether f, as the head's first feature, consumes other
// as the selectee's first feature.
func (f Feature) Selects(other Feature) bool {
	return f.Kind == Selector && other.Kind == Categorial && f.Name == other.Name
}

// Licenses reports whether f triggers movement of a constituent whose
// first feature is other.
func (f Feature) Licenses(other Feature) bool {
	return f.Kind == Licensor && other.Kind == Licensee && f.Name == other.Name
}

// ParseFeatures reads a space-separated bundle, e.g. "=d +wh c".
func ParseFeatures(s string) ([]Feature, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty feature bundle")
	}
	features := make([]Feature, len(fields))
	for i, field := range fields {
		var f Feature
		switch field[0] {
		case '=':
			f = Feature{Selector, field[1:]}
		case '+':
			f = Feature{Licensor, field[1:]}
		case '-':
			f = Feature{Licensee, field[1:]}
		default:
			f = Feature{Categorial, field}
		}
		if f.Name == "" {
			return nil, fmt.Errorf("feature %q has no name", field)
		}
		features[i] = f
	}
	return features, nil
}

func featuresString(features []Feature) string {
	parts := make([]string, len(features))
	for i, f := range features {
		parts[i] = f.String()
	}
	return strings.Join(parts, " ")
}

// LexicalItem pairs a surface word with its ordered feature bundle. A
// phonetically empty item (Word "") is a null functional head.
type LexicalItem struct {
	Word     string
	Features []Feature
}

func (li LexicalItem) String() string {
	word := li.Word
	if word == "" {
		word = "ε"
	}
	return word + " :: " + featuresString(li.Features)
}

func Item(word, features string) LexicalItem {
	parsed, err := ParseFeatures(features)
	if err != nil {
		panic(err)
	}
	return LexicalItem{Word: word, Features: parsed}
}

// Lexicon maps words to their candidate items. Read-only during parsing,
// safe to share across concurrent parses.
type Lexicon map[string][]LexicalItem

func (l Lexicon) Lookup(word string) []LexicalItem {
	return l[word]
}

func (l Lexicon) Add(word, features string) error {
	parsed, err := ParseFeatures(features)
	if err != nil {
		return err
	}
	l[word] = append(l[word], LexicalItem{Word: word, Features: parsed})
	return nil
}
