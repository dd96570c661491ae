package types

import (
	"fmt"
	"unicode"
)

// ParseCategory reads the textual category notation: atoms (`NP`),
// directional functors (`(S\NP)/NP`, left associative so `S\NP/NP` is
// `(S\NP)/NP`), feature blocks (`N[num=sg,case=?x]`) with `?`-prefixed
// variables and `{a,b}` set values. Variable ids are allocated per call
// in order of first occurrence; instantiation freshens them per use.
func ParseCategory(s string) (*Category, error) {
	p := &catParser{input: s, vars: make(map[string]int)}
	cat, err := p.parseCategory()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return nil, p.errorf("trailing input %q", p.input[p.pos:])
	}
	return cat, nil
}

// MustParseCategory is for fixtures and tests with known-good input.
func MustParseCategory(s string) *Category {
	cat, err := ParseCategory(s)
	if err != nil {
		panic(err)
	}
	return cat
}

type catParser struct {
	input string
	pos   int
	vars  map[string]int
}

func (p *catParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("category %q at %d: %s", p.input, p.pos, fmt.Sprintf(format, args...))
}

func (p *catParser) skipSpace() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *catParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *catParser) parseCategory() (*Category, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		var dir Direction
		switch p.peek() {
		case '/':
			dir = Forward
		case '\\':
			dir = Backward
		case '|':
			dir = NonDirectional
		default:
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = Functor(left, right, dir)
	}
}

func (p *catParser) parseTerm() (*Category, error) {
	p.skipSpace()
	if p.peek() == '(' {
		p.pos++
		cat, err := p.parseCategory()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, p.errorf("expected ')'")
		}
		p.pos++
		return cat, nil
	}
	atom := p.parseName()
	if atom == "" {
		return nil, p.errorf("expected category atom")
	}
	if p.peek() != '[' {
		return Atomic(atom), nil
	}
	fs, err := p.parseFeatures()
	if err != nil {
		return nil, err
	}
	return AtomicFeat(atom, fs), nil
}

func (p *catParser) parseName() string {
	start := p.pos
	for p.pos < len(p.input) {
		r := rune(p.input[p.pos])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *catParser) parseFeatures() (FeatureStructure, error) {
	p.pos++ // consume '['
	fs := make(FeatureStructure)
	for {
		p.skipSpace()
		name := p.parseName()
		if name == "" {
			return nil, p.errorf("expected feature name")
		}
		p.skipSpace()
		if p.peek() != '=' {
			return nil, p.errorf("expected '=' after feature %q", name)
		}
		p.pos++
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		fs[name] = val
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return fs, nil
		default:
			return nil, p.errorf("expected ',' or ']'")
		}
	}
}

func (p *catParser) parseValue() (FeatureValue, error) {
	p.skipSpace()
	switch p.peek() {
	case '?':
		p.pos++
		name := p.parseName()
		if name == "" {
			return FeatureValue{}, p.errorf("expected variable name after '?'")
		}
		id, exists := p.vars[name]
		if !exists {
			id = len(p.vars)
			p.vars[name] = id
		}
		return VarValue(id), nil
	case '{':
		p.pos++
		var members []string
		for {
			p.skipSpace()
			member := p.parseName()
			if member == "" {
				return FeatureValue{}, p.errorf("expected set member")
			}
			members = append(members, member)
			p.skipSpace()
			switch p.peek() {
			case ',':
				p.pos++
			case '}':
				p.pos++
				return SetValue(members...), nil
			default:
				return FeatureValue{}, p.errorf("expected ',' or '}'")
			}
		}
	case '_':
		p.pos++
		return FeatureValue{Kind: ValueUnspecified}, nil
	}
	name := p.parseName()
	if name == "" {
		return FeatureValue{}, p.errorf("expected feature value")
	}
	return AtomValue(name), nil
}

// StripFeatures returns the category with every feature structure
// removed, for configurations running without morphosyntax.
func (c *Category) StripFeatures() *Category {
	if c.IsAtomic() {
		if c.Features == nil {
			return c
		}
		return Atomic(c.Atom)
	}
	return Functor(c.Res.StripFeatures(), c.Arg.StripFeatures(), c.Dir)
}
