package tlg

import (
	"fmt"
	"strings"
)

type TypeKind byte

const (
	AtomicType TypeKind = iota
	Over                // A/B: yields A given a B on the right
	Under               // A\B: yields B given an A on the left
	Product             // A*B
)

// LogicalType is a Lambek-calculus formula. Directionality follows the
// Lambek convention: in A\B the argument A is consumed on the left, in
// A/B the argument B on the right.
type LogicalType struct {
	Kind TypeKind
	Atom string
	A, B *LogicalType
}

func AtomType(atom string) *LogicalType {
	return &LogicalType{Kind: AtomicType, Atom: atom}
}

func (t *LogicalType) String() string {
	switch t.Kind {
	case AtomicType:
		return t.Atom
	case Over:
		return side(t.A) + "/" + side(t.B)
	case Under:
		return side(t.A) + "\\" + side(t.B)
	case Product:
		return side(t.A) + "*" + side(t.B)
	}
	panic(fmt.Sprintf("Unknown logical type kind %d", t.Kind))
}

func side(t *LogicalType) string {
	if t.Kind == AtomicType {
		return t.Atom
	}
	return "(" + t.String() + ")"
}

func (t *LogicalType) Equal(other *LogicalType) bool {
	if t.Kind != other.Kind {
		return false
	}
	if t.Kind == AtomicType {
		return t.Atom == other.Atom
	}
	return t.A.Equal(other.A) && t.B.Equal(other.B)
}

// Size counts connectives plus atoms; every proof rule strictly shrinks
// the total sequent size, which is what makes search terminate.
func (t *LogicalType) Size() int {
	if t.Kind == AtomicType {
		return 1
	}
	return 1 + t.A.Size() + t.B.Size()
}

// ParseType reads Lambek notation: atoms, `np\s`, `s/np`, `a*b`, with
// parentheses; connectives associate left.
func ParseType(s string) (*LogicalType, error) {
	p := &typeParser{input: s}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return nil, p.errorf("trailing input %q", p.input[p.pos:])
	}
	return t, nil
}

func MustParseType(s string) *LogicalType {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	input string
	pos   int
}

func (p *typeParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("type %q at %d: %s", p.input, p.pos, fmt.Sprintf(format, args...))
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *typeParser) parse() (*LogicalType, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		var kind TypeKind
		switch p.peek() {
		case '/':
			kind = Over
		case '\\':
			kind = Under
		case '*':
			kind = Product
		default:
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &LogicalType{Kind: kind, A: left, B: right}
	}
}

func (p *typeParser) parseTerm() (*LogicalType, error) {
	p.skipSpace()
	if p.peek() == '(' {
		p.pos++
		t, err := p.parse()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, p.errorf("expected ')'")
		}
		p.pos++
		return t, nil
	}
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			break
		}
		p.pos++
	}
	if start == p.pos {
		return nil, p.errorf("expected atom")
	}
	return AtomType(p.input[start:p.pos]), nil
}

func sequentKey(antecedent []*LogicalType, succedent *LogicalType) string {
	var sb strings.Builder
	for i, t := range antecedent {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(t.String())
	}
	sb.WriteString("=>")
	sb.WriteString(succedent.String())
	return sb.String()
}
