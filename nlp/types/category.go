package types

import (
	"fmt"
	"strings"

	"nlparsers/util"
)

type Direction byte

const (
	NonDirectional Direction = iota
	Forward
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "/"
	case Backward:
		return "\\"
	case NonDirectional:
		return "|"
	}
	panic(fmt.Sprintf("Unknown direction %d", d))
}

// Category is a recursive syntactic type. An atomic category has a
// non-empty Atom and nil Res/Arg; a functor has Res and Arg set and a
// Direction telling where the argument is sought. A forward functor X/Y
// takes Y on its right, a backward functor X\Y takes Y on its left.
// Categories are immutable after construction; every operation returns
// new terms.
type Category struct {
	Atom     string
	Features FeatureStructure
	Res      *Category
	Arg      *Category
	Dir      Direction
}

func Atomic(atom string) *Category {
	return &Category{Atom: atom}
}

func AtomicFeat(atom string, fs FeatureStructure) *Category {
	return &Category{Atom: atom, Features: fs}
}

func Functor(res, arg *Category, dir Direction) *Category {
	return &Category{Res: res, Arg: arg, Dir: dir}
}

func (c *Category) IsAtomic() bool {
	return c.Res == nil
}

// Arity is the number of argument slots down the result spine.
func (c *Category) Arity() int {
	arity := 0
	for !c.IsAtomic() {
		arity++
		c = c.Res
	}
	return arity
}

// Target is the atomic category at the end of the result spine.
func (c *Category) Target() *Category {
	for !c.IsAtomic() {
		c = c.Res
	}
	return c
}

func (c *Category) String() string {
	if c.IsAtomic() {
		return c.Atom + c.Features.String()
	}
	return c.sideString(c.Res) + c.Dir.String() + c.sideString(c.Arg)
}

func (c *Category) sideString(side *Category) string {
	if side.IsAtomic() {
		return side.String()
	}
	return "(" + side.String() + ")"
}

// Equal reports structural equality, with variables compared by identity.
func (c *Category) Equal(eq util.Equaler) bool {
	other, ok := eq.(*Category)
	if !ok {
		return false
	}
	if c == nil || other == nil {
		return c == other
	}
	if c.IsAtomic() != other.IsAtomic() {
		return false
	}
	if c.IsAtomic() {
		return c.Atom == other.Atom && c.Features.Equal(other.Features)
	}
	return c.Dir == other.Dir && c.Res.Equal(other.Res) && c.Arg.Equal(other.Arg)
}

// Unify produces the most general category consistent with both inputs,
// extending the bindings in place. Clone the bindings before calling when
// failure must not leave partial bindings with the caller. Directions
// unify when equal or when either side is non-directional, in which case
// the concrete direction wins.
func Unify(a, b *Category, bind Bindings) (*Category, error) {
	if a.IsAtomic() != b.IsAtomic() {
		return nil, ErrUnification
	}
	if a.IsAtomic() {
		if a.Atom != b.Atom {
			return nil, ErrUnification
		}
		fs, err := a.Features.Unify(b.Features, bind)
		if err != nil {
			return nil, err
		}
		return &Category{Atom: a.Atom, Features: fs}, nil
	}
	dir, err := unifyDirections(a.Dir, b.Dir)
	if err != nil {
		return nil, err
	}
	res, err := Unify(a.Res, b.Res, bind)
	if err != nil {
		return nil, err
	}
	arg, err := Unify(a.Arg, b.Arg, bind)
	if err != nil {
		return nil, err
	}
	return &Category{Res: res, Arg: arg, Dir: dir}, nil
}

func unifyDirections(a, b Direction) (Direction, error) {
	switch {
	case a == b:
		return a, nil
	case a == NonDirectional:
		return b, nil
	case b == NonDirectional:
		return a, nil
	}
	return 0, ErrUnification
}

// Substitute applies bindings throughout the category.
func (c *Category) Substitute(b Bindings) *Category {
	if len(b) == 0 {
		return c
	}
	if c.IsAtomic() {
		return &Category{Atom: c.Atom, Features: c.Features.Substitute(b)}
	}
	return &Category{Res: c.Res.Substitute(b), Arg: c.Arg.Substitute(b), Dir: c.Dir}
}

// Freshen renames every variable in the category to ids drawn from f,
// consistently within this one call. Used when instantiating a lexical
// entry for a particular token occurrence.
func (c *Category) Freshen(f *Freshener) *Category {
	return c.freshen(f, make(map[int]int))
}

func (c *Category) freshen(f *Freshener, remap map[int]int) *Category {
	if c.IsAtomic() {
		return &Category{Atom: c.Atom, Features: c.Features.freshen(f, remap)}
	}
	return &Category{Res: c.Res.freshen(f, remap), Arg: c.Arg.freshen(f, remap), Dir: c.Dir}
}

// Signature is a canonical string form with variables renumbered in first
// occurrence order, so that categories equivalent up to variable renaming
// share one signature. Chart packing keys on it.
func (c *Category) Signature() string {
	var sb strings.Builder
	c.signature(&sb, make(map[int]int))
	return sb.String()
}

func (c *Category) signature(sb *strings.Builder, seen map[int]int) {
	if c.IsAtomic() {
		sb.WriteString(c.Atom)
		c.Features.signature(sb, seen)
		return
	}
	sb.WriteByte('(')
	c.Res.signature(sb, seen)
	sb.WriteString(c.Dir.String())
	c.Arg.signature(sb, seen)
	sb.WriteByte(')')
}

func (fs FeatureStructure) signature(sb *strings.Builder, seen map[int]int) {
	if len(fs) == 0 {
		return
	}
	names := make([]string, 0, len(fs))
	for name := range fs {
		names = append(names, name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	sb.WriteByte('[')
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		val := fs[name]
		if val.Kind == ValueVar {
			canon, exists := seen[val.Var]
			if !exists {
				canon = len(seen)
				seen[val.Var] = canon
			}
			fmt.Fprintf(sb, "?%d", canon)
		} else if val.Kind == ValueComplex {
			val.Sub.signature(sb, seen)
		} else {
			sb.WriteString(val.String())
		}
	}
	sb.WriteByte(']')
}
