package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Local prune outcomes of the algebra. Rule engines consume these as
// "combination not applicable"; they never reach a parse caller.
var (
	ErrUnification = errors.New("unification failure")
	ErrOccursCheck = errors.New("occurs check failure")
)

type ValueKind byte

const (
	ValueUnspecified ValueKind = iota
	ValueAtom
	ValueSet
	ValueVar
	ValueComplex
)

// FeatureValue is one slot of a feature structure. Atoms are concrete
// symbols, sets unify by intersection, variables unify by binding and
// complex values nest a further feature structure.
type FeatureValue struct {
	Kind ValueKind
	Atom string
	Set  []string
	Var  int
	Sub  FeatureStructure
}

func AtomValue(s string) FeatureValue {
	return FeatureValue{Kind: ValueAtom, Atom: s}
}

func SetValue(members ...string) FeatureValue {
	sorted := make([]string, len(members))
	copy(sorted, members)
	sort.Strings(sorted)
	return FeatureValue{Kind: ValueSet, Set: sorted}
}

func VarValue(id int) FeatureValue {
	return FeatureValue{Kind: ValueVar, Var: id}
}

func ComplexValue(sub FeatureStructure) FeatureValue {
	return FeatureValue{Kind: ValueComplex, Sub: sub}
}

func (v FeatureValue) String() string {
	switch v.Kind {
	case ValueUnspecified:
		return "_"
	case ValueAtom:
		return v.Atom
	case ValueSet:
		return "{" + strings.Join(v.Set, ",") + "}"
	case ValueVar:
		return fmt.Sprintf("?%d", v.Var)
	case ValueComplex:
		return v.Sub.String()
	}
	panic(fmt.Sprintf("Unknown feature value kind %d", v.Kind))
}

// Bindings maps variable ids to values accumulated during one rule
// application. Callers clone before a speculative unification so a failed
// attempt leaves no partial bindings behind.
type Bindings map[int]FeatureValue

func (b Bindings) Clone() Bindings {
	cloned := make(Bindings, len(b))
	for k, v := range b {
		cloned[k] = v
	}
	return cloned
}

// Resolve follows variable chains until a non-variable value or an unbound
// variable is reached.
func (b Bindings) Resolve(v FeatureValue) FeatureValue {
	for v.Kind == ValueVar {
		bound, exists := b[v.Var]
		if !exists {
			return v
		}
		v = bound
	}
	return v
}

func (b Bindings) occursIn(id int, v FeatureValue) bool {
	v = b.Resolve(v)
	switch v.Kind {
	case ValueVar:
		return v.Var == id
	case ValueComplex:
		for _, sub := range v.Sub {
			if b.occursIn(id, sub) {
				return true
			}
		}
	}
	return false
}

func (b Bindings) bind(id int, v FeatureValue) error {
	resolved := b.Resolve(v)
	if resolved.Kind == ValueVar && resolved.Var == id {
		return nil
	}
	if b.occursIn(id, resolved) {
		return ErrOccursCheck
	}
	b[id] = resolved
	return nil
}

// FeatureStructure maps feature names to values. Unification is open
// world: a feature present on only one side carries over unchanged.
type FeatureStructure map[string]FeatureValue

func (fs FeatureStructure) Clone() FeatureStructure {
	if fs == nil {
		return nil
	}
	cloned := make(FeatureStructure, len(fs))
	for k, v := range fs {
		cloned[k] = v
	}
	return cloned
}

func (fs FeatureStructure) String() string {
	if len(fs) == 0 {
		return ""
	}
	names := make([]string, 0, len(fs))
	for name := range fs {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + fs[name].String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Unify merges two feature structures under the given bindings. The
// bindings are extended in place; clone them first if failure must not
// leak bindings into the caller's context.
func (fs FeatureStructure) Unify(other FeatureStructure, b Bindings) (FeatureStructure, error) {
	if fs == nil && other == nil {
		return nil, nil
	}
	result := fs.Clone()
	if result == nil {
		result = make(FeatureStructure, len(other))
	}
	for name, otherVal := range other {
		val, exists := result[name]
		if !exists {
			result[name] = otherVal
			continue
		}
		unified, err := unifyValues(val, otherVal, b)
		if err != nil {
			return nil, err
		}
		result[name] = unified
	}
	return result, nil
}

func unifyValues(a, b FeatureValue, bind Bindings) (FeatureValue, error) {
	a, b = bind.Resolve(a), bind.Resolve(b)
	if a.Kind == ValueUnspecified {
		return b, nil
	}
	if b.Kind == ValueUnspecified {
		return a, nil
	}
	if a.Kind == ValueVar {
		if err := bind.bind(a.Var, b); err != nil {
			return FeatureValue{}, err
		}
		return b, nil
	}
	if b.Kind == ValueVar {
		if err := bind.bind(b.Var, a); err != nil {
			return FeatureValue{}, err
		}
		return a, nil
	}
	switch {
	case a.Kind == ValueAtom && b.Kind == ValueAtom:
		if a.Atom != b.Atom {
			return FeatureValue{}, ErrUnification
		}
		return a, nil
	case a.Kind == ValueAtom && b.Kind == ValueSet:
		return unifyAtomSet(a, b)
	case a.Kind == ValueSet && b.Kind == ValueAtom:
		return unifyAtomSet(b, a)
	case a.Kind == ValueSet && b.Kind == ValueSet:
		common := intersect(a.Set, b.Set)
		if len(common) == 0 {
			return FeatureValue{}, ErrUnification
		}
		return FeatureValue{Kind: ValueSet, Set: common}, nil
	case a.Kind == ValueComplex && b.Kind == ValueComplex:
		sub, err := a.Sub.Unify(b.Sub, bind)
		if err != nil {
			return FeatureValue{}, err
		}
		return ComplexValue(sub), nil
	}
	return FeatureValue{}, ErrUnification
}

func unifyAtomSet(atom, set FeatureValue) (FeatureValue, error) {
	for _, member := range set.Set {
		if member == atom.Atom {
			return atom, nil
		}
	}
	return FeatureValue{}, ErrUnification
}

func intersect(a, b []string) []string {
	members := make(map[string]bool, len(a))
	for _, m := range a {
		members[m] = true
	}
	var common []string
	for _, m := range b {
		if members[m] {
			common = append(common, m)
		}
	}
	sort.Strings(common)
	return common
}

// Substitute applies bindings to every value, leaving unbound variables
// in place.
func (fs FeatureStructure) Substitute(b Bindings) FeatureStructure {
	if fs == nil {
		return nil
	}
	result := make(FeatureStructure, len(fs))
	for name, val := range fs {
		resolved := b.Resolve(val)
		if resolved.Kind == ValueComplex {
			resolved = ComplexValue(resolved.Sub.Substitute(b))
		}
		result[name] = resolved
	}
	return result
}

// Freshener allocates variable ids unique within one parse call, so that
// lexical entries can be instantiated repeatedly without variable capture
// across spans. Never shared across concurrent parses.
type Freshener struct {
	next int
}

func (f *Freshener) Fresh() int {
	id := f.next
	f.next++
	return id
}

func (fs FeatureStructure) freshen(f *Freshener, remap map[int]int) FeatureStructure {
	if fs == nil {
		return nil
	}
	result := make(FeatureStructure, len(fs))
	for name, val := range fs {
		result[name] = val.freshen(f, remap)
	}
	return result
}

func (v FeatureValue) freshen(f *Freshener, remap map[int]int) FeatureValue {
	switch v.Kind {
	case ValueVar:
		fresh, exists := remap[v.Var]
		if !exists {
			fresh = f.Fresh()
			remap[v.Var] = fresh
		}
		return VarValue(fresh)
	case ValueComplex:
		return ComplexValue(v.Sub.freshen(f, remap))
	}
	return v
}

func (v FeatureValue) Equal(other FeatureValue) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case ValueAtom:
		return v.Atom == other.Atom
	case ValueSet:
		if len(v.Set) != len(other.Set) {
			return false
		}
		for i, m := range v.Set {
			if other.Set[i] != m {
				return false
			}
		}
		return true
	case ValueVar:
		return v.Var == other.Var
	case ValueComplex:
		return v.Sub.Equal(other.Sub)
	}
	return true
}

func (fs FeatureStructure) Equal(other FeatureStructure) bool {
	if len(fs) != len(other) {
		return false
	}
	for name, val := range fs {
		otherVal, exists := other[name]
		if !exists || !val.Equal(otherVal) {
			return false
		}
	}
	return true
}
