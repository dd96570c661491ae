package ccg

import (
	"errors"
	"fmt"

	"nlparsers/nlp/types"
)

// Combinator outcomes below are local prune signals: a rule that does not
// apply is an ordinary result, consumed by the engine, never surfaced to
// a parse caller.
var ErrDirectionalMismatch = errors.New("directional mismatch")

func functorSeeks(c *types.Category, dir types.Direction) bool {
	return !c.IsAtomic() && (c.Dir == dir || c.Dir == types.NonDirectional)
}

// ApplyForward combines X/Y with an adjacent Y on its right into X.
func ApplyForward(left, right *types.Category) (*types.Category, error) {
	if left.IsAtomic() {
		return nil, types.ErrUnification
	}
	if !functorSeeks(left, types.Forward) {
		return nil, ErrDirectionalMismatch
	}
	bind := make(types.Bindings)
	if _, err := types.Unify(left.Arg, right, bind); err != nil {
		return nil, err
	}
	return left.Res.Substitute(bind), nil
}

// ApplyBackward combines Y with an adjacent X\Y on its right into X.
func ApplyBackward(left, right *types.Category) (*types.Category, error) {
	if right.IsAtomic() {
		return nil, types.ErrUnification
	}
	if !functorSeeks(right, types.Backward) {
		return nil, ErrDirectionalMismatch
	}
	bind := make(types.Bindings)
	if _, err := types.Unify(right.Arg, left, bind); err != nil {
		return nil, err
	}
	return right.Res.Substitute(bind), nil
}

// ComposeForward is generalized forward composition of the given degree:
// degree 1 takes X/Y and Y/Z to X/Z; degree 2 takes X/Y and (Y/Z1)/Z2 to
// (X/Z1)/Z2, and so on down the right functor's result spine. Harmonic
// only: every slash peeled off the right category must be forward.
func ComposeForward(left, right *types.Category, degree int) (*types.Category, error) {
	if !functorSeeks(left, types.Forward) {
		return nil, ErrDirectionalMismatch
	}
	inner, args, err := peel(right, types.Forward, degree)
	if err != nil {
		return nil, err
	}
	bind := make(types.Bindings)
	if _, err := types.Unify(left.Arg, inner, bind); err != nil {
		return nil, err
	}
	return rebuild(left.Res, args, types.Forward, bind), nil
}

// ComposeBackward is the mirror image: degree 1 takes Y\Z and X\Y to X\Z.
func ComposeBackward(left, right *types.Category, degree int) (*types.Category, error) {
	if !functorSeeks(right, types.Backward) {
		return nil, ErrDirectionalMismatch
	}
	inner, args, err := peel(left, types.Backward, degree)
	if err != nil {
		return nil, err
	}
	bind := make(types.Bindings)
	if _, err := types.Unify(right.Arg, inner, bind); err != nil {
		return nil, err
	}
	return rebuild(right.Res, args, types.Backward, bind), nil
}

// peel strips degree argument slots off the category's outside, requiring
// every stripped slash to match dir. Returns the inner result and the
// stripped arguments, outermost first.
func peel(c *types.Category, dir types.Direction, degree int) (*types.Category, []*types.Category, error) {
	args := make([]*types.Category, 0, degree)
	for i := 0; i < degree; i++ {
		if c.IsAtomic() {
			return nil, nil, types.ErrUnification
		}
		if c.Dir != dir && c.Dir != types.NonDirectional {
			return nil, nil, ErrDirectionalMismatch
		}
		args = append(args, c.Arg)
		c = c.Res
	}
	return c, args, nil
}

func rebuild(res *types.Category, args []*types.Category, dir types.Direction, bind types.Bindings) *types.Category {
	result := res.Substitute(bind)
	for i := len(args) - 1; i >= 0; i-- {
		result = types.Functor(result, args[i].Substitute(bind), dir)
	}
	return result
}

// SubstituteForward takes (X/Y)/Z and Y/Z to X/Z.
func SubstituteForward(left, right *types.Category) (*types.Category, error) {
	if !functorSeeks(left, types.Forward) || left.Res.IsAtomic() {
		return nil, types.ErrUnification
	}
	if !functorSeeks(left.Res, types.Forward) || !functorSeeks(right, types.Forward) {
		return nil, ErrDirectionalMismatch
	}
	bind := make(types.Bindings)
	z, err := types.Unify(left.Arg, right.Arg, bind)
	if err != nil {
		return nil, err
	}
	if _, err := types.Unify(left.Res.Arg, right.Res, bind); err != nil {
		return nil, err
	}
	return types.Functor(left.Res.Res.Substitute(bind), z.Substitute(bind), types.Forward), nil
}

// SubstituteBackward takes Y\Z and (X\Y)\Z to X\Z.
func SubstituteBackward(left, right *types.Category) (*types.Category, error) {
	if !functorSeeks(right, types.Backward) || right.Res.IsAtomic() {
		return nil, types.ErrUnification
	}
	if !functorSeeks(right.Res, types.Backward) || !functorSeeks(left, types.Backward) {
		return nil, ErrDirectionalMismatch
	}
	bind := make(types.Bindings)
	z, err := types.Unify(right.Arg, left.Arg, bind)
	if err != nil {
		return nil, err
	}
	if _, err := types.Unify(right.Res.Arg, left.Res, bind); err != nil {
		return nil, err
	}
	return types.Functor(right.Res.Res.Substitute(bind), z.Substitute(bind), types.Backward), nil
}

// TypeRaiseForward lifts an atomic X into T/(T\X). Raising is restricted
// to atomic categories; the engine further restricts it to pairs where
// application could not proceed.
func TypeRaiseForward(c *types.Category, target string) (*types.Category, error) {
	if !c.IsAtomic() {
		return nil, types.ErrUnification
	}
	t := types.Atomic(target)
	return types.Functor(t, types.Functor(t, c, types.Backward), types.Forward), nil
}

// TypeRaiseBackward lifts an atomic X into T\(T/X).
func TypeRaiseBackward(c *types.Category, target string) (*types.Category, error) {
	if !c.IsAtomic() {
		return nil, types.ErrUnification
	}
	t := types.Atomic(target)
	return types.Functor(t, types.Functor(t, c, types.Forward), types.Backward), nil
}

func composeRuleName(forward bool, degree int) string {
	base := "<B"
	if forward {
		base = ">B"
	}
	if degree == 1 {
		return base
	}
	return fmt.Sprintf("%s%d", base, degree)
}
