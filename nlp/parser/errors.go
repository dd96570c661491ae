package parser

import (
	"errors"
	"fmt"
)

// Caller-visible failure kinds. The algebra- and rule-level outcomes
// (unification, directionality, occurs check, locality) never reach this
// layer; they are consumed as branch prunes inside the engines.
var (
	// ErrNoDerivation: the search space was fully explored and no
	// goal-spanning derivation exists. An ordinary outcome for
	// ungrammatical input.
	ErrNoDerivation = errors.New("no derivation")
	// ErrSearchBound: a depth, step or time budget was hit before the
	// space was exhausted. Inconclusive, never conflated with
	// ErrNoDerivation.
	ErrSearchBound = errors.New("search bound exceeded")
	// ErrUnknownToken: the lexicon has no entries for a token.
	ErrUnknownToken = errors.New("unknown token")
)

type FailureKind byte

const (
	NoDerivation FailureKind = iota
	SearchBoundExceeded
	UnknownToken
)

func (k FailureKind) String() string {
	switch k {
	case NoDerivation:
		return "NoDerivation"
	case SearchBoundExceeded:
		return "SearchBoundExceeded"
	case UnknownToken:
		return "UnknownToken"
	}
	return "Unknown"
}

// ParseError is the one caller-visible failure shape, carrying enough
// context to diagnose: the offending token and position for lexicon
// misses, steps taken for bounded searches. Matches the sentinel of its
// kind under errors.Is.
type ParseError struct {
	Kind     FailureKind
	Token    string
	Position int
	Steps    int
	Cause    error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case NoDerivation:
		return fmt.Sprintf("no derivation after %d steps", e.Steps)
	case SearchBoundExceeded:
		return fmt.Sprintf("search bound exceeded after %d steps: result inconclusive", e.Steps)
	case UnknownToken:
		return fmt.Sprintf("unknown token %q at position %d", e.Token, e.Position)
	}
	return "parse failure"
}

func (e *ParseError) Unwrap() error {
	switch e.Kind {
	case NoDerivation:
		return ErrNoDerivation
	case SearchBoundExceeded:
		return ErrSearchBound
	case UnknownToken:
		return ErrUnknownToken
	}
	return e.Cause
}
