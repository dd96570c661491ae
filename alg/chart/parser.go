package chart

import (
	"context"
	"errors"
	"log"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"nlparsers/nlp/types"
)

var AllOut = false

// ErrBudgetExceeded reports that the step budget was exhausted before the
// search space was; callers must not read it as "no derivation exists".
var ErrBudgetExceeded = errors.New("chart step budget exceeded")

// Derived is one successful combination produced by a rule set.
type Derived struct {
	Category *types.Category
	Rule     string
}

// RuleSet is the formalism plugged into the scheduler. Combine attempts
// every applicable rule on two adjacent edges and returns the successes;
// inapplicability is an empty result, never an error. Goal recognizes
// categories that complete a parse at the full span.
type RuleSet interface {
	Combine(left, right *Edge) []Derived
	Goal(cat *types.Category) bool
}

type Config struct {
	// StepBudget bounds the number of combination attempts; 0 is
	// unbounded.
	StepBudget int
	// Parallel computes the cells of each span length concurrently.
	// Cells of one length have no data dependency on each other; the
	// wavefront barrier between lengths is the only synchronization.
	Parallel bool
}

type Result struct {
	Table *Table
	Roots []*Edge
	Steps int
}

// Parse runs bottom-up dynamic programming over the seeds: all cells of
// span length L complete before any cell of length L+1 is attempted.
// Returns ErrBudgetExceeded or the context error when a bound is hit.
func Parse(ctx context.Context, n int, seeds []*Edge, rules RuleSet, cfg Config) (*Result, error) {
	table := NewTable(n)
	if n == 0 {
		return &Result{Table: table}, nil
	}
	for _, seed := range seeds {
		table.Insert(seed)
	}
	var steps int64
	for length := 2; length <= n; length++ {
		if AllOut {
			log.Println("Chart wavefront, span length", length)
		}
		if err := parseWavefront(ctx, table, rules, cfg, length, &steps); err != nil {
			result := &Result{Table: table, Steps: int(steps)}
			result.Roots = collectRoots(table, rules, n)
			return result, err
		}
	}
	result := &Result{Table: table, Steps: int(steps)}
	result.Roots = collectRoots(table, rules, n)
	if AllOut {
		log.Println("Chart done:", result.Steps, "steps,", len(result.Roots), "roots")
	}
	return result, nil
}

// collectRoots scans the full-span cell for goal categories. Also called
// when a bound interrupts the search, so edges completed before the bound
// still reach the caller as a partial result.
func collectRoots(table *Table, rules RuleSet, n int) []*Edge {
	var roots []*Edge
	for _, e := range table.Cell(0, n) {
		if rules.Goal(e.Category) {
			roots = append(roots, e)
		}
	}
	return roots
}

func parseWavefront(ctx context.Context, table *Table, rules RuleSet, cfg Config, length int, steps *int64) error {
	starts := table.n - length + 1
	if !cfg.Parallel {
		for start := 0; start < starts; start++ {
			if err := parseCell(ctx, table, rules, cfg, start, start+length, steps); err != nil {
				return err
			}
		}
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < starts; start++ {
		start := start
		g.Go(func() error {
			return parseCell(gctx, table, rules, cfg, start, start+length, steps)
		})
	}
	return g.Wait()
}

func parseCell(ctx context.Context, table *Table, rules RuleSet, cfg Config, start, end int, steps *int64) error {
	var ag Agenda
	for mid := start + 1; mid < end; mid++ {
		for _, left := range table.Cell(start, mid) {
			for _, right := range table.Cell(mid, end) {
				ag.Push(left, right)
			}
		}
	}
	for {
		task, exists := ag.Pop()
		if !exists {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		taken := atomic.AddInt64(steps, 1)
		if cfg.StepBudget > 0 && taken > int64(cfg.StepBudget) {
			return ErrBudgetExceeded
		}
		for _, derived := range rules.Combine(task.left, task.right) {
			edge := &Edge{
				Start:    start,
				End:      end,
				Category: derived.Category,
				Weight:   task.left.Weight * task.right.Weight,
				Derivations: []Derivation{{
					Rule:  derived.Rule,
					Left:  task.left,
					Right: task.right,
				}},
			}
			packed, fresh := table.Insert(edge)
			if AllOut && fresh {
				log.Println("Edge", packed.Start, packed.End, packed.Category, "by", derived.Rule)
			}
		}
	}
}
