package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"go.uber.org/zap"

	"nlparsers/nlp/parser"
	"nlparsers/util"
)

func ParseSentence(cmd *commander.Command, args []string) error {
	VerifyFlags(cmd, requiredParseFlags)
	if !VerifyExists(LexiconFile) {
		return fmt.Errorf("lexicon file %s not found", LexiconFile)
	}
	if len(args) == 0 {
		cmd.Usage()
		return errors.New("no tokens given")
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	tokens := args
	if len(args) == 1 && strings.ContainsRune(args[0], ' ') {
		tokens = strings.Fields(args[0])
	}

	if allOut {
		log.Println()
		log.Println("Configuration")
		log.Println("Formalism:\t\t", Formalism)
		log.Println("Lexicon:\t\t", LexiconFile)
		log.Println("Goal:\t\t\t", Goal)
		log.Println("Tokens:\t\t\t", len(tokens))
		log.Println()
	}

	ctx := context.Background()
	if Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, Timeout)
		defer cancel()
	}

	start := time.Now()
	forest, err := parser.Parse(ctx, tokens, Goal, cfg)
	elapsed := time.Since(start)
	if err != nil {
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			Logger().Info("parse failed",
				zap.String("kind", perr.Kind.String()),
				zap.Int("steps", perr.Steps),
				zap.Duration("elapsed", elapsed))
		}
		// A bounded search may still carry the derivations found before
		// the bound.
		for i, derivation := range forest {
			fmt.Printf("Partial analysis %d: %s\n", i+1, derivation.CategoryString())
			fmt.Println(derivation.Pretty())
		}
		return err
	}

	Logger().Info("parse succeeded",
		zap.Int("analyses", len(forest)),
		zap.Int("trees", forest.TreeCount()),
		zap.Duration("elapsed", elapsed))
	if Verbose {
		util.LogMemory()
	}

	for i, derivation := range forest {
		fmt.Printf("Analysis %d: %s\n", i+1, derivation.CategoryString())
		fmt.Println(derivation.Pretty())
	}
	return nil
}

var requiredParseFlags = []string{"f", "l", "g"}

func ParseCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       ParseSentence,
		UsageLine: "parse <file options> [arguments]",
		Short:     "parses a token sequence under a grammar",
		Long: `
parses a token sequence under a grammar

	$ ./nlparsers parse -f ccg -l lexicon.yaml -g S the cat sleeps

`,
		Flag: *flag.NewFlagSet("parse", flag.ExitOnError),
	}
	cmd.Flag.BoolVar(&Verbose, "v", false, "verbose logging")
	cmd.Flag.StringVar(&Formalism, "f", "ccg", "formalism (ccg, mg, tlg)")
	cmd.Flag.StringVar(&LexiconFile, "l", "", "lexicon file")
	cmd.Flag.StringVar(&Goal, "g", "", "goal category")
	cmd.Flag.IntVar(&StepBudget, "budget", 0, "search step budget (0 for unbounded)")
	cmd.Flag.IntVar(&MaxComposition, "compose", 0, "maximum composition degree (ccg)")
	cmd.Flag.IntVar(&MaxDepth, "depth", 0, "maximum derivation or proof depth (mg, tlg)")
	cmd.Flag.BoolVar(&TypeRaising, "raise", true, "enable type raising (ccg)")
	cmd.Flag.BoolVar(&Substitution, "subst", false, "enable substitution combinators (ccg)")
	cmd.Flag.BoolVar(&Morphosyntax, "morph", false, "unify morphosyntactic features (ccg)")
	cmd.Flag.BoolVar(&Product, "product", false, "enable product types (tlg)")
	cmd.Flag.BoolVar(&ConcurrentSpan, "parallel", false, "parse same-length spans concurrently (ccg)")
	cmd.Flag.DurationVar(&Timeout, "timeout", 0, "parse timeout (0 for none)")
	return cmd
}
