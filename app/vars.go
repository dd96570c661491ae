package app

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gonuts/commander"
	"go.uber.org/zap"

	"nlparsers/nlp/format/lexfile"
	"nlparsers/nlp/parser"
)

var (
	allOut bool = true

	// processing options
	Verbose        bool
	Formalism      string
	LexiconFile    string
	Goal           string
	StepBudget     int
	MaxComposition int
	MaxDepth       int
	TypeRaising    bool
	Substitution   bool
	Morphosyntax   bool
	Product        bool
	ConcurrentSpan bool
	Timeout        time.Duration

	logger *zap.Logger
)

// Logger builds the shared zap logger once; -v lowers the level to
// Debug.
func Logger() *zap.Logger {
	if logger != nil {
		return logger
	}
	conf := zap.NewProductionConfig()
	if Verbose {
		conf.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	built, err := conf.Build()
	if err != nil {
		log.Println("Failed to build logger:", err)
		os.Exit(1)
	}
	logger = built
	return logger
}

func VerifyExists(filename string) bool {
	_, err := os.Stat(filename)
	if err != nil {
		log.Println("Error accessing file", filename)
		log.Println(err)
		return false
	}
	return true
}

func VerifyFlags(cmd *commander.Command, required []string) {
	for _, flag := range required {
		f := cmd.Flag.Lookup(flag)
		if f.Value.String() == "" {
			log.Printf("Required flag %s not set", f.Name)
			cmd.Usage()
			os.Exit(1)
		}
	}
}

// LoadConfig reads the lexicon file and assembles the parser
// configuration for the selected formalism from the shared option vars.
func LoadConfig() (parser.Config, error) {
	var cfg parser.Config
	formalism, err := parser.ParseFormalism(Formalism)
	if err != nil {
		return cfg, err
	}
	cfg.Formalism = formalism
	cfg.StepBudget = StepBudget

	file, err := lexfile.ReadFile(LexiconFile)
	if err != nil {
		return cfg, err
	}
	if file.Formalism != "" && file.Formalism != Formalism {
		return cfg, fmt.Errorf("lexicon %s declares formalism %q, parsing with %q",
			LexiconFile, file.Formalism, Formalism)
	}

	switch formalism {
	case parser.CCG:
		lexicon, err := file.CCGLexicon()
		if err != nil {
			return cfg, err
		}
		cfg.CCG.Lexicon = lexicon
		cfg.CCG.MaxCompositionDegree = MaxComposition
		cfg.CCG.EnableTypeRaising = TypeRaising
		cfg.CCG.EnableSubstitution = Substitution
		cfg.CCG.Morphosyntax = Morphosyntax
		cfg.CCG.Parallel = ConcurrentSpan
	case parser.MG:
		lexicon, nullHeads, err := file.MGLexicon()
		if err != nil {
			return cfg, err
		}
		cfg.MG.Lexicon = lexicon
		cfg.MG.NullHeads = nullHeads
		cfg.MG.MaxDerivationDepth = MaxDepth
	case parser.TLG:
		lexicon, err := file.TLGLexicon()
		if err != nil {
			return cfg, err
		}
		cfg.TLG.Lexicon = lexicon
		cfg.TLG.MaxProofDepth = MaxDepth
		cfg.TLG.EnableProduct = Product
	}
	return cfg, nil
}
