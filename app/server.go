package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"nlparsers/nlp/parser"
)

var ListenAddr string

type parseRequest struct {
	Tokens []string `json:"tokens"`
	Goal   string   `json:"goal"`
}

type parseAnalysis struct {
	Category string `json:"category"`
	Trees    int    `json:"trees"`
	Pretty   string `json:"pretty"`
}

type parseResponse struct {
	Analyses []parseAnalysis `json:"analyses"`
	Trees    int             `json:"trees"`
}

type parseFailure struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Token    string `json:"token,omitempty"`
	Position int    `json:"position,omitempty"`
	Steps    int    `json:"steps,omitempty"`
	// Partial holds derivations found before a search bound was hit.
	Partial []parseAnalysis `json:"partial,omitempty"`
}

type parseHandler struct {
	cfg parser.Config
	log *zap.Logger
}

func (h *parseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Goal == "" {
		req.Goal = Goal
	}
	if len(req.Tokens) == 0 || req.Goal == "" {
		http.Error(w, "tokens and goal are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, Timeout)
		defer cancel()
	}

	start := time.Now()
	forest, err := parser.Parse(ctx, req.Tokens, req.Goal, h.cfg)
	elapsed := time.Since(start)
	if err != nil {
		h.writeFailure(w, err, forest)
		h.log.Info("parse failed",
			zap.Strings("tokens", req.Tokens),
			zap.String("goal", req.Goal),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return
	}

	resp := parseResponse{Analyses: make([]parseAnalysis, len(forest)), Trees: forest.TreeCount()}
	for i, derivation := range forest {
		resp.Analyses[i] = parseAnalysis{
			Category: derivation.CategoryString(),
			Trees:    derivation.Count(),
			Pretty:   derivation.Pretty(),
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
	h.log.Info("parse succeeded",
		zap.Strings("tokens", req.Tokens),
		zap.String("goal", req.Goal),
		zap.Int("analyses", len(forest)),
		zap.Duration("elapsed", elapsed))
}

func (h *parseHandler) writeFailure(w http.ResponseWriter, err error, partial parser.Forest) {
	failure := parseFailure{Kind: "Internal", Message: err.Error()}
	for _, derivation := range partial {
		failure.Partial = append(failure.Partial, parseAnalysis{
			Category: derivation.CategoryString(),
			Trees:    derivation.Count(),
			Pretty:   derivation.Pretty(),
		})
	}
	status := http.StatusInternalServerError
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		failure.Kind = perr.Kind.String()
		failure.Token = perr.Token
		failure.Position = perr.Position
		failure.Steps = perr.Steps
		switch perr.Kind {
		case parser.NoDerivation, parser.UnknownToken:
			status = http.StatusUnprocessableEntity
		case parser.SearchBoundExceeded:
			status = http.StatusRequestTimeout
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(failure)
}

func Serve(cmd *commander.Command, args []string) error {
	VerifyFlags(cmd, []string{"f", "l"})
	if !VerifyExists(LexiconFile) {
		return fmt.Errorf("lexicon file %s not found", LexiconFile)
	}
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	handler := &parseHandler{cfg: cfg, log: Logger()}
	mux := http.NewServeMux()
	mux.Handle("/parse", handler)

	Logger().Info("listening",
		zap.String("addr", ListenAddr),
		zap.String("formalism", Formalism),
		zap.String("lexicon", LexiconFile))
	return http.ListenAndServe(ListenAddr, cors.Default().Handler(mux))
}

func ServeCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Serve,
		UsageLine: "serve <file options> [arguments]",
		Short:     "serves a grammar over HTTP",
		Long: `
serves parse requests over HTTP; POST JSON to /parse

	$ ./nlparsers serve -f ccg -l lexicon.yaml -g S -addr :8080

`,
		Flag: *flag.NewFlagSet("serve", flag.ExitOnError),
	}
	cmd.Flag.BoolVar(&Verbose, "v", false, "verbose logging")
	cmd.Flag.StringVar(&Formalism, "f", "ccg", "formalism (ccg, mg, tlg)")
	cmd.Flag.StringVar(&LexiconFile, "l", "", "lexicon file")
	cmd.Flag.StringVar(&Goal, "g", "", "default goal category")
	cmd.Flag.StringVar(&ListenAddr, "addr", ":8080", "listen address")
	cmd.Flag.IntVar(&StepBudget, "budget", 0, "search step budget (0 for unbounded)")
	cmd.Flag.IntVar(&MaxDepth, "depth", 0, "maximum derivation or proof depth (mg, tlg)")
	cmd.Flag.BoolVar(&TypeRaising, "raise", true, "enable type raising (ccg)")
	cmd.Flag.BoolVar(&Substitution, "subst", false, "enable substitution combinators (ccg)")
	cmd.Flag.BoolVar(&Product, "product", false, "enable product types (tlg)")
	cmd.Flag.BoolVar(&ConcurrentSpan, "parallel", false, "parse same-length spans concurrently (ccg)")
	cmd.Flag.DurationVar(&Timeout, "timeout", 10*time.Second, "per-request parse timeout")
	return cmd
}
