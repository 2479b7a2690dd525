package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/factgate/factgate/internal/model"
	"github.com/spf13/cobra"
)

var (
	askDocs        []string
	askVocab       string
	askProvider    string
	askModel       string
	askExtModel    string
	askCorrections int
	askRulesOnly   bool
	askTimeout     time.Duration
	askJSON        string
	askNoCache     bool
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question with consistency validation",
	Long: `Ask generates an answer from your documents, extracts its factual
assertions, and validates them against the loan vocabulary. Inconsistent
answers are corrected in a bounded feedback loop; answers that remain
inconsistent are rejected with the full violation report.

Example:
  factgate ask "Who is the lender of the loan?" --docs contract.txt
  factgate ask "What type of loan is this?" --docs a.txt --docs b.html --json out.json
  factgate ask "Who borrows?" --docs contract.txt --provider ollama --model llama3.1:8b`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringSliceVar(&askDocs, "docs", nil, "source documents (.txt, .md, .html)")
	askCmd.Flags().StringVar(&askVocab, "vocab", "", "vocabulary YAML file (default: built-in loan vocabulary)")
	askCmd.Flags().StringVar(&askProvider, "provider", "openai", "LLM provider (openai, anthropic, ollama)")
	askCmd.Flags().StringVar(&askModel, "model", "", "generation model name")
	askCmd.Flags().StringVar(&askExtModel, "extract-model", "", "extraction model name (default: generation model)")
	askCmd.Flags().IntVar(&askCorrections, "max-corrections", 3, "correction rounds after the initial attempt")
	askCmd.Flags().BoolVar(&askRulesOnly, "rules-only", false, "skip the axiom pass, use only the role-rule engine")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 5*time.Minute, "overall question timeout")
	askCmd.Flags().StringVar(&askJSON, "json", "", "output JSON path (optional)")
	askCmd.Flags().BoolVar(&askNoCache, "no-cache", false, "disable extraction cache")

	_ = askCmd.MarkFlagRequired("docs")
}

// buildConfig assembles the runtime config from defaults and ask flags
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = askProvider
	if askModel != "" {
		cfg.Generator.Model = askModel
	}
	cfg.Extractor.Model = cfg.Generator.Model
	if askExtModel != "" {
		cfg.Extractor.Model = askExtModel
	}
	cfg.Checker.MaxCorrections = askCorrections
	cfg.Checker.RulesOnly = askRulesOnly
	cfg.Vocabulary.Path = askVocab
	cfg.Cache.Enabled = !askNoCache
	cfg.Output.Verbose = verbose
	return cfg
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	cfg := buildConfig()

	if verbose {
		fmt.Fprintf(os.Stderr, "Question: %s\n", question)
		fmt.Fprintf(os.Stderr, "Documents: %v\n", askDocs)
		fmt.Fprintf(os.Stderr, "Correction budget: %d\n\n", cfg.Checker.MaxCorrections)
	}

	orch, err := buildOrchestrator(cfg, askDocs)
	if err != nil {
		return err
	}

	outcome := orch.Run(ctx, question)
	renderOutcome(outcome)

	if askJSON != "" {
		if err := writeOutcomeJSON(askJSON, []*model.Outcome{outcome}); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", askJSON)
		}
	}

	if outcome.Status == model.StatusFailed {
		return outcome.Err
	}
	return nil
}
