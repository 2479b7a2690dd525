package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/factgate/factgate/internal/model"
	"github.com/factgate/factgate/internal/score"
	"github.com/factgate/factgate/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchDocs        []string
	batchVocab       string
	batchProvider    string
	batchModel       string
	batchCorrections int
	batchRulesOnly   bool
	batchWorkers     int
	batchTimeout     time.Duration
	batchJSON        string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <questions-file>",
	Short: "Process a file of questions concurrently",
	Long: `Batch reads questions (one per line, # for comments) and runs each
through the full validation loop. Questions are independent and run
concurrently against the shared read-only vocabulary.

Example:
  factgate batch questions.txt --docs contract.txt --workers 4
  factgate batch eval.txt --docs a.txt --json results.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringSliceVar(&batchDocs, "docs", nil, "source documents (.txt, .md, .html)")
	batchCmd.Flags().StringVar(&batchVocab, "vocab", "", "vocabulary YAML file (default: built-in loan vocabulary)")
	batchCmd.Flags().StringVar(&batchProvider, "provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&batchModel, "model", "", "generation model name")
	batchCmd.Flags().IntVar(&batchCorrections, "max-corrections", 3, "correction rounds after the initial attempt")
	batchCmd.Flags().BoolVar(&batchRulesOnly, "rules-only", false, "skip the axiom pass, use only the role-rule engine")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "concurrent questions")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "overall batch timeout")
	batchCmd.Flags().StringVar(&batchJSON, "json", "", "output JSON path (optional)")

	_ = batchCmd.MarkFlagRequired("docs")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	cfg.LLM.Provider = batchProvider
	if batchModel != "" {
		cfg.Generator.Model = batchModel
	}
	cfg.Extractor.Model = cfg.Generator.Model
	cfg.Checker.MaxCorrections = batchCorrections
	cfg.Checker.RulesOnly = batchRulesOnly
	cfg.Vocabulary.Path = batchVocab
	cfg.Concurrency.BatchWorkers = batchWorkers
	cfg.Output.Verbose = verbose

	orch, err := buildOrchestrator(cfg, batchDocs)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(orch, cfg.Concurrency.BatchWorkers)
	results, err := processor.ProcessFile(ctx, args[0])
	if err != nil {
		return err
	}

	outcomes := make([]*model.Outcome, 0, len(results))
	for _, r := range results {
		outcomes = append(outcomes, r.Outcome)
		renderOutcome(r.Outcome)
	}

	summary := score.NewScorer().Summarize(outcomes)
	fmt.Printf("Batch complete: %d accepted, %d hard-rejected, %d failed (of %d)\n",
		summary.Accepted, summary.HardRejected, summary.Failed, summary.Total)
	fmt.Printf("Mean attempts per question: %.1f\n", summary.MeanAttempts)
	for _, sig := range summary.Signals {
		fmt.Printf("  [%s] %s\n", sig.Severity, sig.Description)
	}

	if batchJSON != "" {
		if err := writeOutcomeJSON(batchJSON, outcomes); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", batchJSON)
		}
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d question(s) failed in the pipeline", summary.Failed)
	}
	return nil
}
