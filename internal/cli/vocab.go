package cli

import (
	"fmt"

	"github.com/factgate/factgate/internal/model"
	"github.com/factgate/factgate/internal/ontology"
	"github.com/spf13/cobra"
)

var (
	vocabPath   string
	vocabPrompt bool
)

// vocabCmd represents the vocab command
var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Inspect the active constraint vocabulary",
	Long: `Vocab prints the classes, properties, disjointness axioms, and role
constraints that the checker will enforce. Use it to verify a custom
vocabulary file before running queries against it.

Example:
  factgate vocab
  factgate vocab --vocab my_vocab.yaml
  factgate vocab --prompt`,
	RunE: runVocab,
}

func init() {
	rootCmd.AddCommand(vocabCmd)

	vocabCmd.Flags().StringVar(&vocabPath, "vocab", "", "vocabulary YAML file (default: built-in loan vocabulary)")
	vocabCmd.Flags().BoolVar(&vocabPrompt, "prompt", false, "print the extraction system prompt derived from the vocabulary")
}

func runVocab(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()
	cfg.Vocabulary.Path = vocabPath

	constraints, err := loadConstraintModel(cfg)
	if err != nil {
		return err
	}

	if vocabPrompt {
		fmt.Println(ontology.ExtractionPrompt(constraints))
		return nil
	}

	source := "built-in"
	if vocabPath != "" {
		source = vocabPath
	}
	fmt.Printf("Vocabulary: %s\n\n", source)

	fmt.Printf("Classes (%d):\n", len(constraints.Classes))
	for _, c := range constraints.Classes {
		if c.Description != "" {
			fmt.Printf("  %-24s %s\n", c.Name, c.Description)
		} else {
			fmt.Printf("  %s\n", c.Name)
		}
	}

	fmt.Printf("\nProperties (%d):\n", len(constraints.Properties))
	for _, p := range constraints.Properties {
		if p.Description != "" {
			fmt.Printf("  %-24s %s\n", p.Name, p.Description)
		} else {
			fmt.Printf("  %s\n", p.Name)
		}
	}

	fmt.Printf("\nDisjoint pairs (%d):\n", len(constraints.Disjoint))
	for _, pair := range constraints.Disjoint {
		fmt.Printf("  %s ⊥ %s\n", pair[0], pair[1])
	}

	fmt.Printf("\nRoles (%d):\n", len(constraints.Roles))
	for _, r := range constraints.Roles {
		fmt.Printf("  %s (subject of %v, object of %v)\n", r.Name, r.SubjectRelations, r.ObjectRelations)
	}

	fmt.Printf("\nRole rules (%d):\n", len(constraints.Rules))
	for _, rule := range constraints.Rules {
		fmt.Printf("  no %s as %s when %s is asserted\n", rule.ForbiddenType, rule.Role, rule.ContextClass)
	}

	return nil
}
