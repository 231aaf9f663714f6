package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ebarkova/lede/internal/model"
)

var suggestKind string

// suggestCmd represents the suggest command
var suggestCmd = &cobra.Command{
	Use:   "suggest <claim>",
	Short: "Generate rewrite candidates for a single claim",
	Long: `Suggest evaluates one claim sentence against the notebook and
generates ranked rewrite candidates:
- weaken: replace absolute language with hedged alternatives
- caveat: scope the claim to what the analysis covers
- reverse: negate, reframe as a question, or remove the claim

Example:
  lede suggest "Tariffs definitely harm farmers." --notebook notebook.json
  lede suggest "Crime always rises in summer." --kind weaken`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().StringVar(&notebookPath, "notebook", "", "notebook snapshot JSON path")
	suggestCmd.Flags().StringVar(&suggestKind, "kind", "weaken", "rewrite strategy (weaken, caveat, reverse)")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	claimText := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var kind model.ModificationKind
	switch suggestKind {
	case "weaken":
		kind = model.ModificationWeaken
	case "caveat":
		kind = model.ModificationCaveat
	case "reverse":
		kind = model.ModificationReverse
	default:
		return fmt.Errorf("unknown kind %q (use weaken, caveat, or reverse)", suggestKind)
	}

	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose

	nb, err := loadNotebook(notebookPath)
	if err != nil {
		return err
	}

	e, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	claims := e.DetectClaims(claimText)
	if len(claims) == 0 {
		return fmt.Errorf("no claim detected in %q", claimText)
	}

	diagram, err := e.EvaluateClaim(ctx, claims[0], nb)
	if err != nil {
		return fmt.Errorf("evaluate claim: %w", err)
	}

	candidates := e.GenerateModifications(kind, claims[0].Text, diagram)
	if len(candidates) == 0 {
		fmt.Println("No rewrite candidates; the claim may already be appropriately hedged.")
		return nil
	}

	for i, c := range candidates {
		text := c.Text
		if text == "" {
			text = "(remove the claim)"
		}
		fmt.Fprintf(os.Stdout, "%d. %s\n   %s (confidence %.2f)\n", i+1, text, c.Explanation, c.Confidence)
	}

	return nil
}
