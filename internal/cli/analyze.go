package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ebarkova/lede/internal/cache"
	"github.com/ebarkova/lede/internal/detect"
	"github.com/ebarkova/lede/internal/engine"
	"github.com/ebarkova/lede/internal/index"
	"github.com/ebarkova/lede/internal/llm"
	"github.com/ebarkova/lede/internal/model"
	"github.com/ebarkova/lede/internal/render"
	"github.com/ebarkova/lede/internal/toulmin"
)

var (
	notebookPath string
	outJSON      string
	outMD        string
	timeout      time.Duration
	outFormat    string
	noFooter     bool
	llmEnabled   bool
	llmProvider  string
	llmModel     string
	embEnabled   bool
	embProvider  string
	embModel     string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <article>",
	Short: "Analyze an article's claims against its notebook",
	Long: `Analyze detects the claims in a draft article and evaluates each one
against the analysis notebook:
- Detect assertion-like sentences and classify them
- Retrieve supporting evidence from notebook cells and insights
- Map each claim's argument structure (grounds, warrant, qualifier)
- Flag overclaims, causation/correlation slips, and evidence gaps
- Generate concrete writing suggestions

Example:
  lede analyze draft.txt --notebook notebook.json
  lede analyze draft.txt --notebook notebook.json --json report.json --md report.md
  lede analyze draft.txt --notebook notebook.json --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Input/output flags
	analyzeCmd.Flags().StringVar(&notebookPath, "notebook", "", "notebook snapshot JSON path")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path (- for stdout)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&outFormat, "format", "", "stdout format: pretty or json (default from config)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable the LLM judge")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "judge provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "judge model name")

	// Embedding flags
	analyzeCmd.Flags().BoolVar(&embEnabled, "embeddings", false, "enable semantic indexing of the notebook")
	analyzeCmd.Flags().StringVar(&embProvider, "embed-provider", "openai", "embedding provider (openai, ollama)")
	analyzeCmd.Flags().StringVar(&embModel, "embed-model", "text-embedding-3-small", "embedding model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	articlePath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", articlePath)
		fmt.Fprintf(os.Stderr, "Notebook: %s\n", notebookPath)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintln(os.Stderr)
	}

	// Build configuration from flags
	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose
	if outFormat != "" {
		cfg.Output.Format = outFormat
	}
	if err := configureProviders(cfg); err != nil {
		return err
	}

	article, err := readArticle(articlePath)
	if err != nil {
		return err
	}

	nb, err := loadNotebook(notebookPath)
	if err != nil {
		return err
	}

	e, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	report := e.Analyze(ctx, article, nb)
	report.ArticlePath = articlePath
	report.NotebookPath = notebookPath

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Detected %d claims\n", len(report.Claims))
		fmt.Fprintf(os.Stderr, "✓ Evaluated %d claims\n", len(report.Diagrams))
		fmt.Fprintf(os.Stderr, "✓ Generated %d suggestions\n", len(report.Suggestions))
		if len(report.Failures) > 0 {
			fmt.Fprintf(os.Stderr, "✗ %d claims failed evaluation\n", len(report.Failures))
		}
		fmt.Fprintln(os.Stderr)
	}

	renderer := render.NewRenderer(!noFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}
	if outJSON != "-" {
		switch cfg.Output.Format {
		case "json":
			if err := renderer.WriteJSON(os.Stdout, report); err != nil {
				return err
			}
		default:
			if err := renderer.WriteSummary(os.Stdout, report); err != nil {
				return err
			}
		}
	}

	return nil
}

// configureProviders fills cfg.LLM and cfg.Embedding from the flags and
// resolves API keys from the environment.
func configureProviders(cfg *model.Config) error {
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	if embEnabled {
		cfg.Embedding.Provider = embProvider
		cfg.Embedding.Model = embModel

		switch embProvider {
		case "openai":
			cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.Embedding.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.Embedding.BaseURL = baseURL
			}
		}
	}

	return nil
}

// buildEngine constructs the session engine with the configured judge and
// embedder. Either may be disabled; the engine degrades accordingly.
func buildEngine(cfg *model.Config) (*engine.Engine, error) {
	logger, err := buildLogger()
	if err != nil {
		return nil, err
	}

	judgeProvider, err := llm.NewJudge(llm.ConfigFromLLM(cfg.LLM), logger)
	if err != nil {
		return nil, fmt.Errorf("configure judge: %w", err)
	}
	var judge toulmin.Judge
	if judgeProvider != nil {
		judge = judgeProvider
	}

	embedder, err := llm.NewEmbedder(llm.ConfigFromEmbedding(cfg.Embedding), logger)
	if err != nil {
		return nil, fmt.Errorf("configure embedder: %w", err)
	}
	var embed index.EmbedFn
	if embedder != nil {
		embed = embedder.Embed
		if ttl := cfg.Embedding.CacheTTL; ttl > 0 {
			embCache := cache.NewEmbeddingCache(cfg.Embedding.Model, time.Duration(ttl)*time.Minute)
			embed = embCache.Wrap(embed)
		}
	}

	return engine.NewEngine(cfg, judge, embed, logger), nil
}

// readArticle loads the article text. HTML files are reduced to their
// visible text before detection.
func readArticle(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read article: %w", err)
	}
	text := string(data)
	if strings.HasSuffix(path, ".html") || strings.HasSuffix(path, ".htm") {
		text = detect.VisibleText(text)
	}
	return text, nil
}

// loadNotebook reads a notebook snapshot from JSON. An empty path yields an
// empty notebook; every claim will then surface a no-evidence issue.
func loadNotebook(path string) (model.NotebookSnapshot, error) {
	if path == "" {
		return model.NotebookSnapshot{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.NotebookSnapshot{}, fmt.Errorf("read notebook: %w", err)
	}

	var nb model.NotebookSnapshot
	if err := json.Unmarshal(data, &nb); err != nil {
		return model.NotebookSnapshot{}, fmt.Errorf("parse notebook: %w", err)
	}
	return nb, nil
}
