package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"genesis/internal/config"
	"genesis/internal/discovery"
	"genesis/internal/feedback"
	"genesis/internal/logging"
	"genesis/internal/nlp"
	"genesis/internal/pipeline"
)

var (
	// Global flags
	verbose    bool
	apiKey     string
	configPath string
	dbPath     string
	provider   string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "genesis",
	Short: "genesis - staged insight generator",
	Long: `genesis transforms a natural-language domain description into a short
textual insight by running it through a fixed eight-stage pipeline:

  1. Domain analysis          (language capability)
  2. Critical elements        (language capability)
  3. Solution primitives      (language capability)
  4. Scaffold construction    (pure, local)
  5. Tool discovery           (external search, best-effort)
  6. Meta-concept synthesis   (language capability)
  7. Insight generation + refinement
  8. Feedback recording       (append-only store)`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

// runCmd executes a single pipeline run
var runCmd = &cobra.Command{
	Use:   "run [domain description]",
	Short: "Generate an insight for a domain description",
	Long: `Runs the full pipeline for one domain description and prints the refined
insight, or a descriptive error string if an early stage aborts the run.

Example:
  genesis run "AI-powered customer support systems face challenges with context understanding and user satisfaction."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPipeline,
}

// feedbackCmd lists recent feedback records
var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "List recent feedback records",
	RunE:  listFeedback,
}

var feedbackLimit int

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "language capability API key (overrides config/env)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", filepath.Join(".genesis", "config.yaml"), "config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "feedback database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&provider, "search-provider", "", "tool search provider: github or web (overrides config)")

	feedbackCmd.Flags().IntVar(&feedbackLimit, "limit", 10, "number of records to list")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(feedbackCmd)
}

// loadConfig loads configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if dbPath != "" {
		cfg.Feedback.DatabasePath = dbPath
	}
	if provider != "" {
		cfg.Discovery.Provider = provider
	}
	return cfg, nil
}

// buildSearcher selects the configured tool-search provider.
func buildSearcher(cfg *config.Config) (discovery.Searcher, error) {
	switch cfg.Discovery.Provider {
	case "", "github":
		return discovery.NewGitHubSearcher(cfg.Discovery.BaseURL), nil
	case "web":
		return discovery.NewWebSearcher(""), nil
	default:
		return nil, fmt.Errorf("unknown search provider %q (expected github or web)", cfg.Discovery.Provider)
	}
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := logging.Initialize(filepath.Dir(cfg.Feedback.DatabasePath), logging.Options{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		logger.Warn("debug logging unavailable", zap.Error(err))
	}

	searcher, err := buildSearcher(cfg)
	if err != nil {
		return err
	}

	store, err := feedback.NewStore(cfg.Feedback.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open feedback store: %w", err)
	}
	defer store.Close()

	client := nlp.NewGeminiClientWithConfig(nlp.GeminiConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLMTimeout(),
	})
	model := nlp.NewModel(client)

	pool := discovery.NewPool(cfg.Discovery.Workers, cfg.DiscoveryTimeout())
	discoverer := discovery.NewDiscoverer(searcher, pool, cfg.Discovery.MaxResults)

	orchestrator := pipeline.NewOrchestrator(model, discoverer, store, pipeline.Options{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	description := strings.Join(args, " ")
	logger.Debug("running pipeline", zap.String("domain", description))

	insight, err := orchestrator.Run(ctx, description)
	if err != nil {
		// Stage aborts are the user-visible result string, not a CLI failure.
		fmt.Println(err.Error())
		os.Exit(1)
	}

	fmt.Printf("Insight: %s\n", insight)
	return nil
}

func listFeedback(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := feedback.NewStore(cfg.Feedback.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open feedback store: %w", err)
	}
	defer store.Close()

	records, err := store.Recent(cmd.Context(), feedbackLimit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No feedback records.")
		return nil
	}

	for _, r := range records {
		fmt.Printf("[%d] %s\n  domain:  %s\n  insight: %s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Domain, r.Insight)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
