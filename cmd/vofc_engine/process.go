package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/frostline/vofc-engine/internal/config"
	"github.com/frostline/vofc-engine/internal/db"
	"github.com/frostline/vofc-engine/internal/linking"
	"github.com/frostline/vofc-engine/internal/llm"
	"github.com/frostline/vofc-engine/internal/observability"
	"github.com/frostline/vofc-engine/internal/parsing"
	"github.com/frostline/vofc-engine/internal/pipeline"
	"github.com/frostline/vofc-engine/internal/types"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process an assessment document end to end",
	Long:  "Acquire text from a document, extract vulnerabilities and options for consideration, link them semantically, and persist or print the result.",
	RunE:  runProcess,
}

var (
	processFile    string
	processConfig  string
	processOut     string
	processDryRun  bool
	heuristicOnly  bool
	processVerbose bool
	memoryPath     string
	sourceURL      string
	sourceTitleStr string
)

func init() {
	processCmd.Flags().StringVarP(&processFile, "file", "f", "", "Path to the assessment document (required)")
	processCmd.Flags().StringVarP(&processConfig, "config", "c", "", "Path to JSON config file")
	processCmd.Flags().StringVarP(&processOut, "out", "o", "", "Write the result JSON to this file")
	processCmd.Flags().BoolVar(&processDryRun, "dry-run", false, "Skip persistence and print the result")
	processCmd.Flags().BoolVar(&heuristicOnly, "heuristic-only", false, "Skip model-driven extraction")
	processCmd.Flags().BoolVarP(&processVerbose, "verbose", "v", false, "Print the full result JSON after the summary")
	processCmd.Flags().StringVar(&memoryPath, "memory", "", "Path to the reinforcement memory log")
	processCmd.Flags().StringVar(&sourceURL, "source-url", "", "Source URL to attach when the document has none")
	processCmd.Flags().StringVar(&sourceTitleStr, "source-title", "", "Source title to attach when the document has none")

	processCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := &config.Config{}
	if processConfig != "" {
		loaded, err := config.LoadConfig(processConfig)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.LoadFromEnv()
	if processDryRun {
		cfg.DryRun = true
	}
	if heuristicOnly {
		cfg.HeuristicOnly = true
	}
	if processVerbose {
		cfg.Verbose = true
	}
	if memoryPath != "" {
		cfg.ReinforceMemory = memoryPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()

	var client llm.Client
	if !cfg.HeuristicOnly {
		var err error
		client, err = llm.NewClient(ctx, llmConfig(cfg))
		if err != nil {
			return fmt.Errorf("failed to create inference client: %w", err)
		}
		defer client.Close()
	}

	var memory linking.MemoryStore
	if cfg.ReinforceMemory != "" {
		memory = linking.NewFileMemoryStore(cfg.ReinforceMemory)
	}

	var opts []pipeline.Option
	if client != nil {
		opts = append(opts, pipeline.WithExtractor(parsing.NewExtractor(client, extractorOptions(cfg)...)))
	}
	if cfg.DatabaseURL != "" && !cfg.DryRun {
		store, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, pipeline.WithSink(store))
	}

	p := pipeline.New(client, memory, opts...)
	sub := &types.Submission{
		Path:        processFile,
		SourceTitle: sourceTitleStr,
		SourceURL:   sourceURL,
		DryRun:      cfg.DryRun,
	}

	result, err := p.Run(ctx, sub)
	if err != nil {
		return err
	}

	observability.PrintSummary(os.Stdout, result)

	if cfg.Verbose {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Println(string(data))
	}

	if processOut != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		if err := os.WriteFile(processOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		fmt.Printf("Result written to %s\n", processOut)
	}
	return nil
}

// extractorOptions maps configured extraction knobs onto extractor options;
// zero values keep the extractor defaults.
func extractorOptions(cfg *config.Config) []parsing.ExtractorOption {
	var opts []parsing.ExtractorOption
	if cfg.PacingMillis > 0 {
		opts = append(opts, parsing.WithPacing(time.Duration(cfg.PacingMillis)*time.Millisecond))
	}
	if cfg.MaxChunkLen > 0 {
		opts = append(opts, parsing.WithMaxChunkLen(cfg.MaxChunkLen))
	}
	if cfg.Temperature > 0 {
		opts = append(opts, parsing.WithTemperature(cfg.Temperature))
	}
	return opts
}

func llmConfig(cfg *config.Config) *llm.Config {
	out := llm.DefaultConfig()
	if cfg.Provider != "" {
		out.Provider = llm.Provider(cfg.Provider)
	}
	if cfg.OllamaBaseURL != "" {
		out.BaseURL = cfg.OllamaBaseURL
	}
	if cfg.Model != "" {
		out.Model = cfg.Model
	}
	if cfg.EmbedModel != "" {
		out.EmbedModel = cfg.EmbedModel
	}
	if cfg.APIKey != "" {
		out.APIKey = cfg.APIKey
	}
	if cfg.TimeoutSeconds > 0 {
		out.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return out
}
