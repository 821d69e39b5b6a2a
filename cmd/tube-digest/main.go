package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/nguyentantai21042004/tube-digest/internal/config"
	"github.com/nguyentantai21042004/tube-digest/internal/export"
	"github.com/nguyentantai21042004/tube-digest/internal/llm"
	"github.com/nguyentantai21042004/tube-digest/internal/logger"
	"github.com/nguyentantai21042004/tube-digest/internal/merger"
	"github.com/nguyentantai21042004/tube-digest/internal/pipeline"
	"github.com/nguyentantai21042004/tube-digest/internal/processor"
	"github.com/nguyentantai21042004/tube-digest/internal/summarizer"
	"github.com/nguyentantai21042004/tube-digest/internal/transcript"
	"github.com/nguyentantai21042004/tube-digest/internal/watcher"
	"github.com/nguyentantai21042004/tube-digest/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	envPath := flag.String("env", ".env", "optional .env file with API keys")
	videoURL := flag.String("url", "", "summarize one YouTube video, print Markdown and exit")
	checkOnly := flag.Bool("check", false, "check the LLM configuration and exit")
	flag.Parse()

	// Load .env before the config so secrets are visible to it
	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", *envPath, err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	for _, f := range cfg.Output.Formats {
		if _, err := export.ParseFormat(f); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid output.formats: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize logger
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	settings := llm.Settings{
		Provider:          cfg.LLM.Provider,
		Model:             cfg.LLM.Model,
		GeminiAPIKeys:     cfg.Secrets.GeminiAPIKeys,
		OpenAIAPIKey:      cfg.Secrets.OpenAIAPIKey,
		AnthropicAPIKey:   cfg.Secrets.AnthropicAPIKey,
		Temperature:       cfg.LLM.Temperature,
		MaxTokens:         cfg.LLM.MaxTokens,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	}
	ok, status := llm.CheckConfiguration(settings)
	if !ok {
		log.Error(ctx, "%s", status)
		os.Exit(1)
	}
	log.Info(ctx, "%s", status)
	if *checkOnly {
		return
	}

	proc, err := build(ctx, cfg, settings, log)
	if err != nil {
		log.Error(ctx, "Failed to initialize: %v", err)
		os.Exit(1)
	}

	if *videoURL != "" {
		if err := runOnce(ctx, proc, *videoURL, log); err != nil {
			log.Error(ctx, "%v", err)
			os.Exit(1)
		}
		return
	}

	if err := runWatch(ctx, cfg, proc, log); err != nil {
		log.Error(ctx, "Watcher error: %v", err)
		os.Exit(1)
	}
}

// build wires the clients once; everything below receives them explicitly.
func build(ctx context.Context, cfg *config.Config, settings llm.Settings, log logger.Logger) (processor.Processor, error) {
	client, err := llm.New(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}

	retry := llm.RetryPolicy{
		MaxRetries:  cfg.LLM.MaxRetries,
		BackoffBase: cfg.LLM.BackoffBase,
		MaxBackoff:  cfg.LLM.MaxBackoff,
		Multiplier:  2.0,
		Timeout:     cfg.LLM.Timeout,
	}

	sum := summarizer.New(client, cfg.LLM.Model, retry, log)
	var reduceCaller *summarizer.Caller
	if *cfg.Pipeline.ReducePass {
		reduceCaller = summarizer.NewCaller(client, cfg.LLM.Model, retry, log)
	}
	mrg := merger.New(reduceCaller, cfg.Pipeline.ThemeSimilarity, log)

	ctrl := pipeline.New(pipeline.Options{
		MaxChunkChars:           cfg.Pipeline.MaxChunkChars,
		ChunkOverlapChars:       cfg.Pipeline.ChunkOverlapChars,
		MaxConcurrentChunkCalls: cfg.Pipeline.MaxConcurrentChunkCalls,
	}, sum, mrg, log, pipeline.WithObserver(func(p pipeline.Progress) {
		if p.Message != "" {
			log.Info(ctx, "[%s] %s", p.State, p.Message)
		}
	}))

	fetchers := []transcript.Fetcher{
		transcript.NewWatchPage(nil, transcript.Options{
			Languages:  cfg.Transcript.Languages,
			Timeout:    cfg.Transcript.Timeout,
			MaxRetries: cfg.Transcript.MaxRetries,
		}, log),
	}
	ytdlp := cfg.Transcript.YTDLPPath
	if ytdlp == "" {
		if path, err := exec.LookPath("yt-dlp"); err == nil {
			ytdlp = path
		}
	}
	if ytdlp != "" {
		log.Info(ctx, "yt-dlp fallback enabled: %s", ytdlp)
		fetchers = append(fetchers, transcript.NewYTDLP(executor.New(), ytdlp, cfg.Transcript.Languages, log))
	}

	return processor.New(cfg, transcript.NewChain(log, fetchers...), ctrl, log), nil
}

func runOnce(ctx context.Context, proc processor.Processor, videoURL string, log logger.Logger) error {
	outcome, err := proc.Summarize(ctx, videoURL)
	if err != nil {
		return err
	}
	fmt.Println(export.Markdown(outcome.Result.Summary, export.Meta{VideoID: outcome.VideoID, Notes: outcome.Notes()}))

	written, err := proc.Export(ctx, outcome)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, path := range written {
		log.Info(ctx, "Saved %s", path)
	}
	return nil
}

func runWatch(ctx context.Context, cfg *config.Config, proc processor.Processor, log logger.Logger) error {
	// Verify required directories exist
	if err := ensureDirectories(cfg); err != nil {
		return err
	}

	w, err := watcher.New(cfg.Paths.Input, proc.Process, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	log.Info(ctx, "========================================")
	log.Info(ctx, "tube-digest is ready!")
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s (%v)", cfg.Paths.Output, cfg.Output.Formats)
	log.Info(ctx, "LLM: %s/%s, chunks of %d chars, %d concurrent calls",
		cfg.LLM.Provider, cfg.LLM.Model, cfg.Pipeline.MaxChunkChars, cfg.Pipeline.MaxConcurrentChunkCalls)
	log.Info(ctx, "Concurrent jobs: %d", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info(ctx, "tube-digest stopped")
	return nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Processing,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Failed,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
