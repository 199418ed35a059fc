package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-extractor/internal/acquire"
	"github.com/jonathan/cv-extractor/internal/config"
	"github.com/jonathan/cv-extractor/internal/db"
	"github.com/jonathan/cv-extractor/internal/llm"
	"github.com/jonathan/cv-extractor/internal/observability"
	"github.com/jonathan/cv-extractor/internal/pipeline"
	"github.com/jonathan/cv-extractor/internal/store"
)

// commonFlags holds the flag values shared by the extract and evaluate
// commands. Each command registers its own copy.
type commonFlags struct {
	configPath    string
	models        []string
	dataDir       string
	ollamaURL     string
	openRouterKey string
	geminiKey     string
	databaseURL   string
	maxConcurrent int
	timeoutSecs   int
	minTextLength int
	verbose       bool
}

func (f *commonFlags) register(cmd *cobra.Command) {
	// Config file flag (processed first)
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	cmd.Flags().StringSliceVarP(&f.models, "models", "m", nil, "Model ids to run (default: all routed models)")
	cmd.Flags().StringVar(&f.dataDir, "data-dir", "", "Directory for cached text and results")
	cmd.Flags().StringVar(&f.ollamaURL, "ollama-url", "", "Ollama base URL (defaults to OLLAMA_URL env var)")
	cmd.Flags().IntVar(&f.maxConcurrent, "max-concurrent", 0, "Maximum concurrent model invocations per document")
	cmd.Flags().IntVar(&f.timeoutSecs, "timeout", 0, "Per-backend attempt timeout in seconds")
	cmd.Flags().IntVar(&f.minTextLength, "min-text-length", 0, "Minimum native text length before OCR fallback")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print detailed debug information")

	// API keys can be passed as flags, or read from env vars
	cmd.Flags().StringVar(&f.openRouterKey, "openrouter-key", "", "OpenRouter API key (optional, defaults to OPENROUTER_API_KEY env var)")
	cmd.Flags().StringVar(&f.geminiKey, "gemini-key", "", "Gemini API key for OCR and hosted models (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for run persistence
	cmd.Flags().StringVar(&f.databaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
}

// resolveConfig merges config file, environment and CLI flags, with flags
// taking priority over everything else.
func (f *commonFlags) resolveConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if f.verbose {
			fmt.Printf("Loaded config from: %s\n", f.configPath)
		}
	}

	cfg.ApplyEnv()

	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if cmd.Flags().Changed("ollama-url") {
		cfg.OllamaURL = f.ollamaURL
	}
	if cmd.Flags().Changed("openrouter-key") {
		cfg.OpenRouterAPIKey = f.openRouterKey
	}
	if cmd.Flags().Changed("gemini-key") {
		cfg.GeminiAPIKey = f.geminiKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = f.databaseURL
	}
	if cmd.Flags().Changed("max-concurrent") {
		cfg.MaxConcurrent = f.maxConcurrent
	}
	if cmd.Flags().Changed("timeout") {
		cfg.AttemptTimeoutSeconds = f.timeoutSecs
	}
	if cmd.Flags().Changed("min-text-length") {
		cfg.MinTextLength = f.minTextLength
	}
	if f.verbose {
		cfg.Verbose = true
	}

	cfg = cfg.WithDefaults(config.Default())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// runtime bundles the wired collaborators for one command invocation.
type runtime struct {
	cfg      config.Config
	orch     *pipeline.Orchestrator
	store    *store.Store
	printer  *observability.Printer
	database *db.DB
	runID    uuid.UUID

	closers []func()
}

func (r *runtime) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// newRuntime wires backends, acquisition, storage and persistence from the
// resolved configuration.
func newRuntime(ctx context.Context, cfg config.Config) (*runtime, error) {
	rt := &runtime{
		cfg:     cfg,
		printer: observability.NewPrinter(os.Stdout),
	}

	st, err := store.New(cfg.DataDir)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}
	rt.store = st

	backends := []llm.Backend{
		llm.NewOllamaBackend(cfg.OllamaURL),
		llm.NewOpenRouterBackend(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey),
	}

	var ocr acquire.OCRExtractor
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiBackend(ctx, cfg.GeminiAPIKey)
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("failed to initialize Gemini backend: %w", err)
		}
		rt.closers = append(rt.closers, func() { _ = gemini.Close() })
		backends = append(backends, gemini)

		geminiOCR, err := acquire.NewGeminiOCR(ctx, cfg.GeminiAPIKey, acquire.DefaultOCRModel)
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("failed to initialize OCR: %w", err)
		}
		rt.closers = append(rt.closers, func() { _ = geminiOCR.Close() })
		ocr = geminiOCR
	}

	client := llm.NewClient(llm.ClientOptions{
		Routes:         llm.DefaultRoutingTable(),
		Backends:       backends,
		AttemptTimeout: time.Duration(cfg.AttemptTimeoutSeconds) * time.Second,
	})

	adapter := acquire.NewAdapter(acquire.NewPDFExtractor(), ocr, cfg.MinTextLength)

	var onProgress pipeline.ProgressCallback
	if cfg.Verbose {
		onProgress = func(event pipeline.ProgressEvent) {
			if event.Model != "" {
				fmt.Printf("[VERBOSE] %s %s/%s: %s\n", event.Stage, event.DocumentID, event.Model, event.Message)
				return
			}
			fmt.Printf("[VERBOSE] %s %s: %s\n", event.Stage, event.DocumentID, event.Message)
		}
	}

	orch, err := pipeline.New(pipeline.Options{
		Acquirer:      adapter,
		Invoker:       client,
		Routes:        client.Routes(),
		Store:         st,
		MaxConcurrent: cfg.MaxConcurrent,
		OnProgress:    onProgress,
	})
	if err != nil {
		rt.close()
		return nil, err
	}
	rt.orch = orch

	// Database persistence is best-effort: a missing database downgrades to
	// filesystem-only operation.
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
		} else {
			rt.closers = append(rt.closers, database.Close)
			if err := database.EnsureSchema(ctx); err != nil {
				fmt.Printf("Warning: Failed to ensure database schema: %v\n", err)
			} else {
				rt.database = database
				if runID, err := database.CreateRun(ctx); err != nil {
					fmt.Printf("Warning: Failed to create database run: %v\n", err)
					rt.database = nil
				} else {
					rt.runID = runID
					if cfg.Verbose {
						fmt.Printf("[VERBOSE] Created database run: %s\n", runID)
					}
				}
			}
		}
	}

	return rt, nil
}

// collectDocuments expands the command arguments into a sorted list of PDF
// paths. Directory arguments are scanned one level deep.
func collectDocuments(args []string) ([]string, error) {
	var docs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if !info.IsDir() {
			docs = append(docs, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
				docs = append(docs, filepath.Join(arg, entry.Name()))
			}
		}
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents found")
	}
	sort.Strings(docs)
	return docs, nil
}
