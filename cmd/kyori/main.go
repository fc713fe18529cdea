// Package main is the kyori CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/kyori/internal/cli"
	"github.com/hyperjump/kyori/internal/config"
	"github.com/hyperjump/kyori/internal/dataset"
	"github.com/hyperjump/kyori/internal/embedding"
	"github.com/hyperjump/kyori/internal/models"
	"github.com/hyperjump/kyori/internal/scorer"
	"github.com/hyperjump/kyori/internal/server"
	"github.com/hyperjump/kyori/internal/storage"
	"github.com/hyperjump/kyori/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kyori/config.yaml"

// loadConfig loads config from path. When path is the default, it first
// looks for config.yaml in the current directory (for development); if
// that exists it is used. Returns the config and the path that was
// actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "score":
		runScore()
	case "server":
		runServer()
	case "cache":
		runCache()
	case "version", "--version", "-v":
		fmt.Printf("kyori version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`kyori - Fréchet Audio Distance scoring

Usage:
  kyori score -eval <dir> [-config <path>] [-output text|json]
      Score an evaluation directory against the configured background set.
  kyori server [-config <path>] [-debug]
      Run the HTTP scoring API.
  kyori cache [-config <path>]
      Show (and warm) the cached background statistics.
  kyori version
      Print the version.`)
}

// outputFormat maps a -output flag value to a cli format, defaulting to
// text for anything unrecognized.
func outputFormat(s string) cli.OutputFormat {
	if s == string(cli.OutputJSON) {
		return cli.OutputJSON
	}
	return cli.OutputText
}

// components bundles the wired-up scoring stack.
type components struct {
	Embedder  embedding.Embedder
	Collector *embedding.Collector
	Store     storage.StatStore
	Loader    *dataset.Loader
	Scorer    *scorer.Scorer
}

// Close releases the embedder and the statistics store.
func (c *components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

// initializeComponents builds the embedder, statistics store, loader and
// scorer from cfg. The VGGish ONNX embedder is used when available,
// falling back to the deterministic mock embedder otherwise.
func initializeComponents(cfg *config.Config, logger *zap.Logger) (*components, error) {
	var embedder embedding.Embedder
	vggish, err := embedding.NewVGGishEmbedder(embedding.VGGishConfig{
		ModelPath:     cfg.Embedding.ModelPath,
		Dimensions:    cfg.Embedding.Dimensions,
		SampleRate:    cfg.Embedding.SampleRate,
		WindowSeconds: cfg.Embedding.WindowSeconds,
		UsePCA:        cfg.Embedding.UsePCA,
		UseActivation: cfg.Embedding.UseActivation,
		CacheSize:     cfg.Embedding.CacheSize,
	})
	if err != nil {
		logger.Warn("VGGish embedder unavailable, using mock embedder", zap.Error(err))
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	} else {
		embedder = vggish
	}

	var store storage.StatStore
	switch cfg.Cache.Backend {
	case "sqlite":
		store, err = storage.NewSQLiteStore(filepath.Join(cfg.Cache.Path, "background_stats.db"))
	case "disk", "":
		store, err = storage.NewDiskStore(cfg.Cache.Path)
	default:
		err = fmt.Errorf("unknown cache backend: %s (supported: disk, sqlite)", cfg.Cache.Backend)
	}
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}

	backgroundFiles, err := dataset.ListFiles(cfg.Background.Directory, cfg.Extensions)
	if err != nil {
		_ = embedder.Close()
		_ = store.Close()
		return nil, fmt.Errorf("failed to list background set: %w", err)
	}
	stamps, err := storage.StampFiles(backgroundFiles)
	if err != nil {
		_ = embedder.Close()
		_ = store.Close()
		return nil, err
	}
	cacheKey := storage.KeyInput{
		ModelPath:     cfg.Embedding.ModelPath,
		Dimensions:    cfg.Embedding.Dimensions,
		SampleRate:    cfg.Embedding.SampleRate,
		UsePCA:        cfg.Embedding.UsePCA,
		UseActivation: cfg.Embedding.UseActivation,
		Files:         stamps,
	}.CacheKey()

	loader := dataset.NewLoader(cfg.Embedding.SampleRate, logger)
	collector := embedding.NewCollector(embedder, cfg.Embedding.Workers, logger)
	background := func(ctx context.Context) ([]*models.Waveform, error) {
		return loader.LoadDirectory(cfg.Background.Directory, cfg.Extensions)
	}
	sc := scorer.NewScorer(collector, store, cacheKey, background, logger)

	return &components{
		Embedder:  embedder,
		Collector: collector,
		Store:     store,
		Loader:    loader,
		Scorer:    sc,
	}, nil
}

func setup(configPath string, debug bool) (*config.Config, *zap.Logger, *components) {
	cfg, resolvedPath, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("config loaded", zap.String("config_path", resolvedPath))

	comps, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	return cfg, logger, comps
}

func runScore() {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	evalDir := fs.String("eval", "", "directory of evaluation audio files (required)")
	output := fs.String("output", "text", "output format: text or json")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	if *evalDir == "" {
		fmt.Println("score: -eval is required")
		fs.Usage()
		os.Exit(1)
	}

	cfg, logger, comps := setup(*configPath, *debug)
	defer logger.Sync()
	defer comps.Close()

	start := time.Now()
	waveforms, err := comps.Loader.LoadDirectory(*evalDir, cfg.Extensions)
	if err != nil {
		logger.Fatal("Failed to load evaluation set", zap.Error(err))
	}
	result, err := comps.Scorer.Score(context.Background(), waveforms)
	if err != nil {
		logger.Fatal("Scoring failed", zap.Error(err))
	}

	resp := &models.ScoreResponse{
		ID:        uuid.New().String(),
		FAD:       result.FAD,
		Empty:     result.Empty,
		EvalItems: result.EvalItems,
		EvalRows:  result.EvalRows,
		QueryTime: time.Since(start).Milliseconds(),
	}
	if err := cli.WriteScoreResult(os.Stdout, resp, outputFormat(*output)); err != nil {
		logger.Fatal("Failed to write result", zap.Error(err))
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger, comps := setup(*configPath, *debug)
	defer logger.Sync()
	defer comps.Close()

	srv := server.NewServer(comps.Scorer, comps.Loader, cfg.Extensions, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runCache() {
	fs := flag.NewFlagSet("cache", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	_, logger, comps := setup(*configPath, *debug)
	defer logger.Sync()
	defer comps.Close()

	ctx := context.Background()
	key := comps.Scorer.CacheKey()
	cached, err := comps.Store.Exists(ctx, key)
	if err != nil {
		logger.Fatal("Failed to check cache", zap.Error(err))
	}

	g, ok, err := comps.Scorer.BackgroundStats(ctx)
	if err != nil {
		logger.Fatal("Failed to compute background statistics", zap.Error(err))
	}
	fmt.Printf("Cache key:  %s\n", key)
	if !ok {
		fmt.Println("Background: empty (nothing cached)")
		return
	}
	fmt.Printf("Dimensions: %d\n", g.Dims())
	if cached {
		fmt.Println("Status:     already cached")
	} else {
		fmt.Println("Status:     computed and cached now")
	}
}
