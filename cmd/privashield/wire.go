package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/NIT-JSR/PrivaShield-AI/internal/adapters/driven/ai"
	"github.com/NIT-JSR/PrivaShield-AI/internal/adapters/driven/config/file"
	"github.com/NIT-JSR/PrivaShield-AI/internal/adapters/driven/metrics/prometheus"
	"github.com/NIT-JSR/PrivaShield-AI/internal/adapters/driven/storage/memory"
	"github.com/NIT-JSR/PrivaShield-AI/internal/adapters/driven/storage/postgres"
	"github.com/NIT-JSR/PrivaShield-AI/internal/adapters/driven/storage/redis"
	"github.com/NIT-JSR/PrivaShield-AI/internal/adapters/driven/storage/sqlite"
	"github.com/NIT-JSR/PrivaShield-AI/internal/adapters/driven/vectorindex/flat"
	"github.com/NIT-JSR/PrivaShield-AI/internal/adapters/driving/cli"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/services"
	"github.com/NIT-JSR/PrivaShield-AI/internal/logger"
	"github.com/NIT-JSR/PrivaShield-AI/internal/normalisers/html"
	"github.com/NIT-JSR/PrivaShield-AI/internal/postprocessors/chunker"
)

// envConfigDir overrides the configuration directory when --config-dir is unset.
const envConfigDir = "PRIVASHIELD_CONFIG_DIR"

// buildServices wires the stores, AI providers and services for one command.
func buildServices(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	dir, err := configDir(opts.ConfigDir)
	if err != nil {
		return nil, err
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	out := &cli.Services{Settings: settingsService}
	if !opts.Stack {
		return out, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	level := "info"
	if logger.IsVerbose() {
		level = "debug"
	}
	logger.Setup(os.Stderr, level, settings.Server.LogFormat)

	aiServices, err := ai.Init(*settings)
	if err != nil {
		return nil, err
	}
	out.Warnings = aiServices.Warnings

	cache, err := openScanCache(ctx, settings.Storage, dir)
	if err != nil {
		aiServices.Close()
		return nil, err
	}

	root := settings.Storage.Root
	if root == "" {
		root = filepath.Join(dir, "storage")
	}
	indexes := flat.NewStore(root, settings.Embedding.Model)

	promptDir := filepath.Join(dir, "prompts")
	if err := os.MkdirAll(promptDir, 0o700); err != nil {
		logger.Warn("Cannot create prompt directory: %v", err)
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		cache.Close()
		aiServices.Close()
		return nil, err
	}

	metrics := prometheus.New()

	normaliser := newNormaliser(settings.Normaliser)
	textChunker := chunker.New(
		chunker.WithChunkSize(settings.Chunker.Size),
		chunker.WithOverlap(settings.Chunker.Overlap),
	)

	ingest := services.NewIngestService(normaliser, textChunker, aiServices.EmbeddingService, indexes, aiServices.LLMService)
	ingest.SetPromptStore(prompts)
	ingest.SetMetrics(metrics)
	ingest.SetTemperature(settings.LLM.Temperature)

	retrieval := services.NewRetrievalService(aiServices.EmbeddingService, indexes, aiServices.LLMService)
	retrieval.SetPromptStore(prompts)
	retrieval.SetMetrics(metrics)
	retrieval.SetTopK(settings.Retrieval.TopK)
	retrieval.SetQueryExpansion(settings.Retrieval.ExpandQueries)
	retrieval.SetTemperature(settings.LLM.Temperature)

	analysis := services.NewAnalysisService(normaliser, aiServices.LLMService)
	analysis.SetPromptStore(prompts)
	analysis.SetMetrics(metrics)

	scan := services.NewScanService(cache, indexes, ingest, retrieval, analysis)
	scan.SetMetrics(metrics)

	out.Scan = scan
	out.Analysis = analysis
	out.Metrics = metrics
	out.Backend = string(settings.Storage.ScanCache)
	out.ServerAddr = settings.Server.Addr
	out.Watcher = file.NewPromptWatcher(promptDir, prompts)
	out.Close = func() error {
		aiServices.Close()
		return cache.Close()
	}

	logger.Debug("Config dir: %s, index root: %s, scan cache: %s", dir, root, settings.Storage.ScanCache)
	return out, nil
}

func configDir(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv(envConfigDir); env != "" {
		return env, nil
	}
	dir, err := file.DefaultDir()
	if err != nil {
		return "", fmt.Errorf("resolving config directory: %w", err)
	}
	return dir, nil
}

func newNormaliser(mode domain.NormaliserMode) driven.Normaliser {
	if mode == domain.NormaliserReadability {
		return html.NewReadability()
	}
	return html.New()
}

// openScanCache opens the configured scan cache backend. The sqlite
// database lives in DSN when set, otherwise in the config directory.
func openScanCache(ctx context.Context, s domain.StorageSettings, dir string) (driven.ScanCache, error) {
	switch s.ScanCache {
	case domain.ScanCacheSQLite, "":
		dataDir := s.DSN
		if dataDir == "" {
			dataDir = dir
		}
		return sqlite.NewStore(dataDir)
	case domain.ScanCachePostgres:
		return postgres.Open(ctx, s.DSN)
	case domain.ScanCacheRedis:
		return redis.Open(ctx, redis.Options{
			Addr:     s.RedisAddr,
			Password: s.RedisPassword,
			DB:       s.RedisDB,
		})
	case domain.ScanCacheMemory:
		return memory.NewScanCache(), nil
	default:
		return nil, errors.New("unknown scan cache backend: " + string(s.ScanCache))
	}
}
