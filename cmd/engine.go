package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentgraph/internal/ai/gemini"
	"github.com/spigell/talentgraph/internal/builder"
	"github.com/spigell/talentgraph/internal/graph"
	"github.com/spigell/talentgraph/internal/knowledge"
	"github.com/spigell/talentgraph/internal/logger"
	"github.com/spigell/talentgraph/internal/ontology"
	"github.com/spigell/talentgraph/internal/profile"
	"github.com/spigell/talentgraph/internal/secrets"
)

const geminiKeyEnv = "GEMINI_API_KEY"

// engine holds the shared read-only state of every command.
type engine struct {
	config    *Config
	logger    *zap.Logger
	registry  *ontology.Registry
	knowledge *knowledge.Tables
	builder   *builder.Builder
	cache     *builder.Cache
}

// setup creates the logger and reads the config, exiting on failure.
func setup(command string) (*Config, *zap.Logger) {
	var outputs []string
	if file := viper.GetString("log-file"); file != "" {
		outputs = append(outputs, file)
	}

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), outputs...)
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil || config.Ontology == nil || config.Knowledge == nil || config.Scoring == nil || config.Community == nil || config.Career == nil {
		logger.Fatal("config is required")
	}

	logger.Info("starting the talentgraph", zap.String("command", command), zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return config, logger
}

func newEngine(ctx context.Context, config *Config, logger *zap.Logger) (*engine, error) {
	store, err := ontology.Load(config.Ontology.File, logger.Named("ontology"))
	if err != nil {
		return nil, err
	}
	registry := ontology.NewRegistry(store)

	tables, err := knowledge.Load(config.Knowledge.File)
	if err != nil {
		return nil, err
	}

	if config.Ontology.Embeddings != nil && config.Ontology.Embeddings.Enabled {
		if err := enrichOntology(ctx, registry, config, logger); err != nil {
			logger.Warn("skipping ontology enrichment", zap.Error(err))
		}
	}

	b := builder.New(registry.Current(),
		builder.WithIndustryLookup(tables),
		builder.WithRoleHierarchy(tables),
		builder.WithRelatedLimit(config.Ontology.RelatedLimit),
		builder.WithLogger(logger.Named("builder")),
	)

	e := &engine{
		config:    config,
		logger:    logger,
		registry:  registry,
		knowledge: tables,
		builder:   b,
	}
	if config.Cache != nil && config.Cache.Dir != "" {
		e.cache = builder.NewCache(config.Cache.Dir, logger.Named("cache"))
	}

	return e, nil
}

// buildCandidates builds the candidate graphs, reusing cached ones when the
// candidate file, the selected ids and the knowledge inputs are unchanged.
func (e *engine) buildCandidates(ctx context.Context, path string, candidates *profile.Candidates) ([]*graph.Graph, error) {
	build := func() ([]*graph.Graph, error) {
		return e.builder.BuildCandidates(ctx, candidates.Items, e.config.Scoring.Workers)
	}
	if e.cache == nil {
		return build()
	}

	key, err := e.cacheKey(path, candidates.IDs())
	if err != nil {
		return nil, err
	}

	if graphs, ok := e.cache.Load(key); ok && len(graphs) == candidates.Len() {
		e.logger.Info("using cached candidate graphs", zap.Int("count", len(graphs)))
		return graphs, nil
	}

	graphs, err := build()
	if err != nil {
		return nil, err
	}

	if err := e.cache.Store(key, graphs); err != nil {
		e.logger.Warn("caching candidate graphs", zap.Error(err))
	}
	return graphs, nil
}

func (e *engine) cacheKey(path string, ids []string) (string, error) {
	var parts [][]byte
	for _, file := range []string{path, e.config.Ontology.File, e.config.Knowledge.File} {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %q for the graph cache key: %w", file, err)
		}
		parts = append(parts, data)
	}

	// do not bother error since the config was decoded from yaml
	settings, _ := json.Marshal(e.config.Ontology)
	parts = append(parts, settings, []byte(strings.Join(ids, "\n")))

	return builder.CacheKey(parts...), nil
}

// enrichOntology adds embedding-derived relations to the current ontology.
func enrichOntology(ctx context.Context, registry *ontology.Registry, config *Config, logger *zap.Logger) error {
	if config.Gemini == nil {
		return errors.New("gemini configuration is required when embeddings are enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.Gemini.APIKeyFile,
		Env:  geminiKeyEnv,
	})
	if err != nil {
		return fmt.Errorf("%w (or set gemini.api-key-file)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", config.Gemini.Model),
		zap.Int("ai_retry_attempts", config.Gemini.MaxRetries),
	)

	embedder, err := gemini.NewEmbedder(ctx, apiKey, config.Gemini.Model, config.Gemini.MaxRetries, genLogger)
	if err != nil {
		return err
	}

	enriched, err := ontology.Enrich(ctx, registry.Current(), embedder, config.Ontology.Embeddings.Threshold)
	if err != nil {
		return fmt.Errorf("enriching ontology: %w", err)
	}

	registry.Swap(enriched)
	logger.Info("ontology enriched with embeddings",
		zap.String("model", embedder.Model()),
		zap.Int("skills", len(enriched.Skills())),
	)

	return nil
}
