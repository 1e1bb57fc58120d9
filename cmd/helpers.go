package cmd

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ziadkadry99/docchat/internal/chat"
	"github.com/ziadkadry99/docchat/internal/config"
	"github.com/ziadkadry99/docchat/internal/embeddings"
	"github.com/ziadkadry99/docchat/internal/llm"
	"github.com/ziadkadry99/docchat/internal/logger"
	"github.com/ziadkadry99/docchat/internal/search"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docchat init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// apiKey resolves the OpenAI API key from config or environment.
func apiKey(cfg *config.Config) (string, error) {
	if cfg.OpenAI.APIKey != "" {
		return cfg.OpenAI.APIKey, nil
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("OPENAI_API_KEY environment variable (or openai.api_key) is required")
}

// createProvider creates the chat completion provider for the configured
// backend.
func createProvider(cfg *config.Config) (llm.Provider, error) {
	key, err := apiKey(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Backend == config.BackendAzure {
		return llm.NewAzureOpenAIProvider(key, cfg.OpenAI.Endpoint, cfg.OpenAI.ChatDeployment, cfg.OpenAI.ChatModel), nil
	}
	return llm.NewOpenAIProvider(key, cfg.OpenAI.ChatModel), nil
}

// createEmbedder creates the query/document embedder for the configured
// backend.
func createEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	key, err := apiKey(cfg)
	if err != nil {
		return nil, err
	}
	model := embeddings.OpenAIModel(cfg.OpenAI.EmbedModel)
	if cfg.Backend == config.BackendAzure {
		return embeddings.NewAzureOpenAIEmbedder(key, cfg.OpenAI.Endpoint, cfg.OpenAI.EmbedDeployment, model), nil
	}
	return embeddings.NewOpenAIEmbedder(key, model), nil
}

// createIndex creates the search index for the configured backend. For
// the local backend it loads the persisted store when one exists.
func createIndex(cfg *config.Config, embedder embeddings.Embedder, log *zap.Logger) (search.Index, error) {
	if cfg.Backend == config.BackendAzure {
		return search.NewAzureIndex(search.AzureConfig{
			Endpoint:       cfg.Search.Endpoint,
			IndexName:      cfg.Search.Index,
			APIKey:         cfg.Search.APIKey,
			SemanticConfig: cfg.Search.SemanticConfig,
			Language:       cfg.Search.Language,
		}), nil
	}

	index, err := search.NewLocalIndex(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating local index: %w", err)
	}
	if err := index.Load(context.Background(), cfg.Local.DataDir); err != nil {
		log.Warn("could not load local index, run `docchat ingest` to fill it",
			zap.String("data_dir", cfg.Local.DataDir),
			zap.Error(err),
		)
	}
	return index, nil
}

// buildRegistry wires the approaches over the configured backend.
func buildRegistry(cfg *config.Config, log *zap.Logger) (*chat.Registry, error) {
	provider, err := createProvider(cfg)
	if err != nil {
		return nil, err
	}
	embedder, err := createEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	index, err := createIndex(cfg, embedder, log)
	if err != nil {
		return nil, err
	}

	retriever := search.NewRetriever(index, embedder, log)

	reg := chat.NewRegistry()
	reg.RegisterAsk("rtr", chat.NewRetrieveThenRead(provider, retriever, cfg.OpenAI.ChatModel, log))
	reg.RegisterChat("rrr", chat.NewChatReadRetrieveRead(provider, retriever, cfg.OpenAI.ChatModel, log))
	return reg, nil
}

func newLogger(cfg *config.Config) *zap.Logger {
	return logger.New(verbose || cfg.Verbose)
}

// defaultOverrides translates the configured retrieval defaults into
// request overrides.
func defaultOverrides(cfg *config.Config) chat.Overrides {
	return chat.Overrides{
		RetrievalMode:     search.Mode(cfg.Default.RetrievalMode),
		Top:               cfg.Default.Top,
		UseSemanticRanker: cfg.Default.UseSemanticRanker,
	}
}
