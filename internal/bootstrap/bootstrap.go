// Package bootstrap builds the component graph once per process from
// config.Settings and hands it to the binaries.
package bootstrap

import (
	"context"
	"net/http"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/customHttpClient"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/rag"
	"github.com/akolanti/ContractRAG/internal/rag/chunker"
	"github.com/akolanti/ContractRAG/internal/rag/dedup"
	"github.com/akolanti/ContractRAG/internal/rag/embedding"
	"github.com/akolanti/ContractRAG/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/ContractRAG/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/ContractRAG/internal/rag/ingest"
	"github.com/akolanti/ContractRAG/internal/rag/llm"
	"github.com/akolanti/ContractRAG/internal/rag/llm/gemini"
	"github.com/akolanti/ContractRAG/internal/rag/llm/openaiLLM"
	"github.com/akolanti/ContractRAG/internal/rag/retrieval"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB/memoryDB"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB/pgvectorDB"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/m-mizutani/goerr/v2"
)

var logger = logger_i.NewLogger("Bootstrap")

type App struct {
	Settings config.Settings
	Store    vectorDB.Store
	Service  rag.Service
}

// Build validates settings, connects the vector store, makes sure the index
// exists and wires the upload and query paths. Store clients close when ctx
// is cancelled.
func Build(ctx context.Context, settings config.Settings) (*App, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	store, err := NewVectorStore(ctx, settings)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndex(ctx); err != nil {
		return nil, goerr.Wrap(err, "failed to prepare vector index", goerr.V("index", settings.VectorStore.IndexName))
	}

	httpClient := customHttpClient.NewPooledClient()
	inner, err := NewEmbedder(ctx, settings, httpClient)
	if err != nil {
		return nil, err
	}
	embedder := embedding.NewBatcher(inner, settings.Embedding.BatchCeiling, settings.Embedding.Dimension)

	provider, err := NewLLM(ctx, settings, httpClient)
	if err != nil {
		return nil, err
	}

	tok, err := chunker.NewTiktokenTokenizer(settings.Chunking.Encoding)
	if err != nil {
		return nil, err
	}
	ch, err := chunker.New(tok, chunker.Config{ChunkSize: settings.Chunking.ChunkSize, Overlap: settings.Chunking.Overlap})
	if err != nil {
		return nil, err
	}

	d := settings.Dedup
	batch := settings.VectorStore.UpsertBatchSize
	pipeline := ingest.NewPipeline(ch,
		dedup.NewHashDeduplicator(store, batch, d.LookupConcurrency),
		dedup.NewSimilarityDeduplicator(store, d.SimilarityThreshold, d.SimilarityTopK, d.LookupConcurrency),
		embedder, store, ingest.Config{
			IndexName:         settings.VectorStore.IndexName,
			EmbeddingModel:    settings.Embedding.Model,
			UpsertBatchSize:   batch,
			MetadataTextLimit: config.MetadataTextLimit,
			MaxUploadBytes:    config.MaxUploadBytes,
		})

	orchestrator := retrieval.New(retrieval.Config{TopK: settings.Retrieval.TopK}, embedder, store, provider).
		WithDomainFilter(retrieval.KeywordDomainFilter)

	logger.Info("Components ready",
		"backend", settings.VectorStore.Backend,
		"index", settings.VectorStore.IndexName,
		"embedding", settings.Embedding.Provider+"/"+settings.Embedding.Model,
		"llm", settings.LLM.Provider+"/"+settings.LLM.Model)

	return &App{
		Settings: settings,
		Store:    store,
		Service:  rag.NewService(pipeline, orchestrator, store, settings.VectorStore.IndexName),
	}, nil
}

func NewVectorStore(ctx context.Context, settings config.Settings) (vectorDB.Store, error) {
	vs := settings.VectorStore
	switch vs.Backend {
	case config.VectorBackendQdrant:
		return qdrantDB.NewClient(ctx, qdrantDB.Options{
			Host:       vs.Qdrant.Host,
			Port:       vs.Qdrant.Port,
			APIKey:     vs.Qdrant.APIKey,
			UseTLS:     vs.Qdrant.UseTLS,
			Collection: vs.IndexName,
			Dimension:  settings.Embedding.Dimension,
			Timeout:    config.VectorStoreTimeout,
		})
	case config.VectorBackendPgvector:
		return pgvectorDB.New(ctx, pgvectorDB.Options{
			DSN:       vs.Postgres.DSN,
			MaxConns:  vs.Postgres.MaxConns,
			IndexName: vs.IndexName,
			Dimension: settings.Embedding.Dimension,
			Timeout:   config.VectorStoreTimeout,
		})
	case config.VectorBackendMemory:
		return memoryDB.New(vs.IndexName, settings.Embedding.Dimension), nil
	default:
		return nil, goerr.Wrap(contractModel.ErrConfiguration, "unknown vector backend", goerr.V("backend", vs.Backend))
	}
}

func NewEmbedder(ctx context.Context, settings config.Settings, httpClient *http.Client) (embedding.Embedder, error) {
	e := settings.Embedding
	switch e.Provider {
	case config.ProviderGoogle:
		return googleEmbedding.NewGoogleEmbedder(ctx, httpClient, e.Model, settings.GoogleAPIKey, int32(e.Dimension))
	case config.ProviderOpenAI:
		return openaiEmbedding.NewOpenAIEmbedder(httpClient, e.Model, settings.OpenAIAPIKey, e.Dimension)
	default:
		return nil, goerr.Wrap(contractModel.ErrConfiguration, "unknown embedding provider", goerr.V("provider", e.Provider))
	}
}

func NewLLM(ctx context.Context, settings config.Settings, httpClient *http.Client) (llm.Provider, error) {
	l := settings.LLM
	switch l.Provider {
	case config.ProviderGoogle:
		return gemini.NewGeminiClient(ctx, httpClient, l.Model, settings.GoogleAPIKey)
	case config.ProviderOpenAI:
		return openaiLLM.NewOpenAIClient(httpClient, l.Model, settings.OpenAIAPIKey)
	default:
		return nil, goerr.Wrap(contractModel.ErrConfiguration, "unknown llm provider", goerr.V("provider", l.Provider))
	}
}
