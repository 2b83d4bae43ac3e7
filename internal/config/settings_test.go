package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/m-mizutani/gt"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"QDRANT_HOST", "QDRANT_PORT", "QDRANT_API_KEY", "DATABASE_URL", "REDIS_ADDR",
		"REDIS_PASSWORD", "OPENAI_API_KEY", "GOOGLE_API_KEY", "VECTOR_BACKEND",
		"EMBEDDING_PROVIDER", "LLM_PROVIDER", "APP_ENV",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		gt.NoError(t, err).Required()
		gt.Value(t, cfg.Chunking.ChunkSize).Equal(800)
		gt.Value(t, cfg.Chunking.Overlap).Equal(100)
		gt.Value(t, cfg.Dedup.SimilarityThreshold).Equal(float32(0.97))
		gt.Value(t, cfg.Retrieval.TopK).Equal(7)
		gt.Value(t, cfg.VectorStore.IndexName).Equal("contracts-rag")
		gt.Value(t, cfg.Embedding.Model).Equal(config.GoogleEmbeddingModel)
	})

	t.Run("file values override defaults and keep the rest", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		body := "chunking:\n  chunk_size: 400\n  overlap: 0\nvector_store:\n  backend: memory\nembedding:\n  provider: openai\n"
		gt.NoError(t, os.WriteFile(path, []byte(body), 0o600)).Required()

		cfg, err := config.Load(path)
		gt.NoError(t, err).Required()
		gt.Value(t, cfg.Chunking.ChunkSize).Equal(400)
		gt.Value(t, cfg.Chunking.Overlap).Equal(0)
		gt.Value(t, cfg.VectorStore.Backend).Equal(config.VectorBackendMemory)
		gt.Value(t, cfg.VectorStore.UpsertBatchSize).Equal(100)
		gt.Value(t, cfg.Embedding.Model).Equal(config.OpenAIEmbeddingModel)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("QDRANT_HOST", "qdrant.internal")
		t.Setenv("QDRANT_PORT", "7000")
		t.Setenv("LLM_PROVIDER", "openai")
		t.Setenv("APP_ENV", "production")

		cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		gt.NoError(t, err).Required()
		gt.Value(t, cfg.VectorStore.Qdrant.Host).Equal("qdrant.internal")
		gt.Value(t, cfg.VectorStore.Qdrant.Port).Equal(7000)
		gt.Value(t, cfg.LLM.Model).Equal(config.OpenAIChatModel)
		gt.Bool(t, cfg.Prod).True()
	})

	t.Run("broken yaml is a configuration error", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		gt.NoError(t, os.WriteFile(path, []byte("chunking: ["), 0o600)).Required()

		_, err := config.Load(path)
		gt.Error(t, err).Is(contractModel.ErrConfiguration)
	})
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *config.Settings {
		clearEnv(t)
		t.Setenv("GOOGLE_API_KEY", "test-key")
		cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		gt.NoError(t, err).Required()
		return cfg
	}

	t.Run("defaults with a key are valid", func(t *testing.T) {
		gt.NoError(t, valid(t).Validate())
	})

	testCases := []struct {
		name   string
		mutate func(*config.Settings)
	}{
		{"overlap equal to chunk size", func(s *config.Settings) { s.Chunking.Overlap = s.Chunking.ChunkSize }},
		{"overlap larger than chunk size", func(s *config.Settings) { s.Chunking.Overlap = 900 }},
		{"zero chunk size", func(s *config.Settings) { s.Chunking.ChunkSize = 0 }},
		{"negative overlap", func(s *config.Settings) { s.Chunking.Overlap = -1 }},
		{"threshold above one", func(s *config.Settings) { s.Dedup.SimilarityThreshold = 1.5 }},
		{"zero upsert batch", func(s *config.Settings) { s.VectorStore.UpsertBatchSize = 0 }},
		{"unknown backend", func(s *config.Settings) { s.VectorStore.Backend = "pinecone" }},
		{"unknown provider", func(s *config.Settings) { s.LLM.Provider = "cohere" }},
		{"missing key", func(s *config.Settings) { s.GoogleAPIKey = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid(t)
			tc.mutate(cfg)
			gt.Error(t, cfg.Validate()).Is(contractModel.ErrConfiguration)
		})
	}
}
