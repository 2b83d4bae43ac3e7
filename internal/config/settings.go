package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

const DefaultSettingsPath = "config.yaml"

type ServerSettings struct {
	ListenAddr string `yaml:"listen_addr"`
}

type ChunkingSettings struct {
	ChunkSize int    `yaml:"chunk_size"`
	Overlap   int    `yaml:"overlap"`
	Encoding  string `yaml:"encoding"`
}

type DedupSettings struct {
	SimilarityThreshold float32 `yaml:"similarity_threshold"`
	SimilarityTopK      int     `yaml:"similarity_top_k"`
	LookupConcurrency   int     `yaml:"lookup_concurrency"`
}

type RetrievalSettings struct {
	TopK int `yaml:"top_k"`
}

type EmbeddingSettings struct {
	Provider     string `yaml:"provider"`
	Model        string `yaml:"model"`
	Dimension    int    `yaml:"dimension"`
	BatchCeiling int    `yaml:"batch_ceiling"`
}

type LLMSettings struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

type QdrantSettings struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
	UseTLS bool   `yaml:"use_tls"`
}

type PostgresSettings struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"max_conns"`
}

type VectorStoreSettings struct {
	Backend         string           `yaml:"backend"`
	IndexName       string           `yaml:"index_name"`
	UpsertBatchSize int              `yaml:"upsert_batch_size"`
	Qdrant          QdrantSettings   `yaml:"qdrant"`
	Postgres        PostgresSettings `yaml:"postgres"`
}

type RedisSettings struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Settings is the runtime configuration shared by every binary.
// API keys only ever come from the environment.
type Settings struct {
	Prod        bool                `yaml:"prod"`
	Server      ServerSettings      `yaml:"server"`
	Chunking    ChunkingSettings    `yaml:"chunking"`
	Dedup       DedupSettings       `yaml:"dedup"`
	Retrieval   RetrievalSettings   `yaml:"retrieval"`
	Embedding   EmbeddingSettings   `yaml:"embedding"`
	LLM         LLMSettings         `yaml:"llm"`
	VectorStore VectorStoreSettings `yaml:"vector_store"`
	Redis       RedisSettings       `yaml:"redis"`

	OpenAIAPIKey string `yaml:"-"`
	GoogleAPIKey string `yaml:"-"`
}

// Load reads settings from path. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Settings, error) {
	cfg := defaultSettings()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, goerr.Wrap(err, "failed to read settings", goerr.V("path", path))
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, goerr.Wrap(contractModel.Classify(contractModel.ErrConfiguration, err),
				"failed to parse settings", goerr.V("path", path))
		}
	}
	applyConfigDefaults(cfg)
	applyEnv(cfg)
	return cfg, nil
}

// LogLevel is debug outside production.
func (s *Settings) LogLevel() slog.Level {
	if s.Prod {
		return LOG_LEVEL_PROD
	}
	return slog.LevelDebug
}

// Validate rejects settings that would make the pipeline misbehave at runtime.
func (s *Settings) Validate() error {
	cfg := contractModel.ErrConfiguration
	c := s.Chunking
	switch {
	case c.ChunkSize <= 0:
		return goerr.Wrap(cfg, "chunk size must be positive", goerr.V("chunk_size", c.ChunkSize))
	case c.Overlap < 0:
		return goerr.Wrap(cfg, "overlap must not be negative", goerr.V("overlap", c.Overlap))
	case c.Overlap >= c.ChunkSize:
		return goerr.Wrap(cfg, "overlap must be smaller than chunk size",
			goerr.V("chunk_size", c.ChunkSize), goerr.V("overlap", c.Overlap))
	}

	d := s.Dedup
	if d.SimilarityThreshold < -1 || d.SimilarityThreshold > 1 {
		return goerr.Wrap(cfg, "similarity threshold must be within [-1, 1]", goerr.V("threshold", d.SimilarityThreshold))
	}
	if d.SimilarityTopK <= 0 || d.LookupConcurrency <= 0 {
		return goerr.Wrap(cfg, "dedup top-k and concurrency must be positive",
			goerr.V("top_k", d.SimilarityTopK), goerr.V("concurrency", d.LookupConcurrency))
	}
	if s.Retrieval.TopK <= 0 {
		return goerr.Wrap(cfg, "retrieval top-k must be positive", goerr.V("top_k", s.Retrieval.TopK))
	}
	if s.Embedding.Dimension <= 0 || s.Embedding.BatchCeiling <= 0 || s.VectorStore.UpsertBatchSize <= 0 {
		return goerr.Wrap(cfg, "dimension and batch sizes must be positive",
			goerr.V("dimension", s.Embedding.Dimension),
			goerr.V("batch_ceiling", s.Embedding.BatchCeiling),
			goerr.V("upsert_batch_size", s.VectorStore.UpsertBatchSize))
	}

	switch s.VectorStore.Backend {
	case VectorBackendQdrant, VectorBackendPgvector, VectorBackendMemory:
	default:
		return goerr.Wrap(cfg, "unknown vector backend", goerr.V("backend", s.VectorStore.Backend))
	}
	if s.VectorStore.IndexName == "" {
		return goerr.Wrap(cfg, "index name is required")
	}

	if err := s.checkProvider("embedding", s.Embedding.Provider); err != nil {
		return err
	}
	return s.checkProvider("llm", s.LLM.Provider)
}

func (s *Settings) checkProvider(role, provider string) error {
	var key string
	switch provider {
	case ProviderGoogle:
		key = s.GoogleAPIKey
	case ProviderOpenAI:
		key = s.OpenAIAPIKey
	default:
		return goerr.Wrap(contractModel.ErrConfiguration, "unknown provider",
			goerr.V("role", role), goerr.V("provider", provider))
	}
	if key == "" {
		return goerr.Wrap(contractModel.ErrConfiguration, "missing API key for provider",
			goerr.V("role", role), goerr.V("provider", provider))
	}
	return nil
}

func defaultSettings() *Settings {
	return &Settings{
		Prod:   IS_PROD,
		Server: ServerSettings{ListenAddr: ServerListenAddr},
		Chunking: ChunkingSettings{
			ChunkSize: ChunkSize,
			Overlap:   ChunkOverlap,
			Encoding:  TokenEncoding,
		},
		Dedup: DedupSettings{
			SimilarityThreshold: SimilarityThreshold,
			SimilarityTopK:      SimilarityTopK,
			LookupConcurrency:   DedupLookupConcurrency,
		},
		Retrieval: RetrievalSettings{TopK: RetrievalTopK},
		Embedding: EmbeddingSettings{
			Provider:     ProviderGoogle,
			Dimension:    int(EmbeddingOutputDimensionality),
			BatchCeiling: EmbeddingBatchCeiling,
		},
		LLM: LLMSettings{Provider: ProviderGoogle},
		VectorStore: VectorStoreSettings{
			Backend:         VectorBackendQdrant,
			IndexName:       IndexName,
			UpsertBatchSize: UpsertBatchSize,
			Qdrant: QdrantSettings{
				Host:   QdrantHost,
				Port:   QdrantGrpcPort,
				UseTLS: QdrantUseTLS,
			},
			Postgres: PostgresSettings{DSN: PostgresDSN, MaxConns: PostgresMaxConns},
		},
		Redis: RedisSettings{Addr: RedisAddr, DB: RedisJobStore},
	}
}

// applyConfigDefaults fills fields that depend on other settings.
func applyConfigDefaults(cfg *Settings) {
	if cfg.Chunking.Encoding == "" {
		cfg.Chunking.Encoding = TokenEncoding
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = GoogleEmbeddingModel
		if cfg.Embedding.Provider == ProviderOpenAI {
			cfg.Embedding.Model = OpenAIEmbeddingModel
		}
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = GeminiModelName
		if cfg.LLM.Provider == ProviderOpenAI {
			cfg.LLM.Model = OpenAIChatModel
		}
	}
}

func applyEnv(cfg *Settings) {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString("QDRANT_HOST", &cfg.VectorStore.Qdrant.Host)
	setString("QDRANT_API_KEY", &cfg.VectorStore.Qdrant.APIKey)
	setString("DATABASE_URL", &cfg.VectorStore.Postgres.DSN)
	setString("REDIS_ADDR", &cfg.Redis.Addr)
	setString("REDIS_PASSWORD", &cfg.Redis.Password)
	setString("OPENAI_API_KEY", &cfg.OpenAIAPIKey)
	setString("GOOGLE_API_KEY", &cfg.GoogleAPIKey)
	setString("VECTOR_BACKEND", &cfg.VectorStore.Backend)

	if v := os.Getenv("QDRANT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.VectorStore.Qdrant.Port = port
		}
	}
	// a provider switch also resets the default model for that provider
	if v := os.Getenv("EMBEDDING_PROVIDER"); v != "" && v != cfg.Embedding.Provider {
		cfg.Embedding.Provider = v
		cfg.Embedding.Model = ""
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" && v != cfg.LLM.Provider {
		cfg.LLM.Provider = v
		cfg.LLM.Model = ""
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Prod = strings.EqualFold(v, "production") || strings.EqualFold(v, "prod")
	}
	applyConfigDefaults(cfg)
}
