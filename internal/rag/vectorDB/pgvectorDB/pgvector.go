package pgvectorDB

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

type Options struct {
	DSN       string
	MaxConns  int32
	IndexName string
	Dimension int
	Timeout   time.Duration
}

// Store keeps vectors in a Postgres table keyed by content hash.
type Store struct {
	pool      *pgxpool.Pool
	table     string
	indexName string
	dimension int
	timeout   time.Duration
	logger    *logger_i.Logger
}

var _ vectorDB.Store = (*Store)(nil)

// New makes sure the vector extension exists, then opens a pool whose
// connections know the vector type. The pool is closed when ctx is done.
func New(ctx context.Context, opts Options) (*Store, error) {
	logger := logger_i.NewLogger("Pgvector")
	if opts.Timeout <= 0 {
		opts.Timeout = config.VectorStoreTimeout
	}

	setupCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := createExtension(setupCtx, opts.DSN); err != nil {
		return nil, err
	}

	cfg, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, goerr.Wrap(contractModel.Classify(contractModel.ErrConfiguration, err), "invalid postgres dsn")
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, goerr.Wrap(contractModel.Classify(contractModel.ErrStoreUnavailable, err), "failed to open postgres pool")
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down postgres pool")
		pool.Close()
	}()

	return &Store{
		pool:      pool,
		table:     TableName(opts.IndexName),
		indexName: opts.IndexName,
		dimension: opts.Dimension,
		timeout:   opts.Timeout,
		logger:    logger,
	}, nil
}

func createExtension(ctx context.Context, dsn string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return goerr.Wrap(contractModel.Classify(contractModel.ErrStoreUnavailable, err), "failed to connect to postgres")
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return goerr.Wrap(contractModel.Classify(contractModel.ErrStoreUnavailable, err), "failed to enable pgvector")
	}
	return nil
}

// TableName turns an index name into a safe, quoted table identifier.
func TableName(indexName string) string {
	return pgx.Identifier{baseName(indexName) + "_vectors"}.Sanitize()
}

func baseName(indexName string) string {
	return strings.ToLower(strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(indexName))
}

func (s *Store) EnsureIndex(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	indexIdent := pgx.Identifier{baseName(s.indexName) + "_embedding_idx"}.Sanitize()
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
  id          text PRIMARY KEY,
  doc_id      text NOT NULL,
  metadata    jsonb NOT NULL,
  embedding   vector(%[2]d) NOT NULL,
  created_at  timestamptz NOT NULL DEFAULT now(),
  updated_at  timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS %[3]s ON %[1]s USING hnsw (embedding vector_cosine_ops);
`, s.table, s.dimension, indexIdent)

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return s.classify(err, "failed to create vector table")
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, records []contractModel.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return s.classify(err, "failed to begin upsert")
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	stmt := fmt.Sprintf(`
INSERT INTO %s (id, doc_id, metadata, embedding, updated_at)
 VALUES ($1, $2, $3, $4, now())
 ON CONFLICT (id) DO UPDATE SET
   doc_id=EXCLUDED.doc_id,
   metadata=EXCLUDED.metadata,
   embedding=EXCLUDED.embedding,
   updated_at=now()`, s.table)

	for _, r := range records {
		if len(r.Values) != s.dimension {
			return goerr.Wrap(contractModel.ErrEmbeddingMismatch, "vector dimension mismatch",
				goerr.V("id", r.ID), goerr.V("got", len(r.Values)), goerr.V("want", s.dimension))
		}
		meta, err := json.Marshal(r.Metadata)
		if err != nil {
			return goerr.Wrap(err, "failed to encode metadata", goerr.V("id", r.ID))
		}
		if _, err := tx.Exec(ctx, stmt, r.ID, r.Metadata.DocumentID, meta, pgvector.NewVector(r.Values)); err != nil {
			return s.classify(err, "failed to upsert vector")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return s.classify(err, "failed to commit upsert")
	}
	return nil
}

func (s *Store) Fetch(ctx context.Context, ids []string) (map[string][]float32, error) {
	found := make(map[string][]float32, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, fmt.Sprintf("SELECT id, embedding FROM %s WHERE id = ANY($1)", s.table), ids)
	if err != nil {
		return nil, s.classify(err, "failed to fetch vectors")
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var vec pgvector.Vector
		if err := rows.Scan(&id, &vec); err != nil {
			return nil, s.classify(err, "failed to scan vector")
		}
		found[id] = vec.Slice()
	}
	if err := rows.Err(); err != nil {
		return nil, s.classify(err, "failed to read vectors")
	}
	return found, nil
}

func (s *Store) Query(ctx context.Context, vector []float32, k int) ([]contractModel.SearchHit, error) {
	if k <= 0 {
		return []contractModel.SearchHit{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// <=> is cosine distance, so similarity is 1 - distance
	query := fmt.Sprintf(`
SELECT id, metadata, 1 - (embedding <=> $1) AS score
  FROM %s
 ORDER BY embedding <=> $1
 LIMIT $2`, s.table)

	rows, err := s.pool.Query(ctx, query, pgvector.NewVector(vector), k)
	if err != nil {
		return nil, s.classify(err, "failed to query vectors")
	}
	defer rows.Close()

	hits := make([]contractModel.SearchHit, 0, k)
	for rows.Next() {
		var (
			id    string
			raw   []byte
			score float64
		)
		if err := rows.Scan(&id, &raw, &score); err != nil {
			return nil, s.classify(err, "failed to scan hit")
		}
		var meta contractModel.ChunkMetadata
		if err := json.Unmarshal(raw, &meta); err != nil {
			return nil, goerr.Wrap(err, "failed to decode metadata", goerr.V("id", id))
		}
		hits = append(hits, contractModel.SearchHit{ID: id, Score: float32(score), Metadata: meta})
	}
	if err := rows.Err(); err != nil {
		return nil, s.classify(err, "failed to read hits")
	}
	vectorDB.SortHits(hits)
	return hits, nil
}

func (s *Store) Stats(ctx context.Context) (contractModel.IndexStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stats := contractModel.IndexStats{
		IndexName:   s.indexName,
		Dimension:   s.dimension,
		StorageType: config.VectorBackendPgvector,
	}
	var count int64
	if err := s.pool.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s", s.table)).Scan(&count); err != nil {
		stats.Status = contractModel.IndexError
		stats.Error = err.Error()
		return stats, s.classify(err, "failed to count vectors")
	}
	stats.Status = contractModel.IndexConnected
	stats.TotalVectors = uint64(count)
	return stats, nil
}

func (s *Store) classify(err error, msg string) error {
	if errors.Is(err, context.Canceled) {
		return goerr.Wrap(err, msg, goerr.V("table", s.table))
	}
	return goerr.Wrap(contractModel.Classify(contractModel.ErrStoreUnavailable, err), msg, goerr.V("table", s.table))
}
