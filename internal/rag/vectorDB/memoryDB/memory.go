package memoryDB

import (
	"context"
	"math"
	"sync"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB"
	"github.com/m-mizutani/goerr/v2"
)

type entry struct {
	values   []float32
	metadata contractModel.ChunkMetadata
}

// Store is an in-process index using brute-force cosine similarity.
type Store struct {
	mu        sync.RWMutex
	indexName string
	dimension int
	entries   map[string]entry
}

var _ vectorDB.Store = (*Store)(nil)

func New(indexName string, dimension int) *Store {
	return &Store{
		indexName: indexName,
		dimension: dimension,
		entries:   map[string]entry{},
	}
}

func (s *Store) EnsureIndex(_ context.Context) error {
	if s.dimension <= 0 {
		return goerr.Wrap(contractModel.ErrConfiguration, "invalid dimension", goerr.V("dimension", s.dimension))
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, records []contractModel.VectorRecord) error {
	if err := ctx.Err(); err != nil {
		return goerr.Wrap(err, "upsert cancelled")
	}
	for _, r := range records {
		if len(r.Values) != s.dimension {
			return goerr.Wrap(contractModel.ErrEmbeddingMismatch, "vector dimension mismatch",
				goerr.V("id", r.ID), goerr.V("got", len(r.Values)), goerr.V("want", s.dimension))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.entries[r.ID] = entry{values: append([]float32(nil), r.Values...), metadata: r.Metadata}
	}
	return nil
}

func (s *Store) Fetch(ctx context.Context, ids []string) (map[string][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "fetch cancelled")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := make(map[string][]float32, len(ids))
	for _, id := range ids {
		if e, ok := s.entries[id]; ok {
			found[id] = e.values
		}
	}
	return found, nil
}

func (s *Store) Query(ctx context.Context, vector []float32, k int) ([]contractModel.SearchHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "query cancelled")
	}
	if k <= 0 {
		return []contractModel.SearchHit{}, nil
	}

	s.mu.RLock()
	hits := make([]contractModel.SearchHit, 0, len(s.entries))
	for id, e := range s.entries {
		hits = append(hits, contractModel.SearchHit{ID: id, Score: cosine(vector, e.values), Metadata: e.metadata})
	}
	s.mu.RUnlock()

	vectorDB.SortHits(hits)
	return hits[:min(k, len(hits))], nil
}

func (s *Store) Stats(_ context.Context) (contractModel.IndexStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return contractModel.IndexStats{
		Status:       contractModel.IndexConnected,
		TotalVectors: uint64(len(s.entries)),
		IndexName:    s.indexName,
		Dimension:    s.dimension,
		StorageType:  config.VectorBackendMemory,
	}, nil
}

func cosine(a, b []float32) float32 {
	n := min(len(a), len(b))
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
