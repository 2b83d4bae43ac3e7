package rag_test

import (
	"context"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/rag/embedding/embeddingtest"
	"github.com/akolanti/ContractRAG/internal/rag/llm"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB/memoryDB"
)

const testDim = 64

// MockStore implements vectorDB.Store. Unset hooks fall through to an
// in-memory index.
type MockStore struct {
	inner *memoryDB.Store

	OnFetch  func(ctx context.Context, ids []string) (map[string][]float32, error)
	OnQuery  func(ctx context.Context, vector []float32, k int) ([]contractModel.SearchHit, error)
	OnUpsert func(ctx context.Context, records []contractModel.VectorRecord) error
	OnStats  func(ctx context.Context) (contractModel.IndexStats, error)
}

func NewMockStore() *MockStore {
	return &MockStore{inner: memoryDB.New("contracts-test", testDim)}
}

func (m *MockStore) EnsureIndex(ctx context.Context) error {
	return m.inner.EnsureIndex(ctx)
}

func (m *MockStore) Upsert(ctx context.Context, records []contractModel.VectorRecord) error {
	if m.OnUpsert != nil {
		return m.OnUpsert(ctx, records)
	}
	return m.inner.Upsert(ctx, records)
}

func (m *MockStore) Fetch(ctx context.Context, ids []string) (map[string][]float32, error) {
	if m.OnFetch != nil {
		return m.OnFetch(ctx, ids)
	}
	return m.inner.Fetch(ctx, ids)
}

func (m *MockStore) Query(ctx context.Context, vector []float32, k int) ([]contractModel.SearchHit, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, vector, k)
	}
	return m.inner.Query(ctx, vector, k)
}

func (m *MockStore) Stats(ctx context.Context) (contractModel.IndexStats, error) {
	if m.OnStats != nil {
		return m.OnStats(ctx)
	}
	return m.inner.Stats(ctx)
}

// MockEmbedder implements embedding.Embedder with deterministic vectors by
// default.
type MockEmbedder struct {
	hashing *embeddingtest.HashEmbedder

	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{hashing: embeddingtest.New(testDim)}
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return m.hashing.GetEmbedding(ctx, query)
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	return m.hashing.BatchEmbedding(ctx, chunks)
}

// MockLLM implements llm.Provider.
type MockLLM struct {
	OnGenerate func(ctx context.Context, req llm.GenerationRequest) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, req llm.GenerationRequest) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, req)
	}
	return `{"risky_clauses":[],"missing_protections":[],"overall_risk_score":3,"summary":"mocked analysis","notes":[]}`, nil
}
