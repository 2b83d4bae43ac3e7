package dedup_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/rag/dedup"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB/memoryDB"
	"github.com/m-mizutani/gt"
)

func seeded(t *testing.T, records ...contractModel.VectorRecord) *memoryDB.Store {
	t.Helper()
	store := memoryDB.New("contracts", 2)
	gt.NoError(t, store.Upsert(context.Background(), records)).Required()
	return store
}

func rec(id string, x, y float32) contractModel.VectorRecord {
	return contractModel.VectorRecord{ID: id, Values: []float32{x, y}}
}

// failingStore answers Fetch and Query with an outage after the first call.
type failingStore struct {
	*memoryDB.Store
	calls atomic.Int32
}

func (f *failingStore) Fetch(ctx context.Context, ids []string) (map[string][]float32, error) {
	if f.calls.Add(1) > 1 {
		return nil, contractModel.ErrStoreUnavailable
	}
	return f.Store.Fetch(ctx, ids)
}

func (f *failingStore) Query(ctx context.Context, v []float32, k int) ([]contractModel.SearchHit, error) {
	if f.calls.Add(1) > 1 {
		return nil, contractModel.ErrStoreUnavailable
	}
	return f.Store.Query(ctx, v, k)
}

func TestHashDeduplicator(t *testing.T) {
	ctx := context.Background()
	store := seeded(t, rec("h1", 1, 0), rec("h3", 0, 1))

	t.Run("returns stored hashes in input order", func(t *testing.T) {
		d := dedup.NewHashDeduplicator(store, 2, 4)
		existing, err := d.ExistingHashes(ctx, []string{"h3", "h2", "h1", "h4", "h5"})
		gt.NoError(t, err).Required()
		gt.Value(t, existing).Equal([]string{"h3", "h1"})
	})

	t.Run("nothing stored yields empty result", func(t *testing.T) {
		d := dedup.NewHashDeduplicator(memoryDB.New("contracts", 2), 100, 4)
		existing, err := d.ExistingHashes(ctx, []string{"a", "b"})
		gt.NoError(t, err).Required()
		gt.Array(t, existing).Length(0)
	})

	t.Run("a failed lookup fails the whole call", func(t *testing.T) {
		d := dedup.NewHashDeduplicator(&failingStore{Store: store}, 1, 1)
		_, err := d.ExistingHashes(ctx, []string{"h1", "h2", "h3"})
		gt.Error(t, err).Is(contractModel.ErrStoreUnavailable)
	})
}

func TestSimilarityDeduplicator(t *testing.T) {
	ctx := context.Background()
	store := seeded(t, rec("stored", 1, 0))

	t.Run("scores above the threshold are duplicates", func(t *testing.T) {
		d := dedup.NewSimilarityDeduplicator(store, 0.97, 3, 4)
		dups, err := d.DuplicateIndices(ctx, [][]float32{
			{1, 0},     // identical
			{0, 1},     // orthogonal
			{1, 0.1},   // ~0.995
			{1, 0.5},   // ~0.894
		})
		gt.NoError(t, err).Required()
		gt.Value(t, len(dups)).Equal(2)
		_, first := dups[0]
		_, third := dups[2]
		gt.Bool(t, first).True()
		gt.Bool(t, third).True()
	})

	t.Run("comparison is strict", func(t *testing.T) {
		d := dedup.NewSimilarityDeduplicator(store, 1.0, 3, 4)
		dups, err := d.DuplicateIndices(ctx, [][]float32{{1, 0}})
		gt.NoError(t, err).Required()
		gt.Value(t, len(dups)).Equal(0)
	})

	t.Run("new vectors are not compared with each other", func(t *testing.T) {
		d := dedup.NewSimilarityDeduplicator(store, 0.97, 3, 4)
		dups, err := d.DuplicateIndices(ctx, [][]float32{{0, 1}, {0, 1}})
		gt.NoError(t, err).Required()
		gt.Value(t, len(dups)).Equal(0)
	})

	t.Run("empty store never flags", func(t *testing.T) {
		d := dedup.NewSimilarityDeduplicator(memoryDB.New("contracts", 2), 0.97, 3, 4)
		dups, err := d.DuplicateIndices(ctx, [][]float32{{1, 0}})
		gt.NoError(t, err).Required()
		gt.Value(t, len(dups)).Equal(0)
	})

	t.Run("a failed query fails the whole call", func(t *testing.T) {
		d := dedup.NewSimilarityDeduplicator(&failingStore{Store: store}, 0.97, 3, 1)
		_, err := d.DuplicateIndices(ctx, [][]float32{{1, 0}, {0, 1}})
		gt.Error(t, err).Is(contractModel.ErrStoreUnavailable)
	})
}
