package memoryDB_test

import (
	"context"
	"testing"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB/memoryDB"
	"github.com/m-mizutani/gt"
)

func record(id string, values ...float32) contractModel.VectorRecord {
	return contractModel.VectorRecord{
		ID:       id,
		Values:   values,
		Metadata: contractModel.ChunkMetadata{DocumentID: "doc_" + id, ContentHash: id},
	}
}

func TestStore_UpsertFetchQuery(t *testing.T) {
	ctx := context.Background()
	store := memoryDB.New("contracts", 3)
	gt.NoError(t, store.EnsureIndex(ctx)).Required()

	gt.NoError(t, store.Upsert(ctx, []contractModel.VectorRecord{
		record("a", 1, 0, 0),
		record("b", 0.9, 0.1, 0),
		record("c", 0, 1, 0),
	})).Required()

	t.Run("fetch omits missing ids", func(t *testing.T) {
		found, err := store.Fetch(ctx, []string{"a", "zzz"})
		gt.NoError(t, err).Required()
		gt.Value(t, len(found)).Equal(1)
		gt.Value(t, found["a"]).Equal([]float32{1, 0, 0})
	})

	t.Run("query is sorted by descending score", func(t *testing.T) {
		hits, err := store.Query(ctx, []float32{1, 0, 0}, 3)
		gt.NoError(t, err).Required()
		gt.Array(t, hits).Length(3).Required()
		gt.Value(t, hits[0].ID).Equal("a")
		gt.Value(t, hits[1].ID).Equal("b")
		gt.Value(t, hits[2].ID).Equal("c")
		for i := 1; i < len(hits); i++ {
			gt.Bool(t, hits[i-1].Score >= hits[i].Score).True()
		}
		gt.Value(t, hits[0].Metadata.DocumentID).Equal("doc_a")
	})

	t.Run("k is clamped to stored vectors", func(t *testing.T) {
		hits, err := store.Query(ctx, []float32{0, 1, 0}, 50)
		gt.NoError(t, err).Required()
		gt.Array(t, hits).Length(3)
	})

	t.Run("non-positive k returns nothing", func(t *testing.T) {
		hits, err := store.Query(ctx, []float32{0, 1, 0}, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, hits).Length(0)
	})

	t.Run("upsert of a known id overwrites", func(t *testing.T) {
		gt.NoError(t, store.Upsert(ctx, []contractModel.VectorRecord{record("a", 0, 0, 1)})).Required()
		stats, err := store.Stats(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, stats.TotalVectors).Equal(uint64(3))
		gt.Value(t, stats.Status).Equal(contractModel.IndexConnected)
	})
}

func TestStore_RejectsWrongDimension(t *testing.T) {
	store := memoryDB.New("contracts", 3)
	err := store.Upsert(context.Background(), []contractModel.VectorRecord{record("x", 1, 2)})
	gt.Error(t, err).Is(contractModel.ErrEmbeddingMismatch)
}

type countingStore struct {
	*memoryDB.Store
	calls   int
	failAt  int
	batches []int
}

func (c *countingStore) Upsert(ctx context.Context, records []contractModel.VectorRecord) error {
	c.calls++
	if c.calls == c.failAt {
		return contractModel.ErrStoreUnavailable
	}
	c.batches = append(c.batches, len(records))
	return c.Store.Upsert(ctx, records)
}

func TestUpsertInBatches(t *testing.T) {
	ctx := context.Background()
	records := make([]contractModel.VectorRecord, 250)
	for i := range records {
		records[i] = record(string(rune('A'+i%26))+string(rune('a'+i/26)), 1, float32(i), 0)
	}

	t.Run("splits into fixed-size batches", func(t *testing.T) {
		store := &countingStore{Store: memoryDB.New("contracts", 3)}
		written, err := vectorDB.UpsertInBatches(ctx, store, records, 100)
		gt.NoError(t, err).Required()
		gt.Value(t, written).Equal(250)
		gt.Value(t, store.batches).Equal([]int{100, 100, 50})
	})

	t.Run("earlier batches stay committed after a failure", func(t *testing.T) {
		store := &countingStore{Store: memoryDB.New("contracts", 3), failAt: 2}
		written, err := vectorDB.UpsertInBatches(ctx, store, records, 100)
		gt.Error(t, err).Is(contractModel.ErrStoreUnavailable)
		gt.Value(t, written).Equal(100)
		stats, _ := store.Stats(ctx)
		gt.Value(t, stats.TotalVectors).Equal(uint64(100))
	})
}
