package vectorDB

import (
	"cmp"
	"context"
	"slices"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/m-mizutani/goerr/v2"
)

// Store is the vector index the pipeline reads and writes. Records are keyed
// by content hash, so an upsert of a known id overwrites instead of duplicating.
type Store interface {
	// EnsureIndex creates the index if it is missing and reuses it otherwise.
	EnsureIndex(ctx context.Context) error
	// Upsert writes records in one backend call; it either succeeds or returns an error.
	Upsert(ctx context.Context, records []contractModel.VectorRecord) error
	// Fetch returns the stored vectors for the ids that exist. Missing ids are absent from the map.
	Fetch(ctx context.Context, ids []string) (map[string][]float32, error)
	// Query returns at most k hits, highest score first.
	Query(ctx context.Context, vector []float32, k int) ([]contractModel.SearchHit, error)
	Stats(ctx context.Context) (contractModel.IndexStats, error)
}

// UpsertInBatches writes records size at a time and returns how many were
// committed. Batches before a failure stay committed.
func UpsertInBatches(ctx context.Context, store Store, records []contractModel.VectorRecord, size int) (int, error) {
	if size <= 0 {
		return 0, goerr.Wrap(contractModel.ErrConfiguration, "upsert batch size must be positive", goerr.V("size", size))
	}
	written := 0
	for start := 0; start < len(records); start += size {
		if err := ctx.Err(); err != nil {
			return written, goerr.Wrap(err, "upsert cancelled", goerr.V("written", written))
		}
		end := min(start+size, len(records))
		if err := store.Upsert(ctx, records[start:end]); err != nil {
			return written, goerr.Wrap(err, "failed to upsert batch",
				goerr.V("batch_start", start), goerr.V("batch_len", end-start))
		}
		written = end
	}
	return written, nil
}

// SortHits orders hits by descending score, breaking ties by id.
func SortHits(hits []contractModel.SearchHit) {
	slices.SortStableFunc(hits, func(a, b contractModel.SearchHit) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
