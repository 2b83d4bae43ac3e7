package dedup

import (
	"context"
	"sync"

	"github.com/akolanti/ContractRAG/internal/metrics"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// HashDeduplicator finds chunk hashes that are already stored.
type HashDeduplicator struct {
	store       vectorDB.Store
	batchSize   int
	concurrency int
}

func NewHashDeduplicator(store vectorDB.Store, batchSize, concurrency int) *HashDeduplicator {
	return &HashDeduplicator{
		store:       store,
		batchSize:   max(1, batchSize),
		concurrency: max(1, concurrency),
	}
}

// ExistingHashes returns the subset of hashes present in the store, in input
// order. Any lookup failure fails the whole call; a hash is never assumed
// absent because the store could not answer.
func (d *HashDeduplicator) ExistingHashes(ctx context.Context, hashes []string) ([]string, error) {
	defer metrics.Track("hash_lookup")()

	var (
		mu    sync.Mutex
		found = make(map[string]struct{}, len(hashes))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for start := 0; start < len(hashes); start += d.batchSize {
		batch := hashes[start:min(start+d.batchSize, len(hashes))]
		g.Go(func() error {
			hits, err := d.store.Fetch(gctx, batch)
			if err != nil {
				return goerr.Wrap(err, "hash lookup failed", goerr.V("batch_len", len(batch)))
			}
			mu.Lock()
			for id := range hits {
				found[id] = struct{}{}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	existing := make([]string, 0, len(found))
	for _, h := range hashes {
		if _, ok := found[h]; ok {
			existing = append(existing, h)
		}
	}
	return existing, nil
}
