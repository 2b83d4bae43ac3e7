package dedup

import (
	"context"
	"sync"

	"github.com/akolanti/ContractRAG/internal/metrics"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// SimilarityDeduplicator flags new vectors that are near-duplicates of
// vectors already in the store. New vectors are not compared with each other.
type SimilarityDeduplicator struct {
	store       vectorDB.Store
	threshold   float32
	topK        int
	concurrency int
}

func NewSimilarityDeduplicator(store vectorDB.Store, threshold float32, topK, concurrency int) *SimilarityDeduplicator {
	return &SimilarityDeduplicator{
		store:       store,
		threshold:   threshold,
		topK:        max(1, topK),
		concurrency: max(1, concurrency),
	}
}

// DuplicateIndices maps the index of every duplicate vector to the best
// neighbour score that exceeded the threshold.
func (d *SimilarityDeduplicator) DuplicateIndices(ctx context.Context, vectors [][]float32) (map[int]float32, error) {
	defer metrics.Track("similarity_check")()

	var (
		mu   sync.Mutex
		dups = map[int]float32{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, vec := range vectors {
		g.Go(func() error {
			hits, err := d.store.Query(gctx, vec, d.topK)
			if err != nil {
				return goerr.Wrap(err, "similarity lookup failed", goerr.V("index", i))
			}
			for _, h := range hits {
				if h.Score > d.threshold {
					mu.Lock()
					if best, ok := dups[i]; !ok || h.Score > best {
						dups[i] = h.Score
					}
					mu.Unlock()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dups, nil
}
