package embedding

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/metrics"
	"github.com/m-mizutani/goerr/v2"
)

// Embedder turns text into vectors. GetEmbedding is used for queries and
// BatchEmbedding for document chunks; providers may embed the two differently.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}

// Batcher splits large inputs into provider-sized requests, sent one after
// the other so the output order matches the input. Every response is checked
// for length and dimension before it is accepted.
type Batcher struct {
	inner     Embedder
	ceiling   int
	dimension int
	timeout   time.Duration
}

var _ Embedder = (*Batcher)(nil)

func NewBatcher(inner Embedder, ceiling, dimension int) *Batcher {
	return &Batcher{
		inner:     inner,
		ceiling:   max(1, ceiling),
		dimension: dimension,
		timeout:   config.EmbeddingTimeout,
	}
}

// WithTimeout sets the per-request deadline.
func (b *Batcher) WithTimeout(d time.Duration) *Batcher {
	b.timeout = d
	return b
}

func (b *Batcher) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	defer metrics.Track("embedding")()
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	vec, err := b.inner.GetEmbedding(ctx, query)
	if err != nil {
		return nil, classify(ctx, err, "query embedding failed")
	}
	if len(vec) != b.dimension {
		return nil, goerr.Wrap(contractModel.ErrEmbeddingMismatch, "query vector has wrong dimension",
			goerr.V("got", len(vec)), goerr.V("want", b.dimension))
	}
	return vec, nil
}

func (b *Batcher) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	defer metrics.Track("embedding")()

	out := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += b.ceiling {
		end := min(start+b.ceiling, len(chunks))
		vectors, err := b.embedBatch(ctx, chunks[start:end])
		if err != nil {
			return nil, goerr.Wrap(err, "embedding batch failed", goerr.V("batch_start", start))
		}
		out = append(out, vectors...)
	}
	return out, nil
}

func (b *Batcher) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	vectors, err := b.inner.BatchEmbedding(ctx, texts)
	if err != nil {
		return nil, classify(ctx, err, "provider call failed")
	}
	if len(vectors) != len(texts) {
		return nil, goerr.Wrap(contractModel.ErrEmbeddingMismatch, "provider returned wrong number of vectors",
			goerr.V("got", len(vectors)), goerr.V("want", len(texts)))
	}
	for i, v := range vectors {
		if len(v) != b.dimension {
			return nil, goerr.Wrap(contractModel.ErrEmbeddingMismatch, "vector has wrong dimension",
				goerr.V("index", i), goerr.V("got", len(v)), goerr.V("want", b.dimension))
		}
	}
	return vectors, nil
}

// classify marks deadline expiry as transient when the provider did not
// classify the error itself.
func classify(ctx context.Context, err error, msg string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return goerr.Wrap(contractModel.Classify(contractModel.ErrTransientProvider, err), msg)
	}
	return goerr.Wrap(err, msg)
}
