package embedding_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/rag/embedding"
	"github.com/m-mizutani/gt"
)

type mockEmbedder struct {
	OnBatch func(ctx context.Context, chunks []string) ([][]float32, error)
	calls   [][]string
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, q string) ([]float32, error) {
	vs, err := m.BatchEmbedding(ctx, []string{q})
	if err != nil {
		return nil, err
	}
	return vs[0], nil
}

func (m *mockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	m.calls = append(m.calls, chunks)
	return m.OnBatch(ctx, chunks)
}

// lengthVectors encodes each text's length so order can be checked.
func lengthVectors(_ context.Context, chunks []string) ([][]float32, error) {
	out := make([][]float32, len(chunks))
	for i, c := range chunks {
		out[i] = []float32{float32(len(c)), 1}
	}
	return out, nil
}

func TestBatcher_SplitsAndKeepsOrder(t *testing.T) {
	inner := &mockEmbedder{OnBatch: lengthVectors}
	b := embedding.NewBatcher(inner, 100, 2)

	texts := make([]string, 250)
	for i := range texts {
		texts[i] = strings.Repeat("x", i+1)
	}

	vectors, err := b.BatchEmbedding(context.Background(), texts)
	gt.NoError(t, err).Required()
	gt.Array(t, vectors).Length(250).Required()
	for i, v := range vectors {
		gt.Value(t, v[0]).Equal(float32(i + 1))
	}
	gt.Value(t, len(inner.calls)).Equal(3)
	gt.Value(t, len(inner.calls[2])).Equal(50)
}

func TestBatcher_RejectsMismatchedResponses(t *testing.T) {
	testCases := []struct {
		name    string
		onBatch func(context.Context, []string) ([][]float32, error)
	}{
		{"short response", func(_ context.Context, c []string) ([][]float32, error) {
			return make([][]float32, len(c)-1), nil
		}},
		{"wrong dimension", func(_ context.Context, c []string) ([][]float32, error) {
			out := make([][]float32, len(c))
			for i := range out {
				out[i] = []float32{1, 2, 3}
			}
			return out, nil
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := embedding.NewBatcher(&mockEmbedder{OnBatch: tc.onBatch}, 10, 2)
			_, err := b.BatchEmbedding(context.Background(), []string{"a", "b"})
			gt.Error(t, err).Is(contractModel.ErrEmbeddingMismatch)
		})
	}
}

func TestBatcher_ProviderFailureAborts(t *testing.T) {
	inner := &mockEmbedder{OnBatch: func(_ context.Context, c []string) ([][]float32, error) {
		return nil, contractModel.ErrTransientProvider
	}}
	b := embedding.NewBatcher(inner, 1, 2)
	_, err := b.BatchEmbedding(context.Background(), []string{"a", "b", "c"})
	gt.Error(t, err).Is(contractModel.ErrTransientProvider)
	gt.Value(t, len(inner.calls)).Equal(1)
}

func TestBatcher_TimeoutIsTransient(t *testing.T) {
	inner := &mockEmbedder{OnBatch: func(ctx context.Context, _ []string) ([][]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	b := embedding.NewBatcher(inner, 10, 2).WithTimeout(10 * time.Millisecond)
	_, err := b.GetEmbedding(context.Background(), "query")
	gt.Error(t, err).Is(contractModel.ErrTransientProvider)
}
