// Package embeddingtest provides a deterministic embedder for tests.
package embeddingtest

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"sync"
)

// HashEmbedder embeds text by signed feature hashing of its words, so texts
// sharing no words are close to orthogonal. Overrides pin exact vectors for
// chosen texts.
type HashEmbedder struct {
	Dim       int
	Overrides map[string][]float32

	mu    sync.Mutex
	Calls int
	Texts int
}

func New(dim int) *HashEmbedder {
	return &HashEmbedder{Dim: dim, Overrides: map[string][]float32{}}
}

func (h *HashEmbedder) GetEmbedding(_ context.Context, query string) ([]float32, error) {
	h.record(1)
	return h.embed(query), nil
}

func (h *HashEmbedder) BatchEmbedding(_ context.Context, chunks []string) ([][]float32, error) {
	h.record(len(chunks))
	out := make([][]float32, len(chunks))
	for i, c := range chunks {
		out[i] = h.embed(c)
	}
	return out, nil
}

func (h *HashEmbedder) record(texts int) {
	h.mu.Lock()
	h.Calls++
	h.Texts += texts
	h.mu.Unlock()
}

func (h *HashEmbedder) embed(text string) []float32 {
	if v, ok := h.Overrides[text]; ok {
		return append([]float32(nil), v...)
	}
	vec := make([]float64, h.Dim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		f := fnv.New64a()
		_, _ = f.Write([]byte(word))
		sum := f.Sum64()
		sign := 1.0
		if sum&(1<<63) != 0 {
			sign = -1
		}
		vec[sum%uint64(h.Dim)] += sign
	}
	return normalize(vec)
}

func normalize(v []float64) []float32 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	out := make([]float32, len(v))
	if norm == 0 {
		out[0] = 1
		return out
	}
	norm = math.Sqrt(norm)
	for i, x := range v {
		out[i] = float32(x / norm)
	}
	return out
}
