package openaiEmbedding_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/rag/embedding/openaiEmbedding"
	"github.com/m-mizutani/gt"
	"github.com/openai/openai-go/option"
)

type embeddingRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions"`
}

func newServer(t *testing.T, handler func(w http.ResponseWriter, req embeddingRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, req)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBatchEmbedding_OrdersByIndex(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, req embeddingRequest) {
		gt.Value(t, req.Dimensions).Equal(2)
		gt.Value(t, req.Model).Equal("text-embedding-3-small")
		// answer out of order
		data := []map[string]any{}
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{"object": "embedding", "index": i, "embedding": []float64{float64(i), 1}})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list", "model": req.Model, "data": data,
			"usage": map[string]any{"prompt_tokens": 1, "total_tokens": 1},
		})
	})

	e, err := openaiEmbedding.NewOpenAIEmbedder(srv.Client(), "text-embedding-3-small", "test-key", 2,
		option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	gt.NoError(t, err).Required()

	vectors, err := e.BatchEmbedding(context.Background(), []string{"a", "b", "c"})
	gt.NoError(t, err).Required()
	gt.Array(t, vectors).Length(3).Required()
	for i, v := range vectors {
		gt.Value(t, v[0]).Equal(float32(i))
	}
}

func TestBatchEmbedding_ServerErrorIsTransient(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ embeddingRequest) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	})

	e, err := openaiEmbedding.NewOpenAIEmbedder(srv.Client(), "text-embedding-3-small", "test-key", 2,
		option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	gt.NoError(t, err).Required()

	_, err = e.BatchEmbedding(context.Background(), []string{"a"})
	gt.Error(t, err).Is(contractModel.ErrTransientProvider)
}

func TestNewOpenAIEmbedder_RequiresKey(t *testing.T) {
	_, err := openaiEmbedding.NewOpenAIEmbedder(http.DefaultClient, "m", "", 2)
	gt.Error(t, err).Is(contractModel.ErrConfiguration)
}
